package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func buildINES(mapperID uint8, prgBanks, chrBanks uint8, mirrorVertical bool) []byte {
	flags6 := (mapperID & 0x0F) << 4
	if mirrorVertical {
		flags6 |= 0x01
	}
	header := []byte{'N', 'E', 'S', 0x1A, prgBanks, chrBanks, flags6, (mapperID & 0xF0), 0, 0, 0, 0, 0, 0, 0, 0}
	data := append(header, make([]byte, int(prgBanks)*16384)...)
	data = append(data, make([]byte, int(chrBanks)*8192)...)
	return data
}

func TestLoadRejectsBadMagic(t *testing.T) {
	data := buildINES(0, 1, 1, false)
	data[0] = 'X'
	_, err := Load(data)
	require.ErrorIs(t, err, ErrBadHeader)
}

func TestLoadRejectsTruncated(t *testing.T) {
	data := buildINES(0, 2, 1, false)
	_, err := Load(data[:20])
	require.ErrorIs(t, err, ErrTruncated)
}

func TestLoadRejectsUnsupportedMapper(t *testing.T) {
	data := buildINES(99, 1, 1, false)
	_, err := Load(data)
	require.ErrorIs(t, err, ErrUnsupportedMapper)
}

func TestMapper0MirrorsSixteenKPRG(t *testing.T) {
	data := buildINES(0, 1, 1, false)
	cart, err := Load(data)
	require.NoError(t, err)
	cart.prgROM[0] = 0xAB
	require.Equal(t, uint8(0xAB), cart.ReadPRG(0x8000))
	require.Equal(t, uint8(0xAB), cart.ReadPRG(0xC000), "16KiB PRG must mirror into the upper window")
}

func TestMapper0CHRRAMIsWritable(t *testing.T) {
	data := buildINES(0, 1, 0, false) // CHR size 0 => CHR RAM
	cart, err := Load(data)
	require.NoError(t, err)
	cart.WriteCHR(0x0010, 0x42)
	require.Equal(t, uint8(0x42), cart.ReadCHR(0x0010))
}

func TestMapper1LatchesOnFifthWrite(t *testing.T) {
	data := buildINES(1, 4, 0, false)
	cart, err := Load(data)
	require.NoError(t, err)

	// Default control ($0C) selects mirroring mode 0 (one-screen, lower bank).
	require.Equal(t, MirrorSingleScreen0, cart.Mirroring())

	// Five writes to $8000 (control register) with bits b0..b4 = 1,0,0,0,0
	// latch control = 00001 = one-screen, upper bank.
	for i := 0; i < 5; i++ {
		var bit uint8
		if i == 0 {
			bit = 1
		}
		cart.WritePRG(0x8000, bit)
	}
	require.Equal(t, MirrorSingleScreen1, cart.Mirroring())
}

func TestMapper1ResetBitClearsShift(t *testing.T) {
	data := buildINES(1, 2, 0, false)
	cart, err := Load(data)
	require.NoError(t, err)

	cart.WritePRG(0x8000, 1)
	cart.WritePRG(0x8000, 0x80) // reset mid-sequence
	for i := 0; i < 5; i++ {
		cart.WritePRG(0x8000, 1)
	}
	require.Equal(t, MirrorHorizontal, cart.Mirroring())
}

func TestMapper4PRGFixedBanksAtReset(t *testing.T) {
	data := buildINES(4, 4, 2, false)
	cart, err := Load(data)
	require.NoError(t, err)
	m := cart.mapper.(*mapper4)
	last := m.prgBanks8k - 1
	m.cart.prgROM[int(last)*0x2000] = 0x99
	require.Equal(t, uint8(0x99), cart.ReadPRG(0xE000))
}

func TestMapper4IRQFiresAfterLatchEdges(t *testing.T) {
	data := buildINES(4, 4, 2, false)
	cart, err := Load(data)
	require.NoError(t, err)

	cart.WritePRG(0xC000, 2) // irq latch = 2
	cart.WritePRG(0xC001, 0) // reload pending
	cart.WritePRG(0xE001, 0) // irq enabled

	cart.OnCHRAccess(0x0000) // low
	cart.OnCHRAccess(0x1000) // rising edge: reload to 2
	require.False(t, cart.PollIRQ())

	cart.OnCHRAccess(0x0000)
	cart.OnCHRAccess(0x1000) // decrement to 1
	require.False(t, cart.PollIRQ())

	cart.OnCHRAccess(0x0000)
	cart.OnCHRAccess(0x1000) // decrement to 0 -> pending
	require.True(t, cart.PollIRQ())

	cart.WritePRG(0xE000, 0) // ack/disable
	require.False(t, cart.PollIRQ())
}
