package cartridge

// Mapper1State is a gob-encodable snapshot of MMC1's shift register
// and the four internal registers it serially loads.
type Mapper1State struct {
	Shift          uint8
	ShiftCount     uint8
	Control        uint8
	CHR0           uint8
	CHR1           uint8
	PRG            uint8
	PRGRAMDisabled bool
}

// Mapper4State is a gob-encodable snapshot of MMC3's bank registers,
// mirroring latch and scanline IRQ counter.
type Mapper4State struct {
	BankSelect    uint8
	Regs          [8]uint8
	Mirror        MirrorMode
	PRGRAMEnabled bool
	PRGRAMWrite   bool
	IRQLatch      uint8
	IRQCounter    uint8
	IRQReload     bool
	IRQEnabled    bool
	IRQPending    bool
	LastA12High   bool
}

// State is a gob-encodable snapshot of a cartridge: its PRG-RAM, CHR
// RAM (when present) and the active mapper's bank-switching state. PRG
// and CHR ROM are immutable and are not part of the snapshot; Load
// re-reads them from the ROM image.
type State struct {
	SRAM    [0x2000]uint8
	CHRRAM  []uint8
	Mapper1 *Mapper1State
	Mapper4 *Mapper4State
}

// Snapshot captures PRG-RAM, CHR RAM and the active mapper's bank
// state.
func (c *Cartridge) Snapshot() State {
	s := State{SRAM: c.sram}
	if c.hasCHRRAM {
		s.CHRRAM = append([]uint8(nil), c.chrROM...)
	}
	switch m := c.mapper.(type) {
	case *mapper1:
		s.Mapper1 = &Mapper1State{
			Shift: m.shift, ShiftCount: m.shiftCount,
			Control: m.control, CHR0: m.chr0, CHR1: m.chr1, PRG: m.prg,
			PRGRAMDisabled: m.prgRAMDisabled,
		}
	case *mapper4:
		s.Mapper4 = &Mapper4State{
			BankSelect: m.bankSelect, Regs: m.regs, Mirror: m.mirror,
			PRGRAMEnabled: m.prgRAMEnabled, PRGRAMWrite: m.prgRAMWrite,
			IRQLatch: m.irqLatch, IRQCounter: m.irqCounter, IRQReload: m.irqReload,
			IRQEnabled: m.irqEnabled, IRQPending: m.irqPending, LastA12High: m.lastA12High,
		}
	}
	return s
}

// Restore replaces PRG-RAM, CHR RAM and the active mapper's bank state
// with a previously captured snapshot.
func (c *Cartridge) Restore(s State) {
	c.sram = s.SRAM
	if c.hasCHRRAM && s.CHRRAM != nil {
		copy(c.chrROM, s.CHRRAM)
	}
	switch m := c.mapper.(type) {
	case *mapper1:
		if s.Mapper1 == nil {
			return
		}
		m.shift, m.shiftCount = s.Mapper1.Shift, s.Mapper1.ShiftCount
		m.control, m.chr0, m.chr1, m.prg = s.Mapper1.Control, s.Mapper1.CHR0, s.Mapper1.CHR1, s.Mapper1.PRG
		m.prgRAMDisabled = s.Mapper1.PRGRAMDisabled
	case *mapper4:
		if s.Mapper4 == nil {
			return
		}
		m.bankSelect, m.regs, m.mirror = s.Mapper4.BankSelect, s.Mapper4.Regs, s.Mapper4.Mirror
		m.prgRAMEnabled, m.prgRAMWrite = s.Mapper4.PRGRAMEnabled, s.Mapper4.PRGRAMWrite
		m.irqLatch, m.irqCounter, m.irqReload = s.Mapper4.IRQLatch, s.Mapper4.IRQCounter, s.Mapper4.IRQReload
		m.irqEnabled, m.irqPending, m.lastA12High = s.Mapper4.IRQEnabled, s.Mapper4.IRQPending, s.Mapper4.LastA12High
	}
}
