// Package cartridge implements iNES ROM loading and the cartridge mapper
// abstraction (bank switching, mirroring, scanline IRQ).
package cartridge

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// Sentinel errors returned by Load. Callers compare with errors.Is.
var (
	ErrBadHeader         = errors.New("cartridge: bad iNES header")
	ErrTruncated         = errors.New("cartridge: truncated ROM data")
	ErrUnsupportedMapper = errors.New("cartridge: unsupported mapper")
)

// MirrorMode represents nametable mirroring mode.
type MirrorMode uint8

const (
	MirrorHorizontal MirrorMode = iota
	MirrorVertical
	MirrorSingleScreen0
	MirrorSingleScreen1
	MirrorFourScreen
)

// Mapper is the interface every cartridge bank-switching variant
// implements. The PPU calls OnCHRAccess for every CHR fetch so mappers
// that watch the CHR address bus (MMC3's A12 edge detector) can react.
type Mapper interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	Mirroring() MirrorMode
	OnCHRAccess(address uint16)
	PollIRQ() bool
}

// Cartridge owns the PRG/CHR data and the selected mapper.
type Cartridge struct {
	prgROM []uint8
	chrROM []uint8 // CHR RAM lives in this same slice when hasCHRRAM is set

	mapperID uint8
	mapper   Mapper

	headerMirror MirrorMode
	fourScreen   bool

	hasBattery bool
	hasCHRRAM  bool
	sram       [0x2000]uint8
}

type iNESHeader struct {
	Magic      [4]uint8
	PRGROMSize uint8
	CHRROMSize uint8
	Flags6     uint8
	Flags7     uint8
	PRGRAMSize uint8
	TVSystem1  uint8
	TVSystem2  uint8
	Padding    [5]uint8
}

// Load parses an iNES image from raw bytes, per spec §6.
func Load(data []byte) (*Cartridge, error) {
	r := newByteReader(data)

	var header iNESHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTruncated, err)
	}

	if string(header.Magic[:]) != "NES\x1a" {
		return nil, fmt.Errorf("%w: magic %q", ErrBadHeader, header.Magic)
	}
	if header.PRGROMSize == 0 {
		return nil, fmt.Errorf("%w: zero PRG ROM size", ErrBadHeader)
	}

	cart := &Cartridge{
		mapperID:   (header.Flags6 >> 4) | (header.Flags7 & 0xF0),
		hasBattery: header.Flags6&0x02 != 0,
		fourScreen: header.Flags6&0x08 != 0,
	}
	switch {
	case cart.fourScreen:
		cart.headerMirror = MirrorFourScreen
	case header.Flags6&0x01 != 0:
		cart.headerMirror = MirrorVertical
	default:
		cart.headerMirror = MirrorHorizontal
	}

	if header.Flags6&0x04 != 0 {
		if _, err := io.CopyN(io.Discard, r, 512); err != nil {
			return nil, fmt.Errorf("%w: trainer: %v", ErrTruncated, err)
		}
	}

	prgSize := int(header.PRGROMSize) * 16384
	cart.prgROM = make([]uint8, prgSize)
	if _, err := io.ReadFull(r, cart.prgROM); err != nil {
		return nil, fmt.Errorf("%w: PRG ROM: %v", ErrTruncated, err)
	}

	chrSize := int(header.CHRROMSize) * 8192
	if chrSize > 0 {
		cart.chrROM = make([]uint8, chrSize)
		if _, err := io.ReadFull(r, cart.chrROM); err != nil {
			return nil, fmt.Errorf("%w: CHR ROM: %v", ErrTruncated, err)
		}
	} else {
		cart.chrROM = make([]uint8, 8192)
		cart.hasCHRRAM = true
	}

	mapper, err := newMapper(cart.mapperID, cart)
	if err != nil {
		return nil, err
	}
	cart.mapper = mapper

	glog.V(1).Infof("cartridge: mapper %d, prg=%dKiB chr=%dKiB chrRAM=%t mirror=%v",
		cart.mapperID, len(cart.prgROM)/1024, len(cart.chrROM)/1024, cart.hasCHRRAM, cart.headerMirror)

	return cart, nil
}

func newMapper(id uint8, cart *Cartridge) (Mapper, error) {
	switch id {
	case 0:
		return newMapper0(cart), nil
	case 1:
		return newMapper1(cart), nil
	case 4:
		return newMapper4(cart), nil
	default:
		return nil, fmt.Errorf("%w: mapper %d", ErrUnsupportedMapper, id)
	}
}

func (c *Cartridge) ReadPRG(address uint16) uint8         { return c.mapper.ReadPRG(address) }
func (c *Cartridge) WritePRG(address uint16, value uint8) { c.mapper.WritePRG(address, value) }
func (c *Cartridge) ReadCHR(address uint16) uint8         { return c.mapper.ReadCHR(address) }
func (c *Cartridge) WriteCHR(address uint16, value uint8) { c.mapper.WriteCHR(address, value) }
func (c *Cartridge) Mirroring() MirrorMode                { return c.mapper.Mirroring() }
func (c *Cartridge) OnCHRAccess(address uint16)           { c.mapper.OnCHRAccess(address) }
func (c *Cartridge) PollIRQ() bool                        { return c.mapper.PollIRQ() }

// MapperID returns the iNES mapper number, mostly for diagnostics.
func (c *Cartridge) MapperID() uint8 { return c.mapperID }

// HasBattery reports whether PRG-RAM is battery backed (save-state relevant).
func (c *Cartridge) HasBattery() bool { return c.hasBattery }

// SRAM exposes the 8 KiB PRG-RAM window for save-state snapshotting.
func (c *Cartridge) SRAM() *[0x2000]uint8 { return &c.sram }

// CHRRAM exposes CHR memory for save-state snapshotting when it is RAM.
func (c *Cartridge) CHRRAM() []uint8 {
	if !c.hasCHRRAM {
		return nil
	}
	return c.chrROM
}

// byteReader is a tiny io.Reader over a byte slice; avoids pulling in
// bytes.Reader's extra surface for this one-shot sequential parse.
type byteReader struct {
	data []byte
	pos  int
}

func newByteReader(data []byte) *byteReader { return &byteReader{data: data} }

func (r *byteReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}
