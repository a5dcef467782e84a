// Package memory implements the CPU and PPU address space decoding for
// the NES: internal RAM, PPU/APU register windows, controller ports,
// and the cartridge PRG/CHR windows behind them.
package memory

import (
	"gones/internal/cartridge"

	"github.com/golang/glog"
)

// MirrorMode is an alias for the cartridge package's mirroring enum so
// callers of PPUMemory don't need to import cartridge directly.
type MirrorMode = cartridge.MirrorMode

const (
	MirrorHorizontal    = cartridge.MirrorHorizontal
	MirrorVertical      = cartridge.MirrorVertical
	MirrorSingleScreen0 = cartridge.MirrorSingleScreen0
	MirrorSingleScreen1 = cartridge.MirrorSingleScreen1
	MirrorFourScreen    = cartridge.MirrorFourScreen
)

// Memory implements the CPU's view of the NES address space.
type Memory struct {
	ram [0x800]uint8

	ppuRegisters PPUInterface
	apuRegisters APUInterface
	inputSystem  InputInterface
	cartridge    CartridgeInterface

	dmaCallback func(uint8)

	// openBusValue is the last byte that appeared on the data bus; reads
	// from unmapped regions return it instead of zero.
	openBusValue uint8
}

// PPUMemory implements the PPU's view of its own address space
// ($0000-$3FFF): pattern tables through the cartridge, nametables with
// mapper-driven mirroring, and palette RAM.
type PPUMemory struct {
	vram       [0x1000]uint8
	paletteRAM [32]uint8
	cartridge  CartridgeInterface
}

// PPUInterface defines the interface for PPU register access from the CPU bus.
type PPUInterface interface {
	ReadRegister(address uint16) uint8
	WriteRegister(address uint16, value uint8)
}

// APUInterface defines the interface for APU register access from the CPU bus.
type APUInterface interface {
	WriteRegister(address uint16, value uint8)
	ReadStatus() uint8
}

// InputInterface defines the interface for controller port access.
type InputInterface interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// CartridgeInterface is the subset of *cartridge.Cartridge that the
// memory package depends on: PRG/CHR access plus the mapper hooks that
// mirroring and scanline-IRQ mappers need (MMC1 mirroring, MMC3 IRQ).
type CartridgeInterface interface {
	ReadPRG(address uint16) uint8
	WritePRG(address uint16, value uint8)
	ReadCHR(address uint16) uint8
	WriteCHR(address uint16, value uint8)
	Mirroring() MirrorMode
	OnCHRAccess(address uint16)
	PollIRQ() bool
}

// New creates a new Memory instance wired to the PPU, APU and cartridge.
func New(ppu PPUInterface, apu APUInterface, cart CartridgeInterface) *Memory {
	mem := &Memory{
		ppuRegisters: ppu,
		apuRegisters: apu,
		cartridge:    cart,
	}
	mem.initializePowerUpRAM()
	return mem
}

// SetInputSystem attaches the controller ports for $4016/$4017 access.
func (m *Memory) SetInputSystem(input InputInterface) {
	m.inputSystem = input
}

// SetDMACallback installs the handler invoked on writes to $4014 (OAM DMA).
func (m *Memory) SetDMACallback(callback func(uint8)) {
	m.dmaCallback = callback
}

// initializePowerUpRAM fills RAM with the non-zero, semi-patterned
// power-up state real NES hardware exhibits rather than all zeroes,
// since some games rely on specific power-up garbage.
func (m *Memory) initializePowerUpRAM() {
	for i := 0; i < 0x800; i++ {
		switch {
		case i < 0x100:
			if i%2 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		case i < 0x200:
			if i%16 < 2 {
				m.ram[i] = 0xFF
			} else {
				m.ram[i] = 0x00
			}
		case i < 0x300:
			if (i/8)%2 == (i%8)/4 {
				m.ram[i] = 0xAA
			} else {
				m.ram[i] = 0x55
			}
		case i < 0x400:
			if i%8 == 0 {
				m.ram[i] = 0x00
			} else {
				m.ram[i] = 0xFF
			}
		default:
			switch i % 4 {
			case 0:
				m.ram[i] = 0x00
			case 1:
				m.ram[i] = 0xFF
			case 2:
				m.ram[i] = 0xAA
			case 3:
				m.ram[i] = 0x55
			}
		}
	}
}

// Read reads a byte from the CPU address space at address.
func (m *Memory) Read(address uint16) uint8 {
	var value uint8

	switch {
	case address < 0x2000:
		value = m.ram[address&0x07FF]

	case address < 0x4000:
		value = m.ppuRegisters.ReadRegister(0x2000 + (address & 0x0007))

	case address < 0x4020:
		switch {
		case address == 0x4015:
			value = m.apuRegisters.ReadStatus()
		case address == 0x4016 || address == 0x4017:
			if m.inputSystem != nil {
				value = m.inputSystem.Read(address)
			} else {
				value = 0
			}
		default:
			// Write-only APU/IO registers: open bus.
			value = m.openBusValue
		}

	case address >= 0x6000 && address < 0x8000:
		if m.cartridge != nil {
			value = m.cartridge.ReadPRG(address)
		} else {
			value = m.openBusValue
		}

	case address < 0x8000:
		// Cartridge expansion area ($4020-$5FFF), unmapped on these boards.
		value = m.openBusValue

	default:
		if m.cartridge != nil {
			value = m.cartridge.ReadPRG(address)
		} else {
			value = m.openBusValue
		}
	}

	m.openBusValue = value
	return value
}

// Write writes a byte to the CPU address space at address.
func (m *Memory) Write(address uint16, value uint8) {
	m.openBusValue = value

	switch {
	case address < 0x2000:
		m.ram[address&0x07FF] = value

	case address < 0x4000:
		m.ppuRegisters.WriteRegister(0x2000+(address&0x0007), value)

	case address < 0x4020:
		switch {
		case address == 0x4014:
			if m.dmaCallback != nil {
				m.dmaCallback(value)
			} else {
				m.performOAMDMA(value)
			}
		case address == 0x4016:
			if m.inputSystem != nil {
				m.inputSystem.Write(address, value)
			}
		case address >= 0x4000 && address <= 0x4013, address == 0x4015, address == 0x4017:
			m.apuRegisters.WriteRegister(address, value)
		default:
			// $4018-$401F: APU/IO test mode registers, not implemented.
		}

	case address >= 0x6000 && address < 0x8000:
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}

	case address < 0x8000:
		// Cartridge expansion area, unmapped on these boards.

	default:
		if m.cartridge != nil {
			m.cartridge.WritePRG(address, value)
		}
	}
}

// performOAMDMA is the fallback path when no DMA callback is installed;
// production wiring goes through the bus so CPU cycles stall correctly.
func (m *Memory) performOAMDMA(page uint8) {
	base := uint16(page) << 8
	for i := uint16(0); i < 256; i++ {
		value := m.Read(base + i)
		m.ppuRegisters.WriteRegister(0x2004, value)
	}
}

// NewPPUMemory creates a new PPU memory instance over the given cartridge.
func NewPPUMemory(cart CartridgeInterface) *PPUMemory {
	mem := &PPUMemory{cartridge: cart}
	for i := 0; i < 32; i += 4 {
		mem.paletteRAM[i] = 0x0F
	}
	return mem
}

// Read reads from the PPU address space ($0000-$3FFF).
func (pm *PPUMemory) Read(address uint16) uint8 {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		value := pm.cartridge.ReadCHR(address)
		pm.cartridge.OnCHRAccess(address)
		return value

	case address < 0x3000:
		return pm.readNametable(address)

	case address < 0x3F00:
		return pm.readNametable(address - 0x1000)

	default:
		return pm.readPalette(address)
	}
}

// Write writes to the PPU address space ($0000-$3FFF).
func (pm *PPUMemory) Write(address uint16, value uint8) {
	address &= 0x3FFF

	switch {
	case address < 0x2000:
		pm.cartridge.WriteCHR(address, value)
		pm.cartridge.OnCHRAccess(address)

	case address < 0x3000:
		pm.writeNametable(address, value)

	case address < 0x3F00:
		pm.writeNametable(address-0x1000, value)

	default:
		pm.writePalette(address, value)
	}
}

func (pm *PPUMemory) readNametable(address uint16) uint8 {
	return pm.vram[pm.getNametableIndex(address)]
}

func (pm *PPUMemory) writeNametable(address uint16, value uint8) {
	pm.vram[pm.getNametableIndex(address)] = value
}

// getNametableIndex resolves a $2000-$2FFF address to a physical VRAM
// index according to the cartridge's current mirroring mode, which can
// change at runtime under MMC1.
func (pm *PPUMemory) getNametableIndex(address uint16) uint16 {
	address &= 0x0FFF
	nametable := (address >> 10) & 3
	offset := address & 0x3FF

	switch pm.cartridge.Mirroring() {
	case MirrorHorizontal:
		if nametable >= 2 {
			return 0x400 + offset
		}
		return offset

	case MirrorVertical:
		if nametable == 1 || nametable == 3 {
			return 0x400 + offset
		}
		return offset

	case MirrorSingleScreen0:
		return offset

	case MirrorSingleScreen1:
		return 0x400 + offset

	case MirrorFourScreen:
		if int(nametable)*0x400+int(offset) >= len(pm.vram) {
			glog.V(2).Infof("memory: four-screen nametable index out of range at $%04X", address)
			return offset
		}
		return uint16(nametable)*0x400 + offset

	default:
		return offset
	}
}

func (pm *PPUMemory) readPalette(address uint16) uint8 {
	index := paletteIndex(address)
	return pm.paletteRAM[index]
}

func (pm *PPUMemory) writePalette(address uint16, value uint8) {
	index := paletteIndex(address)
	pm.paletteRAM[index] = value
}

func paletteIndex(address uint16) uint16 {
	index := (address - 0x3F00) & 0x1F
	if index == 0x10 || index == 0x14 || index == 0x18 || index == 0x1C {
		index &= 0x0F
	}
	return index
}
