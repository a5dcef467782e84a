package memory

// State is a gob-encodable snapshot of CPU-visible RAM and the
// open-bus latch. PPU/APU/input/cartridge state is snapshotted by
// their own packages.
type State struct {
	RAM          [0x800]uint8
	OpenBusValue uint8
}

// Snapshot captures the 2 KiB internal RAM and open-bus latch.
func (m *Memory) Snapshot() State {
	return State{RAM: m.ram, OpenBusValue: m.openBusValue}
}

// Restore replaces internal RAM and the open-bus latch with a
// previously captured snapshot.
func (m *Memory) Restore(s State) {
	m.ram = s.RAM
	m.openBusValue = s.OpenBusValue
}

// PPUState is a gob-encodable snapshot of the PPU's nametable and
// palette RAM, the part of PPU address space memory.PPUMemory owns.
type PPUState struct {
	VRAM       [0x1000]uint8
	PaletteRAM [32]uint8
}

// Snapshot captures nametable and palette RAM.
func (pm *PPUMemory) Snapshot() PPUState {
	return PPUState{VRAM: pm.vram, PaletteRAM: pm.paletteRAM}
}

// Restore replaces nametable and palette RAM with a previously
// captured snapshot.
func (pm *PPUMemory) Restore(s PPUState) {
	pm.vram = s.VRAM
	pm.paletteRAM = s.PaletteRAM
}
