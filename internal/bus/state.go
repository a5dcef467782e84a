package bus

import (
	"fmt"

	"gones/internal/apu"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/memory"
	"gones/internal/ppu"
)

// State is a gob-encodable snapshot of the entire console: every
// component's register and working state plus the frame/cycle
// counters that drive timing. It does not include the cartridge's
// PRG/CHR ROM, which Load already re-reads from the ROM image.
type State struct {
	CPU       cpu.State
	PPU       ppu.State
	PPUMem    memory.PPUState
	APU       apu.State
	Memory    memory.State
	Cartridge cartridge.State

	TotalCycles uint64
	CPUCycles   uint64
	PPUCycles   uint64
	FrameCount  uint64

	DMASuspendCycles uint64
	DMAInProgress    bool
	NMIPending       bool
	OddFrame         bool
}

// Snapshot captures the full console state. The cartridge must be a
// *cartridge.Cartridge, the only Mapper-backed CartridgeInterface
// implementation this console loads; any other implementation (as
// used by unit tests) makes Snapshot return an error.
func (b *Bus) Snapshot() (State, error) {
	cart, ok := b.cartridge.(*cartridge.Cartridge)
	if !ok {
		return State{}, fmt.Errorf("bus: snapshot requires a *cartridge.Cartridge, got %T", b.cartridge)
	}

	return State{
		CPU:       b.CPU.Snapshot(),
		PPU:       b.PPU.Snapshot(),
		PPUMem:    b.PPU.Memory().Snapshot(),
		APU:       b.APU.Snapshot(),
		Memory:    b.Memory.Snapshot(),
		Cartridge: cart.Snapshot(),

		TotalCycles: b.totalCycles,
		CPUCycles:   b.cpuCycles,
		PPUCycles:   b.ppuCycles,
		FrameCount:  b.frameCount,

		DMASuspendCycles: b.dmaSuspendCycles,
		DMAInProgress:    b.dmaInProgress,
		NMIPending:       b.nmiPending,
		OddFrame:         b.oddFrame,
	}, nil
}

// Restore replaces the entire console state with a previously
// captured snapshot. The cartridge currently loaded must be the same
// one the snapshot was taken from (same mapper, same ROM).
func (b *Bus) Restore(s State) error {
	cart, ok := b.cartridge.(*cartridge.Cartridge)
	if !ok {
		return fmt.Errorf("bus: restore requires a *cartridge.Cartridge, got %T", b.cartridge)
	}

	b.CPU.Restore(s.CPU)
	b.PPU.Restore(s.PPU)
	b.PPU.Memory().Restore(s.PPUMem)
	b.APU.Restore(s.APU)
	b.Memory.Restore(s.Memory)
	cart.Restore(s.Cartridge)

	b.totalCycles = s.TotalCycles
	b.cpuCycles = s.CPUCycles
	b.ppuCycles = s.PPUCycles
	b.frameCount = s.FrameCount

	b.dmaSuspendCycles = s.DMASuspendCycles
	b.dmaInProgress = s.DMAInProgress
	b.nmiPending = s.NMIPending
	b.oddFrame = s.OddFrame
	return nil
}
