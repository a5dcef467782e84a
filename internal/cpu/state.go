package cpu

// State is a gob-encodable snapshot of everything about the CPU that
// affects future execution. The instruction table is derived at New
// and carries no state, so it is excluded.
type State struct {
	A, X, Y, SP uint8
	PC          uint16
	C, Z, I, D, B, V, N bool
	Cycles         uint64
	NMIPending     bool
	IRQPending     bool
	NMIPrevious    bool
	InterruptDelay bool
	Halted         bool
}

// Snapshot captures the CPU's register and interrupt-latch state.
func (c *CPU) Snapshot() State {
	return State{
		A: c.A, X: c.X, Y: c.Y, SP: c.SP, PC: c.PC,
		C: c.C, Z: c.Z, I: c.I, D: c.D, B: c.B, V: c.V, N: c.N,
		Cycles:         c.cycles,
		NMIPending:     c.nmiPending,
		IRQPending:     c.irqPending,
		NMIPrevious:    c.nmiPrevious,
		InterruptDelay: c.interruptDelay,
		Halted:         c.halted,
	}
}

// Restore replaces the CPU's register and interrupt-latch state with a
// previously captured snapshot. The instruction table and memory
// interface installed at New are left untouched.
func (c *CPU) Restore(s State) {
	c.A, c.X, c.Y, c.SP, c.PC = s.A, s.X, s.Y, s.SP, s.PC
	c.C, c.Z, c.I, c.D, c.B, c.V, c.N = s.C, s.Z, s.I, s.D, s.B, s.V, s.N
	c.cycles = s.Cycles
	c.nmiPending = s.NMIPending
	c.irqPending = s.IRQPending
	c.nmiPrevious = s.NMIPrevious
	c.interruptDelay = s.InterruptDelay
	c.halted = s.Halted
}
