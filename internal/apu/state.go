package apu

// State is a gob-encodable snapshot of all five channels and the
// frame counter. The pending sample buffer and memory-reader callback
// are transient audio-pipeline plumbing, not NES state, so they are
// excluded and left to refill on the next Step.
type State struct {
	Pulse1   PulseChannel
	Pulse2   PulseChannel
	Triangle TriangleChannel
	Noise    NoiseChannel
	DMC      DMCChannel

	FrameCounter     uint16
	FrameMode        bool
	FrameIRQEnable   bool
	FrameCounterStep uint8
	FrameIRQFlag     bool

	ChannelEnable [5]bool

	SampleRate       int
	CPUFrequency     float64
	CycleAccumulator float64
	Cycles           uint64

	DMCStallReq bool
}

// Snapshot captures all channel registers and the frame counter.
func (apu *APU) Snapshot() State {
	return State{
		Pulse1: apu.pulse1, Pulse2: apu.pulse2,
		Triangle: apu.triangle, Noise: apu.noise, DMC: apu.dmc,
		FrameCounter: apu.frameCounter, FrameMode: apu.frameMode,
		FrameIRQEnable: apu.frameIRQEnable, FrameCounterStep: apu.frameCounterStep,
		FrameIRQFlag:  apu.frameIRQFlag,
		ChannelEnable: apu.channelEnable,
		SampleRate:    apu.sampleRate, CPUFrequency: apu.cpuFrequency,
		CycleAccumulator: apu.cycleAccumulator, Cycles: apu.cycles,
		DMCStallReq: apu.dmcStallReq,
	}
}

// Restore replaces all channel registers and the frame counter with a
// previously captured snapshot.
func (apu *APU) Restore(s State) {
	apu.pulse1, apu.pulse2 = s.Pulse1, s.Pulse2
	apu.triangle, apu.noise, apu.dmc = s.Triangle, s.Noise, s.DMC
	apu.frameCounter, apu.frameMode = s.FrameCounter, s.FrameMode
	apu.frameIRQEnable, apu.frameCounterStep = s.FrameIRQEnable, s.FrameCounterStep
	apu.frameIRQFlag = s.FrameIRQFlag
	apu.channelEnable = s.ChannelEnable
	apu.sampleRate, apu.cpuFrequency = s.SampleRate, s.CPUFrequency
	apu.cycleAccumulator, apu.cycles = s.CycleAccumulator, s.Cycles
	apu.dmcStallReq = s.DMCStallReq
}
