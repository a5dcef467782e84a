package bus

import (
	"gones/internal/cartridge"
	"gones/internal/input"
)

// FrameOutput is the video/audio payload produced by one StepFrame call.
type FrameOutput struct {
	Video [256 * 240]uint32
	Audio []float32
}

// Console is the embedder-facing facade over a Bus: load a cartridge,
// feed button state, and pull one frame of video/audio at a time.
type Console struct {
	bus *Bus
}

// NewConsole wires CPU, PPU, APU, Memory and Input around cart and
// resets the machine to its power-up state.
func NewConsole(cart *cartridge.Cartridge) *Console {
	b := New()
	b.LoadCartridge(cart)
	return &Console{bus: b}
}

// Reset performs a soft reset of every component.
func (c *Console) Reset() {
	c.bus.Reset()
}

// SetButtons sets controller 1's button state from a packed bitmask in
// NES shift-register order (A,B,Select,Start,Up,Down,Left,Right).
func (c *Console) SetButtons(mask uint8) {
	var buttons [8]bool
	for i := range buttons {
		buttons[i] = mask&(1<<uint(i)) != 0
	}
	c.bus.Input.SetButtons1(buttons)
}

// SetButtons2 sets controller 2's button state the same way.
func (c *Console) SetButtons2(mask uint8) {
	var buttons [8]bool
	for i := range buttons {
		buttons[i] = mask&(1<<uint(i)) != 0
	}
	c.bus.Input.SetButtons2(buttons)
}

// SetButton sets a single controller button directly.
func (c *Console) SetButton(controller int, button input.Button, pressed bool) {
	c.bus.SetControllerButton(controller, button, pressed)
}

// StepFrame runs the console until one video frame completes and
// returns that frame's pixels alongside the audio samples generated
// while producing it.
func (c *Console) StepFrame() FrameOutput {
	startFrame := c.bus.GetFrameCount()
	for c.bus.GetFrameCount() == startFrame {
		c.bus.Step()
	}
	return FrameOutput{
		Video: c.bus.PPU.GetFrameBuffer(),
		Audio: c.bus.GetAudioSamples(),
	}
}

// Halted reports whether the CPU has executed a JAM/KIL opcode and
// stopped fetching instructions.
func (c *Console) Halted() bool {
	return c.bus.CPU.Halted()
}

// AsConsole wraps an already-constructed Bus as a Console, for callers
// that manage their own Bus lifecycle directly (the application
// shell's save-state and debug-accessor paths need the raw Bus
// alongside StepFrame's frame-accurate loop) rather than going through
// NewConsole's own Bus construction.
func (b *Bus) AsConsole() *Console {
	return &Console{bus: b}
}

// Bus exposes the underlying Bus for callers that need lower-level
// access (save states, diagnostics, host frontends).
func (c *Console) Bus() *Bus {
	return c.bus
}
