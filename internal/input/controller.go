// Package input implements standard NES controller port emulation.
package input

import "github.com/golang/glog"

// Button represents NES controller buttons.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Short aliases matching common controller-mapping code.
const (
	A      = ButtonA
	B      = ButtonB
	Select = ButtonSelect
	Start  = ButtonStart
	Up     = ButtonUp
	Down   = ButtonDown
	Left   = ButtonLeft
	Right  = ButtonRight
)

// Controller models a single standard NES controller: an 8-bit button
// latch and the shift register the game reads one bit at a time
// through $4016/$4017.
type Controller struct {
	buttons uint8

	shiftRegister uint8
	strobe        bool

	buttonSnapshot uint8
	bitPosition    uint8
}

// New creates a new Controller instance.
func New() *Controller {
	return &Controller{}
}

// SetButton sets the state of a single button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons sets all eight button states at once, in NES order:
// A, B, Select, Start, Up, Down, Left, Right.
func (c *Controller) SetButtons(buttons [8]bool) {
	c.buttons = 0
	for i, pressed := range buttons {
		if pressed {
			c.buttons |= 1 << uint(i)
		}
	}
}

// IsPressed returns true if the button is currently pressed.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Write handles writes to the controller strobe register ($4016). While
// strobe is high the shift register continuously reloads from the live
// button state; the falling edge latches it for serial reading.
func (c *Controller) Write(value uint8) {
	wasStrobe := c.strobe
	c.strobe = value&1 != 0

	if c.strobe {
		c.buttonSnapshot = c.buttons
		c.shiftRegister = c.buttons
		c.bitPosition = 0
	} else if wasStrobe {
		c.buttonSnapshot = c.buttons
		c.shiftRegister = c.buttonSnapshot
		c.bitPosition = 0
	}
}

// Read handles reads from the controller data line ($4016/$4017). Only
// bit 0 carries button data; the other bits read back as the $40
// open-bus pattern. While strobe is high bit 0 follows the live A
// button, and past the 8th read it reports 1.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.bitPosition = 0
		return c.buttons&1 | 0x40
	}

	if c.bitPosition >= 8 {
		c.bitPosition++
		return 1 | 0x40
	}

	result := c.shiftRegister&1 | 0x40
	c.shiftRegister >>= 1
	c.bitPosition++
	return result
}

// Reset clears the controller to its power-up state.
func (c *Controller) Reset() {
	c.buttons = 0
	c.shiftRegister = 0
	c.strobe = false
	c.buttonSnapshot = 0
	c.bitPosition = 0
}

// InputState holds the two standard controller ports.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

// NewInputState creates a new input state with two controllers.
func NewInputState() *InputState {
	return &InputState{
		Controller1: New(),
		Controller2: New(),
	}
}

// Reset resets both controller ports.
func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

// SetButtons1 sets all button states for controller 1.
func (is *InputState) SetButtons1(buttons [8]bool) {
	is.Controller1.SetButtons(buttons)
}

// SetButtons2 sets all button states for controller 2.
func (is *InputState) SetButtons2(buttons [8]bool) {
	is.Controller2.SetButtons(buttons)
}

// Read reads from a controller port ($4016 or $4017).
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		result := is.Controller1.Read()
		glog.V(3).Infof("input: $4016 read = $%02X", result)
		return result
	case 0x4017:
		// Bit 6 set reflects the open-bus pattern real hardware shows
		// on the second controller port.
		result := is.Controller2.Read() | 0x40
		glog.V(3).Infof("input: $4017 read = $%02X", result)
		return result
	default:
		return 0
	}
}

// Write writes to the controller strobe register ($4016); both ports
// share the same strobe line.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		is.Controller1.Write(value)
		is.Controller2.Write(value)
	}
}
