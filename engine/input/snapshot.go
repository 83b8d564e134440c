package input

import "github.com/go-gl/mathgl/mgl32"

// Button identifies a virtual controller button.
type Button int

const (
	// ButtonA cycles the view state.
	ButtonA Button = iota
	// ButtonB toggles tracking freeze.
	ButtonB
	// ButtonX toggles projector dropout.
	ButtonX
	// ButtonRightThumb resets the cube position.
	ButtonRightThumb
	// ButtonLeftThumb resets the cube size.
	ButtonLeftThumb
	// ButtonRecenter resets the tracking origin.
	ButtonRecenter

	// ButtonCount is the number of virtual buttons.
	ButtonCount
)

// Snapshot is the virtual controller state sampled once per frame.
// All axes are in [-1, 1] and the trigger in [0, 1].
type Snapshot struct {
	// Buttons holds whether each button is held this frame.
	Buttons [ButtonCount]bool

	// RightStick and LeftStick are the thumbstick axes (x right, y up).
	RightStick, LeftStick mgl32.Vec2

	// RightTrigger is the right hand trigger value.
	RightTrigger float32

	// Move is the head translation intent in head space (x right, y up, z forward).
	Move mgl32.Vec3

	// Turn is the head rotation intent (x yaw left-positive, y pitch up-positive).
	Turn mgl32.Vec2

	// IOD is the interocular adjustment intent (-1 narrower, +1 wider).
	IOD float32
}

// Held reports whether a button is down in this snapshot.
func (s Snapshot) Held(b Button) bool {
	if b < 0 || b >= ButtonCount {
		return false
	}
	return s.Buttons[b]
}

// TriggerPressed reports whether the right trigger is past the half-way threshold.
func (s Snapshot) TriggerPressed() bool {
	return s.RightTrigger > 0.5
}

// Toggle is a modulo counter that advances when its button is released.
// Holding the button does not repeat.
type Toggle struct {
	modulo  int
	value   int
	pressed bool
}

// NewToggle creates a toggle that cycles through [0, modulo).
func NewToggle(modulo int) Toggle {
	return Toggle{modulo: max(modulo, 1)}
}

// Update feeds the button state for one frame.
//
// Parameters:
//   - held: whether the button is down this frame
//
// Returns:
//   - bool: true if the value advanced this frame
func (t *Toggle) Update(held bool) bool {
	if held {
		t.pressed = true
		return false
	}
	if !t.pressed {
		return false
	}
	t.pressed = false
	t.value = (t.value + 1) % t.modulo
	return true
}

// Value returns the current counter value.
func (t Toggle) Value() int {
	return t.value
}

// On reports whether the counter is non-zero.
func (t Toggle) On() bool {
	return t.value != 0
}
