package input

import (
	"github.com/Carmen-Shannon/oxy-cave/common"
)

// KeyState reports whether a key is currently held.
// Implemented by the window.
type KeyState interface {
	// IsKeyDown returns true while the key with the given code is held.
	//
	// Parameters:
	//   - keyCode: the virtual key code
	//
	// Returns:
	//   - bool: true if the key is down
	IsKeyDown(keyCode uint32) bool
}

// Axis binds a negative and a positive key to one axis.
type Axis struct {
	Negative, Positive uint32
}

func (a Axis) value(keys KeyState) float32 {
	var v float32
	if keys.IsKeyDown(a.Negative) {
		v--
	}
	if keys.IsKeyDown(a.Positive) {
		v++
	}
	return v
}

// mapper is the implementation of the Mapper interface.
type mapper struct {
	buttons [ButtonCount]uint32

	rightStickX, rightStickY Axis
	leftStickX               Axis
	trigger                  uint32

	moveX, moveY, moveZ Axis
	yaw, pitch          Axis
	iod                 Axis
}

// Mapper turns held keys into a controller Snapshot.
type Mapper interface {
	// Poll samples the key state into a Snapshot.
	//
	// Parameters:
	//   - keys: the current key state
	//
	// Returns:
	//   - Snapshot: the controller state for this frame
	Poll(keys KeyState) Snapshot
}

var _ Mapper = &mapper{}

// NewMapper creates a Mapper with the default keyboard bindings, then applies options.
//
// Default bindings: A=1 B=2 X=3, right stick IJKL (click U), left stick [ ] (click \),
// right trigger Space, recenter R, head WASD + QE, yaw/pitch arrows, IOD - and =.
//
// Parameters:
//   - options: functional options to override bindings
//
// Returns:
//   - Mapper: the configured mapper
func NewMapper(options ...MapperBuilderOption) Mapper {
	m := &mapper{
		buttons: [ButtonCount]uint32{
			ButtonA:          common.Key1,
			ButtonB:          common.Key2,
			ButtonX:          common.Key3,
			ButtonRightThumb: common.KeyU,
			ButtonLeftThumb:  common.KeyBackslash,
			ButtonRecenter:   common.KeyR,
		},
		rightStickX: Axis{Negative: common.KeyJ, Positive: common.KeyL},
		rightStickY: Axis{Negative: common.KeyK, Positive: common.KeyI},
		leftStickX:  Axis{Negative: common.KeyLeftBracket, Positive: common.KeyRightBracket},
		trigger:     common.KeySpace,
		moveX:       Axis{Negative: common.KeyA, Positive: common.KeyD},
		moveY:       Axis{Negative: common.KeyQ, Positive: common.KeyE},
		moveZ:       Axis{Negative: common.KeyS, Positive: common.KeyW},
		yaw:         Axis{Negative: common.KeyRight, Positive: common.KeyLeft},
		pitch:       Axis{Negative: common.KeyDown, Positive: common.KeyUp},
		iod:         Axis{Negative: common.KeyMinus, Positive: common.KeyEqual},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *mapper) Poll(keys KeyState) Snapshot {
	var s Snapshot
	if keys == nil {
		return s
	}

	for b, code := range m.buttons {
		s.Buttons[b] = keys.IsKeyDown(code)
	}

	s.RightStick[0] = m.rightStickX.value(keys)
	s.RightStick[1] = m.rightStickY.value(keys)
	s.LeftStick[0] = m.leftStickX.value(keys)
	if keys.IsKeyDown(m.trigger) {
		s.RightTrigger = 1
	}

	s.Move[0] = m.moveX.value(keys)
	s.Move[1] = m.moveY.value(keys)
	s.Move[2] = m.moveZ.value(keys)
	s.Turn[0] = m.yaw.value(keys)
	s.Turn[1] = m.pitch.value(keys)
	s.IOD = m.iod.value(keys)

	return s
}
