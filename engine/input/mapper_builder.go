package input

// MapperBuilderOption is a functional option for configuring a mapper.
type MapperBuilderOption func(*mapper)

// WithButton binds a virtual button to a key.
//
// Parameters:
//   - b: the button to rebind
//   - keyCode: the key that drives it
//
// Returns:
//   - MapperBuilderOption: option function to apply
func WithButton(b Button, keyCode uint32) MapperBuilderOption {
	return func(m *mapper) {
		if b >= 0 && b < ButtonCount {
			m.buttons[b] = keyCode
		}
	}
}

// WithTrigger binds the right trigger to a key.
//
// Parameters:
//   - keyCode: the key that fully presses the trigger
//
// Returns:
//   - MapperBuilderOption: option function to apply
func WithTrigger(keyCode uint32) MapperBuilderOption {
	return func(m *mapper) {
		m.trigger = keyCode
	}
}

// WithMoveAxes rebinds the head translation axes.
//
// Parameters:
//   - x, y, z: right, up and forward axes
//
// Returns:
//   - MapperBuilderOption: option function to apply
func WithMoveAxes(x, y, z Axis) MapperBuilderOption {
	return func(m *mapper) {
		m.moveX, m.moveY, m.moveZ = x, y, z
	}
}
