package tracking

import "github.com/go-gl/mathgl/mgl32"

// DesktopPoseProviderOption is a functional option for configuring a desktop pose provider.
type DesktopPoseProviderOption func(*desktopPoseProvider)

// WithStartPosition sets the head position used at startup and on recenter.
//
// Parameters:
//   - pos: the start position in world space
//
// Returns:
//   - DesktopPoseProviderOption: option function to apply
func WithStartPosition(pos mgl32.Vec3) DesktopPoseProviderOption {
	return func(p *desktopPoseProvider) {
		p.start = pos
	}
}

// WithStartYaw sets the head yaw used at startup and on recenter.
//
// Parameters:
//   - radians: rotation about +Y
//
// Returns:
//   - DesktopPoseProviderOption: option function to apply
func WithStartYaw(radians float32) DesktopPoseProviderOption {
	return func(p *desktopPoseProvider) {
		p.startYaw = radians
	}
}

// WithIPD sets the interpupillary distance. Non-positive values are ignored.
//
// Parameters:
//   - ipd: eye separation in meters
//
// Returns:
//   - DesktopPoseProviderOption: option function to apply
func WithIPD(ipd float32) DesktopPoseProviderOption {
	return func(p *desktopPoseProvider) {
		if ipd > 0 {
			p.ipd = ipd
		}
	}
}

// WithMoveSpeed sets the head translation speed.
//
// Parameters:
//   - speed: meters per second at full input
//
// Returns:
//   - DesktopPoseProviderOption: option function to apply
func WithMoveSpeed(speed float32) DesktopPoseProviderOption {
	return func(p *desktopPoseProvider) {
		p.moveSpeed = speed
	}
}

// WithTurnSpeed sets the head rotation speed.
//
// Parameters:
//   - speed: radians per second at full input
//
// Returns:
//   - DesktopPoseProviderOption: option function to apply
func WithTurnSpeed(speed float32) DesktopPoseProviderOption {
	return func(p *desktopPoseProvider) {
		p.turnSpeed = speed
	}
}

// WithHandOffset sets where the simulated right hand sits relative to the head.
//
// Parameters:
//   - offset: hand position in head space
//
// Returns:
//   - DesktopPoseProviderOption: option function to apply
func WithHandOffset(offset mgl32.Vec3) DesktopPoseProviderOption {
	return func(p *desktopPoseProvider) {
		p.handOffset = offset
	}
}
