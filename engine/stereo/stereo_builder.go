package stereo

import "github.com/Carmen-Shannon/oxy-cave/engine/camera"

// WallPassDriverBuilderOption is a functional option applied to a wall pass driver via NewWallPassDriver.
type WallPassDriverBuilderOption func(*wallPassDriver)

// WithWallResolution sets the edge length of the square wall targets.
//
// Parameters:
//   - size: the resolution in pixels; values below 1 are ignored
//
// Returns:
//   - WallPassDriverBuilderOption: a function that sets the wall resolution
func WithWallResolution(size int) WallPassDriverBuilderOption {
	return func(d *wallPassDriver) {
		if size > 0 {
			d.resolution = size
		}
	}
}

// WithWallClip sets the near and far distances of the off-axis wall projections.
// Invalid ranges are left for the solver to reject.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - WallPassDriverBuilderOption: a function that sets the clip range
func WithWallClip(near, far float32) WallPassDriverBuilderOption {
	return func(d *wallPassDriver) {
		d.near = near
		d.far = far
	}
}

// WithFrustumCulling enables or disables skipping the cube when it lies outside a wall's frustum.
// Enabled by default.
//
// Parameters:
//   - enabled: true to cull
//
// Returns:
//   - WallPassDriverBuilderOption: a function that sets culling
func WithFrustumCulling(enabled bool) WallPassDriverBuilderOption {
	return func(d *wallPassDriver) {
		d.culling = enabled
	}
}

// StereoRendererBuilderOption is a functional option applied to a stereo renderer via NewStereoRenderer.
type StereoRendererBuilderOption func(*stereoRenderer)

// WithWallPassOptions forwards options to the wall pass driver.
//
// Parameters:
//   - options: the driver options
//
// Returns:
//   - StereoRendererBuilderOption: a function that records the driver options
func WithWallPassOptions(options ...WallPassDriverBuilderOption) StereoRendererBuilderOption {
	return func(s *stereoRenderer) {
		s.wallOptions = append(s.wallOptions, options...)
	}
}

// WithEyeFov sets the vertical field of view of both eye cameras.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - StereoRendererBuilderOption: a function that sets the eye field of view
func WithEyeFov(fov float32) StereoRendererBuilderOption {
	return func(s *stereoRenderer) {
		s.cameraOptions = append(s.cameraOptions, camera.WithFov(fov))
	}
}

// WithEyeClip sets the clip distances of both eye cameras.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - StereoRendererBuilderOption: a function that sets the eye clip range
func WithEyeClip(near, far float32) StereoRendererBuilderOption {
	return func(s *stereoRenderer) {
		s.cameraOptions = append(s.cameraOptions, camera.WithNear(near), camera.WithFar(far))
	}
}
