package cave

import "github.com/go-gl/mathgl/mgl32"

// CaveBuilderOption is a functional option for configuring a cave.
type CaveBuilderOption func(*cave)

// WithHalfExtent sets half the edge length of the canonical cube.
// Non-positive values are ignored.
//
// Parameters:
//   - h: the half extent in world units
//
// Returns:
//   - CaveBuilderOption: option function to apply
func WithHalfExtent(h float32) CaveBuilderOption {
	return func(c *cave) {
		if h > 0 {
			c.halfExtent = h
		}
	}
}

// WithRotationY sets the CAVE transform to a pure yaw.
//
// Parameters:
//   - radians: rotation about +Y
//
// Returns:
//   - CaveBuilderOption: option function to apply
func WithRotationY(radians float32) CaveBuilderOption {
	return func(c *cave) {
		c.toWorld = mgl32.HomogRotate3DY(radians)
	}
}

// WithTransform sets an arbitrary rigid CAVE-to-world transform.
//
// Parameters:
//   - m: the rigid transform
//
// Returns:
//   - CaveBuilderOption: option function to apply
func WithTransform(m mgl32.Mat4) CaveBuilderOption {
	return func(c *cave) {
		c.toWorld = m
	}
}
