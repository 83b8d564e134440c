package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestExtractFrustumSphereVisible(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 100)
	f := ExtractFrustum(proj.Mul4(view))

	tests := []struct {
		name    string
		center  mgl32.Vec3
		radius  float32
		visible bool
	}{
		{"in front", mgl32.Vec3{0, 0, -10}, 1, true},
		{"behind", mgl32.Vec3{0, 0, 10}, 1, false},
		{"beyond far", mgl32.Vec3{0, 0, -200}, 1, false},
		{"far left", mgl32.Vec3{-50, 0, -10}, 1, false},
		{"straddling left plane", mgl32.Vec3{-10.5, 0, -10}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.visible, f.SphereVisible(tt.center, tt.radius))
		})
	}
}

func TestExtractFrustumAsymmetric(t *testing.T) {
	assert := assert.New(t)

	// Frustum skewed entirely to the right of the view axis.
	f := ExtractFrustum(mgl32.Frustum(0.1, 0.3, -0.1, 0.1, 0.1, 100))

	assert.True(f.SphereVisible(mgl32.Vec3{20, 0, -10}, 0.1))
	assert.False(f.SphereVisible(mgl32.Vec3{0, 0, -10}, 0.1))

	for _, p := range f.Planes {
		assert.InDelta(1.0, p.Normal.Len(), 1e-5)
	}
}
