package cave

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalWallsFaceInward(t *testing.T) {
	tests := []struct {
		id     WallID
		normal mgl32.Vec3
		center mgl32.Vec3
	}{
		{WallLeft, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-10, 0, 0}},
		{WallRight, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 0, -10}},
		{WallBottom, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, -10, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.id.String(), func(t *testing.T) {
			w := CanonicalWall(tt.id, 10)
			assert.Equal(t, tt.normal, w.Normal())
			assert.Equal(t, tt.center, w.Center())
		})
	}
}

func TestWallFourthCorner(t *testing.T) {
	w := CanonicalWall(WallRight, 10)
	assert.Equal(t, mgl32.Vec3{10, 10, -10}, w.D())
	assert.Equal(t, [4]mgl32.Vec3{w.A, w.B, w.D(), w.C}, w.Corners())
}

func TestCaveDefaultTransform(t *testing.T) {
	assert := assert.New(t)
	c := NewCave()

	assert.Equal(DefaultHalfExtent, c.HalfExtent())

	// -45 degrees about +Y takes the back wall centre (0, 0, -10) to (+x, 0, -z) on the diagonal.
	back := c.Wall(WallRight)
	center := back.Center()
	assert.InDelta(7.0710678, center.X(), 1e-4)
	assert.InDelta(-7.0710678, center.Z(), 1e-4)
	assert.InDelta(0.0, center.Y(), 1e-6)

	walls := c.Walls()
	for i, id := range WallIDs {
		assert.Equal(id, walls[i].ID)
		assert.True(walls[i].A.ApproxEqualThreshold(c.Wall(id).A, 1e-6))
	}
}

func TestCaveSetTransformAndContains(t *testing.T) {
	assert := assert.New(t)
	c := NewCave(WithHalfExtent(2), WithRotationY(0))

	assert.True(c.Contains(mgl32.Vec3{0, 0, 0}))
	assert.True(c.Contains(mgl32.Vec3{1.9, -1.9, 1.9}))
	assert.False(c.Contains(mgl32.Vec3{2.5, 0, 0}))
	assert.False(c.Contains(mgl32.Vec3{0, -2, 0}))

	c.SetTransform(mgl32.Translate3D(10, 0, 0))
	assert.False(c.Contains(mgl32.Vec3{0, 0, 0}))
	assert.True(c.Contains(mgl32.Vec3{10, 0, 0}))
	assert.Equal(mgl32.Vec3{8, -2, 2}, c.Wall(WallLeft).A)
}

func TestCaveBuilderIgnoresInvalidExtent(t *testing.T) {
	c := NewCave(WithHalfExtent(-1))
	assert.Equal(t, DefaultHalfExtent, c.HalfExtent())
}
