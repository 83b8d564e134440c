package stereo

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebugLinesPerEye(t *testing.T) {
	assert := assert.New(t)
	c := cave.NewCave()
	lines := NewDebugLines()
	eyePos := mgl32.Vec3{0.1, 0.2, 0.3}

	assert.Empty(lines.Lines())
	for _, wall := range c.Walls() {
		lines.Update(tracking.EyeLeft, wall, eyePos)
	}
	got := lines.Lines()
	assert.Len(got, DebugLinesPerEye)
	for _, l := range got {
		assert.Equal(tracking.EyeLeft, l.Eye)
		assert.Equal(eyePos, l.To)
	}

	back := c.Wall(cave.WallRight)
	d, ok := lines.Line(tracking.EyeLeft, cave.WallRight, CornerD)
	require.True(t, ok)
	assert.Equal(back.B.Add(back.C.Sub(back.A)), d.From)

	// the bottom wall only traces B
	_, ok = lines.Line(tracking.EyeLeft, cave.WallBottom, CornerA)
	assert.False(ok)
	_, ok = lines.Line(tracking.EyeRight, cave.WallLeft, CornerC)
	assert.False(ok)
}

func TestDebugLineVerticesColoredByEye(t *testing.T) {
	assert := assert.New(t)
	c := cave.NewCave()
	lines := NewDebugLines()
	for _, eye := range tracking.Eyes {
		for _, wall := range c.Walls() {
			lines.Update(eye, wall, mgl32.Vec3{})
		}
	}

	verts := lines.Vertices()
	assert.Len(verts, 2*2*DebugLinesPerEye)
	for i, v := range verts {
		want := DebugColorLeft
		if i >= 2*DebugLinesPerEye {
			want = DebugColorRight
		}
		assert.Equal([4]float32(want), v.Color)
	}

	lines.Release()
	assert.Empty(lines.Vertices())
}

func TestCornerPoint(t *testing.T) {
	w := cave.CanonicalWall(cave.WallLeft, 1)
	assert.Equal(t, w.A, CornerA.Point(w))
	assert.Equal(t, w.B, CornerB.Point(w))
	assert.Equal(t, w.C, CornerC.Point(w))
	assert.Equal(t, w.D(), CornerD.Point(w))
	assert.Equal(t, "D", CornerD.String())
}
