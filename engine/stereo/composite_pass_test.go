package stereo

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresentCave(t *testing.T) {
	assert := assert.New(t)
	f := newWallFixture(t, nil)
	lines := f.driver.DebugLines()
	for _, eye := range tracking.Eyes {
		for _, wall := range f.cave.Walls() {
			lines.Update(eye, wall, mgl32.Vec3{})
		}
	}
	pass := NewCompositePass(f.r, f.cave, f.assets, lines)

	projection := mgl32.Perspective(mgl32.DegToRad(90), 1, 0.01, 1000)
	headPose := common.PoseMatrix(mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(0.3, mgl32.Vec3{0, 1, 0}))

	require.NoError(t, f.r.BeginEyePass(EyeViewport(tracking.EyeLeft, 800, 600), nil))
	require.NoError(t, pass.PresentCave(projection, headPose, f.driver.Textures()))
	require.NoError(t, f.r.EndPass())

	passes := f.r.passes()
	require.Len(t, passes, 1)
	draws := passes[0][1:]
	require.Len(t, draws, 5)

	view := headPose.Inv()
	sky := draws[0]
	assert.Equal("Skybox", sky.target)
	assert.Equal(f.assets.HMDSkybox.Label(), sky.texture)
	assert.True(projection.Mul4(common.RotationOnly(view)).ApproxEqual(sky.matrix))

	caveViewProj := projection.Mul4(view).Mul4(f.cave.Transform())
	for i, id := range cave.WallIDs {
		d := draws[1+i]
		assert.Equal(evDrawMesh, d.kind)
		assert.Equal(f.assets.WallQuads[id].Label(), d.target)
		assert.Equal(f.driver.Target(id).Label(), d.texture)
		assert.True(caveViewProj.ApproxEqual(d.matrix))
	}

	assert.Equal(evDrawLines, draws[4].kind)
	assert.Equal(2*DebugLinesPerEye, draws[4].lines)
}

func TestPresentCaveWallQuadsCoverWorldWalls(t *testing.T) {
	f := newWallFixture(t, nil)
	m := f.cave.Transform()
	for _, id := range cave.WallIDs {
		quad := f.r.mesh(f.assets.WallQuads[id].Label())
		require.NotNil(t, quad)
		world := f.cave.Wall(id)
		assert.True(t, world.A.ApproxEqual(common.TransformPoint(m, quad.vertices[0].Pos)))
		assert.True(t, world.C.ApproxEqual(common.TransformPoint(m, quad.vertices[2].Pos)))
	}
}

func TestPresentCaveMissingWall(t *testing.T) {
	f := newWallFixture(t, nil)
	pass := NewCompositePass(f.r, f.cave, f.assets, nil)
	walls := f.driver.Textures()
	walls[cave.WallBottom] = nil

	require.NoError(t, f.r.BeginEyePass(EyeViewport(tracking.EyeLeft, 800, 600), nil))
	err := pass.PresentCave(mgl32.Ident4(), mgl32.Ident4(), walls)
	assert.ErrorIs(t, err, ErrMissingWallTexture)
	require.NoError(t, f.r.EndPass())
	assert.Len(t, f.r.passes()[0], 1)
}

func TestPresentCaveWithoutLines(t *testing.T) {
	f := newWallFixture(t, nil)
	pass := NewCompositePass(f.r, f.cave, f.assets, NewDebugLines())

	require.NoError(t, f.r.BeginEyePass(EyeViewport(tracking.EyeRight, 800, 600), nil))
	require.NoError(t, pass.PresentCave(mgl32.Ident4(), mgl32.Ident4(), f.driver.Textures()))
	require.NoError(t, f.r.EndPass())
	// no traced lines means no line draw
	assert.Len(t, f.r.passes()[0], 5)
}
