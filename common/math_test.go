package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestToGPUClipRemapsDepthRange(t *testing.T) {
	assert := assert.New(t)

	proj := mgl32.Frustum(-1, 1, -1, 1, 1, 100)
	gpu := ToGPUClip(proj)

	near := gpu.Mul4x1(mgl32.Vec4{0, 0, -1, 1})
	far := gpu.Mul4x1(mgl32.Vec4{0, 0, -100, 1})

	assert.InDelta(0.0, near.Z()/near.W(), 1e-5)
	assert.InDelta(1.0, far.Z()/far.W(), 1e-4)

	// x and y are untouched
	p := mgl32.Vec4{0.5, -0.25, -10, 1}
	assert.InDelta(proj.Mul4x1(p).X(), gpu.Mul4x1(p).X(), 1e-6)
	assert.InDelta(proj.Mul4x1(p).Y(), gpu.Mul4x1(p).Y(), 1e-6)
}

func TestRotationOnlyDropsTranslation(t *testing.T) {
	assert := assert.New(t)

	pose := PoseMatrix(mgl32.Vec3{1, 2, 3}, mgl32.QuatRotate(mgl32.DegToRad(30), mgl32.Vec3{0, 1, 0}))
	rot := RotationOnly(pose)

	assert.Equal(mgl32.Vec3{}, Translation(rot))
	assert.Equal(mgl32.Vec3{1, 2, 3}, Translation(pose))
	assert.True(rot.Mat3().ApproxEqualThreshold(pose.Mat3(), 1e-6))
}

func TestTransformPoint(t *testing.T) {
	m := mgl32.Translate3D(1, 0, -2).Mul4(mgl32.Scale3D(2, 2, 2))
	assert.Equal(t, mgl32.Vec3{3, 2, 0}, TransformPoint(m, mgl32.Vec3{1, 1, 1}))
}

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(float32(0.1), Clamp(float32(0.5), 0.001, 0.1))
	assert.Equal(float32(0.001), Clamp(float32(-1), 0.001, 0.1))
	assert.Equal(3, Clamp(3, 0, 5))
}

func TestGridTexture(t *testing.T) {
	assert := assert.New(t)

	tex := GridTexture(8, 4, [4]uint8{0, 0, 0, 255}, [4]uint8{255, 255, 255, 255}, [4]uint8{255, 0, 0, 255})
	assert.True(tex.Valid())
	assert.Equal(uint32(8), tex.Width)
	// (0, 0) is on a grid line
	assert.Equal([]byte{255, 0, 0, 255}, tex.Pixels[0:4])
	// (1, 1) is off the grid, in the top (white) half
	off := (1*8 + 1) * 4
	assert.Greater(tex.Pixels[off], uint8(200))
}
