package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert := assert.New(t)
	c := NewCamera()

	assert.InDelta(mgl32.DegToRad(90), c.Fov(), 1e-6)
	assert.Equal(float32(1), c.Aspect())
	assert.Equal(float32(0.01), c.Near())
	assert.Equal(float32(1000), c.Far())
	assert.True(c.ViewMatrix().ApproxEqual(mgl32.Ident4()))
}

func TestViewIsInversePose(t *testing.T) {
	pose := mgl32.Translate3D(1, 2, 3).Mul4(mgl32.HomogRotate3DY(0.4))
	c := NewCamera(WithPose(pose))

	assert.True(t, c.ViewMatrix().Mul4(pose).ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
	assert.True(t, c.Position().ApproxEqual(mgl32.Vec3{1, 2, 3}))
}

func TestPointAheadProjectsToCenter(t *testing.T) {
	c := NewCamera()
	c.SetPose(mgl32.Translate3D(0, 1.5, 0))

	clip := c.ViewProjectionMatrix().Mul4x1(mgl32.Vec4{0, 1.5, -5, 1})
	ndc := clip.Vec3().Mul(1 / clip.W())
	assert.InDelta(t, 0, ndc.X(), 1e-5)
	assert.InDelta(t, 0, ndc.Y(), 1e-5)
	assert.True(t, ndc.Z() > -1 && ndc.Z() < 1)
}

func TestSkyboxIgnoresTranslation(t *testing.T) {
	c := NewCamera(WithAspect(2), WithNear(0.1), WithFar(50))
	c.SetPose(mgl32.Translate3D(100, -20, 7))
	moved := c.SkyboxMatrix()

	c.SetPose(mgl32.Ident4())
	assert.True(t, moved.ApproxEqualThreshold(c.SkyboxMatrix(), 1e-5))
	assert.True(t, c.SkyboxMatrix().ApproxEqualThreshold(c.ProjectionMatrix(), 1e-6))
}

func TestSetClip(t *testing.T) {
	c := NewCamera()
	c.SetClip(0.5, 10)
	c.SetFov(1)

	f := common.ExtractFrustum(c.ViewProjectionMatrix())
	assert.True(t, f.SphereVisible(mgl32.Vec3{0, 0, -5}, 0.1))
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, -20}, 0.1))
	assert.False(t, f.SphereVisible(mgl32.Vec3{0, 0, -0.2}, 0.1))
}
