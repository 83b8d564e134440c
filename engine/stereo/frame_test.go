package stereo

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/input"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/scene"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStereoFixture(t *testing.T, options ...StereoRendererBuilderOption) (*recordingRenderer, *scene.State, StereoRenderer) {
	t.Helper()
	r := newRecordingRenderer()
	c := cave.NewCave()
	state := scene.NewState(scene.WithSeed(3))
	assets, err := LoadAssets(r, c, AssetPaths{})
	require.NoError(t, err)
	s, err := NewStereoRenderer(r, c, state, assets, options...)
	require.NoError(t, err)
	return r, state, s
}

func eyeFrames(positions ...mgl32.Vec3) [tracking.EyeCount]tracking.EyeFrame {
	var frames [tracking.EyeCount]tracking.EyeFrame
	for _, eye := range tracking.Eyes {
		pose := tracking.Pose{Position: positions[eye], Orientation: mgl32.QuatIdent()}
		frames[eye] = tracking.EyeFrame{Eye: eye, Pose: pose, RenderPosition: pose.Position}
	}
	return frames
}

func kinds(events []event) []eventKind {
	out := make([]eventKind, 0, len(events))
	for _, e := range events {
		out = append(out, e.kind)
	}
	return out
}

func TestRenderFrameStateMachine(t *testing.T) {
	assert := assert.New(t)
	r, _, s := newStereoFixture(t, WithWallPassOptions(WithFrustumCulling(false)))

	stats, err := s.RenderFrame(eyeFrames(mgl32.Vec3{-0.03, 0, 0}, mgl32.Vec3{0.03, 0, 0}))
	require.NoError(t, err)
	assert.Empty(stats.WallErrors)

	wall := []eventKind{evTargetPass, evDrawMesh, evDrawMesh, evEndPass}
	eye := []eventKind{evEyePass, evDrawMesh, evDrawMesh, evDrawMesh, evDrawMesh, evDrawLines, evEndPass}
	var want []eventKind
	want = append(want, evBeginFrame)
	for range tracking.Eyes {
		for range cave.WallIDs {
			want = append(want, wall...)
		}
		want = append(want, eye...)
	}
	want = append(want, evEndFrame, evPresent)
	assert.Equal(want, kinds(r.events))

	// left eye clears the whole surface, right eye keeps it
	var eyePasses []event
	for _, e := range r.events {
		if e.kind == evEyePass {
			eyePasses = append(eyePasses, e)
		}
	}
	require.Len(t, eyePasses, 2)
	require.NotNil(t, eyePasses[0].clear)
	assert.Equal(renderer.ClearSurface, *eyePasses[0].clear)
	assert.Nil(eyePasses[1].clear)
	assert.Equal(EyeViewport(tracking.EyeLeft, 1600, 900), eyePasses[0].viewport)
	assert.Equal(EyeViewport(tracking.EyeRight, 1600, 900), eyePasses[1].viewport)

	assert.Equal(2*(3*2+5), stats.Draws)
}

func TestRenderFrameSuppressedEye(t *testing.T) {
	assert := assert.New(t)
	r, state, s := newStereoFixture(t)
	press(state, input.ButtonA)
	press(state, input.ButtonA)
	require.Equal(t, scene.ViewLeftOnly, state.View())

	_, err := s.RenderFrame(eyeFrames(mgl32.Vec3{}, mgl32.Vec3{}))
	require.NoError(t, err)

	passes := r.passes()
	// three walls and the left eye, then the right eye pass with nothing in it
	require.Len(t, passes, 5)
	assert.Equal(evEyePass, passes[3][0].kind)
	assert.Greater(len(passes[3]), 1)
	assert.Equal(evEyePass, passes[4][0].kind)
	assert.Len(passes[4], 1)
}

func TestRenderFrameReportsWallErrors(t *testing.T) {
	assert := assert.New(t)
	r, _, s := newStereoFixture(t)

	// far outside the rotated CAVE, behind the back wall
	outside := mgl32.Vec3{30, 0, -30}
	stats, err := s.RenderFrame(eyeFrames(outside, outside))
	require.NoError(t, err)
	require.NotEmpty(t, stats.WallErrors)
	for _, we := range stats.WallErrors {
		assert.ErrorIs(we, cave.ErrEyeBehindWall)
	}
	assert.Equal(evPresent, r.events[len(r.events)-1].kind)
}

func TestRenderFrameBeginError(t *testing.T) {
	r, _, s := newStereoFixture(t)
	r.frameErr = errors.New("surface outdated")
	_, err := s.RenderFrame(eyeFrames(mgl32.Vec3{}, mgl32.Vec3{}))
	assert.ErrorContains(t, err, "surface outdated")
	assert.Empty(t, r.events)
}

func TestRenderFrameAbortsCleanly(t *testing.T) {
	r, _, s := newStereoFixture(t)
	r.drawErr = renderer.ErrRingFull

	_, err := s.RenderFrame(eyeFrames(mgl32.Vec3{}, mgl32.Vec3{}))
	assert.ErrorIs(t, err, renderer.ErrRingFull)
	assert.False(t, r.inFrame)
	assert.False(t, r.inPass)

	r.drawErr = nil
	_, err = s.RenderFrame(eyeFrames(mgl32.Vec3{}, mgl32.Vec3{}))
	assert.NoError(t, err)
}

func TestRenderFrameAbortsOnWallRendererError(t *testing.T) {
	assert := assert.New(t)
	r, _, s := newStereoFixture(t)
	r.targetDrawErr = renderer.ErrRingFull

	stats, err := s.RenderFrame(eyeFrames(mgl32.Vec3{}, mgl32.Vec3{}))
	assert.ErrorIs(err, renderer.ErrRingFull)
	assert.Empty(stats.WallErrors)
	assert.False(r.inFrame)
	assert.False(r.inPass)

	// no eye pass samples a wall that was never cleared
	for _, ev := range r.events {
		assert.NotEqual(evEyePass, ev.kind)
	}
}

func TestStereoResizeSetsEyeAspect(t *testing.T) {
	_, _, s := newStereoFixture(t, WithEyeFov(1.2), WithEyeClip(0.1, 50))
	assert.InDelta(t, 800.0/900.0, s.Camera(tracking.EyeLeft).Aspect(), 1e-6)

	s.Resize(2000, 500)
	assert.InDelta(t, 2.0, s.Camera(tracking.EyeRight).Aspect(), 1e-6)
	assert.InDelta(t, 1.2, s.Camera(tracking.EyeLeft).Fov(), 1e-6)
	assert.InDelta(t, 0.1, s.Camera(tracking.EyeLeft).Near(), 1e-6)
	assert.Nil(t, s.Camera(tracking.EyeCount))
}

func TestEyeViewportOddWidth(t *testing.T) {
	left := EyeViewport(tracking.EyeLeft, 1001, 10)
	right := EyeViewport(tracking.EyeRight, 1001, 10)
	assert.Equal(t, float32(500), left.Width)
	assert.Equal(t, float32(500), right.X)
	assert.Equal(t, float32(501), right.Width)
}
