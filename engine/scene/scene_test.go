package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/input"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(s *State, b input.Button) {
	var snap input.Snapshot
	snap.Buttons[b] = true
	s.Update(snap, 0)
	s.Update(input.Snapshot{}, 0)
}

func TestDefaults(t *testing.T) {
	assert := assert.New(t)
	s := NewState()

	x, z, size := s.Cube()
	assert.Equal(float32(0), x)
	assert.Equal(float32(-0.5), z)
	assert.Equal(float32(0.03), size)
	assert.Equal(ViewStereo, s.View())
	assert.False(s.Frozen())
	assert.Equal(-1, s.DropoutIndex())
	assert.True(s.EyeVisible(tracking.EyeLeft))
	assert.True(s.EyeVisible(tracking.EyeRight))
}

func TestViewStateCyclesOnRelease(t *testing.T) {
	s := NewState()

	var held input.Snapshot
	held.Buttons[input.ButtonA] = true
	s.Update(held, 0)
	s.Update(held, 0)
	assert.Equal(t, ViewStereo, s.View(), "holding does not advance")

	want := []ViewState{ViewMono, ViewLeftOnly, ViewRightOnly, ViewStereo}
	for _, v := range want {
		press(s, input.ButtonA)
		assert.Equal(t, v, s.View())
	}
}

func TestEyeVisibility(t *testing.T) {
	s := NewState()
	press(s, input.ButtonA)
	assert.True(t, s.ResolveOptions().Mono)

	press(s, input.ButtonA)
	assert.True(t, s.EyeVisible(tracking.EyeLeft))
	assert.False(t, s.EyeVisible(tracking.EyeRight))

	press(s, input.ButtonA)
	assert.False(t, s.EyeVisible(tracking.EyeLeft))
	assert.True(t, s.EyeVisible(tracking.EyeRight))
	assert.False(t, s.ResolveOptions().Mono)
}

func TestFreezeToggle(t *testing.T) {
	s := NewState()
	press(s, input.ButtonB)
	assert.True(t, s.Frozen())
	assert.True(t, s.ResolveOptions().Frozen)
	press(s, input.ButtonB)
	assert.False(t, s.Frozen())
}

func TestDropout(t *testing.T) {
	s := NewState(WithSeed(7))

	press(s, input.ButtonX)
	idx := s.DropoutIndex()
	require.GreaterOrEqual(t, idx, 0)
	require.Less(t, idx, DropoutCount)

	dropped := 0
	for _, eye := range tracking.Eyes {
		for _, wall := range cave.WallIDs {
			if s.Dropped(eye, wall) {
				dropped++
				assert.Equal(t, idx, int(eye)*3+int(wall))
			}
		}
	}
	assert.Equal(t, 1, dropped)

	// Index is stable while the mode stays on.
	s.Update(input.Snapshot{}, 0.1)
	assert.Equal(t, idx, s.DropoutIndex())

	press(s, input.ButtonX)
	assert.Equal(t, -1, s.DropoutIndex())
	assert.False(t, s.Dropped(tracking.Eye(idx/3), cave.WallID(idx%3)))
}

func TestDropoutDeterministicWithSeed(t *testing.T) {
	a, b := NewState(WithSeed(42)), NewState(WithSeed(42))
	for range 5 {
		press(a, input.ButtonX)
		press(b, input.ButtonX)
		assert.Equal(t, a.DropoutIndex(), b.DropoutIndex())
	}
}

func TestCubeControls(t *testing.T) {
	assert := assert.New(t)
	s := NewState()

	s.Update(input.Snapshot{RightStick: mgl32.Vec2{1, 1}}, 0)
	s.Update(input.Snapshot{RightStick: mgl32.Vec2{0.4, -0.4}}, 0)
	x, z, _ := s.Cube()
	assert.InDelta(0.001, x, 1e-7)
	assert.InDelta(-0.501, z, 1e-7)

	var click input.Snapshot
	click.Buttons[input.ButtonRightThumb] = true
	click.RightStick = mgl32.Vec2{1, 0}
	s.Update(click, 0)
	x, z, _ = s.Cube()
	assert.Equal(float32(0), x)
	assert.Equal(float32(-0.5), z)
}

func TestCubeSizeClamp(t *testing.T) {
	assert := assert.New(t)
	s := NewState()

	for range 200 {
		s.Update(input.Snapshot{LeftStick: mgl32.Vec2{1, 0}}, 0)
	}
	_, _, size := s.Cube()
	assert.Equal(float32(0.1), size)

	for range 200 {
		s.Update(input.Snapshot{LeftStick: mgl32.Vec2{-1, 0}}, 0)
	}
	_, _, size = s.Cube()
	assert.Equal(float32(0.001), size)

	var click input.Snapshot
	click.Buttons[input.ButtonLeftThumb] = true
	s.Update(click, 0)
	_, _, size = s.Cube()
	assert.Equal(float32(0.03), size)
}

func TestCubeModel(t *testing.T) {
	s := NewState()
	m := s.CubeModel()

	p := m.Mul4x1(mgl32.Vec4{1, 1, 1, 1})
	assert.InDelta(t, 0.03, p.X(), 1e-6)
	assert.InDelta(t, 0.03, p.Y(), 1e-6)
	assert.InDelta(t, -0.47, p.Z(), 1e-6)
}

func TestHandAndIOD(t *testing.T) {
	s := NewState()

	s.Update(input.Snapshot{RightTrigger: 0.9, IOD: 1}, 1)
	opts := s.ResolveOptions()
	assert.True(t, opts.HandAsEye)
	assert.InDelta(t, 0.05, opts.IOD, 1e-6)

	s.Update(input.Snapshot{RightTrigger: 0.5, IOD: 1}, 100)
	assert.False(t, s.HandAsEye())
	assert.InDelta(t, 2*tracking.MaxEyeOffset, s.IOD(), 1e-6)
}
