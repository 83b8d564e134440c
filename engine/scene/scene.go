package scene

import (
	"math/rand/v2"
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/input"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/go-gl/mathgl/mgl32"
)

// ViewState selects which eyes are drawn and how far apart they are.
type ViewState int

const (
	// ViewStereo draws both eyes with their own offsets.
	ViewStereo ViewState = iota
	// ViewMono draws both eyes from their midpoint.
	ViewMono
	// ViewLeftOnly draws the left eye and clears the right.
	ViewLeftOnly
	// ViewRightOnly draws the right eye and clears the left.
	ViewRightOnly

	viewStateCount
)

func (v ViewState) String() string {
	switch v {
	case ViewMono:
		return "mono"
	case ViewLeftOnly:
		return "left only"
	case ViewRightOnly:
		return "right only"
	default:
		return "stereo"
	}
}

// DropoutCount is the number of (eye, wall) projector pairs a dropout can pick from.
const DropoutCount = int(tracking.EyeCount) * int(cave.WallCount)

// Settings holds the tunable limits of the interactive controls.
type Settings struct {
	CubeX, CubeZ float32 // reset position
	CubeSize     float32 // reset size
	CubeStep     float32 // per-frame move step
	SizeStep     float32 // per-frame size step
	MinSize      float32
	MaxSize      float32
	StickDead    float32 // stick magnitude a step needs
	IODSpeed     float32 // IOD change per second at full input
	MaxIOD       float32
}

// DefaultSettings returns the stock cube and IOD control settings.
func DefaultSettings() Settings {
	return Settings{
		CubeX:     0,
		CubeZ:     -0.5,
		CubeSize:  0.03,
		CubeStep:  0.001,
		SizeStep:  0.001,
		MinSize:   0.001,
		MaxSize:   0.1,
		StickDead: 0.5,
		IODSpeed:  0.05,
		MaxIOD:    2 * tracking.MaxEyeOffset,
	}
}

// State is the mutable demo state driven by the controller snapshot once per frame.
// It is owned by the engine and passed by pointer to the render passes.
type State struct {
	mu *sync.Mutex

	settings Settings

	cubeX, cubeZ, cubeSize float32
	iod                    float32

	view    input.Toggle
	freeze  input.Toggle
	dropout input.Toggle

	dropoutIndex int
	handAsEye    bool
	recenter     bool

	rng *rand.Rand
}

// NewState creates a State with the cube at its reset position and every toggle off.
//
// Parameters:
//   - options: functional options to configure the state
//
// Returns:
//   - *State: the newly created state
func NewState(options ...StateBuilderOption) *State {
	s := &State{
		mu:           &sync.Mutex{},
		settings:     DefaultSettings(),
		view:         input.NewToggle(int(viewStateCount)),
		freeze:       input.NewToggle(2),
		dropout:      input.NewToggle(2),
		dropoutIndex: -1,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.cubeX = s.settings.CubeX
	s.cubeZ = s.settings.CubeZ
	s.cubeSize = s.settings.CubeSize
	return s
}

// Update applies one frame of controller input.
//
// Parameters:
//   - snap: the controller snapshot for this frame
//   - dt: seconds since the previous frame
func (s *State) Update(snap input.Snapshot, dt float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view.Update(snap.Held(input.ButtonA))
	s.freeze.Update(snap.Held(input.ButtonB))
	if s.dropout.Update(snap.Held(input.ButtonX)) {
		s.dropoutIndex = -1
		if s.dropout.On() {
			s.dropoutIndex = s.rng.IntN(DropoutCount)
		}
	}

	s.handAsEye = snap.TriggerPressed()
	s.recenter = snap.Held(input.ButtonRecenter)

	cfg := s.settings
	if snap.Held(input.ButtonRightThumb) {
		s.cubeX, s.cubeZ = cfg.CubeX, cfg.CubeZ
	} else {
		s.cubeX += s.stickStep(snap.RightStick.X(), cfg.CubeStep)
		s.cubeZ -= s.stickStep(snap.RightStick.Y(), cfg.CubeStep)
	}

	if snap.Held(input.ButtonLeftThumb) {
		s.cubeSize = cfg.CubeSize
	} else {
		s.cubeSize = common.Clamp(s.cubeSize+s.stickStep(snap.LeftStick.X(), cfg.SizeStep), cfg.MinSize, cfg.MaxSize)
	}

	if dt > 0 {
		s.iod = common.Clamp(s.iod+snap.IOD*cfg.IODSpeed*dt, -cfg.MaxIOD, cfg.MaxIOD)
	}
}

// stickStep returns +step, -step or 0 for an axis value past the dead zone.
func (s *State) stickStep(axis, step float32) float32 {
	switch {
	case axis > s.settings.StickDead:
		return step
	case axis < -s.settings.StickDead:
		return -step
	}
	return 0
}

// View returns the current view state.
func (s *State) View() ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewState(s.view.Value())
}

// Frozen reports whether tracking is frozen.
func (s *State) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freeze.On()
}

// HandAsEye reports whether the walls should be projected from the right hand this frame.
func (s *State) HandAsEye() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handAsEye
}

// RecenterRequested reports whether the recenter button is held this frame.
func (s *State) RecenterRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recenter
}

// IOD returns the current interocular adjustment in meters.
func (s *State) IOD() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iod
}

// DropoutIndex returns the failed projector index in [0, DropoutCount), or -1 when dropout is off.
func (s *State) DropoutIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropoutIndex
}

// Dropped reports whether the projector for the given eye and wall is failed this frame.
//
// Parameters:
//   - eye: the eye being rendered
//   - wall: the wall being rendered
//
// Returns:
//   - bool: true if the pass should clear its target and skip drawing
func (s *State) Dropped(eye tracking.Eye, wall cave.WallID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropoutIndex >= 0 && s.dropoutIndex == int(eye)*int(cave.WallCount)+int(wall)
}

// EyeVisible reports whether the given eye is drawn in the current view state.
func (s *State) EyeVisible(eye tracking.Eye) bool {
	switch s.View() {
	case ViewLeftOnly:
		return eye == tracking.EyeLeft
	case ViewRightOnly:
		return eye == tracking.EyeRight
	}
	return true
}

// Cube returns the cube position (x, z) and uniform scale.
func (s *State) Cube() (x, z, size float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cubeX, s.cubeZ, s.cubeSize
}

// CubeModel returns the cube's model-to-world transform.
func (s *State) CubeModel() mgl32.Mat4 {
	x, z, size := s.Cube()
	return mgl32.Translate3D(x, 0, z).Mul4(mgl32.Scale3D(size, size, size))
}

// ResolveOptions returns the tracking options implied by the current toggles.
func (s *State) ResolveOptions() tracking.ResolveOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tracking.ResolveOptions{
		Frozen:    s.freeze.On(),
		HandAsEye: s.handAsEye,
		Mono:      ViewState(s.view.Value()) == ViewMono,
		IOD:       s.iod,
	}
}
