package tracking

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxEyeOffset bounds each eye's lateral offset from the head, in meters.
const MaxEyeOffset float32 = 0.3

// ResolveOptions carries the scene toggles that affect where the eyes are.
type ResolveOptions struct {
	// Frozen keeps each eye's projection position from the last unfrozen frame.
	Frozen bool
	// HandAsEye projects the walls from the right hand instead of the head.
	HandAsEye bool
	// Mono collapses both eyes onto their midpoint.
	Mono bool
	// IOD widens (positive) or narrows (negative) the eye separation.
	IOD float32
}

// EyeFrame is the per-eye input to one frame of rendering.
type EyeFrame struct {
	Eye Eye

	// Pose is the tracked HMD eye pose. The composite pass views the CAVE from here.
	Pose Pose

	// RenderPosition is the eye position the wall projections are solved for.
	RenderPosition mgl32.Vec3
}

// tracker is the implementation of the Tracker interface.
type tracker struct {
	mu *sync.Mutex

	lastEye     [EyeCount]mgl32.Vec3
	initialized [EyeCount]bool

	lastHand        mgl32.Vec3
	handInitialized bool
}

// Tracker turns tracked head state into per-eye frames, applying freeze, hand-as-eye and IOD.
type Tracker interface {
	// Resolve computes both eyes' frames for this frame.
	//
	// Parameters:
	//   - head: the tracked state from the PoseProvider
	//   - defaults: the provider's default head-to-eye offsets
	//   - opts: the scene toggles for this frame
	//
	// Returns:
	//   - [EyeCount]EyeFrame: left and right eye frames
	Resolve(head HeadState, defaults [EyeCount]mgl32.Vec3, opts ResolveOptions) [EyeCount]EyeFrame

	// Reset forgets all remembered positions. The next Resolve re-initializes them.
	Reset()
}

var _ Tracker = &tracker{}

// NewTracker creates a Tracker with no remembered positions.
//
// Returns:
//   - Tracker: the newly created tracker
func NewTracker() Tracker {
	return &tracker{mu: &sync.Mutex{}}
}

// AdjustedEyeOffsets applies the IOD adjustment to the default eye offsets.
// The left offset x is clamped to [-MaxEyeOffset, 0] and the right one to [0, MaxEyeOffset].
//
// Parameters:
//   - defaults: the default head-to-eye offsets
//   - iod: the separation adjustment (split evenly between the eyes)
//   - mono: when true both eyes use the midpoint of the adjusted offsets
//
// Returns:
//   - [EyeCount]mgl32.Vec3: the adjusted offsets
func AdjustedEyeOffsets(defaults [EyeCount]mgl32.Vec3, iod float32, mono bool) [EyeCount]mgl32.Vec3 {
	out := defaults
	out[EyeLeft][0] = common.Clamp(defaults[EyeLeft].X()-iod/2, -MaxEyeOffset, 0)
	out[EyeRight][0] = common.Clamp(defaults[EyeRight].X()+iod/2, 0, MaxEyeOffset)
	if mono {
		mid := out[EyeLeft].Add(out[EyeRight]).Mul(0.5)
		out[EyeLeft], out[EyeRight] = mid, mid
	}
	return out
}

func (t *tracker) Resolve(head HeadState, defaults [EyeCount]mgl32.Vec3, opts ResolveOptions) [EyeCount]EyeFrame {
	t.mu.Lock()
	defer t.mu.Unlock()

	offsets := AdjustedEyeOffsets(defaults, opts.IOD, opts.Mono)

	// The hand is remembered on every unfrozen frame, whether or not HandAsEye is set.
	if !opts.Frozen || !t.handInitialized {
		t.lastHand = head.RightHand.Position
		t.handInitialized = true
	}

	var frames [EyeCount]EyeFrame
	for _, eye := range Eyes {
		pose := head.Head.Offset(offsets[eye])

		if !t.initialized[eye] {
			t.lastEye[eye] = pose.Position
			t.initialized[eye] = true
		}
		render := t.lastEye[eye]
		if !opts.Frozen {
			render = pose.Position
		}
		t.lastEye[eye] = render

		if opts.HandAsEye {
			render = t.lastHand.Add(mgl32.Vec3{defaults[eye].X(), 0, 0})
		}

		frames[eye] = EyeFrame{Eye: eye, Pose: pose, RenderPosition: render}
	}
	return frames
}

func (t *tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initialized = [EyeCount]bool{}
	t.handInitialized = false
}
