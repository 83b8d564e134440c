package tracking

import (
	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// Eye identifies one of the two HMD eyes.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight

	EyeCount
)

// Eyes lists the eyes in render order.
var Eyes = [EyeCount]Eye{EyeLeft, EyeRight}

func (e Eye) String() string {
	if e == EyeLeft {
		return "left"
	}
	return "right"
}

// Pose is a tracked rigid pose.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityPose is the pose at the origin looking down -Z.
var IdentityPose = Pose{Orientation: mgl32.QuatIdent()}

// Matrix returns the pose as a local-to-world transform.
func (p Pose) Matrix() mgl32.Mat4 {
	return common.PoseMatrix(p.Position, p.Orientation)
}

// Offset returns the pose moved by a vector expressed in the pose's local frame.
func (p Pose) Offset(local mgl32.Vec3) Pose {
	return Pose{
		Position:    p.Position.Add(p.Orientation.Rotate(local)),
		Orientation: p.Orientation,
	}
}

// HeadState is the tracked state for one frame.
type HeadState struct {
	Head      Pose
	RightHand Pose
}

// PoseProvider supplies tracked poses once per frame.
type PoseProvider interface {
	// Poll advances the provider by one frame and returns the tracked state.
	//
	// Parameters:
	//   - s: the controller snapshot for this frame
	//   - dt: seconds since the previous frame
	//
	// Returns:
	//   - HeadState: the head and right hand poses
	Poll(s input.Snapshot, dt float32) HeadState

	// EyeOffsets returns the default head-to-eye offsets in head space.
	//
	// Returns:
	//   - [EyeCount]mgl32.Vec3: left and right offsets
	EyeOffsets() [EyeCount]mgl32.Vec3

	// Recenter resets the tracking origin to the provider's start pose.
	Recenter()
}
