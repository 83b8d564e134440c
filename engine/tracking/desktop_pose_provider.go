package tracking

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/input"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultIPD is the default interpupillary distance in meters (2 x 0.0294861).
const DefaultIPD float32 = 0.0589722

// desktopPoseProvider simulates an HMD from keyboard input.
// Translation is applied in the yaw frame so forward stays horizontal while pitched.
type desktopPoseProvider struct {
	mu *sync.Mutex

	start      mgl32.Vec3
	startYaw   float32
	position   mgl32.Vec3
	yaw        float32
	pitch      float32
	handOffset mgl32.Vec3
	ipd        float32

	// Speed settings
	moveSpeed float32 // meters per second
	turnSpeed float32 // radians per second

	// Pitch constraints
	minPitch float32
	maxPitch float32
}

var _ PoseProvider = &desktopPoseProvider{}

// NewDesktopPoseProvider creates a keyboard-driven pose provider with sensible defaults.
//
// Parameters:
//   - options: functional options to configure the provider
//
// Returns:
//   - PoseProvider: the newly created provider
func NewDesktopPoseProvider(options ...DesktopPoseProviderOption) PoseProvider {
	p := &desktopPoseProvider{
		mu:         &sync.Mutex{},
		handOffset: mgl32.Vec3{0.15, -0.25, -0.35},
		ipd:        DefaultIPD,
		moveSpeed:  1.5,
		turnSpeed:  float32(math.Pi / 2),
		minPitch:   -float32(math.Pi/2) + 0.01,
		maxPitch:   float32(math.Pi/2) - 0.01,
	}
	for _, opt := range options {
		opt(p)
	}
	p.position = p.start
	p.yaw = p.startYaw
	return p
}

func (p *desktopPoseProvider) Poll(s input.Snapshot, dt float32) HeadState {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dt < 0 {
		dt = 0
	}

	p.yaw += s.Turn.X() * p.turnSpeed * dt
	p.pitch = common.Clamp(p.pitch+s.Turn.Y()*p.turnSpeed*dt, p.minPitch, p.maxPitch)

	yawRot := mgl32.QuatRotate(p.yaw, mgl32.Vec3{0, 1, 0})
	if s.Move.Len() > 0 {
		local := mgl32.Vec3{s.Move.X(), s.Move.Y(), -s.Move.Z()}
		if local.Len() > 1 {
			local = local.Normalize()
		}
		p.position = p.position.Add(yawRot.Rotate(local).Mul(p.moveSpeed * dt))
	}

	head := Pose{
		Position:    p.position,
		Orientation: yawRot.Mul(mgl32.QuatRotate(p.pitch, mgl32.Vec3{1, 0, 0})),
	}
	return HeadState{
		Head:      head,
		RightHand: head.Offset(p.handOffset),
	}
}

func (p *desktopPoseProvider) EyeOffsets() [EyeCount]mgl32.Vec3 {
	p.mu.Lock()
	defer p.mu.Unlock()
	half := p.ipd / 2
	return [EyeCount]mgl32.Vec3{{-half, 0, 0}, {half, 0, 0}}
}

func (p *desktopPoseProvider) Recenter() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = p.start
	p.yaw = p.startYaw
	p.pitch = 0
}
