package stereo

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/go-gl/mathgl/mgl32"
)

// Corner names a wall corner.
type Corner int

const (
	CornerA Corner = iota
	CornerB
	CornerC
	// CornerD is opposite A, B+(C-A).
	CornerD

	cornerCount
)

func (c Corner) String() string {
	return [...]string{"A", "B", "C", "D"}[c]
}

// Point returns the corner's position on a wall.
func (c Corner) Point(w cave.WallPlane) mgl32.Vec3 {
	switch c {
	case CornerB:
		return w.B
	case CornerC:
		return w.C
	case CornerD:
		return w.D()
	default:
		return w.A
	}
}

// debugCorners lists the corners traced to the eye, per wall.
var debugCorners = [cave.WallCount][]Corner{
	cave.WallLeft:   {CornerC, CornerA},
	cave.WallRight:  {CornerC, CornerA, CornerD, CornerB},
	cave.WallBottom: {CornerB},
}

// DebugLinesPerEye is the number of corner-to-eye lines drawn for each eye.
const DebugLinesPerEye = 7

var (
	// DebugColorLeft is the color of the left eye's lines.
	DebugColorLeft = mgl32.Vec4{0, 1, 0, 1}

	// DebugColorRight is the color of the right eye's lines.
	DebugColorRight = mgl32.Vec4{1, 0, 0, 1}
)

// DebugLine is one segment from a wall corner to the eye that last rendered that wall.
type DebugLine struct {
	Eye    tracking.Eye
	Wall   cave.WallID
	Corner Corner
	From   mgl32.Vec3
	To     mgl32.Vec3
}

// DebugLines holds the latest corner-to-eye segments, indexed by eye, wall and corner.
// Lines appear once their wall has been rendered for that eye.
type DebugLines struct {
	mu    *sync.Mutex
	lines [tracking.EyeCount][cave.WallCount][cornerCount]DebugLine
	set   [tracking.EyeCount][cave.WallCount][cornerCount]bool
}

// NewDebugLines creates an empty collection.
func NewDebugLines() *DebugLines {
	return &DebugLines{mu: &sync.Mutex{}}
}

// Update retraces a wall's corners to an eye position.
//
// Parameters:
//   - eye: the eye being rendered
//   - wall: the wall in world space
//   - eyePos: the position the wall was rendered from
func (d *DebugLines) Update(eye tracking.Eye, wall cave.WallPlane, eyePos mgl32.Vec3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range debugCorners[wall.ID] {
		d.lines[eye][wall.ID][c] = DebugLine{Eye: eye, Wall: wall.ID, Corner: c, From: c.Point(wall), To: eyePos}
		d.set[eye][wall.ID][c] = true
	}
}

// Line returns one segment and whether it has been traced.
func (d *DebugLines) Line(eye tracking.Eye, wall cave.WallID, corner Corner) (DebugLine, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lines[eye][wall][corner], d.set[eye][wall][corner]
}

// Lines returns every traced segment, left eye first, then walls and corners in trace order.
func (d *DebugLines) Lines() []DebugLine {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]DebugLine, 0, int(tracking.EyeCount)*DebugLinesPerEye)
	for _, eye := range tracking.Eyes {
		for _, wall := range cave.WallIDs {
			for _, c := range debugCorners[wall] {
				if d.set[eye][wall][c] {
					out = append(out, d.lines[eye][wall][c])
				}
			}
		}
	}
	return out
}

// Vertices returns the traced segments as a line list colored by eye.
func (d *DebugLines) Vertices() []renderer.LineVertex {
	lines := d.Lines()
	out := make([]renderer.LineVertex, 0, 2*len(lines))
	for _, l := range lines {
		color := DebugColorLeft
		if l.Eye == tracking.EyeRight {
			color = DebugColorRight
		}
		out = append(out, renderer.NewLineVertex(l.From, color), renderer.NewLineVertex(l.To, color))
	}
	return out
}

// Release drops every traced segment.
func (d *DebugLines) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lines = [tracking.EyeCount][cave.WallCount][cornerCount]DebugLine{}
	d.set = [tracking.EyeCount][cave.WallCount][cornerCount]bool{}
}
