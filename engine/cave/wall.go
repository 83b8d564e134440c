package cave

import (
	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/go-gl/mathgl/mgl32"
)

// WallID identifies one of the three CAVE walls. The numeric order is the render order.
type WallID int

const (
	// WallLeft is the face at x = -h in CAVE space.
	WallLeft WallID = iota
	// WallRight is the face at z = -h in CAVE space, used as the back wall.
	WallRight
	// WallBottom is the face at y = -h in CAVE space.
	WallBottom

	// WallCount is the number of walls.
	WallCount
)

// WallIDs lists the walls in render order.
var WallIDs = [WallCount]WallID{WallLeft, WallRight, WallBottom}

func (id WallID) String() string {
	switch id {
	case WallLeft:
		return "left"
	case WallRight:
		return "right"
	case WallBottom:
		return "bottom"
	default:
		return "unknown"
	}
}

// WallPlane is a rectangular wall described by three corners.
// A is the reference (bottom-left) corner, B shares the edge pointing "right"
// and C shares the edge pointing "up". The normal (right x up) points into the room.
type WallPlane struct {
	ID      WallID
	A, B, C mgl32.Vec3
}

// CanonicalWall returns the wall's corners on a cube of the given half extent, in CAVE space.
//
// Parameters:
//   - id: the wall to build
//   - h: half the cube's edge length
//
// Returns:
//   - WallPlane: the untransformed wall
func CanonicalWall(id WallID, h float32) WallPlane {
	switch id {
	case WallLeft:
		return WallPlane{ID: id, A: mgl32.Vec3{-h, -h, h}, B: mgl32.Vec3{-h, -h, -h}, C: mgl32.Vec3{-h, h, h}}
	case WallRight:
		return WallPlane{ID: id, A: mgl32.Vec3{-h, -h, -h}, B: mgl32.Vec3{h, -h, -h}, C: mgl32.Vec3{-h, h, -h}}
	case WallBottom:
		return WallPlane{ID: id, A: mgl32.Vec3{-h, -h, h}, B: mgl32.Vec3{h, -h, h}, C: mgl32.Vec3{-h, -h, -h}}
	default:
		return WallPlane{ID: id}
	}
}

// D returns the fourth corner, opposite A.
func (w WallPlane) D() mgl32.Vec3 {
	return w.B.Add(w.C.Sub(w.A))
}

// Corners returns the quad in winding order A, B, D, C.
func (w WallPlane) Corners() [4]mgl32.Vec3 {
	return [4]mgl32.Vec3{w.A, w.B, w.D(), w.C}
}

// Center returns the midpoint of the wall.
func (w WallPlane) Center() mgl32.Vec3 {
	return w.B.Add(w.C).Mul(0.5)
}

// Normal returns the unit normal pointing into the room. Zero for degenerate walls.
func (w WallPlane) Normal() mgl32.Vec3 {
	n := w.B.Sub(w.A).Cross(w.C.Sub(w.A))
	if n.Len() == 0 {
		return mgl32.Vec3{}
	}
	return n.Normalize()
}

// Transform applies a rigid transform to all three corners.
func (w WallPlane) Transform(m mgl32.Mat4) WallPlane {
	return WallPlane{
		ID: w.ID,
		A:  common.TransformPoint(m, w.A),
		B:  common.TransformPoint(m, w.B),
		C:  common.TransformPoint(m, w.C),
	}
}

// Project solves the off-axis projection of this wall for the given eye.
func (w WallPlane) Project(eye mgl32.Vec3, near, far float32) (Projection, error) {
	return Solve(eye, w.A, w.B, w.C, near, far)
}
