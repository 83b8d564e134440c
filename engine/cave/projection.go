package cave

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// degenerateEpsilon bounds the squared length of a wall edge (or of the cross product of
// its two edges, relative to their lengths) below which the corners are treated as degenerate.
const degenerateEpsilon = 1e-12

// Frustum holds the near-plane extents of an off-axis perspective frustum.
type Frustum struct {
	Left, Right, Bottom, Top float32
	Near, Far                float32
}

// Projection is the result of solving the off-axis projection for one eye and one wall.
// It is recomputed every frame and never stored.
type Projection struct {
	// Matrix is the combined world-to-clip matrix (OpenGL clip convention).
	// It is applied directly to world-space vertices.
	Matrix mgl32.Mat4

	// Frustum holds the extents the perspective part was built from.
	Frustum Frustum

	// Right, Up and Normal are the orthonormal wall basis. Normal points toward the eye side.
	Right, Up, Normal mgl32.Vec3

	// Distance is the perpendicular distance from the eye to the wall plane.
	Distance float32
}

// ComputeProjection returns the combined view-projection matrix that renders the world from eye
// onto the wall spanned by corners a (reference corner), b (right of a) and c (above a).
//
// Parameters:
//   - eye: the eye position in world space
//   - a, b, c: the wall corners in world space
//   - near, far: clip distances measured along the wall normal
//
// Returns:
//   - mgl32.Mat4: Frustum * Rotation * Translate(-eye)
//   - error: ErrDegenerateWall, ErrEyeBehindWall or ErrInvalidClipRange (wrapped)
func ComputeProjection(eye, a, b, c mgl32.Vec3, near, far float32) (mgl32.Mat4, error) {
	p, err := Solve(eye, a, b, c, near, far)
	if err != nil {
		return mgl32.Mat4{}, err
	}
	return p.Matrix, nil
}

// Solve computes the general off-axis perspective projection for an eye and a planar wall.
//
// The wall basis is right = normalize(b-a), up = normalize(c-a), normal = normalize(right x up).
// The frustum extents are the corner offsets from the eye projected onto that basis and scaled
// to the near plane. The returned matrix is frustum(l, r, b, t, n, f) * R * T(-eye), where R has
// rows right, up and normal.
//
// Parameters:
//   - eye: the eye position in world space
//   - a, b, c: the wall corners in world space
//   - near, far: clip distances measured along the wall normal
//
// Returns:
//   - Projection: the combined matrix plus the values it was derived from
//   - error: ErrDegenerateWall, ErrEyeBehindWall or ErrInvalidClipRange (wrapped)
func Solve(eye, a, b, c mgl32.Vec3, near, far float32) (Projection, error) {
	if !(near > 0) || !(far > near) || isInf(far) {
		return Projection{}, fmt.Errorf("near=%v far=%v: %w", near, far, ErrInvalidClipRange)
	}
	if !finite(a) || !finite(b) || !finite(c) {
		return Projection{}, fmt.Errorf("non-finite corner: %w", ErrDegenerateWall)
	}

	edgeR := b.Sub(a)
	edgeU := c.Sub(a)
	lenR := edgeR.Dot(edgeR)
	lenU := edgeU.Dot(edgeU)
	cross := edgeR.Cross(edgeU)
	if lenR < degenerateEpsilon || lenU < degenerateEpsilon || cross.Dot(cross) < degenerateEpsilon*lenR*lenU {
		return Projection{}, fmt.Errorf("corners %v %v %v: %w", a, b, c, ErrDegenerateWall)
	}

	vr := edgeR.Normalize()
	vu := edgeU.Normalize()
	vn := vr.Cross(vu).Normalize()

	va := a.Sub(eye)
	vb := b.Sub(eye)
	vc := c.Sub(eye)

	d := -vn.Dot(va)
	if !(d > 0) || isInf(d) {
		return Projection{}, fmt.Errorf("eye %v at distance %v: %w", eye, d, ErrEyeBehindWall)
	}

	scale := near / d
	fr := Frustum{
		Left:   vr.Dot(va) * scale,
		Right:  vr.Dot(vb) * scale,
		Bottom: vu.Dot(va) * scale,
		Top:    vu.Dot(vc) * scale,
		Near:   near,
		Far:    far,
	}

	perspective := mgl32.Frustum(fr.Left, fr.Right, fr.Bottom, fr.Top, fr.Near, fr.Far)
	rotation := mgl32.Mat4FromRows(
		vr.Vec4(0),
		vu.Vec4(0),
		vn.Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
	translation := mgl32.Translate3D(-eye.X(), -eye.Y(), -eye.Z())

	return Projection{
		Matrix:   perspective.Mul4(rotation).Mul4(translation),
		Frustum:  fr,
		Right:    vr,
		Up:       vu,
		Normal:   vn,
		Distance: d,
	}, nil
}

func finite(v mgl32.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(float64(c)) || isInf(c) {
			return false
		}
	}
	return true
}

func isInf(f float32) bool {
	return math.IsInf(float64(f), 0)
}
