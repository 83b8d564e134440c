package stereo

import (
	"math"

	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// CubeBaseHalfExtent is the half extent of the cube mesh before the scene scale is applied.
	CubeBaseHalfExtent float32 = 2

	// SkyboxHalfExtent is the half extent of the skybox mesh. It stays inside the default far plane
	// from anywhere in the CAVE.
	SkyboxHalfExtent float32 = 500
)

// boxFaces holds the corners of each unit cube face ordered bottom-left, bottom-right,
// top-right, top-left as seen from outside.
var boxFaces = [6][4]mgl32.Vec3{
	{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}},     // +X
	{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}, // -X
	{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}},     // +Y
	{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}, // -Y
	{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}},     // +Z
	{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}, // -Z
}

var faceUVs = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// BoxGeometry builds an axis-aligned box centered on the origin with one full texture per face.
//
// Parameters:
//   - half: the half extent of the box
//
// Returns:
//   - []renderer.Vertex: 24 vertices, four per face
//   - []uint32: 36 triangle list indices
func BoxGeometry(half float32) ([]renderer.Vertex, []uint32) {
	verts := make([]renderer.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, face := range boxFaces {
		base := uint32(len(verts))
		for i, corner := range face {
			verts = append(verts, renderer.Vertex{Pos: corner.Mul(half), UV: faceUVs[i]})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return verts, indices
}

// CubeGeometry returns the manipulable cube mesh.
func CubeGeometry() ([]renderer.Vertex, []uint32) {
	return BoxGeometry(CubeBaseHalfExtent)
}

// SkyboxGeometry returns the skybox mesh.
func SkyboxGeometry() ([]renderer.Vertex, []uint32) {
	return BoxGeometry(SkyboxHalfExtent)
}

// CubeBoundingRadius returns the radius of the sphere enclosing the cube at a scene scale.
func CubeBoundingRadius(size float32) float32 {
	return CubeBaseHalfExtent * size * float32(math.Sqrt(3))
}

// WallQuad builds the two triangles of a wall. The texture's top row lands on the C-D edge,
// matching the orientation the wall pass renders with.
//
// Parameters:
//   - w: the wall, usually in CAVE space
//
// Returns:
//   - []renderer.Vertex: corners A, B, C, D
//   - []uint32: six triangle list indices
func WallQuad(w cave.WallPlane) ([]renderer.Vertex, []uint32) {
	verts := []renderer.Vertex{
		{Pos: w.A, UV: [2]float32{0, 1}},
		{Pos: w.B, UV: [2]float32{1, 1}},
		{Pos: w.C, UV: [2]float32{0, 0}},
		{Pos: w.D(), UV: [2]float32{1, 0}},
	}
	return verts, []uint32{0, 1, 3, 0, 3, 2}
}
