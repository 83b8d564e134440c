package cave

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultRotationY is the yaw applied to the CAVE at startup, in radians (-45 degrees).
const DefaultRotationY float32 = -0.785398

// DefaultHalfExtent is half the edge length of the canonical CAVE cube.
const DefaultHalfExtent float32 = 10

// cave is the implementation of the Cave interface.
type cave struct {
	mu *sync.Mutex

	halfExtent float32
	toWorld    mgl32.Mat4
}

// Cave places the canonical CAVE cube in the world and derives its wall planes.
// The transform is rigid; the wall planes are recomputed from it on every call.
type Cave interface {
	// HalfExtent returns half the edge length of the canonical cube.
	//
	// Returns:
	//   - float32: the half extent in world units
	HalfExtent() float32

	// Transform returns the CAVE-to-world transform.
	//
	// Returns:
	//   - mgl32.Mat4: the current rigid transform
	Transform() mgl32.Mat4

	// SetTransform replaces the CAVE-to-world transform.
	//
	// Parameters:
	//   - m: the new rigid transform
	SetTransform(m mgl32.Mat4)

	// Wall returns one wall's corners in world space.
	//
	// Parameters:
	//   - id: the wall to return
	//
	// Returns:
	//   - WallPlane: the wall transformed by the current CAVE transform
	Wall(id WallID) WallPlane

	// Walls returns all walls in world space, in render order.
	//
	// Returns:
	//   - [WallCount]WallPlane: left, right and bottom walls
	Walls() [WallCount]WallPlane

	// LocalWall returns one wall's corners in CAVE space, before the transform.
	//
	// Parameters:
	//   - id: the wall to return
	//
	// Returns:
	//   - WallPlane: the canonical wall
	LocalWall(id WallID) WallPlane

	// Contains reports whether a world-space point lies strictly inside the cube.
	//
	// Parameters:
	//   - p: the point in world space
	//
	// Returns:
	//   - bool: true if the point is inside on all three axes
	Contains(p mgl32.Vec3) bool
}

var _ Cave = &cave{}

// NewCave creates a new Cave with the specified options.
// Defaults to a half extent of 10 and a -45 degree yaw.
//
// Parameters:
//   - options: functional options to configure the CAVE
//
// Returns:
//   - Cave: the configured CAVE
func NewCave(options ...CaveBuilderOption) Cave {
	c := &cave{
		mu:         &sync.Mutex{},
		halfExtent: DefaultHalfExtent,
		toWorld:    mgl32.HomogRotate3DY(DefaultRotationY),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *cave) HalfExtent() float32 {
	return c.halfExtent
}

func (c *cave) Transform() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.toWorld
}

func (c *cave) SetTransform(m mgl32.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toWorld = m
}

func (c *cave) Wall(id WallID) WallPlane {
	return c.LocalWall(id).Transform(c.Transform())
}

func (c *cave) Walls() [WallCount]WallPlane {
	m := c.Transform()
	var walls [WallCount]WallPlane
	for i, id := range WallIDs {
		walls[i] = c.LocalWall(id).Transform(m)
	}
	return walls
}

func (c *cave) LocalWall(id WallID) WallPlane {
	return CanonicalWall(id, c.halfExtent)
}

func (c *cave) Contains(p mgl32.Vec3) bool {
	local := common.TransformPoint(c.Transform().Inv(), p)
	h := c.halfExtent
	for _, v := range local {
		if v <= -h || v >= h {
			return false
		}
	}
	return true
}
