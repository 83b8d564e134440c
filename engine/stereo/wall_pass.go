package stereo

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/scene"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DefaultWallResolution is the edge length of each wall target in pixels.
	DefaultWallResolution = 2048

	// DefaultWallNear and DefaultWallFar are the clip distances of the wall projections.
	DefaultWallNear float32 = 0.01
	DefaultWallFar  float32 = 1000
)

// WallTextures holds one texture per wall, indexed by cave.WallID.
type WallTextures [cave.WallCount]renderer.Texture

// wallPassDriver is the implementation of the WallPassDriver interface.
type wallPassDriver struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	cave     cave.Cave
	state    *scene.State
	assets   *Assets

	targets [cave.WallCount]renderer.RenderTarget
	lines   *DebugLines
	eye     tracking.Eye

	resolution int
	near, far  float32
	culling    bool
}

// WallPassDriver renders the scene onto each CAVE wall from a tracked eye using an off-axis
// projection per wall. Each wall has its own offscreen target.
type WallPassDriver interface {
	// RenderWall clears target and draws the skybox and cube as seen through wall from eyePos.
	// The skybox texture is that of the eye last passed to RenderWalls.
	// When the projection cannot be solved the target is still cleared and the solver error is returned.
	//
	// Parameters:
	//   - wall: the wall in world space
	//   - eyePos: the eye position in world space
	//   - target: the wall's render target
	//
	// Returns:
	//   - error: a cave solver error, or a renderer error
	RenderWall(wall cave.WallPlane, eyePos mgl32.Vec3, target renderer.RenderTarget) error

	// RenderWalls renders the left, right and bottom walls in order for one eye and retraces
	// that eye's debug lines. A wall selected by projector dropout is cleared but not drawn.
	// A wall the solver rejects does not stop the others. A renderer failure stops at once.
	//
	// Parameters:
	//   - eye: the eye being rendered
	//   - eyePos: the eye position in world space
	//
	// Returns:
	//   - error: the joined *WallError values of the rejected walls, the renderer error, or nil
	RenderWalls(eye tracking.Eye, eyePos mgl32.Vec3) error

	// Target returns the render target of one wall.
	//
	// Parameters:
	//   - id: the wall
	//
	// Returns:
	//   - renderer.RenderTarget: the target
	Target(id cave.WallID) renderer.RenderTarget

	// Textures returns the wall targets for sampling.
	//
	// Returns:
	//   - WallTextures: the targets indexed by wall
	Textures() WallTextures

	// DebugLines returns the corner-to-eye lines traced by RenderWalls.
	//
	// Returns:
	//   - *DebugLines: the shared collection
	DebugLines() *DebugLines

	// Release frees the wall targets and drops the debug lines.
	Release()
}

var _ WallPassDriver = &wallPassDriver{}

// NewWallPassDriver creates the wall targets and the debug line collection.
//
// Parameters:
//   - r: the renderer that records the passes
//   - c: the CAVE providing the wall planes
//   - state: the scene state
//   - assets: the shared meshes and textures
//   - options: functional options to configure the driver
//
// Returns:
//   - WallPassDriver: the driver
//   - error: an error if a wall target cannot be created
func NewWallPassDriver(r renderer.Renderer, c cave.Cave, state *scene.State, assets *Assets, options ...WallPassDriverBuilderOption) (WallPassDriver, error) {
	d := &wallPassDriver{
		mu:         &sync.Mutex{},
		renderer:   r,
		cave:       c,
		state:      state,
		assets:     assets,
		lines:      NewDebugLines(),
		resolution: DefaultWallResolution,
		near:       DefaultWallNear,
		far:        DefaultWallFar,
		culling:    true,
	}
	for _, opt := range options {
		opt(d)
	}

	for _, id := range cave.WallIDs {
		target, err := r.CreateRenderTarget(fmt.Sprintf("Wall %s", id), d.resolution, d.resolution)
		if err != nil {
			d.Release()
			return nil, fmt.Errorf("wall %s: %w", id, err)
		}
		d.targets[id] = target
	}
	return d, nil
}

func (d *wallPassDriver) RenderWall(wall cave.WallPlane, eyePos mgl32.Vec3, target renderer.RenderTarget) error {
	d.mu.Lock()
	eye := d.eye
	d.mu.Unlock()
	return d.renderWall(eye, wall, eyePos, target, true)
}

func (d *wallPassDriver) renderWall(eye tracking.Eye, wall cave.WallPlane, eyePos mgl32.Vec3, target renderer.RenderTarget, draw bool) error {
	if err := d.renderer.BeginTargetPass(target, renderer.ClearWall); err != nil {
		return err
	}

	proj, solveErr := wall.Project(eyePos, d.near, d.far)
	var drawErr error
	if solveErr == nil && draw {
		drawErr = d.drawScene(eye, proj.Matrix)
	}

	if err := d.renderer.EndPass(); err != nil {
		return err
	}
	if solveErr != nil {
		return solveErr
	}
	return drawErr
}

// drawScene issues the skybox then the cube with the wall's view-projection.
func (d *wallPassDriver) drawScene(eye tracking.Eye, viewProj mgl32.Mat4) error {
	if err := d.renderer.DrawMesh(d.assets.Skybox, d.assets.SkyboxTextures[eye], viewProj); err != nil {
		return err
	}

	model := d.state.CubeModel()
	if d.culling {
		_, _, size := d.state.Cube()
		if !common.ExtractFrustum(viewProj).SphereVisible(common.Translation(model), CubeBoundingRadius(size)) {
			return nil
		}
	}
	return d.renderer.DrawMesh(d.assets.Cube, d.assets.CubeTexture, viewProj.Mul4(model))
}

func (d *wallPassDriver) RenderWalls(eye tracking.Eye, eyePos mgl32.Vec3) error {
	d.mu.Lock()
	d.eye = eye
	d.mu.Unlock()

	var errs []error
	for i, wall := range d.cave.Walls() {
		id := cave.WallIDs[i]
		draw := !d.state.Dropped(eye, id)
		if err := d.renderWall(eye, wall, eyePos, d.targets[id], draw); err != nil {
			if !IsRejection(err) {
				return fmt.Errorf("%s wall: %w", id, err)
			}
			errs = append(errs, &WallError{Eye: eye, Wall: id, Err: err})
		}
		d.lines.Update(eye, wall, eyePos)
	}
	return errors.Join(errs...)
}

func (d *wallPassDriver) Target(id cave.WallID) renderer.RenderTarget {
	if id < 0 || id >= cave.WallCount {
		return nil
	}
	return d.targets[id]
}

func (d *wallPassDriver) Textures() WallTextures {
	var out WallTextures
	for id, t := range d.targets {
		out[id] = t
	}
	return out
}

func (d *wallPassDriver) DebugLines() *DebugLines {
	return d.lines
}

func (d *wallPassDriver) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id, t := range d.targets {
		if t != nil {
			t.Release()
			d.targets[id] = nil
		}
	}
	d.lines.Release()
}
