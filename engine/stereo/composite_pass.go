package stereo

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/go-gl/mathgl/mgl32"
)

// compositePass is the implementation of the CompositePass interface.
type compositePass struct {
	mu *sync.Mutex

	renderer renderer.Renderer
	cave     cave.Cave
	assets   *Assets
	lines    *DebugLines
}

// CompositePass draws the CAVE as the HMD eye sees it: a skybox, the three wall quads textured
// with the wall targets, and the debug lines of both eyes.
type CompositePass interface {
	// PresentCave draws into the open eye pass.
	//
	// Parameters:
	//   - projection: the HMD eye projection, OpenGL clip convention
	//   - headPose: the eye-to-world pose; its inverse is the view
	//   - walls: the wall textures indexed by cave.WallID
	//
	// Returns:
	//   - error: ErrMissingWallTexture, or a renderer error
	PresentCave(projection, headPose mgl32.Mat4, walls WallTextures) error
}

var _ CompositePass = &compositePass{}

// NewCompositePass creates a composite pass drawing the given assets.
//
// Parameters:
//   - r: the renderer that records the draws
//   - c: the CAVE whose transform places the wall quads
//   - assets: the shared meshes and textures
//   - lines: the debug lines to draw, or nil for none
//
// Returns:
//   - CompositePass: the pass
func NewCompositePass(r renderer.Renderer, c cave.Cave, assets *Assets, lines *DebugLines) CompositePass {
	return &compositePass{
		mu:       &sync.Mutex{},
		renderer: r,
		cave:     c,
		assets:   assets,
		lines:    lines,
	}
}

func (p *compositePass) PresentCave(projection, headPose mgl32.Mat4, walls WallTextures) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, id := range cave.WallIDs {
		if walls[id] == nil {
			return fmt.Errorf("%s wall: %w", id, ErrMissingWallTexture)
		}
	}

	view := headPose.Inv()

	// the skybox follows head orientation only
	if err := p.renderer.DrawMesh(p.assets.Skybox, p.assets.HMDSkybox, projection.Mul4(common.RotationOnly(view))); err != nil {
		return err
	}

	viewProj := projection.Mul4(view)
	caveViewProj := viewProj.Mul4(p.cave.Transform())
	for _, id := range cave.WallIDs {
		if err := p.renderer.DrawMesh(p.assets.WallQuads[id], walls[id], caveViewProj); err != nil {
			return err
		}
	}

	if p.lines == nil {
		return nil
	}
	return p.renderer.DrawLines(p.lines.Vertices(), viewProj)
}
