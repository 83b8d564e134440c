package stereo

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
)

// AssetPaths lists optional image files. Empty paths fall back to procedural textures.
type AssetPaths struct {
	Skybox    [tracking.EyeCount]string
	HMDSkybox string
	Cube      string
}

// Assets are the meshes and textures shared by the wall and composite passes.
type Assets struct {
	Cube      renderer.Mesh
	Skybox    renderer.Mesh
	WallQuads [cave.WallCount]renderer.Mesh

	CubeTexture renderer.Texture
	// SkyboxTextures are seen by the wall passes, one per eye.
	SkyboxTextures [tracking.EyeCount]renderer.Texture
	// HMDSkybox is seen by the composite pass.
	HMDSkybox renderer.Texture
}

const proceduralTextureSize = 512

// procedural skybox colors: bottom, top, grid line
var (
	skyboxColors = [tracking.EyeCount][3][4]uint8{
		tracking.EyeLeft:  {{40, 36, 60, 255}, {110, 150, 210, 255}, {230, 230, 240, 255}},
		tracking.EyeRight: {{60, 36, 40, 255}, {210, 150, 110, 255}, {240, 230, 230, 255}},
	}
	hmdSkyboxColors = [3][4]uint8{{20, 20, 20, 255}, {70, 70, 80, 255}, {120, 120, 130, 255}}
	cubeColors      = [3][4]uint8{{200, 120, 40, 255}, {250, 200, 90, 255}, {30, 20, 10, 255}}
)

// LoadAssets uploads the cube, skybox and wall quad meshes and the scene textures.
// Wall quads are built in CAVE space; draw them with the CAVE transform.
//
// Parameters:
//   - r: the renderer that owns the resources
//   - c: the CAVE whose walls the quads cover
//   - paths: optional texture images
//
// Returns:
//   - *Assets: the uploaded assets
//   - error: an error if an image cannot be loaded or an upload fails
func LoadAssets(r renderer.Renderer, c cave.Cave, paths AssetPaths) (*Assets, error) {
	a := &Assets{}
	var err error

	verts, indices := CubeGeometry()
	if a.Cube, err = r.CreateMesh("Cube", verts, indices); err != nil {
		return nil, a.fail(err)
	}
	verts, indices = SkyboxGeometry()
	if a.Skybox, err = r.CreateMesh("Skybox", verts, indices); err != nil {
		return nil, a.fail(err)
	}
	for _, id := range cave.WallIDs {
		verts, indices = WallQuad(c.LocalWall(id))
		if a.WallQuads[id], err = r.CreateMesh(fmt.Sprintf("Wall Quad %s", id), verts, indices); err != nil {
			return nil, a.fail(err)
		}
	}

	for _, eye := range tracking.Eyes {
		colors := skyboxColors[eye]
		a.SkyboxTextures[eye], err = loadTexture(r, fmt.Sprintf("Skybox %s", eye), paths.Skybox[eye], 32, colors)
		if err != nil {
			return nil, a.fail(err)
		}
	}
	if a.HMDSkybox, err = loadTexture(r, "HMD Skybox", paths.HMDSkybox, 64, hmdSkyboxColors); err != nil {
		return nil, a.fail(err)
	}
	if a.CubeTexture, err = loadTexture(r, "Cube", paths.Cube, 64, cubeColors); err != nil {
		return nil, a.fail(err)
	}
	return a, nil
}

// loadTexture uploads the image at path, or a gradient grid when path is empty.
func loadTexture(r renderer.Renderer, label, path string, cell int, colors [3][4]uint8) (renderer.Texture, error) {
	var data common.TextureStagingData
	if path == "" {
		data = common.GridTexture(proceduralTextureSize, cell, colors[0], colors[1], colors[2])
	} else {
		var err error
		if data, err = common.LoadTexture(path); err != nil {
			return nil, fmt.Errorf("texture %q: %w", label, err)
		}
		log.Printf("[Stereo] loaded %s texture from %s (%dx%d)", label, path, data.Width, data.Height)
	}
	return r.CreateTexture(label, data)
}

func (a *Assets) fail(err error) error {
	a.Release()
	return fmt.Errorf("stereo assets: %w", err)
}

// Release frees every loaded mesh and texture. Safe to call on partially loaded assets.
func (a *Assets) Release() {
	meshes := append([]renderer.Mesh{a.Cube, a.Skybox}, a.WallQuads[:]...)
	for _, m := range meshes {
		if m != nil {
			m.Release()
		}
	}
	textures := append([]renderer.Texture{a.CubeTexture, a.HMDSkybox}, a.SkyboxTextures[:]...)
	for _, t := range textures {
		if t != nil {
			t.Release()
		}
	}
	*a = Assets{}
}
