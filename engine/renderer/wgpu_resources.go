package renderer

import (
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/bind_group_provider"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// bindings inside a texture provider; they mirror textureGroupLayout
	textureBinding = 0
	samplerBinding = 1

	// depthSlot keys the depth attachment of a render target; it is never bound.
	depthSlot = 2
)

// wgpuTexture is a sampled texture: the texture, its view, a sampler and the group 1 bind group.
type wgpuTexture struct {
	provider      bind_group_provider.BindGroupProvider
	width, height int
}

var _ Texture = &wgpuTexture{}

func (t *wgpuTexture) Label() string {
	return t.provider.Label()
}

func (t *wgpuTexture) Size() (int, int) {
	return t.width, t.height
}

func (t *wgpuTexture) Release() {
	t.provider.Release()
}

// wgpuRenderTarget is a wall target: a sampled color texture plus a depth attachment.
type wgpuRenderTarget struct {
	wgpuTexture
}

var _ RenderTarget = &wgpuRenderTarget{}

func (t *wgpuRenderTarget) Viewport() Viewport {
	return Viewport{Width: float32(t.width), Height: float32(t.height)}
}

func (t *wgpuRenderTarget) colorView() *wgpu.TextureView {
	return t.provider.TextureView(textureBinding)
}

func (t *wgpuRenderTarget) depthView() *wgpu.TextureView {
	return t.provider.TextureView(depthSlot)
}

// wgpuMesh holds the vertex and index buffers of a Mesh.
type wgpuMesh struct {
	provider bind_group_provider.BindGroupProvider
}

var _ Mesh = &wgpuMesh{}

func (m *wgpuMesh) Label() string {
	return m.provider.Label()
}

func (m *wgpuMesh) IndexCount() int {
	return m.provider.IndexCount()
}

func (m *wgpuMesh) Release() {
	m.provider.Release()
}

// textureProvider unwraps the provider of a Texture created by this backend.
func textureProvider(t Texture) (bind_group_provider.BindGroupProvider, bool) {
	switch v := t.(type) {
	case *wgpuTexture:
		return v.provider, v.provider.BindGroup() != nil
	case *wgpuRenderTarget:
		return v.provider, v.provider.BindGroup() != nil
	default:
		return nil, false
	}
}
