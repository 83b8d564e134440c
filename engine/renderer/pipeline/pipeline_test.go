package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert := assert.New(t)
	p := NewPipeline("textured")

	assert.Equal("textured", p.PipelineKey())
	assert.True(p.DepthTestEnabled())
	assert.True(p.DepthWriteEnabled())
	assert.False(p.BlendEnabled())
	assert.Equal(wgpu.CullModeNone, p.CullMode())
	assert.Equal(wgpu.PrimitiveTopologyTriangleList, p.Topology())
	assert.Equal(wgpu.FrontFaceCCW, p.FrontFace())
	assert.NotNil(p.BlendState())
	assert.Nil(p.Shader(shader.ShaderTypeVertex))
	for _, target := range PassTargets {
		assert.Nil(p.RenderPipeline(target))
	}
}

func TestOptions(t *testing.T) {
	assert := assert.New(t)
	vs, fs := shader.LineShaders()
	layout := wgpu.VertexBufferLayout{ArrayStride: 28}
	group := wgpu.BindGroupLayoutDescriptor{Label: "draw"}

	p := NewPipeline("lines",
		WithVertexShader(vs),
		WithFragmentShader(fs),
		WithVertexLayout(layout),
		WithBindGroupLayout(group),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithDepthWriteEnabled(false),
		WithBlendEnabled(true),
		WithCullMode(wgpu.CullModeBack),
	)

	assert.Equal(vs, p.Shader(shader.ShaderTypeVertex))
	assert.Equal(fs, p.Shader(shader.ShaderTypeFragment))
	assert.Equal([]wgpu.VertexBufferLayout{layout}, p.VertexLayouts())
	assert.Equal([]wgpu.BindGroupLayoutDescriptor{group}, p.BindGroupLayouts())
	assert.Equal(wgpu.PrimitiveTopologyLineList, p.Topology())
	assert.False(p.DepthWriteEnabled())
	assert.True(p.BlendEnabled())
	assert.Equal(wgpu.CullModeBack, p.CullMode())
}

func TestRenderPipelineOutOfRange(t *testing.T) {
	p := NewPipeline("x")
	p.SetRenderPipeline(PassTarget(9), nil)
	assert.Nil(t, p.RenderPipeline(PassTarget(-1)))
	assert.NotPanics(t, p.Release)
}
