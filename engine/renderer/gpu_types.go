package renderer

import (
	"unsafe"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Vertex is the textured vertex layout: position at location 0, uv at location 1.
type Vertex struct {
	Pos [3]float32
	UV  [2]float32
}

// LineVertex is the debug line vertex layout: position at location 0, color at location 1.
type LineVertex struct {
	Pos   [3]float32
	Color [4]float32
}

// GPUDrawUniform is the per-draw uniform block (DrawUniform in WGSL).
// MVP is already remapped to WebGPU clip space.
type GPUDrawUniform struct {
	MVP [16]float32
}

const (
	// VertexStride is the byte size of one Vertex.
	VertexStride = uint64(unsafe.Sizeof(Vertex{}))

	// LineVertexStride is the byte size of one LineVertex.
	LineVertexStride = uint64(unsafe.Sizeof(LineVertex{}))

	// DrawUniformSize is the byte size of one GPUDrawUniform.
	DrawUniformSize = uint64(unsafe.Sizeof(GPUDrawUniform{}))

	// UniformSlotSize is the stride between draw uniforms in the ring buffer.
	// It equals the WebGPU default minUniformBufferOffsetAlignment.
	UniformSlotSize = 256
)

// NewDrawUniform packs an OpenGL-convention world-to-clip matrix for upload.
//
// Parameters:
//   - m: the combined matrix applied to model-space vertices
//
// Returns:
//   - GPUDrawUniform: the uniform with the depth range remapped to [0, 1]
func NewDrawUniform(m mgl32.Mat4) GPUDrawUniform {
	return GPUDrawUniform{MVP: common.ToGPUClip(m)}
}

// Bytes returns a copy of the uniform's memory suitable for staging.
func (u GPUDrawUniform) Bytes() []byte {
	raw := common.StructToBytes(&u)
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}

// NewLineVertex builds a line vertex from mgl32 values.
func NewLineVertex(pos mgl32.Vec3, color mgl32.Vec4) LineVertex {
	return LineVertex{Pos: pos, Color: color}
}

// vertexLayout describes Vertex for the textured pipeline.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: VertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(Vertex{}.UV)), ShaderLocation: 1},
	},
}

// lineVertexLayout describes LineVertex for the line pipeline.
var lineVertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: LineVertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x4, Offset: uint64(unsafe.Offsetof(LineVertex{}.Color)), ShaderLocation: 1},
	},
}

// drawGroupLayout is group 0 of every pipeline: the dynamic-offset draw uniform.
var drawGroupLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "Draw Uniform Layout",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex,
			Buffer: wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: true,
				MinBindingSize:   DrawUniformSize,
			},
		},
	},
}

// textureGroupLayout is group 1 of the textured pipeline: albedo texture and sampler.
var textureGroupLayout = wgpu.BindGroupLayoutDescriptor{
	Label: "Albedo Layout",
	Entries: []wgpu.BindGroupLayoutEntry{
		{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Texture: wgpu.TextureBindingLayout{
				SampleType:    wgpu.TextureSampleTypeFloat,
				ViewDimension: wgpu.TextureViewDimension2D,
				Multisampled:  false,
			},
		},
		{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
			Sampler: wgpu.SamplerBindingLayout{
				Type: wgpu.SamplerBindingTypeFiltering,
			},
		},
	},
}
