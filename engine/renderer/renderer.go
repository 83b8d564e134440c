package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-cave/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Color is an RGBA clear color.
type Color struct {
	R, G, B, A float64
}

var (
	// ClearWall is the clear color of wall render targets.
	ClearWall = Color{R: 0, G: 0, B: 0, A: 1}

	// ClearSurface is the clear color of the mirror window.
	ClearSurface = Color{R: 0.1, G: 0.1, B: 0.1, A: 1}
)

// Viewport is a pixel rectangle of the current pass target.
type Viewport struct {
	X, Y, Width, Height float32
}

// Aspect returns width / height, or 1 for an empty viewport.
func (v Viewport) Aspect() float32 {
	if v.Height <= 0 {
		return 1
	}
	return v.Width / v.Height
}

// Texture is an opaque sampled texture handle.
type Texture interface {
	// Label returns the debug label.
	Label() string

	// Size returns the texture dimensions in pixels.
	Size() (width, height int)

	// Release frees the GPU resources. The handle must not be used afterwards.
	Release()
}

// RenderTarget is an offscreen color + depth target that can also be sampled as a Texture.
type RenderTarget interface {
	Texture

	// Viewport returns the full-target viewport.
	Viewport() Viewport
}

// Mesh is an opaque indexed triangle mesh of Vertex.
type Mesh interface {
	// Label returns the debug label.
	Label() string

	// IndexCount returns the number of indices drawn.
	IndexCount() int

	// Release frees the GPU resources. The handle must not be used afterwards.
	Release()
}

const (
	// PipelineTextured draws textured triangle meshes.
	PipelineTextured = "textured"

	// PipelineLines draws colored line lists.
	PipelineLines = "lines"
)

const (
	defaultUniformSlots = 256
	defaultLineVertices = 4096
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	uniforms *stagingRing
	lines    *stagingRing

	inFrame bool
	inPass  bool
	pass    pipeline.PassTarget

	drawCount     int
	lastDrawCount int

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	uniformSlots         int
	lineVertices         int
}

// Renderer records one command stream per frame made of offscreen target passes and mirror window
// eye passes. Every draw carries exactly one combined world-to-clip matrix in the OpenGL clip
// convention; the renderer remaps it to WebGPU clip space on upload.
//
// Frame protocol:
//
//	BeginFrame
//	  BeginTargetPass / BeginEyePass, DrawMesh / DrawLines, EndPass   (repeated)
//	EndFrame
//	Present
type Renderer interface {
	// SurfaceSize returns the configured mirror window size.
	//
	// Returns:
	//   - int: width in pixels
	//   - int: height in pixels
	SurfaceSize() (width, height int)

	// Resize reconfigures the surface for a new framebuffer size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. A call to Resize is required for it to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// Pipeline retrieves the cached Pipeline associated with the given key, or nil.
	//
	// Parameters:
	//   - key: PipelineTextured or PipelineLines
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline or nil
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipelines creates the GPU pipelines for each description and caches them by key.
	// Keys already registered are skipped.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if a description is inconsistent or GPU creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// CreateRenderTarget allocates an offscreen color + depth target.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: target resolution in pixels
	//
	// Returns:
	//   - RenderTarget: the new target
	//   - error: an error if the size is invalid or allocation fails
	CreateRenderTarget(label string, width, height int) (RenderTarget, error)

	// CreateTexture uploads RGBA8 pixels as a sampled texture.
	//
	// Parameters:
	//   - label: debug label
	//   - data: the pixel data and dimensions
	//
	// Returns:
	//   - Texture: the new texture
	//   - error: an error if the data is inconsistent or allocation fails
	CreateTexture(label string, data common.TextureStagingData) (Texture, error)

	// CreateMesh uploads an indexed triangle mesh.
	//
	// Parameters:
	//   - label: debug label
	//   - vertices: the vertex data
	//   - indices: triangle list indices into vertices
	//
	// Returns:
	//   - Mesh: the new mesh
	//   - error: an error if an index is out of range or allocation fails
	CreateMesh(label string, vertices []Vertex, indices []uint32) (Mesh, error)

	// BeginFrame acquires the surface texture and opens the frame's command encoder.
	//
	// Returns:
	//   - error: ErrFrameInProgress, or an error if the surface could not be acquired
	BeginFrame() error

	// BeginTargetPass opens a pass on an offscreen target, clearing color and depth.
	//
	// Parameters:
	//   - target: the render target
	//   - clear: the color clear value
	//
	// Returns:
	//   - error: ErrNoFrame, ErrPassInProgress or ErrInvalidResource
	BeginTargetPass(target RenderTarget, clear Color) error

	// BeginEyePass opens a pass on the mirror surface restricted to viewport.
	// A non-nil clear clears the whole surface; nil keeps what earlier passes drew.
	//
	// Parameters:
	//   - viewport: the surface rectangle to draw into
	//   - clear: the color clear value, or nil to load
	//
	// Returns:
	//   - error: ErrNoFrame or ErrPassInProgress
	BeginEyePass(viewport Viewport, clear *Color) error

	// DrawMesh draws a textured mesh with one combined matrix.
	//
	// Parameters:
	//   - mesh: the mesh
	//   - texture: the texture or render target to sample
	//   - matrix: model-to-clip matrix, OpenGL clip convention
	//
	// Returns:
	//   - error: ErrNoPass, ErrInvalidResource or ErrRingFull
	DrawMesh(mesh Mesh, texture Texture, matrix mgl32.Mat4) error

	// DrawLines draws a line list (two vertices per line) with one combined matrix.
	//
	// Parameters:
	//   - lines: line vertices, pairs form segments
	//   - matrix: world-to-clip matrix, OpenGL clip convention
	//
	// Returns:
	//   - error: ErrNoPass or ErrRingFull
	DrawLines(lines []LineVertex, matrix mgl32.Mat4) error

	// EndPass closes the current pass.
	//
	// Returns:
	//   - error: ErrNoPass
	EndPass() error

	// EndFrame uploads the frame's staged uniforms and line vertices, then submits the command buffer.
	// Does not present; call Present afterwards.
	//
	// Returns:
	//   - error: ErrNoFrame, ErrPassInProgress or a submission error
	EndFrame() error

	// Present presents the surface and releases the acquired surface texture.
	Present()

	// DrawCount returns the number of draws submitted in the last completed frame.
	//
	// Returns:
	//   - int: the draw count
	DrawCount() int

	// Release frees every GPU resource owned by the renderer. Textures, meshes and targets created
	// through it must be released by their owners first.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the window's surface and registers the built-in
// textured and line pipelines. Panics if the GPU cannot be initialized.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window providing the surface descriptor and initial size
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := newRendererConfig(backendType, options...)

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if err := r.init(win.Width(), win.Height()); err != nil {
		panic(err)
	}
	return r
}

// newRendererConfig applies options before the backend exists so config flags
// (e.g. forceFallbackAdapter) are available when it requests a GPU adapter.
func newRendererConfig(backendType RendererBackendType, options ...RendererBuilderOption) *renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		uniformSlots:  defaultUniformSlots,
		lineVertices:  defaultLineVertices,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *renderer) init(width, height int) error {
	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(width, height)

	r.uniforms = newStagingRing("uniform ring", UniformSlotSize, r.uniformSlots)
	r.lines = newStagingRing("line ring", int(LineVertexStride), r.lineVertices)
	if err := r.backend.CreateStagingBuffers(r.uniforms.Size(), r.lines.Size()); err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	return r.RegisterPipelines(DefaultPipelines()...)
}

// lineBlend is straight alpha blending for the debug lines.
var lineBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// DefaultPipelines describes the textured and line pipelines used by every pass.
// Textured geometry is opaque and double sided: the skybox and the wall quads are seen from inside.
// Debug lines are alpha blended and depth tested but never write depth.
//
// Returns:
//   - []pipeline.Pipeline: the textured and line pipeline descriptions
func DefaultPipelines() []pipeline.Pipeline {
	texturedVS, texturedFS := shader.TexturedShaders()
	lineVS, lineFS := shader.LineShaders()
	return []pipeline.Pipeline{
		pipeline.NewPipeline(PipelineTextured,
			pipeline.WithVertexShader(texturedVS),
			pipeline.WithFragmentShader(texturedFS),
			pipeline.WithVertexLayout(vertexLayout),
			pipeline.WithBindGroupLayout(drawGroupLayout),
			pipeline.WithBindGroupLayout(textureGroupLayout),
			pipeline.WithDepthTestEnabled(true),
			pipeline.WithDepthWriteEnabled(true),
			pipeline.WithBlendEnabled(false),
			pipeline.WithCullMode(wgpu.CullModeNone),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
			pipeline.WithWriteMask(wgpu.ColorWriteMaskAll),
		),
		pipeline.NewPipeline(PipelineLines,
			pipeline.WithVertexShader(lineVS),
			pipeline.WithFragmentShader(lineFS),
			pipeline.WithVertexLayout(lineVertexLayout),
			pipeline.WithBindGroupLayout(drawGroupLayout),
			pipeline.WithTopology(wgpu.PrimitiveTopologyLineList),
			pipeline.WithDepthTestEnabled(true),
			pipeline.WithDepthWriteEnabled(false),
			pipeline.WithBlendEnabled(true),
			pipeline.WithBlendState(&lineBlend),
		),
	}
}

// validateDeclarations checks that every group the shaders declare exists in the pipeline layout.
func validateDeclarations(p pipeline.Pipeline) error {
	layouts := p.BindGroupLayouts()
	for _, st := range []shader.ShaderType{shader.ShaderTypeVertex, shader.ShaderTypeFragment} {
		s := p.Shader(st)
		if s == nil {
			return fmt.Errorf("pipeline %q: missing shader stage %d", p.PipelineKey(), st)
		}
		for _, d := range s.Declarations() {
			if d.Group == nil || d.Binding == nil {
				continue
			}
			if *d.Group >= len(layouts) {
				return fmt.Errorf("pipeline %q: shader %q declares group %d but the layout has %d groups", p.PipelineKey(), s.Key(), *d.Group, len(layouts))
			}
			found := false
			for _, e := range layouts[*d.Group].Entries {
				if int(e.Binding) == *d.Binding {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("pipeline %q: shader %q declares binding %d in group %d which the layout lacks", p.PipelineKey(), s.Key(), *d.Binding, *d.Group)
			}
		}
	}
	return nil
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := validateDeclarations(p); err != nil {
			return err
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			return fmt.Errorf("pipeline %q: %w", key, err)
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) CreateRenderTarget(label string, width, height int) (RenderTarget, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("render target %q: size %dx%d: %w", label, width, height, ErrInvalidResource)
	}
	return r.backend.CreateRenderTarget(label, width, height)
}

func (r *renderer) CreateTexture(label string, data common.TextureStagingData) (Texture, error) {
	if !data.Valid() {
		return nil, fmt.Errorf("texture %q: %d bytes for %dx%d: %w", label, len(data.Pixels), data.Width, data.Height, ErrInvalidResource)
	}
	return r.backend.CreateTexture(label, data, common.SamplerStagingData{})
}

func (r *renderer) CreateMesh(label string, vertices []Vertex, indices []uint32) (Mesh, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("mesh %q: empty geometry: %w", label, ErrInvalidResource)
	}
	for i, idx := range indices {
		if int(idx) >= len(vertices) {
			return nil, fmt.Errorf("mesh %q: index %d = %d out of range [0, %d): %w", label, i, idx, len(vertices), ErrInvalidResource)
		}
	}
	return r.backend.CreateMesh(label, common.SliceToBytes(vertices), common.SliceToBytes(indices), len(indices))
}

func (r *renderer) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.inFrame {
		return ErrFrameInProgress
	}
	if err := r.backend.BeginFrame(); err != nil {
		return err
	}
	r.uniforms.Reset()
	r.lines.Reset()
	r.drawCount = 0
	r.inFrame = true
	return nil
}

func (r *renderer) BeginTargetPass(target RenderTarget, clear Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.canBeginPass(); err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("begin target pass: %w", ErrInvalidResource)
	}
	if err := r.backend.BeginTargetPass(target, clear); err != nil {
		return err
	}
	r.inPass = true
	r.pass = pipeline.PassTargetOffscreen
	return nil
}

func (r *renderer) BeginEyePass(viewport Viewport, clear *Color) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.canBeginPass(); err != nil {
		return err
	}
	if err := r.backend.BeginSurfacePass(viewport, clear); err != nil {
		return err
	}
	r.inPass = true
	r.pass = pipeline.PassTargetSurface
	return nil
}

func (r *renderer) canBeginPass() error {
	if !r.inFrame {
		return ErrNoFrame
	}
	if r.inPass {
		return ErrPassInProgress
	}
	return nil
}

func (r *renderer) DrawMesh(mesh Mesh, texture Texture, matrix mgl32.Mat4) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inPass {
		return ErrNoPass
	}
	if mesh == nil || texture == nil {
		return fmt.Errorf("draw mesh: %w", ErrInvalidResource)
	}
	p, exists := r.pipelineCache[PipelineTextured]
	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", PipelineTextured)
	}

	slot, err := r.uniforms.Push(NewDrawUniform(matrix).Bytes())
	if err != nil {
		return err
	}
	if err := r.backend.DrawMesh(p, r.pass, mesh, texture, uint32(r.uniforms.Offset(slot))); err != nil {
		return err
	}
	r.drawCount++
	return nil
}

func (r *renderer) DrawLines(lines []LineVertex, matrix mgl32.Mat4) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inPass {
		return ErrNoPass
	}
	if len(lines) < 2 {
		return nil
	}
	p, exists := r.pipelineCache[PipelineLines]
	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", PipelineLines)
	}

	// odd trailing vertex has no partner
	count := len(lines) &^ 1
	slot, err := r.uniforms.Push(NewDrawUniform(matrix).Bytes())
	if err != nil {
		return err
	}
	first, err := r.lines.Push(common.SliceToBytes(lines[:count]))
	if err != nil {
		return err
	}
	if err := r.backend.DrawLines(p, r.pass, uint32(r.uniforms.Offset(slot)), uint32(first), uint32(count)); err != nil {
		return err
	}
	r.drawCount++
	return nil
}

func (r *renderer) EndPass() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inPass {
		return ErrNoPass
	}
	r.backend.EndPass()
	r.inPass = false
	return nil
}

func (r *renderer) EndFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.inFrame {
		return ErrNoFrame
	}
	if r.inPass {
		return ErrPassInProgress
	}
	r.inFrame = false
	r.lastDrawCount = r.drawCount
	return r.backend.EndFrame(r.uniforms.Bytes(), r.lines.Bytes())
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) DrawCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastDrawCount
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.backend.Release()
}
