package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	label string
	w, h  int
}

func (f *fakeTarget) Label() string    { return f.label }
func (f *fakeTarget) Size() (int, int) { return f.w, f.h }
func (f *fakeTarget) Release() {}
func (f *fakeTarget) Viewport() Viewport { return Viewport{Width: float32(f.w), Height: float32(f.h)} }

type fakeMesh struct{ indices int }

func (f *fakeMesh) Label() string   { return "mesh" }
func (f *fakeMesh) IndexCount() int { return f.indices }
func (f *fakeMesh) Release() {}

type lineDraw struct {
	uniformOffset, first, count uint32
}

type fakeBackend struct {
	width, height int
	registered    []string
	passTargets   []pipeline.PassTarget
	clears        []*Color
	meshOffsets   []uint32
	lineDraws     []lineDraw
	uniformData   []byte
	lineData      []byte
	frameErr      error
	presented     int
	released      bool
}

var _ RendererBackend = &fakeBackend{}

func (f *fakeBackend) ConfigureSurface(w, h int) { f.width, f.height = w, h }
func (f *fakeBackend) SetPresentMode(PresentMode) {}
func (f *fakeBackend) SurfaceSize() (int, int)                { return f.width, f.height }
func (f *fakeBackend) CreateStagingBuffers(_, _ uint64) error { return nil }

func (f *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline) error {
	f.registered = append(f.registered, p.PipelineKey())
	return nil
}

func (f *fakeBackend) CreateRenderTarget(label string, w, h int) (RenderTarget, error) {
	return &fakeTarget{label: label, w: w, h: h}, nil
}

func (f *fakeBackend) CreateTexture(label string, data common.TextureStagingData, _ common.SamplerStagingData) (Texture, error) {
	return &fakeTarget{label: label, w: int(data.Width), h: int(data.Height)}, nil
}

func (f *fakeBackend) CreateMesh(_ string, _, _ []byte, indexCount int) (Mesh, error) {
	return &fakeMesh{indices: indexCount}, nil
}

func (f *fakeBackend) BeginFrame() error { return f.frameErr }

func (f *fakeBackend) BeginTargetPass(RenderTarget, Color) error {
	f.passTargets = append(f.passTargets, pipeline.PassTargetOffscreen)
	return nil
}

func (f *fakeBackend) BeginSurfacePass(_ Viewport, clear *Color) error {
	f.passTargets = append(f.passTargets, pipeline.PassTargetSurface)
	f.clears = append(f.clears, clear)
	return nil
}

func (f *fakeBackend) DrawMesh(_ pipeline.Pipeline, _ pipeline.PassTarget, _ Mesh, _ Texture, off uint32) error {
	f.meshOffsets = append(f.meshOffsets, off)
	return nil
}

func (f *fakeBackend) DrawLines(_ pipeline.Pipeline, _ pipeline.PassTarget, off, first, count uint32) error {
	f.lineDraws = append(f.lineDraws, lineDraw{off, first, count})
	return nil
}

func (f *fakeBackend) EndPass() {}

func (f *fakeBackend) EndFrame(uniformData, lineData []byte) error {
	f.uniformData = append([]byte(nil), uniformData...)
	f.lineData = append([]byte(nil), lineData...)
	return nil
}

func (f *fakeBackend) Present() { f.presented++ }
func (f *fakeBackend) Release() { f.released = true }

func newTestRenderer(t *testing.T, options ...RendererBuilderOption) (*renderer, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	r := newRendererConfig(BackendTypeWGPU, options...)
	r.backend = backend
	require.NoError(t, r.init(800, 600))
	return r, backend
}

func TestRendererRegistersDefaultPipelines(t *testing.T) {
	r, backend := newTestRenderer(t)
	assert.Equal(t, []string{PipelineTextured, PipelineLines}, backend.registered)
	assert.NotNil(t, r.Pipeline(PipelineTextured))
	assert.NotNil(t, r.Pipeline(PipelineLines))

	// re-registering a cached key is a no-op
	require.NoError(t, r.RegisterPipelines(DefaultPipelines()...))
	assert.Len(t, backend.registered, 2)

	w, h := r.SurfaceSize()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}

func TestDefaultPipelineStates(t *testing.T) {
	assert := assert.New(t)
	pipes := DefaultPipelines()
	require.Len(t, pipes, 2)

	textured, lines := pipes[0], pipes[1]
	assert.Equal(PipelineTextured, textured.PipelineKey())
	assert.True(textured.DepthTestEnabled())
	assert.True(textured.DepthWriteEnabled())
	assert.False(textured.BlendEnabled())
	assert.Equal(wgpu.CullModeNone, textured.CullMode())
	assert.Equal(wgpu.FrontFaceCCW, textured.FrontFace())
	assert.Equal(wgpu.ColorWriteMaskAll, textured.WriteMask())

	assert.Equal(PipelineLines, lines.PipelineKey())
	assert.Equal(wgpu.PrimitiveTopologyLineList, lines.Topology())
	assert.True(lines.DepthTestEnabled())
	assert.False(lines.DepthWriteEnabled())
	assert.True(lines.BlendEnabled())
	require.NotNil(t, lines.BlendState())
	assert.Equal(wgpu.BlendFactorSrcAlpha, lines.BlendState().Color.SrcFactor)
}

func TestRendererFrameProtocol(t *testing.T) {
	assert := assert.New(t)
	r, backend := newTestRenderer(t)
	target, err := r.CreateRenderTarget("wall", 16, 16)
	require.NoError(t, err)
	mesh, err := r.CreateMesh("quad", make([]Vertex, 4), []uint32{0, 1, 2, 2, 1, 3})
	require.NoError(t, err)

	assert.ErrorIs(r.BeginTargetPass(target, ClearWall), ErrNoFrame)
	assert.ErrorIs(r.DrawMesh(mesh, target, mgl32.Ident4()), ErrNoPass)
	assert.ErrorIs(r.EndFrame(), ErrNoFrame)

	require.NoError(t, r.BeginFrame())
	assert.ErrorIs(r.BeginFrame(), ErrFrameInProgress)

	require.NoError(t, r.BeginTargetPass(target, ClearWall))
	assert.ErrorIs(r.BeginEyePass(Viewport{}, nil), ErrPassInProgress)
	require.NoError(t, r.DrawMesh(mesh, target, mgl32.Ident4()))
	require.NoError(t, r.DrawMesh(mesh, target, mgl32.Ident4()))
	assert.ErrorIs(r.EndFrame(), ErrPassInProgress)
	require.NoError(t, r.EndPass())
	assert.ErrorIs(r.EndPass(), ErrNoPass)

	clear := ClearSurface
	require.NoError(t, r.BeginEyePass(Viewport{Width: 400, Height: 600}, &clear))
	require.NoError(t, r.EndPass())
	require.NoError(t, r.BeginEyePass(Viewport{X: 400, Width: 400, Height: 600}, nil))
	require.NoError(t, r.EndPass())

	assert.Equal(0, r.DrawCount())
	require.NoError(t, r.EndFrame())
	r.Present()

	assert.Equal(2, r.DrawCount())
	assert.Equal([]uint32{0, UniformSlotSize}, backend.meshOffsets)
	assert.Len(backend.uniformData, 2*UniformSlotSize)
	assert.Equal([]pipeline.PassTarget{pipeline.PassTargetOffscreen, pipeline.PassTargetSurface, pipeline.PassTargetSurface}, backend.passTargets)
	assert.NotNil(backend.clears[0])
	assert.Nil(backend.clears[1])
	assert.Equal(1, backend.presented)

	// the next frame starts from empty rings
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginTargetPass(target, ClearWall))
	require.NoError(t, r.DrawMesh(mesh, target, mgl32.Ident4()))
	assert.Equal(uint32(0), backend.meshOffsets[2])
}

func TestRendererBeginFrameError(t *testing.T) {
	r, backend := newTestRenderer(t)
	backend.frameErr = errors.New("surface lost")
	assert.EqualError(t, r.BeginFrame(), "surface lost")

	backend.frameErr = nil
	assert.NoError(t, r.BeginFrame())
}

func TestRendererDrawLines(t *testing.T) {
	assert := assert.New(t)
	r, backend := newTestRenderer(t)
	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginEyePass(Viewport{Width: 800, Height: 600}, nil))

	// a single vertex is not a line
	require.NoError(t, r.DrawLines(make([]LineVertex, 1), mgl32.Ident4()))
	assert.Empty(backend.lineDraws)

	require.NoError(t, r.DrawLines(make([]LineVertex, 5), mgl32.Ident4()))
	require.NoError(t, r.DrawLines(make([]LineVertex, 2), mgl32.Ident4()))
	require.NoError(t, r.EndPass())
	require.NoError(t, r.EndFrame())

	assert.Equal([]lineDraw{
		{uniformOffset: 0, first: 0, count: 4},
		{uniformOffset: UniformSlotSize, first: 4, count: 2},
	}, backend.lineDraws)
	assert.Len(backend.lineData, 6*int(LineVertexStride))
	assert.Equal(2, r.DrawCount())
}

func TestRendererRingOverflow(t *testing.T) {
	r, _ := newTestRenderer(t, WithUniformSlots(2))
	target, err := r.CreateRenderTarget("wall", 4, 4)
	require.NoError(t, err)
	mesh, err := r.CreateMesh("tri", make([]Vertex, 3), []uint32{0, 1, 2})
	require.NoError(t, err)

	require.NoError(t, r.BeginFrame())
	require.NoError(t, r.BeginTargetPass(target, ClearWall))
	require.NoError(t, r.DrawMesh(mesh, target, mgl32.Ident4()))
	require.NoError(t, r.DrawMesh(mesh, target, mgl32.Ident4()))
	assert.ErrorIs(t, r.DrawMesh(mesh, target, mgl32.Ident4()), ErrRingFull)
}

func TestRendererRejectsInvalidResources(t *testing.T) {
	assert := assert.New(t)
	r, _ := newTestRenderer(t)

	_, err := r.CreateRenderTarget("wall", 0, 10)
	assert.ErrorIs(err, ErrInvalidResource)
	_, err = r.CreateMesh("bad", make([]Vertex, 3), []uint32{0, 1, 3})
	assert.ErrorIs(err, ErrInvalidResource)
	_, err = r.CreateMesh("empty", nil, nil)
	assert.ErrorIs(err, ErrInvalidResource)
	_, err = r.CreateTexture("short", common.TextureStagingData{Width: 2, Height: 2, Pixels: make([]byte, 3)})
	assert.ErrorIs(err, ErrInvalidResource)

	tex, err := r.CreateTexture("ok", common.TextureStagingData{Width: 1, Height: 1, Pixels: make([]byte, 4)})
	require.NoError(t, err)
	w, h := tex.Size()
	assert.Equal(1, w)
	assert.Equal(1, h)

	require.NoError(t, r.BeginFrame())
	assert.ErrorIs(r.BeginTargetPass(nil, ClearWall), ErrInvalidResource)
	require.NoError(t, r.BeginEyePass(Viewport{}, nil))
	assert.ErrorIs(r.DrawMesh(nil, tex, mgl32.Ident4()), ErrInvalidResource)
}

func TestValidateDeclarations(t *testing.T) {
	vs, fs := shader.TexturedShaders()

	for _, p := range DefaultPipelines() {
		assert.NoError(t, validateDeclarations(p), p.PipelineKey())
	}

	// the draw uniform is declared at group 0
	noGroups := pipeline.NewPipeline("no-groups",
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
	)
	assert.Error(t, validateDeclarations(noGroups))

	missing := pipeline.NewPipeline("missing", pipeline.WithVertexShader(vs))
	assert.Error(t, validateDeclarations(missing))

	wrongBinding := wgpu.BindGroupLayoutDescriptor{
		Label:   "wrong binding",
		Entries: []wgpu.BindGroupLayoutEntry{{Binding: 5, Visibility: wgpu.ShaderStageVertex}},
	}
	p := pipeline.NewPipeline("wrong-binding",
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithBindGroupLayout(wrongBinding),
	)
	assert.Error(t, validateDeclarations(p))
}

func TestRendererRelease(t *testing.T) {
	r, backend := newTestRenderer(t)
	r.Release()
	assert.True(t, backend.released)
	assert.Nil(t, r.Pipeline(PipelineTextured))
}

func TestViewportAspect(t *testing.T) {
	assert.InDelta(t, 2.0, Viewport{Width: 200, Height: 100}.Aspect(), 1e-6)
	assert.Equal(t, float32(1), Viewport{}.Aspect())
}

func TestClampViewport(t *testing.T) {
	v := clampViewport(Viewport{X: 700, Y: -5, Width: 400, Height: 700}, 800, 600)
	assert.Equal(t, Viewport{X: 700, Y: 0, Width: 100, Height: 600}, v)
}
