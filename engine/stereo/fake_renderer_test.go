package stereo

import (
	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer/pipeline"
	"github.com/go-gl/mathgl/mgl32"
)

type fakeTexture struct {
	label    string
	w, h     int
	released bool
}

func (t *fakeTexture) Label() string    { return t.label }
func (t *fakeTexture) Size() (int, int) { return t.w, t.h }
func (t *fakeTexture) Release()         { t.released = true }
func (t *fakeTexture) Viewport() renderer.Viewport {
	return renderer.Viewport{Width: float32(t.w), Height: float32(t.h)}
}

type fakeMesh struct {
	label    string
	vertices []renderer.Vertex
	indices  []uint32
	released bool
}

func (m *fakeMesh) Label() string   { return m.label }
func (m *fakeMesh) IndexCount() int { return len(m.indices) }
func (m *fakeMesh) Release()        { m.released = true }

type eventKind string

const (
	evBeginFrame eventKind = "begin frame"
	evTargetPass eventKind = "target pass"
	evEyePass    eventKind = "eye pass"
	evDrawMesh   eventKind = "draw mesh"
	evDrawLines  eventKind = "draw lines"
	evEndPass    eventKind = "end pass"
	evEndFrame   eventKind = "end frame"
	evPresent    eventKind = "present"
)

type event struct {
	kind     eventKind
	target   string // pass target, mesh label
	texture  string
	matrix   mgl32.Mat4
	clear    *renderer.Color
	viewport renderer.Viewport
	lines    int
}

// recordingRenderer is a GPU-free renderer.Renderer that records the command stream.
type recordingRenderer struct {
	width, height int
	events        []event
	textures      []*fakeTexture
	meshes        []*fakeMesh

	inFrame, inPass  bool
	inTarget         bool
	draws, lastDraws int
	frameErr         error
	drawErr          error
	targetErr        error // fails BeginTargetPass
	targetDrawErr    error // fails DrawMesh inside target passes only
}

var _ renderer.Renderer = &recordingRenderer{}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{width: 1600, height: 900}
}

func (r *recordingRenderer) SurfaceSize() (int, int) { return r.width, r.height }
func (r *recordingRenderer) Resize(w, h int)         { r.width, r.height = w, h }
func (r *recordingRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *recordingRenderer) Pipeline(string) pipeline.Pipeline            { return nil }
func (r *recordingRenderer) RegisterPipelines(...pipeline.Pipeline) error { return nil }

func (r *recordingRenderer) CreateRenderTarget(label string, w, h int) (renderer.RenderTarget, error) {
	t := &fakeTexture{label: label, w: w, h: h}
	r.textures = append(r.textures, t)
	return t, nil
}

func (r *recordingRenderer) CreateTexture(label string, data common.TextureStagingData) (renderer.Texture, error) {
	t := &fakeTexture{label: label, w: int(data.Width), h: int(data.Height)}
	r.textures = append(r.textures, t)
	return t, nil
}

func (r *recordingRenderer) CreateMesh(label string, vertices []renderer.Vertex, indices []uint32) (renderer.Mesh, error) {
	m := &fakeMesh{label: label, vertices: vertices, indices: indices}
	r.meshes = append(r.meshes, m)
	return m, nil
}

func (r *recordingRenderer) BeginFrame() error {
	if r.frameErr != nil {
		return r.frameErr
	}
	if r.inFrame {
		return renderer.ErrFrameInProgress
	}
	r.inFrame = true
	r.draws = 0
	r.events = append(r.events, event{kind: evBeginFrame})
	return nil
}

func (r *recordingRenderer) beginPass() error {
	if !r.inFrame {
		return renderer.ErrNoFrame
	}
	if r.inPass {
		return renderer.ErrPassInProgress
	}
	r.inPass = true
	return nil
}

func (r *recordingRenderer) BeginTargetPass(target renderer.RenderTarget, clear renderer.Color) error {
	if r.targetErr != nil {
		return r.targetErr
	}
	if err := r.beginPass(); err != nil {
		return err
	}
	r.inTarget = true
	r.events = append(r.events, event{kind: evTargetPass, target: target.Label(), clear: &clear})
	return nil
}

func (r *recordingRenderer) BeginEyePass(viewport renderer.Viewport, clear *renderer.Color) error {
	if err := r.beginPass(); err != nil {
		return err
	}
	r.events = append(r.events, event{kind: evEyePass, viewport: viewport, clear: clear})
	return nil
}

func (r *recordingRenderer) DrawMesh(mesh renderer.Mesh, texture renderer.Texture, matrix mgl32.Mat4) error {
	if !r.inPass {
		return renderer.ErrNoPass
	}
	if r.drawErr != nil {
		return r.drawErr
	}
	if r.inTarget && r.targetDrawErr != nil {
		return r.targetDrawErr
	}
	r.draws++
	r.events = append(r.events, event{kind: evDrawMesh, target: mesh.Label(), texture: texture.Label(), matrix: matrix})
	return nil
}

func (r *recordingRenderer) DrawLines(lines []renderer.LineVertex, matrix mgl32.Mat4) error {
	if !r.inPass {
		return renderer.ErrNoPass
	}
	if len(lines) < 2 {
		return nil
	}
	r.draws++
	r.events = append(r.events, event{kind: evDrawLines, matrix: matrix, lines: len(lines) / 2})
	return nil
}

func (r *recordingRenderer) EndPass() error {
	if !r.inPass {
		return renderer.ErrNoPass
	}
	r.inPass = false
	r.inTarget = false
	r.events = append(r.events, event{kind: evEndPass})
	return nil
}

func (r *recordingRenderer) EndFrame() error {
	if !r.inFrame {
		return renderer.ErrNoFrame
	}
	if r.inPass {
		return renderer.ErrPassInProgress
	}
	r.inFrame = false
	r.lastDraws = r.draws
	r.events = append(r.events, event{kind: evEndFrame})
	return nil
}

func (r *recordingRenderer) Present()       { r.events = append(r.events, event{kind: evPresent}) }
func (r *recordingRenderer) DrawCount() int { return r.lastDraws }
func (r *recordingRenderer) Release() {}

func (r *recordingRenderer) reset() {
	r.events = nil
}

// passes splits the recorded stream into passes, each starting at its begin event.
func (r *recordingRenderer) passes() [][]event {
	var out [][]event
	var cur []event
	for _, e := range r.events {
		switch e.kind {
		case evTargetPass, evEyePass:
			cur = []event{e}
		case evEndPass:
			out = append(out, cur)
			cur = nil
		default:
			if cur != nil {
				cur = append(cur, e)
			}
		}
	}
	return out
}

func (r *recordingRenderer) mesh(label string) *fakeMesh {
	for _, m := range r.meshes {
		if m.label == label {
			return m
		}
	}
	return nil
}
