package engine

import (
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-cave/common"
	"github.com/Carmen-Shannon/oxy-cave/engine/input"
	"github.com/Carmen-Shannon/oxy-cave/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cave/engine/scene"
	"github.com/Carmen-Shannon/oxy-cave/engine/stereo"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/Carmen-Shannon/oxy-cave/engine/window"
)

// FrameRenderer draws one stereo frame from the resolved eyes.
// stereo.StereoRenderer satisfies it.
type FrameRenderer interface {
	RenderFrame(eyes [tracking.EyeCount]tracking.EyeFrame) (stereo.FrameStats, error)
	Resize(width, height int)
}

// Resizer is a surface that follows the window framebuffer size.
type Resizer interface {
	Resize(width, height int)
}

// engine implements the Engine interface.
// Runs the whole frame on the window thread: input, state, tracking, render.
type engine struct {
	mu *sync.Mutex

	running bool

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window  window.Window
	surface Resizer
	frames  FrameRenderer

	mapper  input.Mapper
	poses   tracking.PoseProvider
	tracker tracking.Tracker
	state   *scene.State

	profiler         *profiler.Profiler
	profilingEnabled bool

	title     string
	lastTitle string
	lastWalls string

	lastFrame        time.Time
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	frameCallback    func(stats stereo.FrameStats, err error)
}

// Engine is the main entry point for the demo.
// It orchestrates input polling, head tracking, the stereo renderer and window management.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// State returns the interactive demo state driven by the engine.
	//
	// Returns:
	//   - *scene.State: the demo state
	State() *scene.State

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// SetFrameCallback registers a function called after every frame with its stats and error.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetFrameCallback(callback func(stats stereo.FrameStats, err error))

	// Step runs a single frame: poll input, update state, resolve eyes and render.
	// Wall rejections are reported in the stats and do not produce an error.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	//
	// Returns:
	//   - stereo.FrameStats: what the frame drew and which walls were rejected
	//   - error: a renderer failure that aborted the frame
	Step(dt float32) (stereo.FrameStats, error)

	// Run starts the main loop on the calling goroutine (blocks until the window closes).
	Run()

	// Quit stops the main loop and closes the window.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// A window and a frame renderer are required; input mapping, pose provider, tracker and
// state fall back to the desktop defaults.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		mu:               &sync.Mutex{},
		quitChannel:      make(chan struct{}),
		profiler:         profiler.NewProfiler(),
		profilingEnabled: false,
		title:            "CAVE",
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil || e.frames == nil {
		panic("engine: a window and a frame renderer are required")
	}
	if e.mapper == nil {
		e.mapper = input.NewMapper()
	}
	if e.poses == nil {
		e.poses = tracking.NewDesktopPoseProvider()
	}
	if e.tracker == nil {
		e.tracker = tracking.NewTracker()
	}
	if e.state == nil {
		e.state = scene.NewState()
	}

	e.window.SetResizeCallback(func(width, height int) {
		if width <= 0 || height <= 0 {
			return
		}
		if e.surface != nil {
			e.surface.Resize(width, height)
		}
		e.frames.Resize(width, height)
	})

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) State() *scene.State {
	return e.state
}

func (e *engine) Run() {
	e.mu.Lock()
	e.running = true
	e.lastFrame = time.Now()
	e.mu.Unlock()

	log.Printf("[Engine] running, view %s", e.state.View())
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()

	e.mu.Lock()
	e.running = false
	e.mu.Unlock()
	log.Printf("[Engine] stopped")
}

// Quit stops the main loop and closes the window.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
	if err := e.window.Close(); err != nil {
		log.Printf("[Engine] close window: %v", err)
	}
}

// signalQuit closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) quitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

// frame is the window update callback.
// Recovers from panics to avoid crashing the process and quits on recovery.
func (e *engine) frame() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Engine] frame recovered from panic: %v\n%s", r, debug.Stack())
			e.Quit()
		}
	}()

	if e.quitting() {
		_ = e.window.Close()
		return
	}
	if e.window.IsKeyDown(common.KeyEsc) {
		e.Quit()
		return
	}

	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now

	stats, err := e.Step(dt)
	if e.frameCallback != nil {
		e.frameCallback(stats, err)
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(now); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

func (e *engine) Step(dt float32) (stereo.FrameStats, error) {
	snap := e.mapper.Poll(e.window)
	e.state.Update(snap, dt)

	if e.state.RecenterRequested() {
		e.poses.Recenter()
		e.tracker.Reset()
	}

	head := e.poses.Poll(snap, dt)
	eyes := e.tracker.Resolve(head, e.poses.EyeOffsets(), e.state.ResolveOptions())

	stats, err := e.frames.RenderFrame(eyes)
	if err != nil {
		log.Printf("[Engine] frame aborted: %v", err)
	}
	e.reportWalls(stats.WallErrors)
	e.updateTitle()

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Record(stats.Draws, len(stats.WallErrors))
		e.profiler.Tick()
	}
	return stats, err
}

// reportWalls logs the rejected walls when the set changes from the previous frame.
func (e *engine) reportWalls(errs []*stereo.WallError) {
	msgs := make([]string, 0, len(errs))
	for _, we := range errs {
		msgs = append(msgs, we.Error())
	}
	joined := strings.Join(msgs, "; ")
	if joined == e.lastWalls {
		return
	}
	e.lastWalls = joined
	if joined == "" {
		log.Printf("[Engine] all walls rendering")
		return
	}
	log.Printf("[Engine] walls rejected: %s", joined)
}

// updateTitle shows the interactive state in the window title.
func (e *engine) updateTitle() {
	s := e.state
	title := fmt.Sprintf("%s | view: %s | frozen: %t | dropout: %d | iod: %+.3f",
		e.title, s.View(), s.Frozen(), s.DropoutIndex(), s.IOD())
	if title == e.lastTitle {
		return
	}
	e.lastTitle = title
	e.window.SetTitle(title)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional frame rate cap.
// Pass 0 to uncap the loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) SetFrameCallback(callback func(stats stereo.FrameStats, err error)) {
	e.frameCallback = callback
}
