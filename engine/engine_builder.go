package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-cave/engine/input"
	"github.com/Carmen-Shannon/oxy-cave/engine/profiler"
	"github.com/Carmen-Shannon/oxy-cave/engine/scene"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
	"github.com/Carmen-Shannon/oxy-cave/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfileInterval sets how often the profiler logs.
//
// Parameters:
//   - interval: the reporting interval
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfileInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = profiler.NewProfiler(profiler.WithInterval(interval))
	}
}

// WithWindow sets the window the engine polls and draws into.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithSurface sets the surface resized alongside the frame renderer, usually the renderer.Renderer.
//
// Parameters:
//   - r: the surface to resize when the framebuffer changes
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithSurface(r Resizer) EngineBuilderOption {
	return func(e *engine) {
		e.surface = r
	}
}

// WithFrameRenderer sets the stereo frame renderer.
//
// Parameters:
//   - f: the frame renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameRenderer(f FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.frames = f
	}
}

// WithMapper sets the keyboard to controller mapping.
//
// Parameters:
//   - m: the input mapper
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMapper(m input.Mapper) EngineBuilderOption {
	return func(e *engine) {
		e.mapper = m
	}
}

// WithPoseProvider sets the head pose source.
//
// Parameters:
//   - p: the pose provider
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithPoseProvider(p tracking.PoseProvider) EngineBuilderOption {
	return func(e *engine) {
		e.poses = p
	}
}

// WithTracker sets the eye resolver.
//
// Parameters:
//   - t: the tracker
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTracker(t tracking.Tracker) EngineBuilderOption {
	return func(e *engine) {
		e.tracker = t
	}
}

// WithState sets the interactive demo state.
//
// Parameters:
//   - s: the state
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithState(s *scene.State) EngineBuilderOption {
	return func(e *engine) {
		e.state = s
	}
}

// WithTitle sets the prefix of the window title.
//
// Parameters:
//   - title: the title prefix
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTitle(title string) EngineBuilderOption {
	return func(e *engine) {
		e.title = title
	}
}

// WithRenderFrameLimit sets an optional frame rate cap during construction.
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}
