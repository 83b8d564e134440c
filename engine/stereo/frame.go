package stereo

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-cave/engine/camera"
	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/renderer"
	"github.com/Carmen-Shannon/oxy-cave/engine/scene"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
)

// FrameStats summarizes one rendered frame.
type FrameStats struct {
	// WallErrors holds the walls the solver rejected; they were cleared but not drawn.
	WallErrors []*WallError
	// Draws is the number of draws the renderer submitted.
	Draws int
}

// stereoRenderer is the implementation of the StereoRenderer interface.
type stereoRenderer struct {
	mu *sync.Mutex

	renderer  renderer.Renderer
	state     *scene.State
	driver    WallPassDriver
	composite CompositePass
	cameras   [tracking.EyeCount]camera.Camera

	wallOptions   []WallPassDriverBuilderOption
	cameraOptions []camera.CameraBuilderOption
}

// StereoRenderer records a whole stereo frame: for each eye the three wall passes followed by
// the composite pass into that eye's half of the mirror window.
//
// Per frame:
//
//	BeginFrame
//	  left eye:  wall left, wall right, wall bottom, composite (clears the surface)
//	  right eye: wall left, wall right, wall bottom, composite
//	EndFrame
//	Present
type StereoRenderer interface {
	// RenderFrame renders and presents one frame. Wall failures do not abort the frame.
	// An eye hidden by the view state still gets its pass but nothing is drawn in it.
	//
	// Parameters:
	//   - eyes: the resolved eye frames for this frame
	//
	// Returns:
	//   - FrameStats: wall errors and draw count
	//   - error: a renderer error that aborted the frame
	RenderFrame(eyes [tracking.EyeCount]tracking.EyeFrame) (FrameStats, error)

	// Resize updates the eye cameras for a new mirror window size.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	Resize(width, height int)

	// Camera returns one eye's camera.
	//
	// Parameters:
	//   - eye: the eye
	//
	// Returns:
	//   - camera.Camera: the eye camera
	Camera(eye tracking.Eye) camera.Camera

	// Driver returns the wall pass driver.
	//
	// Returns:
	//   - WallPassDriver: the driver
	Driver() WallPassDriver

	// Release frees the wall targets.
	Release()
}

var _ StereoRenderer = &stereoRenderer{}

// NewStereoRenderer creates the wall pass driver, the composite pass and the eye cameras.
//
// Parameters:
//   - r: the renderer
//   - c: the CAVE
//   - state: the scene state
//   - assets: the shared meshes and textures
//   - options: functional options to configure the stereo renderer
//
// Returns:
//   - StereoRenderer: the stereo renderer
//   - error: an error if the wall targets cannot be created
func NewStereoRenderer(r renderer.Renderer, c cave.Cave, state *scene.State, assets *Assets, options ...StereoRendererBuilderOption) (StereoRenderer, error) {
	s := &stereoRenderer{
		mu:       &sync.Mutex{},
		renderer: r,
		state:    state,
	}
	for _, opt := range options {
		opt(s)
	}

	driver, err := NewWallPassDriver(r, c, state, assets, s.wallOptions...)
	if err != nil {
		return nil, err
	}
	s.driver = driver
	s.composite = NewCompositePass(r, c, assets, driver.DebugLines())

	for _, eye := range tracking.Eyes {
		s.cameras[eye] = camera.NewCamera(s.cameraOptions...)
	}
	s.Resize(r.SurfaceSize())
	return s, nil
}

// EyeViewport returns an eye's half of the mirror window: left eye on the left.
//
// Parameters:
//   - eye: the eye
//   - width, height: the surface size in pixels
//
// Returns:
//   - renderer.Viewport: the eye's rectangle
func EyeViewport(eye tracking.Eye, width, height int) renderer.Viewport {
	half := width / 2
	if eye == tracking.EyeLeft {
		return renderer.Viewport{X: 0, Y: 0, Width: float32(half), Height: float32(height)}
	}
	return renderer.Viewport{X: float32(half), Y: 0, Width: float32(width - half), Height: float32(height)}
}

func (s *stereoRenderer) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, eye := range tracking.Eyes {
		s.cameras[eye].SetAspect(EyeViewport(eye, width, height).Aspect())
	}
}

func (s *stereoRenderer) Camera(eye tracking.Eye) camera.Camera {
	if eye < 0 || eye >= tracking.EyeCount {
		return nil
	}
	return s.cameras[eye]
}

func (s *stereoRenderer) Driver() WallPassDriver {
	return s.driver
}

func (s *stereoRenderer) RenderFrame(eyes [tracking.EyeCount]tracking.EyeFrame) (FrameStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var stats FrameStats
	if err := s.renderer.BeginFrame(); err != nil {
		return stats, fmt.Errorf("begin frame: %w", err)
	}

	width, height := s.renderer.SurfaceSize()
	var wallErrs []error
	for i, eye := range tracking.Eyes {
		if err := s.renderEye(eye, eyes[eye], i == 0, width, height, &wallErrs); err != nil {
			s.abort()
			return stats, fmt.Errorf("%s eye: %w", eye, err)
		}
	}

	if err := s.renderer.EndFrame(); err != nil {
		return stats, fmt.Errorf("end frame: %w", err)
	}
	s.renderer.Present()

	stats.WallErrors = WallErrors(errors.Join(wallErrs...))
	stats.Draws = s.renderer.DrawCount()
	return stats, nil
}

// renderEye records one eye: its wall passes, then its composite pass. Only the first eye
// clears the surface so the other half survives.
func (s *stereoRenderer) renderEye(eye tracking.Eye, frame tracking.EyeFrame, first bool, width, height int, wallErrs *[]error) error {
	visible := s.state.EyeVisible(eye)
	if visible {
		if err := s.driver.RenderWalls(eye, frame.RenderPosition); err != nil {
			if len(WallErrors(err)) == 0 {
				return err
			}
			*wallErrs = append(*wallErrs, err)
		}
	}

	var clear *renderer.Color
	if first {
		c := renderer.ClearSurface
		clear = &c
	}
	if err := s.renderer.BeginEyePass(EyeViewport(eye, width, height), clear); err != nil {
		return err
	}

	var drawErr error
	if visible {
		pose := frame.Pose.Matrix()
		cam := s.cameras[eye]
		cam.SetPose(pose)
		drawErr = s.composite.PresentCave(cam.ProjectionMatrix(), pose, s.driver.Textures())
	}
	if err := s.renderer.EndPass(); err != nil {
		return err
	}
	return drawErr
}

// abort closes a frame that failed midway so the next BeginFrame succeeds.
func (s *stereoRenderer) abort() {
	_ = s.renderer.EndPass()
	_ = s.renderer.EndFrame()
	s.renderer.Present()
}

func (s *stereoRenderer) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.driver != nil {
		s.driver.Release()
	}
}
