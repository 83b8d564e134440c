package renderer

import "errors"

var (
	// ErrRingFull is returned when a frame issues more draws or line vertices than the staging rings hold.
	ErrRingFull = errors.New("staging ring is full")

	// ErrNoFrame is returned when a pass or draw is issued outside BeginFrame/EndFrame.
	ErrNoFrame = errors.New("no frame in progress")

	// ErrFrameInProgress is returned by BeginFrame when the previous frame was not ended.
	ErrFrameInProgress = errors.New("frame already in progress")

	// ErrNoPass is returned when a draw or EndPass is issued without an open pass.
	ErrNoPass = errors.New("no render pass in progress")

	// ErrPassInProgress is returned when a pass is begun, or the frame ended, while a pass is open.
	ErrPassInProgress = errors.New("render pass already in progress")

	// ErrInvalidResource is returned for nil or foreign textures, meshes and render targets.
	ErrInvalidResource = errors.New("invalid renderer resource")
)
