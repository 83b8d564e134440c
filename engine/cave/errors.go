package cave

import "errors"

var (
	// ErrDegenerateWall is returned when the wall corners do not span a plane
	// (coincident or collinear corners, or non-finite coordinates).
	ErrDegenerateWall = errors.New("wall corners are degenerate")

	// ErrEyeBehindWall is returned when the eye is on or behind the wall plane,
	// i.e. not on the side its normal points to.
	ErrEyeBehindWall = errors.New("eye is not in front of the wall")

	// ErrInvalidClipRange is returned for near <= 0 or far <= near.
	ErrInvalidClipRange = errors.New("invalid near/far clip range")
)
