package stereo

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-cave/engine/cave"
	"github.com/Carmen-Shannon/oxy-cave/engine/tracking"
)

// ErrMissingWallTexture is returned by the composite pass when a wall has no texture.
var ErrMissingWallTexture = errors.New("missing wall texture")

// WallError reports a wall pass the solver rejected. Its target was cleared but not drawn.
type WallError struct {
	Eye  tracking.Eye
	Wall cave.WallID
	Err  error
}

func (e *WallError) Error() string {
	return fmt.Sprintf("%s eye, %s wall: %v", e.Eye, e.Wall, e.Err)
}

func (e *WallError) Unwrap() error {
	return e.Err
}

// IsRejection reports whether err is the solver refusing the eye or wall geometry,
// as opposed to a renderer failure.
func IsRejection(err error) bool {
	return errors.Is(err, cave.ErrDegenerateWall) ||
		errors.Is(err, cave.ErrEyeBehindWall) ||
		errors.Is(err, cave.ErrInvalidClipRange)
}

// WallErrors extracts every WallError from an error tree built with errors.Join.
//
// Parameters:
//   - err: the error returned by RenderWalls or RenderFrame
//
// Returns:
//   - []*WallError: the wall errors found, in order
func WallErrors(err error) []*WallError {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []*WallError
		for _, e := range joined.Unwrap() {
			out = append(out, WallErrors(e)...)
		}
		return out
	}
	var we *WallError
	if errors.As(err, &we) {
		return []*WallError{we}
	}
	return nil
}
