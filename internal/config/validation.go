package config

import (
	"fmt"
	"strings"
)

// ValidationError is one invalid field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every invalid field of a Config.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func validatePositive(field string, value float64) []ValidationError {
	if !(value > 0) {
		return []ValidationError{{Field: field, Message: "must be positive"}}
	}
	return nil
}

func validateInRange(field string, value, min, max float64) []ValidationError {
	if value < min || value > max {
		return []ValidationError{{
			Field:   field,
			Message: fmt.Sprintf("must be between %v and %v", min, max),
		}}
	}
	return nil
}

// Validate checks every section.
//
// Returns:
//   - error: a ValidationErrors listing each invalid field, or nil
func (c *Config) Validate() error {
	var errs ValidationErrors
	errs = append(errs, c.Window.Validate()...)
	errs = append(errs, c.Cave.Validate()...)
	errs = append(errs, c.Projection.Validate()...)
	errs = append(errs, c.Tracking.Validate()...)
	errs = append(errs, c.Scene.Validate()...)
	errs = append(errs, c.Profiler.Validate()...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (w *Window) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validatePositive("window.width", float64(w.Width))...)
	errs = append(errs, validatePositive("window.height", float64(w.Height))...)
	return errs
}

func (c *Cave) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validatePositive("cave.half_extent", float64(c.HalfExtent))...)
	errs = append(errs, validateInRange("cave.rotation_y_degrees", float64(c.RotationYDegrees), -360, 360)...)
	errs = append(errs, validateInRange("cave.wall_resolution", float64(c.WallResolution), 1, 8192)...)
	return errs
}

func (p *Projection) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validatePositive("projection.near", float64(p.Near))...)
	if !(p.Far > p.Near) {
		errs = append(errs, ValidationError{Field: "projection.far", Message: "must be greater than near"})
	}
	if !(p.EyeFovDegrees > 0) || p.EyeFovDegrees >= 180 {
		errs = append(errs, ValidationError{Field: "projection.eye_fov_degrees", Message: "must be between 0 and 180 exclusive"})
	}
	return errs
}

func (t *Tracking) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateInRange("tracking.ipd", float64(t.IPD), 0, 0.6)...)
	errs = append(errs, validatePositive("tracking.move_speed", float64(t.MoveSpeed))...)
	errs = append(errs, validatePositive("tracking.turn_speed", float64(t.TurnSpeed))...)
	return errs
}

func (s *Scene) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, validatePositive("scene.min_size", float64(s.MinSize))...)
	if s.MaxSize < s.MinSize {
		errs = append(errs, ValidationError{Field: "scene.max_size", Message: "must not be less than min_size"})
	}
	errs = append(errs, validateInRange("scene.cube_size", float64(s.CubeSize), float64(s.MinSize), float64(s.MaxSize))...)
	errs = append(errs, validatePositive("scene.cube_step", float64(s.CubeStep))...)
	errs = append(errs, validatePositive("scene.size_step", float64(s.SizeStep))...)
	return errs
}

func (p *Profiler) Validate() []ValidationError {
	if p.Enabled && p.Interval <= 0 {
		return []ValidationError{{Field: "profiler.interval", Message: "must be positive when enabled"}}
	}
	return nil
}
