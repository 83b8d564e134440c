package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the mirror window.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithUniformSlots sets how many draws a single frame may issue.
//
// Parameters:
//   - slots: the number of 256-byte uniform slots; values below 1 are ignored
//
// Returns:
//   - RendererBuilderOption: a function that sizes the uniform ring
func WithUniformSlots(slots int) RendererBuilderOption {
	return func(r *renderer) {
		if slots > 0 {
			r.uniformSlots = slots
		}
	}
}

// WithLineVertices sets how many debug line vertices a single frame may stage.
//
// Parameters:
//   - count: the vertex capacity; values below 2 are ignored
//
// Returns:
//   - RendererBuilderOption: a function that sizes the line ring
func WithLineVertices(count int) RendererBuilderOption {
	return func(r *renderer) {
		if count >= 2 {
			r.lineVertices = count
		}
	}
}
