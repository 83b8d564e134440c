package shader

import (
	_ "embed"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies the pipeline stage a shader entry point runs in.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// TexturedSource draws textured triangles (skybox, cube, CAVE walls).
//
//go:embed assets/textured.wgsl
var TexturedSource string

// LineSource draws per-vertex coloured lines.
//
//go:embed assets/line.wgsl
var LineSource string

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	shaderType ShaderType
	entryPoint string
	module     *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader is a pre-processed WGSL source bound to one entry point.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for caching and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the processed WGSL source.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoint returns the entry point name for this shader.
	//
	// Returns:
	//   - string: the entry point name (e.g. "vs_main")
	EntryPoint() string

	// Module returns the shader module descriptor built from the processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the pipeline stage of the shader.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType

	// Declarations returns the bind group declarations generated by the pre-processor.
	//
	// Returns:
	//   - []Annotation: group annotations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source and binds it to an entry point.
// Panics if the source contains a malformed annotation.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the pipeline stage
//   - entryPoint: the WGSL function name for the stage
//   - source: the raw WGSL source
//
// Returns:
//   - Shader: the processed shader
func NewShader(key string, shaderType ShaderType, entryPoint, source string) Shader {
	s := &shader{
		key:        key,
		shaderType: shaderType,
		entryPoint: entryPoint,
		pp:         NewPreProcessor(),
	}
	processed, err := s.pp.Process(source)
	if err != nil {
		panic(fmt.Sprintf("shader: failed to pre-process %q: %v", key, err))
	}
	s.source = processed
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s
}

// TexturedShaders returns the vertex and fragment stages of the textured pipeline.
func TexturedShaders() (vertex, fragment Shader) {
	return NewShader("textured_vs", ShaderTypeVertex, "vs_main", TexturedSource),
		NewShader("textured_fs", ShaderTypeFragment, "fs_main", TexturedSource)
}

// LineShaders returns the vertex and fragment stages of the line pipeline.
func LineShaders() (vertex, fragment Shader) {
	return NewShader("line_vs", ShaderTypeVertex, "vs_main", LineSource),
		NewShader("line_fs", ShaderTypeFragment, "fs_main", LineSource)
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}
