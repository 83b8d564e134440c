package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExpandsAnnotations(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include draw\n//@oxy:group 0 0 storage_uniform draw draw\nfn f() {}")
	require.NoError(t, err)

	assert.Contains(t, out, "struct DrawUniform")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> draw: DrawUniform;")
	assert.True(t, strings.HasSuffix(out, "fn f() {}"))

	decls := pp.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, 0, *decls[0].Group)
	assert.Equal(t, 0, *decls[0].Binding)
	assert.Equal(t, AnnotationArg("draw"), decls[0].Args[1])
}

func TestProcessErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "empty", source: "//@oxy:", want: "empty"},
		{name: "unknown type", source: "//@oxy:provider 0 0 x", want: "unknown @oxy annotation type"},
		{name: "unknown struct", source: "//@oxy:include camera", want: "unknown struct type"},
		{name: "bad group", source: "//@oxy:group a 0 storage_uniform draw draw", want: "invalid group number"},
		{name: "bad address space", source: "//@oxy:group 0 0 storage_read draw draw", want: "unknown address space"},
		{name: "arity", source: "//@oxy:group 0 0 storage_uniform draw", want: "requires five arguments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(tt.source)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "line 1")
		})
	}
}

func TestBuiltinShaders(t *testing.T) {
	for _, pair := range [][2]Shader{
		func() [2]Shader { v, f := TexturedShaders(); return [2]Shader{v, f} }(),
		func() [2]Shader { v, f := LineShaders(); return [2]Shader{v, f} }(),
	} {
		vs, fs := pair[0], pair[1]
		assert.Equal(t, ShaderTypeVertex, vs.ShaderType())
		assert.Equal(t, ShaderTypeFragment, fs.ShaderType())
		assert.Equal(t, "vs_main", vs.EntryPoint())
		assert.Equal(t, "fs_main", fs.EntryPoint())
		assert.NotContains(t, vs.Source(), annotationPrefix)
		assert.Equal(t, vs.Source(), vs.Module().WGSLDescriptor.Code)
		assert.Len(t, vs.Declarations(), 1)
	}
}

func TestNewShaderPanicsOnBadSource(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("bad", ShaderTypeVertex, "vs_main", "//@oxy:include nope")
	})
}
