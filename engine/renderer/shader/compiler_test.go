package shader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const compilerTestSource = `
@group(0) @binding(0) var<uniform> params: vec4<f32>;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
	return params;
}

@fragment
fn fs_main() -> @location(0) vec4<f32> {
	return params;
}
`

func TestVariantKey(t *testing.T) {
	assert.Equal(t, "forward", VariantKey("forward", nil))
	assert.Equal(t, "forward", VariantKey("forward", map[string]string{}))

	key := VariantKey("forward", map[string]string{
		"VERTEX_PN":            "1",
		"MATERIAL_PHONG_SOLID": "1",
	})
	assert.Equal(t, "forward+MATERIAL_PHONG_SOLID=1,VERTEX_PN=1", key, "defines are sorted by name")
}

func TestVariantKeyOrderIndependent(t *testing.T) {
	a := VariantKey("gbuffer", map[string]string{"A": "1", "B": "2", "C": "3"})
	b := VariantKey("gbuffer", map[string]string{"C": "3", "A": "1", "B": "2"})
	assert.Equal(t, a, b)
}

func TestCompileCachesPerVariant(t *testing.T) {
	c := NewCompiler()

	first := c.Compile("test", ShaderTypeVertex, compilerTestSource, nil)
	second := c.Compile("test", ShaderTypeVertex, compilerTestSource, nil)
	assert.Same(t, first, second, "identical requests share one instance")
	assert.Equal(t, 1, c.VariantCount())

	other := c.Compile("test", ShaderTypeVertex, compilerTestSource, map[string]string{"X": "1"})
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, c.VariantCount())
}

func TestCompileCachesPerStage(t *testing.T) {
	c := NewCompiler()

	vs := c.Compile("test", ShaderTypeVertex, compilerTestSource, nil)
	fs := c.Compile("test", ShaderTypeFragment, compilerTestSource, nil)
	assert.NotSame(t, vs, fs, "each stage parses its own visibility")
	assert.Equal(t, 2, c.VariantCount())

	assert.Equal(t, "vs_main", vs.EntryPoint())
	assert.Equal(t, "fs_main", fs.EntryPoint())
}

func TestNewShaderMetadata(t *testing.T) {
	s := NewShader("test", ShaderTypeVertex, compilerTestSource, nil)
	assert.Equal(t, "test", s.Key())
	assert.Equal(t, ShaderTypeVertex, s.ShaderType())

	require.NotNil(t, s.Module())
	assert.Equal(t, "test", s.Module().Label)
	assert.Equal(t, s.Source(), s.Module().WGSLDescriptor.Code)

	assert.Equal(t, "params", s.BindGroupVarName(0, 0))
	binding, ok := s.BindGroupFromVarName(0, "params")
	require.True(t, ok)
	assert.Equal(t, 0, binding)
	_, ok = s.BindGroupFromVarName(0, "missing")
	assert.False(t, ok)
	_, ok = s.BindGroupFromVarName(9, "params")
	assert.False(t, ok)
}

func TestNewShaderPanicsOnEmptySource(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("broken", ShaderTypeVertex, "", nil)
	})
}

func TestNewShaderPanicsOnDirectiveError(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("broken", ShaderTypeVertex, "#ifdef A\nno endif", nil)
	})
}
