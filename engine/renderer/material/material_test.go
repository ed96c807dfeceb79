package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/kiln3d/kiln/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMaterialDefaults(t *testing.T) {
	m := NewMaterial()
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.Albedo())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.Diffuse())
	assert.Equal(t, [4]float32{1, 1, 1, 1}, m.Specular())
	assert.Equal(t, float32(32), m.Shininess())
	assert.Equal(t, KindPhongSolid, m.Kind())
}

func TestMaterialKindFromTextures(t *testing.T) {
	solid := NewMaterial(WithName("solid"))
	assert.Equal(t, KindPhongSolid, solid.Kind())

	textured := NewMaterial(
		WithName("textured"),
		WithDiffuseTexture(&common.ImportedTexture{}),
	)
	assert.Equal(t, KindPhongTextured, textured.Kind())

	normalMapped := NewMaterial(
		WithName("normal-mapped"),
		WithDiffuseTexture(&common.ImportedTexture{}),
		WithNormalTexture(&common.ImportedTexture{}),
	)
	assert.Equal(t, KindPhongTexturedNormal, normalMapped.Kind())
}

func TestMaterialSpecularTexture(t *testing.T) {
	spec := &common.ImportedTexture{}
	m := NewMaterial(
		WithName("worn-metal"),
		WithDiffuseTexture(&common.ImportedTexture{}),
		WithSpecularTexture(spec),
	)
	assert.Same(t, spec, m.SpecularTexture())
	assert.Equal(t, KindPhongTextured, m.Kind())

	// A specular map alone does not promote the material to a textured kind.
	solid := NewMaterial(WithSpecularTexture(spec))
	assert.Equal(t, KindPhongSolid, solid.Kind())
	assert.Nil(t, NewMaterial().SpecularTexture())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "phong_solid", KindPhongSolid.String())
	assert.Equal(t, "phong_textured", KindPhongTextured.String())
	assert.Equal(t, "phong_textured_normal", KindPhongTexturedNormal.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestGPUPhongMaterialPacksShininess(t *testing.T) {
	m := NewMaterial(
		WithDiffuse([4]float32{0.5, 0.4, 0.3, 1}),
		WithSpecular([4]float32{1, 1, 1, 1}),
		WithShininess(64),
	)
	g := m.GPU()
	assert.Equal(t, float32(64), g.Specular[3], "shininess rides in specular w")
	assert.Equal(t, float32(0.5), g.Diffuse[0])
}

func TestGPUPhongMaterialMarshal(t *testing.T) {
	g := GPUPhongMaterial{
		Albedo:   [4]float32{1, 0, 0, 1},
		Diffuse:  [4]float32{0, 1, 0, 1},
		Specular: [4]float32{0, 0, 1, 96},
	}
	require.Equal(t, 48, g.Size())

	buf := g.Marshal()
	require.Len(t, buf, 48)
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[20:])))
	assert.Equal(t, float32(96), math.Float32frombits(binary.LittleEndian.Uint32(buf[44:])))
}

func TestAtlasRegisterAndLookup(t *testing.T) {
	a := NewMaterialAtlas()
	assert.Equal(t, 0, a.Count())

	red := NewMaterial(WithName("red"))
	blue := NewMaterial(WithName("blue"))

	redId := a.Register(red)
	blueId := a.Register(blue)
	assert.Equal(t, MaterialId(0), redId)
	assert.Equal(t, MaterialId(1), blueId)
	assert.Equal(t, 2, a.Count())

	assert.Same(t, red, a.Get(redId))
	assert.Same(t, blue, a.Get(blueId))
	assert.Nil(t, a.Get(MaterialId(99)))

	id, ok := a.Lookup("blue")
	require.True(t, ok)
	assert.Equal(t, blueId, id)
	_, ok = a.Lookup("green")
	assert.False(t, ok)
}

func TestAtlasRegisterDeduplicatesByName(t *testing.T) {
	a := NewMaterialAtlas()
	first := a.Register(NewMaterial(WithName("shared")))
	second := a.Register(NewMaterial(WithName("shared")))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, a.Count())
}

func TestAtlasUnnamedMaterialsAreDistinct(t *testing.T) {
	a := NewMaterialAtlas()
	first := a.Register(NewMaterial())
	second := a.Register(NewMaterial())
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, a.Count())
}

func TestAtlasAllPreservesIdOrder(t *testing.T) {
	a := NewMaterialAtlas()
	names := []string{"a", "b", "c"}
	for _, n := range names {
		a.Register(NewMaterial(WithName(n)))
	}
	all := a.All()
	require.Len(t, all, 3)
	for i, m := range all {
		assert.Equal(t, names[i], m.Name())
	}
}
