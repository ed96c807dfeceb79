package material

import (
	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
)

// Kind identifies the shading variant a material selects. Each kind maps to its
// own shader define set and geometry/forward pipeline permutation.
type Kind int

const (
	// KindPhongSolid is an untextured Blinn-Phong material shaded from its color terms alone.
	KindPhongSolid Kind = iota

	// KindPhongTextured samples a diffuse texture and modulates it with the color terms.
	KindPhongTextured

	// KindPhongTexturedNormal additionally samples a tangent-space normal map and
	// requires meshes with a full tangent basis (PNTBUV).
	KindPhongTexturedNormal
)

// String returns a short identifier for the material kind, used in pipeline
// and shader cache keys.
func (k Kind) String() string {
	switch k {
	case KindPhongSolid:
		return "phong_solid"
	case KindPhongTextured:
		return "phong_textured"
	case KindPhongTexturedNormal:
		return "phong_textured_normal"
	default:
		return "unknown"
	}
}

// material is the implementation of the Material interface.
type material struct {
	name              string
	albedo            [4]float32
	diffuse           [4]float32
	specular          [4]float32
	shininess         float32
	diffuseTexture    *common.ImportedTexture
	specularTexture   *common.ImportedTexture
	normalTexture     *common.ImportedTexture
	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a Blinn-Phong render material. Surface
// properties are set at construction and are read-only through this interface.
// The bind group provider holding the material's GPU resources is mutable so it
// can be attached during the renderer's GPU-init phase.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Kind reports the shading variant of this material, derived from which
	// textures are present.
	//
	// Returns:
	//   - Kind: the material kind
	Kind() Kind

	// Albedo retrieves the base RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the albedo color
	Albedo() [4]float32

	// Diffuse retrieves the diffuse reflectance RGBA of the material.
	//
	// Returns:
	//   - [4]float32: the diffuse term
	Diffuse() [4]float32

	// Specular retrieves the specular reflectance RGBA of the material.
	//
	// Returns:
	//   - [4]float32: the specular term
	Specular() [4]float32

	// Shininess retrieves the Blinn-Phong specular exponent.
	//
	// Returns:
	//   - float32: the shininess exponent
	Shininess() float32

	// DiffuseTexture retrieves the diffuse texture data reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the diffuse texture, or nil
	DiffuseTexture() *common.ImportedTexture

	// SpecularTexture retrieves the specular map texture data reference, or nil
	// if none is set. A specular map alone does not change the material kind;
	// it only applies alongside a diffuse texture.
	//
	// Returns:
	//   - *common.ImportedTexture: the specular texture, or nil
	SpecularTexture() *common.ImportedTexture

	// NormalTexture retrieves the normal map texture data reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the normal texture, or nil
	NormalTexture() *common.ImportedTexture

	// GPU builds the GPU-aligned uniform payload for this material.
	//
	// Returns:
	//   - GPUPhongMaterial: the packed material uniform
	GPU() GPUPhongMaterial

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		albedo:    [4]float32{1, 1, 1, 1},
		diffuse:   [4]float32{1, 1, 1, 1},
		specular:  [4]float32{1, 1, 1, 1},
		shininess: 32.0,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Kind() Kind {
	switch {
	case m.normalTexture != nil:
		return KindPhongTexturedNormal
	case m.diffuseTexture != nil:
		return KindPhongTextured
	default:
		return KindPhongSolid
	}
}

func (m *material) Albedo() [4]float32 {
	return m.albedo
}

func (m *material) Diffuse() [4]float32 {
	return m.diffuse
}

func (m *material) Specular() [4]float32 {
	return m.specular
}

func (m *material) Shininess() float32 {
	return m.shininess
}

func (m *material) DiffuseTexture() *common.ImportedTexture {
	return m.diffuseTexture
}

func (m *material) SpecularTexture() *common.ImportedTexture {
	return m.specularTexture
}

func (m *material) NormalTexture() *common.ImportedTexture {
	return m.normalTexture
}

func (m *material) GPU() GPUPhongMaterial {
	g := GPUPhongMaterial{
		Albedo:   m.albedo,
		Diffuse:  m.diffuse,
		Specular: m.specular,
	}
	g.Specular[3] = m.shininess
	return g
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
