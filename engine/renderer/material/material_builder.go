package material

import (
	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAlbedo is an option builder that sets the base RGBA color of the material.
//
// Parameters:
//   - color: the albedo color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo option to a material
func WithAlbedo(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.albedo = color
	}
}

// WithDiffuse is an option builder that sets the diffuse reflectance of the material.
//
// Parameters:
//   - color: the diffuse term as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse option to a material
func WithDiffuse(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.diffuse = color
	}
}

// WithSpecular is an option builder that sets the specular reflectance of the material.
//
// Parameters:
//   - color: the specular term as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular option to a material
func WithSpecular(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.specular = color
	}
}

// WithShininess is an option builder that sets the Blinn-Phong specular exponent.
//
// Parameters:
//   - shininess: the specular exponent
//
// Returns:
//   - MaterialBuilderOption: a function that applies the shininess option to a material
func WithShininess(shininess float32) MaterialBuilderOption {
	return func(m *material) {
		m.shininess = shininess
	}
}

// WithDiffuseTexture is an option builder that sets the diffuse texture reference,
// promoting the material to the textured kind.
//
// Parameters:
//   - tex: the imported texture data for the diffuse map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse texture option to a material
func WithDiffuseTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.diffuseTexture = tex
	}
}

// WithSpecularTexture is an option builder that sets the specular map texture
// reference. The map modulates the specular color term per texel; it takes
// effect only on textured materials and does not change the material kind by
// itself.
//
// Parameters:
//   - tex: the imported texture data for the specular map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the specular texture option to a material
func WithSpecularTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.specularTexture = tex
	}
}

// WithNormalTexture is an option builder that sets the normal map texture reference,
// promoting the material to the normal-mapped kind. A diffuse texture should be
// set as well; normal mapping without a diffuse map falls back to the albedo color.
//
// Parameters:
//   - tex: the imported texture data for the normal map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the normal texture option to a material
func WithNormalTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.normalTexture = tex
	}
}

// WithBindGroupProvider is an option builder that sets the bind group provider for the material.
//
// Parameters:
//   - provider: the bind group provider containing GPU resources for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the bind group provider option to a material
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}
