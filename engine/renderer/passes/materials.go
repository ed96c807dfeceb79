package passes

import (
	"fmt"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/material"

	"github.com/cogentcore/webgpu/wgpu"
)

// Material bind group bindings, shared by the G-buffer and forward shaders.
const (
	materialBindingUniform  = 0
	materialBindingDiffuse  = 1
	materialBindingSampler  = 2
	materialBindingNormal   = 3
	materialBindingSpecular = 4
)

// defaultMaterialSampler is the sampler configuration used when a texture does
// not carry its own sampler settings from the model file.
func defaultMaterialSampler() common.SamplerStagingData {
	return common.SamplerStagingData{
		AddressModeU:  wgpu.AddressModeRepeat,
		AddressModeV:  wgpu.AddressModeRepeat,
		AddressModeW:  wgpu.AddressModeRepeat,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}

// ensureMaterials lazily creates the GPU resources for every atlas material
// that does not have a bind group yet: the uniform buffer, the diffuse,
// specular, and normal textures for textured kinds, and the bind group itself. The layout
// descriptor comes from the geometry shader variant matching the material's
// kind, so material bind groups are compatible with both the deferred and
// forward pipelines.
//
// Parameters:
//   - rnd: the renderer used for GPU resource creation
//   - atlas: the scene's material atlas
//   - descByKind: the merged material-group layout descriptor per material kind
//
// Returns:
//   - error: an error if texture decoding or GPU creation fails
func ensureMaterials(rnd renderer.Renderer, atlas material.MaterialAtlas, descByKind map[material.Kind]wgpu.BindGroupLayoutDescriptor) error {
	for _, mat := range atlas.All() {
		if mat.BindGroupProvider() != nil && mat.BindGroupProvider().BindGroup() != nil {
			continue
		}

		desc, ok := descByKind[mat.Kind()]
		if !ok {
			return fmt.Errorf("material %q: no layout for kind %s", mat.Name(), mat.Kind())
		}

		provider := mat.BindGroupProvider()
		if provider == nil {
			provider = bind_group_provider.NewBindGroupProvider("material_" + mat.Name())
		}

		if mat.Kind() == material.KindPhongTextured || mat.Kind() == material.KindPhongTexturedNormal {
			if err := initMaterialTexture(rnd, provider, materialBindingDiffuse, mat.DiffuseTexture()); err != nil {
				return fmt.Errorf("material %q diffuse: %w", mat.Name(), err)
			}
			sampler := defaultMaterialSampler()
			if mat.DiffuseTexture() != nil && mat.DiffuseTexture().SamplerData != nil {
				sampler = *mat.DiffuseTexture().SamplerData
			}
			if err := rnd.InitSampler(provider, materialBindingSampler, sampler); err != nil {
				return fmt.Errorf("material %q sampler: %w", mat.Name(), err)
			}
			if err := initMaterialSpecular(rnd, provider, mat.SpecularTexture()); err != nil {
				return fmt.Errorf("material %q specular map: %w", mat.Name(), err)
			}
		}
		if mat.Kind() == material.KindPhongTexturedNormal {
			if err := initMaterialTexture(rnd, provider, materialBindingNormal, mat.NormalTexture()); err != nil {
				return fmt.Errorf("material %q normal map: %w", mat.Name(), err)
			}
		}

		if err := rnd.InitBindGroup(provider, desc, nil, nil); err != nil {
			return fmt.Errorf("material %q bind group: %w", mat.Name(), err)
		}
		mat.SetBindGroupProvider(provider)

		gpu := mat.GPU()
		rnd.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: provider,
			Binding:  materialBindingUniform,
			Data:     gpu.Marshal(),
		}})
	}
	return nil
}

// initMaterialSpecular uploads the specular map, or a single white texel when
// the material has none, so the textured layouts always have the binding
// satisfied and the shader's modulation reduces to the uniform specular term.
func initMaterialSpecular(rnd renderer.Renderer, provider bind_group_provider.BindGroupProvider, tex *common.ImportedTexture) error {
	if tex != nil {
		return initMaterialTexture(rnd, provider, materialBindingSpecular, tex)
	}
	return rnd.InitTextureView(provider, materialBindingSpecular, common.TextureStagingData{
		Pixels: []byte{0xFF, 0xFF, 0xFF, 0xFF},
		Width:  1,
		Height: 1,
	})
}

// initMaterialTexture decodes an imported texture and uploads it to the
// provider at the given binding.
func initMaterialTexture(rnd renderer.Renderer, provider bind_group_provider.BindGroupProvider, binding int, tex *common.ImportedTexture) error {
	if tex == nil {
		return fmt.Errorf("texture binding %d has no source image", binding)
	}
	pixels, width, height, err := tex.Decode()
	if err != nil {
		return err
	}
	return rnd.InitTextureView(provider, binding, common.TextureStagingData{
		Pixels: pixels,
		Width:  width,
		Height: height,
	})
}
