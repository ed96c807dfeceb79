// Package passes implements the engine's render passes and the frame graph
// that sequences them: cascaded shadow mapping, the deferred G-buffer and
// lighting chain with SSAO, the forward pipeline with optional depth prepass,
// and the skybox, postprocess, and debug composition stages. Each pass owns
// its pipelines and bind group providers; the Graph owns the shared render
// targets and per-frame scene GPU buffers the passes read and write.
package passes

import (
	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer/material"
	"github.com/kiln3d/kiln/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// GBufferNormalFormat stores world-space normals in xyz and the material
	// shininess exponent in w. A float format keeps the normals signed.
	GBufferNormalFormat = wgpu.TextureFormatRGBA16Float

	// GBufferColorFormat stores the diffuse and specular G-buffer channels.
	GBufferColorFormat = wgpu.TextureFormatRGBA8Unorm

	// DepthFormat is the scene and shadow map depth format.
	DepthFormat = wgpu.TextureFormatDepth32Float

	// HDRFormat is the lit output format both pipelines render into before
	// the postprocess pass grades it down to the swapchain.
	HDRFormat = wgpu.TextureFormatRGBA16Float

	// OcclusionFormat backs the SSAO output and its blur ping-pong pair. It
	// must be renderable, storage-writable, and filterable-float sampleable,
	// which rules out the single-channel float formats.
	OcclusionFormat = wgpu.TextureFormatRGBA16Float
)

const (
	// defineShadowMap enables shadow cascade sampling in the lighting shaders.
	defineShadowMap = "SHADOW_MAP"

	// defineDeferred marks G-buffer shader variants.
	defineDeferred = "DEFERRED"

	// defineNormalMap enables tangent-space normal mapping.
	defineNormalMap = "NORMAL_MAP"

	// defineDepthTexture switches the debug shader to a depth texture binding.
	defineDepthTexture = "DEPTH_TEXTURE"

	// defineSSAOSamples is interpolated into the SSAO kernel array length.
	defineSSAOSamples = "SSAO_SAMPLES_CNT"
)

// vertexDefine returns the shader define selecting the vertex input layout
// for a vertex array type.
//
// Parameters:
//   - t: the vertex array type
//
// Returns:
//   - string: the matching VERTEX_* define name
func vertexDefine(t model.VertexArrayType) string {
	switch t {
	case model.VertexArrayTypePNUV:
		return "VERTEX_PNUV"
	case model.VertexArrayTypePNTBUV:
		return "VERTEX_PNTBUV"
	default:
		return "VERTEX_PN"
	}
}

// materialDefines adds the shader defines selecting the material shading
// variant to an existing define set.
//
// Parameters:
//   - kind: the material kind
//   - defines: the define set to extend
func materialDefines(kind material.Kind, defines map[string]string) {
	switch kind {
	case material.KindPhongTextured:
		defines["MATERIAL_PHONG_TEXTURED"] = "1"
	case material.KindPhongTexturedNormal:
		defines["MATERIAL_PHONG_TEXTURED"] = "1"
		defines[defineNormalMap] = "1"
	default:
		defines["MATERIAL_PHONG_SOLID"] = "1"
	}
}

// drawVariants enumerates the (vertex format, material kind) combinations the
// geometry-consuming passes compile pipelines for. Textured materials need
// texture coordinates, so the PN format only pairs with solid shading.
var drawVariants = []struct {
	arrayType model.VertexArrayType
	kind      material.Kind
}{
	{model.VertexArrayTypePN, material.KindPhongSolid},
	{model.VertexArrayTypePNUV, material.KindPhongSolid},
	{model.VertexArrayTypePNUV, material.KindPhongTextured},
	{model.VertexArrayTypePNUV, material.KindPhongTexturedNormal},
	{model.VertexArrayTypePNTBUV, material.KindPhongSolid},
	{model.VertexArrayTypePNTBUV, material.KindPhongTextured},
	{model.VertexArrayTypePNTBUV, material.KindPhongTexturedNormal},
}

// variantKey is the cache key for a compiled (vertex format, material kind)
// pipeline variant of a named pass shader.
//
// Parameters:
//   - name: the base shader name
//   - t: the vertex array type
//   - kind: the material kind
//
// Returns:
//   - string: the deterministic pipeline key
func variantKey(name string, t model.VertexArrayType, kind material.Kind) string {
	defines := variantDefines(name, t, kind)
	return shader.VariantKey(name, defines)
}

// variantDefines builds the define set for a (vertex format, material kind)
// variant of a named pass shader. The gbuffer shader additionally carries the
// DEFERRED define and the lighting shaders carry SHADOW_MAP.
//
// Parameters:
//   - name: the base shader name
//   - t: the vertex array type
//   - kind: the material kind
//
// Returns:
//   - map[string]string: the define set
func variantDefines(name string, t model.VertexArrayType, kind material.Kind) map[string]string {
	defines := map[string]string{vertexDefine(t): "1"}
	switch name {
	case shader.NameGBuffer:
		defines[defineDeferred] = "1"
		materialDefines(kind, defines)
	case shader.NameForward:
		defines[defineShadowMap] = "1"
		materialDefines(kind, defines)
	}
	return defines
}
