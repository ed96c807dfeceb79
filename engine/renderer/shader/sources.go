package shader

import (
	_ "embed"
)

// Canonical shader names used as compilation cache keys. Variants of the same
// source differ only in their define sets, which VariantKey folds into the key.
const (
	// NameGBuffer is the deferred geometry shader writing the G-buffer targets.
	NameGBuffer = "gbuffer"

	// NameCSMDepth is the depth-only cascade shadow map shader.
	NameCSMDepth = "csm_depth"

	// NameDepthPrepass is the forward pipeline's depth-only prepass shader.
	NameDepthPrepass = "depth_prepass"

	// NameFill is the deferred lighting shader compositing the G-buffers.
	NameFill = "fill"

	// NameForward is the forward pipeline's combined geometry and lighting shader.
	NameForward = "forward"

	// NameSSAO is the screen-space ambient occlusion shader.
	NameSSAO = "ssao"

	// NameBlur is the separable compute blur applied to the SSAO output.
	NameBlur = "blur"

	// NameSkybox is the cubemap skybox shader.
	NameSkybox = "skybox"

	// NamePostProcess is the color grading shader applied to the final frame.
	NamePostProcess = "postprocess"

	// NameDebug is the debug channel visualization shader.
	NameDebug = "debug"
)

// GBufferSource renders instanced geometry into the normal, diffuse, and
// specular G-buffer targets. Compiled per vertex format (VERTEX_PN,
// VERTEX_PNUV, VERTEX_PNTBUV) and material kind (MATERIAL_PHONG_SOLID,
// MATERIAL_PHONG_TEXTURED, optionally NORMAL_MAP).
//
//go:embed assets/gbuffer.wgsl
var GBufferSource string

// CSMDepthSource renders instanced geometry depth-only from a single shadow
// cascade's light-space view projection. Compiled per vertex format.
//
//go:embed assets/csm_depth.wgsl
var CSMDepthSource string

// DepthPrepassSource renders instanced geometry depth-only from the scene
// camera, priming the depth buffer for the forward pass. Compiled per vertex
// format.
//
//go:embed assets/depth_prepass.wgsl
var DepthPrepassSource string

// FillSource is the deferred lighting full-screen pass: it reconstructs world
// position from depth, applies Phong shading from the light storage buffer
// modulated by the SSAO texture, and samples the shadow cascade array when
// compiled with SHADOW_MAP.
//
//go:embed assets/fill.wgsl
var FillSource string

// ForwardSource shades instanced geometry in a single pass with the same
// lighting math as the deferred fill shader. Compiled per vertex format and
// material kind, optionally with SHADOW_MAP.
//
//go:embed assets/forward.wgsl
var ForwardSource string

// SSAOSource computes per-pixel ambient occlusion from the depth buffer and
// G-buffer normals using a hemisphere kernel. The kernel size is interpolated
// through the SSAO_SAMPLES_CNT define.
//
//go:embed assets/ssao.wgsl
var SSAOSource string

// BlurSource is the separable box blur compute shader. One dispatch blurs
// along x, a second with the flip uniform set blurs along y.
//
//go:embed assets/blur.wgsl
var BlurSource string

// SkyboxSource renders a camera-centered cube sampling a cubemap at depth 1.0.
//
//go:embed assets/skybox.wgsl
var SkyboxSource string

// PostProcessSource applies brightness, contrast, saturation, and gamma
// grading to the rendered frame in a full-screen pass.
//
//go:embed assets/postprocess.wgsl
var PostProcessSource string

// DebugSource blits a single texture channel to the screen, reading a depth
// texture when compiled with DEPTH_TEXTURE.
//
//go:embed assets/debug.wgsl
var DebugSource string
