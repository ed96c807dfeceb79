package passes

import (
	"fmt"
	"log/slog"

	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/material"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"
	"github.com/kiln3d/kiln/engine/scene"

	"github.com/cogentcore/webgpu/wgpu"
)

// forwardPass shades instanced geometry in a single pass into the HDR target,
// one pipeline per vertex format and material kind permutation. An optional
// depth prepass lays down the depth buffer first so the shading pass runs with
// equal-depth testing and no overdraw.
type forwardPass struct {
	pipelineKeys map[variantID]string

	// prepassKeys are the depth-only pipelines per vertex format.
	prepassKeys map[model.VertexArrayType]string

	// prepassCamera holds its own camera uniform. The depth-only shader is
	// vertex-only, so its group 0 layout is not compatible with the shared
	// camera bind group created at vertex-and-fragment visibility.
	prepassCamera bind_group_provider.BindGroupProvider

	// lightsProvider is group 1 of the forward shader: the light storage
	// buffer, allocated at the same capacity as the deferred fill pass.
	lightsProvider bind_group_provider.BindGroupProvider
}

// newForwardPass compiles every forward pipeline permutation, the depth
// prepass pipelines, and creates the light and prepass camera bind groups.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//
// Returns:
//   - *forwardPass: the constructed pass
//   - error: an error if pipeline or bind group creation fails
func newForwardPass(rnd renderer.Renderer, compiler shader.Compiler) (*forwardPass, error) {
	p := &forwardPass{
		pipelineKeys: make(map[variantID]string),
		prepassKeys:  make(map[model.VertexArrayType]string),
	}

	for _, v := range drawVariants {
		defines := variantDefines(shader.NameForward, v.arrayType, v.kind)
		vs := compiler.Compile(shader.NameForward, shader.ShaderTypeVertex, shader.ForwardSource, defines)
		fs := compiler.Compile(shader.NameForward, shader.ShaderTypeFragment, shader.ForwardSource, defines)
		key := shader.VariantKey(shader.NameForward, defines)

		err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(vs),
			pipeline.WithFragmentShader(fs),
			pipeline.WithColorTargetFormats(HDRFormat),
			pipeline.WithDepthFormat(DepthFormat),
			pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		))
		if err != nil {
			return nil, fmt.Errorf("register forward pipeline %s/%s: %w", v.arrayType, v.kind, err)
		}
		p.pipelineKeys[variantID{v.arrayType, v.kind}] = key

		if p.lightsProvider == nil {
			merged := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
			provider := bind_group_provider.NewBindGroupProvider("forward_lights")
			err := rnd.InitBindGroup(provider, merged[1], nil, map[int]uint64{
				fillBindingLights: lightsBufferSize,
			})
			if err != nil {
				return nil, fmt.Errorf("init forward lights bind group: %w", err)
			}
			p.lightsProvider = provider
		}
	}

	formats := []model.VertexArrayType{
		model.VertexArrayTypePN,
		model.VertexArrayTypePNUV,
		model.VertexArrayTypePNTBUV,
	}
	var firstVS shader.Shader
	for _, t := range formats {
		defines := map[string]string{vertexDefine(t): "1"}
		vs := compiler.Compile(shader.NameDepthPrepass, shader.ShaderTypeVertex, shader.DepthPrepassSource, defines)
		if firstVS == nil {
			firstVS = vs
		}
		key := shader.VariantKey(shader.NameDepthPrepass, defines)
		err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(vs),
			pipeline.WithDepthFormat(DepthFormat),
			pipeline.WithDepthCompare(wgpu.CompareFunctionLess),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		))
		if err != nil {
			return nil, fmt.Errorf("register depth prepass pipeline %s: %w", t, err)
		}
		p.prepassKeys[t] = key
	}

	prepassCamera := bind_group_provider.NewBindGroupProvider("depth_prepass_camera")
	if err := rnd.InitBindGroup(prepassCamera, firstVS.BindGroupLayoutDescriptor(0), nil, nil); err != nil {
		return nil, fmt.Errorf("init depth prepass camera: %w", err)
	}
	p.prepassCamera = prepassCamera

	return p, nil
}

// recordPrepass encodes the depth-only prepass, clearing the depth buffer and
// rasterizing every batch with the per-format depth pipelines.
func (p *forwardPass) recordPrepass(rnd renderer.Renderer, t *targets, buffers *sceneBuffers, batches []scene.Batch) {
	rnd.BeginRenderPass("depth_prepass", nil, &renderer.DepthAttachment{
		View:  t.depthView,
		Load:  wgpu.LoadOpClear,
		Clear: 1.0,
	})
	for _, batch := range batches {
		if err := rnd.BindPipeline(p.prepassKeys[batch.ArrayType]); err != nil {
			continue
		}
		rnd.SetBindGroups(p.prepassCamera)
		rnd.SetVertexBuffer(0, buffers.vertexBuffer(batch.ArrayType))
		rnd.SetVertexBuffer(1, buffers.instance)
		if batch.Indexed {
			rnd.SetIndexBuffer(buffers.index)
			rnd.DrawIndexedIndirect(buffers.indirect, batch.IndirectOffset)
		} else {
			rnd.DrawIndirect(buffers.indirect, batch.IndirectOffset)
		}
	}
	rnd.EndRenderPass()
}

// record encodes the forward shading pass into the HDR target. When the depth
// prepass ran, the depth buffer is loaded and the equal-depth comparison lets
// only the front-most fragments shade; otherwise depth is cleared here.
//
// Parameters:
//   - rnd: the renderer
//   - t: the frame targets
//   - buffers: the scene geometry buffers
//   - batches: the frame's draw batches
//   - camProvider: the shared camera bind group (group 0)
//   - shadowProvider: the shadow sampling bind group (group 3)
//   - atlas: the material atlas resolving batch material ids (group 2)
//   - prepassed: whether the depth prepass already populated the depth buffer
//   - log: the frame logger
func (p *forwardPass) record(rnd renderer.Renderer, t *targets, buffers *sceneBuffers, batches []scene.Batch, camProvider, shadowProvider bind_group_provider.BindGroupProvider, atlas material.MaterialAtlas, prepassed bool, log *slog.Logger) {
	depth := &renderer.DepthAttachment{
		View:  t.depthView,
		Load:  wgpu.LoadOpClear,
		Clear: 1.0,
	}
	if prepassed {
		depth.Load = wgpu.LoadOpLoad
	}
	rnd.BeginRenderPass("forward", []renderer.ColorAttachment{{
		View: t.hdrView,
		Load: wgpu.LoadOpClear,
	}}, depth)
	drawBatches(rnd, p.pipelineKeys, buffers, batches, atlas, log, func(mat material.Material) []bind_group_provider.BindGroupProvider {
		return []bind_group_provider.BindGroupProvider{camProvider, p.lightsProvider, mat.BindGroupProvider(), shadowProvider}
	})
	rnd.EndRenderPass()
}

// release frees the light and prepass camera buffers and bind groups.
func (p *forwardPass) release() {
	dropProvider(p.lightsProvider)
	dropProvider(p.prepassCamera)
	p.lightsProvider, p.prepassCamera = nil, nil
}
