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

// variantID identifies one (vertex format, material kind) pipeline permutation.
type variantID struct {
	arrayType model.VertexArrayType
	kind      material.Kind
}

// validVariant reports whether a batch's format and material kind map to a
// compiled pipeline. Textured kinds need texture coordinates, so the PN
// format only draws with solid shading.
func validVariant(t model.VertexArrayType, kind material.Kind) bool {
	return t != model.VertexArrayTypePN || kind == material.KindPhongSolid
}

// gbufferPass renders instanced geometry into the three G-buffer color
// targets and the scene depth buffer, one pipeline per vertex format and
// material kind permutation.
type gbufferPass struct {
	pipelineKeys map[variantID]string

	// cameraDesc is the merged group 0 layout every full render pipeline in
	// the graph shares (one camera uniform, vertex and fragment visibility).
	cameraDesc wgpu.BindGroupLayoutDescriptor

	// materialDescs are the merged group 1 layouts per material kind, used to
	// initialize material bind groups compatible with both pipelines.
	materialDescs map[material.Kind]wgpu.BindGroupLayoutDescriptor
}

// newGBufferPass compiles and registers every G-buffer pipeline permutation
// and captures the camera and material layout descriptors the graph reuses
// for bind group initialization.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//
// Returns:
//   - *gbufferPass: the constructed pass
//   - error: an error if pipeline registration fails
func newGBufferPass(rnd renderer.Renderer, compiler shader.Compiler) (*gbufferPass, error) {
	p := &gbufferPass{
		pipelineKeys:  make(map[variantID]string),
		materialDescs: make(map[material.Kind]wgpu.BindGroupLayoutDescriptor),
	}

	for _, v := range drawVariants {
		defines := variantDefines(shader.NameGBuffer, v.arrayType, v.kind)
		vs := compiler.Compile(shader.NameGBuffer, shader.ShaderTypeVertex, shader.GBufferSource, defines)
		fs := compiler.Compile(shader.NameGBuffer, shader.ShaderTypeFragment, shader.GBufferSource, defines)
		key := shader.VariantKey(shader.NameGBuffer, defines)

		err := rnd.RegisterPipelines(gbufferPipeline(key, vs, fs))
		if err != nil {
			return nil, fmt.Errorf("register gbuffer pipeline %s/%s: %w", v.arrayType, v.kind, err)
		}
		p.pipelineKeys[variantID{v.arrayType, v.kind}] = key

		merged := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
		p.cameraDesc = merged[0]
		if _, ok := p.materialDescs[v.kind]; !ok {
			p.materialDescs[v.kind] = merged[1]
		}
	}

	return p, nil
}

// gbufferPipeline assembles one G-buffer pipeline permutation. The LessEqual
// depth test keeps the pass compatible with a depth prepass that already
// wrote the same buffer.
func gbufferPipeline(key string, vs, fs shader.Shader) pipeline.Pipeline {
	return pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargetFormats(GBufferNormalFormat, GBufferColorFormat, GBufferColorFormat),
		pipeline.WithDepthFormat(DepthFormat),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
	)
}

// record encodes the G-buffer pass: all three color targets and the depth
// buffer are cleared, then every batch draws indirectly with its pipeline
// permutation. Batches without a valid permutation are logged and skipped.
//
// Parameters:
//   - rnd: the renderer
//   - t: the frame targets
//   - buffers: the scene geometry buffers
//   - batches: the frame's draw batches
//   - camProvider: the camera bind group provider (group 0)
//   - atlas: the material atlas resolving batch material ids (group 1)
//   - log: the frame logger
func (p *gbufferPass) record(rnd renderer.Renderer, t *targets, buffers *sceneBuffers, batches []scene.Batch, camProvider bind_group_provider.BindGroupProvider, atlas material.MaterialAtlas, log *slog.Logger) {
	colors := []renderer.ColorAttachment{
		{View: t.gNormalView, Load: wgpu.LoadOpClear},
		{View: t.gDiffuseView, Load: wgpu.LoadOpClear},
		{View: t.gSpecularView, Load: wgpu.LoadOpClear},
	}
	rnd.BeginRenderPass("gbuffer", colors, &renderer.DepthAttachment{
		View:  t.depthView,
		Load:  wgpu.LoadOpClear,
		Clear: 1.0,
	})
	drawBatches(rnd, p.pipelineKeys, buffers, batches, atlas, log, func(mat material.Material) []bind_group_provider.BindGroupProvider {
		return []bind_group_provider.BindGroupProvider{camProvider, mat.BindGroupProvider()}
	})
	rnd.EndRenderPass()
}

// drawBatches issues the indirect draw for every batch inside an open render
// pass, binding the pipeline permutation and the groups produced by the
// caller for each batch's material.
func drawBatches(rnd renderer.Renderer, keys map[variantID]string, buffers *sceneBuffers, batches []scene.Batch, atlas material.MaterialAtlas, log *slog.Logger, groups func(material.Material) []bind_group_provider.BindGroupProvider) {
	for _, batch := range batches {
		if !validVariant(batch.ArrayType, batch.MaterialKind) {
			log.Warn("skipping batch without pipeline permutation",
				"mesh", batch.MeshName,
				"format", batch.ArrayType.String(),
				"material", batch.MaterialKind.String(),
			)
			continue
		}
		mat := atlas.Get(batch.MaterialID)
		if mat == nil || mat.BindGroupProvider() == nil {
			log.Warn("skipping batch with uninitialized material", "mesh", batch.MeshName)
			continue
		}
		if err := rnd.BindPipeline(keys[variantID{batch.ArrayType, batch.MaterialKind}]); err != nil {
			log.Warn("skipping batch with missing pipeline", "mesh", batch.MeshName, "error", err)
			continue
		}
		rnd.SetBindGroups(groups(mat)...)
		rnd.SetVertexBuffer(0, buffers.vertexBuffer(batch.ArrayType))
		rnd.SetVertexBuffer(1, buffers.instance)
		if batch.Indexed {
			rnd.SetIndexBuffer(buffers.index)
			rnd.DrawIndexedIndirect(buffers.indirect, batch.IndirectOffset)
		} else {
			rnd.DrawIndirect(buffers.indirect, batch.IndirectOffset)
		}
	}
}
