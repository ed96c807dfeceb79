package passes

import (
	"fmt"
	"log/slog"

	"github.com/kiln3d/kiln/engine/light"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// Fill group 1 bindings.
const (
	fillBindingLights    = 0
	fillBindingNormal    = 1
	fillBindingDiffuse   = 2
	fillBindingSpecular  = 3
	fillBindingDepth     = 4
	fillBindingOcclusion = 5
)

// MaxSceneLights is the light storage buffer capacity. Lights beyond this
// count are dropped by the packer's consumer.
const MaxSceneLights = 256

// gpuLightSize is the byte size of one packed light in the storage buffer.
const gpuLightSize = 80

// lightsBufferSize is the allocated size of the light storage buffers: the
// count header plus the full light capacity.
const lightsBufferSize = light.LightHeaderSize + MaxSceneLights*gpuLightSize

// fillPass is the deferred lighting stage: a full-screen pass reading the
// G-buffers, depth, and blurred occlusion, shading with the light storage
// buffer and the shadow cascades into the HDR target.
type fillPass struct {
	pipelineKey string
	provider    bind_group_provider.BindGroupProvider
	groupDesc   wgpu.BindGroupLayoutDescriptor

	// shadowGroupDesc is the merged shadow-group layout (group 2), exposed so
	// the shadow pass can build a compatible sampling bind group.
	shadowGroupDesc wgpu.BindGroupLayoutDescriptor
}

// newFillPass compiles the deferred lighting pipeline and creates its G-buffer
// input bind group, allocating the light storage buffer at full capacity.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//   - t: the frame targets
//
// Returns:
//   - *fillPass: the constructed pass
//   - error: an error if pipeline or bind group creation fails
func newFillPass(rnd renderer.Renderer, compiler shader.Compiler, t *targets) (*fillPass, error) {
	defines := map[string]string{defineShadowMap: "1"}
	vs := compiler.Compile(shader.NameFill, shader.ShaderTypeVertex, shader.FillSource, defines)
	fs := compiler.Compile(shader.NameFill, shader.ShaderTypeFragment, shader.FillSource, defines)
	key := shader.VariantKey(shader.NameFill, defines)

	err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargetFormats(HDRFormat),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
	))
	if err != nil {
		return nil, fmt.Errorf("register fill pipeline: %w", err)
	}

	merged := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	p := &fillPass{
		pipelineKey:     key,
		groupDesc:       merged[1],
		shadowGroupDesc: merged[2],
		provider:        bind_group_provider.NewBindGroupProvider("deferred_fill"),
	}
	if err := p.rebind(rnd, t); err != nil {
		return nil, err
	}
	return p, nil
}

// rebind re-attaches the G-buffer, depth, and occlusion views and recreates
// the bind group, used at construction and after a resize. The light storage
// buffer persists across rebinds.
func (p *fillPass) rebind(rnd renderer.Renderer, t *targets) error {
	p.provider.SetTextureView(fillBindingNormal, t.gNormalView)
	p.provider.SetTextureView(fillBindingDiffuse, t.gDiffuseView)
	p.provider.SetTextureView(fillBindingSpecular, t.gSpecularView)
	p.provider.SetTextureView(fillBindingDepth, t.depthView)
	p.provider.SetTextureView(fillBindingOcclusion, t.occlusionAView)
	err := rnd.InitBindGroup(p.provider, p.groupDesc, nil, map[int]uint64{
		fillBindingLights: lightsBufferSize,
	})
	if err != nil {
		return fmt.Errorf("init fill bind group: %w", err)
	}
	return nil
}

// record encodes the full-screen lighting pass into the HDR target.
func (p *fillPass) record(rnd renderer.Renderer, t *targets, camProvider, shadowProvider bind_group_provider.BindGroupProvider, log *slog.Logger) {
	rnd.BeginRenderPass("deferred_fill", []renderer.ColorAttachment{{
		View: t.hdrView,
		Load: wgpu.LoadOpClear,
	}}, nil)
	if err := rnd.BindPipeline(p.pipelineKey); err != nil {
		log.Warn("skipping deferred fill, pipeline unavailable", "error", err)
	} else {
		rnd.SetBindGroups(camProvider, p.provider, shadowProvider)
		rnd.Draw(4, 1, 0, 0)
	}
	rnd.EndRenderPass()
}

// release frees the pass's light buffer and bind group.
func (p *fillPass) release() {
	dropProvider(p.provider)
	p.provider = nil
}
