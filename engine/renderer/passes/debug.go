package passes

import (
	"fmt"
	"log/slog"

	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"
	"github.com/kiln3d/kiln/engine/settings"

	"github.com/cogentcore/webgpu/wgpu"
)

// debugPass blits one intermediate buffer straight to the surface, bypassing
// the post-process stage. Color channels and the depth buffer need different
// texture declarations, so the pass carries two pipeline variants with their
// own providers and rebinds only when the selected channel changes.
type debugPass struct {
	colorKey string
	depthKey string

	colorDesc wgpu.BindGroupLayoutDescriptor
	depthDesc wgpu.BindGroupLayoutDescriptor

	colorProvider bind_group_provider.BindGroupProvider
	depthProvider bind_group_provider.BindGroupProvider

	lastChannel settings.DebugChannel
}

// newDebugPass compiles the color and depth blit variants.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//
// Returns:
//   - *debugPass: the constructed pass
//   - error: an error if pipeline registration fails
func newDebugPass(rnd renderer.Renderer, compiler shader.Compiler) (*debugPass, error) {
	p := &debugPass{
		lastChannel:   settings.DebugNone,
		colorProvider: bind_group_provider.NewBindGroupProvider("debug_color"),
		depthProvider: bind_group_provider.NewBindGroupProvider("debug_depth"),
	}

	vs := compiler.Compile(shader.NameDebug, shader.ShaderTypeVertex, shader.DebugSource, nil)
	fs := compiler.Compile(shader.NameDebug, shader.ShaderTypeFragment, shader.DebugSource, nil)
	p.colorKey = shader.VariantKey(shader.NameDebug, nil)
	err := rnd.RegisterPipelines(pipeline.NewPipeline(p.colorKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
	))
	if err != nil {
		return nil, fmt.Errorf("register debug pipeline: %w", err)
	}
	p.colorDesc = renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())[0]

	defines := map[string]string{defineDepthTexture: "1"}
	dvs := compiler.Compile(shader.NameDebug, shader.ShaderTypeVertex, shader.DebugSource, defines)
	dfs := compiler.Compile(shader.NameDebug, shader.ShaderTypeFragment, shader.DebugSource, defines)
	p.depthKey = shader.VariantKey(shader.NameDebug, defines)
	err = rnd.RegisterPipelines(pipeline.NewPipeline(p.depthKey, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(dvs),
		pipeline.WithFragmentShader(dfs),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
	))
	if err != nil {
		return nil, fmt.Errorf("register debug depth pipeline: %w", err)
	}
	p.depthDesc = renderer.MergeBindGroupLayouts(dvs.BindGroupLayoutDescriptors(), dfs.BindGroupLayoutDescriptors())[0]

	return p, nil
}

// invalidate forces a rebind on the next record, used after the frame targets
// were recreated on resize.
func (p *debugPass) invalidate() {
	p.lastChannel = settings.DebugNone
}

// channelView resolves a debug channel to its source view on the targets.
func channelView(t *targets, channel settings.DebugChannel) *wgpu.TextureView {
	switch channel {
	case settings.DebugNormals:
		return t.gNormalView
	case settings.DebugDiffuse:
		return t.gDiffuseView
	case settings.DebugSpecular:
		return t.gSpecularView
	case settings.DebugDepth:
		return t.depthView
	case settings.DebugAmbientOcclusion:
		return t.occlusionAView
	default:
		return nil
	}
}

// record blits the selected channel to the surface. The bind group is only
// recreated when the channel changed since the previous frame.
//
// Parameters:
//   - rnd: the renderer
//   - t: the frame targets
//   - surface: the swapchain view
//   - channel: the channel to visualize
//   - log: the frame logger
//
// Returns:
//   - error: an error if bind group creation fails
func (p *debugPass) record(rnd renderer.Renderer, t *targets, surface *wgpu.TextureView, channel settings.DebugChannel, log *slog.Logger) error {
	view := channelView(t, channel)
	if view == nil {
		return fmt.Errorf("no debug view for channel %d", channel)
	}

	isDepth := channel == settings.DebugDepth
	provider, desc, key := p.colorProvider, p.colorDesc, p.colorKey
	if isDepth {
		provider, desc, key = p.depthProvider, p.depthDesc, p.depthKey
	}

	if channel != p.lastChannel {
		provider.SetTextureView(0, view)
		if err := rnd.InitBindGroup(provider, desc, nil, nil); err != nil {
			return fmt.Errorf("init debug bind group: %w", err)
		}
		p.lastChannel = channel
	}

	rnd.BeginRenderPass("debug", []renderer.ColorAttachment{{
		View: surface,
		Load: wgpu.LoadOpClear,
	}}, nil)
	if err := rnd.BindPipeline(key); err != nil {
		log.Warn("skipping debug blit, pipeline unavailable", "error", err)
	} else {
		rnd.SetBindGroups(provider)
		rnd.Draw(4, 1, 0, 0)
	}
	rnd.EndRenderPass()
	return nil
}

// release frees both providers' bind groups.
func (p *debugPass) release() {
	dropProvider(p.colorProvider)
	dropProvider(p.depthProvider)
	p.colorProvider, p.depthProvider = nil, nil
}
