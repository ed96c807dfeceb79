package passes

import (
	"fmt"
	"log/slog"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"
	"github.com/kiln3d/kiln/engine/settings"

	"github.com/cogentcore/webgpu/wgpu"
)

// Post-process group 0 bindings.
const (
	postBindingFrame   = 0
	postBindingGrading = 1
)

// postProcessPass grades the HDR frame onto the surface: contrast, brightness,
// saturation, and gamma in that order. It is also the resolve blit, so it runs
// every frame; disabling post-processing writes a neutral grading vector.
type postProcessPass struct {
	pipelineKey string
	provider    bind_group_provider.BindGroupProvider
	groupDesc   wgpu.BindGroupLayoutDescriptor
}

// newPostProcessPass compiles the grading pipeline targeting the surface
// format and binds the HDR frame as its input.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//   - t: the frame targets
//
// Returns:
//   - *postProcessPass: the constructed pass
//   - error: an error if pipeline or bind group creation fails
func newPostProcessPass(rnd renderer.Renderer, compiler shader.Compiler, t *targets) (*postProcessPass, error) {
	vs := compiler.Compile(shader.NamePostProcess, shader.ShaderTypeVertex, shader.PostProcessSource, nil)
	fs := compiler.Compile(shader.NamePostProcess, shader.ShaderTypeFragment, shader.PostProcessSource, nil)
	key := shader.VariantKey(shader.NamePostProcess, nil)

	err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
	))
	if err != nil {
		return nil, fmt.Errorf("register postprocess pipeline: %w", err)
	}

	merged := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	p := &postProcessPass{
		pipelineKey: key,
		groupDesc:   merged[0],
		provider:    bind_group_provider.NewBindGroupProvider("postprocess"),
	}
	if err := p.rebind(rnd, t); err != nil {
		return nil, err
	}
	return p, nil
}

// rebind re-attaches the HDR view and recreates the bind group, used at
// construction and after a resize.
func (p *postProcessPass) rebind(rnd renderer.Renderer, t *targets) error {
	p.provider.SetTextureView(postBindingFrame, t.hdrView)
	if err := rnd.InitBindGroup(p.provider, p.groupDesc, nil, nil); err != nil {
		return fmt.Errorf("init postprocess bind group: %w", err)
	}
	return nil
}

// gradingWrite stages the frame's grading vector. A disabled post-process
// stage still blits, so it grades with the neutral vector.
func (p *postProcessPass) gradingWrite(cfg settings.PostProcess) bind_group_provider.BufferWrite {
	grading := [4]float32{0, 1, 1, 1}
	if cfg.Enabled {
		grading = [4]float32{cfg.Brightness, cfg.Contrast, cfg.Saturation, cfg.Gamma}
	}
	return bind_group_provider.BufferWrite{
		Provider: p.provider,
		Binding:  postBindingGrading,
		Data:     common.SliceToBytes(grading[:]),
	}
}

// record encodes the full-screen grading blit onto the surface view.
func (p *postProcessPass) record(rnd renderer.Renderer, surface *wgpu.TextureView, log *slog.Logger) {
	rnd.BeginRenderPass("postprocess", []renderer.ColorAttachment{{
		View: surface,
		Load: wgpu.LoadOpClear,
	}}, nil)
	if err := rnd.BindPipeline(p.pipelineKey); err != nil {
		log.Warn("skipping postprocess blit, pipeline unavailable", "error", err)
	} else {
		rnd.SetBindGroups(p.provider)
		rnd.Draw(4, 1, 0, 0)
	}
	rnd.EndRenderPass()
}

// release frees the grading uniform and bind group.
func (p *postProcessPass) release() {
	dropProvider(p.provider)
	p.provider = nil
}
