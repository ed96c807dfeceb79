package passes

import (
	"fmt"
	"log/slog"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// Skybox group 1 bindings.
const (
	skyboxBindingCubemap = 0
	skyboxBindingSampler = 1
)

// skyboxPass renders a camera-centered cube sampling a cubemap, drawn after
// the opaque passes at depth 1.0 so it fills only untouched fragments. The
// pass is idle until SetSkybox uploads a cubemap.
type skyboxPass struct {
	pipelineKey string
	groupDesc   wgpu.BindGroupLayoutDescriptor

	vertexBuf *wgpu.Buffer
	indexBuf  *wgpu.Buffer
	indices   uint32

	provider bind_group_provider.BindGroupProvider
	cubemap  *wgpu.TextureView
}

// newSkyboxPass compiles the skybox pipeline and uploads the unit cube
// geometry. The cubemap bind group is created lazily by setSkybox.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//
// Returns:
//   - *skyboxPass: the constructed pass
//   - error: an error if pipeline or buffer creation fails
func newSkyboxPass(rnd renderer.Renderer, compiler shader.Compiler) (*skyboxPass, error) {
	vs := compiler.Compile(shader.NameSkybox, shader.ShaderTypeVertex, shader.SkyboxSource, nil)
	fs := compiler.Compile(shader.NameSkybox, shader.ShaderTypeFragment, shader.SkyboxSource, nil)
	key := shader.VariantKey(shader.NameSkybox, nil)

	err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargetFormats(HDRFormat),
		pipeline.WithDepthFormat(DepthFormat),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthWriteEnabled(false),
	))
	if err != nil {
		return nil, fmt.Errorf("register skybox pipeline: %w", err)
	}

	merged := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	cube := model.NewCube("skybox")

	vertexBuf, err := rnd.CreateBuffer("skybox_vertices", uint64(len(cube.VertexData())), wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst)
	if err != nil {
		return nil, fmt.Errorf("create skybox vertex buffer: %w", err)
	}
	rnd.WriteBuffer(vertexBuf, 0, cube.VertexData())

	indexData := common.SliceToBytes(cube.Indices())
	indexBuf, err := rnd.CreateBuffer("skybox_indices", uint64(len(indexData)), wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst)
	if err != nil {
		vertexBuf.Release()
		return nil, fmt.Errorf("create skybox index buffer: %w", err)
	}
	rnd.WriteBuffer(indexBuf, 0, indexData)

	return &skyboxPass{
		pipelineKey: key,
		groupDesc:   merged[1],
		vertexBuf:   vertexBuf,
		indexBuf:    indexBuf,
		indices:     uint32(len(cube.Indices())),
	}, nil
}

// setSkybox uploads the six cubemap faces and binds them with a linear
// clamping sampler. Replacing an existing skybox releases the previous
// cubemap and bind group.
//
// Parameters:
//   - rnd: the renderer
//   - size: the edge length of one face in pixels
//   - faces: the face images in +X, -X, +Y, -Y, +Z, -Z order
//
// Returns:
//   - error: an error if texture or bind group creation fails
func (p *skyboxPass) setSkybox(rnd renderer.Renderer, size uint32, faces [6]common.TextureStagingData) error {
	view, err := rnd.CreateCubeTexture("skybox_cubemap", size, faces)
	if err != nil {
		return fmt.Errorf("create skybox cubemap: %w", err)
	}

	provider := bind_group_provider.NewBindGroupProvider("skybox")
	provider.SetTextureView(skyboxBindingCubemap, view)
	err = rnd.InitSampler(provider, skyboxBindingSampler, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		LodMaxClamp:  1,
	})
	if err != nil {
		view.Release()
		return fmt.Errorf("init skybox sampler: %w", err)
	}
	if err := rnd.InitBindGroup(provider, p.groupDesc, nil, nil); err != nil {
		view.Release()
		return fmt.Errorf("init skybox bind group: %w", err)
	}

	p.dropCubemap()
	p.provider = provider
	p.cubemap = view
	return nil
}

// enabled reports whether a cubemap has been set.
func (p *skyboxPass) enabled() bool {
	return p.provider != nil
}

// record draws the skybox cube over the HDR target, loading the existing
// color and depth so only background fragments pass the depth test.
func (p *skyboxPass) record(rnd renderer.Renderer, t *targets, camProvider bind_group_provider.BindGroupProvider, log *slog.Logger) {
	if p.provider == nil {
		return
	}
	rnd.BeginRenderPass("skybox", []renderer.ColorAttachment{{
		View: t.hdrView,
		Load: wgpu.LoadOpLoad,
	}}, &renderer.DepthAttachment{
		View: t.depthView,
		Load: wgpu.LoadOpLoad,
	})
	if err := rnd.BindPipeline(p.pipelineKey); err != nil {
		log.Warn("skipping skybox, pipeline unavailable", "error", err)
	} else {
		rnd.SetBindGroups(camProvider, p.provider)
		rnd.SetVertexBuffer(0, p.vertexBuf)
		rnd.SetIndexBuffer(p.indexBuf)
		rnd.DrawIndexed(p.indices, 1, 0, 0, 0)
	}
	rnd.EndRenderPass()
}

// dropCubemap releases the current cubemap view and its bind group.
func (p *skyboxPass) dropCubemap() {
	if p.provider != nil {
		dropProvider(p.provider)
		p.provider = nil
	}
	if p.cubemap != nil {
		p.cubemap.Release()
		p.cubemap = nil
	}
}

// release frees the cube geometry and any bound cubemap.
func (p *skyboxPass) release() {
	p.dropCubemap()
	if p.vertexBuf != nil {
		p.vertexBuf.Release()
		p.vertexBuf = nil
	}
	if p.indexBuf != nil {
		p.indexBuf.Release()
		p.indexBuf = nil
	}
}
