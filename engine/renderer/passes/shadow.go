package passes

import (
	"fmt"
	"strconv"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/camera"
	"github.com/kiln3d/kiln/engine/light"
	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"
	"github.com/kiln3d/kiln/engine/scene"

	"github.com/cogentcore/webgpu/wgpu"
)

// Shadow sampling group bindings, shared by the fill and forward shaders.
const (
	shadowBindingUniform = 0
	shadowBindingMaps    = 1
	shadowBindingSampler = 2
)

// shadowPass renders the scene depth-only into one layer of a Depth32Float
// array texture per cascade. Every frame all layers are cleared to 1.0 first,
// so frames without a shadow-casting light sample full visibility instead of
// stale or zeroed depth.
type shadowPass struct {
	pipelineKeys map[model.VertexArrayType]string

	mapTex     *wgpu.Texture
	layerViews [light.MaxCascades]*wgpu.TextureView
	arrayView  *wgpu.TextureView

	// cascadeProviders hold one 64-byte light view-projection uniform each,
	// bound as group 0 of the depth-only pipelines.
	cascadeProviders [light.MaxCascades]bind_group_provider.BindGroupProvider

	// samplingProvider is the shadow group the lighting shaders bind: the
	// cascade selection uniform, the depth array view, and the comparison
	// sampler. Initialized later against the fill shader's merged layout.
	samplingProvider bind_group_provider.BindGroupProvider
}

// newShadowPass compiles the depth-only cascade pipelines for every vertex
// format and allocates the shadow map array with its per-layer render views.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//
// Returns:
//   - *shadowPass: the constructed pass
//   - error: an error if pipeline or texture creation fails
func newShadowPass(rnd renderer.Renderer, compiler shader.Compiler) (*shadowPass, error) {
	p := &shadowPass{
		pipelineKeys: make(map[model.VertexArrayType]string),
	}

	formats := []model.VertexArrayType{
		model.VertexArrayTypePN,
		model.VertexArrayTypePNUV,
		model.VertexArrayTypePNTBUV,
	}
	var firstVS shader.Shader
	for _, t := range formats {
		defines := map[string]string{vertexDefine(t): "1"}
		vs := compiler.Compile(shader.NameCSMDepth, shader.ShaderTypeVertex, shader.CSMDepthSource, defines)
		if firstVS == nil {
			firstVS = vs
		}
		key := shader.VariantKey(shader.NameCSMDepth, defines)
		err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
			pipeline.WithVertexShader(vs),
			pipeline.WithDepthFormat(DepthFormat),
			pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
			pipeline.WithCullMode(wgpu.CullModeBack),
			pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		))
		if err != nil {
			return nil, fmt.Errorf("register cascade pipeline %s: %w", t, err)
		}
		p.pipelineKeys[t] = key
	}

	tex, err := rnd.CreateRenderTarget("shadow_map", light.ShadowMapResolution, light.ShadowMapResolution, DepthFormat, light.MaxCascades, 0)
	if err != nil {
		return nil, fmt.Errorf("create shadow map: %w", err)
	}
	p.mapTex = tex

	for i := 0; i < light.MaxCascades; i++ {
		view, viewErr := rnd.CreateLayerView(tex, uint32(i), 1, wgpu.TextureViewDimension2D, "shadow_cascade_"+strconv.Itoa(i))
		if viewErr != nil {
			p.release()
			return nil, fmt.Errorf("create cascade view %d: %w", i, viewErr)
		}
		p.layerViews[i] = view
	}
	arrayView, err := rnd.CreateLayerView(tex, 0, light.MaxCascades, wgpu.TextureViewDimension2DArray, "shadow_map_array")
	if err != nil {
		p.release()
		return nil, fmt.Errorf("create shadow array view: %w", err)
	}
	p.arrayView = arrayView

	// The depth-only shader is vertex-only, so its group 0 descriptor needs
	// no merging with a fragment stage.
	cascadeDesc := firstVS.BindGroupLayoutDescriptor(0)
	for i := 0; i < light.MaxCascades; i++ {
		provider := bind_group_provider.NewBindGroupProvider("shadow_cascade_" + strconv.Itoa(i))
		if err := rnd.InitBindGroup(provider, cascadeDesc, nil, nil); err != nil {
			p.release()
			return nil, fmt.Errorf("init cascade provider %d: %w", i, err)
		}
		p.cascadeProviders[i] = provider
	}

	return p, nil
}

// initSampling creates the shadow sampling bind group the lighting shaders
// consume, using the merged layout descriptor of the fill pipeline's shadow
// group. The forward shader declares an identical group, so one bind group
// serves both.
//
// Parameters:
//   - rnd: the renderer
//   - desc: the merged shadow-group layout descriptor
//
// Returns:
//   - error: an error if sampler or bind group creation fails
func (p *shadowPass) initSampling(rnd renderer.Renderer, desc wgpu.BindGroupLayoutDescriptor) error {
	provider := bind_group_provider.NewBindGroupProvider("shadow_sampling")
	provider.SetTextureView(shadowBindingMaps, p.arrayView)

	err := rnd.InitSampler(provider, shadowBindingSampler, common.SamplerStagingData{
		AddressModeU: wgpu.AddressModeClampToEdge,
		AddressModeV: wgpu.AddressModeClampToEdge,
		AddressModeW: wgpu.AddressModeClampToEdge,
		MagFilter:    wgpu.FilterModeLinear,
		MinFilter:    wgpu.FilterModeLinear,
		Compare:      wgpu.CompareFunctionLessEqual,
		LodMaxClamp:  1,
	})
	if err != nil {
		return fmt.Errorf("init shadow sampler: %w", err)
	}
	if err := rnd.InitBindGroup(provider, desc, nil, nil); err != nil {
		return fmt.Errorf("init shadow sampling bind group: %w", err)
	}
	p.samplingProvider = provider
	return nil
}

// prepare computes the cascades for the frame's shadow light and stages the
// uniform writes: one light view-projection per cascade provider plus the
// packed selection uniform. When no directional shadow caster exists it
// writes a single identity cascade, which resolves to full visibility against
// the cleared depth layers.
//
// Parameters:
//   - shadowLight: the scene's shadow-casting light, or nil
//   - cam: the scene camera
//
// Returns:
//   - []bind_group_provider.BufferWrite: the staged uniform writes
//   - int: the number of cascades to render geometry into (0 without a light)
//   - error: an error if cascade computation fails
func (p *shadowPass) prepare(shadowLight light.Light, cam camera.Camera) ([]bind_group_provider.BufferWrite, int, error) {
	if shadowLight == nil {
		uniform := light.GPUShadowUniform{
			CascadeCount: 1,
			MapSize:      light.ShadowMapResolution,
		}
		uniform.Cascades[0] = identityMatrix()
		return []bind_group_provider.BufferWrite{{
			Provider: p.samplingProvider,
			Binding:  shadowBindingUniform,
			Data:     uniform.Marshal(),
		}}, 0, nil
	}

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	cascades, err := light.ComputeCascades(
		shadowLight, view[:], proj[:],
		cam.Near(), cam.Far(),
		light.DefaultCascadeSplits, light.ShadowMapResolution,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("compute cascades: %w", err)
	}

	writes := make([]bind_group_provider.BufferWrite, 0, len(cascades)+1)
	for i, c := range cascades {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: p.cascadeProviders[i],
			Binding:  0,
			Data:     common.SliceToBytes(c.ViewProj[:]),
		})
	}
	uniform := light.ShadowUniform(cascades, light.ShadowMapResolution)
	writes = append(writes, bind_group_provider.BufferWrite{
		Provider: p.samplingProvider,
		Binding:  shadowBindingUniform,
		Data:     uniform.Marshal(),
	})
	return writes, len(cascades), nil
}

// record encodes one depth-only render pass per shadow map layer. Layers
// beyond the active cascade count are cleared without drawing.
//
// Parameters:
//   - rnd: the renderer
//   - buffers: the scene geometry buffers
//   - batches: the frame's draw batches
//   - cascadeCount: how many layers receive geometry
func (p *shadowPass) record(rnd renderer.Renderer, buffers *sceneBuffers, batches []scene.Batch, cascadeCount int) {
	for layer := 0; layer < light.MaxCascades; layer++ {
		rnd.BeginRenderPass("shadow_cascade_"+strconv.Itoa(layer), nil, &renderer.DepthAttachment{
			View:  p.layerViews[layer],
			Load:  wgpu.LoadOpClear,
			Clear: 1.0,
		})
		if layer < cascadeCount {
			for _, batch := range batches {
				if err := rnd.BindPipeline(p.pipelineKeys[batch.ArrayType]); err != nil {
					continue
				}
				rnd.SetBindGroups(p.cascadeProviders[layer])
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
		rnd.EndRenderPass()
	}
}

// release frees the shadow map texture, its views, and the cascade uniforms.
func (p *shadowPass) release() {
	for i, provider := range p.cascadeProviders {
		if provider != nil {
			provider.Release()
			p.cascadeProviders[i] = nil
		}
	}
	if p.samplingProvider != nil {
		// The array view is owned by this pass, not the provider map.
		p.samplingProvider.SetTextureViews(make(map[int]*wgpu.TextureView))
		p.samplingProvider.Release()
		p.samplingProvider = nil
	}
	for i, view := range p.layerViews {
		if view != nil {
			view.Release()
			p.layerViews[i] = nil
		}
	}
	if p.arrayView != nil {
		p.arrayView.Release()
		p.arrayView = nil
	}
	if p.mapTex != nil {
		p.mapTex.Release()
		p.mapTex = nil
	}
}

// identityMatrix returns a column-major 4x4 identity.
func identityMatrix() [16]float32 {
	return [16]float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}
