package passes

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"
	"github.com/kiln3d/kiln/engine/settings"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
)

// SSAO group 1 bindings.
const (
	ssaoBindingKernel = 0
	ssaoBindingNormal = 1
	ssaoBindingDepth  = 2
	ssaoBindingNoise  = 3
)

// DefaultSSAOBias is the view-space depth offset applied before counting a
// sample as occluded, suppressing self-occlusion on flat surfaces.
const DefaultSSAOBias float32 = 0.025

// kernelSeed makes the hemisphere kernel deterministic across runs so the
// occlusion output is reproducible for a given sample count.
const kernelSeed int64 = 0x55A0

// ssaoNoiseSize is the edge length of the rotation noise tile the shader
// repeats across the screen.
const ssaoNoiseSize = 4

// noiseSeed keeps the rotation noise tile deterministic, like the kernel.
const noiseSeed int64 = 0x4015

// ssaoPass renders per-pixel ambient occlusion from the depth buffer and
// G-buffer normals into the first occlusion target. The kernel size is baked
// into the shader through a define, so changing the sample count swaps the
// pipeline variant and rebuilds the kernel uniform.
type ssaoPass struct {
	pipelineKey string
	provider    bind_group_provider.BindGroupProvider
	groupDesc   wgpu.BindGroupLayoutDescriptor

	// noiseView is the 4x4 rotation noise tile, uploaded once on first use
	// and shared by every pipeline variant.
	noiseView *wgpu.TextureView

	sampleCount int
	radius      float32
}

// ensureVariant compiles and binds the pipeline variant for the requested
// sample count, creating a fresh provider when the count changes since the
// kernel uniform's size is part of the bind group layout. It also rewrites
// the kernel uniform when the sampling radius moved.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//   - t: the frame targets providing the normal and depth views
//   - cfg: the frame's SSAO settings
//
// Returns:
//   - error: an error if compilation or bind group creation fails
func (p *ssaoPass) ensureVariant(rnd renderer.Renderer, compiler shader.Compiler, t *targets, cfg settings.SSAO) error {
	samples := cfg.SampleCount
	if samples < 1 {
		samples = 1
	}

	if samples == p.sampleCount && p.provider != nil {
		if cfg.Radius != p.radius {
			p.radius = cfg.Radius
			rnd.WriteBuffers([]bind_group_provider.BufferWrite{{
				Provider: p.provider,
				Binding:  ssaoBindingKernel,
				Data:     ssaoKernelBytes(samples, cfg.Radius),
			}})
		}
		return nil
	}

	defines := map[string]string{defineSSAOSamples: strconv.Itoa(samples)}
	vs := compiler.Compile(shader.NameSSAO, shader.ShaderTypeVertex, shader.SSAOSource, defines)
	fs := compiler.Compile(shader.NameSSAO, shader.ShaderTypeFragment, shader.SSAOSource, defines)
	key := shader.VariantKey(shader.NameSSAO, defines)

	err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeRender,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithColorTargetFormats(OcclusionFormat),
		pipeline.WithDepthFormat(wgpu.TextureFormatUndefined),
		pipeline.WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
	))
	if err != nil {
		return fmt.Errorf("register ssao pipeline: %w", err)
	}

	if p.noiseView == nil {
		view, noiseErr := rnd.CreateDataTexture("ssao_noise", ssaoNoiseSize, ssaoNoiseSize,
			wgpu.TextureFormatRGBA8Unorm, ssaoNoiseSize*4, ssaoNoiseBytes())
		if noiseErr != nil {
			return fmt.Errorf("create ssao noise texture: %w", noiseErr)
		}
		p.noiseView = view
	}

	merged := renderer.MergeBindGroupLayouts(vs.BindGroupLayoutDescriptors(), fs.BindGroupLayoutDescriptors())
	provider := bind_group_provider.NewBindGroupProvider("ssao_" + strconv.Itoa(samples))
	provider.SetTextureView(ssaoBindingNormal, t.gNormalView)
	provider.SetTextureView(ssaoBindingDepth, t.depthView)
	provider.SetTextureView(ssaoBindingNoise, p.noiseView)
	if err := rnd.InitBindGroup(provider, merged[1], nil, nil); err != nil {
		return fmt.Errorf("init ssao bind group: %w", err)
	}

	dropProvider(p.provider)
	p.provider = provider
	p.groupDesc = merged[1]
	p.pipelineKey = key
	p.sampleCount = samples
	p.radius = cfg.Radius

	rnd.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: provider,
		Binding:  ssaoBindingKernel,
		Data:     ssaoKernelBytes(samples, cfg.Radius),
	}})
	return nil
}

// rebind re-attaches the target views and recreates the bind group after the
// targets were recreated on resize.
func (p *ssaoPass) rebind(rnd renderer.Renderer, t *targets) error {
	if p.provider == nil {
		return nil
	}
	p.provider.SetTextureView(ssaoBindingNormal, t.gNormalView)
	p.provider.SetTextureView(ssaoBindingDepth, t.depthView)
	return rnd.InitBindGroup(p.provider, p.groupDesc, nil, nil)
}

// record encodes the full-screen occlusion pass into the first occlusion
// target. The clear color is white so fragments the early depth exit skips
// read as unoccluded.
func (p *ssaoPass) record(rnd renderer.Renderer, t *targets, camProvider bind_group_provider.BindGroupProvider, log *slog.Logger) {
	rnd.BeginRenderPass("ssao", []renderer.ColorAttachment{{
		View:  t.occlusionAView,
		Load:  wgpu.LoadOpClear,
		Clear: wgpu.Color{R: 1, G: 1, B: 1, A: 1},
	}}, nil)
	if err := rnd.BindPipeline(p.pipelineKey); err != nil {
		log.Warn("skipping ssao pass, pipeline unavailable", "error", err)
	} else {
		rnd.SetBindGroups(camProvider, p.provider)
		rnd.Draw(4, 1, 0, 0)
	}
	rnd.EndRenderPass()
}

// release frees the pass's uniform buffer, bind group, and noise texture.
func (p *ssaoPass) release() {
	dropProvider(p.provider)
	p.provider = nil
	if p.noiseView != nil {
		p.noiseView.Release()
		p.noiseView = nil
	}
}

// ssaoKernel generates the deterministic hemisphere sample kernel: unit
// vectors with non-negative z, scaled so early samples cluster near the
// origin and later ones reach the full radius.
//
// Parameters:
//   - count: the number of samples
//
// Returns:
//   - [][3]float32: the kernel samples in tangent space
func ssaoKernel(count int) [][3]float32 {
	rng := rand.New(rand.NewSource(kernelSeed))
	samples := make([][3]float32, count)
	for i := range samples {
		v := [3]float32{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
			rng.Float32(),
		}
		length := math32.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
		if length < 1e-6 {
			v = [3]float32{0, 0, 1}
			length = 1
		}
		scale := 0.1 + (float32(i+1)/float32(count))*0.9
		for c := range v {
			v[c] = v[c] / length * scale
		}
		samples[i] = v
	}
	return samples
}

// ssaoKernelBytes marshals the kernel uniform: count vec4-padded samples
// followed by the radius, bias, and padding.
func ssaoKernelBytes(count int, radius float32) []byte {
	samples := ssaoKernel(count)
	data := make([]float32, 0, count*4+4)
	for _, s := range samples {
		data = append(data, s[0], s[1], s[2], 0)
	}
	data = append(data, radius, DefaultSSAOBias, 0, 0)
	return common.SliceToBytes(data)
}

// ssaoNoise generates the deterministic rotation noise tile: 16 unit 2D
// vectors the shader reads per-pixel to rotate the kernel's tangent basis,
// decorrelating neighboring fragments.
//
// Returns:
//   - [][2]float32: ssaoNoiseSize * ssaoNoiseSize unit vectors
func ssaoNoise() [][2]float32 {
	rng := rand.New(rand.NewSource(noiseSeed))
	vectors := make([][2]float32, ssaoNoiseSize*ssaoNoiseSize)
	for i := range vectors {
		v := [2]float32{
			rng.Float32()*2 - 1,
			rng.Float32()*2 - 1,
		}
		length := math32.Sqrt(v[0]*v[0] + v[1]*v[1])
		if length < 1e-6 {
			v = [2]float32{1, 0}
			length = 1
		}
		vectors[i] = [2]float32{v[0] / length, v[1] / length}
	}
	return vectors
}

// ssaoNoiseBytes encodes the noise tile as RGBA8 texels, mapping each vector
// component from [-1, 1] into the red and green channels. The shader undoes
// the mapping after textureLoad.
func ssaoNoiseBytes() []byte {
	vectors := ssaoNoise()
	data := make([]byte, 0, len(vectors)*4)
	for _, v := range vectors {
		data = append(data,
			byte((v[0]*0.5+0.5)*255),
			byte((v[1]*0.5+0.5)*255),
			0,
			0xFF,
		)
	}
	return data
}

// dropProvider releases a provider's owned GPU objects without touching the
// texture views, which belong to the shared frame targets.
func dropProvider(p bind_group_provider.BindGroupProvider) {
	if p == nil {
		return
	}
	p.SetTextureViews(make(map[int]*wgpu.TextureView))
	p.Release()
}
