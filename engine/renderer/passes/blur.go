package passes

import (
	"fmt"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// Blur group 0 bindings.
const (
	blurBindingOutput = 0
	blurBindingInput  = 1
	blurBindingFlip   = 2
	blurBindingFilter = 3
)

// blurTileWidth is the shared-memory strip width of one blur workgroup; the
// dispatch block width is the strip minus the filter halo.
const blurTileWidth = 128

// blurPass runs the separable box blur over the occlusion pair: a horizontal
// dispatch reads the first target and writes the intermediate, then a flipped
// vertical dispatch writes the result back into the first target. The
// lighting pass therefore always samples the first occlusion target.
type blurPass struct {
	pipelineKey string
	groupDesc   wgpu.BindGroupLayoutDescriptor

	horizontal bind_group_provider.BindGroupProvider
	vertical   bind_group_provider.BindGroupProvider

	filterSize int
}

// newBlurPass compiles the compute pipeline and creates the two dispatch
// providers wired to the occlusion ping-pong targets.
//
// Parameters:
//   - rnd: the renderer
//   - compiler: the shared shader variant compiler
//   - t: the frame targets
//
// Returns:
//   - *blurPass: the constructed pass
//   - error: an error if pipeline or bind group creation fails
func newBlurPass(rnd renderer.Renderer, compiler shader.Compiler, t *targets) (*blurPass, error) {
	cs := compiler.Compile(shader.NameBlur, shader.ShaderTypeCompute, shader.BlurSource, nil)
	key := shader.VariantKey(shader.NameBlur, nil)
	err := rnd.RegisterPipelines(pipeline.NewPipeline(key, pipeline.PipelineTypeCompute,
		pipeline.WithComputeShader(cs),
	))
	if err != nil {
		return nil, fmt.Errorf("register blur pipeline: %w", err)
	}

	p := &blurPass{
		pipelineKey: key,
		groupDesc:   cs.BindGroupLayoutDescriptor(0),
	}

	p.horizontal = bind_group_provider.NewBindGroupProvider("blur_horizontal")
	p.vertical = bind_group_provider.NewBindGroupProvider("blur_vertical")
	if err := p.rebind(rnd, t); err != nil {
		return nil, err
	}

	rnd.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.horizontal, Binding: blurBindingFlip, Data: common.SliceToBytes([]uint32{0})},
		{Provider: p.vertical, Binding: blurBindingFlip, Data: common.SliceToBytes([]uint32{1})},
	})
	return p, nil
}

// rebind re-attaches the occlusion views and recreates both bind groups,
// used at construction and after a resize.
func (p *blurPass) rebind(rnd renderer.Renderer, t *targets) error {
	p.horizontal.SetTextureView(blurBindingOutput, t.occlusionBView)
	p.horizontal.SetTextureView(blurBindingInput, t.occlusionAView)
	if err := rnd.InitBindGroup(p.horizontal, p.groupDesc, nil, nil); err != nil {
		return fmt.Errorf("init horizontal blur bind group: %w", err)
	}

	p.vertical.SetTextureView(blurBindingOutput, t.occlusionAView)
	p.vertical.SetTextureView(blurBindingInput, t.occlusionBView)
	if err := rnd.InitBindGroup(p.vertical, p.groupDesc, nil, nil); err != nil {
		return fmt.Errorf("init vertical blur bind group: %w", err)
	}
	return nil
}

// ensureFilter writes the clamped filter size uniform to both dispatch
// directions when it changed.
func (p *blurPass) ensureFilter(rnd renderer.Renderer, filterSize int) {
	size := clampFilterSize(filterSize)
	if size == p.filterSize {
		return
	}
	p.filterSize = size
	data := common.SliceToBytes([]uint32{uint32(size)})
	rnd.WriteBuffers([]bind_group_provider.BufferWrite{
		{Provider: p.horizontal, Binding: blurBindingFilter, Data: data},
		{Provider: p.vertical, Binding: blurBindingFilter, Data: data},
	})
}

// record encodes the requested number of horizontal plus vertical blur round
// trips over the occlusion pair.
//
// Parameters:
//   - rnd: the renderer
//   - width, height: the occlusion target size in pixels
//   - iterations: the number of round trips (minimum 1)
func (p *blurPass) record(rnd renderer.Renderer, width, height uint32, iterations int) {
	if iterations < 1 {
		iterations = 1
	}
	blockDim := uint32(blurTileWidth - p.filterSize - 1)
	for i := 0; i < iterations; i++ {
		rnd.DispatchCompute(p.pipelineKey, p.horizontal, [3]uint32{
			dispatchCount(width, blockDim),
			dispatchCount(height, 4),
			1,
		})
		rnd.DispatchCompute(p.pipelineKey, p.vertical, [3]uint32{
			dispatchCount(height, blockDim),
			dispatchCount(width, 4),
			1,
		})
	}
}

// release frees both providers' uniform buffers and bind groups.
func (p *blurPass) release() {
	dropProvider(p.horizontal)
	dropProvider(p.vertical)
	p.horizontal, p.vertical = nil, nil
}

// clampFilterSize bounds the blur filter so the workgroup strip retains a
// positive interior block width.
func clampFilterSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > 32 {
		return 32
	}
	return size
}

// dispatchCount divides a dimension into workgroup blocks, rounding up.
func dispatchCount(size, block uint32) uint32 {
	if block == 0 {
		return 1
	}
	return (size + block - 1) / block
}
