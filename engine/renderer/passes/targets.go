package passes

import (
	"fmt"

	"github.com/kiln3d/kiln/engine/renderer"

	"github.com/cogentcore/webgpu/wgpu"
)

// targets owns the offscreen textures shared between passes: the three
// G-buffer channels, the scene depth buffer, the occlusion ping-pong pair,
// and the HDR lit output. All of them track the surface size and are
// recreated on resize.
type targets struct {
	width  uint32
	height uint32

	gNormalTex    *wgpu.Texture
	gNormalView   *wgpu.TextureView
	gDiffuseTex   *wgpu.Texture
	gDiffuseView  *wgpu.TextureView
	gSpecularTex  *wgpu.Texture
	gSpecularView *wgpu.TextureView

	depthTex  *wgpu.Texture
	depthView *wgpu.TextureView

	// occlusionA holds the SSAO result: the SSAO pass renders into it, the
	// horizontal blur reads it, and the vertical blur writes back into it so
	// the lighting pass always samples A. occlusionB is the intermediate.
	occlusionATex  *wgpu.Texture
	occlusionAView *wgpu.TextureView
	occlusionBTex  *wgpu.Texture
	occlusionBView *wgpu.TextureView

	hdrTex  *wgpu.Texture
	hdrView *wgpu.TextureView
}

// newTargets creates the full set of frame-sized render targets.
//
// Parameters:
//   - rnd: the renderer that owns the GPU device
//   - width, height: the surface size in pixels
//
// Returns:
//   - *targets: the created target set
//   - error: an error if any texture or view creation fails
func newTargets(rnd renderer.Renderer, width, height uint32) (*targets, error) {
	t := &targets{width: width, height: height}

	create := func(label string, format wgpu.TextureFormat, extra wgpu.TextureUsage) (*wgpu.Texture, *wgpu.TextureView, error) {
		tex, err := rnd.CreateRenderTarget(label, width, height, format, 1, extra)
		if err != nil {
			return nil, nil, fmt.Errorf("create %s target: %w", label, err)
		}
		view, err := rnd.CreateLayerView(tex, 0, 1, wgpu.TextureViewDimension2D, label+"_view")
		if err != nil {
			tex.Release()
			return nil, nil, fmt.Errorf("create %s view: %w", label, err)
		}
		return tex, view, nil
	}

	var err error
	if t.gNormalTex, t.gNormalView, err = create("g_normal", GBufferNormalFormat, 0); err != nil {
		return nil, err
	}
	if t.gDiffuseTex, t.gDiffuseView, err = create("g_diffuse", GBufferColorFormat, 0); err != nil {
		t.release()
		return nil, err
	}
	if t.gSpecularTex, t.gSpecularView, err = create("g_specular", GBufferColorFormat, 0); err != nil {
		t.release()
		return nil, err
	}
	if t.depthTex, t.depthView, err = create("scene_depth", DepthFormat, 0); err != nil {
		t.release()
		return nil, err
	}
	if t.occlusionATex, t.occlusionAView, err = create("occlusion_a", OcclusionFormat, wgpu.TextureUsageStorageBinding); err != nil {
		t.release()
		return nil, err
	}
	if t.occlusionBTex, t.occlusionBView, err = create("occlusion_b", OcclusionFormat, wgpu.TextureUsageStorageBinding); err != nil {
		t.release()
		return nil, err
	}
	if t.hdrTex, t.hdrView, err = create("hdr_color", HDRFormat, 0); err != nil {
		t.release()
		return nil, err
	}
	return t, nil
}

// release frees every texture and view in the set. Safe to call on a
// partially constructed set.
func (t *targets) release() {
	views := []*wgpu.TextureView{
		t.gNormalView, t.gDiffuseView, t.gSpecularView,
		t.depthView, t.occlusionAView, t.occlusionBView, t.hdrView,
	}
	for _, v := range views {
		if v != nil {
			v.Release()
		}
	}
	textures := []*wgpu.Texture{
		t.gNormalTex, t.gDiffuseTex, t.gSpecularTex,
		t.depthTex, t.occlusionATex, t.occlusionBTex, t.hdrTex,
	}
	for _, tex := range textures {
		if tex != nil {
			tex.Release()
		}
	}
	*t = targets{}
}
