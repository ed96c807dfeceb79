package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// ColorAttachment describes one color target of a render pass.
type ColorAttachment struct {
	// View is the texture view to render into.
	View *wgpu.TextureView

	// Load selects whether the attachment is cleared or loaded at pass start.
	Load wgpu.LoadOp

	// Clear is the clear color used when Load is wgpu.LoadOpClear.
	Clear wgpu.Color
}

// DepthAttachment describes the depth target of a render pass.
type DepthAttachment struct {
	// View is the depth texture view to render into.
	View *wgpu.TextureView

	// Load selects whether the depth buffer is cleared or loaded at pass start.
	Load wgpu.LoadOp

	// Clear is the clear depth used when Load is wgpu.LoadOpClear.
	Clear float32

	// Discard drops the depth contents at pass end instead of storing them.
	// Set for passes whose depth is not sampled later.
	Discard bool
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
