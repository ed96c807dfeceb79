package renderer

import (
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied during NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipeline pre-registers a pipeline in the renderer's cache under the
// given key.
//
// Parameters:
//   - key: the unique identifier for the pipeline
//   - p: the pipeline to cache
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPipeline(key string, p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineCache[key] = p
	}
}

// WithPipelines replaces the renderer's pipeline cache wholesale.
//
// Parameters:
//   - pipelines: pipelines keyed by their cache keys
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPipelines(pipelines map[string]pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pipelineCache = pipelines
	}
}

// WithPresentMode selects how finished frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithForceSoftwareRenderer requests WGPU's CPU fallback adapter instead of
// hardware acceleration. A software Vulkan ICD such as SwiftShader or
// lavapipe must be installed for the adapter request to succeed.
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - RendererBuilderOption: option function to apply
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}
