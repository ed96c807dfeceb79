package renderer

import (
	"fmt"
	"sync"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/pipeline"
	"github.com/kiln3d/kiln/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of shaders and pipelines, allowing for easy retrieval and management of
// these resources, and exposes the frame encoding surface the render passes are built on: offscreen
// target creation, render pass recording, compute dispatch, and indirect draws. The Renderer also
// implements a backend which allows for multiple backend API implementations to exist.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects (render or compute) via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// SetPipeline adds or updates a Pipeline in the cache with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to add or update in the cache
	//   - p: the Pipeline to add or update in the cache
	SetPipeline(key string, p pipeline.Pipeline)

	// SetPipelines replaces the entire pipeline cache with the provided map of Pipelines.
	//
	// Parameters:
	//   - pipelines: a map of pipeline keys to their corresponding Pipeline objects to set as the new cache
	SetPipelines(pipelines map[string]pipeline.Pipeline)

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SurfaceFormat returns the texture format of the configured surface.
	// Pipelines whose final color target is the swapchain must use this format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// SurfaceSize returns the current surface dimensions in pixels.
	//
	// Returns:
	//   - int: the surface width
	//   - int: the surface height
	SurfaceSize() (int, int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be initialized via InitTextureView
	// and InitSampler (or stored directly with SetTextureView) before calling this method. Buffer
	// usage and size can be overridden per binding. Calling again after replacing a texture view
	// recreates only the bind group, keeping the layout and buffers.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferUsageOverrides: additional buffer usage flags to OR into the derived usage, keyed by binding index (nil safe)
	//   - bufferSizeOverrides: custom buffer sizes to use instead of MinBindingSize, keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error

	// InitTextureView creates a GPU texture from staging data and stores the resulting texture view
	// on the given BindGroupProvider at the specified binding index. Must be called before InitBindGroup
	// for any texture bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created texture view on
	//   - bindingKey: the binding index for this texture
	//   - stagingData: the pixel data and dimensions for the texture
	//
	// Returns:
	//   - error: an error if texture creation fails
	InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// CreateRenderTarget creates an offscreen texture usable as both a render
	// attachment and a sampled texture binding.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - width: texture width in texels
	//   - height: texture height in texels
	//   - format: the texture format
	//   - layers: the number of array layers (1 for a plain 2D target)
	//   - extraUsage: additional usage flags to OR into the base usage
	//
	// Returns:
	//   - *wgpu.Texture: the created texture (caller releases when done)
	//   - error: an error if texture creation fails
	CreateRenderTarget(label string, width, height uint32, format wgpu.TextureFormat, layers uint32, extraUsage wgpu.TextureUsage) (*wgpu.Texture, error)

	// CreateLayerView creates a view over a layer range of an array texture.
	//
	// Parameters:
	//   - tex: the texture to view
	//   - baseLayer: the first array layer
	//   - layerCount: the number of layers in the view
	//   - dimension: the view dimension (2D or 2DArray)
	//   - label: debug label for the view
	//
	// Returns:
	//   - *wgpu.TextureView: the created view
	//   - error: an error if view creation fails
	CreateLayerView(tex *wgpu.Texture, baseLayer, layerCount uint32, dimension wgpu.TextureViewDimension, label string) (*wgpu.TextureView, error)

	// CreateDataTexture creates a 2D texture initialized with the given pixel data,
	// usable as a sampled texture binding.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - width: texture width in texels
	//   - height: texture height in texels
	//   - format: the texture format
	//   - bytesPerRow: the stride of one pixel row in the data
	//   - pixels: the pixel data to upload
	//
	// Returns:
	//   - *wgpu.TextureView: a default view over the created texture
	//   - error: an error if texture creation fails
	CreateDataTexture(label string, width, height uint32, format wgpu.TextureFormat, bytesPerRow uint32, pixels []byte) (*wgpu.TextureView, error)

	// CreateCubeTexture creates a cubemap texture from six square RGBA face
	// images in +X, -X, +Y, -Y, +Z, -Z order and returns a cube-dimension view.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - size: the edge length of each face in pixels
	//   - faces: the six face images; each must be size x size RGBA
	//
	// Returns:
	//   - *wgpu.TextureView: a cube view over all six faces
	//   - error: an error if texture creation fails
	CreateCubeTexture(label string, size uint32, faces [6]common.TextureStagingData) (*wgpu.TextureView, error)

	// CreateBuffer creates a GPU buffer with the given size and usage.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - size: the buffer size in bytes
	//   - usage: the buffer usage flags
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer (caller releases when done)
	//   - error: an error if buffer creation fails
	CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error)

	// WriteBuffer writes raw data to a GPU buffer at the given offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: the byte offset to write at
	//   - data: the bytes to write
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// BeginFrame acquires the swapchain texture and creates the frame's command
	// encoder. Must be paired with EndFrame after all passes within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// SurfaceView returns the swapchain texture view for the current frame.
	// Only valid between BeginFrame and Present.
	//
	// Returns:
	//   - *wgpu.TextureView: the swapchain view, or nil outside a frame
	SurfaceView() *wgpu.TextureView

	// BeginRenderPass opens a render pass on the frame encoder with the given
	// attachments. End the current pass with EndRenderPass before beginning the next.
	//
	// Parameters:
	//   - label: debug label for the pass
	//   - colors: the color attachments in target order (nil for depth-only passes)
	//   - depth: the depth attachment, or nil for passes without depth
	BeginRenderPass(label string, colors []ColorAttachment, depth *DepthAttachment)

	// BindPipeline looks up a cached render Pipeline by key and sets it on the
	// current render pass.
	//
	// Parameters:
	//   - key: the unique identifier for the cached render Pipeline
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	BindPipeline(key string) error

	// SetBindGroups binds the providers' bind groups to consecutive group
	// indices starting at 0 on the current render pass.
	//
	// Parameters:
	//   - bindGroups: the providers whose bind groups to bind, in group order
	SetBindGroups(bindGroups ...bind_group_provider.BindGroupProvider)

	// SetVertexBuffer binds a vertex buffer to a slot on the current render pass.
	//
	// Parameters:
	//   - slot: the vertex buffer slot index
	//   - buf: the vertex buffer
	SetVertexBuffer(slot uint32, buf *wgpu.Buffer)

	// SetIndexBuffer binds a uint32 index buffer on the current render pass.
	//
	// Parameters:
	//   - buf: the index buffer
	SetIndexBuffer(buf *wgpu.Buffer)

	// Draw encodes a non-indexed draw on the current render pass.
	//
	// Parameters:
	//   - vertexCount: the number of vertices to draw
	//   - instanceCount: the number of instances to draw
	//   - firstVertex: the first vertex index
	//   - firstInstance: the first instance index
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// DrawIndexed encodes an indexed draw on the current render pass.
	//
	// Parameters:
	//   - indexCount: the number of indices to draw
	//   - instanceCount: the number of instances to draw
	//   - firstIndex: the first index within the bound index buffer
	//   - baseVertex: the value added to each index before vertex lookup
	//   - firstInstance: the first instance index
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)

	// DrawIndirect encodes a non-indexed indirect draw whose 16-byte arguments
	// are read from a GPU buffer at the given offset.
	//
	// Parameters:
	//   - buf: the buffer holding indirect draw arguments
	//   - offset: the byte offset of the arguments within the buffer
	DrawIndirect(buf *wgpu.Buffer, offset uint64)

	// DrawIndexedIndirect encodes an indexed indirect draw whose 20-byte
	// arguments are read from a GPU buffer at the given offset.
	//
	// Parameters:
	//   - buf: the buffer holding indexed indirect draw arguments
	//   - offset: the byte offset of the arguments within the buffer
	DrawIndexedIndirect(buf *wgpu.Buffer, offset uint64)

	// EndRenderPass ends the current render pass.
	EndRenderPass()

	// DispatchCompute looks up the cached compute Pipeline by key and encodes a
	// compute pass on the frame encoder. Compute passes can be interleaved
	// between render passes within the same frame.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached compute Pipeline to use
	//   - computeProvider: the BindGroupProvider whose BindGroup will be set on the compute pass
	//   - workGroupCount: the number of workgroups to dispatch in the x, y, and z dimensions
	DispatchCompute(pipelineKey string, computeProvider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32)

	// EndFrame finishes the frame command encoder and submits the command buffer
	// to the GPU. Does not present the surface — call Present() after EndFrame
	// to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and window.
// The window provides the platform-specific surface descriptor for WebGPU surface creation.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface the renderer presents to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) SurfaceSize() (int, int) {
	return r.backend.SurfaceSize()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		switch p.Type() {
		case pipeline.PipelineTypeCompute:
			if err := r.backend.RegisterComputePipeline(p); err != nil {
				return err
			}
		case pipeline.PipelineTypeRender:
			if err := r.backend.RegisterRenderPipeline(p); err != nil {
				return err
			}
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache[key] = p
}

func (r *renderer) SetPipelines(pipelines map[string]pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache = pipelines
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferUsageOverrides map[int]wgpu.BufferUsage, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferUsageOverrides, bufferSizeOverrides)
}

func (r *renderer) InitTextureView(provider bind_group_provider.BindGroupProvider, bindingKey int, stagingData common.TextureStagingData) error {
	return r.backend.InitTextureView(provider, bindingKey, stagingData)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) CreateRenderTarget(label string, width, height uint32, format wgpu.TextureFormat, layers uint32, extraUsage wgpu.TextureUsage) (*wgpu.Texture, error) {
	return r.backend.CreateRenderTarget(label, width, height, format, layers, extraUsage)
}

func (r *renderer) CreateLayerView(tex *wgpu.Texture, baseLayer, layerCount uint32, dimension wgpu.TextureViewDimension, label string) (*wgpu.TextureView, error) {
	return r.backend.CreateLayerView(tex, baseLayer, layerCount, dimension, label)
}

func (r *renderer) CreateDataTexture(label string, width, height uint32, format wgpu.TextureFormat, bytesPerRow uint32, pixels []byte) (*wgpu.TextureView, error) {
	return r.backend.CreateDataTexture(label, width, height, format, bytesPerRow, pixels)
}

func (r *renderer) CreateCubeTexture(label string, size uint32, faces [6]common.TextureStagingData) (*wgpu.TextureView, error) {
	return r.backend.CreateCubeTexture(label, size, faces)
}

func (r *renderer) CreateBuffer(label string, size uint64, usage wgpu.BufferUsage) (*wgpu.Buffer, error) {
	return r.backend.CreateBuffer(label, size, usage)
}

func (r *renderer) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	r.backend.WriteBuffer(buf, offset, data)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) SurfaceView() *wgpu.TextureView {
	return r.backend.SurfaceView()
}

func (r *renderer) BeginRenderPass(label string, colors []ColorAttachment, depth *DepthAttachment) {
	r.backend.BeginRenderPass(label, colors, depth)
}

func (r *renderer) BindPipeline(key string) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[key]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", key)
	}

	r.backend.SetRenderPipeline(p)
	return nil
}

func (r *renderer) SetBindGroups(bindGroups ...bind_group_provider.BindGroupProvider) {
	r.backend.SetBindGroups(bindGroups...)
}

func (r *renderer) SetVertexBuffer(slot uint32, buf *wgpu.Buffer) {
	r.backend.SetVertexBuffer(slot, buf)
}

func (r *renderer) SetIndexBuffer(buf *wgpu.Buffer) {
	r.backend.SetIndexBuffer(buf)
}

func (r *renderer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	r.backend.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (r *renderer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32) {
	r.backend.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (r *renderer) DrawIndirect(buf *wgpu.Buffer, offset uint64) {
	r.backend.DrawIndirect(buf, offset)
}

func (r *renderer) DrawIndexedIndirect(buf *wgpu.Buffer, offset uint64) {
	r.backend.DrawIndexedIndirect(buf, offset)
}

func (r *renderer) EndRenderPass() {
	r.backend.EndRenderPass()
}

func (r *renderer) DispatchCompute(pipelineKey string, computeProvider bind_group_provider.BindGroupProvider, workGroupCount [3]uint32) {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return
	}

	r.backend.DispatchCompute(p, computeProvider, workGroupCount)
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}
