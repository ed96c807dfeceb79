package passes

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/camera"
	"github.com/kiln3d/kiln/engine/light"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/shader"
	"github.com/kiln3d/kiln/engine/scene"
	"github.com/kiln3d/kiln/engine/settings"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNoCamera is returned by RenderFrame when the scene has no camera.
var ErrNoCamera = errors.New("scene has no camera")

// graph is the implementation of the Graph interface.
type graph struct {
	rnd renderer.Renderer
	log *slog.Logger

	compiler shader.Compiler
	targets  *targets
	buffers  *sceneBuffers

	gbuffer *gbufferPass
	shadow  *shadowPass
	fill    *fillPass
	forward *forwardPass
	ssao    *ssaoPass
	blur    *blurPass
	skybox  *skyboxPass
	post    *postProcessPass
	debug   *debugPass
}

// Graph orchestrates the frame: it owns the offscreen targets, the GPU
// mirrors of the scene's geometry, and every render and compute pass, and
// encodes them in order according to the frame settings snapshot.
type Graph interface {
	// RenderFrame batches the scene, uploads whatever changed, and encodes,
	// submits, and presents one frame.
	//
	// Parameters:
	//   - frame: the settings snapshot to render with
	//   - scn: the scene to render
	//
	// Returns:
	//   - error: an error if the surface is unavailable or an upload fails
	RenderFrame(frame settings.Frame, scn scene.Scene) error

	// Resize recreates the frame-sized targets and rebinds the passes that
	// reference them. Call after the renderer's surface was reconfigured.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	//
	// Returns:
	//   - error: an error if target or bind group recreation fails
	Resize(width, height int) error

	// SetSkybox uploads a cubemap for the skybox pass.
	//
	// Parameters:
	//   - size: the edge length of one face in pixels
	//   - faces: the face images in +X, -X, +Y, -Y, +Z, -Z order
	//
	// Returns:
	//   - error: an error if texture or bind group creation fails
	SetSkybox(size uint32, faces [6]common.TextureStagingData) error

	// Release frees every GPU resource the graph owns.
	Release()
}

var _ Graph = &graph{}

// GraphOption configures a Graph during construction.
type GraphOption func(*graph)

// WithLogger sets the logger the graph reports skipped batches and frame
// errors through.
//
// Parameters:
//   - log: the logger to use
//
// Returns:
//   - GraphOption: the option function
func WithLogger(log *slog.Logger) GraphOption {
	return func(g *graph) {
		if log != nil {
			g.log = log
		}
	}
}

// NewGraph compiles every pipeline permutation, allocates the frame targets
// at the current surface size, and wires the passes together.
//
// Parameters:
//   - rnd: an initialized renderer
//   - options: a variadic list of GraphOption functions
//
// Returns:
//   - Graph: the constructed graph
//   - error: an error if any pipeline, target, or bind group creation fails
func NewGraph(rnd renderer.Renderer, options ...GraphOption) (Graph, error) {
	g := &graph{
		rnd:      rnd,
		log:      slog.Default(),
		compiler: shader.NewCompiler(),
		buffers:  newSceneBuffers(),
		ssao:     &ssaoPass{},
	}
	for _, opt := range options {
		opt(g)
	}

	width, height := rnd.SurfaceSize()
	t, err := newTargets(rnd, uint32(width), uint32(height))
	if err != nil {
		return nil, err
	}
	g.targets = t

	build := func() error {
		if g.gbuffer, err = newGBufferPass(rnd, g.compiler); err != nil {
			return err
		}
		if g.shadow, err = newShadowPass(rnd, g.compiler); err != nil {
			return err
		}
		if g.fill, err = newFillPass(rnd, g.compiler, g.targets); err != nil {
			return err
		}
		if err = g.shadow.initSampling(rnd, g.fill.shadowGroupDesc); err != nil {
			return err
		}
		if g.forward, err = newForwardPass(rnd, g.compiler); err != nil {
			return err
		}
		if g.blur, err = newBlurPass(rnd, g.compiler, g.targets); err != nil {
			return err
		}
		if g.skybox, err = newSkyboxPass(rnd, g.compiler); err != nil {
			return err
		}
		if g.post, err = newPostProcessPass(rnd, g.compiler, g.targets); err != nil {
			return err
		}
		if g.debug, err = newDebugPass(rnd, g.compiler); err != nil {
			return err
		}
		return nil
	}
	if err := build(); err != nil {
		g.Release()
		return nil, err
	}

	g.log.Info("render graph initialized",
		"width", width,
		"height", height,
		"surface_format", rnd.SurfaceFormat(),
	)
	return g, nil
}

func (g *graph) RenderFrame(frame settings.Frame, scn scene.Scene) error {
	cam := scn.Camera()
	if cam == nil {
		return ErrNoCamera
	}

	changed := scn.Batch()
	batcher := scn.Batcher()
	batches := batcher.Batches()

	if err := ensureMaterials(g.rnd, batcher.Atlas(), g.gbuffer.materialDescs); err != nil {
		return fmt.Errorf("ensure materials: %w", err)
	}
	if err := g.buffers.sync(g.rnd, batcher, changed); err != nil {
		return fmt.Errorf("sync scene buffers: %w", err)
	}

	camProvider, err := g.ensureCamera(cam)
	if err != nil {
		return err
	}

	useSSAO := frame.Pipeline == settings.PipelineDeferred && frame.SSAO.Enabled
	if useSSAO {
		if err := g.ssao.ensureVariant(g.rnd, g.compiler, g.targets, frame.SSAO); err != nil {
			return err
		}
		g.blur.ensureFilter(g.rnd, frame.SSAO.BlurFilterSize)
	}

	camGPU := cam.GPU()
	camData := camGPU.Marshal()
	writes := []bind_group_provider.BufferWrite{
		{Provider: camProvider, Binding: 0, Data: camData},
	}

	lights := scn.VisibleLights()
	if len(lights) > MaxSceneLights {
		g.log.Warn("scene exceeds light capacity, truncating",
			"lights", len(lights), "capacity", MaxSceneLights)
		lights = lights[:MaxSceneLights]
	}
	lightData := light.PackLights(lights)
	writes = append(writes,
		bind_group_provider.BufferWrite{Provider: g.fill.provider, Binding: fillBindingLights, Data: lightData},
		bind_group_provider.BufferWrite{Provider: g.forward.lightsProvider, Binding: fillBindingLights, Data: lightData},
	)

	if frame.Pipeline == settings.PipelineForward && frame.DepthPrepass {
		writes = append(writes, bind_group_provider.BufferWrite{
			Provider: g.forward.prepassCamera,
			Binding:  0,
			Data:     camData,
		})
	}

	shadowWrites, cascadeCount, err := g.shadow.prepare(scn.ShadowLight(), cam)
	if err != nil {
		return err
	}
	writes = append(writes, shadowWrites...)
	writes = append(writes, g.post.gradingWrite(frame.PostProcess))
	g.rnd.WriteBuffers(writes)

	if err := g.rnd.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	surface := g.rnd.SurfaceView()

	// Shadow geometry comes from the unculled batch list: casters outside
	// the camera frustum still darken what the camera sees.
	g.shadow.record(g.rnd, g.buffers, batcher.ShadowBatches(), cascadeCount)

	switch frame.Pipeline {
	case settings.PipelineForward:
		if frame.DepthPrepass {
			g.forward.recordPrepass(g.rnd, g.targets, g.buffers, batches)
		}
		g.forward.record(g.rnd, g.targets, g.buffers, batches, camProvider, g.shadow.samplingProvider, batcher.Atlas(), frame.DepthPrepass, g.log)
	default:
		g.gbuffer.record(g.rnd, g.targets, g.buffers, batches, camProvider, batcher.Atlas(), g.log)
		if useSSAO {
			g.ssao.record(g.rnd, g.targets, camProvider, g.log)
			g.blur.record(g.rnd, g.targets.width, g.targets.height, frame.SSAO.BlurIterations)
		} else {
			g.clearOcclusion()
		}
		g.fill.record(g.rnd, g.targets, camProvider, g.shadow.samplingProvider, g.log)
	}

	if frame.Skybox && g.skybox.enabled() {
		g.skybox.record(g.rnd, g.targets, camProvider, g.log)
	}

	if frame.Debug != settings.DebugNone {
		if err := g.debug.record(g.rnd, g.targets, surface, frame.Debug, g.log); err != nil {
			return err
		}
	} else {
		g.post.record(g.rnd, surface, g.log)
	}

	g.rnd.EndFrame()
	g.rnd.Present()
	return nil
}

// ensureCamera lazily creates the camera's bind group against the shared
// camera layout on first use.
func (g *graph) ensureCamera(cam camera.Camera) (bind_group_provider.BindGroupProvider, error) {
	provider := cam.BindGroupProvider()
	if provider == nil {
		provider = bind_group_provider.NewBindGroupProvider("camera")
		cam.SetBindGroupProvider(provider)
	}
	if provider.BindGroup() == nil {
		if err := g.rnd.InitBindGroup(provider, g.gbuffer.cameraDesc, nil, nil); err != nil {
			return nil, fmt.Errorf("init camera bind group: %w", err)
		}
	}
	return provider, nil
}

// clearOcclusion writes full visibility into the occlusion target so the
// lighting pass reads no darkening while SSAO is disabled.
func (g *graph) clearOcclusion() {
	g.rnd.BeginRenderPass("occlusion_clear", []renderer.ColorAttachment{{
		View:  g.targets.occlusionAView,
		Load:  wgpu.LoadOpClear,
		Clear: wgpu.Color{R: 1, G: 1, B: 1, A: 1},
	}}, nil)
	g.rnd.EndRenderPass()
}

func (g *graph) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	g.targets.release()
	t, err := newTargets(g.rnd, uint32(width), uint32(height))
	if err != nil {
		return fmt.Errorf("recreate targets: %w", err)
	}
	*g.targets = *t

	if err := g.fill.rebind(g.rnd, g.targets); err != nil {
		return err
	}
	if err := g.ssao.rebind(g.rnd, g.targets); err != nil {
		return err
	}
	if err := g.blur.rebind(g.rnd, g.targets); err != nil {
		return err
	}
	if err := g.post.rebind(g.rnd, g.targets); err != nil {
		return err
	}
	g.debug.invalidate()

	g.log.Info("render graph resized", "width", width, "height", height)
	return nil
}

func (g *graph) SetSkybox(size uint32, faces [6]common.TextureStagingData) error {
	return g.skybox.setSkybox(g.rnd, size, faces)
}

func (g *graph) Release() {
	if g.debug != nil {
		g.debug.release()
	}
	if g.post != nil {
		g.post.release()
	}
	if g.skybox != nil {
		g.skybox.release()
	}
	if g.blur != nil {
		g.blur.release()
	}
	if g.ssao != nil {
		g.ssao.release()
	}
	if g.forward != nil {
		g.forward.release()
	}
	if g.fill != nil {
		g.fill.release()
	}
	if g.shadow != nil {
		g.shadow.release()
	}
	if g.buffers != nil {
		g.buffers.release()
	}
	if g.targets != nil {
		g.targets.release()
	}
}
