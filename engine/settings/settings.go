// Package settings holds the user-configurable render settings the frame loop
// consumes once per frame. A UI or input handler mutates a Settings instance
// from its own goroutine; the renderer takes an immutable Snapshot at the top
// of each frame so mid-frame mutations never tear the pass configuration.
package settings

import "sync"

// PipelineKind selects which shading strategy drives the frame.
type PipelineKind int

const (
	// PipelineDeferred renders geometry into G-buffers and shades in a
	// full-screen fill pass.
	PipelineDeferred PipelineKind = iota

	// PipelineForward shades each draw call directly against the swapchain.
	PipelineForward
)

// String returns the human-readable name of the pipeline kind.
//
// Returns:
//   - string: "deferred", "forward", or "unknown"
func (k PipelineKind) String() string {
	switch k {
	case PipelineDeferred:
		return "deferred"
	case PipelineForward:
		return "forward"
	default:
		return "unknown"
	}
}

// DebugChannel selects which intermediate buffer the debug visualization pass
// blits to the swapchain instead of the composed frame.
type DebugChannel int

const (
	// DebugNone disables debug visualization.
	DebugNone DebugChannel = iota

	// DebugNormals shows the G-buffer world-space normals.
	DebugNormals

	// DebugDiffuse shows the G-buffer diffuse/albedo channel.
	DebugDiffuse

	// DebugSpecular shows the G-buffer specular channel.
	DebugSpecular

	// DebugDepth shows the linearized scene depth.
	DebugDepth

	// DebugAmbientOcclusion shows the blurred SSAO output.
	DebugAmbientOcclusion
)

// SSAO holds the screen-space ambient occlusion parameters.
type SSAO struct {
	// Enabled toggles the SSAO and blur passes.
	Enabled bool

	// SampleCount is the number of hemisphere kernel samples per pixel.
	SampleCount int

	// Radius is the sampling hemisphere radius in view-space units.
	Radius float32

	// BlurFilterSize is the half-width of the separable blur filter in texels.
	BlurFilterSize int

	// BlurIterations is the number of horizontal+vertical blur round trips.
	BlurIterations int
}

// PostProcess holds the color-grade parameters applied by the postprocess pass.
type PostProcess struct {
	// Enabled toggles the postprocess pass.
	Enabled bool

	// Brightness is an additive offset applied per channel.
	Brightness float32

	// Contrast scales the distance from mid-gray.
	Contrast float32

	// Saturation blends between luminance gray and the full-color value.
	Saturation float32

	// Gamma is the exponent applied after grading (0.45 approximates 1/2.2).
	Gamma float32
}

// Frame is an immutable per-frame snapshot of all render settings.
type Frame struct {
	Pipeline     PipelineKind
	DepthPrepass bool
	Skybox       bool
	SSAO         SSAO
	PostProcess  PostProcess
	Debug        DebugChannel
}

// settingsImpl is the implementation of the Settings interface.
type settingsImpl struct {
	mu    sync.Mutex
	frame Frame
}

// Settings is the mutable render configuration shared between the UI/input
// side and the frame loop. All mutators are safe for concurrent use; the
// renderer reads via Snapshot.
type Settings interface {
	// Snapshot returns a copy of the current settings for one frame's use.
	//
	// Returns:
	//   - Frame: the settings snapshot
	Snapshot() Frame

	// SetPipeline selects the shading strategy.
	//
	// Parameters:
	//   - kind: PipelineDeferred or PipelineForward
	SetPipeline(kind PipelineKind)

	// SetDepthPrepass toggles the forward-path depth prepass.
	//
	// Parameters:
	//   - enabled: true to run the prepass
	SetDepthPrepass(enabled bool)

	// SetSkybox toggles the skybox composite.
	//
	// Parameters:
	//   - enabled: true to draw the skybox
	SetSkybox(enabled bool)

	// SetSSAO replaces the SSAO parameters.
	//
	// Parameters:
	//   - s: the new SSAO parameters
	SetSSAO(s SSAO)

	// SetPostProcess replaces the postprocess parameters.
	//
	// Parameters:
	//   - p: the new postprocess parameters
	SetPostProcess(p PostProcess)

	// SetDebug selects the debug visualization channel.
	//
	// Parameters:
	//   - channel: the channel to visualize, DebugNone to disable
	SetDebug(channel DebugChannel)
}

var _ Settings = &settingsImpl{}

// NewSettings creates a Settings instance with the engine defaults: deferred
// pipeline, skybox and postprocess on, SSAO enabled with a 64-sample kernel at
// radius 0.5 and a single 4-texel blur iteration, and no debug visualization.
//
// Parameters:
//   - options: functional options to override defaults
//
// Returns:
//   - Settings: the newly created settings
func NewSettings(options ...SettingsOption) Settings {
	s := &settingsImpl{
		frame: Frame{
			Pipeline:     PipelineDeferred,
			DepthPrepass: true,
			Skybox:       true,
			SSAO: SSAO{
				Enabled:        true,
				SampleCount:    64,
				Radius:         0.5,
				BlurFilterSize: 4,
				BlurIterations: 1,
			},
			PostProcess: PostProcess{
				Enabled:    true,
				Brightness: 0,
				Contrast:   1,
				Saturation: 1,
				Gamma:      0.45,
			},
			Debug: DebugNone,
		},
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *settingsImpl) Snapshot() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

func (s *settingsImpl) SetPipeline(kind PipelineKind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Pipeline = kind
}

func (s *settingsImpl) SetDepthPrepass(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.DepthPrepass = enabled
}

func (s *settingsImpl) SetSkybox(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Skybox = enabled
}

func (s *settingsImpl) SetSSAO(ssao SSAO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.SSAO = ssao
}

func (s *settingsImpl) SetPostProcess(p PostProcess) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.PostProcess = p
}

func (s *settingsImpl) SetDebug(channel DebugChannel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame.Debug = channel
}
