package settings

// SettingsOption is a functional option used to configure Settings during construction.
type SettingsOption func(*settingsImpl)

// WithPipeline selects the initial shading strategy.
//
// Parameters:
//   - kind: PipelineDeferred or PipelineForward
//
// Returns:
//   - SettingsOption: a function that sets the pipeline kind
func WithPipeline(kind PipelineKind) SettingsOption {
	return func(s *settingsImpl) {
		s.frame.Pipeline = kind
	}
}

// WithDepthPrepass toggles the forward-path depth prepass.
//
// Parameters:
//   - enabled: true to run the prepass
//
// Returns:
//   - SettingsOption: a function that sets the depth prepass flag
func WithDepthPrepass(enabled bool) SettingsOption {
	return func(s *settingsImpl) {
		s.frame.DepthPrepass = enabled
	}
}

// WithSkybox toggles the skybox composite.
//
// Parameters:
//   - enabled: true to draw the skybox
//
// Returns:
//   - SettingsOption: a function that sets the skybox flag
func WithSkybox(enabled bool) SettingsOption {
	return func(s *settingsImpl) {
		s.frame.Skybox = enabled
	}
}

// WithSSAO replaces the initial SSAO parameters.
//
// Parameters:
//   - ssao: the SSAO parameters
//
// Returns:
//   - SettingsOption: a function that sets the SSAO parameters
func WithSSAO(ssao SSAO) SettingsOption {
	return func(s *settingsImpl) {
		s.frame.SSAO = ssao
	}
}

// WithPostProcess replaces the initial postprocess parameters.
//
// Parameters:
//   - p: the postprocess parameters
//
// Returns:
//   - SettingsOption: a function that sets the postprocess parameters
func WithPostProcess(p PostProcess) SettingsOption {
	return func(s *settingsImpl) {
		s.frame.PostProcess = p
	}
}

// WithDebug selects the initial debug visualization channel.
//
// Parameters:
//   - channel: the channel to visualize, DebugNone to disable
//
// Returns:
//   - SettingsOption: a function that sets the debug channel
func WithDebug(channel DebugChannel) SettingsOption {
	return func(s *settingsImpl) {
		s.frame.Debug = channel
	}
}
