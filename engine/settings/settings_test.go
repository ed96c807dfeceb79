package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSettingsDefaults(t *testing.T) {
	f := NewSettings().Snapshot()
	assert.Equal(t, PipelineDeferred, f.Pipeline)
	assert.True(t, f.DepthPrepass)
	assert.True(t, f.Skybox)
	assert.Equal(t, DebugNone, f.Debug)

	assert.True(t, f.SSAO.Enabled)
	assert.Equal(t, 64, f.SSAO.SampleCount)
	assert.Equal(t, float32(0.5), f.SSAO.Radius)
	assert.Equal(t, 4, f.SSAO.BlurFilterSize)
	assert.Equal(t, 1, f.SSAO.BlurIterations)

	assert.True(t, f.PostProcess.Enabled)
	assert.Equal(t, float32(0), f.PostProcess.Brightness)
	assert.Equal(t, float32(1), f.PostProcess.Contrast)
	assert.Equal(t, float32(1), f.PostProcess.Saturation)
	assert.Equal(t, float32(0.45), f.PostProcess.Gamma)
}

func TestSettingsOptions(t *testing.T) {
	f := NewSettings(
		WithPipeline(PipelineForward),
		WithDepthPrepass(false),
		WithSkybox(false),
		WithDebug(DebugNormals),
	).Snapshot()
	assert.Equal(t, PipelineForward, f.Pipeline)
	assert.False(t, f.DepthPrepass)
	assert.False(t, f.Skybox)
	assert.Equal(t, DebugNormals, f.Debug)
}

func TestSettingsMutators(t *testing.T) {
	s := NewSettings()
	s.SetPipeline(PipelineForward)
	s.SetDepthPrepass(false)
	s.SetSkybox(false)
	s.SetSSAO(SSAO{Enabled: false, SampleCount: 16})
	s.SetPostProcess(PostProcess{Enabled: false, Gamma: 1})
	s.SetDebug(DebugDepth)

	f := s.Snapshot()
	assert.Equal(t, PipelineForward, f.Pipeline)
	assert.False(t, f.DepthPrepass)
	assert.False(t, f.Skybox)
	assert.False(t, f.SSAO.Enabled)
	assert.Equal(t, 16, f.SSAO.SampleCount)
	assert.Equal(t, float32(1), f.PostProcess.Gamma)
	assert.Equal(t, DebugDepth, f.Debug)
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewSettings()
	before := s.Snapshot()
	s.SetDebug(DebugSpecular)
	assert.Equal(t, DebugNone, before.Debug, "a snapshot never sees later mutations")
	assert.Equal(t, DebugSpecular, s.Snapshot().Debug)
}

func TestPipelineKindString(t *testing.T) {
	assert.Equal(t, "deferred", PipelineDeferred.String())
	assert.Equal(t, "forward", PipelineForward.String())
	assert.Equal(t, "unknown", PipelineKind(99).String())
}
