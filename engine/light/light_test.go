package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight(LightTypePoint)
	assert.Equal(t, LightTypePoint, l.Type())
	assert.True(t, l.Enabled())
	assert.False(t, l.CastsShadows())
	assert.Equal(t, [3]float32{1, 0.09, 0.032}, l.Attenuation())
	assert.Equal(t, float32(50), l.Range())
	assert.InDelta(t, math.Cos(25*math.Pi/180), l.SpotAngle(), 1e-3)
}

func TestSetDirectionNormalizes(t *testing.T) {
	l := NewLight(LightTypeDirectional)
	l.SetDirection(0, -3, 0)
	assert.Equal(t, [3]float32{0, -1, 0}, l.Direction())
}

func TestSetSpotAngleStoresCosine(t *testing.T) {
	l := NewLight(LightTypeSpot)
	l.SetSpotAngle(60)
	assert.InDelta(t, 0.5, l.SpotAngle(), 1e-4)
}

func TestFromLightPacksAttenuationInW(t *testing.T) {
	point := NewLight(LightTypePoint,
		WithPosition(1, 2, 3),
		WithAmbient(0.1, 0.2, 0.3),
		WithDiffuse(0.4, 0.5, 0.6),
		WithSpecular(0.7, 0.8, 0.9),
		WithAttenuation(1, 0.5, 0.25),
	)
	g := FromLight(point)
	assert.Equal(t, [4]float32{1, 2, 3, 0}, g.Position)
	assert.Equal(t, float32(1), g.Ambient[3], "k_c rides in ambient w")
	assert.Equal(t, float32(0.5), g.Diffuse[3], "k_l rides in diffuse w")
	assert.Equal(t, float32(0.25), g.Specular[3], "k_q rides in specular w")
}

func TestFromLightDirectionalHasNoAttenuation(t *testing.T) {
	sun := NewLight(LightTypeDirectional, WithDirection(0, -1, 0))
	g := FromLight(sun)
	assert.Equal(t, [4]float32{0, -1, 0, 0}, g.Direction)
	assert.Equal(t, float32(0), g.Ambient[3])
	assert.Equal(t, float32(0), g.Diffuse[3])
	assert.Equal(t, float32(0), g.Specular[3])
}

func TestFromLightSpotCarriesConeCosine(t *testing.T) {
	spot := NewLight(LightTypeSpot,
		WithPosition(0, 5, 0),
		WithDirection(0, -1, 0),
		WithSpotAngle(60),
	)
	g := FromLight(spot)
	assert.InDelta(t, 0.5, g.Position[3], 1e-4, "cone cosine rides in position w")
	assert.Equal(t, float32(-1), g.Direction[1])
}

func TestGPUPhongLightSize(t *testing.T) {
	var g GPUPhongLight
	assert.Equal(t, 80, g.Size())
	assert.Len(t, g.Marshal(), 80)
}

func TestPackLightsHeaderAndOrdering(t *testing.T) {
	lights := []Light{
		NewLight(LightTypeSpot, WithPosition(9, 9, 9)),
		NewLight(LightTypePoint, WithPosition(5, 0, 0)),
		NewLight(LightTypeDirectional),
		NewLight(LightTypePoint, WithPosition(7, 0, 0)),
	}
	buf := PackLights(lights)
	require.Len(t, buf, LightHeaderSize+4*80)

	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[0:4]), "directional count")
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(buf[4:8]), "point count")
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[8:12]), "spot count")
	assert.Equal(t, uint32(4), binary.LittleEndian.Uint32(buf[12:16]), "total count")

	// Lights are grouped by type: directional first, then points in input
	// order, then spots. The first point light sits right after the
	// directional entry; its position x is 5.
	pointX := math.Float32frombits(binary.LittleEndian.Uint32(buf[LightHeaderSize+80:]))
	assert.Equal(t, float32(5), pointX)
	spotX := math.Float32frombits(binary.LittleEndian.Uint32(buf[LightHeaderSize+3*80:]))
	assert.Equal(t, float32(9), spotX)
}

func TestPackLightsSkipsDisabled(t *testing.T) {
	lights := []Light{
		NewLight(LightTypePoint),
		NewLight(LightTypePoint, WithEnabled(false)),
	}
	buf := PackLights(lights)
	require.Len(t, buf, LightHeaderSize+80)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[12:16]))
}

func TestPackLightsEmpty(t *testing.T) {
	buf := PackLights(nil)
	require.Len(t, buf, LightHeaderSize)
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[12:16]))
}

func TestGPUShadowUniformSizeAndMarshal(t *testing.T) {
	g := GPUShadowUniform{CascadeCount: 3, MapSize: 2048}
	require.Equal(t, 288, g.Size())
	g.Cascades[1][0] = 1.5
	g.FarDistances = [4]float32{10, 25, 60, 0}

	buf := g.Marshal()
	require.Len(t, buf, 288)
	assert.Equal(t, float32(1.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[64:])))
	assert.Equal(t, float32(25), math.Float32frombits(binary.LittleEndian.Uint32(buf[260:])))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf[272:276]))
	assert.Equal(t, float32(2048), math.Float32frombits(binary.LittleEndian.Uint32(buf[276:280])))
}

func TestShadowUniformPacksCascades(t *testing.T) {
	cascades := []Cascade{
		{Far: 12},
		{Far: 48},
	}
	cascades[0].ViewProj[0] = 2
	g := ShadowUniform(cascades, 1024)
	assert.Equal(t, uint32(2), g.CascadeCount)
	assert.Equal(t, float32(1024), g.MapSize)
	assert.Equal(t, float32(2), g.Cascades[0][0])
	assert.Equal(t, float32(12), g.FarDistances[0])
	assert.Equal(t, float32(48), g.FarDistances[1])
}
