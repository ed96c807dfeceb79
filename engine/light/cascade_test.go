package light

import (
	"testing"

	"github.com/kiln3d/kiln/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCameraMatrices() (view, proj [16]float32) {
	common.LookAt(view[:], 0, 3, 8, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj[:], 1.0, 16.0/9.0, 0.1, 60)
	return view, proj
}

func TestComputeCascadesRequiresDirectional(t *testing.T) {
	view, proj := testCameraMatrices()
	_, err := ComputeCascades(NewLight(LightTypePoint), view[:], proj[:], 0.1, 60, DefaultCascadeSplits, 2048)
	assert.ErrorIs(t, err, ErrShadowRequiresDirectional)
}

func TestComputeCascadesSplitCountBounds(t *testing.T) {
	view, proj := testCameraMatrices()
	sun := NewLight(LightTypeDirectional, WithDirection(-0.3, -1, -0.2))

	_, err := ComputeCascades(sun, view[:], proj[:], 0.1, 60, nil, 2048)
	assert.Error(t, err)

	_, err = ComputeCascades(sun, view[:], proj[:], 0.1, 60, []float32{0.1, 0.2, 0.3, 0.4, 0.5}, 2048)
	assert.Error(t, err)
}

func TestComputeCascadesFarDistances(t *testing.T) {
	view, proj := testCameraMatrices()
	sun := NewLight(LightTypeDirectional, WithDirection(-0.3, -1, -0.2))

	cascades, err := ComputeCascades(sun, view[:], proj[:], 0.1, 60, DefaultCascadeSplits, 2048)
	require.NoError(t, err)
	require.Len(t, cascades, len(DefaultCascadeSplits))

	for i, c := range cascades {
		want := 0.1 + DefaultCascadeSplits[i]*(60-0.1)
		assert.InDelta(t, want, c.Far, 1e-3, "cascade %d far boundary", i)
		if i > 0 {
			assert.Greater(t, c.Far, cascades[i-1].Far)
		}
	}
	assert.InDelta(t, 60, cascades[len(cascades)-1].Far, 1e-3, "last cascade reaches the camera far plane")
}

func TestComputeCascadesCoversCameraFrustum(t *testing.T) {
	view, proj := testCameraMatrices()
	sun := NewLight(LightTypeDirectional, WithDirection(0, -1, -0.3))

	cascades, err := ComputeCascades(sun, view[:], proj[:], 0.1, 60, []float32{1.0}, 2048)
	require.NoError(t, err)
	require.Len(t, cascades, 1)

	// A single full-range cascade must contain the whole camera frustum: every
	// frustum corner lands inside the cascade's light clip volume.
	corners, err := frustumCornersWorld(view[:], proj[:])
	require.NoError(t, err)
	for i, p := range corners {
		clip := common.TransformPoint4(cascades[0].ViewProj[:], p[0], p[1], p[2], 1)
		// Orthographic projection, so w stays 1 and no divide is needed.
		assert.InDelta(t, 1, clip[3], 1e-4)
		assert.LessOrEqual(t, clip[0], float32(1.01), "corner %d x", i)
		assert.GreaterOrEqual(t, clip[0], float32(-1.01), "corner %d x", i)
		assert.LessOrEqual(t, clip[1], float32(1.01), "corner %d y", i)
		assert.GreaterOrEqual(t, clip[1], float32(-1.01), "corner %d y", i)
		assert.LessOrEqual(t, clip[2], float32(1.01), "corner %d z", i)
		assert.GreaterOrEqual(t, clip[2], float32(-0.01), "corner %d z", i)
	}
}

func TestComputeCascadesDeterministic(t *testing.T) {
	view, proj := testCameraMatrices()
	sun := NewLight(LightTypeDirectional, WithDirection(-0.5, -1, 0.2))

	a, err := ComputeCascades(sun, view[:], proj[:], 0.1, 60, DefaultCascadeSplits, 2048)
	require.NoError(t, err)
	b, err := ComputeCascades(sun, view[:], proj[:], 0.1, 60, DefaultCascadeSplits, 2048)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestUpForDirectionAvoidsParallel(t *testing.T) {
	assert.Equal(t, [3]float32{0, 0, 1}, upForDirection([3]float32{0, -1, 0}))
	assert.Equal(t, [3]float32{0, 1, 0}, upForDirection([3]float32{0.5, -0.5, 0}))
}

func TestCullLights(t *testing.T) {
	var view, proj, viewProj [16]float32
	common.LookAt(view[:], 0, 0, 10, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj[:], 1.0, 1, 0.1, 100)
	common.Mul4(viewProj[:], proj[:], view[:])
	f := common.ExtractFrustumFromMatrix(viewProj[:])

	visible := NewLight(LightTypePoint, WithPosition(0, 0, 0), WithRange(5))
	behind := NewLight(LightTypePoint, WithPosition(0, 0, 50), WithRange(5))
	disabled := NewLight(LightTypePoint, WithPosition(0, 0, 0), WithRange(5), WithEnabled(false))
	sun := NewLight(LightTypeDirectional)

	out := CullLights(f, []Light{visible, behind, disabled, sun})
	require.Len(t, out, 2)
	assert.Same(t, visible, out[0])
	assert.Same(t, sun, out[1], "directional lights always survive")
}
