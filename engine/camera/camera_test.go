package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()
	assert.InDelta(t, 45.0*math.Pi/180.0, c.Fov(), 1e-6)
	assert.Equal(t, float32(1), c.Aspect())
	assert.Equal(t, float32(0.1), c.Near())
	assert.Equal(t, float32(100), c.Far())
	assert.Nil(t, c.Controller())
	assert.NotNil(t, c.BindGroupProvider())
}

func TestCameraUpdateBuildsMatrices(t *testing.T) {
	c := NewCamera(
		WithAspect(16.0/9.0),
		WithController(NewCameraController(
			WithPosition(0, 0, 10),
			WithLookAt(0, 0, 0),
		)),
	)
	c.Update()

	// The eye maps to the view-space origin.
	view := c.ViewMatrix()
	eye := transformPoint(view, 0, 0, 10)
	assert.InDelta(t, 0, eye[0], 1e-4)
	assert.InDelta(t, 0, eye[1], 1e-4)
	assert.InDelta(t, 0, eye[2], 1e-4)

	// Inverse view undoes the view transform.
	inv := c.InverseViewMatrix()
	back := transformPoint(inv, eye[0], eye[1], eye[2])
	assert.InDelta(t, 0, back[0], 1e-3)
	assert.InDelta(t, 0, back[1], 1e-3)
	assert.InDelta(t, 10, back[2], 1e-3)
}

func TestCameraFrustumCullsBehind(t *testing.T) {
	c := NewCamera(WithController(NewCameraController(
		WithPosition(0, 0, 10),
		WithLookAt(0, 0, 0),
	)))
	c.Update()

	f := c.Frustum()
	assert.True(t, f.IntersectsSphere([3]float32{0, 0, 0}, 1), "target is visible")
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, 30}, 1), "behind the camera")
}

func TestGPUCameraUniformSizeAndMarshal(t *testing.T) {
	var g GPUCameraUniform
	require.Equal(t, 336, g.Size())

	g.ViewProj[0] = 2.5
	g.CameraPosition = [4]float32{1, 2, 3, 1}

	buf := g.Marshal()
	require.Len(t, buf, 336)
	assert.Equal(t, float32(2.5), math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(buf[320:])))
	assert.Equal(t, float32(3), math.Float32frombits(binary.LittleEndian.Uint32(buf[328:])))
}

func TestCameraGPUIncludesControllerPosition(t *testing.T) {
	c := NewCamera(WithController(NewCameraController(
		WithPosition(4, 5, 6),
	)))
	c.Update()

	g := c.GPU()
	assert.Equal(t, [4]float32{4, 5, 6, 1}, g.CameraPosition)
	assert.Equal(t, c.ViewProjectionMatrix(), g.ViewProj)
}

// transformPoint applies a column-major 4x4 matrix to a point with w = 1.
func transformPoint(m [16]float32, x, y, z float32) [3]float32 {
	return [3]float32{
		m[0]*x + m[4]*y + m[8]*z + m[12],
		m[1]*x + m[5]*y + m[9]*z + m[13],
		m[2]*x + m[6]*y + m[10]*z + m[14],
	}
}
