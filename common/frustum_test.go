package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testFrustum builds a frustum for a camera at the origin looking down -Z
// with a 90 degree vertical field of view and a square aspect.
func testFrustum() Frustum {
	var proj, view, viewProj [16]float32
	Perspective(proj[:], float32(math.Pi/2), 1, 0.1, 100)
	LookAt(view[:], 0, 0, 0, 0, 0, -1, 0, 1, 0)
	Mul4(viewProj[:], proj[:], view[:])
	return ExtractFrustumFromMatrix(viewProj[:])
}

func TestExtractFrustumNormalizesPlanes(t *testing.T) {
	f := testFrustum()
	for i, p := range f.Planes {
		length := math.Sqrt(float64(
			p.Normal[0]*p.Normal[0] + p.Normal[1]*p.Normal[1] + p.Normal[2]*p.Normal[2],
		))
		assert.InDelta(t, 1, length, 1e-4, "plane %d normal length", i)
	}
}

func TestIntersectsSphereInside(t *testing.T) {
	f := testFrustum()
	assert.True(t, f.IntersectsSphere([3]float32{0, 0, -10}, 1))
	assert.True(t, f.IntersectsSphere([3]float32{0, 0, -99}, 1), "touching the far plane")
}

func TestIntersectsSphereOutside(t *testing.T) {
	f := testFrustum()
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, 10}, 1), "behind the camera")
	assert.False(t, f.IntersectsSphere([3]float32{0, 0, -200}, 1), "beyond the far plane")
	// At z = -10 with a 90 degree fov the frustum half-width is 10.
	assert.False(t, f.IntersectsSphere([3]float32{50, 0, -10}, 1), "far off to the side")
}

func TestIntersectsSphereStraddlingPlane(t *testing.T) {
	f := testFrustum()
	// Center just outside the right plane but the radius overlaps it.
	assert.True(t, f.IntersectsSphere([3]float32{10.5, 0, -10}, 2))
}
