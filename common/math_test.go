package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const matrixEpsilon = 1e-4

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = 7
	}
	Identity(m)
	for i, v := range m {
		if i%5 == 0 {
			assert.Equal(t, float32(1), v, "diagonal element %d", i)
		} else {
			assert.Equal(t, float32(0), v, "off-diagonal element %d", i)
		}
	}
}

func TestMul4Identity(t *testing.T) {
	var id [16]float32
	Identity(id[:])

	var m [16]float32
	BuildModelMatrix(m[:], 1, 2, 3, 0.4, 0.5, 0.6, 2, 1, 0.5)

	var out [16]float32
	Mul4(out[:], id[:], m[:])
	assert.Equal(t, m, out)

	Mul4(out[:], m[:], id[:])
	assert.Equal(t, m, out)
}

func TestMul4AliasesOutput(t *testing.T) {
	var a, b [16]float32
	BuildModelMatrix(a[:], 1, 0, 0, 0, 0, 0, 1, 1, 1)
	BuildModelMatrix(b[:], 0, 2, 0, 0, 0, 0, 1, 1, 1)

	var want [16]float32
	Mul4(want[:], a[:], b[:])

	// out may alias a; the buffered multiply must still be correct.
	Mul4(a[:], a[:], b[:])
	assert.Equal(t, want, a)
}

func TestPerspectiveDepthRange(t *testing.T) {
	var proj [16]float32
	Perspective(proj[:], float32(math.Pi/3), 16.0/9.0, 0.1, 100)

	nearPt := TransformPoint4(proj[:], 0, 0, -0.1, 1)
	assert.InDelta(t, 0, nearPt[2]/nearPt[3], matrixEpsilon, "near plane maps to depth 0")

	farPt := TransformPoint4(proj[:], 0, 0, -100, 1)
	assert.InDelta(t, 1, farPt[2]/farPt[3], matrixEpsilon, "far plane maps to depth 1")

	assert.Equal(t, float32(-1), proj[11], "w receives -z")
}

func TestOrthoMapsBoxToClipSpace(t *testing.T) {
	var proj [16]float32
	Ortho(proj[:], -10, 10, -5, 5, 1, 101)

	min := TransformPoint4(proj[:], -10, -5, -1, 1)
	assert.InDelta(t, -1, min[0], matrixEpsilon)
	assert.InDelta(t, -1, min[1], matrixEpsilon)
	assert.InDelta(t, 0, min[2], matrixEpsilon)

	max := TransformPoint4(proj[:], 10, 5, -101, 1)
	assert.InDelta(t, 1, max[0], matrixEpsilon)
	assert.InDelta(t, 1, max[1], matrixEpsilon)
	assert.InDelta(t, 1, max[2], matrixEpsilon)
}

func TestTranspose4(t *testing.T) {
	m := []float32{
		0, 1, 2, 3,
		4, 5, 6, 7,
		8, 9, 10, 11,
		12, 13, 14, 15,
	}
	out := make([]float32, 16)
	Transpose4(out, m)
	assert.Equal(t, float32(4), out[1])
	assert.Equal(t, float32(1), out[4])
	assert.Equal(t, float32(12), out[3])

	// Transposing in place must not corrupt the result.
	Transpose4(m, m)
	assert.Equal(t, out, m)
}

func TestInvert4RoundTrip(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 3, -2, 5, 0.3, 1.1, -0.7, 2, 0.5, 1.5)

	var inv [16]float32
	require.True(t, Invert4(inv[:], m[:]))

	var out [16]float32
	Mul4(out[:], m[:], inv[:])
	for i, v := range out {
		want := float32(0)
		if i%5 == 0 {
			want = 1
		}
		assert.InDelta(t, want, v, matrixEpsilon, "element %d", i)
	}
}

func TestInvert4Singular(t *testing.T) {
	var m [16]float32 // all zeros, det = 0
	out := []float32{9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9}
	assert.False(t, Invert4(out, m[:]))
	assert.Equal(t, float32(9), out[0], "output untouched on failure")
}

func TestLookAt(t *testing.T) {
	var view [16]float32
	LookAt(view[:], 0, 0, 10, 0, 0, 0, 0, 1, 0)

	eye := TransformPoint4(view[:], 0, 0, 10, 1)
	assert.InDelta(t, 0, eye[0], matrixEpsilon)
	assert.InDelta(t, 0, eye[1], matrixEpsilon)
	assert.InDelta(t, 0, eye[2], matrixEpsilon, "eye maps to the view-space origin")

	center := TransformPoint4(view[:], 0, 0, 0, 1)
	assert.InDelta(t, -10, center[2], matrixEpsilon, "target lies down -Z")
}

func TestBuildModelMatrixTranslationAndScale(t *testing.T) {
	var m [16]float32
	BuildModelMatrix(m[:], 5, 6, 7, 0, 0, 0, 2, 3, 4)

	p := TransformPoint4(m[:], 1, 1, 1, 1)
	assert.InDelta(t, 7, p[0], matrixEpsilon)
	assert.InDelta(t, 9, p[1], matrixEpsilon)
	assert.InDelta(t, 11, p[2], matrixEpsilon)
}

func TestVectorOps(t *testing.T) {
	n := Normalize3([3]float32{3, 0, 4})
	assert.InDelta(t, 0.6, n[0], matrixEpsilon)
	assert.InDelta(t, 0.8, n[2], matrixEpsilon)

	zero := Normalize3([3]float32{})
	assert.Equal(t, [3]float32{}, zero, "zero vector left unchanged")

	cross := Cross3([3]float32{1, 0, 0}, [3]float32{0, 1, 0})
	assert.Equal(t, [3]float32{0, 0, 1}, cross)

	assert.Equal(t, float32(0), Dot3([3]float32{1, 0, 0}, [3]float32{0, 1, 0}))
	assert.Equal(t, float32(2), Dot3([3]float32{1, 1, 0}, [3]float32{1, 1, 0}))
}

func TestSliceToBytes(t *testing.T) {
	assert.Nil(t, SliceToBytes([]float32(nil)))

	data := []float32{1, 2, 3}
	b := SliceToBytes(data)
	require.Len(t, b, 12)

	type pair struct{ A, B uint32 }
	pb := SliceToBytes([]pair{{1, 2}})
	assert.Len(t, pb, 8)
}

func TestStructToBytes(t *testing.T) {
	type header struct {
		A, B, C, D uint32
	}
	h := header{A: 1}
	b := StructToBytes(&h)
	require.Len(t, b, 16)
	assert.Equal(t, byte(1), b[0])
}
