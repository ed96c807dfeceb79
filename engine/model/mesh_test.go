package model

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMeshRequiresPositions(t *testing.T) {
	_, err := NewMesh("empty")
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestNewMeshLayoutSelection(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {0, 1}}

	pn, err := NewMesh("pn", WithPositions(positions))
	require.NoError(t, err)
	assert.Equal(t, VertexArrayTypePN, pn.ArrayType())
	assert.Len(t, pn.VertexData(), 3*24)

	pnuv, err := NewMesh("pnuv", WithPositions(positions), WithTexCoords(uvs))
	require.NoError(t, err)
	assert.Equal(t, VertexArrayTypePNUV, pnuv.ArrayType())
	assert.Len(t, pnuv.VertexData(), 3*32)

	pntbuv, err := NewMesh("pntbuv", WithPositions(positions), WithTexCoords(uvs), WithTangentBasis())
	require.NoError(t, err)
	assert.Equal(t, VertexArrayTypePNTBUV, pntbuv.ArrayType())
	assert.Len(t, pntbuv.VertexData(), 3*56)
}

func TestNewMeshAttributeMismatch(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}

	_, err := NewMesh("bad-uv", WithPositions(positions), WithTexCoords([][2]float32{{0, 0}}))
	assert.Error(t, err)

	_, err = NewMesh("bad-normal", WithPositions(positions), WithNormals([][3]float32{{0, 1, 0}}))
	assert.Error(t, err)

	// A tangent basis cannot be built without texture coordinates.
	_, err = NewMesh("bad-tangent", WithPositions(positions), WithTangentBasis())
	assert.Error(t, err)
}

func TestNewMeshGeneratesFlatNormals(t *testing.T) {
	// A single CCW triangle in the XY plane faces +Z.
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	m, err := NewMesh("tri", WithPositions(positions))
	require.NoError(t, err)

	data := m.VertexData()
	nz := math.Float32frombits(binary.LittleEndian.Uint32(data[20:24]))
	assert.InDelta(t, 1, nz, 1e-5, "generated normal faces +Z")
}

func TestMeshIndexed(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	indexed, err := NewMesh("indexed", WithPositions(positions), WithIndices([]uint32{0, 1, 2}))
	require.NoError(t, err)
	assert.True(t, indexed.Indexed())
	assert.Equal(t, []uint32{0, 1, 2}, indexed.Indices())

	plain, err := NewMesh("plain", WithPositions(positions))
	require.NoError(t, err)
	assert.False(t, plain.Indexed())
	assert.Nil(t, plain.Indices())
}

func TestComputeBoundingRadius(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {3, 0, 4}, {1, 1, 1}}
	assert.InDelta(t, 5, ComputeBoundingRadius(positions), 1e-5)
	assert.Equal(t, float32(0), ComputeBoundingRadius(nil))
}

func TestVertexArrayType(t *testing.T) {
	assert.Equal(t, "pn", VertexArrayTypePN.String())
	assert.Equal(t, "pnuv", VertexArrayTypePNUV.String())
	assert.Equal(t, "pntbuv", VertexArrayTypePNTBUV.String())

	assert.Equal(t, 24, VertexArrayTypePN.Stride())
	assert.Equal(t, 32, VertexArrayTypePNUV.Stride())
	assert.Equal(t, 56, VertexArrayTypePNTBUV.Stride())

	assert.Equal(t, 2, VertexArrayTypePN.SlotCount())
	assert.Equal(t, 3, VertexArrayTypePNUV.SlotCount())
	assert.Equal(t, 5, VertexArrayTypePNTBUV.SlotCount())
}

func TestGPUInstanceMarshal(t *testing.T) {
	g := GPUInstance{}
	g.Model[12] = 7
	g.Normal[0] = 2
	require.Equal(t, GPUInstanceSize, g.Size())

	buf := g.Marshal()
	require.Len(t, buf, GPUInstanceSize)
	assert.Equal(t, float32(7), math.Float32frombits(binary.LittleEndian.Uint32(buf[48:])))
	assert.Equal(t, float32(2), math.Float32frombits(binary.LittleEndian.Uint32(buf[64:])))

	into := make([]byte, 16+GPUInstanceSize)
	g.MarshalInto(into, 16)
	assert.Equal(t, buf, into[16:])
}

func TestFlatNormalsAveragesSharedVertices(t *testing.T) {
	// Two triangles sharing the edge (1,2): one facing +Z, one facing +X,
	// folded along the Y axis.
	positions := [][3]float32{
		{1, 0, 0},
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, -1},
	}
	indices := []uint32{0, 2, 1, 1, 3, 2}
	normals := FlatNormals(positions, indices)

	assert.InDelta(t, 1, normals[0][2], 1e-5, "unshared vertex keeps its face normal")
	assert.InDelta(t, 1, normals[3][0], 1e-5)

	// Shared vertices average the two face normals.
	inv := float32(1 / math.Sqrt2)
	assert.InDelta(t, inv, normals[1][0], 1e-5)
	assert.InDelta(t, inv, normals[1][2], 1e-5)
}

func TestTangentBasisFollowsUVGradient(t *testing.T) {
	// A quad in the XY plane with U increasing along +X and V along +Y.
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	normals := [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	uvs := [][2]float32{{0, 0}, {1, 0}, {0, 1}}

	tangents, bitangents := TangentBasis(positions, normals, uvs, nil)
	for i := range tangents {
		assert.InDelta(t, 1, tangents[i][0], 1e-5, "tangent %d follows +U", i)
		assert.InDelta(t, 1, bitangents[i][1], 1e-5, "bitangent %d follows +V", i)
	}
}

func TestTangentBasisSkipsDegenerateUVs(t *testing.T) {
	positions := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	normals := [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}}
	uvs := [][2]float32{{0, 0}, {0, 0}, {0, 0}}

	tangents, bitangents := TangentBasis(positions, normals, uvs, nil)
	assert.Equal(t, [3]float32{}, tangents[0])
	assert.Equal(t, [3]float32{}, bitangents[0])
}

func TestNewPlane(t *testing.T) {
	p := NewPlane("ground")
	assert.Equal(t, VertexArrayTypePNUV, p.ArrayType())
	assert.Equal(t, 4, p.VertexCount())
	assert.Len(t, p.Indices(), 6)
	assert.InDelta(t, math.Sqrt(0.5), p.BoundingRadius(), 1e-5)
}

func TestNewCube(t *testing.T) {
	c := NewCube("box")
	assert.Equal(t, VertexArrayTypePN, c.ArrayType())
	assert.Equal(t, 8, c.VertexCount())
	assert.Len(t, c.Indices(), 36)
	assert.InDelta(t, math.Sqrt(0.75), c.BoundingRadius(), 1e-5)
}
