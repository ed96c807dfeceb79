package model

import (
	"errors"

	"github.com/chewxy/math32"
)

// ErrNoGeometry is returned by NewMesh when no vertex positions were provided.
var ErrNoGeometry = errors.New("mesh geometry not provided")

// mesh is the implementation of the Mesh interface.
type mesh struct {
	name           string
	arrayType      VertexArrayType
	vertexData     []byte
	vertexCount    int
	indices        []uint32
	boundingRadius float32
}

// Mesh defines the interface for an immutable, GPU-ready mesh. A Mesh holds its
// vertex data pre-marshaled for the vertex bank matching its VertexArrayType,
// plus optional u32 indices. It is produced by NewMesh from raw attribute slices.
type Mesh interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// ArrayType retrieves the vertex attribute layout of this mesh.
	//
	// Returns:
	//   - VertexArrayType: the vertex array type
	ArrayType() VertexArrayType

	// Indexed reports whether this mesh carries an index buffer.
	//
	// Returns:
	//   - bool: true if the mesh is indexed
	Indexed() bool

	// VertexData retrieves the marshaled vertex bytes, laid out per ArrayType.
	//
	// Returns:
	//   - []byte: the vertex data
	VertexData() []byte

	// VertexCount retrieves the number of vertices in the mesh.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// Indices retrieves the triangle indices, or nil for non-indexed meshes.
	//
	// Returns:
	//   - []uint32: the index data
	Indices() []uint32

	// BoundingRadius returns the bounding sphere radius for this mesh, measured as
	// the maximum vertex distance from the origin. Used by frustum culling.
	//
	// Returns:
	//   - float32: the bounding radius
	BoundingRadius() float32
}

var _ Mesh = &mesh{}

// NewMesh builds a Mesh from the provided options. Positions are required; when
// normals are omitted they are generated as flat (face) normals accumulated per
// shared vertex. Texture coordinates select the PNUV layout, and requesting a
// tangent basis on top of texture coordinates selects PNTBUV.
//
// Parameters:
//   - name: the mesh identifier
//   - options: a variadic list of MeshBuilderOption functions to configure the mesh
//
// Returns:
//   - Mesh: the built mesh
//   - error: ErrNoGeometry when no positions were provided, or an attribute mismatch error
func NewMesh(name string, options ...MeshBuilderOption) (Mesh, error) {
	b := &meshBuilder{}
	for _, opt := range options {
		opt(b)
	}

	if len(b.positions) == 0 {
		return nil, ErrNoGeometry
	}
	if b.tangentSpace && len(b.texCoords) == 0 {
		return nil, errors.New("tangent basis requires texture coordinates")
	}
	if len(b.texCoords) > 0 && len(b.texCoords) != len(b.positions) {
		return nil, errors.New("texture coordinate count does not match position count")
	}
	if len(b.normals) > 0 && len(b.normals) != len(b.positions) {
		return nil, errors.New("normal count does not match position count")
	}

	normals := b.normals
	if normals == nil {
		normals = FlatNormals(b.positions, b.indices)
	}

	m := &mesh{
		name:        name,
		indices:     b.indices,
		vertexCount: len(b.positions),
	}

	switch {
	case b.tangentSpace:
		m.arrayType = VertexArrayTypePNTBUV
		tangents, bitangents := TangentBasis(b.positions, normals, b.texCoords, b.indices)
		m.vertexData = make([]byte, 0, len(b.positions)*m.arrayType.Stride())
		for i := range b.positions {
			v := VertexPNTBUV{
				Position:  b.positions[i],
				Normal:    normals[i],
				Tangent:   tangents[i],
				Bitangent: bitangents[i],
				TexCoord:  b.texCoords[i],
			}
			m.vertexData = append(m.vertexData, v.Marshal()...)
		}
	case len(b.texCoords) > 0:
		m.arrayType = VertexArrayTypePNUV
		m.vertexData = make([]byte, 0, len(b.positions)*m.arrayType.Stride())
		for i := range b.positions {
			v := VertexPNUV{
				Position: b.positions[i],
				Normal:   normals[i],
				TexCoord: b.texCoords[i],
			}
			m.vertexData = append(m.vertexData, v.Marshal()...)
		}
	default:
		m.arrayType = VertexArrayTypePN
		m.vertexData = make([]byte, 0, len(b.positions)*m.arrayType.Stride())
		for i := range b.positions {
			v := VertexPN{
				Position: b.positions[i],
				Normal:   normals[i],
			}
			m.vertexData = append(m.vertexData, v.Marshal()...)
		}
	}

	m.boundingRadius = ComputeBoundingRadius(b.positions)
	return m, nil
}

func (m *mesh) Name() string {
	return m.name
}

func (m *mesh) ArrayType() VertexArrayType {
	return m.arrayType
}

func (m *mesh) Indexed() bool {
	return m.indices != nil
}

func (m *mesh) VertexData() []byte {
	return m.vertexData
}

func (m *mesh) VertexCount() int {
	return m.vertexCount
}

func (m *mesh) Indices() []uint32 {
	return m.indices
}

func (m *mesh) BoundingRadius() float32 {
	return m.boundingRadius
}

// ComputeBoundingRadius calculates the bounding sphere radius from a slice of
// vertex positions. The radius is the maximum distance from the origin across
// all vertices in the slice.
//
// Parameters:
//   - positions: the vertex positions to compute the bounding radius from
//
// Returns:
//   - float32: the maximum distance from the origin
func ComputeBoundingRadius(positions [][3]float32) float32 {
	var maxDistSq float32
	for _, p := range positions {
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return math32.Sqrt(maxDistSq)
}
