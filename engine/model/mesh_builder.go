package model

// meshBuilder accumulates raw attribute slices before NewMesh validates and
// marshals them into a Mesh.
type meshBuilder struct {
	positions    [][3]float32
	normals      [][3]float32
	texCoords    [][2]float32
	indices      []uint32
	tangentSpace bool
}

// MeshBuilderOption is a functional option for configuring a Mesh via NewMesh.
type MeshBuilderOption func(*meshBuilder)

// WithPositions is an option builder that sets the vertex positions of the Mesh.
// Positions are required; NewMesh returns ErrNoGeometry without them.
//
// Parameters:
//   - positions: the vertex positions in model space
//
// Returns:
//   - MeshBuilderOption: a function that applies the positions option to a mesh
func WithPositions(positions [][3]float32) MeshBuilderOption {
	return func(b *meshBuilder) {
		b.positions = positions
	}
}

// WithNormals is an option builder that sets explicit vertex normals. When
// omitted, flat normals are generated from the triangle faces.
//
// Parameters:
//   - normals: the per-vertex normals
//
// Returns:
//   - MeshBuilderOption: a function that applies the normals option to a mesh
func WithNormals(normals [][3]float32) MeshBuilderOption {
	return func(b *meshBuilder) {
		b.normals = normals
	}
}

// WithTexCoords is an option builder that sets per-vertex texture coordinates,
// promoting the mesh to the PNUV layout.
//
// Parameters:
//   - texCoords: the per-vertex UV coordinates
//
// Returns:
//   - MeshBuilderOption: a function that applies the texture coordinates option to a mesh
func WithTexCoords(texCoords [][2]float32) MeshBuilderOption {
	return func(b *meshBuilder) {
		b.texCoords = texCoords
	}
}

// WithIndices is an option builder that sets u32 triangle indices, making the
// mesh indexed. Without indices, vertices are consumed in consecutive triples.
//
// Parameters:
//   - indices: the triangle indices
//
// Returns:
//   - MeshBuilderOption: a function that applies the indices option to a mesh
func WithIndices(indices []uint32) MeshBuilderOption {
	return func(b *meshBuilder) {
		b.indices = indices
	}
}

// WithTangentBasis is an option builder that requests a per-vertex tangent basis,
// promoting the mesh to the PNTBUV layout. Requires texture coordinates.
//
// Returns:
//   - MeshBuilderOption: a function that applies the tangent basis option to a mesh
func WithTangentBasis() MeshBuilderOption {
	return func(b *meshBuilder) {
		b.tangentSpace = true
	}
}
