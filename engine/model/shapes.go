package model

import (
	"github.com/kiln3d/kiln/common"
)

// NewPlane builds a unit plane on the XZ axis centered at the origin, facing +Y.
// The plane carries texture coordinates so it can host textured materials.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - Mesh: the plane mesh
func NewPlane(name string) Mesh {
	positions := [][3]float32{
		{-0.5, 0, -0.5}, // tl 0
		{0.5, 0, -0.5},  // tr 1
		{-0.5, 0, 0.5},  // bl 2
		{0.5, 0, 0.5},   // br 3
	}
	normals := [][3]float32{
		{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
	}
	texCoords := [][2]float32{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
	}
	indices := []uint32{
		2, 3, 0,
		0, 3, 1,
	}

	m, err := NewMesh(name,
		WithPositions(positions),
		WithNormals(normals),
		WithTexCoords(texCoords),
		WithIndices(indices),
	)
	if err != nil {
		panic(err)
	}
	return m
}

// NewCube builds a unit cube centered at the origin with 8 shared vertices and
// 36 indices. Normals point radially away from the center, giving the rounded
// shading of a shared-vertex cube.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - Mesh: the cube mesh
func NewCube(name string) Mesh {
	const h = 0.5
	positions := [][3]float32{
		{-h, h, h},   // front-tl 0
		{h, h, h},    // front-tr 1
		{-h, -h, h},  // front-bl 2
		{h, -h, h},   // front-br 3
		{-h, h, -h},  // back-tl 4
		{h, h, -h},   // back-tr 5
		{-h, -h, -h}, // back-bl 6
		{h, -h, -h},  // back-br 7
	}
	indices := []uint32{
		2, 1, 0, 1, 2, 3, // front
		4, 5, 6, 7, 6, 5, // back
		0, 1, 4, 5, 4, 1, // top
		6, 3, 2, 6, 7, 3, // bottom
		4, 2, 0, 4, 6, 2, // left
		7, 5, 1, 1, 3, 7, // right
	}

	// Normals point from the center through each corner.
	normals := make([][3]float32, len(positions))
	for i, p := range positions {
		normals[i] = common.Normalize3(p)
	}

	m, err := NewMesh(name,
		WithPositions(positions),
		WithNormals(normals),
		WithIndices(indices),
	)
	if err != nil {
		panic(err)
	}
	return m
}
