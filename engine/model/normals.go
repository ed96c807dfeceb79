package model

import (
	"github.com/kiln3d/kiln/common"
)

// FlatNormals generates per-vertex normals from triangle faces. Each triangle's
// face normal, normalize(cross(v1-v0, v2-v0)), is accumulated onto its three
// corner vertices and the sums are renormalized, so vertices shared between
// faces receive the averaged facet direction. When indices is nil, positions
// are consumed as consecutive triangle triples.
//
// Parameters:
//   - positions: the vertex positions
//   - indices: the triangle indices, or nil for non-indexed geometry
//
// Returns:
//   - [][3]float32: one normal per vertex position
func FlatNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([][3]float32, len(positions))

	eachTriangle(len(positions), indices, func(i0, i1, i2 int) {
		v0, v1, v2 := positions[i0], positions[i1], positions[i2]
		e1 := [3]float32{v1[0] - v0[0], v1[1] - v0[1], v1[2] - v0[2]}
		e2 := [3]float32{v2[0] - v0[0], v2[1] - v0[1], v2[2] - v0[2]}
		n := common.Normalize3(common.Cross3(e1, e2))

		for _, i := range [3]int{i0, i1, i2} {
			normals[i][0] += n[0]
			normals[i][1] += n[1]
			normals[i][2] += n[2]
		}
	})

	for i := range normals {
		normals[i] = common.Normalize3(normals[i])
	}
	return normals
}

// TangentBasis generates per-vertex tangent and bitangent vectors from triangle
// UV gradients. Each triangle's tangent frame is accumulated onto its corner
// vertices; the accumulated tangent is then made orthogonal to the vertex normal
// (Gram-Schmidt) and both vectors are renormalized. Triangles with degenerate
// UVs contribute nothing.
//
// Parameters:
//   - positions: the vertex positions
//   - normals: the per-vertex normals
//   - texCoords: the per-vertex UV coordinates
//   - indices: the triangle indices, or nil for non-indexed geometry
//
// Returns:
//   - [][3]float32: one tangent per vertex
//   - [][3]float32: one bitangent per vertex
func TangentBasis(positions, normals [][3]float32, texCoords [][2]float32, indices []uint32) ([][3]float32, [][3]float32) {
	tangents := make([][3]float32, len(positions))
	bitangents := make([][3]float32, len(positions))

	eachTriangle(len(positions), indices, func(i0, i1, i2 int) {
		v0, v1, v2 := positions[i0], positions[i1], positions[i2]
		uv0, uv1, uv2 := texCoords[i0], texCoords[i1], texCoords[i2]

		e1 := [3]float32{v1[0] - v0[0], v1[1] - v0[1], v1[2] - v0[2]}
		e2 := [3]float32{v2[0] - v0[0], v2[1] - v0[1], v2[2] - v0[2]}
		du1, dv1 := uv1[0]-uv0[0], uv1[1]-uv0[1]
		du2, dv2 := uv2[0]-uv0[0], uv2[1]-uv0[1]

		det := du1*dv2 - du2*dv1
		if det == 0 {
			return
		}
		r := 1.0 / det

		t := [3]float32{
			(e1[0]*dv2 - e2[0]*dv1) * r,
			(e1[1]*dv2 - e2[1]*dv1) * r,
			(e1[2]*dv2 - e2[2]*dv1) * r,
		}
		bt := [3]float32{
			(e2[0]*du1 - e1[0]*du2) * r,
			(e2[1]*du1 - e1[1]*du2) * r,
			(e2[2]*du1 - e1[2]*du2) * r,
		}

		for _, i := range [3]int{i0, i1, i2} {
			tangents[i][0] += t[0]
			tangents[i][1] += t[1]
			tangents[i][2] += t[2]
			bitangents[i][0] += bt[0]
			bitangents[i][1] += bt[1]
			bitangents[i][2] += bt[2]
		}
	})

	for i := range tangents {
		n := normals[i]
		t := tangents[i]
		// Orthogonalize the tangent against the normal before renormalizing.
		d := common.Dot3(n, t)
		t[0] -= n[0] * d
		t[1] -= n[1] * d
		t[2] -= n[2] * d
		tangents[i] = common.Normalize3(t)
		bitangents[i] = common.Normalize3(bitangents[i])
	}
	return tangents, bitangents
}

// eachTriangle visits every triangle of the mesh, resolving indices when present
// and consecutive vertex triples otherwise.
func eachTriangle(vertexCount int, indices []uint32, visit func(i0, i1, i2 int)) {
	if indices != nil {
		for i := 0; i+2 < len(indices); i += 3 {
			visit(int(indices[i]), int(indices[i+1]), int(indices[i+2]))
		}
		return
	}
	for i := 0; i+2 < vertexCount; i += 3 {
		visit(i, i+1, i+2)
	}
}
