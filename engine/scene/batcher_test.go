package scene

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/game_object"
	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testObject(id uint64, mesh model.Mesh, mat material.Material, x, y, z float32) game_object.GameObject {
	return game_object.NewGameObject(
		game_object.WithID(id),
		game_object.WithMesh(mesh),
		game_object.WithMaterial(mat),
		game_object.WithPosition(x, y, z),
	)
}

func TestRebuildGroupsByMeshAndMaterial(t *testing.T) {
	b := NewBatcher(2)
	cube := model.NewCube("cube")
	plane := model.NewPlane("plane")
	matA := material.NewMaterial(material.WithName("a"))
	matB := material.NewMaterial(material.WithName("b"))

	objects := []game_object.GameObject{
		testObject(1, cube, matA, 0, 0, 0),
		testObject(2, cube, matB, 1, 0, 0),
		testObject(3, cube, matA, 2, 0, 0),
		testObject(4, plane, matA, 3, 0, 0),
	}

	changed := b.Rebuild(objects, nil)
	assert.True(t, changed)

	batches := b.Batches()
	require.Len(t, batches, 3)

	// Mesh registration order first, then material id within a mesh.
	assert.Equal(t, "cube", batches[0].MeshName)
	assert.Equal(t, uint32(2), batches[0].InstanceCount)
	assert.Equal(t, uint32(0), batches[0].FirstInstance)

	assert.Equal(t, "cube", batches[1].MeshName)
	assert.Equal(t, uint32(1), batches[1].InstanceCount)
	assert.Equal(t, uint32(2), batches[1].FirstInstance)

	assert.Equal(t, "plane", batches[2].MeshName)
	assert.Equal(t, uint32(1), batches[2].InstanceCount)
	assert.Equal(t, uint32(3), batches[2].FirstInstance)

	assert.Equal(t, material.KindPhongSolid, batches[0].MaterialKind)
	assert.Less(t, batches[0].MaterialID, batches[1].MaterialID)
}

func TestRebuildGeometryBanks(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	plane := model.NewPlane("plane")
	mat := material.NewMaterial(material.WithName("m"))

	b.Rebuild([]game_object.GameObject{
		testObject(1, cube, mat, 0, 0, 0),
		testObject(2, plane, mat, 0, 0, 0),
	}, nil)

	pn := b.Bank(model.VertexArrayTypePN)
	require.NotNil(t, pn)
	assert.Equal(t, 8, pn.VertexCount)
	assert.Len(t, pn.VertexData, 8*model.VertexArrayTypePN.Stride())

	pnuv := b.Bank(model.VertexArrayTypePNUV)
	require.NotNil(t, pnuv)
	assert.Equal(t, 4, pnuv.VertexCount)

	assert.Nil(t, b.Bank(model.VertexArrayTypePNTBUV))

	// Both meshes are indexed; the shared index buffer holds 36 + 6 indices.
	assert.Len(t, b.IndexData(), (36+6)*4)
	assert.True(t, b.GeometryDirty())
	b.ClearGeometryDirty()
	assert.False(t, b.GeometryDirty())
}

func TestRebuildSharedMeshAppendsGeometryOnce(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	objects := []game_object.GameObject{
		testObject(1, cube, mat, 0, 0, 0),
		testObject(2, cube, mat, 1, 0, 0),
	}
	b.Rebuild(objects, nil)
	b.ClearGeometryDirty()

	// A second rebuild with the same mesh must not re-append geometry.
	b.Rebuild(objects, nil)
	assert.False(t, b.GeometryDirty())
	assert.Equal(t, 8, b.Bank(model.VertexArrayTypePN).VertexCount)
	require.Len(t, b.Batches(), 1)
	assert.Equal(t, uint32(2), b.Batches()[0].InstanceCount)
}

func TestRebuildIndirectArgs(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	matA := material.NewMaterial(material.WithName("a"))
	matB := material.NewMaterial(material.WithName("b"))

	b.Rebuild([]game_object.GameObject{
		testObject(1, cube, matA, 0, 0, 0),
		testObject(2, cube, matB, 0, 0, 0),
	}, nil)

	batches := b.Batches()
	require.Len(t, batches, 2)
	data := b.IndirectData()
	require.Len(t, data, 2*IndirectArgsIndexedSize)

	assert.Equal(t, uint64(0), batches[0].IndirectOffset)
	assert.Equal(t, uint64(IndirectArgsIndexedSize), batches[1].IndirectOffset)

	// index_count, instance_count, first_index, base_vertex, first_instance
	assert.Equal(t, uint32(36), binary.LittleEndian.Uint32(data[0:4]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[12:16]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(data[16:20]))

	second := data[IndirectArgsIndexedSize:]
	assert.Equal(t, uint32(36), binary.LittleEndian.Uint32(second[0:4]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(second[16:20]), "second batch starts at instance 1")
}

func TestRebuildPacksInstanceTransforms(t *testing.T) {
	b := NewBatcher(2)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	b.Rebuild([]game_object.GameObject{
		testObject(1, cube, mat, 5, 6, 7),
	}, nil)

	data := b.InstanceData()
	require.GreaterOrEqual(t, len(data), model.GPUInstanceSize)

	// Column-major model matrix: translation lives at float indices 12..14.
	tx := math.Float32frombits(binary.LittleEndian.Uint32(data[48:52]))
	ty := math.Float32frombits(binary.LittleEndian.Uint32(data[52:56]))
	tz := math.Float32frombits(binary.LittleEndian.Uint32(data[56:60]))
	assert.Equal(t, float32(5), tx)
	assert.Equal(t, float32(6), ty)
	assert.Equal(t, float32(7), tz)
}

func TestRebuildInstanceCapacityHeadroom(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	b.Rebuild([]game_object.GameObject{testObject(1, cube, mat, 0, 0, 0)}, nil)
	assert.Equal(t, 1+InstanceHeadroom, b.InstanceCapacity())
	assert.Len(t, b.InstanceData(), (1+InstanceHeadroom)*model.GPUInstanceSize)

	// Growth within headroom keeps the allocation.
	objects := make([]game_object.GameObject, 0, 10)
	for i := uint64(1); i <= 10; i++ {
		objects = append(objects, testObject(i, cube, mat, float32(i), 0, 0))
	}
	b.Rebuild(objects, nil)
	assert.Equal(t, 1+InstanceHeadroom, b.InstanceCapacity())
}

func TestRebuildSkipsDisabledAndIncomplete(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	disabled := testObject(1, cube, mat, 0, 0, 0)
	disabled.SetEnabled(false)
	meshless := game_object.NewGameObject(game_object.WithID(2), game_object.WithMaterial(mat))
	materialless := game_object.NewGameObject(game_object.WithID(3), game_object.WithMesh(cube))

	b.Rebuild([]game_object.GameObject{disabled, meshless, materialless, nil}, nil)
	assert.Empty(t, b.Batches())
}

func TestRebuildFrustumCulling(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	var view, proj, viewProj [16]float32
	common.LookAt(view[:], 0, 0, 10, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj[:], 1.0, 1, 0.1, 100)
	common.Mul4(viewProj[:], proj[:], view[:])
	f := common.ExtractFrustumFromMatrix(viewProj[:])

	inside := testObject(1, cube, mat, 0, 0, 0)
	behind := testObject(2, cube, mat, 0, 0, 50)

	b.Rebuild([]game_object.GameObject{inside, behind}, &f)
	require.Len(t, b.Batches(), 1)
	assert.Equal(t, uint32(1), b.Batches()[0].InstanceCount)
}

func TestRebuildShadowBatchesKeepCulledCasters(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	var view, proj, viewProj [16]float32
	common.LookAt(view[:], 0, 0, 10, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj[:], 1.0, 1, 0.1, 100)
	common.Mul4(viewProj[:], proj[:], view[:])
	f := common.ExtractFrustumFromMatrix(viewProj[:])

	onScreen := testObject(1, cube, mat, 0, 0, 0)
	overhead := testObject(2, cube, mat, 0, 30, 0)

	b.Rebuild([]game_object.GameObject{onScreen, overhead}, &f)

	viewBatches := b.Batches()
	require.Len(t, viewBatches, 1)
	assert.Equal(t, uint32(1), viewBatches[0].InstanceCount)

	// The caster above the view frustum still draws into the shadow maps.
	shadowBatches := b.ShadowBatches()
	require.Len(t, shadowBatches, 1)
	assert.Equal(t, uint32(2), shadowBatches[0].InstanceCount)
	assert.Equal(t, viewBatches[0].FirstInstance, shadowBatches[0].FirstInstance,
		"visible instances are the prefix of the shared range")

	// Each list addresses its own indirect argument block.
	data := b.IndirectData()
	require.Len(t, data, 2*IndirectArgsIndexedSize)
	shadowArgs := data[shadowBatches[0].IndirectOffset:]
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(shadowArgs[4:8]))
	viewArgs := data[viewBatches[0].IndirectOffset:]
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(viewArgs[4:8]))
}

func TestRebuildShadowBatchesMatchViewWithoutCulling(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	b.Rebuild([]game_object.GameObject{
		testObject(1, cube, mat, 0, 0, 0),
		testObject(2, cube, mat, 1, 0, 0),
	}, nil)

	// With no frustum the two lists are identical and share argument blocks.
	assert.Equal(t, b.Batches(), b.ShadowBatches())
	assert.Len(t, b.IndirectData(), IndirectArgsIndexedSize)
}

func TestRebuildChangeDetectsCullingBoundary(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))

	var view, proj, viewProj [16]float32
	common.LookAt(view[:], 0, 0, 10, 0, 0, 0, 0, 1, 0)
	common.Perspective(proj[:], 1.0, 1, 0.1, 100)
	common.Mul4(viewProj[:], proj[:], view[:])
	f := common.ExtractFrustumFromMatrix(viewProj[:])

	inside := testObject(1, cube, mat, 0, 0, 0)
	outside := testObject(2, cube, mat, 0, 30, 0)
	objects := []game_object.GameObject{inside, outside}

	assert.True(t, b.Rebuild(objects, &f))
	assert.False(t, b.Rebuild(objects, &f), "steady state is unchanged")

	// Moving a caster into view reorders the packed instances.
	outside.SetPosition(1, 0, 0)
	assert.True(t, b.Rebuild(objects, &f))
}

func TestRebuildChangeDetection(t *testing.T) {
	b := NewBatcher(1)
	cube := model.NewCube("cube")
	mat := material.NewMaterial(material.WithName("m"))
	obj := testObject(1, cube, mat, 0, 0, 0)

	assert.True(t, b.Rebuild([]game_object.GameObject{obj}, nil), "first build changes")
	assert.False(t, b.Rebuild([]game_object.GameObject{obj}, nil), "steady state is unchanged")

	obj.SetPosition(1, 2, 3)
	assert.True(t, b.Rebuild([]game_object.GameObject{obj}, nil), "transform mutation changes")
	assert.False(t, b.Rebuild([]game_object.GameObject{obj}, nil))

	other := testObject(2, cube, mat, 5, 0, 0)
	assert.True(t, b.Rebuild([]game_object.GameObject{obj, other}, nil), "visible set change")
}
