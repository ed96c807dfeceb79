package scene

import (
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/chewxy/math32"
	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/game_object"
	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer/material"
)

const (
	// IndirectArgsIndexedSize is the byte size of one indexed indirect draw
	// argument block: index_count, instance_count, first_index, base_vertex
	// (signed), first_instance.
	IndirectArgsIndexedSize = 20

	// IndirectArgsSize is the byte size of one non-indexed indirect draw
	// argument block: vertex_count, instance_count, first_vertex, first_instance.
	IndirectArgsSize = 16

	// InstanceHeadroom is the number of extra instance slots allocated whenever
	// the instance buffer grows, so steady instance-count growth does not
	// reallocate the GPU buffer every frame.
	InstanceHeadroom = 128
)

// Batch is one instanced draw call produced by the batcher: a contiguous run
// of instances sharing a mesh and material, with precomputed offsets into the
// shared geometry banks and the indirect argument buffer.
type Batch struct {
	// ArrayType selects the vertex bank and pipeline variant for this batch.
	ArrayType model.VertexArrayType

	// MeshName is the name of the batched mesh, for profiling and debugging.
	MeshName string

	// MaterialID is the dense atlas identifier of the batch's material.
	MaterialID material.MaterialId

	// MaterialKind selects the shader variant (solid, textured, textured+normal).
	MaterialKind material.Kind

	// Indexed reports whether the draw uses the shared index buffer.
	Indexed bool

	// IndexCount is the number of indices drawn when Indexed.
	IndexCount uint32

	// VertexCount is the number of vertices drawn when not Indexed.
	VertexCount uint32

	// FirstIndex is the batch's offset into the shared index buffer, in indices.
	FirstIndex uint32

	// BaseVertex is the batch's offset into its format's vertex bank, in
	// vertices. Doubles as first_vertex for non-indexed draws.
	BaseVertex int32

	// FirstInstance is the batch's offset into the instance buffer, in instances.
	FirstInstance uint32

	// InstanceCount is the number of instances in this batch.
	InstanceCount uint32

	// IndirectOffset is the byte offset of this batch's argument block in the
	// indirect buffer.
	IndirectOffset uint64
}

// GeometryBank is the accumulated vertex data for one vertex format. All
// meshes of the same format share one GPU vertex buffer; batches address into
// it via BaseVertex.
type GeometryBank struct {
	// ArrayType is the vertex format of every mesh in this bank.
	ArrayType model.VertexArrayType

	// VertexData is the marshaled vertex bytes of all registered meshes, in
	// registration order.
	VertexData []byte

	// VertexCount is the total number of vertices in the bank.
	VertexCount int
}

// meshEntry records a registered mesh's placement in the shared geometry buffers.
type meshEntry struct {
	index      int
	mesh       model.Mesh
	firstIndex uint32
	baseVertex int32
}

// batchKey orders draw batches: meshes in registration order, materials by
// ascending atlas id within a mesh. The ordering is stable across frames so
// unchanged scenes produce byte-identical batch lists.
type batchKey struct {
	meshIndex  int
	materialID material.MaterialId
}

// batcher is the implementation of the Batcher interface.
type batcher struct {
	mu sync.Mutex

	atlas material.MaterialAtlas

	banks       map[model.VertexArrayType]*GeometryBank
	indexData   []byte
	indexCount  int
	meshEntries map[model.Mesh]*meshEntry
	meshOrder   []*meshEntry
	geomDirty   bool

	instanceData     []byte
	instanceCapacity int

	batches       []Batch
	shadowBatches []Batch
	indirectData  []byte

	lastPacked []uint64

	pool    worker.DynamicWorkerPool
	workers int
}

// Batcher compiles the scene's game objects into instanced draw batches over
// shared per-format vertex banks, a shared index buffer, a packed instance
// buffer, and an indirect draw argument buffer. Geometry is appended once per
// unique mesh; instance data is repacked on Rebuild.
type Batcher interface {
	// Atlas returns the material atlas the batcher registers materials into.
	//
	// Returns:
	//   - material.MaterialAtlas: the atlas
	Atlas() material.MaterialAtlas

	// Rebuild partitions the given objects into draw batches. Objects that
	// are disabled or incomplete are skipped. Camera culling (when a frustum
	// is given) narrows the view batches only; every packed object still
	// appears in the shadow batches so off-screen casters keep casting. New
	// meshes are appended to the geometry banks; instance data and indirect
	// arguments are repacked.
	//
	// Parameters:
	//   - objects: the candidate objects, in stable scene order
	//   - frustum: the camera frustum for CPU culling, or nil to skip culling
	//
	// Returns:
	//   - bool: true if the instance buffer contents changed since the last Rebuild
	Rebuild(objects []game_object.GameObject, frustum *common.Frustum) bool

	// Batches returns the camera-visible draw batches from the most recent
	// Rebuild, ordered by (mesh registration index, material id).
	//
	// Returns:
	//   - []Batch: the current batch list
	Batches() []Batch

	// ShadowBatches returns the draw batches covering every packed object
	// regardless of camera culling, for depth-only shadow rendering. Each
	// shadow batch spans the same instance range as its view counterpart,
	// with the camera-visible instances packed as the prefix.
	//
	// Returns:
	//   - []Batch: the current shadow batch list
	ShadowBatches() []Batch

	// Bank returns the geometry bank for a vertex format, or nil if no mesh of
	// that format has been registered.
	//
	// Parameters:
	//   - t: the vertex format
	//
	// Returns:
	//   - *GeometryBank: the bank or nil
	Bank(t model.VertexArrayType) *GeometryBank

	// IndexData returns the shared uint32 index buffer bytes.
	//
	// Returns:
	//   - []byte: the index data
	IndexData() []byte

	// GeometryDirty reports whether geometry banks or the index buffer gained
	// data since the last ClearGeometryDirty, meaning the GPU copies are stale.
	//
	// Returns:
	//   - bool: true if geometry needs re-upload
	GeometryDirty() bool

	// ClearGeometryDirty resets the geometry dirty flag after a GPU upload.
	ClearGeometryDirty()

	// InstanceData returns the packed per-instance bytes from the most recent
	// Rebuild. The slice length covers the allocated capacity including
	// headroom; only the instances referenced by Batches are meaningful.
	//
	// Returns:
	//   - []byte: the instance data
	InstanceData() []byte

	// InstanceCapacity returns the allocated instance slot count including headroom.
	//
	// Returns:
	//   - int: the capacity in instances
	InstanceCapacity() int

	// IndirectData returns the packed indirect draw argument bytes from the
	// most recent Rebuild. Batches address into it via IndirectOffset.
	//
	// Returns:
	//   - []byte: the indirect argument data
	IndirectData() []byte
}

var _ Batcher = &batcher{}

// NewBatcher creates a Batcher with its own material atlas and a worker pool
// for parallel instance packing.
//
// Parameters:
//   - workers: the number of packing workers (minimum 1)
//
// Returns:
//   - Batcher: the new batcher
func NewBatcher(workers int) Batcher {
	if workers < 1 {
		workers = 1
	}
	return &batcher{
		atlas:       material.NewMaterialAtlas(),
		banks:       make(map[model.VertexArrayType]*GeometryBank),
		meshEntries: make(map[model.Mesh]*meshEntry),
		pool:        worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
		workers:     workers,
	}
}

func (b *batcher) Atlas() material.MaterialAtlas {
	return b.atlas
}

// drawGroup is one (mesh, material) bucket: camera-visible objects and the
// remainder that only shadow rendering draws.
type drawGroup struct {
	visible []game_object.GameObject
	culled  []game_object.GameObject
}

func (b *batcher) Rebuild(objects []game_object.GameObject, frustum *common.Frustum) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Group objects by (mesh, material), preserving scene order within each
	// group. Camera culling splits a group into a visible prefix and a culled
	// suffix, never drops from it: a caster above or behind the view still
	// has to land in the shadow cascades.
	groups := make(map[batchKey]*drawGroup)
	anyDirty := false

	for _, obj := range objects {
		if obj == nil || !obj.Enabled() {
			continue
		}
		mesh := obj.Mesh()
		if mesh == nil {
			continue
		}
		mat := obj.Material()
		if mat == nil {
			continue
		}

		entry := b.registerMesh(mesh)
		id := b.atlas.Register(mat)
		key := batchKey{meshIndex: entry.index, materialID: id}
		group := groups[key]
		if group == nil {
			group = &drawGroup{}
			groups[key] = group
		}
		if frustum == nil || b.objectVisible(obj, mesh, frustum) {
			group.visible = append(group.visible, obj)
		} else {
			group.culled = append(group.culled, obj)
		}
		if obj.Dirty() {
			anyDirty = true
		}
	}

	keys := make([]batchKey, 0, len(groups))
	total := 0
	for k, group := range groups {
		keys = append(keys, k)
		total += len(group.visible) + len(group.culled)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].meshIndex != keys[j].meshIndex {
			return keys[i].meshIndex < keys[j].meshIndex
		}
		return keys[i].materialID < keys[j].materialID
	})

	if total > b.instanceCapacity {
		b.instanceCapacity = total + InstanceHeadroom
		b.instanceData = make([]byte, b.instanceCapacity*model.GPUInstanceSize)
	}

	// Pack each group's instances in parallel. Groups write disjoint regions
	// of the instance buffer so no locking is needed inside the tasks.
	var wg sync.WaitGroup
	taskID := 0
	firstInstance := 0
	packed := make([]uint64, 0, total)
	b.batches = b.batches[:0]
	b.shadowBatches = b.shadowBatches[:0]
	b.indirectData = b.indirectData[:0]

	for _, key := range keys {
		group := groups[key]
		entry := b.meshOrder[key.meshIndex]
		mesh := entry.mesh

		// Visible instances pack first so the view batch covers a prefix of
		// the group's instance range.
		objs := make([]game_object.GameObject, 0, len(group.visible)+len(group.culled))
		objs = append(objs, group.visible...)
		objs = append(objs, group.culled...)
		for _, obj := range objs {
			packed = append(packed, obj.ID())
		}

		base := firstInstance
		wg.Add(1)
		objsCap := objs
		id := taskID
		taskID++
		b.pool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				for i, obj := range objsCap {
					inst := obj.Instance()
					inst.MarshalInto(b.instanceData, (base+i)*model.GPUInstanceSize)
					obj.ClearDirty()
				}
				return nil, nil
			},
		})

		kind := material.KindPhongSolid
		if mat := b.atlas.Get(key.materialID); mat != nil {
			kind = mat.Kind()
		}

		shadow := Batch{
			ArrayType:      mesh.ArrayType(),
			MeshName:       mesh.Name(),
			MaterialID:     key.materialID,
			MaterialKind:   kind,
			Indexed:        mesh.Indexed(),
			FirstIndex:     entry.firstIndex,
			BaseVertex:     entry.baseVertex,
			FirstInstance:  uint32(base),
			InstanceCount:  uint32(len(objs)),
			IndirectOffset: uint64(len(b.indirectData)),
		}
		if shadow.Indexed {
			shadow.IndexCount = uint32(len(mesh.Indices()))
			b.indirectData = appendIndexedArgs(b.indirectData, shadow)
		} else {
			shadow.VertexCount = uint32(mesh.VertexCount())
			b.indirectData = appendArgs(b.indirectData, shadow)
		}
		b.shadowBatches = append(b.shadowBatches, shadow)

		if len(group.visible) > 0 {
			view := shadow
			// A group with culled instances needs its own argument block;
			// otherwise the shadow block serves both draws.
			if len(group.culled) > 0 {
				view.InstanceCount = uint32(len(group.visible))
				view.IndirectOffset = uint64(len(b.indirectData))
				if view.Indexed {
					b.indirectData = appendIndexedArgs(b.indirectData, view)
				} else {
					b.indirectData = appendArgs(b.indirectData, view)
				}
			}
			b.batches = append(b.batches, view)
		}
		firstInstance += len(objs)
	}
	wg.Wait()

	changed := anyDirty || !equalIDs(packed, b.lastPacked)
	b.lastPacked = packed
	return changed
}

func (b *batcher) Batches() []Batch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.batches
}

func (b *batcher) ShadowBatches() []Batch {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shadowBatches
}

func (b *batcher) Bank(t model.VertexArrayType) *GeometryBank {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.banks[t]
}

func (b *batcher) IndexData() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indexData
}

func (b *batcher) GeometryDirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.geomDirty
}

func (b *batcher) ClearGeometryDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.geomDirty = false
}

func (b *batcher) InstanceData() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.instanceData
}

func (b *batcher) InstanceCapacity() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.instanceCapacity
}

func (b *batcher) IndirectData() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.indirectData
}

// registerMesh appends a mesh's geometry to its format bank and the shared
// index buffer on first sight, returning its placement entry. Caller must
// hold the mutex.
func (b *batcher) registerMesh(m model.Mesh) *meshEntry {
	if entry, ok := b.meshEntries[m]; ok {
		return entry
	}

	bank := b.banks[m.ArrayType()]
	if bank == nil {
		bank = &GeometryBank{ArrayType: m.ArrayType()}
		b.banks[m.ArrayType()] = bank
	}

	entry := &meshEntry{
		index:      len(b.meshOrder),
		mesh:       m,
		baseVertex: int32(bank.VertexCount),
	}
	bank.VertexData = append(bank.VertexData, m.VertexData()...)
	bank.VertexCount += m.VertexCount()

	if m.Indexed() {
		entry.firstIndex = uint32(b.indexCount)
		b.indexData = append(b.indexData, common.SliceToBytes(m.Indices())...)
		b.indexCount += len(m.Indices())
	}

	b.meshEntries[m] = entry
	b.meshOrder = append(b.meshOrder, entry)
	b.geomDirty = true
	return entry
}

// objectVisible tests the object's world-space bounding sphere against the
// frustum. The mesh bounding radius is scaled by the largest scale axis.
func (b *batcher) objectVisible(obj game_object.GameObject, mesh model.Mesh, frustum *common.Frustum) bool {
	x, y, z := obj.Position()
	sx, sy, sz := obj.Scale()
	maxScale := math32.Max(math32.Abs(sx), math32.Max(math32.Abs(sy), math32.Abs(sz)))
	return frustum.IntersectsSphere([3]float32{x, y, z}, mesh.BoundingRadius()*maxScale)
}

// appendIndexedArgs appends a 20-byte indexed indirect argument block.
func appendIndexedArgs(buf []byte, batch Batch) []byte {
	return append(buf,
		u32bytes(batch.IndexCount,
			batch.InstanceCount,
			batch.FirstIndex,
			uint32(batch.BaseVertex),
			batch.FirstInstance)...)
}

// appendArgs appends a 16-byte non-indexed indirect argument block.
func appendArgs(buf []byte, batch Batch) []byte {
	return append(buf,
		u32bytes(batch.VertexCount,
			batch.InstanceCount,
			uint32(batch.BaseVertex),
			batch.FirstInstance)...)
}

func u32bytes(values ...uint32) []byte {
	return common.SliceToBytes(values)
}

func equalIDs(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
