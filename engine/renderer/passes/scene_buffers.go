package passes

import (
	"fmt"

	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/scene"

	"github.com/cogentcore/webgpu/wgpu"
)

// sceneBuffers mirrors the batcher's CPU-side geometry into GPU buffers: one
// vertex bank per vertex format, a shared index buffer, the packed instance
// buffer, and the indirect draw argument buffer. Buffers grow but never
// shrink, so steady frames do no allocation.
type sceneBuffers struct {
	vertex    map[model.VertexArrayType]*wgpu.Buffer
	vertexCap map[model.VertexArrayType]int

	index    *wgpu.Buffer
	indexCap int

	instance    *wgpu.Buffer
	instanceCap int

	indirect    *wgpu.Buffer
	indirectCap int
}

func newSceneBuffers() *sceneBuffers {
	return &sceneBuffers{
		vertex:    make(map[model.VertexArrayType]*wgpu.Buffer),
		vertexCap: make(map[model.VertexArrayType]int),
	}
}

// sync uploads whatever changed since the previous frame: geometry banks and
// the index buffer when the batcher registered new meshes, instance data when
// any transform or the visible set changed, and the indirect arguments every
// rebuild since they are cheap and depend on batch ordering.
//
// Parameters:
//   - rnd: the renderer used for buffer creation and writes
//   - batcher: the scene batcher holding the CPU-side data
//   - instancesChanged: the changed flag returned by the scene's Batch call
//
// Returns:
//   - error: an error if a buffer allocation fails
func (b *sceneBuffers) sync(rnd renderer.Renderer, batcher scene.Batcher, instancesChanged bool) error {
	if batcher.GeometryDirty() {
		formats := []model.VertexArrayType{
			model.VertexArrayTypePN,
			model.VertexArrayTypePNUV,
			model.VertexArrayTypePNTBUV,
		}
		for _, t := range formats {
			bank := batcher.Bank(t)
			if bank == nil || len(bank.VertexData) == 0 {
				continue
			}
			if len(bank.VertexData) > b.vertexCap[t] {
				if old := b.vertex[t]; old != nil {
					old.Release()
				}
				buf, err := rnd.CreateBuffer(
					"vertex_bank_"+t.String(),
					uint64(len(bank.VertexData)),
					wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst,
				)
				if err != nil {
					return fmt.Errorf("grow %s vertex bank: %w", t, err)
				}
				b.vertex[t] = buf
				b.vertexCap[t] = len(bank.VertexData)
			}
			rnd.WriteBuffer(b.vertex[t], 0, bank.VertexData)
		}

		if data := batcher.IndexData(); len(data) > 0 {
			if len(data) > b.indexCap {
				if b.index != nil {
					b.index.Release()
				}
				buf, err := rnd.CreateBuffer(
					"shared_index",
					uint64(len(data)),
					wgpu.BufferUsageIndex|wgpu.BufferUsageCopyDst,
				)
				if err != nil {
					return fmt.Errorf("grow index buffer: %w", err)
				}
				b.index = buf
				b.indexCap = len(data)
			}
			rnd.WriteBuffer(b.index, 0, data)
		}
		batcher.ClearGeometryDirty()
	}

	instanceBytes := batcher.InstanceCapacity() * model.GPUInstanceSize
	grew := false
	if instanceBytes > b.instanceCap {
		if b.instance != nil {
			b.instance.Release()
		}
		buf, err := rnd.CreateBuffer(
			"instance_data",
			uint64(instanceBytes),
			wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst,
		)
		if err != nil {
			return fmt.Errorf("grow instance buffer: %w", err)
		}
		b.instance = buf
		b.instanceCap = instanceBytes
		grew = true
	}
	if (instancesChanged || grew) && b.instance != nil {
		if data := batcher.InstanceData(); len(data) > 0 {
			rnd.WriteBuffer(b.instance, 0, data)
		}
	}

	if data := batcher.IndirectData(); len(data) > 0 {
		if len(data) > b.indirectCap {
			if b.indirect != nil {
				b.indirect.Release()
			}
			buf, err := rnd.CreateBuffer(
				"indirect_args",
				uint64(len(data)),
				wgpu.BufferUsageIndirect|wgpu.BufferUsageCopyDst,
			)
			if err != nil {
				return fmt.Errorf("grow indirect buffer: %w", err)
			}
			b.indirect = buf
			b.indirectCap = len(data)
		}
		rnd.WriteBuffer(b.indirect, 0, data)
	}

	return nil
}

// vertexBuffer returns the GPU vertex bank for a format, or nil if no mesh of
// that format has been uploaded.
func (b *sceneBuffers) vertexBuffer(t model.VertexArrayType) *wgpu.Buffer {
	return b.vertex[t]
}

// release frees every GPU buffer.
func (b *sceneBuffers) release() {
	for t, buf := range b.vertex {
		if buf != nil {
			buf.Release()
		}
		delete(b.vertex, t)
		delete(b.vertexCap, t)
	}
	for _, buf := range []*wgpu.Buffer{b.index, b.instance, b.indirect} {
		if buf != nil {
			buf.Release()
		}
	}
	b.index, b.instance, b.indirect = nil, nil, nil
	b.indexCap, b.instanceCap, b.indirectCap = 0, 0, 0
}
