package model

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// VertexArrayType identifies the attribute layout of a mesh's vertex data.
// Meshes with the same array type share a vertex bank in the scene's batched buffers.
type VertexArrayType int

const (
	// VertexArrayTypePN is position + normal (24 bytes per vertex, 2 attribute slots).
	VertexArrayTypePN VertexArrayType = iota

	// VertexArrayTypePNUV is position + normal + texture coordinate (32 bytes per vertex, 3 attribute slots).
	VertexArrayTypePNUV

	// VertexArrayTypePNTBUV is position + normal + tangent + bitangent + texture
	// coordinate (56 bytes per vertex, 5 attribute slots), used by normal-mapped materials.
	VertexArrayTypePNTBUV
)

// String returns a short identifier for the vertex array type, used in pipeline
// and shader cache keys.
func (t VertexArrayType) String() string {
	switch t {
	case VertexArrayTypePN:
		return "pn"
	case VertexArrayTypePNUV:
		return "pnuv"
	case VertexArrayTypePNTBUV:
		return "pntbuv"
	default:
		return "unknown"
	}
}

// Stride returns the byte size of one vertex of this array type.
//
// Returns:
//   - int: the vertex stride in bytes
func (t VertexArrayType) Stride() int {
	switch t {
	case VertexArrayTypePN:
		return 24
	case VertexArrayTypePNUV:
		return 32
	case VertexArrayTypePNTBUV:
		return 56
	default:
		return 0
	}
}

// SlotCount returns the number of vertex attribute locations consumed by this
// array type. Instance attributes begin at InstanceBaseLocation regardless of
// the vertex format so a single instance layout serves all three.
//
// Returns:
//   - int: the attribute slot count
func (t VertexArrayType) SlotCount() int {
	switch t {
	case VertexArrayTypePN:
		return 2
	case VertexArrayTypePNUV:
		return 3
	case VertexArrayTypePNTBUV:
		return 5
	default:
		return 0
	}
}

// InstanceBaseLocation is the first shader location used by per-instance
// attributes. It sits past the widest vertex format (PNTBUV, 5 slots).
const InstanceBaseLocation = 5

// VertexPN is the GPU-aligned representation of a position + normal vertex.
// Size: 24 bytes, matching the WGSL VertexInput under the VERTEX_PN define.
type VertexPN struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal (12 bytes)
}

// Size returns the size of the VertexPN struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *VertexPN) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the VertexPN struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 24-byte buffer ready for GPU upload.
func (v *VertexPN) Marshal() []byte {
	buf := make([]byte, 24)
	putVec3(buf[0:], v.Position)
	putVec3(buf[12:], v.Normal)
	return buf
}

// VertexPNUV is the GPU-aligned representation of a position + normal + UV vertex.
// Size: 32 bytes, matching the WGSL VertexInput under the VERTEX_PNUV define.
type VertexPNUV struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// Size returns the size of the VertexPNUV struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *VertexPNUV) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the VertexPNUV struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (v *VertexPNUV) Marshal() []byte {
	buf := make([]byte, 32)
	putVec3(buf[0:], v.Position)
	putVec3(buf[12:], v.Normal)
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(v.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(v.TexCoord[1]))
	return buf
}

// VertexPNTBUV is the GPU-aligned representation of a normal-mapped vertex carrying
// a full tangent basis. Size: 56 bytes, matching the WGSL VertexInput under the
// VERTEX_PNTBUV define.
type VertexPNTBUV struct {
	Position  [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal    [3]float32 // offset 12: vertex normal (12 bytes)
	Tangent   [3]float32 // offset 24: tangent vector (12 bytes)
	Bitangent [3]float32 // offset 36: bitangent vector (12 bytes)
	TexCoord  [2]float32 // offset 48: UV texture coordinate (8 bytes)
}

// Size returns the size of the VertexPNTBUV struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (v *VertexPNTBUV) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the VertexPNTBUV struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload.
func (v *VertexPNTBUV) Marshal() []byte {
	buf := make([]byte, 56)
	putVec3(buf[0:], v.Position)
	putVec3(buf[12:], v.Normal)
	putVec3(buf[24:], v.Tangent)
	putVec3(buf[36:], v.Bitangent)
	binary.LittleEndian.PutUint32(buf[48:52], math.Float32bits(v.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[52:56], math.Float32bits(v.TexCoord[1]))
	return buf
}

// GPUInstanceSize is the byte size of one marshaled GPUInstance.
const GPUInstanceSize = 128

// GPUInstance is the GPU-aligned per-instance payload: the model-to-world matrix
// and the normal matrix (inverse-transpose of the model matrix). Bound as eight
// Float32x4 instance attributes starting at InstanceBaseLocation.
// Size: 128 bytes.
type GPUInstance struct {
	Model  [16]float32 // offset  0: 4x4 model-to-world transform (64 bytes)
	Normal [16]float32 // offset 64: 4x4 normal matrix (64 bytes)
}

// Size returns the size of the GPUInstance struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUInstance) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUInstance struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload.
func (g *GPUInstance) Marshal() []byte {
	buf := make([]byte, 128)
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[i*4:(i+1)*4], math.Float32bits(g.Model[i]))
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[64+i*4:64+(i+1)*4], math.Float32bits(g.Normal[i]))
	}
	return buf
}

// MarshalInto writes the instance payload into buf at the given offset, avoiding
// the per-call allocation of Marshal. buf must have at least offset+128 bytes.
//
// Parameters:
//   - buf: the destination buffer
//   - offset: the byte offset to write at
func (g *GPUInstance) MarshalInto(buf []byte, offset int) {
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(g.Model[i]))
	}
	for i := 0; i < 16; i++ {
		binary.LittleEndian.PutUint32(buf[offset+64+i*4:], math.Float32bits(g.Normal[i]))
	}
}

func putVec3(buf []byte, v [3]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
}
