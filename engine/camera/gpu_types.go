package camera

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (336 bytes, std430 aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

// GPUCameraUniform is the GPU-aligned representation of the per-frame camera
// uniform buffer shared by every pass. The inverse matrices let screen-space
// passes reconstruct view-space and world-space positions from depth.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 336 bytes (std430 / WGSL aligned).
type GPUCameraUniform struct {
	ViewProj       [16]float32 // offset   0: combined view-projection matrix (mat4x4<f32>)
	View           [16]float32 // offset  64: view matrix (mat4x4<f32>)
	Proj           [16]float32 // offset 128: projection matrix (mat4x4<f32>)
	InvProj        [16]float32 // offset 192: inverse projection matrix (mat4x4<f32>)
	InvView        [16]float32 // offset 256: inverse view matrix (mat4x4<f32>)
	CameraPosition [4]float32  // offset 320: world-space camera position, w unused (vec4<f32>)
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (336)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	offset := 0
	for _, m := range [][16]float32{g.ViewProj, g.View, g.Proj, g.InvProj, g.InvView} {
		for i := range 16 {
			binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(m[i]))
		}
		offset += 64
	}
	for i := range 4 {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	return buf
}
