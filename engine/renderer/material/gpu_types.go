package material

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPhongMaterialSource is the canonical WGSL definition of the PhongMaterial struct.
// Matches GPUPhongMaterial layout exactly (48 bytes, std430 aligned).
//
//go:embed assets/phong_material.wgsl
var GPUPhongMaterialSource string

// GPUPhongMaterial is the GPU-aligned uniform for Blinn-Phong materials. The
// shininess exponent rides in Specular[3] so the struct packs into three vec4s.
// Matches the WGSL PhongMaterial struct layout exactly (see GPUPhongMaterialSource).
// Size: 48 bytes (three vec4<f32>, std430 aligned).
type GPUPhongMaterial struct {
	Albedo   [4]float32 // offset  0: base RGBA color (16 bytes)
	Diffuse  [4]float32 // offset 16: diffuse reflectance (16 bytes)
	Specular [4]float32 // offset 32: specular reflectance RGB + shininess in w (16 bytes)
}

// Size returns the size of the GPUPhongMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUPhongMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPhongMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload.
func (g *GPUPhongMaterial) Marshal() []byte {
	buf := make([]byte, 48)
	for i, v := range g.Albedo {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	for i, v := range g.Diffuse {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(v))
	}
	for i, v := range g.Specular {
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(v))
	}
	return buf
}
