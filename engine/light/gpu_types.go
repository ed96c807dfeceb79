package light

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUPhongLightSource is the canonical WGSL definition of the PhongLight struct
// and the PhongLights storage buffer wrapper (count header + runtime-sized array).
// Matches GPUPhongLight layout exactly (80 bytes per light, std430 aligned).
//
//go:embed assets/phong_light.wgsl
var GPUPhongLightSource string

// GPUPhongLight is the GPU-aligned representation of a single light. The w
// components are reused to pack the struct tightly into five vec4s: the spot
// cone cosine rides in Position[3] and the attenuation coefficients k_c, k_l,
// k_q ride in Ambient[3], Diffuse[3], and Specular[3].
// Size: 80 bytes (five vec4<f32>, std430 aligned).
type GPUPhongLight struct {
	Position  [4]float32 // offset  0: world position, w = cos(spot half-angle) (16 bytes)
	Direction [4]float32 // offset 16: direction, w unused (16 bytes)
	Ambient   [4]float32 // offset 32: ambient RGB, w = k_c (16 bytes)
	Diffuse   [4]float32 // offset 48: diffuse RGB, w = k_l (16 bytes)
	Specular  [4]float32 // offset 64: specular RGB, w = k_q (16 bytes)
}

// Size returns the size of the GPUPhongLight struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUPhongLight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUPhongLight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (g *GPUPhongLight) Marshal() []byte {
	buf := make([]byte, 80)
	putVec4(buf[0:], g.Position)
	putVec4(buf[16:], g.Direction)
	putVec4(buf[32:], g.Ambient)
	putVec4(buf[48:], g.Diffuse)
	putVec4(buf[64:], g.Specular)
	return buf
}

// FromLight packs a Light into its GPU representation.
//
// Parameters:
//   - l: the light to pack
//
// Returns:
//   - GPUPhongLight: the packed light
func FromLight(l Light) GPUPhongLight {
	g := GPUPhongLight{}
	pos := l.Position()
	dir := l.Direction()
	amb := l.Ambient()
	dif := l.Diffuse()
	spec := l.Specular()
	att := l.Attenuation()

	switch l.Type() {
	case LightTypeDirectional:
		g.Direction = [4]float32{dir[0], dir[1], dir[2], 0}
		g.Ambient = [4]float32{amb[0], amb[1], amb[2], 0}
		g.Diffuse = [4]float32{dif[0], dif[1], dif[2], 0}
		g.Specular = [4]float32{spec[0], spec[1], spec[2], 0}
	case LightTypePoint:
		g.Position = [4]float32{pos[0], pos[1], pos[2], 0}
		g.Ambient = [4]float32{amb[0], amb[1], amb[2], att[0]}
		g.Diffuse = [4]float32{dif[0], dif[1], dif[2], att[1]}
		g.Specular = [4]float32{spec[0], spec[1], spec[2], att[2]}
	case LightTypeSpot:
		g.Position = [4]float32{pos[0], pos[1], pos[2], l.SpotAngle()}
		g.Direction = [4]float32{dir[0], dir[1], dir[2], 0}
		g.Ambient = [4]float32{amb[0], amb[1], amb[2], att[0]}
		g.Diffuse = [4]float32{dif[0], dif[1], dif[2], att[1]}
		g.Specular = [4]float32{spec[0], spec[1], spec[2], att[2]}
	}
	return g
}

// LightHeaderSize is the byte size of the count header preceding the packed
// light array: num_directional, num_point, num_spot, size (four u32).
const LightHeaderSize = 16

// PackLights marshals the enabled lights into the storage buffer layout the
// shaders consume: a count header followed by every light flattened in
// [directional..., point..., spot...] order. Disabled lights are skipped.
//
// Parameters:
//   - lights: the scene lights to pack
//
// Returns:
//   - []byte: header plus 80 bytes per packed light, ready for GPU upload
func PackLights(lights []Light) []byte {
	var directional, point, spot []Light
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		switch l.Type() {
		case LightTypeDirectional:
			directional = append(directional, l)
		case LightTypePoint:
			point = append(point, l)
		case LightTypeSpot:
			spot = append(spot, l)
		}
	}

	total := len(directional) + len(point) + len(spot)
	buf := make([]byte, 0, LightHeaderSize+total*80)

	var header [LightHeaderSize]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(directional)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(point)))
	binary.LittleEndian.PutUint32(header[8:12], uint32(len(spot)))
	binary.LittleEndian.PutUint32(header[12:16], uint32(total))
	buf = append(buf, header[:]...)

	for _, group := range [][]Light{directional, point, spot} {
		for _, l := range group {
			g := FromLight(l)
			buf = append(buf, g.Marshal()...)
		}
	}
	return buf
}

// GPUShadowUniformSource is the canonical WGSL definition of the ShadowUniform
// struct carrying the cascade matrices and split distances.
// Matches GPUShadowUniform layout exactly (288 bytes, std430 aligned).
//
//go:embed assets/shadow_uniform.wgsl
var GPUShadowUniformSource string

// GPUShadowUniform is the GPU-aligned uniform for the cascaded shadow lookup:
// one light-space view-projection matrix per cascade plus the view-space far
// distance of each cascade for selection in the fragment shader.
// Size: 288 bytes (4 mat4x4 + 2 vec4, std430 aligned).
type GPUShadowUniform struct {
	Cascades     [MaxCascades][16]float32 // offset   0: light view-projection per cascade (256 bytes)
	FarDistances [4]float32               // offset 256: view-space far distance per cascade (16 bytes)
	CascadeCount uint32                   // offset 272: number of active cascades (4 bytes)
	MapSize      float32                  // offset 276: shadow map resolution in texels (4 bytes)
	_            [2]float32               // offset 280: padding to 16-byte alignment (8 bytes)
}

// Size returns the size of the GPUShadowUniform struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUShadowUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUShadowUniform struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 288-byte buffer ready for GPU upload.
func (g *GPUShadowUniform) Marshal() []byte {
	buf := make([]byte, 288)
	for c := 0; c < MaxCascades; c++ {
		for i := 0; i < 16; i++ {
			binary.LittleEndian.PutUint32(buf[c*64+i*4:], math.Float32bits(g.Cascades[c][i]))
		}
	}
	putVec4(buf[256:], g.FarDistances)
	binary.LittleEndian.PutUint32(buf[272:276], g.CascadeCount)
	binary.LittleEndian.PutUint32(buf[276:280], math.Float32bits(g.MapSize))
	return buf
}

func putVec4(buf []byte, v [4]float32) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v[3]))
}
