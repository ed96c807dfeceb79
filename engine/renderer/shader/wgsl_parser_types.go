package shader

import "github.com/cogentcore/webgpu/wgpu"

// vertexFormatInfo pairs a wgpu vertex format with its byte width, used when
// laying attribute offsets out across a vertex struct.
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo describes a sampled texture type's view dimension and
// whether it is multisampled.
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout is the byte size and alignment of a WGSL type under WGSL's
// memory layout rules. Buffer MinBindingSize values derive from these.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField is one field of a reflected WGSL struct. location is -1 when
// the field has no @location attribute.
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct is a reflected WGSL struct block.
type parsedStruct struct {
	name   string
	fields []parsedField
}
