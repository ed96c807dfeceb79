package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVertexLayoutsVertexAndInstanceStreams(t *testing.T) {
	src := `
struct VertexInput {
	@location(0) position: vec3<f32>,
	@location(1) normal: vec3<f32>,
	@location(2) uv: vec2<f32>,
}

struct DrawInstance {
	@location(5) model_0: vec4<f32>,
	@location(6) model_1: vec4<f32>,
	@location(7) model_2: vec4<f32>,
	@location(8) model_3: vec4<f32>,
}
`
	layouts := parseVertexLayouts(src)
	require.Len(t, layouts, 2)

	vertex := layouts[0]
	require.Len(t, vertex, 1)
	assert.Equal(t, uint64(32), vertex[0].ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vertex[0].StepMode)
	require.Len(t, vertex[0].Attributes, 3)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vertex[0].Attributes[0].Format)
	assert.Equal(t, uint64(12), vertex[0].Attributes[1].Offset)
	assert.Equal(t, uint32(2), vertex[0].Attributes[2].ShaderLocation)
	assert.Equal(t, uint64(24), vertex[0].Attributes[2].Offset)

	// A struct named *Instance advances per instance.
	instance := layouts[1]
	require.Len(t, instance, 1)
	assert.Equal(t, wgpu.VertexStepModeInstance, instance[0].StepMode)
	assert.Equal(t, uint64(64), instance[0].ArrayStride)
	assert.Equal(t, uint32(5), instance[0].Attributes[0].ShaderLocation)
}

func TestParseVertexLayoutsSkipsOutputStructs(t *testing.T) {
	src := `
struct VertexOutput {
	@builtin(position) clip: vec4<f32>,
	@location(0) normal: vec3<f32>,
}

struct FragmentOutput {
	@location(0) color: vec4<f32>,
	@location(1) extra: vec4<f32>,
}
`
	layouts := parseVertexLayouts(src)
	assert.Empty(t, layouts, "builtin-carrying and *Output structs are not vertex inputs")
}

func TestParseBindGroupLayoutsBuffers(t *testing.T) {
	src := `
struct CameraUniform {
	view_proj: mat4x4<f32>,
	position: vec4<f32>,
}

@group(0) @binding(0) var<uniform> camera: CameraUniform;
@group(1) @binding(0) var<storage, read> lights: array<vec4<f32>>;
@group(1) @binding(1) var<storage, read_write> histogram: array<atomic<u32>>;
`
	layouts, varNames := parseBindGroupLayouts(src, wgpu.ShaderStageFragment)
	require.Len(t, layouts, 2)

	cam := layouts[0].Entries
	require.Len(t, cam, 1)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, cam[0].Buffer.Type)
	assert.Equal(t, wgpu.ShaderStageFragment, cam[0].Visibility)
	assert.Equal(t, uint64(80), cam[0].Buffer.MinBindingSize, "mat4x4 plus vec4")

	storage := layouts[1].Entries
	require.Len(t, storage, 2)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, storage[0].Buffer.Type)
	assert.Equal(t, uint64(16), storage[0].Buffer.MinBindingSize, "one element of the runtime array")
	assert.Equal(t, wgpu.BufferBindingTypeStorage, storage[1].Buffer.Type)

	assert.Equal(t, "camera", varNames[0][0])
	assert.Equal(t, "lights", varNames[1][0])
	assert.Equal(t, "histogram", varNames[1][1])
}

func TestParseBindGroupLayoutsTexturesAndSamplers(t *testing.T) {
	src := `
@group(0) @binding(0) var diffuse: texture_2d<f32>;
@group(0) @binding(1) var diffuse_sampler: sampler;
@group(0) @binding(2) var shadow_map: texture_depth_2d_array;
@group(0) @binding(3) var shadow_sampler: sampler_comparison;
@group(0) @binding(4) var sky: texture_cube<f32>;
@group(0) @binding(5) var occlusion: texture_storage_2d<rgba16float, write>;
`
	layouts, _ := parseBindGroupLayouts(src, wgpu.ShaderStageFragment)
	entries := layouts[0].Entries
	require.Len(t, entries, 6)

	assert.Equal(t, wgpu.TextureSampleTypeFloat, entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[0].Texture.ViewDimension)

	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entries[1].Sampler.Type)

	assert.Equal(t, wgpu.TextureSampleTypeDepth, entries[2].Texture.SampleType)
	assert.Equal(t, wgpu.TextureViewDimension2DArray, entries[2].Texture.ViewDimension)

	assert.Equal(t, wgpu.SamplerBindingTypeComparison, entries[3].Sampler.Type)

	assert.Equal(t, wgpu.TextureViewDimensionCube, entries[4].Texture.ViewDimension)

	assert.Equal(t, wgpu.TextureFormatRGBA16Float, entries[5].StorageTexture.Format)
	assert.Equal(t, wgpu.StorageTextureAccessWriteOnly, entries[5].StorageTexture.Access)
	assert.Equal(t, wgpu.TextureViewDimension2D, entries[5].StorageTexture.ViewDimension)
}

func TestParseBindGroupLayoutsSortsByBinding(t *testing.T) {
	src := `
@group(0) @binding(2) var<uniform> c: vec4<f32>;
@group(0) @binding(0) var<uniform> a: vec4<f32>;
@group(0) @binding(1) var<uniform> b: vec4<f32>;
`
	layouts, _ := parseBindGroupLayouts(src, wgpu.ShaderStageVertex)
	entries := layouts[0].Entries
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Binding)
	}
}

func TestParseWorkgroupSize(t *testing.T) {
	assert.Equal(t, [3]uint32{1, 1, 1}, parseWorkgroupSize("fn main() {}"))
	assert.Equal(t, [3]uint32{64, 1, 1}, parseWorkgroupSize("@compute @workgroup_size(64) fn main() {}"))
	assert.Equal(t, [3]uint32{8, 8, 1}, parseWorkgroupSize("@compute @workgroup_size(8, 8) fn main() {}"))
	assert.Equal(t, [3]uint32{4, 4, 2}, parseWorkgroupSize("@compute @workgroup_size(4, 4, 2) fn main() {}"))
}

func TestParseEntryPoint(t *testing.T) {
	src := `
@vertex
fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }

@fragment
fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(); }

@compute @workgroup_size(64)
fn cs_main() {}
`
	assert.Equal(t, "vs_main", parseEntryPoint(src, ShaderTypeVertex))
	assert.Equal(t, "fs_main", parseEntryPoint(src, ShaderTypeFragment))
	assert.Equal(t, "cs_main", parseEntryPoint(src, ShaderTypeCompute))
	assert.Equal(t, "", parseEntryPoint("fn plain() {}", ShaderTypeVertex))
}

func TestStripComments(t *testing.T) {
	src := "a // line comment\nb /* block */ c\n/* outer /* nested */ still gone */d"
	out := stripComments(src)
	assert.Contains(t, out, "a ")
	assert.Contains(t, out, "b  c")
	assert.Contains(t, out, "d")
	assert.NotContains(t, out, "comment")
	assert.NotContains(t, out, "nested")
}

func TestComputeStructSizesResolvesDependencies(t *testing.T) {
	src := `
struct Plane {
	normal: vec3<f32>,
	distance: f32,
}

struct Frustum {
	planes: array<Plane, 6>,
}
`
	structs := parseStructBlocks(stripComments(src))
	sizes := computeStructSizes(structs)

	require.Contains(t, sizes, "Plane")
	assert.Equal(t, uint64(16), sizes["Plane"].size, "vec3 pads to 16 with the trailing f32")
	require.Contains(t, sizes, "Frustum")
	assert.Equal(t, uint64(96), sizes["Frustum"].size)
}

func TestResolveTypeLayoutArrays(t *testing.T) {
	fixed, ok := resolveTypeLayout("array<vec4<f32>, 4>", nil)
	require.True(t, ok)
	assert.Equal(t, uint64(64), fixed.size)

	runtime, ok := resolveTypeLayout("array<mat4x4<f32>>", nil)
	require.True(t, ok)
	assert.Equal(t, uint64(64), runtime.size, "runtime arrays report one element stride")

	_, ok = resolveTypeLayout("Unknown", nil)
	assert.False(t, ok)
}
