package passes

import (
	"bytes"
	"encoding/binary"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer"
	"github.com/kiln3d/kiln/engine/renderer/bind_group_provider"
	"github.com/kiln3d/kiln/engine/renderer/material"
	"github.com/kiln3d/kiln/engine/renderer/shader"

	"github.com/chewxy/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVertexDefine(t *testing.T) {
	assert.Equal(t, "VERTEX_PN", vertexDefine(model.VertexArrayTypePN))
	assert.Equal(t, "VERTEX_PNUV", vertexDefine(model.VertexArrayTypePNUV))
	assert.Equal(t, "VERTEX_PNTBUV", vertexDefine(model.VertexArrayTypePNTBUV))
}

func TestMaterialDefines(t *testing.T) {
	solid := map[string]string{}
	materialDefines(material.KindPhongSolid, solid)
	assert.Equal(t, map[string]string{"MATERIAL_PHONG_SOLID": "1"}, solid)

	textured := map[string]string{}
	materialDefines(material.KindPhongTextured, textured)
	assert.Equal(t, map[string]string{"MATERIAL_PHONG_TEXTURED": "1"}, textured)

	normalMapped := map[string]string{}
	materialDefines(material.KindPhongTexturedNormal, normalMapped)
	assert.Equal(t, map[string]string{
		"MATERIAL_PHONG_TEXTURED": "1",
		"NORMAL_MAP":              "1",
	}, normalMapped)
}

func TestDrawVariantsTexturedKindsRequireUVs(t *testing.T) {
	require.Len(t, drawVariants, 7)
	for _, v := range drawVariants {
		assert.True(t, validVariant(v.arrayType, v.kind))
		if v.arrayType == model.VertexArrayTypePN {
			assert.Equal(t, material.KindPhongSolid, v.kind,
				"positions and normals alone cannot sample textures")
		}
	}
}

func TestVariantDefinesPerShader(t *testing.T) {
	gbuffer := variantDefines(shader.NameGBuffer, model.VertexArrayTypePNUV, material.KindPhongTextured)
	assert.Equal(t, map[string]string{
		"VERTEX_PNUV":             "1",
		"DEFERRED":                "1",
		"MATERIAL_PHONG_TEXTURED": "1",
	}, gbuffer)

	forward := variantDefines(shader.NameForward, model.VertexArrayTypePN, material.KindPhongSolid)
	assert.Equal(t, map[string]string{
		"VERTEX_PN":            "1",
		"SHADOW_MAP":           "1",
		"MATERIAL_PHONG_SOLID": "1",
	}, forward)

	// Depth-only shaders carry just the vertex layout define.
	shadow := variantDefines(shader.NameCSMDepth, model.VertexArrayTypePNTBUV, material.KindPhongTexturedNormal)
	assert.Equal(t, map[string]string{"VERTEX_PNTBUV": "1"}, shadow)
}

func TestVariantKeyIsDeterministic(t *testing.T) {
	a := variantKey(shader.NameGBuffer, model.VertexArrayTypePNUV, material.KindPhongTexturedNormal)
	b := variantKey(shader.NameGBuffer, model.VertexArrayTypePNUV, material.KindPhongTexturedNormal)
	assert.Equal(t, a, b)

	other := variantKey(shader.NameGBuffer, model.VertexArrayTypePNUV, material.KindPhongTextured)
	assert.NotEqual(t, a, other)

	expected := shader.VariantKey(shader.NameGBuffer,
		variantDefines(shader.NameGBuffer, model.VertexArrayTypePNUV, material.KindPhongTexturedNormal))
	assert.Equal(t, expected, a)
}

func TestSSAOKernelProperties(t *testing.T) {
	const count = 16
	samples := ssaoKernel(count)
	require.Len(t, samples, count)

	for i, s := range samples {
		assert.GreaterOrEqual(t, s[2], float32(0), "samples stay in the upper hemisphere")

		// Each sample is unit-normalized then scaled toward the rim.
		scale := 0.1 + (float32(i+1)/float32(count))*0.9
		length := math32.Sqrt(s[0]*s[0] + s[1]*s[1] + s[2]*s[2])
		assert.InDelta(t, scale, length, 1e-5)
	}

	again := ssaoKernel(count)
	assert.Equal(t, samples, again, "the kernel is seeded and reproducible")
}

func TestSSAOKernelBytesLayout(t *testing.T) {
	const count = 8
	const radius float32 = 0.75
	buf := ssaoKernelBytes(count, radius)

	// count vec4 samples plus one trailing vec4 of radius, bias, padding.
	require.Len(t, buf, (count*4+4)*4)

	tail := count * 16
	gotRadius := math.Float32frombits(binary.LittleEndian.Uint32(buf[tail:]))
	gotBias := math.Float32frombits(binary.LittleEndian.Uint32(buf[tail+4:]))
	assert.Equal(t, radius, gotRadius)
	assert.Equal(t, DefaultSSAOBias, gotBias)

	// The w component of every sample is zero padding.
	for i := 0; i < count; i++ {
		w := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*16+12:]))
		assert.Zero(t, w)
	}
}

func TestSSAONoiseTileProperties(t *testing.T) {
	vectors := ssaoNoise()
	require.Len(t, vectors, ssaoNoiseSize*ssaoNoiseSize)

	for _, v := range vectors {
		length := math32.Sqrt(v[0]*v[0] + v[1]*v[1])
		assert.InDelta(t, 1.0, length, 1e-5, "rotation vectors are unit length")
	}

	assert.Equal(t, vectors, ssaoNoise(), "the noise tile is seeded and reproducible")
}

func TestSSAONoiseBytesEncoding(t *testing.T) {
	buf := ssaoNoiseBytes()
	require.Len(t, buf, ssaoNoiseSize*ssaoNoiseSize*4)

	for i := 0; i < len(buf); i += 4 {
		// Undo the [-1, 1] to RGBA8 mapping the shader reverses on load.
		x := float32(buf[i])/255*2 - 1
		y := float32(buf[i+1])/255*2 - 1
		length := math32.Sqrt(x*x + y*y)
		assert.InDelta(t, 1.0, length, 0.02)
		assert.Zero(t, buf[i+2])
		assert.EqualValues(t, 0xFF, buf[i+3])
	}
}

func TestGBufferPipelineState(t *testing.T) {
	compiler := shader.NewCompiler()
	defines := variantDefines(shader.NameGBuffer, model.VertexArrayTypePNUV, material.KindPhongTextured)
	vs := compiler.Compile(shader.NameGBuffer, shader.ShaderTypeVertex, shader.GBufferSource, defines)
	fs := compiler.Compile(shader.NameGBuffer, shader.ShaderTypeFragment, shader.GBufferSource, defines)

	p := gbufferPipeline("gbuffer_test", vs, fs)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, p.DepthCompare())
	assert.Equal(t, wgpu.CullModeBack, p.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, p.FrontFace())
	assert.Equal(t, DepthFormat, p.DepthFormat())
	assert.Equal(t,
		[]wgpu.TextureFormat{GBufferNormalFormat, GBufferColorFormat, GBufferColorFormat},
		p.ColorTargetFormats())
}

// stubRenderer fails every pipeline bind so record paths exercise their
// degraded branch without a GPU.
type stubRenderer struct {
	renderer.Renderer
	bindErr error
	passes  []string
}

func (s *stubRenderer) BeginRenderPass(label string, colors []renderer.ColorAttachment, depth *renderer.DepthAttachment) {
	s.passes = append(s.passes, label)
}

func (s *stubRenderer) EndRenderPass() {}

func (s *stubRenderer) BindPipeline(key string) error {
	return s.bindErr
}

func TestRecordLogsMissingPipeline(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	rnd := &stubRenderer{bindErr: errors.New("pipeline not registered")}
	tg := &targets{}

	ssao := &ssaoPass{pipelineKey: "missing"}
	ssao.record(rnd, tg, nil, log)

	post := &postProcessPass{pipelineKey: "missing"}
	post.record(rnd, nil, log)

	sky := &skyboxPass{
		pipelineKey: "missing",
		provider:    bind_group_provider.NewBindGroupProvider("skybox"),
	}
	sky.record(rnd, tg, nil, log)

	assert.Equal(t, []string{"ssao", "postprocess", "skybox"}, rnd.passes,
		"every pass still opens and closes")
	out := buf.String()
	assert.Contains(t, out, "skipping ssao pass")
	assert.Contains(t, out, "skipping postprocess blit")
	assert.Contains(t, out, "skipping skybox")
}

func TestClampFilterSize(t *testing.T) {
	assert.Equal(t, 1, clampFilterSize(0))
	assert.Equal(t, 1, clampFilterSize(-3))
	assert.Equal(t, 4, clampFilterSize(4))
	assert.Equal(t, 32, clampFilterSize(32))
	assert.Equal(t, 32, clampFilterSize(100))
}

func TestDispatchCountRoundsUp(t *testing.T) {
	assert.Equal(t, uint32(1), dispatchCount(1, 8))
	assert.Equal(t, uint32(1), dispatchCount(8, 8))
	assert.Equal(t, uint32(2), dispatchCount(9, 8))
	assert.Equal(t, uint32(135), dispatchCount(1080, 8))
	assert.Equal(t, uint32(1), dispatchCount(64, 0), "zero block size degrades to one group")
}
