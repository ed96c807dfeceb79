package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOBJIndexedTriangle(t *testing.T) {
	src := `
# simple triangle
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	m, err := ParseOBJ("tri", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "tri", m.Name())
	assert.Equal(t, VertexArrayTypePN, m.ArrayType())
	assert.Equal(t, 3, m.VertexCount())
	assert.True(t, m.Indexed())
	assert.Equal(t, []uint32{0, 1, 2}, m.Indices())
}

func TestParseOBJQuadFanTriangulation(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`
	m, err := ParseOBJ("quad", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []uint32{0, 1, 2, 0, 2, 3}, m.Indices())
}

func TestParseOBJPerCornerAttributesExpand(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`
	m, err := ParseOBJ("textured", strings.NewReader(src))
	require.NoError(t, err)
	// Per-corner indices expand into non-indexed geometry.
	assert.False(t, m.Indexed())
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, VertexArrayTypePNUV, m.ArrayType())
}

func TestParseOBJNormalOnlyCorners(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	m, err := ParseOBJ("lit", strings.NewReader(src))
	require.NoError(t, err)
	assert.False(t, m.Indexed())
	assert.Equal(t, VertexArrayTypePN, m.ArrayType())
}

func TestParseOBJErrors(t *testing.T) {
	_, err := ParseOBJ("empty", strings.NewReader("# nothing here\n"))
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = ParseOBJ("bad-v", strings.NewReader("v 1 2\n"))
	assert.Error(t, err)

	_, err = ParseOBJ("bad-face", strings.NewReader("v 0 0 0\nf 1 2\n"))
	assert.Error(t, err)

	_, err = ParseOBJ("bad-index", strings.NewReader("v 0 0 0\nf x 1 1\n"))
	assert.Error(t, err)

	// Face referencing a vertex that does not exist.
	_, err = ParseOBJ("oob", strings.NewReader("v 0 0 0\nvt 0 0\nf 1/1 2/1 3/1\n"))
	assert.Error(t, err)
}

func TestLoadOBJMissingFile(t *testing.T) {
	_, err := LoadOBJ("missing", "/nonexistent/path.obj")
	assert.Error(t, err)
}
