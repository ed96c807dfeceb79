package shader

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessPassThrough(t *testing.T) {
	src := "fn main() {}\n"
	out, err := NewPreProcessor().Process(src, nil)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestProcessIfdefKeepsDefinedBranch(t *testing.T) {
	src := `#ifdef NORMAL_MAP
mapped
#else
plain
#endif`
	out, err := NewPreProcessor().Process(src, map[string]string{"NORMAL_MAP": "1"})
	require.NoError(t, err)
	assert.Contains(t, out, "mapped")
	assert.NotContains(t, out, "plain")

	out, err = NewPreProcessor().Process(src, nil)
	require.NoError(t, err)
	assert.NotContains(t, out, "mapped")
	assert.Contains(t, out, "plain")
}

func TestProcessIfdefEmptyValueCountsAsDefined(t *testing.T) {
	src := "#ifdef FLAG\nyes\n#endif"
	out, err := NewPreProcessor().Process(src, map[string]string{"FLAG": ""})
	require.NoError(t, err)
	assert.Contains(t, out, "yes")
}

func TestProcessNestedIfdef(t *testing.T) {
	src := `#ifdef OUTER
#ifdef INNER
both
#else
outer only
#endif
#endif`
	out, err := NewPreProcessor().Process(src, map[string]string{"OUTER": "1", "INNER": "1"})
	require.NoError(t, err)
	assert.Contains(t, out, "both")

	out, err = NewPreProcessor().Process(src, map[string]string{"OUTER": "1"})
	require.NoError(t, err)
	assert.Contains(t, out, "outer only")

	out, err = NewPreProcessor().Process(src, map[string]string{"INNER": "1"})
	require.NoError(t, err)
	assert.Equal(t, "", strings.TrimSpace(out), "inner branch is dead when outer is undefined")
}

func TestProcessUnbalancedConditionals(t *testing.T) {
	_, err := NewPreProcessor().Process("#ifdef A\nbody", nil)
	assert.Error(t, err)

	_, err = NewPreProcessor().Process("#endif", nil)
	assert.Error(t, err)

	_, err = NewPreProcessor().Process("#else", nil)
	assert.Error(t, err)

	_, err = NewPreProcessor().Process("#ifdef\n#endif", nil)
	assert.Error(t, err, "#ifdef requires a name")
}

func TestProcessInclude(t *testing.T) {
	out, err := NewPreProcessor().Process(`#include "camera"`, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "CameraUniform")

	_, err = NewPreProcessor().Process(`#include "nope"`, nil)
	assert.Error(t, err)

	_, err = NewPreProcessor().Process(`#include camera`, nil)
	assert.Error(t, err, "include key must be quoted")
}

func TestProcessIncludeInsideDeadBranch(t *testing.T) {
	src := "#ifdef NEVER\n#include \"nope\"\n#endif\nok"
	out, err := NewPreProcessor().Process(src, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestProcessInterpolation(t *testing.T) {
	src := "const KERNEL_SIZE: u32 = #{SSAO_SAMPLES_CNT}u;"
	out, err := NewPreProcessor().Process(src, map[string]string{"SSAO_SAMPLES_CNT": "64"})
	require.NoError(t, err)
	assert.Equal(t, "const KERNEL_SIZE: u32 = 64u;", out)

	_, err = NewPreProcessor().Process(src, nil)
	assert.Error(t, err, "missing define for interpolation token")

	_, err = NewPreProcessor().Process("#{BROKEN", map[string]string{"BROKEN": "1"})
	assert.Error(t, err, "unterminated token")
}

func TestProcessMultipleTokensPerLine(t *testing.T) {
	out, err := NewPreProcessor().Process("#{A}+#{B}", map[string]string{"A": "1", "B": "2"})
	require.NoError(t, err)
	assert.Equal(t, "1+2", out)
}
