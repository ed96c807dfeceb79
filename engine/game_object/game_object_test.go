package game_object

import (
	"testing"

	"github.com/kiln3d/kiln/engine/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGameObjectDefaults(t *testing.T) {
	obj := NewGameObject(WithID(7))
	assert.Equal(t, uint64(7), obj.ID())
	assert.True(t, obj.Enabled())
	assert.False(t, obj.Ephemeral())
	assert.True(t, obj.Dirty(), "new objects need their instance packed")

	sx, sy, sz := obj.Scale()
	assert.Equal(t, float32(1), sx)
	assert.Equal(t, float32(1), sy)
	assert.Equal(t, float32(1), sz)
}

func TestDirtyTracking(t *testing.T) {
	obj := NewGameObject()
	obj.ClearDirty()
	assert.False(t, obj.Dirty())

	obj.SetPosition(1, 2, 3)
	assert.True(t, obj.Dirty())
	obj.ClearDirty()

	obj.SetRotationSpeed(0, 1, 0)
	assert.False(t, obj.Dirty(), "speed alone does not move the object")

	obj.Advance(0.5)
	assert.True(t, obj.Dirty())
	_, ry, _ := obj.Rotation()
	assert.InDelta(t, 0.5, ry, 1e-5)
}

func TestAdvanceWithoutSpeedIsNoOp(t *testing.T) {
	obj := NewGameObject()
	obj.ClearDirty()
	obj.Advance(1)
	assert.False(t, obj.Dirty())
}

func TestModelMatrixTranslation(t *testing.T) {
	obj := NewGameObject(WithPosition(3, 4, 5), WithScale(2, 2, 2))
	m := obj.ModelMatrix()
	assert.Equal(t, float32(3), m[12])
	assert.Equal(t, float32(4), m[13])
	assert.Equal(t, float32(5), m[14])
	assert.Equal(t, float32(2), m[0], "scale on the diagonal with no rotation")
}

func TestInstanceNormalMatrixUndoesNonUniformScale(t *testing.T) {
	obj := NewGameObject(WithScale(2, 1, 1))
	inst := obj.Instance()

	// The normal matrix is the inverse-transpose: a 2x scale on X becomes 0.5.
	assert.InDelta(t, 0.5, inst.Normal[0], 1e-5)
	assert.InDelta(t, 1, inst.Normal[5], 1e-5)
}

func TestLightAttachment(t *testing.T) {
	l := light.NewLight(light.LightTypePoint)
	obj := NewGameObject(WithLight(l))
	require.NotNil(t, obj.Light())
	assert.Same(t, l, obj.Light())

	obj.SetLight(nil)
	assert.Nil(t, obj.Light())
}
