package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

const controllerEpsilon = 1e-4

func TestNewCameraControllerDefaults(t *testing.T) {
	cc := NewCameraController()

	x, y, z := cc.Position()
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(2), y)
	assert.Equal(t, float32(6), z)

	// The default orientation faces the origin.
	tx, ty, tz := cc.Target()
	px, py, pz := cc.Position()
	fwd := [3]float32{tx - px, ty - py, tz - pz}
	toOrigin := [3]float32{-px, -py, -pz}
	length := math32.Sqrt(toOrigin[0]*toOrigin[0] + toOrigin[1]*toOrigin[1] + toOrigin[2]*toOrigin[2])
	assert.InDelta(t, toOrigin[0]/length, fwd[0], controllerEpsilon)
	assert.InDelta(t, toOrigin[1]/length, fwd[1], controllerEpsilon)
	assert.InDelta(t, toOrigin[2]/length, fwd[2], controllerEpsilon)
}

func TestLookAtSolvesYawPitch(t *testing.T) {
	cc := NewCameraController(WithPosition(0, 0, 0), WithLookAt(0, 0, -5))
	assert.InDelta(t, 0, cc.Yaw(), controllerEpsilon, "straight down -Z is yaw 0")
	assert.InDelta(t, 0, cc.Pitch(), controllerEpsilon)

	cc.LookAt(-5, 0, 0)
	assert.InDelta(t, math32.Pi/2, cc.Yaw(), controllerEpsilon, "-X is a quarter turn left")

	cc.SetYaw(0)
	cc.LookAt(0, 5, -5)
	assert.InDelta(t, math32.Pi/4, cc.Pitch(), controllerEpsilon, "45 degrees up")
}

func TestTargetIsUnitForwardFromPosition(t *testing.T) {
	cc := NewCameraController(WithPosition(1, 2, 3), WithYaw(0), WithPitch(0))
	tx, ty, tz := cc.Target()
	assert.InDelta(t, 1, tx, controllerEpsilon)
	assert.InDelta(t, 2, ty, controllerEpsilon)
	assert.InDelta(t, 2, tz, controllerEpsilon, "yaw 0 faces -Z")
}

func TestPitchClamp(t *testing.T) {
	cc := NewCameraController()
	cc.SetPitch(10)
	assert.InDelta(t, math32.Pi/2-0.05, cc.Pitch(), controllerEpsilon)
	cc.SetPitch(-10)
	assert.InDelta(t, -(math32.Pi/2 - 0.05), cc.Pitch(), controllerEpsilon)
}

func TestWithPitchLimit(t *testing.T) {
	cc := NewCameraController(WithPitchLimit(0.5))
	cc.SetPitch(2)
	assert.InDelta(t, 0.5, cc.Pitch(), controllerEpsilon)

	// Out-of-range limits are ignored and the default applies.
	loose := NewCameraController(WithPitchLimit(3))
	loose.SetPitch(2)
	assert.InDelta(t, math32.Pi/2-0.05, loose.Pitch(), controllerEpsilon)
}

func TestLookScalesBySensitivity(t *testing.T) {
	cc := NewCameraController(
		WithPosition(0, 0, 0),
		WithYaw(0),
		WithPitch(0),
		WithMouseSensitivity(0.01),
	)
	cc.Look(100, -50)
	assert.InDelta(t, -1, cc.Yaw(), controllerEpsilon, "rightward drag turns right")
	assert.InDelta(t, 0.5, cc.Pitch(), controllerEpsilon, "upward drag looks up")
}

func TestMoveForwardStaysHorizontal(t *testing.T) {
	cc := NewCameraController(
		WithPosition(0, 5, 0),
		WithYaw(0),
		WithPitch(0.8),
		WithMoveSpeed(1),
	)
	cc.MoveForward(2)
	x, y, z := cc.Position()
	assert.InDelta(t, 0, x, controllerEpsilon)
	assert.InDelta(t, 5, y, controllerEpsilon, "altitude is unchanged")
	assert.InDelta(t, -2, z, controllerEpsilon, "full speed along the horizontal heading")
}

func TestMoveRightAndUp(t *testing.T) {
	cc := NewCameraController(
		WithPosition(0, 0, 0),
		WithYaw(0),
		WithPitch(0),
		WithMoveSpeed(0.5),
	)
	cc.MoveRight(1)
	x, y, z := cc.Position()
	assert.InDelta(t, 0.5, x, controllerEpsilon, "yaw 0 strafes along +X")
	assert.InDelta(t, 0, y, controllerEpsilon)
	assert.InDelta(t, 0, z, controllerEpsilon)

	cc.MoveUp(-2)
	_, y, _ = cc.Position()
	assert.InDelta(t, -1, y, controllerEpsilon)
}

func TestDollyFollowsFullForward(t *testing.T) {
	cc := NewCameraController(
		WithPosition(0, 0, 0),
		WithYaw(0),
		WithPitch(math32.Pi/4),
		WithZoomSpeed(1),
	)
	cc.Dolly(math32.Sqrt2)
	x, y, z := cc.Position()
	assert.InDelta(t, 0, x, controllerEpsilon)
	assert.InDelta(t, 1, y, controllerEpsilon, "dolly climbs when pitched up")
	assert.InDelta(t, -1, z, controllerEpsilon)
}
