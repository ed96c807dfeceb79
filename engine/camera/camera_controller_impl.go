package camera

import (
	"sync"

	"github.com/chewxy/math32"
)

// defaultPitchLimit keeps the view strictly off the poles so the world-up
// based view basis never degenerates.
const defaultPitchLimit = float32(math32.Pi/2 - 0.05)

// cameraControllerImpl is the fly-camera implementation of CameraController.
// Yaw and pitch define the view direction; movement translates the position
// along view-relative axes. All methods are safe for concurrent use so input
// callbacks and the render loop may touch the controller simultaneously.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position [3]float32

	yaw   float32 // Horizontal angle around Y axis, 0 faces -Z
	pitch float32 // Vertical angle from the horizontal plane

	pitchLimit float32

	moveSpeed        float32
	mouseSensitivity float32
	zoomSpeed        float32
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new fly camera controller with sensible
// defaults: positioned a few units back from the origin, looking at it.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: [3]float32{0, 2, 6},

		pitchLimit: defaultPitchLimit,

		moveSpeed:        0.25,
		mouseSensitivity: 0.005,
		zoomSpeed:        0.5,
	}

	// Default orientation faces the origin; options may override it.
	cc.lookAtLocked(0, 0, 0)

	for _, option := range options {
		option(cc)
	}
	cc.clampPitch()
	return cc
}

// --- internal helpers ---

// forwardLocked returns the unit view direction from yaw and pitch.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) forwardLocked() (x, y, z float32) {
	cosPitch := math32.Cos(cc.pitch)
	return cosPitch * math32.Sin(cc.yaw) * -1, math32.Sin(cc.pitch), cosPitch * math32.Cos(cc.yaw) * -1
}

// rightLocked returns the unit right axis, horizontal by construction.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) rightLocked() (x, y, z float32) {
	// right = cross(forward, worldUp) with worldUp = (0, 1, 0)
	fx, _, fz := cc.forwardLocked()
	length := math32.Sqrt(fx*fx + fz*fz)
	if length < 1e-8 {
		return 1, 0, 0
	}
	return -fz / length, 0, fx / length
}

// lookAtLocked solves yaw and pitch so the view faces a point.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) lookAtLocked(x, y, z float32) {
	dx := x - cc.position[0]
	dy := y - cc.position[1]
	dz := z - cc.position[2]
	horizontal := math32.Sqrt(dx*dx + dz*dz)
	if horizontal < 1e-8 && math32.Abs(dy) < 1e-8 {
		return
	}
	cc.yaw = math32.Atan2(-dx, -dz)
	cc.pitch = math32.Atan2(dy, horizontal)
	cc.clampPitch()
}

// clampPitch bounds the pitch to the configured limit.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) clampPitch() {
	if cc.pitch > cc.pitchLimit {
		cc.pitch = cc.pitchLimit
	}
	if cc.pitch < -cc.pitchLimit {
		cc.pitch = -cc.pitchLimit
	}
}

// --- CameraController implementation ---

func (cc *cameraControllerImpl) Position() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position[0], cc.position[1], cc.position[2]
}

func (cc *cameraControllerImpl) SetPosition(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[0] = x
	cc.position[1] = y
	cc.position[2] = z
}

func (cc *cameraControllerImpl) Target() (x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	fx, fy, fz := cc.forwardLocked()
	return cc.position[0] + fx, cc.position[1] + fy, cc.position[2] + fz
}

func (cc *cameraControllerImpl) LookAt(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.lookAtLocked(x, y, z)
}

func (cc *cameraControllerImpl) Yaw() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.yaw
}

func (cc *cameraControllerImpl) SetYaw(yaw float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw = yaw
}

func (cc *cameraControllerImpl) Pitch() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.pitch
}

func (cc *cameraControllerImpl) SetPitch(pitch float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pitch = pitch
	cc.clampPitch()
}

func (cc *cameraControllerImpl) Look(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.yaw -= dx * cc.mouseSensitivity
	cc.pitch -= dy * cc.mouseSensitivity
	cc.clampPitch()
}

func (cc *cameraControllerImpl) MoveForward(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	// Horizontal projection only, so forward motion never changes altitude.
	fx, _, fz := cc.forwardLocked()
	length := math32.Sqrt(fx*fx + fz*fz)
	if length < 1e-8 {
		return
	}
	offset := delta * cc.moveSpeed / length
	cc.position[0] += fx * offset
	cc.position[2] += fz * offset
}

func (cc *cameraControllerImpl) MoveRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	rx, _, rz := cc.rightLocked()
	offset := delta * cc.moveSpeed
	cc.position[0] += rx * offset
	cc.position[2] += rz * offset
}

func (cc *cameraControllerImpl) MoveUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position[1] += delta * cc.moveSpeed
}

func (cc *cameraControllerImpl) Dolly(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	fx, fy, fz := cc.forwardLocked()
	offset := delta * cc.zoomSpeed
	cc.position[0] += fx * offset
	cc.position[1] += fy * offset
	cc.position[2] += fz * offset
}

func (cc *cameraControllerImpl) MoveSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.moveSpeed
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}
