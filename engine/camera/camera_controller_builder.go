package camera

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial camera position.
//
// Parameters:
//   - x: X coordinate of the camera
//   - y: Y coordinate of the camera
//   - z: Z coordinate of the camera
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position[0] = x
		cc.position[1] = y
		cc.position[2] = z
	}
}

// WithLookAt orients the controller toward a world-space point. Pass this
// after WithPosition so the orientation is solved from the final position.
//
// Parameters:
//   - x: X coordinate of the point to face
//   - y: Y coordinate of the point to face
//   - z: Z coordinate of the point to face
//
// Returns:
//   - CameraControllerOption: functional option to set the orientation
func WithLookAt(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.lookAtLocked(x, y, z)
	}
}

// WithYaw sets the initial horizontal view angle around the Y axis.
//
// Parameters:
//   - yaw: horizontal angle in radians (0 faces -Z)
//
// Returns:
//   - CameraControllerOption: functional option to set the yaw
func WithYaw(yaw float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.yaw = yaw
	}
}

// WithPitch sets the initial vertical view angle from the horizontal plane.
//
// Parameters:
//   - pitch: vertical angle in radians (positive looks up)
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch
func WithPitch(pitch float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.pitch = pitch
	}
}

// WithPitchLimit sets the maximum absolute pitch angle.
//
// Parameters:
//   - limit: maximum pitch magnitude in radians (must stay below pi/2)
//
// Returns:
//   - CameraControllerOption: functional option to set the pitch limit
func WithPitchLimit(limit float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if limit > 0 && limit < defaultPitchLimit {
			cc.pitchLimit = limit
		}
	}
}

// WithMoveSpeed sets the translation speed.
//
// Parameters:
//   - speed: world units per move call
//
// Returns:
//   - CameraControllerOption: functional option to set the move speed
func WithMoveSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.moveSpeed = speed
	}
}

// WithMouseSensitivity sets the mouse look sensitivity.
//
// Parameters:
//   - sensitivity: radians per pixel of mouse movement
//
// Returns:
//   - CameraControllerOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the dolly speed multiplier.
//
// Parameters:
//   - speed: multiplier for dolly input
//
// Returns:
//   - CameraControllerOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
