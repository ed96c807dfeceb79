package camera

// CameraController defines the interface for camera control systems. The
// controller owns the positional state (position, yaw, pitch); Camera reads
// Position and Target from it and computes the view matrix.
//
// The built-in implementation is a fly controller: yaw and pitch come from
// mouse look, movement happens along the view-relative forward, right, and
// world-up axes.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - x, y, z: world-space camera position
	Position() (x, y, z float32)

	// SetPosition sets the camera's world-space position directly.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Target returns the look-at point, one unit along the view direction.
	//
	// Returns:
	//   - x, y, z: world-space target position
	Target() (x, y, z float32)

	// LookAt orients the controller toward a world-space point by solving yaw
	// and pitch from the current position.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates to face
	LookAt(x, y, z float32)

	// Yaw returns the horizontal view angle around the Y axis.
	//
	// Returns:
	//   - float32: yaw in radians (0 = -Z)
	Yaw() float32

	// SetYaw sets the horizontal view angle directly.
	//
	// Parameters:
	//   - yaw: new horizontal angle in radians
	SetYaw(yaw float32)

	// Pitch returns the vertical view angle from the horizontal plane.
	//
	// Returns:
	//   - float32: pitch in radians (positive looks up)
	Pitch() float32

	// SetPitch sets the vertical view angle, clamped to the pitch limit.
	//
	// Parameters:
	//   - pitch: new vertical angle in radians
	SetPitch(pitch float32)

	// Look applies a mouse-look delta: dx turns, dy tilts, both scaled by
	// MouseSensitivity. Pitch is clamped so the view never flips over.
	//
	// Parameters:
	//   - dx: horizontal mouse delta in pixels
	//   - dy: vertical mouse delta in pixels (positive looks down)
	Look(dx, dy float32)

	// MoveForward translates along the horizontal projection of the view
	// direction. Positive delta moves forward, negative backward.
	//
	// Parameters:
	//   - delta: movement amount scaled by MoveSpeed
	MoveForward(delta float32)

	// MoveRight strafes along the camera's right axis.
	//
	// Parameters:
	//   - delta: movement amount scaled by MoveSpeed
	MoveRight(delta float32)

	// MoveUp translates along the world up axis.
	//
	// Parameters:
	//   - delta: movement amount scaled by MoveSpeed
	MoveUp(delta float32)

	// Dolly translates along the full view direction, including its vertical
	// component. Positive delta moves toward what the camera looks at.
	//
	// Parameters:
	//   - delta: movement amount scaled by ZoomSpeed
	Dolly(delta float32)

	// MoveSpeed returns the translation speed in world units per move call.
	//
	// Returns:
	//   - float32: multiplier for movement input
	MoveSpeed() float32

	// MouseSensitivity returns the mouse look sensitivity multiplier.
	//
	// Returns:
	//   - float32: radians per pixel of mouse movement
	MouseSensitivity() float32

	// ZoomSpeed returns the dolly speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for dolly input
	ZoomSpeed() float32
}
