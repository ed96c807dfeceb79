package common

// Key codes for input callbacks. Values match GLFW key codes, which use
// ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW = 87 // forward
	KeyA = 65 // strafe left
	KeyS = 83 // back
	KeyD = 68 // strafe right
	KeyQ = 81 // descend
	KeyE = 69 // ascend

	KeyB = 66
	KeyK = 75
	KeyO = 79
	KeyP = 80

	KeySpace = 32
	KeyEsc   = 256

	Key0 = 48
	Key1 = 49
	Key2 = 50
	Key3 = 51
	Key4 = 52
	Key5 = 53
	Key6 = 54
	Key7 = 55
	Key8 = 56
	Key9 = 57

	KeyLeftShift  = 340
	KeyRightShift = 344
)
