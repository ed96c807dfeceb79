package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwState holds the live GLFW window and its open flag.
type glfwState struct {
	window  *glfw.Window
	running bool
}

// open initializes GLFW, creates the window without an OpenGL context, and
// registers the input and resize callbacks.
func (w *engineWindow) open() error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}

	// The surface comes from WebGPU, so no GL context.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	st := &glfwState{window: win, running: true}
	w.glfw = st

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			st.running = false
			win.SetShouldClose(true)
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonMiddle {
			return
		}
		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			if w.onMiddleMouseDown != nil {
				w.onMiddleMouseDown(int32(x), int32(y))
			}
		case glfw.Release:
			if w.onMiddleMouseUp != nil {
				w.onMiddleMouseUp(int32(x), int32(y))
			}
		}
	})

	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.onMouseMove != nil {
			w.onMouseMove(int32(x), int32(y))
		}
	})

	// Resize reports framebuffer size, which is what the surface and the
	// render targets are configured from.
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	w.width, w.height = win.GetFramebufferSize()
	return nil
}

// SurfaceDescriptor bridges the GLFW window to a wgpu surface descriptor via
// wgpuglfw, which picks the right platform handle (Win32, X11, Wayland, Metal).
func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.glfw == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.glfw.window)
}

func (w *engineWindow) IsRunning() bool {
	return w.glfw != nil && w.glfw.running && !w.glfw.window.ShouldClose()
}

func (w *engineWindow) Close() error {
	if w.glfw == nil {
		return fmt.Errorf("window is not initialized")
	}
	w.glfw.running = false
	w.glfw.window.SetShouldClose(true)
	w.glfw.window.Destroy()
	glfw.Terminate()
	return nil
}

// poll pumps pending GLFW events without blocking.
func (w *engineWindow) poll() bool {
	glfw.PollEvents()
	return w.IsRunning()
}
