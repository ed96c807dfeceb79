package scene

import (
	"github.com/kiln3d/kiln/engine/game_object"
	"github.com/kiln3d/kiln/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithObjects adds initial objects to the scene's draw list.
// Objects without IDs will be assigned new IDs. Non-ephemeral objects are
// persisted in the registry; attached lights are auto-registered.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		for _, obj := range objects {
			if obj.ID() == 0 {
				obj.SetID(s.nextID)
				s.nextID++
			} else if obj.ID() >= s.nextID {
				s.nextID = obj.ID() + 1
			}
			s.drawList = append(s.drawList, obj)
			if !obj.Ephemeral() {
				s.registry[obj.ID()] = obj
			}
			if l := obj.Light(); l != nil {
				s.lights = append(s.lights, l)
				s.lightObjects = append(s.lightObjects, obj)
			}
		}
	}
}

// WithLights adds initial free-standing lights (lights not attached to any
// game object, like a sun) to the scene.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.lights = append(s.lights, lights...)
	}
}

// WithBatchWorkers sets the number of worker goroutines used during the
// parallel instance-packing phase of Batch. Defaults to runtime.NumCPU()-1.
// Higher values may improve throughput for scenes with many thousands of
// instances; lower values reduce scheduling overhead for simple scenes.
//
// Parameters:
//   - n: the number of batch workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBatchWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.batchWorkers = n
	}
}

// WithCullingDisabled disables CPU frustum culling for the scene. When set to
// true, every enabled object is batched regardless of the camera frustum.
// By default culling is enabled (disabled = false).
//
// Parameters:
//   - disabled: true to disable frustum culling, false to enable it (default)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithAmbientColor sets the scene's ambient light color.
// Default is a dim gray (0.1, 0.1, 0.1).
//
// Parameters:
//   - color: the ambient RGB color
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAmbientColor(color [3]float32) SceneBuilderOption {
	return func(s *scene) {
		s.ambientColor = color
	}
}
