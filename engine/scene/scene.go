package scene

import (
	"runtime"
	"sync"

	"github.com/kiln3d/kiln/engine/camera"
	"github.com/kiln3d/kiln/engine/game_object"
	"github.com/kiln3d/kiln/engine/light"
)

// Scene manages the renderable world: a registry of GameObjects, the light
// list, the camera, and a Batcher that compiles the object set into instanced
// draw batches each frame. Scenes can be hot-swapped via the Active flag to
// switch between different views or levels. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Count returns the number of persisted GameObjects in the scene's
	// registry. Does not include ephemeral objects.
	//
	// Returns:
	//   - int: count of non-ephemeral GameObjects in the registry
	Count() int

	// Add adds a GameObject to the scene's draw list, assigning an ID if the
	// object has none. The object's material is registered in the batcher's
	// atlas and any attached light is registered in the light list. If the
	// object is not ephemeral it is also persisted in the registry for later
	// lookup or removal by ID.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the assigned object ID
	Add(obj game_object.GameObject) uint64

	// Get retrieves a non-ephemeral GameObject by its ID.
	// Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes a GameObject from the registry and draw list by ID, and
	// detaches its light if one was auto-registered.
	//
	// Parameters:
	//   - id: the object's unique ID
	Remove(id uint64)

	// Clear removes all objects from the scene. Lights added directly via
	// AddLight are kept; lights that arrived attached to objects are removed.
	Clear()

	// Objects returns the scene's draw list in stable Add order.
	//
	// Returns:
	//   - []game_object.GameObject: the draw list
	Objects() []game_object.GameObject

	// Update advances per-object animation (rotation speed), recomputes the
	// camera matrices, and syncs attached light positions from their objects.
	// Call once per frame before Batch.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	Update(deltaTime float32)

	// Batch rebuilds the draw batches from the current object set. The view
	// batches cull against the camera frustum unless culling is disabled;
	// the batcher's shadow batches always cover the full object set.
	//
	// Returns:
	//   - bool: true if the instance buffer contents changed
	Batch() bool

	// Batcher returns the scene's draw-call batcher.
	//
	// Returns:
	//   - Batcher: the batcher
	Batcher() Batcher

	// CullingDisabled returns whether CPU frustum culling is disabled.
	//
	// Returns:
	//   - bool: true if culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled enables or disables CPU frustum culling.
	//
	// Parameters:
	//   - disabled: true to disable culling, false to enable it
	SetCullingDisabled(disabled bool)

	// AddLight adds a light source to the scene. Lights are culled against the
	// camera frustum and marshaled into a GPU storage buffer each frame.
	//
	// Parameters:
	//   - l: the Light to add
	AddLight(l light.Light)

	// RemoveLight removes a light source from the scene by reference.
	//
	// Parameters:
	//   - l: the Light to remove
	RemoveLight(l light.Light)

	// DetachLight removes a game object's attached light from the scene's
	// tracking and light lists. Non-ephemeral objects are cleaned up
	// automatically via Remove, but ephemeral object owners must call this
	// explicitly when the object's lifetime ends.
	//
	// Parameters:
	//   - obj: the GameObject whose attached light should be detached
	DetachLight(obj game_object.GameObject)

	// Lights returns all lights currently registered in the scene.
	//
	// Returns:
	//   - []light.Light: the scene's light list
	Lights() []light.Light

	// VisibleLights returns the enabled lights that may affect the current
	// camera frustum: directional lights always, point and spot lights only
	// when their range sphere intersects the frustum.
	//
	// Returns:
	//   - []light.Light: the culled light list
	VisibleLights() []light.Light

	// ShadowLight returns the first enabled directional light that casts
	// shadows, or nil if none exists.
	//
	// Returns:
	//   - light.Light: the shadow-casting light or nil
	ShadowLight() light.Light

	// AmbientColor returns the scene's ambient light color.
	//
	// Returns:
	//   - [3]float32: the ambient RGB color
	AmbientColor() [3]float32

	// SetAmbientColor sets the scene's ambient light color.
	//
	// Parameters:
	//   - color: the ambient RGB color
	SetAmbientColor(color [3]float32)
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	drawList []game_object.GameObject
	registry map[uint64]game_object.GameObject // non-ephemeral objects by ID
	nextID   uint64

	cam     camera.Camera
	batcher Batcher

	cullingDisabled bool

	lights       []light.Light
	lightObjects []game_object.GameObject // objects with attached lights
	ambientColor [3]float32

	batchWorkers int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera. The camera is required
// and NewScene panics if it is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:           &sync.RWMutex{},
		name:         name,
		active:       false,
		cam:          cam,
		registry:     make(map[uint64]game_object.GameObject),
		nextID:       1,
		ambientColor: [3]float32{0.1, 0.1, 0.1},
		batchWorkers: max(runtime.NumCPU()-1, 1),
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the batcher after options so WithBatchWorkers can override
	// the default.
	s.batcher = NewBatcher(s.batchWorkers)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

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

	// Auto-register attached lights so callers don't need a separate AddLight.
	if l := obj.Light(); l != nil {
		s.lights = append(s.lights, l)
		s.lightObjects = append(s.lightObjects, obj)
	}

	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registry[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.registry[id]
	if !ok {
		return
	}
	delete(s.registry, id)

	for i, o := range s.drawList {
		if o == obj {
			s.drawList = append(s.drawList[:i], s.drawList[i+1:]...)
			break
		}
	}
	s.detachLightLocked(obj)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, obj := range s.drawList {
		s.detachLightLocked(obj)
	}
	s.drawList = nil
	s.registry = make(map[uint64]game_object.GameObject)
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, len(s.drawList))
	copy(out, s.drawList)
	return out
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cam != nil {
		s.cam.Update()
	}

	for _, obj := range s.drawList {
		if obj.Enabled() {
			obj.Advance(deltaTime)
		}
	}

	// Sync attached lights: copy each game object's world position to its light.
	for _, obj := range s.lightObjects {
		if l := obj.Light(); l != nil && obj.Enabled() {
			x, y, z := obj.Position()
			l.SetPosition(x, y, z)
		}
	}
}

func (s *scene) Batch() bool {
	s.mu.RLock()
	objects := s.drawList
	cam := s.cam
	disabled := s.cullingDisabled
	s.mu.RUnlock()

	if disabled || cam == nil {
		return s.batcher.Rebuild(objects, nil)
	}
	frustum := cam.Frustum()
	return s.batcher.Rebuild(objects, &frustum)
}

func (s *scene) Batcher() Batcher {
	return s.batcher
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) AddLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

func (s *scene) DetachLight(obj game_object.GameObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.detachLightLocked(obj)
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]light.Light, len(s.lights))
	copy(out, s.lights)
	return out
}

func (s *scene) VisibleLights() []light.Light {
	s.mu.RLock()
	cam := s.cam
	lights := s.lights
	disabled := s.cullingDisabled
	s.mu.RUnlock()

	if disabled || cam == nil {
		enabled := make([]light.Light, 0, len(lights))
		for _, l := range lights {
			if l.Enabled() {
				enabled = append(enabled, l)
			}
		}
		return enabled
	}
	return light.CullLights(cam.Frustum(), lights)
}

func (s *scene) ShadowLight() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, l := range s.lights {
		if l.Enabled() && l.CastsShadows() && l.Type() == light.LightTypeDirectional {
			return l
		}
	}
	return nil
}

func (s *scene) AmbientColor() [3]float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ambientColor
}

func (s *scene) SetAmbientColor(color [3]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ambientColor = color
}

// detachLightLocked removes the object's attached light from the light and
// tracking lists. Caller must hold the mutex.
func (s *scene) detachLightLocked(obj game_object.GameObject) {
	l := obj.Light()
	if l == nil {
		return
	}
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			break
		}
	}
	for i, o := range s.lightObjects {
		if o == obj {
			s.lightObjects = append(s.lightObjects[:i], s.lightObjects[i+1:]...)
			break
		}
	}
}
