package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/kiln3d/kiln/common"
	"github.com/kiln3d/kiln/engine/light"
	"github.com/kiln3d/kiln/engine/model"
	"github.com/kiln3d/kiln/engine/renderer/material"
)

type gameObject struct {
	mu sync.Mutex

	id        uint64
	enabled   atomic.Bool
	ephemeral bool
	mesh      model.Mesh
	mat       material.Material

	position      [3]float32
	rotation      [3]float32
	rotationSpeed [3]float32
	scale         [3]float32

	attachedLight light.Light

	// dirty is set whenever the transform changes and cleared by the scene
	// after the object's instance data has been repacked.
	dirty atomic.Bool
}

// GameObject defines the interface for a renderable scene entity: a mesh
// instance with a material and a position/rotation/scale transform. Transform
// mutations mark the object dirty so the scene knows to repack its GPU
// instance data.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// Ephemeral returns whether this object is ephemeral.
	// Ephemeral objects are not persisted in the scene's registry when added.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// Mesh returns the Mesh associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Mesh: the associated mesh or nil
	Mesh() model.Mesh

	// Material returns the Material associated with this object, or nil if not set.
	//
	// Returns:
	//   - material.Material: the associated material or nil
	Material() material.Material

	// Position returns the object's world-space position.
	//
	// Returns:
	//   - x, y, z: position components
	Position() (x, y, z float32)

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: rotation angles
	Rotation() (rx, ry, rz float32)

	// RotationSpeed returns the object's rotation speed in radians per second.
	//
	// Returns:
	//   - rx, ry, rz: rotation speed values
	RotationSpeed() (rx, ry, rz float32)

	// Scale returns the object's scale factors.
	//
	// Returns:
	//   - sx, sy, sz: scale components
	Scale() (sx, sy, sz float32)

	// ModelMatrix composes the object's transform into a column-major model matrix.
	//
	// Returns:
	//   - [16]float32: the model matrix
	ModelMatrix() [16]float32

	// Instance packs the object's transform into its GPU instance
	// representation: the model matrix and its inverse-transpose for
	// transforming normals under non-uniform scale.
	//
	// Returns:
	//   - model.GPUInstance: the packed instance data
	Instance() model.GPUInstance

	// Dirty reports whether the transform changed since the last ClearDirty.
	//
	// Returns:
	//   - bool: true if the instance data needs repacking
	Dirty() bool

	// ClearDirty resets the dirty flag. Called by the scene after repacking.
	ClearDirty()

	// Advance applies the rotation speed over the elapsed time and marks the
	// object dirty if it rotated.
	//
	// Parameters:
	//   - dt: elapsed time in seconds
	Advance(dt float32)

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetEnabled sets whether the object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetMesh assigns a Mesh to this object.
	//
	// Parameters:
	//   - m: the Mesh to associate
	SetMesh(m model.Mesh)

	// SetMaterial assigns a Material to this object.
	//
	// Parameters:
	//   - mat: the Material to associate
	SetMaterial(mat material.Material)

	// SetPosition updates the object's position.
	//
	// Parameters:
	//   - x, y, z: new position components
	SetPosition(x, y, z float32)

	// SetRotation updates the object's Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation angles
	SetRotation(rx, ry, rz float32)

	// SetRotationSpeed updates the object's rotation speed in radians per second.
	//
	// Parameters:
	//   - rx, ry, rz: new rotation speed values
	SetRotationSpeed(rx, ry, rz float32)

	// SetScale updates the object's scale factors.
	//
	// Parameters:
	//   - sx, sy, sz: new scale factors
	SetScale(sx, sy, sz float32)

	// Light returns the Light attached to this object, or nil if none is set.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// SetLight attaches a Light to this object. When the object is added to a
	// scene, the scene will automatically sync the light's position from the
	// object's transform each frame. Pass nil to detach.
	//
	// Parameters:
	//   - l: the Light to attach, or nil to detach
	SetLight(l light.Light)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	obj.dirty.Store(true)
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) Ephemeral() bool {
	return g.ephemeral
}

func (g *gameObject) Mesh() model.Mesh {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mesh
}

func (g *gameObject) Material() material.Material {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mat
}

func (g *gameObject) Position() (x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.position[0], g.position[1], g.position[2]
}

func (g *gameObject) Rotation() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotation[0], g.rotation[1], g.rotation[2]
}

func (g *gameObject) RotationSpeed() (rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rotationSpeed[0], g.rotationSpeed[1], g.rotationSpeed[2]
}

func (g *gameObject) Scale() (sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.scale[0], g.scale[1], g.scale[2]
}

func (g *gameObject) ModelMatrix() [16]float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.modelMatrixLocked()
}

func (g *gameObject) Instance() model.GPUInstance {
	g.mu.Lock()
	defer g.mu.Unlock()

	inst := model.GPUInstance{
		Model: g.modelMatrixLocked(),
	}

	var inv [16]float32
	if common.Invert4(inv[:], inst.Model[:]) {
		common.Transpose4(inst.Normal[:], inv[:])
	} else {
		common.Identity(inst.Normal[:])
	}
	return inst
}

func (g *gameObject) Dirty() bool {
	return g.dirty.Load()
}

func (g *gameObject) ClearDirty() {
	g.dirty.Store(false)
}

func (g *gameObject) Advance(dt float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.rotationSpeed == [3]float32{} || dt == 0 {
		return
	}
	g.rotation[0] += g.rotationSpeed[0] * dt
	g.rotation[1] += g.rotationSpeed[1] * dt
	g.rotation[2] += g.rotationSpeed[2] * dt
	g.dirty.Store(true)
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) SetMesh(m model.Mesh) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mesh = m
	g.dirty.Store(true)
}

func (g *gameObject) SetMaterial(mat material.Material) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.mat = mat
	g.dirty.Store(true)
}

func (g *gameObject) SetPosition(x, y, z float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.position = [3]float32{x, y, z}
	g.dirty.Store(true)
}

func (g *gameObject) SetRotation(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotation = [3]float32{rx, ry, rz}
	g.dirty.Store(true)
}

func (g *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rotationSpeed = [3]float32{rx, ry, rz}
}

func (g *gameObject) SetScale(sx, sy, sz float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scale = [3]float32{sx, sy, sz}
	g.dirty.Store(true)
}

func (g *gameObject) Light() light.Light {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attachedLight
}

func (g *gameObject) SetLight(l light.Light) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.attachedLight = l
}

// modelMatrixLocked composes translate * rotate * scale. Caller must hold the mutex.
func (g *gameObject) modelMatrixLocked() [16]float32 {
	var m [16]float32
	common.BuildModelMatrix(m[:],
		g.position[0], g.position[1], g.position[2],
		g.rotation[0], g.rotation[1], g.rotation[2],
		g.scale[0], g.scale[1], g.scale[2],
	)
	return m
}
