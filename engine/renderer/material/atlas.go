package material

// MaterialId is a dense handle into a MaterialAtlas. Ids are assigned in
// registration order and never reused, which keeps draw-call ordering stable
// across frames.
type MaterialId uint32

// atlas is the implementation of the MaterialAtlas interface.
type atlas struct {
	materials []Material
	byName    map[string]MaterialId
}

// MaterialAtlas owns every material in a scene and hands out stable dense
// MaterialId handles. The scene batcher keys draw calls by (mesh, MaterialId),
// so the atlas ordering directly determines draw submission order.
type MaterialAtlas interface {
	// Register adds a material to the atlas and returns its id. Registering a
	// material whose name is already present returns the existing id.
	//
	// Parameters:
	//   - m: the material to register
	//
	// Returns:
	//   - MaterialId: the stable handle for the material
	Register(m Material) MaterialId

	// Get retrieves the material for an id.
	//
	// Parameters:
	//   - id: the material handle
	//
	// Returns:
	//   - Material: the material, or nil if the id is out of range
	Get(id MaterialId) Material

	// Lookup retrieves the id for a material name, if registered.
	//
	// Parameters:
	//   - name: the material name
	//
	// Returns:
	//   - MaterialId: the handle for the name
	//   - bool: true if the name was registered
	Lookup(name string) (MaterialId, bool)

	// Count returns the number of registered materials.
	//
	// Returns:
	//   - int: the material count
	Count() int

	// All returns every registered material in id order.
	//
	// Returns:
	//   - []Material: the materials, indexed by MaterialId
	All() []Material
}

var _ MaterialAtlas = &atlas{}

// NewMaterialAtlas creates an empty MaterialAtlas.
//
// Returns:
//   - MaterialAtlas: a new atlas instance
func NewMaterialAtlas() MaterialAtlas {
	return &atlas{
		byName: make(map[string]MaterialId),
	}
}

func (a *atlas) Register(m Material) MaterialId {
	if id, ok := a.byName[m.Name()]; ok && m.Name() != "" {
		return id
	}
	id := MaterialId(len(a.materials))
	a.materials = append(a.materials, m)
	if m.Name() != "" {
		a.byName[m.Name()] = id
	}
	return id
}

func (a *atlas) Get(id MaterialId) Material {
	if int(id) >= len(a.materials) {
		return nil
	}
	return a.materials[id]
}

func (a *atlas) Lookup(name string) (MaterialId, bool) {
	id, ok := a.byName[name]
	return id, ok
}

func (a *atlas) Count() int {
	return len(a.materials)
}

func (a *atlas) All() []Material {
	return a.materials
}
