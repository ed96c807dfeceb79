package light

import (
	"github.com/kiln3d/kiln/common"
)

// CullLights filters the scene lights against the camera frustum before GPU
// packing. Directional lights always survive since they affect every fragment.
// Point and spot lights are tested as spheres of their culling Range around
// their position; lights entirely outside the frustum are dropped so the
// fragment shaders never iterate them.
//
// Parameters:
//   - f: the camera frustum extracted from the view-projection matrix
//   - lights: the candidate lights
//
// Returns:
//   - []Light: the lights that may contribute to visible fragments
func CullLights(f common.Frustum, lights []Light) []Light {
	out := make([]Light, 0, len(lights))
	for _, l := range lights {
		if !l.Enabled() {
			continue
		}
		if l.Type() == LightTypeDirectional {
			out = append(out, l)
			continue
		}
		if f.IntersectsSphere(l.Position(), l.Range()) {
			out = append(out, l)
		}
	}
	return out
}
