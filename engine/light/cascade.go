package light

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/kiln3d/kiln/common"
)

// ErrShadowRequiresDirectional is returned when a cascaded shadow map is
// requested for a non-directional light.
var ErrShadowRequiresDirectional = errors.New("cascaded shadow mapping requires a directional light")

// ErrSingularMatrix is returned when a camera matrix required for frustum
// reconstruction cannot be inverted.
var ErrSingularMatrix = errors.New("matrix is singular")

// Cascade holds the light-space view-projection matrix for one shadow cascade
// together with the view-space far distance the fragment shader uses to select it.
type Cascade struct {
	// ViewProj transforms world space into the cascade's light clip space.
	ViewProj [16]float32

	// Far is the camera view-space depth at the cascade's far boundary.
	Far float32
}

// ComputeCascades slices the camera frustum into shadow cascades for a
// directional light and fits a stable orthographic projection around each slice.
//
// The camera frustum corners are reconstructed by unprojecting the eight NDC
// corners through the inverse projection (with perspective divide) and inverse
// view matrices. Each cascade's sub-frustum is produced by interpolating along
// the near-to-far corner edges between consecutive split factors. The slice is
// bounded by a sphere centered between its near and far plane midpoints, and
// the orthographic extent is the sphere radius on every axis. To keep shadow
// texels stationary under camera movement, the sphere center is snapped to the
// shadow texel grid in light space (texels per world unit = mapSize / (2·radius)).
//
// Parameters:
//   - l: the shadow-casting light; must be directional
//   - view: the camera view matrix (16 elements, column-major)
//   - proj: the camera projection matrix (16 elements, column-major)
//   - camNear, camFar: the camera near and far plane distances
//   - splits: normalized split factors in ascending order, each the far boundary of one cascade
//   - mapSize: the shadow map resolution in texels
//
// Returns:
//   - []Cascade: one entry per split
//   - error: ErrShadowRequiresDirectional for non-directional lights, ErrSingularMatrix
//     when the view or projection matrix cannot be inverted
func ComputeCascades(l Light, view, proj []float32, camNear, camFar float32, splits []float32, mapSize uint32) ([]Cascade, error) {
	if l.Type() != LightTypeDirectional {
		return nil, ErrShadowRequiresDirectional
	}
	if len(splits) == 0 || len(splits) > MaxCascades {
		return nil, fmt.Errorf("cascade split count %d outside [1, %d]", len(splits), MaxCascades)
	}

	corners, err := frustumCornersWorld(view, proj)
	if err != nil {
		return nil, err
	}

	dir := l.Direction()
	cascades := make([]Cascade, 0, len(splits))
	prev := float32(0)
	for _, split := range splits {
		sub := subFrustum(corners, prev, split)
		center, radius := boundingSphere(sub)

		snapped, err := snapToTexelGrid(center, dir, radius, mapSize)
		if err != nil {
			return nil, err
		}

		up := upForDirection(dir)
		eye := [3]float32{
			snapped[0] - dir[0]*2*radius,
			snapped[1] - dir[1]*2*radius,
			snapped[2] - dir[2]*2*radius,
		}

		var lightView, lightProj, viewProj [16]float32
		common.LookAt(lightView[:], eye[0], eye[1], eye[2], snapped[0], snapped[1], snapped[2], up[0], up[1], up[2])
		common.Ortho(lightProj[:], -radius, radius, -radius, radius, 0, 4*radius)
		common.Mul4(viewProj[:], lightProj[:], lightView[:])

		cascades = append(cascades, Cascade{
			ViewProj: viewProj,
			Far:      camNear + split*(camFar-camNear),
		})
		prev = split
	}
	return cascades, nil
}

// ShadowUniform packs computed cascades into the GPU uniform layout.
//
// Parameters:
//   - cascades: the computed cascades
//   - mapSize: the shadow map resolution in texels
//
// Returns:
//   - GPUShadowUniform: the packed uniform
func ShadowUniform(cascades []Cascade, mapSize uint32) GPUShadowUniform {
	g := GPUShadowUniform{
		CascadeCount: uint32(len(cascades)),
		MapSize:      float32(mapSize),
	}
	for i, c := range cascades {
		if i >= MaxCascades {
			break
		}
		g.Cascades[i] = c.ViewProj
		g.FarDistances[i] = c.Far
	}
	return g
}

// frustumCornersWorld unprojects the eight WebGPU NDC cube corners (z in [0, 1])
// into world space. The first four entries are the near plane corners, the last
// four the far plane corners, in matching xy order.
func frustumCornersWorld(view, proj []float32) ([8][3]float32, error) {
	var corners [8][3]float32
	var invProj, invView [16]float32
	if !common.Invert4(invProj[:], proj) {
		return corners, ErrSingularMatrix
	}
	if !common.Invert4(invView[:], view) {
		return corners, ErrSingularMatrix
	}

	i := 0
	for _, z := range []float32{0, 1} {
		for _, y := range []float32{-1, 1} {
			for _, x := range []float32{-1, 1} {
				v := common.TransformPoint4(invProj[:], x, y, z, 1)
				if v[3] != 0 {
					v[0] /= v[3]
					v[1] /= v[3]
					v[2] /= v[3]
				}
				w := common.TransformPoint4(invView[:], v[0], v[1], v[2], 1)
				corners[i] = [3]float32{w[0], w[1], w[2]}
				i++
			}
		}
	}
	return corners, nil
}

// subFrustum interpolates along the near-to-far corner edges to produce the
// corners of the frustum slice between normalized depths t0 and t1.
func subFrustum(corners [8][3]float32, t0, t1 float32) [8][3]float32 {
	var out [8][3]float32
	for i := 0; i < 4; i++ {
		near, far := corners[i], corners[i+4]
		for c := 0; c < 3; c++ {
			edge := far[c] - near[c]
			out[i][c] = near[c] + edge*t0
			out[i+4][c] = near[c] + edge*t1
		}
	}
	return out
}

// boundingSphere bounds the slice with a sphere centered between the near and
// far plane midpoints, with radius reaching the farthest corner.
func boundingSphere(corners [8][3]float32) (center [3]float32, radius float32) {
	var nearMid, farMid [3]float32
	for i := 0; i < 4; i++ {
		for c := 0; c < 3; c++ {
			nearMid[c] += corners[i][c] * 0.25
			farMid[c] += corners[i+4][c] * 0.25
		}
	}
	for c := 0; c < 3; c++ {
		center[c] = (nearMid[c] + farMid[c]) * 0.5
	}
	for _, p := range corners {
		dx, dy, dz := p[0]-center[0], p[1]-center[1], p[2]-center[2]
		if d := math32.Sqrt(dx*dx + dy*dy + dz*dz); d > radius {
			radius = d
		}
	}
	return center, radius
}

// snapToTexelGrid quantizes the cascade center to whole shadow texels in light
// space so the ortho window does not crawl as the camera moves.
func snapToTexelGrid(center, dir [3]float32, radius float32, mapSize uint32) ([3]float32, error) {
	if radius == 0 {
		return center, nil
	}
	texelsPerUnit := float32(mapSize) / (2 * radius)

	up := upForDirection(dir)
	var lightView, invLightView [16]float32
	common.LookAt(lightView[:], 0, 0, 0, dir[0], dir[1], dir[2], up[0], up[1], up[2])
	if !common.Invert4(invLightView[:], lightView[:]) {
		return center, ErrSingularMatrix
	}

	v := common.TransformPoint4(lightView[:], center[0], center[1], center[2], 1)
	v[0] = math32.Floor(v[0]*texelsPerUnit) / texelsPerUnit
	v[1] = math32.Floor(v[1]*texelsPerUnit) / texelsPerUnit
	w := common.TransformPoint4(invLightView[:], v[0], v[1], v[2], 1)
	return [3]float32{w[0], w[1], w[2]}, nil
}

// upForDirection picks an up vector that is not parallel to the light direction.
func upForDirection(dir [3]float32) [3]float32 {
	if math32.Abs(dir[1]) > 0.99 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{0, 1, 0}
}
