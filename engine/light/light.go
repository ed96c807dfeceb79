package light

// LightType identifies the kind of light source.
type LightType int

const (
	// LightTypeDirectional represents a light with no position, only direction.
	// Used for large distant sources like the sun or moon. Affects all fragments
	// uniformly with no distance attenuation.
	LightTypeDirectional LightType = iota

	// LightTypePoint represents a light that emits in all directions from a position.
	// Used for bare bulbs, lanterns, and candle flames. Attenuates with distance
	// through the constant/linear/quadratic attenuation terms.
	LightTypePoint

	// LightTypeSpot represents a light that emits in a cone from a position along a direction.
	// Used for flashlights, desk lamps, and wall sconces. Attenuates with both
	// distance and angle from the cone axis.
	LightTypeSpot
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	lightType    LightType
	position     [3]float32
	direction    [3]float32
	ambient      [3]float32
	diffuse      [3]float32
	specular     [3]float32
	attenuation  [3]float32 // constant (k_c), linear (k_l), quadratic (k_q)
	spotAngle    float32    // stored as cos(half-angle in radians)
	lightRange   float32
	enabled      bool
	castsShadows bool
}

// Light defines the interface for a Blinn-Phong light source in the scene.
//
// Lights carry separate ambient, diffuse, and specular color terms plus
// constant/linear/quadratic distance attenuation. All light types share this
// interface; type-specific properties (e.g. the cone angle for spot lights)
// return zero values when not applicable.
//
// Lights are managed by the scene and marshaled into a GPU storage buffer each
// frame via PackLights, which groups them by type behind a count header.
type Light interface {
	// Type returns the kind of light source.
	//
	// Returns:
	//   - LightType: the light type (directional, point, or spot)
	Type() LightType

	// Position returns the world-space position of the light.
	// Meaningless for directional lights.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Direction returns the normalized direction of the light.
	// For directional lights this is the light direction. For spot lights this
	// is the cone axis. Meaningless for point lights.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Ambient returns the RGB ambient color term of the light.
	//
	// Returns:
	//   - [3]float32: the ambient color
	Ambient() [3]float32

	// Diffuse returns the RGB diffuse color term of the light.
	//
	// Returns:
	//   - [3]float32: the diffuse color
	Diffuse() [3]float32

	// Specular returns the RGB specular color term of the light.
	//
	// Returns:
	//   - [3]float32: the specular color
	Specular() [3]float32

	// Attenuation returns the constant, linear, and quadratic distance attenuation
	// coefficients (k_c, k_l, k_q). Meaningless for directional lights.
	//
	// Returns:
	//   - [3]float32: the attenuation coefficients
	Attenuation() [3]float32

	// SpotAngle returns the cosine of the spot cone half-angle. Fragments outside
	// this cone receive zero intensity. Meaningless for directional and point lights.
	//
	// Returns:
	//   - float32: cos(half-angle)
	SpotAngle() float32

	// Range returns the conservative maximum reach of the light in world units,
	// used by CPU-side frustum culling of point and spot lights. Meaningless for
	// directional lights.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// CastsShadows returns whether this light is eligible for shadow map generation.
	// Only directional lights can cast shadows; the cascaded shadow pass returns an
	// error for any other type.
	//
	// Returns:
	//   - bool: true if the light casts shadows
	CastsShadows() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetAmbient sets the RGB ambient color term.
	//
	// Parameters:
	//   - r, g, b: color components
	SetAmbient(r, g, b float32)

	// SetDiffuse sets the RGB diffuse color term.
	//
	// Parameters:
	//   - r, g, b: color components
	SetDiffuse(r, g, b float32)

	// SetSpecular sets the RGB specular color term.
	//
	// Parameters:
	//   - r, g, b: color components
	SetSpecular(r, g, b float32)

	// SetAttenuation sets the constant, linear, and quadratic attenuation coefficients.
	//
	// Parameters:
	//   - kc, kl, kq: the attenuation coefficients
	SetAttenuation(kc, kl, kq float32)

	// SetSpotAngle sets the spot cone half-angle. The angle is specified in
	// degrees and stored internally as its cosine.
	//
	// Parameters:
	//   - halfAngleDeg: cone half-angle in degrees
	SetSpotAngle(halfAngleDeg float32)

	// SetRange sets the conservative culling range.
	//
	// Parameters:
	//   - lightRange: the range value
	SetRange(lightRange float32)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// SetCastsShadows sets whether the light is eligible for shadow mapping.
	//
	// Parameters:
	//   - castsShadows: true to enable shadow casting
	SetCastsShadows(castsShadows bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new Light of the specified type with sensible defaults and
// any provided options applied.
//
// Parameters:
//   - lightType: the kind of light to create (directional, point, or spot)
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(lightType LightType, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		lightType:    lightType,
		position:     [3]float32{0, 0, 0},
		direction:    [3]float32{0, -1, 0},
		ambient:      [3]float32{0.1, 0.1, 0.1},
		diffuse:      [3]float32{1, 1, 1},
		specular:     [3]float32{1, 1, 1},
		attenuation:  [3]float32{1.0, 0.09, 0.032},
		spotAngle:    0.9063, // cos(25°)
		lightRange:   50.0,
		enabled:      true,
		castsShadows: false,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Type() LightType {
	return l.lightType
}

func (l *lightImpl) Position() [3]float32 {
	return l.position
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Ambient() [3]float32 {
	return l.ambient
}

func (l *lightImpl) Diffuse() [3]float32 {
	return l.diffuse
}

func (l *lightImpl) Specular() [3]float32 {
	return l.specular
}

func (l *lightImpl) Attenuation() [3]float32 {
	return l.attenuation
}

func (l *lightImpl) SpotAngle() float32 {
	return l.spotAngle
}

func (l *lightImpl) Range() float32 {
	return l.lightRange
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) CastsShadows() bool {
	return l.castsShadows
}

func (l *lightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetAmbient(r, g, b float32) {
	l.ambient = [3]float32{r, g, b}
}

func (l *lightImpl) SetDiffuse(r, g, b float32) {
	l.diffuse = [3]float32{r, g, b}
}

func (l *lightImpl) SetSpecular(r, g, b float32) {
	l.specular = [3]float32{r, g, b}
}

func (l *lightImpl) SetAttenuation(kc, kl, kq float32) {
	l.attenuation = [3]float32{kc, kl, kq}
}

func (l *lightImpl) SetSpotAngle(halfAngleDeg float32) {
	l.spotAngle = cosDeg(halfAngleDeg)
}

func (l *lightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

func (l *lightImpl) SetCastsShadows(castsShadows bool) {
	l.castsShadows = castsShadows
}
