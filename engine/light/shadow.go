package light

// ShadowMapResolution is the default width and height in texels of each cascade
// layer in the shadow depth array texture.
const ShadowMapResolution = 2048

// MaxCascades is the maximum number of shadow cascades the GPU uniform can
// carry. The default split scheme uses three.
const MaxCascades = 4

// DefaultCascadeSplits are the default normalized split factors along the view
// frustum's near-to-far axis. Each entry is the far boundary of one cascade;
// the previous entry (or 0) is its near boundary.
var DefaultCascadeSplits = []float32{0.2, 0.5, 1.0}

// DefaultShadowBias is the constant depth bias applied to shadow comparisons
// to reduce shadow acne artifacts.
const DefaultShadowBias float32 = 0.001

// DefaultShadowNormalBiasScale is the multiplier applied to the shadow map
// texel world-size to compute the normal-offset bias. Higher values push
// the shadow sample point further along the surface normal, reducing
// self-shadowing on concave geometry at the cost of slight shadow
// detachment from contact points. Typical values are 2.0–4.0.
const DefaultShadowNormalBiasScale float32 = 3.0
