package globe

// Defaults applied by New when the corresponding Options field is zero.
const (
	DefaultSize          = 1.8
	DefaultRotationSpeed = 0.001
)

// Options configures a Globe. It is immutable after construction: New
// copies it and later changes by the caller have no effect.
type Options struct {
	// Size is the sphere radius in scene units.
	Size float64

	// DayTexture and NightTexture locate the two surface images. The
	// globe never loads them itself; it passes them through to the host
	// via Material.Uniforms, and the host's texture facility owns
	// decoding and failure handling.
	DayTexture   string
	NightTexture string

	// RotationSpeed is the per-frame rotation increment in radians. The
	// increment is applied once per Advance call with no delta-time
	// scaling, so the visible spin rate follows the host's frame rate.
	RotationSpeed float64

	// AutoRotate enables the per-frame rotation increment.
	AutoRotate bool

	// Sun selects how the sun direction is resolved each frame. Nil
	// means RealTimeSun.
	Sun SunMode
}

// DefaultOptions returns an Options with the standard defaults: real-time
// sun, auto-rotation on.
func DefaultOptions(dayTexture, nightTexture string) Options {
	return Options{
		Size:          DefaultSize,
		DayTexture:    dayTexture,
		NightTexture:  nightTexture,
		RotationSpeed: DefaultRotationSpeed,
		AutoRotate:    true,
	}
}
