package globe

import (
	"math"

	"github.com/echoflaresat/earthglobe/colors"
	"github.com/echoflaresat/earthglobe/vectors"
)

// AtmosphereColor is the rim tint added on top of the blended surface.
var AtmosphereColor = colors.New(0.4, 0.6, 1.0, 1.0)

// Smoothstep performs a Hermite interpolation between 0 and 1 across
// [edge0, edge1]. Returns 0 if x < edge0, 1 if x > edge1.
func Smoothstep(edge0, edge1, x float64) float64 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0.0
		}
		return 1.0
	}

	t := (x - edge0) / (edge1 - edge0)
	if t < 0.0 {
		t = 0.0
	} else if t > 1.0 {
		t = 1.0
	}
	return t * t * (3.0 - 2.0*t)
}

// DayMix is the day/night blend weight for a given sun orientation
// (cosine between surface normal and sun direction): 0 below -0.5, 1
// above 0.5, Hermite in between.
func DayMix(sunOrientation float64) float64 {
	return Smoothstep(-0.5, 0.5, sunOrientation)
}

// NightMask gates the city lights: fully on while the sun is below the
// horizon by more than the -0.1 band, fading to zero as the sun rises.
func NightMask(sunOrientation float64) float64 {
	return 1.0 - Smoothstep(-0.1, 0.0, sunOrientation)
}

// Shade computes the surface color for one pixel. It is the reference
// implementation of the material's fragment stage (see fragmentShaderSource
// in material.go, which must stay formula-for-formula identical):
// day/night blend by sun orientation, brightened and masked city lights,
// and a view-dependent Fresnel rim that is stronger on the lit side.
//
// normal, view and sun must be unit vectors; view points from the surface
// toward the camera.
func Shade(day, night colors.Color4, normal, view, sun vectors.Vec3) colors.Color4 {
	sunOrientation := normal.Dot(sun)
	dayMix := DayMix(sunOrientation)

	nightColor := night.ScaleRGB(1.5 * NightMask(sunOrientation))
	earthColor := nightColor.Mix(day, dayMix)

	rim := math.Pow(1.0-view.Dot(normal), 3.0)
	intensityFactor := 0.5 + 0.5*dayMix
	atmosphere := AtmosphereColor.Scale(rim * 0.6 * intensityFactor)

	return earthColor.Add(atmosphere).WithAlpha(1.0)
}
