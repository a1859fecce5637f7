package render

import (
	"math"

	"github.com/echoflaresat/earthglobe/vectors"
)

// Camera models a pinhole camera looking at the globe's center.
type Camera struct {
	FOVDeg     float64
	TanHalfFOV float64
	Position   vectors.Vec3
	Forward    vectors.Vec3
	Right      vectors.Vec3
	Up         vectors.Vec3
}

// NewOrbitCamera places the camera on a sphere of the given radius around
// the origin. Azimuth orbits around the world Y axis (0 looks down the +Z
// axis, matching the globe's noon meridian), elevation lifts the camera
// toward the north pole.
func NewOrbitCamera(distance, azimuthDeg, elevationDeg, fovDeg float64) Camera {
	az := azimuthDeg * math.Pi / 180.0
	el := elevationDeg * math.Pi / 180.0

	pos := vectors.Vec3{
		X: distance * math.Cos(el) * math.Sin(az),
		Y: distance * math.Sin(el),
		Z: distance * math.Cos(el) * math.Cos(az),
	}

	fovRad := fovDeg * math.Pi / 180.0
	tanHalf := math.Tan(fovRad / 2.0)

	fwd := pos.Normalize().Scale(-1.0) // look toward the globe center
	globalUp := vectors.Vec3{X: 0, Y: 1, Z: 0}
	right := fwd.Cross(globalUp)
	if right.Norm() < 1e-6 {
		right = vectors.Vec3{X: 1, Y: 0, Z: 0} // looking straight along a pole
	}
	right = right.Normalize()
	up := right.Cross(fwd).Normalize()

	return Camera{
		FOVDeg:     fovDeg,
		TanHalfFOV: tanHalf,
		Position:   pos,
		Forward:    fwd,
		Right:      right,
		Up:         up,
	}
}

// ComputeRay returns the normalized viewing direction for pixel (i,j)
// given the image dimensions. i,j can be fractional (for supersampling).
func (c Camera) ComputeRay(i, j float64, width, height int) vectors.Vec3 {
	w := float64(width)
	h := float64(height)

	// NDC in [-1, +1] (centered), flip Y to make +up in screen space.
	xNDC := (i - (w-1)/2.0) / ((w - 1) / 2.0)
	yNDC := -((j - (h-1)/2.0) / ((h - 1) / 2.0))

	xPlane := xNDC * c.TanHalfFOV
	yPlane := yNDC * c.TanHalfFOV

	dir := c.Right.Scale(xPlane).
		Add(c.Up.Scale(yPlane)).
		Add(c.Forward)

	return dir.Normalize()
}

// intersectSphere calculates the intersection of a ray (O + t*D) with a
// sphere of radius r centered at the origin. Returns the closest positive
// t, or -1.0 if there is no intersection.
func intersectSphere(O, D vectors.Vec3, r float64) float64 {
	// b = 2*O·D, c = O·O - r^2, solve t^2 + b t + c = 0
	b := 2.0 * O.Dot(D)
	c := O.Dot(O) - r*r

	discriminant := b*b - 4.0*c
	if discriminant < 0 {
		return -1.0
	}

	sqrtDisc := math.Sqrt(discriminant)
	t1 := (-b - sqrtDisc) / 2.0
	t2 := (-b + sqrtDisc) / 2.0

	if t1 > 0 {
		return t1
	}
	if t2 > 0 {
		return t2
	}
	return -1.0
}
