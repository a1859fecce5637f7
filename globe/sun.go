package globe

import (
	"math"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"

	"github.com/echoflaresat/earthglobe/vectors"
)

// axialTilt is the fixed upward Y component used by RealTimeSun instead of
// true solar declination. Together with the 90° Greenwich offset below it
// is calibrated against the shipped textures; do not adjust one without
// re-checking the terminator position at a known time.
const axialTilt = 0.2

// SunMode resolves the world-space sun direction once per frame. The
// rotation argument is the globe's accumulated mesh rotation: the mesh
// spins but the sun direction is expressed in world space, so time-based
// modes fold the rotation back in.
type SunMode interface {
	direction(rotation float64) vectors.Vec3
}

// ManualSun pins the sun to a fixed direction, ignoring time and rotation.
// The vector is normalized on every resolve; a zero vector is a caller
// error and yields a degenerate direction.
type ManualSun struct {
	Direction vectors.Vec3
}

func (m ManualSun) direction(rotation float64) vectors.Vec3 {
	return m.Direction.Normalize()
}

// RealTimeSun derives the sun direction from the current UTC time of day:
// the subsolar longitude moves 15° per hour, offset 90° to line the
// texture's Greenwich meridian up with the mesh frame, with a fixed upward
// tilt standing in for seasonal declination. Now is an injectable clock;
// nil means time.Now.
type RealTimeSun struct {
	Now func() time.Time
}

func (s RealTimeSun) direction(rotation float64) vectors.Vec3 {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	t := now().UTC()
	utcHours := float64(t.Hour()) + float64(t.Minute())/60.0
	theta := solarLongitude(utcHours) + rotation
	return vectors.Vec3{X: math.Sin(theta), Y: axialTilt, Z: math.Cos(theta)}.Normalize()
}

// solarLongitude maps a decimal UTC hour to the sun's longitude angle in
// radians: noon puts the sun at +90°.
func solarLongitude(utcHours float64) float64 {
	deg := -(utcHours-12.0)*15.0 + 90.0
	return deg * math.Pi / 180.0
}

// AstronomicalSun resolves the apparent sun position from the full solar
// ephemeris (RA/Dec rotated into the Earth-fixed frame by sidereal time),
// mapped into the same mesh frame as RealTimeSun. Use it when the
// terminator has to match satellite imagery; the two modes drift apart by
// up to the equation of time plus the seasonal declination.
type AstronomicalSun struct {
	Now func() time.Time
}

func (s AstronomicalSun) direction(rotation float64) vectors.Vec3 {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	jd := julian.TimeToJD(now().UTC())

	ra, dec := solar.ApparentEquatorial(jd)
	gmst := sidereal.Apparent0UT(jd)

	// Subsolar longitude, east positive, then the same +90° frame offset
	// as the simple mode.
	subsolar := ra.Rad() - gmst.Angle().Rad()
	theta := subsolar + math.Pi/2 + rotation

	cosDec := dec.Cos()
	return vectors.Vec3{
		X: cosDec * math.Sin(theta),
		Y: dec.Sin(),
		Z: cosDec * math.Cos(theta),
	}.Normalize()
}
