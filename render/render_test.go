package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/echoflaresat/earthglobe/globe"
	"github.com/echoflaresat/earthglobe/vectors"
)

func writeSolidPNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

// testGlobe builds a globe over solid day (178 gray) and night (51 gray)
// textures with the given sun direction.
func testGlobe(t *testing.T, sun vectors.Vec3) *globe.Globe {
	t.Helper()
	dir := t.TempDir()
	day := filepath.Join(dir, "day.png")
	night := filepath.Join(dir, "night.png")
	writeSolidPNG(t, day, color.NRGBA{R: 178, G: 178, B: 178, A: 255})
	writeSolidPNG(t, night, color.NRGBA{R: 51, G: 51, B: 51, A: 255})

	opts := globe.DefaultOptions(day, night)
	opts.AutoRotate = false
	opts.Sun = globe.ManualSun{Direction: sun}

	g, err := globe.New(opts)
	if err != nil {
		t.Fatalf("globe.New: %v", err)
	}
	return g
}

func testCamera() Camera {
	return NewOrbitCamera(6.0, 0, 0, 40)
}

func renderFrame(t *testing.T, g *globe.Globe) *image.NRGBA {
	t.Helper()
	r, err := New(g, testCamera(), Options{Size: 64, Supersample: 1})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	img, err := r.Frame(g)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	return img
}

func TestFrameDaySide(t *testing.T) {
	// Sun behind the camera: the facing hemisphere is fully lit, so the
	// center pixel is the day texture with no rim contribution.
	g := testGlobe(t, vectors.New(0, 0, 1))
	img := renderFrame(t, g)

	px := img.NRGBAAt(32, 32)
	if abs(int(px.R)-178) > 2 || abs(int(px.G)-178) > 2 {
		t.Fatalf("day-side center pixel = %+v, want ~178 gray", px)
	}
	if px.A != 255 {
		t.Fatalf("alpha = %d, want 255", px.A)
	}
}

func TestFrameNightSide(t *testing.T) {
	// Sun behind the globe: center shows the brightened night texture,
	// 51 * 1.5 ≈ 76.
	g := testGlobe(t, vectors.New(0, 0, -1))
	img := renderFrame(t, g)

	px := img.NRGBAAt(32, 32)
	if abs(int(px.R)-76) > 2 {
		t.Fatalf("night-side center pixel = %+v, want ~76 gray", px)
	}
}

func TestFrameDayBrighterThanNight(t *testing.T) {
	day := renderFrame(t, testGlobe(t, vectors.New(0, 0, 1)))
	night := renderFrame(t, testGlobe(t, vectors.New(0, 0, -1)))

	if day.NRGBAAt(32, 32).R <= night.NRGBAAt(32, 32).R {
		t.Fatal("day side not brighter than night side")
	}
}

func TestFrameBackgroundIsBlack(t *testing.T) {
	g := testGlobe(t, vectors.New(0, 0, 1))
	img := renderFrame(t, g)

	px := img.NRGBAAt(0, 0)
	if px.R != 0 || px.G != 0 || px.B != 0 || px.A != 255 {
		t.Fatalf("corner pixel = %+v, want opaque black", px)
	}
}

func TestFrameRimTintAtLimb(t *testing.T) {
	g := testGlobe(t, vectors.New(0, 0, 1))
	img := renderFrame(t, g)

	// Walk from the center to the right edge; the last globe pixel is at
	// a grazing view angle and must carry the blue atmosphere excess.
	var limb color.NRGBA
	for x := 63; x >= 32; x-- {
		px := img.NRGBAAt(x, 32)
		if px.R != 0 || px.G != 0 || px.B != 0 {
			limb = px
			break
		}
	}
	if limb.B <= limb.R {
		t.Fatalf("limb pixel %+v has no blue rim excess", limb)
	}
}

func TestFrameDeterministic(t *testing.T) {
	g := testGlobe(t, vectors.New(1, 0.2, 0))
	r, err := New(g, testCamera(), Options{Size: 48, Supersample: 2, Workers: 4})
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	a, err := r.Frame(g)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	b, err := r.Frame(g)
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("two renders of the same state differ")
	}
}

func TestSphereUV(t *testing.T) {
	cases := []struct {
		name     string
		n        vectors.Vec3
		rotation float64
		u, v     float64
	}{
		{"front center", vectors.New(0, 0, 1), 0, 0.0, 0.5},
		{"quarter east", vectors.New(1, 0, 0), 0, 0.25, 0.5},
		{"rotated back to seam", vectors.New(1, 0, 0), math.Pi / 2, 0.0, 0.5},
		{"north pole", vectors.New(0, 1, 0), 0, 0.0, 0.0},
		{"south pole", vectors.New(0, -1, 0), 0, 0.0, 1.0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			u, v := sphereUV(c.n, c.rotation)
			if math.Abs(u-c.u) > 1e-9 || math.Abs(v-c.v) > 1e-9 {
				t.Fatalf("sphereUV(%+v, %v) = (%v, %v), want (%v, %v)", c.n, c.rotation, u, v, c.u, c.v)
			}
		})
	}
}

func TestGenerateSupersamplingOffsets(t *testing.T) {
	if got := GenerateSupersamplingOffsets(0); got != nil {
		t.Fatalf("offsets(0) = %v, want nil", got)
	}

	offs := GenerateSupersamplingOffsets(3)
	if len(offs) != 9 {
		t.Fatalf("offsets(3) has %d entries, want 9", len(offs))
	}
	for _, o := range offs {
		if o[0] < -0.5 || o[0] > 0.5 || o[1] < -0.5 || o[1] > 0.5 {
			t.Fatalf("offset %v out of [-0.5, 0.5]", o)
		}
	}
}

func TestIntersectSphere(t *testing.T) {
	origin := vectors.New(0, 0, 6)

	hit := intersectSphere(origin, vectors.New(0, 0, -1), 1.8)
	if math.Abs(hit-4.2) > 1e-9 {
		t.Fatalf("head-on intersection t = %v, want 4.2", hit)
	}

	if miss := intersectSphere(origin, vectors.New(0, 1, 0), 1.8); miss != -1.0 {
		t.Fatalf("miss returned %v, want -1", miss)
	}

	// Ray starting inside the sphere exits through the far side.
	inside := intersectSphere(vectors.New(0, 0, 0), vectors.New(0, 0, 1), 1.8)
	if math.Abs(inside-1.8) > 1e-9 {
		t.Fatalf("inside intersection t = %v, want 1.8", inside)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
