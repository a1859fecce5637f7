package globe

import (
	"math"
	"strings"
	"testing"

	"github.com/echoflaresat/earthglobe/vectors"
)

func testOptions() Options {
	return Options{
		DayTexture:   "day.png",
		NightTexture: "night.png",
	}
}

func TestNewRequiresTextures(t *testing.T) {
	cases := []struct {
		name string
		opts Options
	}{
		{"no textures", Options{}},
		{"missing night", Options{DayTexture: "day.png"}},
		{"missing day", Options{NightTexture: "night.png"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := New(c.opts); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	g, err := New(testOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	opts := g.Options()
	if opts.Size != DefaultSize {
		t.Fatalf("size = %v, want %v", opts.Size, DefaultSize)
	}
	if opts.RotationSpeed != DefaultRotationSpeed {
		t.Fatalf("rotation speed = %v, want %v", opts.RotationSpeed, DefaultRotationSpeed)
	}
	if _, ok := opts.Sun.(RealTimeSun); !ok {
		t.Fatalf("sun mode = %T, want RealTimeSun", opts.Sun)
	}
}

func TestAdvanceAccumulatesRotation(t *testing.T) {
	opts := testOptions()
	opts.AutoRotate = true
	opts.RotationSpeed = 0.01
	opts.Sun = ManualSun{Direction: vectors.New(0, 1, 0)}

	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 1; i <= 10; i++ {
		g.Advance()
		want := 0.01 * float64(i)
		if math.Abs(g.Rotation()-want) > 1e-12 {
			t.Fatalf("after %d frames rotation = %v, want %v", i, g.Rotation(), want)
		}
	}
}

func TestAdvanceWithoutAutoRotate(t *testing.T) {
	opts := testOptions()
	opts.AutoRotate = false
	opts.RotationSpeed = 0.01
	opts.Sun = ManualSun{Direction: vectors.New(0, 1, 0)}

	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 100; i++ {
		g.Advance()
	}
	if g.Rotation() != 0 {
		t.Fatalf("rotation = %v after 100 frames, want 0", g.Rotation())
	}
}

func TestManualSunStableAcrossFrames(t *testing.T) {
	opts := testOptions()
	opts.AutoRotate = true
	opts.Sun = ManualSun{Direction: vectors.New(0, 1, 0)}

	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := vectors.New(0, 1, 0)
	for i := 0; i < 100; i++ {
		g.Advance()
		if g.SunDirection() != want {
			t.Fatalf("frame %d: sun direction = %+v, want %+v", i, g.SunDirection(), want)
		}
	}
}

func TestSunUniformUnitLengthEveryFrame(t *testing.T) {
	opts := testOptions()
	opts.AutoRotate = true
	opts.Sun = RealTimeSun{Now: fixedClock("2025-08-02T15:04:05Z")}

	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 50; i++ {
		g.Advance()
		assertUnit(t, g.SunDirection())
		if g.Material().Uniforms.SunDirection != g.SunDirection() {
			t.Fatal("material uniform out of sync with resolved sun direction")
		}
	}
}

func TestSunResolvedBeforeFirstAdvance(t *testing.T) {
	opts := testOptions()
	opts.Sun = ManualSun{Direction: vectors.New(3, 0, 0)}

	g, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if g.SunDirection() != vectors.New(1, 0, 0) {
		t.Fatalf("initial sun direction = %+v, want (1,0,0)", g.SunDirection())
	}
}

func TestMaterialCarriesShaderAndTextures(t *testing.T) {
	g, err := New(testOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m := g.Material()
	if m.Uniforms.DayTexture != "day.png" || m.Uniforms.NightTexture != "night.png" {
		t.Fatalf("texture uniforms = %+v", m.Uniforms)
	}
	for _, name := range []string{UniformDayTexture, UniformNightTexture, UniformSunDirection} {
		if !strings.Contains(m.FragmentShader, name) {
			t.Fatalf("fragment shader missing uniform %q", name)
		}
	}
	if !strings.Contains(m.VertexShader, "in_uv") {
		t.Fatal("vertex shader missing UV attribute")
	}
	// The GLSL constants must track the Go reference implementation.
	for _, literal := range []string{"-0.5, 0.5", "-0.1, 0.0", "1.5", "0.4, 0.6, 1.0", "3.0"} {
		if !strings.Contains(m.FragmentShader, literal) {
			t.Fatalf("fragment shader missing shading constant %q", literal)
		}
	}
}
