package vectors

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := New(3, 4, 0).Normalize()
	if math.Abs(v.Norm()-1.0) > 1e-12 {
		t.Fatalf("normalized length = %v, want 1", v.Norm())
	}
	if math.Abs(v.X-0.6) > 1e-12 || math.Abs(v.Y-0.8) > 1e-12 {
		t.Fatalf("normalized = %+v, want (0.6, 0.8, 0)", v)
	}
}

func TestNormalizeZero(t *testing.T) {
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Fatalf("Normalize(zero) = %+v, want zero", got)
	}
}

func TestCrossOrthogonal(t *testing.T) {
	a := New(1, 2, 3)
	b := New(-2, 0.5, 4)
	c := a.Cross(b)
	if math.Abs(c.Dot(a)) > 1e-12 || math.Abs(c.Dot(b)) > 1e-12 {
		t.Fatalf("cross product %+v not orthogonal to inputs", c)
	}
}
