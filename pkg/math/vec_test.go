package math

import (
	"testing"
)

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	if got := v.Length(); got != 5 {
		t.Errorf("Vec2.Length() = %v, want 5", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := Vec3{3, 4, 12}.Normalize()
	if l := n.Length(); l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("zero Normalize() = %v, want zero", z)
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 6, 3}
	if got := a.Distance(b); got != 5 {
		t.Errorf("Vec3.Distance() = %v, want 5", got)
	}
}

func TestScalarHelpers(t *testing.T) {
	tests := []struct {
		name string
		got  float32
		want float32
	}{
		{"radians 180", Radians(180), 3.1415927},
		{"degrees pi/2", Degrees(1.5707964), 90},
		{"clamp low", Clamp(-1, 0, 1), 0},
		{"clamp high", Clamp(2, 0, 1), 1},
		{"clamp inside", Clamp(0.25, 0, 1), 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !ApproxEqual(tt.got, tt.want, 1e-4) {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestIsFinite(t *testing.T) {
	var zero float32
	if !IsFinite(1) {
		t.Error("1 should be finite")
	}
	if IsFinite(1 / zero) {
		t.Error("+Inf should not be finite")
	}
	if IsFinite(zero / zero) {
		t.Error("NaN should not be finite")
	}
}
