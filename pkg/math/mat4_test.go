package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-5

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation lives in the last column (indices 12, 13, 14)
	if got := m.Translation(); got != (Vec3{5, 10, 15}) {
		t.Errorf("Translation() = %v, want (5, 10, 15)", got)
	}
}

func TestUniformScale(t *testing.T) {
	m := UniformScale(2)

	if m[0] != 2 || m[5] != 2 || m[10] != 2 || m[15] != 1 {
		t.Errorf("UniformScale diagonal: got (%f, %f, %f, %f)", m[0], m[5], m[10], m[15])
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformPoint(Vec3{1, 2, 3})

	if got != (Vec3{11, 22, 33}) {
		t.Errorf("TransformPoint: got %v, want (11, 22, 33)", got)
	}
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	m := Translate(10, 20, 30).Mul(UniformScale(2))
	got := m.TransformDirection(Vec3{1, 0, 0})

	if got != (Vec3{2, 0, 0}) {
		t.Errorf("TransformDirection: got %v, want (2, 0, 0)", got)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(math.Pi / 2)
	got := m.TransformPoint(Vec3{1, 0, 0})

	// Counter-clockwise about +Y takes +X to -Z
	if !got.ApproxEqual(Vec3{0, 0, -1}, eps) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestRotateAxisMatchesRotateY(t *testing.T) {
	for _, angle := range []float32{0, 0.3, 1.5, math.Pi, -2.2} {
		got := RotateAxis(Up, angle)
		want := RotateY(angle)
		if !got.ApproxEqual(want, eps) {
			t.Errorf("RotateAxis(Up, %v) = %v, want %v", angle, got, want)
		}
	}
}

func TestRotateAxisAgainstMathGL(t *testing.T) {
	axis := Vec3{0.6, 0.8, 0}
	for _, angle := range []float32{0.1, 1, 2.5, -4} {
		got := RotateAxis(axis, angle)
		want := mgl32.HomogRotate3D(angle, mgl32.Vec3{axis.X, axis.Y, axis.Z})
		if !got.ApproxEqual(Mat4(want), eps) {
			t.Errorf("RotateAxis(%v, %v) = %v, want %v", axis, angle, got, want)
		}
	}
}

func TestMulAgainstMathGL(t *testing.T) {
	a := Translate(3, -1, 2).Mul(RotateAxis(Vec3{0, 0, 1}, 0.7))
	b := UniformScale(0.5).Mul(RotateY(1.2))

	want := mgl32.Mat4(a).Mul4(mgl32.Mat4(b))
	if got := a.Mul(b); !got.ApproxEqual(Mat4(want), eps) {
		t.Errorf("Mul = %v, want %v", got, want)
	}
}

func TestPerspective(t *testing.T) {
	fov := Radians(45)
	m := Perspective(fov, 4.0/3.0, 0.1, 100)

	want := mgl32.Perspective(fov, 4.0/3.0, 0.1, 100)
	if !m.ApproxEqual(Mat4(want), 1e-4) {
		t.Errorf("Perspective = %v, want %v", m, want)
	}
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 20}
	m := LookAt(eye, Vec3{}, Up)

	// The eye maps to the view-space origin
	if got := m.TransformPoint(eye); !got.ApproxEqual(Vec3{}, eps) {
		t.Errorf("LookAt(eye) = %v, want origin", got)
	}
	// The target lies straight ahead on -Z
	if got := m.TransformPoint(Vec3{}); !got.ApproxEqual(Vec3{0, 0, -20}, eps) {
		t.Errorf("LookAt(target) = %v, want (0, 0, -20)", got)
	}
}

func TestInverse(t *testing.T) {
	m := Translate(4, 5, 6).Mul(RotateAxis(Vec3{1, 0, 0}, 0.4)).Mul(UniformScale(3))

	if got := m.Mul(m.Inverse()); !got.ApproxEqual(Identity(), eps) {
		t.Errorf("M * M^-1 = %v, want identity", got)
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular Inverse = %v, want identity", got)
	}
}

func TestNormalMatrixUniformScale(t *testing.T) {
	m := Translate(10, 0, 0).Mul(UniformScale(2))
	n := m.NormalMatrix()

	// Normals keep their direction, translation is dropped
	got := n.TransformDirection(Vec3{0, 1, 0})
	if !got.ApproxEqual(Vec3{0, 0.5, 0}, eps) {
		t.Errorf("NormalMatrix direction = %v, want (0, 0.5, 0)", got)
	}
	if n.Translation() != (Vec3{}) {
		t.Errorf("NormalMatrix translation = %v, want zero", n.Translation())
	}
}

func TestTranspose(t *testing.T) {
	m := Translate(1, 2, 3)
	tr := m.Transpose()
	if tr[3] != 1 || tr[7] != 2 || tr[11] != 3 {
		t.Errorf("Transpose = %v", tr)
	}
	if tr.Transpose() != m {
		t.Error("double transpose should be identity operation")
	}
}
