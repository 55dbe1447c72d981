package geom

import (
	"math"
	"testing"
)

func TestDistanceToRect(t *testing.T) {
	r := RectLTRB(0, 0, 10, 10)
	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"inside", Pt(5, 5), 0},
		{"on edge", Pt(10, 3), 0},
		{"left", Pt(-4, 5), 4},
		{"below", Pt(5, 13), 3},
		{"corner", Pt(13, 14), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DistanceToRect(tt.p, r); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DistanceToRect(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}

	if got := DistanceToRect(Pt(0, 0), Empty()); !math.IsInf(got, 1) {
		t.Errorf("empty rect distance = %v, want +Inf", got)
	}
}

func TestDistanceToSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)
	if got := DistanceToSegment(Pt(5, 3), a, b); got != 3 {
		t.Errorf("perpendicular distance = %v, want 3", got)
	}
	if got := DistanceToSegment(Pt(13, 4), a, b); got != 5 {
		t.Errorf("past end distance = %v, want 5", got)
	}
	if got := DistanceToSegment(Pt(3, 4), a, a); got != 5 {
		t.Errorf("degenerate segment distance = %v, want 5", got)
	}
}

func TestRectLTRBNormalizesEdges(t *testing.T) {
	r := RectLTRB(10, 20, 0, 5)
	if r.X.Lo != 0 || r.X.Hi != 10 || r.Y.Lo != 5 || r.Y.Hi != 20 {
		t.Fatalf("unexpected rect %v", r)
	}
	if Width(r) != 10 || Height(r) != 15 {
		t.Errorf("size = %vx%v, want 10x15", Width(r), Height(r))
	}
}

func TestMatrixInvertRoundTrip(t *testing.T) {
	m := Translate(30, -12).Multiply(Scale(2, -4))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	p := Pt(7, 3)
	back := inv.Apply(m.Apply(p))
	if Distance(back, p) > 1e-9 {
		t.Errorf("round trip = %v, want %v", back, p)
	}
	if !m.Multiply(inv).IsIdentity() {
		t.Errorf("m * inv is not identity: %v", m.Multiply(inv))
	}

	if _, ok := Scale(0, 1).Invert(); ok {
		t.Error("singular matrix reported invertible")
	}
}

func TestApplyRect(t *testing.T) {
	r := Scale(2, 3).ApplyRect(RectXYWH(1, 1, 2, 2))
	want := RectLTRB(2, 3, 6, 9)
	if !r.ApproxEqual(want) {
		t.Errorf("ApplyRect = %v, want %v", r, want)
	}
}

func TestNormalizeAngle(t *testing.T) {
	if got := NormalizeAngle(-math.Pi / 2); math.Abs(got-3*math.Pi/2) > 1e-12 {
		t.Errorf("NormalizeAngle(-π/2) = %v", got)
	}
	if got := NormalizeAngle(5 * math.Pi); math.Abs(got-math.Pi) > 1e-12 {
		t.Errorf("NormalizeAngle(5π) = %v", got)
	}
}
