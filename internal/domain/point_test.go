package domain

import "testing"

func TestManhattan(t *testing.T) {
	a := Point{X: 0, Y: 0}
	b := Point{X: 10, Y: 10}

	if d := Manhattan(a, b); d != 20 {
		t.Errorf("Manhattan(origin, (10,10)) = %g, want 20", d)
	}
	if d := Manhattan(b, a); d != 20 {
		t.Errorf("Manhattan should be symmetric, got %g", d)
	}
	if d := Manhattan(a, a); d != 0 {
		t.Errorf("Manhattan(a, a) = %g, want 0", d)
	}
	if d := Manhattan(Point{X: -3, Y: 4}, Point{X: 2, Y: -1}); d != 10 {
		t.Errorf("Manhattan((-3,4), (2,-1)) = %g, want 10", d)
	}
}

func TestParsePoint(t *testing.T) {
	p, err := ParsePoint("4, 9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != 4 || p.Y != 9 {
		t.Errorf("ParsePoint(\"4, 9\") = %+v, want {4 9}", p)
	}

	if _, err := ParsePoint("not-a-pair"); err == nil {
		t.Errorf("expected error for input without a comma")
	}
	if _, err := ParsePoint("1,abc"); err == nil {
		t.Errorf("expected error for non-numeric y")
	}
	if _, err := ParsePoint(""); err == nil {
		t.Errorf("expected error for empty input")
	}
}
