package sketch

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const tol = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func nearVec(a, b mgl64.Vec2) bool {
	return near(a.X(), b.X()) && near(a.Y(), b.Y())
}

func TestLineLineCrossing(t *testing.T) {
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	b := Line{Start: mgl64.Vec2{5, -5}, End: mgl64.Vec2{5, 5}}

	hits := Intersect(a, b)
	if len(hits) != 1 {
		t.Fatalf("expected 1 intersection, got %d", len(hits))
	}
	h := hits[0]
	if !nearVec(h.Point, mgl64.Vec2{5, 0}) {
		t.Errorf("point = %v, want (5,0)", h.Point)
	}
	if !near(h.ParamA, 0.5) {
		t.Errorf("paramA = %g, want 0.5", h.ParamA)
	}
	if !near(h.ParamB, 0.5) {
		t.Errorf("paramB = %g, want 0.5", h.ParamB)
	}
}

func TestLineLineParallel(t *testing.T) {
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	b := Line{Start: mgl64.Vec2{0, 1}, End: mgl64.Vec2{10, 1}}
	if hits := Intersect(a, b); len(hits) != 0 {
		t.Errorf("parallel lines intersected: %v", hits)
	}
}

func TestLineLineDisjoint(t *testing.T) {
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{1, 0}}
	b := Line{Start: mgl64.Vec2{5, -1}, End: mgl64.Vec2{5, 1}}
	if hits := Intersect(a, b); len(hits) != 0 {
		t.Errorf("disjoint segments intersected: %v", hits)
	}
}

func TestLineCircleTwoHits(t *testing.T) {
	l := Line{Start: mgl64.Vec2{-10, 0}, End: mgl64.Vec2{10, 0}}
	c := Circle{Center: mgl64.Vec2{0, 0}, Radius: 2}

	hits := Intersect(l, c)
	if len(hits) != 2 {
		t.Fatalf("expected 2 intersections, got %d", len(hits))
	}
	// Roots come back in ascending line parameter: (-2,0) then (2,0).
	if !nearVec(hits[0].Point, mgl64.Vec2{-2, 0}) {
		t.Errorf("first point = %v, want (-2,0)", hits[0].Point)
	}
	if !near(hits[0].ParamB, math.Pi) {
		t.Errorf("first circle angle = %g, want pi", hits[0].ParamB)
	}
	if !nearVec(hits[1].Point, mgl64.Vec2{2, 0}) {
		t.Errorf("second point = %v, want (2,0)", hits[1].Point)
	}
	if !near(hits[1].ParamB, 0) {
		t.Errorf("second circle angle = %g, want 0", hits[1].ParamB)
	}
}

func TestLineCircleTangent(t *testing.T) {
	l := Line{Start: mgl64.Vec2{-10, 2}, End: mgl64.Vec2{10, 2}}
	c := Circle{Center: mgl64.Vec2{0, 0}, Radius: 2}

	hits := Intersect(l, c)
	if len(hits) != 1 {
		t.Fatalf("expected 1 tangent intersection, got %d", len(hits))
	}
	if !nearVec(hits[0].Point, mgl64.Vec2{0, 2}) {
		t.Errorf("point = %v, want (0,2)", hits[0].Point)
	}
}

func TestLineArcSweepFilter(t *testing.T) {
	// Quarter arc in the first quadrant.
	a := Arc{Center: mgl64.Vec2{0, 0}, Radius: 2, StartAngle: 0, EndAngle: math.Pi / 2}
	l := Line{Start: mgl64.Vec2{-10, 0}, End: mgl64.Vec2{10, 0}}

	hits := Intersect(l, a)
	if len(hits) != 1 {
		t.Fatalf("expected 1 intersection inside the sweep, got %d", len(hits))
	}
	if !nearVec(hits[0].Point, mgl64.Vec2{2, 0}) {
		t.Errorf("point = %v, want (2,0)", hits[0].Point)
	}
}

func TestArcWrapAcrossZero(t *testing.T) {
	// Arc sweeping from 7/4 pi through 0 to 1/4 pi.
	a := Arc{Center: mgl64.Vec2{0, 0}, Radius: 1, StartAngle: 7 * math.Pi / 4, EndAngle: math.Pi / 4}

	// The +X axis crossing at angle 0 is inside the wrapped sweep.
	lx := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{5, 0}}
	hits := Intersect(lx, a)
	if len(hits) != 1 {
		t.Fatalf("expected 1 intersection at the wrap, got %d", len(hits))
	}
	if !near(hits[0].ParamB, 0) {
		t.Errorf("arc angle = %g, want 0", hits[0].ParamB)
	}

	// The -X axis crossing at angle pi is outside the sweep.
	ln := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{-5, 0}}
	if hits := Intersect(ln, a); len(hits) != 0 {
		t.Errorf("angle pi should be outside the sweep, got %v", hits)
	}
}

func TestCircleCircle(t *testing.T) {
	a := Circle{Center: mgl64.Vec2{0, 0}, Radius: 5}
	b := Circle{Center: mgl64.Vec2{8, 0}, Radius: 5}

	hits := Intersect(a, b)
	if len(hits) != 2 {
		t.Fatalf("expected 2 intersections, got %d", len(hits))
	}
	for _, h := range hits {
		if !near(h.Point.X(), 4) {
			t.Errorf("x = %g, want 4", h.Point.X())
		}
		if !near(math.Abs(h.Point.Y()), 3) {
			t.Errorf("|y| = %g, want 3", math.Abs(h.Point.Y()))
		}
	}
}

func TestCircleCircleDisjoint(t *testing.T) {
	a := Circle{Center: mgl64.Vec2{0, 0}, Radius: 1}
	b := Circle{Center: mgl64.Vec2{10, 0}, Radius: 1}
	if hits := Intersect(a, b); len(hits) != 0 {
		t.Errorf("disjoint circles intersected: %v", hits)
	}
}

func TestPolylineSegmentParams(t *testing.T) {
	// Two-segment L shape; the vertical line cuts the second segment.
	p := Polyline{Points: []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}}}
	cut := Line{Start: mgl64.Vec2{5, 5}, End: mgl64.Vec2{15, 5}}

	hits := Intersect(p, cut)
	if len(hits) != 1 {
		t.Fatalf("expected 1 intersection, got %d", len(hits))
	}
	// Second of two segments, halfway along it: (1 + 0.5) / 2.
	if !near(hits[0].ParamA, 0.75) {
		t.Errorf("polyline param = %g, want 0.75", hits[0].ParamA)
	}
	if !nearVec(hits[0].Point, mgl64.Vec2{10, 5}) {
		t.Errorf("point = %v, want (10,5)", hits[0].Point)
	}
}

func TestRectangleIntersectsAsBoundary(t *testing.T) {
	r := Rectangle{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}}
	l := Line{Start: mgl64.Vec2{-5, 5}, End: mgl64.Vec2{15, 5}}

	hits := Intersect(r, l)
	if len(hits) != 2 {
		t.Fatalf("expected 2 boundary crossings, got %d", len(hits))
	}
}

func TestDimensionNeverIntersects(t *testing.T) {
	d := Dimension{From: mgl64.Vec2{0, 0}, To: mgl64.Vec2{10, 0}}
	l := Line{Start: mgl64.Vec2{5, -5}, End: mgl64.Vec2{5, 5}}
	if hits := Intersect(d, l); len(hits) != 0 {
		t.Errorf("dimension produced intersections: %v", hits)
	}
	if hits := Intersect(l, d); len(hits) != 0 {
		t.Errorf("dimension produced intersections: %v", hits)
	}
}
