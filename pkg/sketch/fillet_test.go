package sketch

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFilletRightAngle(t *testing.T) {
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	b := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{0, 10}}

	res, err := Fillet(a, b, 2)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}

	if !near(res.Arc.Radius, 2) {
		t.Errorf("arc radius = %g, want 2", res.Arc.Radius)
	}
	if !nearVec(res.Arc.Center, mgl64.Vec2{2, 2}) {
		t.Errorf("arc center = %v, want (2,2)", res.Arc.Center)
	}

	ta := res.TrimmedA.(Line)
	tb := res.TrimmedB.(Line)
	if !nearVec(ta.Start, mgl64.Vec2{2, 0}) || !nearVec(ta.End, mgl64.Vec2{10, 0}) {
		t.Errorf("trimmed a = %v-%v, want (2,0)-(10,0)", ta.Start, ta.End)
	}
	if !nearVec(tb.Start, mgl64.Vec2{0, 2}) || !nearVec(tb.End, mgl64.Vec2{0, 10}) {
		t.Errorf("trimmed b = %v-%v, want (0,2)-(0,10)", tb.Start, tb.End)
	}

	// Arc endpoints coincide with the tangency points.
	p0 := res.Arc.PointAt(res.Arc.StartAngle)
	p1 := res.Arc.PointAt(res.Arc.EndAngle)
	ok := (nearVec(p0, ta.Start) && nearVec(p1, tb.Start)) ||
		(nearVec(p0, tb.Start) && nearVec(p1, ta.Start))
	if !ok {
		t.Errorf("arc endpoints %v, %v do not meet tangency points", p0, p1)
	}

	// The rounding arc is a quarter circle.
	if !near(res.Arc.Sweep(), math.Pi/2) {
		t.Errorf("arc sweep = %g, want pi/2", res.Arc.Sweep())
	}
}

func TestFilletNonAdjacentLines(t *testing.T) {
	// Lines whose carriers meet at (0,0) without touching there.
	a := Line{Start: mgl64.Vec2{1, 0}, End: mgl64.Vec2{10, 0}}
	b := Line{Start: mgl64.Vec2{0, 1}, End: mgl64.Vec2{0, 10}}

	res, err := Fillet(a, b, 1)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	if res.TrimmedA == nil || res.TrimmedB == nil {
		t.Fatal("expected both trimmed inputs")
	}
	ta := res.TrimmedA.(Line)
	if !nearVec(ta.Start, mgl64.Vec2{1, 0}) {
		t.Errorf("trimmed a starts at %v, want tangency (1,0)", ta.Start)
	}
}

func TestFilletDegenerateTrim(t *testing.T) {
	// Radius so large the tangency lands on the line's far endpoint:
	// the trimmed input is omitted.
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{2, 0}}
	b := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{0, 10}}

	res, err := Fillet(a, b, 2)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	if res.TrimmedA != nil {
		t.Errorf("expected trimmed a omitted, got %v", res.TrimmedA)
	}
	if res.TrimmedB == nil {
		t.Error("expected trimmed b present")
	}
}

func TestFilletParallelLines(t *testing.T) {
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	b := Line{Start: mgl64.Vec2{0, 1}, End: mgl64.Vec2{10, 1}}
	if _, err := Fillet(a, b, 1); err == nil {
		t.Error("expected error for parallel lines")
	}
}

func TestFilletLineArc(t *testing.T) {
	// Horizontal line crossing the upper semicircle at (4,3). The
	// fillet rounds the narrow wedge above the line, outside the arc.
	l := Line{Start: mgl64.Vec2{0, 3}, End: mgl64.Vec2{10, 3}}
	a := Arc{Center: mgl64.Vec2{0, 0}, Radius: 5, StartAngle: 0, EndAngle: math.Pi}

	res, err := Fillet(l, a, 1)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}

	if !near(res.Arc.Radius, 1) {
		t.Errorf("arc radius = %g, want 1", res.Arc.Radius)
	}
	// Center at distance 1 from the line and 6 from the arc center.
	if !nearVec(res.Arc.Center, mgl64.Vec2{math.Sqrt(20), 4}) {
		t.Errorf("arc center = %v, want (sqrt(20),4)", res.Arc.Center)
	}

	tl := res.TrimmedA.(Line)
	if !nearVec(tl.Start, mgl64.Vec2{math.Sqrt(20), 3}) || !nearVec(tl.End, mgl64.Vec2{10, 3}) {
		t.Errorf("trimmed line = %v-%v, want (sqrt(20),3)-(10,3)", tl.Start, tl.End)
	}

	ta := res.TrimmedB.(Arc)
	wantTan := math.Atan2(4, math.Sqrt(20)) // radial direction through the fillet center
	if !near(ta.StartAngle, wantTan) || !near(ta.EndAngle, math.Pi) {
		t.Errorf("trimmed arc sweep = [%g, %g], want [%g, pi]", ta.StartAngle, ta.EndAngle, wantTan)
	}

	// Fillet endpoints meet the two tangency points.
	p0 := res.Arc.PointAt(res.Arc.StartAngle)
	p1 := res.Arc.PointAt(res.Arc.EndAngle)
	tanArc := a.PointAt(wantTan)
	ok := (nearVec(p0, tl.Start) && nearVec(p1, tanArc)) ||
		(nearVec(p0, tanArc) && nearVec(p1, tl.Start))
	if !ok {
		t.Errorf("arc endpoints %v, %v do not meet tangency points", p0, p1)
	}
}

func TestFilletArcLineSwapped(t *testing.T) {
	l := Line{Start: mgl64.Vec2{0, 3}, End: mgl64.Vec2{10, 3}}
	a := Arc{Center: mgl64.Vec2{0, 0}, Radius: 5, StartAngle: 0, EndAngle: math.Pi}

	res, err := Fillet(a, l, 1)
	if err != nil {
		t.Fatalf("Fillet failed: %v", err)
	}
	if _, ok := res.TrimmedA.(Arc); !ok {
		t.Errorf("trimmed a is %T, want Arc", res.TrimmedA)
	}
	if _, ok := res.TrimmedB.(Line); !ok {
		t.Errorf("trimmed b is %T, want Line", res.TrimmedB)
	}
}

func TestFilletLineArcDisjoint(t *testing.T) {
	l := Line{Start: mgl64.Vec2{0, 10}, End: mgl64.Vec2{10, 10}}
	a := Arc{Center: mgl64.Vec2{0, 0}, Radius: 5, StartAngle: 0, EndAngle: math.Pi}
	if _, err := Fillet(l, a, 1); err == nil {
		t.Error("expected error for non-intersecting line and arc")
	}
}

func TestFilletUnsupportedPair(t *testing.T) {
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	c := Circle{Center: mgl64.Vec2{0, 0}, Radius: 5}
	if _, err := Fillet(a, c, 1); err == nil {
		t.Error("expected error for line-circle fillet")
	}
}

func TestFilletRejectsZeroRadius(t *testing.T) {
	a := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	b := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{0, 10}}
	if _, err := Fillet(a, b, 0); err == nil {
		t.Error("expected error for zero radius")
	}
}
