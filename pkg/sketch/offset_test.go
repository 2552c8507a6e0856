package sketch

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestOffsetLineLeftOfDirection(t *testing.T) {
	l := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}

	got, err := Offset(l, 2)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	off := got.(Line)
	// Travel +X: positive offset goes to +Y (left of direction).
	if !nearVec(off.Start, mgl64.Vec2{0, 2}) || !nearVec(off.End, mgl64.Vec2{10, 2}) {
		t.Errorf("offset = %v-%v, want (0,2)-(10,2)", off.Start, off.End)
	}

	got, err = Offset(l, -2)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	off = got.(Line)
	if !nearVec(off.Start, mgl64.Vec2{0, -2}) {
		t.Errorf("negative offset start = %v, want (0,-2)", off.Start)
	}
}

func TestOffsetCircleRadius(t *testing.T) {
	c := Circle{Center: mgl64.Vec2{1, 1}, Radius: 5}

	got, err := Offset(c, 2)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	oc := got.(Circle)
	if !near(oc.Radius, 7) {
		t.Errorf("radius = %g, want 7", oc.Radius)
	}
	if !nearVec(oc.Center, c.Center) {
		t.Errorf("center moved: %v", oc.Center)
	}

	if _, err := Offset(c, -5); err == nil {
		t.Error("expected error for collapsing radius")
	}
}

func TestOffsetArcKeepsSweep(t *testing.T) {
	a := Arc{Center: mgl64.Vec2{0, 0}, Radius: 4, StartAngle: 0.5, EndAngle: 2.5}

	got, err := Offset(a, -1)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	oa := got.(Arc)
	if !near(oa.Radius, 3) {
		t.Errorf("radius = %g, want 3", oa.Radius)
	}
	if !near(oa.StartAngle, 0.5) || !near(oa.EndAngle, 2.5) {
		t.Errorf("sweep changed: [%g, %g]", oa.StartAngle, oa.EndAngle)
	}
}

func TestOffsetRectangleGrows(t *testing.T) {
	r := Rectangle{Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 6}}

	got, err := Offset(r, 1)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	or := got.(Rectangle)
	if !nearVec(or.Min, mgl64.Vec2{-1, -1}) || !nearVec(or.Max, mgl64.Vec2{11, 7}) {
		t.Errorf("offset rect = %v..%v", or.Min, or.Max)
	}

	if _, err := Offset(r, -4); err == nil {
		t.Error("expected error for collapsing rectangle")
	}
}

func TestOffsetPolylineMiterJoin(t *testing.T) {
	// L shape along +X then +Y; offsetting left of travel pushes the
	// horizontal run up and the vertical run left, meeting at (9,1).
	p := Polyline{Points: []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}}}

	got, err := Offset(p, 1)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	op := got.(Polyline)
	if len(op.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(op.Points))
	}
	if !nearVec(op.Points[0], mgl64.Vec2{0, 1}) {
		t.Errorf("start = %v, want (0,1)", op.Points[0])
	}
	if !nearVec(op.Points[1], mgl64.Vec2{9, 1}) {
		t.Errorf("joint = %v, want (9,1)", op.Points[1])
	}
	if !nearVec(op.Points[2], mgl64.Vec2{9, 10}) {
		t.Errorf("end = %v, want (9,10)", op.Points[2])
	}
}

func TestOffsetUnsupported(t *testing.T) {
	d := Dimension{From: mgl64.Vec2{0, 0}, To: mgl64.Vec2{1, 0}}
	if _, err := Offset(d, 1); err == nil {
		t.Error("expected error for dimension offset")
	}
}

func TestOffsetStripsID(t *testing.T) {
	l := Line{ID: "orig", Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	got, err := Offset(l, 1)
	if err != nil {
		t.Fatalf("Offset failed: %v", err)
	}
	if got.ElementID() != "" {
		t.Errorf("offset copy kept id %q", got.ElementID())
	}
}
