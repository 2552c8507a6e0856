package sketch

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestTrimLineMiddleSpan(t *testing.T) {
	target := Line{ID: "t", Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	cutters := []Element{
		Line{ID: "c1", Start: mgl64.Vec2{3, -5}, End: mgl64.Vec2{3, 5}},
		Line{ID: "c2", Start: mgl64.Vec2{7, -5}, End: mgl64.Vec2{7, 5}},
	}

	res := Trim(target, cutters, mgl64.Vec2{5, 0})
	if res.Outcome != TrimReplaced {
		t.Fatalf("outcome = %v, want replaced", res.Outcome)
	}
	if len(res.Replacements) != 2 {
		t.Fatalf("expected 2 replacements, got %d", len(res.Replacements))
	}

	left := res.Replacements[0].(Line)
	right := res.Replacements[1].(Line)
	if !nearVec(left.Start, mgl64.Vec2{0, 0}) || !nearVec(left.End, mgl64.Vec2{3, 0}) {
		t.Errorf("left piece = %v-%v, want (0,0)-(3,0)", left.Start, left.End)
	}
	if !nearVec(right.Start, mgl64.Vec2{7, 0}) || !nearVec(right.End, mgl64.Vec2{10, 0}) {
		t.Errorf("right piece = %v-%v, want (7,0)-(10,0)", right.Start, right.End)
	}
}

func TestTrimLineEndSpan(t *testing.T) {
	target := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	cutters := []Element{
		Line{Start: mgl64.Vec2{4, -5}, End: mgl64.Vec2{4, 5}},
	}

	// Click past the cut, toward the end: the tail span is removed.
	res := Trim(target, cutters, mgl64.Vec2{8, 0})
	if res.Outcome != TrimReplaced {
		t.Fatalf("outcome = %v, want replaced", res.Outcome)
	}
	if len(res.Replacements) != 1 {
		t.Fatalf("expected 1 replacement, got %d", len(res.Replacements))
	}
	kept := res.Replacements[0].(Line)
	if !nearVec(kept.End, mgl64.Vec2{4, 0}) {
		t.Errorf("kept piece ends at %v, want (4,0)", kept.End)
	}
}

func TestTrimLineNoIntersection(t *testing.T) {
	target := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	cutters := []Element{
		Line{Start: mgl64.Vec2{0, 5}, End: mgl64.Vec2{10, 5}},
	}
	res := Trim(target, cutters, mgl64.Vec2{5, 0})
	if res.Outcome != TrimNoChange {
		t.Errorf("outcome = %v, want no-change", res.Outcome)
	}
	if res.Replacements != nil {
		t.Errorf("no-change carried replacements: %v", res.Replacements)
	}
}

func TestTrimLineFullyConsumed(t *testing.T) {
	// Cuts exactly at both endpoints: the clicked span is the whole line.
	target := Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	cutters := []Element{
		Line{Start: mgl64.Vec2{0, -5}, End: mgl64.Vec2{0, 5}},
		Line{Start: mgl64.Vec2{10, -5}, End: mgl64.Vec2{10, 5}},
	}
	res := Trim(target, cutters, mgl64.Vec2{5, 0})
	if res.Outcome != TrimRemoved {
		t.Errorf("outcome = %v, want removed", res.Outcome)
	}
}

func TestTrimCircleOpensIntoArc(t *testing.T) {
	target := Circle{Center: mgl64.Vec2{0, 0}, Radius: 5}
	cutters := []Element{
		Line{Start: mgl64.Vec2{-10, 0}, End: mgl64.Vec2{10, 0}}, // cuts at 0 and pi
	}

	// Click at the top: remove the upper half, keep the lower arc.
	res := Trim(target, cutters, mgl64.Vec2{0, 5})
	if res.Outcome != TrimReplaced {
		t.Fatalf("outcome = %v, want replaced", res.Outcome)
	}
	if len(res.Replacements) != 1 {
		t.Fatalf("expected 1 replacement, got %d", len(res.Replacements))
	}
	arc, ok := res.Replacements[0].(Arc)
	if !ok {
		t.Fatalf("replacement is %T, want Arc", res.Replacements[0])
	}
	if !near(arc.StartAngle, math.Pi) || !near(arc.EndAngle, 0) {
		t.Errorf("arc sweep = [%g, %g], want [pi, 0]", arc.StartAngle, arc.EndAngle)
	}
}

func TestTrimCircleSingleCutNoChange(t *testing.T) {
	target := Circle{Center: mgl64.Vec2{0, 0}, Radius: 5}
	cutters := []Element{
		Line{Start: mgl64.Vec2{5, -10}, End: mgl64.Vec2{5, 10}}, // tangent, one hit
	}
	res := Trim(target, cutters, mgl64.Vec2{0, 5})
	if res.Outcome != TrimNoChange {
		t.Errorf("outcome = %v, want no-change", res.Outcome)
	}
}

func TestTrimArcInterior(t *testing.T) {
	// Half arc over the upper semicircle, cut by the vertical axis.
	target := Arc{Center: mgl64.Vec2{0, 0}, Radius: 5, StartAngle: 0, EndAngle: math.Pi}
	cutters := []Element{
		Line{Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{0, 10}}, // cuts at pi/2
	}

	// Click near the start end: the span [0, pi/2] is removed.
	res := Trim(target, cutters, mgl64.Vec2{5 * math.Cos(0.3), 5 * math.Sin(0.3)})
	if res.Outcome != TrimReplaced {
		t.Fatalf("outcome = %v, want replaced", res.Outcome)
	}
	if len(res.Replacements) != 1 {
		t.Fatalf("expected 1 replacement, got %d", len(res.Replacements))
	}
	arc := res.Replacements[0].(Arc)
	if !near(arc.StartAngle, math.Pi/2) || !near(arc.EndAngle, math.Pi) {
		t.Errorf("arc sweep = [%g, %g], want [pi/2, pi]", arc.StartAngle, arc.EndAngle)
	}
}

func TestTrimPolylineSplitsChain(t *testing.T) {
	p := Polyline{Points: []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}}}
	cutters := []Element{
		Line{Start: mgl64.Vec2{3, -5}, End: mgl64.Vec2{3, 5}},
		Line{Start: mgl64.Vec2{7, -5}, End: mgl64.Vec2{7, 5}},
	}

	res := Trim(p, cutters, mgl64.Vec2{5, 0})
	if res.Outcome != TrimReplaced {
		t.Fatalf("outcome = %v, want replaced", res.Outcome)
	}
	if len(res.Replacements) != 2 {
		t.Fatalf("expected 2 replacements, got %d", len(res.Replacements))
	}
}

func TestTrimPolylineSelfExcluded(t *testing.T) {
	// The chain's own adjacent segments meet the clicked segment at its
	// endpoints; with no other cutters the click must be a no-op.
	p := Polyline{ID: "p", Points: []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}, {0, 10}}}

	res := Trim(p, []Element{p}, mgl64.Vec2{10, 5})
	if res.Outcome != TrimNoChange {
		t.Errorf("outcome = %v, want no-change (self excluded)", res.Outcome)
	}
}

func TestTrimPolylineSelfWithRealCutter(t *testing.T) {
	// With the chain itself in the cutter set, only the genuine cutter
	// bounds the removed span.
	p := Polyline{ID: "p", Points: []mgl64.Vec2{{0, 0}, {10, 0}, {10, 10}}}
	cutter := Line{ID: "c", Start: mgl64.Vec2{4, -5}, End: mgl64.Vec2{4, 5}}

	res := Trim(p, []Element{p, cutter}, mgl64.Vec2{7, 0})
	if res.Outcome != TrimReplaced {
		t.Fatalf("outcome = %v, want replaced", res.Outcome)
	}
	if len(res.Replacements) != 2 {
		t.Fatalf("expected 2 replacements, got %d", len(res.Replacements))
	}
	head := res.Replacements[0].(Polyline)
	if !nearVec(head.Points[len(head.Points)-1], mgl64.Vec2{4, 0}) {
		t.Errorf("head ends at %v, want (4,0)", head.Points[len(head.Points)-1])
	}
}

func TestTrimRectangleSelfExcluded(t *testing.T) {
	r := Rectangle{ID: "r", Min: mgl64.Vec2{0, 0}, Max: mgl64.Vec2{10, 10}}

	// Click the middle of the bottom edge with no cutters but the
	// rectangle itself.
	res := Trim(r, []Element{r}, mgl64.Vec2{5, 0})
	if res.Outcome != TrimNoChange {
		t.Errorf("outcome = %v, want no-change (self excluded)", res.Outcome)
	}
}

func TestTrimSelfExcluded(t *testing.T) {
	// A cutter sharing the target's id must not cut it.
	target := Line{ID: "x", Start: mgl64.Vec2{0, 0}, End: mgl64.Vec2{10, 0}}
	cutters := []Element{
		Line{ID: "x", Start: mgl64.Vec2{5, -5}, End: mgl64.Vec2{5, 5}},
	}
	res := Trim(target, cutters, mgl64.Vec2{2, 0})
	if res.Outcome != TrimNoChange {
		t.Errorf("outcome = %v, want no-change (self excluded)", res.Outcome)
	}
}
