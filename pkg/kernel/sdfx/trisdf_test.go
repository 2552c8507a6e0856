package sdfx

import (
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// unitCubeSoup is a closed 12-triangle cube spanning 0..1 with outward
// winding.
func unitCubeSoup() ([]float64, []uint32) {
	positions := []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		0, 0, 1,
		1, 0, 1,
		1, 1, 1,
		0, 1, 1,
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2,
		4, 5, 6, 4, 6, 7,
		0, 1, 5, 0, 5, 4,
		2, 3, 7, 2, 7, 6,
		0, 4, 7, 0, 7, 3,
		1, 2, 6, 1, 6, 5,
	}
	return positions, indices
}

func TestTriangleSDFSign(t *testing.T) {
	positions, indices := unitCubeSoup()
	s, err := newTriangleSDF(positions, indices)
	if err != nil {
		t.Fatal(err)
	}
	if d := s.Evaluate(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}); d >= 0 {
		t.Fatalf("center distance = %v, want negative", d)
	}
	if d := s.Evaluate(v3.Vec{X: 2, Y: 0.5, Z: 0.5}); !(d > 0.9 && d < 1.1) {
		t.Fatalf("outside distance = %v, want about 1", d)
	}
}

func TestTriangleSDFBounds(t *testing.T) {
	positions, indices := unitCubeSoup()
	s, err := newTriangleSDF(positions, indices)
	if err != nil {
		t.Fatal(err)
	}
	bb := s.BoundingBox()
	if bb.Min.X > 0 || bb.Max.X < 1 || bb.Min.Z > 0 || bb.Max.Z < 1 {
		t.Fatalf("bbox = %v..%v should cover the unit cube", bb.Min, bb.Max)
	}
}

func TestTriangleSDFValidation(t *testing.T) {
	if _, err := newTriangleSDF(nil, nil); err == nil {
		t.Fatal("empty soup should be rejected")
	}
	if _, err := newTriangleSDF([]float64{0, 0}, []uint32{0, 0, 0}); err == nil {
		t.Fatal("truncated positions should be rejected")
	}
	if _, err := newTriangleSDF([]float64{0, 0, 0}, []uint32{0, 0}); err == nil {
		t.Fatal("non-triple indices should be rejected")
	}
	if _, err := newTriangleSDF([]float64{0, 0, 0}, []uint32{0, 0, 9}); err == nil {
		t.Fatal("out-of-range index should be rejected")
	}
}

func TestClosestPointOnTriangle(t *testing.T) {
	a := [3]float64{0, 0, 0}
	b := [3]float64{2, 0, 0}
	c := [3]float64{0, 2, 0}

	// Above the interior: projects straight down.
	p := closestPointOnTriangle([3]float64{0.5, 0.5, 3}, a, b, c)
	if math.Abs(p[0]-0.5) > 1e-12 || math.Abs(p[1]-0.5) > 1e-12 || p[2] != 0 {
		t.Fatalf("interior projection = %v", p)
	}

	// Beyond a vertex: clamps to the vertex.
	p = closestPointOnTriangle([3]float64{-1, -1, 0}, a, b, c)
	if p != a {
		t.Fatalf("vertex clamp = %v, want %v", p, a)
	}

	// Beyond an edge: clamps onto the edge.
	p = closestPointOnTriangle([3]float64{1, -2, 0}, a, b, c)
	if math.Abs(p[1]) > 1e-12 || p[0] < 0 || p[0] > 2 {
		t.Fatalf("edge clamp = %v", p)
	}
}
