package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// triangleSDF approximates the signed distance field of a closed
// triangle soup. Distance is the minimum point-to-triangle distance;
// the sign comes from the facing of the nearest triangle. This is
// adequate for the small, well-formed tool solids (chamfer prisms,
// fillet sweeps) that feed boolean subtraction, and does not attempt
// robust sign resolution for arbitrary meshes.
type triangleSDF struct {
	tris []tri
	bb   sdf.Box3
}

type tri struct {
	a, b, c [3]float64
	n       [3]float64 // unit face normal, zero for degenerate triangles
}

var _ sdf.SDF3 = (*triangleSDF)(nil)

// newTriangleSDF builds a triangleSDF from flat positions and index triples.
func newTriangleSDF(positions []float64, indices []uint32) (*triangleSDF, error) {
	if len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d is not a multiple of 3", len(indices))
	}
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("position count %d is not a multiple of 3", len(positions))
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("empty triangle soup")
	}

	nv := len(positions) / 3
	min := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	max := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}

	s := &triangleSDF{tris: make([]tri, 0, len(indices)/3)}
	for i := 0; i+2 < len(indices); i += 3 {
		for j := 0; j < 3; j++ {
			if int(indices[i+j]) >= nv {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", indices[i+j], nv)
			}
		}
		t := tri{
			a: triVertex(positions, indices[i]),
			b: triVertex(positions, indices[i+1]),
			c: triVertex(positions, indices[i+2]),
		}
		t.n = faceNormal(t.a, t.b, t.c)
		for _, p := range [][3]float64{t.a, t.b, t.c} {
			for k := 0; k < 3; k++ {
				if p[k] < min[k] {
					min[k] = p[k]
				}
				if p[k] > max[k] {
					max[k] = p[k]
				}
			}
		}
		s.tris = append(s.tris, t)
	}

	s.bb = sdf.Box3{
		Min: v3.Vec{X: min[0], Y: min[1], Z: min[2]},
		Max: v3.Vec{X: max[0], Y: max[1], Z: max[2]},
	}
	return s, nil
}

// Evaluate returns the approximate signed distance from p to the surface.
func (s *triangleSDF) Evaluate(p v3.Vec) float64 {
	q := [3]float64{p.X, p.Y, p.Z}
	best := math.Inf(1)
	sign := 1.0

	for i := range s.tris {
		t := &s.tris[i]
		cp := closestPointOnTriangle(q, t.a, t.b, t.c)
		d2 := dist2(q, cp)
		if d2 < best {
			best = d2
			// Sign from the facing of the nearest triangle.
			dx := [3]float64{q[0] - cp[0], q[1] - cp[1], q[2] - cp[2]}
			if dot(dx, t.n) < 0 {
				sign = -1.0
			} else {
				sign = 1.0
			}
		}
	}
	return sign * math.Sqrt(best)
}

// BoundingBox returns the bounding box of the triangle soup.
func (s *triangleSDF) BoundingBox() sdf.Box3 {
	return s.bb
}

// faceNormal returns the unit normal of a triangle, or the zero vector
// when the triangle is degenerate.
func faceNormal(a, b, c [3]float64) [3]float64 {
	e1 := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	l := vecLen(n)
	if l == 0 {
		return [3]float64{}
	}
	return [3]float64{n[0] / l, n[1] / l, n[2] / l}
}

func dot(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func dist2(a, b [3]float64) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// closestPointOnTriangle returns the point on triangle abc nearest to p.
// Standard Voronoi region walk over the triangle's barycentric regions.
func closestPointOnTriangle(p, a, b, c [3]float64) [3]float64 {
	ab := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	ac := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	ap := [3]float64{p[0] - a[0], p[1] - a[1], p[2] - a[2]}

	d1 := dot(ab, ap)
	d2 := dot(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := [3]float64{p[0] - b[0], p[1] - b[1], p[2] - b[2]}
	d3 := dot(ab, bp)
	d4 := dot(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return [3]float64{a[0] + v*ab[0], a[1] + v*ab[1], a[2] + v*ab[2]}
	}

	cp := [3]float64{p[0] - c[0], p[1] - c[1], p[2] - c[2]}
	d5 := dot(ab, cp)
	d6 := dot(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return [3]float64{a[0] + w*ac[0], a[1] + w*ac[1], a[2] + w*ac[2]}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return [3]float64{
			b[0] + w*(c[0]-b[0]),
			b[1] + w*(c[1]-b[1]),
			b[2] + w*(c[2]-b[2]),
		}
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return [3]float64{
		a[0] + ab[0]*v + ac[0]*w,
		a[1] + ab[1]*v + ac[1]*w,
		a[2] + ab[2]*v + ac[2]*w,
	}
}
