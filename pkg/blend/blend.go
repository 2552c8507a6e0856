// Package blend synthesizes fillet and chamfer tool solids for mesh
// edges. Each qualifying edge yields a small prism swept along the
// edge; the union of all tools is subtracted from the base solid.
package blend

import (
	"math"

	"github.com/chisel-cad/chisel/pkg/kernel"
)

const (
	// Edges shorter than this produce no tool.
	minEdgeLength = 0.001
	// Normals whose dot product exceeds this are close enough to
	// coplanar that there is no meaningful edge to round.
	coplanarDot = 0.99
	// Chamfer tools are inflated by this much so the boolean cuts
	// cleanly through the shared face boundary.
	toolEpsilon = 0.01
)

// MinFilletSegments is the floor on fillet arc discretization.
const MinFilletSegments = 3

// Edge is one mesh edge selected for rounding: its endpoints and the
// face normals of the one or two adjacent triangles.
type Edge struct {
	A, B   [3]float64
	N1, N2 [3]float64
	HasN2  bool
}

// usable reports whether an edge qualifies for tool synthesis.
// Degenerate edges are skipped silently.
func (e Edge) usable() bool {
	if dist(e.A, e.B) < minEdgeLength {
		return false
	}
	if !e.HasN2 {
		return false
	}
	return dot(norm(e.N1), norm(e.N2)) <= coplanarDot
}

// ApplyChamfer cuts a flat bevel of the given distance along each
// usable edge. Returns nil when no edge produced a tool or the
// subtraction failed.
func ApplyChamfer(k kernel.Kernel, base kernel.Solid, edges []Edge, distance float64) kernel.Solid {
	if base == nil || distance <= 0 {
		return nil
	}
	var tool kernel.Solid
	for _, e := range edges {
		if !e.usable() {
			continue
		}
		t := chamferTool(k, e, distance)
		if t == nil {
			continue
		}
		if tool == nil {
			tool = t
		} else {
			tool = k.Union(tool, t)
		}
	}
	if tool == nil {
		return nil
	}
	return k.Difference(base, tool)
}

// ApplyFillet rounds each usable edge with a quarter-circle arc of the
// given radius, discretized into at least MinFilletSegments segments.
// Returns nil when no edge produced a tool or the subtraction failed.
func ApplyFillet(k kernel.Kernel, base kernel.Solid, edges []Edge, radius float64, segments int) kernel.Solid {
	if base == nil || radius <= 0 {
		return nil
	}
	if segments < MinFilletSegments {
		segments = MinFilletSegments
	}
	var tool kernel.Solid
	for _, e := range edges {
		if !e.usable() {
			continue
		}
		t := filletTool(k, e, radius, segments)
		if t == nil {
			continue
		}
		if tool == nil {
			tool = t
		} else {
			tool = k.Union(tool, t)
		}
	}
	if tool == nil {
		return nil
	}
	return k.Difference(base, tool)
}

// chamferTool builds a triangular prism along the edge. The profile at
// an endpoint E is {corner, corner-n1*d, corner-n2*d} with the corner
// pushed outward along n1+n2 by toolEpsilon, and the sweep overruns
// both ends by toolEpsilon.
func chamferTool(k kernel.Kernel, e Edge, distance float64) kernel.Solid {
	n1 := norm(e.N1)
	n2 := norm(e.N2)
	out := norm(add(n1, n2))
	dir := norm(sub(e.B, e.A))

	a := sub(e.A, scale(dir, toolEpsilon))
	b := add(e.B, scale(dir, toolEpsilon))

	profile := func(end [3]float64) [][3]float64 {
		corner := add(end, scale(out, toolEpsilon))
		return [][3]float64{
			corner,
			sub(corner, scale(n1, distance)),
			sub(corner, scale(n2, distance)),
		}
	}
	return prismSolid(k, profile(a), profile(b), dir)
}

// filletTool builds the concave wedge between the sharp corner and a
// quarter arc of the given radius.
func filletTool(k kernel.Kernel, e Edge, radius float64, segments int) kernel.Solid {
	n1 := norm(e.N1)
	n2 := norm(e.N2)
	dir := norm(sub(e.B, e.A))

	profile := func(end [3]float64) [][3]float64 {
		center := sub(sub(end, scale(n1, radius)), scale(n2, radius))
		poly := make([][3]float64, 0, segments+2)
		poly = append(poly, end)
		for i := 0; i <= segments; i++ {
			theta := float64(i) / float64(segments) * math.Pi / 2
			p := add(center, add(scale(n1, radius*math.Cos(theta)), scale(n2, radius*math.Sin(theta))))
			poly = append(poly, p)
		}
		return poly
	}
	return prismSolid(k, profile(e.A), profile(e.B), dir)
}

// prismSolid triangulates a swept profile into a closed surface and
// hands it to the kernel. The two cross-sections must have the same
// vertex count; bottom sits at the sweep start, top at the end. The
// profile order is normalized so the surface winds outward.
func prismSolid(k kernel.Kernel, bottom, top [][3]float64, dir [3]float64) kernel.Solid {
	m := len(bottom)
	if m < 3 || len(top) != m {
		return nil
	}
	if dot(newellNormal(bottom), dir) < 0 {
		reverse(bottom)
		reverse(top)
	}

	positions := make([]float64, 0, 2*m*3)
	for _, p := range bottom {
		positions = append(positions, p[0], p[1], p[2])
	}
	for _, p := range top {
		positions = append(positions, p[0], p[1], p[2])
	}
	bi := func(i int) uint32 { return uint32(i) }
	ti := func(i int) uint32 { return uint32(m + i) }

	var indices []uint32
	for i := 1; i < m-1; i++ {
		// Bottom cap faces against the sweep direction.
		indices = append(indices, bi(0), bi(i+1), bi(i))
		// Top cap faces along it.
		indices = append(indices, ti(0), ti(i), ti(i+1))
	}
	for i := 0; i < m; i++ {
		j := (i + 1) % m
		indices = append(indices, bi(i), bi(j), ti(j))
		indices = append(indices, bi(i), ti(j), ti(i))
	}

	s, err := k.FromTriangles(positions, indices)
	if err != nil {
		return nil
	}
	return s
}

// newellNormal computes the (unnormalized) polygon normal.
func newellNormal(poly [][3]float64) [3]float64 {
	var n [3]float64
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		n[0] += (a[1] - b[1]) * (a[2] + b[2])
		n[1] += (a[2] - b[2]) * (a[0] + b[0])
		n[2] += (a[0] - b[0]) * (a[1] + b[1])
	}
	return n
}

func reverse(poly [][3]float64) {
	for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
		poly[i], poly[j] = poly[j], poly[i]
	}
}

func add(a, b [3]float64) [3]float64 { return [3]float64{a[0] + b[0], a[1] + b[1], a[2] + b[2]} }
func sub(a, b [3]float64) [3]float64 { return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]} }
func scale(a [3]float64, s float64) [3]float64 {
	return [3]float64{a[0] * s, a[1] * s, a[2] * s}
}
func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }
func dist(a, b [3]float64) float64 {
	d := sub(a, b)
	return math.Sqrt(dot(d, d))
}
func norm(a [3]float64) [3]float64 {
	l := math.Sqrt(dot(a, a))
	if l == 0 {
		return a
	}
	return scale(a, 1/l)
}
