// Package topology recovers edge structure from flat-shaded triangle
// meshes. Because extraction duplicates vertices per triangle, shared
// edges only line up after quantizing positions; welding on quantized
// keys rebuilds the adjacency the tessellator threw away.
package topology

import (
	"math"

	"github.com/chisel-cad/chisel/pkg/mesh"
)

// quantScale fixes the welding resolution at 0.1 micro-units.
const quantScale = 10000

// gridKey is a position quantized to the welding grid.
type gridKey [3]int64

// edgeKey is an undirected edge: its two grid keys in sorted order.
type edgeKey struct {
	lo, hi gridKey
}

// Edge is a welded mesh edge. A and B keep the unquantized endpoint
// positions from the first triangle that produced the edge. N1 is that
// triangle's face normal; N2 is the adjacent triangle's normal when a
// second triangle shares the edge.
type Edge struct {
	A, B   [3]float64
	N1, N2 [3]float64
	HasN2  bool

	keyA, keyB gridKey
}

// Quantize snaps one coordinate onto the welding grid.
func Quantize(v float64) int64 {
	return int64(math.Round(v * quantScale))
}

func quantizePoint(p [3]float64) gridKey {
	return gridKey{Quantize(p[0]), Quantize(p[1]), Quantize(p[2])}
}

func less(a, b gridKey) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

func makeEdgeKey(a, b gridKey) edgeKey {
	if less(b, a) {
		return edgeKey{b, a}
	}
	return edgeKey{a, b}
}

// Weld extracts the unique undirected edges of a flat-shaded mesh.
// The first triangle touching an edge records its endpoints and
// normal; the second fills the other normal slot. Boundary edges come
// out with HasN2 false.
func Weld(m *mesh.Mesh) []*Edge {
	if m == nil || m.IsEmpty() {
		return nil
	}
	index := make(map[edgeKey]*Edge)
	var edges []*Edge

	for t := 0; t < m.TriangleCount(); t++ {
		var p [3][3]float64
		var k [3]gridKey
		for j := 0; j < 3; j++ {
			p[j] = m.Position(int(m.Indices[t*3+j]))
			k[j] = quantizePoint(p[j])
		}
		n := m.Normal(int(m.Indices[t*3]))

		for j := 0; j < 3; j++ {
			a, b := j, (j+1)%3
			if k[a] == k[b] {
				// Degenerate edge collapsed by quantization.
				continue
			}
			key := makeEdgeKey(k[a], k[b])
			if e, ok := index[key]; ok {
				if !e.HasN2 {
					e.N2 = n
					e.HasN2 = true
				}
				continue
			}
			e := &Edge{A: p[a], B: p[b], N1: n, keyA: k[a], keyB: k[b]}
			index[key] = e
			edges = append(edges, e)
		}
	}
	return edges
}

// Length returns the euclidean length of the edge.
func (e *Edge) Length() float64 {
	dx := e.B[0] - e.A[0]
	dy := e.B[1] - e.A[1]
	dz := e.B[2] - e.A[2]
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Midpoint returns the edge midpoint.
func (e *Edge) Midpoint() [3]float64 {
	return [3]float64{
		(e.A[0] + e.B[0]) / 2,
		(e.A[1] + e.B[1]) / 2,
		(e.A[2] + e.B[2]) / 2,
	}
}

// DihedralDegrees returns the angle between the two face normals in
// degrees, folded to [0, 90] by the absolute dot product. Edges with a
// single face report 0.
func (e *Edge) DihedralDegrees() float64 {
	if !e.HasN2 {
		return 0
	}
	d := e.N1[0]*e.N2[0] + e.N1[1]*e.N2[1] + e.N1[2]*e.N2[2]
	d = math.Abs(d)
	if d > 1 {
		d = 1
	}
	if d < -1 {
		d = -1
	}
	return math.Acos(d) * 180 / math.Pi
}

// IsSharp reports whether the dihedral angle exceeds the threshold in
// degrees.
func (e *Edge) IsSharp(threshold float64) bool {
	angle := e.DihedralDegrees()
	return angle > threshold && angle < 360-threshold
}

// SharpEdges filters welded edges down to those whose dihedral angle
// exceeds the threshold.
func SharpEdges(edges []*Edge, threshold float64) []*Edge {
	var out []*Edge
	for _, e := range edges {
		if e.IsSharp(threshold) {
			out = append(out, e)
		}
	}
	return out
}
