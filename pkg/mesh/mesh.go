// Package mesh converts raw kernel tessellations into renderer-ready
// triangle meshes: flat shaded, per-vertex colored, with disjoint
// vertices per triangle.
package mesh

import (
	"fmt"
	"math"
)

// Stride is the number of floats per vertex: position, normal, color.
const Stride = 9

// Fixed vertex colors for the two selection states.
var (
	SelectedColor   = [3]float32{0.96, 0.62, 0.22}
	UnselectedColor = [3]float32{0.55, 0.65, 0.80}
	HighlightColor  = [3]float32{0.30, 0.85, 0.95}
)

// Mesh is a flat-shaded triangle mesh. Vertices is a flat buffer with
// Stride floats per vertex (position3, normal3, color3); Indices holds
// u32 triples. Extraction emits three fresh vertices per triangle, so
// no index is shared across triangles.
type Mesh struct {
	Vertices []float32 `json:"vertices"`
	Indices  []uint32  `json:"indices"`
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / Stride
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Validate checks the structural invariants: vertex buffer length is a
// multiple of Stride, index buffer length a multiple of 3, and every
// index within range.
func (m *Mesh) Validate() error {
	if len(m.Vertices)%Stride != 0 {
		return fmt.Errorf("mesh: vertex buffer length %d is not a multiple of %d", len(m.Vertices), Stride)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index buffer length %d is not a multiple of 3", len(m.Indices))
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("mesh: index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) [3]float64 {
	o := i * Stride
	return [3]float64{
		float64(m.Vertices[o]),
		float64(m.Vertices[o+1]),
		float64(m.Vertices[o+2]),
	}
}

// Normal returns the normal of vertex i.
func (m *Mesh) Normal(i int) [3]float64 {
	o := i*Stride + 3
	return [3]float64{
		float64(m.Vertices[o]),
		float64(m.Vertices[o+1]),
		float64(m.Vertices[o+2]),
	}
}

// SetColorAt overwrites one run of 3 color floats at the given float
// offset into the vertex buffer. The offset must point at a color run
// (vertex*Stride + 6); out-of-range writes are ignored.
func (m *Mesh) SetColorAt(offset int, c [3]float32) {
	if offset < 0 || offset+3 > len(m.Vertices) {
		return
	}
	m.Vertices[offset] = c[0]
	m.Vertices[offset+1] = c[1]
	m.Vertices[offset+2] = c[2]
}

// Recolor overwrites every vertex color. Positions, normals and
// topology are untouched.
func (m *Mesh) Recolor(c [3]float32) {
	for i := 0; i < m.VertexCount(); i++ {
		m.SetColorAt(i*Stride+6, c)
	}
}

// HighlightTriangles recolors the vertices of the given triangle
// indices. Out-of-range triangles are ignored.
func (m *Mesh) HighlightTriangles(tris []uint32, c [3]float32) {
	for _, t := range tris {
		base := int(t) * 3
		if base+2 >= len(m.Indices) {
			continue
		}
		for j := 0; j < 3; j++ {
			v := int(m.Indices[base+j])
			m.SetColorAt(v*Stride+6, c)
		}
	}
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// Bounds computes the mesh's bounding box from scratch. An empty mesh
// yields the zero box.
func (m *Mesh) Bounds() AABB {
	if m.IsEmpty() {
		return AABB{}
	}
	bb := AABB{
		Min: [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max: [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		for k := 0; k < 3; k++ {
			if p[k] < bb.Min[k] {
				bb.Min[k] = p[k]
			}
			if p[k] > bb.Max[k] {
				bb.Max[k] = p[k]
			}
		}
	}
	return bb
}
