package kernel

// MeshData is the raw tessellation output of a solid. All arrays are
// flat: positions has 3 floats per vertex (x,y,z), indices has 3 uint32s
// per triangle. No normals or colors; those are added downstream.
type MeshData struct {
	Positions []float64 `json:"positions"` // [x0,y0,z0, x1,y1,z1, ...]
	Indices   []uint32  `json:"indices"`   // [i0,i1,i2, ...] triangles
}

// VertexCount returns the number of vertices.
func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the tessellation has no geometry.
func (m *MeshData) IsEmpty() bool {
	return len(m.Positions) == 0 || len(m.Indices) == 0
}
