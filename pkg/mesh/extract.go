package mesh

import (
	"math"

	"github.com/chisel-cad/chisel/pkg/kernel"
)

// FromMeshData builds a flat-shaded render mesh from a kernel
// tessellation. Every triangle gets three fresh vertices carrying the
// triangle's face normal and the selection color, so shading stays
// faceted even where triangles share positions. Empty input means no
// geometry and returns nil rather than an error.
func FromMeshData(md *kernel.MeshData, selected bool) *Mesh {
	if md == nil || md.IsEmpty() {
		return nil
	}
	color := UnselectedColor
	if selected {
		color = SelectedColor
	}

	triCount := md.TriangleCount()
	out := &Mesh{
		Vertices: make([]float32, 0, triCount*3*Stride),
		Indices:  make([]uint32, 0, triCount*3),
	}

	var next uint32
	for t := 0; t < triCount; t++ {
		var p [3][3]float64
		for j := 0; j < 3; j++ {
			vi := int(md.Indices[t*3+j])
			p[j] = [3]float64{
				md.Positions[vi*3],
				md.Positions[vi*3+1],
				md.Positions[vi*3+2],
			}
		}
		n := faceNormal(p[0], p[1], p[2])
		for j := 0; j < 3; j++ {
			out.Vertices = append(out.Vertices,
				float32(p[j][0]), float32(p[j][1]), float32(p[j][2]),
				float32(n[0]), float32(n[1]), float32(n[2]),
				color[0], color[1], color[2],
			)
			out.Indices = append(out.Indices, next)
			next++
		}
	}
	return out
}

// faceNormal returns the unit normal of the triangle a,b,c, or the
// zero vector for a degenerate triangle.
func faceNormal(a, b, c [3]float64) [3]float64 {
	u := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := [3]float64{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	l := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if l == 0 {
		return [3]float64{}
	}
	return [3]float64{n[0] / l, n[1] / l, n[2] / l}
}
