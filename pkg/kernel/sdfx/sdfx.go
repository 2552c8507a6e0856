// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chisel-cad/chisel/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// DefaultMeshCells controls marching cubes tessellation resolution.
const DefaultMeshCells = 100

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	meshCells int
}

// New returns a new SdfxKernel with the default tessellation resolution.
func New() *SdfxKernel {
	return &SdfxKernel{meshCells: DefaultMeshCells}
}

// NewWithResolution returns a kernel with an explicit marching cubes
// cell count. Values below 16 are clamped to 16.
func NewWithResolution(cells int) *SdfxKernel {
	if cells < 16 {
		cells = 16
	}
	return &SdfxKernel{meshCells: cells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// Cube creates a box with the given dimensions, centered at the origin.
func (k *SdfxKernel) Cube(x, y, z float64) (kernel.Solid, error) {
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	return wrap(s), nil
}

// Cylinder creates a cylinder with the given height and radius, centered
// at the origin with its axis along Z. The segments parameter is ignored
// since SDF represents smooth surfaces.
func (k *SdfxKernel) Cylinder(height, radius float64, segments int) (kernel.Solid, error) {
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}
	return wrap(s), nil
}

// Sphere creates a sphere centered at the origin. The segments parameter
// is ignored since SDF represents smooth surfaces.
func (k *SdfxKernel) Sphere(radius float64, segments int) (kernel.Solid, error) {
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Sphere3D: %w", err)
	}
	return wrap(s), nil
}

// Cone creates a cone with its base at -height/2 and apex at +height/2
// on the Z axis.
func (k *SdfxKernel) Cone(height, radius float64, segments int) (kernel.Solid, error) {
	s, err := sdf.Cone3D(height, radius, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cone3D: %w", err)
	}
	return wrap(s), nil
}

// ExtrudeProfile extrudes a closed XY polygon along +Z by height.
// The resulting solid is centered on Z so its base sits at z=0 after a
// half-height shift.
func (k *SdfxKernel) ExtrudeProfile(profile [][2]float64, height float64) (kernel.Solid, error) {
	p2, err := polygon(profile)
	if err != nil {
		return nil, err
	}
	s := sdf.Extrude3D(p2, height)
	// Shift from center-origin to base-at-zero.
	m := sdf.Translate3d(v3.Vec{X: 0, Y: 0, Z: height / 2})
	return wrap(sdf.Transform3D(s, m)), nil
}

// RevolveProfile revolves a closed XY polygon about the Z axis through
// the given angle in radians (2*pi for a full revolution).
func (k *SdfxKernel) RevolveProfile(profile [][2]float64, angle float64) (kernel.Solid, error) {
	p2, err := polygon(profile)
	if err != nil {
		return nil, err
	}
	s, err := sdf.RevolveTheta3D(p2, angle)
	if err != nil {
		return nil, fmt.Errorf("sdfx.RevolveTheta3D: %w", err)
	}
	return wrap(s), nil
}

// polygon converts a point list into a closed sdf polygon profile.
func polygon(profile [][2]float64) (sdf.SDF2, error) {
	if len(profile) < 3 {
		return nil, fmt.Errorf("profile needs at least 3 points, got %d", len(profile))
	}
	pts := make([]v2.Vec, len(profile))
	for i, p := range profile {
		pts[i] = v2.Vec{X: p[0], Y: p[1]}
	}
	p2, err := sdf.Polygon2D(pts)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	return p2, nil
}

// FromTriangles builds a solid from a closed triangle soup using a
// distance-field approximation of the surface.
func (k *SdfxKernel) FromTriangles(positions []float64, indices []uint32) (kernel.Solid, error) {
	s, err := newTriangleSDF(positions, indices)
	if err != nil {
		return nil, err
	}
	return wrap(s), nil
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (radians) around X, Y, Z axes,
// applied in X, Y, Z order.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.RotateZ(z).Mul(sdf.RotateY(y)).Mul(sdf.RotateX(x))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale applies a nonuniform scale about the origin.
func (k *SdfxKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// ToMeshData converts a solid to raw triangle data using marching cubes.
func (k *SdfxKernel) ToMeshData(s kernel.Solid) (*kernel.MeshData, error) {
	sdf3 := unwrap(s)

	renderer := render.NewMarchingCubesUniform(k.meshCells)
	triangles := render.ToTriangles(sdf3, renderer)

	numTri := len(triangles)
	positions := make([]float64, 0, numTri*9)
	indices := make([]uint32, 0, numTri*3)

	for i, tri := range triangles {
		for j := 0; j < 3; j++ {
			v := tri[j]
			positions = append(positions, v.X, v.Y, v.Z)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.MeshData{
		Positions: positions,
		Indices:   indices,
	}, nil
}

// Measure computes volume, surface area and center of mass by
// integrating over the tessellated boundary. sdfx has no closed-form
// mass property queries, so the divergence theorem over the marching
// cubes triangles is used instead.
func (k *SdfxKernel) Measure(s kernel.Solid) (kernel.MassProperties, error) {
	md, err := k.ToMeshData(s)
	if err != nil {
		return kernel.MassProperties{}, err
	}

	var props kernel.MassProperties
	var cx, cy, cz float64

	for i := 0; i+2 < len(md.Indices); i += 3 {
		a := triVertex(md.Positions, md.Indices[i])
		b := triVertex(md.Positions, md.Indices[i+1])
		c := triVertex(md.Positions, md.Indices[i+2])

		// Cross product of the two edge vectors.
		e1 := [3]float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		e2 := [3]float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		cr := [3]float64{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}

		area := 0.5 * vecLen(cr)
		props.SurfaceArea += area

		// Signed volume of the tetrahedron (origin, a, b, c).
		vol := (a[0]*(b[1]*c[2]-b[2]*c[1]) +
			a[1]*(b[2]*c[0]-b[0]*c[2]) +
			a[2]*(b[0]*c[1]-b[1]*c[0])) / 6.0
		props.Volume += vol

		// Tetra centroid is the average of its four corners (origin included).
		cx += vol * (a[0] + b[0] + c[0]) / 4.0
		cy += vol * (a[1] + b[1] + c[1]) / 4.0
		cz += vol * (a[2] + b[2] + c[2]) / 4.0
	}

	if props.Volume != 0 {
		props.CenterOfMass = [3]float64{
			cx / props.Volume,
			cy / props.Volume,
			cz / props.Volume,
		}
	}
	if props.Volume < 0 {
		props.Volume = -props.Volume
	}
	return props, nil
}

func triVertex(positions []float64, idx uint32) [3]float64 {
	i := int(idx) * 3
	return [3]float64{positions[i], positions[i+1], positions[i+2]}
}

func vecLen(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
