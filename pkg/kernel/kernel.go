// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide solid modeling and boolean operations
// behind this interface. The kernel abstraction allows swapping backends
// without changing the rest of the system.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// MassProperties holds integral measurements of a solid, computed over
// its tessellated boundary.
type MassProperties struct {
	Volume       float64    `json:"volume"`
	SurfaceArea  float64    `json:"surfaceArea"`
	CenterOfMass [3]float64 `json:"centerOfMass"`
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Cube(x, y, z float64) (Solid, error)
	Cylinder(height, radius float64, segments int) (Solid, error)
	Sphere(radius float64, segments int) (Solid, error)
	Cone(height, radius float64, segments int) (Solid, error)

	// Profile solids. The profile is a closed 2D polygon in the XY plane;
	// extrusion is along +Z, revolution is about the Z axis.
	ExtrudeProfile(profile [][2]float64, height float64) (Solid, error)
	RevolveProfile(profile [][2]float64, angle float64) (Solid, error)

	// FromTriangles builds a solid from a closed triangle soup.
	// positions is a flat xyz array, indices are u32 triples.
	FromTriangles(positions []float64, indices []uint32) (Solid, error)

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in radians
	Scale(s Solid, x, y, z float64) Solid  // nonuniform scale about the origin

	// Mesh output
	ToMeshData(s Solid) (*MeshData, error)

	// Measurements
	Measure(s Solid) (MassProperties, error)
}
