// Package scene defines the feature-history data model: scenes, bodies,
// features, and the undo/redo store that owns them.
package scene

import "github.com/chisel-cad/chisel/pkg/sketch"

// PrimitiveKind enumerates base primitive shapes.
type PrimitiveKind int

const (
	PrimCube PrimitiveKind = iota
	PrimCylinder
	PrimSphere
	PrimCone
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimCube:
		return "cube"
	case PrimCylinder:
		return "cylinder"
	case PrimSphere:
		return "sphere"
	case PrimCone:
		return "cone"
	default:
		return "unknown"
	}
}

// Primitive describes a base solid. Only the fields relevant to Kind
// are meaningful: cubes use X/Y/Z, cylinders and cones use Height and
// Radius, spheres use Radius. Segments controls tessellation for
// kernels that honor it. Exprs optionally overrides a dimension
// ("x", "y", "z", "height", "radius") with an expression evaluated
// against the body's parameter map at build time.
type Primitive struct {
	Kind     PrimitiveKind     `json:"kind"`
	X        float64           `json:"x,omitempty"`
	Y        float64           `json:"y,omitempty"`
	Z        float64           `json:"z,omitempty"`
	Height   float64           `json:"height,omitempty"`
	Radius   float64           `json:"radius,omitempty"`
	Segments int               `json:"segments,omitempty"`
	Exprs    map[string]string `json:"exprs,omitempty"`
}

// BooleanOp enumerates boolean modify operations.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpSubtract
	OpIntersect
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpSubtract:
		return "subtract"
	case OpIntersect:
		return "intersect"
	default:
		return "unknown"
	}
}

// ExtrudeParams configures an extrude feature.
type ExtrudeParams struct {
	Height float64 `json:"height"`
}

// RevolveParams configures a revolve feature.
type RevolveParams struct {
	Angle float64 `json:"angle"` // radians, 2*pi for a full revolution
}

// EdgeRef pins a fillet/chamfer feature to a mesh edge by its welded
// endpoints and adjacent face normals. N2 is meaningful only when
// HasN2 is set; a single-normal edge is a boundary edge and cannot be
// blended.
type EdgeRef struct {
	A     [3]float64 `json:"a"`
	B     [3]float64 `json:"b"`
	N1    [3]float64 `json:"n1"`
	N2    [3]float64 `json:"n2,omitempty"`
	HasN2 bool       `json:"hasN2,omitempty"`
}

// Feature is one construction step in a body's history. The variant
// set is closed; every variant exposes a stable id.
type Feature interface {
	// FeatureID returns the feature's stable id.
	FeatureID() string
	feature() // marker method restricting implementations to this package
}

// BasePrimitive places a primitive solid as the body's base geometry.
type BasePrimitive struct {
	ID        string    `json:"id"`
	Primitive Primitive `json:"primitive"`
	Transform Transform `json:"transform"`
}

func (f BasePrimitive) FeatureID() string { return f.ID }
func (BasePrimitive) feature()            {}

// BaseExtrude extrudes an inline sketch as the body's base geometry.
type BaseExtrude struct {
	ID        string        `json:"id"`
	Sketch    sketch.Sketch `json:"sketch"`
	Transform Transform     `json:"transform"`
	Params    ExtrudeParams `json:"params"`
}

func (f BaseExtrude) FeatureID() string { return f.ID }
func (BaseExtrude) feature()            {}

// BaseRevolve revolves an inline sketch as the body's base geometry.
type BaseRevolve struct {
	ID        string        `json:"id"`
	Sketch    sketch.Sketch `json:"sketch"`
	Transform Transform     `json:"transform"`
	Params    RevolveParams `json:"params"`
}

func (f BaseRevolve) FeatureID() string { return f.ID }
func (BaseRevolve) feature()            {}

// SketchFeature adds a sketch to the history without producing solid
// geometry itself; later Extrude/Revolve features reference it by id.
type SketchFeature struct {
	ID        string        `json:"id"`
	Sketch    sketch.Sketch `json:"sketch"`
	Transform Transform     `json:"transform"`
}

func (f SketchFeature) FeatureID() string { return f.ID }
func (SketchFeature) feature()            {}

// Extrude extrudes a referenced sketch feature, adding material or,
// with Cut set, removing it.
type Extrude struct {
	ID        string        `json:"id"`
	Cut       bool          `json:"cut,omitempty"`
	SketchRef string        `json:"sketchRef"`
	Params    ExtrudeParams `json:"params"`
}

func (f Extrude) FeatureID() string { return f.ID }
func (Extrude) feature()            {}

// Revolve revolves a referenced sketch feature, adding material or,
// with Cut set, removing it.
type Revolve struct {
	ID        string        `json:"id"`
	Cut       bool          `json:"cut,omitempty"`
	SketchRef string        `json:"sketchRef"`
	Params    RevolveParams `json:"params"`
}

func (f Revolve) FeatureID() string { return f.ID }
func (Revolve) feature()            {}

// BooleanModify combines this body with other bodies' evaluated solids.
type BooleanModify struct {
	ID       string    `json:"id"`
	Op       BooleanOp `json:"op"`
	Operands []string  `json:"operands"` // sibling body ids
}

func (f BooleanModify) FeatureID() string { return f.ID }
func (BooleanModify) feature()            {}

// Fillet rounds the referenced mesh edges with a constant radius.
type Fillet struct {
	ID       string    `json:"id"`
	Edges    []EdgeRef `json:"edges"`
	Radius   float64   `json:"radius"`
	Segments int       `json:"segments,omitempty"`
}

func (f Fillet) FeatureID() string { return f.ID }
func (Fillet) feature()            {}

// Chamfer bevels the referenced mesh edges at a constant distance.
type Chamfer struct {
	ID       string    `json:"id"`
	Edges    []EdgeRef `json:"edges"`
	Distance float64   `json:"distance"`
}

func (f Chamfer) FeatureID() string { return f.ID }
func (Chamfer) feature()            {}

// cloneFeature deep-copies a feature variant.
func cloneFeature(f Feature) Feature {
	switch v := f.(type) {
	case BasePrimitive:
		if v.Primitive.Exprs != nil {
			exprs := make(map[string]string, len(v.Primitive.Exprs))
			for k, e := range v.Primitive.Exprs {
				exprs[k] = e
			}
			v.Primitive.Exprs = exprs
		}
		return v
	case BaseExtrude:
		v.Sketch = v.Sketch.Clone()
		return v
	case BaseRevolve:
		v.Sketch = v.Sketch.Clone()
		return v
	case SketchFeature:
		v.Sketch = v.Sketch.Clone()
		return v
	case BooleanModify:
		v.Operands = append([]string(nil), v.Operands...)
		return v
	case Fillet:
		v.Edges = append([]EdgeRef(nil), v.Edges...)
		return v
	case Chamfer:
		v.Edges = append([]EdgeRef(nil), v.Edges...)
		return v
	default:
		// Remaining variants are plain value types.
		return f
	}
}
