// Package evaluate folds a body's feature history into a kernel solid.
// It is the collaborator between the scene data model and the geometry
// kernel: sketches become profiles, features become booleans, and
// parameter expressions are resolved against the body's parameter map.
package evaluate

import (
	"fmt"
	"math"

	"github.com/chisel-cad/chisel/pkg/blend"
	"github.com/chisel-cad/chisel/pkg/kernel"
	"github.com/chisel-cad/chisel/pkg/param"
	"github.com/chisel-cad/chisel/pkg/scene"
	"github.com/chisel-cad/chisel/pkg/sketch"
)

// circleProfileSegments is the discretization used when a sketch
// circle becomes an extrusion or revolution profile.
const circleProfileSegments = 32

// Evaluator turns feature histories into solids.
type Evaluator struct {
	k kernel.Kernel
}

// New returns an evaluator backed by the given kernel.
func New(k kernel.Kernel) *Evaluator {
	return &Evaluator{k: k}
}

// Body evaluates a body's feature history against its scene. A nil
// solid with nil error means the body has no 3D geometry (for example
// a sketch-only body). Kernel panics are confined here and surfaced as
// errors so one broken body never takes down a whole-scene build.
func (ev *Evaluator) Body(sc *scene.Scene, body *scene.Body) (result kernel.Solid, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("kernel panic: %v", r)
		}
	}()
	return ev.evalBody(sc, body, map[string]bool{})
}

func (ev *Evaluator) evalBody(sc *scene.Scene, body *scene.Body, building map[string]bool) (kernel.Solid, error) {
	if body == nil {
		return nil, fmt.Errorf("no such body")
	}
	if building[body.ID] {
		return nil, fmt.Errorf("body %q: circular boolean reference", body.ID)
	}
	building[body.ID] = true
	defer delete(building, body.ID)

	params, err := param.Resolve(body.Params)
	if err != nil {
		return nil, fmt.Errorf("body %q parameters: %w", body.ID, err)
	}

	var current kernel.Solid
	sketches := map[string]scene.SketchFeature{}

	for _, f := range body.Features {
		switch ft := f.(type) {
		case scene.BasePrimitive:
			s, err := ev.buildPrimitive(ft.Primitive, params)
			if err != nil {
				return nil, featureErr(ft, err)
			}
			current = ev.merge(current, ev.applyTransform(s, ft.Transform))

		case scene.BaseExtrude:
			s, err := ev.extrudeSketch(ft.Sketch, ft.Params.Height)
			if err != nil {
				return nil, featureErr(ft, err)
			}
			current = ev.merge(current, ev.applyTransform(s, ft.Transform))

		case scene.BaseRevolve:
			s, err := ev.revolveSketch(ft.Sketch, ft.Params.Angle)
			if err != nil {
				return nil, featureErr(ft, err)
			}
			current = ev.merge(current, ev.applyTransform(s, ft.Transform))

		case scene.SketchFeature:
			sketches[ft.ID] = ft

		case scene.Extrude:
			ref, ok := sketches[ft.SketchRef]
			if !ok {
				return nil, featureErr(ft, fmt.Errorf("references missing sketch %q", ft.SketchRef))
			}
			s, err := ev.extrudeSketch(ref.Sketch, ft.Params.Height)
			if err != nil {
				return nil, featureErr(ft, err)
			}
			s = ev.applyTransform(s, ref.Transform)
			current, err = ev.combine(current, s, ft.Cut)
			if err != nil {
				return nil, featureErr(ft, err)
			}

		case scene.Revolve:
			ref, ok := sketches[ft.SketchRef]
			if !ok {
				return nil, featureErr(ft, fmt.Errorf("references missing sketch %q", ft.SketchRef))
			}
			s, err := ev.revolveSketch(ref.Sketch, ft.Params.Angle)
			if err != nil {
				return nil, featureErr(ft, err)
			}
			s = ev.applyTransform(s, ref.Transform)
			current, err = ev.combine(current, s, ft.Cut)
			if err != nil {
				return nil, featureErr(ft, err)
			}

		case scene.BooleanModify:
			for _, id := range ft.Operands {
				other := sc.Body(id)
				if other == nil {
					return nil, featureErr(ft, fmt.Errorf("references missing body %q", id))
				}
				operand, err := ev.evalBody(sc, other, building)
				if err != nil {
					return nil, featureErr(ft, err)
				}
				if operand == nil {
					// The operand body has no geometry to combine.
					continue
				}
				switch ft.Op {
				case scene.OpUnion:
					current = ev.merge(current, operand)
				case scene.OpSubtract:
					if current == nil {
						return nil, featureErr(ft, fmt.Errorf("subtract with no base geometry"))
					}
					current = ev.k.Difference(current, operand)
				case scene.OpIntersect:
					if current == nil {
						return nil, featureErr(ft, fmt.Errorf("intersect with no base geometry"))
					}
					current = ev.k.Intersection(current, operand)
				default:
					return nil, featureErr(ft, fmt.Errorf("unknown boolean op %d", ft.Op))
				}
			}

		case scene.Fillet:
			if current == nil {
				continue
			}
			if out := blend.ApplyFillet(ev.k, current, edgeRefs(ft.Edges), ft.Radius, ft.Segments); out != nil {
				current = out
			}

		case scene.Chamfer:
			if current == nil {
				continue
			}
			if out := blend.ApplyChamfer(ev.k, current, edgeRefs(ft.Edges), ft.Distance); out != nil {
				current = out
			}

		default:
			return nil, fmt.Errorf("feature %s: unknown variant %T", f.FeatureID(), f)
		}
	}
	return current, nil
}

func featureErr(f scene.Feature, err error) error {
	return fmt.Errorf("feature %s: %w", f.FeatureID(), err)
}

// merge unions b into a, treating a nil accumulator as empty.
func (ev *Evaluator) merge(a, b kernel.Solid) kernel.Solid {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return ev.k.Union(a, b)
}

// combine applies an additive or subtractive feature solid.
func (ev *Evaluator) combine(base, tool kernel.Solid, cut bool) (kernel.Solid, error) {
	if !cut {
		return ev.merge(base, tool), nil
	}
	if base == nil {
		return nil, fmt.Errorf("cut with no base geometry")
	}
	return ev.k.Difference(base, tool), nil
}

// buildPrimitive constructs a primitive solid, applying any expression
// overrides against the resolved parameter values first.
func (ev *Evaluator) buildPrimitive(p scene.Primitive, params map[string]float64) (kernel.Solid, error) {
	p, err := resolvePrimitive(p, params)
	if err != nil {
		return nil, err
	}
	switch p.Kind {
	case scene.PrimCube:
		return ev.k.Cube(p.X, p.Y, p.Z)
	case scene.PrimCylinder:
		return ev.k.Cylinder(p.Height, p.Radius, p.Segments)
	case scene.PrimSphere:
		return ev.k.Sphere(p.Radius, p.Segments)
	case scene.PrimCone:
		return ev.k.Cone(p.Height, p.Radius, p.Segments)
	default:
		return nil, fmt.Errorf("unknown primitive kind %d", p.Kind)
	}
}

// resolvePrimitive evaluates dimension expressions into the primitive's
// numeric fields.
func resolvePrimitive(p scene.Primitive, params map[string]float64) (scene.Primitive, error) {
	for name, expr := range p.Exprs {
		v, err := param.Eval(expr, params)
		if err != nil {
			return p, fmt.Errorf("dimension %q: %w", name, err)
		}
		switch name {
		case "x":
			p.X = v
		case "y":
			p.Y = v
		case "z":
			p.Z = v
		case "height":
			p.Height = v
		case "radius":
			p.Radius = v
		default:
			return p, fmt.Errorf("unknown dimension %q", name)
		}
	}
	return p, nil
}

// applyTransform maps a feature transform onto a solid: scale, then
// rotate, then translate.
func (ev *Evaluator) applyTransform(s kernel.Solid, tr scene.Transform) kernel.Solid {
	if s == nil || tr.IsIdentity() {
		return s
	}
	sc := tr.EffectiveScale()
	if sc != [3]float64{1, 1, 1} {
		s = ev.k.Scale(s, sc[0], sc[1], sc[2])
	}
	if tr.Rotation != [3]float64{} {
		s = ev.k.Rotate(s, tr.Rotation[0], tr.Rotation[1], tr.Rotation[2])
	}
	if tr.Position != [3]float64{} {
		s = ev.k.Translate(s, tr.Position[0], tr.Position[1], tr.Position[2])
	}
	return s
}

// extrudeSketch extrudes the sketch's first closed profile by height
// and orients the result onto the sketch plane.
func (ev *Evaluator) extrudeSketch(sk sketch.Sketch, height float64) (kernel.Solid, error) {
	if height <= 0 {
		return nil, fmt.Errorf("extrude height must be positive, got %v", height)
	}
	profile, err := profileFromSketch(sk)
	if err != nil {
		return nil, err
	}
	s, err := ev.k.ExtrudeProfile(profile, height)
	if err != nil {
		return nil, err
	}
	return ev.orientToPlane(s, sk.Plane, sk.Offset), nil
}

// revolveSketch revolves the sketch's first closed profile about the
// plane's vertical axis by the given angle in radians.
func (ev *Evaluator) revolveSketch(sk sketch.Sketch, angle float64) (kernel.Solid, error) {
	if angle <= 0 || angle > 2*math.Pi {
		return nil, fmt.Errorf("revolve angle must be in (0, 2pi], got %v", angle)
	}
	profile, err := profileFromSketch(sk)
	if err != nil {
		return nil, err
	}
	s, err := ev.k.RevolveProfile(profile, angle)
	if err != nil {
		return nil, err
	}
	return ev.orientToPlane(s, sk.Plane, sk.Offset), nil
}

// orientToPlane moves a solid built in the XY plane onto the sketch's
// plane, offset along the plane normal.
func (ev *Evaluator) orientToPlane(s kernel.Solid, plane sketch.Plane, offset float64) kernel.Solid {
	switch plane {
	case sketch.PlaneXZ:
		s = ev.k.Rotate(s, math.Pi/2, 0, 0)
		if offset != 0 {
			s = ev.k.Translate(s, 0, offset, 0)
		}
	case sketch.PlaneYZ:
		s = ev.k.Rotate(s, 0, math.Pi/2, 0)
		if offset != 0 {
			s = ev.k.Translate(s, offset, 0, 0)
		}
	default:
		if offset != 0 {
			s = ev.k.Translate(s, 0, 0, offset)
		}
	}
	return s
}

// profileFromSketch finds the first element that forms a closed 2D
// profile. Lines, arcs, splines and dimensions never qualify.
func profileFromSketch(sk sketch.Sketch) ([][2]float64, error) {
	for _, el := range sk.Elements {
		switch e := el.(type) {
		case sketch.Rectangle:
			var profile [][2]float64
			for _, c := range e.Corners() {
				profile = append(profile, [2]float64{c.X(), c.Y()})
			}
			return profile, nil
		case sketch.Circle:
			if e.Radius <= 0 {
				continue
			}
			profile := make([][2]float64, 0, circleProfileSegments)
			for i := 0; i < circleProfileSegments; i++ {
				theta := 2 * math.Pi * float64(i) / circleProfileSegments
				profile = append(profile, [2]float64{
					e.Center.X() + e.Radius*math.Cos(theta),
					e.Center.Y() + e.Radius*math.Sin(theta),
				})
			}
			return profile, nil
		case sketch.Polyline:
			if e.Closed && len(e.Points) >= 3 {
				profile := make([][2]float64, 0, len(e.Points))
				for _, p := range e.Points {
					profile = append(profile, [2]float64{p.X(), p.Y()})
				}
				return profile, nil
			}
		}
	}
	return nil, fmt.Errorf("sketch has no closed profile")
}

// edgeRefs converts stored edge references into blend inputs.
func edgeRefs(refs []scene.EdgeRef) []blend.Edge {
	out := make([]blend.Edge, len(refs))
	for i, r := range refs {
		out[i] = blend.Edge{A: r.A, B: r.B, N1: r.N1, N2: r.N2, HasN2: r.HasN2}
	}
	return out
}
