package sketch

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// LinearPattern replicates an element along a direction (radians from
// +X) at fixed spacing, producing count-1 copies. A count below 2
// yields no copies. Copies carry no ids. Dimension annotations are
// never replicated.
func LinearPattern(el Element, count int, spacing, direction float64) []Element {
	if count < 2 {
		return nil
	}
	if _, isDim := el.(Dimension); isDim {
		return nil
	}

	step := mgl64.Vec2{math.Cos(direction), math.Sin(direction)}.Mul(spacing)
	copies := make([]Element, 0, count-1)
	for i := 1; i < count; i++ {
		copies = append(copies, translateElement(el, step.Mul(float64(i))))
	}
	return copies
}

// CircularPattern replicates an element around a center, splitting
// totalAngle (radians) into count equal steps and producing count-1
// copies. A count below 2 yields no copies. Copies carry no ids.
// Dimension annotations are never replicated.
func CircularPattern(el Element, count int, totalAngle float64, center mgl64.Vec2) []Element {
	if count < 2 {
		return nil
	}
	if _, isDim := el.(Dimension); isDim {
		return nil
	}

	step := totalAngle / float64(count)
	copies := make([]Element, 0, count-1)
	for i := 1; i < count; i++ {
		copies = append(copies, rotateElement(el, center, step*float64(i)))
	}
	return copies
}

// translateElement returns a copy of el moved by delta, with its id
// stripped.
func translateElement(el Element, delta mgl64.Vec2) Element {
	switch e := el.(type) {
	case Line:
		return Line{Start: e.Start.Add(delta), End: e.End.Add(delta)}
	case Circle:
		return Circle{Center: e.Center.Add(delta), Radius: e.Radius}
	case Arc:
		return Arc{Center: e.Center.Add(delta), Radius: e.Radius, StartAngle: e.StartAngle, EndAngle: e.EndAngle}
	case Rectangle:
		return Rectangle{Min: e.Min.Add(delta), Max: e.Max.Add(delta)}
	case Polyline:
		return Polyline{Points: translatePoints(e.Points, delta), Closed: e.Closed}
	case Spline:
		return Spline{Points: translatePoints(e.Points, delta)}
	default:
		return el
	}
}

// rotateElement returns a copy of el rotated about center by angle
// radians counterclockwise, with its id stripped. Rectangles become
// closed polylines since the rotated shape is no longer axis-aligned.
func rotateElement(el Element, center mgl64.Vec2, angle float64) Element {
	rot := func(p mgl64.Vec2) mgl64.Vec2 {
		d := p.Sub(center)
		c, s := math.Cos(angle), math.Sin(angle)
		return mgl64.Vec2{
			center.X() + d.X()*c - d.Y()*s,
			center.Y() + d.X()*s + d.Y()*c,
		}
	}

	switch e := el.(type) {
	case Line:
		return Line{Start: rot(e.Start), End: rot(e.End)}
	case Circle:
		return Circle{Center: rot(e.Center), Radius: e.Radius}
	case Arc:
		return Arc{
			Center:     rot(e.Center),
			Radius:     e.Radius,
			StartAngle: normalizeAngle(e.StartAngle + angle),
			EndAngle:   normalizeAngle(e.EndAngle + angle),
		}
	case Rectangle:
		c := e.Corners()
		return Polyline{
			Points: []mgl64.Vec2{rot(c[0]), rot(c[1]), rot(c[2]), rot(c[3])},
			Closed: true,
		}
	case Polyline:
		return Polyline{Points: rotatePoints(e.Points, rot), Closed: e.Closed}
	case Spline:
		return Spline{Points: rotatePoints(e.Points, rot)}
	default:
		return el
	}
}

func translatePoints(pts []mgl64.Vec2, delta mgl64.Vec2) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(pts))
	for i, p := range pts {
		out[i] = p.Add(delta)
	}
	return out
}

func rotatePoints(pts []mgl64.Vec2, rot func(mgl64.Vec2) mgl64.Vec2) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(pts))
	for i, p := range pts {
		out[i] = rot(p)
	}
	return out
}
