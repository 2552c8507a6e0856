package sketch

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// epsilon is the tolerance for parameter-range and coincidence tests.
const epsilon = 1e-9

// Intersection is a single crossing of two elements. Params locate the
// point along each owning element: a 0..1 fraction for finite elements
// (lines, polyline chains), an absolute angle in [0, 2*pi) for circles
// and arcs.
type Intersection struct {
	Point  mgl64.Vec2 `json:"point"`
	ParamA float64    `json:"paramA"`
	ParamB float64    `json:"paramB"`
}

// Intersect returns all intersections between two elements, tagged with
// parameters along each. Unsupported pairs (splines, dimensions) yield
// no intersections.
func Intersect(a, b Element) []Intersection {
	switch ea := a.(type) {
	case Line:
		switch eb := b.(type) {
		case Line:
			return lineLine(ea, eb)
		case Circle:
			return lineCircle(ea, eb)
		case Arc:
			return lineArc(ea, eb)
		case Polyline:
			return swapParams(polylineWith(eb, ea))
		case Rectangle:
			return swapParams(polylineWith(rectPolyline(eb), ea))
		}
	case Circle:
		switch eb := b.(type) {
		case Line:
			return swapParams(lineCircle(eb, ea))
		case Circle:
			return circleCircle(ea, eb)
		case Arc:
			return circleArc(ea, eb)
		case Polyline:
			return swapParams(polylineWith(eb, ea))
		case Rectangle:
			return swapParams(polylineWith(rectPolyline(eb), ea))
		}
	case Arc:
		switch eb := b.(type) {
		case Line:
			return swapParams(lineArc(eb, ea))
		case Circle:
			return swapParams(circleArc(eb, ea))
		case Arc:
			return arcArc(ea, eb)
		case Polyline:
			return swapParams(polylineWith(eb, ea))
		case Rectangle:
			return swapParams(polylineWith(rectPolyline(eb), ea))
		}
	case Polyline:
		return polylineWith(ea, b)
	case Rectangle:
		return polylineWith(rectPolyline(ea), b)
	}
	return nil
}

// rectPolyline converts a rectangle into its closed boundary polyline.
func rectPolyline(r Rectangle) Polyline {
	c := r.Corners()
	return Polyline{ID: r.ID, Points: c[:], Closed: true}
}

// swapParams flips ParamA and ParamB so results match the caller's
// argument order.
func swapParams(hits []Intersection) []Intersection {
	for i := range hits {
		hits[i].ParamA, hits[i].ParamB = hits[i].ParamB, hits[i].ParamA
	}
	return hits
}

// lineLine intersects two finite segments.
func lineLine(a, b Line) []Intersection {
	d1 := a.End.Sub(a.Start)
	d2 := b.End.Sub(b.Start)
	denom := d1.X()*d2.Y() - d1.Y()*d2.X()
	if math.Abs(denom) < epsilon {
		return nil // parallel or degenerate
	}

	w := b.Start.Sub(a.Start)
	t := (w.X()*d2.Y() - w.Y()*d2.X()) / denom
	u := (w.X()*d1.Y() - w.Y()*d1.X()) / denom
	if t < -epsilon || t > 1+epsilon || u < -epsilon || u > 1+epsilon {
		return nil
	}

	return []Intersection{{
		Point:  a.PointAt(clamp01(t)),
		ParamA: clamp01(t),
		ParamB: clamp01(u),
	}}
}

// lineCircle intersects a finite segment with a full circle.
func lineCircle(l Line, c Circle) []Intersection {
	d := l.End.Sub(l.Start)
	f := l.Start.Sub(c.Center)

	qa := d.Dot(d)
	if qa < epsilon {
		return nil // degenerate segment
	}
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - c.Radius*c.Radius

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)

	var hits []Intersection
	for _, t := range []float64{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
		if t < -epsilon || t > 1+epsilon {
			continue
		}
		t = clamp01(t)
		p := l.PointAt(t)
		hits = append(hits, Intersection{
			Point:  p,
			ParamA: t,
			ParamB: angleOn(c.Center, p),
		})
		if sq < epsilon {
			break // tangent: one root
		}
	}
	return hits
}

// lineArc intersects a finite segment with an arc, keeping only hits
// inside the arc's sweep.
func lineArc(l Line, a Arc) []Intersection {
	hits := lineCircle(l, Circle{Center: a.Center, Radius: a.Radius})
	var kept []Intersection
	for _, h := range hits {
		if withinArc(a.StartAngle, a.EndAngle, h.ParamB) {
			kept = append(kept, h)
		}
	}
	return kept
}

// circleCircle intersects two full circles.
func circleCircle(a, b Circle) []Intersection {
	d := b.Center.Sub(a.Center)
	dist := d.Len()
	if dist < epsilon {
		return nil // concentric
	}
	if dist > a.Radius+b.Radius+epsilon || dist < math.Abs(a.Radius-b.Radius)-epsilon {
		return nil
	}

	// Distance from a's center to the chord midpoint.
	x := (dist*dist + a.Radius*a.Radius - b.Radius*b.Radius) / (2 * dist)
	h2 := a.Radius*a.Radius - x*x
	if h2 < 0 {
		h2 = 0
	}
	h := math.Sqrt(h2)

	dir := d.Mul(1 / dist)
	mid := a.Center.Add(dir.Mul(x))
	perp := mgl64.Vec2{-dir.Y(), dir.X()}

	p1 := mid.Add(perp.Mul(h))
	hits := []Intersection{{
		Point:  p1,
		ParamA: angleOn(a.Center, p1),
		ParamB: angleOn(b.Center, p1),
	}}
	if h > epsilon {
		p2 := mid.Sub(perp.Mul(h))
		hits = append(hits, Intersection{
			Point:  p2,
			ParamA: angleOn(a.Center, p2),
			ParamB: angleOn(b.Center, p2),
		})
	}
	return hits
}

// circleArc intersects a circle with an arc.
func circleArc(c Circle, a Arc) []Intersection {
	hits := circleCircle(c, Circle{Center: a.Center, Radius: a.Radius})
	var kept []Intersection
	for _, h := range hits {
		if withinArc(a.StartAngle, a.EndAngle, h.ParamB) {
			kept = append(kept, h)
		}
	}
	return kept
}

// arcArc intersects two arcs.
func arcArc(a, b Arc) []Intersection {
	hits := circleCircle(
		Circle{Center: a.Center, Radius: a.Radius},
		Circle{Center: b.Center, Radius: b.Radius},
	)
	var kept []Intersection
	for _, h := range hits {
		if withinArc(a.StartAngle, a.EndAngle, h.ParamA) &&
			withinArc(b.StartAngle, b.EndAngle, h.ParamB) {
			kept = append(kept, h)
		}
	}
	return kept
}

// polylineWith intersects every segment of a polyline with another
// element. The polyline parameter is (segment + fraction) / segments,
// a 0..1 position along the whole chain.
func polylineWith(p Polyline, other Element) []Intersection {
	segs := p.Segments()
	if len(segs) == 0 {
		return nil
	}
	n := float64(len(segs))

	var hits []Intersection
	for i, seg := range segs {
		for _, h := range Intersect(seg, other) {
			h.ParamA = (float64(i) + h.ParamA) / n
			hits = append(hits, h)
		}
	}
	return hits
}

func clamp01(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
