package sketch

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Offset produces a parallel copy of an element at a signed
// perpendicular distance. The sign convention is fixed: positive
// offsets move a line to the left of its start-to-end direction, and
// grow the radius of circles and arcs; negative offsets mirror that.
// The copy carries no id.
func Offset(el Element, distance float64) (Element, error) {
	switch e := el.(type) {
	case Line:
		return offsetLine(e, distance)
	case Circle:
		r := e.Radius + distance
		if r <= epsilon {
			return nil, fmt.Errorf("offset: circle radius %g collapses at distance %g", e.Radius, distance)
		}
		return Circle{Center: e.Center, Radius: r}, nil
	case Arc:
		r := e.Radius + distance
		if r <= epsilon {
			return nil, fmt.Errorf("offset: arc radius %g collapses at distance %g", e.Radius, distance)
		}
		return Arc{Center: e.Center, Radius: r, StartAngle: e.StartAngle, EndAngle: e.EndAngle}, nil
	case Rectangle:
		min := mgl64.Vec2{e.Min.X() - distance, e.Min.Y() - distance}
		max := mgl64.Vec2{e.Max.X() + distance, e.Max.Y() + distance}
		if max.X()-min.X() <= epsilon || max.Y()-min.Y() <= epsilon {
			return nil, fmt.Errorf("offset: rectangle collapses at distance %g", distance)
		}
		return Rectangle{Min: min, Max: max}, nil
	case Polyline:
		return offsetPolyline(e, distance)
	default:
		return nil, fmt.Errorf("offset: unsupported element %T", el)
	}
}

func offsetLine(l Line, distance float64) (Element, error) {
	d := l.Dir()
	if d.Len() == 0 {
		return nil, fmt.Errorf("offset: degenerate line")
	}
	// Left normal of the travel direction.
	n := mgl64.Vec2{-d.Y(), d.X()}.Mul(distance)
	return Line{Start: l.Start.Add(n), End: l.End.Add(n)}, nil
}

// offsetPolyline offsets each segment and rejoins neighbors at the
// intersection of their offset carriers (miter join). Endpoints of an
// open chain keep their plain perpendicular offset.
func offsetPolyline(p Polyline, distance float64) (Element, error) {
	segs := p.Segments()
	if len(segs) == 0 {
		return nil, fmt.Errorf("offset: polyline needs at least 2 points")
	}

	off := make([]Line, len(segs))
	for i, s := range segs {
		o, err := offsetLine(s, distance)
		if err != nil {
			return nil, fmt.Errorf("offset: segment %d: %w", i, err)
		}
		off[i] = o.(Line)
	}

	join := func(a, b Line) mgl64.Vec2 {
		if p, ok := infiniteLineIntersection(a, b); ok {
			return p
		}
		return a.End // collinear neighbors: offsets share the joint
	}

	var pts []mgl64.Vec2
	if p.Closed {
		pts = make([]mgl64.Vec2, len(off))
		for i := range off {
			prev := off[(i-1+len(off))%len(off)]
			pts[i] = join(prev, off[i])
		}
		return Polyline{Points: pts, Closed: true}, nil
	}

	pts = append(pts, off[0].Start)
	for i := 0; i+1 < len(off); i++ {
		pts = append(pts, join(off[i], off[i+1]))
	}
	pts = append(pts, off[len(off)-1].End)
	return Polyline{Points: pts}, nil
}
