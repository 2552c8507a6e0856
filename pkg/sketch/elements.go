// Package sketch defines 2D sketch elements and the curve editing
// engine (intersection, trim, fillet, offset, pattern) that operates
// on them. Sketches live on a named base plane and feed extrude and
// revolve features.
package sketch

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Plane enumerates the base planes a sketch can be attached to.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "xy"
	case PlaneXZ:
		return "xz"
	case PlaneYZ:
		return "yz"
	default:
		return "unknown"
	}
}

// Sketch is an ordered list of 2D elements on a base plane, shifted
// along the plane normal by Offset.
type Sketch struct {
	Plane    Plane     `json:"plane"`
	Offset   float64   `json:"offset"`
	Elements []Element `json:"elements"`
}

// Element is the interface for sketch element variants.
type Element interface {
	// ElementID returns the element's id, or "" when unset.
	ElementID() string
	element() // marker method restricting implementations to this package
}

// Line is a finite 2D segment.
type Line struct {
	ID    string     `json:"id,omitempty"`
	Start mgl64.Vec2 `json:"start"`
	End   mgl64.Vec2 `json:"end"`
}

func (l Line) ElementID() string { return l.ID }
func (Line) element()            {}

// Dir returns the unit direction from Start to End, or the zero vector
// for a degenerate line.
func (l Line) Dir() mgl64.Vec2 {
	d := l.End.Sub(l.Start)
	if d.Len() == 0 {
		return mgl64.Vec2{}
	}
	return d.Normalize()
}

// Length returns the segment length.
func (l Line) Length() float64 {
	return l.End.Sub(l.Start).Len()
}

// PointAt returns the point at fractional parameter t in [0,1].
func (l Line) PointAt(t float64) mgl64.Vec2 {
	return l.Start.Add(l.End.Sub(l.Start).Mul(t))
}

// Circle is a full circle.
type Circle struct {
	ID     string     `json:"id,omitempty"`
	Center mgl64.Vec2 `json:"center"`
	Radius float64    `json:"radius"`
}

func (c Circle) ElementID() string { return c.ID }
func (Circle) element()            {}

// Arc is a circular arc swept counterclockwise from StartAngle to
// EndAngle (radians).
type Arc struct {
	ID         string     `json:"id,omitempty"`
	Center     mgl64.Vec2 `json:"center"`
	Radius     float64    `json:"radius"`
	StartAngle float64    `json:"startAngle"`
	EndAngle   float64    `json:"endAngle"`
}

func (a Arc) ElementID() string { return a.ID }
func (Arc) element()            {}

// PointAt returns the point at the given absolute angle on the arc's circle.
func (a Arc) PointAt(angle float64) mgl64.Vec2 {
	return mgl64.Vec2{
		a.Center.X() + a.Radius*math.Cos(angle),
		a.Center.Y() + a.Radius*math.Sin(angle),
	}
}

// Sweep returns the counterclockwise angular extent of the arc in (0, 2*pi].
func (a Arc) Sweep() float64 {
	s := normalizeAngle(a.EndAngle - a.StartAngle)
	if s == 0 {
		s = 2 * math.Pi
	}
	return s
}

// Rectangle is an axis-aligned rectangle given by opposite corners.
type Rectangle struct {
	ID  string     `json:"id,omitempty"`
	Min mgl64.Vec2 `json:"min"`
	Max mgl64.Vec2 `json:"max"`
}

func (r Rectangle) ElementID() string { return r.ID }
func (Rectangle) element()            {}

// Corners returns the rectangle's corners in counterclockwise order.
func (r Rectangle) Corners() [4]mgl64.Vec2 {
	return [4]mgl64.Vec2{
		{r.Min.X(), r.Min.Y()},
		{r.Max.X(), r.Min.Y()},
		{r.Max.X(), r.Max.Y()},
		{r.Min.X(), r.Max.Y()},
	}
}

// Polyline is an ordered point chain, optionally closed.
type Polyline struct {
	ID     string       `json:"id,omitempty"`
	Points []mgl64.Vec2 `json:"points"`
	Closed bool         `json:"closed,omitempty"`
}

func (p Polyline) ElementID() string { return p.ID }
func (Polyline) element()            {}

// Segments returns the polyline's segments as lines, including the
// closing segment when the polyline is closed.
func (p Polyline) Segments() []Line {
	if len(p.Points) < 2 {
		return nil
	}
	n := len(p.Points) - 1
	if p.Closed {
		n = len(p.Points)
	}
	segs := make([]Line, 0, n)
	for i := 0; i < n; i++ {
		segs = append(segs, Line{
			Start: p.Points[i],
			End:   p.Points[(i+1)%len(p.Points)],
		})
	}
	return segs
}

// Spline is an interpolating curve through control points. The curve
// engine treats it as annotation-adjacent geometry: it participates in
// patterns and offsets of its control polygon but not in intersection
// or trim.
type Spline struct {
	ID     string       `json:"id,omitempty"`
	Points []mgl64.Vec2 `json:"points"`
}

func (s Spline) ElementID() string { return s.ID }
func (Spline) element()            {}

// Dimension is an annotation between two points. It is never geometry:
// it does not intersect, trim, offset or replicate.
type Dimension struct {
	ID    string     `json:"id,omitempty"`
	From  mgl64.Vec2 `json:"from"`
	To    mgl64.Vec2 `json:"to"`
	Value float64    `json:"value,omitempty"`
	Label string     `json:"label,omitempty"`
}

func (d Dimension) ElementID() string { return d.ID }
func (Dimension) element()            {}

// normalizeAngle wraps an angle into [0, 2*pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// angleOn returns the angle of point p as seen from center.
func angleOn(center, p mgl64.Vec2) float64 {
	return normalizeAngle(math.Atan2(p.Y()-center.Y(), p.X()-center.X()))
}

// withinArc reports whether angle a lies on the counterclockwise sweep
// from start to end, handling the wrap across 0/2*pi.
func withinArc(start, end, a float64) bool {
	sweep := normalizeAngle(end - start)
	if sweep == 0 {
		sweep = 2 * math.Pi
	}
	rel := normalizeAngle(a - start)
	return rel <= sweep
}
