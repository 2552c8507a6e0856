package sketch

import "github.com/go-gl/mathgl/mgl64"

// Clone returns a deep copy of the sketch.
func (s Sketch) Clone() Sketch {
	out := Sketch{Plane: s.Plane, Offset: s.Offset}
	if s.Elements != nil {
		out.Elements = make([]Element, len(s.Elements))
		for i, e := range s.Elements {
			out.Elements[i] = CloneElement(e)
		}
	}
	return out
}

// CloneElement returns a deep copy of an element, id included.
func CloneElement(e Element) Element {
	switch v := e.(type) {
	case Polyline:
		return Polyline{ID: v.ID, Points: clonePoints(v.Points), Closed: v.Closed}
	case Spline:
		return Spline{ID: v.ID, Points: clonePoints(v.Points)}
	default:
		// Remaining variants are plain value types.
		return e
	}
}

func clonePoints(pts []mgl64.Vec2) []mgl64.Vec2 {
	if pts == nil {
		return nil
	}
	out := make([]mgl64.Vec2, len(pts))
	copy(out, pts)
	return out
}
