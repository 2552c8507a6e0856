package sketch

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// FilletResult holds the tangent arc and the trimmed inputs. A trimmed
// element is nil when trimming consumed it entirely (tangency at an
// endpoint).
type FilletResult struct {
	Arc      Arc
	TrimmedA Element
	TrimmedB Element
}

// Fillet rounds the corner where two elements meet (or would meet)
// with a tangent arc of the given radius. Each input is trimmed back to
// its tangency point. Line pairs and line/arc pairs are supported.
func Fillet(a, b Element, radius float64) (FilletResult, error) {
	if radius <= 0 {
		return FilletResult{}, fmt.Errorf("fillet: radius must be positive, got %g", radius)
	}
	switch ea := a.(type) {
	case Line:
		switch eb := b.(type) {
		case Line:
			return filletLines(ea, eb, radius)
		case Arc:
			return filletLineArc(ea, eb, radius, false)
		}
	case Arc:
		if lb, ok := b.(Line); ok {
			return filletLineArc(lb, ea, radius, true)
		}
	}
	return FilletResult{}, fmt.Errorf("fillet: unsupported element pair %T, %T", a, b)
}

func filletLines(a, b Line, radius float64) (FilletResult, error) {
	corner, ok := infiniteLineIntersection(a, b)
	if !ok {
		return FilletResult{}, fmt.Errorf("fillet: lines are parallel")
	}

	// Unit directions pointing away from the corner along the kept part
	// of each line (toward the endpoint farther from the corner).
	da := awayFromCorner(a, corner)
	db := awayFromCorner(b, corner)
	if da.Len() == 0 || db.Len() == 0 {
		return FilletResult{}, fmt.Errorf("fillet: degenerate line")
	}

	cosTheta := mgl64.Clamp(da.Dot(db), -1, 1)
	theta := math.Acos(cosTheta)
	if theta < 1e-6 || math.Pi-theta < 1e-6 {
		return FilletResult{}, fmt.Errorf("fillet: lines are collinear")
	}

	// Tangent distance from the corner along each direction, center on
	// the angle bisector.
	tanDist := radius / math.Tan(theta/2)
	centerDist := radius / math.Sin(theta/2)
	bisector := da.Add(db).Normalize()

	center := corner.Add(bisector.Mul(centerDist))
	ta := corner.Add(da.Mul(tanDist))
	tb := corner.Add(db.Mul(tanDist))

	angA := angleOn(center, ta)
	angB := angleOn(center, tb)

	// Pick the arc winding that stays on the corner side of the center:
	// the shorter of the two sweeps between the tangency angles.
	arc := Arc{Center: center, Radius: radius, StartAngle: angA, EndAngle: angB}
	if normalizeAngle(angB-angA) > math.Pi {
		arc.StartAngle, arc.EndAngle = angB, angA
	}

	res := FilletResult{
		Arc:      arc,
		TrimmedA: trimToTangent(a, corner, ta),
		TrimmedB: trimToTangent(b, corner, tb),
	}
	return res, nil
}

// filletLineArc rounds the corner where a segment crosses an arc. The
// fillet center sits at distance radius from the line carrier and at
// distance arcRadius +/- radius from the arc center; candidates come
// from intersecting the offset carrier with the offset circle, and the
// one hugging the crossing wins. swapped restores the caller's
// argument order in the result.
func filletLineArc(l Line, a Arc, radius float64, swapped bool) (FilletResult, error) {
	hits := lineArc(l, a)
	if len(hits) == 0 {
		return FilletResult{}, fmt.Errorf("fillet: line and arc do not intersect")
	}
	corner := nearestHit(hits, l, a).Point

	dir := l.Dir()
	if dir.Len() == 0 {
		return FilletResult{}, fmt.Errorf("fillet: degenerate line")
	}
	dir = dir.Normalize()
	normal := mgl64.Vec2{-dir.Y(), dir.X()}

	type candidate struct {
		center  mgl64.Vec2
		tanLine mgl64.Vec2
		tanArc  mgl64.Vec2
	}
	var best *candidate
	bestDist := math.Inf(1)

	for _, lineSide := range []float64{1, -1} {
		carrier := Line{
			Start: l.Start.Add(normal.Mul(lineSide * radius)),
			End:   l.End.Add(normal.Mul(lineSide * radius)),
		}
		for _, arcSide := range []float64{1, -1} {
			r2 := a.Radius + arcSide*radius
			if r2 <= epsilon {
				continue
			}
			for _, c := range carrierCircleHits(carrier, a.Center, r2) {
				tl := footOnLine(l, c)
				if t := projectParamOnLine(l, tl); t <= epsilon || t >= 1-epsilon {
					continue
				}
				away := c.Sub(a.Center)
				if away.Len() < epsilon {
					continue
				}
				ta := a.Center.Add(away.Normalize().Mul(a.Radius))
				if !withinArc(a.StartAngle, a.EndAngle, angleOn(a.Center, ta)) {
					continue
				}
				if d := c.Sub(corner).Len(); d < bestDist {
					best = &candidate{center: c, tanLine: tl, tanArc: ta}
					bestDist = d
				}
			}
		}
	}
	if best == nil {
		return FilletResult{}, fmt.Errorf("fillet: radius %g does not fit the corner", radius)
	}

	angL := angleOn(best.center, best.tanLine)
	angA := angleOn(best.center, best.tanArc)
	arc := Arc{Center: best.center, Radius: radius, StartAngle: angL, EndAngle: angA}
	if normalizeAngle(angA-angL) > math.Pi {
		arc.StartAngle, arc.EndAngle = angA, angL
	}

	res := FilletResult{
		Arc:      arc,
		TrimmedA: trimToTangent(l, corner, best.tanLine),
		TrimmedB: trimArcToTangent(a, corner, best.tanArc),
	}
	if swapped {
		res.TrimmedA, res.TrimmedB = res.TrimmedB, res.TrimmedA
	}
	return res, nil
}

// nearestHit picks the crossing closest to the endpoint cluster of
// both elements, so fillets favor the corner the user drew.
func nearestHit(hits []Intersection, l Line, a Arc) Intersection {
	ends := []mgl64.Vec2{l.Start, l.End, a.PointAt(a.StartAngle), a.PointAt(a.EndAngle)}
	best, bestDist := hits[0], math.Inf(1)
	for _, h := range hits {
		d := math.Inf(1)
		for _, e := range ends {
			if v := h.Point.Sub(e).Len(); v < d {
				d = v
			}
		}
		if d < bestDist {
			best, bestDist = h, d
		}
	}
	return best
}

// carrierCircleHits intersects the infinite carrier of l with a circle.
func carrierCircleHits(l Line, center mgl64.Vec2, radius float64) []mgl64.Vec2 {
	d := l.End.Sub(l.Start)
	f := l.Start.Sub(center)

	qa := d.Dot(d)
	if qa < epsilon {
		return nil
	}
	qb := 2 * f.Dot(d)
	qc := f.Dot(f) - radius*radius

	disc := qb*qb - 4*qa*qc
	if disc < 0 {
		return nil
	}
	sq := math.Sqrt(disc)

	pts := []mgl64.Vec2{l.PointAt((-qb - sq) / (2 * qa))}
	if sq >= epsilon {
		pts = append(pts, l.PointAt((-qb+sq)/(2*qa)))
	}
	return pts
}

// footOnLine is the unclamped perpendicular foot of p on the carrier
// of l.
func footOnLine(l Line, p mgl64.Vec2) mgl64.Vec2 {
	d := l.End.Sub(l.Start)
	len2 := d.Dot(d)
	if len2 < epsilon {
		return l.Start
	}
	t := p.Sub(l.Start).Dot(d) / len2
	return l.Start.Add(d.Mul(t))
}

// infiniteLineIntersection intersects the infinite carriers of two
// segments.
func infiniteLineIntersection(a, b Line) (mgl64.Vec2, bool) {
	d1 := a.End.Sub(a.Start)
	d2 := b.End.Sub(b.Start)
	denom := d1.X()*d2.Y() - d1.Y()*d2.X()
	if math.Abs(denom) < epsilon {
		return mgl64.Vec2{}, false
	}
	w := b.Start.Sub(a.Start)
	t := (w.X()*d2.Y() - w.Y()*d2.X()) / denom
	return a.Start.Add(d1.Mul(t)), true
}

// awayFromCorner returns the unit direction from the corner toward the
// far endpoint of l.
func awayFromCorner(l Line, corner mgl64.Vec2) mgl64.Vec2 {
	far := l.End
	if l.Start.Sub(corner).Len() > l.End.Sub(corner).Len() {
		far = l.Start
	}
	d := far.Sub(corner)
	if d.Len() < epsilon {
		return mgl64.Vec2{}
	}
	return d.Normalize()
}

// trimArcToTangent shortens a so it ends at the tangency point,
// keeping the sweep on the far side of the corner. Returns nil when
// the remnant is degenerate.
func trimArcToTangent(a Arc, corner, tangent mgl64.Vec2) Element {
	sweep := a.Sweep()
	cornerRel := normalizeAngle(angleOn(a.Center, corner) - a.StartAngle)
	tanRel := normalizeAngle(angleOn(a.Center, tangent) - a.StartAngle)
	if tanRel > sweep {
		tanRel = sweep
	}
	if cornerRel > sweep {
		cornerRel = sweep
	}

	if tanRel >= cornerRel {
		if sweep-tanRel < minFragment {
			return nil
		}
		return Arc{ID: a.ID, Center: a.Center, Radius: a.Radius, StartAngle: a.StartAngle + tanRel, EndAngle: a.EndAngle}
	}
	if tanRel < minFragment {
		return nil
	}
	return Arc{ID: a.ID, Center: a.Center, Radius: a.Radius, StartAngle: a.StartAngle, EndAngle: a.StartAngle + tanRel}
}

// trimToTangent shortens l so it ends at the tangency point, keeping
// the half away from the corner. Returns nil when the remnant is
// degenerate.
func trimToTangent(l Line, corner, tangent mgl64.Vec2) Element {
	far := l.End
	if l.Start.Sub(corner).Len() > l.End.Sub(corner).Len() {
		far = l.Start
	}
	if far.Sub(tangent).Len() < minFragment {
		return nil
	}
	return Line{ID: l.ID, Start: tangent, End: far}
}
