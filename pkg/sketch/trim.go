package sketch

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// minFragment is the smallest parameter span kept as a trim remnant.
// Spans shorter than this are treated as fully consumed.
const minFragment = 1e-6

// TrimOutcome classifies the result of a trim operation.
type TrimOutcome int

const (
	// TrimNoChange means no qualifying intersection bracketed the click;
	// the element is untouched.
	TrimNoChange TrimOutcome = iota
	// TrimRemoved means the clicked span consumed the whole element.
	TrimRemoved
	// TrimReplaced means the element was shortened into Replacements.
	TrimReplaced
)

func (o TrimOutcome) String() string {
	switch o {
	case TrimNoChange:
		return "no-change"
	case TrimRemoved:
		return "removed"
	case TrimReplaced:
		return "replaced"
	default:
		return "unknown"
	}
}

// TrimResult is the tri-state outcome of Trim. Replacements is only
// populated for TrimReplaced.
type TrimResult struct {
	Outcome      TrimOutcome
	Replacements []Element
}

// Trim removes the span of target bracketing the click point, bounded
// by the nearest intersections with the cutter elements. It never
// fails: elements with no qualifying intersections come back unchanged.
func Trim(target Element, cutters []Element, click mgl64.Vec2) TrimResult {
	switch el := target.(type) {
	case Line:
		return trimLine(el, cutters, click)
	case Circle:
		return trimCircle(el, cutters, click)
	case Arc:
		return trimArc(el, cutters, click)
	case Polyline:
		return trimPolyline(el, cutters, click)
	case Rectangle:
		// A rectangle trims as its boundary polyline; the result is no
		// longer representable as a Rectangle.
		return trimPolyline(rectPolyline(el), cutters, click)
	default:
		return TrimResult{Outcome: TrimNoChange}
	}
}

// targetParams collects sorted intersection parameters of target
// against all cutters, excluding the target itself by identity of id
// when set.
func targetParams(target Element, cutters []Element) []float64 {
	var params []float64
	for _, c := range cutters {
		if c == nil {
			continue
		}
		if id := target.ElementID(); id != "" && c.ElementID() == id {
			continue
		}
		for _, h := range Intersect(target, c) {
			params = append(params, h.ParamA)
		}
	}
	sort.Float64s(params)
	return params
}

func trimLine(l Line, cutters []Element, click mgl64.Vec2) TrimResult {
	params := targetParams(l, cutters)
	if len(params) == 0 {
		return TrimResult{Outcome: TrimNoChange}
	}

	tc := projectParamOnLine(l, click)

	// Bracket the click between neighboring cut parameters, falling back
	// to the element ends.
	lo, hi := 0.0, 1.0
	for _, p := range params {
		if p <= tc && p > lo {
			lo = p
		}
		if p >= tc && p < hi {
			hi = p
		}
	}

	var repl []Element
	if lo > minFragment {
		repl = append(repl, Line{Start: l.Start, End: l.PointAt(lo)})
	}
	if hi < 1-minFragment {
		repl = append(repl, Line{Start: l.PointAt(hi), End: l.End})
	}
	if len(repl) == 0 {
		return TrimResult{Outcome: TrimRemoved}
	}
	return TrimResult{Outcome: TrimReplaced, Replacements: repl}
}

func trimCircle(c Circle, cutters []Element, click mgl64.Vec2) TrimResult {
	params := targetParams(c, cutters)
	if len(params) < 2 {
		// A circle needs two cuts to open into an arc.
		return TrimResult{Outcome: TrimNoChange}
	}

	ac := angleOn(c.Center, click)

	// Find the angular span containing the click. Params are sorted in
	// [0, 2*pi); the wrap span runs from the last param through 0 to the
	// first.
	lo, hi := params[len(params)-1], params[0]
	for i := 0; i+1 < len(params); i++ {
		if params[i] <= ac && ac <= params[i+1] {
			lo, hi = params[i], params[i+1]
			break
		}
	}

	// Remaining arc sweeps counterclockwise from hi back around to lo.
	if normalizeAngle(lo-hi) < minFragment {
		return TrimResult{Outcome: TrimRemoved}
	}
	return TrimResult{
		Outcome: TrimReplaced,
		Replacements: []Element{Arc{
			Center:     c.Center,
			Radius:     c.Radius,
			StartAngle: hi,
			EndAngle:   lo,
		}},
	}
}

func trimArc(a Arc, cutters []Element, click mgl64.Vec2) TrimResult {
	params := targetParams(a, cutters)
	if len(params) == 0 {
		return TrimResult{Outcome: TrimNoChange}
	}

	// Work in sweep-relative coordinates so the 0/2*pi wrap vanishes.
	sweep := a.Sweep()
	rel := func(angle float64) float64 { return normalizeAngle(angle - a.StartAngle) }

	var cuts []float64
	for _, p := range params {
		if r := rel(p); r <= sweep {
			cuts = append(cuts, r)
		}
	}
	if len(cuts) == 0 {
		return TrimResult{Outcome: TrimNoChange}
	}
	sort.Float64s(cuts)

	rc := rel(angleOn(a.Center, click))
	if rc > sweep {
		// Click off the arc: clamp to the nearer end.
		if normalizeAngle(rc-sweep) < normalizeAngle(-rc) {
			rc = sweep
		} else {
			rc = 0
		}
	}

	lo, hi := 0.0, sweep
	for _, p := range cuts {
		if p <= rc && p > lo {
			lo = p
		}
		if p >= rc && p < hi {
			hi = p
		}
	}

	var repl []Element
	if lo > minFragment {
		repl = append(repl, Arc{
			Center:     a.Center,
			Radius:     a.Radius,
			StartAngle: a.StartAngle,
			EndAngle:   a.StartAngle + lo,
		})
	}
	if hi < sweep-minFragment {
		repl = append(repl, Arc{
			Center:     a.Center,
			Radius:     a.Radius,
			StartAngle: a.StartAngle + hi,
			EndAngle:   a.EndAngle,
		})
	}
	if len(repl) == 0 {
		return TrimResult{Outcome: TrimRemoved}
	}
	return TrimResult{Outcome: TrimReplaced, Replacements: repl}
}

// trimPolyline trims only the segment nearest to the click, splitting
// the chain into a prefix and suffix polyline around the removed span.
func trimPolyline(p Polyline, cutters []Element, click mgl64.Vec2) TrimResult {
	segs := p.Segments()
	if len(segs) == 0 {
		return TrimResult{Outcome: TrimNoChange}
	}

	// The chain's segments carry no id, so the id exclusion in
	// targetParams cannot see them during the per-segment trim. Drop the
	// chain from the cutter set here, or its adjacent segments would cut
	// the clicked one at its own endpoints.
	if id := p.ElementID(); id != "" {
		kept := make([]Element, 0, len(cutters))
		for _, c := range cutters {
			if c != nil && c.ElementID() == id {
				continue
			}
			kept = append(kept, c)
		}
		cutters = kept
	}

	segIdx := nearestSegment(segs, click)
	seg := segs[segIdx]

	segRes := trimLine(seg, cutters, click)
	if segRes.Outcome == TrimNoChange {
		return TrimResult{Outcome: TrimNoChange}
	}

	// Rebuild: points before the segment, surviving pieces, points after.
	var repl []Element

	prefix := append([]mgl64.Vec2{}, p.Points[:segIdx+1]...)
	var suffix []mgl64.Vec2
	if segIdx+1 < len(p.Points) {
		suffix = append([]mgl64.Vec2{}, p.Points[segIdx+1:]...)
	} else {
		suffix = []mgl64.Vec2{p.Points[0]} // closing segment of a closed chain
	}

	for _, r := range segRes.Replacements {
		piece := r.(Line)
		if piece.Start == seg.Start {
			prefix = append(prefix, piece.End)
		} else {
			suffix = append([]mgl64.Vec2{piece.Start}, suffix...)
		}
	}

	if len(prefix) >= 2 {
		repl = append(repl, Polyline{Points: prefix})
	}
	if len(suffix) >= 2 {
		repl = append(repl, Polyline{Points: suffix})
	}
	if len(repl) == 0 {
		return TrimResult{Outcome: TrimRemoved}
	}
	return TrimResult{Outcome: TrimReplaced, Replacements: repl}
}

// projectParamOnLine returns the clamped 0..1 parameter of the point on
// l nearest to p.
func projectParamOnLine(l Line, p mgl64.Vec2) float64 {
	d := l.End.Sub(l.Start)
	len2 := d.Dot(d)
	if len2 < epsilon {
		return 0
	}
	return clamp01(p.Sub(l.Start).Dot(d) / len2)
}

// nearestSegment returns the index of the segment closest to p.
func nearestSegment(segs []Line, p mgl64.Vec2) int {
	best, bestDist := 0, math.Inf(1)
	for i, s := range segs {
		t := projectParamOnLine(s, p)
		d := p.Sub(s.PointAt(t)).Len()
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
