package topology

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// minCameraDistance rejects edges whose endpoints sit effectively on
// the camera, where projection is unstable.
const minCameraDistance = 0.01

// depthTie is the camera-distance margin within which two candidate
// edges count as equally deep.
const depthTie = 0.01

// PickEdge finds the welded edge nearest to a screen-space click.
// Edge endpoints are projected through the view-projection matrix;
// edges behind the camera or degenerate under projection are skipped.
// Among edges whose projected segment is within tolerance pixels of
// the click, the one with the closest midpoint to the camera wins,
// falling back to screen distance when depths are within depthTie.
func PickEdge(edges []*Edge, viewProj mgl64.Mat4, camera mgl64.Vec3, width, height, clickX, clickY, tolerance float64) *Edge {
	var best *Edge
	bestDepth := math.Inf(1)
	bestScreen := math.Inf(1)

	for _, e := range edges {
		sa, ok := projectToScreen(viewProj, camera, e.A, width, height)
		if !ok {
			continue
		}
		sb, ok := projectToScreen(viewProj, camera, e.B, width, height)
		if !ok {
			continue
		}
		d := pointSegmentDistance(mgl64.Vec2{clickX, clickY}, sa, sb)
		if d > tolerance {
			continue
		}
		mid := e.Midpoint()
		depth := camera.Sub(mgl64.Vec3{mid[0], mid[1], mid[2]}).Len()

		switch {
		case best == nil:
		case depth < bestDepth-depthTie:
		case math.Abs(depth-bestDepth) <= depthTie && d < bestScreen:
		default:
			continue
		}
		best = e
		bestDepth = depth
		bestScreen = d
	}
	return best
}

// projectToScreen maps a world point to pixel coordinates. Points with
// non-positive clip w or closer than minCameraDistance to the camera
// are rejected.
func projectToScreen(viewProj mgl64.Mat4, camera mgl64.Vec3, p [3]float64, width, height float64) (mgl64.Vec2, bool) {
	world := mgl64.Vec3{p[0], p[1], p[2]}
	if camera.Sub(world).Len() < minCameraDistance {
		return mgl64.Vec2{}, false
	}
	clip := viewProj.Mul4x1(mgl64.Vec4{p[0], p[1], p[2], 1})
	if clip.W() <= 0 {
		return mgl64.Vec2{}, false
	}
	ndcX := clip.X() / clip.W()
	ndcY := clip.Y() / clip.W()
	return mgl64.Vec2{
		(ndcX + 1) / 2 * width,
		(1 - ndcY) / 2 * height,
	}, true
}

// pointSegmentDistance is the distance from p to the segment ab.
func pointSegmentDistance(p, a, b mgl64.Vec2) float64 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return p.Sub(a).Len()
	}
	t := mgl64.Clamp(p.Sub(a).Dot(ab)/l2, 0, 1)
	closest := a.Add(ab.Mul(t))
	return p.Sub(closest).Len()
}
