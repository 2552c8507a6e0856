package meshcache

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/chisel-cad/chisel/pkg/builder"
	"github.com/chisel-cad/chisel/pkg/evaluate"
	"github.com/chisel-cad/chisel/pkg/kernel/sdfx"
	"github.com/chisel-cad/chisel/pkg/mesh"
	"github.com/chisel-cad/chisel/pkg/scene"
)

func newCache() *Cache {
	k := sdfx.NewWithResolution(16)
	return New(builder.New(k, evaluate.New(k), log.New(io.Discard)))
}

func cubeScene(t *testing.T, ids ...string) *scene.Scene {
	t.Helper()
	sc := scene.New()
	for i, id := range ids {
		b := &scene.Body{
			ID: id, Name: id, Visible: true,
			Features: []scene.Feature{
				scene.BasePrimitive{
					ID:        id + "-base",
					Primitive: scene.Primitive{Kind: scene.PrimCube, X: 1, Y: 1, Z: 1},
					Transform: scene.Transform{
						Position: [3]float64{float64(i * 10), 0, 0},
						Scale:    [3]float64{1, 1, 1},
					},
				},
			},
		}
		if err := sc.AddBody(b); err != nil {
			t.Fatal(err)
		}
	}
	return sc
}

func TestFreshCacheIsInvalid(t *testing.T) {
	c := newCache()
	if c.IsValid(0, nil, 0, nil) {
		t.Fatal("fresh cache should be invalid for any key")
	}
	if c.IsValid(1, []string{"a"}, 1, nil) {
		t.Fatal("fresh cache should be invalid for any key")
	}
}

func TestRebuildValidatesExactKey(t *testing.T) {
	c := newCache()
	sc := cubeScene(t, "a")
	c.Rebuild(sc, 3, []string{"a"}, 7, nil, nil)

	if !c.IsValid(3, []string{"a"}, 7, nil) {
		t.Fatal("matching key should be valid")
	}
	if c.IsValid(4, []string{"a"}, 7, nil) {
		t.Fatal("scene version mismatch should invalidate")
	}
	if c.IsValid(3, []string{"b"}, 7, nil) {
		t.Fatal("selection mismatch should invalidate")
	}
	if c.IsValid(3, []string{"a", "b"}, 7, nil) {
		t.Fatal("selection length mismatch should invalidate")
	}
	if c.IsValid(3, []string{"a"}, 8, nil) {
		t.Fatal("face-selection version mismatch should invalidate")
	}
}

// The hidden set is accepted but deliberately excluded from the key, so
// a visibility-only change does not invalidate. Flagged for product
// review; this test pins the current contract.
func TestHiddenSetNotInKey(t *testing.T) {
	c := newCache()
	sc := cubeScene(t, "a")
	c.Rebuild(sc, 1, nil, 0, nil, nil)
	if !c.IsValid(1, nil, 0, map[string]bool{"a": true}) {
		t.Fatal("hidden-set change alone should not invalidate")
	}
}

func TestRebuildCounter(t *testing.T) {
	c := newCache()
	sc := cubeScene(t, "a")
	if c.Rebuilds() != 0 {
		t.Fatal("fresh cache should have zero rebuilds")
	}
	c.Rebuild(sc, 1, nil, 0, nil, nil)
	c.Rebuild(sc, 2, nil, 0, nil, nil)
	if c.Rebuilds() != 2 {
		t.Fatalf("rebuilds = %d, want 2", c.Rebuilds())
	}
}

func TestRebuildPopulatesMeshesAndBounds(t *testing.T) {
	c := newCache()
	sc := cubeScene(t, "a", "b")
	c.Rebuild(sc, 1, nil, 0, nil, nil)

	if c.Mesh("a") == nil || c.Mesh("b") == nil {
		t.Fatal("expected meshes for both bodies")
	}
	if len(c.Errors()) != 0 {
		t.Fatalf("errors = %v", c.Errors())
	}
	bb, ok := c.Bounds("b")
	if !ok {
		t.Fatal("missing bounds for b")
	}
	// Body b is translated to x=10.
	if bb.Min[0] < 5 {
		t.Fatalf("bounds for b = %+v, want near x=10", bb)
	}
}

func TestFaceHighlightApplied(t *testing.T) {
	c := newCache()
	sc := cubeScene(t, "a")
	sel := &FaceSelection{BodyID: "a", Triangles: []uint32{0}}
	c.Rebuild(sc, 1, nil, 5, sel, nil)

	m := c.Mesh("a")
	if m == nil {
		t.Fatal("missing mesh")
	}
	v := int(m.Indices[0])
	o := v*mesh.Stride + 6
	got := [3]float32{m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2]}
	if got != mesh.HighlightColor {
		t.Fatalf("highlighted triangle color = %v, want %v", got, mesh.HighlightColor)
	}
}

func TestInvalidate(t *testing.T) {
	c := newCache()
	sc := cubeScene(t, "a")
	c.Rebuild(sc, 1, nil, 0, nil, nil)
	c.Invalidate()
	if c.IsValid(1, nil, 0, nil) {
		t.Fatal("invalidated cache should report invalid")
	}
	if c.Mesh("a") == nil {
		t.Fatal("meshes stay readable until the next rebuild")
	}
}

func TestBodiesNear(t *testing.T) {
	c := newCache()
	sc := cubeScene(t, "a", "b")
	c.Rebuild(sc, 1, nil, 0, nil, nil)

	near := c.BodiesNear(mesh.AABB{Min: [3]float64{-2, -2, -2}, Max: [3]float64{2, 2, 2}})
	if len(near) != 1 || near[0] != "a" {
		t.Fatalf("near origin = %v, want [a]", near)
	}
	all := c.BodiesNear(mesh.AABB{Min: [3]float64{-20, -20, -20}, Max: [3]float64{20, 20, 20}})
	if len(all) != 2 {
		t.Fatalf("wide query = %v, want both bodies", all)
	}
}
