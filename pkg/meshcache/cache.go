// Package meshcache holds the rebuilt per-body meshes, bounds, and
// errors for the current scene state. The cache key is the triple
// (scene version, ordered selected ids, face-selection version); any
// mismatch forces a full-scene rebuild.
package meshcache

import (
	"github.com/dhconnelly/rtreego"

	"github.com/chisel-cad/chisel/pkg/builder"
	"github.com/chisel-cad/chisel/pkg/mesh"
	"github.com/chisel-cad/chisel/pkg/scene"
)

// FaceSelection marks a set of triangles in one body's mesh for
// highlight coloring.
type FaceSelection struct {
	BodyID    string
	Triangles []uint32
}

// Cache owns the rebuilt meshes for a scene. Not safe for concurrent
// use; the scene, store, and cache belong to a single logical thread.
type Cache struct {
	builder *builder.Builder

	meshes map[string]*mesh.Mesh
	errors map[string]string
	bounds map[string]mesh.AABB
	index  *rtreego.Rtree

	valid          bool
	sceneVersion   uint64
	selected       []string
	faceSelVersion uint64
	rebuilds       uint64
}

// bodyEntry is what the spatial index stores per body.
type bodyEntry struct {
	id   string
	rect rtreego.Rect
}

func (e *bodyEntry) Bounds() rtreego.Rect { return e.rect }

// New returns an empty cache. A fresh cache is always invalid so the
// first consumer forces a build.
func New(b *builder.Builder) *Cache {
	return &Cache{
		builder: b,
		meshes:  map[string]*mesh.Mesh{},
		errors:  map[string]string{},
		bounds:  map[string]mesh.AABB{},
	}
}

// IsValid reports whether the cached state matches the given key
// exactly. The hidden set is accepted for signature symmetry with
// Rebuild but is not part of the key, so visibility-only changes do
// not invalidate on their own.
func (c *Cache) IsValid(sceneVersion uint64, selected []string, faceSelVersion uint64, hidden map[string]bool) bool {
	if !c.valid {
		return false
	}
	if sceneVersion != c.sceneVersion || faceSelVersion != c.faceSelVersion {
		return false
	}
	if len(selected) != len(c.selected) {
		return false
	}
	for i, id := range selected {
		if c.selected[i] != id {
			return false
		}
	}
	return true
}

// Rebuild re-evaluates the entire scene, re-applies the active face
// highlight, recomputes every body's bounds from its mesh, and swaps
// the cached maps in atomically. There is no incremental per-body path.
func (c *Cache) Rebuild(sc *scene.Scene, sceneVersion uint64, selected []string, faceSelVersion uint64, faceSel *FaceSelection, hidden map[string]bool) {
	meshes, errors := c.builder.Build(sc, selected)

	if faceSel != nil {
		if m := meshes[faceSel.BodyID]; m != nil {
			m.HighlightTriangles(faceSel.Triangles, mesh.HighlightColor)
		}
	}

	bounds := make(map[string]mesh.AABB, len(meshes))
	index := rtreego.NewTree(3, 2, 8)
	for id, m := range meshes {
		bb := m.Bounds()
		bounds[id] = bb
		if r := rectFromAABB(bb); r != nil {
			index.Insert(&bodyEntry{id: id, rect: *r})
		}
	}

	c.meshes = meshes
	c.errors = errors
	c.bounds = bounds
	c.index = index
	c.sceneVersion = sceneVersion
	c.selected = append([]string(nil), selected...)
	c.faceSelVersion = faceSelVersion
	c.valid = true
	c.rebuilds++
}

// Invalidate drops the cached key so the next IsValid reports false.
// The mesh maps stay readable until the next Rebuild.
func (c *Cache) Invalidate() {
	c.valid = false
}

// Mesh returns the cached mesh for a body, or nil.
func (c *Cache) Mesh(bodyID string) *mesh.Mesh {
	return c.meshes[bodyID]
}

// Meshes returns the cached body-id to mesh map.
func (c *Cache) Meshes() map[string]*mesh.Mesh {
	return c.meshes
}

// Errors returns the per-body build failure messages from the last
// rebuild.
func (c *Cache) Errors() map[string]string {
	return c.errors
}

// Bounds returns the cached bounding box for a body.
func (c *Cache) Bounds(bodyID string) (mesh.AABB, bool) {
	bb, ok := c.bounds[bodyID]
	return bb, ok
}

// Rebuilds returns the monotonic rebuild counter.
func (c *Cache) Rebuilds() uint64 {
	return c.rebuilds
}

// BodiesNear returns the ids of bodies whose bounding boxes intersect
// the query box, via the spatial index built at the last rebuild.
func (c *Cache) BodiesNear(query mesh.AABB) []string {
	if c.index == nil {
		return nil
	}
	r := rectFromAABB(query)
	if r == nil {
		return nil
	}
	var ids []string
	for _, hit := range c.index.SearchIntersect(*r) {
		ids = append(ids, hit.(*bodyEntry).id)
	}
	return ids
}

// rectFromAABB converts a bounding box into an index rectangle.
// Degenerate extents are padded so flat bodies stay searchable.
func rectFromAABB(bb mesh.AABB) *rtreego.Rect {
	const minExtent = 1e-9
	lengths := make([]float64, 3)
	point := rtreego.Point{bb.Min[0], bb.Min[1], bb.Min[2]}
	for i := 0; i < 3; i++ {
		lengths[i] = bb.Max[i] - bb.Min[i]
		if lengths[i] < minExtent {
			lengths[i] = minExtent
		}
	}
	r, err := rtreego.NewRect(point, lengths)
	if err != nil {
		return nil
	}
	return &r
}
