package main

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/chisel-cad/chisel/pkg/builder"
	"github.com/chisel-cad/chisel/pkg/config"
	"github.com/chisel-cad/chisel/pkg/evaluate"
	"github.com/chisel-cad/chisel/pkg/kernel"
	"github.com/chisel-cad/chisel/pkg/kernel/sdfx"
	"github.com/chisel-cad/chisel/pkg/mesh"
	"github.com/chisel-cad/chisel/pkg/mesh/topology"
	"github.com/chisel-cad/chisel/pkg/meshcache"
	"github.com/chisel-cad/chisel/pkg/scene"
	"github.com/chisel-cad/chisel/pkg/sketch"
)

// App wires the geometry core together for a frontend: scene store,
// build cache, kernel, and persistence. Methods are designed to be
// bound over a JSON bridge, so results are plain serializable structs.
type App struct {
	store    *scene.Store
	cache    *meshcache.Cache
	kernel   kernel.Kernel
	provider config.Provider
	settings config.Settings
	log      *log.Logger

	selected       []string
	hidden         map[string]bool
	faceSel        *meshcache.FaceSelection
	faceSelVersion uint64
}

// BodyMesh is the JSON-serializable mesh for one body.
type BodyMesh struct {
	BodyID   string    `json:"bodyId"`
	Vertices []float32 `json:"vertices"`
	Indices  []uint32  `json:"indices"`
	Bounds   mesh.AABB `json:"bounds"`
}

// RebuildResult is the full build output sent to the frontend.
type RebuildResult struct {
	Meshes    []BodyMesh        `json:"meshes"`
	Errors    map[string]string `json:"errors"`
	Rebuilds  uint64            `json:"rebuilds"`
	FromCache bool              `json:"fromCache"`
}

// PickResult describes a picked mesh edge and its sharp chain.
type PickResult struct {
	Edge  scene.EdgeRef   `json:"edge"`
	Chain []scene.EdgeRef `json:"chain"`
}

// NewApp builds an App from a persistence provider. Settings and the
// initial scene load leniently; neither can fail startup.
func NewApp(provider config.Provider, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Default()
	}
	settings, err := provider.LoadSettings()
	if err != nil {
		logger.Warn("settings unreadable, using defaults", "err", err)
		settings = config.DefaultSettings()
	}
	k := sdfx.NewWithResolution(settings.MeshCells)
	store := scene.NewStore()
	if sc, err := provider.LoadScene(); err != nil {
		logger.Warn("initial scene unreadable, starting empty", "err", err)
	} else if sc != nil {
		store.Replace(sc)
	}

	b := builder.New(k, evaluate.New(k), logger)
	return &App{
		store:    store,
		cache:    meshcache.New(b),
		kernel:   k,
		provider: provider,
		settings: settings,
		log:      logger,
		hidden:   map[string]bool{},
	}
}

// Store exposes the scene store for direct mutation helpers.
func (a *App) Store() *scene.Store {
	return a.store
}

// Rebuild returns the current meshes, rebuilding only when the cache
// key (scene version, selection, face-selection version) is stale.
func (a *App) Rebuild() RebuildResult {
	fromCache := a.cache.IsValid(a.store.Version(), a.selected, a.faceSelVersion, a.hidden)
	if !fromCache {
		a.cache.Rebuild(a.store.Scene(), a.store.Version(), a.selected, a.faceSelVersion, a.faceSel, a.hidden)
		if a.settings.Autosave {
			if err := a.provider.Autosave(a.store.Scene()); err != nil {
				a.log.Warn("autosave failed", "err", err)
			}
		}
	}

	result := RebuildResult{
		Errors:    a.cache.Errors(),
		Rebuilds:  a.cache.Rebuilds(),
		FromCache: fromCache,
	}
	for id, m := range a.cache.Meshes() {
		bb, _ := a.cache.Bounds(id)
		result.Meshes = append(result.Meshes, BodyMesh{
			BodyID:   id,
			Vertices: m.Vertices,
			Indices:  m.Indices,
			Bounds:   bb,
		})
	}
	return result
}

// Select replaces the selected body id list.
func (a *App) Select(ids []string) {
	a.selected = append([]string(nil), ids...)
}

// SetHidden replaces the hidden-body set. Hiding is advisory for the
// cache key; pair it with a scene visibility mutation to force a
// rebuild.
func (a *App) SetHidden(ids []string) {
	a.hidden = map[string]bool{}
	for _, id := range ids {
		a.hidden[id] = true
	}
}

// SelectFace highlights a triangle set in one body's mesh and bumps
// the face-selection version so the next Rebuild reapplies colors.
func (a *App) SelectFace(bodyID string, triangles []uint32) {
	a.faceSel = &meshcache.FaceSelection{BodyID: bodyID, Triangles: triangles}
	a.faceSelVersion++
}

// ClearFaceSelection removes the face highlight.
func (a *App) ClearFaceSelection() {
	a.faceSel = nil
	a.faceSelVersion++
}

// PickEdge picks the mesh edge of a body nearest to a screen click and
// returns it along with its connected sharp-edge chain.
func (a *App) PickEdge(bodyID string, viewProj mgl64.Mat4, camera mgl64.Vec3, width, height, x, y float64) *PickResult {
	m := a.cache.Mesh(bodyID)
	if m == nil {
		return nil
	}
	edges := topology.Weld(m)
	hit := topology.PickEdge(edges, viewProj, camera, width, height, x, y, a.settings.PickTolerance)
	if hit == nil {
		return nil
	}
	chain := topology.ChainFrom(hit, edges, a.settings.SharpAngle)
	result := &PickResult{Edge: edgeToRef(hit)}
	for _, e := range chain {
		result.Chain = append(result.Chain, edgeToRef(e))
	}
	return result
}

// TrimSketch applies a click-point trim to one element of a sketch
// feature, using the sketch's other elements as cutters. The mutation
// goes through the store, so it is undoable and bumps the scene
// version. Returns the trim outcome; TrimNoChange leaves the scene
// untouched.
func (a *App) TrimSketch(bodyID, featureID, elementID string, click mgl64.Vec2) (sketch.TrimOutcome, error) {
	outcome := sketch.TrimNoChange
	err := a.store.Mutate(func(sc *scene.Scene) error {
		body := sc.Body(bodyID)
		if body == nil {
			return fmt.Errorf("no body %q", bodyID)
		}
		for fi, f := range body.Features {
			sf, ok := f.(scene.SketchFeature)
			if !ok || sf.ID != featureID {
				continue
			}
			for ei, el := range sf.Sketch.Elements {
				if el.ElementID() != elementID {
					continue
				}
				result := sketch.Trim(el, sf.Sketch.Elements, click)
				outcome = result.Outcome
				switch result.Outcome {
				case sketch.TrimNoChange:
					return errTrimNoChange
				case sketch.TrimRemoved:
					sf.Sketch.Elements = append(
						sf.Sketch.Elements[:ei], sf.Sketch.Elements[ei+1:]...)
				case sketch.TrimReplaced:
					rest := append([]sketch.Element(nil), sf.Sketch.Elements[ei+1:]...)
					sf.Sketch.Elements = append(
						append(sf.Sketch.Elements[:ei], result.Replacements...), rest...)
				}
				body.Features[fi] = sf
				return nil
			}
			return fmt.Errorf("sketch %q has no element %q", featureID, elementID)
		}
		return fmt.Errorf("body %q has no sketch feature %q", bodyID, featureID)
	})
	if err == errTrimNoChange {
		return sketch.TrimNoChange, nil
	}
	return outcome, err
}

// errTrimNoChange aborts the store mutation when a trim matched
// nothing, so no undo snapshot or version bump is recorded.
var errTrimNoChange = errors.New("trim: no change")

// Measure returns volume, surface area, and center of mass for one
// body's evaluated solid.
func (a *App) Measure(bodyID string) (kernel.MassProperties, error) {
	sc := a.store.Scene()
	ev := evaluate.New(a.kernel)
	solid, err := ev.Body(sc, sc.Body(bodyID))
	if err != nil {
		return kernel.MassProperties{}, err
	}
	if solid == nil {
		return kernel.MassProperties{}, nil
	}
	return a.kernel.Measure(solid)
}

// ExportScene serializes the current scene document.
func (a *App) ExportScene() ([]byte, error) {
	return scene.Export(a.store.Scene())
}

// ImportScene replaces the current scene from a document. Malformed
// input fails closed and leaves the in-memory scene untouched.
func (a *App) ImportScene(data []byte) error {
	sc, err := scene.Import(data)
	if err != nil {
		return err
	}
	a.store.Replace(sc)
	return nil
}

// Save persists the scene through the provider.
func (a *App) Save() error {
	return a.provider.SaveScene(a.store.Scene())
}

// Undo steps the scene history back, if possible.
func (a *App) Undo() bool {
	return a.store.Undo()
}

// Redo steps the scene history forward, if possible.
func (a *App) Redo() bool {
	return a.store.Redo()
}

func edgeToRef(e *topology.Edge) scene.EdgeRef {
	return scene.EdgeRef{A: e.A, B: e.B, N1: e.N1, N2: e.N2, HasN2: e.HasN2}
}
