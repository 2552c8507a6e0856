// Package builder runs the whole-scene feature-to-mesh pipeline:
// every visible body is evaluated to a solid, tessellated, and
// extracted into a flat-shaded render mesh.
package builder

import (
	"github.com/charmbracelet/log"

	"github.com/chisel-cad/chisel/pkg/kernel"
	"github.com/chisel-cad/chisel/pkg/mesh"
	"github.com/chisel-cad/chisel/pkg/scene"
)

// BodyEvaluator folds one body's feature history into a solid. A nil
// solid with nil error means the body has no 3D geometry.
type BodyEvaluator interface {
	Body(sc *scene.Scene, body *scene.Body) (kernel.Solid, error)
}

// Builder converts scenes into per-body render meshes.
type Builder struct {
	kernel kernel.Kernel
	eval   BodyEvaluator
	log    *log.Logger
}

// New returns a builder using the given kernel and evaluator.
func New(k kernel.Kernel, eval BodyEvaluator, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{kernel: k, eval: eval, log: logger}
}

// Build evaluates every visible body in the scene. selected holds the
// body ids rendered with the selection color. Per-body failures land
// in the error map and never abort the build; bodies with no geometry
// are silently omitted from the mesh map. Hidden bodies are skipped
// before evaluation. Both maps may be empty for an empty scene.
func (b *Builder) Build(sc *scene.Scene, selected []string) (map[string]*mesh.Mesh, map[string]string) {
	meshes := make(map[string]*mesh.Mesh)
	errors := make(map[string]string)
	if sc == nil {
		return meshes, errors
	}
	selSet := make(map[string]bool, len(selected))
	for _, id := range selected {
		selSet[id] = true
	}

	for _, body := range sc.Bodies {
		if !body.Visible {
			continue
		}
		solid, err := b.eval.Body(sc, body)
		if err != nil {
			b.log.Warn("body build failed", "body", body.ID, "err", err)
			errors[body.ID] = err.Error()
			continue
		}
		if solid == nil {
			continue
		}
		md, err := b.kernel.ToMeshData(solid)
		if err != nil {
			b.log.Warn("tessellation failed", "body", body.ID, "err", err)
			errors[body.ID] = err.Error()
			continue
		}
		m := mesh.FromMeshData(md, selSet[body.ID])
		if m == nil {
			// Tessellation produced nothing; treated like no geometry.
			continue
		}
		meshes[body.ID] = m
	}
	return meshes, errors
}
