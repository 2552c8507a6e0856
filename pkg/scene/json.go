package scene

import (
	"encoding/json"
	"fmt"
)

// DocumentVersion tags the persisted scene schema.
const DocumentVersion = "1"

// document is the on-disk scene schema. It round-trips losslessly
// through export/import/autosave.
type document struct {
	Version string      `json:"version"`
	Bodies  []*bodyJSON `json:"bodies"`
}

type bodyJSON struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Visible  bool              `json:"visible"`
	Params   map[string]string `json:"params,omitempty"`
	Features []featureEnvelope `json:"features"`
}

// featureEnvelope carries a feature variant with a type discriminant.
type featureEnvelope struct {
	Type          string         `json:"type"`
	BasePrimitive *BasePrimitive `json:"basePrimitive,omitempty"`
	BaseExtrude   *BaseExtrude   `json:"baseExtrude,omitempty"`
	BaseRevolve   *BaseRevolve   `json:"baseRevolve,omitempty"`
	Sketch        *SketchFeature `json:"sketch,omitempty"`
	Extrude       *Extrude       `json:"extrude,omitempty"`
	Revolve       *Revolve       `json:"revolve,omitempty"`
	Boolean       *BooleanModify `json:"boolean,omitempty"`
	Fillet        *Fillet        `json:"fillet,omitempty"`
	Chamfer       *Chamfer       `json:"chamfer,omitempty"`
}

func envelope(f Feature) (featureEnvelope, error) {
	switch v := f.(type) {
	case BasePrimitive:
		return featureEnvelope{Type: "basePrimitive", BasePrimitive: &v}, nil
	case BaseExtrude:
		return featureEnvelope{Type: "baseExtrude", BaseExtrude: &v}, nil
	case BaseRevolve:
		return featureEnvelope{Type: "baseRevolve", BaseRevolve: &v}, nil
	case SketchFeature:
		return featureEnvelope{Type: "sketch", Sketch: &v}, nil
	case Extrude:
		return featureEnvelope{Type: "extrude", Extrude: &v}, nil
	case Revolve:
		return featureEnvelope{Type: "revolve", Revolve: &v}, nil
	case BooleanModify:
		return featureEnvelope{Type: "boolean", Boolean: &v}, nil
	case Fillet:
		return featureEnvelope{Type: "fillet", Fillet: &v}, nil
	case Chamfer:
		return featureEnvelope{Type: "chamfer", Chamfer: &v}, nil
	default:
		return featureEnvelope{}, fmt.Errorf("scene: unknown feature type %T", f)
	}
}

func (env featureEnvelope) feature() (Feature, error) {
	missing := func() error {
		return fmt.Errorf("scene: %q envelope missing payload", env.Type)
	}
	switch env.Type {
	case "basePrimitive":
		if env.BasePrimitive == nil {
			return nil, missing()
		}
		return *env.BasePrimitive, nil
	case "baseExtrude":
		if env.BaseExtrude == nil {
			return nil, missing()
		}
		return *env.BaseExtrude, nil
	case "baseRevolve":
		if env.BaseRevolve == nil {
			return nil, missing()
		}
		return *env.BaseRevolve, nil
	case "sketch":
		if env.Sketch == nil {
			return nil, missing()
		}
		return *env.Sketch, nil
	case "extrude":
		if env.Extrude == nil {
			return nil, missing()
		}
		return *env.Extrude, nil
	case "revolve":
		if env.Revolve == nil {
			return nil, missing()
		}
		return *env.Revolve, nil
	case "boolean":
		if env.Boolean == nil {
			return nil, missing()
		}
		return *env.Boolean, nil
	case "fillet":
		if env.Fillet == nil {
			return nil, missing()
		}
		return *env.Fillet, nil
	case "chamfer":
		if env.Chamfer == nil {
			return nil, missing()
		}
		return *env.Chamfer, nil
	default:
		return nil, fmt.Errorf("scene: unknown feature type %q", env.Type)
	}
}

// Export serializes the scene to the persistence document format.
func Export(s *Scene) ([]byte, error) {
	doc := document{Version: DocumentVersion}
	for _, b := range s.Bodies {
		bj := &bodyJSON{
			ID:       b.ID,
			Name:     b.Name,
			Visible:  b.Visible,
			Params:   b.Params,
			Features: make([]featureEnvelope, 0, len(b.Features)),
		}
		for _, f := range b.Features {
			env, err := envelope(f)
			if err != nil {
				return nil, fmt.Errorf("scene: export body %q: %w", b.ID, err)
			}
			bj.Features = append(bj.Features, env)
		}
		doc.Bodies = append(doc.Bodies, bj)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Import parses a persistence document into a new scene. It fails
// closed: on any error the returned scene is nil and the caller's
// current scene should stay in place.
func Import(data []byte) (*Scene, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("scene: parse document: %w", err)
	}
	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("scene: unsupported document version %q", doc.Version)
	}

	s := New()
	for _, bj := range doc.Bodies {
		b := &Body{
			ID:      bj.ID,
			Name:    bj.Name,
			Visible: bj.Visible,
			Params:  bj.Params,
		}
		for _, env := range bj.Features {
			f, err := env.feature()
			if err != nil {
				return nil, fmt.Errorf("scene: import body %q: %w", bj.ID, err)
			}
			b.Features = append(b.Features, f)
		}
		if err := s.AddBody(b); err != nil {
			return nil, fmt.Errorf("scene: import: %w", err)
		}
	}
	return s, nil
}
