package scene

import (
	"fmt"

	"github.com/google/uuid"
)

// Body is a top-level modeling unit with an ordered feature history.
// Later features depend on earlier ones; order is meaningful.
type Body struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Visible  bool              `json:"visible"`
	Params   map[string]string `json:"params,omitempty"` // name -> literal or expression
	Features []Feature         `json:"features"`
}

// Feature returns the feature with the given id, or nil.
func (b *Body) Feature(id string) Feature {
	for _, f := range b.Features {
		if f.FeatureID() == id {
			return f
		}
	}
	return nil
}

// clone deep-copies the body.
func (b *Body) clone() *Body {
	out := &Body{
		ID:      b.ID,
		Name:    b.Name,
		Visible: b.Visible,
	}
	if b.Params != nil {
		out.Params = make(map[string]string, len(b.Params))
		for k, v := range b.Params {
			out.Params[k] = v
		}
	}
	if b.Features != nil {
		out.Features = make([]Feature, len(b.Features))
		for i, f := range b.Features {
			out.Features[i] = cloneFeature(f)
		}
	}
	return out
}

// Scene is an ordered set of bodies with unique ids.
type Scene struct {
	Bodies []*Body `json:"bodies"`
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// Body returns the body with the given id, or nil.
func (s *Scene) Body(id string) *Body {
	for _, b := range s.Bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// AddBody appends a body. Adding a duplicate id is an error.
func (s *Scene) AddBody(b *Body) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if s.Body(b.ID) != nil {
		return fmt.Errorf("scene: body id %q already exists", b.ID)
	}
	s.Bodies = append(s.Bodies, b)
	return nil
}

// RemoveBody deletes the body with the given id. Removing an unknown id
// is an error.
func (s *Scene) RemoveBody(id string) error {
	for i, b := range s.Bodies {
		if b.ID == id {
			s.Bodies = append(s.Bodies[:i], s.Bodies[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("scene: no body with id %q", id)
}

// Clone deep-copies the scene.
func (s *Scene) Clone() *Scene {
	out := &Scene{}
	if s.Bodies != nil {
		out.Bodies = make([]*Body, len(s.Bodies))
		for i, b := range s.Bodies {
			out.Bodies[i] = b.clone()
		}
	}
	return out
}

// NewFeatureID returns a fresh unique feature id.
func NewFeatureID() string {
	return uuid.NewString()
}
