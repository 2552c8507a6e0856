package scene

import "fmt"

// MaxHistory caps the undo and redo stacks. The oldest snapshot is
// evicted when the cap is reached.
const MaxHistory = 100

// Store owns the live scene and its undo/redo history. Snapshots are
// full deep copies by value; memory cost is bounded by MaxHistory.
// A Store is exclusively owned by a single logical thread.
type Store struct {
	scene   *Scene
	version uint64
	undo    []*Scene
	redo    []*Scene
}

// NewStore returns a store holding an empty scene at version 1.
func NewStore() *Store {
	return &Store{scene: New(), version: 1}
}

// Scene returns the live scene. Callers must route mutations through
// Mutate so history and versioning stay coherent.
func (s *Store) Scene() *Scene {
	return s.scene
}

// Version returns the monotonic scene version. It increments on every
// mutation, undo and redo.
func (s *Store) Version() uint64 {
	return s.version
}

// CanUndo reports whether an undo snapshot is available.
func (s *Store) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (s *Store) CanRedo() bool { return len(s.redo) > 0 }

// Mutate applies fn to a working copy of the scene. On success the
// copy becomes the live scene, the previous scene is pushed as an undo
// snapshot, the redo stack is cleared and the version bumped. On
// failure the live scene is untouched.
func (s *Store) Mutate(fn func(*Scene) error) error {
	next := s.scene.Clone()
	if err := fn(next); err != nil {
		return err
	}
	s.pushUndo(s.scene)
	s.scene = next
	s.redo = nil
	s.version++
	return nil
}

// Replace swaps in a whole new scene (import path), keeping the old
// one as an undo snapshot.
func (s *Store) Replace(sc *Scene) {
	s.pushUndo(s.scene)
	s.scene = sc
	s.redo = nil
	s.version++
}

// Undo restores the most recent snapshot. It reports whether anything
// changed.
func (s *Store) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	top := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	s.redo = append(s.redo, s.scene)
	if len(s.redo) > MaxHistory {
		s.redo = s.redo[1:]
	}
	s.scene = top
	s.version++
	return true
}

// Redo re-applies the most recently undone state. It reports whether
// anything changed.
func (s *Store) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	top := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	s.pushUndo(s.scene)
	s.scene = top
	s.version++
	return true
}

func (s *Store) pushUndo(sc *Scene) {
	s.undo = append(s.undo, sc)
	if len(s.undo) > MaxHistory {
		s.undo = s.undo[1:]
	}
}

// --- mutation helpers ---

// AddBody adds a body to the scene.
func (s *Store) AddBody(b *Body) error {
	return s.Mutate(func(sc *Scene) error { return sc.AddBody(b) })
}

// RemoveBody removes a body by id.
func (s *Store) RemoveBody(id string) error {
	return s.Mutate(func(sc *Scene) error { return sc.RemoveBody(id) })
}

// RenameBody sets a body's display name.
func (s *Store) RenameBody(id, name string) error {
	return s.Mutate(func(sc *Scene) error {
		b := sc.Body(id)
		if b == nil {
			return fmt.Errorf("scene: no body with id %q", id)
		}
		b.Name = name
		return nil
	})
}

// SetVisibility toggles a body's visibility flag.
func (s *Store) SetVisibility(id string, visible bool) error {
	return s.Mutate(func(sc *Scene) error {
		b := sc.Body(id)
		if b == nil {
			return fmt.Errorf("scene: no body with id %q", id)
		}
		b.Visible = visible
		return nil
	})
}

// SetParam sets one named parameter on a body. The value may be a
// numeric literal or an expression resolved at build time.
func (s *Store) SetParam(id, name, value string) error {
	return s.Mutate(func(sc *Scene) error {
		b := sc.Body(id)
		if b == nil {
			return fmt.Errorf("scene: no body with id %q", id)
		}
		if b.Params == nil {
			b.Params = make(map[string]string)
		}
		b.Params[name] = value
		return nil
	})
}

// AppendFeature appends a feature to a body's history.
func (s *Store) AppendFeature(bodyID string, f Feature) error {
	return s.Mutate(func(sc *Scene) error {
		b := sc.Body(bodyID)
		if b == nil {
			return fmt.Errorf("scene: no body with id %q", bodyID)
		}
		if f.FeatureID() != "" && b.Feature(f.FeatureID()) != nil {
			return fmt.Errorf("scene: body %q already has feature %q", bodyID, f.FeatureID())
		}
		b.Features = append(b.Features, f)
		return nil
	})
}

// RemoveFeature removes a feature from a body's history by id.
func (s *Store) RemoveFeature(bodyID, featureID string) error {
	return s.Mutate(func(sc *Scene) error {
		b := sc.Body(bodyID)
		if b == nil {
			return fmt.Errorf("scene: no body with id %q", bodyID)
		}
		for i, f := range b.Features {
			if f.FeatureID() == featureID {
				b.Features = append(b.Features[:i], b.Features[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("scene: body %q has no feature %q", bodyID, featureID)
	})
}
