package scene

// Transform is a position, Euler rotation (radians) and nonuniform
// scale applied to a feature's geometry.
type Transform struct {
	Position [3]float64 `json:"position"`
	Rotation [3]float64 `json:"rotation"`
	Scale    [3]float64 `json:"scale"`
}

// IdentityTransform returns the identity transform: zero position and
// rotation, unit scale.
func IdentityTransform() Transform {
	return Transform{Scale: [3]float64{1, 1, 1}}
}

// IsIdentity reports whether the transform leaves geometry unchanged.
func (t Transform) IsIdentity() bool {
	return t.Position == [3]float64{} &&
		t.Rotation == [3]float64{} &&
		(t.Scale == [3]float64{1, 1, 1} || t.Scale == [3]float64{})
}

// EffectiveScale returns the scale with the zero value treated as unit
// scale, so zero-initialized transforms behave as identity.
func (t Transform) EffectiveScale() [3]float64 {
	if t.Scale == ([3]float64{}) {
		return [3]float64{1, 1, 1}
	}
	return t.Scale
}
