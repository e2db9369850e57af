package scene

import "encoding/json"

// Transform places an object relative to its parent.
// Rotation holds Euler angles in degrees.
type Transform struct {
	Position Vector3 `json:"position"`
	Rotation Vector3 `json:"rotation"`
	Scale    Vector3 `json:"scale"`
}

// NewTransform returns the identity transform: zero position and rotation,
// unit scale.
func NewTransform() Transform {
	return Transform{Scale: Vector3{1, 1, 1}}
}

// Clone returns an independent copy of t.
func (t Transform) Clone() Transform {
	return t
}

// Apply overwrites the components that are non-nil and leaves the rest.
// The vectors are copied, so later changes to the arguments do not leak in.
func (t *Transform) Apply(position, rotation, scale *Vector3) {
	if position != nil {
		t.Position = *position
	}
	if rotation != nil {
		t.Rotation = *rotation
	}
	if scale != nil {
		t.Scale = *scale
	}
}

// UnmarshalJSON decodes a transform, keeping identity defaults for any
// field missing from the input.
func (t *Transform) UnmarshalJSON(data []byte) error {
	type plain Transform
	v := plain(NewTransform())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = Transform(v)
	return nil
}
