package sketch

import (
	"encoding/json"
	"fmt"
)

// Element variants serialize inside an envelope carrying a type
// discriminant, so a Sketch round-trips losslessly through JSON.

type elementEnvelope struct {
	Type      string     `json:"type"`
	Line      *Line      `json:"line,omitempty"`
	Circle    *Circle    `json:"circle,omitempty"`
	Arc       *Arc       `json:"arc,omitempty"`
	Rectangle *Rectangle `json:"rectangle,omitempty"`
	Polyline  *Polyline  `json:"polyline,omitempty"`
	Spline    *Spline    `json:"spline,omitempty"`
	Dimension *Dimension `json:"dimension,omitempty"`
}

func envelope(e Element) (elementEnvelope, error) {
	switch v := e.(type) {
	case Line:
		return elementEnvelope{Type: "line", Line: &v}, nil
	case Circle:
		return elementEnvelope{Type: "circle", Circle: &v}, nil
	case Arc:
		return elementEnvelope{Type: "arc", Arc: &v}, nil
	case Rectangle:
		return elementEnvelope{Type: "rectangle", Rectangle: &v}, nil
	case Polyline:
		return elementEnvelope{Type: "polyline", Polyline: &v}, nil
	case Spline:
		return elementEnvelope{Type: "spline", Spline: &v}, nil
	case Dimension:
		return elementEnvelope{Type: "dimension", Dimension: &v}, nil
	default:
		return elementEnvelope{}, fmt.Errorf("sketch: unknown element type %T", e)
	}
}

func (env elementEnvelope) element() (Element, error) {
	switch env.Type {
	case "line":
		if env.Line == nil {
			return nil, fmt.Errorf("sketch: %q envelope missing payload", env.Type)
		}
		return *env.Line, nil
	case "circle":
		if env.Circle == nil {
			return nil, fmt.Errorf("sketch: %q envelope missing payload", env.Type)
		}
		return *env.Circle, nil
	case "arc":
		if env.Arc == nil {
			return nil, fmt.Errorf("sketch: %q envelope missing payload", env.Type)
		}
		return *env.Arc, nil
	case "rectangle":
		if env.Rectangle == nil {
			return nil, fmt.Errorf("sketch: %q envelope missing payload", env.Type)
		}
		return *env.Rectangle, nil
	case "polyline":
		if env.Polyline == nil {
			return nil, fmt.Errorf("sketch: %q envelope missing payload", env.Type)
		}
		return *env.Polyline, nil
	case "spline":
		if env.Spline == nil {
			return nil, fmt.Errorf("sketch: %q envelope missing payload", env.Type)
		}
		return *env.Spline, nil
	case "dimension":
		if env.Dimension == nil {
			return nil, fmt.Errorf("sketch: %q envelope missing payload", env.Type)
		}
		return *env.Dimension, nil
	default:
		return nil, fmt.Errorf("sketch: unknown element type %q", env.Type)
	}
}

type sketchJSON struct {
	Plane    string            `json:"plane"`
	Offset   float64           `json:"offset"`
	Elements []elementEnvelope `json:"elements"`
}

// MarshalJSON implements json.Marshaler.
func (s Sketch) MarshalJSON() ([]byte, error) {
	out := sketchJSON{
		Plane:    s.Plane.String(),
		Offset:   s.Offset,
		Elements: make([]elementEnvelope, 0, len(s.Elements)),
	}
	for _, e := range s.Elements {
		env, err := envelope(e)
		if err != nil {
			return nil, err
		}
		out.Elements = append(out.Elements, env)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Sketch) UnmarshalJSON(data []byte) error {
	var in sketchJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var plane Plane
	switch in.Plane {
	case "xy", "":
		plane = PlaneXY
	case "xz":
		plane = PlaneXZ
	case "yz":
		plane = PlaneYZ
	default:
		return fmt.Errorf("sketch: unknown plane %q", in.Plane)
	}

	elements := make([]Element, 0, len(in.Elements))
	for _, env := range in.Elements {
		e, err := env.element()
		if err != nil {
			return err
		}
		elements = append(elements, e)
	}

	s.Plane = plane
	s.Offset = in.Offset
	s.Elements = elements
	return nil
}
