package engine

import "github.com/brandkit/brandkit/backend-go/internal/document"

// Patch is a partial object update. Nil fields are left untouched.
type Patch struct {
	X           *float64           `json:"x,omitempty"`
	Y           *float64           `json:"y,omitempty"`
	Width       *float64           `json:"width,omitempty"`
	Height      *float64           `json:"height,omitempty"`
	Fill        *string            `json:"fill,omitempty"`
	Stroke      *string            `json:"stroke,omitempty"`
	StrokeWidth *float64           `json:"strokeWidth,omitempty"`
	Rotation    *float64           `json:"rotation,omitempty"`
	Opacity     *float64           `json:"opacity,omitempty"`
	Gradient    *document.Gradient `json:"gradient,omitempty"`
	Text        *document.Text     `json:"text,omitempty"`
}

func (p Patch) apply(obj *document.Object) {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&obj.X, p.X)
	set(&obj.Y, p.Y)
	set(&obj.Width, p.Width)
	set(&obj.Height, p.Height)
	set(&obj.StrokeWidth, p.StrokeWidth)
	set(&obj.Rotation, p.Rotation)
	set(&obj.Opacity, p.Opacity)
	if p.Fill != nil {
		obj.Fill = *p.Fill
	}
	if p.Stroke != nil {
		obj.Stroke = *p.Stroke
	}
	if p.Gradient != nil {
		obj.Gradient = p.Gradient.Clone()
	}
	if p.Text != nil && obj.Kind == document.KindText {
		t := *p.Text
		obj.Text = &t
	}
}

// Position is a Patch that moves an object's center.
func Position(x, y float64) Patch {
	return Patch{X: &x, Y: &y}
}
