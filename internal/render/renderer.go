package render

import (
	"math"

	"github.com/brandkit/brandkit/backend-go/internal/document"
)

const (
	DefaultBackground = "#ffffff"

	selectionColor  = "#2563eb"
	selectionWidth  = 2
	selectionDash   = 5
	selectionOutset = 5
)

// Frame is everything a render pass reads.
type Frame struct {
	Objects  document.Scene
	Selected string
	Live     *document.LiveEdit
}

// objectTagger is implemented by surfaces that correlate commands with the
// object being drawn.
type objectTagger interface {
	BeginObject(id string)
}

// Renderer draws frames back to front onto a Surface. It holds no per-frame
// state, so rendering the same frame twice draws the same thing.
type Renderer struct {
	Background string
}

func NewRenderer(background string) *Renderer {
	if background == "" {
		background = DefaultBackground
	}
	return &Renderer{Background: background}
}

// Render clears the surface and draws every object in paint order, outlining
// the selected one.
func (r *Renderer) Render(s Surface, f Frame) {
	s.Clear(r.Background)
	tagger, _ := s.(objectTagger)
	for i := range f.Objects {
		obj := &f.Objects[i]
		if tagger != nil {
			tagger.BeginObject(obj.ID)
		}
		drawObject(s, obj, obj.ID == f.Selected, f.Live)
	}
}

func drawObject(s Surface, obj *document.Object, selected bool, live *document.LiveEdit) {
	s.Save()
	defer s.Restore()

	s.Translate(obj.X, obj.Y)
	s.Rotate(Radians(obj.Rotation))
	s.SetAlpha(obj.Opacity / 100)

	s.SetFill(fillFor(document.ResolvePaint(obj, selected, live), obj.Width))
	s.SetStroke(obj.Stroke)
	s.SetLineWidth(obj.StrokeWidth)

	switch obj.Kind {
	case document.KindShape:
		drawShape(s, obj)
	case document.KindText:
		drawText(s, obj)
	case document.KindIcon:
		drawIcon(s, obj)
	case document.KindImage:
		if obj.Image != nil && obj.Image.Decoded != nil {
			s.DrawImage(obj.Image.Decoded, -obj.Width/2, -obj.Height/2, obj.Width, obj.Height)
		}
	}

	if selected {
		drawSelection(s, obj)
	}
}

// fillFor turns a resolved paint into a surface fill in object-local
// coordinates, where the object is centered at the origin.
func fillFor(p document.Paint, width float64) Fill {
	switch p.Kind {
	case document.PaintLinear:
		x0, y0, x1, y1 := document.LinearEndpoints(p.Angle, width)
		return Fill{Gradient: &Gradient{Kind: p.Kind, X0: x0, Y0: y0, X1: x1, Y1: y1, Stops: p.Stops}}
	case document.PaintRadial:
		return Fill{Gradient: &Gradient{Kind: p.Kind, Radius: width / 2, Stops: p.Stops}}
	default:
		return Fill{Color: p.Color}
	}
}

func fillAndMaybeStroke(s Surface, obj *document.Object) {
	s.Fill()
	if obj.StrokeWidth > 0 {
		s.Stroke()
	}
}

func drawShape(s Surface, obj *document.Object) {
	w, h := obj.Width, obj.Height
	switch obj.Shape {
	case document.ShapeSquare:
		s.FillRect(-w/2, -h/2, w, h)
		if obj.StrokeWidth > 0 {
			s.StrokeRect(-w/2, -h/2, w, h)
		}
	case document.ShapeCircle:
		s.BeginPath()
		s.Arc(0, 0, w/2, 0, 2*math.Pi)
		fillAndMaybeStroke(s, obj)
	case document.ShapeLine:
		// Lines are always the flat fill color at the object's height.
		s.BeginPath()
		s.MoveTo(-w/2, 0)
		s.LineTo(w/2, 0)
		s.SetStroke(obj.Fill)
		s.SetLineWidth(h)
		s.Stroke()
	case document.ShapeTriangle:
		s.BeginPath()
		s.MoveTo(0, -h/2)
		s.LineTo(-w/2, h/2)
		s.LineTo(w/2, h/2)
		s.ClosePath()
		fillAndMaybeStroke(s, obj)
	case document.ShapeStar:
		starPath(s, w)
		fillAndMaybeStroke(s, obj)
	case document.ShapeHeart:
		heartPath(s, w, h)
		fillAndMaybeStroke(s, obj)
	case document.ShapeHexagon:
		polygonPath(s, 6, w/2)
		fillAndMaybeStroke(s, obj)
	}
}

func drawText(s Surface, obj *document.Object) {
	t := obj.Text
	if t == nil {
		return
	}
	s.SetFont(fontFor(t))
	s.FillText(t.Content, 0, 0, t.Align)
	if obj.StrokeWidth > 0 {
		s.StrokeText(t.Content, 0, 0, t.Align)
	}
}

func fontFor(t *document.Text) Font {
	return Font{Family: t.FontFamily, Size: t.FontSize, Weight: t.FontWeight, Style: t.FontStyle}
}

func drawSelection(s Surface, obj *document.Object) {
	w, h := obj.Width, obj.Height
	if obj.Kind == document.KindText && obj.Text != nil {
		w = s.MeasureText(obj.Text.Content)
		h = obj.Text.FontSize
		if h <= 0 {
			h = document.DefaultStyle.Text.FontSize
		}
	}
	box := document.Rect{X: -w / 2, Y: -h / 2, Width: w, Height: h}.Outset(selectionOutset)

	s.SetStroke(selectionColor)
	s.SetLineWidth(selectionWidth)
	s.SetDash(selectionDash, selectionDash)
	s.StrokeRect(box.X, box.Y, box.Width, box.Height)
	s.SetDash()
}
