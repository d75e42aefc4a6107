// Package render draws a logo scene onto a canvas-like immediate-mode surface.
package render

import (
	"image"

	"github.com/brandkit/brandkit/backend-go/internal/document"
)

// Gradient is a fill gradient in the surface's current local coordinates.
// Linear gradients run from (X0, Y0) to (X1, Y1); radial gradients are
// centered at (X0, Y0) and grow from radius 0 to Radius.
type Gradient struct {
	Kind   document.PaintKind `json:"kind"`
	X0     float64            `json:"x0"`
	Y0     float64            `json:"y0"`
	X1     float64            `json:"x1,omitempty"`
	Y1     float64            `json:"y1,omitempty"`
	Radius float64            `json:"radius,omitempty"`
	Stops  []document.Stop    `json:"stops"`
}

// Fill is either a flat color or a gradient.
type Fill struct {
	Color    string    `json:"color,omitempty"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

// Font selects a face for text drawing.
type Font struct {
	Family string              `json:"family"`
	Size   float64             `json:"size"`
	Weight document.FontWeight `json:"weight"`
	Style  document.FontStyle  `json:"style"`
}

// Surface is the drawing contract the renderer needs. Text is drawn with a
// middle baseline at the given horizontal alignment.
//
// Save and Restore snapshot the transform, global alpha, fill, stroke, line
// width, dash and font.
type Surface interface {
	Size() (width, height int)
	Clear(color string)

	Save()
	Restore()
	Translate(x, y float64)
	Rotate(radians float64)
	SetAlpha(alpha float64)

	SetFill(f Fill)
	SetStroke(color string)
	SetLineWidth(w float64)
	SetDash(pattern ...float64)

	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CubicTo(c1x, c1y, c2x, c2y, x, y float64)
	Arc(cx, cy, r, start, end float64)
	ClosePath()
	Fill()
	Stroke()

	SetFont(f Font)
	MeasureText(s string) float64
	FillText(s string, x, y float64, align document.TextAlign)
	StrokeText(s string, x, y float64, align document.TextAlign)

	DrawImage(img image.Image, x, y, w, h float64)
}
