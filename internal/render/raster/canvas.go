// Package raster implements render.Surface on a gg software context.
package raster

import (
	"image"
	"io"
	"log/slog"
	"math"
	"slices"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/render"
)

type state struct {
	m      render.Matrix2D
	alpha  float64
	fill   render.Fill
	stroke string
	width  float64
	dash   []float64
	font   render.Font
}

type textRun struct {
	s     string
	x, y  float64
	align document.TextAlign
	fill  render.Fill
}

// Canvas draws onto a gg.Context. gg brushes live in device space, so the
// canvas tracks its own copy of the transform to place gradients, text and
// images.
type Canvas struct {
	ctx   *gg.Context
	state state
	stack []state
	last  *textRun
}

// NewCanvas creates a canvas of the given pixel size.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		ctx:   gg.NewContext(width, height),
		state: state{m: render.Identity(), alpha: 1, width: 1},
	}
}

// Close releases the underlying context.
func (c *Canvas) Close() error { return c.ctx.Close() }

// Image returns the rendered pixels.
func (c *Canvas) Image() image.Image { return c.ctx.Image() }

func (c *Canvas) EncodePNG(w io.Writer) error { return c.ctx.EncodePNG(w) }

func (c *Canvas) EncodeJPEG(w io.Writer, quality int) error {
	return c.ctx.EncodeJPEG(w, quality)
}

func (c *Canvas) Size() (int, int) { return c.ctx.Width(), c.ctx.Height() }

func (c *Canvas) Clear(color string) {
	c.ctx.ClearWithColor(ParseColor(color))
	c.last = nil
}

func (c *Canvas) Save() {
	s := c.state
	s.dash = slices.Clone(s.dash)
	c.stack = append(c.stack, s)
	c.ctx.Push()
}

func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		return
	}
	c.state = c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.ctx.Pop()
	c.applyDash()
}

func (c *Canvas) Translate(x, y float64) {
	c.state.m = c.state.m.Multiply(render.Translate(x, y))
	c.ctx.Translate(x, y)
}

func (c *Canvas) Rotate(rad float64) {
	c.state.m = c.state.m.Multiply(render.Rotate(rad))
	c.ctx.Rotate(rad)
}

func (c *Canvas) SetAlpha(a float64)     { c.state.alpha = math.Max(0, math.Min(1, a)) }
func (c *Canvas) SetFill(f render.Fill)  { c.state.fill = f }
func (c *Canvas) SetStroke(color string) { c.state.stroke = color }
func (c *Canvas) SetFont(f render.Font)  { c.state.font = f }

func (c *Canvas) SetLineWidth(w float64) {
	c.state.width = w
	c.ctx.SetLineWidth(w)
}

func (c *Canvas) SetDash(pattern ...float64) {
	c.state.dash = slices.Clone(pattern)
	c.applyDash()
}

func (c *Canvas) applyDash() {
	if len(c.state.dash) == 0 {
		c.ctx.ClearDash()
		return
	}
	c.ctx.SetDash(c.state.dash...)
}

// fillBrush converts the current fill into a device-space brush with global
// alpha folded into every color.
func (c *Canvas) fillBrush() gg.Brush {
	f := c.state.fill
	g := f.Gradient
	if g == nil || len(g.Stops) == 0 {
		return gg.Solid(withAlpha(ParseColor(f.Color), c.state.alpha))
	}
	m := c.state.m
	switch g.Kind {
	case document.PaintRadial:
		cx, cy := m.TransformPoint(g.X0, g.Y0)
		b := gg.NewRadialGradientBrush(cx, cy, 0, g.Radius)
		for _, s := range g.Stops {
			b.AddColorStop(s.Offset, withAlpha(ParseColor(s.Color), c.state.alpha))
		}
		return b
	default:
		x0, y0 := m.TransformPoint(g.X0, g.Y0)
		x1, y1 := m.TransformPoint(g.X1, g.Y1)
		b := gg.NewLinearGradientBrush(x0, y0, x1, y1)
		for _, s := range g.Stops {
			b.AddColorStop(s.Offset, withAlpha(ParseColor(s.Color), c.state.alpha))
		}
		return b
	}
}

func (c *Canvas) strokeBrush(color string) gg.Brush {
	return gg.Solid(withAlpha(ParseColor(color), c.state.alpha))
}

func (c *Canvas) logErr(op string, err error) {
	if err != nil {
		slog.Debug("raster draw failed", "op", op, "error", err)
	}
}

func (c *Canvas) FillRect(x, y, w, h float64) {
	c.ctx.ClearPath()
	c.ctx.DrawRectangle(x, y, w, h)
	c.ctx.SetFillBrush(c.fillBrush())
	c.logErr("fillRect", c.ctx.Fill())
}

func (c *Canvas) StrokeRect(x, y, w, h float64) {
	c.ctx.ClearPath()
	c.ctx.DrawRectangle(x, y, w, h)
	c.ctx.SetStrokeBrush(c.strokeBrush(c.state.stroke))
	c.logErr("strokeRect", c.ctx.Stroke())
}

func (c *Canvas) BeginPath()          { c.ctx.ClearPath() }
func (c *Canvas) MoveTo(x, y float64) { c.ctx.MoveTo(x, y) }
func (c *Canvas) LineTo(x, y float64) { c.ctx.LineTo(x, y) }
func (c *Canvas) ClosePath()          { c.ctx.ClosePath() }

func (c *Canvas) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	c.ctx.CubicTo(c1x, c1y, c2x, c2y, x, y)
}

func (c *Canvas) Arc(cx, cy, r, start, end float64) {
	c.ctx.DrawArc(cx, cy, r, start, end)
}

// Fill and Stroke keep the path so a fill can be followed by a stroke of the
// same outline.
func (c *Canvas) Fill() {
	c.ctx.SetFillBrush(c.fillBrush())
	c.logErr("fill", c.ctx.FillPreserve())
}

func (c *Canvas) Stroke() {
	c.ctx.SetStrokeBrush(c.strokeBrush(c.state.stroke))
	c.logErr("stroke", c.ctx.StrokePreserve())
}

func (c *Canvas) MeasureText(s string) float64 {
	return Measure(c.state.font, s)
}

func (c *Canvas) FillText(s string, x, y float64, align document.TextAlign) {
	c.drawText(s, x, y, align, c.textColor(c.state.fill))
	c.last = &textRun{s: s, x: x, y: y, align: align, fill: c.state.fill}
}

// StrokeText outlines text by stamping it in the stroke color around the
// glyphs, then repaints a fill drawn at the same spot on top.
func (c *Canvas) StrokeText(s string, x, y float64, align document.TextAlign) {
	col := withAlpha(ParseColor(c.state.stroke), c.state.alpha)
	d := math.Max(c.state.width/2, 0.5)
	for i := range 8 {
		a := float64(i) * math.Pi / 4
		c.drawText(s, x+d*math.Cos(a), y+d*math.Sin(a), align, col)
	}
	if last := c.last; last != nil && last.s == s && last.x == x && last.y == y && last.align == align {
		c.drawText(s, x, y, align, c.textColor(last.fill))
	}
}

// textColor picks a solid color for glyphs; gradients use their first stop.
func (c *Canvas) textColor(f render.Fill) gg.RGBA {
	color := f.Color
	if f.Gradient != nil && len(f.Gradient.Stops) > 0 {
		color = f.Gradient.Stops[0].Color
	}
	return withAlpha(ParseColor(color), c.state.alpha)
}

func (c *Canvas) drawText(s string, x, y float64, align document.TextAlign, col gg.RGBA) {
	face, err := Face(c.state.font)
	if err != nil {
		c.logErr("text", err)
		return
	}
	w := face.Advance(s)
	metrics := face.Metrics()
	left := x
	switch align {
	case document.AlignCenter:
		left -= w / 2
	case document.AlignRight:
		left -= w
	}

	if angle := c.angle(); angle == 0 {
		dx, dy := c.state.m.TransformPoint(left, y+(metrics.Ascent-metrics.Descent)/2)
		c.ctx.Push()
		c.ctx.Identity()
		c.ctx.SetFont(face)
		c.ctx.SetFillBrush(gg.Solid(col))
		c.ctx.DrawString(s, dx, dy)
		c.ctx.Pop()
		return
	}

	// Rotated text is rendered upright offscreen and rotated as a bitmap.
	img := textImage(s, face, w, metrics.Ascent, metrics.Descent, col)
	if img == nil {
		return
	}
	cx, cy := c.state.m.TransformPoint(left+w/2, y)
	c.blit(transform.Rotate(img, c.angle(), &transform.RotationOptions{ResizeBounds: true}), cx, cy, 1)
}

func textImage(s string, face text.Face, w, ascent, descent float64, col gg.RGBA) image.Image {
	const pad = 2
	iw := int(math.Ceil(w)) + 2*pad
	ih := int(math.Ceil(ascent+descent)) + 2*pad
	if iw <= 2*pad || ih <= 2*pad {
		return nil
	}
	off := gg.NewContext(iw, ih)
	defer off.Close()
	off.SetFont(face)
	off.SetFillBrush(gg.Solid(col))
	off.DrawString(s, pad, pad+ascent)
	return clone.AsRGBA(off.Image())
}

// angle returns the current rotation in degrees, clockwise on screen.
func (c *Canvas) angle() float64 {
	m := c.state.m
	if m[1] == 0 && m[2] == 0 {
		return 0
	}
	return math.Atan2(m[1], m[0]) * 180 / math.Pi
}

func (c *Canvas) DrawImage(img image.Image, x, y, w, h float64) {
	if c.state.alpha <= 0 || w <= 0 || h <= 0 {
		return
	}
	if c.angle() == 0 {
		dx, dy := c.state.m.TransformPoint(x, y)
		c.ctx.Push()
		c.ctx.Identity()
		c.ctx.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
			X: dx, Y: dy, DstWidth: w, DstHeight: h, Opacity: c.state.alpha,
		})
		c.ctx.Pop()
		return
	}
	scaled := transform.Resize(img, int(math.Round(w)), int(math.Round(h)), transform.Linear)
	rotated := transform.Rotate(scaled, c.angle(), &transform.RotationOptions{ResizeBounds: true})
	cx, cy := c.state.m.TransformPoint(x+w/2, y+h/2)
	c.blit(rotated, cx, cy, c.state.alpha)
}

// blit draws an already-transformed bitmap centered on a device point.
func (c *Canvas) blit(img image.Image, cx, cy, opacity float64) {
	b := img.Bounds()
	c.ctx.Push()
	c.ctx.Identity()
	c.ctx.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:       cx - float64(b.Dx())/2,
		Y:       cy - float64(b.Dy())/2,
		Opacity: opacity,
	})
	c.ctx.Pop()
}
