package render

import (
	"math"

	"github.com/brandkit/brandkit/backend-go/internal/document"
)

// starPath traces a five-point star with outer radius w/2 and inner radius
// w/4, alternating every 36 degrees starting on the positive x axis.
func starPath(s Surface, w float64) {
	const spikes = 5
	outer, inner := w/2, w/4
	s.BeginPath()
	for i := 0; i < spikes*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := math.Pi / spikes * float64(i)
		x, y := math.Cos(a)*r, math.Sin(a)*r
		if i == 0 {
			s.MoveTo(x, y)
		} else {
			s.LineTo(x, y)
		}
	}
	s.ClosePath()
}

func polygonPath(s Surface, sides int, radius float64) {
	s.BeginPath()
	for i := range sides {
		a := 2 * math.Pi / float64(sides) * float64(i)
		x, y := math.Cos(a)*radius, math.Sin(a)*radius
		if i == 0 {
			s.MoveTo(x, y)
		} else {
			s.LineTo(x, y)
		}
	}
	s.ClosePath()
}

func heartPath(s Surface, w, h float64) {
	s.BeginPath()
	s.MoveTo(0, h/4)
	s.CubicTo(w/4, -h/4, w/2, -h/4, w/2, h/4)
	s.CubicTo(w/2, h/2, 0, h/2, 0, h/4)
	s.CubicTo(0, h/2, -w/2, h/2, -w/2, h/4)
	s.CubicTo(-w/2, -h/4, -w/4, -h/4, 0, h/4)
}

// drawIcon fills the icon glyph. Icons are never stroked.
func drawIcon(s Surface, obj *document.Object) {
	w, h := obj.Width, obj.Height
	switch obj.Icon {
	case document.IconHeart:
		heartPath(s, w, h)
		s.Fill()
	case document.IconStar:
		starPath(s, w)
		s.Fill()
	case document.IconBookmark:
		s.BeginPath()
		s.MoveTo(-w/4, -h/2)
		s.LineTo(w/4, -h/2)
		s.LineTo(w/4, h/2)
		s.LineTo(0, h/4)
		s.LineTo(-w/4, h/2)
		s.ClosePath()
		s.Fill()
	case document.IconAward:
		s.BeginPath()
		s.Arc(0, -h/4, w/3, 0, 2*math.Pi)
		s.Fill()
		s.BeginPath()
		s.MoveTo(-w/6, 0)
		s.LineTo(-w/4, h/2)
		s.LineTo(0, h/3)
		s.LineTo(w/4, h/2)
		s.LineTo(w/6, 0)
		s.ClosePath()
		s.Fill()
	case document.IconZap:
		s.BeginPath()
		s.MoveTo(0, -h/2)
		s.LineTo(-w/4, 0)
		s.LineTo(0, 0)
		s.LineTo(-w/4, h/2)
		s.LineTo(w/4, 0)
		s.LineTo(0, 0)
		s.LineTo(0, -h/2)
		s.ClosePath()
		s.Fill()
	case document.IconDroplet:
		s.BeginPath()
		s.MoveTo(0, -h/2)
		s.CubicTo(w/2, -h/4, w/2, h/4, 0, h/2)
		s.CubicTo(-w/2, h/4, -w/2, -h/4, 0, -h/2)
		s.ClosePath()
		s.Fill()
	}
}
