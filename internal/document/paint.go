package document

import "math"

type PaintKind int

const (
	PaintFlat PaintKind = iota
	PaintLinear
	PaintRadial
)

// Stop is one resolved gradient color stop with an offset in [0, 1].
type Stop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// Paint is the resolved fill source for one draw call.
type Paint struct {
	Kind  PaintKind
	Color string
	Stops []Stop
	Angle float64
}

// LiveEdit is an uncommitted flat-color edit from the color picker. It is only
// consulted for the selected object.
type LiveEdit struct {
	Fill        string `json:"fill"`
	UseGradient bool   `json:"useGradient"`
}

// Active reports whether the edit should override the stored paint.
func (l *LiveEdit) Active() bool {
	return l != nil && l.Fill != "" && !l.UseGradient
}

// ColorStops pairs colors with stops by index. Pairs beyond the shorter of the
// two lists are dropped and offsets are clamped to [0, 100] before scaling.
func (g *Gradient) ColorStops() []Stop {
	if g == nil {
		return nil
	}
	n := min(len(g.Colors), len(g.Stops))
	stops := make([]Stop, 0, n)
	for i := 0; i < n; i++ {
		off := math.Max(0, math.Min(100, g.Stops[i]))
		stops = append(stops, Stop{Offset: off / 100, Color: g.Colors[i]})
	}
	return stops
}

// ResolvePaint picks the fill paint for an object: a pending live edit on the
// selected object wins, then a stored gradient, then the stored flat fill.
func ResolvePaint(obj *Object, selected bool, live *LiveEdit) Paint {
	if selected && live.Active() {
		return Paint{Kind: PaintFlat, Color: live.Fill}
	}
	if obj.Gradient != nil {
		if stops := obj.Gradient.ColorStops(); len(stops) > 0 {
			kind := PaintLinear
			if obj.Gradient.Type == GradientRadial {
				kind = PaintRadial
			}
			return Paint{Kind: kind, Stops: stops, Angle: obj.Gradient.Angle}
		}
	}
	return Paint{Kind: PaintFlat, Color: obj.Fill}
}

// LinearEndpoints returns the gradient line for a box of width w centered at
// the origin. Angles follow CSS: 0 points up, 90 points right.
func LinearEndpoints(angle, w float64) (x0, y0, x1, y1 float64) {
	rad := angle * math.Pi / 180
	dx := math.Sin(rad) * w / 2
	dy := -math.Cos(rad) * w / 2
	return -dx, -dy, dx, dy
}
