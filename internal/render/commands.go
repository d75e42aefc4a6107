package render

import (
	"encoding/json"
	"image"
	"slices"
	"unicode/utf8"

	"github.com/brandkit/brandkit/backend-go/internal/document"
)

// PathCommand is one path segment: {"M", x, y}, {"L", x, y},
// {"C", c1x, c1y, c2x, c2y, x, y}, {"A", cx, cy, r, start, end} or {"Z"}.
type PathCommand []any

// DrawCommand represents a single drawing operation for a client to replay on
// a Canvas2D context. Transform is the full local-to-surface matrix at the
// time of the call.
type DrawCommand struct {
	Op          string             `json:"op"` // clear, fill, stroke, fillRect, strokeRect, fillText, strokeText, image
	ObjectID    string             `json:"objectId,omitempty"`
	Transform   []float64          `json:"transform,omitempty"`
	Opacity     float64            `json:"opacity"`
	Path        []PathCommand      `json:"path,omitempty"`
	Rect        *document.Rect     `json:"rect,omitempty"`
	Fill        *Fill              `json:"fill,omitempty"`
	Stroke      string             `json:"stroke,omitempty"`
	StrokeWidth float64            `json:"strokeWidth,omitempty"`
	Dash        []float64          `json:"dash,omitempty"`
	Text        string             `json:"text,omitempty"`
	Font        *Font              `json:"font,omitempty"`
	Align       document.TextAlign `json:"align,omitempty"`
	ImageWidth  int                `json:"imageWidth,omitempty"`
	ImageHeight int                `json:"imageHeight,omitempty"`
}

// MeasureFunc returns the advance width of s in the given font.
type MeasureFunc func(f Font, s string) float64

// ApproxMeasure estimates text width as half an em per rune.
func ApproxMeasure(f Font, s string) float64 {
	return 0.5 * f.Size * float64(utf8.RuneCountInString(s))
}

type recorderState struct {
	m      Matrix2D
	alpha  float64
	fill   Fill
	stroke string
	width  float64
	dash   []float64
	font   Font
}

// Recorder is a Surface that records draw commands instead of rasterizing.
type Recorder struct {
	width, height int
	measure       MeasureFunc

	state    recorderState
	stack    []recorderState
	path     []PathCommand
	objectID string
	commands []DrawCommand
}

// NewRecorder creates a recorder for a surface of the given size. A nil
// measure uses ApproxMeasure.
func NewRecorder(width, height int, measure MeasureFunc) *Recorder {
	if measure == nil {
		measure = ApproxMeasure
	}
	return &Recorder{
		width:   width,
		height:  height,
		measure: measure,
		state:   recorderState{m: Identity(), alpha: 1, width: 1},
	}
}

// Commands returns the commands recorded so far, in painter's order.
func (r *Recorder) Commands() []DrawCommand { return r.commands }

// Reset drops recorded commands and state.
func (r *Recorder) Reset() {
	r.commands = nil
	r.stack = nil
	r.path = nil
	r.objectID = ""
	r.state = recorderState{m: Identity(), alpha: 1, width: 1}
}

// BeginObject tags subsequent commands with an object id for hit correlation.
func (r *Recorder) BeginObject(id string) { r.objectID = id }

func (r *Recorder) emit(cmd DrawCommand) {
	cmd.ObjectID = r.objectID
	cmd.Transform = r.state.m.ToSlice()
	cmd.Opacity = r.state.alpha
	r.commands = append(r.commands, cmd)
}

func (r *Recorder) fillRef() *Fill {
	f := r.state.fill
	if f.Gradient != nil {
		g := *f.Gradient
		g.Stops = slices.Clone(g.Stops)
		f.Gradient = &g
	}
	return &f
}

func (r *Recorder) Size() (int, int) { return r.width, r.height }

func (r *Recorder) Clear(color string) {
	r.commands = append(r.commands, DrawCommand{
		Op:      "clear",
		Opacity: 1,
		Fill:    &Fill{Color: color},
		Rect:    &document.Rect{Width: float64(r.width), Height: float64(r.height)},
	})
}

func (r *Recorder) Save() {
	s := r.state
	s.dash = slices.Clone(s.dash)
	r.stack = append(r.stack, s)
}

func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	if len(r.stack) == 0 {
		r.objectID = ""
	}
}

func (r *Recorder) Translate(x, y float64) { r.state.m = r.state.m.Multiply(Translate(x, y)) }
func (r *Recorder) Rotate(rad float64)     { r.state.m = r.state.m.Multiply(Rotate(rad)) }
func (r *Recorder) SetAlpha(a float64)     { r.state.alpha = a }
func (r *Recorder) SetFill(f Fill)         { r.state.fill = f }
func (r *Recorder) SetStroke(c string)     { r.state.stroke = c }
func (r *Recorder) SetLineWidth(w float64) { r.state.width = w }
func (r *Recorder) SetFont(f Font)         { r.state.font = f }

func (r *Recorder) SetDash(pattern ...float64) {
	r.state.dash = slices.Clone(pattern)
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.emit(DrawCommand{Op: "fillRect", Rect: &document.Rect{X: x, Y: y, Width: w, Height: h}, Fill: r.fillRef()})
}

func (r *Recorder) StrokeRect(x, y, w, h float64) {
	r.emit(DrawCommand{
		Op:          "strokeRect",
		Rect:        &document.Rect{X: x, Y: y, Width: w, Height: h},
		Stroke:      r.state.stroke,
		StrokeWidth: r.state.width,
		Dash:        slices.Clone(r.state.dash),
	})
}

func (r *Recorder) BeginPath()          { r.path = nil }
func (r *Recorder) MoveTo(x, y float64) { r.path = append(r.path, PathCommand{"M", x, y}) }
func (r *Recorder) LineTo(x, y float64) { r.path = append(r.path, PathCommand{"L", x, y}) }
func (r *Recorder) ClosePath()          { r.path = append(r.path, PathCommand{"Z"}) }

func (r *Recorder) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	r.path = append(r.path, PathCommand{"C", c1x, c1y, c2x, c2y, x, y})
}

func (r *Recorder) Arc(cx, cy, radius, start, end float64) {
	r.path = append(r.path, PathCommand{"A", cx, cy, radius, start, end})
}

func (r *Recorder) Fill() {
	r.emit(DrawCommand{Op: "fill", Path: slices.Clone(r.path), Fill: r.fillRef()})
}

func (r *Recorder) Stroke() {
	r.emit(DrawCommand{
		Op:          "stroke",
		Path:        slices.Clone(r.path),
		Stroke:      r.state.stroke,
		StrokeWidth: r.state.width,
		Dash:        slices.Clone(r.state.dash),
	})
}

func (r *Recorder) MeasureText(s string) float64 {
	return r.measure(r.state.font, s)
}

func (r *Recorder) FillText(s string, x, y float64, align document.TextAlign) {
	font := r.state.font
	r.emit(DrawCommand{Op: "fillText", Text: s, Font: &font, Align: align, Fill: r.fillRef(),
		Rect: &document.Rect{X: x, Y: y}})
}

func (r *Recorder) StrokeText(s string, x, y float64, align document.TextAlign) {
	font := r.state.font
	r.emit(DrawCommand{Op: "strokeText", Text: s, Font: &font, Align: align,
		Stroke: r.state.stroke, StrokeWidth: r.state.width, Rect: &document.Rect{X: x, Y: y}})
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	b := img.Bounds()
	r.emit(DrawCommand{
		Op:          "image",
		Rect:        &document.Rect{X: x, Y: y, Width: w, Height: h},
		ImageWidth:  b.Dx(),
		ImageHeight: b.Dy(),
	})
}

// DrawCommandsToJSON serializes draw commands to JSON.
func DrawCommandsToJSON(commands []DrawCommand) (string, error) {
	data, err := json.Marshal(commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}
