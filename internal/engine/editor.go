package engine

import (
	"errors"
	"image"
	"log/slog"
	"math"
	"strings"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/history"
	"github.com/brandkit/brandkit/backend-go/internal/typeid"
)

var (
	ErrEmptyText = errors.New("text content is empty")
	ErrClosed    = errors.New("editor is closed")
)

// Releaser frees a transient image source reference. The editor calls it at
// most once per ref.
type Releaser interface {
	Release(ref string)
}

type nopReleaser struct{}

func (nopReleaser) Release(string) {}

// ToolOptions are the panel settings new objects are created with.
type ToolOptions struct {
	Stroke      string            `json:"stroke"`
	StrokeWidth float64           `json:"strokeWidth"`
	Opacity     float64           `json:"opacity"`
	UseGradient bool              `json:"useGradient"`
	Gradient    document.Gradient `json:"gradient"`
}

// DefaultToolOptions mirrors the stock panel: black stroke, no stroke width,
// fully opaque, gradient off with a red to blue linear ramp ready.
func DefaultToolOptions() ToolOptions {
	return ToolOptions{
		Stroke:      document.DefaultStyle.Style.Stroke,
		StrokeWidth: document.DefaultStyle.Style.StrokeWidth,
		Opacity:     document.DefaultStyle.Style.Opacity,
		Gradient: document.Gradient{
			Type:   document.GradientLinear,
			Colors: []string{"#ff0000", "#0000ff"},
			Stops:  []float64{0, 100},
			Angle:  90,
		},
	}
}

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// Editor owns a logo scene, its selection and its undo history. It is not
// safe for concurrent use; callers serialize access on one goroutine.
type Editor struct {
	defaults document.Defaults
	objects  document.Scene
	selected string
	history  *history.Log
	tools    ToolOptions
	live     *document.LiveEdit
	assets   Releaser
	pending  map[string]struct{}
	released map[string]struct{}
	drag     dragState
	closed   bool
	logger   *slog.Logger
}

type Option func(*Editor)

// WithReleaser sets where image source references are released.
func WithReleaser(r Releaser) Option {
	return func(e *Editor) { e.assets = r }
}

// WithDefaults overrides the creation-time constants.
func WithDefaults(d document.Defaults) Option {
	return func(e *Editor) { e.defaults = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.logger = l }
}

// NewEditor creates an editor with an empty scene and empty history.
func NewEditor(opts ...Option) *Editor {
	e := &Editor{
		defaults: document.DefaultStyle,
		objects:  document.Scene{},
		history:  history.New(),
		tools:    DefaultToolOptions(),
		assets:   nopReleaser{},
		pending:  make(map[string]struct{}),
		released: make(map[string]struct{}),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// --- Queries ---

// Objects returns a copy of the current scene.
func (e *Editor) Objects() document.Scene {
	return e.objects.Clone()
}

// Object returns a copy of the object with the given id.
func (e *Editor) Object(id string) (document.Object, bool) {
	obj, ok := e.objects.Find(id)
	if !ok {
		return document.Object{}, false
	}
	return obj.Clone(), true
}

// Selected returns the selected id, or "" when nothing (or a stale id) is
// selected.
func (e *Editor) Selected() string {
	if e.objects.Index(e.selected) < 0 {
		return ""
	}
	return e.selected
}

func (e *Editor) Tools() ToolOptions          { return e.tools }
func (e *Editor) Live() *document.LiveEdit    { return e.live }
func (e *Editor) Defaults() document.Defaults { return e.defaults }
func (e *Editor) CanUndo() bool               { return e.history.CanUndo() }
func (e *Editor) CanRedo() bool               { return e.history.CanRedo() }

// HistoryLen returns the number of recorded history entries.
func (e *Editor) HistoryLen() int { return e.history.Len() }

// Pick returns the topmost object under the point.
func (e *Editor) Pick(x, y float64) string {
	return Pick(e.objects, x, y)
}

// --- Commands ---

// SetTools replaces the panel settings used for new objects.
func (e *Editor) SetTools(t ToolOptions) {
	t.Gradient = *t.Gradient.Clone()
	e.tools = t
}

func (e *Editor) newObject(kind document.Kind, w, h float64) document.Object {
	obj := document.Object{
		ID:          typeid.NewObjectID(),
		Kind:        kind,
		X:           e.defaults.CenterX,
		Y:           e.defaults.CenterY,
		Width:       w,
		Height:      h,
		Fill:        e.defaults.Style.Fill,
		Stroke:      e.tools.Stroke,
		StrokeWidth: e.tools.StrokeWidth,
		Opacity:     e.tools.Opacity,
	}
	if e.tools.UseGradient {
		obj.Gradient = e.tools.Gradient.Clone()
	}
	return obj
}

func (e *Editor) add(obj document.Object) string {
	e.objects = append(e.objects, obj)
	e.selected = obj.ID
	e.Commit()
	e.logger.Debug("object added", "id", obj.ID, "type", obj.Kind)
	return obj.ID
}

// AddShape places a shape at the canvas center and selects it. Unknown kinds
// add nothing and return "".
func (e *Editor) AddShape(kind document.ShapeKind) string {
	if e.closed || !kind.Valid() {
		return ""
	}
	size := e.defaults.ShapeSize
	h := size
	if kind == document.ShapeLine {
		h = e.defaults.LineHeight
	}
	obj := e.newObject(document.KindShape, size, h)
	obj.Shape = kind
	return e.add(obj)
}

// AddText places a text object using the given font settings. Zero-valued
// font fields fall back to the defaults.
func (e *Editor) AddText(content string, font document.Text) (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyText
	}
	def := e.defaults.Text
	if font.FontSize <= 0 {
		font.FontSize = def.FontSize
	}
	if font.FontFamily == "" {
		font.FontFamily = def.FontFamily
	}
	if font.FontWeight == "" {
		font.FontWeight = def.FontWeight
	}
	if font.FontStyle == "" {
		font.FontStyle = def.FontStyle
	}
	if font.Align == "" {
		font.Align = def.Align
	}
	font.Content = content

	obj := e.newObject(document.KindText, e.defaults.TextWidth, font.FontSize)
	obj.Text = &font
	return e.add(obj), nil
}

// AddIcon places an icon at the canvas center and selects it. Unknown kinds
// add nothing and return "".
func (e *Editor) AddIcon(kind document.IconKind) string {
	if e.closed || !kind.Valid() {
		return ""
	}
	obj := e.newObject(document.KindIcon, e.defaults.IconSize, e.defaults.IconSize)
	obj.Icon = kind
	return e.add(obj)
}

// AddImage places a decoded image at the canvas center, ImageWidth wide with
// its aspect ratio preserved. The editor takes ownership of ref.
func (e *Editor) AddImage(ref string, img image.Image) string {
	if e.closed {
		e.release(ref)
		return ""
	}
	b := img.Bounds()
	w := e.defaults.ImageWidth
	h := w
	if b.Dx() > 0 {
		h = math.Round(w * float64(b.Dy()) / float64(b.Dx()))
	}
	obj := e.newObject(document.KindImage, w, h)
	obj.Fill = e.defaults.ImageFill
	obj.Stroke = e.defaults.ImageStroke
	obj.StrokeWidth = 0
	obj.Gradient = nil
	obj.Image = &document.Image{
		SourceURL: ref,
		Decoded:   img,
		Width:     b.Dx(),
		Height:    b.Dy(),
	}
	return e.add(obj)
}

// BeginImage registers an in-flight decode for ref.
func (e *Editor) BeginImage(ref string) {
	e.pending[ref] = struct{}{}
}

// CompleteImage finishes a decode started with BeginImage. On failure, or when
// the decode is no longer wanted, the reference is released and nothing is
// added.
func (e *Editor) CompleteImage(ref string, img image.Image, decodeErr error) (string, error) {
	_, wanted := e.pending[ref]
	delete(e.pending, ref)

	if !wanted || e.closed {
		e.release(ref)
		e.logger.Debug("dropped late image decode", "ref", ref)
		return "", nil
	}
	if decodeErr != nil {
		e.release(ref)
		return "", decodeErr
	}
	return e.AddImage(ref, img), nil
}

// Update shallow-merges patch into the object. It does not record history.
func (e *Editor) Update(id string, patch Patch) {
	obj, ok := e.objects.Find(id)
	if !ok {
		return
	}
	patch.apply(obj)
}

// Delete removes the object, releasing its image source if it has one.
func (e *Editor) Delete(id string) {
	i := e.objects.Index(id)
	if i < 0 {
		return
	}
	obj := e.objects[i]
	if obj.Kind == document.KindImage && obj.Image != nil {
		e.release(obj.Image.SourceURL)
	}
	e.objects = append(e.objects[:i:i], e.objects[i+1:]...)
	if e.selected == id {
		e.selected = ""
		e.live = nil
	}
	e.Commit()
}

// Reorder swaps the object with its neighbor. Up moves it one step toward the
// back of the paint order, Down one step toward the front.
func (e *Editor) Reorder(id string, dir Direction) {
	i := e.objects.Index(id)
	if i < 0 {
		return
	}
	j := i
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	}
	if j == i || j < 0 || j >= len(e.objects) {
		return
	}
	e.objects[i], e.objects[j] = e.objects[j], e.objects[i]
	e.Commit()
}

// Select changes the selection. An empty or unknown id clears it.
func (e *Editor) Select(id string) {
	if e.objects.Index(id) < 0 {
		id = ""
	}
	if id != e.selected {
		e.live = nil
	}
	e.selected = id
}

// PreviewStyle stages an uncommitted fill edit for the selected object.
func (e *Editor) PreviewStyle(edit document.LiveEdit) {
	if e.Selected() == "" {
		return
	}
	e.live = &edit
}

// CommitStyle writes a staged fill edit into the selected object and records.
func (e *Editor) CommitStyle() {
	live := e.live
	e.live = nil
	id := e.Selected()
	if id == "" || !live.Active() {
		return
	}
	e.Update(id, Patch{Fill: &live.Fill})
	e.Commit()
}

// ApplyGradient sets the panel gradient on the selected object and records.
func (e *Editor) ApplyGradient(g document.Gradient) {
	e.tools.Gradient = *g.Clone()
	id := e.Selected()
	if id == "" {
		return
	}
	e.Update(id, Patch{Gradient: g.Clone()})
	e.live = nil
	e.Commit()
}

// ClearGradient removes the gradient from the selected object and records.
func (e *Editor) ClearGradient() {
	obj, ok := e.objects.Find(e.Selected())
	if !ok || obj.Gradient == nil {
		return
	}
	obj.Gradient = nil
	e.Commit()
}

// Load replaces the scene with a copy of s, clears the selection and records
// the result. Image references in the replaced scene stay owned by history.
func (e *Editor) Load(s document.Scene) {
	if e.closed {
		return
	}
	e.objects = s.Clone()
	e.selected = ""
	e.live = nil
	e.drag = dragState{}
	e.Commit()
}

// Commit records the current scene as one history entry.
func (e *Editor) Commit() {
	e.history.Record(e.objects)
}

// Undo restores the previous history entry.
func (e *Editor) Undo() bool {
	s, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

// Redo restores the next history entry.
func (e *Editor) Redo() bool {
	s, ok := e.history.Redo()
	if !ok {
		return false
	}
	e.restore(s)
	return true
}

func (e *Editor) restore(s document.Scene) {
	e.objects = s
	e.drag = dragState{}
	if e.objects.Index(e.selected) < 0 {
		e.selected = ""
		e.live = nil
	}
}

// release frees ref unless it was already released.
func (e *Editor) release(ref string) bool {
	if ref == "" {
		return false
	}
	if _, ok := e.released[ref]; ok {
		return false
	}
	e.released[ref] = struct{}{}
	e.assets.Release(ref)
	return true
}

// Close releases every image source still referenced by the scene, its
// history, or an in-flight decode. Later commands are ignored.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	n := 0
	releaseScene := func(s document.Scene) {
		for _, obj := range s {
			if obj.Image != nil && e.release(obj.Image.SourceURL) {
				n++
			}
		}
	}
	releaseScene(e.objects)
	e.history.Each(releaseScene)
	for ref := range e.pending {
		if e.release(ref) {
			n++
		}
	}
	e.pending = map[string]struct{}{}
	e.logger.Debug("editor closed", "released", n)
}
