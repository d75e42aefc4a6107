// Package mockup places filtered logos onto packaging templates.
package mockup

import (
	"errors"
	"image"
	"math"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/filter"
	"github.com/brandkit/brandkit/backend-go/internal/typeid"
)

var ErrUnknownTemplate = errors.New("unknown template")

type Template struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Templates lists the packaging templates in display order.
var Templates = []Template{
	{ID: "box", Name: "Product Box", Image: "product-box.png"},
	{ID: "cup", Name: "Coffee Cup", Image: "cup.png"},
	{ID: "bag", Name: "Shopping Bag", Image: "bag.jpg"},
	{ID: "container", Name: "Food Container", Image: "food-container.webp"},
}

func TemplateByID(id string) (Template, bool) {
	for _, t := range Templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

const (
	DefaultSize  = 30.0
	DefaultColor = "#FFFFFF"
)

// Placement is one logo on the template. Position is the logo center in
// percent of the template box; Size is the logo width in percent of the box
// width.
type Placement struct {
	ID       string             `json:"id"`
	Source   string             `json:"url"`
	Image    image.Image        `json:"-"`
	Position document.Point     `json:"position"`
	Size     float64            `json:"size"`
	Rotation float64            `json:"rotation"`
	Filter   filter.ColorFilter `json:"filters"`
}

func (p *Placement) reset() {
	p.Position = document.Point{X: 50, Y: 50}
	p.Size = DefaultSize
	p.Rotation = 0
	p.Filter = filter.Default()
}

// Releaser frees a transient logo source reference.
type Releaser interface {
	Release(ref string)
}

type dragState struct {
	active bool
	offset document.Point
}

// Mockup is the state of one packaging mockup editor.
type Mockup struct {
	template Template
	color    string
	logos    []Placement
	selected int
	drag     dragState
	assets   Releaser
}

// New creates a mockup on the given template. Unknown ids fall back to the
// first template.
func New(templateID string, assets Releaser) *Mockup {
	t, ok := TemplateByID(templateID)
	if !ok {
		t = Templates[0]
	}
	return &Mockup{template: t, color: DefaultColor, selected: -1, assets: assets}
}

func (m *Mockup) Template() Template { return m.template }
func (m *Mockup) Color() string      { return m.color }
func (m *Mockup) SetColor(c string)  { m.color = c }
func (m *Mockup) Logos() []Placement { return append([]Placement(nil), m.logos...) }
func (m *Mockup) Dragging() bool     { return m.drag.active }

func (m *Mockup) SetTemplate(id string) error {
	t, ok := TemplateByID(id)
	if !ok {
		return ErrUnknownTemplate
	}
	m.template = t
	return nil
}

// Selected returns the selected placement.
func (m *Mockup) Selected() (*Placement, bool) {
	if m.selected < 0 || m.selected >= len(m.logos) {
		return nil, false
	}
	return &m.logos[m.selected], true
}

// Add places a logo at the center with default settings and selects it.
func (m *Mockup) Add(ref string, img image.Image) string {
	p := Placement{ID: typeid.NewLogoID(), Source: ref, Image: img}
	p.reset()
	m.logos = append(m.logos, p)
	m.selected = len(m.logos) - 1
	return p.ID
}

// Select selects the logo at index i; out-of-range indexes clear the selection.
func (m *Mockup) Select(i int) {
	if i < 0 || i >= len(m.logos) {
		i = -1
	}
	m.selected = i
}

// Remove deletes the selected logo. The selection falls to the first
// remaining logo, or none.
func (m *Mockup) Remove() {
	p, ok := m.Selected()
	if !ok {
		return
	}
	if m.assets != nil && p.Source != "" {
		m.assets.Release(p.Source)
	}
	m.logos = append(m.logos[:m.selected:m.selected], m.logos[m.selected+1:]...)
	m.drag = dragState{}
	if len(m.logos) > 0 {
		m.selected = 0
	} else {
		m.selected = -1
	}
}

func clampPct(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

// DragStart selects logo i and anchors a drag at the pointer, given in pixels
// relative to a container of size w x h.
func (m *Mockup) DragStart(i int, x, y, w, h float64) {
	m.Select(i)
	p, ok := m.Selected()
	if !ok || w <= 0 || h <= 0 {
		return
	}
	m.drag = dragState{
		active: true,
		offset: document.Point{X: x - w*p.Position.X/100, Y: y - h*p.Position.Y/100},
	}
}

// DragMove repositions the dragged logo, clamped to the container.
func (m *Mockup) DragMove(x, y, w, h float64) {
	p, ok := m.Selected()
	if !m.drag.active || !ok || w <= 0 || h <= 0 {
		return
	}
	p.Position = document.Point{
		X: clampPct((x - m.drag.offset.X) / w * 100),
		Y: clampPct((y - m.drag.offset.Y) / h * 100),
	}
}

func (m *Mockup) DragEnd() { m.drag = dragState{} }

func (m *Mockup) SetSize(size float64) {
	if p, ok := m.Selected(); ok {
		p.Size = size
	}
}

func (m *Mockup) SetRotation(deg float64) {
	if p, ok := m.Selected(); ok {
		p.Rotation = deg
	}
}

func (m *Mockup) SetPosition(x, y float64) {
	if p, ok := m.Selected(); ok {
		p.Position = document.Point{X: clampPct(x), Y: clampPct(y)}
	}
}

func (m *Mockup) SetFilter(f filter.ColorFilter) {
	if p, ok := m.Selected(); ok {
		p.Filter = f.Clamp()
	}
}

func (m *Mockup) ApplyPreset(name filter.Preset) error {
	f, err := filter.FromPreset(name)
	if err != nil {
		return err
	}
	m.SetFilter(f)
	return nil
}

// Reset restores the selected logo's position, size, rotation and filter.
func (m *Mockup) Reset() {
	if p, ok := m.Selected(); ok {
		p.reset()
	}
}

// State is a client-facing snapshot of the mockup.
type State struct {
	Template  Template    `json:"template"`
	Color     string      `json:"color"`
	Logos     []Placement `json:"logos"`
	FilterCSS []string    `json:"filterCss"`
	Selected  int         `json:"selected"`
	Dragging  bool        `json:"dragging,omitempty"`
}

func (m *Mockup) State() State {
	st := State{
		Template:  m.template,
		Color:     m.color,
		Logos:     m.Logos(),
		FilterCSS: make([]string, len(m.logos)),
		Selected:  m.selected,
		Dragging:  m.drag.active,
	}
	for i, p := range m.logos {
		st.FilterCSS[i] = p.Filter.CSS()
	}
	return st
}

// Close releases every logo source still held.
func (m *Mockup) Close() {
	if m.assets == nil {
		return
	}
	for _, p := range m.logos {
		if p.Source != "" {
			m.assets.Release(p.Source)
		}
	}
	m.logos = nil
	m.selected = -1
}
