package document

import (
	"image"
	"slices"
)

// Kind discriminates the drawable object variants.
type Kind string

const (
	KindShape Kind = "shape"
	KindText  Kind = "text"
	KindIcon  Kind = "icon"
	KindImage Kind = "image"
)

type ShapeKind string

const (
	ShapeSquare   ShapeKind = "square"
	ShapeCircle   ShapeKind = "circle"
	ShapeLine     ShapeKind = "line"
	ShapeTriangle ShapeKind = "triangle"
	ShapeStar     ShapeKind = "star"
	ShapeHeart    ShapeKind = "heart"
	ShapeHexagon  ShapeKind = "hexagon"
)

// Valid reports whether k is one of the known shape kinds.
func (k ShapeKind) Valid() bool {
	switch k {
	case ShapeSquare, ShapeCircle, ShapeLine, ShapeTriangle, ShapeStar, ShapeHeart, ShapeHexagon:
		return true
	}
	return false
}

type IconKind string

const (
	IconHeart    IconKind = "heart"
	IconStar     IconKind = "star"
	IconBookmark IconKind = "bookmark"
	IconAward    IconKind = "award"
	IconZap      IconKind = "zap"
	IconDroplet  IconKind = "droplet"
)

func (k IconKind) Valid() bool {
	switch k {
	case IconHeart, IconStar, IconBookmark, IconAward, IconZap, IconDroplet:
		return true
	}
	return false
}

type GradientType string

const (
	GradientLinear GradientType = "linear"
	GradientRadial GradientType = "radial"
)

// Gradient overrides the flat fill of an object when present.
// Colors and Stops are paired by index; Stops are percentages 0-100.
type Gradient struct {
	Type   GradientType `json:"type"`
	Colors []string     `json:"colors"`
	Stops  []float64    `json:"stops"`
	Angle  float64      `json:"angle,omitempty"` // degrees, linear only
}

// Clone returns a copy of the gradient that shares no slices with g.
func (g *Gradient) Clone() *Gradient {
	if g == nil {
		return nil
	}
	return &Gradient{
		Type:   g.Type,
		Colors: slices.Clone(g.Colors),
		Stops:  slices.Clone(g.Stops),
		Angle:  g.Angle,
	}
}

type FontWeight string

const (
	FontWeightNormal FontWeight = "normal"
	FontWeightBold   FontWeight = "bold"
)

type FontStyle string

const (
	FontStyleNormal FontStyle = "normal"
	FontStyleItalic FontStyle = "italic"
)

type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Text is the payload of a text object.
type Text struct {
	Content    string     `json:"content"`
	FontSize   float64    `json:"fontSize"`
	FontFamily string     `json:"fontFamily"`
	FontWeight FontWeight `json:"fontWeight"`
	FontStyle  FontStyle  `json:"fontStyle"`
	Align      TextAlign  `json:"textAlign"`
}

// Image is the payload of an image object: a decoded raster plus the transient
// source reference it was created from. The handle is immutable once built and
// is shared between history snapshots.
type Image struct {
	SourceURL string      `json:"imageUrl"`
	Decoded   image.Image `json:"-"`
	Width     int         `json:"naturalWidth"`
	Height    int         `json:"naturalHeight"`
}

// Object is one drawable element of a scene. X and Y are the center point.
// Exactly one of the variant payloads is meaningful, selected by Kind.
type Object struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"type"`
	X           float64   `json:"x"`
	Y           float64   `json:"y"`
	Width       float64   `json:"width"`
	Height      float64   `json:"height"`
	Fill        string    `json:"fill"`
	Stroke      string    `json:"stroke"`
	StrokeWidth float64   `json:"strokeWidth"`
	Rotation    float64   `json:"rotation"`
	Opacity     float64   `json:"opacity"`
	Gradient    *Gradient `json:"gradient,omitempty"`

	Shape ShapeKind `json:"shape,omitempty"`
	Icon  IconKind  `json:"icon,omitempty"`
	Text  *Text     `json:"text,omitempty"`
	Image *Image    `json:"image,omitempty"`
}

// Clone deep-copies the object. The decoded image handle is shared.
func (o Object) Clone() Object {
	o.Gradient = o.Gradient.Clone()
	if o.Text != nil {
		t := *o.Text
		o.Text = &t
	}
	return o
}

// Bounds returns the unrotated axis-aligned bounding box of the object.
func (o *Object) Bounds() Rect {
	return Rect{
		X:      o.X - o.Width/2,
		Y:      o.Y - o.Height/2,
		Width:  o.Width,
		Height: o.Height,
	}
}

// Scene is the ordered list of objects; index order is back-to-front paint order.
type Scene []Object

// Clone deep-copies the scene.
func (s Scene) Clone() Scene {
	if s == nil {
		return nil
	}
	out := make(Scene, len(s))
	for i := range s {
		out[i] = s[i].Clone()
	}
	return out
}

// Index returns the position of the object with the given id, or -1.
func (s Scene) Index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s, func(o Object) bool { return o.ID == id })
}

// Find returns a pointer into the scene for the object with the given id.
func (s Scene) Find(id string) (*Object, bool) {
	i := s.Index(id)
	if i < 0 {
		return nil, false
	}
	return &s[i], true
}
