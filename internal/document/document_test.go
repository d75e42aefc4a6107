package document

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redBlue() *Gradient {
	return &Gradient{Type: GradientLinear, Colors: []string{"#ff0000", "#0000ff"}, Stops: []float64{0, 100}, Angle: 90}
}

func TestResolvePaint(t *testing.T) {
	obj := &Object{Kind: KindShape, Fill: "#000000", Gradient: redBlue()}

	p := ResolvePaint(obj, false, nil)
	assert.Equal(t, PaintLinear, p.Kind)
	assert.Equal(t, []Stop{{0, "#ff0000"}, {1, "#0000ff"}}, p.Stops)

	live := &LiveEdit{Fill: "#00ff00"}
	p = ResolvePaint(obj, true, live)
	assert.Equal(t, Paint{Kind: PaintFlat, Color: "#00ff00"}, p)

	// Unselected objects ignore the live edit.
	assert.Equal(t, PaintLinear, ResolvePaint(obj, false, live).Kind)

	// The gradient toggle keeps the stored gradient.
	live.UseGradient = true
	assert.Equal(t, PaintLinear, ResolvePaint(obj, true, live).Kind)

	obj.Gradient = nil
	assert.Equal(t, Paint{Kind: PaintFlat, Color: "#000000"}, ResolvePaint(obj, false, nil))

	obj.Gradient = &Gradient{Type: GradientRadial, Colors: []string{"#fff", "#000"}, Stops: []float64{0, 100}}
	assert.Equal(t, PaintRadial, ResolvePaint(obj, false, nil).Kind)
}

func TestColorStopsClamp(t *testing.T) {
	g := &Gradient{Colors: []string{"a", "b", "c"}, Stops: []float64{-20, 150}}
	assert.Equal(t, []Stop{{0, "a"}, {1, "b"}}, g.ColorStops())

	empty := &Gradient{Colors: []string{"a"}}
	obj := &Object{Fill: "#123456", Gradient: empty}
	assert.Equal(t, PaintFlat, ResolvePaint(obj, false, nil).Kind)

	var none *Gradient
	assert.Nil(t, none.ColorStops())
}

func TestLinearEndpoints(t *testing.T) {
	x0, y0, x1, y1 := LinearEndpoints(90, 100)
	assert.InDelta(t, -50, x0, 1e-9)
	assert.InDelta(t, 0, y0, 1e-9)
	assert.InDelta(t, 50, x1, 1e-9)
	assert.InDelta(t, 0, y1, 1e-9)

	_, y0, _, y1 = LinearEndpoints(0, 100)
	assert.InDelta(t, 50, y0, 1e-9)
	assert.InDelta(t, -50, y1, 1e-9)
	assert.False(t, math.IsNaN(y1))
}

func TestSceneCloneIsDeep(t *testing.T) {
	img := &Image{SourceURL: "blob:one", Width: 10, Height: 5}
	s := Scene{
		{ID: "a", Kind: KindText, Text: &Text{Content: "hi"}, Gradient: redBlue()},
		{ID: "b", Kind: KindImage, Image: img},
	}
	c := s.Clone()

	s[0].Text.Content = "changed"
	s[0].Gradient.Colors[0] = "#000000"
	s[0].X = 99

	assert.Equal(t, "hi", c[0].Text.Content)
	assert.Equal(t, "#ff0000", c[0].Gradient.Colors[0])
	assert.Zero(t, c[0].X)
	assert.Same(t, img, c[1].Image)
}

func TestSceneLookup(t *testing.T) {
	s := Scene{{ID: "a"}, {ID: "b"}}
	assert.Equal(t, 1, s.Index("b"))
	assert.Equal(t, -1, s.Index("zzz"))
	assert.Equal(t, -1, s.Index(""))

	obj, ok := s.Find("a")
	require.True(t, ok)
	obj.X = 5
	assert.Equal(t, 5.0, s[0].X)
}

func TestBoundsAndRect(t *testing.T) {
	obj := Object{X: 250, Y: 250, Width: 100, Height: 40}
	r := obj.Bounds()
	assert.Equal(t, Rect{X: 200, Y: 230, Width: 100, Height: 40}, r)
	assert.True(t, r.Contains(200, 230))
	assert.True(t, r.Contains(300, 270))
	assert.False(t, r.Contains(301, 250))
	assert.Equal(t, Rect{X: 195, Y: 225, Width: 110, Height: 50}, r.Outset(5))
}

func TestForCanvas(t *testing.T) {
	d := DefaultStyle.ForCanvas(800, 600)
	assert.Equal(t, 400.0, d.CenterX)
	assert.Equal(t, 300.0, d.CenterY)
	assert.Equal(t, 250.0, DefaultStyle.CenterX)
}

func TestKindValid(t *testing.T) {
	for _, k := range []ShapeKind{ShapeSquare, ShapeCircle, ShapeLine, ShapeTriangle, ShapeStar, ShapeHeart, ShapeHexagon} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, ShapeKind("pentagon").Valid())
	assert.False(t, ShapeKind("").Valid())

	for _, k := range []IconKind{IconHeart, IconStar, IconBookmark, IconAward, IconZap, IconDroplet} {
		assert.True(t, k.Valid(), k)
	}
	assert.False(t, IconKind("").Valid())
}
