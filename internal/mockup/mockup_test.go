package mockup

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/filter"
)

type releaser struct{ refs []string }

func (r *releaser) Release(ref string) { r.refs = append(r.refs, ref) }

func logoImage(c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestNewFallsBackToFirstTemplate(t *testing.T) {
	m := New("spaceship", nil)
	assert.Equal(t, "box", m.Template().ID)
	assert.Equal(t, "Product Box", m.Template().Name)

	require.NoError(t, m.SetTemplate("cup"))
	assert.Equal(t, "Coffee Cup", m.Template().Name)
	assert.ErrorIs(t, m.SetTemplate("nope"), ErrUnknownTemplate)
}

func TestAddDefaultsAndSelects(t *testing.T) {
	m := New("box", nil)
	m.Add("blob:a", nil)
	m.Add("blob:b", nil)

	p, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "blob:b", p.Source)
	assert.Equal(t, document.Point{X: 50, Y: 50}, p.Position)
	assert.Equal(t, 30.0, p.Size)
	assert.Equal(t, filter.Default(), p.Filter)
}

func TestRemoveSelectsFirstRemaining(t *testing.T) {
	rel := &releaser{}
	m := New("box", rel)
	m.Add("blob:a", nil)
	m.Add("blob:b", nil)
	m.Add("blob:c", nil)

	m.Select(2)
	m.Remove()
	assert.Equal(t, []string{"blob:c"}, rel.refs)
	p, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "blob:a", p.Source)

	m.Remove()
	m.Remove()
	_, ok = m.Selected()
	assert.False(t, ok)
	assert.Empty(t, m.Logos())

	m.Remove()
	assert.Len(t, rel.refs, 3)
}

func TestDragClampsToContainer(t *testing.T) {
	m := New("box", nil)
	m.Add("blob:a", nil)

	// Container 400x200; logo center at (200, 100). Grab 10px right of it.
	m.DragStart(0, 210, 100, 400, 200)
	assert.True(t, m.Dragging())
	m.DragMove(250, 150, 400, 200)
	p, _ := m.Selected()
	assert.InDelta(t, 60.0, p.Position.X, 1e-9)
	assert.InDelta(t, 75.0, p.Position.Y, 1e-9)

	m.DragMove(1000, -50, 400, 200)
	assert.Equal(t, document.Point{X: 100, Y: 0}, p.Position)

	m.DragEnd()
	m.DragMove(0, 0, 400, 200)
	assert.Equal(t, document.Point{X: 100, Y: 0}, p.Position)
}

func TestSettersAndReset(t *testing.T) {
	m := New("bag", nil)
	m.SetSize(50)
	m.Add("blob:a", nil)

	m.SetSize(45)
	m.SetRotation(90)
	m.SetPosition(120, -3)
	require.NoError(t, m.ApplyPreset(filter.PresetSoft))
	p, _ := m.Selected()
	assert.Equal(t, 45.0, p.Size)
	assert.Equal(t, 90.0, p.Rotation)
	assert.Equal(t, document.Point{X: 100, Y: 0}, p.Position)
	assert.Equal(t, 80.0, p.Filter.Saturation)

	assert.Error(t, m.ApplyPreset("sepia"))

	m.Reset()
	assert.Equal(t, 30.0, p.Size)
	assert.Equal(t, 0.0, p.Rotation)
	assert.Equal(t, document.Point{X: 50, Y: 50}, p.Position)
	assert.Equal(t, filter.Default(), p.Filter)
}

func TestCloseReleasesAll(t *testing.T) {
	rel := &releaser{}
	m := New("box", rel)
	m.Add("blob:a", nil)
	m.Add("blob:b", nil)
	m.Close()
	assert.ElementsMatch(t, []string{"blob:a", "blob:b"}, rel.refs)
	assert.Empty(t, m.Logos())
}

func TestComposePlacesLogo(t *testing.T) {
	m := New("box", nil)
	m.SetColor("#00ff00")
	m.Add("blob:a", logoImage(color.RGBA{R: 255, A: 255}))
	m.SetPosition(25, 50)

	out := m.Compose(nil, 200, 100)
	require.Equal(t, image.Rect(0, 0, 200, 100), out.Bounds())

	// Logo is 60px wide, 30px tall, centered at (50, 50).
	logo := out.RGBAAt(50, 50)
	assert.Greater(t, logo.R, uint8(200))
	assert.Less(t, logo.G, uint8(50))

	bg := out.RGBAAt(180, 10)
	assert.Equal(t, color.RGBA{G: 255, A: 255}, bg)
}

func TestStateSnapshot(t *testing.T) {
	m := New("cup", nil)
	m.Add("blob:a", nil)
	m.Add("blob:b", nil)
	require.NoError(t, m.ApplyPreset(filter.PresetGrayscale))
	m.DragStart(1, 10, 10, 100, 100)

	st := m.State()
	assert.Equal(t, "cup", st.Template.ID)
	assert.Equal(t, DefaultColor, st.Color)
	require.Len(t, st.Logos, 2)
	assert.Equal(t, 1, st.Selected)
	assert.True(t, st.Dragging)
	require.Len(t, st.FilterCSS, 2)
	assert.Equal(t, filter.Default().CSS(), st.FilterCSS[0])
	assert.Contains(t, st.FilterCSS[1], "saturate(0%)")
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(600, 600))
	assert.Error(t, CheckSize(0, 600))
	assert.Error(t, CheckSize(600, 5000))
}
