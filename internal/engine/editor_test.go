package engine

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandkit/brandkit/backend-go/internal/document"
)

// countingReleaser counts every call, repeats included.
type countingReleaser struct {
	calls map[string]int
}

func newCountingReleaser() *countingReleaser {
	return &countingReleaser{calls: map[string]int{}}
}

func (r *countingReleaser) Release(ref string) {
	r.calls[ref]++
}

func testImage(w, h int) image.Image {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestAddShapeDefaults(t *testing.T) {
	e := NewEditor()
	id := e.AddShape(document.ShapeCircle)

	obj, ok := e.Object(id)
	require.True(t, ok)
	assert.Equal(t, document.KindShape, obj.Kind)
	assert.Equal(t, document.ShapeCircle, obj.Shape)
	assert.Equal(t, 250.0, obj.X)
	assert.Equal(t, 250.0, obj.Y)
	assert.Equal(t, 100.0, obj.Width)
	assert.Equal(t, 100.0, obj.Height)
	assert.Equal(t, "#000000", obj.Fill)
	assert.Equal(t, 100.0, obj.Opacity)
	assert.Nil(t, obj.Gradient)
	assert.Equal(t, id, e.Selected())
	assert.Equal(t, 1, e.HistoryLen())

	line, _ := e.Object(e.AddShape(document.ShapeLine))
	assert.Equal(t, 10.0, line.Height)
}

func TestAddUsesToolOptions(t *testing.T) {
	e := NewEditor()
	tools := DefaultToolOptions()
	tools.Stroke = "#ff00ff"
	tools.StrokeWidth = 3
	tools.Opacity = 40
	tools.UseGradient = true
	e.SetTools(tools)

	obj, _ := e.Object(e.AddIcon(document.IconZap))
	assert.Equal(t, 80.0, obj.Width)
	assert.Equal(t, "#ff00ff", obj.Stroke)
	assert.Equal(t, 3.0, obj.StrokeWidth)
	assert.Equal(t, 40.0, obj.Opacity)
	require.NotNil(t, obj.Gradient)
	assert.Equal(t, []string{"#ff0000", "#0000ff"}, obj.Gradient.Colors)

	// The object's gradient does not alias the panel's.
	tools.Gradient.Colors[0] = "#00ff00"
	obj, _ = e.Object(obj.ID)
	assert.Equal(t, "#ff0000", obj.Gradient.Colors[0])
}

func TestAddText(t *testing.T) {
	e := NewEditor()

	_, err := e.AddText("   ", document.Text{})
	assert.ErrorIs(t, err, ErrEmptyText)
	assert.Empty(t, e.Objects())
	assert.Equal(t, 0, e.HistoryLen())

	id, err := e.AddText("Acme", document.Text{FontSize: 32, FontWeight: document.FontWeightBold})
	require.NoError(t, err)
	obj, _ := e.Object(id)
	assert.Equal(t, 200.0, obj.Width)
	assert.Equal(t, 32.0, obj.Height)
	assert.Equal(t, "Acme", obj.Text.Content)
	assert.Equal(t, "Arial", obj.Text.FontFamily)
	assert.Equal(t, document.FontWeightBold, obj.Text.FontWeight)
	assert.Equal(t, document.AlignCenter, obj.Text.Align)
}

func TestAddImagePreservesAspect(t *testing.T) {
	rel := newCountingReleaser()
	e := NewEditor(WithReleaser(rel))
	e.BeginImage("blob:1")
	id, err := e.CompleteImage("blob:1", testImage(300, 100), nil)
	require.NoError(t, err)

	obj, ok := e.Object(id)
	require.True(t, ok)
	assert.Equal(t, 150.0, obj.Width)
	assert.Equal(t, 50.0, obj.Height)
	assert.Equal(t, "transparent", obj.Fill)
	assert.Equal(t, "transparent", obj.Stroke)
	assert.Equal(t, "blob:1", obj.Image.SourceURL)
	assert.Empty(t, rel.calls)
}

func TestImageDecodeFailureReleases(t *testing.T) {
	rel := newCountingReleaser()
	e := NewEditor(WithReleaser(rel))
	e.BeginImage("blob:bad")

	boom := errors.New("boom")
	id, err := e.CompleteImage("blob:bad", nil, boom)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, id)
	assert.Empty(t, e.Objects())
	assert.Equal(t, 1, rel.calls["blob:bad"])
}

func TestLateDecodeAfterCloseIsNoop(t *testing.T) {
	rel := newCountingReleaser()
	e := NewEditor(WithReleaser(rel))
	e.BeginImage("blob:late")
	e.Close()
	assert.Equal(t, 1, rel.calls["blob:late"])

	id, err := e.CompleteImage("blob:late", testImage(10, 10), nil)
	assert.NoError(t, err)
	assert.Empty(t, id)
	assert.Empty(t, e.Objects())
}

func TestDeleteReleasesImageOnce(t *testing.T) {
	rel := newCountingReleaser()
	e := NewEditor(WithReleaser(rel))
	id := e.AddImage("blob:2", testImage(10, 10))

	e.Delete(id)
	e.Delete(id)
	assert.Equal(t, 1, rel.calls["blob:2"])
	assert.Empty(t, e.Objects())
	assert.Empty(t, e.Selected())
	assert.Equal(t, 2, e.HistoryLen())

	e.Close()
	assert.Equal(t, 1, rel.calls["blob:2"])
}

func TestDeleteUndoDeleteReleasesOnce(t *testing.T) {
	rel := newCountingReleaser()
	e := NewEditor(WithReleaser(rel))
	id := e.AddImage("blob:3", testImage(10, 10))

	e.Delete(id)
	require.True(t, e.Undo())
	require.Len(t, e.Objects(), 1)
	e.Delete(id)
	assert.Empty(t, e.Objects())
	assert.Equal(t, 1, rel.calls["blob:3"])

	e.Close()
	assert.Equal(t, 1, rel.calls["blob:3"])
}

func TestDeleteMissingIsNoop(t *testing.T) {
	e := NewEditor()
	e.AddShape(document.ShapeSquare)
	e.Delete("obj_missing")
	assert.Len(t, e.Objects(), 1)
	assert.Equal(t, 1, e.HistoryLen())
}

func TestReorder(t *testing.T) {
	e := NewEditor()
	a := e.AddShape(document.ShapeSquare)
	b := e.AddShape(document.ShapeCircle)
	c := e.AddShape(document.ShapeStar)
	ids := func() []string {
		var out []string
		for _, o := range e.Objects() {
			out = append(out, o.ID)
		}
		return out
	}

	e.Reorder(a, Up)
	e.Reorder(c, Down)
	assert.Equal(t, []string{a, b, c}, ids())
	assert.Equal(t, 3, e.HistoryLen())

	e.Reorder(b, Down)
	assert.Equal(t, []string{a, c, b}, ids())
	e.Reorder(b, Up)
	assert.Equal(t, []string{a, b, c}, ids())
	assert.Equal(t, 5, e.HistoryLen())

	e.Reorder("nope", Up)
	assert.Equal(t, 5, e.HistoryLen())
}

func TestUpdateDoesNotRecord(t *testing.T) {
	e := NewEditor()
	id := e.AddShape(document.ShapeSquare)
	rot := 45.0
	for range 10 {
		e.Update(id, Patch{Rotation: &rot})
	}
	obj, _ := e.Object(id)
	assert.Equal(t, 45.0, obj.Rotation)
	assert.Equal(t, 1, e.HistoryLen())

	e.Update("missing", Patch{Rotation: &rot})
}

func TestSelectMissingClears(t *testing.T) {
	e := NewEditor()
	id := e.AddShape(document.ShapeSquare)
	e.Select("nope")
	assert.Empty(t, e.Selected())
	e.Select(id)
	assert.Equal(t, id, e.Selected())
	assert.Equal(t, 1, e.HistoryLen())
}

func TestUndoDropsStaleSelection(t *testing.T) {
	e := NewEditor()
	e.AddShape(document.ShapeSquare)
	b := e.AddShape(document.ShapeCircle)
	require.Equal(t, b, e.Selected())

	require.True(t, e.Undo())
	assert.Len(t, e.Objects(), 1)
	assert.Empty(t, e.Selected())
}

func TestStylePreviewAndCommit(t *testing.T) {
	e := NewEditor()
	id := e.AddShape(document.ShapeSquare)

	e.PreviewStyle(document.LiveEdit{Fill: "#ff0000"})
	obj, _ := e.Object(id)
	assert.Equal(t, "#000000", obj.Fill)
	assert.True(t, e.Live().Active())
	assert.Equal(t, 1, e.HistoryLen())

	e.CommitStyle()
	obj, _ = e.Object(id)
	assert.Equal(t, "#ff0000", obj.Fill)
	assert.Nil(t, e.Live())
	assert.Equal(t, 2, e.HistoryLen())
}

func TestApplyGradientRecords(t *testing.T) {
	e := NewEditor()
	id := e.AddShape(document.ShapeHexagon)
	g := document.Gradient{Type: document.GradientRadial, Colors: []string{"red", "blue"}, Stops: []float64{0, 100}}

	e.ApplyGradient(g)
	obj, _ := e.Object(id)
	require.NotNil(t, obj.Gradient)
	assert.Equal(t, document.GradientRadial, obj.Gradient.Type)
	assert.Equal(t, 2, e.HistoryLen())

	e.ClearGradient()
	obj, _ = e.Object(id)
	assert.Nil(t, obj.Gradient)
	assert.Equal(t, 3, e.HistoryLen())
}

func TestCloseReleasesSceneAndHistory(t *testing.T) {
	rel := newCountingReleaser()
	e := NewEditor(WithReleaser(rel))
	e.AddImage("blob:a", testImage(4, 4))
	b := e.AddImage("blob:b", testImage(4, 4))
	e.Delete(b)
	require.True(t, e.Undo())

	e.Close()
	e.Close()
	assert.Equal(t, 1, rel.calls["blob:a"])
	assert.Equal(t, 1, rel.calls["blob:b"])

	assert.Empty(t, e.AddShape(document.ShapeSquare))
	e.AddImage("blob:c", testImage(4, 4))
	assert.Equal(t, 1, rel.calls["blob:c"])
}

func TestLoadReplacesSceneAndRecords(t *testing.T) {
	e := NewEditor()
	e.AddShape(document.ShapeSquare)

	sample := document.NewSampleScene()
	e.Load(sample)

	assert.Len(t, e.Objects(), len(sample))
	assert.Empty(t, e.Selected())
	assert.Equal(t, 2, e.HistoryLen())

	sample[0].Fill = "#123456"
	obj, _ := e.Object(sample[0].ID)
	assert.NotEqual(t, "#123456", obj.Fill)

	require.True(t, e.Undo())
	assert.Len(t, e.Objects(), 1)
}

func TestAddRejectsUnknownKinds(t *testing.T) {
	e := NewEditor()
	assert.Empty(t, e.AddShape("pentagon"))
	assert.Empty(t, e.AddShape(""))
	assert.Empty(t, e.AddIcon(""))
	assert.Empty(t, e.AddIcon("rocket"))
	assert.Empty(t, e.Objects())
	assert.Equal(t, 0, e.HistoryLen())
	assert.False(t, e.CanUndo())
}
