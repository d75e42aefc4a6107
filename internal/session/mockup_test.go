package session

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/filter"
	"github.com/brandkit/brandkit/backend-go/internal/mockup"
)

func (h *harness) mockupState() mockup.State {
	h.t.Helper()
	var st mockup.State
	require.NoError(h.t, json.Unmarshal(h.expect(TypeMockupState).Payload, &st))
	return st
}

func ptr[T any](v T) *T { return &v }

func TestMockupLogoLifecycle(t *testing.T) {
	h := startSession(t)

	h.submit(TypeMockupAddLogo, UploadPayload{Name: "logo.png", Data: pngBytes(t, 40, 20)})
	st := h.mockupState()
	require.Len(t, st.Logos, 1)
	assert.Equal(t, 0, st.Selected)
	assert.Equal(t, mockup.DefaultSize, st.Logos[0].Size)
	assert.Equal(t, 1, h.assets.Live())

	h.submit(TypeMockupUpdate, MockupUpdatePayload{
		Size:     ptr(45.0),
		Rotation: ptr(90.0),
		Filter:   &filter.ColorFilter{Brightness: 150, Contrast: 100, Saturation: 100},
	})
	st = h.mockupState()
	assert.Equal(t, 45.0, st.Logos[0].Size)
	assert.Equal(t, 90.0, st.Logos[0].Rotation)
	assert.Contains(t, st.FilterCSS[0], "brightness(150%)")

	h.submit(TypeMockupPreset, MockupPresetPayload{Preset: filter.PresetGrayscale})
	st = h.mockupState()
	assert.Equal(t, 0.0, st.Logos[0].Filter.Saturation)

	h.submit(TypeMockupDragStart, MockupDragPayload{Index: 0, X: 250, Y: 250, Width: 500, Height: 500})
	assert.True(t, h.mockupState().Dragging)
	h.submit(TypeMockupDragMove, MockupDragPayload{X: 300, Y: 250, Width: 500, Height: 500})
	st = h.mockupState()
	assert.Equal(t, document.Point{X: 60, Y: 50}, st.Logos[0].Position)
	h.submit(TypeMockupDragEnd, nil)
	assert.False(t, h.mockupState().Dragging)

	h.submit(TypeMockupReset, nil)
	st = h.mockupState()
	assert.Equal(t, document.Point{X: 50, Y: 50}, st.Logos[0].Position)
	assert.Equal(t, filter.Default(), st.Logos[0].Filter)

	h.submit(TypeMockupRemove, nil)
	st = h.mockupState()
	assert.Empty(t, st.Logos)
	assert.Equal(t, -1, st.Selected)
	assert.Equal(t, 0, h.assets.Live())
}

func TestMockupTemplateAndCompose(t *testing.T) {
	h := startSession(t)

	h.submit(TypeMockupTemplate, MockupTemplatePayload{ID: "cup"})
	assert.Equal(t, "cup", h.mockupState().Template.ID)

	h.submit(TypeMockupTemplate, MockupTemplatePayload{ID: "spaceship"})
	assert.Contains(t, h.errorText(), mockup.ErrUnknownTemplate.Error())

	h.submit(TypeMockupColor, MockupColorPayload{Color: "#112233"})
	assert.Equal(t, "#112233", h.mockupState().Color)

	h.submit(TypeMockupCompose, MockupComposePayload{Width: 0, Height: 80})
	assert.Contains(t, h.errorText(), "out of range")

	h.submit(TypeMockupCompose, MockupComposePayload{Width: 100, Height: 80})
	var res ExportResultPayload
	require.NoError(t, json.Unmarshal(h.expect(TypeExportResult).Payload, &res))
	assert.Equal(t, "cup-mockup.png", res.FileName)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("\x89PNG")))
}

func TestMockupRejectsNonImageLogo(t *testing.T) {
	h := startSession(t)
	h.submit(TypeMockupAddLogo, UploadPayload{Name: "notes.txt", Data: []byte("hello world")})
	assert.Equal(t, "Please select an image file", h.errorText())
	assert.Equal(t, 0, h.assets.Live())
}

func TestMockupLogosReleasedOnClose(t *testing.T) {
	h := startSession(t)
	h.submit(TypeMockupAddLogo, UploadPayload{Name: "a.png", Data: pngBytes(t, 10, 10)})
	h.mockupState()
	h.submit(TypeImageUpload, UploadPayload{Name: "b.png", Data: pngBytes(t, 10, 10)})
	h.expect(TypeObjectAdded)
	assert.Equal(t, 2, h.assets.Live())

	h.cancel()
	<-h.s.Done()
	assert.Equal(t, 0, h.assets.Live())
	assert.Equal(t, 2, h.assets.Released())
}
