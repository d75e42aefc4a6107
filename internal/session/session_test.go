package session

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandkit/brandkit/backend-go/internal/asset"
	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/engine"
	"github.com/brandkit/brandkit/backend-go/internal/export"
	"github.com/brandkit/brandkit/backend-go/internal/render"
)

type captureSender struct {
	ch chan *Message
}

func (c *captureSender) Send(msg *Message) { c.ch <- msg }

type harness struct {
	t      *testing.T
	s      *Session
	out    *captureSender
	assets *asset.Registry
	cancel context.CancelFunc
}

func startSession(t *testing.T) *harness {
	t.Helper()
	renderer := render.NewRenderer("")
	assets := asset.NewRegistry()
	out := &captureSender{ch: make(chan *Message, 128)}
	s := New(Settings{
		Width:    500,
		Height:   500,
		Renderer: renderer,
		Exporter: export.NewExporter(500, 500, renderer, 90),
		Assets:   assets,
	}, out)

	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})

	h := &harness{t: t, s: s, out: out, assets: assets, cancel: cancel}
	h.expect(TypeWelcome)
	h.expect(TypeFrame)
	return h
}

func (h *harness) submit(typ string, payload any) {
	h.t.Helper()
	h.s.Submit(newMessage(typ, payload))
}

// expect skips messages until one of type typ arrives.
func (h *harness) expect(typ string) *Message {
	h.t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-h.out.ch:
			if msg.Type == typ {
				return msg
			}
		case <-timeout:
			h.t.Fatalf("timed out waiting for %s", typ)
			return nil
		}
	}
}

func (h *harness) frame() FramePayload {
	h.t.Helper()
	var f FramePayload
	require.NoError(h.t, json.Unmarshal(h.expect(TypeFrame).Payload, &f))
	return f
}

func (h *harness) errorText() string {
	h.t.Helper()
	var e ErrorPayload
	require.NoError(h.t, json.Unmarshal(h.expect(TypeError).Payload, &e))
	return e.Message
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestWelcomeCarriesCanvasSize(t *testing.T) {
	out := &captureSender{ch: make(chan *Message, 8)}
	s := New(Settings{Width: 640, Height: 480, Renderer: render.NewRenderer("")}, out)
	ctx, cancel := context.WithCancel(context.Background())
	go s.Run(ctx)
	defer func() {
		cancel()
		<-s.Done()
	}()

	msg := <-out.ch
	require.Equal(t, TypeWelcome, msg.Type)
	var w WelcomePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &w))
	assert.Equal(t, s.ID, w.SessionID)
	assert.Equal(t, 640, w.Width)
	assert.Equal(t, 480, w.Height)

	first := <-out.ch
	require.Equal(t, TypeFrame, first.Type)
	var f FramePayload
	require.NoError(t, json.Unmarshal(first.Payload, &f))
	require.NotEmpty(t, f.Commands)
	assert.Equal(t, "clear", f.Commands[0].Op)
	assert.Empty(t, f.Objects)
}

func TestAddUndoRedo(t *testing.T) {
	h := startSession(t)

	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindShape, Shape: document.ShapeStar})
	var added ObjectAddedPayload
	require.NoError(t, json.Unmarshal(h.expect(TypeObjectAdded).Payload, &added))

	f := h.frame()
	require.Len(t, f.Objects, 1)
	assert.Equal(t, added.ID, f.Objects[0].ID)
	assert.Equal(t, added.ID, f.Selected)
	assert.False(t, f.CanUndo, "first entry is the undo floor")
	assert.False(t, f.CanRedo)

	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindText, Text: "ACME"})
	h.expect(TypeObjectAdded)
	f = h.frame()
	assert.Len(t, f.Objects, 2)
	assert.True(t, f.CanUndo)

	h.submit(TypeHistoryUndo, nil)
	f = h.frame()
	assert.Len(t, f.Objects, 1)
	assert.True(t, f.CanRedo)

	h.submit(TypeHistoryRedo, nil)
	assert.Len(t, h.frame().Objects, 2)
}

func TestAddEmptyTextIsRejected(t *testing.T) {
	h := startSession(t)
	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindText, Text: "   "})
	assert.Equal(t, engine.ErrEmptyText.Error(), h.errorText())
}

func TestAddUnknownKindIsRejected(t *testing.T) {
	h := startSession(t)

	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindShape, Shape: "pentagon"})
	assert.Contains(t, h.errorText(), `unknown shape "pentagon"`)

	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindIcon})
	assert.Contains(t, h.errorText(), "unknown icon")

	h.submit(TypeHistoryCommit, nil)
	f := h.frame()
	assert.Empty(t, f.Objects)
}

func TestBadMessagesReportErrors(t *testing.T) {
	h := startSession(t)

	h.s.Submit(&Message{Type: "object.explode"})
	assert.Contains(t, h.errorText(), ErrUnknownCommand.Error())

	h.s.Submit(&Message{Type: TypeObjectUpdate})
	assert.Contains(t, h.errorText(), "missing payload")

	h.s.Submit(&Message{Type: TypeObjectReorder, Payload: json.RawMessage(`{"id":"x","direction":"sideways"}`)})
	assert.Contains(t, h.errorText(), "invalid direction")
}

func TestPointerDrag(t *testing.T) {
	h := startSession(t)
	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindShape, Shape: document.ShapeSquare})
	h.frame()

	h.submit(TypePointerDown, PointerPayload{X: 260, Y: 260})
	f := h.frame()
	assert.True(t, f.Dragging)

	h.submit(TypePointerMove, PointerPayload{X: 300, Y: 280})
	f = h.frame()
	require.Len(t, f.Objects, 1)
	assert.Equal(t, 290.0, f.Objects[0].X)
	assert.Equal(t, 270.0, f.Objects[0].Y)

	h.submit(TypePointerUp, nil)
	f = h.frame()
	assert.False(t, f.Dragging)

	h.submit(TypeHistoryUndo, nil)
	f = h.frame()
	assert.Equal(t, 250.0, f.Objects[0].X)
}

func TestStylePreviewAndCommit(t *testing.T) {
	h := startSession(t)
	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindShape, Shape: document.ShapeCircle})
	h.frame()

	h.submit(TypeStylePreview, document.LiveEdit{Fill: "#00ff00"})
	f := h.frame()
	assert.Equal(t, "#000000", f.Objects[0].Fill)

	h.submit(TypeStyleCommit, nil)
	f = h.frame()
	assert.Equal(t, "#00ff00", f.Objects[0].Fill)
}

func TestUploadAddsImage(t *testing.T) {
	h := startSession(t)

	h.submit(TypeImageUpload, UploadPayload{Name: "logo.png", Data: pngBytes(t, 300, 150)})
	h.expect(TypeObjectAdded)
	f := h.frame()
	require.Len(t, f.Objects, 1)
	obj := f.Objects[0]
	assert.Equal(t, document.KindImage, obj.Kind)
	assert.Equal(t, 150.0, obj.Width)
	assert.Equal(t, 75.0, obj.Height)
	assert.Equal(t, 1, h.assets.Live())

	h.cancel()
	<-h.s.Done()
	assert.Equal(t, 0, h.assets.Live())
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := startSession(t)
	h.submit(TypeImageUpload, UploadPayload{Name: "notes.txt", Data: []byte("hello world")})
	assert.Equal(t, "Please select an image file", h.errorText())
	assert.Equal(t, 0, h.assets.Live())
}

func TestExport(t *testing.T) {
	h := startSession(t)
	h.submit(TypeObjectAdd, AddPayload{Kind: document.KindShape, Shape: document.ShapeCircle})
	h.frame()

	h.submit(TypeExportImage, ExportPayload{Name: "My Logo", Format: "png"})
	var res ExportResultPayload
	require.NoError(t, json.Unmarshal(h.expect(TypeExportResult).Payload, &res))
	assert.Equal(t, "my-logo.png", res.FileName)
	assert.Equal(t, "image/png", res.ContentType)
	assert.True(t, bytes.HasPrefix(res.Data, []byte("\x89PNG")))

	h.submit(TypeExportImage, ExportPayload{Format: "svg"})
	assert.Contains(t, h.errorText(), "not implemented")
}

func TestManagerTracksSessions(t *testing.T) {
	m := NewManager(Settings{Width: 100, Height: 100, Renderer: render.NewRenderer("")})
	go m.Run()

	out := &captureSender{ch: make(chan *Message, 16)}
	s := m.Open(out)
	go s.Run(context.Background())
	assert.Eventually(t, func() bool { return m.Count() == 1 }, time.Second, 10*time.Millisecond)

	m.Stop()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop")
	}
}
