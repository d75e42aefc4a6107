package session

import (
	"encoding/json"

	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/engine"
	"github.com/brandkit/brandkit/backend-go/internal/filter"
	"github.com/brandkit/brandkit/backend-go/internal/render"
)

type Message struct {
	Type    string          `json:"type"`
	Seq     int64           `json:"seq,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server
	TypeObjectAdd     = "object.add"
	TypeObjectUpdate  = "object.update"
	TypeObjectDelete  = "object.delete"
	TypeObjectReorder = "object.reorder"
	TypeObjectSelect  = "object.select"
	TypeToolsSet      = "tools.set"
	TypeStylePreview  = "style.preview"
	TypeStyleCommit   = "style.commit"
	TypeGradientApply = "gradient.apply"
	TypeGradientClear = "gradient.clear"
	TypeHistoryCommit = "history.commit"
	TypeHistoryUndo   = "history.undo"
	TypeHistoryRedo   = "history.redo"
	TypePointerDown   = "pointer.down"
	TypePointerMove   = "pointer.move"
	TypePointerUp     = "pointer.up"
	TypePointerLeave  = "pointer.leave"
	TypeImageUpload   = "image.upload"
	TypeExportImage   = "export.image"

	TypeMockupTemplate  = "mockup.template"
	TypeMockupColor     = "mockup.color"
	TypeMockupAddLogo   = "mockup.logo.add"
	TypeMockupSelect    = "mockup.logo.select"
	TypeMockupRemove    = "mockup.logo.remove"
	TypeMockupUpdate    = "mockup.logo.update"
	TypeMockupPreset    = "mockup.logo.preset"
	TypeMockupReset     = "mockup.logo.reset"
	TypeMockupDragStart = "mockup.drag.start"
	TypeMockupDragMove  = "mockup.drag.move"
	TypeMockupDragEnd   = "mockup.drag.end"
	TypeMockupCompose   = "mockup.compose"

	// Server -> client
	TypeWelcome      = "welcome"
	TypeFrame        = "frame"
	TypeObjectAdded  = "object.added"
	TypeExportResult = "export.result"
	TypeMockupState  = "mockup.state"
	TypeError        = "error"
)

// AddPayload creates one object. Kind selects which of the other fields apply.
type AddPayload struct {
	Kind  document.Kind      `json:"kind"`
	Shape document.ShapeKind `json:"shape,omitempty"`
	Icon  document.IconKind  `json:"icon,omitempty"`
	Text  string             `json:"text,omitempty"`
	Font  document.Text      `json:"font"`
}

type UpdatePayload struct {
	ID    string       `json:"id"`
	Patch engine.Patch `json:"patch"`
}

type IDPayload struct {
	ID string `json:"id"`
}

type ReorderPayload struct {
	ID        string           `json:"id"`
	Direction engine.Direction `json:"direction"`
}

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type UploadPayload struct {
	Name string `json:"name"`
	Data []byte `json:"data"` // base64 in JSON
}

type ExportPayload struct {
	Name   string `json:"name"`
	Format string `json:"format"`
}

type MockupTemplatePayload struct {
	ID string `json:"id"`
}

type MockupColorPayload struct {
	Color string `json:"color"`
}

type MockupSelectPayload struct {
	Index int `json:"index"`
}

// MockupUpdatePayload edits the selected logo. Nil fields are left alone.
type MockupUpdatePayload struct {
	Size     *float64            `json:"size,omitempty"`
	Rotation *float64            `json:"rotation,omitempty"`
	Position *document.Point     `json:"position,omitempty"`
	Filter   *filter.ColorFilter `json:"filters,omitempty"`
}

type MockupPresetPayload struct {
	Preset filter.Preset `json:"preset"`
}

// MockupDragPayload carries a pointer position in pixels inside a container
// of Width x Height. Index is only read by drag start.
type MockupDragPayload struct {
	Index  int     `json:"index"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type MockupComposePayload struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

type FramePayload struct {
	Commands []render.DrawCommand `json:"commands"`
	Objects  document.Scene       `json:"objects"`
	Selected string               `json:"selected,omitempty"`
	CanUndo  bool                 `json:"canUndo"`
	CanRedo  bool                 `json:"canRedo"`
	Dragging bool                 `json:"dragging,omitempty"`
}

type ObjectAddedPayload struct {
	ID string `json:"id"`
}

type ExportResultPayload struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Data        []byte `json:"data"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Request string `json:"request,omitempty"`
}

func newMessage(typ string, payload any) *Message {
	msg := &Message{Type: typ}
	if payload != nil {
		data, _ := json.Marshal(payload)
		msg.Payload = data
	}
	return msg
}
