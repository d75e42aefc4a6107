package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/brandkit/brandkit/backend-go/internal/asset"
	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/engine"
	"github.com/brandkit/brandkit/backend-go/internal/export"
)

var ErrUnknownCommand = errors.New("unknown message type")

// errNoChange marks handlers that left the scene untouched, so no frame is
// sent back.
var errNoChange = errors.New("no change")

func decode[T any](msg *Message) (T, error) {
	var v T
	if len(msg.Payload) == 0 {
		return v, fmt.Errorf("missing payload for %s", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("invalid %s payload: %w", msg.Type, err)
	}
	return v, nil
}

func (s *Session) dispatch(ctx context.Context, msg *Message) {
	var err error
	switch msg.Type {
	case TypeObjectAdd:
		err = s.handleAdd(msg)
	case TypeObjectUpdate:
		err = s.handleUpdate(msg)
	case TypeObjectDelete:
		err = s.handleDelete(msg)
	case TypeObjectReorder:
		err = s.handleReorder(msg)
	case TypeObjectSelect:
		err = s.handleSelect(msg)
	case TypeToolsSet:
		err = s.handleTools(msg)
	case TypeStylePreview:
		err = s.handleStylePreview(msg)
	case TypeStyleCommit:
		s.editor.CommitStyle()
	case TypeGradientApply:
		err = s.handleGradient(msg)
	case TypeGradientClear:
		s.editor.ClearGradient()
	case TypeHistoryCommit:
		s.editor.Commit()
	case TypeHistoryUndo:
		s.editor.Undo()
	case TypeHistoryRedo:
		s.editor.Redo()
	case TypePointerDown, TypePointerMove:
		err = s.handlePointer(msg)
	case TypePointerUp:
		s.editor.PointerUp()
	case TypePointerLeave:
		s.editor.PointerLeave()
	case TypeImageUpload:
		err = s.handleUpload(ctx, msg)
	case TypeExportImage:
		err = s.handleExport(msg)
	case TypeMockupTemplate, TypeMockupColor, TypeMockupAddLogo, TypeMockupSelect,
		TypeMockupRemove, TypeMockupUpdate, TypeMockupPreset, TypeMockupReset,
		TypeMockupDragStart, TypeMockupDragMove, TypeMockupDragEnd, TypeMockupCompose:
		err = s.dispatchMockup(ctx, msg)
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownCommand, msg.Type)
	}

	switch {
	case errors.Is(err, errNoChange):
	case err != nil:
		s.logger.Warn("handle message", "type", msg.Type, "error", err)
		s.sendError(msg, err.Error())
	default:
		s.sendFrame()
	}
}

func (s *Session) handleAdd(msg *Message) error {
	p, err := decode[AddPayload](msg)
	if err != nil {
		return err
	}

	var id string
	switch p.Kind {
	case document.KindShape:
		if !p.Shape.Valid() {
			return fmt.Errorf("unknown shape %q", p.Shape)
		}
		id = s.editor.AddShape(p.Shape)
	case document.KindIcon:
		if !p.Icon.Valid() {
			return fmt.Errorf("unknown icon %q", p.Icon)
		}
		id = s.editor.AddIcon(p.Icon)
	case document.KindText:
		id, err = s.editor.AddText(p.Text, p.Font)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot add object of kind %q", p.Kind)
	}

	added := newMessage(TypeObjectAdded, ObjectAddedPayload{ID: id})
	added.Seq = msg.Seq
	s.out.Send(added)
	return nil
}

func (s *Session) handleUpdate(msg *Message) error {
	p, err := decode[UpdatePayload](msg)
	if err != nil {
		return err
	}
	s.editor.Update(p.ID, p.Patch)
	return nil
}

func (s *Session) handleDelete(msg *Message) error {
	p, err := decode[IDPayload](msg)
	if err != nil {
		return err
	}
	s.editor.Delete(p.ID)
	return nil
}

func (s *Session) handleReorder(msg *Message) error {
	p, err := decode[ReorderPayload](msg)
	if err != nil {
		return err
	}
	if p.Direction != engine.Up && p.Direction != engine.Down {
		return fmt.Errorf("invalid direction %q", p.Direction)
	}
	s.editor.Reorder(p.ID, p.Direction)
	return nil
}

func (s *Session) handleSelect(msg *Message) error {
	p, err := decode[IDPayload](msg)
	if err != nil {
		return err
	}
	s.editor.Select(p.ID)
	return nil
}

func (s *Session) handleTools(msg *Message) error {
	p, err := decode[engine.ToolOptions](msg)
	if err != nil {
		return err
	}
	s.editor.SetTools(p)
	return errNoChange
}

func (s *Session) handleStylePreview(msg *Message) error {
	p, err := decode[document.LiveEdit](msg)
	if err != nil {
		return err
	}
	s.editor.PreviewStyle(p)
	return nil
}

func (s *Session) handleGradient(msg *Message) error {
	p, err := decode[document.Gradient](msg)
	if err != nil {
		return err
	}
	s.editor.ApplyGradient(p)
	return nil
}

func (s *Session) handlePointer(msg *Message) error {
	p, err := decode[PointerPayload](msg)
	if err != nil {
		return err
	}
	if msg.Type == TypePointerDown {
		s.editor.PointerDown(p.X, p.Y)
		return nil
	}
	if !s.editor.Dragging() {
		return errNoChange
	}
	s.editor.PointerMove(p.X, p.Y)
	return nil
}

// handleUpload validates the bytes, registers a reference and starts an
// asynchronous decode. The object is added when the decode reports back.
func (s *Session) handleUpload(ctx context.Context, msg *Message) error {
	p, err := decode[UploadPayload](msg)
	if err != nil {
		return err
	}
	contentType, err := asset.Validate(p.Data)
	if err != nil {
		s.sendError(msg, asset.UserMessage(err))
		return errNoChange
	}
	if s.settings.Assets == nil {
		return fmt.Errorf("image uploads are not available")
	}

	ref := s.settings.Assets.Create(p.Data, contentType)
	s.editor.BeginImage(ref)
	s.logger.Debug("decoding upload", "ref", ref, "name", p.Name, "type", contentType)

	asset.DecodeAsync(ctx, ref, p.Data, func(res asset.Result) {
		select {
		case s.decoded <- res:
		case <-ctx.Done():
		}
	})
	return errNoChange
}

func (s *Session) handleDecoded(res asset.Result) {
	id, err := s.editor.CompleteImage(res.Ref, res.Image, res.Err)
	if err != nil {
		s.logger.Warn("image decode failed", "ref", res.Ref, "error", err)
		s.out.Send(newMessage(TypeError, ErrorPayload{Message: asset.UserMessage(err), Request: TypeImageUpload}))
		return
	}
	if id == "" {
		return
	}
	s.out.Send(newMessage(TypeObjectAdded, ObjectAddedPayload{ID: id}))
	s.sendFrame()
}

func (s *Session) handleExport(msg *Message) error {
	p, err := decode[ExportPayload](msg)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(p.Format)
	if err != nil {
		return err
	}
	if s.settings.Exporter == nil {
		return fmt.Errorf("export is not available")
	}

	data, err := s.settings.Exporter.Bytes(s.currentFrame(), format)
	if err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	res := newMessage(TypeExportResult, ExportResultPayload{
		FileName:    export.FileName(p.Name, format),
		ContentType: format.ContentType(),
		Data:        data,
	})
	res.Seq = msg.Seq
	s.out.Send(res)
	return errNoChange
}
