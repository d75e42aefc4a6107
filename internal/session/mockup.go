package session

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/brandkit/brandkit/backend-go/internal/asset"
	"github.com/brandkit/brandkit/backend-go/internal/export"
	"github.com/brandkit/brandkit/backend-go/internal/mockup"
)

// dispatchMockup handles the mockup.* messages. Every change is answered
// with a mockup.state snapshot.
func (s *Session) dispatchMockup(ctx context.Context, msg *Message) error {
	var err error
	switch msg.Type {
	case TypeMockupTemplate:
		err = s.handleMockupTemplate(msg)
	case TypeMockupColor:
		err = s.handleMockupColor(msg)
	case TypeMockupAddLogo:
		err = s.handleMockupAddLogo(ctx, msg)
	case TypeMockupSelect:
		err = s.handleMockupSelect(msg)
	case TypeMockupRemove:
		s.mockup.Remove()
	case TypeMockupUpdate:
		err = s.handleMockupUpdate(msg)
	case TypeMockupPreset:
		err = s.handleMockupPreset(msg)
	case TypeMockupReset:
		s.mockup.Reset()
	case TypeMockupDragStart, TypeMockupDragMove:
		err = s.handleMockupDrag(msg)
	case TypeMockupDragEnd:
		s.mockup.DragEnd()
	case TypeMockupCompose:
		err = s.handleMockupCompose(msg)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, msg.Type)
	}
	if err != nil {
		return err
	}
	s.sendMockupState()
	return errNoChange
}

func (s *Session) handleMockupTemplate(msg *Message) error {
	p, err := decode[MockupTemplatePayload](msg)
	if err != nil {
		return err
	}
	if err := s.mockup.SetTemplate(p.ID); err != nil {
		return fmt.Errorf("set template %q: %w", p.ID, err)
	}
	return nil
}

func (s *Session) handleMockupColor(msg *Message) error {
	p, err := decode[MockupColorPayload](msg)
	if err != nil {
		return err
	}
	s.mockup.SetColor(p.Color)
	return nil
}

// handleMockupAddLogo registers the upload and decodes it off the session
// goroutine. The logo is placed when the decode reports back.
func (s *Session) handleMockupAddLogo(ctx context.Context, msg *Message) error {
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
	s.logos[ref] = struct{}{}
	s.logger.Debug("decoding mockup logo", "ref", ref, "name", p.Name, "type", contentType)

	asset.DecodeAsync(ctx, ref, p.Data, func(res asset.Result) {
		select {
		case s.decoded <- res:
		case <-ctx.Done():
		}
	})
	return errNoChange
}

func (s *Session) handleLogoDecoded(res asset.Result) {
	delete(s.logos, res.Ref)
	if res.Err != nil {
		s.settings.Assets.Release(res.Ref)
		s.logger.Warn("mockup logo decode failed", "ref", res.Ref, "error", res.Err)
		s.out.Send(newMessage(TypeError, ErrorPayload{Message: asset.UserMessage(res.Err), Request: TypeMockupAddLogo}))
		return
	}
	s.mockup.Add(res.Ref, res.Image)
	s.sendMockupState()
}

func (s *Session) handleMockupSelect(msg *Message) error {
	p, err := decode[MockupSelectPayload](msg)
	if err != nil {
		return err
	}
	s.mockup.Select(p.Index)
	return nil
}

func (s *Session) handleMockupUpdate(msg *Message) error {
	p, err := decode[MockupUpdatePayload](msg)
	if err != nil {
		return err
	}
	if p.Size != nil {
		s.mockup.SetSize(*p.Size)
	}
	if p.Rotation != nil {
		s.mockup.SetRotation(*p.Rotation)
	}
	if p.Position != nil {
		s.mockup.SetPosition(p.Position.X, p.Position.Y)
	}
	if p.Filter != nil {
		s.mockup.SetFilter(*p.Filter)
	}
	return nil
}

func (s *Session) handleMockupPreset(msg *Message) error {
	p, err := decode[MockupPresetPayload](msg)
	if err != nil {
		return err
	}
	return s.mockup.ApplyPreset(p.Preset)
}

func (s *Session) handleMockupDrag(msg *Message) error {
	p, err := decode[MockupDragPayload](msg)
	if err != nil {
		return err
	}
	if msg.Type == TypeMockupDragStart {
		s.mockup.DragStart(p.Index, p.X, p.Y, p.Width, p.Height)
		return nil
	}
	if !s.mockup.Dragging() {
		return errNoChange
	}
	s.mockup.DragMove(p.X, p.Y, p.Width, p.Height)
	return nil
}

func (s *Session) handleMockupCompose(msg *Message) error {
	p, err := decode[MockupComposePayload](msg)
	if err != nil {
		return err
	}
	if err := mockup.CheckSize(p.Width, p.Height); err != nil {
		return err
	}

	img := s.mockup.Compose(mockup.LoadTemplateImage(s.settings.TemplateDir, s.mockup.Template()), int(p.Width), int(p.Height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode mockup: %w", err)
	}

	name := p.Name
	if name == "" {
		name = s.mockup.Template().ID + "-mockup"
	}
	res := newMessage(TypeExportResult, ExportResultPayload{
		FileName:    export.FileName(name, export.FormatPNG),
		ContentType: export.FormatPNG.ContentType(),
		Data:        buf.Bytes(),
	})
	res.Seq = msg.Seq
	s.out.Send(res)
	return errNoChange
}

func (s *Session) sendMockupState() {
	s.out.Send(newMessage(TypeMockupState, s.mockup.State()))
}

// closeMockup releases placed logos and uploads still decoding.
func (s *Session) closeMockup() {
	s.mockup.Close()
	for ref := range s.logos {
		s.settings.Assets.Release(ref)
		delete(s.logos, ref)
	}
}
