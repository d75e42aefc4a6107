package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/brandkit/brandkit/backend-go/internal/asset"
	"github.com/brandkit/brandkit/backend-go/internal/document"
	"github.com/brandkit/brandkit/backend-go/internal/engine"
	"github.com/brandkit/brandkit/backend-go/internal/export"
	"github.com/brandkit/brandkit/backend-go/internal/mockup"
	"github.com/brandkit/brandkit/backend-go/internal/render"
	"github.com/brandkit/brandkit/backend-go/internal/typeid"
)

const inboxSize = 64

// Sender delivers server messages to a connected client.
type Sender interface {
	Send(msg *Message)
}

// Settings are shared by every session a Manager opens.
type Settings struct {
	Width    int
	Height   int
	Renderer *render.Renderer
	Exporter *export.Exporter
	Assets   *asset.Registry
	Measure  render.MeasureFunc
	Logger   *slog.Logger

	// TemplateDir holds the packaging template artwork used by mockup.compose.
	TemplateDir string
}

// Session is one editing session. A single goroutine (Run) owns the editor;
// everything else talks to it through channels.
type Session struct {
	ID string

	settings Settings
	editor   *engine.Editor
	mockup   *mockup.Mockup
	out      Sender
	logger   *slog.Logger

	inbox   chan *Message
	decoded chan asset.Result
	done    chan struct{}
	stop    chan struct{}
	once    sync.Once

	// logos are upload refs still decoding for the mockup.
	logos map[string]struct{}
}

func New(settings Settings, out Sender) *Session {
	if settings.Logger == nil {
		settings.Logger = slog.Default()
	}
	if settings.Measure == nil {
		settings.Measure = render.ApproxMeasure
	}
	id := typeid.NewSessionID()
	logger := settings.Logger.With("session", id)

	opts := []engine.Option{
		engine.WithDefaults(document.DefaultStyle.ForCanvas(settings.Width, settings.Height)),
		engine.WithLogger(logger),
	}
	var logoAssets mockup.Releaser
	if settings.Assets != nil {
		opts = append(opts, engine.WithReleaser(settings.Assets))
		logoAssets = settings.Assets
	}

	return &Session{
		ID:       id,
		settings: settings,
		editor:   engine.NewEditor(opts...),
		mockup:   mockup.New("", logoAssets),
		out:      out,
		logger:   logger,
		inbox:    make(chan *Message, inboxSize),
		decoded:  make(chan asset.Result, 4),
		done:     make(chan struct{}),
		stop:     make(chan struct{}),
		logos:    make(map[string]struct{}),
	}
}

// Submit queues a client message. It drops the message once the session has
// stopped.
func (s *Session) Submit(msg *Message) {
	select {
	case s.inbox <- msg:
	case <-s.done:
	}
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

// Stop ends Run if it is still going.
func (s *Session) Stop() {
	s.once.Do(func() { close(s.stop) })
}

// Run processes messages until ctx is cancelled, then releases every image
// and mockup logo the session still holds.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		s.editor.Close()
		s.closeMockup()
		close(s.done)
		s.logger.Info("session closed")
	}()

	s.out.Send(newMessage(TypeWelcome, WelcomePayload{
		SessionID: s.ID,
		Width:     s.settings.Width,
		Height:    s.settings.Height,
	}))
	s.sendFrame()

	for {
		select {
		case msg := <-s.inbox:
			s.dispatch(ctx, msg)
		case res := <-s.decoded:
			if _, ok := s.logos[res.Ref]; ok {
				s.handleLogoDecoded(res)
				continue
			}
			s.handleDecoded(res)
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *Session) currentFrame() render.Frame {
	return render.Frame{
		Objects:  s.editor.Objects(),
		Selected: s.editor.Selected(),
		Live:     s.editor.Live(),
	}
}

func (s *Session) sendFrame() {
	frame := s.currentFrame()
	rec := render.NewRecorder(s.settings.Width, s.settings.Height, s.settings.Measure)
	s.settings.Renderer.Render(rec, frame)

	s.out.Send(newMessage(TypeFrame, FramePayload{
		Commands: rec.Commands(),
		Objects:  frame.Objects,
		Selected: frame.Selected,
		CanUndo:  s.editor.CanUndo(),
		CanRedo:  s.editor.CanRedo(),
		Dragging: s.editor.Dragging(),
	}))
}

func (s *Session) sendError(req *Message, text string) {
	msg := newMessage(TypeError, ErrorPayload{Message: text, Request: req.Type})
	msg.Seq = req.Seq
	s.out.Send(msg)
}
