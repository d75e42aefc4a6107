package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/coder/websocket"
)

// Manager tracks live sessions so they can be counted and stopped together.
type Manager struct {
	settings Settings

	mu         sync.RWMutex
	sessions   map[string]*Session
	register   chan *Session
	unregister chan *Session
	quit       chan struct{}
	stopOnce   sync.Once
}

func NewManager(settings Settings) *Manager {
	if settings.Logger == nil {
		settings.Logger = slog.Default()
	}
	return &Manager{
		settings:   settings,
		sessions:   make(map[string]*Session),
		register:   make(chan *Session),
		unregister: make(chan *Session),
		quit:       make(chan struct{}),
	}
}

func (m *Manager) Run() {
	for {
		select {
		case s := <-m.register:
			m.mu.Lock()
			m.sessions[s.ID] = s
			n := len(m.sessions)
			m.mu.Unlock()
			m.settings.Logger.Info("session opened", "session", s.ID, "active", n)
		case s := <-m.unregister:
			m.mu.Lock()
			delete(m.sessions, s.ID)
			m.mu.Unlock()
		case <-m.quit:
			m.mu.RLock()
			for _, s := range m.sessions {
				s.Stop()
			}
			m.mu.RUnlock()
			return
		}
	}
}

// Stop ends every live session and the Run loop.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.quit) })
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Open creates a session that reports to out and registers it.
func (m *Manager) Open(out Sender) *Session {
	s := New(m.settings, out)
	select {
	case m.register <- s:
	case <-m.quit:
		s.Stop()
	}
	return s
}

// Close unregisters a finished session.
func (m *Manager) Close(s *Session) {
	select {
	case m.unregister <- s:
	case <-m.quit:
	}
}

// Serve runs one editing session over conn until either side goes away.
func (m *Manager) Serve(ctx context.Context, conn *websocket.Conn) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := NewClient(conn, m.settings.Logger)
	s := m.Open(client)
	defer m.Close(s)
	client.logger = client.logger.With("session", s.ID)

	go client.WritePump(ctx)
	go func() {
		client.ReadPump(ctx, s)
		cancel()
	}()

	s.Run(ctx)
}
