package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	app_errors "github.com/amital-ui/aichat/internal/errors"
	"github.com/amital-ui/aichat/internal/model"
	"github.com/amital-ui/aichat/internal/panel"
	"github.com/amital-ui/aichat/internal/transport"
	"github.com/amital-ui/aichat/internal/widget"
)

// SessionManager owns the live widget engines, one per connected
// client session. Sessions live in memory only; closing one tears the
// engine down and releases any held document handle.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*widget.Engine

	transport transport.ChatTransport
	fetcher   panel.BlobFetcher
	settings  *SettingsService
	errorTTL  time.Duration
}

func NewSessionManager(ct transport.ChatTransport, fetcher panel.BlobFetcher, settings *SettingsService, errorTTL time.Duration) *SessionManager {
	return &SessionManager{
		sessions:  make(map[string]*widget.Engine),
		transport: ct,
		fetcher:   fetcher,
		settings:  settings,
		errorTTL:  errorTTL,
	}
}

// Create builds a new widget engine configured from the stored
// settings and registers it under a fresh session ID.
func (m *SessionManager) Create(ctx context.Context) (string, *widget.Engine, error) {
	s, err := m.settings.Get(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("could not load widget settings: %w", err)
	}

	id := uuid.NewString()
	opts := widget.Options{
		EnableStreaming: s.EnableStreaming,
		ShowCitations:   s.ShowCitations,
		UseRAG:          s.UseRAGByDefault,
		ErrorTTL:        m.errorTTL,
	}
	hooks := widget.Hooks{
		OnMessageSent: func(msg model.Message) {
			slog.Debug("Message sent", "session_id", id, "message_id", msg.ID)
		},
		OnMessageReceived: func(msg model.Message) {
			slog.Debug("Message received", "session_id", id, "message_id", msg.ID, "citations", len(msg.Citations))
		},
		OnError: func(err error) {
			slog.Warn("Widget error", "session_id", id, "error", err)
		},
		OnCitationClicked: func(c model.Citation) {
			slog.Debug("Citation clicked", "session_id", id, "citation_id", c.CitationID)
		},
	}

	engine := widget.New(m.transport, m.fetcher, opts, hooks)

	m.mu.Lock()
	m.sessions[id] = engine
	m.mu.Unlock()

	slog.Info("Created widget session", "session_id", id)
	return id, engine, nil
}

// Get returns the engine for a session ID.
func (m *SessionManager) Get(id string) (*widget.Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	engine, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: session '%s'", app_errors.ErrNotFound, id)
	}
	return engine, nil
}

// Close tears down a session's engine and removes it.
func (m *SessionManager) Close(id string) error {
	m.mu.Lock()
	engine, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: session '%s'", app_errors.ErrNotFound, id)
	}

	engine.Close()
	slog.Info("Closed widget session", "session_id", id)
	return nil
}

// CloseAll tears down every session. Called on shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*widget.Engine)
	m.mu.Unlock()

	for id, engine := range sessions {
		engine.Close()
		slog.Debug("Closed widget session", "session_id", id)
	}
}

// Count reports how many sessions are live.
func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
