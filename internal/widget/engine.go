// Package widget composes the conversation store, the streaming merge
// engine, the citation panel, and the chat transport into one embeddable
// chat engine. One Engine backs one widget session.
package widget

import (
	"context"
	"html/template"
	"sync"
	"time"

	"github.com/amital-ui/aichat/internal/citation"
	"github.com/amital-ui/aichat/internal/conversation"
	"github.com/amital-ui/aichat/internal/markup"
	"github.com/amital-ui/aichat/internal/model"
	"github.com/amital-ui/aichat/internal/panel"
	"github.com/amital-ui/aichat/internal/transport"
)

const (
	defaultTitle    = "AI Chat"
	defaultErrorTTL = 5 * time.Second
)

// Options configures one engine instance.
type Options struct {
	Title           string
	EnableStreaming bool
	ShowCitations   bool
	UseRAG          bool
	// ErrorTTL is how long a user-visible error message stays before it
	// auto-clears.
	ErrorTTL time.Duration
}

// Hooks are optional callbacks fired on engine events. Nil funcs are
// skipped.
type Hooks struct {
	OnMessageSent     func(model.Message)
	OnMessageReceived func(model.Message)
	OnError           func(error)
	OnCitationClicked func(model.Citation)
}

// Update is one incremental notification pushed while a send is in
// flight: a content fragment, a citation list replacement, the final
// rendered message, or an error.
type Update struct {
	MessageID string           `json:"message_id"`
	Content   string           `json:"content,omitempty"`
	HTML      template.HTML    `json:"html,omitempty"`
	Citations []model.Citation `json:"citations,omitempty"`
	Done      bool             `json:"done,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// RenderedMessage is a message plus its sanitized HTML rendering.
type RenderedMessage struct {
	model.Message
	HTML template.HTML `json:"html"`
}

// Engine owns the live conversation and panel state for one session.
type Engine struct {
	opts      Options
	hooks     Hooks
	store     *conversation.Store
	panel     *panel.Panel
	transport transport.ChatTransport

	mu           sync.Mutex
	loading      bool
	closed       bool
	errMsg       string
	errTimer     *time.Timer
	errGen       uint64
	streamCancel context.CancelFunc
}

// New builds an engine with a fresh conversation and a closed panel.
func New(ct transport.ChatTransport, fetcher panel.BlobFetcher, opts Options, hooks Hooks) *Engine {
	if opts.Title == "" {
		opts.Title = defaultTitle
	}
	if opts.ErrorTTL <= 0 {
		opts.ErrorTTL = defaultErrorTTL
	}

	store := conversation.NewStore(opts.Title)
	e := &Engine{
		opts:      opts,
		hooks:     hooks,
		store:     store,
		panel:     panel.New(fetcher, store.Index),
		transport: ct,
	}
	// Clearing the conversation also drops any panel selection.
	store.SetOnClear(e.panel.Close)
	return e
}

// Panel exposes the citation sidebar state machine.
func (e *Engine) Panel() *panel.Panel {
	return e.panel
}

// Conversation returns a snapshot of the live conversation.
func (e *Engine) Conversation() model.Conversation {
	return e.store.Conversation()
}

// Messages returns an independent snapshot of the message list.
func (e *Engine) Messages() []model.Message {
	return e.store.Messages()
}

// RenderedMessages returns the conversation with each message's
// sanitized HTML rendering attached.
func (e *Engine) RenderedMessages() []RenderedMessage {
	messages := e.store.Messages()
	out := make([]RenderedMessage, len(messages))
	for i, m := range messages {
		out[i] = RenderedMessage{Message: m, HTML: e.renderHTML(m)}
	}
	return out
}

// IsLoading reports whether a chat request is in flight.
func (e *Engine) IsLoading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// ErrorMessage returns the current user-visible error, if any.
func (e *Engine) ErrorMessage() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.errMsg
}

// ClickCitation resolves an inline marker click on a message back to its
// citation, emits the citation-clicked event, and drives the panel to
// the document view. It reports false for unknown labels.
func (e *Engine) ClickCitation(ctx context.Context, messageID, label string) (model.Citation, bool) {
	var clicked model.Citation
	found := false
	for _, m := range e.store.Messages() {
		if m.ID == messageID {
			clicked, found = markup.ResolveLabel(m.Citations, label)
			break
		}
	}
	if !found {
		return model.Citation{}, false
	}
	e.SelectCitation(ctx, clicked)
	return clicked, true
}

// Citation looks up a citation by its position in the conversation: the
// 1-based ordinal of the assistant message it belongs to plus its label.
func (e *Engine) Citation(ordinal int, label string) (model.Citation, bool) {
	return e.store.Index().Lookup(citation.Key{Ordinal: ordinal, Label: label})
}

// SelectCitation emits the citation-clicked event and selects the
// citation in the panel, fetching its document.
func (e *Engine) SelectCitation(ctx context.Context, c model.Citation) {
	if e.hooks.OnCitationClicked != nil {
		e.hooks.OnCitationClicked(c)
	}
	e.panel.Select(ctx, c)
}

// Clear discards the conversation, any error message, and the panel
// selection, and starts a fresh empty conversation.
func (e *Engine) Clear() {
	e.mu.Lock()
	e.clearErrorLocked()
	e.mu.Unlock()
	e.store.Clear()
}

// Close tears the engine down: the in-flight stream subscription is
// severed, the error timer cancelled, and panel resources released. The
// engine accepts no further sends.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	cancel := e.streamCancel
	e.clearErrorLocked()
	e.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	e.panel.Teardown()
}

// setErrorMessage records a user-visible error that auto-clears after
// the configured TTL. A newer error supersedes the pending clear so a
// stale timer can never wipe it.
func (e *Engine) setErrorMessage(msg string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.errTimer != nil {
		e.errTimer.Stop()
	}
	e.errGen++
	gen := e.errGen
	e.errMsg = msg
	e.errTimer = time.AfterFunc(e.opts.ErrorTTL, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.errGen == gen {
			e.errMsg = ""
			e.errTimer = nil
		}
	})
}

// clearErrorLocked must be called with e.mu held.
func (e *Engine) clearErrorLocked() {
	if e.errTimer != nil {
		e.errTimer.Stop()
		e.errTimer = nil
	}
	e.errGen++
	e.errMsg = ""
}

func (e *Engine) renderHTML(msg model.Message) template.HTML {
	if e.opts.ShowCitations {
		return markup.Format(msg.Content, msg.Citations)
	}
	return markup.Format(msg.Content, nil)
}
