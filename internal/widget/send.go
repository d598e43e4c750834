package widget

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/amital-ui/aichat/internal/model"
	"github.com/amital-ui/aichat/internal/stream"
)

// Send submits a user message and waits for the assistant reply,
// standard or streamed depending on the engine options. Incremental
// progress is pushed to updates (may be nil); the channel is closed when
// the send finishes.
//
// Precondition guards are silent no-ops, not failures: empty or
// whitespace-only text is ignored, and a send while another request is
// in flight does nothing.
func (e *Engine) Send(ctx context.Context, text string, updates chan<- Update) {
	if updates != nil {
		defer close(updates)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	e.mu.Lock()
	if e.loading || e.closed {
		e.mu.Unlock()
		return
	}
	e.loading = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.loading = false
		e.mu.Unlock()
	}()

	// History excludes the message being sent.
	history := e.store.Messages()

	userMsg := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}
	if err := e.store.Append(userMsg); err != nil {
		return
	}
	if e.hooks.OnMessageSent != nil {
		e.hooks.OnMessageSent(userMsg)
	}

	req := &model.ChatRequest{
		Message:             text,
		ConversationHistory: history,
		UseRAG:              e.opts.UseRAG,
	}

	if e.opts.EnableStreaming {
		e.sendStreaming(ctx, req, updates)
	} else {
		e.sendStandard(ctx, req, updates)
	}
}

func (e *Engine) sendStandard(ctx context.Context, req *model.ChatRequest, updates chan<- Update) {
	resp, err := e.transport.Chat(ctx, req)
	if err != nil {
		e.fail(ctx, err, "", updates)
		return
	}

	msg := model.Message{
		ID:        uuid.NewString(),
		Role:      model.RoleAssistant,
		Content:   resp.Message,
		Timestamp: time.Now(),
		Citations: resp.Citations,
	}
	if err := e.store.Append(msg); err != nil {
		e.fail(ctx, err, "", updates)
		return
	}
	if e.hooks.OnMessageReceived != nil {
		e.hooks.OnMessageReceived(msg)
	}
	push(ctx, updates, Update{
		MessageID: msg.ID,
		Content:   msg.Content,
		HTML:      e.renderHTML(msg),
		Citations: msg.Citations,
		Done:      true,
	})
}

func (e *Engine) sendStreaming(ctx context.Context, req *model.ChatRequest, updates chan<- Update) {
	merger, err := stream.Begin(e.store)
	if err != nil {
		e.fail(ctx, err, "", updates)
		return
	}

	sctx, cancel := context.WithCancel(ctx)
	e.mu.Lock()
	e.streamCancel = cancel
	e.mu.Unlock()
	defer func() {
		cancel()
		e.mu.Lock()
		e.streamCancel = nil
		e.mu.Unlock()
	}()

	ch := make(chan model.StreamEvent)
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.transport.ChatStream(sctx, req, ch)
	}()

	var streamErr error
	for ev := range ch {
		if streamErr != nil {
			// Drain without applying: no fragments after a failure.
			continue
		}
		if ev.Error != "" {
			streamErr = errors.New(ev.Error)
			cancel()
			continue
		}
		merger.Apply(ev)
		if ev.Content != "" || ev.Citations != nil {
			push(ctx, updates, Update{
				MessageID: merger.Message().ID,
				Content:   ev.Content,
				Citations: ev.Citations,
			})
		}
	}
	err = <-errCh

	e.mu.Lock()
	closed := e.closed
	e.mu.Unlock()
	if closed || ctx.Err() != nil {
		// Teardown or a vanished caller severed the subscription; finalize
		// the placeholder with whatever it accumulated and stop quietly.
		merger.Fail()
		return
	}
	if err != nil && streamErr == nil && !errors.Is(err, context.Canceled) {
		streamErr = err
	}

	if streamErr != nil {
		// The placeholder keeps its partial content, marked non-streaming.
		final := merger.Fail()
		e.fail(ctx, streamErr, final.ID, updates)
		return
	}

	final := merger.Complete()
	if e.hooks.OnMessageReceived != nil {
		e.hooks.OnMessageReceived(final)
	}
	push(ctx, updates, Update{
		MessageID: final.ID,
		HTML:      e.renderHTML(final),
		Citations: final.Citations,
		Done:      true,
	})
}

// fail converts a transport failure into local state plus an outward
// event; nothing propagates further.
func (e *Engine) fail(ctx context.Context, err error, messageID string, updates chan<- Update) {
	e.setErrorMessage(err.Error())
	if e.hooks.OnError != nil {
		e.hooks.OnError(err)
	}
	push(ctx, updates, Update{MessageID: messageID, Error: err.Error()})
}

// push delivers an update unless the caller is gone. A consumer that
// stopped reading must not wedge the send pipeline, so a cancelled
// context turns the send into a drop.
func push(ctx context.Context, updates chan<- Update, u Update) {
	if updates == nil {
		return
	}
	select {
	case updates <- u:
	case <-ctx.Done():
	}
}
