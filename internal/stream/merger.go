// Package stream folds an incremental event sequence from the chat
// backend into a single in-flight assistant message.
package stream

import (
	"time"

	"github.com/google/uuid"

	"github.com/amital-ui/aichat/internal/conversation"
	"github.com/amital-ui/aichat/internal/model"
)

// Merger accumulates one streaming assistant message. Begin appends the
// placeholder before any network event arrives so a pending bubble shows
// immediately; each Apply folds a fragment in arrival order; Complete or
// Fail ends the stream. After that the message is immutable.
type Merger struct {
	store *conversation.Store
	msg   model.Message
	done  bool
}

// Begin appends an empty streaming placeholder to the store and returns
// the merger bound to it.
func Begin(store *conversation.Store) (*Merger, error) {
	msg := model.Message{
		ID:          uuid.NewString(),
		Role:        model.RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
	if err := store.Append(msg); err != nil {
		return nil, err
	}
	return &Merger{store: store, msg: msg}, nil
}

// Apply folds one event into the in-flight message. Content fragments are
// concatenated; a citations payload replaces the message's citation list
// wholesale (last event wins). Events carrying neither are skipped.
func (m *Merger) Apply(ev model.StreamEvent) {
	if m.done {
		return
	}
	changed := false
	if ev.Content != "" {
		m.msg.Content += ev.Content
		changed = true
	}
	if ev.Citations != nil {
		m.msg.Citations = ev.Citations
		changed = true
	}
	if changed {
		m.store.Update(m.msg)
	}
}

// Complete ends the stream normally and returns the final message.
func (m *Merger) Complete() model.Message {
	return m.finalize()
}

// Fail ends the stream after an error. The message keeps whatever partial
// content it accumulated and is marked non-streaming.
func (m *Merger) Fail() model.Message {
	return m.finalize()
}

func (m *Merger) finalize() model.Message {
	if !m.done {
		m.done = true
		m.msg.IsStreaming = false
		m.store.Update(m.msg)
	}
	return m.msg
}

// Message returns the current state of the in-flight message.
func (m *Merger) Message() model.Message {
	return m.msg
}
