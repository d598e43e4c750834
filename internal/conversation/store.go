// Package conversation owns the live conversation of a widget session:
// the ordered message list, its mutation operations, and the derived
// citation index.
package conversation

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amital-ui/aichat/internal/citation"
	"github.com/amital-ui/aichat/internal/model"
)

// ErrNoConversation is returned when a mutation is attempted on a Store
// that has no live conversation. A Store built with NewStore always has
// one; this guards the zero value.
var ErrNoConversation = errors.New("conversation: no live conversation")

// Store serializes all mutations of a single live conversation and keeps
// the citation index in lockstep with the message list: the index is
// rebuilt synchronously inside every mutation, so a reader can never
// observe a mutated message list with a stale index.
type Store struct {
	mu      sync.Mutex
	conv    model.Conversation
	idx     *citation.Index
	onClear func()
}

// NewStore creates a store with a fresh, empty conversation.
func NewStore(title string) *Store {
	s := &Store{idx: citation.Rebuild(nil)}
	s.conv = newConversation(title)
	return s
}

func newConversation(title string) model.Conversation {
	now := time.Now()
	return model.Conversation{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetOnClear registers a hook invoked after Clear replaces the
// conversation. The widget uses it to drop panel selection state.
func (s *Store) SetOnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClear = fn
}

// Append adds a message to the live conversation.
func (s *Store) Append(msg model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conv.ID == "" {
		return ErrNoConversation
	}
	s.conv.Messages = append(s.conv.Messages, msg)
	s.touch()
	return nil
}

// Update replaces the stored message with the same ID, supporting
// in-place content growth during streaming. Unknown IDs are a no-op and
// report false; Update never appends.
func (s *Store) Update(msg model.Message) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.conv.Messages {
		if s.conv.Messages[i].ID == msg.ID {
			s.conv.Messages[i] = msg
			s.touch()
			return true
		}
	}
	return false
}

// Clear discards the live conversation and starts a new empty one with
// the same title. No history is retained.
func (s *Store) Clear() {
	s.mu.Lock()
	s.conv = newConversation(s.conv.Title)
	s.idx = citation.Rebuild(nil)
	onClear := s.onClear
	s.mu.Unlock()

	if onClear != nil {
		onClear()
	}
}

// Messages returns an independent snapshot of the message list. Mutating
// the returned slice or the citation lists inside it cannot corrupt the
// store.
func (s *Store) Messages() []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyMessages(s.conv.Messages)
}

// Conversation returns a snapshot of the full conversation.
func (s *Store) Conversation() model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.conv
	snap.Messages = copyMessages(s.conv.Messages)
	return snap
}

// Index returns the citation index derived from the current message
// list. The index is immutable once built and safe to share.
func (s *Store) Index() *citation.Index {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.idx
}

// touch must be called with the lock held after any message mutation.
func (s *Store) touch() {
	s.conv.UpdatedAt = time.Now()
	s.idx = citation.Rebuild(s.conv.Messages)
}

func copyMessages(messages []model.Message) []model.Message {
	out := make([]model.Message, len(messages))
	copy(out, messages)
	for i := range out {
		if len(out[i].Citations) > 0 {
			cites := make([]model.Citation, len(out[i].Citations))
			copy(cites, out[i].Citations)
			out[i].Citations = cites
		}
	}
	return out
}
