// Package citation maintains the derived index of citations across a
// conversation and pure projections used to pick a document viewer.
package citation

import (
	"fmt"

	"github.com/amital-ui/aichat/internal/model"
)

// Key scopes a citation label to the assistant message that produced it.
// citation_id values are only unique within one assistant response, so
// de-duplication is per assistant-message ordinal, not global: two answers
// may both cite label "1" for different documents and both must survive.
type Key struct {
	// Ordinal is the 1-based position of the owning message among the
	// assistant messages of the conversation.
	Ordinal int
	// Label is the citation's citation_id.
	Label string
}

func (k Key) String() string {
	return fmt.Sprintf("%d.%s", k.Ordinal, k.Label)
}

// Entry is one indexed citation together with its scope key.
type Entry struct {
	Key      Key            `json:"key"`
	Citation model.Citation `json:"citation"`
}

// Index is an ordered, first-occurrence-wins mapping of scoped citation
// keys to citations. It is always derived in full from a message list and
// holds no incremental state of its own.
type Index struct {
	entries []Entry
	byKey   map[Key]int
}

// Rebuild derives an index from the given messages. Messages are scanned
// in order; only assistant messages contribute. Rebuilding twice on the
// same input yields identical output.
func Rebuild(messages []model.Message) *Index {
	idx := &Index{byKey: make(map[Key]int)}
	ordinal := 0
	for _, msg := range messages {
		if msg.Role != model.RoleAssistant {
			continue
		}
		ordinal++
		for _, c := range msg.Citations {
			key := Key{Ordinal: ordinal, Label: c.CitationID}
			if _, seen := idx.byKey[key]; seen {
				continue
			}
			idx.byKey[key] = len(idx.entries)
			idx.entries = append(idx.entries, Entry{Key: key, Citation: c})
		}
	}
	return idx
}

// Entries returns the indexed citations in first-seen order. The slice is
// a copy; callers may not reach the index internals through it.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Lookup returns the citation stored under key.
func (idx *Index) Lookup(key Key) (model.Citation, bool) {
	i, ok := idx.byKey[key]
	if !ok {
		return model.Citation{}, false
	}
	return idx.entries[i].Citation, true
}

// Len reports the number of distinct indexed citations.
func (idx *Index) Len() int {
	return len(idx.entries)
}
