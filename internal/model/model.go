package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Role identifies the author of a message. It is a closed set: anything
// else coming off the wire is rejected at decode time.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	role := Role(s)
	if !role.Valid() {
		return fmt.Errorf("unknown message role %q", s)
	}
	*r = role
	return nil
}

// Message is a single entry in a conversation. A message is mutated in
// place only while IsStreaming is true; once the stream finishes it is
// treated as immutable.
type Message struct {
	ID          string     `json:"id"`
	Role        Role       `json:"role"`
	Content     string     `json:"content"`
	Timestamp   time.Time  `json:"timestamp"`
	Citations   []Citation `json:"citations,omitempty"`
	IsStreaming bool       `json:"is_streaming,omitempty"`
}

// Citation is a structured reference to a source document returned
// alongside an assistant reply. It is an immutable value supplied by the
// chat backend; the engine never modifies one.
type Citation struct {
	// ID identifies the source document and is unique across the corpus.
	ID string `json:"id"`
	// CitationID is the per-response label matched against inline [n]
	// markers. It is only unique within a single assistant response.
	CitationID           string            `json:"citation_id"`
	Title                string            `json:"title"`
	Content              string            `json:"content"`
	FilePath             string            `json:"file_path"`
	FileType             string            `json:"file_type"`
	CitationLocationType string            `json:"citation_location_type,omitempty"`
	CitationLocation     []string          `json:"citation_location,omitempty"`
	Score                float64           `json:"score,omitempty"`
	Metadata             *CitationMetadata `json:"metadata,omitempty"`
}

// UnmarshalJSON accepts citation_id as either a JSON string or a bare
// number; numeric labels are normalized to their decimal string so inline
// [n] markers always compare against a string.
func (c *Citation) UnmarshalJSON(data []byte) error {
	type alias Citation
	aux := struct {
		CitationID json.RawMessage `json:"citation_id"`
		*alias
	}{alias: (*alias)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.CitationID) > 0 {
		var s string
		if err := json.Unmarshal(aux.CitationID, &s); err == nil {
			c.CitationID = s
		} else {
			c.CitationID = string(bytes.TrimSpace(aux.CitationID))
		}
	}
	return nil
}

// CitationMetadata carries file details about the cited document.
type CitationMetadata struct {
	Filename     string `json:"filename"`
	FilePath     string `json:"file_path,omitempty"`
	RelativePath string `json:"relative_path,omitempty"`
	Extension    string `json:"extension,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
	FileType     string `json:"file_type,omitempty"`
	NumPages     int    `json:"num_pages,omitempty"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
}

// Conversation holds the ordered message history for one widget session.
// Exactly one conversation is live per session; Clear replaces it wholesale.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatRequest is the payload sent to the chat backend.
type ChatRequest struct {
	Message             string    `json:"message"`
	ConversationHistory []Message `json:"conversation_history,omitempty"`
	UseRAG              bool      `json:"use_rag"`
}

// ChatResponse is the single-shot (non-streaming) chat reply.
type ChatResponse struct {
	Message   string     `json:"message"`
	Citations []Citation `json:"citations,omitempty"`
}

// StreamEvent is one decoded chunk of a streaming chat reply. Content
// fragments are concatenated; a citations payload replaces the in-flight
// message's citation list wholesale.
type StreamEvent struct {
	Content   string     `json:"content,omitempty"`
	Citations []Citation `json:"citations,omitempty"`
	Done      bool       `json:"done,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// FilenameForDownload returns the name used to fetch the cited document:
// the metadata filename when present, otherwise the citation title.
func (c Citation) FilenameForDownload() string {
	if c.Metadata != nil && c.Metadata.Filename != "" {
		return c.Metadata.Filename
	}
	return c.Title
}
