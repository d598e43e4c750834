package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amital-ui/aichat/internal/citation"
	app_errors "github.com/amital-ui/aichat/internal/errors"
	"github.com/amital-ui/aichat/internal/model"
	"github.com/amital-ui/aichat/internal/panel"
	"github.com/amital-ui/aichat/internal/service"
	"github.com/amital-ui/aichat/internal/widget"
)

// WidgetHandler handles HTTP requests for widget sessions: the
// conversation, message sending, and the citation panel.
type WidgetHandler struct {
	sessions *service.SessionManager
}

func NewWidgetHandler(sessions *service.SessionManager) *WidgetHandler {
	return &WidgetHandler{sessions: sessions}
}

// CreateSessionResponse is returned when a new widget session is opened.
type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
}

// SendMessageRequest is the DTO for sending a chat message.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required" example:"What does the quarterly report say?"`
}

// SelectCitationRequest identifies the citation to open in the panel.
// Either the message ID of the message carrying the inline marker, or
// the 1-based ordinal of the assistant message, must accompany the label.
type SelectCitationRequest struct {
	MessageID string `json:"message_id,omitempty"`
	Ordinal   int    `json:"ordinal,omitempty"`
	Label     string `json:"label" validate:"required" example:"1"`
}

// ConversationResponse is the full rendered conversation state.
type ConversationResponse struct {
	ID           string                   `json:"id"`
	Title        string                   `json:"title"`
	Messages     []widget.RenderedMessage `json:"messages"`
	IsLoading    bool                     `json:"is_loading"`
	ErrorMessage string                   `json:"error_message,omitempty"`
}

// CitationView is one entry of the panel's citation list, with file
// metadata precomputed for rendering.
type CitationView struct {
	Key       string         `json:"key"`
	Ordinal   int            `json:"ordinal"`
	Label     string         `json:"label"`
	Citation  model.Citation `json:"citation"`
	FileKind  string         `json:"file_kind"`
	StartPage int            `json:"start_page"`
}

// SelectionView describes the citation currently open in the document view.
type SelectionView struct {
	Citation    model.Citation `json:"citation"`
	IsLoading   bool           `json:"is_loading"`
	Error       string         `json:"error,omitempty"`
	HasDocument bool           `json:"has_document"`
}

// PanelResponse is the citation panel's full state.
type PanelResponse struct {
	View      string         `json:"view"`
	Citations []CitationView `json:"citations"`
	Selection *SelectionView `json:"selection,omitempty"`
}

// HandleCreateSession godoc
// @Summary      Open a widget session
// @Description  Creates a new chat widget session configured from the stored settings.
// @Tags         Sessions
// @Produce      json
// @Success      201  {object}  CreateSessionResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/sessions [post]
func (h *WidgetHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, _, err := h.sessions.Create(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: id})
}

// HandleDeleteSession godoc
// @Summary      Close a widget session
// @Description  Tears down the session's engine and releases any held document.
// @Tags         Sessions
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID} [delete]
func (h *WidgetHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(chi.URLParam(r, "sessionID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "closed"})
}

// HandleGetConversation godoc
// @Summary      Get the conversation
// @Description  Returns the session's conversation with sanitized HTML renderings.
// @Tags         Conversation
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  ConversationResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/conversation [get]
func (h *WidgetHandler) HandleGetConversation(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	conv := engine.Conversation()
	respondWithJSON(w, http.StatusOK, ConversationResponse{
		ID:           conv.ID,
		Title:        conv.Title,
		Messages:     engine.RenderedMessages(),
		IsLoading:    engine.IsLoading(),
		ErrorMessage: engine.ErrorMessage(),
	})
}

// HandleSendMessage godoc
// @Summary      Send a chat message
// @Description  Sends a message and streams incremental updates back as Server-Sent Events.
// @Tags         Conversation
// @Accept       json
// @Produce      text/event-stream
// @Param        sessionID  path  string              true  "Session ID"
// @Param        message    body  SendMessageRequest  true  "Message to send"
// @Success      200  {object}  widget.Update
// @Router       /v1/sessions/{sessionID}/messages [post]
func (h *WidgetHandler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		sendStreamError(w, "Session not found")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendStreamError(w, "Invalid request body")
		return
	}
	if err := validateRequest(req); err != nil {
		sendStreamError(w, err.Error())
		return
	}

	updates := make(chan widget.Update)
	go engine.Send(r.Context(), req.Message, updates)

	for upd := range updates {
		if r.Context().Err() != nil {
			slog.Debug("Client disconnected during send", "session_id", chi.URLParam(r, "sessionID"))
			break
		}
		if err := writeStreamEvent(w, upd); err != nil {
			slog.Warn("Stopping stream, write failed", "error", err)
			break
		}
	}
	// Keep consuming after an aborted write so the send goroutine can
	// finish and release the session's busy state.
	for range updates {
	}
}

// HandleClearConversation godoc
// @Summary      Clear the conversation
// @Description  Discards all messages and starts a fresh conversation. Closes the panel.
// @Tags         Conversation
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/clear [post]
func (h *WidgetHandler) HandleClearConversation(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	engine.Clear()
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "cleared"})
}

// HandleGetPanel godoc
// @Summary      Get panel state
// @Description  Returns the citation panel's view, citation list, and current selection.
// @Tags         Panel
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  PanelResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/panel [get]
func (h *WidgetHandler) HandleGetPanel(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, panelResponse(engine))
}

// HandleTogglePanel godoc
// @Summary      Toggle the panel
// @Description  Opens the citation list when closed, closes the panel otherwise.
// @Tags         Panel
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  PanelResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/panel/toggle [post]
func (h *WidgetHandler) HandleTogglePanel(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	engine.Panel().Toggle()
	respondWithJSON(w, http.StatusOK, panelResponse(engine))
}

// HandleSelectCitation godoc
// @Summary      Open a citation's document
// @Description  Resolves the citation by message ID or assistant ordinal plus label, then fetches its source document into the panel.
// @Tags         Panel
// @Accept       json
// @Produce      json
// @Param        sessionID  path  string                 true  "Session ID"
// @Param        selection  body  SelectCitationRequest  true  "Citation to open"
// @Success      200  {object}  PanelResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/panel/select [post]
func (h *WidgetHandler) HandleSelectCitation(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req SelectCitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, app_errors.ErrValidation)
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	switch {
	case req.MessageID != "":
		if _, ok := engine.ClickCitation(r.Context(), req.MessageID, req.Label); !ok {
			respondWithError(w, app_errors.ErrNotFound)
			return
		}
	case req.Ordinal > 0:
		c, ok := engine.Citation(req.Ordinal, req.Label)
		if !ok {
			respondWithError(w, app_errors.ErrNotFound)
			return
		}
		engine.SelectCitation(r.Context(), c)
	default:
		respondWithError(w, app_errors.ErrValidation)
		return
	}

	respondWithJSON(w, http.StatusOK, panelResponse(engine))
}

// HandlePanelBack godoc
// @Summary      Back to the citation list
// @Description  Returns from the document view to the citation list, releasing the document.
// @Tags         Panel
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  PanelResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/panel/back [post]
func (h *WidgetHandler) HandlePanelBack(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	engine.Panel().Back()
	respondWithJSON(w, http.StatusOK, panelResponse(engine))
}

// HandlePanelClose godoc
// @Summary      Close the panel
// @Description  Closes the panel from any state, releasing any held document.
// @Tags         Panel
// @Produce      json
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {object}  PanelResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/panel/close [post]
func (h *WidgetHandler) HandlePanelClose(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	engine.Panel().Close()
	respondWithJSON(w, http.StatusOK, panelResponse(engine))
}

// HandleGetDocument godoc
// @Summary      Download the open document
// @Description  Returns the raw bytes of the document currently open in the panel.
// @Tags         Panel
// @Produce      application/octet-stream
// @Param        sessionID  path  string  true  "Session ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /v1/sessions/{sessionID}/panel/document [get]
func (h *WidgetHandler) HandleGetDocument(w http.ResponseWriter, r *http.Request) {
	engine, err := h.sessions.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondWithError(w, err)
		return
	}

	sel, ok := engine.Panel().Current()
	if !ok {
		respondWithError(w, app_errors.ErrNotFound)
		return
	}
	if sel.IsLoading {
		respondWithError(w, app_errors.ErrConflict)
		return
	}
	// Work from one snapshot: a concurrent Back or Close may release the
	// handle between reads, and a half-released document must 404 rather
	// than serve an empty body.
	var blob *panel.Blob
	if sel.Handle != nil {
		blob = sel.Handle.Snapshot()
	}
	if blob == nil {
		respondWithError(w, app_errors.ErrNotFound)
		return
	}

	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+blob.Name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(blob.Data); err != nil {
		slog.Warn("Failed to write document body", "error", err)
	}
}

// panelResponse projects the panel state machine into its API shape.
func panelResponse(engine *widget.Engine) PanelResponse {
	p := engine.Panel()

	entries := p.Citations()
	views := make([]CitationView, len(entries))
	for i, e := range entries {
		views[i] = CitationView{
			Key:       e.Key.String(),
			Ordinal:   e.Key.Ordinal,
			Label:     e.Key.Label,
			Citation:  e.Citation,
			FileKind:  citation.KindOf(e.Citation).String(),
			StartPage: citation.StartPage(e.Citation),
		}
	}

	resp := PanelResponse{
		View:      p.ViewState().String(),
		Citations: views,
	}
	if sel, ok := p.Current(); ok {
		resp.Selection = &SelectionView{
			Citation:    sel.Citation,
			IsLoading:   sel.IsLoading,
			Error:       sel.Err,
			HasDocument: sel.Handle != nil && !sel.Handle.Released(),
		}
	}
	return resp
}
