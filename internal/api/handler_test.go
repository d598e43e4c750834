// The `_test` suffix creates a "black box" test package: the tests can
// only reach the api package through its exported identifiers.
package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/amital-ui/aichat/internal/api"
	"github.com/amital-ui/aichat/internal/model"
	"github.com/amital-ui/aichat/internal/panel"
	"github.com/amital-ui/aichat/internal/service"
	"github.com/amital-ui/aichat/internal/transport/mocks"
)

// widgetFixture bundles the handler under test with its mocked transport
// and the sqlmock behind the settings service.
type widgetFixture struct {
	handler   *api.WidgetHandler
	sessions  *service.SessionManager
	transport *mocks.MockChatTransport
	fetcher   *mocks.MockBlobFetcher
	mockDB    sqlmock.Sqlmock
}

func setupWidgetHandler(t *testing.T) *widgetFixture {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ct := mocks.NewMockChatTransport(t)
	fetcher := mocks.NewMockBlobFetcher(t)
	sessions := service.NewSessionManager(ct, fetcher, service.NewSettingsService(db), 5*time.Second)
	t.Cleanup(sessions.CloseAll)

	return &widgetFixture{
		handler:   api.NewWidgetHandler(sessions),
		sessions:  sessions,
		transport: ct,
		fetcher:   fetcher,
		mockDB:    mockDB,
	}
}

// createSession provisions one live session, with streaming on or off.
func (f *widgetFixture) createSession(t *testing.T, streaming bool) string {
	rows := sqlmock.NewRows([]string{"key", "value"}).
		AddRow("enable_streaming", boolValue(streaming)).
		AddRow("show_citations", "true").
		AddRow("use_rag_by_default", "true").
		AddRow("placeholder", "Ask away")
	f.mockDB.ExpectQuery("SELECT key, value FROM settings").WillReturnRows(rows)

	id, _, err := f.sessions.Create(context.Background())
	require.NoError(t, err)
	return id
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// addChiURLParams simulates how the chi router injects URL parameters
// (e.g. `{sessionID}`) into the request's context.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

func sessionRequest(method, target, sessionID string, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return addChiURLParams(req, map[string]string{"sessionID": sessionID})
}

// sendViaHandler drives a full send through the SSE endpoint and returns
// the decoded update events.
func sendViaHandler(t *testing.T, f *widgetFixture, sessionID, message string) []map[string]any {
	req := sessionRequest(http.MethodPost, "/v1/sessions/"+sessionID+"/messages", sessionID,
		`{"message": "`+message+`"}`)
	rr := httptest.NewRecorder()
	f.handler.HandleSendMessage(rr, req)

	var events []map[string]any
	for _, line := range strings.Split(rr.Body.String(), "\n") {
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(data), &ev))
		events = append(events, ev)
	}
	return events
}

func TestWidgetHandler_CreateSession(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := setupWidgetHandler(t)
		rows := sqlmock.NewRows([]string{"key", "value"}).
			AddRow("enable_streaming", "true")
		f.mockDB.ExpectQuery("SELECT key, value FROM settings").WillReturnRows(rows)

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
		rr := httptest.NewRecorder()
		f.handler.HandleCreateSession(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var resp api.CreateSessionResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.SessionID)
	})

	t.Run("Failure - settings unavailable", func(t *testing.T) {
		f := setupWidgetHandler(t)
		f.mockDB.ExpectQuery("SELECT key, value FROM settings").WillReturnError(assert.AnError)

		req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
		rr := httptest.NewRecorder()
		f.handler.HandleCreateSession(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestWidgetHandler_DeleteSession(t *testing.T) {
	f := setupWidgetHandler(t)
	id := f.createSession(t, false)

	rr := httptest.NewRecorder()
	f.handler.HandleDeleteSession(rr, sessionRequest(http.MethodDelete, "/v1/sessions/"+id, id, ""))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	f.handler.HandleDeleteSession(rr, sessionRequest(http.MethodDelete, "/v1/sessions/"+id, id, ""))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestWidgetHandler_GetConversation(t *testing.T) {
	t.Run("Success - empty conversation", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)

		rr := httptest.NewRecorder()
		f.handler.HandleGetConversation(rr, sessionRequest(http.MethodGet, "/v1/sessions/"+id+"/conversation", id, ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.ConversationResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.ID)
		assert.Empty(t, resp.Messages)
		assert.False(t, resp.IsLoading)
	})

	t.Run("Failure - unknown session", func(t *testing.T) {
		f := setupWidgetHandler(t)
		rr := httptest.NewRecorder()
		f.handler.HandleGetConversation(rr, sessionRequest(http.MethodGet, "/v1/sessions/nope/conversation", "nope", ""))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestWidgetHandler_HandleSendMessage(t *testing.T) {
	t.Run("Success - standard send streams updates as SSE", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)

		f.transport.On("Chat", mock.Anything, mock.Anything).Return(&model.ChatResponse{
			Message: "The report shows growth [1].",
			Citations: []model.Citation{
				{ID: "doc-1", CitationID: "1", Title: "Quarterly Report"},
			},
		}, nil).Once()

		events := sendViaHandler(t, f, id, "Tell me about the report")
		require.NotEmpty(t, events)

		final := events[len(events)-1]
		assert.Equal(t, true, final["done"])
		assert.Contains(t, final["html"], "data-citation-id")
	})

	t.Run("Failure - empty message is rejected", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/messages", id, `{"message": ""}`)
		rr := httptest.NewRecorder()
		f.handler.HandleSendMessage(rr, req)

		assert.Contains(t, rr.Body.String(), "event: error")
		assert.Contains(t, rr.Body.String(), "required")
	})

	t.Run("Failure - unknown session", func(t *testing.T) {
		f := setupWidgetHandler(t)
		req := sessionRequest(http.MethodPost, "/v1/sessions/nope/messages", "nope", `{"message": "hi"}`)
		rr := httptest.NewRecorder()
		f.handler.HandleSendMessage(rr, req)

		assert.Contains(t, rr.Body.String(), "event: error")
	})

	t.Run("Success - aborted write does not wedge the session", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, true)

		f.transport.On("ChatStream", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once().
			Run(func(args mock.Arguments) {
				ch := args.Get(2).(chan<- model.StreamEvent)
				ch <- model.StreamEvent{Content: "one"}
				ch <- model.StreamEvent{Content: "two"}
				ch <- model.StreamEvent{Content: "three"}
				close(ch)
			})

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/messages", id, `{"message": "hi"}`)
		w := &failingWriter{ResponseRecorder: httptest.NewRecorder()}
		f.handler.HandleSendMessage(w, req)

		// The handler returned with the send fully drained, so the
		// session accepts the next request.
		rr := httptest.NewRecorder()
		f.handler.HandleGetConversation(rr, sessionRequest(http.MethodGet, "/v1/sessions/"+id+"/conversation", id, ""))
		var resp api.ConversationResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.False(t, resp.IsLoading)
		require.Len(t, resp.Messages, 2)
		assert.Equal(t, "onetwothree", resp.Messages[1].Content)
	})
}

// failingWriter simulates a client connection that breaks after the
// first streamed event.
type failingWriter struct {
	*httptest.ResponseRecorder
	writes int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	if f.writes > 1 {
		return 0, errors.New("broken pipe")
	}
	return f.ResponseRecorder.Write(p)
}

func TestWidgetHandler_ClearConversation(t *testing.T) {
	f := setupWidgetHandler(t)
	id := f.createSession(t, false)

	f.transport.On("Chat", mock.Anything, mock.Anything).Return(&model.ChatResponse{Message: "Hi"}, nil).Once()
	sendViaHandler(t, f, id, "hello")

	rr := httptest.NewRecorder()
	f.handler.HandleClearConversation(rr, sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/clear", id, ""))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	f.handler.HandleGetConversation(rr, sessionRequest(http.MethodGet, "/v1/sessions/"+id+"/conversation", id, ""))
	var resp api.ConversationResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
}

// seedCitedConversation runs one exchange that produces a citation, so
// panel tests have something to select.
func seedCitedConversation(t *testing.T, f *widgetFixture, id string) {
	f.transport.On("Chat", mock.Anything, mock.Anything).Return(&model.ChatResponse{
		Message: "See the filing [1].",
		Citations: []model.Citation{
			{
				ID:         "doc-1",
				CitationID: "1",
				Title:      "Annual Filing",
				FileType:   "pdf",
				Metadata:   &model.CitationMetadata{Filename: "filing.pdf"},
			},
		},
	}, nil).Once()
	events := sendViaHandler(t, f, id, "Where is the filing?")
	require.NotEmpty(t, events)
}

func TestWidgetHandler_TogglePanel(t *testing.T) {
	f := setupWidgetHandler(t)
	id := f.createSession(t, false)
	seedCitedConversation(t, f, id)

	rr := httptest.NewRecorder()
	f.handler.HandleTogglePanel(rr, sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/toggle", id, ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp api.PanelResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "list", resp.View)
	require.Len(t, resp.Citations, 1)
	assert.Equal(t, "1.1", resp.Citations[0].Key)
	assert.Equal(t, "pdf", resp.Citations[0].FileKind)

	rr = httptest.NewRecorder()
	f.handler.HandleTogglePanel(rr, sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/toggle", id, ""))
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "closed", resp.View)
}

func TestWidgetHandler_SelectCitation(t *testing.T) {
	t.Run("Success - select by ordinal and label", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)
		seedCitedConversation(t, f, id)

		f.fetcher.On("DownloadBlob", mock.Anything, "filing.pdf").Return(&panel.Blob{
			Name:        "filing.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4"),
		}, nil).Once()

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/select", id,
			`{"ordinal": 1, "label": "1"}`)
		rr := httptest.NewRecorder()
		f.handler.HandleSelectCitation(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var resp api.PanelResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "document", resp.View)
		require.NotNil(t, resp.Selection)
		assert.True(t, resp.Selection.HasDocument)
		assert.Equal(t, "Annual Filing", resp.Selection.Citation.Title)
	})

	t.Run("Failure - unknown label", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)
		seedCitedConversation(t, f, id)

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/select", id,
			`{"ordinal": 1, "label": "99"}`)
		rr := httptest.NewRecorder()
		f.handler.HandleSelectCitation(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - missing label", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/select", id, `{"ordinal": 1}`)
		rr := httptest.NewRecorder()
		f.handler.HandleSelectCitation(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - neither message ID nor ordinal", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/select", id, `{"label": "1"}`)
		rr := httptest.NewRecorder()
		f.handler.HandleSelectCitation(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestWidgetHandler_GetDocument(t *testing.T) {
	t.Run("Success - returns document bytes", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)
		seedCitedConversation(t, f, id)

		f.fetcher.On("DownloadBlob", mock.Anything, "filing.pdf").Return(&panel.Blob{
			Name:        "filing.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4"),
		}, nil).Once()

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/select", id,
			`{"ordinal": 1, "label": "1"}`)
		f.handler.HandleSelectCitation(httptest.NewRecorder(), req)

		rr := httptest.NewRecorder()
		f.handler.HandleGetDocument(rr, sessionRequest(http.MethodGet, "/v1/sessions/"+id+"/panel/document", id, ""))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
		assert.Equal(t, "%PDF-1.4", rr.Body.String())
	})

	t.Run("Failure - nothing selected", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)

		rr := httptest.NewRecorder()
		f.handler.HandleGetDocument(rr, sessionRequest(http.MethodGet, "/v1/sessions/"+id+"/panel/document", id, ""))

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - handle released between panel reads", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)
		seedCitedConversation(t, f, id)

		f.fetcher.On("DownloadBlob", mock.Anything, "filing.pdf").Return(&panel.Blob{
			Name: "filing.pdf",
			Data: []byte("x"),
		}, nil).Once()

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/select", id,
			`{"ordinal": 1, "label": "1"}`)
		f.handler.HandleSelectCitation(httptest.NewRecorder(), req)

		// Release the handle out from under the request, as a concurrent
		// Back or Close would. The response must be a 404, never a 200
		// with an empty body.
		engine, err := f.sessions.Get(id)
		require.NoError(t, err)
		sel, ok := engine.Panel().Current()
		require.True(t, ok)
		sel.Handle.Release()

		rr := httptest.NewRecorder()
		f.handler.HandleGetDocument(rr, sessionRequest(http.MethodGet, "/v1/sessions/"+id+"/panel/document", id, ""))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - released after going back", func(t *testing.T) {
		f := setupWidgetHandler(t)
		id := f.createSession(t, false)
		seedCitedConversation(t, f, id)

		f.fetcher.On("DownloadBlob", mock.Anything, "filing.pdf").Return(&panel.Blob{
			Name: "filing.pdf",
			Data: []byte("x"),
		}, nil).Once()

		req := sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/select", id,
			`{"ordinal": 1, "label": "1"}`)
		f.handler.HandleSelectCitation(httptest.NewRecorder(), req)

		f.handler.HandlePanelBack(httptest.NewRecorder(),
			sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/back", id, ""))

		rr := httptest.NewRecorder()
		f.handler.HandleGetDocument(rr, sessionRequest(http.MethodGet, "/v1/sessions/"+id+"/panel/document", id, ""))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestWidgetHandler_PanelClose(t *testing.T) {
	f := setupWidgetHandler(t)
	id := f.createSession(t, false)
	seedCitedConversation(t, f, id)

	f.handler.HandleTogglePanel(httptest.NewRecorder(),
		sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/toggle", id, ""))

	rr := httptest.NewRecorder()
	f.handler.HandlePanelClose(rr, sessionRequest(http.MethodPost, "/v1/sessions/"+id+"/panel/close", id, ""))

	var resp api.PanelResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "closed", resp.View)
	assert.Nil(t, resp.Selection)
}
