package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "github.com/amital-ui/aichat/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(widgetHandler *WidgetHandler, settingsHandler *SettingsHandler) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Health check endpoint for container orchestration probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON API routes get a request timeout so client
		// connections cannot hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			// --- Settings ---
			r.Get("/settings", settingsHandler.HandleGetSettings)
			r.Put("/settings", settingsHandler.HandleUpdateSettings)

			// --- Sessions ---
			r.Post("/sessions", widgetHandler.HandleCreateSession)
			r.Delete("/sessions/{sessionID}", widgetHandler.HandleDeleteSession)

			// --- Conversation ---
			r.Get("/sessions/{sessionID}/conversation", widgetHandler.HandleGetConversation)
			r.Post("/sessions/{sessionID}/clear", widgetHandler.HandleClearConversation)

			// --- Citation panel ---
			r.Get("/sessions/{sessionID}/panel", widgetHandler.HandleGetPanel)
			r.Post("/sessions/{sessionID}/panel/toggle", widgetHandler.HandleTogglePanel)
			r.Post("/sessions/{sessionID}/panel/select", widgetHandler.HandleSelectCitation)
			r.Post("/sessions/{sessionID}/panel/back", widgetHandler.HandlePanelBack)
			r.Post("/sessions/{sessionID}/panel/close", widgetHandler.HandlePanelClose)
			r.Get("/sessions/{sessionID}/panel/document", widgetHandler.HandleGetDocument)
		})

		// Streaming endpoints must NOT have a timeout, they hold the
		// connection open while updates flow.
		r.Group(func(r chi.Router) {
			r.Post("/sessions/{sessionID}/messages", widgetHandler.HandleSendMessage)
		})
	})

	return r
}
