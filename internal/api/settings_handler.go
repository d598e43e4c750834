package api

import (
	"encoding/json"
	"net/http"

	app_errors "github.com/amital-ui/aichat/internal/errors"
	"github.com/amital-ui/aichat/internal/service"
)

// SettingsHandler handles HTTP requests for the widget settings.
type SettingsHandler struct {
	service *service.SettingsService
}

func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// UpdateSettingsRequest is the DTO for replacing the widget settings.
type UpdateSettingsRequest struct {
	EnableStreaming bool   `json:"enable_streaming"`
	ShowCitations   bool   `json:"show_citations"`
	UseRAGByDefault bool   `json:"use_rag_by_default"`
	Placeholder     string `json:"placeholder" validate:"max=200" example:"Type your message..."`
}

// HandleGetSettings godoc
// @Summary      Get widget settings
// @Description  Returns the stored settings applied to newly created sessions.
// @Tags         Settings
// @Produce      json
// @Success      200  {object}  service.Settings
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/settings [get]
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// HandleUpdateSettings godoc
// @Summary      Update widget settings
// @Description  Replaces the stored settings. Existing sessions keep the settings they were created with.
// @Tags         Settings
// @Accept       json
// @Produce      json
// @Param        settings  body  UpdateSettingsRequest  true  "New settings"
// @Success      200  {object}  service.Settings
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/settings [put]
func (h *SettingsHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, app_errors.ErrValidation)
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	settings := &service.Settings{
		EnableStreaming: req.EnableStreaming,
		ShowCitations:   req.ShowCitations,
		UseRAGByDefault: req.UseRAGByDefault,
		Placeholder:     req.Placeholder,
	}
	if err := h.service.Save(r.Context(), settings); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}
