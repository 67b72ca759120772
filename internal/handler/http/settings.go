package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/turnilab/turni-backend-go/internal/domain/settings"
	"github.com/turnilab/turni-backend-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetRateConfig(w http.ResponseWriter, r *http.Request)
	UpdateRateConfig(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{
		settingsService: settingsService,
	}
}

// GetRateConfig implements SettingsHandler.
func (h *settingsHandlerImpl) GetRateConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.settingsService.GetRateConfig(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateRateConfig implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateRateConfig(w http.ResponseWriter, r *http.Request) {
	var req settings.UpdateRateConfigRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRateConfig decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.settingsService.UpdateRateConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Rate config updated successfully", result)
}
