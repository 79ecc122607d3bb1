package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/config"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http/response"
)

// SettingsStore is the editable settings file behind the settings screen.
type SettingsStore interface {
	Get() config.Settings
	Update(settings config.Settings) error
	Reset() (config.Settings, error)
}

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	store SettingsStore
}

func NewSettingsHandler(store SettingsStore) SettingsHandler {
	return &settingsHandlerImpl{store: store}
}

// Get handles GET /settings
func (h *settingsHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.store.Get())
}

// Update handles PUT /settings. The next dataset read reloads with the new
// mapping because the settings are part of the dataset signature.
func (h *settingsHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var settings config.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		slog.Error("UpdateSettings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := h.store.Update(settings); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Settings saved", h.store.Get())
}

// Reset handles POST /settings/reset
func (h *settingsHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	settings, err := h.store.Reset()
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Settings reloaded", settings)
}
