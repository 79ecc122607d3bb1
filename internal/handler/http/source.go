package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http/response"
)

type SourceHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Active(w http.ResponseWriter, r *http.Request)
	Select(w http.ResponseWriter, r *http.Request)
	Upload(w http.ResponseWriter, r *http.Request)
	Columns(w http.ResponseWriter, r *http.Request)
}

type sourceHandlerImpl struct {
	eventService event.EventService
	maxUpload    int64
}

func NewSourceHandler(eventService event.EventService, maxUpload int64) SourceHandler {
	return &sourceHandlerImpl{
		eventService: eventService,
		maxUpload:    maxUpload,
	}
}

// List handles GET /sources
func (h *sourceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.eventService.Sources(r.Context()))
}

// Active handles GET /sources/active
func (h *sourceHandlerImpl) Active(w http.ResponseWriter, r *http.Request) {
	info, err := h.eventService.Info(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, info)
}

// Select handles PUT /sources/active
func (h *sourceHandlerImpl) Select(w http.ResponseWriter, r *http.Request) {
	var req event.SelectSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SelectSource decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	info, err := h.eventService.SelectSource(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Data source selected", info)
}

// Upload handles POST /sources/upload
func (h *sourceHandlerImpl) Upload(w http.ResponseWriter, r *http.Request) {
	// Parse multipart form (max 10MB in memory, rest spills to disk)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "File is required", map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	if h.maxUpload > 0 && header.Size > h.maxUpload {
		response.ValidationError(w, map[string]string{"file": "file exceeds the maximum upload size"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("Failed to read uploaded file", "error", err)
		response.BadRequest(w, "Failed to read file", nil)
		return
	}

	info, err := h.eventService.Upload(r.Context(), header.Filename, data)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "File uploaded", info)
}

// Columns handles GET /sources/columns
func (h *sourceHandlerImpl) Columns(w http.ResponseWriter, r *http.Request) {
	columns, err := h.eventService.Columns(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, columns)
}
