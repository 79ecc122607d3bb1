package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-dashboard-go/internal/service/query"
	"github.com/go-chi/chi/v5"
)

type EventHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Options(w http.ResponseWriter, r *http.Request)
	Recent(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)

	Staff(w http.ResponseWriter, r *http.Request)
	Catalogs(w http.ResponseWriter, r *http.Request)
}

type eventHandlerImpl struct {
	eventService event.EventService
}

func NewEventHandler(eventService event.EventService) EventHandler {
	return &eventHandlerImpl{
		eventService: eventService,
	}
}

// List handles GET /events
func (h *eventHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}

	events, err := h.eventService.Events(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filtered := query.ApplyFilters(events, filter)
	response.SuccessWithMeta(w, filtered, &response.Meta{TotalItems: int64(len(filtered))})
}

// Options handles GET /events/options
func (h *eventHandlerImpl) Options(w http.ResponseWriter, r *http.Request) {
	options, err := h.eventService.Options(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, options)
}

// Recent handles GET /events/recent
func (h *eventHandlerImpl) Recent(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", 0)
	if err != nil || n < 0 {
		response.BadRequest(w, "invalid n parameter", nil)
		return
	}

	events, err := h.eventService.Recent(r.Context(), n)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, events)
}

// Get handles GET /events/{id}
func (h *eventHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Event ID is required", nil)
		return
	}

	e, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, e)
}

// Create handles POST /events
func (h *eventHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req event.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateEvent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	e, err := h.eventService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Event registered successfully", e)
}

// Update handles PUT /events/{id}
func (h *eventHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req event.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateEvent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	e, err := h.eventService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Event updated successfully", e)
}

// Delete handles DELETE /events/{id}
func (h *eventHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Event ID is required", nil)
		return
	}

	if err := h.eventService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Event deleted successfully", nil)
}

// Preview handles POST /events/preview
func (h *eventHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req event.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("PreviewEvent decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	preview, err := h.eventService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, preview)
}

// Staff handles GET /staff
func (h *eventHandlerImpl) Staff(w http.ResponseWriter, r *http.Request) {
	people, err := h.eventService.Staff(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, people)
}

// Catalogs handles GET /catalogs
func (h *eventHandlerImpl) Catalogs(w http.ResponseWriter, r *http.Request) {
	catalogs, err := h.eventService.Catalogs(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, catalogs)
}
