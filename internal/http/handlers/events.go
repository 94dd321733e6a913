package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/models/dto"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const eventNotFound = "Event not found"

// EventHandler serves offline events and bookings.
type EventHandler struct {
	store  storage.EventStore
	logger *slog.Logger
}

func NewEventHandler(store storage.EventStore, logger *slog.Logger) *EventHandler {
	return &EventHandler{store: store, logger: logger}
}

func (h *EventHandler) Register(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/user/{user_id}", h.handleUserEvents)
	r.Post("/book", h.handleBook)
	r.Delete("/book/{user_id}/{event_id}", h.handleCancel)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *EventHandler) handleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.store.ListEvents(r.Context(), storage.EventFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Page:     pageFromQuery(r),
	})
	if err != nil {
		storeFailure(w, h.logger, "list events", err, eventNotFound, "")
		return
	}
	respond.OK(w, "events", events)
}

func (h *EventHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	event, err := h.store.GetEvent(r.Context(), pathParam(r, "id"))
	if err != nil {
		storeFailure(w, h.logger, "get event", err, eventNotFound, "")
		return
	}
	respond.OK(w, "event", event)
}

func (h *EventHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Distance != nil && *req.Distance < 0 {
		respond.Error(w, http.StatusBadRequest, "distance cannot be negative")
		return
	}
	created, err := h.store.CreateEvent(r.Context(), models.Event{
		Title:    title,
		Category: trimmed(req.Category),
		Date:     trimmed(req.Date),
		Location: trimmed(req.Location),
		Distance: req.Distance,
		Cover:    req.Cover,
	})
	if err != nil {
		storeFailure(w, h.logger, "create event", err, eventNotFound, "")
		return
	}
	respond.Created(w, "Event created successfully", created)
}

func (h *EventHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch models.EventPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	patch.Title = trimmed(patch.Title)
	if patch.Title != nil && *patch.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	if patch.Distance != nil && *patch.Distance < 0 {
		respond.Error(w, http.StatusBadRequest, "distance cannot be negative")
		return
	}
	id := pathParam(r, "id")

	var (
		event models.Event
		err   error
	)
	if patch.Empty() {
		event, err = h.store.GetEvent(r.Context(), id)
	} else {
		event, err = h.store.UpdateEvent(r.Context(), id, patch)
	}
	if err != nil {
		storeFailure(w, h.logger, "update event", err, eventNotFound, "")
		return
	}
	respond.OK(w, "Event updated successfully", event)
}

func (h *EventHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteEvent(r.Context(), pathParam(r, "id")); err != nil {
		storeFailure(w, h.logger, "delete event", err, eventNotFound, "")
		return
	}
	respond.OK(w, "Event deleted successfully", nil)
}

func (h *EventHandler) handleUserEvents(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	bookings, err := h.store.ListUserEvents(r.Context(), userID)
	if err != nil {
		storeFailure(w, h.logger, "list user events", err, "Booking not found", "")
		return
	}
	respond.OK(w, "user events", bookings)
}

func (h *EventHandler) handleBook(w http.ResponseWriter, r *http.Request) {
	var req dto.BookEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.EventID = strings.TrimSpace(req.EventID)
	if req.UserID == "" || req.EventID == "" {
		respond.Error(w, http.StatusBadRequest, "user_id and event_id are required")
		return
	}
	if _, ok := allowSelfOrAdmin(w, r, req.UserID); !ok {
		return
	}
	if _, err := h.store.GetEvent(r.Context(), req.EventID); err != nil {
		storeFailure(w, h.logger, "book: get event", err, eventNotFound, "")
		return
	}

	booking, err := h.store.BookEvent(r.Context(), models.UserEvent{UserID: req.UserID, EventID: req.EventID})
	if err != nil {
		storeFailure(w, h.logger, "book event", err, "User not found", "User has already booked this event")
		return
	}
	respond.Created(w, "Event booked successfully", booking)
}

func (h *EventHandler) handleCancel(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	if err := h.store.CancelBooking(r.Context(), userID, pathParam(r, "event_id")); err != nil {
		storeFailure(w, h.logger, "cancel booking", err, "Booking not found", "")
		return
	}
	respond.OK(w, "Booking cancelled successfully", nil)
}
