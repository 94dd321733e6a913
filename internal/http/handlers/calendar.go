package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/models/dto"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const calendarNotFound = "Event not found"

// CalendarHandler serves per-user day notes.
type CalendarHandler struct {
	store  storage.CalendarStore
	logger *slog.Logger
}

func NewCalendarHandler(store storage.CalendarStore, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{store: store, logger: logger}
}

func (h *CalendarHandler) Register(r chi.Router) {
	r.Get("/user/{user_id}", h.handleList)
	r.Post("/user/{user_id}", h.handleCreate)
	r.Put("/user/{user_id}/{day}", h.handleUpdate)
	r.Delete("/user/{user_id}/{day}", h.handleDelete)
}

func (h *CalendarHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	entries, err := h.store.ListCalendarEvents(r.Context(), userID)
	if err != nil {
		storeFailure(w, h.logger, "list calendar", err, calendarNotFound, "")
		return
	}
	respond.OK(w, "calendar events", entries)
}

func (h *CalendarHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	var req dto.CreateCalendarEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validDay(req.Day) {
		respond.Error(w, http.StatusBadRequest, "day must be between 1 and 31")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		kind = models.DefaultCalendarType
	}

	created, err := h.store.CreateCalendarEvent(r.Context(), models.CalendarEvent{
		UserID: userID,
		Day:    req.Day,
		Title:  title,
		Type:   kind,
	})
	if err != nil {
		storeFailure(w, h.logger, "create calendar event", err, "User not found", "Event already exists for this day")
		return
	}
	respond.Created(w, "Event created successfully", created)
}

func (h *CalendarHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	var req dto.UpdateCalendarEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	updated, err := h.store.UpdateCalendarEvent(r.Context(), userID, day, title)
	if err != nil {
		storeFailure(w, h.logger, "update calendar event", err, calendarNotFound, "")
		return
	}
	respond.OK(w, "Event updated successfully", updated)
}

func (h *CalendarHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	day, ok := dayParam(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCalendarEvent(r.Context(), userID, day); err != nil {
		storeFailure(w, h.logger, "delete calendar event", err, calendarNotFound, "")
		return
	}
	respond.OK(w, "Event deleted successfully", nil)
}

func dayParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	day, err := strconv.Atoi(pathParam(r, "day"))
	if err != nil || !validDay(day) {
		respond.Error(w, http.StatusBadRequest, "day must be between 1 and 31")
		return 0, false
	}
	return day, true
}

func validDay(day int) bool {
	return day >= 1 && day <= 31
}
