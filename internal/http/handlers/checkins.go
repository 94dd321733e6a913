package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/models/dto"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const checkinNotFound = "Checkin not found"

// CheckinHandler serves dated journal entries.
type CheckinHandler struct {
	store  storage.CheckinStore
	logger *slog.Logger
}

func NewCheckinHandler(store storage.CheckinStore, logger *slog.Logger) *CheckinHandler {
	return &CheckinHandler{store: store, logger: logger}
}

func (h *CheckinHandler) Register(r chi.Router) {
	r.Get("/user/{user_id}", h.handleList)
	r.Post("/user/{user_id}", h.handleCreate)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *CheckinHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	q := r.URL.Query()
	filter := storage.CheckinFilter{
		StartDate: strings.TrimSpace(q.Get("start_date")),
		EndDate:   strings.TrimSpace(q.Get("end_date")),
	}
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d != "" && !validDate(d) {
			respond.Error(w, http.StatusBadRequest, "dates must use YYYY-MM-DD")
			return
		}
	}

	checkins, err := h.store.ListCheckins(r.Context(), userID, filter)
	if err != nil {
		storeFailure(w, h.logger, "list checkins", err, checkinNotFound, "")
		return
	}
	respond.OK(w, "checkins", checkins)
}

func (h *CheckinHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	var req dto.CreateCheckinRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	date := strings.TrimSpace(req.Date)
	if !validDate(date) {
		respond.Error(w, http.StatusBadRequest, "date must use YYYY-MM-DD")
		return
	}
	kind := strings.TrimSpace(req.Type)
	if kind == "" {
		respond.Error(w, http.StatusBadRequest, "type is required")
		return
	}

	created, err := h.store.CreateCheckin(r.Context(), models.Checkin{
		UserID:  userID,
		Date:    date,
		Type:    kind,
		Content: req.Content,
		Emoji:   req.Emoji,
	})
	if err != nil {
		storeFailure(w, h.logger, "create checkin", err, "User not found", "")
		return
	}
	respond.Created(w, "Checkin created successfully", created)
}

// handleUpdate ignores empty strings so a client can send both fields blindly.
func (h *CheckinHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.owned(w, r)
	if !ok {
		return
	}
	var patch models.CheckinPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Content != nil && *patch.Content == "" {
		patch.Content = nil
	}
	if patch.Emoji != nil && *patch.Emoji == "" {
		patch.Emoji = nil
	}
	if patch.Empty() {
		respond.OK(w, "Checkin updated successfully", existing)
		return
	}

	updated, err := h.store.UpdateCheckin(r.Context(), existing.ID, patch)
	if err != nil {
		storeFailure(w, h.logger, "update checkin", err, checkinNotFound, "")
		return
	}
	respond.OK(w, "Checkin updated successfully", updated)
}

func (h *CheckinHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	existing, ok := h.owned(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCheckin(r.Context(), existing.ID); err != nil {
		storeFailure(w, h.logger, "delete checkin", err, checkinNotFound, "")
		return
	}
	respond.OK(w, "Checkin deleted successfully", nil)
}

func (h *CheckinHandler) owned(w http.ResponseWriter, r *http.Request) (models.Checkin, bool) {
	existing, err := h.store.GetCheckin(r.Context(), pathParam(r, "id"))
	if err != nil {
		storeFailure(w, h.logger, "get checkin", err, checkinNotFound, "")
		return models.Checkin{}, false
	}
	if _, ok := allowSelfOrAdmin(w, r, existing.UserID); !ok {
		return models.Checkin{}, false
	}
	return existing, true
}

func validDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
