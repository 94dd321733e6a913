package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/nebula-be/internal/auth"
	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/models/dto"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const contentNotFound = "Content not found"

// ContentHandler serves the discovery feed.
type ContentHandler struct {
	store  storage.ContentStore
	logger *slog.Logger
}

func NewContentHandler(store storage.ContentStore, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{store: store, logger: logger}
}

func (h *ContentHandler) Register(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *ContentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.store.ListContent(r.Context(), storage.ContentFilter{
		Category: strings.TrimSpace(q.Get("category")),
		SortBy:   q.Get("sort_by"),
		Page:     pageFromQuery(r),
	})
	if err != nil {
		storeFailure(w, h.logger, "list content", err, contentNotFound, "")
		return
	}
	respond.OK(w, "content", items)
}

func (h *ContentHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	item, err := h.store.GetContent(r.Context(), pathParam(r, "id"))
	if err != nil {
		storeFailure(w, h.logger, "get content", err, contentNotFound, "")
		return
	}
	respond.OK(w, "content", item)
}

func (h *ContentHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var req dto.CreateContentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	author := claims.Subject
	created, err := h.store.CreateContent(r.Context(), models.Content{
		Title:       title,
		Description: req.Description,
		Category:    trimmed(req.Category),
		Cover:       req.Cover,
		AuthorID:    &author,
	})
	if err != nil {
		storeFailure(w, h.logger, "create content", err, "User not found", "")
		return
	}
	respond.Created(w, "Content created successfully", created)
}

func (h *ContentHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if !h.authorize(w, r, id) {
		return
	}
	var patch models.ContentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	patch.Title = trimmed(patch.Title)
	if patch.Title != nil && *patch.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title cannot be empty")
		return
	}

	var (
		item models.Content
		err  error
	)
	if patch.Empty() {
		item, err = h.store.GetContent(r.Context(), id)
	} else {
		item, err = h.store.UpdateContent(r.Context(), id, patch)
	}
	if err != nil {
		storeFailure(w, h.logger, "update content", err, contentNotFound, "")
		return
	}
	respond.OK(w, "Content updated successfully", item)
}

func (h *ContentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if !h.authorize(w, r, id) {
		return
	}
	if err := h.store.DeleteContent(r.Context(), id); err != nil {
		storeFailure(w, h.logger, "delete content", err, contentNotFound, "")
		return
	}
	respond.OK(w, "Content deleted successfully", nil)
}

// authorize lets the author or an admin modify a content item.
func (h *ContentHandler) authorize(w http.ResponseWriter, r *http.Request, id string) bool {
	claims, ok := caller(w, r)
	if !ok {
		return false
	}
	item, err := h.store.GetContent(r.Context(), id)
	if err != nil {
		storeFailure(w, h.logger, "get content", err, contentNotFound, "")
		return false
	}
	if !ownsOrAdmin(claims, item.AuthorID) {
		respond.Error(w, http.StatusForbidden, "only the author can modify this content")
		return false
	}
	return true
}

func ownsOrAdmin(claims *auth.Claims, owner *string) bool {
	if claims.Role == models.RoleAdmin {
		return true
	}
	return owner != nil && *owner == claims.Subject
}
