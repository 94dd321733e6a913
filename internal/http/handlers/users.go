package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/media"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

// AvatarUploader stores an avatar image and returns its public URL.
type AvatarUploader interface {
	Upload(ctx context.Context, userID string, body io.Reader) (string, error)
}

// UserHandler serves profile reads and self-service updates.
type UserHandler struct {
	store   storage.UserStore
	avatars AvatarUploader
	logger  *slog.Logger
}

// NewUserHandler constructs the handler. avatars may be nil, in which case
// avatar uploads answer 503.
func NewUserHandler(store storage.UserStore, avatars AvatarUploader, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: store, avatars: avatars, logger: logger}
}

func (h *UserHandler) Register(r chi.Router) {
	r.Get("/", h.handleList)
	r.Get("/me", h.handleMe)
	r.Put("/me", h.handleUpdateMe)
	r.Put("/me/avatar", h.handleUploadAvatar)
	r.Get("/{id}", h.handleGet)
}

func (h *UserHandler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context(), pageFromQuery(r))
	if err != nil {
		storeFailure(w, h.logger, "list users", err, "User not found", "")
		return
	}
	respond.OK(w, "users", users)
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	user, err := h.store.GetUser(r.Context(), claims.Subject)
	if err != nil {
		storeFailure(w, h.logger, "get current user", err, "User not found", "")
		return
	}
	respond.OK(w, "current user", user)
}

func (h *UserHandler) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	var patch models.UserPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	patch.Name = trimmed(patch.Name)
	if patch.Name != nil && *patch.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	patch.Avatar = trimmed(patch.Avatar)

	var (
		user models.User
		err  error
	)
	if patch.Empty() {
		user, err = h.store.GetUser(r.Context(), claims.Subject)
	} else {
		user, err = h.store.UpdateUser(r.Context(), claims.Subject, patch)
	}
	if err != nil {
		storeFailure(w, h.logger, "update current user", err, "User not found", "")
		return
	}
	respond.OK(w, "User updated successfully", user)
}

func (h *UserHandler) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	if h.avatars == nil {
		respond.Error(w, http.StatusServiceUnavailable, "avatar storage is not configured")
		return
	}
	url, err := h.avatars.Upload(r.Context(), claims.Subject, r.Body)
	switch {
	case errors.Is(err, media.ErrTooLarge):
		respond.Error(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case errors.Is(err, media.ErrEmpty), errors.Is(err, media.ErrUnsupportedType):
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.logger.Error("upload avatar failed", "user_id", claims.Subject, "err", err)
		respond.Error(w, http.StatusBadGateway, "failed to store avatar")
		return
	}

	user, err := h.store.UpdateUser(r.Context(), claims.Subject, models.UserPatch{Avatar: &url})
	if err != nil {
		storeFailure(w, h.logger, "update avatar", err, "User not found", "")
		return
	}
	respond.OK(w, "Avatar updated successfully", user)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.store.GetUser(r.Context(), pathParam(r, "id"))
	if err != nil {
		storeFailure(w, h.logger, "get user", err, "User not found", "")
		return
	}
	respond.OK(w, "user", user)
}
