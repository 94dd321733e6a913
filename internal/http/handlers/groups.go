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

const groupNotFound = "Group not found"

// GroupHandler serves communities and their membership.
type GroupHandler struct {
	store  storage.GroupStore
	logger *slog.Logger
}

func NewGroupHandler(store storage.GroupStore, logger *slog.Logger) *GroupHandler {
	return &GroupHandler{store: store, logger: logger}
}

func (h *GroupHandler) Register(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/my", h.handleMine)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Get("/{id}/members", h.handleMembers)
	r.Post("/{id}/members", h.handleAddMember)
	r.Delete("/{id}/members/{user_id}", h.handleRemoveMember)
}

func (h *GroupHandler) handleList(w http.ResponseWriter, r *http.Request) {
	groups, err := h.store.ListGroups(r.Context(), storage.GroupFilter{
		SortBy: r.URL.Query().Get("sort_by"),
		Page:   pageFromQuery(r),
	})
	if err != nil {
		storeFailure(w, h.logger, "list groups", err, groupNotFound, "")
		return
	}
	respond.OK(w, "groups", groups)
}

func (h *GroupHandler) handleMine(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	groups, err := h.store.ListUserGroups(r.Context(), claims.Subject)
	if err != nil {
		storeFailure(w, h.logger, "list my groups", err, groupNotFound, "")
		return
	}
	respond.OK(w, "my groups", groups)
}

func (h *GroupHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	group, err := h.store.GetGroup(r.Context(), pathParam(r, "id"))
	if err != nil {
		storeFailure(w, h.logger, "get group", err, groupNotFound, "")
		return
	}
	respond.OK(w, "group", group)
}

func (h *GroupHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateGroupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	created, err := h.store.CreateGroup(r.Context(), models.Group{
		Name:        name,
		Description: req.Description,
		Cover:       req.Cover,
		Icon:        req.Icon,
	})
	if err != nil {
		storeFailure(w, h.logger, "create group", err, groupNotFound, "")
		return
	}
	respond.Created(w, "Group created successfully", created)
}

func (h *GroupHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch models.GroupPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	patch.Name = trimmed(patch.Name)
	if patch.Name != nil && *patch.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name cannot be empty")
		return
	}
	id := pathParam(r, "id")

	var (
		group models.Group
		err   error
	)
	if patch.Empty() {
		group, err = h.store.GetGroup(r.Context(), id)
	} else {
		group, err = h.store.UpdateGroup(r.Context(), id, patch)
	}
	if err != nil {
		storeFailure(w, h.logger, "update group", err, groupNotFound, "")
		return
	}
	respond.OK(w, "Group updated successfully", group)
}

func (h *GroupHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteGroup(r.Context(), pathParam(r, "id")); err != nil {
		storeFailure(w, h.logger, "delete group", err, groupNotFound, "")
		return
	}
	respond.OK(w, "Group deleted successfully", nil)
}

func (h *GroupHandler) handleMembers(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if _, err := h.store.GetGroup(r.Context(), id); err != nil {
		storeFailure(w, h.logger, "members: get group", err, groupNotFound, "")
		return
	}
	members, err := h.store.ListMembers(r.Context(), id)
	if err != nil {
		storeFailure(w, h.logger, "list members", err, groupNotFound, "")
		return
	}
	respond.OK(w, "members", members)
}

func (h *GroupHandler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	var req dto.AddMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		respond.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}
	claims, ok := allowSelfOrAdmin(w, r, req.UserID)
	if !ok {
		return
	}
	if req.IsAdmin && claims.Role != models.RoleAdmin {
		respond.Error(w, http.StatusForbidden, "only admins can grant group admin")
		return
	}
	id := pathParam(r, "id")
	if _, err := h.store.GetGroup(r.Context(), id); err != nil {
		storeFailure(w, h.logger, "add member: get group", err, groupNotFound, "")
		return
	}

	member, err := h.store.AddMember(r.Context(), models.GroupMember{GroupID: id, UserID: req.UserID, IsAdmin: req.IsAdmin})
	if err != nil {
		storeFailure(w, h.logger, "add member", err, "User not found", "User is already a member of this group")
		return
	}
	respond.Created(w, "Member added successfully", member)
}

func (h *GroupHandler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	id := pathParam(r, "id")
	if _, err := h.store.GetGroup(r.Context(), id); err != nil {
		storeFailure(w, h.logger, "remove member: get group", err, groupNotFound, "")
		return
	}
	if err := h.store.RemoveMember(r.Context(), id, userID); err != nil {
		storeFailure(w, h.logger, "remove member", err, "User is not a member of this group", "")
		return
	}
	respond.OK(w, "Member removed successfully", nil)
}
