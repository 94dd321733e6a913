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

const (
	courseNotFound     = "Course not found"
	enrollmentNotFound = "User course not found"
)

// CourseHandler serves the course catalogue and enrollments.
type CourseHandler struct {
	store  storage.CourseStore
	logger *slog.Logger
}

func NewCourseHandler(store storage.CourseStore, logger *slog.Logger) *CourseHandler {
	return &CourseHandler{store: store, logger: logger}
}

func (h *CourseHandler) Register(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/user/{user_id}", h.handleUserCourses)
	r.Post("/enroll", h.handleEnroll)
	r.Put("/progress/{user_course_id}", h.handleProgress)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
}

func (h *CourseHandler) handleList(w http.ResponseWriter, r *http.Request) {
	courses, err := h.store.ListCourses(r.Context(), pageFromQuery(r))
	if err != nil {
		storeFailure(w, h.logger, "list courses", err, courseNotFound, "")
		return
	}
	respond.OK(w, "courses", courses)
}

func (h *CourseHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	course, err := h.store.GetCourse(r.Context(), pathParam(r, "id"))
	if err != nil {
		storeFailure(w, h.logger, "get course", err, courseNotFound, "")
		return
	}
	respond.OK(w, "course", course)
}

func (h *CourseHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCourseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	created, err := h.store.CreateCourse(r.Context(), models.Course{
		Title:      title,
		Instructor: trimmed(req.Instructor),
		Cover:      req.Cover,
	})
	if err != nil {
		storeFailure(w, h.logger, "create course", err, courseNotFound, "")
		return
	}
	respond.Created(w, "Course created successfully", created)
}

func (h *CourseHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch models.CoursePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	patch.Title = trimmed(patch.Title)
	if patch.Title != nil && *patch.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title cannot be empty")
		return
	}
	id := pathParam(r, "id")

	var (
		course models.Course
		err    error
	)
	if patch.Empty() {
		course, err = h.store.GetCourse(r.Context(), id)
	} else {
		course, err = h.store.UpdateCourse(r.Context(), id, patch)
	}
	if err != nil {
		storeFailure(w, h.logger, "update course", err, courseNotFound, "")
		return
	}
	respond.OK(w, "Course updated successfully", course)
}

func (h *CourseHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCourse(r.Context(), pathParam(r, "id")); err != nil {
		storeFailure(w, h.logger, "delete course", err, courseNotFound, "")
		return
	}
	respond.OK(w, "Course deleted successfully", nil)
}

func (h *CourseHandler) handleUserCourses(w http.ResponseWriter, r *http.Request) {
	userID := pathParam(r, "user_id")
	if _, ok := allowSelfOrAdmin(w, r, userID); !ok {
		return
	}
	enrollments, err := h.store.ListUserCourses(r.Context(), userID)
	if err != nil {
		storeFailure(w, h.logger, "list user courses", err, enrollmentNotFound, "")
		return
	}
	respond.OK(w, "user courses", enrollments)
}

func (h *CourseHandler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	var req dto.EnrollRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.CourseID = strings.TrimSpace(req.CourseID)
	if req.UserID == "" || req.CourseID == "" {
		respond.Error(w, http.StatusBadRequest, "user_id and course_id are required")
		return
	}
	if !validProgress(req.Progress) {
		respond.Error(w, http.StatusBadRequest, "progress must be between 0 and 100")
		return
	}
	if _, ok := allowSelfOrAdmin(w, r, req.UserID); !ok {
		return
	}
	if _, err := h.store.GetCourse(r.Context(), req.CourseID); err != nil {
		storeFailure(w, h.logger, "enroll: get course", err, courseNotFound, "")
		return
	}

	enrollment, err := h.store.Enroll(r.Context(), models.UserCourse{
		UserID:    req.UserID,
		CourseID:  req.CourseID,
		Progress:  req.Progress,
		Completed: req.Completed,
	})
	if err != nil {
		storeFailure(w, h.logger, "enroll", err, "User not found", "User is already enrolled in this course")
		return
	}
	respond.Created(w, "Enrolled successfully", enrollment)
}

func (h *CourseHandler) handleProgress(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "user_course_id")
	existing, err := h.store.GetUserCourse(r.Context(), id)
	if err != nil {
		storeFailure(w, h.logger, "get user course", err, enrollmentNotFound, "")
		return
	}
	if _, ok := allowSelfOrAdmin(w, r, existing.UserID); !ok {
		return
	}
	var patch models.ProgressPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Progress != nil && !validProgress(*patch.Progress) {
		respond.Error(w, http.StatusBadRequest, "progress must be between 0 and 100")
		return
	}
	if patch.Empty() {
		respond.OK(w, "Progress updated successfully", existing)
		return
	}

	updated, err := h.store.UpdateProgress(r.Context(), id, patch)
	if err != nil {
		storeFailure(w, h.logger, "update progress", err, enrollmentNotFound, "")
		return
	}
	respond.OK(w, "Progress updated successfully", updated)
}

func validProgress(p int) bool {
	return p >= 0 && p <= 100
}
