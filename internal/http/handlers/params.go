package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/nebula-be/internal/auth"
	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/middleware"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/storage"
)

// pageFromQuery reads limit/offset. Malformed values fall back to defaults.
func pageFromQuery(r *http.Request) storage.Page {
	q := r.URL.Query()
	page := storage.Page{Limit: storage.DefaultLimit}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		page.Limit = v
	}
	if v, err := strconv.Atoi(q.Get("offset")); err == nil {
		page.Offset = v
	}
	return page.Normalize()
}

func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}

// caller returns the authenticated claims. Routes are mounted behind
// middleware.Authenticate, so a missing value is answered with 401.
func caller(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return claims, true
}

// allowSelfOrAdmin lets a caller act on userID's resources when it is the
// caller's own id or the caller is an admin.
func allowSelfOrAdmin(w http.ResponseWriter, r *http.Request, userID string) (*auth.Claims, bool) {
	claims, ok := caller(w, r)
	if !ok {
		return nil, false
	}
	if claims.Subject != userID && claims.Role != models.RoleAdmin {
		respond.Error(w, http.StatusForbidden, "not allowed to access another user's data")
		return nil, false
	}
	return claims, true
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	return &t
}
