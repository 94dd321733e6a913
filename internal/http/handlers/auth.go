package handlers

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/hongminglow/nebula-be/internal/auth"
	"github.com/hongminglow/nebula-be/internal/config"
	"github.com/hongminglow/nebula-be/internal/http/respond"
	"github.com/hongminglow/nebula-be/internal/metrics"
	"github.com/hongminglow/nebula-be/internal/models"
	"github.com/hongminglow/nebula-be/internal/models/dto"
	"github.com/hongminglow/nebula-be/internal/storage"
)

const (
	tokenType         = "bearer"
	minPasswordLength = 8
)

// AuthHandler owns registration, login and the password reset flow.
type AuthHandler struct {
	store   storage.UserStore
	hasher  *auth.PasswordHasher
	tokens  *auth.TokenManager
	guard   auth.ResetGuard
	metrics *metrics.Metrics
	cfg     *config.Config
	logger  *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(store storage.UserStore, hasher *auth.PasswordHasher, tokens *auth.TokenManager, guard auth.ResetGuard, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{store: store, hasher: hasher, tokens: tokens, guard: guard, metrics: m, cfg: cfg, logger: logger}
}

// Register attaches the public auth routes to r. authn guards /user-role.
func (h *AuthHandler) Register(r chi.Router, authn func(http.Handler) http.Handler) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/forgot-password", h.handleForgotPassword)
	r.Post("/reset-password", h.handleResetPassword)
	r.With(authn).Get("/user-role", h.handleUserRole)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if err := validatePassword(req.Password); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	digest, err := h.hasher.Hash(req.Password)
	if err != nil {
		h.logger.Error("hash password failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	created, err := h.store.CreateUser(r.Context(), models.User{
		Email:        email,
		Name:         name,
		Avatar:       defaultAvatar(email),
		Role:         models.RoleUser,
		PasswordHash: digest,
	})
	if err != nil {
		h.metrics.AuthEvent("register", "failure")
		storeFailure(w, h.logger, "create user", err, "user not found", "Email already registered")
		return
	}
	h.metrics.AuthEvent("register", "success")

	resp, err := h.session(created)
	if err != nil {
		h.logger.Error("issue session token failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.Created(w, "User registered successfully", resp)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}
	user, err := h.store.FindByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		h.logger.Error("login: fetch user failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	if err != nil || !h.hasher.Verify(req.Password, user.PasswordHash) {
		h.metrics.AuthEvent("login", "failure")
		respond.Error(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	h.metrics.AuthEvent("login", "success")

	resp, err := h.session(user)
	if err != nil {
		h.logger.Error("issue session token failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respond.OK(w, "login successful", resp)
}

// handleLogout is an acknowledgement only. Session tokens are stateless and
// expire on their own.
func (h *AuthHandler) handleLogout(w http.ResponseWriter, _ *http.Request) {
	respond.OK(w, "Successfully logged out", nil)
}

func (h *AuthHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var resp dto.ForgotPasswordResponse
	user, err := h.store.FindByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	switch {
	case err == nil:
		token, err := h.tokens.Issue(user.ID, auth.Claims{Purpose: auth.PurposeReset}, h.cfg.ResetTokenTTL)
		if err != nil {
			h.logger.Error("issue reset token failed", "err", err)
			respond.Error(w, http.StatusInternalServerError, "failed to generate token")
			return
		}
		h.metrics.AuthEvent("forgot_password", "issued")
		if h.cfg.ExposeResetToken {
			resp.ResetToken = token
		}
	case errors.Is(err, storage.ErrNotFound):
		h.metrics.AuthEvent("forgot_password", "unknown_email")
	default:
		h.logger.Error("forgot password: fetch user failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to fetch user")
		return
	}
	respond.OK(w, "Password reset email sent", resp)
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validatePassword(req.NewPassword); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	claims, err := h.tokens.Verify(strings.TrimSpace(req.Token), auth.PurposeReset)
	if err != nil {
		h.metrics.AuthEvent("reset_password", "failure")
		respond.Error(w, http.StatusUnauthorized, "Invalid reset token")
		return
	}
	if _, err := h.store.GetUser(r.Context(), claims.Subject); err != nil {
		h.metrics.AuthEvent("reset_password", "failure")
		if errors.Is(err, storage.ErrNotFound) {
			respond.Error(w, http.StatusUnauthorized, "Invalid reset token")
			return
		}
		storeFailure(w, h.logger, "reset password: fetch user", err, "", "")
		return
	}
	digest, err := h.hasher.Hash(req.NewPassword)
	if err != nil {
		h.logger.Error("hash password failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > ttl {
			ttl = remaining
		}
	}
	fresh, err := h.guard.Consume(r.Context(), claims.ID, ttl)
	if err != nil {
		h.logger.Error("reset password: consume token failed", "err", err)
		respond.Error(w, http.StatusInternalServerError, "failed to reset password")
		return
	}
	if !fresh {
		h.metrics.AuthEvent("reset_password", "reused")
		respond.Error(w, http.StatusUnauthorized, "Invalid reset token")
		return
	}

	if _, err := h.store.UpdateUser(r.Context(), claims.Subject, models.UserPatch{PasswordHash: &digest}); err != nil {
		if relErr := h.guard.Release(r.Context(), claims.ID); relErr != nil {
			h.logger.Error("reset password: release token failed", "err", relErr)
		}
		storeFailure(w, h.logger, "reset password: update user", err, "User not found", "")
		return
	}
	h.metrics.AuthEvent("reset_password", "success")
	respond.OK(w, "Password reset successfully", nil)
}

func (h *AuthHandler) handleUserRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := caller(w, r)
	if !ok {
		return
	}
	user, err := h.store.GetUser(r.Context(), claims.Subject)
	if err != nil {
		storeFailure(w, h.logger, "user role", err, "User not found", "")
		return
	}
	respond.OK(w, "user role", dto.RoleResponse{Role: user.Role, UserID: user.ID})
}

func (h *AuthHandler) session(user models.User) (dto.TokenResponse, error) {
	token, err := h.tokens.Issue(user.ID, auth.Claims{Role: user.Role}, h.cfg.JWTTTL)
	if err != nil {
		return dto.TokenResponse{}, err
	}
	return dto.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.Name,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", errors.New("email is invalid")
	}
	return email, nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(strings.TrimSpace(password)) < minPasswordLength || !utf8.ValidString(password) {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > auth.MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", auth.MaxPasswordBytes)
	}
	return nil
}

func defaultAvatar(email string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(email))
	return fmt.Sprintf("https://picsum.photos/id/%d/100/100", h.Sum32()%100)
}
