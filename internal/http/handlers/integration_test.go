package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/nebula-be/internal/auth"
	"github.com/hongminglow/nebula-be/internal/config"
	"github.com/hongminglow/nebula-be/internal/middleware"
	"github.com/hongminglow/nebula-be/internal/storage/postgres"
)

// TestPostgresIntegration runs register, login and a calendar round trip
// against a live database.
func TestPostgresIntegration(t *testing.T) {
	if os.Getenv("RUN_DB_INTEGRATION") != "true" {
		t.Skip("set RUN_DB_INTEGRATION=true to run this integration test")
	}
	_ = godotenv.Load("../../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	require.NotEmpty(t, dbURL, "DATABASE_URL is required")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	store, err := postgres.New(ctx, dbURL, postgres.Options{MaxConns: 4})
	require.NoError(t, err)
	defer store.Close()

	tokens, err := auth.NewTokenManager("integration-secret", "nebula-test", "HS256")
	require.NoError(t, err)
	cfg := &config.Config{JWTTTL: time.Hour, ResetTokenTTL: time.Hour}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	authn := middleware.Authenticate(tokens)

	r := chi.NewRouter()
	r.Route("/api/auth", func(ar chi.Router) {
		NewAuthHandler(store, auth.NewPasswordHasher(4), tokens, auth.NewMemoryResetGuard(), nil, cfg, logger).Register(ar, authn)
	})
	r.With(authn).Route("/api/calendar", NewCalendarHandler(store, logger).Register)
	e := &testEnv{router: r}

	email := fmt.Sprintf("it_%d@example.com", time.Now().UnixNano())
	creds := map[string]string{"email": email, "password": "integration-pass", "name": "Integration"}

	rec, env := e.do(t, http.MethodPost, "/api/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, rec.Code, env.Message)
	rec, _ = e.do(t, http.MethodPost, "/api/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, env = e.do(t, http.MethodPost, "/api/auth/login", "", creds)
	require.Equal(t, http.StatusOK, rec.Code)
	session := decodeData[map[string]string](t, env)

	base := "/api/calendar/user/" + session["user_id"]
	rec, _ = e.do(t, http.MethodPost, base, session["access_token"], map[string]any{"day": 7, "title": "Integration"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = e.do(t, http.MethodPost, base, session["access_token"], map[string]any{"day": 7, "title": "Again"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
