package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmatch-backend/internal/common"
	"finmatch-backend/internal/config"
	"finmatch-backend/internal/handlers"
	"finmatch-backend/internal/logging"
	"finmatch-backend/internal/middleware"
	"finmatch-backend/internal/models"
)

// emptyStore knows no profiles.
type emptyStore struct{}

func (emptyStore) FindByEmail(context.Context, string) (*models.UserProfile, error) {
	return nil, common.ErrNotFound
}

func (emptyStore) FindByID(context.Context, uuid.UUID) (*models.UserProfile, error) {
	return nil, common.ErrNotFound
}

func (emptyStore) Create(context.Context, *models.ProfileInput) (*models.UserProfile, error) {
	return nil, common.ErrPermanentStore
}

func (emptyStore) Delete(context.Context, uuid.UUID) error { return nil }

func (emptyStore) VerifyPassword(string, string) bool { return false }

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "router-secret", AccessTokenTTL: time.Hour},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"https://finmatch.io"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
	}
	st := emptyStore{}
	h := Handlers{
		Health:  handlers.NewHealthHandler(okPinger{}),
		Signup:  handlers.NewSignupHandler(nil),
		Auth:    handlers.NewAuthHandler(st, &cfg.JWT, logging.Discard()),
		Profile: handlers.NewProfileHandler(st),
	}
	return NewRouter(h, cfg, logging.Discard()), cfg
}

func TestRouter_Health(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/health", "/livez", "/readyz"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/signup/trial", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_ProfileRequiresToken(t *testing.T) {
	r, cfg := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := middleware.GenerateToken(models.Identity{UserID: uuid.New(), Email: "a@b.co"}, &cfg.JWT)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	// Valid token, but the profile no longer exists.
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_LoginUnknownEmail(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"nobody@example.com","password":"whatever1"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/signup/trial", nil)
	req.Header.Set("Origin", "https://finmatch.io")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "https://finmatch.io", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/signup/trial", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Root(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FinMatch")
}
