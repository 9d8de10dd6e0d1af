package router

import (
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/session-auth/internal/handler"
	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/repository"
	"github.com/iliyamo/session-auth/internal/service"
	"github.com/iliyamo/session-auth/internal/utils"
)

func TestRoutes(t *testing.T) {
	store := repository.NewMemoryStore()
	codec := utils.NewTokenCodec("test-secret")
	sessions := service.NewSessionManager(store, codec, service.SessionConfig{AccessTTL: time.Hour, SessionTTL: time.Hour}, nil, logging.Discard())

	e := echo.New()
	RegisterRoutes(e, nil)
	RegisterAuth(e, handler.NewAuthHandler(sessions, logging.Discard()), codec, store)
	RegisterGoogle(e, handler.NewGoogleHandler(nil, sessions, false, logging.Discard()))

	var got []string
	for _, r := range e.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}
	sort.Strings(got)
	assert.Equal(t, []string{
		"GET /auth/google",
		"GET /auth/google/callback",
		"GET /healthz",
		"GET /logout",
		"GET /me",
		"POST /login",
		"POST /refresh",
		"POST /signup",
	}, got)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
