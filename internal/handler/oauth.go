package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/oauth"
	"github.com/iliyamo/session-auth/internal/service"
	"github.com/iliyamo/session-auth/internal/utils"
)

const (
	stateCookie    = "oauth_state"
	verifierCookie = "oauth_verifier"
	flowMaxAge     = 600 // seconds a consent round-trip may take
)

// IdentityProvider is the part of an OAuth collaborator the handlers use.
type IdentityProvider interface {
	AuthCodeURL(state, verifier string) string
	Identify(ctx context.Context, code, verifier string) (service.ExternalIdentity, error)
}

// GoogleHandler serves the Google sign-in redirect and callback.
type GoogleHandler struct {
	Provider IdentityProvider
	Sessions *service.SessionManager
	Secure   bool
	Log      logging.Logger
}

func NewGoogleHandler(p IdentityProvider, s *service.SessionManager, secure bool, log logging.Logger) *GoogleHandler {
	return &GoogleHandler{Provider: p, Sessions: s, Secure: secure, Log: log}
}

// Start redirects to the consent page. State and PKCE verifier travel in
// short-lived HttpOnly cookies.
func (h *GoogleHandler) Start(c echo.Context) error {
	state, err := utils.RandomHex(16)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	verifier := oauth2.GenerateVerifier()
	c.SetCookie(h.flowCookie(stateCookie, state, flowMaxAge))
	c.SetCookie(h.flowCookie(verifierCookie, verifier, flowMaxAge))
	return c.Redirect(http.StatusFound, h.Provider.AuthCodeURL(state, verifier))
}

// Callback completes the flow and opens a session.
func (h *GoogleHandler) Callback(c echo.Context) error {
	if e := c.QueryParam("error"); e != "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authorization denied", "error": e})
	}
	state, err := c.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != c.QueryParam("state") {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "state mismatch"})
	}
	verifier, err := c.Cookie(verifierCookie)
	if err != nil || verifier.Value == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing verifier"})
	}
	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "missing code"})
	}
	c.SetCookie(h.flowCookie(stateCookie, "", -1))
	c.SetCookie(h.flowCookie(verifierCookie, "", -1))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*requestTimeout)
	defer cancel()

	id, err := h.Provider.Identify(ctx, code, verifier.Value)
	if errors.Is(err, oauth.ErrEmailNotVerified) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "email not verified"})
	}
	if err != nil {
		h.Log.Warn(ctx, "google identify failed", "error", err)
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "authorization failed"})
	}

	s, err := h.Sessions.ExternalLogin(ctx, id)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return writeSession(c, http.StatusOK, "logged in", s)
}

func (h *GoogleHandler) flowCookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/auth/google",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
