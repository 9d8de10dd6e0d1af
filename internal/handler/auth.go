package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/middleware"
	"github.com/iliyamo/session-auth/internal/model"
	"github.com/iliyamo/session-auth/internal/service"
	"github.com/iliyamo/session-auth/internal/utils"
)

// requestTimeout bounds the store work done for a single request.
const requestTimeout = 5 * time.Second

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Sessions *service.SessionManager
	Log      logging.Logger
}

func NewAuthHandler(s *service.SessionManager, log logging.Logger) *AuthHandler {
	return &AuthHandler{Sessions: s, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userPart struct {
	ID    uint64  `json:"id"`
	Email string  `json:"email"`
	Name  string  `json:"name"`
	Photo *string `json:"photo"`
}
type authResp struct {
	Message     string    `json:"message"`
	User        userPart  `json:"user"`
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, Email: u.Email, Name: u.Name, Photo: u.Photo}
}

// Signup: create user and open a session.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, h.Log, service.Validation("invalid body"))
	}
	in, err := validateSignup(req)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	s, err := h.Sessions.Signup(ctx, in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return writeSession(c, http.StatusCreated, "signed up", s)
}

// Login: verify password and open a session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return writeError(c, h.Log, service.Validation("invalid body"))
	}
	in, err := validateLogin(req)
	if err != nil {
		return writeError(c, h.Log, err)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	s, err := h.Sessions.Login(ctx, in)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return writeSession(c, http.StatusOK, "logged in", s)
}

// Logout: clear the session cookie (protected). Tokens already issued
// remain valid until they expire.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.Response().Header().Add(echo.HeaderSetCookie, h.Sessions.Logout())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out", "accessToken": nil})
}

// Refresh: exchange the session cookie for a fresh access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ck, err := c.Cookie(utils.SessionCookieName)
	if err != nil || ck.Value == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing session cookie"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	access, err := h.Sessions.Refresh(ctx, ck.Value)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"accessToken": access.Token, "expiresAt": access.Exp})
}

// Me: the user resolved by the auth gate.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.UserFrom(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing authentication token"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": toUserPart(u)})
}

func writeSession(c echo.Context, status int, msg string, s service.Session) error {
	c.Response().Header().Add(echo.HeaderSetCookie, s.Cookie)
	return c.JSON(status, authResp{
		Message:     msg,
		User:        toUserPart(s.User),
		AccessToken: s.AccessToken.Token,
		ExpiresAt:   s.AccessToken.Exp,
	})
}
