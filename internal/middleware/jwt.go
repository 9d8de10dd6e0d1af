package middleware // middleware provides the auth gate and request logging for echo

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/session-auth/internal/logging"
	"github.com/iliyamo/session-auth/internal/model"
	"github.com/iliyamo/session-auth/internal/repository"
	"github.com/iliyamo/session-auth/internal/utils"
)

// Codes carried in the "code" field of 401 responses, so clients can tell
// an expired session (refresh or re-login) from a broken one.
const (
	CodeTokenInvalid    = "token_invalid"
	CodeTokenExpired    = "token_expired"
	CodeAccountNotFound = "account_not_found"
)

// UserLookup is the store access the gate needs.
type UserLookup interface {
	FindUserByID(ctx context.Context, id uint64) (model.User, error)
}

// SessionAuth returns an Echo middleware that authenticates a request by
// its session token. The Authorization cookie takes precedence over an
// "Authorization: Bearer" header. A verified token is checked against the
// store: the user must still exist and still own the claimed email. The
// resolved user is placed on the request context, see UserFrom.
func SessionAuth(codec *utils.TokenCodec, users UserLookup, log logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := TokenFrom(c.Request())
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing authentication token"})
			}

			claims, err := codec.Verify(raw)
			if errors.Is(err, utils.ErrTokenExpired) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "token expired", "code": CodeTokenExpired})
			}
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "wrong authentication token", "code": CodeTokenInvalid})
			}

			ctx := c.Request().Context()
			u, err := users.FindUserByID(ctx, claims.UserID)
			if errors.Is(err, repository.ErrNotFound) || (err == nil && u.Email != claims.Email) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "account not found", "code": CodeAccountNotFound})
			}
			if err != nil {
				log.Error(ctx, "auth gate: load user failed", "user_id", claims.UserID, "error", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
			}

			c.SetRequest(c.Request().WithContext(WithUser(ctx, u)))
			return next(c)
		}
	}
}

// TokenFrom extracts the raw session token from r: the Authorization
// cookie when present and non-empty, else a Bearer header.
func TokenFrom(r *http.Request) string {
	if ck, err := r.Cookie(utils.SessionCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := r.Header.Get("Authorization")
	if raw, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(raw)
	}
	return ""
}
