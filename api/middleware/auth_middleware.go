package middleware

import (
	"context"
	"net/http"
	"strings"

	"opsvault/internal/entity"
	"opsvault/internal/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AccountSource is the slice of the user store the middleware needs to map a
// token back to a live account.
type AccountSource interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type AuthMiddleware struct {
	JWT   *utils.JWTManager
	Users AccountSource
}

// RequireAuth verifies the bearer token and that the account behind it still
// exists and is active. A session token outlives deactivation, so the account
// row decides whether the caller is let in; the role is read from the row for
// the same reason.
func (m AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.JWT == nil || m.Users == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		token := extractBearerToken(c.Request())
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		claims, err := m.JWT.ParseSessionToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		user, err := m.Users.FindByID(c.Request().Context(), userID)
		if err != nil {
			return err
		}
		if user == nil || !user.IsActive {
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		SetAuthContext(c, user.ID, string(user.Role))
		return next(c)
	}
}

func extractBearerToken(r *http.Request) string {
	authorization := r.Header.Get("Authorization")
	if authorization == "" {
		return ""
	}
	parts := strings.SplitN(authorization, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
