package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/gravity-notes/gravity/internal/domain/entities"
	"github.com/gravity-notes/gravity/internal/usecase/auth"
)

// userContextKey is the echo context key for the authenticated user
const userContextKey = "user"

// EchoAuth returns an Echo middleware that validates the bearer token and
// stores the authenticated user in the request context
func EchoAuth(authService *auth.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractBearerToken(c.Request())
			if token == "" {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Missing token"})
			}

			user, err := authService.ValidateSession(c.Request().Context(), token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token"})
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the authenticated user stored by EchoAuth
func UserFromContext(c echo.Context) (*entities.User, bool) {
	user, ok := c.Get(userContextKey).(*entities.User)
	return user, ok
}

func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
