package middleware

import (
	"net/http"

	"github.com/Baafi-Marcus/ASASHS-sub001/internal/entity"
	"github.com/Baafi-Marcus/ASASHS-sub001/internal/session"

	"github.com/labstack/echo/v4"
)

const contextPrincipalKey = "session_principal"

// RequireSession gates a route group on the manager being fully
// authenticated. The rotation gate holds here too: a RotationRequired
// session cannot reach anything but the rotation endpoint.
func RequireSession(manager *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			snapshot := manager.State()
			if snapshot.Kind != session.StateAuthenticated || snapshot.Principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
			}
			c.Set(contextPrincipalKey, snapshot.Principal)
			return next(c)
		}
	}
}

func RequireRole(role entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFromContext(c)
			if !ok || principal.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}

func PrincipalFromContext(c echo.Context) (*entity.Principal, bool) {
	value := c.Get(contextPrincipalKey)
	principal, ok := value.(*entity.Principal)
	return principal, ok
}
