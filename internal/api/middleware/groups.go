package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luzdental/clinic-system/internal/api/metrics"
	"github.com/luzdental/clinic-system/internal/core/domain"
)

// RequireGroups is the authorization gate. Evaluation order, short-circuit:
//
//  1. no authenticated identity  -> 401 with login hint
//  2. superuser                  -> allow
//  3. member of any allowed group -> allow
//  4. otherwise                  -> 403, terminal
//
// Missing or partially created groups degrade to deny-by-default: an
// identity that is in none of the allowed groups is refused, never allowed.
func RequireGroups(allowed ...domain.Group) echo.MiddlewareFunc {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, g := range allowed {
		allowedSet[string(g)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			username, _ := c.Get("username").(string)
			if username == "" {
				return unauthenticated(c, "authentication required")
			}

			if superuser, _ := c.Get("superuser").(bool); superuser {
				return next(c)
			}

			groups, _ := c.Get("groups").([]string)
			for _, g := range groups {
				if _, ok := allowedSet[g]; ok {
					return next(c)
				}
			}

			metrics.AuthorizationDeniedTotal.WithLabelValues(c.Path()).Inc()
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
	}
}
