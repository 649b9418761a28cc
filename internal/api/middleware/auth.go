package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// loginPath is reported to unauthenticated callers: the API rendering of a
// redirect to the login entry point.
const loginPath = "/auth/login"

// Auth validates the bearer token and injects the actor's identity into the
// request context: username, superuser flag, and directory group names.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthenticated(c, "authentication required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return unauthenticated(c, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return unauthenticated(c, "invalid token")
			}

			username, _ := claims["username"].(string)
			superuser, _ := claims["superuser"].(bool)

			c.Set("username", username)
			c.Set("superuser", superuser)
			c.Set("groups", claimGroups(claims["groups"]))

			return next(c)
		}
	}
}

// unauthenticated answers 401 with a login hint instead of a bare error.
func unauthenticated(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{
		"error": msg,
		"login": loginPath,
	})
}

// claimGroups converts the JSON-decoded groups claim into a string slice.
func claimGroups(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	groups := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			groups = append(groups, s)
		}
	}
	return groups
}
