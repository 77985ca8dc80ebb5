package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/qrave1/MeetPlanner/internal/domain/events"
	"github.com/qrave1/MeetPlanner/internal/domain/runtime"
	"github.com/qrave1/MeetPlanner/internal/infra/appctx"
)

const tokenName = "authToken"

type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTAuthMiddleware пропускает запрос с токеном пользователя или админа.
// Токен берется из cookie jwt, заголовка authToken или query параметра authToken.
func JWTAuthMiddleware(userTokens, adminTokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return c.JSON(
					http.StatusUnauthorized,
					events.NewEnvelope(true, "AuthorizationToken is missing in request", http.StatusUnauthorized, nil),
				)
			}

			subject, ok := verify(token, userTokens, adminTokens)
			if !ok {
				return c.JSON(
					http.StatusUnauthorized,
					events.NewEnvelope(true, "Invalid or expired auth token", http.StatusUnauthorized, nil),
				)
			}

			c.SetRequest(
				c.Request().WithContext(
					appctx.WithSubject(c.Request().Context(), subject),
				),
			)

			return next(c)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie("jwt"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	if token := c.Request().Header.Get(tokenName); token != "" {
		return token
	}

	return c.QueryParam(tokenName)
}

func verify(token string, userTokens, adminTokens TokenVerifier) (appctx.Subject, bool) {
	if id, err := userTokens.Verify(token); err == nil {
		return appctx.Subject{ID: id, Role: runtime.RoleUser}, true
	}

	if id, err := adminTokens.Verify(token); err == nil {
		return appctx.Subject{ID: id, Role: runtime.RoleAdmin}, true
	}

	return appctx.Subject{}, false
}
