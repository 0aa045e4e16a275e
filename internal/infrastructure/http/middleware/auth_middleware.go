package middleware

import (
	stdErrors "errors"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FizzahNasir/FYP-Synkro/errors"
	"github.com/FizzahNasir/FYP-Synkro/internal/domain/entities"
	"github.com/FizzahNasir/FYP-Synkro/pkg/jwt"
)

const (
	// ActorContextKey is the echo context key holding the entities.Actor
	ActorContextKey = "actor"
	// UserIDContextKey is the echo context key holding the caller's user id
	UserIDContextKey = "user_id"
	// TeamIDContextKey is the echo context key holding the caller's team id
	TeamIDContextKey = "team_id"
)

type errorBody struct {
	Code    errors.ErrorCode `json:"code"`
	Error   string           `json:"error"`
	Message string           `json:"message"`
}

// EchoAuth returns an Echo middleware that validates the bearer token and
// sets the caller's actor, user_id and team_id into the Echo context
func EchoAuth(manager *jwt.Manager, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return reject(c, errors.ErrUnauthenticated())
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				if logger != nil {
					logger.Debug("auth.token.rejected",
						zap.String("path", c.Path()),
						zap.Error(err),
					)
				}
				if stdErrors.Is(err, jwt.ErrTokenExpired) {
					return reject(c, errors.ErrTokenExpired())
				}
				return reject(c, errors.ErrInvalidToken(err))
			}

			actor := entities.Actor{
				UserID: claims.UserID,
				TeamID: claims.TeamID,
				Email:  claims.Email,
			}
			c.Set(ActorContextKey, actor)
			c.Set(UserIDContextKey, claims.UserID)
			c.Set(TeamIDContextKey, claims.TeamID)

			return next(c)
		}
	}
}

// GetActor retrieves the authenticated actor from the Echo context
func GetActor(c echo.Context) (entities.Actor, bool) {
	actor, ok := c.Get(ActorContextKey).(entities.Actor)
	return actor, ok
}

// extractToken reads the Authorization header, falling back to the access_token cookie
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
	}

	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}

func reject(c echo.Context, appErr errors.AppError) error {
	return c.JSON(appErr.HTTPCode, errorBody{
		Code:    appErr.Code,
		Error:   appErr.Code.String(),
		Message: appErr.Message,
	})
}
