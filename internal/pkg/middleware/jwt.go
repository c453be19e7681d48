package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	jwtpkg "github.com/piresc/tebengan/internal/pkg/jwt"
	"github.com/piresc/tebengan/internal/pkg/logger"
	"github.com/piresc/tebengan/internal/pkg/models"
	"github.com/piresc/tebengan/internal/utils"
)

const actorContextKey = "actor"

// JWTAuthMiddleware authenticates the bearer token and stores the acting
// user in the echo context
func JWTAuthMiddleware(config models.JWTConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return utils.UnauthorizedResponse(c, "Authorization header is required")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return utils.UnauthorizedResponse(c, "Invalid authorization format")
			}

			actor, err := jwtpkg.ParseActor(parts[1], config)
			if err != nil {
				logger.DebugCtx(c.Request().Context(), "Rejected bearer token", logger.Err(err))
				return utils.UnauthorizedResponse(c, "Invalid token")
			}

			SetActor(c, actor)
			return next(c)
		}
	}
}

// SetActor stores actor in the echo context
func SetActor(c echo.Context, actor models.Actor) {
	c.Set(actorContextKey, actor)
	c.Set("user_id", actor.ID.String())
	c.Set("user_role", string(actor.Role))
}

// GetActor returns the actor stored by JWTAuthMiddleware
func GetActor(c echo.Context) (models.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(models.Actor)
	return actor, ok
}
