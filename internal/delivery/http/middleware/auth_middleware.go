package middleware

import (
	"strings"

	"ptbook/internal/delivery/http/response"
	"ptbook/internal/domain/entity"
	"ptbook/internal/domain/service"
	"ptbook/internal/usecase"

	"github.com/labstack/echo/v4"
)

// actorContextKey is the echo.Context key under which the authenticated
// actor is stored for handlers.
const actorContextKey = "actor"

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and stores the resulting
// actor on the request context for handlers.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid token format, must be Bearer token")
		}

		claims, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Invalid or expired token")
		}

		// Refresh tokens only open the /auth/refresh door, never the API.
		if claims.Type != "access" {
			return response.Unauthorized(c, "UNAUTHENTICATED", "Access token required")
		}

		roles := entity.RolesFromStrings(claims.Roles)
		if len(roles) == 0 {
			return response.Unauthorized(c, "UNAUTHENTICATED", "No valid role in token")
		}

		c.Set(actorContextKey, usecase.Actor{
			UserID: claims.UserID,
			Role:   roles[0],
		})

		return next(c)
	}
}

// RequireRole is a middleware factory that restricts a route to one role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(required entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := GetActor(c)
			if !ok {
				return response.Forbidden(c, "ACCESS_DENIED", "Permission denied: role information missing")
			}

			if actor.Role != required {
				return response.Forbidden(c, "ACCESS_DENIED", "Permission denied: require '"+required.String()+"' role")
			}

			return next(c)
		}
	}
}

// RequireStaff restricts a route to trainers and admins.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireStaff(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := GetActor(c)
		if !ok {
			return response.Forbidden(c, "ACCESS_DENIED", "Permission denied: role information missing")
		}

		if !actor.IsStaff() {
			return response.Forbidden(c, "ACCESS_DENIED", "Permission denied: staff only")
		}

		return next(c)
	}
}

// GetActor returns the authenticated actor stored by Authenticate.
func GetActor(c echo.Context) (usecase.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(usecase.Actor)

	return actor, ok
}
