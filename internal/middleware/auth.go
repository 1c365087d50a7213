// Package middleware provides authentication, logging and tracing middleware for the application.
package middleware

import (
	"context"
	"strings"

	"screams/internal/config"
	"screams/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// UserHandleLocal is the Fiber locals key holding the authenticated handle.
const UserHandleLocal = "userHandle"

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// AuthRequired validates the bearer token and stores its subject, the
// user's handle, in locals and in the request context.
func AuthRequired(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return unauthorized(c, "Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return unauthorized(c, "Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return unauthorized(c, "Invalid or expired token")
	}

	handle, err := token.Claims.GetSubject()
	if err != nil || handle == "" {
		return unauthorized(c, "Invalid token structure - missing subject")
	}

	c.Locals(UserHandleLocal, handle)
	c.SetUserContext(observability.WithUserHandle(c.UserContext(), handle))

	return c.Next()
}

// HandleFromContext returns the handle set by AuthRequired, if any.
func HandleFromContext(ctx context.Context) (string, bool) {
	handle, ok := ctx.Value(observability.UserHandleKey).(string)
	return handle, ok && handle != ""
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": msg,
		"code":  "UNAUTHORIZED",
	})
}
