package middleware

import (
	"strings"

	"pdfquiz/internal/domain"
	"pdfquiz/internal/logger"
	"pdfquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	SessionIDKey        = "sessionID" // Key for storing the session id in fiber.Ctx locals
)

// SessionAuth requires a bearer session token whose subject is the :id route parameter.
// Errors are returned so ErrorHandler renders them as 401.
func SessionAuth(tokens service.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return domain.NewUnauthorizedError("authorization header is missing")
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			return domain.NewUnauthorizedError("authorization scheme is not Bearer")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return domain.NewUnauthorizedError("token is empty")
		}

		claims, err := tokens.Validate(tokenString)
		if err != nil {
			return domain.NewUnauthorizedError("invalid session token")
		}

		sessionID := c.Params("id")
		if claims.Subject != sessionID {
			logger.Get().Debug("Session token does not match route",
				zap.String("token_session", claims.Subject),
				zap.String("route_session", sessionID),
			)
			return domain.NewUnauthorizedError("session token does not grant access to this session")
		}

		c.Locals(SessionIDKey, claims.Subject)
		return c.Next()
	}
}

// SessionIDFromContext returns the session id stored by SessionAuth, or "".
func SessionIDFromContext(c *fiber.Ctx) string {
	id, _ := c.Locals(SessionIDKey).(string)
	return id
}
