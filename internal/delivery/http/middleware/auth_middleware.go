package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"devconnect/internal/pkg/jwt"
)

const CtxUserIDKey = "user_id"

// AuthMiddleware resolves the bearer token to a user id before any
// protected handler runs. Tokens arrive in the x-auth-token header
// (legacy clients) or as an Authorization bearer; verification is
// stateless.
type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := tokenFromRequest(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "no token, authorization denied", nil)
		}

		claims, err := m.jwt.Validate(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "token expired", err)
			}
			return NewAppError(fiber.StatusUnauthorized, "token is not valid", err)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		return c.Next()
	}
}

// UserID extracts the identity the auth middleware attached. Handlers on
// protected routes treat a missing value as an unauthorized request, not
// a programming error.
func UserID(c fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(CtxUserIDKey).(uuid.UUID)
	return id, ok
}

func tokenFromRequest(c fiber.Ctx) (string, bool) {
	if tok := strings.TrimSpace(c.Get("x-auth-token")); tok != "" {
		return tok, true
	}
	return bearerTokenFromHeader(c.Get("Authorization"))
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
