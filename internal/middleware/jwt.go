package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/dreamtoapp/admin-go-api/internal/authz"
	"github.com/dreamtoapp/admin-go-api/internal/utils"
)

const sessionLocalKey = "session"

// JWTProtected returns a middleware that validates JWT bearer tokens and
// binds the verified session to the request context. Missing or invalid
// credentials always map to 401; privilege checks happen later.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		session := sessionFromClaims(claims)
		if session == nil {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		c.Locals(sessionLocalKey, session)

		return c.Next()
	}
}

// SessionFromCtx returns the verified session bound to the request, or nil
// when the request did not pass through JWTProtected.
func SessionFromCtx(c *fiber.Ctx) *authz.Session {
	if value := c.Locals(sessionLocalKey); value != nil {
		if session, ok := value.(*authz.Session); ok {
			return session
		}
	}
	return nil
}

func sessionFromClaims(claims jwt.MapClaims) *authz.Session {
	userID := extractUserIDFromClaims(claims)
	if userID == nil {
		return nil
	}

	session := &authz.Session{UserID: *userID}

	if role, ok := claims["role"].(string); ok {
		session.Role = authz.NormalizeRole(role)
	}
	if department, ok := claims["department"].(string); ok {
		session.Department = strings.TrimSpace(department)
	}

	return session
}

func extractUserIDFromClaims(claims jwt.MapClaims) *uint {
	keys := []string{"sub", "user_id", "id"}
	for _, key := range keys {
		if value, ok := claims[key]; ok {
			if normalized, err := normalizeUserID(value); err == nil {
				return &normalized
			}
		}
	}

	return nil
}

func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("invalid subject")
		}
		return uint(v), nil
	default:
		return 0, fmt.Errorf("unsupported subject type")
	}
}
