package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	userModel "event-guard/models/user"
	"event-guard/services/token"
	"event-guard/types"
)

// localsClaimsKey is where verified claims are stashed on the request.
const localsClaimsKey = "claims"

// RequireAuth verifies the bearer token and attaches its claims to the
// request context.
func RequireAuth(tokens *token.Service) fiber.Handler {
	return requireRoles(tokens)
}

// RequireRoles verifies the bearer token and rejects callers whose role is
// not in the allowed set.
func RequireRoles(tokens *token.Service, roles ...userModel.Role) fiber.Handler {
	return requireRoles(tokens, roles...)
}

func requireRoles(tokens *token.Service, roles ...userModel.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		var tokenString string

		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Message: "Invalid authorization header format",
					Status:  fiber.StatusUnauthorized,
				})
			}
			tokenString = tokenParts[1]
		} else {
			// Fall back to the access cookie set at login.
			tokenString = c.Cookies("access")
			if tokenString == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
					Message: "Authorization token missing",
					Status:  fiber.StatusUnauthorized,
				})
			}
		}

		claims, err := tokens.Verify(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Invalid or expired token",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if len(roles) > 0 && !roleAllowed(claims.Role, roles) {
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Forbidden",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals(localsClaimsKey, claims)
		return c.Next()
	}
}

func roleAllowed(role userModel.Role, allowed []userModel.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}

// Claims returns the verified claims attached by RequireAuth/RequireRoles,
// or nil when the request was not authenticated.
func Claims(c *fiber.Ctx) *token.Claims {
	claims, _ := c.Locals(localsClaimsKey).(*token.Claims)
	return claims
}

// UserID returns the authenticated caller's user id, or 0 when absent.
func UserID(c *fiber.Ctx) uint {
	claims := Claims(c)
	if claims == nil {
		return 0
	}
	id, err := claims.UserID()
	if err != nil {
		return 0
	}
	return id
}
