package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	UsernameContextKey = "username"
	TenantContextKey   = "tenant_id"
)

// Claims identify the calling user and the tenant every operation is scoped to.
type Claims struct {
	Username string `json:"username"`
	TenantID int    `json:"tenant"`
	jwt.RegisteredClaims
}

// AuthRequired validates the bearer token and stores username/tenant in the
// request context. Stream clients cannot set headers, so a token query
// parameter is accepted as a fallback.
func AuthRequired(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ""
		if authHeader := c.Get("Authorization"); authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"code":    "UNAUTHORIZED",
					"message": "Invalid authorization header format",
				})
			}
			token = parts[1]
		} else {
			token = c.Query("token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Missing credentials",
			})
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !parsed.Valid || claims.Username == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "Invalid or expired token",
			})
		}

		c.Locals(UsernameContextKey, claims.Username)
		c.Locals(TenantContextKey, claims.TenantID)

		return c.Next()
	}
}

func GetUsername(c *fiber.Ctx) string {
	username, _ := c.Locals(UsernameContextKey).(string)
	return username
}

func GetTenantID(c *fiber.Ctx) int {
	tenantID, _ := c.Locals(TenantContextKey).(int)
	return tenantID
}
