package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/tahara/internal/security"
)

const contextClientKey = "client"

// AuthRequired accepts a bearer token signed with the server secret.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	claims, err := security.ParseToken(handler.secretKey, token, handler.now())
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return apiError(c, fiber.StatusUnauthorized, "token expired")
		}
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextClientKey, claims.Subject)
	return c.Next()
}

func currentClient(c *fiber.Ctx) string {
	client, _ := c.Locals(contextClientKey).(string)
	return client
}
