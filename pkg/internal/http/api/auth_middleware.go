package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func authMiddleware(c *fiber.Ctx) error {
	tk := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if len(tk) == 0 {
		// Browser websocket clients cannot set headers.
		tk = c.Query("tk")
	}
	if len(tk) == 0 {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization required")
	}

	claims, err := services.ParseAccessToken(tk)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	account, err := services.GetAccount(claims.UserID)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "account no longer exists")
	}
	if !account.IsActive {
		return fiber.NewError(fiber.StatusForbidden, "account is suspended")
	}

	c.Locals("user", account)

	return c.Next()
}

func moderatorMiddleware(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	if user.Role < models.AccountRoleModerator {
		return fiber.NewError(fiber.StatusForbidden, "you need to be a moderator to do this")
	}

	return c.Next()
}
