package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/http/exts"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func listMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	messages, err := services.ListMessagesBetween(user, c.Params("userId"), take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(messages)
}

func newMessage(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		RecipientID string `json:"recipient_id" validate:"required"`
		Content     string `json:"content" validate:"required,max=4096"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	message, err := services.NewMessage(user, data.RecipientID, data.Content)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(message)
}

func markMessagesRead(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	if err := services.MarkMessagesRead(user, c.Params("userId")); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
