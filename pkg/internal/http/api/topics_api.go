package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/http/exts"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func listTopic(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	boostedOnly := c.QueryBool("boosted", false)

	topics, err := services.ListTopics(take, boostedOnly)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(topics)
}

func getTopic(c *fiber.Ctx) error {
	topic, err := services.GetTopic(c.Params("topicId"))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(topic)
}

func createTopic(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Text string `json:"text" validate:"required,max=200"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	topic, err := services.NewTopic(user, data.Text)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(topic)
}

func boostTopic(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	topic, err := services.BoostTopic(c.Params("topicId"), user.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(topic)
}
