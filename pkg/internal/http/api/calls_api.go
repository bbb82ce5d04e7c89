package api

import (
	"fmt"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/http/exts"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

// Guards against double-submitted creations racing the idempotency scan.
var callRequestLocks sync.Map

func listPendingCallRequests(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	requests, err := services.Calls.ListPendingCallRequests(user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(requests)
}

func createCallRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		TopicID string `json:"topic_id" validate:"required"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	key := fmt.Sprintf("%s:%s", data.TopicID, user.ID)
	if _, loaded := callRequestLocks.LoadOrStore(key, true); loaded {
		return fiber.NewError(fiber.StatusLocked, "there is already a call request in creation progress for this topic")
	}
	defer callRequestLocks.Delete(key)

	request, err := services.Calls.CreateCallRequest(data.TopicID, user.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(request)
}

func acceptCallRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	request, err := services.Calls.AcceptCallRequest(c.Params("requestId"), user.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(request)
}

func rejectCallRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	request, err := services.Calls.RejectCallRequest(c.Params("requestId"), user.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(request)
}

func cancelCallRequest(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	request, err := services.Calls.CancelCallRequest(c.Params("requestId"), user.ID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(request)
}
