package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/http/exts"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func fileReport(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Type        string  `json:"type" validate:"required,oneof=user topic message"`
		TargetID    string  `json:"target_id" validate:"required"`
		Reason      string  `json:"reason" validate:"required,max=200"`
		Description *string `json:"description"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	report, err := services.FileReport(user, data.Type, data.TargetID, data.Reason, data.Description)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(report)
}

func listOpenReports(c *fiber.Ctx) error {
	take := c.QueryInt("take", 0)
	offset := c.QueryInt("offset", 0)

	reports, err := services.ListOpenReports(take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(reports)
}

func reviewReport(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Status string  `json:"status" validate:"required,oneof=resolved dismissed"`
		Notes  *string `json:"notes"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	report, err := services.ReviewReport(user, c.Params("reportId"), data.Status, data.Notes)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(report)
}
