package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/http/exts"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func requestOtp(c *fiber.Ctx) error {
	var data struct {
		Phone string `json:"phone" validate:"required,e164"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if _, err := services.IssueOtpCode(data.Phone); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}

func exchangeToken(c *fiber.Ctx) error {
	var data struct {
		Phone string `json:"phone" validate:"required,e164"`
		Code  string `json:"code" validate:"required,len=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.VerifyOtpCode(data.Phone, data.Code)
	if err != nil {
		return mapServiceError(err)
	}

	tk, err := services.EncodeAccessToken(account)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"token": tk,
		"user":  account,
	})
}
