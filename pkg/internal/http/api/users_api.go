package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/http/exts"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func getUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)
	return c.JSON(user)
}

func getOthersInfo(c *fiber.Ctx) error {
	account, err := services.GetAccount(c.Params("userId"))
	if err != nil {
		return mapServiceError(err)
	}

	// Phone numbers stay private.
	account.Phone = ""

	return c.JSON(account)
}

func editUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	var data struct {
		Username          string  `json:"username" validate:"omitempty,min=3,max=32"`
		Bio               *string `json:"bio"`
		ProfilePictureUrl *string `json:"profile_picture_url"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.UpdateAccountProfile(user, data.Username, data.Bio, data.ProfilePictureUrl)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(account)
}

func addFavorite(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	account, err := services.AddFavoriteUser(user, c.Params("userId"))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(account)
}

func removeFavorite(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	account, err := services.RemoveFavoriteUser(user, c.Params("userId"))
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(account)
}
