package api

import (
	"errors"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/voiceconnect/backend/pkg/internal/services"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/otp", requestOtp)
			auth.Post("/token", exchangeToken)
		}

		api.Get("/users/me", authMiddleware, getUserinfo)
		api.Put("/users/me", authMiddleware, editUserinfo)
		api.Get("/users/:userId", getOthersInfo)
		api.Post("/users/me/favorites/:userId", authMiddleware, addFavorite)
		api.Delete("/users/me/favorites/:userId", authMiddleware, removeFavorite)

		topics := api.Group("/topics").Name("Topics API")
		{
			topics.Get("/", listTopic)
			topics.Get("/:topicId", getTopic)
			topics.Post("/", authMiddleware, createTopic)
			topics.Post("/:topicId/boost", authMiddleware, boostTopic)
		}

		calls := api.Group("/calls").Name("Calls API")
		{
			calls.Get("/requests/pending", authMiddleware, listPendingCallRequests)
			calls.Post("/requests", authMiddleware, createCallRequest)
			calls.Post("/requests/:requestId/accept", authMiddleware, acceptCallRequest)
			calls.Post("/requests/:requestId/reject", authMiddleware, rejectCallRequest)
			calls.Post("/requests/:requestId/cancel", authMiddleware, cancelCallRequest)
		}

		messages := api.Group("/messages").Name("Messages API")
		{
			messages.Get("/:userId", authMiddleware, listMessage)
			messages.Post("/", authMiddleware, newMessage)
			messages.Put("/:userId/read", authMiddleware, markMessagesRead)
		}

		reports := api.Group("/reports").Name("Reports API")
		{
			reports.Post("/", authMiddleware, fileReport)
			reports.Get("/open", authMiddleware, moderatorMiddleware, listOpenReports)
			reports.Put("/:reportId/review", authMiddleware, moderatorMiddleware, reviewReport)
		}

		api.Get("/gateway", authMiddleware, websocket.New(gateway))
	}
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrInvalidOperation):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrInvalidState):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrExpired):
		return fiber.NewError(fiber.StatusGone, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrValidation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
