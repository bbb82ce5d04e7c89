package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/models"
)

func NewMessage(sender models.Account, recipientId, content string) (models.Message, error) {
	var message models.Message

	content = strings.TrimSpace(content)
	if len(content) == 0 {
		return message, fmt.Errorf("message content cannot be empty: %w", ErrValidation)
	}
	if _, err := GetAccount(recipientId); err != nil {
		return message, err
	}

	message = models.Message{
		ID:          uuid.NewString(),
		SenderID:    sender.ID,
		RecipientID: recipientId,
		Content:     content,
	}

	if err := database.C.Create(&message).Error; err != nil {
		return message, err
	}

	if Relay != nil {
		Relay.PushToUser(recipientId, models.WebSocketPackage{
			Action:  models.PacketMessageNew,
			Payload: message,
		})
	}

	return message, nil
}

func ListMessagesBetween(user models.Account, otherId string, take, offset int) ([]models.Message, error) {
	if take <= 0 || take > 100 {
		take = 100
	}

	var messages []models.Message
	if err := database.C.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			user.ID, otherId, otherId, user.ID).
		Order("created_at DESC").
		Limit(take).
		Offset(offset).
		Find(&messages).Error; err != nil {
		return messages, err
	}
	return messages, nil
}

func MarkMessagesRead(user models.Account, otherId string) error {
	return database.C.Model(&models.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", user.ID, otherId, false).
		Update("is_read", true).Error
}
