package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"gorm.io/gorm"
)

const TopicBoostDuration = 24 * time.Hour

func NewTopic(author models.Account, text string) (models.Topic, error) {
	var topic models.Topic

	text = strings.TrimSpace(text)
	if len(text) == 0 {
		return topic, fmt.Errorf("topic text cannot be empty: %w", ErrValidation)
	}

	topic = models.Topic{
		ID:       uuid.NewString(),
		Text:     text,
		AuthorID: author.ID,
	}

	if err := database.C.Create(&topic).Error; err != nil {
		return topic, err
	}
	return topic, nil
}

func GetTopic(id string) (models.Topic, error) {
	var topic models.Topic
	if err := database.C.
		Where("id = ?", id).
		Preload("Author").
		First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return topic, fmt.Errorf("topic %s: %w", id, ErrNotFound)
		}
		return topic, err
	}
	return topic, nil
}

// ListTopics returns boosted topics first, then newest first. Expired
// boosts are cleared before listing so they lose their ranking.
func ListTopics(take int, boostedOnly bool) ([]models.Topic, error) {
	if take <= 0 || take > 50 {
		take = 50
	}

	CleanupExpiredBoosts()

	tx := database.C.Preload("Author").Limit(take)
	if boostedOnly {
		tx = tx.Where("boosted = ? AND boosted_until > ?", true, time.Now())
	}

	var topics []models.Topic
	if err := tx.
		Order("boosted DESC, created_at DESC").
		Find(&topics).Error; err != nil {
		return topics, err
	}
	return topics, nil
}

func BoostTopic(topicId, userId string) (models.Topic, error) {
	topic, err := GetTopic(topicId)
	if err != nil {
		return topic, err
	}
	if _, err := GetAccount(userId); err != nil {
		return topic, err
	}

	// Boosting is free for now and lasts for a day.
	topic.Boosted = true
	topic.BoostedUntil = lo.ToPtr(time.Now().Add(TopicBoostDuration))

	if err := database.C.Save(&topic).Error; err != nil {
		return topic, err
	}
	return topic, nil
}

func CleanupExpiredBoosts() {
	database.C.Model(&models.Topic{}).
		Where("boosted = ? AND boosted_until < ?", true, time.Now()).
		Updates(map[string]any{"boosted": false, "boosted_until": nil})
}
