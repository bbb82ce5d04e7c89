package services

import (
	"errors"
	"fmt"

	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"gorm.io/gorm"
)

// Directory is the read-only user and topic lookup the call request
// service depends on. It never mutates either.
type Directory interface {
	GetTopic(id string) (models.Topic, error)
	UserExists(id string) (bool, error)
}

type gormDirectory struct{}

func NewDirectory() Directory {
	return &gormDirectory{}
}

func (v *gormDirectory) GetTopic(id string) (models.Topic, error) {
	var topic models.Topic
	if err := database.C.Where("id = ?", id).First(&topic).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return topic, fmt.Errorf("topic %s: %w", id, ErrNotFound)
		}
		return topic, err
	}
	return topic, nil
}

func (v *gormDirectory) UserExists(id string) (bool, error) {
	var count int64
	if err := database.C.Model(&models.Account{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
