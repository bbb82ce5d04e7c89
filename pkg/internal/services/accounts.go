package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"gorm.io/gorm"
)

func GetAccount(id string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, fmt.Errorf("account %s: %w", id, ErrNotFound)
		}
		return account, err
	}
	return account, nil
}

func GetOrCreateAccountByPhone(phone string) (models.Account, error) {
	var account models.Account
	err := database.C.Where("phone = ?", phone).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		account = models.Account{
			ID:       uuid.NewString(),
			Phone:    phone,
			Username: fmt.Sprintf("user_%s", uuid.NewString()[:8]),
			IsActive: true,
		}
		err = database.C.Create(&account).Error
	}
	if err != nil {
		return account, err
	}

	account.LastLoginAt = lo.ToPtr(time.Now())
	if err := database.C.Save(&account).Error; err != nil {
		return account, err
	}

	return account, nil
}

func UpdateAccountProfile(account models.Account, username string, bio, picture *string) (models.Account, error) {
	if len(username) > 0 {
		account.Username = username
	}
	if bio != nil {
		account.Bio = bio
	}
	if picture != nil {
		account.ProfilePictureUrl = picture
	}

	if err := database.C.Save(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

func AddFavoriteUser(account models.Account, targetId string) (models.Account, error) {
	if _, err := GetAccount(targetId); err != nil {
		return account, err
	}
	if lo.Contains(account.FavoriteUserIDs, targetId) {
		return account, nil
	}

	account.FavoriteUserIDs = append(account.FavoriteUserIDs, targetId)
	if err := database.C.Save(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}

func RemoveFavoriteUser(account models.Account, targetId string) (models.Account, error) {
	account.FavoriteUserIDs = lo.Filter(account.FavoriteUserIDs, func(item string, idx int) bool {
		return item != targetId
	})
	if err := database.C.Save(&account).Error; err != nil {
		return account, err
	}
	return account, nil
}
