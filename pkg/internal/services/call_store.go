package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/voiceconnect/backend/pkg/internal/database"
	"github.com/voiceconnect/backend/pkg/internal/models"
	"gorm.io/gorm"
)

// CallRequestStore is the durable storage contract for call request records.
// UpdateIfPending is the single-winner primitive: it applies the given
// terminal state only when the stored row is still pending, and reports
// whether this caller won the transition.
type CallRequestStore interface {
	Insert(request *models.CallRequest) error
	Get(id string) (models.CallRequest, error)
	UpdateIfPending(request models.CallRequest) (bool, error)
	ScanPendingOlderThan(deadline time.Time) ([]models.CallRequest, error)
	ScanPendingNewerThan(deadline time.Time, excludingUserId string) ([]models.CallRequest, error)
	ScanPendingByTopicAndRequester(topicId, requesterId string) (*models.CallRequest, error)
}

type gormCallRequestStore struct{}

func NewCallRequestStore() CallRequestStore {
	return &gormCallRequestStore{}
}

func (v *gormCallRequestStore) Insert(request *models.CallRequest) error {
	return database.C.Create(request).Error
}

func (v *gormCallRequestStore) Get(id string) (models.CallRequest, error) {
	var request models.CallRequest
	if err := database.C.Where("id = ?", id).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return request, fmt.Errorf("call request %s: %w", id, ErrNotFound)
		}
		return request, err
	}
	return request, nil
}

func (v *gormCallRequestStore) UpdateIfPending(request models.CallRequest) (bool, error) {
	tx := database.C.Model(&models.CallRequest{}).
		Where("id = ? AND status = ?", request.ID, models.CallRequestStatusPending).
		Updates(map[string]any{
			"status":       request.Status,
			"responder_id": request.ResponderID,
			"responded_at": request.RespondedAt,
		})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (v *gormCallRequestStore) ScanPendingOlderThan(deadline time.Time) ([]models.CallRequest, error) {
	var requests []models.CallRequest
	if err := database.C.
		Where("status = ? AND created_at < ?", models.CallRequestStatusPending, deadline).
		Find(&requests).Error; err != nil {
		return requests, err
	}
	return requests, nil
}

func (v *gormCallRequestStore) ScanPendingNewerThan(deadline time.Time, excludingUserId string) ([]models.CallRequest, error) {
	var requests []models.CallRequest
	if err := database.C.
		Where("status = ? AND created_at > ? AND requester_id != ?",
			models.CallRequestStatusPending, deadline, excludingUserId).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return requests, err
	}
	return requests, nil
}

func (v *gormCallRequestStore) ScanPendingByTopicAndRequester(topicId, requesterId string) (*models.CallRequest, error) {
	var request models.CallRequest
	if err := database.C.
		Where("topic_id = ? AND requester_id = ? AND status = ?",
			topicId, requesterId, models.CallRequestStatusPending).
		Order("created_at DESC").
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}
