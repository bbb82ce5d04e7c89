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

func FileReport(reporter models.Account, kind models.ReportType, targetId, reason string, description *string) (models.Report, error) {
	var report models.Report

	if len(reason) == 0 {
		return report, fmt.Errorf("report reason cannot be empty: %w", ErrValidation)
	}

	switch kind {
	case models.ReportTypeUser:
		if _, err := GetAccount(targetId); err != nil {
			return report, err
		}
	case models.ReportTypeTopic:
		if _, err := GetTopic(targetId); err != nil {
			return report, err
		}
	case models.ReportTypeMessage:
		var count int64
		if err := database.C.Model(&models.Message{}).Where("id = ?", targetId).Count(&count).Error; err != nil {
			return report, err
		} else if count == 0 {
			return report, fmt.Errorf("message %s: %w", targetId, ErrNotFound)
		}
	default:
		return report, fmt.Errorf("unknown report type %s: %w", kind, ErrValidation)
	}

	report = models.Report{
		ID:          uuid.NewString(),
		ReporterID:  reporter.ID,
		Type:        kind,
		TargetID:    targetId,
		Reason:      reason,
		Description: description,
		Status:      models.ReportStatusPending,
	}

	if err := database.C.Create(&report).Error; err != nil {
		return report, err
	}
	return report, nil
}

func ListOpenReports(take, offset int) ([]models.Report, error) {
	if take <= 0 || take > 100 {
		take = 100
	}

	var reports []models.Report
	if err := database.C.
		Where("status IN ?", []models.ReportStatus{models.ReportStatusPending, models.ReportStatusUnderReview}).
		Order("created_at ASC").
		Limit(take).
		Offset(offset).
		Find(&reports).Error; err != nil {
		return reports, err
	}
	return reports, nil
}

func ReviewReport(reviewer models.Account, reportId string, status models.ReportStatus, notes *string) (models.Report, error) {
	var report models.Report

	if status != models.ReportStatusResolved && status != models.ReportStatusDismissed {
		return report, fmt.Errorf("review outcome must be resolved or dismissed: %w", ErrValidation)
	}

	if err := database.C.Where("id = ?", reportId).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return report, fmt.Errorf("report %s: %w", reportId, ErrNotFound)
		}
		return report, err
	}
	if report.Status == models.ReportStatusResolved || report.Status == models.ReportStatusDismissed {
		return report, fmt.Errorf("report %s was already reviewed: %w", report.ID, ErrInvalidState)
	}

	report.Status = status
	report.ReviewedAt = lo.ToPtr(time.Now())
	report.ReviewedBy = lo.ToPtr(reviewer.ID)
	report.ResolutionNotes = notes

	if err := database.C.Save(&report).Error; err != nil {
		return report, err
	}
	return report, nil
}
