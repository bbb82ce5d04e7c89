package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReportType = string

const (
	ReportTypeUser    = ReportType("user")
	ReportTypeTopic   = ReportType("topic")
	ReportTypeMessage = ReportType("message")
)

type ReportStatus = string

const (
	ReportStatusPending     = ReportStatus("pending")
	ReportStatusUnderReview = ReportStatus("under_review")
	ReportStatusResolved    = ReportStatus("resolved")
	ReportStatusDismissed   = ReportStatus("dismissed")
)

type Report struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ReporterID  string     `json:"reporter_id"`
	Type        ReportType `json:"type"`
	TargetID    string     `json:"target_id"`
	Reason      string     `json:"reason"`
	Description *string    `json:"description"`

	Status          ReportStatus `json:"status"`
	ReviewedAt      *time.Time   `json:"reviewed_at"`
	ReviewedBy      *string      `json:"reviewed_by"`
	ResolutionNotes *string      `json:"resolution_notes"`

	Metadata datatypes.JSONMap `json:"metadata"`
}
