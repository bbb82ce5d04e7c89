package models

import "time"

type CallRequestStatus = string

// Keep values stable, they are part of the public API.
const (
	CallRequestStatusPending   = CallRequestStatus("pending")
	CallRequestStatusAccepted  = CallRequestStatus("accepted")
	CallRequestStatusRejected  = CallRequestStatus("rejected")
	CallRequestStatusCancelled = CallRequestStatus("cancelled")
	CallRequestStatusExpired   = CallRequestStatus("expired")
)

type CallRequest struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	TopicID     string  `json:"topic_id" gorm:"index:idx_call_requests_pair"`
	RequesterID string  `json:"requester_id" gorm:"index:idx_call_requests_pair"`
	ResponderID *string `json:"responder_id"`

	Status      CallRequestStatus `json:"status" gorm:"index"`
	RespondedAt *time.Time        `json:"responded_at"`

	Topic     *Topic   `json:"topic,omitempty"`
	Requester *Account `json:"requester,omitempty"`
}

func (v CallRequest) IsTerminated() bool {
	return v.Status != CallRequestStatusPending
}
