package models

import "time"

type Message struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SenderID    string `json:"sender_id" gorm:"index"`
	RecipientID string `json:"recipient_id" gorm:"index"`
	Content     string `json:"content"`
	IsRead      bool   `json:"is_read"`

	Sender    *Account `json:"sender,omitempty"`
	Recipient *Account `json:"recipient,omitempty"`
}
