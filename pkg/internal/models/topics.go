package models

import "time"

type Topic struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Text     string `json:"text"`
	AuthorID string `json:"author_id"`

	Boosted      bool       `json:"boosted"`
	BoostedUntil *time.Time `json:"boosted_until"`

	Author *Account `json:"author,omitempty"`
}
