package models

import (
	"time"

	"gorm.io/datatypes"
)

type AccountRole = int8

const (
	AccountRoleUser = AccountRole(iota)
	AccountRoleModerator
	AccountRoleAdmin
)

type Account struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username          string  `json:"username"`
	Bio               *string `json:"bio"`
	ProfilePictureUrl *string `json:"profile_picture_url"`
	Phone             string  `json:"phone" gorm:"uniqueIndex"`

	Role     AccountRole `json:"role"`
	IsActive bool        `json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`

	FavoriteUserIDs datatypes.JSONSlice[string] `json:"favorite_user_ids"`

	Topics []Topic `json:"topics" gorm:"foreignKey:AuthorID"`
}
