package models

import (
	"time"
)

// Profile holds a user's self-maintained display data. The social graph
// service only ever reads this table; profile editing lives elsewhere.
type Profile struct {
	UserID        string    `gorm:"primaryKey;type:varchar(36);column:user_id" json:"user_id"`
	Email         string    `gorm:"type:varchar(255);not null;default:'';column:email" json:"email"`
	Nickname      string    `gorm:"type:varchar(64);not null;default:'';column:nickname" json:"nickname"`
	Bio           string    `gorm:"type:varchar(255);not null;default:'';column:bio" json:"bio"`
	AvatarURL     string    `gorm:"type:varchar(1024);not null;default:'';column:avatar_url" json:"avatar_url"`
	BackgroundURL string    `gorm:"type:varchar(1024);not null;default:'';column:background_url" json:"background_url"`
	CreatedAt     time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "user_profiles"
}

// DisplayProfile is the read model produced by display-identity resolution.
// It always has the same shape regardless of which source resolved it.
type DisplayProfile struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Nickname      string `json:"nickname"`
	Bio           string `json:"bio"`
	AvatarURL     string `json:"avatar_url"`
	BackgroundURL string `json:"background_url"`
}
