package models

import (
	"time"
)

// Account holds login credentials. Display data lives in Profile; the two are
// created together at registration and share the user id.
type Account struct {
	ID           string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:accounts_ux_email;column:email" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null;column:password_hash" json:"-"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}
