package models

import (
	"time"
)

// Follow represents a directed follow relationship (follower follows following).
// The composite primary key doubles as the uniqueness constraint on the pair,
// so a duplicate follow surfaces as a duplicate-key error from the store.
type Follow struct {
	FollowerID  string    `gorm:"primaryKey;type:varchar(36);column:follower_id" json:"follower_id"`
	FollowingID string    `gorm:"primaryKey;type:varchar(36);column:following_id" json:"following_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "user_follows"
}
