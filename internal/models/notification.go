package models

import (
	"time"
)

// FollowNotification is the fan-out record delivered to a user who gained a
// follower. ActorName and ActorAvatar are a snapshot of the actor's display
// identity at follow time; they are not kept in sync with later profile edits.
type FollowNotification struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Recipient   string    `gorm:"type:varchar(36);not null;index:idx_follow_notifications_recipient;column:recipient" json:"recipient"`
	Actor       string    `gorm:"type:varchar(36);not null;column:actor" json:"actor"`
	ActorName   string    `gorm:"type:varchar(64);not null;default:'';column:actor_name" json:"actor_name"`
	ActorAvatar string    `gorm:"type:varchar(1024);not null;default:'';column:actor_avatar" json:"actor_avatar"`
	CreatedAt   time.Time `gorm:"not null;column:created_at" json:"created_at"`
	Read        bool      `gorm:"not null;default:false;column:read" json:"read"`
}

// TableName specifies the table name for FollowNotification
func (FollowNotification) TableName() string {
	return "follow_notifications"
}
