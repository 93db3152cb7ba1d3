package models

import (
	"time"
)

// Post represents an article. Author display fields are denormalized into the
// row at creation time so the author can be rendered without a profile lookup;
// they also serve as the fallback source for display-identity resolution.
type Post struct {
	ID           string    `gorm:"primaryKey;type:varchar(36);column:id" json:"id"`
	Author       string    `gorm:"type:varchar(36);not null;index:idx_posts_author;column:author" json:"author"`
	AuthorName   string    `gorm:"type:varchar(64);not null;default:'';column:author_name" json:"author_name"`
	AuthorAvatar string    `gorm:"type:varchar(1024);not null;default:'';column:author_avatar" json:"author_avatar"`
	Title        string    `gorm:"type:varchar(255);not null;column:title" json:"title"`
	Content      string    `gorm:"type:text;not null;column:content" json:"content"`
	CreatedAt    time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Post
func (Post) TableName() string {
	return "posts"
}
