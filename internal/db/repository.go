package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/inkstream/inkstream/internal/models"
)

// ErrDuplicateFollow is returned when inserting a follow edge that already
// exists. The uniqueness constraint lives in the storage layer (composite
// primary key on user_follows), so this is the canonical duplicate signal.
var ErrDuplicateFollow = errors.New("follow relationship already exists")

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FollowRepository provides follow-edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Create inserts a follow edge. A duplicate pair is reported as
// ErrDuplicateFollow; there is no pre-insert existence read.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateFollow
		}
		return err
	}
	return nil
}

// Delete removes a follow edge. Deleting a missing edge is not an error.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

// Exists reports whether a follow edge exists
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountFollowing counts how many users the given user follows
func (r *FollowRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowers counts how many users follow the given user
func (r *FollowRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&count).Error
	return count, err
}

// ListFollowing returns the edges where the user is the follower, newest first
func (r *FollowRepository) ListFollowing(ctx context.Context, userID string) ([]*models.Follow, error) {
	var follows []*models.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

// ListFollowers returns the edges where the user is followed, newest first
func (r *FollowRepository) ListFollowers(ctx context.Context, userID string) ([]*models.Follow, error) {
	var follows []*models.Follow
	err := r.db.WithContext(ctx).
		Where("following_id = ?", userID).
		Order("created_at DESC").
		Find(&follows).Error
	return follows, err
}

// ProfileRepository provides profile database operations
type ProfileRepository struct {
	*Repository
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(repo *Repository) *ProfileRepository {
	return &ProfileRepository{Repository: repo}
}

// GetByUserID retrieves a profile by user ID
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update updates a profile
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// PostRepository provides post database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetLatestByAuthor retrieves the most recent post by the given author
func (r *PostRepository) GetLatestByAuthor(ctx context.Context, author string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).
		Where("author = ?", author).
		Order("created_at DESC").
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// ListRecent returns the newest posts up to limit
func (r *PostRepository) ListRecent(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// NotificationRepository provides notification database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create creates a new follow notification
func (r *NotificationRepository) Create(ctx context.Context, notif *models.FollowNotification) error {
	return r.db.WithContext(ctx).Create(notif).Error
}

// ListByRecipient returns a user's notifications, newest first
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipient string, limit int) ([]*models.FollowNotification, error) {
	var notifs []*models.FollowNotification
	err := r.db.WithContext(ctx).
		Where("recipient = ?", recipient).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, recipient string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FollowNotification{}).
		Where("recipient = ? AND read = ?", recipient, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead marks all of a user's notifications as read
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipient string) error {
	return r.db.WithContext(ctx).
		Model(&models.FollowNotification{}).
		Where("recipient = ? AND read = ?", recipient, false).
		Update("read", true).Error
}

// AccountRepository provides account database operations
type AccountRepository struct {
	*Repository
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(repo *Repository) *AccountRepository {
	return &AccountRepository{Repository: repo}
}

// GetByID retrieves an account by ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetByEmail retrieves an account by email
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// Create creates a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}
