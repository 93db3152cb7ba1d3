// Package social implements the follow graph: directed follow edges between
// user identities, follower/following queries, and the notification fan-out
// that accompanies a new follow.
package social

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inkstream/inkstream/internal/auth"
	"github.com/inkstream/inkstream/internal/cache"
	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/models"
	"github.com/inkstream/inkstream/pkg/logging"
	"github.com/inkstream/inkstream/pkg/telemetry"
)

var (
	// ErrUnauthenticated is returned when no current user is resolvable
	ErrUnauthenticated = errors.New("authentication required")
	// ErrSelfFollow is returned when a user tries to follow themselves
	ErrSelfFollow = errors.New("cannot follow yourself")
	// ErrAlreadyFollowing is returned when the follow edge already exists
	ErrAlreadyFollowing = errors.New("already following this user")
)

// FollowEntry is one row of a following/followers list: the edge plus the
// resolved display identity of the counterpart.
type FollowEntry struct {
	UserID    string                 `json:"user_id"`
	CreatedAt time.Time              `json:"created_at"`
	User      *models.DisplayProfile `json:"user"`
}

// Service manages the follow graph
type Service struct {
	identity auth.Provider
	follows  *db.FollowRepository
	resolver *ResolverChain
	notifier *Notifier
	cache    *cache.Cache
	logger   *zap.Logger
}

// NewService creates a new social graph service. cache may be nil.
func NewService(identity auth.Provider, follows *db.FollowRepository, resolver *ResolverChain, notifier *Notifier, countCache *cache.Cache) *Service {
	return &Service{
		identity: identity,
		follows:  follows,
		resolver: resolver,
		notifier: notifier,
		cache:    countCache,
		logger:   logging.WithComponent("social"),
	}
}

// Follow creates a follow edge from the current user to the target and
// enqueues the notification fan-out. Uniqueness of the pair is enforced by
// the store; a duplicate insert surfaces as ErrAlreadyFollowing with the
// edge set unchanged.
func (s *Service) Follow(ctx context.Context, targetID string) (*models.Follow, error) {
	ctx, span := telemetry.StartSpan(ctx, "social.follow")
	defer span.End()

	currentID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	if currentID == targetID {
		return nil, ErrSelfFollow
	}

	edge := &models.Follow{
		FollowerID:  currentID,
		FollowingID: targetID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.follows.Create(ctx, edge); err != nil {
		if errors.Is(err, db.ErrDuplicateFollow) {
			return nil, ErrAlreadyFollowing
		}
		return nil, fmt.Errorf("failed to create follow: %w", err)
	}

	s.invalidateCounts(ctx, currentID, targetID)

	// Fan-out is best-effort and never affects the follow result
	if s.notifier != nil {
		s.notifier.Enqueue(targetID, currentID)
	}

	s.logger.Debug("follow created",
		zap.String("follower", currentID), zap.String("following", targetID))
	return edge, nil
}

// Unfollow removes the edge from the current user to the target. Removing a
// missing edge succeeds; notifications are never touched.
func (s *Service) Unfollow(ctx context.Context, targetID string) error {
	ctx, span := telemetry.StartSpan(ctx, "social.unfollow")
	defer span.End()

	currentID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return ErrUnauthenticated
	}

	if err := s.follows.Delete(ctx, currentID, targetID); err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}

	s.invalidateCounts(ctx, currentID, targetID)

	s.logger.Debug("follow removed",
		zap.String("follower", currentID), zap.String("following", targetID))
	return nil
}

// IsFollowing reports whether the current user follows the target. It is a
// read convenience: every failure, including no session, degrades to false.
func (s *Service) IsFollowing(ctx context.Context, targetID string) bool {
	currentID, ok := s.identity.CurrentUserID(ctx)
	if !ok {
		return false
	}

	exists, err := s.follows.Exists(ctx, currentID, targetID)
	if err != nil {
		s.logger.Debug("isFollowing check failed",
			zap.String("follower", currentID), zap.String("following", targetID), zap.Error(err))
		return false
	}
	return exists
}

// FollowingCount returns how many users the given user follows, 0 on failure
func (s *Service) FollowingCount(ctx context.Context, userID string) int64 {
	return s.count(ctx, cache.FollowingCountKey(userID), func() (int64, error) {
		return s.follows.CountFollowing(ctx, userID)
	})
}

// FollowersCount returns how many users follow the given user, 0 on failure
func (s *Service) FollowersCount(ctx context.Context, userID string) int64 {
	return s.count(ctx, cache.FollowersCountKey(userID), func() (int64, error) {
		return s.follows.CountFollowers(ctx, userID)
	})
}

// FollowingList returns who the user follows, newest first, each entry
// enriched with the counterpart's display identity. Returns an empty list on
// failure. Enrichment is one lookup per edge, sequentially.
func (s *Service) FollowingList(ctx context.Context, userID string) []*FollowEntry {
	follows, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to list following", zap.String("user_id", userID), zap.Error(err))
		return []*FollowEntry{}
	}

	entries := make([]*FollowEntry, 0, len(follows))
	for _, f := range follows {
		entries = append(entries, &FollowEntry{
			UserID:    f.FollowingID,
			CreatedAt: f.CreatedAt,
			User:      s.resolver.Resolve(ctx, f.FollowingID),
		})
	}
	return entries
}

// FollowersList returns who follows the user, newest first, enriched the same
// way as FollowingList.
func (s *Service) FollowersList(ctx context.Context, userID string) []*FollowEntry {
	follows, err := s.follows.ListFollowers(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to list followers", zap.String("user_id", userID), zap.Error(err))
		return []*FollowEntry{}
	}

	entries := make([]*FollowEntry, 0, len(follows))
	for _, f := range follows {
		entries = append(entries, &FollowEntry{
			UserID:    f.FollowerID,
			CreatedAt: f.CreatedAt,
			User:      s.resolver.Resolve(ctx, f.FollowerID),
		})
	}
	return entries
}

// ResolveDisplay resolves a user's display identity via the fallback chain
func (s *Service) ResolveDisplay(ctx context.Context, userID string) *models.DisplayProfile {
	return s.resolver.Resolve(ctx, userID)
}

func (s *Service) count(ctx context.Context, key string, query func() (int64, error)) int64 {
	if n, ok := s.cache.GetCount(ctx, key); ok {
		return n
	}

	n, err := query()
	if err != nil {
		s.logger.Warn("follow count query failed", zap.String("key", key), zap.Error(err))
		return 0
	}

	if err := s.cache.SetCount(ctx, key, n); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Debug("failed to cache follow count", zap.String("key", key), zap.Error(err))
	}
	return n
}

func (s *Service) invalidateCounts(ctx context.Context, followerID, followingID string) {
	err := s.cache.Delete(ctx,
		cache.FollowingCountKey(followerID),
		cache.FollowersCountKey(followingID),
	)
	if err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		s.logger.Debug("failed to invalidate follow counts", zap.Error(err))
	}
}
