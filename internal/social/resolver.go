package social

import (
	"context"

	"go.uber.org/zap"

	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/models"
	"github.com/inkstream/inkstream/pkg/logging"
)

// PlaceholderNickname is the localized display name used when no real
// identity data is resolvable for a user.
const PlaceholderNickname = "用户"

// DisplayResolver is one strategy for resolving a user's display identity.
// ok=false means "not found here, try the next strategy"; resolver-internal
// failures are swallowed and also reported as ok=false.
type DisplayResolver interface {
	Resolve(ctx context.Context, userID string) (*models.DisplayProfile, bool)
}

// profileResolver prefers the user's own profile record
type profileResolver struct {
	profiles *db.ProfileRepository
	logger   *zap.Logger
}

func (r *profileResolver) Resolve(ctx context.Context, userID string) (*models.DisplayProfile, bool) {
	profile, err := r.profiles.GetByUserID(ctx, userID)
	if err != nil {
		r.logger.Debug("profile lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	if profile == nil {
		return nil, false
	}

	display := &models.DisplayProfile{
		UserID:        userID,
		Email:         profile.Email,
		Nickname:      profile.Nickname,
		Bio:           profile.Bio,
		AvatarURL:     profile.AvatarURL,
		BackgroundURL: profile.BackgroundURL,
	}
	if display.Nickname == "" {
		display.Nickname = PlaceholderNickname
	}
	if display.Email == "" {
		display.Email = PlaceholderNickname
	}
	return display, true
}

// postResolver falls back to the denormalized author fields on the user's
// most recent post
type postResolver struct {
	posts  *db.PostRepository
	logger *zap.Logger
}

func (r *postResolver) Resolve(ctx context.Context, userID string) (*models.DisplayProfile, bool) {
	post, err := r.posts.GetLatestByAuthor(ctx, userID)
	if err != nil {
		r.logger.Debug("post lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, false
	}
	if post == nil {
		return nil, false
	}

	display := &models.DisplayProfile{
		UserID:    userID,
		Email:     PlaceholderNickname,
		Nickname:  post.AuthorName,
		AvatarURL: post.AuthorAvatar,
	}
	if display.Nickname == "" {
		display.Nickname = PlaceholderNickname
	}
	return display, true
}

// ResolverChain tries each strategy in order and falls back to a synthetic
// placeholder identity when all are exhausted. It never fails.
type ResolverChain struct {
	resolvers []DisplayResolver
}

// NewResolverChain creates the standard chain: profile record first, latest
// post second, placeholder last.
func NewResolverChain(profiles *db.ProfileRepository, posts *db.PostRepository) *ResolverChain {
	logger := logging.WithComponent("display-resolver")
	return &ResolverChain{
		resolvers: []DisplayResolver{
			&profileResolver{profiles: profiles, logger: logger},
			&postResolver{posts: posts, logger: logger},
		},
	}
}

// Resolve returns a display profile for the user, always
func (c *ResolverChain) Resolve(ctx context.Context, userID string) *models.DisplayProfile {
	for _, r := range c.resolvers {
		if display, ok := r.Resolve(ctx, userID); ok {
			return display
		}
	}
	return Placeholder(userID)
}

// Placeholder builds the synthetic fallback identity
func Placeholder(userID string) *models.DisplayProfile {
	return &models.DisplayProfile{
		UserID:   userID,
		Email:    PlaceholderNickname,
		Nickname: PlaceholderNickname,
	}
}
