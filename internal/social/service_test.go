package social

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkstream/inkstream/internal/auth"
	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/events"
	"github.com/inkstream/inkstream/internal/models"
)

type serviceFixture struct {
	svc      *Service
	repo     *db.Repository
	notifier *Notifier
	bus      *events.Bus
	stop     func(context.Context) error
}

func setupService(t *testing.T, migrateNotifications bool) *serviceFixture {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	tables := []interface{}{&models.Profile{}, &models.Post{}, &models.Follow{}}
	if migrateNotifications {
		tables = append(tables, &models.FollowNotification{})
	}
	require.NoError(t, gdb.AutoMigrate(tables...))

	repo := db.NewRepository(gdb)
	resolver := NewResolverChain(db.NewProfileRepository(repo), db.NewPostRepository(repo))
	bus := events.NewBus()
	notifier := NewNotifier(db.NewNotificationRepository(repo), resolver, bus, 16)
	stop := notifier.Start(1)
	t.Cleanup(func() { _ = stop(context.Background()) })

	svc := NewService(auth.ContextProvider{}, db.NewFollowRepository(repo), resolver, notifier, nil)
	return &serviceFixture{svc: svc, repo: repo, notifier: notifier, bus: bus, stop: stop}
}

func asUser(userID string) context.Context {
	return auth.WithUserID(context.Background(), userID)
}

func (f *serviceFixture) drain(t *testing.T) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for f.notifier.QueueLen() > 0 {
		select {
		case <-deadline:
			t.Fatal("notifier queue did not drain")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
	// Let the worker finish the job it may have in flight
	time.Sleep(20 * time.Millisecond)
}

func TestService_FollowOnceThenDuplicate(t *testing.T) {
	f := setupService(t, true)

	edge, err := f.svc.Follow(asUser("alice"), "bob")
	require.NoError(t, err)
	require.NotNil(t, edge)
	assert.Equal(t, "alice", edge.FollowerID)
	assert.Equal(t, "bob", edge.FollowingID)

	_, err = f.svc.Follow(asUser("alice"), "bob")
	assert.ErrorIs(t, err, ErrAlreadyFollowing)

	assert.Equal(t, int64(1), f.svc.FollowingCount(context.Background(), "alice"))
}

func TestService_SelfFollowRejected(t *testing.T) {
	f := setupService(t, true)

	_, err := f.svc.Follow(asUser("alice"), "alice")
	assert.ErrorIs(t, err, ErrSelfFollow)
	assert.Equal(t, int64(0), f.svc.FollowingCount(context.Background(), "alice"))
}

func TestService_Unauthenticated(t *testing.T) {
	f := setupService(t, true)

	_, err := f.svc.Follow(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = f.svc.Unfollow(context.Background(), "bob")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Read query degrades to false, never an error
	assert.False(t, f.svc.IsFollowing(context.Background(), "bob"))
}

func TestService_UnfollowIdempotent(t *testing.T) {
	f := setupService(t, true)

	// No edge exists; unfollow still succeeds
	require.NoError(t, f.svc.Unfollow(asUser("alice"), "bob"))

	_, err := f.svc.Follow(asUser("alice"), "bob")
	require.NoError(t, err)
	require.NoError(t, f.svc.Unfollow(asUser("alice"), "bob"))
	require.NoError(t, f.svc.Unfollow(asUser("alice"), "bob"))

	assert.False(t, f.svc.IsFollowing(asUser("alice"), "bob"))
}

func TestService_IsFollowing(t *testing.T) {
	f := setupService(t, true)

	assert.False(t, f.svc.IsFollowing(asUser("alice"), "bob"))

	_, err := f.svc.Follow(asUser("alice"), "bob")
	require.NoError(t, err)

	assert.True(t, f.svc.IsFollowing(asUser("alice"), "bob"))
	// Direction matters
	assert.False(t, f.svc.IsFollowing(asUser("bob"), "alice"))
}

func TestService_Counts(t *testing.T) {
	f := setupService(t, true)
	ctx := context.Background()

	for _, follower := range []string{"alice", "carol", "dave"} {
		_, err := f.svc.Follow(asUser(follower), "bob")
		require.NoError(t, err)
	}
	_, err := f.svc.Follow(asUser("alice"), "carol")
	require.NoError(t, err)

	assert.Equal(t, int64(2), f.svc.FollowingCount(ctx, "alice"))
	assert.Equal(t, int64(3), f.svc.FollowersCount(ctx, "bob"))
	assert.Equal(t, int64(0), f.svc.FollowersCount(ctx, "dave"))
}

func TestService_NotificationFanOut(t *testing.T) {
	f := setupService(t, true)

	// Actor has a profile; the notification snapshots it
	now := time.Now().UTC()
	profile := &models.Profile{UserID: "alice", Nickname: "Alice", AvatarURL: "a.png", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, db.NewProfileRepository(f.repo).Create(context.Background(), profile))

	signal, cancel := f.bus.Subscribe()
	defer cancel()

	_, err := f.svc.Follow(asUser("alice"), "bob")
	require.NoError(t, err)
	f.drain(t)

	notifs, err := db.NewNotificationRepository(f.repo).ListByRecipient(context.Background(), "bob", 10)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.Equal(t, "alice", notifs[0].Actor)
	assert.Equal(t, "bob", notifs[0].Recipient)
	assert.Equal(t, "Alice", notifs[0].ActorName)
	assert.Equal(t, "a.png", notifs[0].ActorAvatar)
	assert.False(t, notifs[0].Read)

	select {
	case <-signal:
	case <-time.After(time.Second):
		t.Fatal("unread-changed signal not received")
	}
}

func TestService_NotificationFailureDoesNotAffectFollow(t *testing.T) {
	// follow_notifications table deliberately missing: every fan-out write fails
	f := setupService(t, false)

	edge, err := f.svc.Follow(asUser("alice"), "bob")
	require.NoError(t, err)
	require.NotNil(t, edge)
	f.drain(t)

	// The edge survived the failed fan-out
	assert.True(t, f.svc.IsFollowing(asUser("alice"), "bob"))
	assert.Equal(t, int64(1), f.svc.FollowersCount(context.Background(), "bob"))
}

func TestService_ListOrderingAndEnrichment(t *testing.T) {
	f := setupService(t, true)
	ctx := context.Background()

	// Seed edges with explicit timestamps T1 < T2 < T3
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	follows := db.NewFollowRepository(f.repo)
	targets := []string{"bob", "carol", "ghost"}
	for i, target := range targets {
		edge := &models.Follow{FollowerID: "alice", FollowingID: target, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, follows.Create(ctx, edge))
	}

	// bob has a profile, carol only a post, ghost nothing
	now := time.Now().UTC()
	require.NoError(t, db.NewProfileRepository(f.repo).Create(ctx,
		&models.Profile{UserID: "bob", Nickname: "Bob", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, db.NewPostRepository(f.repo).Create(ctx,
		&models.Post{ID: "p1", Author: "carol", AuthorName: "Carol", AuthorAvatar: "c.png", Title: "t", Content: "c", CreatedAt: now}))

	list := f.svc.FollowingList(ctx, "alice")
	require.Len(t, list, 3)

	// Most recent first: ghost (T3), carol (T2), bob (T1)
	assert.Equal(t, "ghost", list[0].UserID)
	assert.Equal(t, "carol", list[1].UserID)
	assert.Equal(t, "bob", list[2].UserID)

	assert.Equal(t, PlaceholderNickname, list[0].User.Nickname)
	assert.Equal(t, "Carol", list[1].User.Nickname)
	assert.Equal(t, "Bob", list[2].User.Nickname)

	// Followers side mirrors the edge
	followers := f.svc.FollowersList(ctx, "bob")
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].UserID)
}

func TestService_ListFailureReturnsEmpty(t *testing.T) {
	f := setupService(t, true)

	list := f.svc.FollowingList(context.Background(), "nobody")
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
