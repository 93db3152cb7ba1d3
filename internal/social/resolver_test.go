package social

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/inkstream/inkstream/internal/db"
	"github.com/inkstream/inkstream/internal/models"
)

func setupResolver(t *testing.T) (*ResolverChain, *db.Repository) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := gdb.AutoMigrate(&models.Profile{}, &models.Post{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := db.NewRepository(gdb)
	return NewResolverChain(db.NewProfileRepository(repo), db.NewPostRepository(repo)), repo
}

func TestResolverChain_ProfileFirst(t *testing.T) {
	chain, repo := setupResolver(t)
	ctx := context.Background()

	now := time.Now().UTC()
	profile := &models.Profile{
		UserID:    "alice",
		Email:     "alice@example.com",
		Nickname:  "Alice",
		Bio:       "writes things",
		AvatarURL: "https://img.example.com/alice.png",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.NewProfileRepository(repo).Create(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	// A post also exists, but the profile wins
	post := &models.Post{ID: "p1", Author: "alice", AuthorName: "OldAlice", Title: "t", Content: "c", CreatedAt: now}
	if err := db.NewPostRepository(repo).Create(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}

	display := chain.Resolve(ctx, "alice")
	if display.Nickname != "Alice" {
		t.Errorf("Nickname = %q, want Alice", display.Nickname)
	}
	if display.Email != "alice@example.com" {
		t.Errorf("Email = %q, want alice@example.com", display.Email)
	}
	if display.Bio != "writes things" {
		t.Errorf("Bio = %q, want 'writes things'", display.Bio)
	}
}

func TestResolverChain_ProfilePlaceholderSubstitution(t *testing.T) {
	chain, repo := setupResolver(t)
	ctx := context.Background()

	// Profile exists but has no nickname or email
	profile := &models.Profile{UserID: "bob", Bio: "quiet", CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC()}
	if err := db.NewProfileRepository(repo).Create(ctx, profile); err != nil {
		t.Fatalf("create profile: %v", err)
	}

	display := chain.Resolve(ctx, "bob")
	if display.Nickname != PlaceholderNickname {
		t.Errorf("Nickname = %q, want placeholder %q", display.Nickname, PlaceholderNickname)
	}
	if display.Email != PlaceholderNickname {
		t.Errorf("Email = %q, want placeholder %q", display.Email, PlaceholderNickname)
	}
	if display.Bio != "quiet" {
		t.Errorf("Bio = %q, want 'quiet'", display.Bio)
	}
}

func TestResolverChain_PostsFallback(t *testing.T) {
	chain, repo := setupResolver(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	posts := db.NewPostRepository(repo)
	// Two posts; the newer one supplies the identity
	old := &models.Post{ID: "p1", Author: "carol", AuthorName: "Carol2024", AuthorAvatar: "old.png", Title: "t", Content: "c", CreatedAt: base}
	newer := &models.Post{ID: "p2", Author: "carol", AuthorName: "Carol", AuthorAvatar: "new.png", Title: "t", Content: "c", CreatedAt: base.Add(time.Hour)}
	if err := posts.Create(ctx, old); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := posts.Create(ctx, newer); err != nil {
		t.Fatalf("create post: %v", err)
	}

	display := chain.Resolve(ctx, "carol")
	if display.Nickname != "Carol" {
		t.Errorf("Nickname = %q, want Carol", display.Nickname)
	}
	if display.AvatarURL != "new.png" {
		t.Errorf("AvatarURL = %q, want new.png", display.AvatarURL)
	}
}

func TestResolverChain_Placeholder(t *testing.T) {
	chain, _ := setupResolver(t)
	ctx := context.Background()

	display := chain.Resolve(ctx, "ghost")
	if display == nil {
		t.Fatal("Resolve returned nil")
	}
	if display.UserID != "ghost" {
		t.Errorf("UserID = %q, want ghost", display.UserID)
	}
	if display.Nickname != PlaceholderNickname {
		t.Errorf("Nickname = %q, want placeholder %q", display.Nickname, PlaceholderNickname)
	}
	if display.AvatarURL != "" {
		t.Errorf("AvatarURL = %q, want empty", display.AvatarURL)
	}
}
