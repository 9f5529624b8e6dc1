package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"moviegate_bot/internal/model"
)

var ignorePostTS = cmpopts.IgnoreFields(model.Post{}, "CreatedAt")

func newTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPostRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	tests := []struct {
		name string
		post model.Post
	}{
		{
			name: "single link no channels",
			post: model.Post{
				ID:            "abc123",
				CreatorChatID: 100,
				Title:         "X",
				PosterURL:     "http://p",
				Language:      "Hindi",
				Links:         []model.QualityLink{{Quality: "720p", URL: "http://d1"}},
				ZoneID:        "9001",
				AdTarget:      3,
			},
		},
		{
			name: "multiple links and channels",
			post: model.Post{
				ID:            "def456",
				CreatorChatID: 200,
				Title:         "Another Movie",
				PosterURL:     "http://poster.example/img.jpg",
				Language:      "Bangla",
				Links: []model.QualityLink{
					{Quality: "480p", URL: "http://d1"},
					{Quality: "720p", URL: "http://d2"},
					{Quality: "1080p", URL: "http://d3"},
				},
				Channels: []model.PromoChannel{
					{Name: "Main Channel", URL: "https://t.me/main"},
					{Name: "Backup", URL: "https://t.me/backup"},
				},
				ZoneID:   "9002",
				AdTarget: 5,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := tt.post
			if err := s.CreatePost(ctx, &post); err != nil {
				t.Fatalf("create: %v", err)
			}

			got, err := s.GetPost(ctx, post.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if diff := cmp.Diff(tt.post, *got, ignorePostTS); diff != "" {
				t.Errorf("GetPost mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetPostNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	_, err := s.GetPost(ctx, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicatePostID(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	p := model.Post{ID: "dup", CreatorChatID: 1, Title: "A"}
	if err := s.CreatePost(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}
	q := model.Post{ID: "dup", CreatorChatID: 2, Title: "B"}
	if err := s.CreatePost(ctx, &q); err == nil {
		t.Fatal("expected error on duplicate post id")
	}
}

func TestProfileDefaults(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	got, err := s.GetProfile(ctx, 42)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	want := model.OwnerProfile{ChatID: 42}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("default profile mismatch (-want +got):\n%s", diff)
	}
}

func TestProfileOverrides(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	if err := s.SetProfileZone(ctx, 42, "7777"); err != nil {
		t.Fatalf("set zone: %v", err)
	}
	if err := s.SetProfileAdTarget(ctx, 42, 4); err != nil {
		t.Fatalf("set ad target: %v", err)
	}
	if err := s.AddProfileChannel(ctx, 42, model.PromoChannel{Name: "C1", URL: "https://t.me/c1"}); err != nil {
		t.Fatalf("add channel: %v", err)
	}
	if err := s.AddProfileChannel(ctx, 42, model.PromoChannel{Name: "C2", URL: "https://t.me/c2"}); err != nil {
		t.Fatalf("add channel: %v", err)
	}

	got, err := s.GetProfile(ctx, 42)
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	want := model.OwnerProfile{
		ChatID:   42,
		ZoneID:   "7777",
		AdTarget: 4,
		Channels: []model.PromoChannel{
			{Name: "C1", URL: "https://t.me/c1"},
			{Name: "C2", URL: "https://t.me/c2"},
		},
	}
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	// Overrides survive a second update without clobbering each other.
	if err := s.SetProfileZone(ctx, 42, "8888"); err != nil {
		t.Fatalf("update zone: %v", err)
	}
	got, _ = s.GetProfile(ctx, 42)
	if got.ZoneID != "8888" || got.AdTarget != 4 {
		t.Errorf("expected zone 8888 and target 4, got %q %d", got.ZoneID, got.AdTarget)
	}

	if err := s.ClearProfileChannels(ctx, 42); err != nil {
		t.Fatalf("clear channels: %v", err)
	}
	got, _ = s.GetProfile(ctx, 42)
	if len(got.Channels) != 0 {
		t.Errorf("expected no channels after clear, got %d", len(got.Channels))
	}
}

func TestGrantLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	expiry := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	g := model.PremiumGrant{UserID: 555, Package: "Gold", ExpiresAt: expiry}
	if err := s.UpsertGrant(ctx, &g); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := s.GetGrant(ctx, 555)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(g, *got); diff != "" {
		t.Errorf("grant mismatch (-want +got):\n%s", diff)
	}

	// Refresh replaces the existing row.
	g.Package = "Platinum"
	g.ExpiresAt = expiry.Add(24 * time.Hour)
	if err := s.UpsertGrant(ctx, &g); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got, _ = s.GetGrant(ctx, 555)
	if got.Package != "Platinum" {
		t.Errorf("expected refreshed package, got %q", got.Package)
	}

	if err := s.DeleteGrant(ctx, 555); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetGrant(ctx, 555); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again must not error.
	if err := s.DeleteGrant(ctx, 555); err != nil {
		t.Fatalf("delete absent grant: %v", err)
	}
}

func TestUserCounts(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	for _, id := range []int64{1, 2, 3, 2} {
		if err := s.UpsertUser(ctx, id); err != nil {
			t.Fatalf("upsert user %d: %v", id, err)
		}
	}

	users, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if diff := cmp.Diff(3, users); diff != "" {
		t.Errorf("user count (-want +got):\n%s", diff)
	}

	_ = s.UpsertGrant(ctx, &model.PremiumGrant{UserID: 1, Package: "Gold", ExpiresAt: time.Now().Add(time.Hour)})
	grants, err := s.CountGrants(ctx)
	if err != nil {
		t.Fatalf("count grants: %v", err)
	}
	if diff := cmp.Diff(1, grants); diff != "" {
		t.Errorf("grant count (-want +got):\n%s", diff)
	}
}

func TestPostCreatedAtRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	post := model.Post{ID: "ts1", CreatorChatID: 1, Title: "T"}
	if err := s.CreatePost(ctx, &post); err != nil {
		t.Fatalf("create: %v", err)
	}
	if post.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set on create")
	}

	got, err := s.GetPost(ctx, "ts1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(post.CreatedAt) {
		t.Errorf("CreatedAt mismatch: stored %v, fetched %v", post.CreatedAt, got.CreatedAt)
	}
}

func TestCorruptTimestampsSurface(t *testing.T) {
	ctx := context.Background()
	s := newTestDB(t)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (id, creator_chat_id, title, created_at) VALUES ('bad', 1, 'T', 'garbage')`)
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if _, err := s.GetPost(ctx, "bad"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected parse error for corrupt created_at, got %v", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO premium_grants (user_id, package, expires_at) VALUES (9, 'Gold', 'garbage')`)
	if err != nil {
		t.Fatalf("seed grant: %v", err)
	}
	if _, err := s.GetGrant(ctx, 9); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected parse error for corrupt expires_at, got %v", err)
	}
}

// Ensure the Storage interface is satisfied.
var _ Storage = (*SQLite)(nil)
