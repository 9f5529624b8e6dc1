package premium

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"moviegate_bot/internal/model"
	"moviegate_bot/internal/storage"
)

const adminID = int64(777)

func newChecker(t *testing.T) (*Checker, *storage.SQLite) {
	t.Helper()
	store, err := storage.NewSQLite(":memory:")
	if err != nil {
		t.Fatalf("new sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewChecker(store, adminID, log), store
}

func TestAdminAlwaysAllowed(t *testing.T) {
	c, _ := newChecker(t)

	ok, err := c.CheckAndReap(context.Background(), adminID, time.Now())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok {
		t.Error("expected admin to be allowed")
	}
}

func TestNoGrant(t *testing.T) {
	c, _ := newChecker(t)

	ok, err := c.CheckAndReap(context.Background(), 100, time.Now())
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if ok {
		t.Error("expected user without grant to be denied")
	}
}

func TestActiveGrant(t *testing.T) {
	ctx := context.Background()
	c, store := newChecker(t)

	now := time.Now().UTC().Truncate(time.Second)
	g := model.PremiumGrant{UserID: 100, Package: "Gold", ExpiresAt: now.Add(30 * 24 * time.Hour)}
	if err := store.UpsertGrant(ctx, &g); err != nil {
		t.Fatalf("upsert grant: %v", err)
	}

	ok, err := c.CheckAndReap(ctx, 100, now)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !ok {
		t.Error("expected active grant to be allowed")
	}

	// Grant must survive a successful check.
	if _, err := store.GetGrant(ctx, 100); err != nil {
		t.Fatalf("grant should still exist: %v", err)
	}
}

func TestExpiredGrantReaped(t *testing.T) {
	ctx := context.Background()
	c, store := newChecker(t)

	expiry := time.Now().UTC().Add(30 * 24 * time.Hour).Truncate(time.Second)
	g := model.PremiumGrant{UserID: 100, Package: "Gold", ExpiresAt: expiry}
	if err := store.UpsertGrant(ctx, &g); err != nil {
		t.Fatalf("upsert grant: %v", err)
	}

	// Immediately after granting the check passes.
	ok, err := c.CheckAndReap(ctx, 100, time.Now().UTC())
	if err != nil || !ok {
		t.Fatalf("expected fresh grant to pass, got ok=%v err=%v", ok, err)
	}

	// Just past the expiry: denied and removed.
	after := expiry.Add(time.Millisecond)
	ok, err = c.CheckAndReap(ctx, 100, after)
	if err != nil {
		t.Fatalf("check after expiry: %v", err)
	}
	if ok {
		t.Error("expected expired grant to be denied")
	}
	if _, err := store.GetGrant(ctx, 100); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected grant to be reaped, got %v", err)
	}

	// Idempotence: a second check after the reap must not error.
	ok, err = c.CheckAndReap(ctx, 100, after)
	if err != nil {
		t.Fatalf("repeat check after reap: %v", err)
	}
	if ok {
		t.Error("expected repeat check to stay denied")
	}
}

func TestExpiryBoundary(t *testing.T) {
	ctx := context.Background()
	c, store := newChecker(t)

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	g := model.PremiumGrant{UserID: 200, Package: "Gold", ExpiresAt: expiry}
	if err := store.UpsertGrant(ctx, &g); err != nil {
		t.Fatalf("upsert grant: %v", err)
	}

	// expiresAt == now counts as expired.
	ok, err := c.CheckAndReap(ctx, 200, expiry)
	if err != nil {
		t.Fatalf("check at boundary: %v", err)
	}
	if ok {
		t.Error("expected grant expiring exactly now to be denied")
	}
}
