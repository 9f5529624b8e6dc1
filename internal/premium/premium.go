// Package premium answers whether a user may use gated bot features.
package premium

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"moviegate_bot/internal/model"
	"moviegate_bot/internal/storage"
)

// Store is the subset of persistence operations the checker needs.
type Store interface {
	GetGrant(ctx context.Context, userID int64) (*model.PremiumGrant, error)
	DeleteGrant(ctx context.Context, userID int64) error
}

// Checker decides premium membership. The administrator is always allowed.
type Checker struct {
	store   Store
	adminID int64
	log     *slog.Logger
}

// NewChecker creates a Checker backed by the given store.
func NewChecker(store Store, adminID int64, log *slog.Logger) *Checker {
	return &Checker{store: store, adminID: adminID, log: log}
}

// CheckAndReap reports whether the user holds gated-feature access at the
// given instant. A grant whose expiry has passed counts as absent and is
// deleted as a side effect; repeating the check after the reap is safe.
func (c *Checker) CheckAndReap(ctx context.Context, userID int64, now time.Time) (bool, error) {
	if userID == c.adminID {
		return true, nil
	}

	grant, err := c.store.GetGrant(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get grant: %w", err)
	}

	if !grant.ExpiresAt.After(now) {
		if err := c.store.DeleteGrant(ctx, userID); err != nil {
			c.log.Error("reap expired grant", "user_id", userID, "error", err)
		}
		return false, nil
	}
	return true, nil
}
