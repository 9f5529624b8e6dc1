// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"

	"moviegate_bot/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id string) (*model.Post, error)

	GetProfile(ctx context.Context, chatID int64) (*model.OwnerProfile, error)
	SetProfileZone(ctx context.Context, chatID int64, zoneID string) error
	SetProfileAdTarget(ctx context.Context, chatID int64, target int) error
	AddProfileChannel(ctx context.Context, chatID int64, ch model.PromoChannel) error
	ClearProfileChannels(ctx context.Context, chatID int64) error

	UpsertGrant(ctx context.Context, g *model.PremiumGrant) error
	GetGrant(ctx context.Context, userID int64) (*model.PremiumGrant, error)
	DeleteGrant(ctx context.Context, userID int64) error

	UpsertUser(ctx context.Context, chatID int64) error
	CountUsers(ctx context.Context) (int, error)
	CountGrants(ctx context.Context) (int, error)

	Close() error
}
