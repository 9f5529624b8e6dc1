// Package model defines the domain types used across the application.
package model

import "time"

// QualityLink is one quality label with its destination URL.
type QualityLink struct {
	Quality string
	URL     string
}

// PromoChannel is a promotional channel button shown under a post.
type PromoChannel struct {
	Name string
	URL  string
}

// Post is a published movie post, looked up by its public id.
// Posts are immutable after creation.
type Post struct {
	ID            string
	CreatorChatID int64
	Title         string
	PosterURL     string
	Language      string
	Links         []QualityLink
	Channels      []PromoChannel
	ZoneID        string
	AdTarget      int
	CreatedAt     time.Time
}

// OwnerProfile holds per-user settings applied to posts that user creates.
// ZoneID and AdTarget are overrides; zero values mean "use the system default".
type OwnerProfile struct {
	ChatID   int64
	ZoneID   string
	AdTarget int
	Channels []PromoChannel
}

// PremiumGrant is a time-bounded membership record for one user.
type PremiumGrant struct {
	UserID    int64
	Package   string
	ExpiresAt time.Time
}
