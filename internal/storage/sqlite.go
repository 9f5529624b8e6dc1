package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"moviegate_bot/internal/model"
	"moviegate_bot/migrations"
)

const timeLayout = "2006-01-02T15:04:05Z"

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=OFF"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("disable foreign keys: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// CreatePost inserts a post together with its links and channels.
func (s *SQLite) CreatePost(ctx context.Context, post *model.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := time.Now().UTC().Truncate(time.Second)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, creator_chat_id, title, poster_url, language, zone_id, ad_target, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		post.ID, post.CreatorChatID, post.Title, post.PosterURL, post.Language, post.ZoneID, post.AdTarget,
		createdAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}

	for i, l := range post.Links {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_links (post_id, position, quality, url) VALUES (?, ?, ?, ?)`,
			post.ID, i, l.Quality, l.URL,
		); err != nil {
			return fmt.Errorf("insert post link: %w", err)
		}
	}
	for i, c := range post.Channels {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_channels (post_id, position, name, url) VALUES (?, ?, ?, ?)`,
			post.ID, i, c.Name, c.URL,
		); err != nil {
			return fmt.Errorf("insert post channel: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	post.CreatedAt = createdAt
	return nil
}

// GetPost returns a post by its public id, including links and channels.
// Returns ErrNotFound if no post matches.
func (s *SQLite) GetPost(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, creator_chat_id, title, poster_url, language, zone_id, ad_target, created_at
		 FROM posts WHERE id = ?`, id,
	).Scan(&p.ID, &p.CreatorChatID, &p.Title, &p.PosterURL, &p.Language, &p.ZoneID, &p.AdTarget, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	p.CreatedAt, err = time.Parse(timeLayout, created)
	if err != nil {
		return nil, fmt.Errorf("parse post created_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT quality, url FROM post_links WHERE post_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query post links: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var l model.QualityLink
		if err := rows.Scan(&l.Quality, &l.URL); err != nil {
			return nil, fmt.Errorf("scan post link: %w", err)
		}
		p.Links = append(p.Links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	chRows, err := s.db.QueryContext(ctx,
		`SELECT name, url FROM post_channels WHERE post_id = ? ORDER BY position`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("query post channels: %w", err)
	}
	defer func() { _ = chRows.Close() }()
	for chRows.Next() {
		var c model.PromoChannel
		if err := chRows.Scan(&c.Name, &c.URL); err != nil {
			return nil, fmt.Errorf("scan post channel: %w", err)
		}
		p.Channels = append(p.Channels, c)
	}
	return &p, chRows.Err()
}

// GetProfile returns the owner profile for a chat. A missing profile row is
// not an error: the returned profile carries zero overrides and any saved
// channels.
func (s *SQLite) GetProfile(ctx context.Context, chatID int64) (*model.OwnerProfile, error) {
	p := &model.OwnerProfile{ChatID: chatID}
	err := s.db.QueryRowContext(ctx,
		`SELECT zone_id, ad_target FROM profiles WHERE chat_id = ?`, chatID,
	).Scan(&p.ZoneID, &p.AdTarget)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT name, url FROM profile_channels WHERE chat_id = ? ORDER BY id`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("query profile channels: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var c model.PromoChannel
		if err := rows.Scan(&c.Name, &c.URL); err != nil {
			return nil, fmt.Errorf("scan profile channel: %w", err)
		}
		p.Channels = append(p.Channels, c)
	}
	return p, rows.Err()
}

// SetProfileZone sets the ad zone override for a chat, creating the profile
// row if needed.
func (s *SQLite) SetProfileZone(ctx context.Context, chatID int64, zoneID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (chat_id, zone_id) VALUES (?, ?)
		 ON CONFLICT (chat_id) DO UPDATE SET zone_id = excluded.zone_id`,
		chatID, zoneID,
	)
	if err != nil {
		return fmt.Errorf("set profile zone: %w", err)
	}
	return nil
}

// SetProfileAdTarget sets the impression target override for a chat.
func (s *SQLite) SetProfileAdTarget(ctx context.Context, chatID int64, target int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (chat_id, ad_target) VALUES (?, ?)
		 ON CONFLICT (chat_id) DO UPDATE SET ad_target = excluded.ad_target`,
		chatID, target,
	)
	if err != nil {
		return fmt.Errorf("set profile ad target: %w", err)
	}
	return nil
}

// AddProfileChannel appends a saved promo channel to a chat's profile.
func (s *SQLite) AddProfileChannel(ctx context.Context, chatID int64, ch model.PromoChannel) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profile_channels (chat_id, name, url) VALUES (?, ?, ?)`,
		chatID, ch.Name, ch.URL,
	)
	if err != nil {
		return fmt.Errorf("add profile channel: %w", err)
	}
	return nil
}

// ClearProfileChannels removes all saved promo channels for a chat.
func (s *SQLite) ClearProfileChannels(ctx context.Context, chatID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM profile_channels WHERE chat_id = ?`, chatID,
	)
	if err != nil {
		return fmt.Errorf("clear profile channels: %w", err)
	}
	return nil
}

// UpsertGrant creates or refreshes a premium grant for a user.
func (s *SQLite) UpsertGrant(ctx context.Context, g *model.PremiumGrant) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO premium_grants (user_id, package, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT (user_id) DO UPDATE SET package = excluded.package, expires_at = excluded.expires_at`,
		g.UserID, g.Package, g.ExpiresAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("upsert grant: %w", err)
	}
	return nil
}

// GetGrant returns the premium grant for a user, or ErrNotFound.
func (s *SQLite) GetGrant(ctx context.Context, userID int64) (*model.PremiumGrant, error) {
	var g model.PremiumGrant
	var expires string
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, package, expires_at FROM premium_grants WHERE user_id = ?`, userID,
	).Scan(&g.UserID, &g.Package, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan grant: %w", err)
	}
	g.ExpiresAt, err = time.Parse(timeLayout, expires)
	if err != nil {
		return nil, fmt.Errorf("parse grant expires_at: %w", err)
	}
	return &g, nil
}

// DeleteGrant removes a user's premium grant. Deleting an absent grant is
// not an error.
func (s *SQLite) DeleteGrant(ctx context.Context, userID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM premium_grants WHERE user_id = ?`, userID,
	)
	if err != nil {
		return fmt.Errorf("delete grant: %w", err)
	}
	return nil
}

// UpsertUser records that a chat has interacted with the bot.
func (s *SQLite) UpsertUser(ctx context.Context, chatID int64) error {
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO users (chat_id, joined_at) VALUES (?, ?)`,
		chatID, now,
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// CountUsers returns the number of known users.
func (s *SQLite) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountGrants returns the number of premium grant records.
func (s *SQLite) CountGrants(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM premium_grants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count grants: %w", err)
	}
	return n, nil
}
