package persistence

import "database/sql"

// EnsureSchema creates the application tables when missing. Safe to run on
// every startup.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			last_login TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS facebook_tokens (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			fb_user_id TEXT NOT NULL,
			fb_user_name TEXT,
			fb_user_picture TEXT,
			short_token TEXT,
			long_token TEXT NOT NULL,
			long_token_expires TIMESTAMPTZ,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(user_id, fb_user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS facebook_pages (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			fb_token_id BIGINT NOT NULL REFERENCES facebook_tokens(id) ON DELETE CASCADE,
			page_id TEXT NOT NULL,
			page_name TEXT NOT NULL,
			page_token TEXT NOT NULL,
			page_picture TEXT,
			category TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW(),
			UNIQUE(user_id, page_id)
		)`,
		`CREATE TABLE IF NOT EXISTS scheduled_posts (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			page_id TEXT NOT NULL,
			page_name TEXT,
			content TEXT NOT NULL,
			image_url TEXT,
			link_url TEXT,
			post_type TEXT DEFAULT 'feed',
			scheduled_at TIMESTAMPTZ NOT NULL,
			repeat_type TEXT DEFAULT 'none',
			status TEXT DEFAULT 'pending',
			fb_post_id TEXT,
			error_msg TEXT,
			retry_count INTEGER DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scheduled_posts_due ON scheduled_posts (status, scheduled_at)`,
		`CREATE TABLE IF NOT EXISTS post_history (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			page_id TEXT NOT NULL,
			page_name TEXT,
			content TEXT NOT NULL,
			fb_post_id TEXT,
			status TEXT NOT NULL,
			error_msg TEXT,
			posted_at TIMESTAMPTZ DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS token_refresh_log (
			id BIGSERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			fb_user_id TEXT NOT NULL,
			action TEXT NOT NULL,
			success BOOLEAN DEFAULT TRUE,
			message TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,
	}
	for _, q := range stmts {
		if _, err := db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}
