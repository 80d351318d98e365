package config

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	// Create tables if they don't exist
	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sqlx.DB) error {
	// Create users table
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			notifications_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			notification_preferences JSONB NOT NULL DEFAULT '{}',
			push_token TEXT NOT NULL DEFAULT '',
			language VARCHAR(8) NOT NULL DEFAULT '',
			default_currency VARCHAR(3) NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create families table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS families (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			member_count INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create family_members table (owner is implicit, never stored here)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS family_members (
			id VARCHAR(36) PRIMARY KEY,
			family_id VARCHAR(36) NOT NULL REFERENCES families(id) ON DELETE CASCADE,
			email VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (family_id, email)
		)
	`)
	if err != nil {
		return err
	}

	// Create family_invites table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS family_invites (
			id VARCHAR(36) PRIMARY KEY,
			family_id VARCHAR(36) NOT NULL REFERENCES families(id) ON DELETE CASCADE,
			inviter_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			invitee_email VARCHAR(255) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			family_name VARCHAR(255) NOT NULL,
			inviter_name VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create vouchers table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS vouchers (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			store VARCHAR(255) NOT NULL,
			type VARCHAR(10) NOT NULL,
			initial_amount DOUBLE PRECISION NOT NULL,
			remaining_amount DOUBLE PRECISION NOT NULL,
			currency VARCHAR(3) NOT NULL DEFAULT '',
			expiry_date VARCHAR(10),
			family_id VARCHAR(36) REFERENCES families(id) ON DELETE SET NULL,
			code TEXT NOT NULL DEFAULT '',
			pin TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			min_order_value DOUBLE PRECISION,
			notes TEXT NOT NULL DEFAULT '',
			category VARCHAR(64) NOT NULL DEFAULT '',
			trip_id BIGINT,
			image_url TEXT NOT NULL DEFAULT '',
			image_url_2 TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create redemptions table (append-only history, newest-first via seq)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS redemptions (
			id VARCHAR(36) PRIMARY KEY,
			voucher_id VARCHAR(36) NOT NULL REFERENCES vouchers(id) ON DELETE CASCADE,
			seq BIGSERIAL,
			amount DOUBLE PRECISION NOT NULL,
			timestamp TIMESTAMP NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			code_used TEXT
		)
	`)
	if err != nil {
		return err
	}

	// Create voucher_codes table (code pools for quantity vouchers)
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS voucher_codes (
			voucher_id VARCHAR(36) NOT NULL REFERENCES vouchers(id) ON DELETE CASCADE,
			code TEXT NOT NULL,
			used BOOLEAN NOT NULL DEFAULT FALSE,
			used_at TIMESTAMP,
			used_by VARCHAR(255),
			PRIMARY KEY (voucher_id, code)
		)
	`)
	if err != nil {
		return err
	}

	// Create notifications table
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			body TEXT NOT NULL,
			type VARCHAR(10) NOT NULL DEFAULT 'info',
			read BOOLEAN NOT NULL DEFAULT FALSE,
			metadata JSONB,
			timestamp TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_vouchers_user_id ON vouchers(user_id)",
		"CREATE INDEX IF NOT EXISTS idx_vouchers_family_id ON vouchers(family_id)",
		"CREATE INDEX IF NOT EXISTS idx_redemptions_voucher_seq ON redemptions(voucher_id, seq)",
		"CREATE INDEX IF NOT EXISTS idx_family_members_email ON family_members(email)",
		"CREATE INDEX IF NOT EXISTS idx_family_invites_invitee ON family_invites(invitee_email)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications(user_id)",
	}

	for _, idx := range indexes {
		_, err = db.Exec(idx)
		if err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
			// Don't return error here, indexes are not critical
		}
	}

	return nil
}
