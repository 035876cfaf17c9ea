package database

import (
	"database/sql"
	"fmt"
)

// schema is applied in full at startup. Statements are idempotent so the
// application can run it on every boot.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	username VARCHAR(50) NOT NULL UNIQUE,
	email VARCHAR(255) NOT NULL UNIQUE,
	password_hash VARCHAR(255) NOT NULL,
	avatar_url VARCHAR(500),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS groups (
	id BIGSERIAL PRIMARY KEY,
	name VARCHAR(100) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	invite_code VARCHAR(8) NOT NULL UNIQUE,
	photo_url VARCHAR(500),
	created_by BIGINT NOT NULL REFERENCES users(id),
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS group_members (
	id BIGSERIAL PRIMARY KEY,
	group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role VARCHAR(10) NOT NULL DEFAULT 'MEMBER',
	share_location BOOLEAN NOT NULL DEFAULT FALSE,
	joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS trips (
	id BIGSERIAL PRIMARY KEY,
	group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	name VARCHAR(100) NOT NULL,
	destination VARCHAR(255) NOT NULL DEFAULT '',
	start_date DATE,
	end_date DATE,
	status VARCHAR(20) NOT NULL DEFAULT 'PLANNED',
	created_by BIGINT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS expenses (
	id BIGSERIAL PRIMARY KEY,
	group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	trip_id BIGINT REFERENCES trips(id) ON DELETE SET NULL,
	payer_id BIGINT NOT NULL REFERENCES users(id),
	description VARCHAR(255) NOT NULL,
	amount NUMERIC(12,2) NOT NULL,
	currency CHAR(3) NOT NULL DEFAULT 'USD',
	category VARCHAR(20) NOT NULL DEFAULT 'OTHER',
	split_type VARCHAR(20) NOT NULL DEFAULT 'EQUAL',
	receipt_url VARCHAR(500) NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	expense_date DATE NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_expenses_group ON expenses (group_id);
CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses (category);

CREATE TABLE IF NOT EXISTS expense_splits (
	id BIGSERIAL PRIMARY KEY,
	expense_id BIGINT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id),
	amount NUMERIC(12,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (expense_id, user_id)
);

CREATE TABLE IF NOT EXISTS debts (
	id BIGSERIAL PRIMARY KEY,
	group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	from_user_id BIGINT NOT NULL REFERENCES users(id),
	to_user_id BIGINT NOT NULL REFERENCES users(id),
	amount NUMERIC(12,2) NOT NULL,
	currency CHAR(3) NOT NULL DEFAULT 'USD',
	is_settled BOOLEAN NOT NULL DEFAULT FALSE,
	settled_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_debts_group_unsettled ON debts (group_id, is_settled);

CREATE TABLE IF NOT EXISTS notifications (
	id BIGSERIAL PRIMARY KEY,
	recipient_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	message VARCHAR(500) NOT NULL,
	is_read BOOLEAN NOT NULL DEFAULT FALSE,
	related_entity_type VARCHAR(20),
	related_entity_id BIGINT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_notifications_recipient ON notifications (recipient_id, is_read);

CREATE TABLE IF NOT EXISTS member_locations (
	id BIGSERIAL PRIMARY KEY,
	group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (group_id, user_id)
);

CREATE TABLE IF NOT EXISTS location_alerts (
	id BIGSERIAL PRIMARY KEY,
	group_id BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	message VARCHAR(255) NOT NULL,
	latitude DOUBLE PRECISION NOT NULL,
	longitude DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies the embedded schema
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
