package repository

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DDL for both stores. The live tables and their archive mirrors share one
// schema string per engine so a single-database deployment (archive pointed
// at a second database on the same engine) bootstraps identically.

const postgresSchema = `
CREATE TABLE IF NOT EXISTS notifications (
    notification_id BIGSERIAL PRIMARY KEY,
    config_id       INTEGER,
    tenant_id       INTEGER NOT NULL,
    description     TEXT NOT NULL,
    type            TEXT NOT NULL DEFAULT '',
    priority        TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_notifications_tenant_created
    ON notifications (tenant_id, created_at DESC);

CREATE TABLE IF NOT EXISTS user_notification_actions (
    action_id       TEXT PRIMARY KEY,
    notification_id BIGINT NOT NULL,
    tenant_id       INTEGER NOT NULL,
    username        TEXT NOT NULL,
    action          TEXT NOT NULL,
    action_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_actions_user
    ON user_notification_actions (tenant_id, username, action);
CREATE INDEX IF NOT EXISTS idx_actions_notification
    ON user_notification_actions (notification_id);

CREATE TABLE IF NOT EXISTS notifications_arch (
    notification_id BIGINT PRIMARY KEY,
    config_id       INTEGER,
    tenant_id       INTEGER NOT NULL,
    description     TEXT NOT NULL,
    type            TEXT NOT NULL DEFAULT '',
    priority        TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_arch_tenant_created
    ON notifications_arch (tenant_id, created_at);

CREATE TABLE IF NOT EXISTS user_notification_actions_arch (
    action_id       TEXT PRIMARY KEY,
    notification_id BIGINT NOT NULL,
    tenant_id       INTEGER NOT NULL,
    username        TEXT NOT NULL,
    action          TEXT NOT NULL,
    action_at       TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_actions_arch_notification
    ON user_notification_actions_arch (notification_id);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS notifications (
    notification_id INTEGER PRIMARY KEY AUTOINCREMENT,
    config_id       INTEGER,
    tenant_id       INTEGER NOT NULL,
    description     TEXT NOT NULL,
    type            TEXT NOT NULL DEFAULT '',
    priority        TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_tenant_created
    ON notifications (tenant_id, created_at DESC);

CREATE TABLE IF NOT EXISTS user_notification_actions (
    action_id       TEXT PRIMARY KEY,
    notification_id INTEGER NOT NULL,
    tenant_id       INTEGER NOT NULL,
    username        TEXT NOT NULL,
    action          TEXT NOT NULL,
    action_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_actions_user
    ON user_notification_actions (tenant_id, username, action);
CREATE INDEX IF NOT EXISTS idx_actions_notification
    ON user_notification_actions (notification_id);

CREATE TABLE IF NOT EXISTS notifications_arch (
    notification_id INTEGER PRIMARY KEY,
    config_id       INTEGER,
    tenant_id       INTEGER NOT NULL,
    description     TEXT NOT NULL,
    type            TEXT NOT NULL DEFAULT '',
    priority        TEXT NOT NULL DEFAULT '',
    created_at      TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_arch_tenant_created
    ON notifications_arch (tenant_id, created_at);

CREATE TABLE IF NOT EXISTS user_notification_actions_arch (
    action_id       TEXT PRIMARY KEY,
    notification_id INTEGER NOT NULL,
    tenant_id       INTEGER NOT NULL,
    username        TEXT NOT NULL,
    action          TEXT NOT NULL,
    action_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_actions_arch_notification
    ON user_notification_actions_arch (notification_id);
`

// InitSchema applies the engine's DDL on startup. Real schema migration
// tooling is out of scope; this covers first-run bootstrap only.
func InitSchema(db *sqlx.DB) error {
	var schema string
	switch db.DriverName() {
	case "postgres":
		schema = postgresSchema
	case "sqlite":
		schema = sqliteSchema
	default:
		return fmt.Errorf("unsupported database engine %q", db.DriverName())
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
