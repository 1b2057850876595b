// Command migrate applies the duty-roster schema to the configured
// Postgres database. It is idempotent and safe to run on every deploy.
package main

import (
	"flag"
	"log"

	"github.com/dutyops/duty-roster-api/pkg/config"
	"github.com/dutyops/duty-roster-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS people (
    id          TEXT PRIMARY KEY,
    name        TEXT NOT NULL,
    order_index INTEGER NOT NULL,
    is_active   BOOLEAN NOT NULL DEFAULT TRUE,
    email       TEXT,
    phone       TEXT,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS duty_records (
    id                 TEXT PRIMARY KEY,
    date               TEXT NOT NULL,
    person_id          TEXT,
    person_name        TEXT,
    kind               TEXT NOT NULL CHECK (kind IN ('auto', 'manual', 'swap', 'replacement', 'suspended')),
    original_person_id TEXT,
    reason             TEXT,
    created_by         TEXT,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- One record per date backs the override semantics.
CREATE UNIQUE INDEX IF NOT EXISTS duty_records_date_key ON duty_records (date);
CREATE INDEX IF NOT EXISTS duty_records_person_idx ON duty_records (person_id);

CREATE TABLE IF NOT EXISTS system_config (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name     TEXT NOT NULL,
    role          TEXT NOT NULL CHECK (role IN ('ADMIN', 'VIEWER')),
    active        BOOLEAN NOT NULL DEFAULT TRUE,
    last_login    TIMESTAMPTZ,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS audit_logs (
    id          TEXT PRIMARY KEY,
    user_id     TEXT,
    action      TEXT NOT NULL,
    resource    TEXT NOT NULL,
    resource_id TEXT,
    new_values  BYTEA,
    ip_address  TEXT NOT NULL DEFAULT '',
    user_agent  TEXT NOT NULL DEFAULT '',
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS audit_logs_created_idx ON audit_logs (created_at DESC);
`

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close() //nolint:errcheck

	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
	log.Println("schema applied")
}
