package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dutyops/duty-roster-api/internal/models"
)

// Well-known system_config keys.
const (
	ConfigKeyStartDate   = "duty_start_date"
	ConfigKeyDutyRules   = "duty_rules"
	ConfigKeyLastUpdated = "last_updated"
)

// SystemConfigRepository stores schedule settings in a key/value table.
type SystemConfigRepository struct {
	db *sqlx.DB
}

// NewSystemConfigRepository constructs a system config repository.
func NewSystemConfigRepository(db *sqlx.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// Get returns the value for a key, or "" when the key is absent.
func (r *SystemConfigRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	if err := r.db.GetContext(ctx, &value, "SELECT value FROM system_config WHERE key = $1", key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("get config %s: %w", key, err)
	}
	return value, nil
}

// Set upserts the value for a key and stamps last_updated.
func (r *SystemConfigRepository) Set(ctx context.Context, key, value string) error {
	query := `INSERT INTO system_config (key, value, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("set config %s: %w", key, err)
	}
	return nil
}

// GetRules loads the duty rules, falling back to defaults when unset.
func (r *SystemConfigRepository) GetRules(ctx context.Context) (models.DutyRules, error) {
	raw, err := r.Get(ctx, ConfigKeyDutyRules)
	if err != nil {
		return models.DutyRules{}, err
	}
	if raw == "" {
		return models.DefaultDutyRules(), nil
	}
	var rules models.DutyRules
	if err := json.Unmarshal([]byte(raw), &rules); err != nil {
		return models.DutyRules{}, fmt.Errorf("decode duty rules: %w", err)
	}
	return rules, nil
}

// SetRules persists the duty rules as JSON.
func (r *SystemConfigRepository) SetRules(ctx context.Context, rules models.DutyRules) error {
	raw, err := json.Marshal(rules)
	if err != nil {
		return fmt.Errorf("encode duty rules: %w", err)
	}
	return r.Set(ctx, ConfigKeyDutyRules, string(raw))
}
