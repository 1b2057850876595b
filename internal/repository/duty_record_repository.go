package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dutyops/duty-roster-api/internal/models"
)

const dutyRecordColumns = "id, date, person_id, person_name, kind, original_person_id, reason, created_by, created_at"

// DutyRecordRepository persists override records. The duty_records table
// carries a unique index on date, which backs the at-most-one-record-per-date
// invariant.
type DutyRecordRepository struct {
	db *sqlx.DB
}

// NewDutyRecordRepository constructs a duty record repository.
func NewDutyRecordRepository(db *sqlx.DB) *DutyRecordRepository {
	return &DutyRecordRepository{db: db}
}

// GetByDate fetches the record for a date, or nil when none exists.
func (r *DutyRecordRepository) GetByDate(ctx context.Context, date string) (*models.DutyRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM duty_records WHERE date = $1", dutyRecordColumns)
	var record models.DutyRecord
	if err := r.db.GetContext(ctx, &record, query, date); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get duty record by date: %w", err)
	}
	return &record, nil
}

// GetAll returns every override record ordered by date.
func (r *DutyRecordRepository) GetAll(ctx context.Context) ([]models.DutyRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM duty_records ORDER BY date ASC", dutyRecordColumns)
	var records []models.DutyRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list duty records: %w", err)
	}
	return records, nil
}

// GetByDateRange returns records with start <= date <= end, ordered by date.
func (r *DutyRecordRepository) GetByDateRange(ctx context.Context, start, end string) ([]models.DutyRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM duty_records WHERE date >= $1 AND date <= $2 ORDER BY date ASC", dutyRecordColumns)
	var records []models.DutyRecord
	if err := r.db.SelectContext(ctx, &records, query, start, end); err != nil {
		return nil, fmt.Errorf("list duty records by range: %w", err)
	}
	return records, nil
}

// Insert stores a new record, filling ID and CreatedAt when unset.
func (r *DutyRecordRepository) Insert(ctx context.Context, record *models.DutyRecord) error {
	prepareDutyRecord(record)
	query := `INSERT INTO duty_records (id, date, person_id, person_name, kind, original_person_id, reason, created_by, created_at)
VALUES (:id, :date, :person_id, :person_name, :kind, :original_person_id, :reason, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert duty record: %w", err)
	}
	return nil
}

// DeleteByDate removes the record for a date. Returns the number of rows
// removed; zero is not an error, matching resume's idempotent contract.
func (r *DutyRecordRepository) DeleteByDate(ctx context.Context, date string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM duty_records WHERE date = $1", date)
	if err != nil {
		return 0, fmt.Errorf("delete duty record by date: %w", err)
	}
	return res.RowsAffected()
}

// DeleteByID removes one record by primary key.
func (r *DutyRecordRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM duty_records WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete duty record: %w", err)
	}
	return nil
}

// DeleteByPersonID purges every record referencing the person.
func (r *DutyRecordRepository) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM duty_records WHERE person_id = $1", personID)
	if err != nil {
		return 0, fmt.Errorf("delete duty records by person: %w", err)
	}
	return res.RowsAffected()
}

// DeleteAutoInRange removes materialized rotation records inside the range.
func (r *DutyRecordRepository) DeleteAutoInRange(ctx context.Context, start, end string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM duty_records WHERE kind = 'auto' AND date >= $1 AND date <= $2", start, end); err != nil {
		return fmt.Errorf("delete auto duty records in range: %w", err)
	}
	return nil
}

// DeleteOrphans removes records whose person no longer exists. Suspended
// records have no person and are never orphans.
func (r *DutyRecordRepository) DeleteOrphans(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM duty_records WHERE person_id IS NOT NULL AND person_id NOT IN (SELECT id FROM people)")
	if err != nil {
		return 0, fmt.Errorf("delete orphaned duty records: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the total number of override records.
func (r *DutyRecordRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM duty_records"); err != nil {
		return 0, fmt.Errorf("count duty records: %w", err)
	}
	return total, nil
}

// Apply deletes the records for the given dates and inserts the replacement
// set inside one transaction. Swap and bulk generation use it so concurrent
// writers never observe a date holding two records.
func (r *DutyRecordRepository) Apply(ctx context.Context, deleteDates []string, inserts []models.DutyRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin duty record transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, date := range deleteDates {
		if _, err := tx.ExecContext(ctx, "DELETE FROM duty_records WHERE date = $1", date); err != nil {
			return fmt.Errorf("delete duty record for %s: %w", date, err)
		}
	}
	for i := range inserts {
		prepareDutyRecord(&inserts[i])
		query := `INSERT INTO duty_records (id, date, person_id, person_name, kind, original_person_id, reason, created_by, created_at)
VALUES (:id, :date, :person_id, :person_name, :kind, :original_person_id, :reason, :created_by, :created_at)`
		if _, err := tx.NamedExecContext(ctx, query, &inserts[i]); err != nil {
			return fmt.Errorf("insert duty record for %s: %w", inserts[i].Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit duty record transaction: %w", err)
	}
	return nil
}

func prepareDutyRecord(record *models.DutyRecord) {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
}
