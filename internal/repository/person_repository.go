package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dutyops/duty-roster-api/internal/models"
)

const personColumns = "id, name, order_index, is_active, email, phone, created_at, updated_at"

// PersonRepository persists roster members.
type PersonRepository struct {
	db *sqlx.DB
}

// NewPersonRepository constructs a person repository.
func NewPersonRepository(db *sqlx.DB) *PersonRepository {
	return &PersonRepository{db: db}
}

// List returns people matching the filter, ordered by rotation position.
func (r *PersonRepository) List(ctx context.Context, filter models.PersonFilter) ([]models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM people", personColumns)
	conditions := []string{}
	args := []interface{}{}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conditions = append(conditions, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY order_index ASC, created_at ASC"

	var people []models.Person
	if err := r.db.SelectContext(ctx, &people, query, args...); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

// GetByID fetches one person, or nil when not found.
func (r *PersonRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	query := fmt.Sprintf("SELECT %s FROM people WHERE id = $1", personColumns)
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &person, nil
}

// Create inserts a new person at the end of the rotation order.
func (r *PersonRepository) Create(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	person.CreatedAt = now
	person.UpdatedAt = now
	if person.OrderIndex == 0 {
		next, err := r.nextOrderIndex(ctx)
		if err != nil {
			return err
		}
		person.OrderIndex = next
	}
	query := `INSERT INTO people (id, name, order_index, is_active, email, phone, created_at, updated_at)
VALUES (:id, :name, :order_index, :is_active, :email, :phone, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, person); err != nil {
		return fmt.Errorf("create person: %w", err)
	}
	return nil
}

// Update rewrites a person's mutable fields.
func (r *PersonRepository) Update(ctx context.Context, person *models.Person) error {
	person.UpdatedAt = time.Now().UTC()
	query := `UPDATE people SET name = :name, order_index = :order_index, is_active = :is_active,
email = :email, phone = :phone, updated_at = :updated_at WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, person)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SwapOrder exchanges the rotation positions of two people atomically.
func (r *PersonRepository) SwapOrder(ctx context.Context, a, b *models.Person) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order swap: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, "UPDATE people SET order_index = $1, updated_at = $2 WHERE id = $3", b.OrderIndex, now, a.ID); err != nil {
		return fmt.Errorf("swap order: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE people SET order_index = $1, updated_at = $2 WHERE id = $3", a.OrderIndex, now, b.ID); err != nil {
		return fmt.Errorf("swap order: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order swap: %w", err)
	}
	a.OrderIndex, b.OrderIndex = b.OrderIndex, a.OrderIndex
	return nil
}

// DeleteCascade removes the person together with every duty record that
// references them, in one transaction.
func (r *PersonRepository) DeleteCascade(ctx context.Context, id string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin cascade delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx, "DELETE FROM duty_records WHERE person_id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("delete person duty records: %w", err)
	}
	removed, _ := res.RowsAffected()

	if _, err := tx.ExecContext(ctx, "DELETE FROM people WHERE id = $1", id); err != nil {
		return 0, fmt.Errorf("delete person: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit cascade delete: %w", err)
	}
	return removed, nil
}

func (r *PersonRepository) nextOrderIndex(ctx context.Context) (int, error) {
	var next int
	if err := r.db.GetContext(ctx, &next, "SELECT COALESCE(MAX(order_index), 0) + 1 FROM people"); err != nil {
		return 0, fmt.Errorf("next order index: %w", err)
	}
	return next, nil
}
