package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutyops/duty-roster-api/internal/models"
)

func TestPersonRepositoryListActiveOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPersonRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "order_index", "is_active", "email", "phone", "created_at", "updated_at"}).
		AddRow("p1", "Alice", 1, true, nil, nil, time.Now(), time.Now()).
		AddRow("p2", "Bob", 2, true, nil, nil, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .+ FROM people WHERE is_active = TRUE ORDER BY order_index ASC`).
		WillReturnRows(rows)

	people, err := repo.List(context.Background(), models.PersonFilter{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Alice", people[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryCreateAppendsToRotation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPersonRepository(db)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(order_index\), 0\) \+ 1 FROM people`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(4))
	mock.ExpectExec(`INSERT INTO people`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	person := &models.Person{Name: "Carol", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), person))
	assert.NotEmpty(t, person.ID)
	assert.Equal(t, 4, person.OrderIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositorySwapOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE people SET order_index = \$1`).
		WithArgs(2, sqlmock.AnyArg(), "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE people SET order_index = \$1`).
		WithArgs(1, sqlmock.AnyArg(), "p2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a := &models.Person{ID: "p1", OrderIndex: 1}
	b := &models.Person{ID: "p2", OrderIndex: 2}
	require.NoError(t, repo.SwapOrder(context.Background(), a, b))
	assert.Equal(t, 2, a.OrderIndex)
	assert.Equal(t, 1, b.OrderIndex)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPersonRepositoryDeleteCascade(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPersonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM duty_records WHERE person_id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 5))
	mock.ExpectExec(`DELETE FROM people WHERE id = \$1`).
		WithArgs("p1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	removed, err := repo.DeleteCascade(context.Background(), "p1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
