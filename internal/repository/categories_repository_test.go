package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/repository"
	"github.com/halvard/choreboard/pkg/entity"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
)

var categoryColumns = []string{"id", "household_id", "name", "created_at", "updated_at"}

func categoryRow(c entity.Category) *pgxmock.Rows {
	return pgxmock.NewRows(categoryColumns).
		AddRow(c.ID, c.HouseholdID, c.Name, c.CreatedAt, c.UpdatedAt)
}

func TestCreateCategoryRepo(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewCategoriesRepo(conn)
	now := time.Now()
	category := entity.Category{
		ID:          uuid.New(),
		HouseholdID: uuid.New(),
		Name:        "Garage",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	query := regexp.QuoteMeta(`INSERT INTO categories (household_id, name)`)
	t.Run("created", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(category.HouseholdID, category.Name).
			WillReturnRows(categoryRow(category))
		saved, err := repo.Create(ctx, &entity.Category{HouseholdID: category.HouseholdID, Name: category.Name})
		assert.NoError(t, err)
		assert.Equal(t, category, *saved)
	})
	t.Run("unknown household", func(t *testing.T) {
		conn.ExpectQuery(query).
			WithArgs(category.HouseholdID, category.Name).
			WillReturnError(&pgconn.PgError{Code: "23503"})
		_, err := repo.Create(ctx, &entity.Category{HouseholdID: category.HouseholdID, Name: category.Name})
		assert.ErrorIs(t, err, errorvalues.ErrHouseholdNotFound)
	})
	t.Run("nil category", func(t *testing.T) {
		_, err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})
}

func TestDeleteCategoryRepo(t *testing.T) {
	conn, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	repo := repository.NewCategoriesRepo(conn)
	id := uuid.New()
	query := regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1;`)
	t.Run("deleted", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		err := repo.Delete(ctx, id)
		assert.NoError(t, err)
		// No follow-up statement touches the referencing chores
		assert.NoError(t, conn.ExpectationsWereMet())
	})
	t.Run("not found", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(id).WillReturnResult(pgxmock.NewResult("DELETE", 0))
		err := repo.Delete(ctx, id)
		assert.ErrorIs(t, err, errorvalues.ErrCategoryNotFound)
	})
	t.Run("db error", func(t *testing.T) {
		conn.ExpectExec(query).WithArgs(id).WillReturnError(errors.New("connection reset"))
		err := repo.Delete(ctx, id)
		assert.Error(t, err)
	})
}
