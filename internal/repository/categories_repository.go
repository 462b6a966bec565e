package repository

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/entity"
)

type CategoriesRepository struct {
	conn PgConnection
}

func NewCategoriesRepo(conn PgConnection) *CategoriesRepository {
	if conn == nil {
		log.Fatal("provided nil connection for categoriesRepo")
	}
	return &CategoriesRepository{
		conn: conn,
	}
}

func (cr *CategoriesRepository) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	var saved entity.Category
	row := cr.conn.QueryRow(ctx, `INSERT INTO categories (household_id, name) VALUES ($1, $2)
		RETURNING id, household_id, name, created_at, updated_at;`,
		category.HouseholdID, category.Name,
	)
	if err := row.Scan(&saved.ID, &saved.HouseholdID, &saved.Name, &saved.CreatedAt, &saved.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrHouseholdNotFound
			}
		}
		return nil, errors.New("creating category db error: " + err.Error())
	}
	return &saved, nil
}

func (cr *CategoriesRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	row := cr.conn.QueryRow(ctx, `SELECT id, household_id, name, created_at, updated_at FROM categories WHERE id = $1;`, id)
	if err := row.Scan(&category.ID, &category.HouseholdID, &category.Name, &category.CreatedAt, &category.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrCategoryNotFound
		}
		return nil, errors.New("getting category by id error: " + err.Error())
	}
	return &category, nil
}

func (cr *CategoriesRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*entity.Category, error) {
	categories := make([]*entity.Category, 0)
	rows, err := cr.conn.Query(ctx, `SELECT id, household_id, name, created_at, updated_at
		FROM categories WHERE household_id = $1 ORDER BY created_at;`, householdID)
	if err != nil {
		return nil, errors.New("listing categories error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		c := entity.Category{}
		err = rows.Scan(&c.ID, &c.HouseholdID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, errors.New("scanning category row error: " + err.Error())
		}
		categories = append(categories, &c)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected category rows error: " + rows.Err().Error())
	}
	return categories, nil
}

func (cr *CategoriesRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	ct, err := cr.conn.Exec(ctx, `UPDATE categories SET name = $1, updated_at = NOW() WHERE id = $2;`, name, id)
	if err != nil {
		return errors.New("updating category error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}

func (cr *CategoriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := cr.conn.Exec(ctx, `DELETE FROM categories WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting category error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}
