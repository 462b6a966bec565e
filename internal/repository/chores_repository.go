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

type ChoresRepository struct {
	conn PgConnection
}

func NewChoresRepo(conn PgConnection) *ChoresRepository {
	if conn == nil {
		log.Fatal("provided nil connection for choresRepo")
	}
	return &ChoresRepository{
		conn: conn,
	}
}

const choreColumns = `id, household_id, name, description, category_id, category_name, assigned_to, points, created_at, updated_at`

func (chr *ChoresRepository) Create(ctx context.Context, chore *entity.Chore) (*entity.Chore, error) {
	if chore == nil {
		return nil, errors.New("chore is nil")
	}
	var saved entity.Chore
	row := chr.conn.QueryRow(ctx, `INSERT INTO chores (household_id, name, description, category_id, category_name, assigned_to, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+choreColumns+`;`,
		chore.HouseholdID, chore.Name, chore.Description, chore.CategoryID, chore.CategoryName, chore.AssignedTo, chore.Points,
	)
	if err := scanChore(row, &saved); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation
			case "23503":
				return nil, errorvalues.ErrHouseholdNotFound
			}
		}
		return nil, errors.New("creating chore db error: " + err.Error())
	}
	return &saved, nil
}

func (chr *ChoresRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Chore, error) {
	var chore entity.Chore
	row := chr.conn.QueryRow(ctx, `SELECT `+choreColumns+` FROM chores WHERE id = $1;`, id)
	if err := scanChore(row, &chore); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrChoreNotFound
		}
		return nil, errors.New("getting chore by id error: " + err.Error())
	}
	return &chore, nil
}

func (chr *ChoresRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*entity.Chore, error) {
	chores := make([]*entity.Chore, 0)
	rows, err := chr.conn.Query(ctx, `SELECT `+choreColumns+` FROM chores WHERE household_id = $1 ORDER BY created_at;`, householdID)
	if err != nil {
		return nil, errors.New("listing chores error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		ch := entity.Chore{}
		if err = scanChore(rows, &ch); err != nil {
			return nil, errors.New("scanning chore row error: " + err.Error())
		}
		chores = append(chores, &ch)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected chore rows error: " + rows.Err().Error())
	}
	return chores, nil
}

func (chr *ChoresRepository) Update(ctx context.Context, chore *entity.Chore) error {
	if chore == nil {
		return errors.New("chore is nil")
	}
	ct, err := chr.conn.Exec(ctx, `UPDATE chores
		SET name = $1, description = $2, category_id = $3, category_name = $4, assigned_to = $5, points = $6, updated_at = NOW()
		WHERE id = $7;`,
		chore.Name, chore.Description, chore.CategoryID, chore.CategoryName, chore.AssignedTo, chore.Points, chore.ID,
	)
	if err != nil {
		return errors.New("updating chore error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrChoreNotFound
	}
	return nil
}

func (chr *ChoresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := chr.conn.Exec(ctx, `DELETE FROM chores WHERE id = $1;`, id)
	if err != nil {
		return errors.New("deleting chore error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrChoreNotFound
	}
	return nil
}

func scanChore(row pgx.Row, ch *entity.Chore) error {
	return row.Scan(&ch.ID, &ch.HouseholdID, &ch.Name, &ch.Description, &ch.CategoryID, &ch.CategoryName, &ch.AssignedTo, &ch.Points, &ch.CreatedAt, &ch.UpdatedAt)
}
