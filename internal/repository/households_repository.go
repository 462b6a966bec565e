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

type HouseholdsRepository struct {
	conn PgConnection
}

func NewHouseholdsRepo(conn PgConnection) *HouseholdsRepository {
	if conn == nil {
		log.Fatal("provided nil connection for householdsRepo")
	}
	return &HouseholdsRepository{
		conn: conn,
	}
}

const householdColumns = `h.id, h.name, h.created_by, h.created_at, h.updated_at,
		ARRAY(SELECT m.user_id FROM household_members m WHERE m.household_id = h.id ORDER BY m.joined_at)`

func (hr *HouseholdsRepository) Create(ctx context.Context, name string, createdBy uuid.UUID) (*entity.Household, error) {
	tx, err := hr.conn.Begin(ctx)
	if err != nil {
		return nil, errors.New("beginning household tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	var h entity.Household
	row := tx.QueryRow(ctx, `INSERT INTO households (name, created_by) VALUES ($1, $2)
		RETURNING id, name, created_by, created_at, updated_at;`, name, createdBy)
	if err = row.Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, errorvalues.ErrUserNotFound
		}
		return nil, errors.New("creating household db error: " + err.Error())
	}
	_, err = tx.Exec(ctx, `INSERT INTO household_members (household_id, user_id) VALUES ($1, $2);`, h.ID, createdBy)
	if err != nil {
		return nil, errors.New("registering creator membership error: " + err.Error())
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, errors.New("committing household tx error: " + err.Error())
	}
	h.MemberIDs = []uuid.UUID{createdBy}
	return &h, nil
}

func (hr *HouseholdsRepository) ListByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Household, error) {
	households := make([]*entity.Household, 0)
	rows, err := hr.conn.Query(ctx, `SELECT `+householdColumns+`
		FROM households h
		JOIN household_members mm ON mm.household_id = h.id
		WHERE mm.user_id = $1
		ORDER BY h.created_at;`, userID)
	if err != nil {
		return nil, errors.New("listing households by member error: " + err.Error())
	}
	defer rows.Close()
	for rows.Next() {
		h := entity.Household{}
		err = rows.Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt, &h.MemberIDs)
		if err != nil {
			return nil, errors.New("scanning household row error: " + err.Error())
		}
		households = append(households, &h)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected household rows error: " + rows.Err().Error())
	}
	return households, nil
}

func (hr *HouseholdsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Household, error) {
	var h entity.Household
	row := hr.conn.QueryRow(ctx, `SELECT `+householdColumns+` FROM households h WHERE h.id = $1;`, id)
	if err := row.Scan(&h.ID, &h.Name, &h.CreatedBy, &h.CreatedAt, &h.UpdatedAt, &h.MemberIDs); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrHouseholdNotFound
		}
		return nil, errors.New("getting household by id error: " + err.Error())
	}
	return &h, nil
}

func (hr *HouseholdsRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	ct, err := hr.conn.Exec(ctx, `UPDATE households SET name = $1, updated_at = NOW() WHERE id = $2;`, name, id)
	if err != nil {
		return errors.New("updating household error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrHouseholdNotFound
	}
	return nil
}

func (hr *HouseholdsRepository) AddMember(ctx context.Context, householdID, userID uuid.UUID) error {
	_, err := hr.conn.Exec(ctx, `INSERT INTO household_members (household_id, user_id) VALUES ($1, $2)
		ON CONFLICT (household_id, user_id) DO NOTHING;`, householdID, userID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			// FK violation: either side of the membership is missing
			case "23503":
				if pgErr.ConstraintName == "household_members_user_id_fkey" {
					return errorvalues.ErrUserNotFound
				}
				return errorvalues.ErrHouseholdNotFound
			}
		}
		return errors.New("adding household member error: " + err.Error())
	}
	return nil
}

func (hr *HouseholdsRepository) IsMember(ctx context.Context, householdID, userID uuid.UUID) (bool, error) {
	var exists bool
	row := hr.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM household_members WHERE household_id = $1 AND user_id = $2);`,
		householdID, userID)
	if err := row.Scan(&exists); err != nil {
		return false, errors.New("inspecting membership error: " + err.Error())
	}
	return exists, nil
}
