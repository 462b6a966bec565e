package repository

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/pkg/entity"
)

type RegistryRepository struct {
	conn PgConnection
}

func NewRegistryRepo(conn PgConnection) *RegistryRepository {
	if conn == nil {
		log.Fatal("provided nil connection for registryRepo")
	}
	return &RegistryRepository{
		conn: conn,
	}
}

const registryColumns = `id, household_id, chore_id, chore_name, user_id, user_name, times, points, completed_at, created_at`

func (rr *RegistryRepository) CreateBatch(ctx context.Context, entries []*entity.RegistryEntry) ([]*entity.RegistryEntry, error) {
	if len(entries) == 0 {
		return []*entity.RegistryEntry{}, nil
	}
	tx, err := rr.conn.Begin(ctx)
	if err != nil {
		return nil, errors.New("beginning registry tx error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	saved := make([]*entity.RegistryEntry, 0, len(entries))
	for _, e := range entries {
		var s entity.RegistryEntry
		row := tx.QueryRow(ctx, `INSERT INTO registry_entries (household_id, chore_id, chore_name, user_id, user_name, times, points, completed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING `+registryColumns+`;`,
			e.HouseholdID, e.ChoreID, e.ChoreName, e.UserID, e.UserName, e.Times, e.Points, e.CompletedAt,
		)
		if err = row.Scan(&s.ID, &s.HouseholdID, &s.ChoreID, &s.ChoreName, &s.UserID, &s.UserName, &s.Times, &s.Points, &s.CompletedAt, &s.CreatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				// FK violation
				case "23503":
					return nil, errorvalues.ErrHouseholdNotFound
				}
			}
			return nil, errors.New("inserting registry entry error: " + err.Error())
		}
		saved = append(saved, &s)
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, errors.New("committing registry tx error: " + err.Error())
	}
	return saved, nil
}

func (rr *RegistryRepository) ListByHousehold(ctx context.Context, householdID uuid.UUID, opts ListRegistryOpts) ([]*entity.RegistryEntry, error) {
	query := `SELECT ` + registryColumns + ` FROM registry_entries WHERE household_id = $1`
	args := []any{householdID}
	if opts.UserID != nil {
		args = append(args, *opts.UserID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	if opts.Bounded {
		args = append(args, opts.Start)
		query += ` AND completed_at >= $` + strconv.Itoa(len(args))
		args = append(args, opts.End)
		query += ` AND completed_at < $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY completed_at DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	query += `;`

	rows, err := rr.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.New("listing registry entries error: " + err.Error())
	}
	defer rows.Close()
	entries := make([]*entity.RegistryEntry, 0)
	for rows.Next() {
		e := entity.RegistryEntry{}
		err = rows.Scan(&e.ID, &e.HouseholdID, &e.ChoreID, &e.ChoreName, &e.UserID, &e.UserName, &e.Times, &e.Points, &e.CompletedAt, &e.CreatedAt)
		if err != nil {
			return nil, errors.New("scanning registry row error: " + err.Error())
		}
		entries = append(entries, &e)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected registry rows error: " + rows.Err().Error())
	}
	return entries, nil
}
