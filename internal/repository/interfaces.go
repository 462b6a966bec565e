package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/halvard/choreboard/pkg/entity"
)

type UsersRepositoryI interface {
	// Inserts the user on first login, refreshes profile fields afterwards.
	// Keyed by the identity provider's uid
	UpsertByProviderUID(ctx context.Context, user *entity.User) (*entity.User, error)
	// Looks up user by internal id. Used by auth middleware
	FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error)
	// Looks up user by provider uid
	FindByProviderUID(ctx context.Context, providerUID string) (*entity.User, error)
}

type SessionsRepositoryI interface {
	// Records an issued bearer token
	Create(ctx context.Context, session *entity.Session) error
	// Finds a session by token id
	Get(ctx context.Context, jti uuid.UUID) (*entity.Session, error)
	// Marks a session revoked. Revoking twice is a no-op
	Revoke(ctx context.Context, jti uuid.UUID) error
}

type HouseholdsRepositoryI interface {
	// Creates a household with the creator as its first member
	Create(ctx context.Context, name string, createdBy uuid.UUID) (*entity.Household, error)
	// Lists households the user belongs to
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Household, error)
	// Fetches one household with its member ids
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Household, error)
	// Renames a household
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	// Adds a member. Re-adding an existing member is a no-op union
	AddMember(ctx context.Context, householdID, userID uuid.UUID) error
	// Reports whether the user belongs to the household
	IsMember(ctx context.Context, householdID, userID uuid.UUID) (bool, error)
}

type CategoriesRepositoryI interface {
	Create(ctx context.Context, category *entity.Category) (*entity.Category, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*entity.Category, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	// Deletes the category only. Chores referencing it keep their dangling
	// category_id and stale category_name
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChoresRepositoryI interface {
	Create(ctx context.Context, chore *entity.Chore) (*entity.Chore, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Chore, error)
	ListByHousehold(ctx context.Context, householdID uuid.UUID) ([]*entity.Chore, error)
	Update(ctx context.Context, chore *entity.Chore) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListRegistryOpts bounds a registry read. Start/End form a half-open window
// [Start, End) applied only when Bounded is set.
type ListRegistryOpts struct {
	UserID  *uuid.UUID
	Start   time.Time
	End     time.Time
	Bounded bool
	Limit   int
}

type RegistryRepositoryI interface {
	// Appends entries inside one transaction: either all land or none do
	CreateBatch(ctx context.Context, entries []*entity.RegistryEntry) ([]*entity.RegistryEntry, error)
	// Lists entries for a household, newest first
	ListByHousehold(ctx context.Context, householdID uuid.UUID, opts ListRegistryOpts) ([]*entity.RegistryEntry, error)
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
