package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/halvard/choreboard/internal/points"
	"github.com/halvard/choreboard/pkg/entity"
)

type LoginResult struct {
	User  *entity.User
	Token string
}

type AuthServiceI interface {
	// Verifies the identity-provider idToken, upserts the user and mints a
	// session token
	Login(ctx context.Context, idToken string) (*LoginResult, error)
	// Revokes the session named by the token's JTI. Idempotent
	Logout(ctx context.Context, jti uuid.UUID) error
	// Resolves a bearer session token to a live user. Fails with
	// ErrSessionRevoked for expired or logged-out sessions
	Authorize(ctx context.Context, token string) (*entity.User, uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type CreateHouseholdRequest struct {
	Name string `validate:"required,notblank,max=100"`
}

type HouseholdsServiceI interface {
	// Creates the household, registers the creator as first member and seeds
	// the default category/chore taxonomy
	Create(ctx context.Context, creator uuid.UUID, req *CreateHouseholdRequest) (*entity.Household, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Household, error)
	// Non-members get ErrHouseholdNotFound, membership is not leaked
	Get(ctx context.Context, userID, householdID uuid.UUID) (*entity.Household, error)
	Rename(ctx context.Context, userID, householdID uuid.UUID, req *CreateHouseholdRequest) (*entity.Household, error)
	// Adding an existing member is a no-op union
	AddMember(ctx context.Context, userID, householdID, newMemberID uuid.UUID) (*entity.Household, error)
}

type CreateCategoryRequest struct {
	Name string `validate:"required,notblank,max=100"`
}

type CategoriesServiceI interface {
	Create(ctx context.Context, userID, householdID uuid.UUID, req *CreateCategoryRequest) (*entity.Category, error)
	List(ctx context.Context, userID, householdID uuid.UUID) ([]*entity.Category, error)
	Get(ctx context.Context, userID, householdID, categoryID uuid.UUID) (*entity.Category, error)
	Rename(ctx context.Context, userID, householdID, categoryID uuid.UUID, req *CreateCategoryRequest) (*entity.Category, error)
	// Chores referencing the category keep their dangling reference and
	// stale name snapshot
	Delete(ctx context.Context, userID, householdID, categoryID uuid.UUID) error
}

type CreateChoreRequest struct {
	Name        string      `validate:"required,notblank,max=100"`
	Description string      `validate:"max=500"`
	CategoryID  *uuid.UUID  `validate:"-"`
	AssignedTo  []uuid.UUID `validate:"-"`
	Points      int         `validate:"gte=0,lte=1000"`
}

// UpdateChoreRequest applies only the fields that are set.
type UpdateChoreRequest struct {
	Name        *string     `validate:"omitempty,notblank,max=100"`
	Description *string     `validate:"omitempty,max=500"`
	CategoryID  *uuid.UUID  `validate:"-"`
	AssignedTo  []uuid.UUID `validate:"-"`
	Points      *int        `validate:"omitempty,gte=0,lte=1000"`
}

type ChoresServiceI interface {
	Create(ctx context.Context, userID, householdID uuid.UUID, req *CreateChoreRequest) (*entity.Chore, error)
	List(ctx context.Context, userID, householdID uuid.UUID) ([]*entity.Chore, error)
	Get(ctx context.Context, userID, householdID, choreID uuid.UUID) (*entity.Chore, error)
	Update(ctx context.Context, userID, householdID, choreID uuid.UUID, req *UpdateChoreRequest) (*entity.Chore, error)
	Delete(ctx context.Context, userID, householdID, choreID uuid.UUID) error
}

type RegisterChoreRequest struct {
	ChoreID uuid.UUID `validate:"required"`
	UserID  uuid.UUID `validate:"required"`
	Times   int       `validate:"gte=0,lte=100"`
}

type ListRegistryRequest struct {
	Filter points.DateFilter
	UserID *uuid.UUID
	Limit  int
	// Now anchors the filter window; the zero value means time.Now()
	Now time.Time
}

type RegistryServiceI interface {
	// Registers one completion. Entry points are chore points times Times
	Create(ctx context.Context, userID, householdID uuid.UUID, req *RegisterChoreRequest) (*entity.RegistryEntry, error)
	// Registers several completions atomically, all stamped with the same
	// completion instant
	CreateBatch(ctx context.Context, userID, householdID uuid.UUID, reqs []*RegisterChoreRequest) ([]*entity.RegistryEntry, error)
	List(ctx context.Context, userID, householdID uuid.UUID, req *ListRegistryRequest) ([]*entity.RegistryEntry, error)
	// Ranked per-user totals for the filter window
	Leaderboard(ctx context.Context, userID, householdID uuid.UUID, req *ListRegistryRequest) ([]points.RankedTotal, error)
}
