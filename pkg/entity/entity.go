package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID          uuid.UUID `json:"id"`
	ProviderUID string    `json:"uid"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Session is a server-side record of an issued bearer token. Logout marks it
// revoked; the auth middleware rejects revoked or expired sessions.
type Session struct {
	JTI       uuid.UUID
	UserID    uuid.UUID
	ExpiresAt time.Time
	RevokedAt *time.Time
}

type Household struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	MemberIDs []uuid.UUID `json:"memberIds"`
	CreatedBy uuid.UUID   `json:"createdBy"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"householdId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Chore carries a weak reference to its category. CategoryName is a snapshot
// taken when the reference was set; it is never rewritten on category rename
// or delete, so it may go stale.
type Chore struct {
	ID           uuid.UUID   `json:"id"`
	HouseholdID  uuid.UUID   `json:"householdId"`
	Name         string      `json:"name"`
	Description  string      `json:"description,omitempty"`
	CategoryID   *uuid.UUID  `json:"categoryId,omitempty"`
	CategoryName string      `json:"categoryName,omitempty"`
	AssignedTo   []uuid.UUID `json:"assignedTo,omitempty"`
	Points       int         `json:"points"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// RegistryEntry is an append-only completion record. ChoreName and UserName
// are denormalized display snapshots. Points is the total for the entry,
// already multiplied by Times.
type RegistryEntry struct {
	ID          uuid.UUID `json:"id"`
	HouseholdID uuid.UUID `json:"householdId"`
	ChoreID     uuid.UUID `json:"choreId"`
	ChoreName   string    `json:"choreName"`
	UserID      uuid.UUID `json:"userId"`
	UserName    string    `json:"userName"`
	Times       int       `json:"times"`
	Points      int       `json:"points"`
	CompletedAt time.Time `json:"completedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}
