package service_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/repository"
	"github.com/halvard/choreboard/internal/service"
	"github.com/halvard/choreboard/pkg/entity"
)

type mockState int

const (
	stateSuccess mockState = iota
	stateDBError
)

// Variables for tests
var (
	memberID      = uuid.New()
	mateID        = uuid.New()
	outsiderID    = uuid.New()
	householdID   = uuid.New()
	choreID       = uuid.New()
	categoryID    = uuid.New()
	testHousehold = entity.Household{
		ID:        householdID,
		Name:      "Maple Street",
		MemberIDs: []uuid.UUID{memberID, mateID},
		CreatedBy: memberID,
	}
	testCategory = entity.Category{
		ID:          categoryID,
		HouseholdID: householdID,
		Name:        "Kitchen",
	}
	testChore = entity.Chore{
		ID:           choreID,
		HouseholdID:  householdID,
		Name:         "Do the dishes",
		CategoryID:   &categoryID,
		CategoryName: "Kitchen",
		Points:       5,
	}
	testMember = entity.User{
		ID:          memberID,
		ProviderUID: "provider-uid-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}
	testMate = entity.User{
		ID:          mateID,
		ProviderUID: "provider-uid-2",
		Email:       "bob@example.com",
		DisplayName: "Bob",
	}
)

type householdsRepoMock struct {
	state        mockState
	renamedTo    string
	addedMembers []uuid.UUID
}

func (m *householdsRepoMock) Create(ctx context.Context, name string, createdBy uuid.UUID) (*entity.Household, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	return &entity.Household{
		ID:        uuid.New(),
		Name:      name,
		MemberIDs: []uuid.UUID{createdBy},
		CreatedBy: createdBy,
	}, nil
}

func (m *householdsRepoMock) ListByMember(ctx context.Context, userID uuid.UUID) ([]*entity.Household, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	h := testHousehold
	return []*entity.Household{&h}, nil
}

func (m *householdsRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Household, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	if id != householdID {
		return nil, errorvalues.ErrHouseholdNotFound
	}
	h := testHousehold
	if m.renamedTo != "" {
		h.Name = m.renamedTo
	}
	return &h, nil
}

func (m *householdsRepoMock) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	if id != householdID {
		return errorvalues.ErrHouseholdNotFound
	}
	m.renamedTo = name
	return nil
}

func (m *householdsRepoMock) AddMember(ctx context.Context, hid, userID uuid.UUID) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	if hid != householdID {
		return errorvalues.ErrHouseholdNotFound
	}
	m.addedMembers = append(m.addedMembers, userID)
	return nil
}

func (m *householdsRepoMock) IsMember(ctx context.Context, hid, userID uuid.UUID) (bool, error) {
	if m.state == stateDBError {
		return false, errors.New("db error")
	}
	if hid != householdID {
		return false, nil
	}
	return userID == memberID || userID == mateID, nil
}

type usersRepoMock struct {
	state mockState
}

func (m *usersRepoMock) UpsertByProviderUID(ctx context.Context, user *entity.User) (*entity.User, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	saved := *user
	if user.ProviderUID == testMember.ProviderUID {
		saved.ID = testMember.ID
	} else {
		saved.ID = uuid.New()
	}
	saved.CreatedAt = time.Now()
	saved.UpdatedAt = saved.CreatedAt
	return &saved, nil
}

func (m *usersRepoMock) FindByID(ctx context.Context, uid uuid.UUID) (*entity.User, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	switch uid {
	case memberID:
		u := testMember
		return &u, nil
	case mateID:
		u := testMate
		return &u, nil
	}
	return nil, errorvalues.ErrUserNotFound
}

func (m *usersRepoMock) FindByProviderUID(ctx context.Context, providerUID string) (*entity.User, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	if providerUID == testMember.ProviderUID {
		u := testMember
		return &u, nil
	}
	return nil, errorvalues.ErrUserNotFound
}

type categoriesRepoMock struct {
	state   mockState
	created []*entity.Category
	deleted []uuid.UUID
}

func (m *categoriesRepoMock) Create(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	saved := *category
	saved.ID = uuid.New()
	m.created = append(m.created, &saved)
	return &saved, nil
}

func (m *categoriesRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	for _, d := range m.deleted {
		if d == id {
			return nil, errorvalues.ErrCategoryNotFound
		}
	}
	if id != categoryID {
		return nil, errorvalues.ErrCategoryNotFound
	}
	c := testCategory
	return &c, nil
}

func (m *categoriesRepoMock) ListByHousehold(ctx context.Context, hid uuid.UUID) ([]*entity.Category, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	c := testCategory
	return []*entity.Category{&c}, nil
}

func (m *categoriesRepoMock) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	if id != categoryID {
		return errorvalues.ErrCategoryNotFound
	}
	return nil
}

func (m *categoriesRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	if id != categoryID {
		return errorvalues.ErrCategoryNotFound
	}
	m.deleted = append(m.deleted, id)
	return nil
}

type choresRepoMock struct {
	state   mockState
	created []*entity.Chore
	updated []*entity.Chore
}

func (m *choresRepoMock) Create(ctx context.Context, chore *entity.Chore) (*entity.Chore, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	saved := *chore
	saved.ID = uuid.New()
	m.created = append(m.created, &saved)
	return &saved, nil
}

func (m *choresRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*entity.Chore, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	if id != choreID {
		return nil, errorvalues.ErrChoreNotFound
	}
	c := testChore
	return &c, nil
}

func (m *choresRepoMock) ListByHousehold(ctx context.Context, hid uuid.UUID) ([]*entity.Chore, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	c := testChore
	return []*entity.Chore{&c}, nil
}

func (m *choresRepoMock) Update(ctx context.Context, chore *entity.Chore) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	if chore.ID != choreID {
		return errorvalues.ErrChoreNotFound
	}
	m.updated = append(m.updated, chore)
	return nil
}

func (m *choresRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	if id != choreID {
		return errorvalues.ErrChoreNotFound
	}
	return nil
}

type sessionsRepoMock struct {
	state    mockState
	sessions map[uuid.UUID]*entity.Session
}

func newSessionsRepoMock() *sessionsRepoMock {
	return &sessionsRepoMock{sessions: make(map[uuid.UUID]*entity.Session)}
}

func (m *sessionsRepoMock) Create(ctx context.Context, session *entity.Session) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	s := *session
	m.sessions[session.JTI] = &s
	return nil
}

func (m *sessionsRepoMock) Get(ctx context.Context, jti uuid.UUID) (*entity.Session, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	s, ok := m.sessions[jti]
	if !ok {
		return nil, errorvalues.ErrSessionNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *sessionsRepoMock) Revoke(ctx context.Context, jti uuid.UUID) error {
	if m.state == stateDBError {
		return errors.New("db error")
	}
	if s, ok := m.sessions[jti]; ok && s.RevokedAt == nil {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

type registryRepoMock struct {
	state    mockState
	saved    []*entity.RegistryEntry
	listing  []*entity.RegistryEntry
	lastOpts repository.ListRegistryOpts
}

func (m *registryRepoMock) CreateBatch(ctx context.Context, entries []*entity.RegistryEntry) ([]*entity.RegistryEntry, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	saved := make([]*entity.RegistryEntry, 0, len(entries))
	for _, e := range entries {
		s := *e
		s.ID = uuid.New()
		s.CreatedAt = time.Now()
		m.saved = append(m.saved, &s)
		saved = append(saved, &s)
	}
	return saved, nil
}

func (m *registryRepoMock) ListByHousehold(ctx context.Context, hid uuid.UUID, opts repository.ListRegistryOpts) ([]*entity.RegistryEntry, error) {
	if m.state == stateDBError {
		return nil, errors.New("db error")
	}
	m.lastOpts = opts
	if m.listing != nil {
		return m.listing, nil
	}
	return m.saved, nil
}

func TestMain(m *testing.M) {
	service.InitValidator()
	os.Exit(m.Run())
}
