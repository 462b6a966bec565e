package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/points"
	"github.com/halvard/choreboard/internal/repository"
	"github.com/halvard/choreboard/pkg/entity"
)

type RegistryService struct {
	registryRepo   repository.RegistryRepositoryI
	choresRepo     repository.ChoresRepositoryI
	usersRepo      repository.UsersRepositoryI
	householdsRepo repository.HouseholdsRepositoryI
}

func NewRegistryService(registryRepo repository.RegistryRepositoryI, choresRepo repository.ChoresRepositoryI, usersRepo repository.UsersRepositoryI, householdsRepo repository.HouseholdsRepositoryI) *RegistryService {
	if registryRepo == nil || choresRepo == nil || usersRepo == nil || householdsRepo == nil {
		log.Fatal("on registry service provided nil repos")
	}
	return &RegistryService{
		registryRepo:   registryRepo,
		choresRepo:     choresRepo,
		usersRepo:      usersRepo,
		householdsRepo: householdsRepo,
	}
}

func (rs *RegistryService) requireMember(ctx context.Context, userID, householdID uuid.UUID) error {
	ok, err := rs.householdsRepo.IsMember(ctx, householdID, userID)
	if err != nil {
		return errors.New("households repository error: " + err.Error())
	}
	if !ok {
		return errorvalues.ErrHouseholdNotFound
	}
	return nil
}

// buildEntry resolves the chore and target user, snapshots their display
// names and prices the entry: chore points times the quantity.
func (rs *RegistryService) buildEntry(ctx context.Context, householdID uuid.UUID, req *RegisterChoreRequest, completedAt time.Time) (*entity.RegistryEntry, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	times := req.Times
	if times == 0 {
		times = 1
	}
	chore, err := rs.choresRepo.GetByID(ctx, req.ChoreID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrChoreNotFound) {
			return nil, err
		}
		return nil, errors.New("chores repository error: " + err.Error())
	}
	if chore.HouseholdID != householdID {
		return nil, errorvalues.ErrChoreNotFound
	}
	target, err := rs.usersRepo.FindByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	isMember, err := rs.householdsRepo.IsMember(ctx, householdID, target.ID)
	if err != nil {
		return nil, errors.New("households repository error: " + err.Error())
	}
	if !isMember {
		return nil, errorvalues.ErrUserNotFound
	}
	return &entity.RegistryEntry{
		HouseholdID: householdID,
		ChoreID:     chore.ID,
		ChoreName:   chore.Name,
		UserID:      target.ID,
		UserName:    target.DisplayName,
		Times:       times,
		Points:      chore.Points * times,
		CompletedAt: completedAt,
	}, nil
}

func (rs *RegistryService) Create(ctx context.Context, userID, householdID uuid.UUID, req *RegisterChoreRequest) (*entity.RegistryEntry, error) {
	saved, err := rs.CreateBatch(ctx, userID, householdID, []*RegisterChoreRequest{req})
	if err != nil {
		return nil, err
	}
	return saved[0], nil
}

func (rs *RegistryService) CreateBatch(ctx context.Context, userID, householdID uuid.UUID, reqs []*RegisterChoreRequest) ([]*entity.RegistryEntry, error) {
	if len(reqs) == 0 {
		return nil, errors.Join(errorvalues.ErrValidation, errors.New("no chores to register"))
	}
	if err := rs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	// One instant for the whole batch so the activity view can collapse it
	// into a single row
	completedAt := time.Now()
	entries := make([]*entity.RegistryEntry, 0, len(reqs))
	for _, req := range reqs {
		entry, err := rs.buildEntry(ctx, householdID, req, completedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	saved, err := rs.registryRepo.CreateBatch(ctx, entries)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHouseholdNotFound) {
			return nil, err
		}
		return nil, errors.New("registry repository error: " + err.Error())
	}
	return saved, nil
}

func (rs *RegistryService) List(ctx context.Context, userID, householdID uuid.UUID, req *ListRegistryRequest) ([]*entity.RegistryEntry, error) {
	if err := rs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	start, end, bounded := points.Window(req.Filter, now)
	entries, err := rs.registryRepo.ListByHousehold(ctx, householdID, repository.ListRegistryOpts{
		UserID:  req.UserID,
		Start:   start,
		End:     end,
		Bounded: bounded,
		Limit:   req.Limit,
	})
	if err != nil {
		return nil, errors.New("registry repository error: " + err.Error())
	}
	return entries, nil
}

func (rs *RegistryService) Leaderboard(ctx context.Context, userID, householdID uuid.UUID, req *ListRegistryRequest) ([]points.RankedTotal, error) {
	entries, err := rs.List(ctx, userID, householdID, req)
	if err != nil {
		return nil, err
	}
	flat := make([]entity.RegistryEntry, len(entries))
	for i, e := range entries {
		flat[i] = *e
	}
	return points.Leaderboard(flat), nil
}
