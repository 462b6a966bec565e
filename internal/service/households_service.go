package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	errorvalues "github.com/halvard/choreboard/internal/error_values"
	"github.com/halvard/choreboard/internal/repository"
	"github.com/halvard/choreboard/pkg/entity"
)

// seededTaxonomy is written into every new household so members can start
// logging chores without building a chore list first.
var seededTaxonomy = []struct {
	category string
	chores   []struct {
		name   string
		points int
	}
}{
	{category: "Kitchen", chores: []struct {
		name   string
		points int
	}{
		{"Do the dishes", 5},
		{"Cook a meal", 10},
		{"Take out the trash", 3},
	}},
	{category: "Cleaning", chores: []struct {
		name   string
		points int
	}{
		{"Vacuum the floors", 8},
		{"Clean the bathroom", 12},
		{"Dust the shelves", 4},
	}},
	{category: "Laundry", chores: []struct {
		name   string
		points int
	}{
		{"Wash a load", 6},
		{"Fold and put away", 5},
	}},
	{category: "Outdoor", chores: []struct {
		name   string
		points int
	}{
		{"Mow the lawn", 15},
		{"Water the plants", 3},
	}},
}

type HouseholdsService struct {
	householdsRepo repository.HouseholdsRepositoryI
	usersRepo      repository.UsersRepositoryI
	categoriesRepo repository.CategoriesRepositoryI
	choresRepo     repository.ChoresRepositoryI
}

func NewHouseholdsService(householdsRepo repository.HouseholdsRepositoryI, usersRepo repository.UsersRepositoryI, categoriesRepo repository.CategoriesRepositoryI, choresRepo repository.ChoresRepositoryI) *HouseholdsService {
	if householdsRepo == nil || usersRepo == nil || categoriesRepo == nil || choresRepo == nil {
		log.Fatal("on households service provided nil repos")
	}
	return &HouseholdsService{
		householdsRepo: householdsRepo,
		usersRepo:      usersRepo,
		categoriesRepo: categoriesRepo,
		choresRepo:     choresRepo,
	}
}

func (hs *HouseholdsService) Create(ctx context.Context, creator uuid.UUID, req *CreateHouseholdRequest) (*entity.Household, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	household, err := hs.householdsRepo.Create(ctx, req.Name, creator)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("households repository error: " + err.Error())
	}
	if err = hs.seedTaxonomy(ctx, household.ID); err != nil {
		return nil, errors.New("seeding default taxonomy error: " + err.Error())
	}
	return household, nil
}

func (hs *HouseholdsService) seedTaxonomy(ctx context.Context, householdID uuid.UUID) error {
	for _, group := range seededTaxonomy {
		category, err := hs.categoriesRepo.Create(ctx, &entity.Category{
			HouseholdID: householdID,
			Name:        group.category,
		})
		if err != nil {
			return err
		}
		for _, c := range group.chores {
			categoryID := category.ID
			_, err = hs.choresRepo.Create(ctx, &entity.Chore{
				HouseholdID:  householdID,
				Name:         c.name,
				CategoryID:   &categoryID,
				CategoryName: category.Name,
				Points:       c.points,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (hs *HouseholdsService) ListMine(ctx context.Context, userID uuid.UUID) ([]*entity.Household, error) {
	households, err := hs.householdsRepo.ListByMember(ctx, userID)
	if err != nil {
		return nil, errors.New("households repository error: " + err.Error())
	}
	return households, nil
}

func (hs *HouseholdsService) Get(ctx context.Context, userID, householdID uuid.UUID) (*entity.Household, error) {
	household, err := hs.householdsRepo.GetByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrHouseholdNotFound) {
			return nil, err
		}
		return nil, errors.New("households repository error: " + err.Error())
	}
	if !containsID(household.MemberIDs, userID) {
		// Outsiders must not learn the household exists
		return nil, errorvalues.ErrHouseholdNotFound
	}
	return household, nil
}

func (hs *HouseholdsService) Rename(ctx context.Context, userID, householdID uuid.UUID, req *CreateHouseholdRequest) (*entity.Household, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if _, err := hs.Get(ctx, userID, householdID); err != nil {
		return nil, err
	}
	if err := hs.householdsRepo.UpdateName(ctx, householdID, req.Name); err != nil {
		if errors.Is(err, errorvalues.ErrHouseholdNotFound) {
			return nil, err
		}
		return nil, errors.New("households repository error: " + err.Error())
	}
	return hs.Get(ctx, userID, householdID)
}

func (hs *HouseholdsService) AddMember(ctx context.Context, userID, householdID, newMemberID uuid.UUID) (*entity.Household, error) {
	if _, err := hs.Get(ctx, userID, householdID); err != nil {
		return nil, err
	}
	if _, err := hs.usersRepo.FindByID(ctx, newMemberID); err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("users repository error: " + err.Error())
	}
	if err := hs.householdsRepo.AddMember(ctx, householdID, newMemberID); err != nil {
		if errors.Is(err, errorvalues.ErrHouseholdNotFound) || errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("households repository error: " + err.Error())
	}
	return hs.Get(ctx, userID, householdID)
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
