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

type ChoresService struct {
	choresRepo     repository.ChoresRepositoryI
	categoriesRepo repository.CategoriesRepositoryI
	householdsRepo repository.HouseholdsRepositoryI
}

func NewChoresService(choresRepo repository.ChoresRepositoryI, categoriesRepo repository.CategoriesRepositoryI, householdsRepo repository.HouseholdsRepositoryI) *ChoresService {
	if choresRepo == nil || categoriesRepo == nil || householdsRepo == nil {
		log.Fatal("on chores service provided nil repos")
	}
	return &ChoresService{
		choresRepo:     choresRepo,
		categoriesRepo: categoriesRepo,
		householdsRepo: householdsRepo,
	}
}

func (chs *ChoresService) requireMember(ctx context.Context, userID, householdID uuid.UUID) error {
	ok, err := chs.householdsRepo.IsMember(ctx, householdID, userID)
	if err != nil {
		return errors.New("households repository error: " + err.Error())
	}
	if !ok {
		return errorvalues.ErrHouseholdNotFound
	}
	return nil
}

// snapshotCategory resolves the category reference and returns the name to
// denormalize onto the chore.
func (chs *ChoresService) snapshotCategory(ctx context.Context, householdID uuid.UUID, categoryID *uuid.UUID) (string, error) {
	if categoryID == nil {
		return "", nil
	}
	category, err := chs.categoriesRepo.GetByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return "", err
		}
		return "", errors.New("categories repository error: " + err.Error())
	}
	if category.HouseholdID != householdID {
		return "", errorvalues.ErrCategoryNotFound
	}
	return category.Name, nil
}

func (chs *ChoresService) Create(ctx context.Context, userID, householdID uuid.UUID, req *CreateChoreRequest) (*entity.Chore, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if err := chs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	categoryName, err := chs.snapshotCategory(ctx, householdID, req.CategoryID)
	if err != nil {
		return nil, err
	}
	chore, err := chs.choresRepo.Create(ctx, &entity.Chore{
		HouseholdID:  householdID,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		CategoryName: categoryName,
		AssignedTo:   req.AssignedTo,
		Points:       req.Points,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHouseholdNotFound) {
			return nil, err
		}
		return nil, errors.New("chores repository error: " + err.Error())
	}
	return chore, nil
}

func (chs *ChoresService) List(ctx context.Context, userID, householdID uuid.UUID) ([]*entity.Chore, error) {
	if err := chs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	chores, err := chs.choresRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, errors.New("chores repository error: " + err.Error())
	}
	return chores, nil
}

func (chs *ChoresService) Get(ctx context.Context, userID, householdID, choreID uuid.UUID) (*entity.Chore, error) {
	if err := chs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	chore, err := chs.choresRepo.GetByID(ctx, choreID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrChoreNotFound) {
			return nil, err
		}
		return nil, errors.New("chores repository error: " + err.Error())
	}
	if chore.HouseholdID != householdID {
		return nil, errorvalues.ErrChoreNotFound
	}
	return chore, nil
}

func (chs *ChoresService) Update(ctx context.Context, userID, householdID, choreID uuid.UUID, req *UpdateChoreRequest) (*entity.Chore, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	chore, err := chs.Get(ctx, userID, householdID, choreID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		chore.Name = *req.Name
	}
	if req.Description != nil {
		chore.Description = *req.Description
	}
	if req.CategoryID != nil {
		categoryName, err := chs.snapshotCategory(ctx, householdID, req.CategoryID)
		if err != nil {
			return nil, err
		}
		chore.CategoryID = req.CategoryID
		chore.CategoryName = categoryName
	}
	if req.AssignedTo != nil {
		chore.AssignedTo = req.AssignedTo
	}
	if req.Points != nil {
		chore.Points = *req.Points
	}
	if err = chs.choresRepo.Update(ctx, chore); err != nil {
		if errors.Is(err, errorvalues.ErrChoreNotFound) {
			return nil, err
		}
		return nil, errors.New("chores repository error: " + err.Error())
	}
	return chs.Get(ctx, userID, householdID, choreID)
}

func (chs *ChoresService) Delete(ctx context.Context, userID, householdID, choreID uuid.UUID) error {
	if _, err := chs.Get(ctx, userID, householdID, choreID); err != nil {
		return err
	}
	if err := chs.choresRepo.Delete(ctx, choreID); err != nil {
		if errors.Is(err, errorvalues.ErrChoreNotFound) {
			return err
		}
		return errors.New("chores repository error: " + err.Error())
	}
	return nil
}
