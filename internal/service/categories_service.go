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

type CategoriesService struct {
	categoriesRepo repository.CategoriesRepositoryI
	householdsRepo repository.HouseholdsRepositoryI
}

func NewCategoriesService(categoriesRepo repository.CategoriesRepositoryI, householdsRepo repository.HouseholdsRepositoryI) *CategoriesService {
	if categoriesRepo == nil || householdsRepo == nil {
		log.Fatal("on categories service provided nil repos")
	}
	return &CategoriesService{
		categoriesRepo: categoriesRepo,
		householdsRepo: householdsRepo,
	}
}

func (cs *CategoriesService) requireMember(ctx context.Context, userID, householdID uuid.UUID) error {
	ok, err := cs.householdsRepo.IsMember(ctx, householdID, userID)
	if err != nil {
		return errors.New("households repository error: " + err.Error())
	}
	if !ok {
		return errorvalues.ErrHouseholdNotFound
	}
	return nil
}

func (cs *CategoriesService) Create(ctx context.Context, userID, householdID uuid.UUID, req *CreateCategoryRequest) (*entity.Category, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if err := cs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	category, err := cs.categoriesRepo.Create(ctx, &entity.Category{
		HouseholdID: householdID,
		Name:        req.Name,
	})
	if err != nil {
		if errors.Is(err, errorvalues.ErrHouseholdNotFound) {
			return nil, err
		}
		return nil, errors.New("categories repository error: " + err.Error())
	}
	return category, nil
}

func (cs *CategoriesService) List(ctx context.Context, userID, householdID uuid.UUID) ([]*entity.Category, error) {
	if err := cs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	categories, err := cs.categoriesRepo.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, errors.New("categories repository error: " + err.Error())
	}
	return categories, nil
}

func (cs *CategoriesService) Get(ctx context.Context, userID, householdID, categoryID uuid.UUID) (*entity.Category, error) {
	if err := cs.requireMember(ctx, userID, householdID); err != nil {
		return nil, err
	}
	category, err := cs.categoriesRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, errors.New("categories repository error: " + err.Error())
	}
	if category.HouseholdID != householdID {
		return nil, errorvalues.ErrCategoryNotFound
	}
	return category, nil
}

func (cs *CategoriesService) Rename(ctx context.Context, userID, householdID, categoryID uuid.UUID, req *CreateCategoryRequest) (*entity.Category, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	if _, err := cs.Get(ctx, userID, householdID, categoryID); err != nil {
		return nil, err
	}
	// Chore category_name snapshots intentionally keep the old name
	if err := cs.categoriesRepo.UpdateName(ctx, categoryID, req.Name); err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, errors.New("categories repository error: " + err.Error())
	}
	return cs.Get(ctx, userID, householdID, categoryID)
}

func (cs *CategoriesService) Delete(ctx context.Context, userID, householdID, categoryID uuid.UUID) error {
	if _, err := cs.Get(ctx, userID, householdID, categoryID); err != nil {
		return err
	}
	if err := cs.categoriesRepo.Delete(ctx, categoryID); err != nil {
		if errors.Is(err, errorvalues.ErrCategoryNotFound) {
			return err
		}
		return errors.New("categories repository error: " + err.Error())
	}
	return nil
}
