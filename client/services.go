package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/halvard/choreboard/internal/points"
	"github.com/halvard/choreboard/pkg/entity"
)

type ChoreInput struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	CategoryID  *uuid.UUID  `json:"categoryId,omitempty"`
	AssignedTo  []uuid.UUID `json:"assignedTo,omitempty"`
	Points      int         `json:"points"`
}

type ChoreUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	CategoryID  *uuid.UUID  `json:"categoryId,omitempty"`
	AssignedTo  []uuid.UUID `json:"assignedTo,omitempty"`
	Points      *int        `json:"points,omitempty"`
}

type Registration struct {
	ChoreID uuid.UUID `json:"choreId"`
	UserID  uuid.UUID `json:"userId"`
	Times   int       `json:"times"`
}

// RegistryQuery narrows registry and leaderboard reads.
type RegistryQuery struct {
	Filter points.DateFilter
	UserID *uuid.UUID
	Limit  int
}

func (q *RegistryQuery) encode() string {
	if q == nil {
		return ""
	}
	v := url.Values{}
	if q.Filter != "" {
		v.Set("filter", string(q.Filter))
	}
	if q.UserID != nil {
		v.Set("userId", q.UserID.String())
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(v) == 0 {
		return ""
	}
	return "?" + v.Encode()
}

func (c *Client) ListHouseholds(ctx context.Context) ([]*entity.Household, error) {
	var households []*entity.Household
	err := c.do(ctx, http.MethodGet, "/households", nil, &households)
	return households, err
}

func (c *Client) CreateHousehold(ctx context.Context, name string) (*entity.Household, error) {
	var household entity.Household
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, http.MethodPost, "/households", body, &household); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceHouseholds)
	return &household, nil
}

func (c *Client) GetHousehold(ctx context.Context, id uuid.UUID) (*entity.Household, error) {
	var household entity.Household
	if err := c.do(ctx, http.MethodGet, "/households/"+id.String(), nil, &household); err != nil {
		return nil, err
	}
	return &household, nil
}

func (c *Client) RenameHousehold(ctx context.Context, id uuid.UUID, name string) (*entity.Household, error) {
	var household entity.Household
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, http.MethodPatch, "/households/"+id.String(), body, &household); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceHouseholds)
	return &household, nil
}

func (c *Client) AddHouseholdMember(ctx context.Context, id, userID uuid.UUID) (*entity.Household, error) {
	var household entity.Household
	body := struct {
		UserID string `json:"userId"`
	}{UserID: userID.String()}
	if err := c.do(ctx, http.MethodPost, "/households/"+id.String()+"/members", body, &household); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceHouseholds)
	return &household, nil
}

func (c *Client) ListCategories(ctx context.Context, householdID uuid.UUID) ([]*entity.Category, error) {
	var categories []*entity.Category
	err := c.do(ctx, http.MethodGet, "/households/"+householdID.String()+"/categories", nil, &categories)
	return categories, err
}

func (c *Client) CreateCategory(ctx context.Context, householdID uuid.UUID, name string) (*entity.Category, error) {
	var category entity.Category
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	if err := c.do(ctx, http.MethodPost, "/households/"+householdID.String()+"/categories", body, &category); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceCategories, resourceChores)
	return &category, nil
}

func (c *Client) RenameCategory(ctx context.Context, householdID, categoryID uuid.UUID, name string) (*entity.Category, error) {
	var category entity.Category
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	path := "/households/" + householdID.String() + "/categories/" + categoryID.String()
	if err := c.do(ctx, http.MethodPatch, path, body, &category); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceCategories, resourceChores)
	return &category, nil
}

func (c *Client) DeleteCategory(ctx context.Context, householdID, categoryID uuid.UUID) error {
	path := "/households/" + householdID.String() + "/categories/" + categoryID.String()
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(resourceCategories, resourceChores)
	return nil
}

func (c *Client) ListChores(ctx context.Context, householdID uuid.UUID) ([]*entity.Chore, error) {
	var chores []*entity.Chore
	err := c.do(ctx, http.MethodGet, "/households/"+householdID.String()+"/chores", nil, &chores)
	return chores, err
}

func (c *Client) CreateChore(ctx context.Context, householdID uuid.UUID, input *ChoreInput) (*entity.Chore, error) {
	var chore entity.Chore
	if err := c.do(ctx, http.MethodPost, "/households/"+householdID.String()+"/chores", input, &chore); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceChores, resourceRegistry)
	return &chore, nil
}

func (c *Client) UpdateChore(ctx context.Context, householdID, choreID uuid.UUID, update *ChoreUpdate) (*entity.Chore, error) {
	var chore entity.Chore
	path := "/households/" + householdID.String() + "/chores/" + choreID.String()
	if err := c.do(ctx, http.MethodPatch, path, update, &chore); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceChores, resourceRegistry)
	return &chore, nil
}

func (c *Client) DeleteChore(ctx context.Context, householdID, choreID uuid.UUID) error {
	path := "/households/" + householdID.String() + "/chores/" + choreID.String()
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(resourceChores, resourceRegistry)
	return nil
}

func (c *Client) ListRegistry(ctx context.Context, householdID uuid.UUID, query *RegistryQuery) ([]*entity.RegistryEntry, error) {
	var entries []*entity.RegistryEntry
	path := "/households/" + householdID.String() + "/registry" + query.encode()
	err := c.do(ctx, http.MethodGet, path, nil, &entries)
	return entries, err
}

func (c *Client) RegisterChore(ctx context.Context, householdID uuid.UUID, reg *Registration) (*entity.RegistryEntry, error) {
	var entry entity.RegistryEntry
	if err := c.do(ctx, http.MethodPost, "/households/"+householdID.String()+"/registry", reg, &entry); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceRegistry)
	return &entry, nil
}

func (c *Client) RegisterChores(ctx context.Context, householdID uuid.UUID, regs []*Registration) ([]*entity.RegistryEntry, error) {
	var entries []*entity.RegistryEntry
	body := struct {
		Chores []*Registration `json:"chores"`
	}{Chores: regs}
	if err := c.do(ctx, http.MethodPost, "/households/"+householdID.String()+"/registry/batch", body, &entries); err != nil {
		return nil, err
	}
	c.cache.Invalidate(resourceRegistry)
	return entries, nil
}

func (c *Client) Leaderboard(ctx context.Context, householdID uuid.UUID, query *RegistryQuery) ([]points.RankedTotal, error) {
	var board []points.RankedTotal
	path := "/households/" + householdID.String() + "/leaderboard" + query.encode()
	err := c.do(ctx, http.MethodGet, path, nil, &board)
	return board, err
}
