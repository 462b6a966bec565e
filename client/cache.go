package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/halvard/choreboard/internal/points"
	"github.com/halvard/choreboard/pkg/entity"
	"golang.org/x/sync/singleflight"
)

// ErrNoHousehold is returned by cached reads before SetHousehold is called.
var ErrNoHousehold = errors.New("client error: no household selected")

type resource string

const (
	resourceHouseholds resource = "households"
	resourceCategories resource = "categories"
	resourceChores     resource = "chores"
	resourceRegistry   resource = "registry"
)

// Cache memoizes read results per (resource, household, filters) key.
// Concurrent misses for the same key share one fetch. Reset and Invalidate
// bump the generation so fetches started before them finish without being
// stored.
type Cache struct {
	mu      sync.Mutex
	group   singleflight.Group
	gen     uint64
	entries map[string]any
}

func newCache() *Cache {
	return &Cache{entries: make(map[string]any)}
}

func key(res resource, householdID uuid.UUID, filters string) string {
	return string(res) + "/" + householdID.String() + "/" + filters
}

func (c *Cache) getOrFetch(ctx context.Context, k string, fetch func(ctx context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if v, ok := c.entries[k]; ok {
		c.mu.Unlock()
		return v, nil
	}
	gen := c.gen
	c.mu.Unlock()

	v, err, _ := c.group.Do(k, func() (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.entries[k] = v
	}
	c.mu.Unlock()
	return v, nil
}

// Invalidate drops every cached entry for the given resource types. It also
// bumps the generation so a fetch already in flight when the mutation landed
// cannot memoize its pre-mutation snapshot.
func (c *Cache) Invalidate(resources ...resource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	for k := range c.entries {
		for _, res := range resources {
			if strings.HasPrefix(k, string(res)+"/") {
				delete(c.entries, k)
				break
			}
		}
	}
}

// Reset discards everything and orphans in-flight fetches.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.entries = make(map[string]any)
}

// SetHousehold selects the household cached reads operate on and discards
// all cached state. A nil id deselects.
func (c *Client) SetHousehold(id *uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == nil {
		c.householdID = nil
	} else {
		v := *id
		c.householdID = &v
	}
	c.cache.Reset()
}

func (c *Client) currentHousehold() (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.householdID == nil {
		return uuid.Nil, ErrNoHousehold
	}
	return *c.householdID, nil
}

// Households is the cached variant of ListHouseholds. Not gated on a
// selected household.
func (c *Client) Households(ctx context.Context) ([]*entity.Household, error) {
	v, err := c.cache.getOrFetch(ctx, key(resourceHouseholds, uuid.Nil, ""), func(ctx context.Context) (any, error) {
		return c.ListHouseholds(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*entity.Household), nil
}

// Categories is the cached variant of ListCategories for the selected
// household.
func (c *Client) Categories(ctx context.Context) ([]*entity.Category, error) {
	householdID, err := c.currentHousehold()
	if err != nil {
		return nil, err
	}
	v, err := c.cache.getOrFetch(ctx, key(resourceCategories, householdID, ""), func(ctx context.Context) (any, error) {
		return c.ListCategories(ctx, householdID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*entity.Category), nil
}

// Chores is the cached variant of ListChores for the selected household.
func (c *Client) Chores(ctx context.Context) ([]*entity.Chore, error) {
	householdID, err := c.currentHousehold()
	if err != nil {
		return nil, err
	}
	v, err := c.cache.getOrFetch(ctx, key(resourceChores, householdID, ""), func(ctx context.Context) (any, error) {
		return c.ListChores(ctx, householdID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*entity.Chore), nil
}

// Registry is the cached variant of ListRegistry for the selected household.
func (c *Client) Registry(ctx context.Context, query *RegistryQuery) ([]*entity.RegistryEntry, error) {
	householdID, err := c.currentHousehold()
	if err != nil {
		return nil, err
	}
	v, err := c.cache.getOrFetch(ctx, key(resourceRegistry, householdID, query.encode()), func(ctx context.Context) (any, error) {
		return c.ListRegistry(ctx, householdID, query)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*entity.RegistryEntry), nil
}

// Totals folds the cached registry into per-user point totals.
func (c *Client) Totals(ctx context.Context, query *RegistryQuery) ([]points.UserTotal, error) {
	entries, err := c.Registry(ctx, query)
	if err != nil {
		return nil, err
	}
	return points.UserTotals(flatten(entries)), nil
}

// Activity groups the cached registry into completion moments, newest first.
func (c *Client) Activity(ctx context.Context, query *RegistryQuery) ([]points.ActivityGroup, error) {
	entries, err := c.Registry(ctx, query)
	if err != nil {
		return nil, err
	}
	return points.GroupActivity(flatten(entries)), nil
}

func flatten(entries []*entity.RegistryEntry) []entity.RegistryEntry {
	flat := make([]entity.RegistryEntry, len(entries))
	for i, e := range entries {
		flat[i] = *e
	}
	return flat
}
