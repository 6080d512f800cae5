// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package recipedbtest provides an in-memory recipedb.Repository for tests.
package recipedbtest

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/curioswitch/recipeclip/internal/recipedb"
)

func NewMemory() *Memory {
	return &Memory{
		recipes: map[string]map[string]*recipedb.Recipe{},
		touched: map[string]map[string]time.Time{},
	}
}

// Memory is a recipedb.Repository holding recipes in maps.
type Memory struct {
	mu      sync.Mutex
	recipes map[string]map[string]*recipedb.Recipe
	touched map[string]map[string]time.Time

	// Writes counts successful Upsert calls.
	Writes int
}

var _ recipedb.Repository = (*Memory)(nil)

func (m *Memory) Upsert(_ context.Context, userID string, id string, update recipedb.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := copyRecipe(m.recipes[userID][id])
	next, err := update(existing)
	if err != nil {
		return err
	}
	if m.recipes[userID] == nil {
		m.recipes[userID] = map[string]*recipedb.Recipe{}
	}
	m.recipes[userID][id] = copyRecipe(next)
	m.Writes++
	return nil
}

func (m *Memory) Get(_ context.Context, userID string, id string) (*recipedb.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[userID][id]
	if !ok {
		return nil, recipedb.ErrNotFound
	}
	return copyRecipe(r), nil
}

func (m *Memory) List(_ context.Context, userID string) ([]*recipedb.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var res []*recipedb.Recipe
	for _, r := range m.recipes[userID] {
		res = append(res, copyRecipe(r))
	}
	slices.SortFunc(res, func(a, b *recipedb.Recipe) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(a.ID, b.ID))
	})
	return res, nil
}

func (m *Memory) RecordCooking(_ context.Context, userID string, id string, at time.Time) (*recipedb.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.recipes[userID][id]
	if !ok {
		return nil, recipedb.ErrNotFound
	}
	r.CookedCount++
	r.LastCookedAt = &at
	return copyRecipe(r), nil
}

func (m *Memory) Touch(_ context.Context, userID string, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.touched[userID] == nil {
		m.touched[userID] = map[string]time.Time{}
	}
	m.touched[userID][id] = at
	return nil
}

// TouchedAt returns when the recipe was last touched.
func (m *Memory) TouchedAt(userID string, id string) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.touched[userID][id]
	return t, ok
}

func copyRecipe(r *recipedb.Recipe) *recipedb.Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Tags = slices.Clone(r.Tags)
	c.Ingredients = slices.Clone(r.Ingredients)
	return &c
}
