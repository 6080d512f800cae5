// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipedb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrNotFound is returned when a recipe does not exist.
var ErrNotFound = errors.New("recipedb: recipe not found")

// UpdateFunc computes the recipe to store from the existing one, which is nil
// if the recipe has not been saved before.
type UpdateFunc func(existing *Recipe) (*Recipe, error)

// Repository stores recipes per user.
type Repository interface {
	// Upsert atomically reads the recipe with id and replaces it with the
	// result of update.
	Upsert(ctx context.Context, userID string, id string, update UpdateFunc) error

	// Get returns the recipe with id, or ErrNotFound.
	Get(ctx context.Context, userID string, id string) (*Recipe, error)

	// List returns all recipes of the user, most recently updated first.
	List(ctx context.Context, userID string) ([]*Recipe, error)

	// RecordCooking increments the cooked count of the recipe and sets its last
	// cooked time, returning the updated recipe, or ErrNotFound.
	RecordCooking(ctx context.Context, userID string, id string, at time.Time) (*Recipe, error)

	// Touch marks that the user interacted with the recipe.
	Touch(ctx context.Context, userID string, id string, at time.Time) error
}

func NewStore(store *firestore.Client) *Store {
	return &Store{
		store: store,
	}
}

// Store is a Repository backed by Firestore.
type Store struct {
	store *firestore.Client
}

var _ Repository = (*Store)(nil)

func (s *Store) recipes(userID string) *firestore.CollectionRef {
	return s.store.Collection("users").Doc(userID).Collection("recipes")
}

func (s *Store) Upsert(ctx context.Context, userID string, id string, update UpdateFunc) error {
	doc := s.recipes(userID).Doc(id)
	err := s.store.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		var existing *Recipe
		snap, err := tx.Get(doc)
		switch {
		case status.Code(err) == codes.NotFound:
		case err != nil:
			return fmt.Errorf("recipedb: getting existing recipe: %w", err)
		default:
			existing = &Recipe{}
			if err := snap.DataTo(existing); err != nil {
				return fmt.Errorf("recipedb: unmarshalling existing recipe: %w", err)
			}
		}

		next, err := update(existing)
		if err != nil {
			return err
		}
		if err := tx.Set(doc, next); err != nil {
			return fmt.Errorf("recipedb: setting recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("recipedb: upserting recipe %s: %w", id, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, userID string, id string) (*Recipe, error) {
	snap, err := s.recipes(userID).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("recipedb: getting recipe %s: %w", id, err)
	}
	var recipe Recipe
	if err := snap.DataTo(&recipe); err != nil {
		return nil, fmt.Errorf("recipedb: unmarshalling recipe %s: %w", id, err)
	}
	return &recipe, nil
}

func (s *Store) List(ctx context.Context, userID string) ([]*Recipe, error) {
	iter := s.recipes(userID).OrderBy("updatedAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var recipes []*Recipe
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("recipedb: listing recipes: %w", err)
		}
		var recipe Recipe
		if err := doc.DataTo(&recipe); err != nil {
			return nil, fmt.Errorf("recipedb: unmarshalling recipe %s: %w", doc.Ref.ID, err)
		}
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}

func (s *Store) RecordCooking(ctx context.Context, userID string, id string, at time.Time) (*Recipe, error) {
	doc := s.recipes(userID).Doc(id)
	if _, err := doc.Update(ctx, []firestore.Update{
		{Path: "cooked_count", Value: firestore.Increment(1)},
		{Path: "last_cooked_at", Value: at},
	}); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("recipedb: recording cooking for %s: %w", id, err)
	}
	return s.Get(ctx, userID, id)
}

func (s *Store) Touch(ctx context.Context, userID string, id string, at time.Time) error {
	doc := s.store.Collection("users").Doc(userID).Collection("recipes_meta").Doc(id)
	if _, err := doc.Set(ctx, map[string]any{"touchedAt": at}, firestore.MergeAll); err != nil {
		return fmt.Errorf("recipedb: touching recipe %s: %w", id, err)
	}
	return nil
}
