// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package recipesave saves edited previews as recipes keyed by their canonical
// URL.
package recipesave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/curioswitch/recipeclip/internal/canonical"
	"github.com/curioswitch/recipeclip/internal/recipedb"
	"github.com/curioswitch/recipeclip/internal/sanitize"
)

var (
	// ErrInvalidDraft is returned when a draft is missing required fields or
	// has malformed ingredients.
	ErrInvalidDraft = errors.New("recipesave: invalid draft")

	// ErrUnauthenticated is returned when there is no user to save for.
	ErrUnauthenticated = errors.New("recipesave: no user")
)

// Draft is a preview as edited by the user.
type Draft struct {
	URL           string
	URLFinal      string
	CanonicalURL  string
	Provider      string
	ProviderID    string
	Title         string
	Description   string
	ImageURL      string
	EmbedHTML     string
	EmbedProvider string
	Tags          []string
	Ingredients   []recipedb.Ingredient
}

// ImageMirror copies an image to our own storage.
type ImageMirror interface {
	Mirror(ctx context.Context, pathNoExt string, imageURL string) (string, error)
}

// NewSaver returns a Saver. images may be nil to disable thumbnail copies.
func NewSaver(recipes recipedb.Repository, images ImageMirror) *Saver {
	return &Saver{
		recipes: recipes,
		images:  images,
		now:     time.Now,
	}
}

type Saver struct {
	recipes recipedb.Repository
	images  ImageMirror
	now     func() time.Time
}

// Save creates or updates the user's recipe for the draft's canonical URL and
// returns its ID. Saving the same canonical URL again updates the same recipe
// and keeps its creation time.
func (s *Saver) Save(ctx context.Context, userID string, draft *Draft) (string, error) {
	if userID == "" {
		return "", ErrUnauthenticated
	}
	if draft == nil || draft.CanonicalURL == "" || draft.URLFinal == "" || draft.URL == "" {
		return "", fmt.Errorf("%w: url, urlFinal and canonicalUrl are required", ErrInvalidDraft)
	}

	ingredients, err := normalizeIngredients(draft.Ingredients)
	if err != nil {
		return "", err
	}

	id := recipedb.CanonicalHash(draft.CanonicalURL)

	provider := draft.Provider
	if provider == "" {
		provider = string(canonical.ProviderWeb)
	}

	mirrorURL := ""
	if s.images != nil && draft.ImageURL != "" {
		u, err := s.images.Mirror(ctx, fmt.Sprintf("recipes/%s/%s/thumbnail", userID, id), draft.ImageURL)
		if err != nil {
			slog.WarnContext(ctx, "recipesave: copying thumbnail failed", "recipe", id, "error", err)
		} else {
			mirrorURL = u
		}
	}

	err = s.recipes.Upsert(ctx, userID, id, func(existing *recipedb.Recipe) (*recipedb.Recipe, error) {
		now := s.now().UTC()
		next := &recipedb.Recipe{
			UserID:         userID,
			ID:             id,
			RawURL:         draft.URL,
			FinalURL:       draft.URLFinal,
			CanonicalURL:   draft.CanonicalURL,
			CanonicalHash:  id,
			Provider:       provider,
			ProviderID:     optional(draft.ProviderID),
			Title:          draft.Title,
			Description:    draft.Description,
			Tags:           normalizeTags(draft.Tags),
			ImageURL:       optional(draft.ImageURL),
			ImageMirrorURL: optional(mirrorURL),
			EmbedHTML:      optional(sanitize.StripScripts(draft.EmbedHTML)),
			EmbedProvider:  optional(draft.EmbedProvider),
			Ingredients:    ingredients,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if existing != nil {
			if !existing.CreatedAt.IsZero() {
				next.CreatedAt = existing.CreatedAt
			}
			if !now.After(existing.UpdatedAt) {
				next.UpdatedAt = existing.UpdatedAt.Add(time.Microsecond)
			}
			next.CookedCount = existing.CookedCount
			next.LastCookedAt = existing.LastCookedAt
			if next.ImageMirrorURL == nil && existing.ImageMirrorURL != nil && derefEqual(existing.ImageURL, next.ImageURL) {
				next.ImageMirrorURL = existing.ImageMirrorURL
			}
		}
		return next, nil
	})
	if err != nil {
		return "", fmt.Errorf("recipesave: saving recipe: %w", err)
	}

	return id, nil
}

func normalizeIngredients(in []recipedb.Ingredient) ([]recipedb.Ingredient, error) {
	out := make([]recipedb.Ingredient, len(in))
	for i, ing := range in {
		amount := NormalizeAmount(ing.Amount)
		if !ValidAmount(amount) {
			return nil, fmt.Errorf("%w: ingredient %d has invalid amount %q", ErrInvalidDraft, i, ing.Amount)
		}
		out[i] = recipedb.Ingredient{
			Name:   strings.TrimSpace(ing.Name),
			Amount: amount,
			Unit:   strings.TrimSpace(ing.Unit),
			Note:   strings.TrimSpace(ing.Note),
		}
	}
	return out, nil
}

// normalizeTags trims tags and removes empty and duplicate ones, keeping the
// first occurrence. The result is never nil so it is stored as an empty array.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
