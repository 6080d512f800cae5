// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package getrecipe

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
	"github.com/curioswitch/recipeclip/internal/recipedb"
)

var (
	errNoUser         = errors.New("sign in to view recipes")
	errMissingID      = errors.New("recipeId is required")
	errRecipeNotFound = errors.New("recipe not found")
	errGetFailed      = errors.New("could not load the recipe, try again later")
)

// Getter gets a recipe of a user.
type Getter interface {
	Get(ctx context.Context, userID string, id string) (*recipedb.Recipe, error)
}

func NewHandler(recipes Getter) *Handler {
	return &Handler{
		recipes: recipes,
	}
}

type Handler struct {
	recipes Getter
}

func (h *Handler) GetRecipe(ctx context.Context, req *clipapi.GetRecipeRequest) (*clipapi.GetRecipeResponse, error) {
	uid, ok := auth.UserID(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errNoUser)
	}
	if req.RecipeID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingID)
	}

	r, err := h.recipes.Get(ctx, uid, req.RecipeID)
	if err != nil {
		if errors.Is(err, recipedb.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errRecipeNotFound)
		}
		slog.ErrorContext(ctx, "getrecipe: getting recipe", "recipe", req.RecipeID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errGetFailed)
	}

	return &clipapi.GetRecipeResponse{Recipe: recipeToAPI(r)}, nil
}

func recipeToAPI(r *recipedb.Recipe) *clipapi.Recipe {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	ings := make([]clipapi.Ingredient, len(r.Ingredients))
	for i, ing := range r.Ingredients {
		ings[i] = clipapi.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Note:   ing.Note,
		}
	}
	return &clipapi.Recipe{
		ID:              r.ID,
		URL:             r.RawURL,
		URLFinal:        r.FinalURL,
		CanonicalURL:    r.CanonicalURL,
		Provider:        r.Provider,
		ProviderID:      r.ProviderID,
		Title:           r.Title,
		Description:     r.Description,
		Tags:            tags,
		ImageURL:        r.ImageURL,
		ImageMirrorURL:  r.ImageMirrorURL,
		EmbedHTML:       r.EmbedHTML,
		EmbedProvider:   r.EmbedProvider,
		IngredientsBase: ings,
		CookedCount:     r.CookedCount,
		LastCookedAt:    r.LastCookedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
