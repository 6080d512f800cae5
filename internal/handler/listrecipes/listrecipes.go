// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package listrecipes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
	"github.com/curioswitch/recipeclip/internal/recipedb"
)

var (
	errNoUser     = errors.New("sign in to list recipes")
	errListFailed = errors.New("could not list recipes, try again later")
)

// Lister lists a user's recipes, most recently updated first.
type Lister interface {
	List(ctx context.Context, userID string) ([]*recipedb.Recipe, error)
}

func NewHandler(recipes Lister) *Handler {
	return &Handler{
		recipes: recipes,
	}
}

type Handler struct {
	recipes Lister
}

func (h *Handler) ListRecipes(ctx context.Context, req *clipapi.ListRecipesRequest) (*clipapi.ListRecipesResponse, error) {
	uid, ok := auth.UserID(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errNoUser)
	}

	keep, err := filterFunc(req.Filter)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	recipes, err := h.recipes.List(ctx, uid)
	if err != nil {
		slog.ErrorContext(ctx, "listrecipes: listing recipes", "error", err)
		return nil, connect.NewError(connect.CodeInternal, errListFailed)
	}

	res := make([]*clipapi.RecipeSummary, 0, len(recipes))
	for _, r := range recipes {
		if !keep(r) {
			continue
		}
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		res = append(res, &clipapi.RecipeSummary{
			ID:           r.ID,
			Title:        r.Title,
			ImageURL:     r.ImageURL,
			Tags:         tags,
			CookedCount:  r.CookedCount,
			LastCookedAt: r.LastCookedAt,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}

	return &clipapi.ListRecipesResponse{Recipes: res}, nil
}

func filterFunc(f clipapi.Filter) (func(*recipedb.Recipe) bool, error) {
	switch f {
	case "", clipapi.FilterAll:
		return func(*recipedb.Recipe) bool { return true }, nil
	case clipapi.FilterCooked:
		return (*recipedb.Recipe).Cooked, nil
	case clipapi.FilterUncooked:
		return func(r *recipedb.Recipe) bool { return !r.Cooked() }, nil
	case clipapi.FilterRepeat:
		return (*recipedb.Recipe).Repeated, nil
	default:
		return nil, fmt.Errorf("unknown filter %q", f)
	}
}
