// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package touchrecipe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
)

var (
	errNoUser      = errors.New("sign in to open recipes")
	errMissingID   = errors.New("recipeId is required")
	errTouchFailed = errors.New("could not update the recipe, try again later")
)

// Toucher marks when a user last opened a recipe.
type Toucher interface {
	Touch(ctx context.Context, userID string, id string, at time.Time) error
}

func NewHandler(recipes Toucher) *Handler {
	return &Handler{
		recipes: recipes,
		now:     time.Now,
	}
}

type Handler struct {
	recipes Toucher
	now     func() time.Time
}

func (h *Handler) TouchRecipe(ctx context.Context, req *clipapi.TouchRecipeRequest) (*clipapi.TouchRecipeResponse, error) {
	uid, ok := auth.UserID(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errNoUser)
	}
	if req.RecipeID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingID)
	}

	if err := h.recipes.Touch(ctx, uid, req.RecipeID, h.now().UTC()); err != nil {
		slog.ErrorContext(ctx, "touchrecipe: touching recipe", "recipe", req.RecipeID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errTouchFailed)
	}
	return &clipapi.TouchRecipeResponse{}, nil
}
