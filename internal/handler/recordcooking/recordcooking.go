// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recordcooking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
	"github.com/curioswitch/recipeclip/internal/recipedb"
)

var (
	errNoUser         = errors.New("sign in to record cooking")
	errMissingID      = errors.New("recipeId is required")
	errRecipeNotFound = errors.New("recipe not found")
	errRecordFailed   = errors.New("could not record cooking, try again later")
)

// Recorder records that a user cooked a recipe.
type Recorder interface {
	RecordCooking(ctx context.Context, userID string, id string, at time.Time) (*recipedb.Recipe, error)
}

func NewHandler(recipes Recorder) *Handler {
	return &Handler{
		recipes: recipes,
		now:     time.Now,
	}
}

type Handler struct {
	recipes Recorder
	now     func() time.Time
}

func (h *Handler) RecordCooking(ctx context.Context, req *clipapi.RecordCookingRequest) (*clipapi.RecordCookingResponse, error) {
	uid, ok := auth.UserID(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errNoUser)
	}
	if req.RecipeID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingID)
	}

	now := h.now().UTC()
	r, err := h.recipes.RecordCooking(ctx, uid, req.RecipeID, now)
	if err != nil {
		if errors.Is(err, recipedb.ErrNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, errRecipeNotFound)
		}
		slog.ErrorContext(ctx, "recordcooking: recording cooking", "recipe", req.RecipeID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errRecordFailed)
	}

	res := &clipapi.RecordCookingResponse{
		CookedCount:  r.CookedCount,
		LastCookedAt: now,
	}
	if r.LastCookedAt != nil {
		res.LastCookedAt = *r.LastCookedAt
	}
	return res, nil
}
