// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package saverecipe

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
	"github.com/curioswitch/recipeclip/internal/recipedb"
	"github.com/curioswitch/recipeclip/internal/recipesave"
)

var (
	errMissingDraft = errors.New("draft is required")
	errNoUser       = errors.New("sign in to save recipes")
	errSaveFailed   = errors.New("could not save the recipe, try again later")
)

// Saver saves drafts for a user.
type Saver interface {
	Save(ctx context.Context, userID string, draft *recipesave.Draft) (string, error)
}

func NewHandler(saver Saver) *Handler {
	return &Handler{
		saver: saver,
	}
}

type Handler struct {
	saver Saver
}

func (h *Handler) SaveRecipe(ctx context.Context, req *clipapi.SaveRecipeRequest) (*clipapi.SaveRecipeResponse, error) {
	uid, ok := auth.UserID(ctx)
	if !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errNoUser)
	}
	if req.Draft == nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingDraft)
	}

	id, err := h.saver.Save(ctx, uid, draftFromRequest(req.Draft))
	if err != nil {
		switch {
		case errors.Is(err, recipesave.ErrInvalidDraft):
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		case errors.Is(err, recipesave.ErrUnauthenticated):
			return nil, connect.NewError(connect.CodeUnauthenticated, errNoUser)
		}
		slog.ErrorContext(ctx, "saverecipe: saving recipe", "canonical_url", req.Draft.CanonicalURL, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errSaveFailed)
	}

	return &clipapi.SaveRecipeResponse{ID: id}, nil
}

func draftFromRequest(d *clipapi.RecipeDraft) *recipesave.Draft {
	ings := make([]recipedb.Ingredient, len(d.IngredientsBase))
	for i, ing := range d.IngredientsBase {
		ings[i] = recipedb.Ingredient{
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Note:   ing.Note,
		}
	}
	return &recipesave.Draft{
		URL:           d.URL,
		URLFinal:      d.URLFinal,
		CanonicalURL:  d.CanonicalURL,
		Provider:      d.Provider,
		ProviderID:    deref(d.ProviderID),
		Title:         d.Title,
		Description:   d.Description,
		ImageURL:      deref(d.ImageURL),
		EmbedHTML:     deref(d.EmbedHTML),
		EmbedProvider: deref(d.EmbedProvider),
		Tags:          d.Tags,
		Ingredients:   ings,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
