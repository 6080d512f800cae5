// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package suggesttags

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/auth"
)

var (
	errNoUser        = errors.New("sign in to suggest tags")
	errMissingTitle  = errors.New("title or description is required")
	errSuggestFailed = errors.New("could not suggest tags, try again later")
)

// Suggester suggests tags for a recipe.
type Suggester interface {
	Suggest(ctx context.Context, title string, description string) ([]string, error)
}

func NewHandler(tags Suggester) *Handler {
	return &Handler{
		tags: tags,
	}
}

type Handler struct {
	tags Suggester
}

func (h *Handler) SuggestTags(ctx context.Context, req *clipapi.SuggestTagsRequest) (*clipapi.SuggestTagsResponse, error) {
	if _, ok := auth.UserID(ctx); !ok {
		return nil, connect.NewError(connect.CodeUnauthenticated, errNoUser)
	}
	title := strings.TrimSpace(req.Title)
	description := strings.TrimSpace(req.Description)
	if title == "" && description == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errMissingTitle)
	}

	tags, err := h.tags.Suggest(ctx, title, description)
	if err != nil {
		slog.ErrorContext(ctx, "suggesttags: suggesting tags", "error", err)
		return nil, connect.NewError(connect.CodeInternal, errSuggestFailed)
	}
	return &clipapi.SuggestTagsResponse{Tags: tags}, nil
}
