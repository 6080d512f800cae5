// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package previewurl

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/preview"
)

var errPreviewFailed = errors.New("could not load the url")

// Previewer builds previews of post URLs.
type Previewer interface {
	Preview(ctx context.Context, rawURL string) (*preview.Result, error)
}

func NewHandler(previews Previewer) *Handler {
	return &Handler{
		previews: previews,
	}
}

type Handler struct {
	previews Previewer
}

func (h *Handler) PreviewURL(ctx context.Context, req *clipapi.PreviewURLRequest) (*clipapi.PreviewURLResponse, error) {
	res, err := h.previews.Preview(ctx, req.URL)
	if err != nil {
		if errors.Is(err, preview.ErrInvalidURL) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		slog.ErrorContext(ctx, "previewurl: previewing url", "url", req.URL, "error", err)
		return nil, connect.NewError(connect.CodeInternal, errPreviewFailed)
	}

	return &clipapi.PreviewURLResponse{
		URLFinal:      res.URLFinal,
		CanonicalURL:  res.CanonicalURL,
		Provider:      string(res.Provider),
		ProviderID:    optional(res.ProviderID),
		Title:         res.Title,
		Description:   res.Description,
		ImageURL:      optional(res.ImageURL),
		EmbedHTML:     optional(res.EmbedHTML),
		EmbedProvider: optional(string(res.EmbedProvider)),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
