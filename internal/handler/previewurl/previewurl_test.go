package previewurl

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/canonical"
	"github.com/curioswitch/recipeclip/internal/handler/handlertest"
	"github.com/curioswitch/recipeclip/internal/preview"
)

type fakePreviewer struct {
	res *preview.Result
	err error
}

func (f *fakePreviewer) Preview(context.Context, string) (*preview.Result, error) {
	return f.res, f.err
}

func newClient(t *testing.T, previews Previewer) *clipapi.Client {
	t.Helper()
	path, handler := clipapi.NewHandler(clipapi.PreviewURLProcedure, NewHandler(previews).PreviewURL)
	return handlertest.NewClient(t, path, handler)
}

func TestPreviewURL(t *testing.T) {
	client := newClient(t, &fakePreviewer{res: &preview.Result{
		URLFinal:     "https://www.youtube.com/watch?v=abc123&feature=youtu.be",
		CanonicalURL: "https://www.youtube.com/watch?v=abc123",
		Provider:     canonical.ProviderYouTube,
		ProviderID:   "abc123",
		Title:        "親子丼",
		ImageURL:     "https://i.ytimg.com/vi/abc123/hqdefault.jpg",
	}})

	res, err := client.PreviewURL(context.Background(), &clipapi.PreviewURLRequest{URL: "https://youtu.be/abc123"})
	if err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if res.Provider != "youtube" || res.CanonicalURL != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected response %+v", res)
	}
	if res.ProviderID == nil || *res.ProviderID != "abc123" {
		t.Errorf("unexpected provider id %v", res.ProviderID)
	}
	if res.EmbedHTML != nil || res.EmbedProvider != nil {
		t.Errorf("expected null embed fields, got %v %v", res.EmbedHTML, res.EmbedProvider)
	}
}

func TestPreviewURLErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code connect.Code
	}{
		{
			name: "invalid url",
			err:  preview.ErrInvalidURL,
			code: connect.CodeInvalidArgument,
		},
		{
			name: "resolve failure",
			err:  fmt.Errorf("preview: resolving url: %w", errors.New("dial tcp: no such host")),
			code: connect.CodeInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newClient(t, &fakePreviewer{err: tc.err})
			_, err := client.PreviewURL(context.Background(), &clipapi.PreviewURLRequest{URL: "ftp://example.com"})
			if connect.CodeOf(err) != tc.code {
				t.Errorf("expected %v, got %v", tc.code, err)
			}
		})
	}
}
