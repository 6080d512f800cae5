// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// maxDrain bounds how much of the final response body is read before closing.
const maxDrain = 64 << 10

func NewResolver(client *http.Client, userAgent string) *Resolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &Resolver{
		client:    client,
		userAgent: userAgent,
	}
}

// Resolver follows redirects to find where a URL finally points.
type Resolver struct {
	client    *http.Client
	userAgent string
}

// Resolve issues a GET for rawURL, following redirects, and returns the URL of
// the last request made. The status of the final response is not checked.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("resolve: creating request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	res, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolve: fetching %s: %w", rawURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxDrain))
		_ = res.Body.Close()
	}()

	return res.Request.URL.String(), nil
}
