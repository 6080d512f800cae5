// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package oembed fetches preview metadata from provider oEmbed endpoints.
package oembed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/curioswitch/recipeclip/internal/canonical"
	"github.com/curioswitch/recipeclip/internal/sanitize"
)

// maxResponseSize bounds the size of an oEmbed response body.
const maxResponseSize = 1 << 20

var errUnexpectedStatus = errors.New("oembed: unexpected status")

// Endpoints are the oEmbed endpoint URLs for each provider.
type Endpoints struct {
	YouTube string
	X       string
	TikTok  string
}

// DefaultEndpoints are the public provider endpoints.
var DefaultEndpoints = Endpoints{
	YouTube: "https://www.youtube.com/oembed",
	X:       "https://publish.twitter.com/oembed",
	TikTok:  "https://www.tiktok.com/oembed",
}

// Metadata is the preview data returned by a provider. Empty fields are
// unavailable.
type Metadata struct {
	Title         string
	Description   string
	ImageURL      string
	EmbedHTML     string
	EmbedProvider canonical.Provider
}

type response struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	HTML         string `json:"html"`
}

func NewClient(client *http.Client, endpoints Endpoints, userAgent string) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	if endpoints.YouTube == "" {
		endpoints.YouTube = DefaultEndpoints.YouTube
	}
	if endpoints.X == "" {
		endpoints.X = DefaultEndpoints.X
	}
	if endpoints.TikTok == "" {
		endpoints.TikTok = DefaultEndpoints.TikTok
	}
	return &Client{
		client:    client,
		endpoints: endpoints,
		userAgent: userAgent,
	}
}

type Client struct {
	client    *http.Client
	endpoints Endpoints
	userAgent string
}

// YouTube looks up a video by ID. YouTube returns no description and the embed
// is built from the ID by the client, so only title and thumbnail are filled.
func (c *Client) YouTube(ctx context.Context, videoID string) (Metadata, error) {
	watchURL := "https://www.youtube.com/watch?" + url.Values{"v": {videoID}}.Encode()
	res, err := c.fetch(ctx, c.endpoints.YouTube, url.Values{
		"format": {"json"},
		"url":    {watchURL},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("oembed: youtube: %w", err)
	}
	return Metadata{
		Title:    res.Title,
		ImageURL: res.ThumbnailURL,
	}, nil
}

// X looks up a post. Only the embed is returned since the rendered embed
// already shows the post's content.
func (c *Client) X(ctx context.Context, canonicalURL string) (Metadata, error) {
	res, err := c.fetch(ctx, c.endpoints.X, url.Values{
		"omit_script": {"1"},
		"url":         {canonicalURL},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("oembed: x: %w", err)
	}
	return Metadata{
		EmbedHTML:     sanitize.StripScripts(res.HTML),
		EmbedProvider: canonical.ProviderX,
	}, nil
}

// TikTok looks up a video.
func (c *Client) TikTok(ctx context.Context, canonicalURL string) (Metadata, error) {
	res, err := c.fetch(ctx, c.endpoints.TikTok, url.Values{
		"url": {canonicalURL},
	})
	if err != nil {
		return Metadata{}, fmt.Errorf("oembed: tiktok: %w", err)
	}
	description := ""
	if res.AuthorName != "" {
		description = "by " + res.AuthorName
	}
	return Metadata{
		Title:         res.Title,
		Description:   description,
		ImageURL:      res.ThumbnailURL,
		EmbedHTML:     sanitize.StripScripts(res.HTML),
		EmbedProvider: canonical.ProviderTikTok,
	}, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("%w %d", errUnexpectedStatus, res.StatusCode)
	}

	var body response
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseSize)).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &body, nil
}
