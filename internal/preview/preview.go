// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package preview builds the preview shown to a user for a submitted post URL.
package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/curioswitch/recipeclip/internal/canonical"
	"github.com/curioswitch/recipeclip/internal/oembed"
	"github.com/curioswitch/recipeclip/internal/ogp"
)

// ErrInvalidURL is returned when the submitted URL is not an http(s) URL.
var ErrInvalidURL = errors.New("preview: url must start with http:// or https://")

var httpURL = regexp.MustCompile(`^https?://`)

// Resolver follows redirects for a URL.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// OEmbed looks up provider metadata.
type OEmbed interface {
	YouTube(ctx context.Context, videoID string) (oembed.Metadata, error)
	X(ctx context.Context, canonicalURL string) (oembed.Metadata, error)
	TikTok(ctx context.Context, canonicalURL string) (oembed.Metadata, error)
}

// PageReader reads Open Graph metadata from a page.
type PageReader interface {
	Read(ctx context.Context, pageURL string) (ogp.Page, error)
}

// Result is a preview of a post. Empty optional fields are unavailable.
type Result struct {
	URLFinal      string
	CanonicalURL  string
	Provider      canonical.Provider
	ProviderID    string
	Title         string
	Description   string
	ImageURL      string
	EmbedHTML     string
	EmbedProvider canonical.Provider
}

func NewService(resolver Resolver, oembed OEmbed, pages PageReader) *Service {
	return &Service{
		resolver: resolver,
		oembed:   oembed,
		pages:    pages,
	}
}

type Service struct {
	resolver Resolver
	oembed   OEmbed
	pages    PageReader
}

// Preview resolves rawURL and gathers its metadata. Only an invalid URL or a
// failure to resolve it returns an error; metadata lookups that fail leave
// their fields empty.
func (s *Service) Preview(ctx context.Context, rawURL string) (*Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !httpURL.MatchString(rawURL) {
		return nil, ErrInvalidURL
	}

	urlFinal, err := s.resolver.Resolve(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("preview: resolving url: %w", err)
	}

	c, err := canonical.Canonicalize(urlFinal)
	if err != nil {
		return nil, fmt.Errorf("preview: canonicalizing url: %w", err)
	}

	res := &Result{
		URLFinal:     urlFinal,
		CanonicalURL: c.URL,
		Provider:     c.Provider,
		ProviderID:   c.ProviderID,
	}

	if m, err := s.lookupProvider(ctx, c); err != nil {
		slog.WarnContext(ctx, "preview: oembed lookup failed, falling back to page metadata",
			"provider", c.Provider, "url", c.URL, "error", err)
	} else {
		res.Title = m.Title
		res.Description = m.Description
		res.ImageURL = m.ImageURL
		res.EmbedHTML = m.EmbedHTML
		res.EmbedProvider = m.EmbedProvider
	}

	if res.Title == "" || res.Description == "" || res.ImageURL == "" {
		page, err := s.pages.Read(ctx, c.URL)
		if err != nil {
			slog.WarnContext(ctx, "preview: reading page metadata failed",
				"url", c.URL, "error", err)
		} else {
			res.Title = fill(res.Title, page.Title)
			res.Description = fill(res.Description, page.Description)
			res.ImageURL = fill(res.ImageURL, page.ImageURL)
		}
	}

	return res, nil
}

// lookupProvider dispatches to the oEmbed adapter for the provider. Web pages
// have no adapter and return empty metadata.
func (s *Service) lookupProvider(ctx context.Context, c canonical.Result) (oembed.Metadata, error) {
	switch c.Provider {
	case canonical.ProviderYouTube:
		if c.ProviderID == "" {
			return oembed.Metadata{}, nil
		}
		return s.oembed.YouTube(ctx, c.ProviderID)
	case canonical.ProviderX:
		return s.oembed.X(ctx, c.URL)
	case canonical.ProviderTikTok:
		return s.oembed.TikTok(ctx, c.URL)
	case canonical.ProviderWeb:
		fallthrough
	default:
		return oembed.Metadata{}, nil
	}
}

func fill(current, fallback string) string {
	if current != "" {
		return current
	}
	return fallback
}
