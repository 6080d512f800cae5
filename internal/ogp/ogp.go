// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package ogp reads Open Graph metadata from a page's markup.
package ogp

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocolly/colly/v2"
)

// Page is the metadata found on a page. Missing fields are empty.
type Page struct {
	Title       string
	Description string
	ImageURL    string
}

func NewReader(baseCollector *colly.Collector) *Reader {
	return &Reader{
		baseCollector: baseCollector,
	}
}

type Reader struct {
	baseCollector *colly.Collector
}

// Read fetches pageURL and extracts its title, description and image, in
// priority order og:title then <title>, og:description then description, and
// og:image then twitter:image. Error responses are parsed too; only transport
// failures are errors.
func (r *Reader) Read(ctx context.Context, pageURL string) (Page, error) {
	// Avoid clone since we don't want to share visited state.
	c := colly.NewCollector(
		colly.UserAgent(r.baseCollector.UserAgent),
		colly.StdlibContext(ctx),
		colly.ParseHTTPErrorResponse(),
	)

	var page Page
	c.OnHTML("html", func(e *colly.HTMLElement) {
		pick := func(key string) string {
			if v := meta(e, "property", key); v != "" {
				return v
			}
			return meta(e, "name", key)
		}

		page.Title = firstNonEmpty(pick("og:title"), strings.TrimSpace(e.DOM.Find("title").First().Text()))
		page.Description = firstNonEmpty(pick("og:description"), pick("description"))
		page.ImageURL = firstNonEmpty(pick("og:image"), pick("twitter:image"))
	})

	if err := c.Visit(pageURL); err != nil {
		return Page{}, fmt.Errorf("ogp: visiting %s: %w", pageURL, err)
	}
	return page, nil
}

func meta(e *colly.HTMLElement, attr string, key string) string {
	sel := fmt.Sprintf(`meta[%s=%q]`, attr, key)
	return strings.TrimSpace(e.DOM.Find(sel).First().AttrOr("content", ""))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
