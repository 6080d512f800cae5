// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package canonical normalizes post URLs into the form used as a recipe's
// identity and detects which platform the post belongs to.
package canonical

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// Provider is the platform a URL belongs to.
type Provider string

const (
	// ProviderYouTube is the video provider.
	ProviderYouTube Provider = "youtube"
	// ProviderX is the social provider, formerly Twitter.
	ProviderX Provider = "x"
	// ProviderTikTok is the short-video provider.
	ProviderTikTok Provider = "tiktok"
	// ProviderWeb is any other page.
	ProviderWeb Provider = "web"
)

// trackingParams are query keys removed from every URL in addition to utm_*.
var trackingParams = map[string]struct{}{
	"fbclid": {},
	"gclid":  {},
	"igshid": {},
	"s":      {},
	"si":     {},
	"_r":     {},
	"_t":     {},
}

// Result is a canonicalized URL.
type Result struct {
	// URL is the canonical URL.
	URL string

	// Provider is the detected provider.
	Provider Provider

	// ProviderID is the content ID within the provider. Only set for ProviderYouTube.
	ProviderID string
}

// Canonicalize normalizes rawURL. It does no I/O, and canonicalizing an
// already canonical URL returns it unchanged.
func Canonicalize(rawURL string) (Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("canonical: parsing url: %w", err)
	}
	if u.Host == "" {
		return Result{}, fmt.Errorf("canonical: url %q has no host", rawURL)
	}

	u.Fragment = ""
	u.RawFragment = ""

	pairs := queryPairs(u.RawQuery)
	u.RawQuery = encodeQuery(pairs)
	u.ForceQuery = false

	u.Host = normalizeHost(u.Scheme, u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	res := Result{Provider: ProviderWeb}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	switch {
	case host == "youtu.be" || isDomainOrSubdomain(host, "youtube.com"):
		var id string
		if host == "youtu.be" {
			id, _, _ = strings.Cut(strings.TrimPrefix(u.EscapedPath(), "/"), "/")
			if unescaped, err := url.PathUnescape(id); err == nil {
				id = unescaped
			}
		} else {
			id = firstValue(pairs, "v")
		}
		if id != "" {
			res.Provider = ProviderYouTube
			res.ProviderID = id
			u.Host = "www.youtube.com"
			u.Path = "/watch"
			u.RawPath = ""
			u.RawQuery = url.Values{"v": {id}}.Encode()
		}
	case host == "x.com" || isDomainOrSubdomain(host, "twitter.com"):
		res.Provider = ProviderX
		u.Host = "twitter.com"
	case isDomainOrSubdomain(host, "tiktok.com"):
		res.Provider = ProviderTikTok
	}

	res.URL = u.String()
	return res, nil
}

// queryPair is one key/value pair of a query string. Pairs that cannot be
// unescaped keep their raw text and have ok set to false.
type queryPair struct {
	key   string
	value string
	raw   string
	ok    bool
}

// queryPairs splits a raw query on '&' without dropping pairs that
// url.ParseQuery rejects, such as ones containing ';' or bad escapes. Tracking
// keys are removed and the rest are sorted by key, keeping the order of
// repeated keys.
func queryPairs(rawQuery string) []queryPair {
	var pairs []queryPair
	for part := range strings.SplitSeq(rawQuery, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		p := queryPair{key: rawKey, raw: part}
		key, keyErr := url.QueryUnescape(rawKey)
		value, valueErr := url.QueryUnescape(rawValue)
		if keyErr == nil {
			p.key = key
		}
		if keyErr == nil && valueErr == nil {
			p.value = value
			p.ok = true
		}
		if isTracking(p.key) {
			continue
		}
		pairs = append(pairs, p)
	}
	slices.SortStableFunc(pairs, func(a, b queryPair) int {
		return strings.Compare(a.key, b.key)
	})
	return pairs
}

func encodeQuery(pairs []queryPair) string {
	var sb strings.Builder
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		if !p.ok {
			sb.WriteString(p.raw)
			continue
		}
		sb.WriteString(url.QueryEscape(p.key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.value))
	}
	return sb.String()
}

func firstValue(pairs []queryPair, key string) string {
	for _, p := range pairs {
		if p.ok && p.key == key {
			return p.value
		}
	}
	return ""
}

func isTracking(key string) bool {
	if strings.HasPrefix(key, "utm_") {
		return true
	}
	_, ok := trackingParams[key]
	return ok
}

func isDomainOrSubdomain(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func normalizeHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch {
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	}
	return host
}
