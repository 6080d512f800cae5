// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package config

import (
	"github.com/curioswitch/go-curiostack/config"
)

// OEmbed are the oEmbed endpoints of each provider.
type OEmbed struct {
	// YouTube is the oEmbed endpoint for YouTube, e.g. https://www.youtube.com/oembed.
	YouTube string `koanf:"youtube"`

	// X is the oEmbed endpoint for X posts.
	X string `koanf:"x"`

	// TikTok is the oEmbed endpoint for TikTok videos.
	TikTok string `koanf:"tiktok"`
}

type Fetch struct {
	// UserAgent is sent with every outbound request for a page or image.
	UserAgent string `koanf:"useragent"`
}

type Thumbnails struct {
	// Bucket is the storage bucket to copy thumbnails to. Thumbnails are not
	// copied when empty.
	Bucket string `koanf:"bucket"`
}

type Tagging struct {
	// Model is the Gemini model used to suggest tags.
	Model string `koanf:"model"`
}

type Config struct {
	config.Common

	OEmbed OEmbed `koanf:"oembed"`

	Fetch Fetch `koanf:"fetch"`

	Thumbnails Thumbnails `koanf:"thumbnails"`

	Tagging Tagging `koanf:"tagging"`
}
