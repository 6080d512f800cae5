// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package recipedb

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Ingredient is an ingredient of a saved recipe.
type Ingredient struct {
	// Name is the name of the ingredient.
	Name string `firestore:"name"`

	// Amount is the amount as the user wrote it, e.g. "1/2" or "1 1/2".
	Amount string `firestore:"amount"`

	// Unit is the unit of the amount, e.g. "g" or "大さじ".
	Unit string `firestore:"unit"`

	// Note is a free-form note, e.g. "薄切り".
	Note string `firestore:"note"`
}

// Recipe is a recipe saved by a user from a post URL. Recipes are stored in the
// recipes collection for a user, with the ID of the canonical URL's hash.
type Recipe struct {
	// UserID is the ID of the user who owns the recipe.
	UserID string `firestore:"uid"`

	// ID is the ID of the recipe, always equal to CanonicalHash.
	ID string `firestore:"id"`

	// RawURL is the URL as submitted by the user.
	RawURL string `firestore:"url_raw"`

	// FinalURL is the URL after following redirects.
	FinalURL string `firestore:"url_final"`

	// CanonicalURL is the normalized URL identifying the recipe.
	CanonicalURL string `firestore:"canonical_url"`

	// CanonicalHash is the hash of CanonicalURL.
	CanonicalHash string `firestore:"canonical_hash"`

	// Provider is the platform of the post, e.g. "youtube".
	Provider string `firestore:"provider"`

	// ProviderID is the content ID within the provider, only for videos.
	ProviderID *string `firestore:"provider_id"`

	// Title is the title of the recipe.
	Title string `firestore:"title"`

	// Description is the description of the recipe.
	Description string `firestore:"description"`

	// Tags are the tags the user chose for the recipe.
	Tags []string `firestore:"tags"`

	// ImageURL is the URL of the preview image.
	ImageURL *string `firestore:"image_url"`

	// ImageMirrorURL is the URL of a copy of ImageURL in our own storage.
	ImageMirrorURL *string `firestore:"image_mirror_url"`

	// EmbedHTML is the script-free embed markup for the post.
	EmbedHTML *string `firestore:"embed_html"`

	// EmbedProvider is the provider that EmbedHTML is for.
	EmbedProvider *string `firestore:"embed_provider"`

	// Ingredients are the base ingredients of the recipe.
	Ingredients []Ingredient `firestore:"ingredients_base"`

	// CookedCount is the number of times the user has cooked the recipe.
	CookedCount int64 `firestore:"cooked_count"`

	// LastCookedAt is when the user last cooked the recipe.
	LastCookedAt *time.Time `firestore:"last_cooked_at"`

	// CreatedAt is when the recipe was first saved.
	CreatedAt time.Time `firestore:"createdAt"`

	// UpdatedAt is when the recipe was last saved.
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// Cooked returns whether the recipe has been cooked at least once.
func (r *Recipe) Cooked() bool {
	return r.CookedCount > 0 || r.LastCookedAt != nil
}

// Repeated returns whether the recipe has been cooked more than once.
func (r *Recipe) Repeated() bool {
	return r.CookedCount >= 2
}

// CanonicalHash returns the ID of the recipe for canonicalURL, the hex SHA-256
// of the URL.
func CanonicalHash(canonicalURL string) string {
	sum := sha256.Sum256([]byte(canonicalURL))
	return hex.EncodeToString(sum[:])
}

