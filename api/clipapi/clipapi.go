// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package clipapi defines the messages and procedures of the ClipService,
// served over Connect with a JSON codec.
package clipapi

import "time"

const (
	// ServiceName is the fully-qualified name of the ClipService.
	ServiceName = "clipapi.ClipService"

	PreviewURLProcedure    = "/" + ServiceName + "/PreviewURL"
	SaveRecipeProcedure    = "/" + ServiceName + "/SaveRecipe"
	ListRecipesProcedure   = "/" + ServiceName + "/ListRecipes"
	GetRecipeProcedure     = "/" + ServiceName + "/GetRecipe"
	RecordCookingProcedure = "/" + ServiceName + "/RecordCooking"
	TouchRecipeProcedure   = "/" + ServiceName + "/TouchRecipe"
	SuggestTagsProcedure   = "/" + ServiceName + "/SuggestTags"
)

// Filter selects recipes by how often they have been cooked.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterCooked   Filter = "cooked"
	FilterUncooked Filter = "uncooked"
	FilterRepeat   Filter = "repeat"
)

// Ingredient is one line of a recipe's ingredient list.
type Ingredient struct {
	Name   string `json:"name"`
	Amount string `json:"amount"`
	Unit   string `json:"unit"`
	Note   string `json:"note,omitempty"`
}

type PreviewURLRequest struct {
	URL string `json:"url"`
}

// PreviewURLResponse is the draft for a URL before the user edits it.
type PreviewURLResponse struct {
	URLFinal      string  `json:"urlFinal"`
	CanonicalURL  string  `json:"canonicalUrl"`
	Provider      string  `json:"provider"`
	ProviderID    *string `json:"providerId"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	ImageURL      *string `json:"imageUrl"`
	EmbedHTML     *string `json:"embedHtml"`
	EmbedProvider *string `json:"embedProvider"`
}

// RecipeDraft is a preview as edited by the user.
type RecipeDraft struct {
	URL             string       `json:"url"`
	URLFinal        string       `json:"urlFinal"`
	CanonicalURL    string       `json:"canonicalUrl"`
	Provider        string       `json:"provider"`
	ProviderID      *string      `json:"providerId"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	ImageURL        *string      `json:"imageUrl"`
	EmbedHTML       *string      `json:"embedHtml"`
	EmbedProvider   *string      `json:"embedProvider"`
	Tags            []string     `json:"tags"`
	IngredientsBase []Ingredient `json:"ingredientsBase"`
}

type SaveRecipeRequest struct {
	Draft *RecipeDraft `json:"draft"`
}

type SaveRecipeResponse struct {
	ID string `json:"id"`
}

type ListRecipesRequest struct {
	// Filter defaults to FilterAll when empty.
	Filter Filter `json:"filter,omitempty"`
}

// RecipeSummary is a recipe as shown in a list.
type RecipeSummary struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	ImageURL     *string    `json:"imageUrl"`
	Tags         []string   `json:"tags"`
	CookedCount  int64      `json:"cookedCount"`
	LastCookedAt *time.Time `json:"lastCookedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type ListRecipesResponse struct {
	Recipes []*RecipeSummary `json:"recipes"`
}

type GetRecipeRequest struct {
	RecipeID string `json:"recipeId"`
}

// Recipe is a saved recipe.
type Recipe struct {
	ID              string       `json:"id"`
	URL             string       `json:"url"`
	URLFinal        string       `json:"urlFinal"`
	CanonicalURL    string       `json:"canonicalUrl"`
	Provider        string       `json:"provider"`
	ProviderID      *string      `json:"providerId"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Tags            []string     `json:"tags"`
	ImageURL        *string      `json:"imageUrl"`
	ImageMirrorURL  *string      `json:"imageMirrorUrl"`
	EmbedHTML       *string      `json:"embedHtml"`
	EmbedProvider   *string      `json:"embedProvider"`
	IngredientsBase []Ingredient `json:"ingredientsBase"`
	CookedCount     int64        `json:"cookedCount"`
	LastCookedAt    *time.Time   `json:"lastCookedAt"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type GetRecipeResponse struct {
	Recipe *Recipe `json:"recipe"`
}

type RecordCookingRequest struct {
	RecipeID string `json:"recipeId"`
}

type RecordCookingResponse struct {
	CookedCount  int64     `json:"cookedCount"`
	LastCookedAt time.Time `json:"lastCookedAt"`
}

type TouchRecipeRequest struct {
	RecipeID string `json:"recipeId"`
}

type TouchRecipeResponse struct{}

type SuggestTagsRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type SuggestTagsResponse struct {
	Tags []string `json:"tags"`
}
