// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package tagging suggests tags for a recipe from its title and description.
package tagging

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// Options are the tags a recipe can have, in display order.
var Options = []string{"レンジ", "フライパン", "鍋", "オーブン", "時短", "じっくり", "作り置き"}

const prompt = `あなたは料理アシスタントです。レシピのタイトルと説明から、当てはまるタグを選んでください。
使う調理器具（レンジ、フライパン、鍋、オーブン）と、調理時間の目安（時短、じっくり）、作り置きに向いているかを判断します。
はっきり分からないタグは選ばないでください。`

var schema = &genai.Schema{
	Type:        "object",
	Description: "Tags for the recipe.",
	Properties: map[string]*genai.Schema{
		"tags": {
			Type:        "array",
			Description: "The tags that apply to the recipe.",
			Items: &genai.Schema{
				Type: "string",
				Enum: Options,
			},
		},
	},
	Required: []string{"tags"},
}

// ContentGenerator generates model content, implemented by genai.Models.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

func NewSuggester(models ContentGenerator, model string) *Suggester {
	return &Suggester{
		models: models,
		model:  model,
	}
}

type Suggester struct {
	models ContentGenerator
	model  string
}

// Suggest returns the tags from Options that fit the recipe, in the order of
// Options.
func (s *Suggester) Suggest(ctx context.Context, title string, description string) ([]string, error) {
	var text strings.Builder
	text.WriteString("タイトル: ")
	text.WriteString(title)
	if description != "" {
		text.WriteString("\n説明: ")
		text.WriteString(description)
	}

	res, err := s.models.GenerateContent(ctx, s.model, []*genai.Content{
		genai.NewContentFromText(text.String(), genai.RoleUser),
	}, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt, genai.RoleModel),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
	})
	if err != nil {
		return nil, fmt.Errorf("tagging: generating content: %w", err)
	}
	if len(res.Candidates) != 1 || res.Candidates[0].Content == nil ||
		len(res.Candidates[0].Content.Parts) != 1 || res.Candidates[0].Content.Parts[0].Text == "" {
		return nil, fmt.Errorf("tagging: unexpected response from genai: %v", res)
	}

	return parse(res.Candidates[0].Content.Parts[0].Text)
}

func parse(text string) ([]string, error) {
	var out struct {
		Tags []string `json:"tags"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("tagging: unmarshalling tags: %w", err)
	}

	tags := make([]string, 0, len(out.Tags))
	for _, opt := range Options {
		if slices.Contains(out.Tags, opt) {
			tags = append(tags, opt)
		}
	}
	return tags, nil
}
