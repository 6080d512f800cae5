// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

package clipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
)

// Codec marshals messages as plain JSON. It replaces connect's default JSON
// codec, which only accepts protobuf messages.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string {
	return "json"
}

func (Codec) Marshal(msg any) ([]byte, error) {
	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("clipapi: marshalling message: %w", err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("clipapi: unmarshalling message: %w", err)
	}
	return nil
}

// NewHandler returns the path and handler serving fn as a unary procedure,
// ready for mux.Handle.
func NewHandler[Req, Res any](
	procedure string,
	fn func(context.Context, *Req) (*Res, error),
	opts ...connect.HandlerOption,
) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	return procedure, connect.NewUnaryHandler(procedure,
		func(ctx context.Context, req *connect.Request[Req]) (*connect.Response[Res], error) {
			res, err := fn(ctx, req.Msg)
			if err != nil {
				return nil, err
			}
			return connect.NewResponse(res), nil
		},
		opts...,
	)
}

// Client calls the ClipService.
type Client struct {
	previewURL    *connect.Client[PreviewURLRequest, PreviewURLResponse]
	saveRecipe    *connect.Client[SaveRecipeRequest, SaveRecipeResponse]
	listRecipes   *connect.Client[ListRecipesRequest, ListRecipesResponse]
	getRecipe     *connect.Client[GetRecipeRequest, GetRecipeResponse]
	recordCooking *connect.Client[RecordCookingRequest, RecordCookingResponse]
	touchRecipe   *connect.Client[TouchRecipeRequest, TouchRecipeResponse]
	suggestTags   *connect.Client[SuggestTagsRequest, SuggestTagsResponse]
}

// NewClient returns a Client for the service at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &Client{
		previewURL:    connect.NewClient[PreviewURLRequest, PreviewURLResponse](httpClient, baseURL+PreviewURLProcedure, opts...),
		saveRecipe:    connect.NewClient[SaveRecipeRequest, SaveRecipeResponse](httpClient, baseURL+SaveRecipeProcedure, opts...),
		listRecipes:   connect.NewClient[ListRecipesRequest, ListRecipesResponse](httpClient, baseURL+ListRecipesProcedure, opts...),
		getRecipe:     connect.NewClient[GetRecipeRequest, GetRecipeResponse](httpClient, baseURL+GetRecipeProcedure, opts...),
		recordCooking: connect.NewClient[RecordCookingRequest, RecordCookingResponse](httpClient, baseURL+RecordCookingProcedure, opts...),
		touchRecipe:   connect.NewClient[TouchRecipeRequest, TouchRecipeResponse](httpClient, baseURL+TouchRecipeProcedure, opts...),
		suggestTags:   connect.NewClient[SuggestTagsRequest, SuggestTagsResponse](httpClient, baseURL+SuggestTagsProcedure, opts...),
	}
}

func (c *Client) PreviewURL(ctx context.Context, req *PreviewURLRequest) (*PreviewURLResponse, error) {
	return call(ctx, c.previewURL, req)
}

func (c *Client) SaveRecipe(ctx context.Context, req *SaveRecipeRequest) (*SaveRecipeResponse, error) {
	return call(ctx, c.saveRecipe, req)
}

func (c *Client) ListRecipes(ctx context.Context, req *ListRecipesRequest) (*ListRecipesResponse, error) {
	return call(ctx, c.listRecipes, req)
}

func (c *Client) GetRecipe(ctx context.Context, req *GetRecipeRequest) (*GetRecipeResponse, error) {
	return call(ctx, c.getRecipe, req)
}

func (c *Client) RecordCooking(ctx context.Context, req *RecordCookingRequest) (*RecordCookingResponse, error) {
	return call(ctx, c.recordCooking, req)
}

func (c *Client) TouchRecipe(ctx context.Context, req *TouchRecipeRequest) (*TouchRecipeResponse, error) {
	return call(ctx, c.touchRecipe, req)
}

func (c *Client) SuggestTags(ctx context.Context, req *SuggestTagsRequest) (*SuggestTagsResponse, error) {
	return call(ctx, c.suggestTags, req)
}

func call[Req, Res any](ctx context.Context, c *connect.Client[Req, Res], req *Req) (*Res, error) {
	res, err := c.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}
