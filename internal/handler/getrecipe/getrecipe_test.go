package getrecipe

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/handler/handlertest"
	"github.com/curioswitch/recipeclip/internal/recipedb"
	"github.com/curioswitch/recipeclip/internal/recipedb/recipedbtest"
)

func TestGetRecipe(t *testing.T) {
	repo := recipedbtest.NewMemory()
	created := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	providerID := "abc123"
	err := repo.Upsert(context.Background(), "user1", "r1", func(*recipedb.Recipe) (*recipedb.Recipe, error) {
		return &recipedb.Recipe{
			UserID:       "user1",
			ID:           "r1",
			CanonicalURL: "https://www.youtube.com/watch?v=abc123",
			Provider:     "youtube",
			ProviderID:   &providerID,
			Title:        "親子丼",
			Ingredients:  []recipedb.Ingredient{{Name: "卵", Amount: "2", Unit: "個"}},
			CreatedAt:    created,
			UpdatedAt:    created,
		}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	path, handler := clipapi.NewHandler(clipapi.GetRecipeProcedure, NewHandler(repo).GetRecipe)
	client := handlertest.NewClient(t, path, handler)

	res, err := client.GetRecipe(handlertest.AsUser("user1"), &clipapi.GetRecipeRequest{RecipeID: "r1"})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	r := res.Recipe
	if r.ID != "r1" || r.Title != "親子丼" || r.ProviderID == nil || *r.ProviderID != "abc123" {
		t.Errorf("unexpected recipe %+v", r)
	}
	if r.Tags == nil {
		t.Error("tags should be an empty list")
	}
	if len(r.IngredientsBase) != 1 || r.IngredientsBase[0].Name != "卵" {
		t.Errorf("unexpected ingredients %+v", r.IngredientsBase)
	}
	if !r.CreatedAt.Equal(created) {
		t.Errorf("unexpected createdAt %v", r.CreatedAt)
	}

	tests := []struct {
		name string
		ctx  context.Context
		id   string
		code connect.Code
	}{
		{name: "other user", ctx: handlertest.AsUser("user2"), id: "r1", code: connect.CodeNotFound},
		{name: "missing", ctx: handlertest.AsUser("user1"), id: "r2", code: connect.CodeNotFound},
		{name: "no id", ctx: handlertest.AsUser("user1"), id: "", code: connect.CodeInvalidArgument},
		{name: "no user", ctx: context.Background(), id: "r1", code: connect.CodeUnauthenticated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.GetRecipe(tc.ctx, &clipapi.GetRecipeRequest{RecipeID: tc.id})
			if connect.CodeOf(err) != tc.code {
				t.Errorf("expected %v, got %v", tc.code, err)
			}
		})
	}
}
