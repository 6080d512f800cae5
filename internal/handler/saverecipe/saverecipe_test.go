package saverecipe

import (
	"context"
	"errors"
	"strings"
	"testing"

	"connectrpc.com/connect"

	"github.com/curioswitch/recipeclip/api/clipapi"
	"github.com/curioswitch/recipeclip/internal/handler/handlertest"
	"github.com/curioswitch/recipeclip/internal/recipedb"
	"github.com/curioswitch/recipeclip/internal/recipedb/recipedbtest"
	"github.com/curioswitch/recipeclip/internal/recipesave"
)

type failingSaver struct{}

func (failingSaver) Save(context.Context, string, *recipesave.Draft) (string, error) {
	return "", errors.New("recipesave: saving recipe: deadline exceeded")
}

func newClient(t *testing.T, saver Saver) *clipapi.Client {
	t.Helper()
	path, handler := clipapi.NewHandler(clipapi.SaveRecipeProcedure, NewHandler(saver).SaveRecipe)
	return handlertest.NewClient(t, path, handler)
}

func testDraft() *clipapi.RecipeDraft {
	embed := `<blockquote class="tiktok-embed"><section>video</section></blockquote><script async src="https://www.tiktok.com/embed.js"></script>`
	embedProvider := "tiktok"
	return &clipapi.RecipeDraft{
		URL:           "https://vt.tiktok.com/ZSabc/",
		URLFinal:      "https://www.tiktok.com/@cook/video/123?is_from_webapp=1",
		CanonicalURL:  "https://www.tiktok.com/@cook/video/123?is_from_webapp=1",
		Provider:      "tiktok",
		Title:         "無限キャベツ",
		EmbedHTML:     &embed,
		EmbedProvider: &embedProvider,
		Tags:          []string{"レンジ"},
		IngredientsBase: []clipapi.Ingredient{
			{Name: "キャベツ", Amount: "1/4", Unit: "個"},
		},
	}
}

func TestSaveRecipe(t *testing.T) {
	repo := recipedbtest.NewMemory()
	client := newClient(t, recipesave.NewSaver(repo, nil))

	res, err := client.SaveRecipe(handlertest.AsUser("user1"), &clipapi.SaveRecipeRequest{Draft: testDraft()})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if res.ID != recipedb.CanonicalHash(testDraft().CanonicalURL) {
		t.Errorf("unexpected id %q", res.ID)
	}

	again, err := client.SaveRecipe(handlertest.AsUser("user1"), &clipapi.SaveRecipeRequest{Draft: testDraft()})
	if err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	if again.ID != res.ID {
		t.Errorf("re-save changed id: %q vs %q", again.ID, res.ID)
	}

	r, err := repo.Get(context.Background(), "user1", res.ID)
	if err != nil {
		t.Fatal(err)
	}
	if r.EmbedHTML == nil || strings.Contains(*r.EmbedHTML, "script") {
		t.Errorf("embed not sanitized: %v", r.EmbedHTML)
	}
	if len(r.Ingredients) != 1 || r.Ingredients[0].Amount != "1/4" {
		t.Errorf("unexpected ingredients %+v", r.Ingredients)
	}
}

func TestSaveRecipeErrors(t *testing.T) {
	badAmount := testDraft()
	badAmount.IngredientsBase = []clipapi.Ingredient{{Name: "塩", Amount: "少々"}}

	missingURL := testDraft()
	missingURL.CanonicalURL = ""

	tests := []struct {
		name  string
		ctx   context.Context
		saver Saver
		req   *clipapi.SaveRecipeRequest
		code  connect.Code
	}{
		{
			name:  "no user",
			ctx:   context.Background(),
			saver: recipesave.NewSaver(recipedbtest.NewMemory(), nil),
			req:   &clipapi.SaveRecipeRequest{Draft: testDraft()},
			code:  connect.CodeUnauthenticated,
		},
		{
			name:  "missing draft",
			ctx:   handlertest.AsUser("user1"),
			saver: recipesave.NewSaver(recipedbtest.NewMemory(), nil),
			req:   &clipapi.SaveRecipeRequest{},
			code:  connect.CodeInvalidArgument,
		},
		{
			name:  "missing canonical url",
			ctx:   handlertest.AsUser("user1"),
			saver: recipesave.NewSaver(recipedbtest.NewMemory(), nil),
			req:   &clipapi.SaveRecipeRequest{Draft: missingURL},
			code:  connect.CodeInvalidArgument,
		},
		{
			name:  "bad amount",
			ctx:   handlertest.AsUser("user1"),
			saver: recipesave.NewSaver(recipedbtest.NewMemory(), nil),
			req:   &clipapi.SaveRecipeRequest{Draft: badAmount},
			code:  connect.CodeInvalidArgument,
		},
		{
			name:  "storage failure",
			ctx:   handlertest.AsUser("user1"),
			saver: failingSaver{},
			req:   &clipapi.SaveRecipeRequest{Draft: testDraft()},
			code:  connect.CodeInternal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := newClient(t, tc.saver)
			_, err := client.SaveRecipe(tc.ctx, tc.req)
			if connect.CodeOf(err) != tc.code {
				t.Errorf("expected %v, got %v", tc.code, err)
			}
			if tc.code == connect.CodeInternal && strings.Contains(err.Error(), "deadline") {
				t.Errorf("internal details leaked: %v", err)
			}
		})
	}
}
