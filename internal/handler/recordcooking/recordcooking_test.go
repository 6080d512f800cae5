package recordcooking

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

func TestRecordCooking(t *testing.T) {
	repo := recipedbtest.NewMemory()
	err := repo.Upsert(context.Background(), "user1", "r1", func(*recipedb.Recipe) (*recipedb.Recipe, error) {
		return &recipedb.Recipe{UserID: "user1", ID: "r1"}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2026, 10, 2, 19, 0, 0, 0, time.UTC)
	h := NewHandler(repo)
	h.now = func() time.Time { return now }
	path, handler := clipapi.NewHandler(clipapi.RecordCookingProcedure, h.RecordCooking)
	client := handlertest.NewClient(t, path, handler)

	for want := int64(1); want <= 2; want++ {
		res, err := client.RecordCooking(handlertest.AsUser("user1"), &clipapi.RecordCookingRequest{RecipeID: "r1"})
		if err != nil {
			t.Fatalf("record failed: %v", err)
		}
		if res.CookedCount != want {
			t.Errorf("cooked count = %d, want %d", res.CookedCount, want)
		}
		if !res.LastCookedAt.Equal(now) {
			t.Errorf("unexpected lastCookedAt %v", res.LastCookedAt)
		}
	}

	r, err := repo.Get(context.Background(), "user1", "r1")
	if err != nil {
		t.Fatal(err)
	}
	if !r.Repeated() {
		t.Errorf("expected recipe to be repeated, count %d", r.CookedCount)
	}

	_, err = client.RecordCooking(handlertest.AsUser("user1"), &clipapi.RecordCookingRequest{RecipeID: "missing"})
	if connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
	_, err = client.RecordCooking(context.Background(), &clipapi.RecordCookingRequest{RecipeID: "r1"})
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("expected unauthenticated, got %v", err)
	}
}
