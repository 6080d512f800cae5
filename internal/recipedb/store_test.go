package recipedb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
)

// newEmulatorStore connects to the Firestore emulator configured by
// FIRESTORE_EMULATOR_HOST, skipping the test when it is not set.
func newEmulatorStore(t *testing.T) *Store {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "recipeclip-test")
	if err != nil {
		t.Fatalf("creating firestore client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	return NewStore(client)
}

func testUserID(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("user-%s-%d", t.Name(), time.Now().UnixNano())
}

func TestCanonicalHash(t *testing.T) {
	got := CanonicalHash("https://www.youtube.com/watch?v=abc123")
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %q", got)
	}
	if got != CanonicalHash("https://www.youtube.com/watch?v=abc123") {
		t.Error("hash is not deterministic")
	}
	if got == CanonicalHash("https://www.youtube.com/watch?v=abc124") {
		t.Error("different urls hashed to the same id")
	}
	// sha256("") is well known.
	if CanonicalHash("") != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Error("unexpected hash of empty string")
	}
}

func TestRecipeCookedState(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name     string
		recipe   Recipe
		cooked   bool
		repeated bool
	}{
		{name: "new", recipe: Recipe{}},
		{name: "cooked once", recipe: Recipe{CookedCount: 1}, cooked: true},
		{name: "last cooked only", recipe: Recipe{LastCookedAt: &now}, cooked: true},
		{name: "repeat", recipe: Recipe{CookedCount: 3, LastCookedAt: &now}, cooked: true, repeated: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.recipe.Cooked(); got != tc.cooked {
				t.Errorf("Cooked() = %v, want %v", got, tc.cooked)
			}
			if got := tc.recipe.Repeated(); got != tc.repeated {
				t.Errorf("Repeated() = %v, want %v", got, tc.repeated)
			}
		})
	}
}

func TestStoreUpsertAndGet(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	uid := testUserID(t)
	id := CanonicalHash("https://example.com/")

	if _, err := s.Get(ctx, uid, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := s.Upsert(ctx, uid, id, func(existing *Recipe) (*Recipe, error) {
		if existing != nil {
			t.Errorf("expected no existing recipe, got %+v", existing)
		}
		return &Recipe{
			UserID:       uid,
			ID:           id,
			CanonicalURL: "https://example.com/",
			Tags:         []string{},
			Ingredients:  []Ingredient{},
			CreatedAt:    created,
			UpdatedAt:    created,
		}, nil
	}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	if err := s.Upsert(ctx, uid, id, func(existing *Recipe) (*Recipe, error) {
		if existing == nil {
			t.Fatal("expected existing recipe")
		}
		if !existing.CreatedAt.Equal(created) {
			t.Errorf("createdAt = %v, want %v", existing.CreatedAt, created)
		}
		next := *existing
		next.Title = "updated"
		next.UpdatedAt = created.Add(time.Minute)
		return &next, nil
	}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	got, err := s.Get(ctx, uid, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "updated" || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected recipe %+v", got)
	}
	if got.Tags == nil || got.Ingredients == nil {
		t.Errorf("expected empty arrays, got tags=%v ingredients=%v", got.Tags, got.Ingredients)
	}
}

func TestStoreListAndRecordCooking(t *testing.T) {
	s := newEmulatorStore(t)
	ctx := context.Background()
	uid := testUserID(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, u := range []string{"https://a.example/", "https://b.example/"} {
		id := CanonicalHash(u)
		if err := s.Upsert(ctx, uid, id, func(*Recipe) (*Recipe, error) {
			return &Recipe{ID: id, CanonicalURL: u, CreatedAt: base, UpdatedAt: base.Add(time.Duration(i) * time.Hour)}, nil
		}); err != nil {
			t.Fatalf("upsert %s: %v", u, err)
		}
	}

	list, err := s.List(ctx, uid)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].CanonicalURL != "https://b.example/" {
		t.Fatalf("unexpected order: %+v", list)
	}

	cookedAt := base.Add(48 * time.Hour)
	r, err := s.RecordCooking(ctx, uid, list[0].ID, cookedAt)
	if err != nil {
		t.Fatalf("record cooking: %v", err)
	}
	if r.CookedCount != 1 || r.LastCookedAt == nil || !r.LastCookedAt.Equal(cookedAt) {
		t.Errorf("unexpected cooking state: %+v", r)
	}

	if _, err := s.RecordCooking(ctx, uid, "missing", cookedAt); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := s.Touch(ctx, uid, list[0].ID, cookedAt); err != nil {
		t.Errorf("touch: %v", err)
	}
}
