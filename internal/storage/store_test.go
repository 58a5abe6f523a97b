package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// store is the surface shared by MemoryStore and SQLiteStore.
type store interface {
	domain.IngredientCatalog
	domain.RecipeStore
	domain.PlaybackFetcher
	SeedPublic(ctx context.Context, items []domain.NewIngredient) error
}

func eachStore(t *testing.T, fn func(t *testing.T, s store)) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)

	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemoryStore(log))
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := OpenSQLiteInMemory(log)
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		fn(t, s)
	})
}

var (
	alice = domain.Identity{UserID: "alice"}
	bob   = domain.Identity{UserID: "bob"}
)

func seedFlour(t *testing.T, s store) domain.Ingredient {
	t.Helper()
	ctx := context.Background()
	if err := s.SeedPublic(ctx, []domain.NewIngredient{
		{Title: "flour", Unit: "g", Category: "baking"},
		{Title: "milk", Unit: "ml", Category: "dairy"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	list, err := s.List(ctx, domain.Anonymous)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, it := range list {
		if it.Title == "flour" {
			return it
		}
	}
	t.Fatal("flour not seeded")
	return domain.Ingredient{}
}

func pancakes(flourID int) domain.Submission {
	price := 4.5
	return domain.Submission{
		Info: domain.RecipeInfo{
			Title:       "Pancakes",
			Description: "Fluffy",
			Category:    "breakfast",
			Visible:     true,
			Price:       &price,
		},
		Steps: []domain.Step{
			{ID: "a", Title: "Add flour", Variant: domain.AddIngredient{IngredientID: flourID, Amount: 200}},
			{ID: "b", Title: "Cook", Variant: domain.Cooking{Duration: "02:00", TemperatureLevel: 3, MixSpeedLevel: 2}},
			{ID: "c", Title: "Serve", Variant: domain.Description{Text: "Serve warm"}},
		},
	}
}

func TestSeedPublicIsIdempotent(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		seedFlour(t, s)
		if err := s.SeedPublic(ctx, []domain.NewIngredient{{Title: "salt", Unit: "g", Category: "spice"}}); err != nil {
			t.Fatalf("second seed: %v", err)
		}
		list, _ := s.List(ctx, domain.Anonymous)
		if len(list) != 2 {
			t.Fatalf("expected 2 public ingredients, got %d", len(list))
		}
		for _, it := range list {
			if it.Owner != "" || it.Deletable {
				t.Fatalf("public ingredient %+v should be owner-less and not deletable", it)
			}
		}
	})
}

func TestCreateRequiresIdentity(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		_, err := s.Create(context.Background(), domain.Anonymous, []domain.NewIngredient{{Title: "x", Unit: "g", Category: "y"}})
		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})
}

func TestCreateRejectsInvalid(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		_, err := s.Create(context.Background(), alice, []domain.NewIngredient{{Title: "x", Category: "y"}})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestPrivateIngredientsAreScoped(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		seedFlour(t, s)
		created, err := s.Create(ctx, alice, []domain.NewIngredient{{Title: "saffron", Unit: "g", Category: "spice"}})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(created) != 1 || created[0].Owner != "alice" || !created[0].Deletable {
			t.Fatalf("unexpected created ingredient: %+v", created)
		}

		mine, _ := s.List(ctx, alice)
		theirs, _ := s.List(ctx, bob)
		anon, _ := s.List(ctx, domain.Anonymous)
		if len(mine) != 3 || len(theirs) != 2 || len(anon) != 2 {
			t.Fatalf("expected 3/2/2 ingredients, got %d/%d/%d", len(mine), len(theirs), len(anon))
		}
	})
}

func TestDeleteOwnIngredient(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		flour := seedFlour(t, s)
		created, err := s.Create(ctx, alice, []domain.NewIngredient{
			{Title: "saffron", Unit: "g", Category: "spice"},
			{Title: "vanilla", Unit: "ml", Category: "baking"},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		saffron, vanilla := created[0], created[1]

		sub := pancakes(flour.ID)
		sub.Steps = append(sub.Steps, domain.Step{Title: "Saffron", Variant: domain.AddIngredient{IngredientID: saffron.ID, Amount: 1}})
		if _, err := s.Submit(ctx, alice, sub); err != nil {
			t.Fatalf("submit: %v", err)
		}

		list, _ := s.List(ctx, alice)
		for _, it := range list {
			switch it.ID {
			case saffron.ID:
				if it.Deletable {
					t.Fatal("referenced ingredient must not be deletable")
				}
			case vanilla.ID:
				if !it.Deletable {
					t.Fatal("unreferenced own ingredient must be deletable")
				}
			}
		}

		if err := s.Delete(ctx, alice, saffron.ID); !errors.Is(err, domain.ErrNotDeletable) {
			t.Fatalf("expected ErrNotDeletable, got %v", err)
		}
		if err := s.Delete(ctx, bob, vanilla.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for another owner, got %v", err)
		}
		if err := s.Delete(ctx, alice, flour.ID); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound for a public ingredient, got %v", err)
		}
		if err := s.Delete(ctx, alice, vanilla.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		list, _ = s.List(ctx, alice)
		if len(list) != 3 {
			t.Fatalf("expected 3 ingredients after delete, got %d", len(list))
		}
	})
}

func TestSubmitAndFetchForPlayback(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		flour := seedFlour(t, s)

		r, err := s.Submit(ctx, alice, pancakes(flour.ID))
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if r.ID == "" || r.Owner != "alice" || len(r.Steps) != 3 {
			t.Fatalf("unexpected recipe: %+v", r)
		}
		if r.Steps[0].ID == "a" {
			t.Fatal("authoring step ids should be replaced")
		}

		pb, err := s.FetchForPlayback(ctx, r.ID)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if pb.Title != "Pancakes" || len(pb.Steps) != 3 {
			t.Fatalf("unexpected playback recipe: %+v", pb)
		}
		add, ok := pb.Steps[0].Variant.(domain.AddIngredient)
		if !ok || add.Resolved == nil || add.Resolved.Title != "flour" || add.Resolved.Unit != "g" || add.Amount != 200 {
			t.Fatalf("ingredient step not resolved: %+v", pb.Steps[0].Variant)
		}
		cook, ok := pb.Steps[1].Variant.(domain.Cooking)
		if !ok || cook.Duration != "02:00" || cook.TemperatureLevel != 3 || cook.MixSpeedLevel != 2 {
			t.Fatalf("unexpected cooking step: %+v", pb.Steps[1].Variant)
		}
		if d, ok := pb.Steps[2].Variant.(domain.Description); !ok || d.Text != "Serve warm" {
			t.Fatalf("unexpected description step: %+v", pb.Steps[2].Variant)
		}

		if _, err := s.FetchForPlayback(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestSubmitRevalidates(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		flour := seedFlour(t, s)

		empty := pancakes(flour.ID)
		empty.Steps = nil
		var verr *domain.ValidationError
		if _, err := s.Submit(ctx, alice, empty); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for empty recipe, got %v", err)
		}

		unknown := pancakes(999)
		if _, err := s.Submit(ctx, alice, unknown); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for unknown ingredient, got %v", err)
		}

		created, _ := s.Create(ctx, bob, []domain.NewIngredient{{Title: "secret", Unit: "g", Category: "x"}})
		foreign := pancakes(created[0].ID)
		if _, err := s.Submit(ctx, alice, foreign); !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for another user's ingredient, got %v", err)
		}
	})
}

func TestListRecipesScoping(t *testing.T) {
	eachStore(t, func(t *testing.T, s store) {
		ctx := context.Background()
		flour := seedFlour(t, s)

		if _, err := s.Submit(ctx, alice, pancakes(flour.ID)); err != nil {
			t.Fatalf("submit public: %v", err)
		}
		private := pancakes(flour.ID)
		private.Info.Title = "Secret Crepes"
		private.Info.Visible = false
		r, err := s.Submit(ctx, alice, private)
		if err != nil {
			t.Fatalf("submit private: %v", err)
		}
		if r.Info.Price != nil {
			t.Fatal("private recipe must not carry a price")
		}

		mine, _ := s.ListRecipes(ctx, alice)
		theirs, _ := s.ListRecipes(ctx, bob)
		anon, _ := s.ListRecipes(ctx, domain.Anonymous)
		if len(mine) != 2 || len(theirs) != 1 || len(anon) != 1 {
			t.Fatalf("expected 2/1/1 recipes, got %d/%d/%d", len(mine), len(theirs), len(anon))
		}
		for _, sum := range mine {
			if sum.Title == "Secret Crepes" && sum.Price != nil {
				t.Fatal("private summary must not carry a price")
			}
			if sum.StepCount != 3 {
				t.Fatalf("expected 3 steps, got %d", sum.StepCount)
			}
		}
	})
}

type busyError struct{ code int }

func (e busyError) Error() string { return "sqlite busy" }
func (e busyError) Code() int     { return e.code }

func TestRetryBusy(t *testing.T) {
	s, err := OpenSQLiteInMemory(logger.New(logger.LevelOff, nil))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	ctx := context.Background()

	calls := 0
	err = s.retry(ctx, "write", func() error {
		calls++
		switch calls {
		case 1:
			return errors.New("database is locked")
		case 2:
			return busyError{code: 517} // SQLITE_BUSY_SNAPSHOT
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Fatalf("expected success after 3 calls, got err=%v calls=%d", err, calls)
	}

	calls = 0
	boom := errors.New("boom")
	if err := s.retry(ctx, "write", func() error { calls++; return boom }); !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("non-busy errors must not be retried, got err=%v calls=%d", err, calls)
	}

	calls = 0
	err = s.retry(ctx, "write", func() error { calls++; return busyError{code: sqliteBusyCode} })
	if calls != busyRetryAttempts || !errors.As(err, new(busyError)) {
		t.Fatalf("expected %d attempts and the busy error, got err=%v calls=%d", busyRetryAttempts, err, calls)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	calls = 0
	err = s.retry(cancelled, "write", func() error { calls++; return busyError{code: sqliteBusyCode} })
	if !errors.Is(err, context.Canceled) || calls != 1 {
		t.Fatalf("expected cancellation after one attempt, got err=%v calls=%d", err, calls)
	}
}
