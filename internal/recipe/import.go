package recipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/wizard"
)

// Store is what an import writes to.
type Store interface {
	domain.IngredientCatalog
	domain.RecipeStore
}

// Seeder is a Store that can also load the public catalog.
type Seeder interface {
	Store
	SeedPublic(ctx context.Context, items []domain.NewIngredient) error
}

// Import authors doc through a fresh wizard, so an imported recipe passes
// exactly the checks a hand-authored one does. Ingredients the document
// declares are only created when no visible entry has the same title.
func Import(ctx context.Context, store Store, ident domain.Identity, doc *Doc, log *logger.Logger) (*domain.Recipe, error) {
	b := wizard.New(store, store, ident, log)
	if err := b.Load(ctx); err != nil {
		return nil, fmt.Errorf("importing %q: %w", doc.Title, err)
	}

	b.SetTitle(doc.Title)
	b.SetDescription(doc.Description)
	b.SetCategory(doc.Category)
	b.SetVisible(doc.Visible)
	if doc.Visible && doc.Price != nil {
		if err := b.SetPrice(*doc.Price); err != nil {
			return nil, fmt.Errorf("importing %q: %w", doc.Title, err)
		}
	}
	if err := b.Next(ctx); err != nil {
		return nil, fmt.Errorf("importing %q: info: %w", doc.Title, err)
	}

	queued := make(map[string]bool, len(doc.Ingredients))
	for _, it := range doc.Ingredients {
		key := titleKey(it.Title)
		if queued[key] {
			continue
		}
		if _, exists := b.Catalog().FindByTitle(it.Title); exists {
			continue
		}
		queued[key] = true
		b.AddIngredient(it.toNew())
	}
	if err := b.Next(ctx); err != nil {
		return nil, fmt.Errorf("importing %q: ingredients: %w", doc.Title, err)
	}

	for i, s := range doc.Steps {
		v, err := s.Variant(b.Catalog())
		if err != nil {
			return nil, fmt.Errorf("importing %q: step %d: %w", doc.Title, i+1, err)
		}
		if _, err := b.AppendStep(s.Title, v); err != nil {
			return nil, fmt.Errorf("importing %q: step %d: %w", doc.Title, i+1, err)
		}
	}

	r, err := b.Submit(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("importing %q: %w", doc.Title, err)
	}
	log.Info("imported %q from %s as %s", doc.Title, doc.Source, r.ID)
	return r, nil
}

// Install loads the seed catalog and imports every demo recipe the seed
// owner does not already have under the same title. It returns the number
// of recipes imported, so a partial earlier install is completed.
func Install(ctx context.Context, store Seeder, seed *Seed, log *logger.Logger) (int, error) {
	items := make([]domain.NewIngredient, 0, len(seed.Ingredients))
	for _, it := range seed.Ingredients {
		items = append(items, it.toNew())
	}
	if err := store.SeedPublic(ctx, items); err != nil {
		return 0, fmt.Errorf("seeding ingredients: %w", err)
	}

	owner := domain.Identity{UserID: seed.Owner}
	existing, err := store.ListRecipes(ctx, owner)
	if err != nil {
		return 0, fmt.Errorf("listing recipes: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, r := range existing {
		if r.Owner == owner.UserID {
			have[titleKey(r.Title)] = true
		}
	}

	n := 0
	for i := range seed.Recipes {
		doc := &seed.Recipes[i]
		if have[titleKey(doc.Title)] {
			log.Debug("demo recipe %q already installed", doc.Title)
			continue
		}
		if _, err := Import(ctx, store, owner, doc, log); err != nil {
			return n, err
		}
		have[titleKey(doc.Title)] = true
		n++
	}
	return n, nil
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
