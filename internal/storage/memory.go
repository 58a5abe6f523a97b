// Package storage provides reference implementations of the ingredient
// catalog, recipe store and playback fetcher collaborators.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/validate"
)

// Compile-time interface checks.
var (
	_ domain.IngredientCatalog = (*MemoryStore)(nil)
	_ domain.RecipeStore       = (*MemoryStore)(nil)
	_ domain.PlaybackFetcher   = (*MemoryStore)(nil)
)

// MemoryStore keeps ingredients and recipes in memory. Safe for concurrent access.
type MemoryStore struct {
	mu          sync.RWMutex
	nextID      int
	ingredients map[int]domain.Ingredient
	recipes     map[string]*domain.Recipe
	log         *logger.Logger
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		nextID:      1,
		ingredients: make(map[int]domain.Ingredient),
		recipes:     make(map[string]*domain.Recipe),
		log:         log,
	}
}

// SeedPublic adds owner-less ingredients. It does nothing if the public
// catalog already has entries.
func (s *MemoryStore) SeedPublic(ctx context.Context, items []domain.NewIngredient) error {
	if err := validate.NewIngredients(items); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range s.ingredients {
		if it.Owner == "" {
			return nil
		}
	}
	for _, it := range items {
		s.insertIngredient("", it)
	}
	s.log.Debug("seeded %d public ingredients", len(items))
	return nil
}

// List returns the public catalog plus the caller's own ingredients.
func (s *MemoryStore) List(ctx context.Context, ident domain.Identity) ([]domain.Ingredient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.visibleIngredients(ident)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	s.log.Debug("listing ingredients for %q, count=%d", ident.UserID, len(out))
	return out, nil
}

// Create persists user-owned ingredients.
func (s *MemoryStore) Create(ctx context.Context, ident domain.Identity, items []domain.NewIngredient) ([]domain.Ingredient, error) {
	if !ident.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	if err := validate.NewIngredients(items); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.Ingredient, 0, len(items))
	for _, it := range items {
		ing := s.insertIngredient(ident.UserID, it)
		ing.Deletable = true
		out = append(out, ing)
	}
	s.log.Info("created %d ingredients for %s", len(out), ident.UserID)
	return out, nil
}

// Delete removes one of the caller's ingredients if no stored step uses it.
func (s *MemoryStore) Delete(ctx context.Context, ident domain.Identity, id int) error {
	if !ident.Authenticated() {
		return domain.ErrUnauthenticated
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ing, ok := s.ingredients[id]
	if !ok || ing.Owner != ident.UserID {
		return domain.ErrNotFound
	}
	if s.referenced(id) {
		return domain.ErrNotDeletable
	}
	delete(s.ingredients, id)
	s.log.Info("deleted ingredient %d (%s)", id, ing.Title)
	return nil
}

// Submit stores a finalized recipe. Authoring step ids are replaced by
// store-owned ones.
func (s *MemoryStore) Submit(ctx context.Context, ident domain.Identity, sub domain.Submission) (*domain.Recipe, error) {
	sub.Info = normalizeInfo(sub.Info)

	s.mu.Lock()
	defer s.mu.Unlock()

	catalog := domain.NewCatalog(s.visibleIngredients(ident))
	if err := validate.Submission(sub, catalog); err != nil {
		return nil, err
	}

	r := &domain.Recipe{
		ID:        uuid.NewString(),
		Owner:     ident.UserID,
		Info:      sub.Info,
		HasImage:  len(sub.Image) > 0,
		CreatedAt: time.Now().UTC(),
	}
	r.Steps = storedSteps(r.ID, sub.Steps)
	s.recipes[r.ID] = r

	s.log.Info("stored recipe %s %q (%d steps)", r.ID, r.Info.Title, len(r.Steps))
	return copyRecipe(r), nil
}

// ListRecipes returns public recipes plus the caller's own.
func (s *MemoryStore) ListRecipes(ctx context.Context, ident domain.Identity) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.RecipeSummary
	for _, r := range s.recipes {
		if !r.Info.Visible && (r.Owner == "" || r.Owner != ident.UserID) {
			continue
		}
		out = append(out, summarize(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

// FetchForPlayback returns an independent copy of a recipe with every
// ingredient step resolved inline.
func (s *MemoryStore) FetchForPlayback(ctx context.Context, id string) (*domain.PlaybackRecipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		s.log.Debug("recipe not found: %s", id)
		return nil, domain.ErrNotFound
	}

	steps := make([]domain.Step, len(r.Steps))
	for i, st := range r.Steps {
		if add, ok := st.Variant.(domain.AddIngredient); ok {
			ing, found := s.ingredients[add.IngredientID]
			if !found {
				return nil, fmt.Errorf("recipe %s step %d: ingredient %d: %w", id, i+1, add.IngredientID, domain.ErrNotFound)
			}
			add.Resolved = &domain.IngredientRef{Title: ing.Title, Unit: ing.Unit}
			st.Variant = add
		}
		steps[i] = st
	}
	return &domain.PlaybackRecipe{ID: r.ID, Title: r.Info.Title, Steps: steps}, nil
}

// insertIngredient must be called with mu held.
func (s *MemoryStore) insertIngredient(owner string, it domain.NewIngredient) domain.Ingredient {
	ing := domain.Ingredient{
		ID:       s.nextID,
		Title:    it.Title,
		Unit:     it.Unit,
		Category: it.Category,
		Owner:    owner,
	}
	s.nextID++
	s.ingredients[ing.ID] = ing
	return ing
}

// visibleIngredients must be called with mu held.
func (s *MemoryStore) visibleIngredients(ident domain.Identity) []domain.Ingredient {
	var out []domain.Ingredient
	for _, it := range s.ingredients {
		switch {
		case it.Owner == "":
			out = append(out, it)
		case ident.Authenticated() && it.Owner == ident.UserID:
			it.Deletable = !s.referenced(it.ID)
			out = append(out, it)
		}
	}
	return out
}

// referenced must be called with mu held.
func (s *MemoryStore) referenced(id int) bool {
	for _, r := range s.recipes {
		for _, st := range r.Steps {
			if add, ok := st.Variant.(domain.AddIngredient); ok && add.IngredientID == id {
				return true
			}
		}
	}
	return false
}
