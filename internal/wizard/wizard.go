// Package wizard implements the three-stage recipe authoring flow:
// basic info, ingredient reconciliation, then step editing.
package wizard

import (
	"context"
	"fmt"
	"math"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/sequence"
	"github.com/hammamikhairi/recipebox/internal/validate"
)

// Stage is a wizard state.
type Stage int

const (
	StageInfo Stage = iota
	StageIngredients
	StageSteps
	StageSubmitted
)

var stageNames = map[Stage]string{
	StageInfo:        "info",
	StageIngredients: "ingredients",
	StageSteps:       "steps",
	StageSubmitted:   "submitted",
}

func (s Stage) String() string {
	if n, ok := stageNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDGenerator sets how authoring step ids are made.
func WithIDGenerator(gen func() string) Option {
	return func(b *Builder) {
		b.seqOpts = append(b.seqOpts, sequence.WithIDGenerator(gen))
	}
}

// Builder drives one recipe from an empty form to a submitted recipe.
// Each stage keeps its own slice of state, so a failure at one stage never
// touches data entered at another. Not safe for concurrent use.
type Builder struct {
	ingredients domain.IngredientCatalog
	recipes     domain.RecipeStore
	ident       domain.Identity
	log         *logger.Logger
	seqOpts     []sequence.Option

	stage   Stage
	info    domain.RecipeInfo
	pending []domain.NewIngredient
	catalog *domain.Catalog
	synced  bool
	steps   *sequence.Manager
	result  *domain.Recipe
}

// New creates a builder at the Info stage for the given identity.
func New(ingredients domain.IngredientCatalog, recipes domain.RecipeStore, ident domain.Identity, log *logger.Logger, opts ...Option) *Builder {
	b := &Builder{
		ingredients: ingredients,
		recipes:     recipes,
		ident:       ident,
		log:         log,
		stage:       StageInfo,
		catalog:     domain.NewCatalog(nil),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.steps = sequence.New(func(s domain.Step) error {
		return validate.Step(s, b.catalog)
	}, log, b.seqOpts...)
	return b
}

// Load fetches the catalog so the Ingredients stage can show what already
// exists. It does not unlock the Steps stage.
func (b *Builder) Load(ctx context.Context) error {
	list, err := b.ingredients.List(ctx, b.ident)
	if err != nil {
		return &domain.CollaboratorError{Op: "fetching ingredients", Err: err}
	}
	b.catalog = domain.NewCatalog(list)
	b.log.Debug("wizard: loaded %d ingredients", len(list))
	return nil
}

// Stage returns the current stage.
func (b *Builder) Stage() Stage { return b.stage }

// Identity returns the identity the recipe is authored for.
func (b *Builder) Identity() domain.Identity { return b.ident }

// Result returns the stored recipe once submitted.
func (b *Builder) Result() (*domain.Recipe, bool) { return b.result, b.result != nil }

// Next validates the current stage and moves forward. Leaving Ingredients
// persists new ingredients and re-syncs the catalog; leaving Steps submits
// the recipe without an image.
func (b *Builder) Next(ctx context.Context) error {
	switch b.stage {
	case StageInfo:
		if err := validate.Info(b.info); err != nil {
			return err
		}
		b.moveTo(StageIngredients)
		return nil
	case StageIngredients:
		if err := b.syncIngredients(ctx); err != nil {
			return err
		}
		b.moveTo(StageSteps)
		return nil
	case StageSteps:
		_, err := b.Submit(ctx, nil)
		return err
	default:
		return domain.ErrSequenceFrozen
	}
}

// Back returns to the previous stage. It reports false at Info and after
// submission.
func (b *Builder) Back() bool {
	switch b.stage {
	case StageIngredients:
		b.moveTo(StageInfo)
	case StageSteps:
		// Coming forward again must re-sync.
		b.synced = false
		b.moveTo(StageIngredients)
	default:
		return false
	}
	return true
}

func (b *Builder) moveTo(s Stage) {
	b.log.Debug("wizard: %s -> %s", b.stage, s)
	b.stage = s
}

// syncIngredients persists pending ingredients and rebuilds the working
// catalog. On failure the stage and every slice stay as they were, except
// that ingredients already created are no longer pending.
func (b *Builder) syncIngredients(ctx context.Context) error {
	if err := validate.NewIngredients(b.pending); err != nil {
		return err
	}

	var created []domain.Ingredient
	if len(b.pending) > 0 {
		var err error
		created, err = b.ingredients.Create(ctx, b.ident, b.pending)
		if err != nil {
			b.log.Warn("wizard: persisting %d ingredients failed: %v", len(b.pending), err)
			return &domain.CollaboratorError{Op: "saving ingredients", Err: err}
		}
		b.log.Info("wizard: persisted %d ingredients", len(created))
		b.pending = nil
	}

	list, err := b.ingredients.List(ctx, b.ident)
	if err != nil {
		b.catalog.Merge(created)
		return &domain.CollaboratorError{Op: "fetching ingredients", Err: err}
	}
	catalog := domain.NewCatalog(list)
	catalog.Merge(created)
	b.catalog = catalog
	b.synced = true
	return nil
}

// ── Info ────────────────────────────────────────────────────────

// Info returns the basic-info slice.
func (b *Builder) Info() domain.RecipeInfo {
	info := b.info
	if info.Price != nil {
		p := *info.Price
		info.Price = &p
	}
	return info
}

func (b *Builder) SetTitle(v string)       { b.info.Title = v }
func (b *Builder) SetDescription(v string) { b.info.Description = v }
func (b *Builder) SetCategory(v string)    { b.info.Category = v }

// SetVisible flips visibility. Going private drops the price at once;
// going public leaves it absent until SetPrice.
func (b *Builder) SetVisible(visible bool) {
	b.info.Visible = visible
	if !visible && b.info.Price != nil {
		b.info.Price = nil
		b.log.Debug("wizard: price cleared for private recipe")
	}
}

// SetPrice sets the price of a public recipe.
func (b *Builder) SetPrice(price float64) error {
	var reasons []string
	if !b.info.Visible {
		reasons = append(reasons, "private recipes cannot have a price")
	}
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		reasons = append(reasons, "price must be a non-negative number")
	}
	if err := domain.NewValidationError("recipe info", reasons); err != nil {
		return err
	}
	b.info.Price = &price
	return nil
}

// ── Ingredients ─────────────────────────────────────────────────

// AddIngredient queues a new user-owned ingredient and returns its
// position in the pending list.
func (b *Builder) AddIngredient(it domain.NewIngredient) int {
	b.pending = append(b.pending, it)
	return len(b.pending) - 1
}

// RemoveIngredient drops a pending ingredient by position.
func (b *Builder) RemoveIngredient(i int) bool {
	if i < 0 || i >= len(b.pending) {
		return false
	}
	b.pending = append(b.pending[:i:i], b.pending[i+1:]...)
	return true
}

// PendingIngredients returns the ingredients not yet persisted.
func (b *Builder) PendingIngredients() []domain.NewIngredient {
	return append([]domain.NewIngredient(nil), b.pending...)
}

// Catalog returns the working catalog.
func (b *Builder) Catalog() *domain.Catalog { return b.catalog }

// DeleteOwnIngredient removes one of the caller's private ingredients when
// nothing references it, including steps of the recipe being authored.
func (b *Builder) DeleteOwnIngredient(ctx context.Context, id int) error {
	ing, ok := b.catalog.Get(id)
	if !ok || ing.Owner == "" || ing.Owner != b.ident.UserID {
		return domain.ErrNotFound
	}
	if !ing.Deletable || b.references(id) {
		return domain.ErrNotDeletable
	}
	if err := b.ingredients.Delete(ctx, b.ident, id); err != nil {
		return &domain.CollaboratorError{Op: "deleting ingredient", Err: err}
	}
	b.catalog.Remove(id)
	b.log.Info("wizard: deleted ingredient %d (%s)", id, ing.Title)
	return nil
}

func (b *Builder) references(id int) bool {
	for _, s := range b.steps.Steps() {
		if add, ok := s.Variant.(domain.AddIngredient); ok && add.IngredientID == id {
			return true
		}
	}
	return false
}

// ── Steps ───────────────────────────────────────────────────────

func (b *Builder) stepsReady() error {
	switch {
	case b.stage == StageSubmitted:
		return domain.ErrSequenceFrozen
	case b.stage != StageSteps || !b.synced:
		return domain.ErrCatalogNotSynced
	}
	return nil
}

// AppendStep validates and appends a step, returning it with its id.
func (b *Builder) AppendStep(title string, v domain.Variant) (domain.Step, error) {
	if err := b.stepsReady(); err != nil {
		return domain.Step{}, err
	}
	return b.steps.Append(domain.Step{Title: title, Variant: v})
}

// EditStep replaces a step's title and fields. The kind cannot change.
func (b *Builder) EditStep(id, title string, v domain.Variant) error {
	if err := b.stepsReady(); err != nil {
		return err
	}
	return b.steps.Replace(id, domain.Step{ID: id, Title: title, Variant: v})
}

// RemoveStep deletes a step. An unknown id is a no-op that reports false.
func (b *Builder) RemoveStep(id string) (bool, error) {
	if err := b.stepsReady(); err != nil {
		return false, err
	}
	return b.steps.Remove(id), nil
}

// ReorderStep moves a step to target.
func (b *Builder) ReorderStep(id string, target int) error {
	if err := b.stepsReady(); err != nil {
		return err
	}
	return b.steps.Reorder(id, target)
}

// Steps returns the sequence in order.
func (b *Builder) Steps() []domain.Step { return b.steps.Steps() }

// StepIDs returns the step ids in order.
func (b *Builder) StepIDs() []string { return b.steps.IDs() }

// ── Submit ──────────────────────────────────────────────────────

// Submit re-validates the whole recipe and hands it to the recipe store.
// On failure the wizard stays at Steps with everything intact.
func (b *Builder) Submit(ctx context.Context, image []byte) (*domain.Recipe, error) {
	if b.stage != StageSteps {
		return nil, fmt.Errorf("submit at %s: %w", b.stage, domain.ErrWrongStage)
	}
	if !b.synced {
		return nil, domain.ErrCatalogNotSynced
	}

	sub := domain.Submission{Info: b.Info(), Steps: b.steps.Steps(), Image: image}
	if err := validate.Submission(sub, b.catalog); err != nil {
		return nil, err
	}

	r, err := b.recipes.Submit(ctx, b.ident, sub)
	if err != nil {
		b.log.Warn("wizard: submit failed: %v", err)
		return nil, &domain.CollaboratorError{Op: "submitting recipe", Err: err}
	}

	b.steps.Freeze()
	b.result = r
	b.moveTo(StageSubmitted)
	b.log.Info("wizard: submitted %q as %s", r.Info.Title, r.ID)
	return r, nil
}
