package domain

import "context"

// IngredientCatalog is the ingredient collaborator. List returns the
// public entries for the anonymous identity, plus the caller's own
// entries (with Deletable set) for an authenticated one.
type IngredientCatalog interface {
	List(ctx context.Context, ident Identity) ([]Ingredient, error)
	Create(ctx context.Context, ident Identity, items []NewIngredient) ([]Ingredient, error)
	Delete(ctx context.Context, ident Identity, id int) error
}

// RecipeStore accepts finalized recipes.
type RecipeStore interface {
	Submit(ctx context.Context, ident Identity, sub Submission) (*Recipe, error)
	ListRecipes(ctx context.Context, ident Identity) ([]RecipeSummary, error)
}

// PlaybackFetcher returns a self-contained copy of a recipe for playback.
type PlaybackFetcher interface {
	FetchForPlayback(ctx context.Context, id string) (*PlaybackRecipe, error)
}

// Notifier delivers messages to the user. Implementations can write to
// stdout or into a terminal UI.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// CommandParser converts raw console input into structured commands.
type CommandParser interface {
	Parse(ctx context.Context, input string) (*Command, error)
}
