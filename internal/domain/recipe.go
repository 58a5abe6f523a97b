package domain

import "time"

// RecipeInfo is the basic-info slice of a recipe. Price is nil when absent;
// a private recipe never carries a price.
type RecipeInfo struct {
	Title       string
	Description string
	Category    string
	Visible     bool
	Price       *float64
}

// Submission is what the wizard hands to the recipe store. Step ids are
// authoring-only and are ignored by the store.
type Submission struct {
	Info  RecipeInfo
	Steps []Step
	Image []byte
}

// Recipe is a stored, finalized recipe.
type Recipe struct {
	ID        string
	Owner     string
	Info      RecipeInfo
	Steps     []Step
	HasImage  bool
	CreatedAt time.Time
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID        string
	Title     string
	Category  string
	Visible   bool
	Price     *float64
	Owner     string
	StepCount int
}

// PlaybackRecipe is a finalized recipe fetched for playback. Every
// AddIngredient step has Resolved populated.
type PlaybackRecipe struct {
	ID    string
	Title string
	Steps []Step
}
