// Package recipe loads recipes written as YAML documents and imports them
// through the authoring wizard.
package recipe

import (
	"fmt"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// Seed is the bundled starter data: a public ingredient catalog and a few
// demo recipes.
type Seed struct {
	Owner       string          `yaml:"owner"`
	Ingredients []IngredientDoc `yaml:"ingredients"`
	Recipes     []Doc           `yaml:"recipes"`
}

// IngredientDoc is an ingredient as written in YAML.
type IngredientDoc struct {
	Title    string `yaml:"title"`
	Unit     string `yaml:"unit"`
	Category string `yaml:"category"`
}

func (d IngredientDoc) toNew() domain.NewIngredient {
	return domain.NewIngredient{
		Title:    strings.TrimSpace(d.Title),
		Unit:     strings.TrimSpace(d.Unit),
		Category: strings.TrimSpace(d.Category),
	}
}

// Doc is one recipe as written in YAML. Ingredients lists private
// ingredients to create before the steps are added; steps refer to
// ingredients by title.
type Doc struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Category    string          `yaml:"category"`
	Visible     bool            `yaml:"visible"`
	Price       *float64        `yaml:"price"`
	Ingredients []IngredientDoc `yaml:"ingredients"`
	Steps       []StepDoc       `yaml:"steps"`

	Source string `yaml:"-"`
}

// StepDoc is a step as written in YAML. Exactly one of AddIngredient,
// Cooking and Text must be set.
type StepDoc struct {
	Title         string      `yaml:"title"`
	AddIngredient *AddDoc     `yaml:"add_ingredient"`
	Cooking       *CookingDoc `yaml:"cooking"`
	Text          string      `yaml:"text"`
}

// AddDoc names an ingredient by title.
type AddDoc struct {
	Ingredient string  `yaml:"ingredient"`
	Amount     float64 `yaml:"amount"`
}

// CookingDoc holds the timed-step fields.
type CookingDoc struct {
	Duration    string `yaml:"duration"`
	Temperature int    `yaml:"temperature"`
	MixSpeed    int    `yaml:"mix_speed"`
}

// Variant converts the step into its domain form, resolving ingredient
// titles against catalog.
func (s StepDoc) Variant(catalog *domain.Catalog) (domain.Variant, error) {
	set := 0
	if s.AddIngredient != nil {
		set++
	}
	if s.Cooking != nil {
		set++
	}
	if strings.TrimSpace(s.Text) != "" {
		set++
	}
	if set != 1 {
		return nil, fmt.Errorf("step %q: exactly one of add_ingredient, cooking or text is required", s.Title)
	}

	switch {
	case s.AddIngredient != nil:
		ing, ok := catalog.FindByTitle(s.AddIngredient.Ingredient)
		if !ok {
			return nil, fmt.Errorf("step %q: ingredient %q: %w", s.Title, s.AddIngredient.Ingredient, domain.ErrNotFound)
		}
		return domain.AddIngredient{IngredientID: ing.ID, Amount: s.AddIngredient.Amount}, nil
	case s.Cooking != nil:
		return domain.Cooking{
			Duration:         strings.TrimSpace(s.Cooking.Duration),
			TemperatureLevel: s.Cooking.Temperature,
			MixSpeedLevel:    s.Cooking.MixSpeed,
		}, nil
	default:
		return domain.Description{Text: strings.TrimSpace(s.Text)}, nil
	}
}
