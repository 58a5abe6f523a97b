// Package validate holds the pure completeness rules for steps, wizard
// stages and submissions. Nothing here has side effects.
package validate

import (
	"fmt"
	"math"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

const (
	minLevel = 1
	maxLevel = 5
)

// Lookup resolves ingredient ids against the currently known catalog.
type Lookup interface {
	Has(id int) bool
}

// Step checks a step against the rules of its variant. It returns nil or
// a *domain.ValidationError listing every broken rule.
func Step(s domain.Step, catalog Lookup) error {
	return domain.NewValidationError("step", stepReasons(s, catalog))
}

func stepReasons(s domain.Step, catalog Lookup) []string {
	var reasons []string
	if strings.TrimSpace(s.Title) == "" {
		reasons = append(reasons, "title is required")
	}

	switch v := s.Variant.(type) {
	case domain.AddIngredient:
		if v.IngredientID < 0 {
			reasons = append(reasons, "ingredient id must not be negative")
		} else if catalog == nil || !catalog.Has(v.IngredientID) {
			reasons = append(reasons, fmt.Sprintf("ingredient %d is not in the catalog", v.IngredientID))
		}
		if !(v.Amount > 0) || math.IsInf(v.Amount, 0) {
			reasons = append(reasons, "amount must be a positive number")
		}
	case domain.Cooking:
		if _, err := domain.ParseClock(v.Duration); err != nil {
			reasons = append(reasons, "duration: "+err.Error())
		}
		if v.TemperatureLevel < minLevel || v.TemperatureLevel > maxLevel {
			reasons = append(reasons, fmt.Sprintf("temperature level %d outside %d..%d", v.TemperatureLevel, minLevel, maxLevel))
		}
		if v.MixSpeedLevel < minLevel || v.MixSpeedLevel > maxLevel {
			reasons = append(reasons, fmt.Sprintf("mix speed level %d outside %d..%d", v.MixSpeedLevel, minLevel, maxLevel))
		}
	case domain.Description:
		if strings.TrimSpace(v.Text) == "" {
			reasons = append(reasons, "text is required")
		}
	case nil:
		reasons = append(reasons, "step kind is required")
	default:
		reasons = append(reasons, fmt.Sprintf("unsupported step variant %T", v))
	}
	return reasons
}

// Info checks the basic-info stage.
func Info(info domain.RecipeInfo) error {
	var reasons []string
	if strings.TrimSpace(info.Title) == "" {
		reasons = append(reasons, "title is required")
	}
	if strings.TrimSpace(info.Description) == "" {
		reasons = append(reasons, "description is required")
	}
	if strings.TrimSpace(info.Category) == "" {
		reasons = append(reasons, "category is required")
	}
	switch {
	case info.Visible && info.Price == nil:
		reasons = append(reasons, "public recipes need a price")
	case info.Visible && (*info.Price < 0 || math.IsNaN(*info.Price) || math.IsInf(*info.Price, 0)):
		reasons = append(reasons, "price must be a non-negative number")
	case !info.Visible && info.Price != nil:
		reasons = append(reasons, "private recipes cannot have a price")
	}
	return domain.NewValidationError("recipe info", reasons)
}

// NewIngredients checks user-authored ingredients before they are persisted.
func NewIngredients(items []domain.NewIngredient) error {
	var reasons []string
	for i, it := range items {
		if strings.TrimSpace(it.Title) == "" {
			reasons = append(reasons, fmt.Sprintf("ingredient %d: title is required", i+1))
		}
		if strings.TrimSpace(it.Unit) == "" {
			reasons = append(reasons, fmt.Sprintf("ingredient %d: unit is required", i+1))
		}
		if strings.TrimSpace(it.Category) == "" {
			reasons = append(reasons, fmt.Sprintf("ingredient %d: category is required", i+1))
		}
	}
	return domain.NewValidationError("ingredients", reasons)
}

// Submission re-asserts everything a finished recipe must satisfy.
func Submission(sub domain.Submission, catalog Lookup) error {
	var reasons []string
	if err := Info(sub.Info); err != nil {
		reasons = append(reasons, err.(*domain.ValidationError).Reasons...)
	}
	if len(sub.Steps) == 0 {
		reasons = append(reasons, "at least one step is required")
	}
	for i, s := range sub.Steps {
		for _, r := range stepReasons(s, catalog) {
			reasons = append(reasons, fmt.Sprintf("step %d: %s", i+1, r))
		}
	}
	return domain.NewValidationError("recipe", reasons)
}
