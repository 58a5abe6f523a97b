package storage

import (
	"fmt"

	"github.com/hammamikhairi/recipebox/internal/domain"
)

// normalizeInfo drops the price of a private recipe.
func normalizeInfo(info domain.RecipeInfo) domain.RecipeInfo {
	if !info.Visible {
		info.Price = nil
	} else if info.Price != nil {
		p := *info.Price
		info.Price = &p
	}
	return info
}

// storedSteps copies steps with store-owned ids in place of authoring ids.
func storedSteps(recipeID string, steps []domain.Step) []domain.Step {
	out := make([]domain.Step, len(steps))
	for i, st := range steps {
		if add, ok := st.Variant.(domain.AddIngredient); ok {
			add.Resolved = nil
			st.Variant = add
		}
		st.ID = stepID(recipeID, i)
		out[i] = st
	}
	return out
}

func stepID(recipeID string, i int) string {
	short := recipeID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s-%d", short, i+1)
}

func copyRecipe(r *domain.Recipe) *domain.Recipe {
	cp := *r
	cp.Info = normalizeInfo(r.Info)
	cp.Steps = append([]domain.Step(nil), r.Steps...)
	return &cp
}

func summarize(r *domain.Recipe) domain.RecipeSummary {
	return domain.RecipeSummary{
		ID:        r.ID,
		Title:     r.Info.Title,
		Category:  r.Info.Category,
		Visible:   r.Info.Visible,
		Price:     r.Info.Price,
		Owner:     r.Owner,
		StepCount: len(r.Steps),
	}
}
