// Package present turns steps and timer state into display values. It is
// presentation only: nothing here feeds back into the step model.
package present

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/timer"
)

// celsiusPerLevel maps an ordinal temperature level to a displayed
// Celsius value. The factor carries no physical meaning beyond display.
const celsiusPerLevel = 18

// TemperatureCelsius returns the display temperature for a level.
func TemperatureCelsius(level int) int {
	return level * celsiusPerLevel
}

var speedLabels = [...]string{"", "very slow", "slow", "medium", "fast", "turbo"}

// MixSpeedLabel returns the display label for a mix speed level.
func MixSpeedLabel(level int) string {
	if level > 0 && level < len(speedLabels) {
		return fmt.Sprintf("%d (%s)", level, speedLabels[level])
	}
	return strconv.Itoa(level)
}

// FormatAmount prints an amount without trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StepView is what a player shows for the current step.
type StepView struct {
	Index    int // 0-based
	Total    int
	Kind     domain.StepKind
	Title    string
	Lines    []string
	HasTimer bool
	Timer    string
	Status   domain.TimerStatus
	CanReset bool
	First    bool
	Last     bool
}

// Header returns "Step 2/3 · Title".
func (v StepView) Header() string {
	return fmt.Sprintf("Step %d/%d · %s", v.Index+1, v.Total, v.Title)
}

// Step builds the view for a playback step. snap is only read when
// hasTimer is true.
func Step(s domain.Step, index, total int, snap timer.Snapshot, hasTimer bool) StepView {
	v := StepView{
		Index: index,
		Total: total,
		Kind:  s.Kind(),
		Title: s.Title,
		First: index == 0,
		Last:  index == total-1,
	}

	switch vr := s.Variant.(type) {
	case domain.AddIngredient:
		v.Lines = []string{IngredientLine(vr)}
	case domain.Cooking:
		v.Lines = []string{
			fmt.Sprintf("Temperature: %d°C", TemperatureCelsius(vr.TemperatureLevel)),
			"Mix speed: " + MixSpeedLabel(vr.MixSpeedLevel),
		}
	case domain.Description:
		v.Lines = []string{vr.Text}
	}

	if hasTimer {
		v.HasTimer = true
		v.Timer = domain.FormatClock(snap.Remaining)
		v.Status = snap.Status()
		v.CanReset = snap.CanReset()
	}
	return v
}

// IngredientLine renders "<amount> <unit> <title>" from the inline
// ingredient reference.
func IngredientLine(a domain.AddIngredient) string {
	if a.Resolved == nil {
		return fmt.Sprintf("%s of ingredient #%d", FormatAmount(a.Amount), a.IngredientID)
	}
	parts := []string{FormatAmount(a.Amount)}
	if a.Resolved.Unit != "" {
		parts = append(parts, a.Resolved.Unit)
	}
	parts = append(parts, a.Resolved.Title)
	return strings.Join(parts, " ")
}

// StepSummary is a one-line description of an authoring step, used by the
// console when listing the sequence.
func StepSummary(s domain.Step, catalog *domain.Catalog) string {
	switch v := s.Variant.(type) {
	case domain.AddIngredient:
		if ing, ok := catalog.Get(v.IngredientID); ok {
			v.Resolved = &domain.IngredientRef{Title: ing.Title, Unit: ing.Unit}
		}
		return fmt.Sprintf("%s: add %s", s.Title, IngredientLine(v))
	case domain.Cooking:
		return fmt.Sprintf("%s: cook %s at level %d, speed %d", s.Title, v.Duration, v.TemperatureLevel, v.MixSpeedLevel)
	case domain.Description:
		return fmt.Sprintf("%s: %s", s.Title, v.Text)
	default:
		return s.Title
	}
}
