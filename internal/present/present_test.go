package present

import (
	"testing"
	"time"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/timer"
)

func TestStepViewDispatch(t *testing.T) {
	flour := domain.Step{Title: "Flour", Variant: domain.AddIngredient{
		IngredientID: 1, Amount: 200, Resolved: &domain.IngredientRef{Title: "flour", Unit: "g"},
	}}
	v := Step(flour, 0, 3, timer.Snapshot{}, false)
	if len(v.Lines) != 1 || v.Lines[0] != "200 g flour" {
		t.Fatalf("unexpected ingredient lines: %q", v.Lines)
	}
	if v.HasTimer || !v.First || v.Last {
		t.Fatalf("unexpected flags: %+v", v)
	}

	cook := domain.Step{Title: "Knead", Variant: domain.Cooking{Duration: "02:00", TemperatureLevel: 3, MixSpeedLevel: 2}}
	snap := timer.Snapshot{Original: 2 * time.Minute, Remaining: 90 * time.Second}
	v = Step(cook, 1, 3, snap, true)
	if v.Lines[0] != "Temperature: 54°C" || v.Lines[1] != "Mix speed: 2 (slow)" {
		t.Fatalf("unexpected cooking lines: %q", v.Lines)
	}
	if !v.HasTimer || v.Timer != "01:30" || !v.CanReset || v.Status != domain.TimerPaused {
		t.Fatalf("unexpected timer view: %+v", v)
	}

	serve := domain.Step{Title: "Serve", Variant: domain.Description{Text: "Serve warm"}}
	v = Step(serve, 2, 3, timer.Snapshot{}, false)
	if len(v.Lines) != 1 || v.Lines[0] != "Serve warm" || !v.Last {
		t.Fatalf("unexpected description view: %+v", v)
	}
	if v.Header() != "Step 3/3 · Serve" {
		t.Fatalf("unexpected header %q", v.Header())
	}
}

func TestMappings(t *testing.T) {
	if TemperatureCelsius(5) != 90 {
		t.Fatalf("level 5 should map to 90, got %d", TemperatureCelsius(5))
	}
	if MixSpeedLabel(9) != "9" {
		t.Fatalf("out of range speed should print raw, got %q", MixSpeedLabel(9))
	}
	if FormatAmount(0.25) != "0.25" || FormatAmount(200) != "200" {
		t.Fatal("unexpected amount formatting")
	}
}
