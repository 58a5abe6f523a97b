package conversation

import (
	"context"
	"strings"
	"testing"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/storage"
	"github.com/hammamikhairi/recipebox/internal/wizard"
)

type recordOutput struct {
	info, steps, lines, hints, urgent []string
}

func (r *recordOutput) PrintInfo(s string)        { r.info = append(r.info, s) }
func (r *recordOutput) PrintStep(s string)        { r.steps = append(r.steps, s) }
func (r *recordOutput) PrintInstruction(s string) { r.lines = append(r.lines, s) }
func (r *recordOutput) PrintHint(s string)        { r.hints = append(r.hints, s) }
func (r *recordOutput) PrintUrgent(s string)      { r.urgent = append(r.urgent, s) }

func (r *recordOutput) reset() { *r = recordOutput{} }

func setupAuthor(t *testing.T) (*Author, *recordOutput, *storage.MemoryStore) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	if err := store.SeedPublic(context.Background(), []domain.NewIngredient{
		{Title: "flour", Unit: "g", Category: "baking"},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	b := wizard.New(store, store, domain.Identity{UserID: "chef"}, log)
	out := &recordOutput{}
	a := NewAuthor(b, NewKeywordParser(log), out, log)
	a.Start(context.Background())
	return a, out, store
}

func run(t *testing.T, a *Author, lines ...string) bool {
	t.Helper()
	done := false
	for _, l := range lines {
		done = a.Handle(context.Background(), l)
	}
	return done
}

func TestAuthorFullSession(t *testing.T) {
	a, out, store := setupAuthor(t)
	ctx := context.Background()

	run(t, a,
		"title Flatbread",
		"desc Soft pan bread",
		"category bread",
		"public",
		"price 2",
		"next",
		"ingredient sesame, g, seeds",
		"next",
		"add 200 flour",
		"add 5 sesame | Sprinkle",
		"cook 02:00 3 2 | Knead",
		"text Serve warm",
		"move 4 1",
	)
	if len(out.urgent) != 0 {
		t.Fatalf("unexpected errors: %q", out.urgent)
	}
	if len(out.steps) < 4 || !strings.HasPrefix(out.steps[len(out.steps)-4], "1. Note: Serve warm") {
		t.Fatalf("expected reordered listing, got %q", out.steps)
	}

	if done := run(t, a, "submit"); !done {
		t.Fatal("submit should end the session")
	}
	list, err := store.ListRecipes(ctx, domain.Anonymous)
	if err != nil || len(list) != 1 || list[0].StepCount != 4 {
		t.Fatalf("expected one stored 4-step recipe, got %+v err=%v", list, err)
	}
}

func TestAuthorStageGuards(t *testing.T) {
	a, out, _ := setupAuthor(t)

	out.reset()
	run(t, a, "add 200 flour")
	if len(out.hints) != 1 || !strings.Contains(out.hints[0], "steps stage") {
		t.Fatalf("expected a stage hint, got %q", out.hints)
	}

	out.reset()
	run(t, a, "next")
	if len(out.urgent) != 1 || !strings.Contains(out.urgent[0], "title is required") {
		t.Fatalf("expected blocked info stage, got %q", out.urgent)
	}

	out.reset()
	run(t, a, "back")
	if len(out.hints) != 1 {
		t.Fatalf("expected already-first hint, got %q", out.hints)
	}
}

func TestAuthorPriceCoupling(t *testing.T) {
	a, out, _ := setupAuthor(t)

	out.reset()
	run(t, a, "price 3")
	if len(out.urgent) != 1 {
		t.Fatalf("price on a private recipe should be refused, got %q", out.urgent)
	}

	out.reset()
	run(t, a, "public", "price 3", "private")
	if len(out.urgent) != 0 {
		t.Fatalf("unexpected errors: %q", out.urgent)
	}
	if len(out.hints) != 2 {
		t.Fatalf("expected price-needed and price-cleared hints, got %q", out.hints)
	}
}

func TestAuthorStepErrors(t *testing.T) {
	a, out, _ := setupAuthor(t)
	run(t, a, "title T", "desc D", "category C", "next", "next")

	tests := []struct {
		input string
	}{
		{"add 200 sugar"},
		{"add lots flour"},
		{"add 200 #99"},
		{"cook 2:60 3 2"},
		{"cook 02:00 9 2"},
		{"move 3 1"},
		{"submit"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			out.reset()
			if done := a.Handle(context.Background(), tt.input); done {
				t.Fatal("session should not end on an error")
			}
			if len(out.urgent) != 1 {
				t.Fatalf("expected one error for %q, got %q", tt.input, out.urgent)
			}
		})
	}
}

func TestAuthorQuit(t *testing.T) {
	a, _, _ := setupAuthor(t)
	if !run(t, a, "quit") {
		t.Fatal("quit should end the session")
	}
}

type fixedParser struct {
	domain.CommandParser
	line string
	cmd  *domain.Command
}

func (p fixedParser) Parse(ctx context.Context, input string) (*domain.Command, error) {
	if input == p.line {
		return p.cmd, nil
	}
	return p.CommandParser.Parse(ctx, input)
}

func TestAuthorNewIngredientLeavesArgsAlone(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewMemoryStore(log)
	b := wizard.New(store, store, domain.Identity{UserID: "chef"}, log)

	backing := []string{"saffron", "keep", "keep", "keep"}
	parser := fixedParser{
		CommandParser: NewKeywordParser(log),
		line:          "new saffron",
		cmd:           &domain.Command{Type: domain.CmdNewIngredient, Args: backing[:1]},
	}
	out := &recordOutput{}
	a := NewAuthor(b, parser, out, log)
	a.Start(context.Background())

	run(t, a, "title Paella", "desc Rice", "category mains", "next", "new saffron")
	if len(out.urgent) != 0 {
		t.Fatalf("unexpected errors: %q", out.urgent)
	}
	if got := b.PendingIngredients(); len(got) != 1 || got[0].Title != "saffron" || got[0].Unit != "" {
		t.Fatalf("expected one bare saffron queued, got %+v", got)
	}
	for i, s := range backing[1:] {
		if s != "keep" {
			t.Fatalf("args backing array overwritten at %d: %q", i+1, backing)
		}
	}
}
