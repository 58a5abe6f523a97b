package conversation

import (
	"context"
	"reflect"
	"testing"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

func TestKeywordParser(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	parser := NewKeywordParser(log)
	ctx := context.Background()

	tests := []struct {
		input    string
		wantType domain.CommandType
		wantArgs []string
		wantText string
	}{
		// Navigation
		{"next", domain.CmdNext, nil, ""},
		{"N", domain.CmdNext, nil, ""},
		{"back", domain.CmdBack, nil, ""},
		{"show", domain.CmdShow, nil, ""},
		{"?", domain.CmdHelp, nil, ""},
		{"submit", domain.CmdSubmit, nil, ""},
		{"q", domain.CmdQuit, nil, ""},

		// Info
		{"title Grandma's Pancakes", domain.CmdSetTitle, nil, "Grandma's Pancakes"},
		{"desc  Fluffy and light ", domain.CmdSetDescription, nil, "Fluffy and light"},
		{"category breakfast", domain.CmdSetCategory, nil, "breakfast"},
		{"public", domain.CmdSetPublic, nil, ""},
		{"private", domain.CmdSetPrivate, nil, ""},
		{"price 4.50", domain.CmdSetPrice, []string{"4.50"}, ""},

		// Ingredients
		{"ingredient saffron, g, spices", domain.CmdNewIngredient, []string{"saffron", "g", "spices"}, ""},
		{"ing vanilla,ml", domain.CmdNewIngredient, []string{"vanilla", "ml"}, ""},
		{"drop 2", domain.CmdDropIngredient, []string{"2"}, ""},
		{"delete 17", domain.CmdDeleteIngredient, []string{"17"}, ""},
		{"catalog", domain.CmdCatalog, nil, ""},

		// Steps
		{"add 200 flour", domain.CmdAddIngredientStep, []string{"200", "flour"}, ""},
		{"add 2 black pepper | Season", domain.CmdAddIngredientStep, []string{"2", "black pepper"}, "Season"},
		{"cook 02:00 3 2 | Knead", domain.CmdAddCookingStep, []string{"02:00", "3", "2"}, "Knead"},
		{"text Serve warm", domain.CmdAddTextStep, []string{"Serve warm"}, ""},
		{"rm 3", domain.CmdRemoveStep, []string{"3"}, ""},
		{"move 3 1", domain.CmdMoveStep, []string{"3", "1"}, ""},

		// Unknown
		{"make it spicier", domain.CmdUnknown, nil, "make it spicier"},
		{"cook 02:00", domain.CmdUnknown, nil, "cook 02:00"},
		{"", domain.CmdUnknown, nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := parser.Parse(ctx, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Type != tt.wantType {
				t.Fatalf("Parse(%q) = %s, want %s", tt.input, cmd.Type, tt.wantType)
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Fatalf("Parse(%q) args = %q, want %q", tt.input, cmd.Args, tt.wantArgs)
			}
			if cmd.Text != tt.wantText {
				t.Fatalf("Parse(%q) text = %q, want %q", tt.input, cmd.Text, tt.wantText)
			}
		})
	}
}
