package conversation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
	"github.com/hammamikhairi/recipebox/internal/present"
	"github.com/hammamikhairi/recipebox/internal/wizard"
)

// Output is where the authoring console writes. display.UI implements it.
type Output interface {
	PrintInfo(text string)
	PrintStep(text string)
	PrintInstruction(text string)
	PrintHint(text string)
	PrintUrgent(text string)
}

// commandStage lists the commands that only make sense at one stage.
var commandStage = map[domain.CommandType]wizard.Stage{
	domain.CmdSetTitle:          wizard.StageInfo,
	domain.CmdSetDescription:    wizard.StageInfo,
	domain.CmdSetCategory:       wizard.StageInfo,
	domain.CmdSetPublic:         wizard.StageInfo,
	domain.CmdSetPrivate:        wizard.StageInfo,
	domain.CmdSetPrice:          wizard.StageInfo,
	domain.CmdNewIngredient:     wizard.StageIngredients,
	domain.CmdDropIngredient:    wizard.StageIngredients,
	domain.CmdDeleteIngredient:  wizard.StageIngredients,
	domain.CmdAddIngredientStep: wizard.StageSteps,
	domain.CmdAddCookingStep:    wizard.StageSteps,
	domain.CmdAddTextStep:       wizard.StageSteps,
	domain.CmdRemoveStep:        wizard.StageSteps,
	domain.CmdMoveStep:          wizard.StageSteps,
	domain.CmdSubmit:            wizard.StageSteps,
}

var stageHelp = map[wizard.Stage][]string{
	wizard.StageInfo: {
		"title <text>, desc <text>, category <text>",
		"public | private, price <amount> (public only)",
	},
	wizard.StageIngredients: {
		"ingredient <title>, <unit>, <category>   queue a new ingredient",
		"drop <n>   unqueue   ·   delete <id>   delete one of yours   ·   catalog",
	},
	wizard.StageSteps: {
		"add <amount> <ingredient>  [| title]",
		"cook <MM:SS> <temp 1-5> <speed 1-5>  [| title]",
		"text <instruction>  [| title]",
		"rm <n>   ·   move <n> <to>   ·   catalog   ·   submit",
	},
}

// Author runs the console side of the wizard: each input line becomes one
// command applied to the builder.
type Author struct {
	b      *wizard.Builder
	parser domain.CommandParser
	out    Output
	log    *logger.Logger
}

// NewAuthor wires a builder to a parser and an output.
func NewAuthor(b *wizard.Builder, parser domain.CommandParser, out Output, log *logger.Logger) *Author {
	return &Author{b: b, parser: parser, out: out, log: log}
}

// Start greets the user and loads the catalog.
func (a *Author) Start(ctx context.Context) {
	a.out.PrintInfo(present.LineWelcome(a.b.Identity().UserID))
	if err := a.b.Load(ctx); err != nil {
		a.report(err)
	}
	a.intro()
}

// Handle applies one input line. It reports true when the session is over,
// either submitted or quit.
func (a *Author) Handle(ctx context.Context, line string) bool {
	cmd, err := a.parser.Parse(ctx, line)
	if err != nil {
		a.report(err)
		return false
	}
	a.log.Debug("author: %s %q %q", cmd.Type, cmd.Args, cmd.Text)

	if want, ok := commandStage[cmd.Type]; ok && a.b.Stage() != want {
		a.out.PrintHint(fmt.Sprintf("'%s' works at the %s stage; you are at %s.", cmd.Type, want, a.b.Stage()))
		return false
	}

	switch cmd.Type {
	case domain.CmdQuit:
		a.out.PrintInfo(present.LineBye())
		return true
	case domain.CmdHelp:
		a.help()
	case domain.CmdShow:
		a.show()
	case domain.CmdCatalog:
		a.catalog()
	case domain.CmdNext:
		return a.next(ctx)
	case domain.CmdBack:
		if !a.b.Back() {
			a.out.PrintHint(present.LineAlreadyFirst())
			return false
		}
		a.intro()

	case domain.CmdSetTitle:
		a.b.SetTitle(cmd.Text)
	case domain.CmdSetDescription:
		a.b.SetDescription(cmd.Text)
	case domain.CmdSetCategory:
		a.b.SetCategory(cmd.Text)
	case domain.CmdSetPublic:
		a.b.SetVisible(true)
		if a.b.Info().Price == nil {
			a.out.PrintHint("Public recipes need a price: price <amount>.")
		}
	case domain.CmdSetPrivate:
		hadPrice := a.b.Info().Price != nil
		a.b.SetVisible(false)
		if hadPrice {
			a.out.PrintHint(present.LinePriceCleared())
		}
	case domain.CmdSetPrice:
		price, err := strconv.ParseFloat(cmd.Args[0], 64)
		if err != nil {
			a.out.PrintUrgent(fmt.Sprintf("%q is not a number.", cmd.Args[0]))
			return false
		}
		a.report(a.b.SetPrice(price))

	case domain.CmdNewIngredient:
		args := make([]string, 3)
		copy(args, cmd.Args)
		n := a.b.AddIngredient(domain.NewIngredient{Title: args[0], Unit: args[1], Category: args[2]})
		a.out.PrintInfo(fmt.Sprintf("Queued ingredient %d: %s.", n+1, args[0]))
	case domain.CmdDropIngredient:
		n, _ := strconv.Atoi(cmd.Args[0])
		if !a.b.RemoveIngredient(n - 1) {
			a.out.PrintHint(fmt.Sprintf("No queued ingredient %d.", n))
		}
	case domain.CmdDeleteIngredient:
		id, _ := strconv.Atoi(cmd.Args[0])
		if err := a.b.DeleteOwnIngredient(ctx, id); err != nil {
			a.report(err)
			return false
		}
		a.out.PrintInfo(fmt.Sprintf("Deleted ingredient #%d.", id))

	case domain.CmdAddIngredientStep:
		a.addIngredientStep(cmd)
	case domain.CmdAddCookingStep:
		a.addCookingStep(cmd)
	case domain.CmdAddTextStep:
		a.appendStep(titleOr(cmd.Text, "Note"), domain.Description{Text: cmd.Args[0]})
	case domain.CmdRemoveStep:
		n, _ := strconv.Atoi(cmd.Args[0])
		removed, err := a.b.RemoveStep(a.stepID(n))
		if err != nil {
			a.report(err)
		} else if !removed {
			a.out.PrintHint(fmt.Sprintf("No step %d.", n))
		}
	case domain.CmdMoveStep:
		from, _ := strconv.Atoi(cmd.Args[0])
		to, _ := strconv.Atoi(cmd.Args[1])
		if err := a.b.ReorderStep(a.stepID(from), to-1); err != nil {
			a.report(err)
			return false
		}
		a.show()
	case domain.CmdSubmit:
		return a.next(ctx)

	default:
		a.out.PrintHint(present.LineUnknown(cmd.Text))
	}
	return false
}

func (a *Author) next(ctx context.Context) bool {
	if err := a.b.Next(ctx); err != nil {
		a.report(err)
		return false
	}
	if r, ok := a.b.Result(); ok {
		a.out.PrintInfo(present.LineSubmitted(r.Info.Title, r.ID))
		return true
	}
	a.intro()
	return false
}

func (a *Author) addIngredientStep(cmd *domain.Command) {
	amount, err := strconv.ParseFloat(cmd.Args[0], 64)
	if err != nil {
		a.out.PrintUrgent(fmt.Sprintf("%q is not an amount.", cmd.Args[0]))
		return
	}

	ref := cmd.Args[1]
	var ing domain.Ingredient
	if id, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		// Unknown ids go through so the validator reports them.
		ing = domain.Ingredient{ID: id, Title: fmt.Sprintf("#%d", id)}
		if known, ok := a.b.Catalog().Get(id); ok {
			ing = known
		}
	} else {
		known, ok := a.b.Catalog().FindByTitle(ref)
		if !ok {
			a.out.PrintUrgent(fmt.Sprintf("No ingredient called %q. Type 'catalog' to see what exists.", ref))
			return
		}
		ing = known
	}
	a.appendStep(titleOr(cmd.Text, "Add "+ing.Title), domain.AddIngredient{IngredientID: ing.ID, Amount: amount})
}

func (a *Author) addCookingStep(cmd *domain.Command) {
	temp, err1 := strconv.Atoi(cmd.Args[1])
	speed, err2 := strconv.Atoi(cmd.Args[2])
	if err1 != nil || err2 != nil {
		a.out.PrintUrgent("Temperature and speed are whole numbers from 1 to 5.")
		return
	}
	a.appendStep(titleOr(cmd.Text, "Cook"), domain.Cooking{Duration: cmd.Args[0], TemperatureLevel: temp, MixSpeedLevel: speed})
}

func (a *Author) appendStep(title string, v domain.Variant) {
	s, err := a.b.AppendStep(title, v)
	if err != nil {
		a.report(err)
		return
	}
	a.out.PrintStep(fmt.Sprintf("%d. %s", len(a.b.Steps()), present.StepSummary(s, a.b.Catalog())))
}

// stepID maps a 1-based position to a step id. Out-of-range positions
// map to an id that does not exist.
func (a *Author) stepID(n int) string {
	ids := a.b.StepIDs()
	if n < 1 || n > len(ids) {
		return fmt.Sprintf("#%d", n)
	}
	return ids[n-1]
}

func (a *Author) intro() {
	a.out.PrintInfo(present.LineStage(a.b.Stage().String()))
	for _, l := range stageHelp[a.b.Stage()] {
		a.out.PrintHint(l)
	}
}

func (a *Author) help() {
	for _, l := range stageHelp[a.b.Stage()] {
		a.out.PrintHint(l)
	}
	a.out.PrintHint("next · back · show · help · quit")
}

func (a *Author) show() {
	switch a.b.Stage() {
	case wizard.StageInfo:
		info := a.b.Info()
		visibility, price := "private", "-"
		if info.Visible {
			visibility = "public"
		}
		if info.Price != nil {
			price = strconv.FormatFloat(*info.Price, 'f', 2, 64)
		}
		a.out.PrintInstruction(fmt.Sprintf("title: %s", info.Title))
		a.out.PrintInstruction(fmt.Sprintf("description: %s", info.Description))
		a.out.PrintInstruction(fmt.Sprintf("category: %s", info.Category))
		a.out.PrintInstruction(fmt.Sprintf("%s, price %s", visibility, price))
	case wizard.StageIngredients:
		pending := a.b.PendingIngredients()
		if len(pending) == 0 {
			a.out.PrintHint("No new ingredients queued.")
		}
		for i, it := range pending {
			a.out.PrintInstruction(fmt.Sprintf("%d. %s (%s, %s)", i+1, it.Title, it.Unit, it.Category))
		}
	default:
		steps := a.b.Steps()
		if len(steps) == 0 {
			a.out.PrintHint("No steps yet.")
		}
		for i, s := range steps {
			a.out.PrintStep(fmt.Sprintf("%d. %s", i+1, present.StepSummary(s, a.b.Catalog())))
		}
	}
}

func (a *Author) catalog() {
	items := a.b.Catalog().All()
	if len(items) == 0 {
		a.out.PrintHint("The catalog is empty.")
		return
	}
	for _, it := range items {
		line := fmt.Sprintf("#%d %s (%s, %s)", it.ID, it.Title, it.Unit, it.Category)
		if it.Owner != "" {
			line += " · yours"
			if it.Deletable {
				line += ", deletable"
			}
		}
		a.out.PrintInstruction(line)
	}
}

// report turns an error into console output by kind.
func (a *Author) report(err error) {
	if err == nil {
		return
	}
	var (
		verr *domain.ValidationError
		cerr *domain.CollaboratorError
		rerr *domain.ReorderError
	)
	switch {
	case errors.As(err, &cerr):
		a.out.PrintUrgent(present.LineCollaboratorFailed(cerr.Op))
		a.out.PrintHint(cerr.Err.Error())
	case errors.As(err, &verr):
		a.out.PrintUrgent(present.LineBlocked(verr.Reasons))
	case errors.As(err, &rerr):
		a.out.PrintUrgent(fmt.Sprintf("Can't move that step: %v.", rerr.Err))
	default:
		a.out.PrintUrgent(err.Error())
	}
}

func titleOr(title, fallback string) string {
	if strings.TrimSpace(title) == "" {
		return fallback
	}
	return title
}
