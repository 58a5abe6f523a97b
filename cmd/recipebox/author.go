package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/wizard"
)

var wizardStages = []string{
	wizard.StageInfo.String(),
	wizard.StageIngredients.String(),
	wizard.StageSteps.String(),
}

func newAuthorCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "author",
		Short: "Write a new recipe in the console wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ident := cc.identity()
			if !ident.Authenticated() {
				return errors.New("authoring needs a user: set user.id in the config or RECIPEBOX_USER")
			}
			s, err := cc.openStore(ctx)
			if err != nil {
				return err
			}
			log, err := cc.logger()
			if err != nil {
				return err
			}

			b := wizard.New(s, s, ident, log)
			ui := display.NewUI(wizardStatus(b))
			author := conversation.NewAuthor(b, conversation.NewKeywordParser(log), ui, log)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, display.RenderBanner("Type 'help' for commands, 'quit' to exit."))
			fmt.Fprintln(out)

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			done := startWorker(ui, func() { runAuthor(ctx, author, b, ui) })

			runErr := ui.Run()
			cancel()
			<-done
			if runErr != nil {
				return fmt.Errorf("console: %w", runErr)
			}

			if r, ok := b.Result(); ok {
				fmt.Fprintf(out, "Saved %q. Cook it with: recipebox play %s\n", r.Info.Title, r.ID)
			}
			return nil
		},
	}
}

type console interface {
	ReadyChan() <-chan struct{}
	QuitChan() <-chan struct{}
	Quit()
}

// startWorker runs work once the console is up and quits the console after
// it. The returned channel is closed when the worker has exited, including
// when the console closed without ever starting.
func startWorker(ui console, work func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ui.ReadyChan():
		case <-ui.QuitChan():
			return
		}
		work()
		ui.Quit()
	}()
	return done
}

// runAuthor feeds console input to the author until the recipe is
// submitted, the user quits, or the console closes.
func runAuthor(ctx context.Context, a *conversation.Author, b *wizard.Builder, ui *display.UI) {
	a.Start(ctx)
	ui.SetStatus(wizardStatus(b))

	input := ui.InputChan()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ui.QuitChan():
			return
		case line := <-input:
			done := a.Handle(ctx, line)
			ui.SetStatus(wizardStatus(b))
			if done {
				return
			}
		}
	}
}

func wizardStatus(b *wizard.Builder) display.Status {
	return display.Status{
		Stage:   b.Stage().String(),
		Stages:  wizardStages,
		Title:   b.Info().Title,
		Steps:   len(b.StepIDs()),
		Pending: len(b.PendingIngredients()),
	}
}
