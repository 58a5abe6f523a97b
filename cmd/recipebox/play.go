package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/config"
	"github.com/hammamikhairi/recipebox/internal/conversation"
	"github.com/hammamikhairi/recipebox/internal/display"
	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/engine"
	"github.com/hammamikhairi/recipebox/internal/present"
	"github.com/hammamikhairi/recipebox/internal/timer"
)

func newPlayCommand(cc *commandContext) *cobra.Command {
	var timeScale float64
	var plain bool

	cmd := &cobra.Command{
		Use:   "play <recipe-id>",
		Short: "Cook along with a recipe, one step at a time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := cc.openStore(ctx)
			if err != nil {
				return err
			}
			log, err := cc.logger()
			if err != nil {
				return err
			}

			scale := cc.cfg.Playback.TimeScale
			if cmd.Flags().Changed("time-scale") {
				if !config.ValidTimeScale(timeScale) {
					return fmt.Errorf("--time-scale must be a positive number, got %v", timeScale)
				}
				scale = timeScale
			}

			out := cmd.OutOrStdout()
			plain = plain || !isTerminal(os.Stdin)

			var notifier domain.Notifier
			var player *display.Player
			opts := []engine.Option{engine.WithTimeScale(scale)}
			if plain {
				out = &syncWriter{w: out}
				notifier = conversation.NewCLINotifier(log, func(format string, a ...any) {
					fmt.Fprintf(out, format+"\n", a...)
				})
			} else {
				player = display.NewPlayer(log)
				notifier = player
				opts = append(opts, engine.WithOnChange(player.Refresh))
			}

			eng := engine.New(s, notifier, timer.NewRealScheduler(), log, opts...)
			session, err := eng.Open(ctx, args[0])
			if err != nil {
				if engine.IsNotFound(err) {
					return fmt.Errorf("no recipe %q; list them with: recipebox recipes", args[0])
				}
				return err
			}

			if plain {
				return playLines(ctx, session, cmd.InOrStdin(), out)
			}
			return player.Run(ctx, session, out)
		},
	}

	cmd.Flags().Float64Var(&timeScale, "time-scale", 1, "Countdown speed multiplier (overrides playback.time_scale)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Line-driven player; the default when stdin is not a terminal")
	return cmd
}

const plainHelp = "n next · p back · t start/pause · r reset · f finish"

// playLines drives a session from input lines, printing the step after
// every change. End of input finishes the session.
func playLines(ctx context.Context, s *engine.Session, in io.Reader, out io.Writer) error {
	defer s.Finish(ctx)

	fmt.Fprintln(out, plainHelp)
	printStep(out, s.View())

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "":
			continue
		case "n", "next":
			if !s.Advance() {
				fmt.Fprintln(out, "This is the last step; 'f' finishes.")
				continue
			}
		case "p", "b", "back":
			if !s.Retreat() {
				fmt.Fprintln(out, "Already at the first step.")
				continue
			}
		case "t", "s", "timer":
			_, err = s.ToggleTimer()
		case "r", "reset":
			err = s.ResetTimer()
		case "f", "q", "finish", "quit":
			return nil
		default:
			fmt.Fprintln(out, plainHelp)
			continue
		}
		if err != nil {
			fmt.Fprintf(out, "Can't do that here: %v.\n", err)
			continue
		}
		printStep(out, s.View())
	}
	return sc.Err()
}

func printStep(out io.Writer, v present.StepView) {
	var b strings.Builder
	b.WriteString("\n" + v.Header() + "\n")
	for _, l := range v.Lines {
		b.WriteString("  " + l + "\n")
	}
	if v.HasTimer {
		fmt.Fprintf(&b, "  timer %s (%s)\n", v.Timer, v.Status)
	}
	io.WriteString(out, b.String())
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// syncWriter serializes writes from the input loop and timer callbacks.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
