// RecipeBox authors step-by-step recipes and plays them back with
// per-step cooking timers.
//
// Usage:
//
//	recipebox author
//	recipebox play <recipe-id> [--time-scale N]
//	recipebox recipes | ingredients
//	recipebox import <glob>
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cc := &commandContext{}
	err := newRootCommand(cc).ExecuteContext(ctx)
	if cerr := cc.close(); err == nil {
		err = cerr
	}
	stop()
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
