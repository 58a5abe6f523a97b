package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipebox/internal/recipe"
)

func newImportCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <glob>",
		Short: "Import recipe YAML files, e.g. 'recipes/**/*.yaml'",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ident := cc.identity()
			if !ident.Authenticated() {
				return errors.New("importing needs a user: set user.id in the config or RECIPEBOX_USER")
			}

			docs, err := recipe.LoadGlob(args[0])
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return fmt.Errorf("no recipe files match %q", args[0])
			}

			s, err := cc.openStore(ctx)
			if err != nil {
				return err
			}
			log, err := cc.logger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var failed []error
			for _, doc := range docs {
				r, err := recipe.Import(ctx, s, ident, doc, log)
				if err != nil {
					log.Warn("import %s: %v", doc.Source, err)
					fmt.Fprintf(out, "✗ %s: %v\n", doc.Source, err)
					failed = append(failed, err)
					continue
				}
				fmt.Fprintf(out, "✓ %s → %s (%s)\n", doc.Source, r.Info.Title, r.ID)
			}
			if len(failed) > 0 {
				return fmt.Errorf("%d of %d files failed to import", len(failed), len(docs))
			}
			return nil
		},
	}
}
