package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand(cc *commandContext) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "recipebox",
		Short:         "Author recipes and cook along with them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cc.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cc.configFlag, "config", "c", "", "Configuration file path")
	flags.BoolVarP(&cc.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&cc.quiet, "quiet", "q", false, "Disable logging")
	flags.StringVar(&cc.envFile, "env-file", ".env", "Dotenv file read for RECIPEBOX_* overrides")

	rootCmd.AddCommand(newAuthorCommand(cc))
	rootCmd.AddCommand(newPlayCommand(cc))
	rootCmd.AddCommand(newRecipesCommand(cc))
	rootCmd.AddCommand(newIngredientsCommand(cc))
	rootCmd.AddCommand(newImportCommand(cc))
	rootCmd.AddCommand(newConfigCommand(cc))

	return rootCmd
}
