package main

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/mdbook-replace/internal/config"
	"github.com/dgallion1/mdbook-replace/internal/pipeline"
)

var version = "dev"

// newRootCmd builds the command tree. Anything that is not "supports" runs
// the transform, including unknown arguments and flags.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "mdbook-replace",
		Short:   "mdBook preprocessor that applies literal find/replace rules to every chapter",
		Version: version,
		Args:    cobra.ArbitraryArgs,

		SilenceUsage:       true,
		SilenceErrors:      true,
		FParseErrWhitelist: cobra.FParseErrWhitelist{UnknownFlags: true},

		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := cfg.Logger(cmd.ErrOrStderr())
			return pipeline.NewRunner(log).Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.AddCommand(newSupportsCmd())
	return root
}

// newSupportsCmd answers mdBook's capability check. Every renderer is
// supported, so the renderer name is not looked at.
func newSupportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:                "supports <renderer>",
		Short:              "Report whether a renderer is supported (always yes)",
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		Run:                func(*cobra.Command, []string) {},
	}
}
