package main

import (
	"errors"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bundletrim",
	Short: "Remove unused CSS rules from bundler output",
	Long: `Harvest class and id usage from the modules of a bundle snapshot and
remove the CSS rules nothing references, both from plain stylesheets and from
style modules embedded in script assets.`,
	// Default behavior: run rewrite when no subcommand is given.
	// We must call loadConfig here because PreRunE of rewriteCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runRewrite(cmd, nil)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".bundletrim.yaml", "Config file path")

	rootCmd.AddCommand(rewriteCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// errFailedAssets is returned in strict mode when an asset was left unmodified.
var errFailedAssets = errors.New("some assets could not be rewritten")

func exitCode(err error) int {
	if errors.Is(err, errFailedAssets) {
		return 1
	}
	return 2
}
