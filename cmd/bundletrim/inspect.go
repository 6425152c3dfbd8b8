package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/bundletrim"
	"github.com/yacobolo/bundletrim/internal/report"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [snapshot]",
	Short: "List the style modules of a bundle snapshot",
	Long: `Parse every style module of a bundle snapshot without trimming it and
report its stylesheet size, the expressions kept out of the stylesheet and the
modules that cannot be rewritten.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := bundletrim.LoadSnapshot(snapshotPath(args))
		if err != nil {
			return err
		}

		useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
		report.NewReporter(cmd.OutOrStdout(), useColors).PrintInspection(bundletrim.Inspect(snapshot))
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("snapshot", "bundle.json", "Snapshot file to read")
}
