package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yacobolo/bundletrim"
	"github.com/yacobolo/bundletrim/internal/report"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite [snapshot]",
	Short: "Remove unused CSS rules from a bundle snapshot",
	Long: `Read a bundle snapshot, harvest class and id usage from its modules and
remove unused rules from its stylesheets and embedded style modules. Assets that
cannot be rewritten are left exactly as they were.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runRewrite,
}

func init() {
	f := rewriteCmd.Flags()
	f.String("snapshot", "bundle.json", "Snapshot file to read")
	f.String("out", "", "Write the rewritten snapshot here (default: overwrite the input)")
	f.String("out-dir", "", "Also write every asset below this directory")
	f.StringSlice("whitelist", nil, "Only harvest modules matching these patterns")
	f.StringSlice("blacklist", nil, "Never harvest modules matching these patterns")
	f.StringSlice("trim-whitelist", nil, "Keep selectors matching these patterns")
	f.StringSlice("source", nil, "Glob of extra files to read as usage text")
	f.Bool("source-maps", false, "Produce source maps for rewritten stylesheets")
	f.Bool("inline-map", false, "Inline stylesheet source maps as a comment")
	f.Bool("strict", false, "Exit 1 when an asset could not be rewritten (CI mode)")
	f.String("output-format", "", "Output format: text|summary|json")
}

func runRewrite(cmd *cobra.Command, args []string) error {
	path := snapshotPath(args)
	config, err := buildConfig()
	if err != nil {
		return err
	}

	useColors := report.ShouldUseColors(getBoolWithFallback("color", "color", false))
	log := bundletrim.NewLogger(zapcore.AddSync(cmd.ErrOrStderr()), logLevel(), useColors)
	defer func() { _ = log.Sync() }()

	snapshot, err := bundletrim.LoadSnapshot(path)
	if err != nil {
		return err
	}

	processor, err := bundletrim.New(config, nil, log)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	result, err := processor.Process(snapshot)
	if err != nil {
		return fmt.Errorf("rewrite failed: %w", err)
	}

	if err := writeResults(snapshot, path, log); err != nil {
		return err
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	if !quiet {
		format := report.DetermineOutputFormat(getStringWithFallback("output-format", "rewrite.output-format", ""), quiet)
		if err := report.WriteOutput(cmd.OutOrStdout(), result, format, useColors); err != nil {
			return err
		}
	}

	strict := getBoolWithFallback("strict", "rewrite.strict", false)
	if strict && len(result.Failed()) > 0 {
		return fmt.Errorf("%w: %w", errFailedAssets, result.Err())
	}
	return nil
}

func snapshotPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return getStringWithFallback("snapshot", "rewrite.snapshot", "bundle.json")
}

// writeResults stores the processed snapshot and, when configured, the assets.
func writeResults(snapshot *bundletrim.Snapshot, input string, log *zap.Logger) error {
	out := getStringWithFallback("out", "rewrite.out", input)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := snapshot.Write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing snapshot %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", out, err)
	}
	log.Debug("Snapshot written", zap.String("path", out))

	if dir := getStringWithFallback("out-dir", "rewrite.out-dir", ""); dir != "" {
		if err := bundletrim.WriteAssets(dir, snapshot); err != nil {
			return err
		}
		log.Debug("Assets written", zap.String("dir", dir), zap.Int("assets", len(snapshot.Assets)))
	}
	return nil
}
