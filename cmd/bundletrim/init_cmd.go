package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .bundletrim.yaml config file",
	Long:  `Create a .bundletrim.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".bundletrim.yaml"); err == nil && !force {
			return fmt.Errorf(".bundletrim.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".bundletrim.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .bundletrim.yaml")
		return nil
	},
}

const defaultConfig = `# bundletrim configuration
# Docs: https://github.com/yacobolo/bundletrim

verbose: false

# Modules harvested for usage text. Plain entries match a substring of the
# module identifier, /entries/ are regular expressions. The bundler bootstrap
# and the style loader runtimes are always skipped.
whitelist: []
blacklist:
  - "/node_modules/"

# Usage text that is not part of the module graph
extra-sources:
  - glob: "templates/**/*.html"
    kind: markup

# Selectors kept even when unused
trim:
  whitelist:
    - "/^js-/"

source-map:
  enabled: false
  inline: false

rewrite:
  snapshot: bundle.json
  out: ""                # snapshot output, defaults to rewriting the input
  out-dir: ""            # also write every asset below this directory
  strict: false          # exit 1 when an asset could not be rewritten
  output-format: text    # text | summary | json
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
