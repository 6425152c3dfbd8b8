// Package main provides the bundletrim CLI, which removes unused CSS rules
// from a bundler snapshot.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "bundletrim: %v\n", err)
		os.Exit(exitCode(err))
	}
}
