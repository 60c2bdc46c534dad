package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/simscan-dev/simscan/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "simscan",
	Short: "Similarity and consolidation engine for duplicate code",
	Long: `simscan finds duplication at two granularities: code fragments and
whole files.

Given a facts document produced by an external parser, it detects
Type-1 (exact), Type-2 (renamed), and Type-3 (near-miss) clones between
function and class fragments, clusters them into groups, and ranks
deduplication opportunities. Across directories, it groups files that
share a base filename, scores their pairwise affinity over content,
structure, and data-flow DNA, and proposes a canonical master version
for each group.`,
	Version: version.Short(),
}

func init() {
	rootCmd.AddCommand(NewCloneCmd())
	rootCmd.AddCommand(NewConsolidateCmd())
	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
