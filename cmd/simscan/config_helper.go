package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ExplicitFlags returns the set of flags the user set on the command line.
// Config file values only apply for flags absent from this set.
func ExplicitFlags(cmd *cobra.Command) map[string]bool {
	explicit := make(map[string]bool)
	if cmd != nil {
		cmd.Flags().Visit(func(f *pflag.Flag) {
			explicit[f.Name] = true
		})
	}
	return explicit
}
