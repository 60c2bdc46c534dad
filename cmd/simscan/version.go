package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simscan-dev/simscan/internal/version"
)

// NewVersionCmd creates and returns the version cobra command
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Print the simscan version together with the build commit, build
date, Go version, and platform. Use --short for the bare version number.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")

	return cmd
}
