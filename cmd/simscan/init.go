package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simscan-dev/simscan/internal/config"
)

// NewInitCmd creates and returns the init cobra command
func NewInitCmd() *cobra.Command {
	var (
		force      bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize simscan configuration file",
		Long: `Write a .simscan.toml with the default settings and a comment for
each one.

Examples:
  # Create .simscan.toml in the current directory
  simscan init

  # Create config file with custom name
  simscan init --config myconfig.toml

  # Overwrite an existing configuration file
  simscan init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeDefaultConfig(cmd, configPath, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&configPath, "config", "c", ".simscan.toml", "Configuration file path")

	return cmd
}

func writeDefaultConfig(cmd *cobra.Command, path string, force bool) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if _, err := os.Stat(abs); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s\nUse --force to overwrite", abs)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", filepath.Dir(abs), err)
	}

	if err := os.WriteFile(abs, []byte(config.DefaultConfigTOML), 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	rel, err := filepath.Rel(".", abs)
	if err != nil {
		rel = abs
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Configuration file created: %s\n", rel)
	fmt.Fprintf(out, "\nNext steps:\n")
	fmt.Fprintf(out, "  1. Edit %s\n", rel)
	fmt.Fprintf(out, "  2. Run 'simscan scan --facts facts.json' to use it\n")

	return nil
}
