package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simscan-dev/simscan/app"
	"github.com/simscan-dev/simscan/service"
)

// ScanCommand runs clone detection and the consolidation pass in one sweep
type ScanCommand struct {
	factsFile  string
	configFile string
}

// NewScanCommand creates a new combined scan command
func NewScanCommand() *ScanCommand {
	return &ScanCommand{}
}

// CreateCobraCommand creates the Cobra command for the combined scan
func (s *ScanCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Run clone detection and consolidation together",
		Long: `Run both analyses over the same corpus: fragment-level clone
detection and whole-file consolidation. The analyses are independent
and run in parallel; both reports are printed when they finish.

Examples:
  # Full sweep over a facts document
  simscan scan --facts facts.json

  # Sweep a tree directly
  simscan scan ./src`,
		RunE: s.runScan,
	}

	cmd.Flags().StringVar(&s.factsFile, "facts", s.factsFile,
		"Path to the facts document (JSON) produced by an external parser")
	cmd.Flags().StringVarP(&s.configFile, "config", "c", s.configFile,
		"Path to configuration file")

	return cmd
}

// runScan executes both analyses
func (s *ScanCommand) runScan(cmd *cobra.Command, args []string) error {
	configLoader := service.NewConfigLoader()
	cfg, err := configLoader.Load(s.configFile)
	if err != nil {
		return err
	}

	cloneReq := configLoader.ToCloneRequest(cfg)
	cloneReq.FactsPath = s.factsFile
	cloneReq.Paths = args
	cloneReq.ConfigPath = s.configFile

	consolidationReq := configLoader.ToConsolidationRequest(cfg)
	consolidationReq.FactsPath = s.factsFile
	consolidationReq.Paths = args
	consolidationReq.ConfigPath = s.configFile

	fileReader := service.NewFileReader()

	cloneUseCase, err := app.NewCloneUseCaseBuilder().
		WithService(service.NewCloneService(fileReader, nil)).
		WithFormatter(service.NewCloneFormatter()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create clone use case: %w", err)
	}

	consolidateUseCase, err := app.NewConsolidateUseCaseBuilder().
		WithService(service.NewConsolidationService(fileReader, nil)).
		WithFormatter(service.NewConsolidationFormatter()).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create consolidation use case: %w", err)
	}

	scan := app.NewScanUseCase(cloneUseCase, consolidateUseCase, service.NewParallelExecutor())
	if err := scan.Execute(context.Background(), *cloneReq, *consolidationReq, os.Stdout); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return nil
}

// NewScanCmd creates and returns the scan cobra command
func NewScanCmd() *cobra.Command {
	return NewScanCommand().CreateCobraCommand()
}
