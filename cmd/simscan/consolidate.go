package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/simscan-dev/simscan/app"
	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/service"
)

// ConsolidateCommand handles the consolidation CLI command
type ConsolidateCommand struct {
	factsFile  string
	configFile string

	recursive       bool
	includePatterns []string
	excludePatterns []string

	contentWeight        float64
	structureWeight      float64
	dnaWeight            float64
	maxComparisons       int
	minAffinityThreshold float64

	json bool
	csv  bool
	yaml bool
}

// NewConsolidateCommand creates a new consolidation command
func NewConsolidateCommand() *ConsolidateCommand {
	defaults := domain.DefaultConsolidationRequest()
	return &ConsolidateCommand{
		recursive:            defaults.Recursive,
		contentWeight:        defaults.ContentWeight,
		structureWeight:      defaults.StructureWeight,
		dnaWeight:            defaults.DNAWeight,
		maxComparisons:       defaults.MaxComparisons,
		minAffinityThreshold: defaults.MinAffinityThreshold,
	}
}

// CreateCobraCommand creates the Cobra command for the consolidation pass
func (c *ConsolidateCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "consolidate [paths...]",
		Short: "Propose canonical masters for duplicated files",
		Long: `Group files sharing a base filename across directories, score their
pairwise affinity over content, structure, and data-flow DNA, and
propose the canonical master version of each group.

Works from a facts document (full structural facts) or plain paths
(content-only affinity with neutral structure and DNA scores).

Examples:
  # Consolidate with full structural facts
  simscan consolidate --facts facts.json

  # Scan a tree directly, no parser needed
  simscan consolidate ./src ./backup

  # Keep only strong groups
  simscan consolidate --min-affinity 0.7 ./src`,
		RunE: c.runConsolidation,
	}

	cmd.Flags().StringVar(&c.factsFile, "facts", c.factsFile,
		"Path to the facts document (JSON) produced by an external parser")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")

	cmd.Flags().BoolVarP(&c.recursive, "recursive", "r", c.recursive,
		"Recursively scan directories")
	cmd.Flags().StringSliceVar(&c.includePatterns, "include", nil,
		"File patterns to include")
	cmd.Flags().StringSliceVar(&c.excludePatterns, "exclude", nil,
		"File patterns to exclude")

	cmd.Flags().Float64Var(&c.contentWeight, "content-weight", c.contentWeight,
		"Weight of the content similarity axis")
	cmd.Flags().Float64Var(&c.structureWeight, "structure-weight", c.structureWeight,
		"Weight of the structure similarity axis")
	cmd.Flags().Float64Var(&c.dnaWeight, "dna-weight", c.dnaWeight,
		"Weight of the data-flow DNA axis")
	cmd.Flags().IntVar(&c.maxComparisons, "max-comparisons", c.maxComparisons,
		"Cap on pairwise comparisons per sibling group")
	cmd.Flags().Float64Var(&c.minAffinityThreshold, "min-affinity", c.minAffinityThreshold,
		"Minimum mean group affinity to report (0.0-1.0)")

	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")

	_ = cmd.Flags().MarkHidden("content-weight")
	_ = cmd.Flags().MarkHidden("structure-weight")
	_ = cmd.Flags().MarkHidden("dna-weight")
	_ = cmd.Flags().MarkHidden("max-comparisons")

	return cmd
}

// runConsolidation executes the consolidation command
func (c *ConsolidateCommand) runConsolidation(cmd *cobra.Command, args []string) error {
	request, err := c.createConsolidationRequest(cmd, args)
	if err != nil {
		return err
	}

	useCase, err := c.createConsolidateUseCase()
	if err != nil {
		return fmt.Errorf("failed to create consolidation use case: %w", err)
	}

	if err := useCase.Execute(context.Background(), *request); err != nil {
		return fmt.Errorf("consolidation failed: %w", err)
	}
	return nil
}

// createConsolidationRequest builds the request: config file values first,
// CLI flag overrides on top.
func (c *ConsolidateCommand) createConsolidationRequest(cmd *cobra.Command, paths []string) (*domain.ConsolidationRequest, error) {
	configLoader := service.NewConfigLoader()
	cfg, err := configLoader.Load(c.configFile)
	if err != nil {
		return nil, err
	}

	request := configLoader.ToConsolidationRequest(cfg)
	request.FactsPath = c.factsFile
	request.Paths = paths
	request.ConfigPath = c.configFile
	request.OutputWriter = os.Stdout
	request.IncludePatterns = c.includePatterns
	request.ExcludePatterns = c.excludePatterns

	explicit := ExplicitFlags(cmd)
	if explicit["recursive"] {
		request.Recursive = c.recursive
	}
	if explicit["content-weight"] {
		request.ContentWeight = c.contentWeight
	}
	if explicit["structure-weight"] {
		request.StructureWeight = c.structureWeight
	}
	if explicit["dna-weight"] {
		request.DNAWeight = c.dnaWeight
	}
	if explicit["max-comparisons"] {
		request.MaxComparisons = c.maxComparisons
	}
	if explicit["min-affinity"] {
		request.MinAffinityThreshold = c.minAffinityThreshold
	}

	format, err := service.NewOutputFormatResolver().Determine(c.json, c.csv, c.yaml)
	if err != nil {
		return nil, err
	}
	if format != domain.OutputFormatText {
		request.OutputFormat = format
	}

	return request, nil
}

// createConsolidateUseCase wires the consolidation use case with its dependencies
func (c *ConsolidateCommand) createConsolidateUseCase() (*app.ConsolidateUseCase, error) {
	fileReader := service.NewFileReader()
	consolidationService := service.NewConsolidationService(fileReader, service.NewProgressManager())

	return app.NewConsolidateUseCaseBuilder().
		WithService(consolidationService).
		WithFormatter(service.NewConsolidationFormatter()).
		Build()
}

// NewConsolidateCmd creates and returns the consolidate cobra command
func NewConsolidateCmd() *cobra.Command {
	return NewConsolidateCommand().CreateCobraCommand()
}
