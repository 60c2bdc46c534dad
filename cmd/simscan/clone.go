package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simscan-dev/simscan/app"
	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/service"
)

// CloneCommand handles the clone detection CLI command
type CloneCommand struct {
	factsFile  string
	configFile string

	minLines            int
	minTokens           int
	similarityThreshold float64

	json bool
	csv  bool
	yaml bool

	showContent bool
	sortBy      string
}

// NewCloneCommand creates a new clone detection command
func NewCloneCommand() *CloneCommand {
	defaults := domain.DefaultCloneRequest()
	return &CloneCommand{
		minLines:            defaults.MinLines,
		minTokens:           defaults.MinTokens,
		similarityThreshold: defaults.SimilarityThreshold,
		sortBy:              string(defaults.SortBy),
	}
}

// CreateCobraCommand creates the Cobra command for clone detection
func (c *CloneCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone [paths...]",
		Short: "Detect duplicated code fragments",
		Long: `Detect Type-1 (exact), Type-2 (renamed), and Type-3 (near-miss)
clones between function and class fragments.

The usual input is a facts document: a JSON array of per-file records
emitted by an external parser, carrying the function and class spans the
fragments are cut from.

Examples:
  # Detect clones from a facts document
  simscan clone --facts facts.json

  # Raise the near-miss similarity bar
  simscan clone --facts facts.json --similarity-threshold 0.85

  # Emit the report as JSON
  simscan clone --facts facts.json --json > clones.json`,
		RunE: c.runCloneDetection,
	}

	cmd.Flags().StringVar(&c.factsFile, "facts", c.factsFile,
		"Path to the facts document (JSON) produced by an external parser")
	cmd.Flags().StringVarP(&c.configFile, "config", "c", c.configFile,
		"Path to configuration file")

	cmd.Flags().IntVar(&c.minLines, "min-lines", c.minLines,
		"Minimum number of lines for clone candidates")
	cmd.Flags().IntVar(&c.minTokens, "min-tokens", c.minTokens,
		"Minimum number of tokens for clone candidates")
	cmd.Flags().Float64VarP(&c.similarityThreshold, "similarity-threshold", "s", c.similarityThreshold,
		"Minimum similarity for near-miss clones (0.0-1.0)")

	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")

	cmd.Flags().BoolVar(&c.showContent, "show-content", c.showContent,
		"Include fragment content in output")
	cmd.Flags().StringVar(&c.sortBy, "sort", c.sortBy,
		"Sort results by: similarity, savings, location")

	return cmd
}

// runCloneDetection executes the clone detection command
func (c *CloneCommand) runCloneDetection(cmd *cobra.Command, args []string) error {
	request, err := c.createCloneRequest(cmd, args)
	if err != nil {
		return err
	}

	useCase, err := c.createCloneUseCase()
	if err != nil {
		return fmt.Errorf("failed to create clone use case: %w", err)
	}

	if err := useCase.Execute(context.Background(), *request); err != nil {
		return fmt.Errorf("clone detection failed: %w", err)
	}
	return nil
}

// createCloneRequest builds the request: config file values first, CLI flag
// overrides on top.
func (c *CloneCommand) createCloneRequest(cmd *cobra.Command, paths []string) (*domain.CloneRequest, error) {
	configLoader := service.NewConfigLoader()
	cfg, err := configLoader.Load(c.configFile)
	if err != nil {
		return nil, err
	}

	request := configLoader.ToCloneRequest(cfg)
	request.FactsPath = c.factsFile
	request.Paths = paths
	request.ConfigPath = c.configFile
	request.OutputWriter = os.Stdout

	explicit := ExplicitFlags(cmd)
	if explicit["min-lines"] {
		request.MinLines = c.minLines
	}
	if explicit["min-tokens"] {
		request.MinTokens = c.minTokens
	}
	if explicit["similarity-threshold"] {
		request.SimilarityThreshold = c.similarityThreshold
	}
	if explicit["show-content"] {
		request.ShowContent = c.showContent
	}

	format, err := service.NewOutputFormatResolver().Determine(c.json, c.csv, c.yaml)
	if err != nil {
		return nil, err
	}
	if format != domain.OutputFormatText {
		request.OutputFormat = format
	}

	sortBy, err := parseSortCriteria(c.sortBy)
	if err != nil {
		return nil, err
	}
	request.SortBy = sortBy

	return request, nil
}

// createCloneUseCase wires the clone use case with its dependencies
func (c *CloneCommand) createCloneUseCase() (*app.CloneUseCase, error) {
	fileReader := service.NewFileReader()
	cloneService := service.NewCloneService(fileReader, service.NewProgressManager())

	return app.NewCloneUseCaseBuilder().
		WithService(cloneService).
		WithFormatter(service.NewCloneFormatter()).
		Build()
}

// parseSortCriteria parses and validates the sort criteria
func parseSortCriteria(sort string) (domain.SortCriteria, error) {
	switch strings.ToLower(sort) {
	case "similarity":
		return domain.SortBySimilarity, nil
	case "savings":
		return domain.SortBySavings, nil
	case "location":
		return domain.SortByLocation, nil
	case "confidence":
		return domain.SortByConfidence, nil
	default:
		return "", fmt.Errorf("unsupported sort criteria: %s (supported: similarity, savings, location, confidence)", sort)
	}
}

// NewCloneCmd creates and returns the clone cobra command
func NewCloneCmd() *cobra.Command {
	return NewCloneCommand().CreateCobraCommand()
}
