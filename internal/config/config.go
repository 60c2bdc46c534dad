package config

import (
	"fmt"
	"math"
	"time"

	"github.com/simscan-dev/simscan/internal/constants"
)

// Config is the unified configuration for the similarity and consolidation
// engine. A hosting process constructs it once and passes it into the
// services; there is no process-wide mutable state.
type Config struct {
	Clone         CloneConfig         `mapstructure:"clone" toml:"clone" yaml:"clone"`
	Affinity      AffinityConfig      `mapstructure:"affinity" toml:"affinity" yaml:"affinity"`
	Consolidation ConsolidationConfig `mapstructure:"consolidation" toml:"consolidation" yaml:"consolidation"`
	Output        OutputConfig        `mapstructure:"output" toml:"output" yaml:"output"`
}

// CloneConfig holds fragment extraction and clone classification parameters.
type CloneConfig struct {
	MinLines            int     `mapstructure:"min_lines" toml:"min_lines" yaml:"min_lines"`
	MinTokens           int     `mapstructure:"min_tokens" toml:"min_tokens" yaml:"min_tokens"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" toml:"similarity_threshold" yaml:"similarity_threshold"`
}

// AffinityConfig holds the whole-file comparison weights and bounds.
type AffinityConfig struct {
	ContentWeight   float64 `mapstructure:"content_weight" toml:"content_weight" yaml:"content_weight"`
	StructureWeight float64 `mapstructure:"structure_weight" toml:"structure_weight" yaml:"structure_weight"`
	DNAWeight       float64 `mapstructure:"dna_weight" toml:"dna_weight" yaml:"dna_weight"`

	MaxContentBytes          int     `mapstructure:"max_content_bytes" toml:"max_content_bytes" yaml:"max_content_bytes"`
	ComparisonTimeoutSeconds float64 `mapstructure:"comparison_timeout_seconds" toml:"comparison_timeout_seconds" yaml:"comparison_timeout_seconds"`
}

// ComparisonTimeout returns the per-comparison wall-clock budget.
func (c *AffinityConfig) ComparisonTimeout() time.Duration {
	return time.Duration(c.ComparisonTimeoutSeconds * float64(time.Second))
}

// ConsolidationConfig holds the sibling-group proposal parameters.
type ConsolidationConfig struct {
	MaxComparisons       int     `mapstructure:"max_comparisons" toml:"max_comparisons" yaml:"max_comparisons"`
	MinAffinityThreshold float64 `mapstructure:"min_affinity_threshold" toml:"min_affinity_threshold" yaml:"min_affinity_threshold"`
}

// OutputConfig holds report formatting defaults.
type OutputConfig struct {
	Format      string `mapstructure:"format" toml:"format" yaml:"format"`
	ShowContent bool   `mapstructure:"show_content" toml:"show_content" yaml:"show_content"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Clone: CloneConfig{
			MinLines:            constants.DefaultMinFragmentLines,
			MinTokens:           constants.DefaultMinFragmentTokens,
			SimilarityThreshold: constants.DefaultSimilarityThreshold,
		},
		Affinity: AffinityConfig{
			ContentWeight:            constants.DefaultContentWeight,
			StructureWeight:          constants.DefaultStructureWeight,
			DNAWeight:                constants.DefaultDNAWeight,
			MaxContentBytes:          constants.MaxContentComparisonBytes,
			ComparisonTimeoutSeconds: constants.DefaultComparisonTimeout.Seconds(),
		},
		Consolidation: ConsolidationConfig{
			MaxComparisons:       constants.DefaultMaxComparisons,
			MinAffinityThreshold: constants.DefaultMinAffinityThreshold,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// Validate rejects configuration errors eagerly at construction time rather
// than silently tolerating them.
func (c *Config) Validate() error {
	if c.Clone.MinLines < 1 {
		return fmt.Errorf("clone.min_lines must be >= 1, got %d", c.Clone.MinLines)
	}
	if c.Clone.MinTokens < 1 {
		return fmt.Errorf("clone.min_tokens must be >= 1, got %d", c.Clone.MinTokens)
	}
	if c.Clone.SimilarityThreshold < 0.0 || c.Clone.SimilarityThreshold > 1.0 {
		return fmt.Errorf("clone.similarity_threshold must be between 0.0 and 1.0, got %g", c.Clone.SimilarityThreshold)
	}

	weightSum := c.Affinity.ContentWeight + c.Affinity.StructureWeight + c.Affinity.DNAWeight
	if math.Abs(weightSum-1.0) > 0.001 {
		return fmt.Errorf("affinity weights must sum to 1.0, got %.3f", weightSum)
	}
	if c.Affinity.ContentWeight < 0 || c.Affinity.StructureWeight < 0 || c.Affinity.DNAWeight < 0 {
		return fmt.Errorf("affinity weights must be non-negative")
	}
	if c.Affinity.MaxContentBytes < 1 {
		return fmt.Errorf("affinity.max_content_bytes must be >= 1, got %d", c.Affinity.MaxContentBytes)
	}
	if c.Affinity.ComparisonTimeoutSeconds <= 0 {
		return fmt.Errorf("affinity.comparison_timeout_seconds must be positive, got %g", c.Affinity.ComparisonTimeoutSeconds)
	}

	if c.Consolidation.MaxComparisons < 1 {
		return fmt.Errorf("consolidation.max_comparisons must be >= 1, got %d", c.Consolidation.MaxComparisons)
	}
	if c.Consolidation.MinAffinityThreshold < 0.0 || c.Consolidation.MinAffinityThreshold > 1.0 {
		return fmt.Errorf("consolidation.min_affinity_threshold must be between 0.0 and 1.0, got %g", c.Consolidation.MinAffinityThreshold)
	}

	switch c.Output.Format {
	case "text", "json", "yaml", "csv":
	default:
		return fmt.Errorf("output.format must be one of text, json, yaml, csv; got %q", c.Output.Format)
	}

	return nil
}
