package service

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/config"
)

// ConfigLoader resolves the effective engine configuration: explicit config
// file, discovered config file, environment overrides, then built-in
// defaults, in that order of preference.
type ConfigLoader struct{}

// NewConfigLoader creates a new configuration loader service
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// Load resolves the configuration for the given explicit path. An empty path
// triggers ancestor-directory discovery of .simscan.toml / simscan.toml.
func (c *ConfigLoader) Load(configPath string) (*config.Config, error) {
	if configPath == "" {
		configPath = config.FindConfigFile(".")
	}

	var cfg *config.Config
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, domain.NewConfigError("failed to load configuration file", err)
		}
		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	c.applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// applyEnvOverrides layers SIMSCAN_* environment variables over the file
// values, e.g. SIMSCAN_CLONE_MIN_LINES=8.
func (c *ConfigLoader) applyEnvOverrides(cfg *config.Config) {
	v := viper.New()
	v.SetEnvPrefix("SIMSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.IsSet("clone.min_lines") {
		cfg.Clone.MinLines = v.GetInt("clone.min_lines")
	}
	if v.IsSet("clone.min_tokens") {
		cfg.Clone.MinTokens = v.GetInt("clone.min_tokens")
	}
	if v.IsSet("clone.similarity_threshold") {
		cfg.Clone.SimilarityThreshold = v.GetFloat64("clone.similarity_threshold")
	}
	if v.IsSet("affinity.content_weight") {
		cfg.Affinity.ContentWeight = v.GetFloat64("affinity.content_weight")
	}
	if v.IsSet("affinity.structure_weight") {
		cfg.Affinity.StructureWeight = v.GetFloat64("affinity.structure_weight")
	}
	if v.IsSet("affinity.dna_weight") {
		cfg.Affinity.DNAWeight = v.GetFloat64("affinity.dna_weight")
	}
	if v.IsSet("affinity.comparison_timeout_seconds") {
		cfg.Affinity.ComparisonTimeoutSeconds = v.GetFloat64("affinity.comparison_timeout_seconds")
	}
	if v.IsSet("consolidation.max_comparisons") {
		cfg.Consolidation.MaxComparisons = v.GetInt("consolidation.max_comparisons")
	}
	if v.IsSet("consolidation.min_affinity_threshold") {
		cfg.Consolidation.MinAffinityThreshold = v.GetFloat64("consolidation.min_affinity_threshold")
	}
	if v.IsSet("output.format") {
		cfg.Output.Format = v.GetString("output.format")
	}
}

// ToCloneRequest seeds a clone request from the resolved configuration.
// CLI flags are layered on top by the use case builder.
func (c *ConfigLoader) ToCloneRequest(cfg *config.Config) *domain.CloneRequest {
	req := domain.DefaultCloneRequest()
	req.MinLines = cfg.Clone.MinLines
	req.MinTokens = cfg.Clone.MinTokens
	req.SimilarityThreshold = cfg.Clone.SimilarityThreshold
	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	req.ShowContent = cfg.Output.ShowContent
	return req
}

// ToConsolidationRequest seeds a consolidation request from the resolved
// configuration.
func (c *ConfigLoader) ToConsolidationRequest(cfg *config.Config) *domain.ConsolidationRequest {
	req := domain.DefaultConsolidationRequest()
	req.ContentWeight = cfg.Affinity.ContentWeight
	req.StructureWeight = cfg.Affinity.StructureWeight
	req.DNAWeight = cfg.Affinity.DNAWeight
	req.ComparisonTimeout = cfg.Affinity.ComparisonTimeout()
	req.MaxComparisons = cfg.Consolidation.MaxComparisons
	req.MinAffinityThreshold = cfg.Consolidation.MinAffinityThreshold
	req.OutputFormat = domain.OutputFormat(cfg.Output.Format)
	return req
}
