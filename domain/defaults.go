package domain

import (
	"github.com/simscan-dev/simscan/internal/constants"
)

// DefaultCloneRequest returns a clone request with default analysis settings.
func DefaultCloneRequest() *CloneRequest {
	return &CloneRequest{
		MinLines:            constants.DefaultMinFragmentLines,
		MinTokens:           constants.DefaultMinFragmentTokens,
		SimilarityThreshold: constants.DefaultSimilarityThreshold,
		OutputFormat:        OutputFormatText,
		SortBy:              SortBySavings,
	}
}

// DefaultConsolidationRequest returns a consolidation request with default
// affinity and proposal settings.
func DefaultConsolidationRequest() *ConsolidationRequest {
	return &ConsolidationRequest{
		Recursive:            true,
		ContentWeight:        constants.DefaultContentWeight,
		StructureWeight:      constants.DefaultStructureWeight,
		DNAWeight:            constants.DefaultDNAWeight,
		ComparisonTimeout:    constants.DefaultComparisonTimeout,
		MaxComparisons:       constants.DefaultMaxComparisons,
		MinAffinityThreshold: constants.DefaultMinAffinityThreshold,
		OutputFormat:         OutputFormatText,
	}
}
