package constants

import "time"

// Fragment extraction limits. Fragments below these sizes carry too little
// signal to classify reliably and mostly produce noise pairs.
const (
	// DefaultMinFragmentLines is the minimum line span for a fragment to be
	// considered a clone candidate.
	DefaultMinFragmentLines = 5

	// DefaultMinFragmentTokens is the minimum token count for a fragment to be
	// considered a clone candidate.
	DefaultMinFragmentTokens = 20

	// DefaultSimilarityThreshold is the minimum alignment ratio for a fragment
	// pair to be reported as a near-miss (Type-3) clone.
	DefaultSimilarityThreshold = 0.7
)

// Affinity scoring weights. The three axes must sum to 1.0; configuration
// validation rejects any other combination.
const (
	DefaultContentWeight   = 0.4
	DefaultStructureWeight = 0.3
	DefaultDNAWeight       = 0.3
)

// Affinity level cutoffs applied to the overall weighted score.
const (
	VeryHighAffinityCutoff = 0.9
	HighAffinityCutoff     = 0.7
	MediumAffinityCutoff   = 0.5
	LowAffinityCutoff      = 0.3
)

// Content comparison bounds. One pathological pair must never stall a batch:
// reads are capped, large inputs are gated by a cheap estimate, and the full
// alignment runs under a wall-clock budget.
const (
	// MaxContentComparisonBytes caps how much of each file is read for
	// content-level comparison.
	MaxContentComparisonBytes = 100_000

	// LargeContentThreshold is the capped-read size above which the quick-ratio
	// gate applies before the full alignment is attempted.
	LargeContentThreshold = 20_000

	// QuickRatioCutoff is the quick-ratio score below which the full alignment
	// is skipped for large inputs.
	QuickRatioCutoff = 0.3

	// DefaultComparisonTimeout is the wall-clock budget for a single full
	// content alignment. On timeout the quick estimate is used instead.
	DefaultComparisonTimeout = 2 * time.Second

	// OneSideEmptySimilarity is the content score when exactly one of the two
	// compared files is empty.
	OneSideEmptySimilarity = 0.1

	// IOFailureSizePenalty scales the size-ratio heuristic used when content
	// cannot be read for comparison.
	IOFailureSizePenalty = 0.5
)

// NeutralSimilarity is the score assigned to an axis when the data needed to
// compute it is missing on either side. Partial corpora still produce usable
// results instead of errors.
const NeutralSimilarity = 0.5

// DNA fingerprint parameters.
const (
	// FingerprintEventLimit bounds how many data-flow events per variable
	// contribute to the fingerprint serialization.
	FingerprintEventLimit = 10

	// FingerprintHexLength is the width of the hex fingerprint digest.
	FingerprintHexLength = 16

	// FingerprintAgreementPrefix is the number of leading fingerprint
	// characters compared for the DNA similarity axis.
	FingerprintAgreementPrefix = 8
)

// Complexity score weights. A cheap static proxy for structural complexity,
// not cyclomatic complexity of any single function.
const (
	ComplexityFunctionWeight = 1.0
	ComplexityClassWeight    = 2.0
	ComplexityEventWeight    = 0.1
	ComplexityImportWeight   = 0.5
)

// Master candidate scoring parameters.
const (
	MasterComplexityFactor = 0.1
	MasterFunctionFactor   = 2.0
	MasterClassFactor      = 3.0
	MasterSizeDivisor      = 1000.0
	MasterDepthPenalty     = 0.5
	MasterTempPenalty      = 10.0
)

// DefaultMaxComparisons is the hard cap on pairwise affinity comparisons per
// sibling group. Groups exceeding it are sampled rather than computed in full.
const DefaultMaxComparisons = 500

// DefaultMinAffinityThreshold is the minimum mean affinity a sibling group
// must reach for its consolidation proposal to appear in the report.
const DefaultMinAffinityThreshold = 0.3
