package analyzer

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strings"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/constants"
)

// tempPathMarkers flag path segments that suggest a file is a scratch or
// archived copy rather than a live canonical version.
var tempPathMarkers = []string{
	"temp", "tmp", "backup", "bak", "old", "archive", "archived", "copy",
	"deprecated", "attic",
}

// MasterSelectorConfig bounds the proposal computation.
type MasterSelectorConfig struct {
	// MaxComparisons caps pairwise affinity comparisons per sibling group.
	MaxComparisons int
}

// DefaultMasterSelectorConfig returns the default bounds.
func DefaultMasterSelectorConfig() *MasterSelectorConfig {
	return &MasterSelectorConfig{MaxComparisons: constants.DefaultMaxComparisons}
}

// Validate rejects non-positive caps.
func (c *MasterSelectorConfig) Validate() error {
	if c.MaxComparisons < 1 {
		return domain.NewValidationError("max_comparisons must be >= 1")
	}
	return nil
}

// MasterSelector scores every file in a sibling group as a candidate
// canonical version and emits a ranked proposal.
type MasterSelector struct {
	config   *MasterSelectorConfig
	affinity *AffinityAnalyzer
}

// NewMasterSelector creates a selector using the given affinity analyzer for
// the group matrix.
func NewMasterSelector(config *MasterSelectorConfig, affinity *AffinityAnalyzer) (*MasterSelector, error) {
	if config == nil {
		config = DefaultMasterSelectorConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &MasterSelector{config: config, affinity: affinity}, nil
}

// Propose builds the master proposal for one sibling group. Groups whose pair
// count exceeds the cap degrade to a sampled affinity matrix; the candidate
// ranking itself always covers the full group.
func (ms *MasterSelector) Propose(ctx context.Context, group *domain.SiblingGroup) (*domain.MasterProposal, []domain.Warning) {
	var warnings []domain.Warning

	subset, sampled := ms.selectComparisonSubset(group)
	if sampled {
		warnings = append(warnings, domain.Warning{
			Operation: "affinity_matrix",
			Message: fmt.Sprintf("group %q has %d files (%d pairs); affinity sampled over %d representatives",
				group.BaseName, len(group.Files), totalPairs(len(group.Files)), len(subset)),
		})
	}

	matrix, matrixWarnings := ms.buildMatrix(ctx, subset)
	warnings = append(warnings, matrixWarnings...)

	master, confidence, reasons := ms.rankCandidates(group.Files)

	siblings := make([]*domain.SiblingFile, 0, len(group.Files)-1)
	for _, file := range group.Files {
		if file != master {
			siblings = append(siblings, file)
		}
	}

	return &domain.MasterProposal{
		ProposedMaster: master,
		Siblings:       siblings,
		Confidence:     confidence,
		Reasons:        reasons,
		AffinityMatrix: matrix,
		Sampled:        sampled,
	}, warnings
}

// totalPairs is n(n-1)/2.
func totalPairs(n int) int {
	return n * (n - 1) / 2
}

// selectComparisonSubset returns the files whose pairs enter the affinity
// matrix. Oversized groups are cut to the ceil(sqrt(2*cap))+1 structurally
// richest files.
func (ms *MasterSelector) selectComparisonSubset(group *domain.SiblingGroup) ([]*domain.SiblingFile, bool) {
	if totalPairs(len(group.Files)) <= ms.config.MaxComparisons {
		return group.Files, false
	}

	limit := int(math.Ceil(math.Sqrt(2*float64(ms.config.MaxComparisons)))) + 1

	ranked := make([]*domain.SiblingFile, len(group.Files))
	copy(ranked, group.Files)
	sort.SliceStable(ranked, func(i, j int) bool {
		ci, cj := fileComplexity(ranked[i]), fileComplexity(ranked[j])
		if ci != cj {
			return ci > cj
		}
		return ranked[i].Size > ranked[j].Size
	})

	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit], true
}

// buildMatrix computes pairwise affinity over the subset, honoring the hard
// cap while iterating pairs.
func (ms *MasterSelector) buildMatrix(ctx context.Context, files []*domain.SiblingFile) ([]*domain.AffinityResult, []domain.Warning) {
	var matrix []*domain.AffinityResult
	var warnings []domain.Warning

	for i := 0; i < len(files); i++ {
		for j := i + 1; j < len(files); j++ {
			if len(matrix) >= ms.config.MaxComparisons {
				return matrix, warnings
			}
			result, compareWarnings := ms.affinity.Compare(ctx, files[i], files[j])
			warnings = append(warnings, compareWarnings...)
			matrix = append(matrix, result)
		}
	}
	return matrix, warnings
}

// rankCandidates scores every file and returns the winner, the confidence in
// that choice, and the winner's non-zero score components.
func (ms *MasterSelector) rankCandidates(files []*domain.SiblingFile) (*domain.SiblingFile, float64, []string) {
	type scored struct {
		file  *domain.SiblingFile
		score float64
	}

	candidates := make([]scored, 0, len(files))
	for _, file := range files {
		candidates = append(candidates, scored{file: file, score: candidateScore(file)})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	winner := candidates[0]

	confidence := 0.5
	if len(candidates) > 1 && winner.score > 0 {
		margin := (winner.score - candidates[1].score) / winner.score
		confidence = math.Min(0.5+margin*0.5, 1.0)
	}

	return winner.file, confidence, candidateReasons(winner.file)
}

// candidateScore prefers structurally richer, shallower, non-temporary files.
// A heuristic, not a correctness property.
func candidateScore(file *domain.SiblingFile) float64 {
	score := constants.MasterComplexityFactor*fileComplexity(file) +
		constants.MasterFunctionFactor*float64(len(file.FunctionNames)) +
		constants.MasterClassFactor*float64(len(file.ClassNames)) +
		float64(file.Size)/constants.MasterSizeDivisor -
		constants.MasterDepthPenalty*float64(pathDepth(file.FilePath))

	if hasTempMarker(file.FilePath) {
		score -= constants.MasterTempPenalty
	}
	return score
}

// candidateReasons lists the human-readable score components that were
// non-zero for the winner. Used only for reporting, never for re-deriving the
// score.
func candidateReasons(file *domain.SiblingFile) []string {
	var reasons []string

	if c := fileComplexity(file); c > 0 {
		reasons = append(reasons, fmt.Sprintf("structural complexity %.1f", c))
	}
	if n := len(file.FunctionNames); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d functions", n))
	}
	if n := len(file.ClassNames); n > 0 {
		reasons = append(reasons, fmt.Sprintf("%d classes", n))
	}
	if file.Size > 0 {
		reasons = append(reasons, fmt.Sprintf("%d bytes of content", file.Size))
	}
	if d := pathDepth(file.FilePath); d > 0 {
		reasons = append(reasons, fmt.Sprintf("path depth %d", d))
	}
	if hasTempMarker(file.FilePath) {
		reasons = append(reasons, "penalized: path contains a temp/backup marker")
	}
	return reasons
}

// fileComplexity reads the DNA complexity score when available.
func fileComplexity(file *domain.SiblingFile) float64 {
	if file.DNA != nil {
		return file.DNA.ComplexityScore
	}
	return 0
}

// pathDepth counts directory separators in the normalized path.
func pathDepth(path string) int {
	return strings.Count(filepath.ToSlash(path), "/")
}

// hasTempMarker reports whether any path segment carries a temp, backup, or
// archive marker.
func hasTempMarker(path string) bool {
	for _, segment := range strings.Split(strings.ToLower(filepath.ToSlash(path)), "/") {
		for _, marker := range tempPathMarkers {
			if strings.Contains(segment, marker) {
				return true
			}
		}
	}
	return false
}
