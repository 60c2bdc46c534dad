package analyzer

import (
	"context"
	"fmt"
	"sort"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/constants"
)

// CloneDetectorConfig holds configuration for clone detection.
type CloneDetectorConfig struct {
	MinLines            int
	MinTokens           int
	SimilarityThreshold float64
}

// DefaultCloneDetectorConfig returns default configuration.
func DefaultCloneDetectorConfig() *CloneDetectorConfig {
	return &CloneDetectorConfig{
		MinLines:            constants.DefaultMinFragmentLines,
		MinTokens:           constants.DefaultMinFragmentTokens,
		SimilarityThreshold: constants.DefaultSimilarityThreshold,
	}
}

// Validate rejects unusable configuration eagerly.
func (c *CloneDetectorConfig) Validate() error {
	if c.MinLines < 1 {
		return domain.NewValidationError("min_lines must be >= 1")
	}
	if c.MinTokens < 1 {
		return domain.NewValidationError("min_tokens must be >= 1")
	}
	if c.SimilarityThreshold < 0.0 || c.SimilarityThreshold > 1.0 {
		return domain.NewValidationError("similarity_threshold must be between 0.0 and 1.0")
	}
	return nil
}

// CloneDetector groups fragments into Type-1/2/3 clone pairs and clusters
// them into clone groups.
type CloneDetector struct {
	config    *CloneDetectorConfig
	extractor *FragmentExtractor
}

// NewCloneDetector creates a new clone detector with the given configuration.
func NewCloneDetector(config *CloneDetectorConfig) (*CloneDetector, error) {
	if config == nil {
		config = DefaultCloneDetectorConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &CloneDetector{
		config: config,
		extractor: NewFragmentExtractor(&FragmentExtractorConfig{
			MinLines:  config.MinLines,
			MinTokens: config.MinTokens,
		}),
	}, nil
}

// ExtractFragments extracts the comparison units from one file.
func (cd *CloneDetector) ExtractFragments(file *domain.SourceFile, content []byte) []*domain.Fragment {
	return cd.extractor.ExtractFragments(file, content)
}

// DetectClones classifies every fragment pair into at most one clone type and
// clusters the resulting pairs into groups.
func (cd *CloneDetector) DetectClones(ctx context.Context, fragments []*domain.Fragment) ([]*domain.ClonePair, []*domain.CloneGroup, error) {
	var pairs []*domain.ClonePair
	classified := make(map[string]bool)

	exact, err := cd.detectExactPairs(ctx, fragments, classified)
	if err != nil {
		return nil, nil, err
	}
	pairs = append(pairs, exact...)

	renamed, err := cd.detectRenamedPairs(ctx, fragments, classified)
	if err != nil {
		return nil, nil, err
	}
	pairs = append(pairs, renamed...)

	nearMiss, err := cd.detectNearMissPairs(ctx, fragments, classified)
	if err != nil {
		return nil, nil, err
	}
	pairs = append(pairs, nearMiss...)

	groups := cd.groupPairs(pairs)
	return pairs, groups, nil
}

// pairKey orders the two fragment keys so the classification set is
// direction-independent.
func pairKey(a, b *domain.Fragment) string {
	ka, kb := a.Key(), b.Key()
	if ka > kb {
		ka, kb = kb, ka
	}
	return ka + "|" + kb
}

// detectExactPairs buckets fragments by exact hash; every pair within a
// bucket is a Type-1 clone with similarity 1.0.
func (cd *CloneDetector) detectExactPairs(ctx context.Context, fragments []*domain.Fragment, classified map[string]bool) ([]*domain.ClonePair, error) {
	buckets := bucketBy(fragments, func(f *domain.Fragment) string { return f.ExactHash })

	var pairs []*domain.ClonePair
	for _, bucket := range buckets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("clone detection cancelled: %w", err)
		}
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				pairs = append(pairs, &domain.ClonePair{
					FragmentA:  bucket[i],
					FragmentB:  bucket[j],
					Type:       domain.ExactClone,
					Similarity: 1.0,
				})
				classified[pairKey(bucket[i], bucket[j])] = true
			}
		}
	}
	return pairs, nil
}

// detectRenamedPairs buckets fragments by normalized hash; pairs not already
// exact are Type-2 clones. Similarity is the alignment ratio over normalized
// texts, computed for reporting.
func (cd *CloneDetector) detectRenamedPairs(ctx context.Context, fragments []*domain.Fragment, classified map[string]bool) ([]*domain.ClonePair, error) {
	buckets := bucketBy(fragments, func(f *domain.Fragment) string { return f.NormalizedHash })

	var pairs []*domain.ClonePair
	for _, bucket := range buckets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("clone detection cancelled: %w", err)
		}
		for i := 0; i < len(bucket); i++ {
			for j := i + 1; j < len(bucket); j++ {
				a, b := bucket[i], bucket[j]
				if classified[pairKey(a, b)] {
					continue
				}
				pairs = append(pairs, &domain.ClonePair{
					FragmentA:  a,
					FragmentB:  b,
					Type:       domain.RenamedClone,
					Similarity: AlignmentRatio(a.NormalizedText, b.NormalizedText),
				})
				classified[pairKey(a, b)] = true
			}
		}
	}
	return pairs, nil
}

// detectNearMissPairs aligns every remaining fragment pair and emits Type-3
// clones above the similarity threshold. Overlapping fragments from the same
// file are skipped.
func (cd *CloneDetector) detectNearMissPairs(ctx context.Context, fragments []*domain.Fragment, classified map[string]bool) ([]*domain.ClonePair, error) {
	var pairs []*domain.ClonePair

	for i := 0; i < len(fragments); i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("clone detection cancelled: %w", err)
		}
		for j := i + 1; j < len(fragments); j++ {
			a, b := fragments[i], fragments[j]
			if classified[pairKey(a, b)] {
				continue
			}
			if a.Overlaps(b) {
				continue
			}

			similarity := AlignmentRatio(a.NormalizedText, b.NormalizedText)
			if similarity < cd.config.SimilarityThreshold {
				continue
			}

			pairs = append(pairs, &domain.ClonePair{
				FragmentA:      a,
				FragmentB:      b,
				Type:           domain.NearMissClone,
				Similarity:     similarity,
				DifferingLines: DifferingLineCount(a.NormalizedText, b.NormalizedText),
			})
			classified[pairKey(a, b)] = true
		}
	}
	return pairs, nil
}

// groupPairs clusters clone pairs into connected components. Clustering runs
// single-threaded over the fully collected edge set since it needs global
// connectivity information.
func (cd *CloneDetector) groupPairs(pairs []*domain.ClonePair) []*domain.CloneGroup {
	if len(pairs) == 0 {
		return nil
	}

	graph := NewGraph[string]()
	byKey := make(map[string]*domain.Fragment)
	for _, pair := range pairs {
		byKey[pair.FragmentA.Key()] = pair.FragmentA
		byKey[pair.FragmentB.Key()] = pair.FragmentB
		graph.AddEdge(pair.FragmentA.Key(), pair.FragmentB.Key())
	}

	// Pair lookup for group-level type and similarity.
	pairsByKey := make(map[string]*domain.ClonePair, len(pairs))
	for _, pair := range pairs {
		pairsByKey[pairKey(pair.FragmentA, pair.FragmentB)] = pair
	}

	var groups []*domain.CloneGroup
	groupID := 0
	for _, component := range graph.ConnectedComponents() {
		if len(component) < 2 {
			continue
		}

		members := make([]*domain.Fragment, 0, len(component))
		for _, key := range component {
			members = append(members, byKey[key])
		}
		sort.Slice(members, func(i, j int) bool {
			if members[i].SourceFile != members[j].SourceFile {
				return members[i].SourceFile < members[j].SourceFile
			}
			return members[i].StartLine < members[j].StartLine
		})

		group := &domain.CloneGroup{
			ID:             groupID,
			Representative: members[0],
			Members:        members[1:],
		}
		groupID++

		cd.summarizeGroup(group, members, pairsByKey)
		groups = append(groups, group)
	}
	return groups
}

// summarizeGroup derives the group-level clone type (most specific internal
// pair type wins), mean similarity, and total line count.
func (cd *CloneDetector) summarizeGroup(group *domain.CloneGroup, members []*domain.Fragment, pairsByKey map[string]*domain.ClonePair) {
	groupType := domain.NearMissClone
	totalSimilarity := 0.0
	pairCount := 0

	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			pair, ok := pairsByKey[pairKey(members[i], members[j])]
			if !ok {
				continue
			}
			if pair.Type.MoreSpecificThan(groupType) {
				groupType = pair.Type
			}
			totalSimilarity += pair.Similarity
			pairCount++
		}
	}

	group.Type = groupType
	if pairCount > 0 {
		group.Similarity = totalSimilarity / float64(pairCount)
	}
	for _, member := range members {
		group.TotalLines += member.LineCount()
	}
}

// BuildSuggestions ranks clone groups by potential line savings and attaches
// a refactoring hint keyed by clone type.
func (cd *CloneDetector) BuildSuggestions(groups []*domain.CloneGroup) []*domain.DedupSuggestion {
	suggestions := make([]*domain.DedupSuggestion, 0, len(groups))

	for _, group := range groups {
		minLines := group.Representative.LineCount()
		for _, member := range group.Members {
			if lc := member.LineCount(); lc < minLines {
				minLines = lc
			}
		}

		suggestions = append(suggestions, &domain.DedupSuggestion{
			Representative:   group.Representative,
			Clones:           group.Members,
			Type:             group.Type,
			Similarity:       group.Similarity,
			TotalLines:       group.TotalLines,
			PotentialSavings: group.TotalLines - minLines,
			Hint:             suggestionHint(group.Type),
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].PotentialSavings > suggestions[j].PotentialSavings
	})
	return suggestions
}

// suggestionHint maps a clone type to a human-readable refactoring hint.
func suggestionHint(cloneType domain.CloneType) string {
	switch cloneType {
	case domain.ExactClone:
		return "Identical copies: extract into a shared module and import it everywhere"
	case domain.RenamedClone:
		return "Same structure with renamed identifiers: parameterize into one implementation"
	default:
		return "Near-miss duplicates: review the differences and refactor toward a common helper"
	}
}

// bucketBy groups fragments by a key function. Buckets are returned in first
// occurrence order of their key so detection output is deterministic.
func bucketBy(fragments []*domain.Fragment, key func(*domain.Fragment) string) [][]*domain.Fragment {
	index := make(map[string]int)
	var buckets [][]*domain.Fragment
	for _, fragment := range fragments {
		k := key(fragment)
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, nil)
		}
		buckets[i] = append(buckets[i], fragment)
	}
	return buckets
}
