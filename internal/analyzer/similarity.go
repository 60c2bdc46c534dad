package analyzer

import (
	"context"
	"time"

	"github.com/pmezard/go-difflib/difflib"
)

// AlignmentRatio computes the full line-based sequence-alignment ratio
// between two texts, in [0, 1].
func AlignmentRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	matcher := difflib.NewMatcher(difflib.SplitLines(a), difflib.SplitLines(b))
	return matcher.Ratio()
}

// QuickAlignmentRatio computes a cheap upper-bound estimate of the alignment
// ratio without performing the full matching pass.
func QuickAlignmentRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	matcher := difflib.NewMatcher(difflib.SplitLines(a), difflib.SplitLines(b))
	return matcher.QuickRatio()
}

// AlignmentRatioWithBudget computes the full alignment ratio under a
// wall-clock budget. On timeout or context cancellation it returns the quick
// estimate and reports that it degraded. The abandoned computation finishes
// in the background and its result is discarded.
func AlignmentRatioWithBudget(ctx context.Context, a, b string, budget time.Duration) (ratio float64, degraded bool) {
	done := make(chan float64, 1)
	go func() {
		done <- AlignmentRatio(a, b)
	}()

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case r := <-done:
		return r, false
	case <-timer.C:
		return QuickAlignmentRatio(a, b), true
	case <-ctx.Done():
		return QuickAlignmentRatio(a, b), true
	}
}

// DifferingLineCount counts lines that differ between two texts in an aligned
// diff. For replacements the larger of the two spans is counted.
func DifferingLineCount(a, b string) int {
	if a == b {
		return 0
	}
	matcher := difflib.NewMatcher(difflib.SplitLines(a), difflib.SplitLines(b))

	count := 0
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		left := op.I2 - op.I1
		right := op.J2 - op.J1
		if right > left {
			left = right
		}
		count += left
	}
	return count
}

// jaccardSimilarity computes |A∩B| / |A∪B| over two string sets, 0 when both
// are empty.
func jaccardSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for item := range a {
		if _, ok := b[item]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// toSet converts a slice to a membership set.
func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}
