package analyzer

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/constants"
)

// AffinityConfig holds the weights and bounds of whole-file comparison.
type AffinityConfig struct {
	ContentWeight   float64
	StructureWeight float64
	DNAWeight       float64

	MaxContentBytes   int
	ComparisonTimeout time.Duration
}

// DefaultAffinityConfig returns the default weights and bounds.
func DefaultAffinityConfig() *AffinityConfig {
	return &AffinityConfig{
		ContentWeight:     constants.DefaultContentWeight,
		StructureWeight:   constants.DefaultStructureWeight,
		DNAWeight:         constants.DefaultDNAWeight,
		MaxContentBytes:   constants.MaxContentComparisonBytes,
		ComparisonTimeout: constants.DefaultComparisonTimeout,
	}
}

// Validate rejects weight sets that do not sum to 1.0 and non-positive
// bounds.
func (c *AffinityConfig) Validate() error {
	sum := c.ContentWeight + c.StructureWeight + c.DNAWeight
	if math.Abs(sum-1.0) > 0.001 {
		return domain.NewValidationError(fmt.Sprintf("affinity weights must sum to 1.0, got %.3f", sum))
	}
	if c.ContentWeight < 0 || c.StructureWeight < 0 || c.DNAWeight < 0 {
		return domain.NewValidationError("affinity weights must be non-negative")
	}
	if c.MaxContentBytes < 1 {
		return domain.NewValidationError("max_content_bytes must be >= 1")
	}
	if c.ComparisonTimeout <= 0 {
		return domain.NewValidationError("comparison_timeout must be positive")
	}
	return nil
}

// AffinityAnalyzer computes the weighted, three-axis similarity between two
// whole files sharing a base filename.
type AffinityAnalyzer struct {
	config *AffinityConfig
}

// NewAffinityAnalyzer creates an analyzer with the given configuration.
func NewAffinityAnalyzer(config *AffinityConfig) (*AffinityAnalyzer, error) {
	if config == nil {
		config = DefaultAffinityConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &AffinityAnalyzer{config: config}, nil
}

// Compare scores two sibling files. All sub-scores are symmetric in their
// arguments. Warnings record degradations (comparison timeouts, unreadable
// content); they never abort the comparison.
func (a *AffinityAnalyzer) Compare(ctx context.Context, fileA, fileB *domain.SiblingFile) (*domain.AffinityResult, []domain.Warning) {
	result := &domain.AffinityResult{
		FileA: fileA.FilePath,
		FileB: fileB.FilePath,
	}

	// Fast path: matching content hashes prove identity without reading
	// anything.
	if fileA.ContentHash != "" && fileA.ContentHash == fileB.ContentHash {
		result.Overall = 1.0
		result.Level = domain.AffinityIdentical
		result.ContentSimilarity = 1.0
		result.StructureSimilarity = 1.0
		result.DNASimilarity = 1.0
		result.HashMatch = true
		return result, nil
	}

	var warnings []domain.Warning

	content, contentWarnings := a.contentSimilarity(ctx, fileA, fileB)
	warnings = append(warnings, contentWarnings...)

	result.ContentSimilarity = content
	result.StructureSimilarity = a.structureSimilarity(fileA, fileB)
	result.DNASimilarity = a.dnaSimilarity(fileA, fileB)

	result.Overall = a.config.ContentWeight*result.ContentSimilarity +
		a.config.StructureWeight*result.StructureSimilarity +
		a.config.DNAWeight*result.DNASimilarity
	result.Level = domain.AffinityLevelForScore(result.Overall)

	return result, warnings
}

// contentSimilarity aligns a capped byte window of both files. Large inputs
// are gated by a quick estimate, and the full alignment runs under the
// configured wall-clock budget.
func (a *AffinityAnalyzer) contentSimilarity(ctx context.Context, fileA, fileB *domain.SiblingFile) (float64, []domain.Warning) {
	var warnings []domain.Warning

	contentA, errA := a.readWindow(fileA)
	contentB, errB := a.readWindow(fileB)
	if errA != nil || errB != nil {
		if errA != nil {
			warnings = append(warnings, domain.Warning{
				FilePath:  fileA.FilePath,
				Operation: "content_read",
				Message:   errA.Error(),
			})
		}
		if errB != nil {
			warnings = append(warnings, domain.Warning{
				FilePath:  fileB.FilePath,
				Operation: "content_read",
				Message:   errB.Error(),
			})
		}
		return sizeRatioFallback(fileA.Size, fileB.Size), warnings
	}

	if len(contentA) == 0 && len(contentB) == 0 {
		return 0.0, warnings
	}
	if len(contentA) == 0 || len(contentB) == 0 {
		return constants.OneSideEmptySimilarity, warnings
	}

	textA, textB := string(contentA), string(contentB)

	if len(contentA) > constants.LargeContentThreshold || len(contentB) > constants.LargeContentThreshold {
		quick := QuickAlignmentRatio(textA, textB)
		if quick < constants.QuickRatioCutoff {
			return quick, warnings
		}
	}

	ratio, degraded := AlignmentRatioWithBudget(ctx, textA, textB, a.config.ComparisonTimeout)
	if degraded {
		warnings = append(warnings, domain.Warning{
			FilePath:  fileA.FilePath,
			Operation: "content_comparison",
			Message: fmt.Sprintf("alignment with %s exceeded the %s budget, quick estimate used",
				fileB.FilePath, a.config.ComparisonTimeout),
		})
	}
	return ratio, warnings
}

// readWindow returns at most MaxContentBytes of the file, preferring inline
// content handed in by the host over a filesystem read.
func (a *AffinityAnalyzer) readWindow(file *domain.SiblingFile) ([]byte, error) {
	if file.Content != nil {
		if len(file.Content) > a.config.MaxContentBytes {
			return file.Content[:a.config.MaxContentBytes], nil
		}
		return file.Content, nil
	}

	f, err := os.Open(file.FilePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, int64(a.config.MaxContentBytes)))
	if err != nil {
		return nil, err
	}
	return data, nil
}

// sizeRatioFallback is the penalized size-ratio heuristic used when content
// cannot be read.
func sizeRatioFallback(sizeA, sizeB int64) float64 {
	if sizeA == 0 && sizeB == 0 {
		return 0.0
	}
	smaller, larger := float64(sizeA), float64(sizeB)
	if smaller > larger {
		smaller, larger = larger, smaller
	}
	return smaller / larger * constants.IOFailureSizePenalty
}

// structureSimilarity averages Jaccard overlap over the function, class, and
// import axes that have members on either side. Missing structural data on
// either side scores neutral.
func (a *AffinityAnalyzer) structureSimilarity(fileA, fileB *domain.SiblingFile) float64 {
	if !fileA.HasStructuralData() || !fileB.HasStructuralData() {
		return constants.NeutralSimilarity
	}

	total := 0.0
	axes := 0

	score := func(itemsA, itemsB []string) {
		if len(itemsA) == 0 && len(itemsB) == 0 {
			return
		}
		total += jaccardSimilarity(toSet(itemsA), toSet(itemsB))
		axes++
	}

	score(fileA.FunctionNames, fileB.FunctionNames)
	score(fileA.ClassNames, fileB.ClassNames)
	score(fileA.ImportModules, fileB.ImportModules)

	if axes == 0 {
		return constants.NeutralSimilarity
	}
	return total / float64(axes)
}

// dnaSimilarity averages complexity ratio, variable-set overlap, and
// fingerprint prefix agreement. Missing DNA on either side scores neutral.
func (a *AffinityAnalyzer) dnaSimilarity(fileA, fileB *domain.SiblingFile) float64 {
	if !fileA.HasDNA() || !fileB.HasDNA() {
		return constants.NeutralSimilarity
	}

	dnaA, dnaB := fileA.DNA, fileB.DNA

	complexityRatio := 1.0
	if dnaA.ComplexityScore != dnaB.ComplexityScore {
		smaller, larger := dnaA.ComplexityScore, dnaB.ComplexityScore
		if smaller > larger {
			smaller, larger = larger, smaller
		}
		if larger > 0 {
			complexityRatio = smaller / larger
		} else {
			complexityRatio = 0.0
		}
	}

	variableOverlap := jaccardSimilarity(dnaA.VariableNames(), dnaB.VariableNames())
	prefixAgreement := fingerprintAgreement(dnaA.Fingerprint, dnaB.Fingerprint)

	return (complexityRatio + variableOverlap + prefixAgreement) / 3.0
}

// fingerprintAgreement is the character-level agreement over the leading
// fingerprint characters.
func fingerprintAgreement(a, b string) float64 {
	prefix := constants.FingerprintAgreementPrefix
	if len(a) < prefix {
		prefix = len(a)
	}
	if len(b) < prefix {
		prefix = len(b)
	}
	if prefix == 0 {
		return 0.0
	}

	matches := 0
	for i := 0; i < prefix; i++ {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(constants.FingerprintAgreementPrefix)
}
