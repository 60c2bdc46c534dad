package domain

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/simscan-dev/simscan/internal/constants"
)

// AffinityLevel is the discrete classification of an overall affinity score.
type AffinityLevel string

const (
	AffinityIdentical AffinityLevel = "IDENTICAL"
	AffinityVeryHigh  AffinityLevel = "VERY_HIGH"
	AffinityHigh      AffinityLevel = "HIGH"
	AffinityMedium    AffinityLevel = "MEDIUM"
	AffinityLow       AffinityLevel = "LOW"
	AffinityMinimal   AffinityLevel = "MINIMAL"
)

// AffinityLevelForScore buckets an overall score into a discrete level.
func AffinityLevelForScore(score float64) AffinityLevel {
	switch {
	case score >= 1.0:
		return AffinityIdentical
	case score >= constants.VeryHighAffinityCutoff:
		return AffinityVeryHigh
	case score >= constants.HighAffinityCutoff:
		return AffinityHigh
	case score >= constants.MediumAffinityCutoff:
		return AffinityMedium
	case score >= constants.LowAffinityCutoff:
		return AffinityLow
	default:
		return AffinityMinimal
	}
}

// SiblingFile is a candidate duplicate whole file: one member of a group of
// files sharing a base filename across directories.
type SiblingFile struct {
	FilePath    string `json:"file_path" yaml:"file_path"`
	Directory   string `json:"directory" yaml:"directory"`
	Size        int64  `json:"size" yaml:"size"`
	ContentHash string `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`

	FunctionNames []string `json:"function_names,omitempty" yaml:"function_names,omitempty"`
	ClassNames    []string `json:"class_names,omitempty" yaml:"class_names,omitempty"`
	ImportModules []string `json:"import_modules,omitempty" yaml:"import_modules,omitempty"`

	DNA *FileDNA `json:"dna,omitempty" yaml:"dna,omitempty"`

	// Content optionally embeds raw text handed in by the host; when empty the
	// engine reads a capped window from FilePath.
	Content []byte `json:"-" yaml:"-"`
}

// HasStructuralData reports whether any symbol sets are available.
func (sf *SiblingFile) HasStructuralData() bool {
	return len(sf.FunctionNames) > 0 || len(sf.ClassNames) > 0 || len(sf.ImportModules) > 0
}

// HasDNA reports whether a usable DNA profile is attached.
func (sf *SiblingFile) HasDNA() bool {
	return sf.DNA != nil && !sf.DNA.IsEmpty()
}

// AffinityResult is the weighted, three-axis similarity between two sibling
// files. HashMatch implies Overall == 1.0 and Level == IDENTICAL.
type AffinityResult struct {
	FileA string `json:"file_a" yaml:"file_a"`
	FileB string `json:"file_b" yaml:"file_b"`

	Overall float64       `json:"overall" yaml:"overall"`
	Level   AffinityLevel `json:"level" yaml:"level"`

	ContentSimilarity   float64 `json:"content_similarity" yaml:"content_similarity"`
	StructureSimilarity float64 `json:"structure_similarity" yaml:"structure_similarity"`
	DNASimilarity       float64 `json:"dna_similarity" yaml:"dna_similarity"`

	HashMatch bool `json:"hash_match" yaml:"hash_match"`
}

// String returns string representation of AffinityResult
func (ar *AffinityResult) String() string {
	return fmt.Sprintf("%s <-> %s: %.3f (%s)", ar.FileA, ar.FileB, ar.Overall, ar.Level)
}

// MasterProposal names the canonical version for one sibling group.
type MasterProposal struct {
	ProposedMaster *SiblingFile      `json:"proposed_master" yaml:"proposed_master"`
	Siblings       []*SiblingFile    `json:"siblings" yaml:"siblings"`
	Confidence     float64           `json:"confidence" yaml:"confidence"`
	Reasons        []string          `json:"reasons" yaml:"reasons"`
	AffinityMatrix []*AffinityResult `json:"affinity_matrix" yaml:"affinity_matrix"`

	// Sampled is true when the affinity matrix was computed over a
	// representative subset because the group exceeded the comparison cap.
	Sampled bool `json:"sampled,omitempty" yaml:"sampled,omitempty"`
}

// MeanAffinity returns the arithmetic mean of the overall scores in the
// affinity matrix, 0 when the matrix is empty.
func (mp *MasterProposal) MeanAffinity() float64 {
	if len(mp.AffinityMatrix) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range mp.AffinityMatrix {
		total += r.Overall
	}
	return total / float64(len(mp.AffinityMatrix))
}

// SiblingGroup holds all files sharing one base filename across directories.
// A group exists only with two or more members. Its proposal is set exactly
// once and treated as immutable afterwards.
type SiblingGroup struct {
	BaseName string         `json:"base_name" yaml:"base_name"`
	Files    []*SiblingFile `json:"files" yaml:"files"`

	MasterProposal *MasterProposal `json:"master_proposal,omitempty" yaml:"master_proposal,omitempty"`
}

// SetMasterProposal attaches the proposal. A second call is rejected so the
// set-once lifecycle holds.
func (sg *SiblingGroup) SetMasterProposal(proposal *MasterProposal) error {
	if sg.MasterProposal != nil {
		return NewAnalysisError(fmt.Sprintf("master proposal already set for group %q", sg.BaseName), nil)
	}
	sg.MasterProposal = proposal
	return nil
}

// SiblingSummary is the per-sibling line in a consolidation report entry.
type SiblingSummary struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Size     int64  `json:"size" yaml:"size"`
}

// ConsolidationEntry is one sibling group's row in the consolidation report.
type ConsolidationEntry struct {
	FileName        string           `json:"file_name" yaml:"file_name"`
	SiblingCount    int              `json:"sibling_count" yaml:"sibling_count"`
	MasterPath      string           `json:"master_path" yaml:"master_path"`
	MasterDirectory string           `json:"master_directory" yaml:"master_directory"`
	Confidence      float64          `json:"confidence" yaml:"confidence"`
	Reasons         []string         `json:"reasons" yaml:"reasons"`
	MeanAffinity    float64          `json:"mean_affinity" yaml:"mean_affinity"`
	Siblings        []SiblingSummary `json:"siblings" yaml:"siblings"`
}

// ConsolidationReport aggregates proposals across all sibling groups, sorted
// by confidence descending.
type ConsolidationReport struct {
	Entries    []*ConsolidationEntry `json:"entries" yaml:"entries"`
	GroupCount int                   `json:"group_count" yaml:"group_count"`
	FileCount  int                   `json:"file_count" yaml:"file_count"`
	Warnings   []Warning             `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// ConsolidationRequest carries everything a consolidation pass needs.
type ConsolidationRequest struct {
	// Input
	FactsPath       string   `json:"facts_path,omitempty"`
	Paths           []string `json:"paths,omitempty"`
	Recursive       bool     `json:"recursive"`
	IncludePatterns []string `json:"include_patterns,omitempty"`
	ExcludePatterns []string `json:"exclude_patterns,omitempty"`

	// Affinity configuration
	ContentWeight     float64       `json:"content_weight"`
	StructureWeight   float64       `json:"structure_weight"`
	DNAWeight         float64       `json:"dna_weight"`
	ComparisonTimeout time.Duration `json:"comparison_timeout"`

	// Proposal configuration
	MaxComparisons       int     `json:"max_comparisons"`
	MinAffinityThreshold float64 `json:"min_affinity_threshold"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`

	// Configuration file
	ConfigPath string `json:"config_path,omitempty"`
}

// Validate rejects configuration errors eagerly.
func (req *ConsolidationRequest) Validate() error {
	if req.FactsPath == "" && len(req.Paths) == 0 {
		return NewValidationError("either a facts document or input paths must be provided")
	}
	sum := req.ContentWeight + req.StructureWeight + req.DNAWeight
	if math.Abs(sum-1.0) > 0.001 {
		return NewValidationError(fmt.Sprintf("affinity weights must sum to 1.0, got %.3f", sum))
	}
	if req.ContentWeight < 0 || req.StructureWeight < 0 || req.DNAWeight < 0 {
		return NewValidationError("affinity weights must be non-negative")
	}
	if req.MaxComparisons < 1 {
		return NewValidationError("max_comparisons must be >= 1")
	}
	if req.MinAffinityThreshold < 0.0 || req.MinAffinityThreshold > 1.0 {
		return NewValidationError("min_affinity_threshold must be between 0.0 and 1.0")
	}
	if req.ComparisonTimeout <= 0 {
		return NewValidationError("comparison_timeout must be positive")
	}
	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *ConsolidationRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// ConsolidationResponse represents the response from a consolidation pass
type ConsolidationResponse struct {
	Report *ConsolidationReport `json:"report" yaml:"report"`

	Duration int64 `json:"duration_ms" yaml:"duration_ms"`
	Success  bool  `json:"success" yaml:"success"`
}

// ConsolidationService defines the interface for sibling analysis services
type ConsolidationService interface {
	// AnalyzeSiblings groups the corpus by base filename, scores affinity,
	// proposes masters, and aggregates the consolidation report.
	AnalyzeSiblings(ctx context.Context, req *ConsolidationRequest) (*ConsolidationResponse, error)

	// AnalyzeSiblingsInFiles runs the pass over already-loaded source files.
	AnalyzeSiblingsInFiles(ctx context.Context, files []*SourceFile, req *ConsolidationRequest) (*ConsolidationResponse, error)
}

// ConsolidationOutputFormatter defines the interface for formatting consolidation results
type ConsolidationOutputFormatter interface {
	FormatConsolidationResponse(response *ConsolidationResponse, format OutputFormat, writer io.Writer) error
}
