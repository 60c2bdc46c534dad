package domain

import (
	"context"
	"fmt"
	"io"
)

// CloneType represents different types of code clones, in increasing order of
// textual divergence.
type CloneType int

const (
	// ExactClone (Type-1) - byte-identical fragments.
	ExactClone CloneType = iota + 1
	// RenamedClone (Type-2) - identical after consistent identifier renaming.
	RenamedClone
	// NearMissClone (Type-3) - similar fragments with small modifications.
	NearMissClone
)

// String returns string representation of CloneType
func (ct CloneType) String() string {
	switch ct {
	case ExactClone:
		return "Type-1 (Exact)"
	case RenamedClone:
		return "Type-2 (Renamed)"
	case NearMissClone:
		return "Type-3 (Near-Miss)"
	default:
		return "Unknown"
	}
}

// MoreSpecificThan reports whether ct outranks other (exact > renamed >
// near-miss) when deciding a group-level clone type.
func (ct CloneType) MoreSpecificThan(other CloneType) bool {
	return ct < other
}

// FragmentKind distinguishes the comparison units fragments are cut from.
type FragmentKind string

const (
	FragmentFunction FragmentKind = "function"
	FragmentClass    FragmentKind = "class"
)

// Fragment is a function- or class-level code unit extracted for clone
// comparison. Immutable once extracted; lifetime is one detection run.
type Fragment struct {
	SourceFile string       `json:"source_file" yaml:"source_file"`
	Name       string       `json:"name" yaml:"name"`
	Kind       FragmentKind `json:"kind" yaml:"kind"`
	StartLine  int          `json:"start_line" yaml:"start_line"`
	EndLine    int          `json:"end_line" yaml:"end_line"`

	RawText        string `json:"-" yaml:"-"`
	NormalizedText string `json:"-" yaml:"-"`

	ExactHash      string `json:"exact_hash" yaml:"exact_hash"`
	NormalizedHash string `json:"normalized_hash" yaml:"normalized_hash"`

	CyclomaticComplexity int `json:"cyclomatic_complexity" yaml:"cyclomatic_complexity"`
	TokenCount           int `json:"token_count" yaml:"token_count"`
}

// Key identifies a fragment within one detection run.
func (f *Fragment) Key() string {
	return fmt.Sprintf("%s:%s:%d", f.SourceFile, f.Name, f.StartLine)
}

// LineCount returns the number of source lines the fragment spans.
func (f *Fragment) LineCount() int {
	return f.EndLine - f.StartLine + 1
}

// Overlaps reports whether two fragments from the same file intersect in line
// range.
func (f *Fragment) Overlaps(other *Fragment) bool {
	if f.SourceFile != other.SourceFile {
		return false
	}
	return f.StartLine <= other.EndLine && other.StartLine <= f.EndLine
}

// String returns string representation of Fragment
func (f *Fragment) String() string {
	return fmt.Sprintf("%s %q %s:%d-%d", f.Kind, f.Name, f.SourceFile, f.StartLine, f.EndLine)
}

// ClonePair is a pair of fragments classified under exactly one clone type.
type ClonePair struct {
	FragmentA      *Fragment `json:"fragment_a" yaml:"fragment_a"`
	FragmentB      *Fragment `json:"fragment_b" yaml:"fragment_b"`
	Type           CloneType `json:"type" yaml:"type"`
	Similarity     float64   `json:"similarity" yaml:"similarity"`
	DifferingLines int       `json:"differing_lines" yaml:"differing_lines"`
}

// String returns string representation of ClonePair
func (cp *ClonePair) String() string {
	return fmt.Sprintf("%s: %s <-> %s (similarity: %.3f)",
		cp.Type.String(), cp.FragmentA.String(), cp.FragmentB.String(), cp.Similarity)
}

// CloneGroup is a connected component over clone pairs: one representative
// fragment plus the remaining members.
type CloneGroup struct {
	ID             int         `json:"id" yaml:"id"`
	Representative *Fragment   `json:"representative" yaml:"representative"`
	Members        []*Fragment `json:"members" yaml:"members"`
	Type           CloneType   `json:"type" yaml:"type"`
	Similarity     float64     `json:"similarity" yaml:"similarity"`
	TotalLines     int         `json:"total_lines" yaml:"total_lines"`
}

// Size returns the number of fragments in the group, representative included.
func (cg *CloneGroup) Size() int {
	return 1 + len(cg.Members)
}

// AllFragments returns the representative followed by the remaining members.
func (cg *CloneGroup) AllFragments() []*Fragment {
	all := make([]*Fragment, 0, cg.Size())
	all = append(all, cg.Representative)
	all = append(all, cg.Members...)
	return all
}

// String returns string representation of CloneGroup
func (cg *CloneGroup) String() string {
	return fmt.Sprintf("CloneGroup{ID: %d, Type: %s, Size: %d, Similarity: %.3f}",
		cg.ID, cg.Type.String(), cg.Size(), cg.Similarity)
}

// CloneReport aggregates the results of one detection run.
type CloneReport struct {
	TotalFragments  int                     `json:"total_fragments" yaml:"total_fragments"`
	Pairs           []*ClonePair            `json:"pairs" yaml:"pairs"`
	Groups          []*CloneGroup           `json:"groups" yaml:"groups"`
	DuplicatedLines int                     `json:"duplicated_lines" yaml:"duplicated_lines"`
	TotalLines      int                     `json:"total_lines" yaml:"total_lines"`
	DuplicationRatio float64                `json:"duplication_ratio" yaml:"duplication_ratio"`
	PairsByFile     map[string][]*ClonePair `json:"pairs_by_file,omitempty" yaml:"pairs_by_file,omitempty"`
	CountsByType    map[string]int          `json:"counts_by_type" yaml:"counts_by_type"`
	FilesAnalyzed   int                     `json:"files_analyzed" yaml:"files_analyzed"`
	Warnings        []Warning               `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// DedupSuggestion ranks one clone group as a deduplication opportunity.
type DedupSuggestion struct {
	Representative   *Fragment   `json:"representative" yaml:"representative"`
	Clones           []*Fragment `json:"clones" yaml:"clones"`
	Type             CloneType   `json:"type" yaml:"type"`
	Similarity       float64     `json:"similarity" yaml:"similarity"`
	TotalLines       int         `json:"total_lines" yaml:"total_lines"`
	PotentialSavings int         `json:"potential_savings_lines" yaml:"potential_savings_lines"`
	Hint             string      `json:"hint" yaml:"hint"`
}

// CloneRequest carries everything a clone detection run needs.
type CloneRequest struct {
	// Input
	FactsPath string   `json:"facts_path,omitempty"`
	Paths     []string `json:"paths,omitempty"`

	// Analysis configuration
	MinLines            int     `json:"min_lines"`
	MinTokens           int     `json:"min_tokens"`
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// Output configuration
	OutputFormat OutputFormat `json:"output_format"`
	OutputWriter io.Writer    `json:"-"`
	ShowContent  bool         `json:"show_content"`
	SortBy       SortCriteria `json:"sort_by"`

	// Configuration file
	ConfigPath string `json:"config_path,omitempty"`
}

// Validate rejects configuration errors eagerly instead of tolerating them
// mid-run.
func (req *CloneRequest) Validate() error {
	if req.FactsPath == "" && len(req.Paths) == 0 {
		return NewValidationError("either a facts document or input paths must be provided")
	}
	if req.MinLines < 1 {
		return NewValidationError("min_lines must be >= 1")
	}
	if req.MinTokens < 1 {
		return NewValidationError("min_tokens must be >= 1")
	}
	if req.SimilarityThreshold < 0.0 || req.SimilarityThreshold > 1.0 {
		return NewValidationError("similarity_threshold must be between 0.0 and 1.0")
	}
	return nil
}

// HasValidOutputWriter checks if the request has a valid output writer
func (req *CloneRequest) HasValidOutputWriter() bool {
	return req.OutputWriter != nil
}

// CloneResponse represents the response from clone detection
type CloneResponse struct {
	Report      *CloneReport       `json:"report" yaml:"report"`
	Suggestions []*DedupSuggestion `json:"suggestions" yaml:"suggestions"`

	Duration int64 `json:"duration_ms" yaml:"duration_ms"`
	Success  bool  `json:"success" yaml:"success"`
}

// CloneService defines the interface for clone detection services
type CloneService interface {
	// DetectClones runs detection over the corpus described by the request.
	DetectClones(ctx context.Context, req *CloneRequest) (*CloneResponse, error)

	// DetectClonesInFiles runs detection over already-loaded source files.
	DetectClonesInFiles(ctx context.Context, files []*SourceFile, req *CloneRequest) (*CloneResponse, error)
}

// CloneOutputFormatter defines the interface for formatting clone detection results
type CloneOutputFormatter interface {
	FormatCloneResponse(response *CloneResponse, format OutputFormat, writer io.Writer) error
}
