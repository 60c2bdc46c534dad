package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffinityLevelForScore(t *testing.T) {
	tests := []struct {
		score    float64
		expected AffinityLevel
	}{
		{1.0, AffinityIdentical},
		{0.95, AffinityVeryHigh},
		{0.9, AffinityVeryHigh},
		{0.85, AffinityHigh},
		{0.7, AffinityHigh},
		{0.6, AffinityMedium},
		{0.5, AffinityMedium},
		{0.4, AffinityLow},
		{0.3, AffinityLow},
		{0.1, AffinityMinimal},
		{0.0, AffinityMinimal},
	}

	for _, tt := range tests {
		t.Run(string(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, AffinityLevelForScore(tt.score), "score %.2f", tt.score)
		})
	}
}

func TestSiblingFile_HasStructuralData(t *testing.T) {
	assert.False(t, (&SiblingFile{}).HasStructuralData())
	assert.True(t, (&SiblingFile{FunctionNames: []string{"f"}}).HasStructuralData())
	assert.True(t, (&SiblingFile{ImportModules: []string{"os"}}).HasStructuralData())
}

func TestSiblingFile_HasDNA(t *testing.T) {
	assert.False(t, (&SiblingFile{}).HasDNA())
	assert.False(t, (&SiblingFile{DNA: &FileDNA{}}).HasDNA(), "An empty profile is no profile")
	assert.True(t, (&SiblingFile{DNA: &FileDNA{ComplexityScore: 1.0}}).HasDNA())
}

func TestMasterProposal_MeanAffinity(t *testing.T) {
	empty := &MasterProposal{}
	assert.Equal(t, 0.0, empty.MeanAffinity())

	proposal := &MasterProposal{
		AffinityMatrix: []*AffinityResult{
			{Overall: 0.8},
			{Overall: 0.6},
			{Overall: 1.0},
		},
	}
	assert.InDelta(t, 0.8, proposal.MeanAffinity(), 1e-9)
}

func TestSiblingGroup_SetMasterProposalOnce(t *testing.T) {
	group := &SiblingGroup{BaseName: "util.py"}

	first := &MasterProposal{Confidence: 0.9}
	require.NoError(t, group.SetMasterProposal(first))
	assert.Equal(t, first, group.MasterProposal)

	err := group.SetMasterProposal(&MasterProposal{Confidence: 0.1})
	assert.Error(t, err, "The proposal is set exactly once")
	assert.Equal(t, first, group.MasterProposal, "A rejected second set must not clobber the first")
}

func TestConsolidationRequest_Validate(t *testing.T) {
	valid := DefaultConsolidationRequest()
	valid.Paths = []string{"src/"}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ConsolidationRequest)
	}{
		{"no input", func(r *ConsolidationRequest) { r.Paths = nil; r.FactsPath = "" }},
		{"weights not summing to one", func(r *ConsolidationRequest) { r.ContentWeight = 0.9 }},
		{"negative weight", func(r *ConsolidationRequest) {
			r.ContentWeight = -0.2
			r.StructureWeight = 0.9
			r.DNAWeight = 0.3
		}},
		{"zero max comparisons", func(r *ConsolidationRequest) { r.MaxComparisons = 0 }},
		{"affinity threshold above one", func(r *ConsolidationRequest) { r.MinAffinityThreshold = 1.5 }},
		{"zero comparison timeout", func(r *ConsolidationRequest) { r.ComparisonTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := DefaultConsolidationRequest()
			req.Paths = []string{"src/"}
			tt.mutate(req)
			assert.Error(t, req.Validate())
		})
	}
}

func TestDefaultConsolidationRequest(t *testing.T) {
	req := DefaultConsolidationRequest()

	assert.True(t, req.Recursive)
	assert.InDelta(t, 1.0, req.ContentWeight+req.StructureWeight+req.DNAWeight, 0.001)
	assert.Equal(t, 500, req.MaxComparisons)
	assert.Equal(t, 0.3, req.MinAffinityThreshold)
	assert.Equal(t, OutputFormatText, req.OutputFormat)
}

func TestOutputFormat_IsValid(t *testing.T) {
	assert.True(t, OutputFormatText.IsValid())
	assert.True(t, OutputFormatJSON.IsValid())
	assert.True(t, OutputFormatYAML.IsValid())
	assert.True(t, OutputFormatCSV.IsValid())
	assert.False(t, OutputFormat("html").IsValid())
}
