package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/analyzer"
)

func consolidationRequestForTest() *domain.ConsolidationRequest {
	req := domain.DefaultConsolidationRequest()
	req.Paths = []string{"unused"}
	return req
}

func siblingSource(path, content string) *domain.SourceFile {
	return &domain.SourceFile{
		FilePath:    path,
		Size:        int64(len(content)),
		ContentHash: analyzer.ContentHash([]byte(content)),
		Content:     []byte(content),
	}
}

func TestConsolidationService_AnalyzeSiblingsInFiles(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	body := "shared = 1\nvalue = shared + 1\n"
	files := []*domain.SourceFile{
		siblingSource("src/util.py", body),
		siblingSource("backup/util.py", body),
		siblingSource("src/unrelated.py", "only = 1\n"),
	}

	response, err := service.AnalyzeSiblingsInFiles(context.Background(), files, consolidationRequestForTest())
	require.NoError(t, err)
	require.True(t, response.Success)

	report := response.Report
	assert.Equal(t, 3, report.FileCount)
	assert.Equal(t, 1, report.GroupCount, "Only base names shared by two or more files form groups")
	require.Len(t, report.Entries, 1)

	entry := report.Entries[0]
	assert.Equal(t, "util.py", entry.FileName)
	assert.Equal(t, 2, entry.SiblingCount)
	assert.Equal(t, "src/util.py", entry.MasterPath,
		"The backup copy must lose to the live copy")
	assert.Equal(t, "src", entry.MasterDirectory)
	require.Len(t, entry.Siblings, 1)
	assert.Equal(t, "backup/util.py", entry.Siblings[0].FilePath)
	assert.Greater(t, entry.MeanAffinity, 0.9, "Identical content means near-perfect affinity")
}

func TestConsolidationService_ThresholdFiltersWeakGroups(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	files := []*domain.SourceFile{
		siblingSource("a/conf.py", "alpha = 1\nbeta = 2\ngamma = 3\n"),
		siblingSource("b/conf.py", "totally\ndifferent\ntext\nhere\n"),
	}

	strict := consolidationRequestForTest()
	strict.MinAffinityThreshold = 0.9

	response, err := service.AnalyzeSiblingsInFiles(context.Background(), files, strict)
	require.NoError(t, err)

	assert.Equal(t, 1, response.Report.GroupCount,
		"Filtered groups still count as analyzed")
	assert.Empty(t, response.Report.Entries)

	permissive := consolidationRequestForTest()
	permissive.MinAffinityThreshold = 0.0

	response, err = service.AnalyzeSiblingsInFiles(context.Background(), files, permissive)
	require.NoError(t, err)
	assert.Len(t, response.Report.Entries, 1)
}

func TestConsolidationService_EntriesSortedByConfidence(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	body := "x = 1\ny = 2\n"
	files := []*domain.SourceFile{
		// A clear winner for parser.py, a dead heat for util.py.
		siblingSource("src/util.py", body),
		siblingSource("lib/util.py", body),
		siblingSource("src/parser.py", body),
		siblingSource("backup/parser.py", body),
	}
	files[2].Functions = []domain.FunctionInfo{{Name: "parse", Line: 1, EndLine: 2}}

	req := consolidationRequestForTest()
	req.MinAffinityThreshold = 0.0

	response, err := service.AnalyzeSiblingsInFiles(context.Background(), files, req)
	require.NoError(t, err)
	require.Len(t, response.Report.Entries, 2)

	entries := response.Report.Entries
	assert.GreaterOrEqual(t, entries[0].Confidence, entries[1].Confidence)
	assert.Equal(t, "parser.py", entries[0].FileName)
}

func TestConsolidationService_StructuralFactsProduceDNA(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	withFacts := &domain.SourceFile{
		FilePath: "src/flow.py",
		Content:  []byte("x = 1\n"),
		Functions: []domain.FunctionInfo{
			{Name: "f", Line: 1, EndLine: 1},
		},
		DataFlows: []domain.DataFlowEvent{
			{Variable: "x", Line: 1, Access: domain.AccessWrite, Scope: "f"},
		},
	}
	siblings, warnings := service.buildSiblingFiles([]*domain.SourceFile{withFacts})

	require.Len(t, siblings, 1)
	assert.Empty(t, warnings)
	assert.True(t, siblings[0].HasDNA())
	assert.Equal(t, []string{"f"}, siblings[0].FunctionNames)
}

func TestConsolidationService_PlainFilesStayNeutral(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	siblings, warnings := service.buildSiblingFiles([]*domain.SourceFile{
		siblingSource("a/x.py", "x = 1\n"),
	})

	require.Len(t, siblings, 1)
	assert.Empty(t, warnings)
	assert.False(t, siblings[0].HasDNA())
	assert.False(t, siblings[0].HasStructuralData())
}

func TestConsolidationService_GroupSiblings(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	groups := service.groupSiblings([]*domain.SiblingFile{
		{FilePath: "a/util.py"},
		{FilePath: "b/util.py"},
		{FilePath: "c/alone.py"},
		{FilePath: "d/model.py"},
		{FilePath: "e/model.py"},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "model.py", groups[0].BaseName, "Groups come out in sorted base-name order")
	assert.Equal(t, "util.py", groups[1].BaseName)
	assert.Len(t, groups[0].Files, 2)
}

func TestConsolidationService_CancelledContext(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []*domain.SourceFile{
		siblingSource("a/x.py", "x = 1\n"),
		siblingSource("b/x.py", "x = 1\n"),
	}

	_, err := service.AnalyzeSiblingsInFiles(ctx, files, consolidationRequestForTest())
	assert.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConsolidationService_InvalidRequest(t *testing.T) {
	service := NewConsolidationService(NewFileReader(), nil)

	_, err := service.AnalyzeSiblings(context.Background(), domain.DefaultConsolidationRequest())
	assert.Error(t, err, "A request without input must be rejected")

	_, err = service.AnalyzeSiblingsInFiles(context.Background(), nil, consolidationRequestForTest())
	assert.Error(t, err)
}
