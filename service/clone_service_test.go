package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simscan-dev/simscan/domain"
)

const dupFunctionBody = `def process(records):
    total = 0
    for record in records:
        if record.valid:
            total += record.value
    return total
`

func sourceFileWithFunction(path, name string) *domain.SourceFile {
	return &domain.SourceFile{
		FilePath: path,
		Content:  []byte(dupFunctionBody),
		Functions: []domain.FunctionInfo{
			{Name: name, Line: 1, EndLine: 6, Params: []string{"records"}},
		},
	}
}

func cloneRequestForTest() *domain.CloneRequest {
	req := domain.DefaultCloneRequest()
	req.Paths = []string{"unused"}
	req.MinLines = 3
	req.MinTokens = 5
	return req
}

func TestCloneService_DetectClonesInFiles(t *testing.T) {
	service := NewCloneService(NewFileReader(), nil)

	files := []*domain.SourceFile{
		sourceFileWithFunction("src/a.py", "process"),
		sourceFileWithFunction("lib/b.py", "process"),
	}

	response, err := service.DetectClonesInFiles(context.Background(), files, cloneRequestForTest())
	require.NoError(t, err)
	require.True(t, response.Success)

	report := response.Report
	assert.Equal(t, 2, report.FilesAnalyzed)
	assert.Equal(t, 2, report.TotalFragments)
	require.Len(t, report.Pairs, 1)
	assert.Equal(t, domain.ExactClone, report.Pairs[0].Type)
	assert.Equal(t, 1, report.CountsByType[domain.ExactClone.String()])
	require.Len(t, report.Groups, 1)
	assert.Equal(t, 12, report.DuplicatedLines)
	assert.Greater(t, report.DuplicationRatio, 0.0)
	assert.LessOrEqual(t, report.DuplicationRatio, 1.0)

	require.Len(t, response.Suggestions, 1)
	assert.Equal(t, 6, response.Suggestions[0].PotentialSavings)
}

func TestCloneService_PairsIndexedByBothFiles(t *testing.T) {
	service := NewCloneService(NewFileReader(), nil)

	files := []*domain.SourceFile{
		sourceFileWithFunction("src/a.py", "process"),
		sourceFileWithFunction("lib/b.py", "process"),
	}

	response, err := service.DetectClonesInFiles(context.Background(), files, cloneRequestForTest())
	require.NoError(t, err)

	byFile := response.Report.PairsByFile
	assert.Len(t, byFile["src/a.py"], 1)
	assert.Len(t, byFile["lib/b.py"], 1)
}

func TestCloneService_UnreadableFileBecomesWarning(t *testing.T) {
	service := NewCloneService(NewFileReader(), nil)

	files := []*domain.SourceFile{
		sourceFileWithFunction("src/a.py", "process"),
		{FilePath: "/nonexistent/b.py"},
	}

	response, err := service.DetectClonesInFiles(context.Background(), files, cloneRequestForTest())
	require.NoError(t, err, "A single unreadable file must not abort the batch")

	require.Len(t, response.Report.Warnings, 1)
	assert.Equal(t, "/nonexistent/b.py", response.Report.Warnings[0].FilePath)
	assert.Equal(t, "read", response.Report.Warnings[0].Operation)
}

func TestCloneService_NoStructuralFactsYieldsEmptyReport(t *testing.T) {
	service := NewCloneService(NewFileReader(), nil)

	files := []*domain.SourceFile{
		{FilePath: "a.py", Content: []byte("x = 1\ny = 2\n")},
		{FilePath: "b.py", Content: []byte("x = 1\ny = 2\n")},
	}

	response, err := service.DetectClonesInFiles(context.Background(), files, cloneRequestForTest())
	require.NoError(t, err)

	assert.Zero(t, response.Report.TotalFragments,
		"Without symbol spans there is nothing to cut fragments from")
	assert.Empty(t, response.Report.Pairs)
	assert.True(t, response.Success)
}

func TestCloneService_SortByLocation(t *testing.T) {
	service := NewCloneService(NewFileReader(), nil)

	files := []*domain.SourceFile{
		sourceFileWithFunction("z/late.py", "process"),
		sourceFileWithFunction("a/early.py", "process"),
		sourceFileWithFunction("m/middle.py", "process"),
	}

	req := cloneRequestForTest()
	req.SortBy = domain.SortByLocation

	response, err := service.DetectClonesInFiles(context.Background(), files, req)
	require.NoError(t, err)
	require.Len(t, response.Report.Pairs, 3)

	previous := ""
	for _, pair := range response.Report.Pairs {
		assert.GreaterOrEqual(t, pair.FragmentA.SourceFile, previous)
		previous = pair.FragmentA.SourceFile
	}
}

func TestCloneService_InvalidRequest(t *testing.T) {
	service := NewCloneService(NewFileReader(), nil)

	req := domain.DefaultCloneRequest()
	// Neither facts document nor paths.
	_, err := service.DetectClones(context.Background(), req)
	assert.Error(t, err)

	_, err = service.DetectClones(context.Background(), nil)
	assert.Error(t, err)
}

func TestCloneService_EmptyCorpus(t *testing.T) {
	service := NewCloneService(NewFileReader(), nil)

	_, err := service.DetectClonesInFiles(context.Background(), nil, cloneRequestForTest())
	assert.Error(t, err)
}
