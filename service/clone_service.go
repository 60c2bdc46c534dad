package service

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/analyzer"
)

// CloneServiceImpl implements the domain.CloneService interface
type CloneServiceImpl struct {
	fileReader  domain.FileReader
	factsLoader *FactsLoader
	progress    domain.ProgressManager
}

// NewCloneService creates a new clone service
// progress can be nil - the service can work without progress reporting
func NewCloneService(fileReader domain.FileReader, progress domain.ProgressManager) *CloneServiceImpl {
	if fileReader == nil {
		fileReader = NewFileReader()
	}
	return &CloneServiceImpl{
		fileReader:  fileReader,
		factsLoader: NewFactsLoader(fileReader),
		progress:    progress,
	}
}

// DetectClones performs clone detection on the corpus named by the request
func (s *CloneServiceImpl) DetectClones(ctx context.Context, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("clone request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid clone request: %w", err)
	}

	var files []*domain.SourceFile
	if req.FactsPath != "" {
		loaded, err := s.factsLoader.Load(req.FactsPath)
		if err != nil {
			return nil, err
		}
		files = loaded
	} else {
		// Without a facts document there are no symbol spans to cut fragments
		// from, so the run degrades to an empty report over the raw paths.
		collected, err := s.fileReader.CollectSourceFiles(req.Paths, true, nil, nil)
		if err != nil {
			return nil, err
		}
		files = s.factsLoader.LoadFromPaths(collected)
	}

	return s.DetectClonesInFiles(ctx, files, req)
}

// DetectClonesInFiles performs clone detection on already-loaded source files
func (s *CloneServiceImpl) DetectClonesInFiles(ctx context.Context, files []*domain.SourceFile, req *domain.CloneRequest) (*domain.CloneResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("clone request cannot be nil")
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no source files to analyze", nil)
	}

	startTime := time.Now()

	detector, err := analyzer.NewCloneDetector(&analyzer.CloneDetectorConfig{
		MinLines:            req.MinLines,
		MinTokens:           req.MinTokens,
		SimilarityThreshold: req.SimilarityThreshold,
	})
	if err != nil {
		return nil, err
	}

	if s.progress != nil {
		s.progress.Initialize(len(files))
		s.progress.Start()
	}

	fragments, totalLines, warnings := s.extractAllFragments(ctx, detector, files)

	if s.progress != nil {
		s.progress.Complete(true)
	}

	pairs, groups, err := detector.DetectClones(ctx, fragments)
	if err != nil {
		return nil, err
	}

	s.sortPairs(pairs, req.SortBy)

	report := s.buildReport(fragments, pairs, groups, totalLines, len(files), warnings)
	suggestions := detector.BuildSuggestions(groups)

	return &domain.CloneResponse{
		Report:      report,
		Suggestions: suggestions,
		Duration:    time.Since(startTime).Milliseconds(),
		Success:     true,
	}, nil
}

// fileExtraction is the per-file result of the parallel fragment pass.
type fileExtraction struct {
	fragments []*domain.Fragment
	lineCount int
	warning   *domain.Warning
}

// extractAllFragments runs fragment extraction over all files in parallel.
// Results are accumulated per file index so the merged fragment order is
// deterministic regardless of scheduling.
func (s *CloneServiceImpl) extractAllFragments(ctx context.Context, detector *analyzer.CloneDetector, files []*domain.SourceFile) ([]*domain.Fragment, int, []domain.Warning) {
	results := make([]fileExtraction, len(files))

	p := pool.New().WithMaxGoroutines(runtime.NumCPU())
	for i, file := range files {
		i, file := i, file
		p.Go(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			content := file.Content
			if len(content) == 0 {
				var err error
				content, err = s.fileReader.ReadFile(file.FilePath)
				if err != nil {
					results[i] = fileExtraction{warning: &domain.Warning{
						FilePath:  file.FilePath,
						Operation: "read",
						Message:   err.Error(),
					}}
					return
				}
			}

			results[i] = fileExtraction{
				fragments: detector.ExtractFragments(file, content),
				lineCount: bytes.Count(content, []byte("\n")) + 1,
			}

			if s.progress != nil {
				s.progress.Update(i+1, len(files))
			}
		})
	}
	p.Wait()

	var fragments []*domain.Fragment
	var warnings []domain.Warning
	totalLines := 0
	for _, res := range results {
		fragments = append(fragments, res.fragments...)
		totalLines += res.lineCount
		if res.warning != nil {
			warnings = append(warnings, *res.warning)
		}
	}
	return fragments, totalLines, warnings
}

// buildReport aggregates detection results into the report structure.
func (s *CloneServiceImpl) buildReport(fragments []*domain.Fragment, pairs []*domain.ClonePair, groups []*domain.CloneGroup, totalLines, filesAnalyzed int, warnings []domain.Warning) *domain.CloneReport {
	report := &domain.CloneReport{
		TotalFragments: len(fragments),
		Pairs:          pairs,
		Groups:         groups,
		TotalLines:     totalLines,
		PairsByFile:    make(map[string][]*domain.ClonePair),
		CountsByType:   make(map[string]int),
		FilesAnalyzed:  filesAnalyzed,
		Warnings:       warnings,
	}

	for _, pair := range pairs {
		report.CountsByType[pair.Type.String()]++
		report.PairsByFile[pair.FragmentA.SourceFile] = append(report.PairsByFile[pair.FragmentA.SourceFile], pair)
		if pair.FragmentB.SourceFile != pair.FragmentA.SourceFile {
			report.PairsByFile[pair.FragmentB.SourceFile] = append(report.PairsByFile[pair.FragmentB.SourceFile], pair)
		}
	}

	for _, group := range groups {
		report.DuplicatedLines += group.TotalLines
	}
	if report.TotalLines > 0 {
		report.DuplicationRatio = float64(report.DuplicatedLines) / float64(report.TotalLines)
		if report.DuplicationRatio > 1.0 {
			report.DuplicationRatio = 1.0
		}
	}

	return report
}

// sortPairs orders clone pairs according to the requested criteria.
func (s *CloneServiceImpl) sortPairs(pairs []*domain.ClonePair, criteria domain.SortCriteria) {
	switch criteria {
	case domain.SortByLocation:
		sort.SliceStable(pairs, func(i, j int) bool {
			a, b := pairs[i].FragmentA, pairs[j].FragmentA
			if a.SourceFile != b.SourceFile {
				return a.SourceFile < b.SourceFile
			}
			return a.StartLine < b.StartLine
		})
	default:
		// Similarity descending; exact clones first
		sort.SliceStable(pairs, func(i, j int) bool {
			if pairs[i].Similarity != pairs[j].Similarity {
				return pairs[i].Similarity > pairs[j].Similarity
			}
			return pairs[i].Type.MoreSpecificThan(pairs[j].Type)
		})
	}
}
