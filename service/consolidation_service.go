package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/analyzer"
)

// ConsolidationServiceImpl implements the domain.ConsolidationService interface
type ConsolidationServiceImpl struct {
	fileReader  domain.FileReader
	factsLoader *FactsLoader
	progress    domain.ProgressManager
}

// NewConsolidationService creates a new consolidation service
// progress can be nil - the service can work without progress reporting
func NewConsolidationService(fileReader domain.FileReader, progress domain.ProgressManager) *ConsolidationServiceImpl {
	if fileReader == nil {
		fileReader = NewFileReader()
	}
	return &ConsolidationServiceImpl{
		fileReader:  fileReader,
		factsLoader: NewFactsLoader(fileReader),
		progress:    progress,
	}
}

// AnalyzeSiblings runs the consolidation pass over the corpus named by the
// request. A facts document supplies structural facts and DNA; plain paths
// fall back to content-only affinity with neutral structure and DNA scores.
func (s *ConsolidationServiceImpl) AnalyzeSiblings(ctx context.Context, req *domain.ConsolidationRequest) (*domain.ConsolidationResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("consolidation request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid consolidation request: %w", err)
	}

	var files []*domain.SourceFile
	if req.FactsPath != "" {
		loaded, err := s.factsLoader.Load(req.FactsPath)
		if err != nil {
			return nil, err
		}
		files = loaded
	} else {
		collected, err := s.fileReader.CollectSourceFiles(req.Paths, req.Recursive, req.IncludePatterns, req.ExcludePatterns)
		if err != nil {
			return nil, err
		}
		files = s.factsLoader.LoadFromPaths(collected)
	}

	return s.AnalyzeSiblingsInFiles(ctx, files, req)
}

// AnalyzeSiblingsInFiles runs the consolidation pass over already-loaded
// source files.
func (s *ConsolidationServiceImpl) AnalyzeSiblingsInFiles(ctx context.Context, files []*domain.SourceFile, req *domain.ConsolidationRequest) (*domain.ConsolidationResponse, error) {
	if ctx == nil {
		return nil, fmt.Errorf("context cannot be nil")
	}
	if req == nil {
		return nil, fmt.Errorf("consolidation request cannot be nil")
	}
	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no source files to analyze", nil)
	}

	startTime := time.Now()

	affinity, err := analyzer.NewAffinityAnalyzer(&analyzer.AffinityConfig{
		ContentWeight:     req.ContentWeight,
		StructureWeight:   req.StructureWeight,
		DNAWeight:         req.DNAWeight,
		MaxContentBytes:   analyzer.DefaultAffinityConfig().MaxContentBytes,
		ComparisonTimeout: req.ComparisonTimeout,
	})
	if err != nil {
		return nil, err
	}
	selector, err := analyzer.NewMasterSelector(&analyzer.MasterSelectorConfig{
		MaxComparisons: req.MaxComparisons,
	}, affinity)
	if err != nil {
		return nil, err
	}

	siblings, warnings := s.buildSiblingFiles(files)
	groups := s.groupSiblings(siblings)

	if s.progress != nil {
		s.progress.Initialize(len(groups))
		s.progress.Start()
	}

	report := &domain.ConsolidationReport{
		GroupCount: len(groups),
		FileCount:  len(files),
	}

	for i, group := range groups {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("consolidation analysis cancelled: %w", ctx.Err())
		default:
		}

		proposal, proposalWarnings := selector.Propose(ctx, group)
		warnings = append(warnings, proposalWarnings...)
		if proposal == nil {
			continue
		}
		if err := group.SetMasterProposal(proposal); err != nil {
			return nil, err
		}

		// Groups whose members barely resemble each other are noise, not
		// consolidation opportunities.
		if proposal.MeanAffinity() < req.MinAffinityThreshold {
			continue
		}

		report.Entries = append(report.Entries, s.buildEntry(group, proposal))

		if s.progress != nil {
			s.progress.Update(i+1, len(groups))
		}
	}

	if s.progress != nil {
		s.progress.Complete(true)
	}

	sort.SliceStable(report.Entries, func(i, j int) bool {
		if report.Entries[i].Confidence != report.Entries[j].Confidence {
			return report.Entries[i].Confidence > report.Entries[j].Confidence
		}
		return report.Entries[i].FileName < report.Entries[j].FileName
	})
	report.Warnings = warnings

	return &domain.ConsolidationResponse{
		Report:   report,
		Duration: time.Since(startTime).Milliseconds(),
		Success:  true,
	}, nil
}

// buildSiblingFiles converts source files into sibling candidates, attaching
// a DNA profile where data-flow facts are available.
func (s *ConsolidationServiceImpl) buildSiblingFiles(files []*domain.SourceFile) ([]*domain.SiblingFile, []domain.Warning) {
	extractor := analyzer.NewFingerprintExtractor()
	siblings := make([]*domain.SiblingFile, 0, len(files))
	var warnings []domain.Warning

	for _, file := range files {
		sibling := &domain.SiblingFile{
			FilePath:    file.FilePath,
			Directory:   file.Directory(),
			Size:        file.Size,
			ContentHash: file.ContentHash,
			Content:     file.Content,
		}
		if file.HasStructuralData() {
			sibling.FunctionNames = file.FunctionNames()
			sibling.ClassNames = file.ClassNames()
			sibling.ImportModules = file.ImportModules()
		}
		if len(file.DataFlows) > 0 || file.HasStructuralData() {
			dna := extractor.ExtractDNA(file)
			if dna.IsEmpty() {
				warnings = append(warnings, domain.Warning{
					FilePath:  file.FilePath,
					Operation: "dna",
					Message:   "no usable data-flow profile extracted",
				})
			} else {
				sibling.DNA = dna
			}
		}
		siblings = append(siblings, sibling)
	}

	return siblings, warnings
}

// groupSiblings partitions files by base filename. Only base names shared by
// two or more files form a group; the rest have nothing to consolidate.
func (s *ConsolidationServiceImpl) groupSiblings(siblings []*domain.SiblingFile) []*domain.SiblingGroup {
	byName := make(map[string][]*domain.SiblingFile)
	var order []string
	for _, sibling := range siblings {
		name := filepath.Base(sibling.FilePath)
		if _, seen := byName[name]; !seen {
			order = append(order, name)
		}
		byName[name] = append(byName[name], sibling)
	}
	sort.Strings(order)

	var groups []*domain.SiblingGroup
	for _, name := range order {
		members := byName[name]
		if len(members) < 2 {
			continue
		}
		groups = append(groups, &domain.SiblingGroup{BaseName: name, Files: members})
	}
	return groups
}

// buildEntry flattens one proposed group into its report row.
func (s *ConsolidationServiceImpl) buildEntry(group *domain.SiblingGroup, proposal *domain.MasterProposal) *domain.ConsolidationEntry {
	entry := &domain.ConsolidationEntry{
		FileName:        group.BaseName,
		SiblingCount:    len(group.Files),
		MasterPath:      proposal.ProposedMaster.FilePath,
		MasterDirectory: proposal.ProposedMaster.Directory,
		Confidence:      proposal.Confidence,
		Reasons:         proposal.Reasons,
		MeanAffinity:    proposal.MeanAffinity(),
	}
	for _, sibling := range proposal.Siblings {
		entry.Siblings = append(entry.Siblings, domain.SiblingSummary{
			FilePath: sibling.FilePath,
			Size:     sibling.Size,
		})
	}
	return entry
}
