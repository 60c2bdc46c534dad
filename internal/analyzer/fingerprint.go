package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/simscan-dev/simscan/domain"
	"github.com/simscan-dev/simscan/internal/constants"
)

// FingerprintExtractor turns a file's structural facts into a FileDNA: one
// data-flow signature per (scope, variable) pair, a static complexity score,
// and a short order-independent fingerprint hash.
type FingerprintExtractor struct{}

// NewFingerprintExtractor creates a new fingerprint extractor.
func NewFingerprintExtractor() *FingerprintExtractor {
	return &FingerprintExtractor{}
}

// ExtractDNA builds the DNA profile for one file. Extraction never fails
// hard: any panic while folding facts yields a DNA with empty fields so a
// single bad file cannot abort the batch.
func (e *FingerprintExtractor) ExtractDNA(file *domain.SourceFile) (dna *domain.FileDNA) {
	dna = &domain.FileDNA{FilePath: file.FilePath}

	defer func() {
		if r := recover(); r != nil {
			dna.DataFlows = nil
			dna.ComplexityScore = 0
			dna.Fingerprint = ""
		}
	}()

	dna.DataFlows = e.buildSignatures(file.DataFlows)
	dna.ComplexityScore = e.complexityScore(file)
	dna.Fingerprint = e.fingerprint(dna)
	return dna
}

// ExtractAll builds DNA profiles for a batch of files, recording a warning
// for every file whose extraction produced no usable signal.
func (e *FingerprintExtractor) ExtractAll(files []*domain.SourceFile) ([]*domain.FileDNA, []domain.Warning) {
	profiles := make([]*domain.FileDNA, 0, len(files))
	var warnings []domain.Warning

	for _, file := range files {
		dna := e.ExtractDNA(file)
		if dna.IsEmpty() && file.HasStructuralData() {
			warnings = append(warnings, domain.Warning{
				FilePath:  file.FilePath,
				Operation: "dna_extraction",
				Message:   "extraction yielded an empty DNA profile",
			})
		}
		profiles = append(profiles, dna)
	}

	return profiles, warnings
}

// buildSignatures folds each variable's events in source order into one
// signature per (scope, variable) pair.
func (e *FingerprintExtractor) buildSignatures(events []domain.DataFlowEvent) []domain.DataFlowSignature {
	if len(events) == 0 {
		return nil
	}

	type scopeVar struct {
		scope    string
		variable string
	}

	signatures := make(map[scopeVar]*domain.DataFlowSignature)
	var order []scopeVar

	for _, event := range events {
		key := scopeVar{scope: event.Scope, variable: event.Variable}
		sig, ok := signatures[key]
		if !ok {
			sig = &domain.DataFlowSignature{
				Variable: event.Variable,
				Scope:    event.Scope,
			}
			signatures[key] = sig
			order = append(order, key)
		}

		sig.Events = append(sig.Events, domain.FlowEvent{Line: event.Line, Access: event.Access})

		switch event.Access {
		case domain.AccessWrite:
			if sig.FirstWriteLine == 0 {
				sig.FirstWriteLine = event.Line
			}
		case domain.AccessRead:
			if event.Line > sig.LastReadLine {
				sig.LastReadLine = event.Line
			}
		}
	}

	result := make([]domain.DataFlowSignature, 0, len(order))
	for _, key := range order {
		result = append(result, *signatures[key])
	}
	return result
}

// complexityScore is a cheap static-weight proxy for structural complexity.
func (e *FingerprintExtractor) complexityScore(file *domain.SourceFile) float64 {
	return constants.ComplexityFunctionWeight*float64(len(file.Functions)) +
		constants.ComplexityClassWeight*float64(len(file.Classes)) +
		constants.ComplexityEventWeight*float64(len(file.DataFlows)) +
		constants.ComplexityImportWeight*float64(len(file.Imports))
}

// fingerprint hashes a canonical serialization of the DNA. Parts are sorted
// before hashing so fingerprint equality is independent of extraction order.
func (e *FingerprintExtractor) fingerprint(dna *domain.FileDNA) string {
	parts := make([]string, 0, len(dna.DataFlows)+1)

	for _, sig := range dna.DataFlows {
		limit := len(sig.Events)
		if limit > constants.FingerprintEventLimit {
			limit = constants.FingerprintEventLimit
		}
		var sequence strings.Builder
		for _, event := range sig.Events[:limit] {
			if event.Access == domain.AccessWrite {
				sequence.WriteByte('W')
			} else {
				sequence.WriteByte('R')
			}
		}
		parts = append(parts, fmt.Sprintf("%s:%s", sig.Variable, sequence.String()))
	}

	parts = append(parts, fmt.Sprintf("complexity:%.1f", dna.ComplexityScore))
	sort.Strings(parts)

	digest := xxhash.Sum64String(strings.Join(parts, "|"))
	return fmt.Sprintf("%0*x", constants.FingerprintHexLength, digest)
}
