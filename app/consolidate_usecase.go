package app

import (
	"context"
	"fmt"

	"github.com/simscan-dev/simscan/domain"
)

// ConsolidateUseCase orchestrates the sibling consolidation pass
type ConsolidateUseCase struct {
	service   domain.ConsolidationService
	formatter domain.ConsolidationOutputFormatter
}

// NewConsolidateUseCase creates a new consolidation use case with the given dependencies
func NewConsolidateUseCase(service domain.ConsolidationService, formatter domain.ConsolidationOutputFormatter) *ConsolidateUseCase {
	return &ConsolidateUseCase{
		service:   service,
		formatter: formatter,
	}
}

// Execute runs the consolidation pass and writes the formatted report.
func (uc *ConsolidateUseCase) Execute(ctx context.Context, req domain.ConsolidationRequest) error {
	if err := checkConsolidationRequest(&req); err != nil {
		return err
	}

	response, err := uc.service.AnalyzeSiblings(ctx, &req)
	if err != nil {
		return fmt.Errorf("consolidation analysis failed: %w", err)
	}
	return uc.writeReport(response, &req)
}

// ExecuteWithFiles runs the consolidation pass over already-loaded source files.
func (uc *ConsolidateUseCase) ExecuteWithFiles(ctx context.Context, files []*domain.SourceFile, req domain.ConsolidationRequest) error {
	if err := checkConsolidationRequest(&req); err != nil {
		return err
	}

	response, err := uc.service.AnalyzeSiblingsInFiles(ctx, files, &req)
	if err != nil {
		return fmt.Errorf("consolidation analysis failed: %w", err)
	}
	return uc.writeReport(response, &req)
}

func (uc *ConsolidateUseCase) writeReport(response *domain.ConsolidationResponse, req *domain.ConsolidationRequest) error {
	if err := uc.formatter.FormatConsolidationResponse(response, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func checkConsolidationRequest(req *domain.ConsolidationRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}
	return nil
}

// ConsolidateUseCaseBuilder helps build ConsolidateUseCase with dependencies
type ConsolidateUseCaseBuilder struct {
	service   domain.ConsolidationService
	formatter domain.ConsolidationOutputFormatter
}

// NewConsolidateUseCaseBuilder creates a new builder for ConsolidateUseCase
func NewConsolidateUseCaseBuilder() *ConsolidateUseCaseBuilder {
	return &ConsolidateUseCaseBuilder{}
}

// WithService sets the consolidation service
func (b *ConsolidateUseCaseBuilder) WithService(service domain.ConsolidationService) *ConsolidateUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *ConsolidateUseCaseBuilder) WithFormatter(formatter domain.ConsolidationOutputFormatter) *ConsolidateUseCaseBuilder {
	b.formatter = formatter
	return b
}

// Build creates the ConsolidateUseCase with the configured dependencies
func (b *ConsolidateUseCaseBuilder) Build() (*ConsolidateUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("consolidation service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	return NewConsolidateUseCase(b.service, b.formatter), nil
}
