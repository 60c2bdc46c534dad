package app

import (
	"context"
	"fmt"

	"github.com/simscan-dev/simscan/domain"
)

// CloneUseCase orchestrates clone detection operations
type CloneUseCase struct {
	service   domain.CloneService
	formatter domain.CloneOutputFormatter
}

// NewCloneUseCase creates a new clone use case with the given dependencies
func NewCloneUseCase(service domain.CloneService, formatter domain.CloneOutputFormatter) *CloneUseCase {
	return &CloneUseCase{
		service:   service,
		formatter: formatter,
	}
}

// Execute runs clone detection and writes the formatted report.
func (uc *CloneUseCase) Execute(ctx context.Context, req domain.CloneRequest) error {
	if err := checkCloneRequest(&req); err != nil {
		return err
	}

	response, err := uc.service.DetectClones(ctx, &req)
	if err != nil {
		return fmt.Errorf("clone detection failed: %w", err)
	}
	return uc.writeReport(response, &req)
}

// ExecuteWithFiles runs clone detection over already-loaded source files.
func (uc *CloneUseCase) ExecuteWithFiles(ctx context.Context, files []*domain.SourceFile, req domain.CloneRequest) error {
	if err := checkCloneRequest(&req); err != nil {
		return err
	}

	response, err := uc.service.DetectClonesInFiles(ctx, files, &req)
	if err != nil {
		return fmt.Errorf("clone detection failed: %w", err)
	}
	return uc.writeReport(response, &req)
}

func (uc *CloneUseCase) writeReport(response *domain.CloneResponse, req *domain.CloneRequest) error {
	if err := uc.formatter.FormatCloneResponse(response, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func checkCloneRequest(req *domain.CloneRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if !req.HasValidOutputWriter() {
		return fmt.Errorf("no valid output writer specified")
	}
	return nil
}

// CloneUseCaseBuilder helps build CloneUseCase with dependencies
type CloneUseCaseBuilder struct {
	service   domain.CloneService
	formatter domain.CloneOutputFormatter
}

// NewCloneUseCaseBuilder creates a new builder for CloneUseCase
func NewCloneUseCaseBuilder() *CloneUseCaseBuilder {
	return &CloneUseCaseBuilder{}
}

// WithService sets the clone service
func (b *CloneUseCaseBuilder) WithService(service domain.CloneService) *CloneUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *CloneUseCaseBuilder) WithFormatter(formatter domain.CloneOutputFormatter) *CloneUseCaseBuilder {
	b.formatter = formatter
	return b
}

// Build creates the CloneUseCase with the configured dependencies
func (b *CloneUseCaseBuilder) Build() (*CloneUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("clone service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	return NewCloneUseCase(b.service, b.formatter), nil
}
