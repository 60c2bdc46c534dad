package app

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/simscan-dev/simscan/domain"
)

// ScanUseCase runs clone detection and the consolidation pass as one sweep.
// The two analyses are independent, so they execute in parallel; reports are
// written in a fixed order once both finish.
type ScanUseCase struct {
	clone       *CloneUseCase
	consolidate *ConsolidateUseCase
	executor    domain.ParallelExecutor
}

// NewScanUseCase creates a new combined scan use case
func NewScanUseCase(clone *CloneUseCase, consolidate *ConsolidateUseCase, executor domain.ParallelExecutor) *ScanUseCase {
	return &ScanUseCase{
		clone:       clone,
		consolidate: consolidate,
		executor:    executor,
	}
}

// Execute runs both analyses and writes both reports to the given writer.
func (uc *ScanUseCase) Execute(ctx context.Context, cloneReq domain.CloneRequest, consolidationReq domain.ConsolidationRequest, writer io.Writer) error {
	if writer == nil {
		return fmt.Errorf("no valid output writer specified")
	}

	// Each analysis renders into its own buffer so concurrent runs cannot
	// interleave output.
	var cloneBuf, consolidationBuf bytes.Buffer
	cloneReq.OutputWriter = &cloneBuf
	consolidationReq.OutputWriter = &consolidationBuf

	tasks := []domain.ExecutableTask{
		newScanTask("clone", func(taskCtx context.Context) error {
			return uc.clone.Execute(taskCtx, cloneReq)
		}),
		newScanTask("consolidate", func(taskCtx context.Context) error {
			return uc.consolidate.Execute(taskCtx, consolidationReq)
		}),
	}

	if err := uc.executor.Execute(ctx, tasks); err != nil {
		return err
	}

	if _, err := io.Copy(writer, &cloneBuf); err != nil {
		return fmt.Errorf("failed to write clone report: %w", err)
	}
	if _, err := io.Copy(writer, &consolidationBuf); err != nil {
		return fmt.Errorf("failed to write consolidation report: %w", err)
	}
	return nil
}

// scanTask adapts a closure to the ExecutableTask interface.
type scanTask struct {
	name string
	run  func(context.Context) error
}

func newScanTask(name string, run func(context.Context) error) *scanTask {
	return &scanTask{name: name, run: run}
}

func (t *scanTask) Name() string { return t.name }

func (t *scanTask) IsEnabled() bool { return true }

func (t *scanTask) Execute(ctx context.Context) (interface{}, error) {
	return nil, t.run(ctx)
}
