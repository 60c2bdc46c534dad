package domain

import (
	"context"
	"time"
)

// OutputFormat identifies how a hosting process wants results serialized.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// IsValid reports whether the format is one the formatters understand.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return true
	}
	return false
}

// SortCriteria defines how report entries are ordered.
type SortCriteria string

const (
	SortBySimilarity SortCriteria = "similarity"
	SortBySavings    SortCriteria = "savings"
	SortByLocation   SortCriteria = "location"
	SortByConfidence SortCriteria = "confidence"
)

// ProgressManager manages progress tracking for analysis
type ProgressManager interface {
	// Initialize sets up progress tracking with the maximum value
	Initialize(maxValue int)

	// Start starts the progress bar
	Start()

	// Complete marks the progress as completed
	Complete(success bool)

	// Update updates the progress
	Update(processed, total int)

	// IsInteractive returns true if progress bars should be shown
	IsInteractive() bool

	// Close cleans up any resources
	Close()
}

// ParallelExecutor manages parallel execution of independent analysis tasks
type ParallelExecutor interface {
	// Execute runs tasks in parallel with the given configuration
	Execute(ctx context.Context, tasks []ExecutableTask) error

	// SetMaxConcurrency sets the maximum number of concurrent tasks
	SetMaxConcurrency(max int)

	// SetTimeout sets the timeout for all tasks
	SetTimeout(timeout time.Duration)
}

// ExecutableTask represents a task that can be executed in parallel
type ExecutableTask interface {
	// Name returns the name of the task
	Name() string

	// Execute runs the task and returns the result
	Execute(ctx context.Context) (interface{}, error)

	// IsEnabled returns whether the task should be executed
	IsEnabled() bool
}

// FileReader abstracts corpus file collection for the hosting process.
type FileReader interface {
	// CollectSourceFiles expands paths into concrete files honoring the
	// include and exclude glob patterns.
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the full content of a file.
	ReadFile(path string) ([]byte, error)

	// FileExists checks whether the path exists and is a regular file.
	FileExists(path string) (bool, error)
}
