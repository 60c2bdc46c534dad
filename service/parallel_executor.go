package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/simscan-dev/simscan/domain"
)

const defaultTaskTimeout = 10 * time.Minute

// ParallelExecutorImpl runs independent analysis tasks concurrently on a
// conc pool. Zero maxConcurrency means unbounded.
type ParallelExecutorImpl struct {
	maxConcurrency int
	timeout        time.Duration
}

// NewParallelExecutor creates a new parallel executor
func NewParallelExecutor() domain.ParallelExecutor {
	return &ParallelExecutorImpl{timeout: defaultTaskTimeout}
}

// SetMaxConcurrency sets the maximum number of concurrent tasks
func (pe *ParallelExecutorImpl) SetMaxConcurrency(max int) {
	pe.maxConcurrency = max
}

// SetTimeout sets the timeout for all tasks
func (pe *ParallelExecutorImpl) SetTimeout(timeout time.Duration) {
	pe.timeout = timeout
}

// Execute runs the enabled tasks in parallel and returns the first failure,
// if any. All tasks run to completion even when one fails.
func (pe *ParallelExecutorImpl) Execute(ctx context.Context, tasks []domain.ExecutableTask) error {
	if len(tasks) == 0 {
		return nil
	}

	if pe.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pe.timeout)
		defer cancel()
	}

	p := pool.New()
	if pe.maxConcurrency > 0 {
		p = p.WithMaxGoroutines(pe.maxConcurrency)
	}

	var (
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for _, task := range tasks {
		if !task.IsEnabled() {
			continue
		}

		task := task
		p.Go(func() {
			if ctx.Err() != nil {
				fail(fmt.Errorf("task %s cancelled: %w", task.Name(), ctx.Err()))
				return
			}
			if _, err := task.Execute(ctx); err != nil {
				fail(fmt.Errorf("task %s failed: %w", task.Name(), err))
			}
		})
	}
	p.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("parallel execution failed with %d errors: %w", len(errs), errs[0])
	}
	return nil
}

// SimpleTask wraps a closure as an ExecutableTask
type SimpleTask struct {
	name    string
	enabled bool
	execute func(context.Context) (interface{}, error)
}

// NewSimpleTask creates a new simple task
func NewSimpleTask(name string, enabled bool, execute func(context.Context) (interface{}, error)) domain.ExecutableTask {
	return &SimpleTask{name: name, enabled: enabled, execute: execute}
}

func (t *SimpleTask) Name() string { return t.name }

func (t *SimpleTask) IsEnabled() bool { return t.enabled }

func (t *SimpleTask) Execute(ctx context.Context) (interface{}, error) {
	if t.execute == nil {
		return nil, fmt.Errorf("task %s has no execute function", t.name)
	}
	return t.execute(ctx)
}
