package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/simscan-dev/simscan/domain"
)

// ProgressManagerImpl renders a progress bar on stderr during long
// comparison batches. Outside a terminal it stays silent.
type ProgressManagerImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	interactive bool
	total       int
	finished    bool
}

// NewProgressManager creates a progress manager bound to stderr
func NewProgressManager() domain.ProgressManager {
	return &ProgressManagerImpl{
		writer:      os.Stderr,
		interactive: IsInteractiveEnvironment(),
	}
}

// IsInteractiveEnvironment reports whether stderr is attached to a terminal.
// Progress bars are suppressed in pipes and CI logs.
func IsInteractiveEnvironment() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Initialize records the expected number of units before the batch starts
func (pm *ProgressManagerImpl) Initialize(maxValue int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.total = maxValue
	pm.finished = false
}

// Start renders the bar immediately instead of waiting for the first Update
func (pm *ProgressManagerImpl) Start() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.ensureBar(pm.total)
}

// Update advances the bar, creating it lazily when Start was skipped
func (pm *ProgressManagerImpl) Update(processed, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.ensureBar(total)
	if pm.bar != nil {
		_ = pm.bar.Set(processed)
	}
}

// Complete finishes the bar regardless of success; failures are reported
// through warnings, not through the bar.
func (pm *ProgressManagerImpl) Complete(success bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.finish()
}

// Close finishes the bar if Complete was never reached
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.finish()
}

// SetWriter redirects bar output and re-derives interactivity from the
// new destination. Anything that is not a terminal file disables the bar.
func (pm *ProgressManagerImpl) SetWriter(writer io.Writer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	pm.writer = writer

	file, ok := writer.(*os.File)
	pm.interactive = ok && term.IsTerminal(int(file.Fd()))
}

// IsInteractive returns true if progress bars should be shown
func (pm *ProgressManagerImpl) IsInteractive() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	return pm.interactive
}

// ensureBar creates the bar on first use. Callers hold pm.mu.
func (pm *ProgressManagerImpl) ensureBar(total int) {
	if pm.bar != nil || !pm.interactive {
		return
	}

	writer := pm.writer
	if writer == nil {
		writer = io.Discard
	}

	pm.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Comparing"),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

// finish closes out the bar once. Callers hold pm.mu.
func (pm *ProgressManagerImpl) finish() {
	if pm.bar == nil || pm.finished {
		return
	}
	pm.finished = true
	_ = pm.bar.Finish()
}
