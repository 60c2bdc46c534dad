package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressManager_NonInteractiveIsSilent(t *testing.T) {
	pm := &ProgressManagerImpl{}

	var buf bytes.Buffer
	pm.SetWriter(&buf)
	assert.False(t, pm.IsInteractive(), "A plain buffer is never a terminal")

	pm.Initialize(10)
	pm.Start()
	pm.Update(5, 10)
	pm.Complete(true)
	pm.Close()

	assert.Empty(t, buf.String(), "No progress output outside a terminal")
}

func TestProgressManager_LifecycleWithoutStart(t *testing.T) {
	pm := NewProgressManager()
	require.NotNil(t, pm)

	// Update before Start and a double Close must not panic.
	pm.Update(1, 2)
	pm.Complete(true)
	pm.Close()
	pm.Close()
}
