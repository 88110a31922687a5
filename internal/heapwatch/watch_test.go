package heapwatch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDumpTriggerOnWrite(t *testing.T) {
	dir := t.TempDir()
	trigger := filepath.Join(dir, "dump-heap")

	var fired atomic.Int32
	w, err := New(trigger, func() { fired.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(trigger, []byte("now"), 0o644))
	require.Eventually(t, func() bool { return fired.Load() >= 1 },
		5*time.Second, 10*time.Millisecond, "dump callback should fire on write")
}

func TestUnrelatedFilesDoNotTrigger(t *testing.T) {
	dir := t.TempDir()
	trigger := filepath.Join(dir, "dump-heap")

	var fired atomic.Int32
	w, err := New(trigger, func() { fired.Add(1) })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.Zero(t, fired.Load(), "writes to other files must not fire the dump")
}
