package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_RunsOnStartAndOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n}\n"), 0644))

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	w := New(path, func(context.Context) error {
		runs.Add(1)
		return nil
	}).WithDebounce(20 * time.Millisecond)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("{\n\"A\" : 1\n}\n"), 0644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestWatcher_IgnoresOtherFilesAndSurvivesFailures(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "item.json")
	require.NoError(t, os.WriteFile(path, []byte("{\n}\n"), 0644))

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	w := New(path, func(context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}).WithDebounce(20 * time.Millisecond)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return runs.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0644))
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	require.NoError(t, os.WriteFile(path, []byte("{\n\"A\" : 1\n}\n"), 0644))
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing", "item.json"), func(context.Context) error { return nil })
	assert.Error(t, w.Run(context.Background()))
}
