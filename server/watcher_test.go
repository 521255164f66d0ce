package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezoic/lifeexp/linear"
)

type reloadResult struct {
	p   linear.Params
	err error
}

func waitReload(t *testing.T, results <-chan reloadResult, match func(reloadResult) bool) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-results:
			if match(r) {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatcherReloadsWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.gob")
	initial := linear.Params{Weight: 2, Bias: 1}
	require.NoError(t, initial.Save(path))

	snap := NewSnapshot(initial)
	w, err := NewWatcher(path, snap, discardLogger())
	require.NoError(t, err)

	results := make(chan reloadResult, 64)
	w.OnReload = func(p linear.Params, err error) { results <- reloadResult{p, err} }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	updated := linear.Params{Weight: 0.5, Bias: 40}
	require.NoError(t, updated.Save(path))
	waitReload(t, results, func(r reloadResult) bool { return r.err == nil && r.p == updated })
	assert.Equal(t, updated, snap.Load())

	require.NoError(t, os.WriteFile(path, []byte("corrupt"), 0o644))
	waitReload(t, results, func(r reloadResult) bool { return r.err != nil })
	assert.Equal(t, updated, snap.Load())
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.gob")
	require.NoError(t, linear.Params{Weight: 1}.Save(path))

	snap := NewSnapshot(linear.Params{Weight: 1})
	w, err := NewWatcher(path, snap, discardLogger())
	require.NoError(t, err)

	results := make(chan reloadResult, 64)
	w.OnReload = func(p linear.Params, err error) { results <- reloadResult{p, err} }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	require.NoError(t, linear.Params{Weight: 9}.Save(filepath.Join(dir, "other.gob")))
	select {
	case r := <-results:
		t.Fatalf("unexpected reload: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, linear.Params{Weight: 1}, snap.Load())
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "weights.gob"), NewSnapshot(linear.Params{}), discardLogger())
	assert.Error(t, err)
}
