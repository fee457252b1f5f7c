package cache_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/toolhive-tool-manager/internal/cache"
)

func TestManager_GetOrTryInit_ComputesOnce(t *testing.T) {
	t.Parallel()

	m := cache.NewManager[[]string](filepath.Join(t.TempDir(), "remote_versions.json"))

	var calls atomic.Int32
	compute := func(_ context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"1.0.0", "1.1.0"}, nil
	}

	first, err := m.GetOrTryInit(context.Background(), compute)
	require.NoError(t, err)

	second, err := m.GetOrTryInit(context.Background(), compute)
	require.NoError(t, err)

	assert.Equal(t, []string{"1.0.0", "1.1.0"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load(), "compute must run exactly once")
}

func TestManager_GetOrTryInit_PersistsAcrossManagers(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "remote_versions.json")

	var calls atomic.Int32
	compute := func(_ context.Context) ([]string, error) {
		calls.Add(1)
		return []string{"0.9.0"}, nil
	}

	first := cache.NewManager[[]string](path)
	_, err := first.GetOrTryInit(context.Background(), compute)
	require.NoError(t, err)

	// A fresh manager over the same path must see the persisted value.
	second := cache.NewManager[[]string](path)
	got, err := second.GetOrTryInit(context.Background(), compute)
	require.NoError(t, err)

	assert.Equal(t, []string{"0.9.0"}, got)
	assert.Equal(t, int32(1), calls.Load())
}

func TestManager_GetOrTryInit_FailureNotCached(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "remote_versions.json")
	m := cache.NewManager[[]string](path)

	computeErr := errors.New("transport failure")
	_, err := m.GetOrTryInit(context.Background(), func(_ context.Context) ([]string, error) {
		return nil, computeErr
	})
	require.ErrorIs(t, err, computeErr)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "failed computations must not be persisted")

	// The next call recomputes and can succeed.
	got, err := m.GetOrTryInit(context.Background(), func(_ context.Context) ([]string, error) {
		return []string{"2.0.0"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2.0.0"}, got)
}

func TestManager_GetOrTryInit_SingleFlight(t *testing.T) {
	t.Parallel()

	m := cache.NewManager[[]string](filepath.Join(t.TempDir(), "remote_versions.json"))

	var calls atomic.Int32
	release := make(chan struct{})
	compute := func(_ context.Context) ([]string, error) {
		calls.Add(1)
		<-release
		return []string{"1.2.3"}, nil
	}

	const workers = 8
	results := make([][]string, workers)
	errs := make([]error, workers)

	var started, done sync.WaitGroup
	for i := range workers {
		started.Add(1)
		done.Add(1)
		go func() {
			defer done.Done()
			started.Done()
			results[i], errs[i] = m.GetOrTryInit(context.Background(), compute)
		}()
	}

	started.Wait()
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), calls.Load(), "concurrent callers must share one computation")
	for i := range workers {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"1.2.3"}, results[i])
	}
}

func TestManager_GetOrTryInit_CorruptEntryRecomputed(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "remote_versions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	m := cache.NewManager[[]string](path)
	got, err := m.GetOrTryInit(context.Background(), func(_ context.Context) ([]string, error) {
		return []string{"3.0.0"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"3.0.0"}, got)
}
