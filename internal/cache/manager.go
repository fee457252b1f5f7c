// Package cache provides a persisted, single-computation cache for
// expensive lookups such as remote version listings. A cached value is
// computed at most once per key: concurrent callers in one process
// share a single in-flight computation, and concurrent processes are
// serialized through a file lock. Successful results are persisted
// atomically; failures persist nothing.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/stacklok/toolhive-tool-manager/internal/logger"
)

// lockRetryDelay is the polling interval while waiting for another
// process to release the cache lock.
const lockRetryDelay = 50 * time.Millisecond

// Manager caches a single value of type T at a fixed file path.
// The zero value is not usable; construct with NewManager.
type Manager[T any] struct {
	path  string
	group singleflight.Group
}

// NewManager creates a cache manager persisting to the given file path.
// The parent directory is created on first write.
func NewManager[T any](path string) *Manager[T] {
	return &Manager[T]{path: path}
}

// Path returns the file path backing this cache entry.
func (m *Manager[T]) Path() string {
	return m.path
}

// GetOrTryInit returns the cached value if present, otherwise invokes
// compute exactly once, persists its successful result, and returns it.
// A compute failure propagates to every waiting caller and leaves no
// cache entry behind. The cache is never invalidated here; clearing an
// entry is the cache owner's concern.
func (m *Manager[T]) GetOrTryInit(ctx context.Context, compute func(ctx context.Context) (T, error)) (T, error) {
	v, err, _ := m.group.Do(m.path, func() (any, error) {
		return m.getOrInit(ctx, compute)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (m *Manager[T]) getOrInit(ctx context.Context, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := m.read(); ok {
		return v, nil
	}

	// Serialize against other processes computing the same entry.
	if err := os.MkdirAll(filepath.Dir(m.path), 0o750); err != nil {
		return zero, fmt.Errorf("failed to create cache directory: %w", err)
	}
	lock := flock.New(m.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return zero, fmt.Errorf("failed to acquire cache lock: %w", err)
	}
	if !locked {
		return zero, fmt.Errorf("failed to acquire cache lock for %s", m.path)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	// Another process may have populated the entry while we waited.
	if v, ok := m.read(); ok {
		return v, nil
	}

	v, err := compute(ctx)
	if err != nil {
		return zero, err
	}

	if err := m.write(v); err != nil {
		return zero, err
	}
	return v, nil
}

// read loads the persisted value. An unreadable or corrupt entry is
// treated as a miss so the value is recomputed rather than poisoning
// every subsequent call.
func (m *Manager[T]) read() (T, bool) {
	var v T
	data, err := os.ReadFile(m.path)
	if err != nil {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Warnf("ignoring corrupt cache entry %s: %v", m.path, err)
		return v, false
	}
	return v, true
}

// write persists the value atomically: marshal to a uniquely named
// temp file in the same directory, then rename over the target.
func (m *Manager[T]) write(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	tmp := fmt.Sprintf("%s.%s.tmp", m.path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to persist cache entry: %w", err)
	}
	return nil
}
