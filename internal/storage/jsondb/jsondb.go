// Package jsondb persists whole collections as single JSON files.
//
// Every collection is rewritten wholesale: writes go to a temporary file in
// the same directory followed by an atomic rename, so a concurrent reader
// observes either the fully-old or fully-new contents, never a torn write.
// Each collection carries its own lock; Update holds it across the whole
// read-modify-write cycle, which closes the classic lost-update race between
// two writers working from the same stale snapshot.
package jsondb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/muthakira-dev/muthakira/internal/logger"
)

// Collection is a durable JSON-backed collection stored in a single file.
// The zero value is not usable; construct with NewCollection.
type Collection[T any] struct {
	path     string
	fallback func() T
	mu       sync.RWMutex
}

// NewCollection opens (or creates) the collection file at path. fallback
// produces the value returned when the file is missing, empty or corrupt.
func NewCollection[T any](path string, fallback func() T) (*Collection[T], error) {
	p := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory for %s: %w", p, err)
	}

	c := &Collection[T]{path: p, fallback: fallback}
	if _, err := os.Stat(p); os.IsNotExist(err) {
		if err := c.writeLocked(fallback()); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Read returns the current contents. A missing or unparsable file degrades to
// the fallback value; Read never fails.
func (c *Collection[T]) Read() T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.readLocked()
}

// Update applies fn to the current contents and durably replaces the
// collection with the result. The lock is held for the whole cycle, so
// concurrent updates are serialized and none of them can overwrite another's
// change. If fn returns an error the collection is left untouched.
func (c *Collection[T]) Update(fn func(T) (T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(c.readLocked())
	if err != nil {
		return err
	}
	return c.writeLocked(next)
}

// Replace durably overwrites the collection contents.
func (c *Collection[T]) Replace(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLocked(v)
}

func (c *Collection[T]) readLocked() T {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Log.Warn("collection read failed, using fallback", "path", c.path, "error", err)
		}
		return c.fallback()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return c.fallback()
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		logger.Log.Warn("collection is corrupt, using fallback", "path", c.path, "error", err)
		return c.fallback()
	}
	return v
}

// writeLocked serializes v to a sibling temp file and renames it over the
// target. Callers must hold the write lock.
func (c *Collection[T]) writeLocked(v T) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", c.path, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file for %s: %w", c.path, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp) // best effort
		return fmt.Errorf("failed to replace collection %s: %w", c.path, err)
	}
	return nil
}
