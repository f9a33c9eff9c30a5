// Package jsonstore persists a collection of records as a single JSON array
// on disk. Every mutation is a whole-collection read-modify-write; a
// per-collection mutex is held for the full cycle so concurrent handlers
// cannot clobber each other's writes, and replacement goes through a temp
// file plus rename so a partial file is never observable.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"timetrack/internal/apperror"
)

// Record is any value the store can key by identifier.
type Record interface {
	RecordID() string
}

type Collection[T Record] struct {
	path string
	mu   sync.Mutex
}

func New[T Record](path string) *Collection[T] {
	return &Collection[T]{path: path}
}

func (c *Collection[T]) readAll() ([]T, error) {
	raw, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Internal("read collection", err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, apperror.Internal(fmt.Sprintf("decode collection %s", filepath.Base(c.path)), err)
	}
	return items, nil
}

func (c *Collection[T]) writeAll(items []T) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return apperror.Internal("create data directory", err)
	}
	if items == nil {
		items = []T{}
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return apperror.Internal("encode collection", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperror.Internal("write collection", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return apperror.Internal("replace collection", err)
	}
	return nil
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readAll()
}

func (c *Collection[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, err
	}
	for _, item := range items {
		if item.RecordID() == id {
			return item, nil
		}
	}
	return zero, apperror.NotFound("item not found")
}

// FindOne returns the first record matching the predicate in storage order.
func (c *Collection[T]) FindOne(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	items, err := c.List(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, item := range items {
		if pred(item) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

func (c *Collection[T]) Filter(ctx context.Context, pred func(T) bool) ([]T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []T
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Mutate runs one load-transform-store cycle over the whole collection. The
// transform sees the current records and returns the full replacement set;
// the lock is held from read to write, so a check and the write it guards
// cannot interleave with another mutation.
func (c *Collection[T]) Mutate(ctx context.Context, transform func(items []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.readAll()
	if err != nil {
		return err
	}
	next, err := transform(items)
	if err != nil {
		return err
	}
	return c.writeAll(next)
}

func (c *Collection[T]) Create(ctx context.Context, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.readAll()
	if err != nil {
		return err
	}
	items = append(items, item)
	return c.writeAll(items)
}

// Update applies transform to the record with the given id and persists the
// whole collection. The transform runs under the collection lock.
func (c *Collection[T]) Update(ctx context.Context, id string, transform func(T) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.readAll()
	if err != nil {
		return zero, err
	}
	for i, item := range items {
		if item.RecordID() != id {
			continue
		}
		updated, err := transform(item)
		if err != nil {
			return zero, err
		}
		items[i] = updated
		if err := c.writeAll(items); err != nil {
			return zero, err
		}
		return updated, nil
	}
	return zero, apperror.NotFound("item not found")
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.readAll()
	if err != nil {
		return err
	}
	next := items[:0:0]
	for _, item := range items {
		if item.RecordID() != id {
			next = append(next, item)
		}
	}
	if len(next) == len(items) {
		return apperror.NotFound("item not found")
	}
	return c.writeAll(next)
}
