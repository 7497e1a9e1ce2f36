// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"
	"time"

	"todo/internal/storage"
)

// FakeStorage is an in-memory implementation of storage.Storage for testing.
type FakeStorage struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int
	closed bool

	// Error injection for testing
	GetErr   error
	SetErr   error
	CloseErr error
}

var _ storage.Storage = (*FakeStorage)(nil)

// NewFakeStorage creates an empty FakeStorage.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{values: make(map[string][]byte)}
}

// Put stores a raw value without counting it as a write.
func (f *FakeStorage) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = []byte(value)
}

// Value returns the raw value stored under key.
func (f *FakeStorage) Value(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return string(v), ok
}

// Writes returns the number of successful Set calls.
func (f *FakeStorage) Writes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

// Closed reports whether Close was called.
func (f *FakeStorage) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Get implements storage.Storage.
func (f *FakeStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.GetErr != nil {
		return nil, false, f.GetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set implements storage.Storage.
func (f *FakeStorage) Set(ctx context.Context, key string, value []byte) error {
	if f.SetErr != nil {
		return f.SetErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	f.values[key] = v
	f.writes++
	return nil
}

// Close implements storage.Storage.
func (f *FakeStorage) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.CloseErr
}

// Clock is a manual clock for deterministic CreatedAt values.
// Each call to Now advances it by Step.
type Clock struct {
	mu   sync.Mutex
	t    time.Time
	Step time.Duration
}

// NewClock starts a clock at start that advances by one minute per reading.
func NewClock(start time.Time) *Clock {
	return &Clock{t: start, Step: time.Minute}
}

// Now returns the current time and advances the clock.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.Step)
	return now
}
