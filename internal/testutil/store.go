package testutil

import (
	"context"
	"testing"
	"time"

	"todo/internal/task"
)

// Epoch is the start time of clocks returned by NewStore.
var Epoch = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

// NewStore returns a loaded store over backend whose clock starts at Epoch
// and advances one minute per task.
func NewStore(t *testing.T, backend *FakeStorage) *task.Store {
	t.Helper()
	store := task.NewStore(backend, task.WithClock(NewClock(Epoch).Now))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load store: %v", err)
	}
	return store
}

// MustAdd adds tasks in order and fails the test on error.
func MustAdd(t *testing.T, store *task.Store, texts ...string) []task.Task {
	t.Helper()
	out := make([]task.Task, 0, len(texts))
	for _, text := range texts {
		tk, err := store.Add(context.Background(), text)
		if err != nil {
			t.Fatalf("add %q: %v", text, err)
		}
		out = append(out, tk)
	}
	return out
}
