package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"todo/internal/storage"
)

// DefaultKey is the storage key holding the whole collection.
const DefaultKey = "todoTasks"

var (
	// ErrEmptyText is returned when a task's text is blank after trimming.
	ErrEmptyText = errors.New("task text required")

	// ErrNotFound is returned when no task has the given ID.
	ErrNotFound = errors.New("task not found")
)

// ConfirmFunc is asked before a task is deleted.
// Returning false leaves the store untouched.
type ConfirmFunc func(t Task) bool

// Store is the ordered in-memory collection of tasks, mirrored to durable
// storage after every mutation. It is the only mutation surface for tasks.
// A Store is not safe for concurrent use.
type Store struct {
	backend storage.Storage
	key     string
	now     func() time.Time
	log     *slog.Logger

	tasks  []Task
	nextID int
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// NewStore creates an empty Store backed by backend. Call Load to rehydrate it.
func NewStore(backend storage.Storage, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		now:     time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		nextID:  1,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one.
// An absent key or malformed data yields an empty store; only backend
// failures are returned.
func (s *Store) Load(ctx context.Context) error {
	data, found, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	s.tasks = nil
	s.nextID = 1
	if !found {
		s.log.Debug("no saved tasks", "key", s.key)
		return nil
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		s.log.Warn("ignoring malformed saved tasks", "key", s.key, "err", err)
		return nil
	}

	s.tasks = tasks
	for _, t := range tasks {
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
		if t.CreatedAt.IsZero() {
			s.log.Warn("saved task has no valid createdAt", "key", s.key, "id", t.ID)
		}
	}
	s.log.Debug("loaded tasks", "key", s.key, "count", len(tasks), "next_id", s.nextID)
	return nil
}

// Save serializes the whole collection and overwrites the storage key.
func (s *Store) Save(ctx context.Context) error {
	tasks := s.tasks
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

// Add appends a new task and persists the collection.
func (s *Store) Add(ctx context.Context, text string) (Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Task{}, ErrEmptyText
	}

	t := Task{
		ID:        s.nextID,
		Text:      text,
		Completed: false,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
	}

	prev := s.tasks
	s.tasks = append(s.tasks[:len(s.tasks):len(s.tasks)], t)
	s.nextID++

	if err := s.Save(ctx); err != nil {
		s.tasks = prev
		s.nextID--
		return Task{}, err
	}
	s.log.Debug("added task", "id", t.ID)
	return t, nil
}

// ToggleComplete replaces the task with a copy whose Completed flag is
// inverted, then persists the collection.
func (s *Store) ToggleComplete(ctx context.Context, id int) (Task, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	prev := s.tasks
	next := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		if i == idx {
			next[i] = t.withToggled()
			continue
		}
		next[i] = t
	}
	s.tasks = next

	if err := s.Save(ctx); err != nil {
		s.tasks = prev
		return Task{}, err
	}
	s.log.Debug("toggled task", "id", id, "completed", next[idx].Completed)
	return next[idx], nil
}

// Delete removes the task after confirm approves it, then persists the
// collection. It reports whether the task was removed.
func (s *Store) Delete(ctx context.Context, id int, confirm ConfirmFunc) (bool, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return false, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if confirm == nil || !confirm(s.tasks[idx]) {
		s.log.Debug("delete declined", "id", id)
		return false, nil
	}

	prev := s.tasks
	next := make([]Task, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:idx]...)
	next = append(next, s.tasks[idx+1:]...)
	s.tasks = next

	if err := s.Save(ctx); err != nil {
		s.tasks = prev
		return false, err
	}
	s.log.Debug("deleted task", "id", id)
	return true, nil
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get looks up a task by ID.
func (s *Store) Get(id int) (Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}
	return s.tasks[idx], true
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// NextID returns the ID the next added task will get.
func (s *Store) NextID() int { return s.nextID }

func (s *Store) indexOf(id int) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
