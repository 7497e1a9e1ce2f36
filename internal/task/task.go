// Package task holds the to-do entity and the store that owns the collection.
package task

import (
	"encoding/json"
	"time"
)

// timeLayout matches ISO-8601 with millisecond precision and a Z suffix.
const timeLayout = "2006-01-02T15:04:05.000Z"

// Task is a single to-do entry.
type Task struct {
	ID        int
	Text      string
	Completed bool
	CreatedAt time.Time
}

// record is the persisted shape of a Task.
type record struct {
	ID        int    `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt string `json:"createdAt"`
}

// MarshalJSON implements json.Marshaler.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt.UTC().Format(timeLayout),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
// createdAt accepts any RFC 3339 timestamp. A missing or unparseable one
// leaves CreatedAt zero, so the task sorts as the oldest instead of
// failing the whole collection.
func (t *Task) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	var createdAt time.Time
	if parsed, err := time.Parse(time.RFC3339Nano, r.CreatedAt); err == nil {
		createdAt = parsed.UTC()
	}
	*t = Task{
		ID:        r.ID,
		Text:      r.Text,
		Completed: r.Completed,
		CreatedAt: createdAt,
	}
	return nil
}

// withToggled returns a copy of t with Completed inverted.
func (t Task) withToggled() Task {
	t.Completed = !t.Completed
	return t
}
