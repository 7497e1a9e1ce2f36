// Package view builds the render snapshot shared by the CLI and the terminal UI.
package view

import (
	"sort"

	"todo/internal/task"
)

// Snapshot is everything a render pass displays.
type Snapshot struct {
	// Items are the tasks, newest first.
	Items []task.Task

	// Total is the number of tasks.
	Total int

	// Completed is the number of completed tasks.
	Completed int
}

// Empty reports whether the empty-state placeholder should be shown.
func (s Snapshot) Empty() bool { return len(s.Items) == 0 }

// Build derives a Snapshot from tasks without modifying them.
// Tasks with equal CreatedAt keep their stored order.
func Build(tasks []task.Task) Snapshot {
	items := make([]task.Task, len(tasks))
	copy(items, tasks)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	completed := 0
	for _, t := range items {
		if t.Completed {
			completed++
		}
	}
	return Snapshot{
		Items:     items,
		Total:     len(items),
		Completed: completed,
	}
}
