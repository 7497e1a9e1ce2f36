// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/task"
	"todo/internal/view"
)

const (
	// EmptyState is printed when there are no tasks.
	EmptyState = "no tasks yet"

	// Separator is the line between the task list and the counters.
	Separator = "------------"
)

// FormatTask formats a task line.
// Format: "{ID:>4}  [x] {TEXT}\n" (4-wide right-aligned ID, two spaces, check box, text)
func FormatTask(w io.Writer, t task.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", t.ID, checkbox(t.Completed), normalizeText(t.Text))
}

// FormatCounters formats the summary counters.
func FormatCounters(w io.Writer, total, completed int) {
	fmt.Fprintf(w, "total: %d  completed: %d\n", total, completed)
}

// Render writes a full render pass of snap.
func Render(w io.Writer, snap view.Snapshot) {
	if snap.Empty() {
		fmt.Fprintln(w, EmptyState)
	} else {
		for _, t := range snap.Items {
			FormatTask(w, t)
		}
	}
	fmt.Fprintln(w, Separator)
	FormatCounters(w, snap.Total, snap.Completed)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeText replaces newlines with spaces so every task stays on one line.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
