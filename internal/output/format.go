// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todocheck/internal/service"
	"todocheck/internal/suite"
)

// FormatTask formats a task line for the list command.
// Format: "{N:>4}  [x] {CONTENT}  ({TASK_ID})\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s  (%s)\n", num, checkbox(task.IsDone), normalizeContent(task.Content), task.TaskID)
}

// FormatTaskDetail formats every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "task_id: %s\n", task.TaskID)
	fmt.Fprintf(w, "user_id: %s\n", task.UserID)
	fmt.Fprintf(w, "content: %s\n", normalizeContent(task.Content))
	fmt.Fprintf(w, "is_done: %t\n", task.IsDone)
	if task.CreatedTime > 0 {
		fmt.Fprintf(w, "created: %s\n", time.Unix(task.CreatedTime, 0).UTC().Format(time.RFC3339))
	}
}

// FormatResult formats one scenario outcome, with its error on an indented line.
// Format: "PASS  {NAME:<16}  {DURATION}\n"
func FormatResult(w io.Writer, res suite.Result) {
	fmt.Fprintf(w, "%s  %-16s  %s\n", status(res.Passed), res.Scenario, res.Duration.Round(time.Millisecond))
	if res.Error != "" {
		fmt.Fprintf(w, "      %s\n", res.Error)
	}
}

// FormatSummary formats the closing line of a suite run.
func FormatSummary(w io.Writer, r *suite.Report) {
	passed, failed := r.Counts()
	fmt.Fprintf(w, "%s  %d passed, %d failed (%s) against %s\n",
		status(r.Passed), passed, failed, r.Duration.Round(time.Millisecond), r.Endpoint)
}

func status(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeContent normalizes task content for display.
// - Empty or whitespace-only content becomes "(empty)"
// - Newlines are replaced with spaces
func normalizeContent(content string) string {
	content = strings.ReplaceAll(content, "\r", " ")
	content = strings.ReplaceAll(content, "\n", " ")

	if strings.TrimSpace(content) == "" {
		return "(empty)"
	}
	return content
}
