// ABOUTME: Task filtering and display ordering
// ABOUTME: Pending before done, then by due date with undated tasks last
package query

import (
	"sort"
	"strings"

	"github.com/harperreed/simplecrm/models"
)

type TaskFilter string

const (
	TaskAll     TaskFilter = "all"
	TaskPending TaskFilter = "pending"
	TaskDone    TaskFilter = "done"
)

func ParseTaskFilter(raw string) (TaskFilter, bool) {
	switch f := TaskFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case TaskAll, TaskPending, TaskDone:
		return f, true
	case "":
		return TaskAll, true
	default:
		return TaskAll, false
	}
}

func FilterTasks(tasks []models.Task, filter TaskFilter) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		switch {
		case filter == TaskPending && t.Done:
		case filter == TaskDone && !t.Done:
		default:
			out = append(out, t)
		}
	}
	return out
}

// SortTasksForDisplay returns a copy ordered pending first, then by ascending
// due date. A missing due date sorts after every real one.
func SortTasksForDisplay(tasks []models.Task) []models.Task {
	out := append([]models.Task(nil), tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Done != b.Done {
			return !a.Done
		}
		return dueBefore(a.DueDate, b.DueDate)
	})
	return out
}

func dueBefore(a, b string) bool {
	switch {
	case a == b:
		return false
	case a == "":
		return false
	case b == "":
		return true
	default:
		return a < b
	}
}

// EmptyTaskMessage is shown when a filter leaves no tasks.
func EmptyTaskMessage(filter TaskFilter) string {
	switch filter {
	case TaskPending:
		return "No pending tasks."
	case TaskDone:
		return "No completed tasks."
	default:
		return "No tasks yet."
	}
}
