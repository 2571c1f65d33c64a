// ABOUTME: Task CLI commands
// ABOUTME: Add, list, toggle, delete and clear follow-up tasks
package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
)

// AddTaskCommand adds a pending task, optionally linked to a contact.
func AddTaskCommand(s *store.Store, args []string) error {
	fs := newFlagSet("add-task")
	title := fs.String("title", "", "Task title (required)")
	contactID := fs.String("contact", "", "Contact ID the task is about")
	due := fs.String("due", "", "Due date, e.g. 2024-06-01")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *contactID != "" && s.Snapshot().Contact(*contactID) == nil {
		return fmt.Errorf("contact not found: %s", *contactID)
	}

	id, err := s.CreateTask(*title, *contactID, *due)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	printf("✓ Task created: %s (ID: %s)\n", *title, id)
	if *due != "" {
		printf("  Due: %s\n", *due)
	}
	return nil
}

// ListTasksCommand lists tasks with pending ones first.
func ListTasksCommand(s *store.Store, args []string) error {
	fs := newFlagSet("list-tasks")
	filter := fs.String("filter", string(query.TaskAll), "all, pending or done")
	if err := fs.Parse(args); err != nil {
		return err
	}

	f, ok := query.ParseTaskFilter(*filter)
	if !ok {
		return fmt.Errorf("invalid filter %q: expected all, pending or done", *filter)
	}

	doc := s.Snapshot()
	tasks := query.SortTasksForDisplay(query.FilterTasks(doc.Tasks, f))
	if len(tasks) == 0 {
		printf("%s\n", query.EmptyTaskMessage(f))
		return nil
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, " \tTITLE\tCONTACT\tDUE\tID")
	_, _ = fmt.Fprintln(w, " \t-----\t-------\t---\t--")
	for _, t := range tasks {
		check := "[ ]"
		if t.Done {
			check = "[x]"
		}
		contact := "-"
		if c := query.TaskContact(doc, t); c != nil {
			contact = c.DisplayName()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", check, t.Title, contact, dash(t.DueDate), t.ID)
	}
	_ = w.Flush()

	printf("\nTotal: %d task(s)\n", len(tasks))
	return nil
}

// ToggleTaskCommand marks a task done, or pending again with --undo.
func ToggleTaskCommand(s *store.Store, args []string) error {
	fs := newFlagSet("toggle-task")
	undo := fs.Bool("undo", false, "Mark the task pending again")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := requireID(fs, "task")
	if err != nil {
		return err
	}

	ok, err := s.ToggleTask(id, !*undo)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}

	if *undo {
		printf("✓ Task reopened: %s\n", id)
	} else {
		printf("✓ Task completed: %s\n", id)
	}
	return nil
}

func DeleteTaskCommand(s *store.Store, args []string) error {
	fs := newFlagSet("delete-task")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := requireID(fs, "task")
	if err != nil {
		return err
	}

	ok, err := s.DeleteTask(id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if !ok {
		return fmt.Errorf("task not found: %s", id)
	}

	printf("✓ Task deleted: %s\n", id)
	return nil
}

// ClearCompletedCommand removes every completed task.
func ClearCompletedCommand(s *store.Store, args []string) error {
	fs := newFlagSet("clear-completed")
	if err := fs.Parse(args); err != nil {
		return err
	}

	n, err := s.ClearCompletedTasks()
	if err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	printf("✓ Cleared %d completed task(s)\n", n)
	return nil
}
