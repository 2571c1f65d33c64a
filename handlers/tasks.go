// ABOUTME: Task MCP tool handlers
// ABOUTME: Implements add_task, list_tasks, toggle_task, delete_task and clear_completed_tasks
package handlers

import (
	"context"
	"fmt"

	"github.com/harperreed/simplecrm/query"
	"github.com/harperreed/simplecrm/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type TaskHandlers struct {
	store *store.Store
}

func NewTaskHandlers(s *store.Store) *TaskHandlers {
	return &TaskHandlers{store: s}
}

type AddTaskInput struct {
	Title     string `json:"title" jsonschema:"Task title (required)"`
	ContactID string `json:"contact_id,omitempty" jsonschema:"Contact the task is about"`
	DueDate   string `json:"due_date,omitempty" jsonschema:"Due date, e.g. 2024-06-01"`
}

func (h *TaskHandlers) AddTask(_ context.Context, request *mcp.CallToolRequest, input AddTaskInput) (*mcp.CallToolResult, TaskOutput, error) {
	id, err := h.store.CreateTask(input.Title, input.ContactID, input.DueDate)
	if err != nil {
		return nil, TaskOutput{}, fmt.Errorf("failed to create task: %w", err)
	}

	doc := h.store.Snapshot()
	i := doc.TaskIndex(id)
	if i < 0 {
		return nil, TaskOutput{}, fmt.Errorf("task %s missing after create", id)
	}
	return nil, taskToOutput(doc, doc.Tasks[i]), nil
}

type ListTasksInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"all (default), pending or done"`
}

type ListTasksOutput struct {
	Tasks   []TaskOutput `json:"tasks"`
	Message string       `json:"message,omitempty"`
}

// ListTasks returns tasks in display order: pending first, then by due date.
func (h *TaskHandlers) ListTasks(_ context.Context, request *mcp.CallToolRequest, input ListTasksInput) (*mcp.CallToolResult, ListTasksOutput, error) {
	filter, ok := query.ParseTaskFilter(input.Filter)
	if !ok {
		return nil, ListTasksOutput{}, fmt.Errorf("invalid filter %q: expected all, pending or done", input.Filter)
	}

	doc := h.store.Snapshot()
	tasks := query.SortTasksForDisplay(query.FilterTasks(doc.Tasks, filter))

	out := ListTasksOutput{Tasks: make([]TaskOutput, 0, len(tasks))}
	for _, t := range tasks {
		out.Tasks = append(out.Tasks, taskToOutput(doc, t))
	}
	if len(out.Tasks) == 0 {
		out.Message = query.EmptyTaskMessage(filter)
	}
	return nil, out, nil
}

type ToggleTaskInput struct {
	ID   string `json:"id" jsonschema:"Task ID"`
	Done bool   `json:"done" jsonschema:"Whether the task is complete"`
}

func (h *TaskHandlers) ToggleTask(_ context.Context, request *mcp.CallToolRequest, input ToggleTaskInput) (*mcp.CallToolResult, StatusOutput, error) {
	ok, err := h.store.ToggleTask(input.ID, input.Done)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to update task: %w", err)
	}
	if !ok {
		return nil, StatusOutput{ID: input.ID, Message: "task not found"}, nil
	}
	msg := "task reopened"
	if input.Done {
		msg = "task completed"
	}
	return nil, StatusOutput{ID: input.ID, Changed: true, Message: msg}, nil
}

type TaskIDInput struct {
	ID string `json:"id" jsonschema:"Task ID"`
}

func (h *TaskHandlers) DeleteTask(_ context.Context, request *mcp.CallToolRequest, input TaskIDInput) (*mcp.CallToolResult, StatusOutput, error) {
	ok, err := h.store.DeleteTask(input.ID)
	if err != nil {
		return nil, StatusOutput{}, fmt.Errorf("failed to delete task: %w", err)
	}
	if !ok {
		return nil, StatusOutput{ID: input.ID, Message: "task not found"}, nil
	}
	return nil, StatusOutput{ID: input.ID, Changed: true, Message: "task deleted"}, nil
}

type ClearCompletedInput struct{}

type ClearCompletedOutput struct {
	Removed int `json:"removed"`
}

func (h *TaskHandlers) ClearCompletedTasks(_ context.Context, request *mcp.CallToolRequest, _ ClearCompletedInput) (*mcp.CallToolResult, ClearCompletedOutput, error) {
	n, err := h.store.ClearCompletedTasks()
	if err != nil {
		return nil, ClearCompletedOutput{}, fmt.Errorf("failed to clear completed tasks: %w", err)
	}
	return nil, ClearCompletedOutput{Removed: n}, nil
}
