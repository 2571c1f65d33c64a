// ABOUTME: Task mutations on the document store
// ABOUTME: Creates, toggles, deletes and bulk-clears follow-up tasks
package store

import (
	"strings"
	"time"

	"github.com/harperreed/simplecrm/models"
)

// CreateTask inserts a pending task at the front. contactID may be empty.
func (s *Store) CreateTask(title, contactID, dueDate string) (string, error) {
	in := taskInput{
		Title:     strings.TrimSpace(title),
		ContactID: strings.TrimSpace(contactID),
		DueDate:   strings.TrimSpace(dueDate),
	}
	if err := s.check(in); err != nil {
		return "", err
	}

	id, _, err := s.apply(OpCreateTask, func(doc *models.Document, now time.Time) (string, bool, error) {
		t := models.Task{
			ID:        models.NewID(),
			Title:     in.Title,
			ContactID: models.Ref(in.ContactID),
			DueDate:   in.DueDate,
			CreatedAt: models.Timestamp(now),
		}
		doc.Tasks = append([]models.Task{t}, doc.Tasks...)
		return t.ID, true, nil
	})
	return id, err
}

// ToggleTask sets the done flag of a task.
func (s *Store) ToggleTask(id string, done bool) (bool, error) {
	_, ok, err := s.apply(OpToggleTask, func(doc *models.Document, _ time.Time) (string, bool, error) {
		i := doc.TaskIndex(id)
		if i < 0 {
			return "", false, nil
		}
		doc.Tasks[i].Done = done
		return id, true, nil
	})
	return ok, err
}

func (s *Store) DeleteTask(id string) (bool, error) {
	_, ok, err := s.apply(OpDeleteTask, func(doc *models.Document, _ time.Time) (string, bool, error) {
		i := doc.TaskIndex(id)
		if i < 0 {
			return "", false, nil
		}
		doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
		return id, true, nil
	})
	return ok, err
}

// ClearCompletedTasks removes every done task and returns how many went.
func (s *Store) ClearCompletedTasks() (int, error) {
	removed := 0
	_, _, err := s.apply(OpClearCompleted, func(doc *models.Document, _ time.Time) (string, bool, error) {
		kept := make([]models.Task, 0, len(doc.Tasks))
		for _, t := range doc.Tasks {
			if t.Done {
				removed++
				continue
			}
			kept = append(kept, t)
		}
		doc.Tasks = kept
		return "", removed > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
