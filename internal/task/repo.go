package task

import (
	"errors"
	"strings"

	"github.com/OussamaSlimani/tasks/internal/model"
)

var (
	ErrNotFound   = errors.New("task not found")
	ErrInvalidDay = errors.New("day not configured for task")
)

// Repo is the persistence contract shared by both backends. Writes are
// atomic with respect to readers; ids are assigned by the store on create
// and never change.
type Repo interface {
	List() ([]model.Task, error)
	Get(id model.TaskID) (model.Task, error)
	Create(in model.TaskUpsert) (model.Task, error)
	Replace(id model.TaskID, in model.TaskUpsert) (model.Task, error)
	ToggleDay(id model.TaskID, day string) (model.Task, error)
	Delete(id model.TaskID) error
}

// Watcher is the optional change-notification capability layered on top of
// the Repo contract. Subscribers receive a full snapshot after every
// mutation; cancel detaches the subscriber.
type Watcher interface {
	Watch(fn func([]model.Task)) (cancel func())
}

// fill turns an upsert into a stored task: trimmed name, normalized day
// set, defaulted priority and category, points derived from priority when
// absent, completion map initialized pending for every day.
func fill(in model.TaskUpsert) model.Task {
	days := model.NormalizeDays(in.Days)
	priority := model.NormalizePriority(in.Priority)
	points := in.Points
	if points <= 0 {
		points = model.PointsForPriority(priority)
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = model.DefaultCategory
	}
	return model.Task{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Points:      points,
		Days:        days,
		Priority:    priority,
		Category:    category,
		Completed:   model.InitCompleted(days),
	}
}

// replaceFields applies a full-replace update: every editable field comes
// from the upsert, completion state is reconciled against the new day set,
// the id stays.
func replaceFields(cur model.Task, in model.TaskUpsert) model.Task {
	next := fill(in)
	next.ID = cur.ID
	next.Completed = model.ReconcileCompleted(next.Days, cur.Completed)
	return next
}
