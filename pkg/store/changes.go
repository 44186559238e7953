package store

import (
	"time"

	"github.com/matt-steen/myday/pkg/model"
)

// TaskOptions are the optional settings for AddTask.
type TaskOptions struct {
	// AddToMyDay sets AddedToMyDayAt to the creation time.
	AddToMyDay bool
	// DueDate is stored in UTC; callers normalize it to a day boundary.
	DueDate *time.Time
	// Notes are stored as given.
	Notes string
}

// TaskChange overwrites a single field of a task. UpdateTask applies them in order.
type TaskChange func(*model.Task)

// SetTitle replaces the title. Unlike AddTask, an empty title is accepted.
func SetTitle(title string) TaskChange {
	return func(t *model.Task) { t.Title = title }
}

// SetNotes replaces the notes; an empty string clears them.
func SetNotes(notes string) TaskChange {
	return func(t *model.Task) { t.Notes = notes }
}

// SetList moves the task to another list without touching its order.
func SetList(listID string) TaskChange {
	return func(t *model.Task) { t.ListID = listID }
}

// SetDueDate replaces the due date; nil clears it.
func SetDueDate(due *time.Time) TaskChange {
	return func(t *model.Task) { t.DueDate = model.CopyTime(due) }
}

// SetImportant sets the important flag.
func SetImportant(important bool) TaskChange {
	return func(t *model.Task) { t.Important = important }
}

// SetAddedToMyDay replaces the My Day timestamp; nil removes the task from My Day.
func SetAddedToMyDay(at *time.Time) TaskChange {
	return func(t *model.Task) { t.AddedToMyDayAt = model.CopyTime(at) }
}

// SetCompletedAt replaces the completion timestamp; nil marks the task as not completed.
func SetCompletedAt(at *time.Time) TaskChange {
	return func(t *model.Task) { t.CompletedAt = model.CopyTime(at) }
}

// SetOrder replaces the position within the owning list.
func SetOrder(order int) TaskChange {
	return func(t *model.Task) { t.Order = order }
}
