// Package view derives what to show from a snapshot of the store. Everything here is a pure
// function of its inputs; smart-view membership is defined only in this package.
package view

import (
	"sort"
	"strings"
	"time"

	"github.com/matt-steen/myday/pkg/dates"
	"github.com/matt-steen/myday/pkg/model"
)

// Selector names what to show: a list id or one of the smart views.
type Selector string

// These are the smart views. They are computed from task fields and never change a task's list.
const (
	MyDay     Selector = "my-day"
	Important Selector = "important"
	Planned   Selector = "planned"
	// AllTasks is every uncompleted task, whatever its list.
	AllTasks Selector = "all-tasks"
)

// ListSelector selects the tasks of a single list.
func ListSelector(listID string) Selector {
	return Selector(listID)
}

// IsSmart reports whether the selector is a computed view rather than a list.
func (s Selector) IsSmart() bool {
	switch s {
	case MyDay, Important, Planned, AllTasks:
		return true
	}

	return false
}

// Compute returns the uncompleted tasks matching the selector and the search query, important
// tasks first and then by their order within their own list.
func Compute(state model.State, selector Selector, query string, now time.Time) []model.Task {
	match := filter(selector, now)

	tasks := []model.Task{}

	for _, task := range state.Tasks {
		if task.Completed() || !match(task) || !matchesQuery(task, query, true) {
			continue
		}

		tasks = append(tasks, task)
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Important != tasks[j].Important {
			return tasks[i].Important
		}

		return tasks[i].Order < tasks[j].Order
	})

	return tasks
}

func filter(selector Selector, now time.Time) func(model.Task) bool {
	switch selector {
	case MyDay:
		return func(t model.Task) bool { return dates.IsToday(t.AddedToMyDayAt, now) }
	case Important:
		return func(t model.Task) bool { return t.Important }
	case Planned:
		return func(t model.Task) bool { return t.DueDate != nil }
	case AllTasks:
		return func(model.Task) bool { return true }
	default:
		return func(t model.Task) bool { return t.ListID == string(selector) }
	}
}

// matchesQuery does a case-insensitive substring match on the title and, if withNotes is set,
// the notes. An empty query matches everything.
func matchesQuery(task model.Task, query string, withNotes bool) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}

	if strings.Contains(strings.ToLower(task.Title), query) {
		return true
	}

	return withNotes && task.Notes != "" && strings.Contains(strings.ToLower(task.Notes), query)
}

// DueLater returns the uncompleted tasks due tomorrow or later, soonest first.
func DueLater(tasks []model.Task, now time.Time) []model.Task {
	later := []model.Task{}

	for _, task := range tasks {
		if !task.Completed() && dates.IsAfterToday(task.DueDate, now) {
			later = append(later, task)
		}
	}

	sort.SliceStable(later, func(i, j int) bool {
		return later[i].DueDate.Before(*later[j].DueDate)
	})

	return later
}

// CompletedToday returns the tasks completed on now's calendar day, most recent first.
func CompletedToday(tasks []model.Task, now time.Time) []model.Task {
	done := []model.Task{}

	for _, task := range tasks {
		if dates.IsToday(task.CompletedAt, now) {
			done = append(done, task)
		}
	}

	sort.SliceStable(done, func(i, j int) bool {
		return done[i].CompletedAt.After(*done[j].CompletedAt)
	})

	return done
}

// Undated returns the uncompleted tasks without a due date, newest first.
func Undated(tasks []model.Task) []model.Task {
	undated := []model.Task{}

	for _, task := range tasks {
		if !task.Completed() && task.DueDate == nil {
			undated = append(undated, task)
		}
	}

	sort.SliceStable(undated, func(i, j int) bool {
		return undated[i].CreatedAt.After(undated[j].CreatedAt)
	})

	return undated
}

// Pending returns every uncompleted task matching the title query: dated tasks first by due
// date, then undated tasks newest first.
func Pending(tasks []model.Task, query string) []model.Task {
	pending := []model.Task{}

	for _, task := range tasks {
		if !task.Completed() && matchesQuery(task, query, false) {
			pending = append(pending, task)
		}
	}

	sort.SliceStable(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]

		switch {
		case a.DueDate != nil && b.DueDate != nil:
			return a.DueDate.Before(*b.DueDate)
		case a.DueDate != nil:
			return true
		case b.DueDate != nil:
			return false
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	return pending
}

// Completed returns every completed task matching the title query, most recently completed first.
func Completed(tasks []model.Task, query string) []model.Task {
	completed := []model.Task{}

	for _, task := range tasks {
		if task.Completed() && matchesQuery(task, query, false) {
			completed = append(completed, task)
		}
	}

	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].CompletedAt.After(*completed[j].CompletedAt)
	})

	return completed
}
