package view

import (
	"time"

	"github.com/matt-steen/myday/pkg/dates"
	"github.com/matt-steen/myday/pkg/model"
)

// Suggestions feed the side panel next to the task list.
type Suggestions struct {
	Later          []model.Task
	Undated        []model.Task
	CompletedToday []model.Task
}

// Empty reports whether there is nothing to suggest.
func (s Suggestions) Empty() bool {
	return len(s.Later) == 0 && len(s.Undated) == 0 && len(s.CompletedToday) == 0
}

// Suggest builds the side panel sections, each capped at limit entries.
func Suggest(state model.State, now time.Time, limit int) Suggestions {
	return Suggestions{
		Later:          head(DueLater(state.Tasks, now), limit),
		Undated:        head(Undated(state.Tasks), limit),
		CompletedToday: head(CompletedToday(state.Tasks, now), limit),
	}
}

func head(tasks []model.Task, limit int) []model.Task {
	if limit >= 0 && len(tasks) > limit {
		return tasks[:limit]
	}

	return tasks
}

// Counts holds the number of uncompleted tasks behind each sidebar entry.
type Counts struct {
	MyDay     int
	Important int
	Planned   int
	All       int
	Lists     map[string]int
}

// Count tallies the sidebar counts using the same rules as Compute.
func Count(state model.State, now time.Time) Counts {
	counts := Counts{Lists: map[string]int{}}

	for _, task := range state.Tasks {
		if task.Completed() {
			continue
		}

		counts.All++
		counts.Lists[task.ListID]++

		if dates.IsToday(task.AddedToMyDayAt, now) {
			counts.MyDay++
		}

		if task.Important {
			counts.Important++
		}

		if task.DueDate != nil {
			counts.Planned++
		}
	}

	return counts
}

// Title is the heading for a selector.
func Title(selector Selector, lists []model.List) string {
	state := model.State{Lists: lists}

	switch selector {
	case MyDay:
		return "My Day"
	case Important:
		return "Important"
	case Planned:
		return "Planned"
	case AllTasks:
		if list, ok := state.FindList(model.DefaultListID); ok {
			return list.Name
		}
	default:
		if list, ok := state.FindList(string(selector)); ok {
			return list.Name
		}
	}

	return "Tasks"
}

// AddTarget says where a task created while showing selector goes. Tasks are never created in
// a smart view: they land in the default list, and ones created from My Day are added to it.
func AddTarget(selector Selector) (listID string, addToMyDay bool) {
	if selector.IsSmart() {
		return model.DefaultListID, selector == MyDay
	}

	return string(selector), false
}
