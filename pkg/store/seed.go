package store

import (
	"time"

	"github.com/matt-steen/myday/pkg/model"
)

const (
	defaultListName  = "Tasks"
	defaultListColor = "#64748b"
)

// seedState is the example data used on first start and when the saved record is unreadable.
func seedState(now time.Time) model.State {
	lists := []model.List{
		{ID: "work", Name: "Work", Color: "#3b82f6", Order: 0},
		{ID: "personal", Name: "Personal", Color: "#8b5cf6", Order: 1},
		{ID: "house", Name: "House", Color: "#22c55e", Order: 2},
		{ID: "social", Name: "Social", Color: "#ec4899", Order: 3},
		{ID: model.DefaultListID, Name: defaultListName, Color: defaultListColor, Order: 4},
	}

	daysAgo := func(n int) time.Time { return now.AddDate(0, 0, -n) }
	inDays := func(n int) *time.Time {
		t := now.AddDate(0, 0, n)

		return &t
	}
	today := func() *time.Time {
		t := now

		return &t
	}

	tasks := []model.Task{
		{
			ID: newTaskID(), Title: "Finish Q3 report", ListID: "work", Important: true,
			CreatedAt: daysAgo(2), Order: 0, AddedToMyDayAt: today(),
		},
		{
			ID: newTaskID(), Title: "Call the plumber", ListID: "house",
			CreatedAt: daysAgo(1), Order: 0, AddedToMyDayAt: today(),
		},
		{
			ID: newTaskID(), Title: "Buy groceries", ListID: "personal",
			CreatedAt: now, DueDate: inDays(1), Order: 0,
		},
		{
			ID: newTaskID(), Title: "Schedule team offsite", ListID: "work",
			CreatedAt: daysAgo(5), DueDate: inDays(5), Order: 1,
		},
		{
			ID: newTaskID(), Title: "Plan birthday party", ListID: "social",
			CreatedAt: daysAgo(10), Order: 0,
		},
		{
			ID: newTaskID(), Title: "Pay electricity bill", ListID: "house",
			CreatedAt: now, Order: 1, AddedToMyDayAt: today(), CompletedAt: today(),
		},
		{
			ID: newTaskID(), Title: "Read a book chapter", ListID: "personal",
			CreatedAt: daysAgo(8), Order: 1,
		},
	}

	return model.State{Lists: lists, Tasks: tasks}
}
