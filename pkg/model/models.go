package model

import "time"

// DefaultListID identifies the catch-all list. It always exists and cannot be deleted.
const DefaultListID = "tasks_default"

// List is a user-defined grouping of tasks.
type List struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
	// Order is only used to keep custom lists in a stable display order.
	Order int `json:"order"`
}

// Task is a single todo entry. It belongs to exactly one List.
type Task struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Notes   string     `json:"notes,omitempty"`
	ListID  string     `json:"listId"`
	DueDate *time.Time `json:"dueDate,omitempty"`
	// Important is independent of list and view membership.
	Important bool `json:"important"`
	// AddedToMyDayAt marks when the task was added to My Day; it only counts on that calendar day.
	AddedToMyDayAt *time.Time `json:"addedToMyDayAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	// CompletedAt is set while the task is completed.
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	// Order is the position within the owning list. It is rewritten to 0..n-1 on every reorder
	// of that list and is not meaningful across lists.
	Order int `json:"order"`
}

// Completed reports whether the task is in the completed state.
func (t Task) Completed() bool {
	return t.CompletedAt != nil
}

// State is everything that gets persisted: the lists and the tasks, in store order.
type State struct {
	Lists []List `json:"lists"`
	Tasks []Task `json:"tasks"`
}

// Clone returns a deep copy of the state so callers can't reach into the store's collections.
func (s State) Clone() State {
	clone := State{
		Lists: make([]List, len(s.Lists)),
		Tasks: make([]Task, len(s.Tasks)),
	}

	copy(clone.Lists, s.Lists)

	for i, task := range s.Tasks {
		clone.Tasks[i] = task.Clone()
	}

	return clone
}

// FindList returns the list with the given id.
func (s State) FindList(id string) (List, bool) {
	for _, list := range s.Lists {
		if list.ID == id {
			return list, true
		}
	}

	return List{}, false
}

// ListNames maps list ids to their display names.
func (s State) ListNames() map[string]string {
	names := make(map[string]string, len(s.Lists))
	for _, list := range s.Lists {
		names[list.ID] = list.Name
	}

	return names
}

// Clone returns a copy of the task that shares no timestamps with the original. The copied
// timestamps are in canonical form (see CopyTime).
func (t Task) Clone() Task {
	t.DueDate = CopyTime(t.DueDate)
	t.AddedToMyDayAt = CopyTime(t.AddedToMyDayAt)
	t.CompletedAt = CopyTime(t.CompletedAt)
	t.CreatedAt = t.CreatedAt.UTC().Round(0)

	return t
}

// CopyTime returns a copy of t in UTC with the monotonic reading stripped, which is the only
// form timestamps are kept in. A save and reload gives back an identical value.
func CopyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	c := t.UTC().Round(0)

	return &c
}
