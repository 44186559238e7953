// Package store owns the lists and tasks. All changes go through the Store's operations, which
// keep the invariants (default list, per-list order) and write the full state back to local
// storage after every successful mutation.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/matt-steen/myday/pkg/model"
	"github.com/rs/zerolog/log"
)

// Persister is the local key-value storage the store saves into. *db.Database implements it.
type Persister interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store holds the canonical collections. It is safe for use from multiple goroutines; every
// operation is applied completely or not at all.
type Store struct {
	ctx       context.Context
	persister Persister
	now       func() time.Time

	mu    sync.Mutex
	lists []model.List
	tasks []model.Task
}

// New creates a store and loads the saved state. A missing or unreadable record falls back to
// the seed data. persister may be nil, in which case nothing is saved.
//
// The store outlives ctx: it carries ctx's values to the persister, but cancelling ctx doesn't
// stop later saves.
func New(ctx context.Context, persister Persister, opts ...Option) *Store {
	s := &Store{
		ctx:       context.WithoutCancel(ctx),
		persister: persister,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	state := s.load()
	s.lists = state.Lists
	s.tasks = state.Tasks

	return s
}

// clock returns the current time in UTC without a monotonic reading, so saved timestamps
// compare equal after a reload.
func (s *Store) clock() time.Time {
	return s.now().UTC().Round(0)
}

// Snapshot returns a copy of the current lists and tasks.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state().Clone()
}

// List returns the list with the given id.
func (s *Store) List(id string) (model.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state().FindList(id)
}

// Task returns a copy of the task with the given id.
func (s *Store) Task(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndex(id)
	if idx < 0 {
		return model.Task{}, false
	}

	return s.tasks[idx].Clone(), true
}

// AddList creates a list and returns its id. The id is derived from the name plus the
// creation time.
func (s *Store) AddList(name, color string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", &ValidationError{Field: "list name", Reason: "must not be empty"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newListID(name)
	s.lists = append(s.lists, model.List{
		ID:    id,
		Name:  name,
		Color: color,
		Order: len(s.lists),
	})

	log.Debug().Str("list", id).Msgf("added list '%s'", name)
	s.save()

	return id, nil
}

// UpdateList renames a list. Unknown ids are ignored.
func (s *Store) UpdateList(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lists {
		if s.lists[i].ID == id {
			s.lists[i].Name = name

			log.Debug().Str("list", id).Msgf("renamed list to '%s'", name)
			s.save()

			return
		}
	}
}

// DeleteList removes a list together with all of its tasks. The default list can't be deleted;
// unknown ids are ignored.
func (s *Store) DeleteList(id string) error {
	if id == model.DefaultListID {
		return &InvalidOperationError{Op: "delete list", Reason: "the default list is protected"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lists := make([]model.List, 0, len(s.lists))
	for _, list := range s.lists {
		if list.ID != id {
			lists = append(lists, list)
		}
	}

	if len(lists) == len(s.lists) {
		return nil
	}

	tasks := make([]model.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if task.ListID != id {
			tasks = append(tasks, task)
		}
	}

	log.Debug().Str("list", id).Int("tasks", len(s.tasks)-len(tasks)).Msg("deleted list")

	s.lists = lists
	s.tasks = tasks
	s.save()

	return nil
}

// AddTask creates a task at the end of the given list and returns its id. An empty listID
// means the default list.
func (s *Store) AddTask(title, listID string, opts TaskOptions) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", &ValidationError{Field: "title", Reason: "must not be empty"}
	}

	if listID == "" {
		listID = model.DefaultListID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	task := model.Task{
		ID:        newTaskID(),
		Title:     title,
		Notes:     opts.Notes,
		ListID:    listID,
		DueDate:   model.CopyTime(opts.DueDate),
		CreatedAt: now,
		Order:     s.countInList(listID),
	}

	if opts.AddToMyDay {
		task.AddedToMyDayAt = &now
	}

	s.tasks = append(s.tasks, task)

	log.Debug().Str("task", task.ID).Str("list", listID).Int("order", task.Order).Msgf("added task '%s'", title)
	s.save()

	return task.ID, nil
}

// UpdateTask applies the changes to the task in order. It is a raw merge: no validation is
// done, but the id and creation time can't be changed. Unknown ids are ignored.
func (s *Store) UpdateTask(id string, changes ...TaskChange) {
	if len(changes) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndex(id)
	if idx < 0 {
		return
	}

	task := s.tasks[idx]
	for _, change := range changes {
		change(&task)
	}

	task.ID = s.tasks[idx].ID
	task.CreatedAt = s.tasks[idx].CreatedAt
	s.tasks[idx] = task

	log.Debug().Str("task", id).Int("changes", len(changes)).Msg("updated task")
	s.save()
}

// DeleteTask removes a task. Unknown ids are ignored.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndex(id)
	if idx < 0 {
		return
	}

	s.tasks = append(s.tasks[:idx:idx], s.tasks[idx+1:]...)

	log.Debug().Str("task", id).Msg("deleted task")
	s.save()
}

// ToggleImportant flips the important flag. Unknown ids are ignored.
func (s *Store) ToggleImportant(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndex(id)
	if idx < 0 {
		return
	}

	s.tasks[idx].Important = !s.tasks[idx].Important

	log.Debug().Str("task", id).Bool("important", s.tasks[idx].Important).Msg("toggled important")
	s.save()
}

// ToggleComplete marks an open task completed now, or reopens a completed one. Unknown ids
// are ignored.
func (s *Store) ToggleComplete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.taskIndex(id)
	if idx < 0 {
		return
	}

	if s.tasks[idx].CompletedAt != nil {
		s.tasks[idx].CompletedAt = nil
	} else {
		now := s.clock()
		s.tasks[idx].CompletedAt = &now
	}

	log.Debug().Str("task", id).Bool("completed", s.tasks[idx].Completed()).Msg("toggled complete")
	s.save()
}

// ReorderTask moves movedID to targetID's position within listID, shifting the tasks in
// between, and renumbers the list's tasks 0..n-1. Nothing happens unless both tasks belong
// to listID and they differ.
func (s *Store) ReorderTask(listID, movedID, targetID string) {
	if movedID == targetID {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// indexes into s.tasks, in the list's current order
	subset := []int{}
	for i := range s.tasks {
		if s.tasks[i].ListID == listID {
			subset = append(subset, i)
		}
	}

	sort.SliceStable(subset, func(a, b int) bool {
		return s.tasks[subset[a]].Order < s.tasks[subset[b]].Order
	})

	from, to := -1, -1

	for pos, idx := range subset {
		switch s.tasks[idx].ID {
		case movedID:
			from = pos
		case targetID:
			to = pos
		}
	}

	if from < 0 || to < 0 {
		return
	}

	moved := subset[from]

	reordered := make([]int, 0, len(subset))
	reordered = append(reordered, subset[:from]...)
	reordered = append(reordered, subset[from+1:]...)
	reordered = append(reordered[:to], append([]int{moved}, reordered[to:]...)...)

	for order, idx := range reordered {
		s.tasks[idx].Order = order
	}

	log.Debug().Str("list", listID).Str("task", movedID).Int("from", from).Int("to", to).Msg("reordered task")
	s.save()
}

func (s *Store) state() model.State {
	return model.State{Lists: s.lists, Tasks: s.tasks}
}

func (s *Store) taskIndex(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}

	return -1
}

func (s *Store) countInList(listID string) int {
	count := 0

	for i := range s.tasks {
		if s.tasks[i].ListID == listID {
			count++
		}
	}

	return count
}

func (s *Store) newListID(name string) string {
	base := fmt.Sprintf("%s-%d", slugify(name), s.clock().UnixMilli())

	id := base
	for n := 2; s.listExists(id); n++ {
		id = fmt.Sprintf("%s-%d", base, n)
	}

	return id
}

func (s *Store) listExists(id string) bool {
	_, ok := s.state().FindList(id)

	return ok
}

// slugify lowercases the name and joins its words with dashes.
func slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func newTaskID() string {
	return "task-" + uuid.NewString()
}
