package store_test

import (
	"context"
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matt-steen/myday/pkg/db"
	"github.com/matt-steen/myday/pkg/model"
	"github.com/matt-steen/myday/pkg/store"
	"github.com/matt-steen/myday/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakePersister struct {
	mu      sync.Mutex
	records map[string][]byte
	getErr  error
	putErr  error
	puts    int
	deletes int
}

func newFakePersister() *fakePersister {
	return &fakePersister{records: map[string][]byte{}}
}

func (f *fakePersister) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, false, f.getErr
	}

	value, ok := f.records[key]

	return value, ok, nil
}

func (f *fakePersister) Put(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.puts++

	if f.putErr != nil {
		return f.putErr
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	f.records[key] = value

	return nil
}

func (f *fakePersister) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deletes++
	delete(f.records, key)

	return nil
}

func (f *fakePersister) saved(t *testing.T) model.State {
	t.Helper()

	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.records[store.Key]
	require.True(t, ok, "nothing saved under %s", store.Key)

	state, err := store.Decode(value)
	require.NoError(t, err)

	return state
}

// workState is a small saved state: a work list with T1 (order 0) and T2 (order 1, important),
// plus the default list with one task.
func workState() model.State {
	return model.State{
		Lists: []model.List{
			{ID: "work", Name: "Work", Color: "#3b82f6", Order: 0},
			{ID: model.DefaultListID, Name: "Tasks", Order: 1},
		},
		Tasks: []model.Task{
			{ID: "T1", Title: "Write report", ListID: "work", CreatedAt: fixedNow.AddDate(0, 0, -1), Order: 0},
			{ID: "T2", Title: "Review PR", ListID: "work", Important: true, CreatedAt: fixedNow.AddDate(0, 0, -1), Order: 1},
			{ID: "T3", Title: "Water plants", ListID: model.DefaultListID, CreatedAt: fixedNow.AddDate(0, 0, -2), Order: 0},
		},
	}
}

func getStore(t *testing.T, state model.State) (*store.Store, *fakePersister) {
	t.Helper()

	persister := newFakePersister()

	value, err := store.Encode(state)
	require.NoError(t, err)

	persister.records[store.Key] = value

	return store.New(context.Background(), persister, store.WithClock(fixedClock)), persister
}

func findTask(state model.State, id string) (model.Task, bool) {
	for _, task := range state.Tasks {
		if task.ID == id {
			return task, true
		}
	}

	return model.Task{}, false
}

// listOrder returns the ids of the list's tasks sorted by order, along with the orders.
func listOrder(state model.State, listID string) ([]string, []int) {
	tasks := []model.Task{}

	for _, task := range state.Tasks {
		if task.ListID == listID {
			tasks = append(tasks, task)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })

	ids := make([]string, len(tasks))
	orders := make([]int, len(tasks))

	for i, task := range tasks {
		ids[i] = task.ID
		orders[i] = task.Order
	}

	return ids, orders
}

func TestNewWithoutPersisterUsesSeed(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s := store.New(context.Background(), nil, store.WithClock(fixedClock))
	state := s.Snapshot()

	assert.Equal(5, len(state.Lists))
	assert.Equal(7, len(state.Tasks))

	_, ok := state.FindList(model.DefaultListID)
	assert.True(ok)

	for _, task := range state.Tasks {
		assert.True(strings.HasPrefix(task.ID, "task-"))
		_, ok := state.FindList(task.ListID)
		assert.True(ok, "seed task %s points at unknown list %s", task.Title, task.ListID)
	}
}

func TestNewMissingRecordUsesSeed(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	persister := newFakePersister()
	s := store.New(context.Background(), persister, store.WithClock(fixedClock))

	assert.Equal(7, len(s.Snapshot().Tasks))
	// loading alone doesn't write anything
	assert.Equal(0, persister.puts)
}

func TestNewMalformedRecordUsesSeed(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	persister := newFakePersister()
	persister.records[store.Key] = []byte(`{"lists": [{"id": 12`)

	s := store.New(context.Background(), persister, store.WithClock(fixedClock))
	state := s.Snapshot()

	assert.Equal(5, len(state.Lists))
	assert.Equal(7, len(state.Tasks))

	// the unreadable record is dropped rather than left for the next start
	assert.Equal(1, persister.deletes)
	_, ok := persister.records[store.Key]
	assert.False(ok)
}

func TestNewRestoresDefaultList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	state := workState()
	state.Lists = state.Lists[:1]

	s, _ := getStore(t, state)

	list, ok := s.List(model.DefaultListID)
	assert.True(ok)
	assert.Equal("Tasks", list.Name)
	assert.Equal(1, list.Order)

	id, err := s.AddTask("Inbox item", "", store.TaskOptions{})
	assert.Nil(err)

	task, _ := s.Task(id)
	assert.Equal(model.DefaultListID, task.ListID)
}

func TestNewNormalizesSavedTimes(t *testing.T) {
	t.Parallel()

	persister := newFakePersister()
	persister.records[store.Key] = []byte(`{"lists": [{"id": "tasks_default", "name": "Tasks", "order": 0}],
		"tasks": [{"id": "T1", "title": "Call mom", "listId": "tasks_default", "important": false,
		"dueDate": "2024-03-18T00:00:00-05:00", "createdAt": "2024-03-14T09:00:00+01:00", "order": 0}]}`)

	s := store.New(context.Background(), persister, store.WithClock(fixedClock))

	task, ok := s.Task("T1")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 18, 5, 0, 0, 0, time.UTC), *task.DueDate)
	assert.Equal(t, time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC), task.CreatedAt)
}

func TestSavesAfterContextCancelled(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	ctx, cancel := context.WithCancel(context.Background())

	persister := newFakePersister()
	s := store.New(ctx, persister, store.WithClock(fixedClock))

	cancel()

	id, err := s.AddTask("After shutdown began", "", store.TaskOptions{})
	assert.Nil(err)

	_, ok := findTask(persister.saved(t), id)
	assert.True(ok)
}

func TestNewReadErrorUsesSeed(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	persister := newFakePersister()
	persister.getErr = errors.New("disk on fire")

	s := store.New(context.Background(), persister, store.WithClock(fixedClock))

	assert.Equal(7, len(s.Snapshot().Tasks))
}

func TestNewLoadsSavedState(t *testing.T) {
	t.Parallel()

	s, _ := getStore(t, workState())

	assert.Equal(t, workState(), s.Snapshot())
}

func TestAddTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	id, err := s.AddTask("  Buy milk ", "work", store.TaskOptions{})
	assert.Nil(err)
	assert.True(strings.HasPrefix(id, "task-"))

	task, ok := s.Task(id)
	assert.True(ok)
	assert.Equal("Buy milk", task.Title)
	assert.Equal("work", task.ListID)
	assert.Equal(2, task.Order)
	assert.Equal(fixedNow, task.CreatedAt)
	assert.False(task.Important)
	assert.Nil(task.AddedToMyDayAt)
	assert.Nil(task.DueDate)
	assert.Nil(task.CompletedAt)

	saved, ok := findTask(persister.saved(t), id)
	assert.True(ok)
	assert.Equal(task, saved)
}

func TestAddTaskOptions(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	due := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	id, err := s.AddTask("Plan sprint", "", store.TaskOptions{AddToMyDay: true, DueDate: &due, Notes: "agenda first"})
	assert.Nil(err)

	// created in a single save, notes included
	assert.Equal(1, persister.puts)

	task, ok := s.Task(id)
	assert.True(ok)
	assert.Equal("agenda first", task.Notes)
	assert.Equal(model.DefaultListID, task.ListID)
	assert.Equal(1, task.Order)
	assert.Equal(&fixedNow, task.AddedToMyDayAt)
	assert.Equal(&due, task.DueDate)

	// the store keeps its own copy of the due date
	due = due.AddDate(1, 0, 0)
	task, _ = s.Task(id)
	assert.Equal(2024, task.DueDate.Year())
}

func TestAddTaskEmptyTitle(t *testing.T) {
	t.Parallel()

	for _, title := range []string{"", "   ", "\t\n"} {
		title := title

		t.Run(title, func(t *testing.T) {
			t.Parallel()

			assert := assert.New(t)

			s, persister := getStore(t, workState())
			before := s.Snapshot()

			id, err := s.AddTask(title, "work", store.TaskOptions{})
			assert.Equal("", id)

			var validationErr *store.ValidationError
			assert.ErrorAs(err, &validationErr)
			assert.Equal("title", validationErr.Field)

			assert.Equal(before, s.Snapshot())
			assert.Equal(0, persister.puts)
		})
	}
}

func TestAddList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	id, err := s.AddList("  Home   Projects ", "#f97316")
	assert.Nil(err)
	assert.Equal("home-projects-1710496800000", id)

	list, ok := s.List(id)
	assert.True(ok)
	assert.Equal("Home   Projects", list.Name)
	assert.Equal("#f97316", list.Color)
	assert.Equal(2, list.Order)

	_, ok = persister.saved(t).FindList(id)
	assert.True(ok)
}

func TestAddListSameNameSameInstant(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	first, err := s.AddList("Errands", "")
	assert.Nil(err)

	second, err := s.AddList("Errands", "")
	assert.Nil(err)

	assert.NotEqual(first, second)
	assert.Equal(first+"-2", second)
}

func TestAddListEmptyName(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	_, err := s.AddList("  ", "#000000")

	var validationErr *store.ValidationError
	assert.ErrorAs(err, &validationErr)
	assert.Equal(2, len(s.Snapshot().Lists))
}

func TestUpdateList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	s.UpdateList("work", "Office")

	list, ok := s.List("work")
	assert.True(ok)
	assert.Equal("Office", list.Name)
	assert.Equal(1, persister.puts)

	s.UpdateList("nope", "Nothing")
	assert.Equal(1, persister.puts)
}

func TestDeleteList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	err := s.DeleteList("work")
	assert.Nil(err)

	state := s.Snapshot()
	_, ok := state.FindList("work")
	assert.False(ok)

	for _, task := range state.Tasks {
		assert.NotEqual("work", task.ListID)
	}

	assert.Equal(1, len(state.Tasks))
	assert.Equal(state, persister.saved(t))
}

func TestDeletedListNeverShown(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	s.UpdateTask("T1", store.SetAddedToMyDay(&fixedNow))
	s.UpdateTask("T2", store.SetDueDate(&fixedNow))
	assert.Nil(s.DeleteList("work"))

	state := s.Snapshot()
	selectors := []view.Selector{view.MyDay, view.Important, view.Planned, view.AllTasks, "work", model.DefaultListID}

	for _, selector := range selectors {
		for _, task := range view.Compute(state, selector, "", fixedNow) {
			assert.NotEqual("work", task.ListID, "%s still shows %s", selector, task.ID)
		}
	}
}

func TestDeleteDefaultList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	err := s.DeleteList(model.DefaultListID)

	var invalidErr *store.InvalidOperationError
	assert.ErrorAs(err, &invalidErr)
	assert.Equal(workState(), s.Snapshot())
	assert.Equal(0, persister.puts)
}

func TestDeleteMissingList(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	assert.Nil(s.DeleteList("nope"))
	assert.Equal(workState(), s.Snapshot())
	assert.Equal(0, persister.puts)
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	due := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	s.UpdateTask("T1", store.SetTitle(""), store.SetNotes("see wiki"), store.SetDueDate(&due))

	task, ok := s.Task("T1")
	assert.True(ok)
	// update is a raw merge, so an empty title is accepted
	assert.Equal("", task.Title)
	assert.Equal("see wiki", task.Notes)
	assert.Equal(&due, task.DueDate)
	// untouched fields stay as they were
	assert.Equal("work", task.ListID)
	assert.Equal(0, task.Order)
	assert.Equal(1, persister.puts)

	s.UpdateTask("T1", store.SetDueDate(nil), store.SetImportant(true))

	task, _ = s.Task("T1")
	assert.Nil(task.DueDate)
	assert.True(task.Important)
}

func TestUpdateTaskKeepsIdentity(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	s.UpdateTask("T1", func(task *model.Task) {
		task.ID = "hijacked"
		task.CreatedAt = time.Time{}
		task.Title = "Renamed"
	})

	task, ok := s.Task("T1")
	assert.True(ok)
	assert.Equal("Renamed", task.Title)
	assert.Equal(fixedNow.AddDate(0, 0, -1), task.CreatedAt)

	_, ok = s.Task("hijacked")
	assert.False(ok)
}

func TestUpdateMissingTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	s.UpdateTask("nope", store.SetTitle("x"))
	s.UpdateTask("T1")

	assert.Equal(workState(), s.Snapshot())
	assert.Equal(0, persister.puts)
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	s.DeleteTask("T1")
	s.DeleteTask("T1")

	_, ok := s.Task("T1")
	assert.False(ok)
	assert.Equal(2, len(s.Snapshot().Tasks))
	assert.Equal(1, persister.puts)
}

func TestToggleImportant(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	s.ToggleImportant("T1")
	task, _ := s.Task("T1")
	assert.True(task.Important)

	s.ToggleImportant("T1")
	task, _ = s.Task("T1")
	assert.False(task.Important)

	s.ToggleImportant("nope")
	assert.Equal(workState(), s.Snapshot())
}

func TestToggleCompleteRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	s.ToggleComplete("T1")

	task, _ := s.Task("T1")
	assert.True(task.Completed())
	assert.Equal(&fixedNow, task.CompletedAt)

	s.ToggleComplete("T1")

	task, _ = s.Task("T1")
	assert.False(task.Completed())
	assert.Nil(task.CompletedAt)
	assert.Equal(workState(), s.Snapshot())
	assert.Equal(2, persister.puts)
}

func TestAddedTaskShowsInAllTasks(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	for i, title := range []string{"one", "two", "three"} {
		id, err := s.AddTask(title, "work", store.TaskOptions{})
		assert.Nil(err)

		task, _ := s.Task(id)
		assert.Equal(2+i, task.Order)

		found := false
		for _, shown := range view.Compute(s.Snapshot(), view.AllTasks, "", fixedNow) {
			found = found || shown.ID == id
		}

		assert.True(found, "%s missing from all tasks", title)
	}
}

func TestToggleCompleteConcurrent(t *testing.T) {
	t.Parallel()

	s, _ := getStore(t, workState())

	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			s.ToggleComplete("T1")
		}()
	}

	wg.Wait()

	// an even number of toggles leaves the task open
	task, _ := s.Task("T1")
	assert.Nil(t, task.CompletedAt)
}

func TestReorderNewTaskBeforeFirst(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	milk, err := s.AddTask("Buy milk", "work", store.TaskOptions{})
	assert.Nil(err)

	s.ReorderTask("work", milk, "T1")

	ids, orders := listOrder(s.Snapshot(), "work")
	assert.Equal([]string{milk, "T1", "T2"}, ids)
	assert.Equal([]int{0, 1, 2}, orders)

	ids, _ = listOrder(persister.saved(t), "work")
	assert.Equal([]string{milk, "T1", "T2"}, ids)
}

func TestReorderMoveDown(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	a, _ := s.AddTask("A", "work", store.TaskOptions{})
	b, _ := s.AddTask("B", "work", store.TaskOptions{})

	// T1 T2 A B -> T2 A T1 B
	s.ReorderTask("work", "T1", a)

	ids, orders := listOrder(s.Snapshot(), "work")
	assert.Equal([]string{"T2", a, "T1", b}, ids)
	assert.Equal([]int{0, 1, 2, 3}, orders)
}

func TestReorderUsesCurrentOrderNotStorageOrder(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	state := workState()
	// stored out of order: T2 comes first in the slice but has the higher order
	state.Tasks[0], state.Tasks[1] = state.Tasks[1], state.Tasks[0]
	state.Tasks = append(state.Tasks, model.Task{ID: "T4", Title: "Plan", ListID: "work", Order: 5, CreatedAt: fixedNow})

	s, _ := getStore(t, state)

	s.ReorderTask("work", "T4", "T2")

	ids, orders := listOrder(s.Snapshot(), "work")
	assert.Equal([]string{"T1", "T4", "T2"}, ids)
	assert.Equal([]int{0, 1, 2}, orders)
}

func TestReorderSameTask(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	state := workState()
	// gaps in the orders must survive a no-op reorder
	state.Tasks[1].Order = 7

	s, persister := getStore(t, state)

	s.ReorderTask("work", "T1", "T1")

	assert.Equal(state, s.Snapshot())
	assert.Equal(0, persister.puts)
}

func TestReorderOutsideSubset(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	// T3 lives in the default list
	s.ReorderTask("work", "T1", "T3")
	s.ReorderTask("work", "nope", "T1")
	s.ReorderTask("nope", "T1", "T2")

	assert.Equal(workState(), s.Snapshot())
	assert.Equal(0, persister.puts)
}

func TestReorderPreservesMembership(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())

	for i := 0; i < 5; i++ {
		_, err := s.AddTask("filler", "work", store.TaskOptions{})
		assert.Nil(err)
	}

	before := s.Snapshot()
	beforeIDs, _ := listOrder(before, "work")
	defaultBefore, defaultOrders := listOrder(before, model.DefaultListID)

	s.ReorderTask("work", beforeIDs[5], beforeIDs[1])
	s.ReorderTask("work", beforeIDs[0], beforeIDs[6])

	after := s.Snapshot()
	afterIDs, orders := listOrder(after, "work")

	assert.ElementsMatch(beforeIDs, afterIDs)
	assert.Equal([]int{0, 1, 2, 3, 4, 5, 6}, orders)

	defaultAfter, defaultOrdersAfter := listOrder(after, model.DefaultListID)
	assert.Equal(defaultBefore, defaultAfter)
	assert.Equal(defaultOrders, defaultOrdersAfter)
}

func TestPersistenceRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())

	listID, err := s.AddList("Garden", "#22c55e")
	assert.Nil(err)

	est := time.FixedZone("EST", -5*60*60)
	due := time.Date(2024, 3, 18, 0, 0, 0, 0, est)
	id, err := s.AddTask("Plant tulips", listID, store.TaskOptions{AddToMyDay: true, DueDate: &due})
	assert.Nil(err)

	s.ToggleComplete("T2")

	myDay := time.Now().In(time.FixedZone("UTC+9", 9*60*60))
	s.UpdateTask("T1", store.SetNotes("quarterly"), store.SetAddedToMyDay(&myDay))

	original := s.Snapshot()

	task, _ := findTask(original, id)
	assert.Equal(time.Date(2024, 3, 18, 5, 0, 0, 0, time.UTC), *task.DueDate)

	reloaded := store.New(context.Background(), persister, store.WithClock(fixedClock))
	assert.Equal(original, reloaded.Snapshot())
}

func TestSaveFailureKeepsChange(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, persister := getStore(t, workState())
	persister.putErr = errors.New("read-only file system")

	id, err := s.AddTask("Still here", "work", store.TaskOptions{})
	assert.Nil(err)

	_, ok := s.Task(id)
	assert.True(ok)
	assert.Equal(1, persister.puts)
}

func TestSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	s, _ := getStore(t, workState())
	s.ToggleComplete("T1")

	snapshot := s.Snapshot()
	snapshot.Tasks[0].Title = "changed"
	*snapshot.Tasks[0].CompletedAt = time.Time{}
	snapshot.Lists[0].Name = "changed"

	task, _ := s.Task("T1")
	assert.Equal("Write report", task.Title)
	assert.Equal(&fixedNow, task.CompletedAt)

	list, _ := s.List("work")
	assert.Equal("Work", list.Name)
}

func TestStoreWithDatabase(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	ctx := context.Background()

	filename := filepath.Join(t.TempDir(), "store.sqlite")

	database, err := db.NewDatabase(ctx, filename)
	require.NoError(t, err)

	s := store.New(ctx, database, store.WithClock(fixedClock))
	id, err := s.AddTask("Persisted", model.DefaultListID, store.TaskOptions{})
	assert.Nil(err)

	original := s.Snapshot()
	assert.Nil(database.Close())

	database, err = db.NewDatabase(ctx, filename)
	require.NoError(t, err)

	defer database.Close()

	reloaded := store.New(ctx, database, store.WithClock(fixedClock))
	assert.Equal(original, reloaded.Snapshot())

	_, ok := reloaded.Task(id)
	assert.True(ok)
}
