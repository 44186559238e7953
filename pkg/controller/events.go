package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/myday/pkg/dates"
	"github.com/matt-steen/myday/pkg/store"
	"github.com/matt-steen/myday/pkg/view"
	"github.com/rs/zerolog/log"
)

func (c *Controller) initEvents() {
	c.events = map[tcell.Key]KeyEvent{}
	c.formEvents = map[tcell.Key]KeyEvent{}

	c.initShowEvents(c.events)
	c.initTaskEvents(c.events)
	c.initListEvents(c.events)
	c.initExitEvent(c.events)

	c.formEvents[tcell.KeyEscape] = KeyEvent{
		Description: "Cancel",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.showMain()

			return nil
		},
	}
}

func (c *Controller) initExitEvent(events map[tcell.Key]KeyEvent) {
	events[KeyQ] = KeyEvent{
		Description: "Exit",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.Stop()

			return nil
		},
	}
}

func (c *Controller) getShowAction(selector view.Selector) func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		c.showView(selector)

		return nil
	}
}

func (c *Controller) initShowEvents(events map[tcell.Key]KeyEvent) {
	events[Key1] = KeyEvent{Description: "Show My Day", Action: c.getShowAction(view.MyDay)}
	events[Key2] = KeyEvent{Description: "Show Important", Action: c.getShowAction(view.Important)}
	events[Key3] = KeyEvent{Description: "Show Planned", Action: c.getShowAction(view.Planned)}
	events[Key4] = KeyEvent{Description: "Show Tasks", Action: c.getShowAction(view.AllTasks)}
	events[Key5] = KeyEvent{Description: "Show Pending", Action: c.getShowAction(pendingSelector)}
	events[Key6] = KeyEvent{Description: "Show Completed", Action: c.getShowAction(completedSelector)}

	events[tcell.KeyTab] = KeyEvent{
		Description: "Switch Focus",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if c.table.HasFocus() {
				c.app.SetFocus(c.sidebar)
			} else {
				c.app.SetFocus(c.table)
			}

			return nil
		},
	}

	events[KeyShiftT] = KeyEvent{
		Description: "Toggle Theme",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.toggleTheme()

			return nil
		},
	}

	search := KeyEvent{
		Description: "Search",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.app.SetFocus(c.search)

			return nil
		},
	}
	events[KeySlash] = search
	events[tcell.KeyCtrlF] = search
}

// withSelectedTask wraps an action on the task under the cursor.
func (c *Controller) withSelectedTask(action func(id string)) func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		if c.selectedTask == "" {
			c.showMessage("no task selected")

			return nil
		}

		action(c.selectedTask)
		c.refresh()

		return nil
	}
}

func (c *Controller) initTaskEvents(events map[tcell.Key]KeyEvent) {
	newTask := KeyEvent{
		Description: "New Task",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.switchToTaskForm(false)

			return nil
		},
	}
	events[KeyA] = newTask
	events[KeyN] = newTask

	events[KeyE] = KeyEvent{
		Description: "Edit Task",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if c.selectedTask == "" {
				c.showMessage("no task selected")

				return nil
			}

			c.switchToTaskForm(true)

			return nil
		},
	}

	events[KeySpace] = KeyEvent{Description: "Toggle Complete", Action: c.withSelectedTask(c.store.ToggleComplete)}
	events[KeyI] = KeyEvent{Description: "Toggle Important", Action: c.withSelectedTask(c.store.ToggleImportant)}
	events[KeyM] = KeyEvent{Description: "Toggle My Day", Action: c.withSelectedTask(c.toggleMyDay)}
	events[KeyD] = KeyEvent{Description: "Delete Task", Action: c.withSelectedTask(c.deleteTask)}
	events[KeyShiftK] = KeyEvent{Description: "Move Up", Action: c.withSelectedTask(c.getMoveAction(-1))}
	events[KeyShiftJ] = KeyEvent{Description: "Move Down", Action: c.withSelectedTask(c.getMoveAction(1))}
}

func (c *Controller) initListEvents(events map[tcell.Key]KeyEvent) {
	events[KeyShiftL] = KeyEvent{
		Description: "New List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.switchToListForm(false)

			return nil
		},
	}

	events[KeyShiftR] = KeyEvent{
		Description: "Rename List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			if _, ok := c.currentList(); !ok {
				c.showMessage("select a list to rename it")

				return nil
			}

			c.switchToListForm(true)

			return nil
		},
	}

	events[KeyShiftX] = KeyEvent{
		Description: "Delete List",
		Action: func(key *tcell.EventKey) *tcell.EventKey {
			c.confirmDeleteList()

			return nil
		},
	}
}

// toggleMyDay adds the task to today's My Day, or takes it out if it's already there.
func (c *Controller) toggleMyDay(id string) {
	task, ok := c.store.Task(id)
	if !ok {
		return
	}

	now := c.now()
	if dates.IsToday(task.AddedToMyDayAt, now) {
		c.store.UpdateTask(id, store.SetAddedToMyDay(nil))
		c.showMessage("removed from My Day")

		return
	}

	today := dates.StartOfDay(now).UTC()
	c.store.UpdateTask(id, store.SetAddedToMyDay(&today))
	c.showMessage("added to My Day")
}

func (c *Controller) deleteTask(id string) {
	task, ok := c.store.Task(id)
	if !ok {
		return
	}

	c.store.DeleteTask(id)
	c.selectedTask = ""
	c.showMessage("deleted '" + task.Title + "'")
}

// getMoveAction swaps the task with the nearest visible task from the same list in the given
// direction; the store renumbers the whole list.
func (c *Controller) getMoveAction(direction int) func(id string) {
	return func(id string) {
		row := c.content.RowOf(id)
		moved, ok := c.content.TaskAt(row)

		if !ok {
			return
		}

		for r := row + direction; r > 0 && r < c.content.GetRowCount(); r += direction {
			target, ok := c.content.TaskAt(r)
			if !ok || target.ListID != moved.ListID {
				continue
			}

			c.store.ReorderTask(moved.ListID, moved.ID, target.ID)

			log.Debug().Str("task", moved.ID).Str("target", target.ID).Msg("moved task")

			return
		}

		c.showMessage("can't move any further")
	}
}
