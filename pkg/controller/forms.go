package controller

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/myday/pkg/dates"
	"github.com/matt-steen/myday/pkg/model"
	"github.com/matt-steen/myday/pkg/store"
	"github.com/matt-steen/myday/pkg/view"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	titleMax = 200
	notesMax = 1000
	dueMax   = len(dates.DayLayout)
	nameMax  = 50
)

// listColors are handed out in turn to new lists.
func listColors() []string {
	return []string{
		"#3b82f6",
		"#8b5cf6",
		"#22c55e",
		"#ec4899",
		"#f59e0b",
		"#14b8a6",
		"#ef4444",
		"#64748b",
	}
}

// ParseDue reads a due date typed as YYYY-MM-DD in loc. An empty value clears the date.
func ParseDue(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	day, err := dates.ParseDay(value, loc)
	if err != nil {
		return nil, &store.ValidationError{Field: "due date", Reason: err.Error()}
	}

	day = day.UTC()

	return &day, nil
}

func (c *Controller) switchToTaskForm(edit bool) {
	title := "New Task"
	c.editingTask = ""

	state := c.store.Snapshot()
	listID, _ := c.addTarget()

	c.titleField.SetText("")
	c.notesField.SetText("")
	c.dueField.SetText("")

	if edit {
		task, ok := c.selectedTaskState()
		if !ok {
			c.showMessage("no task selected")

			return
		}

		title = "Edit Task"
		c.editingTask = task.ID
		listID = task.ListID

		c.titleField.SetText(task.Title)
		c.notesField.SetText(task.Notes)

		if task.DueDate != nil {
			c.dueField.SetText(task.DueDate.Local().Format(dates.DayLayout))
		}
	}

	c.updateListOptions(state, listID)

	name := taskFormPage

	c.setFormTitle(name, title)

	c.taskForm.SetFocus(0)

	c.pages.SwitchToPage(name)

	c.app.SetInputCapture(c.handleFormKeys)
	c.app.SetFocus(c.taskForm)
}

func (c *Controller) switchToListForm(rename bool) {
	title := "New List"
	c.editingList = ""
	c.nameField.SetText("")

	if rename {
		list, ok := c.currentList()
		if !ok {
			return
		}

		title = "Rename List"
		c.editingList = list.ID
		c.nameField.SetText(list.Name)
	}

	name := listFormPage

	c.setFormTitle(name, title)

	c.listForm.SetFocus(0)

	c.pages.SwitchToPage(name)

	c.app.SetInputCapture(c.handleFormKeys)
	c.app.SetFocus(c.listForm)
}

func (c *Controller) getTaskFormGrid() *tview.Grid {
	grid := tview.NewGrid().SetBorders(true)

	name := taskFormPage

	c.initFormHeader(name)
	c.initTaskForm()

	grid.AddItem(c.formHeaders[name], 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.taskForm, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func (c *Controller) getListFormGrid() *tview.Grid {
	grid := tview.NewGrid().SetBorders(true)

	name := listFormPage

	c.initFormHeader(name)
	c.initListForm()

	grid.AddItem(c.formHeaders[name], 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.listForm, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func (c *Controller) setFormTitle(tableName, title string) {
	c.formHeaders[tableName].SetCell(0, 0, tview.NewTableCell(fmt.Sprintf("[yellow]%s", title)))
}

func (c *Controller) initFormHeader(name string) {
	c.formHeaders[name] = tview.NewTable().SetBorders(false).SetSelectable(false, false)
	row := 1

	for key, event := range c.formEvents {
		text := fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description)
		c.formHeaders[name].SetCell(row, 0, tview.NewTableCell(text))
		row++
	}
}

// updateListOptions fills the list drop down in list order and selects listID.
func (c *Controller) updateListOptions(state model.State, listID string) {
	c.formLists = append(c.formLists[:0], state.Lists...)
	sort.SliceStable(c.formLists, func(i, j int) bool { return c.formLists[i].Order < c.formLists[j].Order })

	options := make([]string, len(c.formLists))
	current := -1

	for i, list := range c.formLists {
		options[i] = list.Name
		if list.ID == listID {
			current = i
		}
	}

	c.listDropDown.SetOptions(options, nil)
	c.listDropDown.SetCurrentOption(current)
}

func (c *Controller) selectedFormList() string {
	idx, _ := c.listDropDown.GetCurrentOption()
	if idx < 0 || idx >= len(c.formLists) {
		return model.DefaultListID
	}

	return c.formLists[idx].ID
}

func (c *Controller) initTaskForm() {
	c.taskForm = tview.NewForm().
		AddInputField("Title", "", titleMax, nil, nil).
		AddInputField("Notes", "", notesMax, nil, nil).
		AddInputField("Due (YYYY-MM-DD)", "", dueMax+1, nil, nil).
		AddDropDown("List", []string{}, -1, nil)

	c.titleField, _ = c.taskForm.GetFormItemByLabel("Title").(*tview.InputField)
	c.notesField, _ = c.taskForm.GetFormItemByLabel("Notes").(*tview.InputField)
	c.dueField, _ = c.taskForm.GetFormItemByLabel("Due (YYYY-MM-DD)").(*tview.InputField)
	c.listDropDown, _ = c.taskForm.GetFormItemByLabel("List").(*tview.DropDown)

	c.taskForm.AddButton("Save", func() {
		if err := c.saveTask(); err != nil {
			c.showError(err)

			return
		}

		c.showMessage("saved")
		c.refresh()
		c.showMain()
	})
	c.taskForm.AddButton("Cancel", c.showMain)
}

func (c *Controller) saveTask() error {
	title := c.titleField.GetText()
	notes := strings.TrimSpace(c.notesField.GetText())
	listID := c.selectedFormList()

	due, err := ParseDue(c.dueField.GetText(), time.Local)
	if err != nil {
		return err
	}

	log.Debug().Msgf("saving task with title '%s'. c.editingTask: '%s'", title, c.editingTask)

	if c.editingTask == "" {
		_, addToMyDay := c.addTarget()

		id, err := c.store.AddTask(title, listID, store.TaskOptions{AddToMyDay: addToMyDay, DueDate: due, Notes: notes})
		if err != nil {
			return fmt.Errorf("error adding task: %w", err)
		}

		c.selectedTask = id

		return nil
	}

	task, ok := c.store.Task(c.editingTask)
	if !ok {
		return fmt.Errorf("task was deleted while editing")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return &store.ValidationError{Field: "title", Reason: "must not be empty"}
	}

	changes := []store.TaskChange{store.SetTitle(title), store.SetNotes(notes), store.SetDueDate(due)}

	if listID != task.ListID {
		changes = append(changes, store.SetList(listID), store.SetOrder(countInList(c.store.Snapshot(), listID)))
	}

	c.store.UpdateTask(task.ID, changes...)
	c.selectedTask = task.ID

	return nil
}

func countInList(state model.State, listID string) int {
	count := 0

	for _, task := range state.Tasks {
		if task.ListID == listID {
			count++
		}
	}

	return count
}

func (c *Controller) initListForm() {
	c.listForm = tview.NewForm().
		AddInputField("Name", "", nameMax, nil, nil)

	c.nameField, _ = c.listForm.GetFormItemByLabel("Name").(*tview.InputField)

	c.listForm.AddButton("Save", func() {
		if err := c.saveList(); err != nil {
			c.showError(err)

			return
		}

		c.showView(c.selector)
	})
	c.listForm.AddButton("Cancel", c.showMain)
}

func (c *Controller) saveList() error {
	name := strings.TrimSpace(c.nameField.GetText())

	if c.editingList != "" {
		if name == "" {
			return &store.ValidationError{Field: "list name", Reason: "must not be empty"}
		}

		c.store.UpdateList(c.editingList, name)
		c.showMessage("renamed list to '" + name + "'")

		return nil
	}

	colors := listColors()
	color := colors[len(c.store.Snapshot().Lists)%len(colors)]

	id, err := c.store.AddList(name, color)
	if err != nil {
		return fmt.Errorf("error adding list: %w", err)
	}

	c.selector = view.ListSelector(id)
	c.showMessage("added list '" + name + "'")

	return nil
}

func (c *Controller) getConfirmModal() *tview.Modal {
	c.confirm = tview.NewModal().AddButtons([]string{"Delete", "Cancel"})

	return c.confirm
}

// confirmDeleteList asks before deleting the list being shown along with its tasks.
func (c *Controller) confirmDeleteList() {
	list, ok := c.currentList()
	if !ok {
		c.showMessage("select a list to delete it")

		return
	}

	tasks := countInList(c.store.Snapshot(), list.ID)

	c.confirm.SetText(fmt.Sprintf("Delete list '%s' and its %d tasks?", tview.Escape(list.Name), tasks))
	c.confirm.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		if buttonLabel != "Delete" {
			c.showMain()

			return
		}

		if err := c.store.DeleteList(list.ID); err != nil {
			c.showError(err)
			c.showMain()

			return
		}

		c.showMessage("deleted list '" + list.Name + "'")
		c.showView(view.AllTasks)
	})

	c.pages.ShowPage(confirmPage)
	c.app.SetInputCapture(nil)
	c.app.SetFocus(c.confirm)
}
