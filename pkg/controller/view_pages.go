package controller

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/myday/pkg/dates"
	"github.com/matt-steen/myday/pkg/model"
	"github.com/matt-steen/myday/pkg/view"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

func (c *Controller) initPages() {
	c.pages = tview.NewPages()

	c.pages.AddPage(mainPage, c.getMainGrid(), true, true)
	c.pages.AddPage(taskFormPage, c.getTaskFormGrid(), true, false)
	c.pages.AddPage(listFormPage, c.getListFormGrid(), true, false)
	c.pages.AddPage(confirmPage, c.getConfirmModal(), false, false)
}

func (c *Controller) getMainGrid() *tview.Grid {
	c.header = tview.NewTextView().SetDynamicColors(true)
	c.header.SetScrollable(false)

	c.sidebar = tview.NewList().ShowSecondaryText(false).SetHighlightFullLine(true)

	c.search = tview.NewInputField().SetLabel("Search: ").SetPlaceholder("title or notes")
	c.search.SetChangedFunc(func(text string) {
		c.query = text
		c.refreshTable(c.store.Snapshot(), c.now())
	})
	c.search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEscape {
			c.search.SetText("")
		}

		c.app.SetFocus(c.table)
	})

	c.table = tview.NewTable().SetBorders(false).SetSelectable(true, false).SetFixed(1, 0)
	c.content = NewTaskContent(nil, nil, c.now())
	c.table.SetContent(c.content)
	c.table.SetSelectionChangedFunc(c.setCurrentRow)

	c.suggestions = tview.NewTextView().SetDynamicColors(true).SetWrap(true)

	c.help = c.getHelpTable()

	c.statusLine = tview.NewTextView().SetDynamicColors(true)

	grid := tview.NewGrid().
		SetRows(2, 1, 0, c.help.GetRowCount(), 1).
		SetColumns(sidebarWidth, 0, suggestionsWidth).
		SetBorders(true)

	grid.AddItem(c.header, 0, 0, 1, 3, 0, 0, false)
	grid.AddItem(c.sidebar, 1, 0, 2, 1, 0, 0, false)
	grid.AddItem(c.search, 1, 1, 1, 1, 0, 0, false)
	grid.AddItem(c.table, 2, 1, 1, 1, 0, 0, true)
	grid.AddItem(c.suggestions, 1, 2, 2, 1, 0, 0, false)
	grid.AddItem(c.help, 3, 0, 1, 3, 0, 0, false)
	grid.AddItem(c.statusLine, 4, 0, 1, 3, 0, 0, false)

	return grid
}

// getHelpTable lists the keyboard shortcuts, sorted alphabetically and filled column by column.
func (c *Controller) getHelpTable() *tview.Table {
	table := tview.NewTable().SetBorders(false).SetSelectable(false, false)

	shortcuts := []string{}
	for key, event := range c.events {
		shortcuts = append(shortcuts, fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description))
	}

	sort.Strings(shortcuts)

	rows := (len(shortcuts) + helpColumns - 1) / helpColumns
	for i, text := range shortcuts {
		table.SetCell(i%rows, i/rows, tview.NewTableCell(text).SetExpansion(1))
	}

	return table
}

type sidebarEntry struct {
	label    string
	selector view.Selector
}

// sidebarEntries lists the smart views, then the custom lists in order, then the extra pages.
func sidebarEntries(state model.State, counts view.Counts) []sidebarEntry {
	entries := []sidebarEntry{
		{fmt.Sprintf("☀ My Day (%d)", counts.MyDay), view.MyDay},
		{fmt.Sprintf("★ Important (%d)", counts.Important), view.Important},
		{fmt.Sprintf("▦ Planned (%d)", counts.Planned), view.Planned},
		{fmt.Sprintf("⌂ %s (%d)", view.Title(view.AllTasks, state.Lists), counts.All), view.AllTasks},
	}

	lists := append([]model.List{}, state.Lists...)
	sort.SliceStable(lists, func(i, j int) bool { return lists[i].Order < lists[j].Order })

	for _, list := range lists {
		if list.ID == model.DefaultListID {
			continue
		}

		label := fmt.Sprintf("≡ %s (%d)", tview.Escape(list.Name), counts.Lists[list.ID])
		if list.Color != "" {
			label = fmt.Sprintf("[%s]≡[-] %s (%d)", list.Color, tview.Escape(list.Name), counts.Lists[list.ID])
		}

		entries = append(entries, sidebarEntry{label, view.ListSelector(list.ID)})
	}

	return append(entries,
		sidebarEntry{"Pending", pendingSelector},
		sidebarEntry{"Completed", completedSelector},
	)
}

func (c *Controller) refreshSidebar(state model.State, now time.Time) {
	entries := sidebarEntries(state, view.Count(state, now))

	c.sidebar.Clear()

	current := 0

	for i, entry := range entries {
		selector := entry.selector
		if selector == c.selector {
			current = i
		}

		c.sidebar.AddItem(entry.label, "", 0, func() { c.showView(selector) })
	}

	c.sidebar.SetCurrentItem(current)
}

func (c *Controller) pageTitle(lists []model.List) string {
	switch c.selector {
	case pendingSelector:
		return "Pending"
	case completedSelector:
		return "Completed"
	}

	return view.Title(c.selector, lists)
}

func (c *Controller) refreshHeader(state model.State, now time.Time) {
	text := fmt.Sprintf("[yellow]%s", tview.Escape(c.pageTitle(state.Lists)))
	if c.selector == view.MyDay {
		text += fmt.Sprintf("\n[white]%s", dates.Heading(now))
	}

	c.header.SetText(text)
}

func (c *Controller) currentTasks(state model.State, now time.Time) []model.Task {
	switch c.selector {
	case pendingSelector:
		return view.Pending(state.Tasks, c.query)
	case completedSelector:
		return view.Completed(state.Tasks, c.query)
	}

	return view.Compute(state, c.selector, c.query, now)
}

func (c *Controller) refreshTable(state model.State, now time.Time) {
	previous, _ := c.table.GetSelection()

	c.content = NewTaskContent(c.currentTasks(state, now), state.Lists, now)
	c.table.SetContent(c.content)

	row := c.content.RowOf(c.selectedTask)

	// the selected task left the view, so stay on the same row if there still is one
	if row == 0 {
		row = previous
		if last := c.content.GetRowCount() - 1; row > last {
			row = last
		}

		if row < 1 && c.content.GetRowCount() > 1 {
			row = 1
		}
	}

	c.table.Select(row, 0)
	c.setCurrentRow(row, 0)
}

func (c *Controller) refreshSuggestions(state model.State, now time.Time) {
	suggestions := view.Suggest(state, now, suggestionLimit)
	if suggestions.Empty() {
		c.suggestions.SetText("No suggestions right now. Stay productive!")

		return
	}

	var b strings.Builder

	section := func(name string, tasks []model.Task, detail func(model.Task) string) {
		if len(tasks) == 0 {
			return
		}

		fmt.Fprintf(&b, "[yellow]%s[white]\n", name)

		for _, task := range tasks {
			fmt.Fprintf(&b, "  %s", tview.Escape(task.Title))

			if d := detail(task); d != "" {
				fmt.Fprintf(&b, " [gray]%s[white]", d)
			}

			b.WriteString("\n")
		}

		b.WriteString("\n")
	}

	section("For Later", suggestions.Later, func(t model.Task) string { return dates.FormatDue(*t.DueDate) })
	section("Pending", suggestions.Undated, func(model.Task) string { return "" })
	section("Completed Today", suggestions.CompletedToday, func(t model.Task) string {
		return t.CompletedAt.Local().Format("15:04")
	})

	c.suggestions.SetText(b.String())
}

// when the row selection changes, update the selected task.
func (c *Controller) setCurrentRow(row, col int) {
	task, ok := c.content.TaskAt(row)
	if !ok {
		c.selectedTask = ""

		return
	}

	c.selectedTask = task.ID

	log.Debug().Str("selector", string(c.selector)).Int("row", row).Msgf("setting selectedTask to '%s'", task.Title)
}

// showView switches the main page to the given view or list.
func (c *Controller) showView(selector view.Selector) {
	c.selector = selector
	c.selectedTask = ""

	c.table.Select(1, 0)
	c.refresh()

	log.Debug().Str("selector", string(selector)).Msg("showing view")

	c.showMain()
}

// showMain returns to the main page with the task table focused.
func (c *Controller) showMain() {
	c.pages.HidePage(confirmPage)
	c.pages.SwitchToPage(mainPage)

	c.app.SetInputCapture(c.handleKeys)
	c.app.SetFocus(c.table)
}
