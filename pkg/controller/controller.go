package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/myday/pkg/config"
	"github.com/matt-steen/myday/pkg/model"
	"github.com/matt-steen/myday/pkg/store"
	"github.com/matt-steen/myday/pkg/view"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	mainPage     = "main"
	taskFormPage = "taskForm"
	listFormPage = "listForm"
	confirmPage  = "confirm"

	sidebarWidth     = 28
	suggestionsWidth = 40
	suggestionLimit  = 5
	helpColumns      = 5
)

// The Pending and Completed pages aren't views of the store; these selectors can't collide with
// list ids, which never start with a colon.
const (
	pendingSelector   view.Selector = ":pending"
	completedSelector view.Selector = ":completed"
)

// Controller mediates between the store and the terminal UI.
type Controller struct {
	ctx   context.Context
	store *store.Store
	now   func() time.Time
	theme string

	app         *tview.Application
	pages       *tview.Pages
	sidebar     *tview.List
	header      *tview.TextView
	search      *tview.InputField
	table       *tview.Table
	content     *TaskContent
	suggestions *tview.TextView
	help        *tview.Table
	statusLine  *tview.TextView

	taskForm     *tview.Form
	titleField   *tview.InputField
	notesField   *tview.InputField
	dueField     *tview.InputField
	listDropDown *tview.DropDown
	formLists    []model.List
	listForm     *tview.Form
	nameField    *tview.InputField
	formHeaders  map[string]*tview.Table
	confirm      *tview.Modal

	selector     view.Selector
	query        string
	selectedTask string
	editingTask  string
	editingList  string

	events     map[tcell.Key]KeyEvent
	formEvents map[tcell.Key]KeyEvent
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func(*tcell.EventKey) *tcell.EventKey
}

// NewController creates a new Controller to run the app.
func NewController(ctx context.Context, s *store.Store, cfg *config.Config) (*Controller, error) {
	if s == nil {
		return nil, fmt.Errorf("a store is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if cfg == nil {
		cfg = config.Default()
	}

	if err := applyTheme(cfg.Theme); err != nil {
		return nil, err
	}

	c := Controller{
		ctx:         ctx,
		store:       s,
		now:         time.Now,
		theme:       cfg.Theme,
		app:         tview.NewApplication(),
		selector:    view.MyDay,
		formHeaders: map[string]*tview.Table{},
	}

	initKeys()
	c.initEvents()
	c.initPages()

	return &c, nil
}

// Go starts the app and blocks until it exits or the controller's context is done.
func (c *Controller) Go() error {
	c.refresh()

	go func() {
		<-c.ctx.Done()
		c.Stop()
	}()

	c.app.SetInputCapture(c.handleKeys)

	if err := c.app.SetRoot(c.pages, true).SetFocus(c.table).Run(); err != nil {
		return fmt.Errorf("error running the terminal ui: %w", err)
	}

	return nil
}

// Stop ends the app.
func (c *Controller) Stop() {
	log.Info().Msg("terminating application")

	c.app.Stop()
}

// toggleTheme switches between the light and dark themes. tview primitives copy the styles
// when they are created, so the pages are rebuilt.
func (c *Controller) toggleTheme() {
	next := config.ThemeLight
	if c.theme == config.ThemeLight {
		next = config.ThemeDark
	}

	if err := applyTheme(next); err != nil {
		c.showError(err)

		return
	}

	c.theme = next
	c.initPages()
	c.app.SetRoot(c.pages, true)
	c.refresh()
	c.showMain()
	c.showMessage(next + " theme")

	log.Debug().Str("theme", next).Msg("switched theme")
}

func (c *Controller) handleKeys(evt *tcell.EventKey) *tcell.EventKey {
	// let the search field have every key while it's being typed in
	if c.search.HasFocus() {
		return evt
	}

	if k, ok := c.events[AsKey(evt)]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) handleFormKeys(evt *tcell.EventKey) *tcell.EventKey {
	if k, ok := c.formEvents[AsKey(evt)]; ok {
		return k.Action(evt)
	}

	return evt
}

// refresh redraws everything from a fresh snapshot of the store.
func (c *Controller) refresh() {
	state := c.store.Snapshot()
	now := c.now()

	c.refreshSidebar(state, now)
	c.refreshHeader(state, now)
	c.refreshTable(state, now)
	c.refreshSuggestions(state, now)
}

// selectedTaskState returns the task under the cursor as it is now in the store.
func (c *Controller) selectedTaskState() (model.Task, bool) {
	if c.selectedTask == "" {
		return model.Task{}, false
	}

	return c.store.Task(c.selectedTask)
}

// addTarget is where a new task goes when created from the current page.
func (c *Controller) addTarget() (string, bool) {
	if c.selector == pendingSelector || c.selector == completedSelector {
		return model.DefaultListID, false
	}

	return view.AddTarget(c.selector)
}

// currentList returns the custom list being shown, if any.
func (c *Controller) currentList() (model.List, bool) {
	if c.selector.IsSmart() || c.selector == pendingSelector || c.selector == completedSelector {
		return model.List{}, false
	}

	return c.store.List(string(c.selector))
}

func (c *Controller) showMessage(msg string) {
	c.statusLine.SetText(tview.Escape(msg))
}

func (c *Controller) showError(err error) {
	var validationErr *store.ValidationError
	var operationErr *store.InvalidOperationError

	switch {
	case errors.As(err, &validationErr):
		log.Debug().Err(err).Msg("rejected input")
	case errors.As(err, &operationErr):
		log.Info().Err(err).Msg("rejected operation")
	default:
		log.Warn().Err(err).Msg("unexpected error")
	}

	c.statusLine.SetText(fmt.Sprintf("[red]%s", tview.Escape(err.Error())))
}
