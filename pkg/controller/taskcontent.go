package controller

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/myday/pkg/dates"
	"github.com/matt-steen/myday/pkg/model"
	"github.com/rivo/tview"
)

const titleRatio = 4

const (
	colCheck = iota
	colStar
	colTitle
	colList
	colDue
	columnCount
)

// TaskContent implements tview.TableContent, which tview.Table uses to update data.
type TaskContent struct {
	tview.TableContentReadOnly
	tasks []model.Task
	lists map[string]model.List
	now   time.Time
}

// NewTaskContent returns the table rows for tasks; list names and colors come from lists.
func NewTaskContent(tasks []model.Task, lists []model.List, now time.Time) *TaskContent {
	byID := make(map[string]model.List, len(lists))
	for _, list := range lists {
		byID[list.ID] = list
	}

	return &TaskContent{tasks: tasks, lists: byID, now: now}
}

// TaskAt returns the task shown in the given row.
func (s *TaskContent) TaskAt(row int) (model.Task, bool) {
	// adjust for the header row
	if idx := row - 1; idx >= 0 && idx < len(s.tasks) {
		return s.tasks[idx], true
	}

	return model.Task{}, false
}

// RowOf returns the row showing the task with the given id, or 0 if it isn't shown.
func (s *TaskContent) RowOf(id string) int {
	for i, task := range s.tasks {
		if task.ID == id {
			return i + 1
		}
	}

	return 0
}

// GetCell returns the cell at the given position or nil if no cell.
func (s *TaskContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		return headerCell(col)
	}

	task, ok := s.TaskAt(row)
	if !ok {
		return nil
	}

	switch col {
	case colCheck:
		check := "☐"
		if task.Completed() {
			check = "☑"
		}

		return tview.NewTableCell(check).SetReference(task.ID)
	case colStar:
		if task.Important {
			return tview.NewTableCell("★").SetTextColor(tcell.ColorGold)
		}

		return tview.NewTableCell("☆")
	case colTitle:
		cell := tview.NewTableCell(tview.Escape(task.Title)).SetExpansion(titleRatio)
		if task.Completed() {
			cell.SetTextColor(tcell.ColorGray)
		}

		return cell
	case colList:
		list, ok := s.lists[task.ListID]
		if !ok {
			return tview.NewTableCell("").SetExpansion(1)
		}

		cell := tview.NewTableCell(tview.Escape(list.Name)).SetExpansion(1)
		if list.Color != "" {
			cell.SetTextColor(tcell.GetColor(list.Color))
		}

		return cell
	case colDue:
		if task.DueDate == nil {
			return tview.NewTableCell("")
		}

		cell := tview.NewTableCell(dates.FormatDue(*task.DueDate))
		if !task.Completed() && task.DueDate.Before(dates.StartOfDay(s.now)) {
			cell.SetTextColor(tcell.ColorRed)
		}

		return cell
	}

	return nil
}

func headerCell(col int) *tview.TableCell {
	names := map[int]string{colCheck: "", colStar: "", colTitle: "title", colList: "list", colDue: "due"}

	name, ok := names[col]
	if !ok {
		return nil
	}

	cell := tview.NewTableCell(name).SetTextColor(tcell.ColorYellow).SetSelectable(false)
	if col == colTitle {
		cell.SetExpansion(titleRatio)
	}

	return cell
}

// GetRowCount returns the number of rows in the table.
func (s *TaskContent) GetRowCount() int {
	return len(s.tasks) + 1
}

// GetColumnCount returns the number of columns in the table.
func (s *TaskContent) GetColumnCount() int {
	return columnCount
}
