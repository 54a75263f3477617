// Package list is a scrollable list of any item type. It moves the cursor
// and reports enter, click and delete; rendering is left to the owner.
package list

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/tunecrate/internal/keymap"
	"github.com/llehouerou/tunecrate/internal/ui"
	"github.com/llehouerou/tunecrate/internal/ui/cursor"
)

// Action represents what happened during Update.
type Action int

const (
	ActionNone   Action = iota
	ActionEnter         // keymap.ActionSelect
	ActionClick         // left click; the cursor moved to the row
	ActionDelete        // keymap.ActionDelete
)

// Result is returned from Update to tell the parent what happened.
type Result struct {
	Action Action
	Index  int // Which item index the action applies to (-1 if none)
}

// Model is the list state. The owner renders rows from VisibleRange.
type Model[T any] struct {
	ui.Base
	items  []T
	cursor cursor.Cursor
	keys   *keymap.Resolver
}

// New creates a list keeping margin rows around the cursor. keys resolves
// the movement, select and delete actions.
func New[T any](margin int, keys *keymap.Resolver) Model[T] {
	return Model[T]{
		cursor: cursor.New(margin),
		keys:   keys,
	}
}

// SetItems replaces all items and clamps cursor to bounds.
func (m *Model[T]) SetItems(items []T) {
	m.items = items
	m.cursor.ClampToBounds(len(items))
	m.cursor.EnsureVisible(len(items), m.ListHeight(ui.PanelOverhead))
}

// Items returns the current items slice.
func (m Model[T]) Items() []T {
	return m.items
}

// Len returns the number of items.
func (m Model[T]) Len() int {
	return len(m.items)
}

// Selected returns the item under the cursor, or false if the list is empty.
func (m Model[T]) Selected() (T, bool) {
	if len(m.items) == 0 || m.cursor.Pos() >= len(m.items) {
		var zero T
		return zero, false
	}
	return m.items[m.cursor.Pos()], true
}

// SelectedIndex returns the current cursor position.
func (m Model[T]) SelectedIndex() int {
	return m.cursor.Pos()
}

// Focus moves the cursor to the first item matching fn. It reports whether
// one was found.
func (m *Model[T]) Focus(fn func(T) bool) bool {
	for i, item := range m.items {
		if fn(item) {
			m.cursor.Jump(i, len(m.items), m.ListHeight(ui.PanelOverhead))
			return true
		}
	}
	return false
}

// VisibleRange returns [start, end) indices for rendering.
func (m Model[T]) VisibleRange(overhead int) (start, end int) {
	return m.cursor.VisibleRange(len(m.items), m.ListHeight(overhead))
}

// Update handles key and mouse input and returns the action that occurred.
func (m *Model[T]) Update(msg tea.Msg) Result {
	if !m.IsFocused() {
		return Result{Index: -1}
	}

	n := len(m.items)
	height := m.ListHeight(ui.PanelOverhead)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		// rows start below the top border and the header
		result, row := m.cursor.HandleMouse(msg, n, height, ui.PanelOverhead-1)
		if result == cursor.MouseClicked {
			return Result{Action: ActionClick, Index: row}
		}

	case tea.KeyMsg:
		switch m.keys.Resolve(msg.String()) { //nolint:exhaustive // only list actions apply
		case keymap.ActionMoveDown:
			m.cursor.Move(1, n, height)
		case keymap.ActionMoveUp:
			m.cursor.Move(-1, n, height)
		case keymap.ActionJumpStart:
			m.cursor.JumpStart()
		case keymap.ActionJumpEnd:
			m.cursor.JumpEnd(n, height)
		case keymap.ActionSelect:
			if n > 0 {
				return Result{Action: ActionEnter, Index: m.cursor.Pos()}
			}
		case keymap.ActionDelete:
			if n > 0 {
				return Result{Action: ActionDelete, Index: m.cursor.Pos()}
			}
		default:
			// half-page scrolling has no binding of its own
			m.cursor.HandleKey(msg.String(), n, height)
		}
	}

	return Result{Index: -1}
}
