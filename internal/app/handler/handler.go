// Package handler chains key handlers: each gets the key in turn until one
// claims it.
package handler

import tea "github.com/charmbracelet/bubbletea"

// Result is what a handler did with a key.
type Result struct {
	Handled bool
	Cmd     tea.Cmd
}

// NotHandled passes the key on to the next handler.
var NotHandled = Result{}

// HandledNoCmd claims the key without a follow-up command.
var HandledNoCmd = Result{Handled: true}

// Handled claims the key and returns cmd, which may be nil.
func Handled(cmd tea.Cmd) Result {
	return Result{Handled: true, Cmd: cmd}
}

// Handler inspects a key.
type Handler func(tea.KeyMsg) Result

// Chain offers msg to each handler in order and returns the first claim,
// or NotHandled.
func Chain(msg tea.KeyMsg, handlers ...Handler) Result {
	for _, h := range handlers {
		if r := h(msg); r.Handled {
			return r
		}
	}
	return NotHandled
}
