package keymap

import (
	"slices"
	"strings"
)

// Resolver turns key strings into actions for one set of bindings.
type Resolver struct {
	actions map[string]Action
	keys    map[Action][]string // in binding order, no repeats
}

// NewResolver indexes bindings. A key bound twice resolves to its last
// binding.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions: make(map[string]Action),
		keys:    make(map[Action][]string),
	}
	for _, b := range bindings {
		for _, k := range b.Keys {
			r.actions[k] = b.Action
			if !slices.Contains(r.keys[b.Action], k) {
				r.keys[b.Action] = append(r.keys[b.Action], k)
			}
		}
	}
	return r
}

// ForContexts builds a resolver over the bindings of contexts.
func ForContexts(contexts ...string) *Resolver {
	return NewResolver(slices.DeleteFunc(slices.Clone(Bindings), func(b Binding) bool {
		return !slices.Contains(contexts, b.Context)
	}))
}

// Resolve returns the action bound to key, or "" when none is.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// Hint renders "<first key> <label>" for footers, or "" when a is unbound.
func (r *Resolver) Hint(a Action, label string) string {
	keys := r.keys[a]
	if len(keys) == 0 {
		return ""
	}
	return Display(keys[0]) + " " + label
}

// Hints joins the non-empty hints of pairs of action and label with " · ".
func (r *Resolver) Hints(pairs ...HintItem) string {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if h := r.Hint(p.Action, p.Label); h != "" {
			parts = append(parts, h)
		}
	}
	return strings.Join(parts, " · ")
}

// HintItem is one entry of Resolver.Hints.
type HintItem struct {
	Action Action
	Label  string
}
