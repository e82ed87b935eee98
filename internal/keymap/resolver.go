package keymap

import (
	"fmt"
	"slices"
	"strings"
)

// Resolver turns key strings from tea.KeyMsg into lyrics view actions and
// lists the keys of each action for the help screen.
type Resolver struct {
	actions  map[string]Action
	keys     map[Action][]string
	bindings []Binding
}

// NewResolver builds a resolver. When a key appears in several bindings
// the last one wins; the keys of an action are merged across contexts.
func NewResolver(bindings []Binding) *Resolver {
	r := &Resolver{
		actions:  make(map[string]Action),
		keys:     make(map[Action][]string),
		bindings: bindings,
	}
	for _, b := range bindings {
		for _, key := range b.Keys {
			r.actions[key] = b.Action
			if !slices.Contains(r.keys[b.Action], key) {
				r.keys[b.Action] = append(r.keys[b.Action], key)
			}
		}
	}
	return r
}

// Resolve returns the action bound to key, or "" when it is unbound.
func (r *Resolver) Resolve(key string) Action {
	return r.actions[key]
}

// KeysFor returns every key bound to action, in binding order.
func (r *Resolver) KeysFor(action Action) []string {
	return r.keys[action]
}

// Help formats the actions of a context as "keys  description" lines, one
// per action.
func (r *Resolver) Help(context string) []string {
	var lines []string
	var seen []Action
	for _, b := range r.bindings {
		if b.Context != context || slices.Contains(seen, b.Action) {
			continue
		}
		seen = append(seen, b.Action)
		lines = append(lines, fmt.Sprintf("%-14s %s", displayKeys(r.KeysFor(b.Action)), b.Description))
	}
	return lines
}

func displayKeys(keys []string) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		if k == " " {
			k = "space"
		}
		names[i] = k
	}
	return strings.Join(names, "/")
}
