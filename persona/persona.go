// Package persona manages the named system-prompt bundles that shape the
// model's tone and domain focus. Personas are plain records, not code: a
// new one is added by registering a definition, typically from the config
// file.
package persona

import (
	"fmt"

	"github.com/Expert21/cmdex/errors"
)

// Persona is a registered prompt bundle. SystemTemplate may reference the
// {os} and {shell} placeholders, substituted at prompt-build time.
type Persona struct {
	Name           string
	Description    string
	SystemTemplate string
}

// NotFoundError reports a persona name that is not registered.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("persona %q not found", e.Name)
}

// Registry holds the set of available personas and the currently active
// one. It is owned by a single session and mutated only between turns.
type Registry struct {
	byName map[string]Persona
	order  []string
	active string
}

// Load builds a registry from persona definitions. It fails when two
// definitions share a name or when no definition matches defaultName;
// both are configuration errors that must stop the program before a
// session starts.
func Load(defs []Persona, defaultName string) (*Registry, error) {
	r := &Registry{byName: make(map[string]Persona, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, errors.New("persona definition with empty name")
		}
		if _, dup := r.byName[d.Name]; dup {
			return nil, errors.New("duplicate persona name %q", d.Name)
		}
		r.byName[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	if _, ok := r.byName[defaultName]; !ok {
		return nil, errors.New("default persona %q is not defined", defaultName)
	}
	r.active = defaultName
	return r, nil
}

// Active returns the currently active persona. The registry guarantees one
// is always set after a successful Load.
func (r *Registry) Active() Persona {
	return r.byName[r.active]
}

// Switch atomically replaces the active persona. On an unknown name it
// returns a NotFoundError and leaves the active persona unchanged.
func (r *Registry) Switch(name string) error {
	if _, ok := r.byName[name]; !ok {
		return &NotFoundError{Name: name}
	}
	r.active = name
	return nil
}

// Get looks up a persona by name without touching the active selection.
func (r *Registry) Get(name string) (Persona, error) {
	p, ok := r.byName[name]
	if !ok {
		return Persona{}, &NotFoundError{Name: name}
	}
	return p, nil
}

// Names lists the registered personas in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
