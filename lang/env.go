package lang

// This file defines the variable environment threaded through evaluation.
// An Environment belongs to a single evaluation session; nothing in this
// package holds one globally.

import (
	"iter"
	"maps"
	"slices"
)

// Environment maps variable names to values.
//
// The zero value is an empty environment ready to use. An Environment is not
// safe for concurrent use.
type Environment struct {
	vars map[string]int64
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{vars: make(map[string]int64)}
}

// Get returns the value bound to name and whether a binding exists.
// There is no implicit default for absent names.
func (env *Environment) Get(name string) (int64, bool) {
	value, ok := env.vars[name]

	return value, ok
}

// Set binds name to value, replacing any prior binding.
func (env *Environment) Set(name string, value int64) {
	if env.vars == nil {
		env.vars = make(map[string]int64)
	}

	env.vars[name] = value
}

// Delete removes the binding for name, reporting whether one existed.
func (env *Environment) Delete(name string) bool {
	_, ok := env.vars[name]
	delete(env.vars, name)

	return ok
}

// Len returns the number of bindings.
func (env *Environment) Len() int {
	return len(env.vars)
}

// Names returns the bound names in sorted order.
func (env *Environment) Names() []string {
	return slices.Sorted(maps.Keys(env.vars))
}

// All returns an iterator over all bindings in name order.
func (env *Environment) All() iter.Seq2[string, int64] {
	return func(yield func(string, int64) bool) {
		for _, name := range env.Names() {
			if !yield(name, env.vars[name]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the environment.
func (env *Environment) Clone() *Environment {
	return &Environment{vars: maps.Clone(env.vars)}
}

// Reset removes all bindings.
func (env *Environment) Reset() {
	clear(env.vars)
}
