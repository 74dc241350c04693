// Package function implements the SPARQL builtin function registry: a
// plain name -> implementation map, constructor-injected into the
// expression evaluator rather than held in a package-level global, so
// the engine can be configured with extra or replacement functions per
// the "no global state" design rule.
package function

import "github.com/kbvault/sparql/term"

// Func is one builtin function implementation. Args are already
// evaluated; Func returns the typed error (via kerrors, see the
// expression package) a caller should propagate.
type Func func(args []term.Term) (term.Term, error)

// Registry is a name -> Func lookup table. The zero value is usable and
// empty; use Default for the full builtin set.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: map[string]Func{}}
}

// Register adds or replaces the implementation for name (case-sensitive;
// callers are expected to uppercase, matching how the lexer normalizes
// function-name keywords).
func (r *Registry) Register(name string, fn Func) {
	if r.funcs == nil {
		r.funcs = map[string]Func{}
	}
	r.funcs[name] = fn
}

// Lookup returns name's implementation, if registered.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Default builds the registry with every builtin the engine ships.
func Default() *Registry {
	r := NewRegistry()
	registerStringFuncs(r)
	registerNumericFuncs(r)
	registerTermFuncs(r)
	registerDateTimeFuncs(r)
	registerHashFuncs(r)
	registerControlFuncs(r)
	return r
}
