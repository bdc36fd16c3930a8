package interp

// Env is one lexical scope. Reads walk the parent chain; assignment always
// binds in the innermost scope (global/nonlocal declarations are not
// supported in the snippet subset).
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv creates a scope with the given parent (nil for the module scope).
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Get resolves a name through the scope chain.
func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, true
		}
	}
	return None(), false
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Snapshot copies the bindings of this scope only — the "frame locals" a
// step observer sees. Parent scopes are deliberately excluded.
func (e *Env) Snapshot() map[string]Value {
	out := make(map[string]Value, len(e.vars))
	for k, v := range e.vars {
		out[k] = v
	}
	return out
}
