// Package env holds the read-only environment handed to services and the
// loader for dotenv files.
package env

import (
	"sort"
)

// Env is an immutable string map. Methods that "change" it return a copy,
// so an Env can be shared between goroutines without locking.
type Env struct {
	m map[string]string
}

// New copies m into a new Env.
func New(m map[string]string) Env {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return Env{m: c}
}

// Get returns the value for key, or "".
func (e Env) Get(key string) string {
	return e.m[key]
}

// Lookup returns the value for key and whether it is set.
func (e Env) Lookup(key string) (string, bool) {
	v, ok := e.m[key]
	return v, ok
}

// Len returns the number of variables.
func (e Env) Len() int {
	return len(e.m)
}

// With returns a copy of e with key set to value.
func (e Env) With(key, value string) Env {
	c := New(e.m)
	c.m[key] = value
	return c
}

// WithDefault returns a copy of e with key set only if it is not set yet.
func (e Env) WithDefault(key, value string) Env {
	if _, ok := e.m[key]; ok {
		return e
	}
	return e.With(key, value)
}

// Merge returns a copy of e overlaid with other. Values in other win.
func (e Env) Merge(other Env) Env {
	c := New(e.m)
	for k, v := range other.m {
		c.m[k] = v
	}
	return c
}

// Keys returns the variable names in sorted order.
func (e Env) Keys() []string {
	keys := make([]string, 0, len(e.m))
	for k := range e.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a mutable copy of the variables.
func (e Env) Map() map[string]string {
	return New(e.m).m
}

// Environ returns KEY=VALUE pairs in sorted order, ready for exec.Cmd.Env.
func (e Env) Environ() []string {
	out := make([]string, 0, len(e.m))
	for _, k := range e.Keys() {
		out = append(out, k+"="+e.m[k])
	}
	return out
}
