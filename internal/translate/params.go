// Package translate implements the criteria translation engine: it walks a
// pre-built expression tree and emits parameterized WHERE/JOIN/ORDER/SELECT
// calls against a backend query builder.
package translate

import "strconv"

// ParameterManager generates parameter names guaranteed unique within one
// translation. A fresh or freshly Reset manager is required per translation;
// the Translator resets its manager at the start of every Translate call so
// that reuse across translations cannot leak names.
type ParameterManager struct {
	next int
}

// NewParameterManager creates a parameter manager starting at p0.
func NewParameterManager() *ParameterManager {
	return &ParameterManager{}
}

// Next returns a new unique parameter name (p0, p1, ...).
func (m *ParameterManager) Next() string {
	name := "p" + strconv.Itoa(m.next)
	m.next++
	return name
}

// Count returns how many names have been generated since the last reset.
func (m *ParameterManager) Count() int {
	return m.next
}

// Reset restarts the sequence. Called exactly once at the start of each
// translation.
func (m *ParameterManager) Reset() {
	m.next = 0
}

// token renders the named-placeholder form embedded in condition fragments.
// The backend builder replaces tokens with dialect positional placeholders at
// assembly time.
func token(name string) string {
	return "{:" + name + "}"
}
