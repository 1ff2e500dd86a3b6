package translate

// Fragment is the universal output unit of the engine: a SQL condition with
// its named parameter bindings. Parameter names are never reused within one
// translation, so fragments can be merged without collision checks.
type Fragment struct {
	SQL    string
	Params map[string]interface{}
}

// Empty reports whether the fragment carries no condition.
func (f Fragment) Empty() bool {
	return f.SQL == ""
}

// newFragment creates a fragment with an allocated parameter map.
func newFragment(sql string) Fragment {
	return Fragment{SQL: sql, Params: make(map[string]interface{})}
}

// bind adds one named parameter to the fragment.
func (f Fragment) bind(name string, value interface{}) Fragment {
	f.Params[name] = value
	return f
}

// merge copies another fragment's parameters into this one.
func (f Fragment) merge(other Fragment) Fragment {
	if f.Params == nil && len(other.Params) > 0 {
		f.Params = make(map[string]interface{}, len(other.Params))
	}
	for name, value := range other.Params {
		f.Params[name] = value
	}
	return f
}
