package calendar

import "github.com/theakshaypant/opscal/internal/core"

// State is the view state owned by a Controller.
type State struct {
	View    core.View
	Anchor  core.Date
	Filters FilterSet
}

// FilterSet is a set of active event types. It is immutable; With and
// Without return modified copies, so a State can be copied freely.
type FilterSet struct {
	types []core.EventType
}

// NewFilterSet builds a set, ignoring duplicates.
func NewFilterSet(types ...core.EventType) FilterSet {
	var f FilterSet
	for _, t := range types {
		f = f.With(t)
	}
	return f
}

// Has reports whether t is active.
func (f FilterSet) Has(t core.EventType) bool {
	for _, v := range f.types {
		if v == t {
			return true
		}
	}
	return false
}

// Len returns the number of active types.
func (f FilterSet) Len() int {
	return len(f.types)
}

// With returns a set that also contains t.
func (f FilterSet) With(t core.EventType) FilterSet {
	if f.Has(t) {
		return f
	}
	types := make([]core.EventType, 0, len(f.types)+1)
	types = append(types, f.types...)
	return FilterSet{types: append(types, t)}
}

// Without returns a set that no longer contains t.
func (f FilterSet) Without(t core.EventType) FilterSet {
	if !f.Has(t) {
		return f
	}
	types := make([]core.EventType, 0, len(f.types))
	for _, v := range f.types {
		if v != t {
			types = append(types, v)
		}
	}
	return FilterSet{types: types}
}

// Types lists the active types: known categories in canonical order first,
// then any others in the order they were added.
func (f FilterSet) Types() []core.EventType {
	out := make([]core.EventType, 0, len(f.types))
	known := make(map[core.EventType]bool)
	for _, t := range core.AllEventTypes() {
		known[t] = true
		if f.Has(t) {
			out = append(out, t)
		}
	}
	for _, t := range f.types {
		if !known[t] {
			out = append(out, t)
		}
	}
	return out
}

// Equal reports whether both sets hold the same types.
func (f FilterSet) Equal(other FilterSet) bool {
	if f.Len() != other.Len() {
		return false
	}
	for _, t := range f.types {
		if !other.Has(t) {
			return false
		}
	}
	return true
}
