package core

import (
	"fmt"
	"strings"
)

// View is one of the four calendar projections.
type View int

const (
	ViewMonth View = iota
	ViewWeek
	ViewDay
	ViewAgenda
)

var viewNames = map[View]string{
	ViewMonth:  "month",
	ViewWeek:   "week",
	ViewDay:    "day",
	ViewAgenda: "agenda",
}

// Views lists all views in display order.
func Views() []View {
	return []View{ViewMonth, ViewWeek, ViewDay, ViewAgenda}
}

func (v View) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return fmt.Sprintf("View(%d)", int(v))
}

// ParseView converts a persisted or user-supplied name into a View.
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for v, name := range viewNames {
		if name == s {
			return v, nil
		}
	}
	return ViewMonth, fmt.Errorf("unknown view: %q (use month, week, day or agenda)", s)
}
