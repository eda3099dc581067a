package core

import (
	"sort"
	"strings"
)

const (
	SortByDueDate  SortOption = "dueDate"
	SortByPriority SortOption = "priority"
)

// SortOption selects which axis drives the ordering in Process. Both modes
// use the same comparison semantics and only swap primary and secondary keys.
type SortOption string

func (s SortOption) Valid() bool {
	return s == SortByDueDate || s == SortByPriority
}

// Process filters payments to those whose title or description contains the
// query (case-insensitive) and returns them ordered by the requested axis:
// due date ascending with priority weight descending as tiebreak, or priority
// weight descending with due date ascending as tiebreak. The sort is stable,
// so fully equal keys keep their input order.
func Process(payments []Payment, query string, sortBy SortOption) []Payment {
	q := strings.ToLower(query)
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		byDate := func() (bool, bool) {
			if a.DueDate.Equal(b.DueDate) {
				return false, false
			}
			return a.DueDate.Before(b.DueDate), true
		}
		byPriority := func() (bool, bool) {
			if a.Priority.Weight() == b.Priority.Weight() {
				return false, false
			}
			return a.Priority.Weight() > b.Priority.Weight(), true
		}

		if sortBy == SortByPriority {
			if less, ok := byPriority(); ok {
				return less
			}
			less, _ := byDate()
			return less
		}
		if less, ok := byDate(); ok {
			return less
		}
		less, _ := byPriority()
		return less
	})

	return out
}
