package core

import "strings"

// EntryFilter selects time entries for in-memory aggregation.
type EntryFilter func(TimeEntry) bool

// FilterMonth matches entries of one YYYY-MM month.
func FilterMonth(month string) EntryFilter {
	return func(e TimeEntry) bool { return e.Month == month }
}

// FilterYear matches entries whose month key starts with the year.
func FilterYear(yearPrefix string) EntryFilter {
	return func(e TimeEntry) bool { return strings.HasPrefix(e.Month, yearPrefix) }
}

// FilterProjects matches entries belonging to the given project ids.
func FilterProjects(ids ...int64) EntryFilter {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(e TimeEntry) bool {
		_, ok := set[e.ProjectID]
		return ok
	}
}

// SumHoursByProject sums matching entries into a remote/onsite split per
// project. Every requested project id is present in the result, absent
// ones as a zero split.
func SumHoursByProject(entries []TimeEntry, projectIDs []int64, filters ...EntryFilter) map[int64]HoursSplit {
	out := make(map[int64]HoursSplit, len(projectIDs))
	for _, id := range projectIDs {
		out[id] = HoursSplit{}
	}
	for _, e := range entries {
		if _, ok := out[e.ProjectID]; !ok {
			continue
		}
		if !matches(e, filters) {
			continue
		}
		h := out[e.ProjectID]
		if e.IsOnsite {
			h.Onsite += e.Duration
		} else {
			h.Remote += e.Duration
		}
		out[e.ProjectID] = h
	}
	return out
}

// SumHoursByMonth sums matching entries into a remote/onsite split per
// month key.
func SumHoursByMonth(entries []TimeEntry, filters ...EntryFilter) map[string]HoursSplit {
	out := make(map[string]HoursSplit)
	for _, e := range entries {
		if !matches(e, filters) {
			continue
		}
		h := out[e.Month]
		if e.IsOnsite {
			h.Onsite += e.Duration
		} else {
			h.Remote += e.Duration
		}
		out[e.Month] = h
	}
	return out
}

func matches(e TimeEntry, filters []EntryFilter) bool {
	for _, f := range filters {
		if !f(e) {
			return false
		}
	}
	return true
}
