// Package listing implements the display-oriented event catalog queries:
// the combined filter-and-sort pipeline driven by a single active filter
// token, and aggregate counts used by the catalog sidebar.
package listing

import (
	"sort"
	"strings"
	"time"
)

// Event is the catalog's view of a fest event. Unlike the query module's
// shape it carries a date tag, a department and multiple categories.
type Event struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Venue            string   `json:"venue"`
	Date             string   `json:"date"`
	DateTag          string   `json:"dateTag"`
	Department       string   `json:"department,omitempty"`
	Categories       []string `json:"categories"`
	RegistrationOpen bool     `json:"registrationOpen"`
}

// Sort options for FilterAndSort.
const (
	SortDateDesc = "date-desc"
	SortDateAsc  = "date-asc"
	SortNameAsc  = "name-asc"
	SortNameDesc = "name-desc"
)

// AllEvents is the sentinel filter token that matches everything.
const AllEvents = "All Events"

// Options drives FilterAndSort. The three whitelists decide how
// ActiveFilter is interpreted: as a category, a date tag or a department.
type Options struct {
	SearchQuery  string   `json:"searchQuery,omitempty"`
	ActiveFilter string   `json:"activeFilter,omitempty"`
	SortBy       string   `json:"sortBy,omitempty"`
	Categories   []string `json:"categories"`
	DateTags     []string `json:"dateTags"`
	Departments  []string `json:"departments"`
}

// FilterAndSort narrows the catalog by search text and the active filter
// token, then sorts. An active filter that matches none of the whitelists
// and is not "All Events" yields an empty result by contract: unknown
// tokens select nothing rather than everything.
func FilterAndSort(events []Event, opts Options) []Event {
	filtered := make([]Event, len(events))
	copy(filtered, events)

	activeFilter := opts.ActiveFilter
	if activeFilter == "" {
		activeFilter = AllEvents
	}
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortDateDesc
	}

	if strings.TrimSpace(opts.SearchQuery) != "" {
		query := normalizeText(opts.SearchQuery)
		filtered = keep(filtered, func(e Event) bool {
			return strings.Contains(normalizeText(e.Title), query) ||
				strings.Contains(normalizeText(e.Description), query) ||
				strings.Contains(normalizeText(e.Venue), query)
		})
	}

	if activeFilter != AllEvents {
		switch {
		case contains(validCategories(opts.Categories), activeFilter):
			filtered = keep(filtered, func(e Event) bool {
				return contains(e.Categories, activeFilter)
			})
		case contains(opts.DateTags, activeFilter):
			filtered = keep(filtered, func(e Event) bool {
				return e.DateTag == activeFilter
			})
		case contains(opts.Departments, activeFilter):
			filtered = keep(filtered, func(e Event) bool {
				return e.Department == activeFilter
			})
		default:
			return []Event{}
		}
	}

	switch sortBy {
	case SortDateAsc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return dateValue(filtered[i].Date) < dateValue(filtered[j].Date)
		})
	case SortNameAsc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Title < filtered[j].Title
		})
	case SortNameDesc:
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Title > filtered[j].Title
		})
	default: // SortDateDesc
		sort.SliceStable(filtered, func(i, j int) bool {
			return dateValue(filtered[i].Date) > dateValue(filtered[j].Date)
		})
	}

	return filtered
}

// normalizeText lowercases and trims a string for search comparisons.
func normalizeText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// dateValue maps a date string to epoch millis; unparseable dates
// collapse to 0 so they sink to one end of the ordering.
func dateValue(value string) int64 {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// validCategories drops the sentinel from a category whitelist.
func validCategories(categories []string) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		if c != AllEvents {
			out = append(out, c)
		}
	}
	return out
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func keep(events []Event, pred func(Event) bool) []Event {
	out := events[:0]
	for _, e := range events {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}
