package event

import (
	"sort"
	"strings"
)

// FilterEvents applies the supplied criteria and returns a new slice.
// An absent category or the sentinel "all" disables the category filter;
// a blank search query disables the text filter; events whose dates fail
// to parse are excluded by a date-range filter.
func FilterEvents(events []Event, filters Filters) []Event {
	filtered := make([]Event, len(events))
	copy(filtered, events)

	if filters.Category != "" && filters.Category != "all" {
		want := strings.ToLower(filters.Category)
		filtered = keep(filtered, func(e Event) bool {
			return strings.ToLower(e.Category) == want
		})
	}

	if strings.TrimSpace(filters.SearchQuery) != "" {
		query := strings.ToLower(filters.SearchQuery)
		filtered = keep(filtered, func(e Event) bool {
			return strings.Contains(strings.ToLower(e.Name), query) ||
				strings.Contains(strings.ToLower(e.Description), query) ||
				strings.Contains(strings.ToLower(e.Category), query)
		})
	}

	if filters.DateRange != nil {
		start, end := filters.DateRange.Start, filters.DateRange.End
		filtered = keep(filtered, func(e Event) bool {
			date, ok := parseDate(e.Date)
			if !ok {
				return false
			}
			return !date.Before(start) && !date.After(end)
		})
	}

	if filters.RegistrationStatus != "" && filters.RegistrationStatus != "all" {
		isOpen := filters.RegistrationStatus == "open"
		filtered = keep(filtered, func(e Event) bool {
			return e.RegistrationOpen == isOpen
		})
	}

	return filtered
}

// SortEvents returns a new slice sorted by the given field and order.
// The sort is stable: events with equal keys keep their relative order.
func SortEvents(events []Event, options SortOptions) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		var comparison int

		switch options.Field {
		case SortByName:
			comparison = strings.Compare(sorted[i].Name, sorted[j].Name)
		case SortByDate:
			comparison = compareInt64(dateValue(sorted[i].Date), dateValue(sorted[j].Date))
		case SortByCategory:
			comparison = strings.Compare(sorted[i].Category, sorted[j].Category)
		case SortByParticipants:
			comparison = participantCount(sorted[i]) - participantCount(sorted[j])
		}

		if options.Order == OrderDesc {
			return comparison > 0
		}
		return comparison < 0
	})

	return sorted
}

// SearchEvents matches query against name, description, category and venue,
// case-insensitively. A blank query returns the input unchanged.
func SearchEvents(events []Event, query string) []Event {
	if strings.TrimSpace(query) == "" {
		return events
	}

	lower := strings.ToLower(query)
	return keep(append([]Event(nil), events...), func(e Event) bool {
		return strings.Contains(strings.ToLower(e.Name), lower) ||
			strings.Contains(strings.ToLower(e.Description), lower) ||
			strings.Contains(strings.ToLower(e.Category), lower) ||
			(e.Venue != "" && strings.Contains(strings.ToLower(e.Venue), lower))
	})
}

// GetEventsByCategory returns events whose category matches, ignoring case.
// Empty category or "all" returns the input unchanged.
func GetEventsByCategory(events []Event, category string) []Event {
	if category == "" || category == "all" {
		return events
	}

	want := strings.ToLower(category)
	return keep(append([]Event(nil), events...), func(e Event) bool {
		return strings.ToLower(e.Category) == want
	})
}

// GetUpcomingEvents returns events dated today or later.
func GetUpcomingEvents(events []Event) []Event {
	today := startOfDay(now())

	return keep(append([]Event(nil), events...), func(e Event) bool {
		date, ok := parseDate(e.Date)
		if !ok {
			return false
		}
		return !startOfDay(date).Before(today)
	})
}

// GetPastEvents returns events dated strictly before today.
func GetPastEvents(events []Event) []Event {
	today := startOfDay(now())

	return keep(append([]Event(nil), events...), func(e Event) bool {
		date, ok := parseDate(e.Date)
		if !ok {
			return false
		}
		return startOfDay(date).Before(today)
	})
}

// Stats summarizes an event collection.
type Stats struct {
	Total            int            `json:"total"`
	ByCategory       map[string]int `json:"byCategory"`
	OpenRegistration int            `json:"openRegistration"`
	TotalCapacity    int            `json:"totalCapacity"`
	TotalRegistered  int            `json:"totalRegistered"`
}

// GetEventStats computes collection-level totals.
func GetEventStats(events []Event) Stats {
	stats := Stats{
		Total:      len(events),
		ByCategory: make(map[string]int),
	}

	for _, e := range events {
		stats.ByCategory[e.Category]++
		if e.RegistrationOpen {
			stats.OpenRegistration++
		}
		if e.MaxParticipants != nil {
			stats.TotalCapacity += *e.MaxParticipants
		}
		if e.CurrentParticipants != nil {
			stats.TotalRegistered += *e.CurrentParticipants
		}
	}

	return stats
}

// CanRegisterForEvent reports whether an event currently accepts
// registrations: registration must be open and, when both participant
// bounds are known, capacity must remain.
func CanRegisterForEvent(e Event) bool {
	if !e.RegistrationOpen {
		return false
	}

	if e.MaxParticipants != nil && *e.MaxParticipants > 0 && e.CurrentParticipants != nil {
		return *e.CurrentParticipants < *e.MaxParticipants
	}

	return true
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

// dateValue maps an event date to a sortable integer; unparseable dates
// sort as 0, matching the listing module's behavior.
func dateValue(value string) int64 {
	date, ok := parseDate(value)
	if !ok {
		return 0
	}
	return date.UnixMilli()
}

func participantCount(e Event) int {
	if e.CurrentParticipants == nil {
		return 0
	}
	return *e.CurrentParticipants
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
