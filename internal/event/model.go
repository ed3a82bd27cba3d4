// Package event provides pure query functions over in-memory fest event
// collections: filtering, sorting, searching, stats and validation. No
// function in this package mutates its input slice.
package event

import "time"

// Event is a single fest event as supplied by the caller. Dates are
// ISO-ish strings ("2026-03-06" or RFC 3339); optional participant counts
// are nil when unknown.
type Event struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Category            string `json:"category"`
	Date                string `json:"date"`
	Time                string `json:"time,omitempty"`
	Venue               string `json:"venue,omitempty"`
	Description         string `json:"description"`
	Image               string `json:"image,omitempty"`
	RegistrationOpen    bool   `json:"registrationOpen"`
	MaxParticipants     *int   `json:"maxParticipants,omitempty"`
	CurrentParticipants *int   `json:"currentParticipants,omitempty"`
}

// Filters narrows down an event collection. Zero-valued fields are
// ignored; all supplied criteria apply conjunctively.
type Filters struct {
	Category           string     `json:"category,omitempty"`
	SearchQuery        string     `json:"searchQuery,omitempty"`
	DateRange          *DateRange `json:"dateRange,omitempty"`
	RegistrationStatus string     `json:"registrationStatus,omitempty"` // "open", "closed" or "all"
}

// DateRange is an inclusive date window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Sort field names.
const (
	SortByName         = "name"
	SortByDate         = "date"
	SortByCategory     = "category"
	SortByParticipants = "participants"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SortOptions selects the sort field and direction for SortEvents.
type SortOptions struct {
	Field string `json:"field"`
	Order string `json:"order"`
}

// now is swappable in tests.
var now = time.Now

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

// parseDate parses an event date string; ok is false when no known layout
// matches.
func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
