package event

import "strings"

// ValidationResult lists every problem found in an event record.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks a possibly partial event and accumulates all applicable
// errors rather than stopping at the first.
func Validate(e Event) ValidationResult {
	var errors []string

	if strings.TrimSpace(e.Name) == "" {
		errors = append(errors, "Event name is required")
	}

	if strings.TrimSpace(e.Category) == "" {
		errors = append(errors, "Event category is required")
	}

	if e.Date == "" {
		errors = append(errors, "Event date is required")
	} else if _, ok := parseDate(e.Date); !ok {
		errors = append(errors, "Invalid event date")
	}

	if len(strings.TrimSpace(e.Description)) < 10 {
		errors = append(errors, "Event description must be at least 10 characters")
	}

	if e.MaxParticipants != nil && *e.MaxParticipants < 1 {
		errors = append(errors, "Maximum participants must be at least 1")
	}

	if e.CurrentParticipants != nil && *e.CurrentParticipants < 0 {
		errors = append(errors, "Current participants cannot be negative")
	}

	if e.MaxParticipants != nil && *e.MaxParticipants > 0 &&
		e.CurrentParticipants != nil && *e.CurrentParticipants > 0 &&
		*e.CurrentParticipants > *e.MaxParticipants {
		errors = append(errors, "Current participants cannot exceed maximum")
	}

	return ValidationResult{Valid: len(errors) == 0, Errors: errors}
}
