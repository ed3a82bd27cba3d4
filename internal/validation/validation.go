// Package validation implements the form-field validators used by the
// fest registration flow. Validators never fail hard: each returns a
// Result describing the first violated rule.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// Result reports whether a single field passed validation.
type Result struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegex = regexp.MustCompile(`^[6-9]\d{9}$`)
	nameRegex  = regexp.MustCompile(`^[a-zA-Z\s.'-]+$`)
	phoneStrip = regexp.MustCompile(`[+\s\-()]`)
)

func valid() Result {
	return Result{IsValid: true}
}

func invalid(msg string) Result {
	return Result{IsValid: false, Error: msg}
}

// ValidateEmail checks for a simple local@domain.tld shape.
func ValidateEmail(email string) Result {
	trimmed := strings.TrimSpace(email)

	if trimmed == "" {
		return invalid("Email is required")
	}
	if !emailRegex.MatchString(trimmed) {
		return invalid("Invalid email format")
	}

	return valid()
}

// ValidatePhone checks for a valid Indian mobile number. Spaces, hyphens,
// parentheses and a leading + are stripped; a 12-digit number with the 91
// country code is reduced to its 10-digit national form.
func ValidatePhone(phone string) Result {
	trimmed := strings.TrimSpace(phone)

	if trimmed == "" {
		return invalid("Phone number is required")
	}

	cleaned := phoneStrip.ReplaceAllString(trimmed, "")
	if strings.HasPrefix(cleaned, "91") && len(cleaned) == 12 {
		cleaned = cleaned[2:]
	}

	if !phoneRegex.MatchString(cleaned) {
		return invalid("Invalid phone number format")
	}

	return valid()
}

// ValidateName checks a person name: letters, spaces, apostrophes, hyphens
// and periods only. fieldName customizes the error messages; pass "" for
// the default "Name".
func ValidateName(name, fieldName string) Result {
	if fieldName == "" {
		fieldName = "Name"
	}
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return invalid(fmt.Sprintf("%s is required", fieldName))
	}
	if len(trimmed) < 2 {
		return invalid(fmt.Sprintf("%s must be at least 2 characters", fieldName))
	}
	if !nameRegex.MatchString(trimmed) {
		return invalid(fmt.Sprintf("%s contains invalid characters", fieldName))
	}

	return valid()
}

// ValidateCollege checks the college name field.
func ValidateCollege(college string) Result {
	trimmed := strings.TrimSpace(college)

	if trimmed == "" {
		return invalid("College name is required")
	}
	if len(trimmed) < 3 {
		return invalid("College name must be at least 3 characters")
	}

	return valid()
}

// ValidateEventSelection checks the list of selected event IDs.
func ValidateEventSelection(events []string) Result {
	if len(events) == 0 {
		return invalid("Please select at least one event")
	}

	for _, id := range events {
		if strings.TrimSpace(id) == "" {
			return invalid("Selected events contain invalid entries")
		}
	}

	if len(events) > 5 {
		return invalid("You can select a maximum of 5 events")
	}

	return valid()
}

// FormData is a raw registration form as submitted by a caller.
type FormData struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	College string   `json:"college"`
	Events  []string `json:"events"`
}

// FormErrors holds per-field error messages; empty means the field passed.
type FormErrors struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	College string `json:"college,omitempty"`
	Events  string `json:"events,omitempty"`
}

// FormResult aggregates the outcome of validating a whole form.
type FormResult struct {
	IsValid bool       `json:"isValid"`
	Errors  FormErrors `json:"errors"`
}

// ValidateRegistrationForm runs every field validator and collects all
// errors, unlike the single-field validators which stop at the first rule.
func ValidateRegistrationForm(form FormData) FormResult {
	var errs FormErrors
	ok := true

	if r := ValidateName(form.Name, ""); !r.IsValid {
		errs.Name = r.Error
		ok = false
	}
	if r := ValidateEmail(form.Email); !r.IsValid {
		errs.Email = r.Error
		ok = false
	}
	if r := ValidatePhone(form.Phone); !r.IsValid {
		errs.Phone = r.Error
		ok = false
	}
	if r := ValidateCollege(form.College); !r.IsValid {
		errs.College = r.Error
		ok = false
	}
	if r := ValidateEventSelection(form.Events); !r.IsValid {
		errs.Events = r.Error
		ok = false
	}

	return FormResult{IsValid: ok, Errors: errs}
}
