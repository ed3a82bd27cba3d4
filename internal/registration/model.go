// Package registration implements the in-memory registration ledger for
// fest events: per-event capacity, waitlisting, promotion on cancellation
// and payment status tracking.
package registration

import "time"

// Registration statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusWaitlist  = "waitlist"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Registration is a single user's registration for one event.
// Cancellation flips Status; records are never deleted.
type Registration struct {
	ID               string    `json:"id"`
	EventID          string    `json:"eventId"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName"`
	UserEmail        string    `json:"userEmail"`
	UserPhone        string    `json:"userPhone"`
	RegistrationDate time.Time `json:"registrationDate"`
	Status           string    `json:"status"`
	PaymentStatus    string    `json:"paymentStatus"`
	TeamMembers      []string  `json:"teamMembers,omitempty"`
}

// Data is the payload for a new registration.
type Data struct {
	EventID     string   `json:"eventId"`
	UserName    string   `json:"userName"`
	UserEmail   string   `json:"userEmail"`
	UserPhone   string   `json:"userPhone"`
	TeamMembers []string `json:"teamMembers,omitempty"`
}

// Result reports the outcome of a mutating operation. Domain failures
// (duplicate registration, unknown id, already cancelled) are carried in
// Error, never raised.
type Result struct {
	Success      bool          `json:"success"`
	Registration *Registration `json:"registration,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// Stats breaks an event's registrations down by status.
type Stats struct {
	Total     int `json:"total"`
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Cancelled int `json:"cancelled"`
	Waitlist  int `json:"waitlist"`
}
