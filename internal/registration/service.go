package registration

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sparkfest/fest-core/internal/validation"
)

// Error strings surfaced in operation results.
const (
	errInvalidEmail      = "Invalid email address"
	errInvalidPhone      = "Invalid phone number"
	errAlreadyRegistered = "Already registered for this event"
	errNotFound          = "Registration not found"
	errAlreadyCancelled  = "Registration already cancelled"
)

// Service is the registration ledger. It owns its state, starts empty
// and performs no internal locking: concurrent hosts synchronize access
// externally.
type Service struct {
	logger *zap.Logger
	now    func() time.Time

	registrations map[string]*Registration
	order         []string
	capacity      map[string]int
	// active tracks the (eventId, email) pairs currently holding a
	// non-cancelled slot; cancel frees the pair for re-registration.
	active map[string]map[string]struct{}
}

// NewService constructs an empty ledger. A nil logger disables logging.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:        logger,
		now:           time.Now,
		registrations: make(map[string]*Registration),
		capacity:      make(map[string]int),
		active:        make(map[string]map[string]struct{}),
	}
}

// Register validates the payload and creates a new registration. The
// registration is confirmed when the event has no configured capacity or
// room remains; otherwise it is waitlisted. Payment always starts
// pending.
func (s *Service) Register(data Data) Result {
	if !validation.ValidateEmail(data.UserEmail).IsValid {
		return Result{Success: false, Error: errInvalidEmail}
	}
	if !validation.ValidatePhone(data.UserPhone).IsValid {
		return Result{Success: false, Error: errInvalidPhone}
	}
	if s.IsUserRegistered(data.EventID, data.UserEmail) {
		return Result{Success: false, Error: errAlreadyRegistered}
	}

	status := StatusConfirmed
	if capacity, ok := s.capacity[data.EventID]; ok {
		if s.GetEventRegistrationCount(data.EventID) >= capacity {
			status = StatusWaitlist
		}
	}

	reg := &Registration{
		ID:               uuid.New().String(),
		EventID:          data.EventID,
		UserID:           data.UserEmail,
		UserName:         data.UserName,
		UserEmail:        data.UserEmail,
		UserPhone:        data.UserPhone,
		RegistrationDate: s.now(),
		Status:           status,
		PaymentStatus:    PaymentPending,
		TeamMembers:      data.TeamMembers,
	}

	s.registrations[reg.ID] = reg
	s.order = append(s.order, reg.ID)
	if s.active[data.EventID] == nil {
		s.active[data.EventID] = make(map[string]struct{})
	}
	s.active[data.EventID][data.UserEmail] = struct{}{}

	s.logger.Debug("registration created",
		zap.String("registration_id", reg.ID),
		zap.String("event_id", reg.EventID),
		zap.String("status", reg.Status),
	)

	return Result{Success: true, Registration: reg}
}

// Cancel marks a registration cancelled, frees its (event, email) slot
// and attempts to promote the oldest waitlisted registration for the
// event.
func (s *Service) Cancel(registrationID string) Result {
	reg, ok := s.registrations[registrationID]
	if !ok {
		return Result{Success: false, Error: errNotFound}
	}
	if reg.Status == StatusCancelled {
		return Result{Success: false, Error: errAlreadyCancelled}
	}

	reg.Status = StatusCancelled
	if pairs, ok := s.active[reg.EventID]; ok {
		delete(pairs, reg.UserEmail)
	}

	s.promoteFromWaitlist(reg.EventID)

	s.logger.Debug("registration cancelled",
		zap.String("registration_id", registrationID),
		zap.String("event_id", reg.EventID),
	)

	return Result{Success: true}
}

// UpdatePaymentStatus sets the payment status. A completed payment also
// advances a pending registration to confirmed; a failed payment leaves
// the registration status untouched.
func (s *Service) UpdatePaymentStatus(registrationID, status string) Result {
	reg, ok := s.registrations[registrationID]
	if !ok {
		return Result{Success: false, Error: errNotFound}
	}

	reg.PaymentStatus = status
	if status == PaymentCompleted && reg.Status == StatusPending {
		reg.Status = StatusConfirmed
	}

	return Result{Success: true}
}

// SetEventCapacity stores or overwrites the event's capacity ceiling.
// Existing registrations are not re-evaluated.
func (s *Service) SetEventCapacity(eventID string, capacity int) {
	s.capacity[eventID] = capacity
}

// GetRegistration returns a registration by ID, nil when unknown.
func (s *Service) GetRegistration(registrationID string) *Registration {
	return s.registrations[registrationID]
}

// GetEventRegistrations returns every registration for an event, in
// original registration order.
func (s *Service) GetEventRegistrations(eventID string) []*Registration {
	out := make([]*Registration, 0)
	for _, id := range s.order {
		if reg := s.registrations[id]; reg.EventID == eventID {
			out = append(out, reg)
		}
	}
	return out
}

// GetUserRegistrations returns every registration made with the given
// email, across events.
func (s *Service) GetUserRegistrations(userEmail string) []*Registration {
	out := make([]*Registration, 0)
	for _, id := range s.order {
		if reg := s.registrations[id]; reg.UserEmail == userEmail {
			out = append(out, reg)
		}
	}
	return out
}

// IsUserRegistered reports whether the (event, email) pair currently
// holds an active slot. Cancellation clears the slot.
func (s *Service) IsUserRegistered(eventID, userEmail string) bool {
	pairs, ok := s.active[eventID]
	if !ok {
		return false
	}
	_, held := pairs[userEmail]
	return held
}

// GetEventRegistrationCount counts an event's non-cancelled
// registrations, waitlisted ones included.
func (s *Service) GetEventRegistrationCount(eventID string) int {
	count := 0
	for _, reg := range s.GetEventRegistrations(eventID) {
		if reg.Status != StatusCancelled {
			count++
		}
	}
	return count
}

// GetWaitlist returns the event's waitlisted registrations in original
// registration order.
func (s *Service) GetWaitlist(eventID string) []*Registration {
	out := make([]*Registration, 0)
	for _, reg := range s.GetEventRegistrations(eventID) {
		if reg.Status == StatusWaitlist {
			out = append(out, reg)
		}
	}
	return out
}

// GetStats breaks the event's registrations down by status.
func (s *Service) GetStats(eventID string) Stats {
	stats := Stats{}
	for _, reg := range s.GetEventRegistrations(eventID) {
		stats.Total++
		switch reg.Status {
		case StatusConfirmed:
			stats.Confirmed++
		case StatusPending:
			stats.Pending++
		case StatusCancelled:
			stats.Cancelled++
		case StatusWaitlist:
			stats.Waitlist++
		}
	}
	return stats
}

// Clear drops every registration and capacity, returning the ledger to
// its initial empty state.
func (s *Service) Clear() {
	s.registrations = make(map[string]*Registration)
	s.order = nil
	s.capacity = make(map[string]int)
	s.active = make(map[string]map[string]struct{})
}

// promoteFromWaitlist confirms the oldest waitlisted registration when
// the event has a configured capacity and a confirmed slot is free. At
// most one promotion happens per call.
func (s *Service) promoteFromWaitlist(eventID string) {
	capacity, ok := s.capacity[eventID]
	if !ok {
		return
	}

	confirmed := 0
	for _, reg := range s.GetEventRegistrations(eventID) {
		if reg.Status == StatusConfirmed {
			confirmed++
		}
	}
	if confirmed >= capacity {
		return
	}

	waitlist := s.GetWaitlist(eventID)
	if len(waitlist) == 0 {
		return
	}

	sort.SliceStable(waitlist, func(i, j int) bool {
		return waitlist[i].RegistrationDate.Before(waitlist[j].RegistrationDate)
	})
	waitlist[0].Status = StatusConfirmed

	s.logger.Debug("waitlist promotion",
		zap.String("registration_id", waitlist[0].ID),
		zap.String("event_id", eventID),
	)
}
