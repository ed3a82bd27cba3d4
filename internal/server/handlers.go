package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sparkfest/fest-core/internal/analytics"
	"github.com/sparkfest/fest-core/internal/event"
	"github.com/sparkfest/fest-core/internal/registration"
	"github.com/sparkfest/fest-core/internal/validation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

// interactionPayload is the wire form of a tracked interaction. The
// timestamp travels as RFC 3339 text; anything unparseable becomes the
// zero time, which the tracker silently drops.
type interactionPayload struct {
	EventType      string            `json:"eventType"`
	EventID        string            `json:"eventId,omitempty"`
	UserID         string            `json:"userId"`
	Timestamp      string            `json:"timestamp"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	DeviceType     string            `json:"deviceType,omitempty"`
	ReferralSource string            `json:"referralSource,omitempty"`
}

func (p interactionPayload) toEvent() analytics.Event {
	ts, err := time.Parse(time.RFC3339, p.Timestamp)
	if err != nil {
		ts = time.Time{}
	}
	return analytics.Event{
		Type:           p.EventType,
		EventID:        p.EventID,
		UserID:         p.UserID,
		Timestamp:      ts,
		Metadata:       p.Metadata,
		DeviceType:     p.DeviceType,
		ReferralSource: p.ReferralSource,
	}
}

// handleTrack ingests one interaction. Ingestion is best-effort, so the
// response is 202 regardless of whether the event survived
// normalization.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var payload interactionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.analyticsMu.Lock()
	s.analytics.Track(payload.toEvent())
	s.analyticsMu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.SendMessage(r.Context(), payload.UserID, payload); err != nil {
			s.logger.Error("failed to publish interaction", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusAccepted, map[string]bool{"accepted": true})
}

// KafkaHandler returns a message handler that feeds consumed interaction
// payloads into the tracker. Malformed payloads are dropped, matching
// the tracker's lenient-ingest contract.
func (s *Server) KafkaHandler() func(ctx context.Context, key, value []byte) error {
	return func(ctx context.Context, key, value []byte) error {
		var payload interactionPayload
		if err := json.Unmarshal(value, &payload); err != nil {
			s.logger.Debug("dropping undecodable interaction message", zap.Error(err))
			return nil
		}

		s.analyticsMu.Lock()
		s.analytics.Track(payload.toEvent())
		s.analyticsMu.Unlock()
		return nil
	}
}

func (s *Server) handleEventAnalytics(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetEventAnalytics(chi.URLParam(r, "eventID")))
}

func (s *Server) handleEventSummary(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetEventSummary(chi.URLParam(r, "eventID")))
}

func (s *Server) handleUserAnalytics(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetUserAnalytics(chi.URLParam(r, "userID")))
}

func limitParam(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0 // service applies its default
	}
	return limit
}

func (s *Server) handleTopViews(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetTopEventsByViews(limitParam(r)))
}

func (s *Server) handleTopRegistrations(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetTopEventsByRegistrations(limitParam(r)))
}

func (s *Server) handleTopConversion(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetTopEventsByConversion(limitParam(r)))
}

func (s *Server) handleTopUsers(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetTopUsers(limitParam(r)))
}

func (s *Server) handleDateRange(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start: must be RFC 3339")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end: must be RFC 3339")
		return
	}

	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetAnalyticsByDateRange(start, end))
}

func (s *Server) handleDeviceBreakdown(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetDeviceBreakdown())
}

func (s *Server) handleReferralBreakdown(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetReferralBreakdown())
}

func (s *Server) handleHourlyActivity(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetHourlyActivity())
}

func (s *Server) handleDailyActivity(w http.ResponseWriter, r *http.Request) {
	s.analyticsMu.Lock()
	defer s.analyticsMu.Unlock()
	writeJSON(w, http.StatusOK, s.analytics.GetDailyActivity())
}

// registrationErrorStatus maps the ledger's result errors onto HTTP
// statuses.
func registrationErrorStatus(msg string) int {
	switch msg {
	case "Registration not found":
		return http.StatusNotFound
	case "Already registered for this event", "Registration already cancelled":
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var data registration.Data
	if err := decodeJSON(r, &data); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.registrationsMu.Lock()
	res := s.registrations.Register(data)
	s.registrationsMu.Unlock()

	if !res.Success {
		writeError(w, registrationErrorStatus(res.Error), res.Error)
		return
	}
	writeJSON(w, http.StatusCreated, res.Registration)
}

func (s *Server) handleGetRegistration(w http.ResponseWriter, r *http.Request) {
	s.registrationsMu.Lock()
	reg := s.registrations.GetRegistration(chi.URLParam(r, "id"))
	s.registrationsMu.Unlock()

	if reg == nil {
		writeError(w, http.StatusNotFound, "Registration not found")
		return
	}
	writeJSON(w, http.StatusOK, reg)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.registrationsMu.Lock()
	res := s.registrations.Cancel(chi.URLParam(r, "id"))
	s.registrationsMu.Unlock()

	if !res.Success {
		writeError(w, registrationErrorStatus(res.Error), res.Error)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	s.registrationsMu.Lock()
	res := s.registrations.UpdatePaymentStatus(chi.URLParam(r, "id"), body.Status)
	s.registrationsMu.Unlock()

	if !res.Success {
		writeError(w, registrationErrorStatus(res.Error), res.Error)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSetCapacity(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Capacity int `json:"capacity"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if body.Capacity < 0 {
		writeError(w, http.StatusBadRequest, "capacity cannot be negative")
		return
	}

	s.registrationsMu.Lock()
	s.registrations.SetEventCapacity(chi.URLParam(r, "eventID"), body.Capacity)
	s.registrationsMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleEventRegistrations(w http.ResponseWriter, r *http.Request) {
	s.registrationsMu.Lock()
	defer s.registrationsMu.Unlock()
	writeJSON(w, http.StatusOK, s.registrations.GetEventRegistrations(chi.URLParam(r, "eventID")))
}

func (s *Server) handleWaitlist(w http.ResponseWriter, r *http.Request) {
	s.registrationsMu.Lock()
	defer s.registrationsMu.Unlock()
	writeJSON(w, http.StatusOK, s.registrations.GetWaitlist(chi.URLParam(r, "eventID")))
}

func (s *Server) handleRegistrationStats(w http.ResponseWriter, r *http.Request) {
	s.registrationsMu.Lock()
	defer s.registrationsMu.Unlock()
	writeJSON(w, http.StatusOK, s.registrations.GetStats(chi.URLParam(r, "eventID")))
}

func (s *Server) handleUserRegistrations(w http.ResponseWriter, r *http.Request) {
	s.registrationsMu.Lock()
	defer s.registrationsMu.Unlock()
	writeJSON(w, http.StatusOK, s.registrations.GetUserRegistrations(chi.URLParam(r, "email")))
}

// handleReplaceCatalog swaps in a new event catalog. Every event must
// pass validation; the response lists the failures by index otherwise.
func (s *Server) handleReplaceCatalog(w http.ResponseWriter, r *http.Request) {
	var events []event.Event
	if err := decodeJSON(r, &events); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	invalid := make(map[int][]string)
	for i, e := range events {
		if res := event.Validate(e); !res.Valid {
			invalid[i] = res.Errors
		}
	}
	if len(invalid) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "catalog contains invalid events",
			"details": invalid,
		})
		return
	}

	s.catalogMu.Lock()
	s.catalog = events
	s.catalogMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{"count": len(events)})
}

func (s *Server) snapshotCatalog() []event.Event {
	s.catalogMu.RLock()
	defer s.catalogMu.RUnlock()
	return append([]event.Event(nil), s.catalog...)
}

// handleQueryCatalog filters and sorts the stored catalog from query
// parameters.
func (s *Server) handleQueryCatalog(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := event.Filters{
		Category:           q.Get("category"),
		SearchQuery:        q.Get("q"),
		RegistrationStatus: q.Get("status"),
	}

	events := event.FilterEvents(s.snapshotCatalog(), filters)

	if field := q.Get("sort"); field != "" {
		events = event.SortEvents(events, event.SortOptions{
			Field: field,
			Order: q.Get("order"),
		})
	}

	writeJSON(w, http.StatusOK, events)
}

func (s *Server) handleCatalogStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, event.GetEventStats(s.snapshotCatalog()))
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, event.GetUpcomingEvents(s.snapshotCatalog()))
}

func (s *Server) handlePast(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, event.GetPastEvents(s.snapshotCatalog()))
}

func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	var form validation.FormData
	if err := decodeJSON(r, &form); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, validation.ValidateRegistrationForm(form))
}
