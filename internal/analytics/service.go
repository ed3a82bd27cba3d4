package analytics

import (
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Engagement score weights per interaction type.
var engagementWeights = map[string]float64{
	TypeView:     1,
	TypeClick:    2,
	TypeShare:    5,
	TypeRegister: 10,
}

const recencyWindow = 7 * 24 * time.Hour

// Service is the interaction tracker. It owns its state, starts empty and
// performs no internal locking: a concurrent host must synchronize access
// externally.
type Service struct {
	logger *zap.Logger
	now    func() time.Time

	events []Event

	eventAggregates map[string]*EventAggregate
	eventOrder      []string
	userAggregates  map[string]*UserAggregate
	userOrder       []string
}

// NewService constructs an empty tracker. A nil logger disables logging.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		logger:          logger,
		now:             time.Now,
		eventAggregates: make(map[string]*EventAggregate),
		userAggregates:  make(map[string]*UserAggregate),
	}
}

// Track ingests one interaction event. Ingestion is best-effort: an event
// that fails normalization is dropped without touching any aggregate and
// without signaling the caller.
func (s *Service) Track(event Event) {
	normalized, ok := Normalize(event)
	if !ok {
		s.logger.Debug("dropped invalid interaction event",
			zap.String("event_type", event.Type),
			zap.String("user_id", event.UserID),
		)
		return
	}

	s.events = append(s.events, normalized)

	if normalized.EventID != "" {
		s.updateEventAggregate(normalized)
	}
	s.updateUserAggregate(normalized)

	s.logger.Debug("interaction tracked",
		zap.String("event_type", normalized.Type),
		zap.String("event_id", normalized.EventID),
		zap.String("user_id", normalized.UserID),
	)
}

// GetEventAnalytics returns the aggregate for eventID. Unknown events get
// a fresh zero-valued aggregate, never an error.
func (s *Service) GetEventAnalytics(eventID string) *EventAggregate {
	if agg, ok := s.eventAggregates[eventID]; ok {
		return agg
	}
	return newEventAggregate(eventID)
}

// GetUserAnalytics returns the aggregate for userID, or a zero-valued
// default when the user has never been seen.
func (s *Service) GetUserAnalytics(userID string) *UserAggregate {
	if agg, ok := s.userAggregates[userID]; ok {
		return agg
	}
	return newUserAggregate(userID, s.now())
}

// Clear drops every event and aggregate, returning the tracker to its
// initial empty state.
func (s *Service) Clear() {
	s.events = nil
	s.eventAggregates = make(map[string]*EventAggregate)
	s.eventOrder = nil
	s.userAggregates = make(map[string]*UserAggregate)
	s.userOrder = nil
}

func (s *Service) updateEventAggregate(event Event) {
	agg, ok := s.eventAggregates[event.EventID]
	if !ok {
		agg = newEventAggregate(event.EventID)
		s.eventAggregates[event.EventID] = agg
		s.eventOrder = append(s.eventOrder, event.EventID)
	}

	switch event.Type {
	case TypeView:
		agg.Views++
		agg.PopularTimes.Increment(strconv.Itoa(event.Timestamp.Hour()))
	case TypeRegister:
		agg.Registrations++
	}

	// Recomputed from the full log rather than tracked incrementally;
	// O(n) per event but immune to double-count drift.
	agg.UniqueVisitors = s.countUniqueViewers(event.EventID)

	if agg.Views > 0 {
		agg.ConversionRate = float64(agg.Registrations) / float64(agg.Views) * 100
	} else {
		agg.ConversionRate = 0
	}

	if event.DeviceType != "" {
		agg.DeviceTypes.Increment(event.DeviceType)
	}
	if event.ReferralSource != "" {
		agg.ReferralSources.Increment(event.ReferralSource)
	}
}

func (s *Service) updateUserAggregate(event Event) {
	agg, ok := s.userAggregates[event.UserID]
	if !ok {
		agg = newUserAggregate(event.UserID, event.Timestamp)
		s.userAggregates[event.UserID] = agg
		s.userOrder = append(s.userOrder, event.UserID)
	}

	switch event.Type {
	case TypeView:
		agg.TotalViews++
	case TypeRegister:
		agg.TotalRegistrations++
	}

	// Last ingested wins, even when events arrive out of order.
	agg.LastActivity = event.Timestamp
	agg.EngagementScore = s.engagementScore(event.UserID)

	if category, ok := event.Metadata["category"]; ok && category != "" {
		if !containsString(agg.FavoriteCategories, category) {
			agg.FavoriteCategories = append(agg.FavoriteCategories, category)
		}
	}
}

// engagementScore sums per-type weights over the user's whole history and
// adds a 0.5 recency bonus per event inside the trailing 7-day window,
// rounded to the nearest integer.
func (s *Service) engagementScore(userID string) int {
	now := s.now()
	score := 0.0

	for _, event := range s.events {
		if event.UserID != userID {
			continue
		}
		score += engagementWeights[event.Type]
		if now.Sub(event.Timestamp) < recencyWindow {
			score += 0.5
		}
	}

	return int(math.Round(score))
}

func (s *Service) countUniqueViewers(eventID string) int {
	seen := make(map[string]struct{})
	for _, event := range s.events {
		if event.EventID == eventID && event.Type == TypeView {
			seen[event.UserID] = struct{}{}
		}
	}
	return len(seen)
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
