package analytics

import (
	"sort"
	"strconv"
	"time"
)

// DefaultLimit is used by the top-N reports when the caller passes a
// non-positive limit.
const DefaultLimit = 10

// EventViews pairs an event with its view count.
type EventViews struct {
	EventID string `json:"eventId"`
	Views   int    `json:"views"`
}

// EventRegistrations pairs an event with its registration count.
type EventRegistrations struct {
	EventID       string `json:"eventId"`
	Registrations int    `json:"registrations"`
}

// EventConversion pairs an event with its conversion rate.
type EventConversion struct {
	EventID        string  `json:"eventId"`
	ConversionRate float64 `json:"conversionRate"`
}

// UserEngagement pairs a user with their engagement score.
type UserEngagement struct {
	UserID          string `json:"userId"`
	EngagementScore int    `json:"engagementScore"`
}

// DateRangeStats rolls up activity inside an inclusive time window.
type DateRangeStats struct {
	TotalEvents        int `json:"totalEvents"`
	TotalViews         int `json:"totalViews"`
	TotalRegistrations int `json:"totalRegistrations"`
	UniqueUsers        int `json:"uniqueUsers"`
}

// EventSummary is the convenience rollup for a single fest event. The top
// fields are empty/nil when the event's log has no entries with that
// attribute.
type EventSummary struct {
	EventID           string  `json:"eventId"`
	Views             int     `json:"views"`
	Registrations     int     `json:"registrations"`
	UniqueVisitors    int     `json:"uniqueVisitors"`
	ConversionRate    float64 `json:"conversionRate"`
	TopDeviceType     string  `json:"topDeviceType,omitempty"`
	TopReferralSource string  `json:"topReferralSource,omitempty"`
	PeakHour          *int    `json:"peakHour,omitempty"`
}

// GetTopEventsByViews returns up to limit events sorted by views,
// descending.
func (s *Service) GetTopEventsByViews(limit int) []EventViews {
	out := make([]EventViews, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		agg := s.eventAggregates[id]
		out = append(out, EventViews{EventID: agg.EventID, Views: agg.Views})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Views > out[j].Views })
	return truncate(out, limit)
}

// GetTopEventsByRegistrations returns up to limit events sorted by
// registrations, descending.
func (s *Service) GetTopEventsByRegistrations(limit int) []EventRegistrations {
	out := make([]EventRegistrations, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		agg := s.eventAggregates[id]
		out = append(out, EventRegistrations{EventID: agg.EventID, Registrations: agg.Registrations})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Registrations > out[j].Registrations })
	return truncate(out, limit)
}

// GetTopEventsByConversion returns up to limit events with at least one
// view, sorted by conversion rate descending.
func (s *Service) GetTopEventsByConversion(limit int) []EventConversion {
	out := make([]EventConversion, 0, len(s.eventOrder))
	for _, id := range s.eventOrder {
		agg := s.eventAggregates[id]
		if agg.Views == 0 {
			continue
		}
		out = append(out, EventConversion{EventID: agg.EventID, ConversionRate: agg.ConversionRate})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ConversionRate > out[j].ConversionRate })
	return truncate(out, limit)
}

// GetTopUsers returns up to limit users sorted by engagement score,
// descending.
func (s *Service) GetTopUsers(limit int) []UserEngagement {
	out := make([]UserEngagement, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		agg := s.userAggregates[id]
		out = append(out, UserEngagement{UserID: agg.UserID, EngagementScore: agg.EngagementScore})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].EngagementScore > out[j].EngagementScore })
	return truncate(out, limit)
}

// GetAnalyticsByDateRange counts events, views, registrations and
// distinct users with timestamps inside [start, end].
func (s *Service) GetAnalyticsByDateRange(start, end time.Time) DateRangeStats {
	var stats DateRangeStats
	users := make(map[string]struct{})

	for _, event := range s.events {
		if event.Timestamp.Before(start) || event.Timestamp.After(end) {
			continue
		}
		stats.TotalEvents++
		switch event.Type {
		case TypeView:
			stats.TotalViews++
		case TypeRegister:
			stats.TotalRegistrations++
		}
		users[event.UserID] = struct{}{}
	}

	stats.UniqueUsers = len(users)
	return stats
}

// GetDeviceBreakdown counts tracked events per device type; events
// without one are excluded.
func (s *Service) GetDeviceBreakdown() map[string]int {
	breakdown := make(map[string]int)
	for _, event := range s.events {
		if event.DeviceType != "" {
			breakdown[event.DeviceType]++
		}
	}
	return breakdown
}

// GetReferralBreakdown counts tracked events per referral source; events
// without one are excluded.
func (s *Service) GetReferralBreakdown() map[string]int {
	breakdown := make(map[string]int)
	for _, event := range s.events {
		if event.ReferralSource != "" {
			breakdown[event.ReferralSource]++
		}
	}
	return breakdown
}

// GetHourlyActivity returns a 24-key map (0-23) of event counts by the
// timestamp's local hour.
func (s *Service) GetHourlyActivity() map[int]int {
	hourly := make(map[int]int, 24)
	for hour := 0; hour < 24; hour++ {
		hourly[hour] = 0
	}
	for _, event := range s.events {
		hourly[event.Timestamp.Hour()]++
	}
	return hourly
}

// GetDailyActivity counts events per ISO (UTC) calendar day.
func (s *Service) GetDailyActivity() map[string]int {
	daily := make(map[string]int)
	for _, event := range s.events {
		daily[event.Timestamp.UTC().Format("2006-01-02")]++
	}
	return daily
}

// GetEventSummary combines the stored aggregate with the top device, top
// referral source and peak viewing hour for one event.
func (s *Service) GetEventSummary(eventID string) EventSummary {
	agg := s.GetEventAnalytics(eventID)

	summary := EventSummary{
		EventID:        agg.EventID,
		Views:          agg.Views,
		Registrations:  agg.Registrations,
		UniqueVisitors: agg.UniqueVisitors,
		ConversionRate: agg.ConversionRate,
	}

	if top, ok := agg.DeviceTypes.TopKey(); ok {
		summary.TopDeviceType = top
	}
	if top, ok := agg.ReferralSources.TopKey(); ok {
		summary.TopReferralSource = top
	}
	if top, ok := agg.PopularTimes.TopKey(); ok {
		if hour, err := strconv.Atoi(top); err == nil {
			summary.PeakHour = &hour
		}
	}

	return summary
}

func truncate[T any](items []T, limit int) []T {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
