// Package analytics implements the in-memory interaction tracker for the
// fest site: event ingestion with lenient normalization, per-event and
// per-user aggregates, and the read-side reporting queries built on them.
package analytics

import (
	"encoding/json"
	"time"
)

// Interaction event types.
const (
	TypeView     = "view"
	TypeClick    = "click"
	TypeRegister = "register"
	TypeShare    = "share"
)

// Device types.
const (
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceDesktop = "desktop"
)

// Event is a single tracked user interaction. EventID, Metadata,
// DeviceType and ReferralSource are optional; a zero Timestamp marks an
// invalid date.
type Event struct {
	Type           string            `json:"eventType"`
	EventID        string            `json:"eventId,omitempty"`
	UserID         string            `json:"userId"`
	Timestamp      time.Time         `json:"timestamp"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	DeviceType     string            `json:"deviceType,omitempty"`
	ReferralSource string            `json:"referralSource,omitempty"`
}

// EventAggregate holds the derived metrics for one fest event.
// Instances returned by the service reference internal storage and must
// not be mutated by callers.
type EventAggregate struct {
	EventID         string   `json:"eventId"`
	Views           int      `json:"views"`
	Registrations   int      `json:"registrations"`
	UniqueVisitors  int      `json:"uniqueVisitors"`
	ConversionRate  float64  `json:"conversionRate"`
	PopularTimes    *Counter `json:"popularTimes"`
	DeviceTypes     *Counter `json:"deviceTypes"`
	ReferralSources *Counter `json:"referralSources"`
}

func newEventAggregate(eventID string) *EventAggregate {
	return &EventAggregate{
		EventID:         eventID,
		PopularTimes:    NewCounter(),
		DeviceTypes:     NewCounter(),
		ReferralSources: NewCounter(),
	}
}

// UserAggregate holds the derived metrics for one user.
type UserAggregate struct {
	UserID             string   `json:"userId"`
	TotalViews         int      `json:"totalViews"`
	TotalRegistrations int      `json:"totalRegistrations"`
	FavoriteCategories []string `json:"favoriteCategories"`
	// LastActivity is the timestamp of the most recently ingested event
	// for this user, not the maximum seen: out-of-order ingestion can
	// make it regress.
	LastActivity    time.Time `json:"lastActivity"`
	EngagementScore int       `json:"engagementScore"`
}

func newUserAggregate(userID string, ts time.Time) *UserAggregate {
	return &UserAggregate{
		UserID:             userID,
		FavoriteCategories: []string{},
		LastActivity:       ts,
	}
}

// Counter is a frequency map that remembers key insertion order, so
// TopKey tie-breaking is deterministic (earliest-seen wins) despite Go's
// randomized map iteration.
type Counter struct {
	counts map[string]int
	order  []string
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Increment adds one to key's count.
func (c *Counter) Increment(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Get returns key's count, zero if absent.
func (c *Counter) Get(key string) int {
	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter) Len() int {
	return len(c.counts)
}

// Keys returns the distinct keys in insertion order.
func (c *Counter) Keys() []string {
	return append([]string(nil), c.order...)
}

// TopKey returns the key with the strictly greatest count; ties keep the
// earliest-seen key. ok is false for an empty counter.
func (c *Counter) TopKey() (key string, ok bool) {
	topCount := -1
	for _, k := range c.order {
		if c.counts[k] > topCount {
			key = k
			topCount = c.counts[k]
			ok = true
		}
	}
	return key, ok
}

// Snapshot copies the counts into a plain map.
func (c *Counter) Snapshot() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the counter as a plain JSON object of counts.
func (c *Counter) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.counts)
}
