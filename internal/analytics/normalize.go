package analytics

import (
	"strings"
	"time"
)

// Field length caps applied during normalization.
const (
	maxUserIDLen         = 80
	maxEventIDLen        = 80
	maxReferralSourceLen = 64
)

// IsValidDate reports whether t carries a real timestamp. The zero time
// is the invalid marker: JSON payloads with unparseable timestamps decode
// to it.
func IsValidDate(t time.Time) bool {
	return !t.IsZero()
}

// Normalize validates and cleans a raw event before it may touch any
// aggregate. ok is false when the event must be discarded: unknown event
// type, blank user ID, or invalid timestamp. Otherwise the returned copy
// has its string fields trimmed and capped, and an unrecognized device
// type blanked out.
func Normalize(event Event) (Event, bool) {
	switch event.Type {
	case TypeView, TypeClick, TypeRegister, TypeShare:
	default:
		return Event{}, false
	}

	userID := capLen(strings.TrimSpace(event.UserID), maxUserIDLen)
	if userID == "" {
		return Event{}, false
	}

	if !IsValidDate(event.Timestamp) {
		return Event{}, false
	}

	normalized := event
	normalized.UserID = userID
	normalized.EventID = capLen(strings.TrimSpace(event.EventID), maxEventIDLen)
	normalized.ReferralSource = capLen(strings.TrimSpace(event.ReferralSource), maxReferralSourceLen)

	switch event.DeviceType {
	case DeviceMobile, DeviceTablet, DeviceDesktop:
	default:
		normalized.DeviceType = ""
	}

	return normalized, true
}

func capLen(value string, max int) string {
	runes := []rune(value)
	if len(runes) > max {
		return string(runes[:max])
	}
	return value
}
