package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	t.Run("complete event passes", func(t *testing.T) {
		res := Validate(Event{
			Name:        "Robowars",
			Category:    "Technical",
			Date:        "2026-03-06",
			Description: "Battle of the bots, qualifiers at noon",
		})
		assert.True(t, res.Valid)
		assert.Empty(t, res.Errors)
	})

	t.Run("collects every applicable error", func(t *testing.T) {
		res := Validate(Event{
			Name:                "  ",
			Date:                "not a date",
			Description:         "short",
			MaxParticipants:     intp(0),
			CurrentParticipants: intp(-2),
		})
		assert.False(t, res.Valid)
		assert.Equal(t, []string{
			"Event name is required",
			"Event category is required",
			"Invalid event date",
			"Event description must be at least 10 characters",
			"Maximum participants must be at least 1",
			"Current participants cannot be negative",
		}, res.Errors)
	})

	t.Run("missing date reported separately from invalid date", func(t *testing.T) {
		res := Validate(Event{Name: "X Y", Category: "Tech", Description: "long enough text"})
		assert.Contains(t, res.Errors, "Event date is required")
		assert.NotContains(t, res.Errors, "Invalid event date")
	})

	t.Run("participants cannot exceed capacity", func(t *testing.T) {
		res := Validate(Event{
			Name:                "Robowars",
			Category:            "Technical",
			Date:                "2026-03-06",
			Description:         "Battle of the bots",
			MaxParticipants:     intp(10),
			CurrentParticipants: intp(11),
		})
		assert.Contains(t, res.Errors, "Current participants cannot exceed maximum")
	})
}
