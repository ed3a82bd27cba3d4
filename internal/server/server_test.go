package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sparkfest/fest-core/internal/analytics"
	"github.com/sparkfest/fest-core/internal/registration"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	srv := New(zap.NewNop(), analytics.NewService(nil), registration.NewService(nil), nil)
	return srv.Routes()
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestTrackInteraction(t *testing.T) {
	h := newTestHandler(t)

	ts := time.Date(2026, 3, 6, 9, 30, 0, 0, time.UTC).Format(time.RFC3339)

	t.Run("view is tracked and visible in event analytics", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/interactions", map[string]any{
			"eventType":  "view",
			"eventId":    "hackathon",
			"userId":     "u1",
			"timestamp":  ts,
			"deviceType": "mobile",
		})
		assert.Equal(t, http.StatusAccepted, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/analytics/events/hackathon", nil)
		assert.Equal(t, http.StatusOK, rec.Code)

		var agg analytics.EventAggregate
		decodeBody(t, rec, &agg)
		assert.Equal(t, 1, agg.Views)
		assert.Equal(t, 1, agg.UniqueVisitors)
	})

	t.Run("unparseable timestamp is accepted but dropped", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/interactions", map[string]any{
			"eventType": "view",
			"eventId":   "hackathon",
			"userId":    "u2",
			"timestamp": "not-a-date",
		})
		assert.Equal(t, http.StatusAccepted, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/analytics/events/hackathon", nil)

		var agg analytics.EventAggregate
		decodeBody(t, rec, &agg)
		assert.Equal(t, 1, agg.Views, "dropped event must not change the aggregate")
	})

	t.Run("malformed JSON body is a 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/interactions", bytes.NewBufferString("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestRegistrationFlow(t *testing.T) {
	h := newTestHandler(t)

	register := func(email string) *httptest.ResponseRecorder {
		return doRequest(t, h, http.MethodPost, "/api/registrations", registration.Data{
			EventID:   "hackathon",
			UserName:  "Asha Rao",
			UserEmail: email,
			UserPhone: "9876543210",
		})
	}

	rec := doRequest(t, h, http.MethodPut, "/api/events/hackathon/capacity", map[string]int{"capacity": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = register("asha@example.com")
	require.Equal(t, http.StatusCreated, rec.Code)

	var first registration.Registration
	decodeBody(t, rec, &first)
	assert.Equal(t, registration.StatusConfirmed, first.Status)

	rec = register("ravi@example.com")
	require.Equal(t, http.StatusCreated, rec.Code)

	var second registration.Registration
	decodeBody(t, rec, &second)
	assert.Equal(t, registration.StatusWaitlist, second.Status)

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		rec := register("asha@example.com")
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("invalid email is a 400", func(t *testing.T) {
		rec := register("not-an-email")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("waitlist lists the second registration", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/events/hackathon/waitlist", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var waitlist []registration.Registration
		decodeBody(t, rec, &waitlist)
		require.Len(t, waitlist, 1)
		assert.Equal(t, second.ID, waitlist[0].ID)
	})

	t.Run("cancel promotes from the waitlist", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/registrations/"+first.ID+"/cancel", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(t, h, http.MethodGet, "/api/registrations/"+second.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var promoted registration.Registration
		decodeBody(t, rec, &promoted)
		assert.Equal(t, registration.StatusConfirmed, promoted.Status)
	})

	t.Run("cancelling twice conflicts", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPost, "/api/registrations/"+first.ID+"/cancel", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown registration is a 404", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/registrations/missing", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = doRequest(t, h, http.MethodPost, "/api/registrations/missing/cancel", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCatalog(t *testing.T) {
	h := newTestHandler(t)

	catalog := []map[string]any{
		{
			"id":          "hack",
			"name":        "Hackathon",
			"category":    "technical",
			"date":        "2030-03-07",
			"description": "A 24 hour build sprint.",
		},
		{
			"id":          "dance",
			"name":        "Dance Battle",
			"category":    "cultural",
			"date":        "2020-03-06",
			"description": "Crews face off on stage.",
		},
	}

	rec := doRequest(t, h, http.MethodPut, "/api/catalog", catalog)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("query filters by category", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/catalog?category=technical", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var events []map[string]any
		decodeBody(t, rec, &events)
		require.Len(t, events, 1)
		assert.Equal(t, "hack", events[0]["id"])
	})

	t.Run("upcoming and past split on today", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodGet, "/api/catalog/upcoming", nil)
		var upcoming []map[string]any
		decodeBody(t, rec, &upcoming)
		require.Len(t, upcoming, 1)
		assert.Equal(t, "hack", upcoming[0]["id"])

		rec = doRequest(t, h, http.MethodGet, "/api/catalog/past", nil)
		var past []map[string]any
		decodeBody(t, rec, &past)
		require.Len(t, past, 1)
		assert.Equal(t, "dance", past[0]["id"])
	})

	t.Run("invalid events are rejected with details", func(t *testing.T) {
		rec := doRequest(t, h, http.MethodPut, "/api/catalog", []map[string]any{
			{"id": "bad", "name": "", "category": "technical", "date": "2030-03-07", "description": "Long enough text."},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Details map[string][]string `json:"details"`
		}
		decodeBody(t, rec, &body)
		assert.Contains(t, body.Details["0"], "Event name is required")
	})
}

func TestValidateForm(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(t, h, http.MethodPost, "/api/validation/registration", map[string]any{
		"name":    "A",
		"email":   "asha@example.com",
		"phone":   "9876543210",
		"college": "NITK",
		"events":  []string{"hack"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		IsValid bool              `json:"isValid"`
		Errors  map[string]string `json:"errors"`
	}
	decodeBody(t, rec, &result)
	assert.False(t, result.IsValid)
	assert.NotEmpty(t, result.Errors["name"])
	assert.Empty(t, result.Errors["email"])
}
