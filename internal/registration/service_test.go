package registration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService gives every registration a strictly increasing
// registration date so waitlist ordering is deterministic.
func newTestService() *Service {
	s := NewService(nil)
	base := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func payload(eventID, email string) Data {
	return Data{
		EventID:   eventID,
		UserName:  "Asha Rao",
		UserEmail: email,
		UserPhone: "9876543210",
	}
}

func TestRegister(t *testing.T) {
	t.Run("creates a confirmed registration with pending payment", func(t *testing.T) {
		s := newTestService()
		res := s.Register(payload("evt1", "asha@example.com"))

		require.True(t, res.Success)
		require.NotNil(t, res.Registration)
		assert.NotEmpty(t, res.Registration.ID)
		assert.Equal(t, StatusConfirmed, res.Registration.Status)
		assert.Equal(t, PaymentPending, res.Registration.PaymentStatus)
		assert.Equal(t, "asha@example.com", res.Registration.UserID)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		s := newTestService()
		data := payload("evt1", "not-an-email")
		res := s.Register(data)

		assert.False(t, res.Success)
		assert.Equal(t, "Invalid email address", res.Error)
	})

	t.Run("rejects invalid phone", func(t *testing.T) {
		s := newTestService()
		data := payload("evt1", "asha@example.com")
		data.UserPhone = "12345"
		res := s.Register(data)

		assert.False(t, res.Success)
		assert.Equal(t, "Invalid phone number", res.Error)
	})

	t.Run("rejects duplicate registration for the same event", func(t *testing.T) {
		s := newTestService()
		require.True(t, s.Register(payload("evt1", "asha@example.com")).Success)

		res := s.Register(payload("evt1", "asha@example.com"))
		assert.False(t, res.Success)
		assert.Equal(t, "Already registered for this event", res.Error)

		// A different event is fine.
		assert.True(t, s.Register(payload("evt2", "asha@example.com")).Success)
	})

	t.Run("allows re-registration after cancellation", func(t *testing.T) {
		s := newTestService()
		first := s.Register(payload("evt1", "asha@example.com"))
		require.True(t, first.Success)
		require.True(t, s.Cancel(first.Registration.ID).Success)

		second := s.Register(payload("evt1", "asha@example.com"))
		assert.True(t, second.Success)
		assert.NotEqual(t, first.Registration.ID, second.Registration.ID)
	})

	t.Run("keeps team members", func(t *testing.T) {
		s := newTestService()
		data := payload("evt1", "asha@example.com")
		data.TeamMembers = []string{"Ravi", "Meena"}
		res := s.Register(data)

		require.True(t, res.Success)
		assert.Equal(t, []string{"Ravi", "Meena"}, res.Registration.TeamMembers)
	})
}

func TestCapacityAndWaitlist(t *testing.T) {
	t.Run("registrations beyond capacity are waitlisted", func(t *testing.T) {
		s := newTestService()
		s.SetEventCapacity("evt1", 2)

		first := s.Register(payload("evt1", "a@example.com"))
		second := s.Register(payload("evt1", "b@example.com"))
		third := s.Register(payload("evt1", "c@example.com"))

		assert.Equal(t, StatusConfirmed, first.Registration.Status)
		assert.Equal(t, StatusConfirmed, second.Registration.Status)
		assert.Equal(t, StatusWaitlist, third.Registration.Status)

		waitlist := s.GetWaitlist("evt1")
		require.Len(t, waitlist, 1)
		assert.Equal(t, third.Registration.ID, waitlist[0].ID)
	})

	t.Run("no capacity means always confirmed", func(t *testing.T) {
		s := newTestService()
		for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
			res := s.Register(payload("evt1", email))
			assert.Equal(t, StatusConfirmed, res.Registration.Status)
		}
	})

	t.Run("cancellation promotes the oldest waitlisted entry", func(t *testing.T) {
		s := newTestService()
		s.SetEventCapacity("evt1", 2)

		first := s.Register(payload("evt1", "a@example.com"))
		s.Register(payload("evt1", "b@example.com"))
		older := s.Register(payload("evt1", "c@example.com"))
		newer := s.Register(payload("evt1", "d@example.com"))
		require.Equal(t, StatusWaitlist, older.Registration.Status)
		require.Equal(t, StatusWaitlist, newer.Registration.Status)

		require.True(t, s.Cancel(first.Registration.ID).Success)

		assert.Equal(t, StatusConfirmed, older.Registration.Status)
		assert.Equal(t, StatusWaitlist, newer.Registration.Status)
	})

	t.Run("at most one promotion per cancellation", func(t *testing.T) {
		s := newTestService()
		s.SetEventCapacity("evt1", 1)

		first := s.Register(payload("evt1", "a@example.com"))
		w1 := s.Register(payload("evt1", "b@example.com"))
		w2 := s.Register(payload("evt1", "c@example.com"))

		require.True(t, s.Cancel(first.Registration.ID).Success)
		assert.Equal(t, StatusConfirmed, w1.Registration.Status)
		assert.Equal(t, StatusWaitlist, w2.Registration.Status)
	})

	t.Run("confirmed count never exceeds capacity", func(t *testing.T) {
		s := newTestService()
		s.SetEventCapacity("evt1", 2)
		emails := []string{"a@", "b@", "c@", "d@", "e@"}
		for _, prefix := range emails {
			s.Register(payload("evt1", prefix+"example.com"))
		}

		assert.Equal(t, 2, s.GetStats("evt1").Confirmed)
		assert.Equal(t, 3, s.GetStats("evt1").Waitlist)
	})

	t.Run("capacity change does not re-evaluate existing registrations", func(t *testing.T) {
		s := newTestService()
		s.SetEventCapacity("evt1", 1)
		s.Register(payload("evt1", "a@example.com"))
		waitlisted := s.Register(payload("evt1", "b@example.com"))
		require.Equal(t, StatusWaitlist, waitlisted.Registration.Status)

		s.SetEventCapacity("evt1", 5)
		assert.Equal(t, StatusWaitlist, waitlisted.Registration.Status)
	})
}

func TestCancel(t *testing.T) {
	s := newTestService()

	t.Run("unknown id", func(t *testing.T) {
		res := s.Cancel("nope")
		assert.False(t, res.Success)
		assert.Equal(t, "Registration not found", res.Error)
	})

	t.Run("double cancel fails", func(t *testing.T) {
		reg := s.Register(payload("evt1", "asha@example.com"))
		require.True(t, s.Cancel(reg.Registration.ID).Success)

		res := s.Cancel(reg.Registration.ID)
		assert.False(t, res.Success)
		assert.Equal(t, "Registration already cancelled", res.Error)
	})

	t.Run("cancelled records are kept, not deleted", func(t *testing.T) {
		reg := s.Register(payload("evt2", "asha@example.com"))
		require.True(t, s.Cancel(reg.Registration.ID).Success)

		stored := s.GetRegistration(reg.Registration.ID)
		require.NotNil(t, stored)
		assert.Equal(t, StatusCancelled, stored.Status)
	})
}

func TestUpdatePaymentStatus(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		s := newTestService()
		res := s.UpdatePaymentStatus("nope", PaymentCompleted)
		assert.False(t, res.Success)
		assert.Equal(t, "Registration not found", res.Error)
	})

	t.Run("completed payment confirms a pending registration", func(t *testing.T) {
		s := newTestService()
		reg := s.Register(payload("evt1", "asha@example.com")).Registration
		reg.Status = StatusPending

		require.True(t, s.UpdatePaymentStatus(reg.ID, PaymentCompleted).Success)
		assert.Equal(t, PaymentCompleted, reg.PaymentStatus)
		assert.Equal(t, StatusConfirmed, reg.Status)
	})

	t.Run("failed payment leaves status untouched", func(t *testing.T) {
		s := newTestService()
		reg := s.Register(payload("evt1", "asha@example.com")).Registration
		reg.Status = StatusPending

		require.True(t, s.UpdatePaymentStatus(reg.ID, PaymentFailed).Success)
		assert.Equal(t, PaymentFailed, reg.PaymentStatus)
		assert.Equal(t, StatusPending, reg.Status)
	})

	t.Run("completed payment does not touch waitlisted entries", func(t *testing.T) {
		s := newTestService()
		s.SetEventCapacity("evt1", 0)
		reg := s.Register(payload("evt1", "asha@example.com")).Registration
		require.Equal(t, StatusWaitlist, reg.Status)

		require.True(t, s.UpdatePaymentStatus(reg.ID, PaymentCompleted).Success)
		assert.Equal(t, StatusWaitlist, reg.Status)
	})
}

func TestQueries(t *testing.T) {
	s := newTestService()
	a := s.Register(payload("evt1", "a@example.com")).Registration
	b := s.Register(payload("evt1", "b@example.com")).Registration
	s.Register(payload("evt2", "a@example.com"))
	require.True(t, s.Cancel(b.ID).Success)

	t.Run("event registrations keep original order", func(t *testing.T) {
		regs := s.GetEventRegistrations("evt1")
		require.Len(t, regs, 2)
		assert.Equal(t, a.ID, regs[0].ID)
		assert.Equal(t, b.ID, regs[1].ID)
	})

	t.Run("user registrations span events", func(t *testing.T) {
		assert.Len(t, s.GetUserRegistrations("a@example.com"), 2)
	})

	t.Run("registration count excludes cancelled", func(t *testing.T) {
		assert.Equal(t, 1, s.GetEventRegistrationCount("evt1"))
	})

	t.Run("is-registered reflects active slots only", func(t *testing.T) {
		assert.True(t, s.IsUserRegistered("evt1", "a@example.com"))
		assert.False(t, s.IsUserRegistered("evt1", "b@example.com"))
		assert.False(t, s.IsUserRegistered("evt3", "a@example.com"))
	})

	t.Run("stats count each status", func(t *testing.T) {
		assert.Equal(t, Stats{Total: 2, Confirmed: 1, Cancelled: 1}, s.GetStats("evt1"))
	})

	t.Run("clear resets everything", func(t *testing.T) {
		s.Clear()
		assert.Nil(t, s.GetRegistration(a.ID))
		assert.Empty(t, s.GetEventRegistrations("evt1"))
		assert.False(t, s.IsUserRegistered("evt1", "a@example.com"))
	})
}

func TestEndToEndCapacityScenario(t *testing.T) {
	s := newTestService()
	s.SetEventCapacity("evt1", 2)

	first := s.Register(payload("evt1", "one@example.com"))
	second := s.Register(payload("evt1", "two@example.com"))
	third := s.Register(payload("evt1", "three@example.com"))

	require.True(t, first.Success)
	require.True(t, second.Success)
	require.True(t, third.Success)
	require.Equal(t, StatusWaitlist, third.Registration.Status)

	require.True(t, s.Cancel(first.Registration.ID).Success)
	assert.Equal(t, StatusConfirmed, third.Registration.Status)
}
