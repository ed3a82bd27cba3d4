package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	t.Run("accepts well-formed addresses", func(t *testing.T) {
		for _, email := range []string{
			"user@example.com",
			"first.last@college.edu",
			"  padded@example.org  ",
		} {
			assert.True(t, ValidateEmail(email).IsValid, email)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		res := ValidateEmail("   ")
		assert.False(t, res.IsValid)
		assert.Equal(t, "Email is required", res.Error)
	})

	t.Run("rejects malformed addresses", func(t *testing.T) {
		for _, email := range []string{
			"user @example.com",
			"userexample.com",
			"user@examplecom",
			"@example.com",
		} {
			res := ValidateEmail(email)
			assert.False(t, res.IsValid, email)
			assert.Equal(t, "Invalid email format", res.Error)
		}
	})
}

func TestValidatePhone(t *testing.T) {
	t.Run("accepts Indian mobile numbers", func(t *testing.T) {
		for _, phone := range []string{
			"9876543210",
			"+91 98765 43210",
			"91-9876543210",
			"(987) 654-3210",
			"6123456789",
		} {
			assert.True(t, ValidatePhone(phone).IsValid, phone)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		res := ValidatePhone("")
		assert.False(t, res.IsValid)
		assert.Equal(t, "Phone number is required", res.Error)
	})

	t.Run("rejects invalid numbers", func(t *testing.T) {
		for _, phone := range []string{
			"5123456789",  // leading digit outside 6-9
			"98765",       // too short
			"98765432101", // 11 digits without country code
			"abcdefghij",
		} {
			res := ValidatePhone(phone)
			assert.False(t, res.IsValid, phone)
			assert.Equal(t, "Invalid phone number format", res.Error)
		}
	})

	t.Run("only strips 91 prefix from 12-digit numbers", func(t *testing.T) {
		// 10 digits starting with 91 would be an invalid mobile anyway.
		res := ValidatePhone("9198765432")
		assert.True(t, res.IsValid)
	})
}

func TestValidateName(t *testing.T) {
	t.Run("accepts names with allowed punctuation", func(t *testing.T) {
		for _, name := range []string{"Asha Rao", "O'Neil", "Jean-Luc", "Dr. Strange"} {
			assert.True(t, ValidateName(name, "").IsValid, name)
		}
	})

	t.Run("uses the supplied field name in errors", func(t *testing.T) {
		res := ValidateName("", "Team member")
		assert.Equal(t, "Team member is required", res.Error)

		res = ValidateName("A", "Team member")
		assert.Equal(t, "Team member must be at least 2 characters", res.Error)
	})

	t.Run("rejects digits and symbols", func(t *testing.T) {
		res := ValidateName("R2D2", "")
		assert.False(t, res.IsValid)
		assert.Equal(t, "Name contains invalid characters", res.Error)
	})
}

func TestValidateCollege(t *testing.T) {
	assert.True(t, ValidateCollege("NIT Trichy").IsValid)

	res := ValidateCollege("  ")
	assert.Equal(t, "College name is required", res.Error)

	res = ValidateCollege("AB")
	assert.Equal(t, "College name must be at least 3 characters", res.Error)
}

func TestValidateEventSelection(t *testing.T) {
	assert.True(t, ValidateEventSelection([]string{"evt1", "evt2"}).IsValid)

	res := ValidateEventSelection(nil)
	assert.Equal(t, "Please select at least one event", res.Error)

	res = ValidateEventSelection([]string{"evt1", "  "})
	assert.Equal(t, "Selected events contain invalid entries", res.Error)

	res = ValidateEventSelection([]string{"a", "b", "c", "d", "e", "f"})
	assert.Equal(t, "You can select a maximum of 5 events", res.Error)
}

func TestValidateRegistrationForm(t *testing.T) {
	t.Run("valid form has no errors", func(t *testing.T) {
		res := ValidateRegistrationForm(FormData{
			Name:    "Asha Rao",
			Email:   "asha@example.com",
			Phone:   "9876543210",
			College: "IIT Madras",
			Events:  []string{"evt1"},
		})
		assert.True(t, res.IsValid)
		assert.Equal(t, FormErrors{}, res.Errors)
	})

	t.Run("collects every field error", func(t *testing.T) {
		res := ValidateRegistrationForm(FormData{
			Name:    "",
			Email:   "not-an-email",
			Phone:   "12345",
			College: "X",
			Events:  nil,
		})
		assert.False(t, res.IsValid)
		assert.Equal(t, "Name is required", res.Errors.Name)
		assert.Equal(t, "Invalid email format", res.Errors.Email)
		assert.Equal(t, "Invalid phone number format", res.Errors.Phone)
		assert.Equal(t, "College name must be at least 3 characters", res.Errors.College)
		assert.Equal(t, "Please select at least one event", res.Errors.Events)
	})
}
