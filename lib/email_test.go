package lib

import (
	"errors"
	"testing"

	"lumino_server/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"typical address", "joanne@example.com", "jo***e@example.com"},
		{"long local part", "student.name@school.edu", "st***e@school.edu"},
		{"short local part", "jo@example.com", "j***@example.com"},
		{"three char local part", "abc@example.com", "a***@example.com"},
		{"single char local part", "a@example.com", "a***@example.com"},
		{"no at sign", "not-an-email", "***"},
		{"empty string", "", "***"},
		{"leading at sign", "@example.com", "***"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskEmail(tt.email))
		})
	}
}

func validPayload() *structs.EmailPayload {
	return &structs.EmailPayload{
		To:      structs.AddressList{{Email: "joanne@example.com", Name: "Joanne"}},
		From:    structs.AddressList{{Email: "assignments@luminolearning.com", Name: "Lumino Learning"}},
		Subject: "New assignment: Fraction Frenzy",
		Html:    "<p>Hi Joanne</p>",
	}
}

func TestValidateEmailPayload(t *testing.T) {
	t.Run("accepts a complete payload", func(t *testing.T) {
		require.NoError(t, ValidateEmailPayload(validPayload()))
	})

	t.Run("rejects nil payload", func(t *testing.T) {
		err := ValidateEmailPayload(nil)
		assert.ErrorIs(t, err, ErrInvalidPayload)
	})

	t.Run("rejects missing recipients", func(t *testing.T) {
		p := validPayload()
		p.To = nil
		assert.ErrorIs(t, ValidateEmailPayload(p), ErrInvalidPayload)
	})

	t.Run("rejects missing sender", func(t *testing.T) {
		p := validPayload()
		p.From = nil
		assert.ErrorIs(t, ValidateEmailPayload(p), ErrInvalidPayload)
	})

	t.Run("rejects malformed recipient address", func(t *testing.T) {
		p := validPayload()
		p.To = structs.AddressList{{Email: "not-an-email"}}
		assert.ErrorIs(t, ValidateEmailPayload(p), ErrInvalidPayload)
	})

	t.Run("rejects empty recipient address after normalization", func(t *testing.T) {
		p := validPayload()
		p.To = structs.AddressList{{Email: "   "}}
		p.Normalize()
		assert.ErrorIs(t, ValidateEmailPayload(p), ErrInvalidPayload)
	})

	t.Run("rejects empty subject", func(t *testing.T) {
		p := validPayload()
		p.Subject = "  "
		assert.ErrorIs(t, ValidateEmailPayload(p), ErrInvalidPayload)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		p := validPayload()
		p.Html = ""
		assert.ErrorIs(t, ValidateEmailPayload(p), ErrInvalidPayload)
	})

	t.Run("error message never contains the raw address", func(t *testing.T) {
		p := validPayload()
		p.To = structs.AddressList{{Email: "secret-student.example.com"}}
		err := ValidateEmailPayload(p)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "secret-student.example.com")
	})
}

func TestErrorsAreDistinct(t *testing.T) {
	assert.False(t, errors.Is(ErrInvalidPayload, ErrProviderFailure))
	assert.False(t, errors.Is(ErrExpiredToken, ErrTokenUsed))
}
