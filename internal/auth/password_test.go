package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, CheckPassword(hash, "correct horse battery"))
	assert.ErrorIs(t, CheckPassword(hash, "wrong horse"), ErrPasswordMismatch)

	_, err = HashPassword("")
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{email: "leader@ui.ac.id", valid: true},
		{email: "first.last+tag@example.co", valid: true},
		{email: "no-at-sign.example.com", valid: false},
		{email: "user@localhost", valid: false},
		{email: "user@domain.c", valid: false},
		{email: "with space@example.com", valid: false},
		{email: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidEmail(tt.email))
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "leader@ui.ac.id", NormalizeEmail("  Leader@UI.ac.id "))
}
