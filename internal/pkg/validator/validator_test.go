package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"bob@example.com", true},
		{"  alice@acme.io ", true},
		{"", false},
		{"not-an-email", false},
		{"bob@", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			require.Equal(t, tt.want, IsEmail(tt.email))
		})
	}
}

func TestStructCollectsFieldErrors(t *testing.T) {
	type request struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}

	err := Struct(request{Email: "nope"})
	require.Error(t, err)

	var fields FieldErrors
	require.True(t, errors.As(err, &fields))
	require.Len(t, fields, 2)
	require.Equal(t, "username", fields[0].Field)
	require.Equal(t, "email", fields[1].Field)

	require.NoError(t, Struct(request{Username: "bob", Email: "bob@example.com"}))
}

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "bob@example.com", NormalizeEmail("  Bob@Example.COM "))
}
