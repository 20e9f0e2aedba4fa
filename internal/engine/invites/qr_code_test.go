package invites

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "projecthub/internal/pkg/errors"
)

func TestGenerateQRCode(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"default size", 0, false},
		{"valid size", 256, false},
		{"too small", 100, true},
		{"too large", 5000, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateQRCode("http://localhost:3000/join?code=abc", tt.size)
			if tt.wantErr {
				require.ErrorIs(t, err, apperrors.ErrValidationFailed)
				return
			}
			require.NoError(t, err)
			require.True(t, bytes.HasPrefix(got, []byte("\x89PNG")))
		})
	}
}

func TestQRCodeIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	result, err := f.ledger.Issue(ctx, f.owner, "org_acme", "qr@example.com")
	require.NoError(t, err)

	png, err := f.ledger.QRCode(ctx, f.owner, result.Invite.Code, 0)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	_, err = f.ledger.QRCode(ctx, f.user(t, "stranger"), result.Invite.Code, 0)
	require.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = f.ledger.QRCode(ctx, f.owner, "missing", 0)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
