package invites

import (
	"context"

	"github.com/skip2/go-qrcode"

	apperrors "projecthub/internal/pkg/errors"
	"projecthub/internal/platform/auth"
)

const defaultQRSize = 512

// GenerateQRCode renders content as a PNG of size x size pixels.
func GenerateQRCode(content string, size int) ([]byte, error) {
	if size == 0 {
		size = defaultQRSize
	}

	if size < 128 || size > 2048 {
		return nil, apperrors.Validation("Invalid size: must be between 128 and 2048")
	}

	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, err
	}

	return qr.PNG(size)
}

// QRCode renders the join link of an invite for an owner of its organization.
func (l *Ledger) QRCode(ctx context.Context, actor auth.Identity, code string, size int) ([]byte, error) {
	invite, err := l.Get(ctx, actor, code)
	if err != nil {
		return nil, err
	}
	return GenerateQRCode(l.JoinURL(invite.Code), size)
}
