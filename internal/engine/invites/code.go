package invites

import (
	"crypto/rand"
	"encoding/base64"
)

// codeBytes gives 256 bits of entropy; the encoded code is 43 URL-safe characters.
const codeBytes = 32

func generateCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
