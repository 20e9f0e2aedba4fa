package auth

import "context"

// Identity is the caller as established by the transport. The zero value is anonymous.
type Identity struct {
	UserID   string
	Username string
	Email    string
}

func (i Identity) IsAuthenticated() bool {
	return i.UserID != ""
}

// DisplayName is used where a human-readable author is needed.
func (i Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return "Anonymous"
}

func IdentityFromClaims(c *Claims) Identity {
	if c == nil {
		return Identity{}
	}
	return Identity{UserID: c.UserID, Username: c.Username, Email: c.Email}
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// FromContext returns the identity stored by the auth middleware, or an anonymous one.
func FromContext(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}
