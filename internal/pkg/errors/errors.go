package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

const (
	ErrCodeInvalidInput      = "INVALID_INPUT"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInviteInvalid     = "INVITE_INVALID"
	ErrCodeRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// Kind classifies domain failures. Anything that is not an *Error is an internal failure.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindAccessDenied
	KindValidationFailed
	KindInviteInvalid
	KindDuplicateMembership
	KindUnauthenticated
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindAccessDenied:
		return "access_denied"
	case KindValidationFailed:
		return "validation_failed"
	case KindInviteInvalid:
		return "invite_invalid"
	case KindDuplicateMembership:
		return "duplicate_membership"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindConflict:
		return "conflict"
	}
	return "unknown"
}

// Error is a domain failure carrying a message that is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on Kind so callers can test against the sentinel values below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// Sentinels for errors.Is checks; they carry no message and match any error of the kind.
var (
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrAccessDenied        = &Error{Kind: KindAccessDenied}
	ErrValidationFailed    = &Error{Kind: KindValidationFailed}
	ErrInviteInvalid       = &Error{Kind: KindInviteInvalid}
	ErrDuplicateMembership = &Error{Kind: KindDuplicateMembership}
	ErrUnauthenticated     = &Error{Kind: KindUnauthenticated}
	ErrConflict            = &Error{Kind: KindConflict}
)

const AuthenticationRequired = "Authentication required"

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func AccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

// PermissionDenied is an AccessDenied raised by a role gate rather than a tenancy check.
func PermissionDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidationFailed, Message: message}
}

func InviteInvalid(message string) *Error {
	return &Error{Kind: KindInviteInvalid, Message: message}
}

func DuplicateMembership(message string) *Error {
	return &Error{Kind: KindDuplicateMembership, Message: message}
}

func Unauthenticated() *Error {
	return &Error{Kind: KindUnauthenticated, Message: AuthenticationRequired}
}

// InvalidCredentials is an Unauthenticated failure from a login attempt.
func InvalidCredentials() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "Invalid credentials"}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// AsDomain unwraps err to a domain *Error, if it is one.
func AsDomain(err error) (*Error, bool) {
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsKind reports whether err is a domain error of kind k.
func IsKind(err error, k Kind) bool {
	domainErr, ok := AsDomain(err)
	return ok && domainErr.Kind == k
}

func WriteError(w http.ResponseWriter, status int, code, message string, details interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
		Details: details,
	})
}

// Write renders err, mapping domain kinds to HTTP statuses. Internal failures are logged and
// reported without detail.
func Write(w http.ResponseWriter, err error) {
	domainErr, ok := AsDomain(err)
	if !ok {
		log.Error().Err(err).Msg("request failed")
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
		return
	}

	switch domainErr.Kind {
	case KindNotFound:
		WriteError(w, http.StatusNotFound, ErrCodeNotFound, domainErr.Message, nil)
	case KindAccessDenied:
		WriteError(w, http.StatusForbidden, ErrCodeForbidden, domainErr.Message, nil)
	case KindValidationFailed:
		WriteError(w, http.StatusBadRequest, ErrCodeInvalidInput, domainErr.Message, nil)
	case KindInviteInvalid:
		WriteError(w, http.StatusBadRequest, ErrCodeInviteInvalid, domainErr.Message, nil)
	case KindDuplicateMembership, KindConflict:
		WriteError(w, http.StatusConflict, ErrCodeConflict, domainErr.Message, nil)
	case KindUnauthenticated:
		WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, domainErr.Message, nil)
	default:
		WriteError(w, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil)
	}
}
