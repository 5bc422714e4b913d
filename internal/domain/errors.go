package domain

import "errors"

// Kind groups errors by how the outside world should see them.
type Kind int

const (
	KindInternal Kind = iota
	KindAuthentication
	KindAuthorization
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	}
	return "internal"
}

// Error is the typed result every core failure is reported as.
// Two errors match under errors.Is when their codes match and, if the
// target names a field, the fields match too.
type Error struct {
	Kind  Kind
	Code  string
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code && (t.Field == "" || t.Field == e.Field)
}

// Wrap attaches a cause to a sentinel without losing its identity.
func Wrap(sentinel *Error, cause error) error {
	cp := *sentinel
	cp.Err = cause
	return &cp
}

var (
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Code: "invalid_credentials", Msg: "Incorrect username or password"}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Code: "invalid_token", Msg: "invalid token"}
	ErrTokenExpired       = &Error{Kind: KindAuthentication, Code: "token_expired", Msg: "token expired"}
	ErrUserNotFound       = &Error{Kind: KindAuthentication, Code: "subject_not_found", Msg: "token subject does not resolve to an active user"}

	ErrProtectedRole = &Error{Kind: KindAuthorization, Code: "protected_role", Msg: "Superadmin cannot be deleted via API."}
	ErrForbidden     = &Error{Kind: KindAuthorization, Code: "forbidden", Msg: "Forbidden."}

	ErrEmptyUpdate    = &Error{Kind: KindValidation, Code: "empty_update", Msg: "At least one parameter for user update info should be provided"}
	ErrMalformedEmail = &Error{Kind: KindValidation, Code: "malformed_email", Field: "email", Msg: "value is not a valid email address"}
	ErrInvalidID      = &Error{Kind: KindValidation, Code: "invalid_id", Field: "user_id", Msg: "value is not a valid uuid"}
	ErrInvalidInput   = &Error{Kind: KindValidation, Code: "invalid_input", Msg: "invalid input"}

	ErrNotFound       = &Error{Kind: KindNotFound, Code: "not_found", Msg: "user not found"}
	ErrDuplicateEmail = &Error{Kind: KindConflict, Code: "duplicate_email", Field: "email", Msg: "email already registered"}

	ErrStoreUnavailable = &Error{Kind: KindUnavailable, Code: "store_unavailable", Msg: "store unavailable"}
)

// NonAlphabetic reports a name-like field that is empty or holds non-letters.
func NonAlphabetic(field string) *Error {
	msg := "Name should contains only letters."
	if field == "surname" {
		msg = "Surname should contains only letters."
	}
	return &Error{Kind: KindValidation, Code: "non_alphabetic", Field: field, Msg: msg}
}

// KindOf classifies err; combined errors take the kind of their first member.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
