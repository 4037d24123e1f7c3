package service

import "errors"

// Kind classifies flow failures.  The HTTP layer maps kinds to status codes.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConfiguration
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConfiguration:
		return "configuration"
	default:
		return "unexpected"
	}
}

// Error is a flow failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

var (
	ErrCreateUser         = &Error{Kind: KindValidation, Message: "Error creating user"}
	ErrInvalidCredentials = &Error{Kind: KindAuthentication, Message: "Invalid credentials"}
	ErrNotLoggedIn        = &Error{Kind: KindAuthentication, Message: "You are not logged in. Please log in to get access."}
	ErrInvalidToken       = &Error{Kind: KindAuthentication, Message: "Invalid token. Please log in again."}
	ErrUserGone           = &Error{Kind: KindAuthentication, Message: "The user belonging to this token no longer exists."}
	ErrForbidden          = &Error{Kind: KindAuthorization, Message: "You do not have permission to perform this action"}
	ErrUserNotFound       = &Error{Kind: KindNotFound, Message: "User not found"}
	ErrMisconfigured      = &Error{Kind: KindConfiguration, Message: "Server configuration error"}
	ErrLoginFailed        = &Error{Kind: KindUnexpected, Message: "An error occurred during login"}
	ErrAuthenticateFailed = &Error{Kind: KindUnexpected, Message: "An error occurred while authenticating."}
)

// KindOf returns the kind of err; errors that are not *Error are unexpected.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}
