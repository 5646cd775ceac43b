package errs

import (
	"errors"
	"fmt"
)

// Application error codes. Every error that leaves the crud or feed layer is either
// an *Error carrying one of these codes, or an unexpected error treated as EINTERNAL.
const (
	// EINVALID is used for malformed, missing or duplicate input.
	EINVALID = "invalid"
	// EUNAUTHENTICATED is used when credentials or tokens presented to the auth
	// endpoints do not check out.
	EUNAUTHENTICATED = "unauthenticated"
	// EUNAUTHORIZED is used when a protected operation is attempted without an identity.
	EUNAUTHORIZED = "unauthorized"
	// ENOTFOUND is used when a referenced record does not exist.
	ENOTFOUND = "not_found"
	// ECONFLICT is used when a write collides with an existing record.
	ECONFLICT = "conflict"
	// EMETHODNOTALLOWED is used when a route exists but not for the request's method.
	EMETHODNOTALLOWED = "method_not_allowed"
	// ETIMEOUT is used when the database did not answer within the configured deadline.
	ETIMEOUT = "timeout"
	// EUNAVAILABLE is used when the database is known to be failing.
	EUNAVAILABLE = "unavailable"
	// EINTERNAL is used for anything else. Its message is never shown to clients.
	EINTERNAL = "internal"
)

// Error represents an application-specific error. Its Message is meant to be read
// by the end user, so it must never contain database or driver details.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("feed error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and formatted message.
func Errorf(code string, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Present converts any error into the *Error a client is allowed to see.
// Internal errors lose their original text.
func Present(err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: ErrorCode(err), Message: ErrorMessage(err)}
}

// Messages shared between the crud and feed layers, so that both facades
// produce the exact same text.
var (
	InvalidCredentials = &Error{Code: EUNAUTHENTICATED, Message: "Invalid credentials"}
	InvalidToken       = &Error{Code: EUNAUTHENTICATED, Message: "Token is invalid or expired"}
	AuthRequired       = &Error{Code: EUNAUTHORIZED, Message: "Authentication required"}
	UsernameTaken      = &Error{Code: EINVALID, Message: "Username already exists"}
	AlreadyLiked       = &Error{Code: ECONFLICT, Message: "Already liked"}
	PostNotFound       = &Error{Code: ENOTFOUND, Message: "Post not found"}
	UserIDInvalid      = &Error{Code: EINVALID, Message: "A valid user ID is required"}
	IDInvalid          = &Error{Code: EINVALID, Message: "Invalid Id format"}
)
