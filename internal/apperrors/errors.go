package apperrors

import (
	"errors"
	"fmt"
)

// Kind is the stable status category an error is reported under.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindForbidden
	KindValidation
	KindUnauthorized
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error is the application error carried from services to the HTTP boundary.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code, so a wrapped
// copy of a sentinel still matches it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// New creates an application error.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches a cause to an application error.
func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

// Internal wraps an unexpected failure (database, network) under KindInternal.
func Internal(message string, err error) *Error {
	return Wrap(KindInternal, "internal_error", message, err)
}

// Validation builds a bad-request error with a caller supplied message.
func Validation(message string) *Error {
	return New(KindValidation, "validation_error", message)
}

// KindOf returns the category of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

var (
	ErrUserNotFound         = New(KindNotFound, "user_not_found", "User not found.")
	ErrPostNotFound         = New(KindNotFound, "post_not_found", "Post not found.")
	ErrCommentNotFound      = New(KindNotFound, "comment_not_found", "Comment not found.")
	ErrNotificationNotFound = New(KindNotFound, "notification_not_found", "Notification not found.")

	ErrAlreadyFollowing = New(KindConflict, "already_following", "You are already following this user.")
	ErrNotFollowing     = New(KindConflict, "not_following", "You are not following this user.")
	ErrAlreadyLiked     = New(KindConflict, "already_liked", "You have already liked this post.")
	ErrNotLiked         = New(KindConflict, "not_liked", "You have not liked this post.")
	ErrUsernameTaken    = New(KindConflict, "username_taken", "A user with that username already exists.")
	ErrEmailTaken       = New(KindConflict, "email_taken", "A user with that email already exists.")

	ErrSelfFollow    = New(KindValidation, "self_follow", "You cannot follow yourself.")
	ErrInvalidTarget = New(KindValidation, "invalid_target", "Notification target must be a post or a comment.")

	ErrForbidden          = New(KindForbidden, "forbidden", "You do not have permission to perform this action.")
	ErrInvalidCredentials = New(KindUnauthorized, "invalid_credentials", "Unable to log in with provided credentials.")
	ErrUnauthenticated    = New(KindUnauthorized, "not_authenticated", "Authentication credentials were not provided.")

	ErrFirebaseDisabled = New(KindUnavailable, "firebase_disabled", "Firebase login is not configured.")
)
