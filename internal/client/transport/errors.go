package transport

import (
	"errors"
	"fmt"
)

// Kind classifies a failed call.
type Kind int

const (
	// KindNetwork means no response reached the client.
	KindNetwork Kind = iota + 1
	// KindAuth means the credential was missing or rejected.
	KindAuth
	// KindApplication means the server answered with a business error.
	KindApplication
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindApplication:
		return "application"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrNetwork     = errors.New("network error")
	ErrAuth        = errors.New("authentication required")
	ErrApplication = errors.New("request failed")
)

// Error is the failure returned by Client.Send.
type Error struct {
	Kind Kind
	// Status is the HTTP status, zero when no response arrived.
	Status int
	// Code is the envelope code, zero when the body was not an envelope.
	Code int
	// Message is user-facing.
	Message string
	// Redirect is the login location to navigate to after a session teardown.
	Redirect string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAuth:
		return e.Kind == KindAuth
	case ErrApplication:
		return e.Kind == KindApplication
	}
	return false
}

// RedirectOf returns the login location carried by err, if any.
func RedirectOf(err error) (string, bool) {
	var te *Error
	if errors.As(err, &te) && te.Redirect != "" {
		return te.Redirect, true
	}
	return "", false
}
