// Package apperr defines the closed set of error kinds surfaced by tool calls.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch without matching message text.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	KindConfiguration
	KindValidation
	KindUpstream
	KindTransport
	KindUnknownTool
)

// Sentinels usable with errors.Is; an *Error matches the sentinel of its kind.
var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrUpstream      = errors.New("upstream error")
	ErrTransport     = errors.New("transport error")
	ErrUnknownTool   = errors.New("unknown tool")
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	case KindTransport:
		return "transport"
	case KindUnknownTool:
		return "unknown_tool"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindConfiguration:
		return ErrConfiguration
	case KindValidation:
		return ErrValidation
	case KindUpstream:
		return ErrUpstream
	case KindTransport:
		return ErrTransport
	case KindUnknownTool:
		return ErrUnknownTool
	default:
		return nil
	}
}

// Error is a classified error. Status and Body are set for upstream errors only.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	switch {
	case msg == "" && e.Err != nil:
		msg = e.Err.Error()
	case msg != "" && e.Err != nil:
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// New returns an error of the given kind with a plain message.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Configuration reports missing or malformed configuration.
func Configuration(op, message string) *Error {
	return New(KindConfiguration, op, message)
}

// Validation wraps an argument validation failure.
func Validation(op string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: "invalid arguments", Err: err}
}

// Upstream reports a non-2xx response. The message carries the status code and raw body.
func Upstream(op string, status int, body string) *Error {
	return &Error{
		Kind:    KindUpstream,
		Op:      op,
		Message: fmt.Sprintf("blinko returned status %d: %s", status, body),
		Status:  status,
		Body:    body,
	}
}

// Transport wraps a network-level failure.
func Transport(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Message: "request failed", Err: err}
}

// UnknownTool reports an invocation of a tool name that is not in the catalog.
func UnknownTool(name string) *Error {
	return &Error{Kind: KindUnknownTool, Message: fmt.Sprintf("unknown tool: %s", name)}
}
