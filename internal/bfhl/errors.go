package bfhl

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Kind classifies a failed submission.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindHTTP
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindHTTP:
		return "HttpError"
	case KindTransport:
		return "TransportError"
	default:
		return "UnexpectedError"
	}
}

// TransportKind narrows a KindTransport error.
type TransportKind int

const (
	TransportOther TransportKind = iota
	TransportUnreachable
	TransportTimeout
)

func (k TransportKind) String() string {
	switch k {
	case TransportUnreachable:
		return "unreachable"
	case TransportTimeout:
		return "timeout"
	default:
		return "other"
	}
}

const (
	MsgEmptyInput = "Input data cannot be empty"
	MsgUnexpected = "An unexpected error occurred"
)

// Error is the failure surfaced to the user. Error() is the display message.
type Error struct {
	Kind       Kind
	Transport  TransportKind
	StatusCode int
	Endpoint   string
	Msg        string
	Err        error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return MsgUnexpected
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NewHTTPError uses the server supplied message when there is one.
func NewHTTPError(status int, serverMsg string) *Error {
	msg := serverMsg
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status %d", status)
	}
	return &Error{Kind: KindHTTP, StatusCode: status, Msg: msg}
}

// NewTransportError classifies err from its chain, not from its wording.
func NewTransportError(endpoint string, err error) *Error {
	kind := classifyTransport(err)

	var msg string
	switch kind {
	case TransportUnreachable:
		msg = fmt.Sprintf("Network Error: could not connect to the API at %s. "+
			"Check that DATAPROC_ENDPOINT (or --endpoint) points at the processing API.", endpoint)
	case TransportTimeout:
		msg = fmt.Sprintf("Network Error: the API at %s did not respond in time", endpoint)
	default:
		msg = fmt.Sprintf("Network Error: %v", err)
	}

	return &Error{
		Kind:      KindTransport,
		Transport: kind,
		Endpoint:  endpoint,
		Msg:       msg,
		Err:       err,
	}
}

// NewUnexpectedError wraps anything that does not fit the other kinds.
func NewUnexpectedError(err error) *Error {
	return &Error{Kind: KindUnexpected, Err: err}
}

// AsError returns err as *Error, wrapping unclassified errors as unexpected.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return NewUnexpectedError(err)
}

func KindOf(err error) Kind {
	return AsError(err).Kind
}

func TransportKindOf(err error) TransportKind {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindTransport {
		return e.Transport
	}
	return TransportOther
}

// Message is the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnexpected
}

func classifyTransport(err error) TransportKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return TransportTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransportTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return TransportUnreachable
	}

	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return TransportUnreachable
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return TransportUnreachable
	}

	return TransportOther
}
