package http

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"syscall"
)

// ErrorKind classifies a failed request.
type ErrorKind int

const (
	// Unknown covers failures that fit no other kind, including requests
	// that could not be built.
	Unknown ErrorKind = iota
	// ConnectionLost means an established connection was closed mid-request.
	ConnectionLost
	// Timeout means the transport or context deadline expired.
	Timeout
	// NoInternet means name resolution failed or the network is unreachable.
	// A refused connection or a nonexistent host name is Unknown.
	NoInternet
	// CannotDecode means the response body did not decode into the target type.
	CannotDecode
)

var kindNames = map[ErrorKind]string{
	Unknown:        "unknown",
	ConnectionLost: "connection lost",
	Timeout:        "timeout",
	NoInternet:     "no internet",
	CannotDecode:   "cannot decode",
}

// String returns a human-readable name for the kind.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// ErrInvalidEndpoint is returned when a request URL cannot be built.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

// Error is the failure carried by a Response. Kind is the only part callers
// should branch on; Err keeps the underlying cause for logging.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, so callers can write
// errors.Is(err, &http.Error{Kind: http.Timeout}).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Classify maps a transport error to an ErrorKind.
func Classify(err error) ErrorKind {
	if err == nil {
		return Unknown
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return Timeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Timeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return Timeout
		}
		// The resolver answered; the name does not exist.
		if dnsErr.IsNotFound {
			return Unknown
		}
		return NoInternet
	}
	switch {
	case errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETDOWN):
		return NoInternet
	case errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNABORTED),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF):
		return ConnectionLost
	}

	return Unknown
}
