package service

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
)

// ErrorKind classifies failures of an evaluator or dashboard action
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindAuth       ErrorKind = "auth"
	KindNotFound   ErrorKind = "not_found"
	KindServer     ErrorKind = "server"
	KindTimeout    ErrorKind = "timeout"
	KindConnection ErrorKind = "connection"
	KindUnknown    ErrorKind = "unknown"
)

// Error is a classified failure. Status and Body are set for upstream HTTP failures.
type Error struct {
	Kind   ErrorKind
	Status int
	Body   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Kind == KindServer:
		return fmt.Sprintf("scoring API error %d: %s", e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrTimeout) works
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Status == 0 && t.Err == nil && t.Detail == ""
}

// Kind sentinels for errors.Is
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrServer     = &Error{Kind: KindServer}
	ErrTimeout    = &Error{Kind: KindTimeout}
	ErrConnection = &Error{Kind: KindConnection}
	ErrUnknown    = &Error{Kind: KindUnknown}
)

// ValidationError reports bad input detected before any I/O
func ValidationError(detail string) *Error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// KindOf returns the kind of err, KindUnknown for unclassified errors
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// UserMessage converts any error into the message shown to the operator
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Unexpected error: " + err.Error()
	}
	switch e.Kind {
	case KindValidation:
		if e.Detail != "" {
			return e.Detail
		}
		return "Please provide both description and transcription."
	case KindAuth:
		return "Authentication failed. Please check your API token."
	case KindNotFound:
		if e.Detail != "" {
			return e.Detail
		}
		return "API endpoint not found. Please verify the API URL."
	case KindServer:
		return fmt.Sprintf("Error %d: %s", e.Status, e.Body)
	case KindTimeout:
		return "Request timed out. Please try again."
	case KindConnection:
		return "Connection failed. Please check if the API server is running."
	}
	if e.Err != nil {
		return "Unexpected error: " + e.Err.Error()
	}
	return "Unexpected error: " + e.Detail
}

// classifyTransportError maps an http.Client failure onto the taxonomy
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &Error{Kind: KindConnection, Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &Error{Kind: KindConnection, Err: err}
	}
	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return &Error{Kind: KindConnection, Err: err}
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return &Error{Kind: KindConnection, Err: err}
	}
	return &Error{Kind: KindUnknown, Err: err}
}
