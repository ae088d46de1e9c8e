// Package chatpod - errors.go
// Defines the failure taxonomy surfaced by the chat handler.

package chatpod

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
)

var (
	ErrValidation    = errors.New("invalid prompt")
	ErrConnectivity  = errors.New("connectivity failure")
	ErrRemoteRequest = errors.New("remote request failure")
	ErrSessionClosed = errors.New("session has been closed")
)

// User-facing failure messages.
const (
	MessageEmptyPrompt   = "Please enter a prompt."
	MessageNoConnection  = "Internet connection is not available."
	MessageTimeout       = "Request timed out. Please check your internet connection."
	MessageRequestFailed = "An error occurred while making the request. Please try again later."
	MessageUnexpected    = "Something went wrong. Please try again."
)

type FailureKind int

const (
	FailureValidation FailureKind = iota + 1
	FailureConnectivity
	FailureRemoteRequest
)

func (k FailureKind) String() string {
	switch k {
	case FailureValidation:
		return "validation"
	case FailureConnectivity:
		return "connectivity"
	case FailureRemoteRequest:
		return "remote-request"
	default:
		return "unknown"
	}
}

// Failure is the only error the handler returns. It carries a message fit for
// the user and deliberately does not unwrap to the transport error behind it.
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f *Failure) Error() string {
	return f.Kind.String() + ": " + f.Message
}

// Is matches the kind sentinels, so errors.Is(err, ErrConnectivity) works.
func (f *Failure) Is(target error) bool {
	switch target {
	case ErrValidation:
		return f.Kind == FailureValidation
	case ErrConnectivity:
		return f.Kind == FailureConnectivity
	case ErrRemoteRequest:
		return f.Kind == FailureRemoteRequest
	}
	return false
}

// classify maps an error from the remote model call onto the failure taxonomy.
func classify(err error) *Failure {
	switch {
	case isTimeout(err):
		return &Failure{Kind: FailureConnectivity, Message: MessageTimeout}
	case isConnectivity(err):
		return &Failure{Kind: FailureConnectivity, Message: MessageNoConnection}
	default:
		return &Failure{Kind: FailureRemoteRequest, Message: MessageRequestFailed}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectivity(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	// *url.Error alone is not connectivity; a bad scheme or a redirect loop
	// is a malformed request.
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// Notice returns the text the UI shows for an error from Session.Submit or
// Handler.Handle. Validation failures need no notice.
func Notice(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if !errors.As(err, &f) {
		return MessageUnexpected
	}
	switch f.Kind {
	case FailureValidation:
		return ""
	case FailureConnectivity, FailureRemoteRequest:
		return f.Message
	default:
		return MessageUnexpected
	}
}
