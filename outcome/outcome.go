// Package outcome defines the closed set of job outcome categories and
// the classifier that maps a job's return or failure into exactly one of
// them.
//
// The taxonomy is deliberately small: a job either succeeded, found
// nothing at the resource it targeted, or failed. "Not found" is counted
// separately from failure because an absent resource is an expected,
// well-formed answer, not an error. Anything else a job or its transport
// raises collapses into the error category, with the message preserving
// whether the failure was a protocol status or a transport fault.
package outcome

import (
	"errors"
	"fmt"
	"net/http"
)

// Status is one of the closed outcome categories a drained job is
// tallied under.
type Status int

const (
	// OK means the job completed and produced its payload.
	OK Status = iota
	// NotFound means the targeted resource does not exist. It is a
	// distinct category, not an error.
	NotFound
	// Error covers every other failure, transport-level or job-level.
	Error
)

// String returns the label used in per-job report lines and summaries.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case NotFound:
		return "not found"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the classified result of one job: its category plus a
// human-readable message suitable for a report line.
type Outcome struct {
	Status  Status
	Message string
}

// ErrNotFound signals that the resource a job targeted is absent.
// Job functions return it (directly or wrapped) to be tallied under
// NotFound instead of Error.
var ErrNotFound = errors.New("resource not found")

// StatusError is a protocol-status failure: the remote answered, but
// with a non-success code.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error %d - %s", e.Code, http.StatusText(e.Code))
}

// Is reports 404 status errors as ErrNotFound so callers can match the
// taxonomy with errors.Is.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// TransportError is a network-level failure: the request never produced
// a protocol response.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%v (%T)", e.Err, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Classify maps a job function's error (or nil) into exactly one
// Outcome. Every submitted job is classified exactly once; classification
// never fails and never re-raises.
//
// Cancellation is not an outcome: the dispatcher checks for interruption
// before classifying, so a context error reaching Classify is treated
// like any other failure.
func Classify(err error) Outcome {
	if err == nil {
		return Outcome{Status: OK, Message: "OK"}
	}

	if errors.Is(err, ErrNotFound) {
		return Outcome{Status: NotFound, Message: "not found"}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return Outcome{Status: Error, Message: statusErr.Error()}
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return Outcome{Status: Error, Message: transportErr.Error()}
	}

	return Outcome{Status: Error, Message: err.Error()}
}
