package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the failure mode of a downstream call.
type Kind int

const (
	// KindConnection indicates the request never produced an HTTP response
	KindConnection Kind = iota
	// KindStatus indicates a non-2xx HTTP status (other than 404)
	KindStatus
	// KindDecode indicates the response body could not be deserialized
	KindDecode
	// KindTimeout indicates the call exceeded its time budget
	KindTimeout
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// DownstreamError describes a failed call to a backend service. It carries
// enough context (service, operation, failure kind, status code) for the
// resilience layer to decide on retry and for logs to attribute the failure.
type DownstreamError struct {
	Service    string
	Operation  string
	Kind       Kind
	StatusCode int
	Err        error
}

// Error implements the error interface
func (de *DownstreamError) Error() string {
	if de.Kind == KindStatus {
		return fmt.Sprintf("%s.%s: downstream returned status %d", de.Service, de.Operation, de.StatusCode)
	}
	if de.Err != nil {
		return fmt.Sprintf("%s.%s: downstream %s error: %v", de.Service, de.Operation, de.Kind, de.Err)
	}
	return fmt.Sprintf("%s.%s: downstream %s error", de.Service, de.Operation, de.Kind)
}

// Unwrap returns the underlying cause, mapping each kind to its sentinel so
// errors.Is(err, ErrTimeout) and friends work across the package boundary.
func (de *DownstreamError) Unwrap() error {
	if de.Err != nil {
		return de.Err
	}
	switch de.Kind {
	case KindConnection:
		return ErrConnectionFailure
	case KindStatus:
		return ErrBadStatus
	case KindDecode:
		return ErrDecodeFailure
	case KindTimeout:
		return ErrTimeout
	}
	return nil
}

// Is allows matching a DownstreamError against the kind sentinels even when
// a concrete cause is attached.
func (de *DownstreamError) Is(target error) bool {
	switch de.Kind {
	case KindConnection:
		return target == ErrConnectionFailure
	case KindStatus:
		return target == ErrBadStatus
	case KindDecode:
		return target == ErrDecodeFailure
	case KindTimeout:
		return target == ErrTimeout
	}
	return false
}

// NewDownstream constructs a DownstreamError for a failed backend call
func NewDownstream(service, operation string, kind Kind, err error) *DownstreamError {
	return &DownstreamError{
		Service:   service,
		Operation: operation,
		Kind:      kind,
		Err:       err,
	}
}

// NewBadStatus constructs a DownstreamError for a non-2xx response
func NewBadStatus(service, operation string, statusCode int) *DownstreamError {
	return &DownstreamError{
		Service:    service,
		Operation:  operation,
		Kind:       KindStatus,
		StatusCode: statusCode,
	}
}

// IsDownstream reports whether err is (or wraps) a DownstreamError and
// returns it when so.
func IsDownstream(err error) (*DownstreamError, bool) {
	var de *DownstreamError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
