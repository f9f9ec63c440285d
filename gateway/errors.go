package gateway

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/c360/shopgateway/errors"
)

// mapError converts a resolver error to a wire-level gqlerror with an
// error code clients can branch on. Reads rarely reach this path (they
// degrade to fallbacks); mutations and malformed requests do.
func mapError(err error, operation string) *gqlerror.Error {
	if err == nil {
		return nil
	}

	if gqlErr, ok := err.(*gqlerror.Error); ok {
		return gqlErr
	}

	if de, ok := errors.IsDownstream(err); ok {
		switch de.Kind {
		case errors.KindTimeout:
			return &gqlerror.Error{
				Message: "Downstream call timed out - please try again",
				Extensions: map[string]interface{}{
					"code":      "TIMEOUT",
					"operation": operation,
					"service":   de.Service,
				},
			}
		case errors.KindConnection:
			return &gqlerror.Error{
				Message: "Service unavailable",
				Extensions: map[string]interface{}{
					"code":      "SERVICE_UNAVAILABLE",
					"operation": operation,
					"service":   de.Service,
					"retryable": true,
				},
			}
		case errors.KindStatus:
			return &gqlerror.Error{
				Message: fmt.Sprintf("Downstream rejected the request (status %d)", de.StatusCode),
				Extensions: map[string]interface{}{
					"code":      "BAD_STATUS",
					"operation": operation,
					"service":   de.Service,
					"status":    de.StatusCode,
				},
			}
		case errors.KindDecode:
			return &gqlerror.Error{
				Message: "Invalid response format from service",
				Extensions: map[string]interface{}{
					"code":      "INVALID_RESPONSE",
					"operation": operation,
					"service":   de.Service,
				},
			}
		}
	}

	switch {
	case stderrors.Is(err, errors.ErrCircuitOpen):
		return &gqlerror.Error{
			Message: "Service temporarily unavailable - circuit open",
			Extensions: map[string]interface{}{
				"code":      "CIRCUIT_OPEN",
				"operation": operation,
				"retryable": true,
			},
		}

	case stderrors.Is(err, context.DeadlineExceeded):
		return &gqlerror.Error{
			Message: "Request timeout exceeded",
			Extensions: map[string]interface{}{
				"code":      "DEADLINE_EXCEEDED",
				"operation": operation,
			},
		}

	case stderrors.Is(err, context.Canceled):
		return &gqlerror.Error{
			Message: "Request cancelled",
			Extensions: map[string]interface{}{
				"code":      "CANCELLED",
				"operation": operation,
			},
		}
	}

	if errors.IsInvalid(err) {
		return &gqlerror.Error{
			Message: fmt.Sprintf("Invalid input: %s", err.Error()),
			Extensions: map[string]interface{}{
				"code":      "INVALID_INPUT",
				"operation": operation,
			},
		}
	}

	if errors.IsTransient(err) {
		return &gqlerror.Error{
			Message: fmt.Sprintf("Temporary error: %s", err.Error()),
			Extensions: map[string]interface{}{
				"code":      "TRANSIENT_ERROR",
				"operation": operation,
				"retryable": true,
			},
		}
	}

	return &gqlerror.Error{
		Message: err.Error(),
		Extensions: map[string]interface{}{
			"code":      "QUERY_ERROR",
			"operation": operation,
		},
	}
}

// badRequest builds the gqlerror for a malformed query envelope
func badRequest(message, operation string) *gqlerror.Error {
	return &gqlerror.Error{
		Message: message,
		Extensions: map[string]interface{}{
			"code":      "BAD_REQUEST",
			"operation": operation,
		},
	}
}
