// Package apierr defines the structured error vocabulary of the HTTP API.
//
// This file holds the error-kind registry: a static table from HTTP status
// code to the canonical {message, code, details} triple the error middleware
// falls back to when a raised *Error leaves a field empty.
//
// The registry is a value, built once at startup with DefaultRegistry and
// injected into the middleware chain. It is never mutated afterwards, so it
// is safe for concurrent reads without locking.
package apierr

import "net/http"

// Kind is the default triple registered for a status code.
type Kind struct {
	Message string
	Code    string
	Details any
}

// Registry maps HTTP status codes to their default Kind.
type Registry struct {
	kinds map[int]Kind
}

// NewRegistry builds a registry from the given table. The map is copied so
// later changes by the caller do not leak in.
func NewRegistry(kinds map[int]Kind) Registry {
	m := make(map[int]Kind, len(kinds))
	for status, k := range kinds {
		m[status] = k
	}
	return Registry{kinds: m}
}

// DefaultRegistry returns the registry used by the service.
func DefaultRegistry() Registry {
	return NewRegistry(map[int]Kind{
		http.StatusBadRequest: {
			Message: "Bad request",
			Code:    CodeBadRequest,
			Details: "The request was invalid",
		},
		http.StatusUnauthorized: {
			Message: "Authentication required or invalid credentials.",
			Code:    CodeUnauthorized,
			Details: "You are not authorized to access this resource.",
		},
		http.StatusForbidden: {
			Message: "Access denied.",
			Code:    CodeForbidden,
			Details: "You do not have permission to perform this action.",
		},
		http.StatusNotFound: {
			Message: "Resource not found.",
			Code:    CodeNotFound,
			Details: "The requested resource could not be found.",
		},
		http.StatusMethodNotAllowed: {
			Message: "Method not allowed.",
			Code:    CodeMethodNotAllowed,
			Details: "The requested method is not supported for this resource.",
		},
		http.StatusConflict: {
			Message: "Conflict detected.",
			Code:    CodeConflict,
			Details: "A resource with this identifier already exists.",
		},
		http.StatusRequestEntityTooLarge: {
			Message: "Payload too large.",
			Code:    CodePayloadTooLarge,
			Details: "The request body exceeds the allowed size.",
		},
		http.StatusUnprocessableEntity: {
			Message: "Unprocessable request.",
			Code:    CodeUnprocessable,
			Details: "The server understands the request but was unable to process it.",
		},
		http.StatusTooManyRequests: {
			Message: "Too many requests.",
			Code:    CodeRateLimited,
			Details: "You have exceeded the number of allowed requests. Please try again later.",
		},
		http.StatusInternalServerError: {
			Message: "An internal server error occurred.",
			Code:    CodeInternal,
			Details: "Something went wrong on our server.",
		},
		http.StatusBadGateway: {
			Message: "Bad gateway.",
			Code:    CodeBadGateway,
			Details: "The server received an invalid response from an upstream service.",
		},
		http.StatusServiceUnavailable: {
			Message: "Service temporarily unavailable.",
			Code:    CodeServiceUnavailable,
			Details: "The service is under maintenance or temporarily overloaded.",
		},
		http.StatusGatewayTimeout: {
			Message: "Gateway timeout.",
			Code:    CodeGatewayTimeout,
			Details: "The server did not receive a timely response from an upstream service.",
		},
	})
}

// Lookup returns the Kind registered for status.
func (r Registry) Lookup(status int) (Kind, bool) {
	k, ok := r.kinds[status]
	return k, ok
}

// Resolve returns the Kind for status, or the 500 entry when status is not
// registered. A registry without a 500 entry yields a zero Kind.
func (r Registry) Resolve(status int) Kind {
	if k, ok := r.kinds[status]; ok {
		return k
	}
	return r.kinds[http.StatusInternalServerError]
}

// Statuses lists the registered status codes in no particular order.
func (r Registry) Statuses() []int {
	out := make([]int, 0, len(r.kinds))
	for s := range r.kinds {
		out = append(out, s)
	}
	return out
}

// IsErrorStatus reports whether status is a client or server error code.
func IsErrorStatus(status int) bool {
	return status >= 400 && status <= 599
}
