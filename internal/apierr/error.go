package apierr

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// Stable, machine-readable codes. Clients branch on these.
const (
	CodeGeneric            = "GENERIC_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeConflict           = "RESOURCE_CONFLICT"
	CodeValidation         = "VALIDATION_FAILED"
	CodeUnprocessable      = "UNPROCESSABLE_ENTITY"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_SERVER_ERROR"
	CodeDatabase           = "DATABASE_ERROR"
	CodeFileNotFound       = "FILE_NOT_FOUND"
	CodeBadGateway         = "BAD_GATEWAY"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeGatewayTimeout     = "GATEWAY_TIMEOUT"
	CodeUnhandled          = "UNHANDLED_ERROR"
)

// stackDepth caps the frames captured per error.
const stackDepth = 32

// Error is an intentional, structured API failure. It carries everything the
// error middleware needs to build the response envelope.
//
// Empty Message/Code and a nil Details are filled from the Registry entry for
// Status when the error is handled. An Error is not mutated after
// construction.
type Error struct {
	Message string
	Status  int
	Code    string
	Details any

	cause error
	stack string
}

// Option overrides a field of an Error at construction.
type Option func(*Error)

// WithMessage overrides the human-readable message.
func WithMessage(msg string) Option { return func(e *Error) { e.Message = msg } }

// WithCode overrides the machine-readable code.
func WithCode(code string) Option { return func(e *Error) { e.Code = code } }

// WithDetails attaches a string or structured value.
func WithDetails(details any) Option { return func(e *Error) { e.Details = details } }

// WithCause records the underlying error. It is used for logs and errors.Is,
// never sent to clients.
func WithCause(err error) Option { return func(e *Error) { e.cause = err } }

// New builds an Error for status. It never fails: any status and an empty
// message are accepted.
func New(status int, opts ...Option) *Error {
	return build(status, "", "", opts)
}

func build(status int, msg, code string, opts []Option) *Error {
	e := &Error{Message: msg, Status: status, Code: code}
	for _, o := range opts {
		o(e)
	}
	e.stack = captureStack(3)
	return e
}

// Error returns the message, or a status-derived text when the message is
// empty.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Message != "" {
		return e.Message
	}
	if t := http.StatusText(e.Status); t != "" {
		return t
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Stack returns the call stack captured when the error was built.
func (e *Error) Stack() string { return e.stack }

// BadRequest builds a 400 error.
func BadRequest(opts ...Option) *Error {
	return build(http.StatusBadRequest, "Bad request", CodeBadRequest, opts)
}

// Unauthorized builds a 401 error.
func Unauthorized(opts ...Option) *Error {
	return build(http.StatusUnauthorized, "Unauthorized", CodeUnauthorized, opts)
}

// Forbidden builds a 403 error.
func Forbidden(opts ...Option) *Error {
	return build(http.StatusForbidden, "Forbidden", CodeForbidden, opts)
}

// NotFound builds a 404 error.
func NotFound(opts ...Option) *Error {
	return build(http.StatusNotFound, "Resource not found", CodeNotFound, opts)
}

// FileNotFound builds a 404 error for missing files.
func FileNotFound(opts ...Option) *Error {
	return build(http.StatusNotFound, "File not found", CodeFileNotFound, opts)
}

// MethodNotAllowed builds a 405 error.
func MethodNotAllowed(opts ...Option) *Error {
	return build(http.StatusMethodNotAllowed, "Method not allowed", CodeMethodNotAllowed, opts)
}

// Conflict builds a 409 error.
func Conflict(opts ...Option) *Error {
	return build(http.StatusConflict, "Resource conflict", CodeConflict, opts)
}

// ValidationFailed builds a 422 error for input that failed validation.
func ValidationFailed(opts ...Option) *Error {
	return build(http.StatusUnprocessableEntity, "Validation failed", CodeValidation, opts)
}

// Unprocessable builds a 422 error for semantically invalid input.
func Unprocessable(opts ...Option) *Error {
	return build(http.StatusUnprocessableEntity, "Unprocessable request", CodeUnprocessable, opts)
}

// PayloadTooLarge builds a 413 error.
func PayloadTooLarge(opts ...Option) *Error {
	return build(http.StatusRequestEntityTooLarge, "Request body too large", CodePayloadTooLarge, opts)
}

// RateLimited builds a 429 error.
func RateLimited(opts ...Option) *Error {
	return build(http.StatusTooManyRequests, "Too many requests, please try again later.", CodeRateLimited, opts)
}

// Internal builds a 500 error.
func Internal(opts ...Option) *Error {
	return build(http.StatusInternalServerError, "Internal server error", CodeInternal, opts)
}

// Database builds a 500 error for storage failures.
func Database(opts ...Option) *Error {
	return build(http.StatusInternalServerError, "Database error", CodeDatabase, opts)
}

// BadGateway builds a 502 error.
func BadGateway(opts ...Option) *Error {
	return build(http.StatusBadGateway, "Bad gateway", CodeBadGateway, opts)
}

// ServiceUnavailable builds a 503 error.
func ServiceUnavailable(opts ...Option) *Error {
	return build(http.StatusServiceUnavailable, "Service unavailable", CodeServiceUnavailable, opts)
}

// GatewayTimeout builds a 504 error.
func GatewayTimeout(opts ...Option) *Error {
	return build(http.StatusGatewayTimeout, "Gateway timeout", CodeGatewayTimeout, opts)
}

// captureStack formats the caller's stack, skipping runtime frames and
// the frames of this package's constructors.
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.HasPrefix(f.Function, "runtime.") {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}
