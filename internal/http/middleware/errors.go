// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the error-handling chain. Handlers and middleware
// report failures with c.Error(err) followed by c.Abort(); Errors() runs the
// rest of the chain, then hands the last recorded error to a sequence of
// stages:
//
//  1. APIErrorHandler answers *apierr.Error values with their status, code
//     and details, falling back to the registry for empty fields.
//  2. UnhandledErrorHandler answers anything else with a generic 500.
//
// A stage that finds the response already written forwards the error
// unchanged, so at most one envelope is ever written per request.
package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-api-starter/internal/apierr"
	"github.com/tbourn/go-api-starter/internal/config"
	"github.com/tbourn/go-api-starter/internal/envelope"
)

const (
	unhandledMessage = "Something went wrong"
	fallbackMessage  = "An internal server error occurred."
)

// ErrorOptions configures the error stages.
type ErrorOptions struct {
	// Mode gates stack traces in logs and response bodies.
	Mode config.RuntimeMode
	// Registry supplies defaults for empty message, code and details.
	Registry apierr.Registry
}

// ErrorStage handles err or forwards it by calling next.
type ErrorStage func(c *gin.Context, err error, next func(error))

// Errors returns the standard chain: API errors first, then the generic
// fallback.
func Errors(opts ErrorOptions) gin.HandlerFunc {
	return NewErrorChain(APIErrorHandler(opts), UnhandledErrorHandler(opts))
}

// NewErrorChain runs the remaining handlers and dispatches the last context
// error through stages in order. A stage that panics is contained: the
// request gets the generic 500 envelope if nothing was written yet.
func NewErrorChain(stages ...ErrorStage) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		dispatch(c, stages, last.Err)
	}
}

func dispatch(c *gin.Context, stages []ErrorStage, err error) {
	var run func(i int, err error)
	run = func(i int, err error) {
		if i >= len(stages) {
			LoggerFrom(c).Debug().Err(err).
				Bool("written", c.Writer.Written()).
				Msg("error not handled by any stage")
			return
		}
		defer func() {
			if rec := recover(); rec != nil {
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Int("stage", i).
					Msg("error stage failed")
				deliverFallback(c)
			}
		}()
		stages[i](c, err, func(next error) { run(i+1, next) })
	}
	run(0, err)
}

// deliverFallback writes the generic 500 envelope unless the response is
// already committed. It never panics.
func deliverFallback(c *gin.Context) {
	defer func() { _ = recover() }()
	if c.Writer.Written() {
		return
	}
	observeAPIError(http.StatusInternalServerError, apierr.CodeInternal)
	envelope.Deliver(c, http.StatusInternalServerError,
		envelope.Error(fallbackMessage, apierr.CodeInternal, nil, "", false))
}

// withRequest adds the scrubbed URL. The method is added only when Logger()
// has not already put it on the request-scoped logger.
func withRequest(c *gin.Context, ev *zerolog.Event) *zerolog.Event {
	ev = ev.Str("url", queryRedactor.url(c.Request.URL))
	if _, scoped := c.Get(loggerKey); !scoped {
		ev = ev.Str("method", c.Request.Method)
	}
	return ev
}

// APIErrorHandler answers intentional *apierr.Error values.
//
// The status is clamped to [400,599] (500 otherwise). Empty message and code
// and non-truthy details are taken from the registry entry for that status,
// or the 500 entry when the status is unregistered.
func APIErrorHandler(opts ErrorOptions) ErrorStage {
	dev := opts.Mode.IsDevelopment()
	return func(c *gin.Context, err error, next func(error)) {
		if c.Writer.Written() {
			next(err)
			return
		}
		f := apierr.Classify(err)
		if f.Kind != apierr.KindAPI {
			next(err)
			return
		}
		ae := f.API

		status := ae.Status
		if !apierr.IsErrorStatus(status) {
			status = http.StatusInternalServerError
		}
		fallback := opts.Registry.Resolve(status)

		message := ae.Message
		if message == "" {
			message = fallback.Message
		}
		if message == "" {
			message = fallbackMessage
		}
		code := ae.Code
		if code == "" {
			code = fallback.Code
		}
		if code == "" {
			code = apierr.CodeGeneric
		}
		details := ae.Details
		if !envelope.Truthy(details) {
			details = fallback.Details
		}

		ev := LoggerFrom(c).Error().
			Str("code", code).
			Interface("details", details).
			Int("status", status)
		ev = withRequest(c, ev)
		if cause := ae.Unwrap(); cause != nil {
			ev = ev.AnErr("cause", cause)
		}
		if dev && f.Stack != "" {
			ev = ev.Str("stack", f.Stack)
		}
		ev.Msg(message)

		observeAPIError(status, code)
		envelope.Deliver(c, status, envelope.Error(message, code, details, f.Stack, dev))
	}
}

// UnhandledErrorHandler answers any error with a 500 and UNHANDLED_ERROR.
// The original message is logged but never sent to the client.
func UnhandledErrorHandler(opts ErrorOptions) ErrorStage {
	dev := opts.Mode.IsDevelopment()
	return func(c *gin.Context, err error, next func(error)) {
		if c.Writer.Written() {
			next(err)
			return
		}
		f := apierr.Classify(err)

		msg := "Unhandled error"
		if err != nil {
			msg = err.Error()
		}
		ev := LoggerFrom(c).Error().
			Str("code", apierr.CodeUnhandled).
			Str("type", fmt.Sprintf("%T", err))
		ev = withRequest(c, ev)
		if dev && f.Stack != "" {
			ev = ev.Str("stack", f.Stack)
		}
		ev.Msg(msg)

		observeAPIError(http.StatusInternalServerError, apierr.CodeUnhandled)
		envelope.Deliver(c, http.StatusInternalServerError,
			envelope.Error(unhandledMessage, apierr.CodeUnhandled, nil, f.Stack, dev))
	}
}
