// Package envelope shapes every JSON body the API returns.
//
// Wire contract:
//
//	Success: { "success": true,  "message": string, "data"?: any }
//	Error:   { "success": false, "message": string, "error": { "code"?: string, "details"?: any }, "stackTrace"?: string }
//
// Error is the only place that decides whether a stack trace reaches a
// client; it must be handed the runtime mode explicitly.
package envelope

import (
	"math"
	"reflect"

	"github.com/gin-gonic/gin"
)

// SuccessEnvelope is the body of every 2xx response.
type SuccessEnvelope struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Ping sent to the server successfully!"`
	Data    any    `json:"data,omitempty" swaggertype:"object"`
}

// ErrorBody is the nested "error" object of an ErrorEnvelope.
type ErrorBody struct {
	Code    string `json:"code,omitempty" example:"NOT_FOUND"`
	Details any    `json:"details,omitempty" swaggertype:"string" example:"The requested resource could not be found."`
}

// ErrorEnvelope is the body of every 4xx/5xx response.
type ErrorEnvelope struct {
	Success    bool      `json:"success" example:"false"`
	Message    string    `json:"message" example:"Resource not found."`
	Error      ErrorBody `json:"error"`
	StackTrace string    `json:"stackTrace,omitempty"`
}

// Success builds a success envelope. Data is kept unless it is nil
// (including typed nil pointers, maps and slices); empty containers are kept.
func Success(message string, data any) SuccessEnvelope {
	env := SuccessEnvelope{Success: true, Message: message}
	if !isNil(data) {
		env.Data = data
	}
	return env
}

// Error builds an error envelope. Code is set when non-empty, details when
// Truthy, and stackTrace only when dev is true and stackTrace is non-empty.
func Error(message, code string, details any, stackTrace string, dev bool) ErrorEnvelope {
	env := ErrorEnvelope{Success: false, Message: message}
	if code != "" {
		env.Error.Code = code
	}
	if Truthy(details) {
		env.Error.Details = details
	}
	if dev && stackTrace != "" {
		env.StackTrace = stackTrace
	}
	return env
}

// Deliver writes env as JSON with status and stops the Gin chain. Callers
// must not deliver twice for one request.
func Deliver(c *gin.Context, status int, env any) {
	c.AbortWithStatusJSON(status, env)
}

// Truthy reports whether v counts as a present value: not nil, not an empty
// string, not false, not a zero or NaN number. Empty maps and slices count
// as present.
func Truthy(v any) bool {
	if isNil(v) {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
