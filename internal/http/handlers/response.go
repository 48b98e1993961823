// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response utilities shared by every endpoint. Success
// bodies are written directly as envelope.SuccessEnvelope; failures are never
// rendered here. They are recorded on the Gin context and rendered once by
// the error chain, so every error response has the same shape.
//
// Example success response:
//
//	HTTP/1.1 200 OK
//	{ "success": true, "message": "Ping sent to the server successfully!", "data": { "message": "pong", "timestamp": "..." } }
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{ "success": false, "message": "Resource not found.", "error": { "code": "NOT_FOUND", "details": "..." } }
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-api-starter/internal/envelope"
)

// ok writes a success envelope with status. A nil data omits the field.
func ok(c *gin.Context, status int, message string, data any) {
	envelope.Deliver(c, status, envelope.Success(message, data))
}

// fail records err for the error chain and stops the handler chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// Fail is the exported variant of fail() for router-level fallbacks.
func Fail(c *gin.Context, err error) { fail(c, err) }
