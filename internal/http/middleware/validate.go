// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides Validate, a request validator factory. A route declares
// the shape of its body, query string and path parameters as Go structs with
// `validate` tags; the middleware decodes each section into a scratch value,
// checks it with go-playground/validator and reports every violation at once
// as a single 422 error. The request itself is left untouched.
package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	es_translations "github.com/go-playground/validator/v10/translations/es"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	"golang.org/x/text/language"

	"github.com/tbourn/go-api-starter/internal/apierr"
)

// CodeInvalidRequestData identifies validation failures raised by Validate.
const CodeInvalidRequestData = "INVALID_REQUEST_DATA"

// None marks a request section a route does not accept.
type None = struct{}

// Request is the combined shape checked by Validate.
type Request[B, Q, P any] struct {
	Body   B
	Query  Q
	Params P
}

// requestValidator bundles the validator with one translator per locale.
type requestValidator struct {
	v       *validator.Validate
	trans   []ut.Translator // indexed like supported
	matcher language.Matcher
}

// supported lists the message locales; the first one is the default.
var supported = []language.Tag{language.English, language.French, language.Spanish}

var reqValidator = newRequestValidator()

func newRequestValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)

	enLoc, frLoc, esLoc := en.New(), fr.New(), es.New()
	uni := ut.New(enLoc, enLoc, frLoc, esLoc)

	register := []struct {
		locale string
		fn     func(*validator.Validate, ut.Translator) error
	}{
		{"en", en_translations.RegisterDefaultTranslations},
		{"fr", fr_translations.RegisterDefaultTranslations},
		{"es", es_translations.RegisterDefaultTranslations},
	}
	trans := make([]ut.Translator, 0, len(register))
	for _, r := range register {
		t, _ := uni.GetTranslator(r.locale)
		if err := r.fn(v, t); err != nil {
			panic("validator translations " + r.locale + ": " + err.Error())
		}
		trans = append(trans, t)
	}

	return &requestValidator{
		v:       v,
		trans:   trans,
		matcher: language.NewMatcher(supported),
	}
}

// fieldName reports fields by their wire name (json, then form, then uri).
func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "uri"} {
		name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
		if name == "-" {
			return "-"
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// translator picks the message locale from an Accept-Language header.
func (rv *requestValidator) translator(acceptLanguage string) ut.Translator {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return rv.trans[0]
	}
	_, idx, conf := rv.matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(rv.trans) {
		return rv.trans[0]
	}
	return rv.trans[idx]
}

// check validates one section and appends "<section>: <message>" entries.
// Values that are not structs carry no rules and pass.
func (rv *requestValidator) check(section string, v any, tr ut.Translator, msgs []string) []string {
	err := rv.v.Struct(v)
	if err == nil {
		return msgs
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return msgs
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			msgs = append(msgs, section+": "+fe.Translate(tr))
		}
		return msgs
	}
	return append(msgs, section+": "+err.Error())
}

// Validate returns a middleware that checks the request body (JSON), query
// string and path parameters against B, Q and P. Use None for sections the
// route does not take.
//
// All violations are collected; unknown fields are ignored. On failure the
// request is aborted with a 422 error (code INVALID_REQUEST_DATA) whose
// details join every message with ". ". A body over the configured limit
// yields 413 instead. Decoded values are discarded and the body is restored,
// so downstream handlers see the request exactly as it arrived.
func Validate[B, Q, P any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			req  Request[B, Q, P]
			msgs []string
		)

		raw, err := readBody(c)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				_ = c.Error(apierr.PayloadTooLarge(apierr.WithCause(err)))
			} else {
				_ = c.Error(apierr.BadRequest(apierr.WithMessage("Unable to read request body"), apierr.WithCause(err)))
			}
			c.Abort()
			return
		}

		if len(bytes.TrimSpace(raw)) > 0 {
			if err := binding.JSON.BindBody(raw, &req.Body); err != nil {
				msgs = append(msgs, "body: "+err.Error())
			}
		}
		if err := c.ShouldBindQuery(&req.Query); err != nil {
			msgs = append(msgs, "query: "+err.Error())
		}
		if err := c.ShouldBindUri(&req.Params); err != nil {
			msgs = append(msgs, "params: "+err.Error())
		}

		tr := reqValidator.translator(c.GetHeader("Accept-Language"))
		msgs = reqValidator.check("body", &req.Body, tr, msgs)
		msgs = reqValidator.check("query", &req.Query, tr, msgs)
		msgs = reqValidator.check("params", &req.Params, tr, msgs)

		if len(msgs) > 0 {
			_ = c.Error(apierr.ValidationFailed(
				apierr.WithMessage("Request validation failed"),
				apierr.WithCode(CodeInvalidRequestData),
				apierr.WithDetails(strings.Join(msgs, ". ")),
			))
			c.Abort()
			return
		}
		c.Next()
	}
}

// readBody reads the whole body and puts an identical reader back.
func readBody(c *gin.Context) ([]byte, error) {
	if c.Request.Body == nil || c.Request.Body == http.NoBody {
		return nil, nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, nil
}
