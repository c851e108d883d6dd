// Package http serves the JSON API over the services layer.
//
// This file holds the response builder and the mapping from domain errors
// to status codes.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bizspese/internal/core"
	applog "bizspese/internal/log"
)

// errBadRequest marks malformed input detected by the HTTP layer itself,
// such as an unparseable body or query parameter.
var errBadRequest = errors.New("bad request")

// JSONResponseBuilder provides a fluent API for JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	headers    map[string]string
	body       any
	raw        []byte
}

func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets a value to be JSON encoded.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Raw sets an already encoded JSON body.
func (b *JSONResponseBuilder) Raw(data []byte) *JSONResponseBuilder {
	b.raw = data
	return b
}

func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}

	if b.statusCode == http.StatusNoContent {
		w.WriteHeader(b.statusCode)
		return
	}

	data := b.raw
	if data == nil {
		var err error
		data, err = json.Marshal(b.body)
		if err != nil {
			data = []byte(`{"error":"failed to encode response"}`)
			b.statusCode = http.StatusInternalServerError
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(data)
	_, _ = w.Write([]byte("\n"))
}

type errorBody struct {
	Error string `json:"error"`
}

func ErrorResponse(statusCode int, message string) *JSONResponseBuilder {
	return NewJSONResponse().Status(statusCode).Body(errorBody{Error: message})
}

func NoContent() *JSONResponseBuilder {
	return NewJSONResponse().Status(http.StatusNoContent)
}

// statusFor maps validation errors to 400, missing rows to 404, duplicate
// names to 409 and everything else to 500.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrValidation), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"error": ...}. Server errors are logged with
// the request logger and their detail is not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logRequestError(r.Context(), op, err)
		msg = http.StatusText(status)
	}
	ErrorResponse(status, msg).Write(w)
}

func logRequestError(ctx context.Context, op string, err error) {
	fields := applog.NewFields().WithErrorType(errorType(err))
	applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Request failed", err, op, fields)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return applog.ErrorTypeTimeout
	case errors.Is(err, context.Canceled):
		return applog.ErrorTypeNetwork
	default:
		return applog.ErrorTypeInternal
	}
}
