package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bizspese/internal/core"
	applog "bizspese/internal/log"
)

func TestJSONResponseBuilder(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/things/1").
		Body(map[string]string{"id": "1"}).
		Write(rr)

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/things/1", rr.Header().Get("Location"))
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "{\"id\":\"1\"}\n", rr.Body.String())
}

func TestJSONResponseBuilder_Raw(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().Raw([]byte(`[1,2]`)).Write(rr)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[1,2]\n", rr.Body.String())
}

func TestNoContent(t *testing.T) {
	rr := httptest.NewRecorder()
	NoContent().Write(rr)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())
	assert.Empty(t, rr.Header().Get("Content-Type"))
}

func TestJSONResponseBuilder_EncodeFailure(t *testing.T) {
	rr := httptest.NewRecorder()
	NewJSONResponse().Body(make(chan int)).Write(rr)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to encode response")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ErrInvalidAmount, http.StatusBadRequest},
		{fmt.Errorf("create: %w", core.ErrUnknownCategory), http.StatusBadRequest},
		{fmt.Errorf("%w: bad", errBadRequest), http.StatusBadRequest},
		{fmt.Errorf("get: %w", core.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("name: %w", core.ErrConflict), http.StatusConflict},
		{&http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestWriteError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/expenses/x", nil)

	rr := httptest.NewRecorder()
	writeError(rr, r, "read", fmt.Errorf("expense x: %w", core.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"expense x: not found"}`, rr.Body.String())

	rr = httptest.NewRecorder()
	writeError(rr, r, "read", errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rr.Body.String())
}

func TestErrorType(t *testing.T) {
	assert.Equal(t, applog.ErrorTypeTimeout, errorType(fmt.Errorf("query: %w", context.DeadlineExceeded)))
	assert.Equal(t, applog.ErrorTypeInternal, errorType(errors.New("boom")))
}
