package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackHandler(t *testing.T) {
	codeCh := make(chan string, 1)
	h := callbackHandler("state-1", codeCh)

	call := func(query string) int {
		rr := httptest.NewRecorder()
		h(rr, httptest.NewRequest(http.MethodGet, "/callback?"+query, nil))
		return rr.Code
	}

	assert.Equal(t, http.StatusBadRequest, call("error=access_denied"))
	assert.Equal(t, http.StatusBadRequest, call("state=forged&code=abc"))
	assert.Equal(t, http.StatusBadRequest, call("state=state-1"))
	assert.Equal(t, http.StatusOK, call("state=state-1&code=abc"))
	assert.Equal(t, http.StatusConflict, call("state=state-1&code=again"))
	assert.Equal(t, "abc", <-codeCh)
}
