package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name         string
		input        Result
		expectStatus int
		expectBody   string
		expectHeader map[string]string
	}{
		{
			name:         "ok with body",
			input:        OK(map[string]int{"states": 2}),
			expectStatus: http.StatusOK,
			expectBody:   `{"states":2}`,
			expectHeader: map[string]string{"Content-Type": "application/json"},
		},
		{
			name:         "no content",
			input:        NoContent("user %q logged out", "ada"),
			expectStatus: http.StatusNoContent,
			expectBody:   "",
		},
		{
			name:         "not found",
			input:        NotFound(),
			expectStatus: http.StatusNotFound,
			expectBody:   `{"error":"The requested resource was not found","status":404}`,
		},
		{
			name:         "unauthorized sets challenge",
			input:        Unauthorized(""),
			expectStatus: http.StatusUnauthorized,
			expectBody:   `{"error":"You are not authorized to do that","status":401}`,
			expectHeader: map[string]string{"WWW-Authenticate": `Bearer realm="refa server", charset="utf-8"`},
		},
		{
			name:         "text error",
			input:        TextErr(http.StatusInternalServerError, "boom", "panic"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "boom",
			expectHeader: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		},
		{
			name:         "redirect",
			input:        Redirection("/api/v1/info"),
			expectStatus: http.StatusPermanentRedirect,
			expectHeader: map[string]string{"Location": "/api/v1/info"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			w := httptest.NewRecorder()

			tc.input.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectBody, w.Body.String())
			for k, v := range tc.expectHeader {
				assert.Equal(v, w.Header().Get(k), "header %s", k)
			}
		})
	}
}

func Test_InternalMessage(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("OK", OK(nil).InternalMsg)
	assert.Equal("user 'ada' got 3 automata", OK(nil, "user '%s' got %d automata", "ada", 3).InternalMsg)
	assert.True(BadRequest("x").IsErr)
	assert.False(Created(nil).IsErr)
}

func Test_WriteResponse_unpopulatedPanics(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() {
		Result{}.WriteResponse(httptest.NewRecorder())
	})
}
