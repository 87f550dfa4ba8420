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
		result       Result
		expectStatus int
		expectType   string
		expectBody   string
		expectHeader [2]string
	}{
		{
			name:         "ok json",
			result:       OK(map[string]int{"moves": 3}, "got moves"),
			expectStatus: http.StatusOK,
			expectType:   "application/json",
			expectBody:   `{"moves":3}`,
		},
		{
			name:         "not found",
			result:       NotFound("no session abc"),
			expectStatus: http.StatusNotFound,
			expectType:   "application/json",
			expectBody:   `{"error":"The requested resource was not found","status":404}`,
		},
		{
			name:         "unauthorized",
			result:       Unauthorized("token expired"),
			expectStatus: http.StatusUnauthorized,
			expectType:   "application/json",
			expectBody:   `{"error":"A valid play token is required","status":401}`,
			expectHeader: [2]string{"WWW-Authenticate", `Bearer realm="notea server", charset="utf-8"`},
		},
		{
			name:         "text error",
			result:       Text(http.StatusInternalServerError, "oops", "panic: nil map"),
			expectStatus: http.StatusInternalServerError,
			expectType:   "text/plain; charset=utf-8",
			expectBody:   "oops",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			w := httptest.NewRecorder()

			tc.result.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectType, w.Header().Get("Content-Type"))
			assert.Equal(tc.expectBody, w.Body.String())
			if tc.expectHeader[0] != "" {
				assert.Equal(tc.expectHeader[1], w.Header().Get(tc.expectHeader[0]))
			}
		})
	}
}

func Test_Result_Encode_failure(t *testing.T) {
	assert := assert.New(t)

	r := OK(map[string]interface{}{"ch": make(chan int)}, "got channel")

	assert.Error(r.Encode())
	assert.Panics(func() {
		r.WriteResponse(httptest.NewRecorder())
	})
}

func Test_Result_logMessageNotSent(t *testing.T) {
	assert := assert.New(t)
	w := httptest.NewRecorder()

	r := BadRequest("ID is not valid", "parse id: invalid UUID length: 3")
	r.WriteResponse(w)

	assert.True(r.IsErr)
	assert.Equal("parse id: invalid UUID length: 3", r.LogMsg)
	assert.NotContains(w.Body.String(), "UUID")
}
