// Package result holds the responses given by the notea server's HTTP
// endpoints, each with a message for the server log that the client never
// sees.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// Result is a response to write and the message to log about it.
type Result struct {
	Status int
	IsErr  bool
	LogMsg string

	body   interface{}
	text   bool
	hdrs   [][2]string
	encode []byte
}

// OK is a 200 with body encoded as JSON.
func OK(body interface{}, logMsg string) Result {
	return JSON(http.StatusOK, body, logMsg)
}

// Created is a 201 with body encoded as JSON.
func Created(body interface{}, logMsg string) Result {
	return JSON(http.StatusCreated, body, logMsg)
}

// BadRequest is a 400 telling the client userMsg.
func BadRequest(userMsg, logMsg string) Result {
	return Error(http.StatusBadRequest, userMsg, logMsg)
}

// NotFound is a 404. Sessions that exist but belong to someone else get this
// too.
func NotFound(logMsg string) Result {
	return Error(http.StatusNotFound, "The requested resource was not found", logMsg)
}

// MethodNotAllowed is a 405 for req.
func MethodNotAllowed(req *http.Request) Result {
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Error(http.StatusMethodNotAllowed, userMsg, "method not allowed")
}

// Unauthorized is a 401 asking for a play token.
func Unauthorized(logMsg string) Result {
	r := Error(http.StatusUnauthorized, "A valid play token is required", logMsg)
	r.hdrs = append(r.hdrs, [2]string{"WWW-Authenticate", `Bearer realm="notea server", charset="utf-8"`})
	return r
}

// InternalServerError is a 500. The client is not told why.
func InternalServerError(logMsg string) Result {
	return Error(http.StatusInternalServerError, "An internal server error occurred", logMsg)
}

// JSON is a successful response with body encoded as JSON. body is not read
// for http.StatusNoContent.
func JSON(status int, body interface{}, logMsg string) Result {
	return Result{Status: status, LogMsg: logMsg, body: body}
}

// Error is an error response with an ErrorResponse body.
func Error(status int, userMsg, logMsg string) Result {
	return Result{
		Status: status,
		IsErr:  true,
		LogMsg: logMsg,
		body:   ErrorResponse{Error: userMsg, Status: status},
	}
}

// Text is an error response written as plain text. It is what is left when
// something has gone too wrong to trust the JSON encoder.
func Text(status int, userMsg, logMsg string) Result {
	return Result{Status: status, IsErr: true, LogMsg: logMsg, body: userMsg, text: true}
}

// Encode encodes the body ahead of WriteResponse so that an encoding failure
// can still be answered with a different Result. Calling it again after it
// succeeds does nothing.
func (r *Result) Encode() error {
	if r.encode != nil || r.text || r.Status == http.StatusNoContent {
		return nil
	}
	data, err := json.Marshal(r.body)
	if err != nil {
		return err
	}
	r.encode = data
	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or its body
// cannot be encoded.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}
	if err := r.Encode(); err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	body := r.encode
	if r.text {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		body = []byte(fmt.Sprintf("%v", r.body))
	} else {
		w.Header().Set("Content-Type", "application/json")
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}

	w.WriteHeader(r.Status)
	if r.Status != http.StatusNoContent {
		w.Write(body)
	}
}
