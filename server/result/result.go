// Package result contains the values endpoints return to describe the HTTP
// response to send back.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ErrorResponse is the body sent with every JSON error response.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// internalMessage turns the optional trailing format string and arguments
// that every constructor accepts into a message, or gives def if none.
func internalMessage(def string, internalMsg []interface{}) (string, []interface{}) {
	if len(internalMsg) < 1 {
		return def, nil
	}
	return internalMsg[0].(string), internalMsg[1:]
}

// OK returns a Result for an HTTP-200 with the given response body. The
// internal message is logged but never sent to the client.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("OK", internalMsg)
	return Response(http.StatusOK, respObj, msgFmt, args...)
}

// NoContent returns a Result for an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("no content", internalMsg)
	return Response(http.StatusNoContent, nil, msgFmt, args...)
}

// Created returns a Result for an HTTP-201 with the given response body.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("created", internalMsg)
	return Response(http.StatusCreated, respObj, msgFmt, args...)
}

// Conflict returns a Result for an HTTP-409 that shows userMsg to the client.
func Conflict(userMsg string, internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("conflict", internalMsg)
	return Err(http.StatusConflict, userMsg, msgFmt, args...)
}

// BadRequest returns a Result for an HTTP-400 that shows userMsg to the
// client.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("bad request", internalMsg)
	return Err(http.StatusBadRequest, userMsg, msgFmt, args...)
}

// UnprocessableEntity returns a Result for an HTTP-422 that shows userMsg to
// the client. It is used when a request is well-formed but its content cannot
// be acted on, such as a pattern that does not compile.
func UnprocessableEntity(userMsg string, internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("unprocessable entity", internalMsg)
	return Err(http.StatusUnprocessableEntity, userMsg, msgFmt, args...)
}

// MethodNotAllowed returns a Result for an HTTP-405.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("method not allowed", internalMsg)
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, msgFmt, args...)
}

// NotFound returns a Result for an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("not found", internalMsg)
	return Err(http.StatusNotFound, "The requested resource was not found", msgFmt, args...)
}

// Forbidden returns a Result for an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("forbidden", internalMsg)
	return Err(http.StatusForbidden, "You don't have permission to do that", msgFmt, args...)
}

// Unauthorized returns a Result for an HTTP-401 along with the
// WWW-Authenticate header. If userMsg is empty a generic one is used.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("unauthorized", internalMsg)

	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, msgFmt, args...).
		WithHeader("WWW-Authenticate", `Bearer realm="refa server", charset="utf-8"`)
}

// InternalServerError returns a Result for an HTTP-500. The details are only
// logged.
func InternalServerError(internalMsg ...interface{}) Result {
	msgFmt, args := internalMessage("internal server error", internalMsg)
	return Err(http.StatusInternalServerError, "An internal server error occurred", msgFmt, args...)
}

// Response returns a non-error JSON Result. If status is http.StatusNoContent,
// respObj is not read and may be nil.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// Err returns a JSON error Result whose body is an ErrorResponse.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// Redirection returns a Result that permanently redirects to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: fmt.Sprintf("redirect -> %s", uri),
		redir:       uri,
	}
}

// TextErr is like Err but writes userMsg as plain text.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

// Result is an HTTP response waiting to be written.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	redir string
	hdrs  [][2]string

	// set by calling PrepareMarshaledResponse.
	respJSONBytes []byte
}

// WithHeader returns a copy of r that also sets the given header.
func (r Result) WithHeader(name, val string) Result {
	hdrs := make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(hdrs, r.hdrs)
	r.hdrs = append(hdrs, [2]string{name, val})
	return r
}

// PrepareMarshaledResponse marshals the JSON body of r if it has one. Once it
// succeeds, later calls do nothing.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent && r.redir == "" {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or its body
// cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	err := r.PrepareMarshaledResponse()
	if err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte

	if r.IsJSON {
		w.Header().Set("Content-Type", "application/json")
		respBytes = r.respJSONBytes
	} else {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent && r.redir == "" {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.redir != "" {
		w.Header().Set("Location", r.redir)
	}

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
