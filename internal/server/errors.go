package server

import (
	"net/http"
	"strconv"
	"strings"

	"jah/internal/errors"
)

// MapErrorToStatus maps error codes to HTTP status codes
func MapErrorToStatus(code errors.ErrorCode) int {
	switch code {
	case errors.FileNotFound:
		return http.StatusNotFound // 404
	case errors.MalformedRequest:
		return http.StatusBadRequest // 400
	case errors.BuildFailed:
		return http.StatusInternalServerError // 500
	case errors.FilesystemError:
		return http.StatusInternalServerError // 500
	case errors.ConfigInvalid:
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// errorResponse turns err into a plain-text response carrying its
// diagnostics, followed by one hint line per suggested fix.
func errorResponse(err error) *Response {
	status := MapErrorToStatus(errors.CodeOf(err))

	var body strings.Builder
	body.WriteString(err.Error())
	body.WriteString("\n")
	for _, hint := range errors.Hints(err) {
		body.WriteString(hint)
		body.WriteString("\n")
	}

	return &Response{
		Status:      status,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(body.String()),
		Reason:      http.StatusText(status),
		Outcome:     OutcomeError,
	}
}

// WriteResponse writes resp as the single response to a request
func WriteResponse(w http.ResponseWriter, resp *Response) {
	if resp.ContentType != "" {
		w.Header().Set("Content-Type", resp.ContentType)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.Body)))
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

// WriteError writes err as a plain-text error response
func WriteError(w http.ResponseWriter, err error) {
	WriteResponse(w, errorResponse(err))
}

// BadRequest writes a 400 for a request target that is not a usable path
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, errors.NewJahError(errors.MalformedRequest, message, nil, nil))
}

// InternalError writes a 500 Internal Server Error
func InternalError(w http.ResponseWriter, message string, err error) {
	WriteError(w, errors.NewJahError(errors.InternalError, message, err, nil))
}
