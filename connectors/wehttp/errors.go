package wehttp

import (
	"errors"
	"net/http"

	"github.com/weegigs/wee-counter-go/we"
)

// StatusOf maps a call error to a response status and a message that is safe
// to return to callers.
func StatusOf(err error) (int, string) {
	var notFound we.MethodNotFoundError
	var invalid *we.InvalidArgumentsError
	var aborted *we.CallAbortedError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound, notFound.Error()
	case errors.As(err, &invalid):
		return http.StatusBadRequest, invalid.Error()
	case we.IsRevisionConflict(err):
		return http.StatusConflict, "revision conflict"
	case errors.As(err, &aborted):
		return http.StatusInternalServerError, "call aborted"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
