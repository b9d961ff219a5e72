package errors

import (
	"errors"
	"net/http"
)

// HTTPError is the payload written by handlers for a failed request
type HTTPError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *HTTPError) Error() string {
	return e.Message
}

func HTTPStatus(err error) int {
	var de *DomainError
	if !errors.As(err, &de) {
		return http.StatusInternalServerError
	}

	switch de.ErrorType {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrInvalidArgument:
		return http.StatusBadRequest
	case ErrUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErr converts an error into the response sent to the caller, msg gives the failed operation
func HTTPErr(err error, msg string) *HTTPError {
	message := msg
	if err != nil {
		message = msg + ": " + err.Error()
	}

	return &HTTPError{
		Status:  HTTPStatus(err),
		Message: message,
	}
}
