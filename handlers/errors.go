package handlers

import (
	"fmt"
	"net/http"
)

// ClientError is an error caused by the request itself. It carries the HTTP status returned to the caller.
type ClientError struct {
	status  int
	message string
}

// Error returns the error message for a ClientError.
func (e ClientError) Error() string {
	return e.message
}

// Status returns the HTTP status code for a ClientError.
func (e ClientError) Status() int {
	return e.status
}

// NewClientError returns a new error that is reported to the caller with the given status code.
func NewClientError(status int, formatString string, a ...interface{}) ClientError {
	return ClientError{status: status, message: fmt.Sprintf(formatString, a...)}
}

// NewBadRequestError returns a new ClientError with the status code 400.
func NewBadRequestError(formatString string, a ...interface{}) ClientError {
	return NewClientError(http.StatusBadRequest, formatString, a...)
}

// ServerError is an error that occurred while the server was handling a valid request, usually in the
// storage engine.
type ServerError struct {
	message string
}

// Error returns the error message for a ServerError.
func (e ServerError) Error() string {
	return e.message
}

// NewServerError returns a new error that is reported to the caller with the status code 500.
func NewServerError(formatString string, a ...interface{}) ServerError {
	return ServerError{message: fmt.Sprintf(formatString, a...)}
}

// statusFor returns the HTTP status code that should be reported for an error.
func statusFor(err error) int {
	switch e := err.(type) {
	case ClientError:
		return e.Status()
	default:
		return http.StatusInternalServerError
	}
}
