package question

import "errors"

// Error kinds surfaced by the service. Callers match them with errors.Is.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrBadRequest    = errors.New("bad request")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnprocessable = errors.New("unprocessable")
)
