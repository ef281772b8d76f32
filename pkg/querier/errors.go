package querier

import (
	"errors"
	"fmt"
)

var ErrEmptyWord = errors.New("empty word")

// StatusError is returned when dictionary responds with unexpected status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected response code: %d", e.Code)
}

// NetworkError is returned when request can not be completed at all:
// refused connection, timeout, unresolved host and so on.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
