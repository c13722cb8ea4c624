package creep

import (
	"errors"
	"fmt"
)

var ErrNoHandler = errors.New("no handler for action")

// WorldCallError is an unexpected host failure while executing a primitive.
type WorldCallError struct {
	Op     string
	Creep  string
	Target string
	Err    error
}

func (e *WorldCallError) Error() string {
	return fmt.Sprintf("%s %s -> %s: %v", e.Op, e.Creep, e.Target, e.Err)
}

func (e *WorldCallError) Unwrap() error {
	return e.Err
}
