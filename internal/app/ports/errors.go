package ports

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrNotInRange   = errors.New("not in range")
	ErrRoomNotFound = errors.New("room not found")
)
