package sessions

import "errors"

var (
	ErrSessionNotFound = errors.New("session not found")

	// the store could not apply a replacement after repeated contention
	ErrSessionContended = errors.New("session update contended")
)
