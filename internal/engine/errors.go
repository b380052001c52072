package engine

import "errors"

var (
	// ErrStopped is returned by Dispatch once the engine has been stopped.
	ErrStopped = errors.New("engine stopped")

	// ErrAlreadyStarted is returned by a second Session.Start. A session
	// issues exactly one fetch; overlapping fetches are rejected rather
	// than raced.
	ErrAlreadyStarted = errors.New("session already started")
)
