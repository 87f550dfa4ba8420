package server

import "errors"

var (
	// ErrBadSlot is returned when a save slot is not a session ID.
	ErrBadSlot = errors.New("save slot is not a session ID")

	// ErrStore is returned along with the cause when the session store fails.
	ErrStore = errors.New("the session store failed")
)
