package errors

import "errors"

var (
	ErrInvalidCycleInput      = errors.New("invalid cycle input")
	ErrCycleNotFound          = errors.New("cycle not found")
	ErrActiveCycleExists      = errors.New("an active cycle already exists for this scope")
	ErrInvalidCycleTransition = errors.New("invalid cycle status transition")
	ErrCycleNotEditable       = errors.New("cycle is not editable in its current status")

	ErrInvalidPositionInput = errors.New("invalid position input")
	ErrPositionNotFound     = errors.New("position not found")

	ErrConflict = errors.New("succession record conflict")
)
