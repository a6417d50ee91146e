package errors

import "errors"

var (
	ErrInvalidNominationInput = errors.New("invalid nomination input")
	ErrNominationNotFound     = errors.New("nomination not found")
	ErrCycleNotFound          = errors.New("cycle not found or not active")
	ErrPositionNotFound       = errors.New("position not found or inactive")
	ErrApproachMismatch       = errors.New("approach does not match the nomination")
	ErrAlreadyReviewed        = errors.New("nomination already reviewed")
	ErrConflict               = errors.New("nomination conflict")
)
