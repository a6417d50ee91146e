package errors

import "errors"

var (
	ErrInvalidApproachInput = errors.New("invalid approach input")
	ErrApproachNotFound     = errors.New("approach not found")
	ErrCycleNotFound        = errors.New("cycle not found or not active")
	ErrPositionNotFound     = errors.New("position not found or inactive")
	ErrResponseAlreadySet   = errors.New("approach response already recorded")
	ErrConflict             = errors.New("approach conflict")
)
