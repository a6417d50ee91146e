package errors

import "errors"

var (
	ErrInvalidMeetingInput      = errors.New("invalid meeting input")
	ErrMeetingNotFound          = errors.New("meeting not found")
	ErrInvalidMeetingTransition = errors.New("invalid meeting status transition")
	ErrMeetingNotOpen           = errors.New("meeting is not open for voting")

	ErrInvalidVoteInput = errors.New("invalid vote input")
	ErrVoterNotEligible = errors.New("voter is not eligible in this cycle")
	ErrNomineeNotOnBallot = errors.New("nominee has no approved nomination in this cycle")

	ErrCycleNotFound    = errors.New("cycle not found")
	ErrPositionNotFound = errors.New("position not found")

	ErrConflict = errors.New("ballot record conflict")
)
