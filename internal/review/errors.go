package review

import "errors"

var (
	// ErrInvalidAction is returned when an action does not apply to the task's
	// current outcome or the candidate does not belong to the task.
	ErrInvalidAction = errors.New("action not valid for this task")
	// ErrInFlight is returned when the same action is already outstanding.
	ErrInFlight = errors.New("action already in progress")
	// ErrTaskNotFound is returned when the task is not on the displayed page.
	ErrTaskNotFound = errors.New("task not on current page")
	// ErrReviewFilterUnavailable is returned when a review-status filter is set
	// outside the SIMILAR outcome.
	ErrReviewFilterUnavailable = errors.New("review filter only applies to SIMILAR outcome")
	// ErrUnknownFilter is returned for an unknown filter dimension or value.
	ErrUnknownFilter = errors.New("unknown filter")
	// ErrNoForm is returned when submitting with no correction form open.
	ErrNoForm = errors.New("no correction form open")
	// ErrNoBatch is returned when no valid batch id was given.
	ErrNoBatch = errors.New("no batch selected")
	// ErrPageOutOfRange is returned by SetPage for an index past the last page.
	ErrPageOutOfRange = errors.New("page out of range")
)
