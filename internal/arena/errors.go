package arena

import "errors"

// Validation errors: reported to the invoking user, nothing retried.
var (
	ErrOutOfRange = errors.New("submitted rating is out of the allowed range")
)

// State-conflict errors: the operation is a no-op and core state is unchanged.
var (
	ErrAlreadyQueued   = errors.New("participant is already in the queue")
	ErrNotVerified     = errors.New("participant rating has not been verified")
	ErrQueueFull       = errors.New("queue is full")
	ErrNotQueued       = errors.New("participant is not in the queue")
	ErrMatchInProgress = errors.New("a match is already in progress")
	ErrNoOpenMatch     = errors.New("no open match to settle")
	ErrNoPendingValue  = errors.New("no pending rating to confirm")
)
