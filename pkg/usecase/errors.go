package usecase

import "errors"

// Sentinel errors for the use case layer. The HTTP controller maps these to
// status codes: invalid input to 400, missing records to 404, transition
// violations to 409, store failures to 503.
var (
	ErrQueryTooShort      = errors.New("search query must be at least 2 characters")
	ErrInvalidTransition  = errors.New("invalid submission status transition")
	ErrModeratorRequired  = errors.New("moderator identity required")
	ErrStoreUnavailable   = errors.New("backing store unavailable")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSyncAlreadyRunning = errors.New("reconciliation already in progress")
)
