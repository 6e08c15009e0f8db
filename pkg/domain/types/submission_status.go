package types

import "fmt"

// SubmissionStatus represents the moderation state of a user risk submission
type SubmissionStatus string

const (
	SubmissionStatusPending  SubmissionStatus = "pending"
	SubmissionStatusApproved SubmissionStatus = "approved"
	SubmissionStatusRejected SubmissionStatus = "rejected"
)

// AllSubmissionStatuses returns all valid submission statuses
func AllSubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{
		SubmissionStatusPending,
		SubmissionStatusApproved,
		SubmissionStatusRejected,
	}
}

// IsValid checks if the submission status is valid
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusPending, SubmissionStatusApproved, SubmissionStatusRejected:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status permits no further transition
func (s SubmissionStatus) IsTerminal() bool {
	return s == SubmissionStatusApproved || s == SubmissionStatusRejected
}

// String returns the string representation of the submission status
func (s SubmissionStatus) String() string {
	return string(s)
}

// ParseSubmissionStatus parses a string into a SubmissionStatus
func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	status := SubmissionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid submission status: %s", s)
	}
	return status, nil
}
