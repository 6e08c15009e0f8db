package nace

import "errors"

var (
	// ErrInvalidCode means the queried code does not normalize to 6 digits
	ErrInvalidCode = errors.New("invalid classification code format")

	// ErrCodeNotFound means no exact table entry exists for the code
	ErrCodeNotFound = errors.New("classification code not found")
)
