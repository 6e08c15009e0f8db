package interfaces

import "errors"

// ErrNotFound is returned by every store backend when a requested record
// does not exist. Callers distinguish it from outages with errors.Is.
var ErrNotFound = errors.New("record not found")
