package domain

import "errors"

// ErrNotFound reports a missing job, rule, or record. Callers distinguish it
// from validation outcomes, which are data rather than errors.
var ErrNotFound = errors.New("not found")
