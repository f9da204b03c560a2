package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the
// database, and also when a self-service auth code does not match. The two
// cases must be indistinguishable to callers.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a unique constraint.
var ErrDuplicate = errors.New("duplicate")

// ErrKeyAssigned is returned when an update would reassign a prize key that
// already belongs to a claim. Key assignments are immutable.
var ErrKeyAssigned = errors.New("key already assigned")
