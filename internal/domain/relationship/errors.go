package relationship

import "errors"

var (
	// ErrInvalidTarget is returned when an operation targets the acting user itself.
	ErrInvalidTarget = errors.New("cannot perform this action on yourself")

	// ErrAlreadyRelated is returned when a friendship record already exists
	// between the pair, in either direction and either status.
	ErrAlreadyRelated = errors.New("already friends or request pending")

	// ErrBlocked is returned when a block in either direction forbids the operation.
	ErrBlocked = errors.New("blocked")

	// ErrNotFound is returned when the relation no longer exists.
	ErrNotFound = errors.New("relation not found")

	// ErrForbidden is returned when the actor is not a party to the relation.
	ErrForbidden = errors.New("not a party to this relation")

	// ErrStoreUnavailable wraps transient store failures; callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)
