package ledger

import "errors"

// Error taxonomy. Handlers map these onto HTTP statuses; wrap with
// fmt.Errorf("%w: ...") to add detail.
var (
	// ErrValidation marks malformed or missing input. No state change.
	ErrValidation = errors.New("validation failed")
	// ErrConflict marks a forbidden edit/delete, e.g. on a loan that
	// already has transactions. No state change.
	ErrConflict = errors.New("conflict")
	// ErrNotFound marks a reference to a nonexistent record.
	ErrNotFound = errors.New("not found")
)
