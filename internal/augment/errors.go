package augment

import "errors"

// Sentinel errors returned by the group transforms. All of them indicate a
// misconfigured transform or a malformed group; none are retryable.
var (
	// ErrLengthMismatch is returned when a per-element parameter sequence
	// does not have one entry per group element.
	ErrLengthMismatch = errors.New("per-element parameter length mismatch")

	// ErrShapeMismatch is returned when a group element's (H, W) differs
	// from the first element's.
	ErrShapeMismatch = errors.New("group shape mismatch")

	// ErrBroadcast is returned when normalization statistics or a border
	// fill cannot be broadcast over an element's channel axis.
	ErrBroadcast = errors.New("cannot broadcast statistics over channels")
)
