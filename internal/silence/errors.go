package silence

import "errors"

// Error kinds surfaced by detection. Callers match them with errors.Is;
// returned errors wrap these with context about the failing input.
var (
	// ErrInvalidConfiguration reports a percentile outside [0,100] or a
	// duration that is non-positive (or rounds to zero samples).
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmptyInputSignal reports an input with no samples, or with no
	// samples above zero from which a threshold can be estimated.
	ErrEmptyInputSignal = errors.New("empty input signal")

	// ErrDegenerateIntervalSet reports a silence interval set that cannot be
	// inverted (unsorted, overlapping, out of range) or an inversion that
	// would keep nothing at all.
	ErrDegenerateIntervalSet = errors.New("degenerate interval set")
)
