package shift

import "errors"

// Guard violations: the actor asked for a transition whose guard failed.
// Surfaced to the caller as explicit results, never retried automatically.
var (
	ErrShiftNotFound         = errors.New("shift not found")
	ErrNotYourShift          = errors.New("you can only act on your own shift")
	ErrShiftTerminal         = errors.New("shift has already reached a final status")
	ErrInvalidTransition     = errors.New("transition not allowed from the current status")
	ErrTooEarlyToCheckIn     = errors.New("too early to check in")
	ErrCannotActOnOwnShift   = errors.New("you cannot modify a shift assigned to yourself")
	ErrFounderRequired       = errors.New("only the founder can act on an admin's shift")
	ErrShiftNotStarted       = errors.New("the shift has not reached its scheduled start yet")
	ErrManagerAccessRequired = errors.New("only an admin or the founder can perform this action")

	// GPS failures during check-in. Recoverable: no state mutation occurs
	// and the caller may retry once a position is available.
	ErrGpsUnavailable      = errors.New("current position unavailable")
	ErrGpsPermissionDenied = errors.New("location permission denied")

	// Break math with no break configured.
	ErrNoBreak = errors.New("shift has no break configured")
)

// guardViolations are the errors the UI should render as "you can't do
// that" rather than "try again".
var guardViolations = []error{
	ErrNotYourShift,
	ErrShiftTerminal,
	ErrInvalidTransition,
	ErrTooEarlyToCheckIn,
	ErrCannotActOnOwnShift,
	ErrFounderRequired,
	ErrShiftNotStarted,
	ErrManagerAccessRequired,
}

// IsGuardViolation reports whether err is a refused transition as opposed
// to a transient failure.
func IsGuardViolation(err error) bool {
	for _, g := range guardViolations {
		if errors.Is(err, g) {
			return true
		}
	}
	return false
}
