package response

import (
	"errors"
	"net/http"

	"github.com/turnilab/turni-backend-go/internal/domain/auth"
	"github.com/turnilab/turni-backend-go/internal/domain/notification"
	"github.com/turnilab/turni-backend-go/internal/domain/report"
	"github.com/turnilab/turni-backend-go/internal/domain/settings"
	"github.com/turnilab/turni-backend-go/internal/domain/shift"
	"github.com/turnilab/turni-backend-go/internal/domain/user"
	"github.com/turnilab/turni-backend-go/internal/pkg/timewindow"
	"github.com/turnilab/turni-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Auth domain errors
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "User not found")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "User account is deactivated")
	case errors.Is(err, user.ErrFounderAccessRequired):
		Forbidden(w, "Founder access required")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, shift.ErrShiftTerminal):
		Conflict(w, "Shift has already reached a final status")
	case errors.Is(err, shift.ErrInvalidTransition):
		Conflict(w, "Transition not allowed from the current status")
	case errors.Is(err, shift.ErrTooEarlyToCheckIn):
		Conflict(w, "Too early to check in")
	case errors.Is(err, shift.ErrShiftNotStarted):
		Conflict(w, "The shift has not reached its scheduled start yet")
	case errors.Is(err, shift.ErrGpsUnavailable):
		BadRequest(w, "Current position unavailable", nil)
	case errors.Is(err, shift.ErrGpsPermissionDenied):
		BadRequest(w, "Location permission denied", nil)
	case shift.IsGuardViolation(err):
		Forbidden(w, err.Error())
	case errors.Is(err, timewindow.ErrBreakOutsideShift):
		ValidationError(w, map[string]string{"break": "break interval falls outside the shift span"})

	// Report domain errors
	case errors.Is(err, report.ErrInvalidKind):
		BadRequest(w, "Invalid report kind", nil)
	case errors.Is(err, report.ErrFounderRequired):
		Forbidden(w, "Founder role required for this report")
	case errors.Is(err, report.ErrNotYourReport):
		Forbidden(w, "Collaborators may only read their own report")

	// Settings domain errors
	case errors.Is(err, settings.ErrRateConfigNotFound):
		NotFound(w, "Rate config not found")

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, notification.ErrUnauthorized):
		Forbidden(w, "Unauthorized to access this notification")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
