package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/seunits/attendance-backend-go/internal/domain/attendance"
	"github.com/seunits/attendance-backend-go/internal/domain/auth"
	"github.com/seunits/attendance-backend-go/internal/domain/employee"
	"github.com/seunits/attendance-backend-go/internal/domain/user"
	"github.com/seunits/attendance-backend-go/internal/pkg/validator"
)

// Error codes returned in ErrorDetail.Code
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeIdentityNotFound  = "IDENTITY_NOT_FOUND"
	CodePolicyViolation   = "POLICY_VIOLATION"
	CodeNoCheckInFound    = "NO_CHECK_IN_FOUND"
	CodeAlreadyCheckedOut = "ALREADY_CHECKED_OUT"
	CodeConflict          = "CONFLICT"
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrPolicyViolation):
		Fail(w, http.StatusBadRequest, CodePolicyViolation, err.Error())
	case errors.Is(err, attendance.ErrNoCheckInFound):
		Fail(w, http.StatusBadRequest, CodeNoCheckInFound, "No check-in found for today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Fail(w, http.StatusBadRequest, CodeAlreadyCheckedOut, "Already checked out")
	case errors.Is(err, attendance.ErrStoreConflict):
		Conflict(w, "Attendance record is being updated, please retry")

	// Employee domain errors
	case errors.Is(err, employee.ErrIdentityNotFound):
		Fail(w, http.StatusNotFound, CodeIdentityNotFound, "No employee found for this request")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Auth and user domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid credentials")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrEmailDomainNotAllowed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, user.ErrCallerNotInContext):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, user.ErrInsufficientRole):
		Forbidden(w, "Forbidden: insufficient role")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
