package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/holiday"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/task"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
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
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingClaims):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, profile.ErrNotAnEmployee),
		errors.Is(err, profile.ErrNotAFreelancer):
		Forbidden(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrDuplicateLeaveRequest):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrInsufficientPaidLeaves):
		BadRequest(w, "No paid leaves remaining", nil)

	// Holiday domain errors
	case errors.Is(err, holiday.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, holiday.ErrHolidayAlreadyExists):
		Conflict(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, payroll.ErrNotAnEmployee):
		Forbidden(w, err.Error())

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, task.ErrNotTaskAssignee):
		Forbidden(w, err.Error())
	case errors.Is(err, task.ErrInvalidAssignee):
		BadRequest(w, err.Error(), nil)

	// Wallet domain errors
	case errors.Is(err, wallet.ErrInsufficientBalance),
		errors.Is(err, wallet.ErrInvalidAmount):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
