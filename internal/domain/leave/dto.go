package leave

import (
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	Date           string `json:"date"` // YYYY-MM-DD
	Reason         string `json:"reason"`
	WillWorkSunday bool   `json:"will_work_sunday"`
	IsPaidLeave    bool   `json:"is_paid_leave"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if date, valid := validator.IsValidDate(r.Date); !valid {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	} else if r.WillWorkSunday && date.Weekday() == time.Sunday {
		errs.Add("will_work_sunday", "a Sunday leave cannot be compensated by working Sunday")
	}

	if validator.IsEmpty(r.Reason) {
		errs.Add("reason", "reason is required")
	} else if len(r.Reason) > 500 {
		errs.Add("reason", "reason must not exceed 500 characters")
	}

	return errs.Err()
}

// ListFilter narrows the admin listing. Empty fields match everything.
type ListFilter struct {
	Status string `json:"status"`
	Month  string `json:"month"` // YYYY-MM
	UserID string `json:"user_id"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !Status(f.Status).IsValid() {
		errs.Add("status", "status must be one of: Pending, Approved, Rejected")
	}

	if f.Month != "" {
		if _, valid := validator.IsValidMonth(f.Month); !valid {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}

	if f.UserID != "" && !validator.IsValidUUID(f.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	UserName       *string `json:"user_name,omitempty"`
	Date           string  `json:"date"`
	Reason         string  `json:"reason"`
	Status         Status  `json:"status"`
	WillWorkSunday bool    `json:"will_work_sunday"`
	IsPaidLeave    bool    `json:"is_paid_leave"`
	// CompensatorySunday is the Sunday the user promised to work, if any.
	CompensatorySunday *string `json:"compensatory_sunday,omitempty"`
	ReviewedBy         *string `json:"reviewed_by,omitempty"`
	ReviewedAt         *string `json:"reviewed_at,omitempty"`
	CreatedAt          string  `json:"created_at"`
}
