package attendance

import (
	"strings"

	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type AttendanceResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	UserName *string `json:"user_name,omitempty"`
	Date     string  `json:"date"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
	// Status is the effective status; RecordedStatus is what is stored.
	Status         Status `json:"status"`
	RecordedStatus Status `json:"recorded_status"`
}

// SetStatusRequest lets an admin override the status of (user, date).
type SetStatusRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"` // YYYY-MM-DD
	Status string `json:"status"`
}

func (r *SetStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs.Add("user_id", "user_id is required")
	} else if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if !Status(r.Status).IsValid() {
		names := make([]string, len(Statuses))
		for i, s := range Statuses {
			names[i] = string(s)
		}
		errs.Add("status", "status must be one of: "+strings.Join(names, ", "))
	}

	return errs.Err()
}

// MyAttendanceFilter selects the caller's records for one month (default: current month).
type MyAttendanceFilter struct {
	Month string `json:"month"` // YYYY-MM
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != "" {
		if _, valid := validator.IsValidMonth(f.Month); !valid {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

// DateFilter selects every record on one date (default: today).
type DateFilter struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (f *DateFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != "" {
		if _, valid := validator.IsValidDate(f.Date); !valid {
			errs.Add("date", "date must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// ========================================
// CALENDAR DTOs
// ========================================

type CalendarRequest struct {
	UserID string `json:"user_id"`
	Month  string `json:"month"` // YYYY-MM
}

func (r *CalendarRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	if r.Month != "" {
		if _, valid := validator.IsValidMonth(r.Month); !valid {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

type CalendarDay struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	// Status is empty for today without a record and for future days.
	Status   Status  `json:"status,omitempty"`
	CheckIn  *string `json:"check_in,omitempty"`
	CheckOut *string `json:"check_out,omitempty"`
}

type CalendarResponse struct {
	UserID string        `json:"user_id"`
	Month  string        `json:"month"`
	Days   []CalendarDay `json:"days"`
}

// ========================================
// DASHBOARD DTOs
// ========================================

type TodaySummaryResponse struct {
	Date           string         `json:"date"`
	TotalEmployees int            `json:"total_employees"`
	NotCheckedIn   int            `json:"not_checked_in"`
	ByStatus       map[Status]int `json:"by_status"`
}
