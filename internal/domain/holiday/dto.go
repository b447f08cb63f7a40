package holiday

import (
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
)

type CreateHolidayRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Name string `json:"name"`
}

func (r *CreateHolidayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 100 {
		errs.Add("name", "name must not exceed 100 characters")
	}

	return errs.Err()
}

type HolidayFilter struct {
	Month string `json:"month"` // YYYY-MM, default current month
}

func (f *HolidayFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != "" {
		if _, valid := validator.IsValidMonth(f.Month); !valid {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

type HolidayResponse struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Name    string `json:"name"`
	// EmployeesMarked is set on create and delete only.
	EmployeesMarked *int64 `json:"employees_marked,omitempty"`
}
