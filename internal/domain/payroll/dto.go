package payroll

import (
	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type MonthFilter struct {
	Month string `json:"month"` // YYYY-MM, default current month
}

func (f *MonthFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Month != "" {
		if _, valid := validator.IsValidMonth(f.Month); !valid {
			errs.Add("month", "month must be in YYYY-MM format")
		}
	}

	return errs.Err()
}

type EmployeePayrollRequest struct {
	UserID string `json:"user_id"`
	Month  string `json:"month"`
}

func (r *EmployeePayrollRequest) Validate() error {
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

type DayResponse struct {
	Date           string            `json:"date"`
	Weekday        string            `json:"weekday"`
	Status         attendance.Status `json:"status,omitempty"`
	Outcome        DayOutcome        `json:"outcome"`
	Absences       int               `json:"absences"`
	BrokenPromises []string          `json:"broken_promises,omitempty"`
}

type EmployeePayrollResponse struct {
	UserID           string          `json:"user_id"`
	FullName         string          `json:"full_name"`
	Month            string          `json:"month"`
	BaseSalary       decimal.Decimal `json:"base_salary"`
	DeductionAmount  decimal.Decimal `json:"deduction_amount"`
	AbsencesCount    int             `json:"absences_count"`
	TotalDeduction   decimal.Decimal `json:"total_deduction"`
	FinalSalary      decimal.Decimal `json:"final_salary"`
	WorkingDaysCount int             `json:"working_days_count"`
	PresentCount     int             `json:"present_count"`
	WindowStart      *string         `json:"window_start,omitempty"`
	WindowEnd        *string         `json:"window_end,omitempty"`
	JoiningDate      *string         `json:"joining_date,omitempty"`
	Days             []DayResponse   `json:"days,omitempty"`
}

type MonthlyReportResponse struct {
	Month            string                    `json:"month"`
	WeeklyRestPolicy string                    `json:"weekly_rest_policy"`
	EmployeeCount    int                       `json:"employee_count"`
	TotalBaseSalary  decimal.Decimal           `json:"total_base_salary"`
	TotalDeduction   decimal.Decimal           `json:"total_deduction"`
	TotalFinalSalary decimal.Decimal           `json:"total_final_salary"`
	TotalAbsences    int                       `json:"total_absences"`
	GeneratedAt      string                    `json:"generated_at"`
	Employees        []EmployeePayrollResponse `json:"employees"`
}

type SnapshotResponse struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"user_id"`
	UserName            *string         `json:"user_name,omitempty"`
	Month               string          `json:"month"`
	AbsencesCount       int             `json:"absences_count"`
	TotalDeduction      decimal.Decimal `json:"total_deduction"`
	FinalSalary         decimal.Decimal `json:"final_salary"`
	WorkingDaysCount    int             `json:"working_days_count"`
	PresentCount        int             `json:"present_count"`
	PaidLeavesUsed      int             `json:"paid_leaves_used"`
	RemainingPaidLeaves int             `json:"remaining_paid_leaves"`
	// Snapshots do not follow later attendance edits.
	PointInTime bool   `json:"point_in_time"`
	ComputedAt  string `json:"computed_at"`
}
