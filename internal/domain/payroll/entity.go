package payroll

import (
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/shopspring/decimal"
)

// DayOutcome is how one day of the window affects the absence count.
type DayOutcome string

const (
	NotCounted               DayOutcome = "not_counted"
	CountedAsOneAbsence      DayOutcome = "absence"
	CountedAsCompoundAbsence DayOutcome = "compound_absence"
)

// DayClassification is the result of classifying a single day.
type DayClassification struct {
	Outcome DayOutcome
	// Absences is 0, 1, or 1 plus the number of broken Sunday promises.
	Absences int
	// BrokenPromises lists the leave dates whose compensatory Sunday was not worked.
	BrokenPromises []time.Time
}

// CalculationInput holds one employee's data for one month. Attendance and Leaves must
// already be limited to that employee.
type CalculationInput struct {
	BaseSalary      decimal.Decimal
	DeductionAmount decimal.Decimal
	Attendance      []attendance.Attendance
	Leaves          []leave.LeaveRequest
	// JoiningDate is optional; nil means the whole month is counted.
	JoiningDate *time.Time
	// Month is optional; the zero value means the current business month.
	Month clock.Month
}

// DayBreakdown explains the classification of one day in the window.
type DayBreakdown struct {
	Date time.Time
	// Status is the effective status, empty when the day has no record.
	Status         attendance.Status
	Outcome        DayOutcome
	Absences       int
	BrokenPromises []time.Time
}

// SalaryComputationResult is the derived payroll of one employee for one month.
type SalaryComputationResult struct {
	Month            clock.Month
	AbsencesCount    int
	TotalDeduction   decimal.Decimal
	FinalSalary      decimal.Decimal
	WorkingDaysCount int
	PresentCount     int
	// WindowStart and WindowEnd bound the counted days; both are nil when the window is empty.
	WindowStart *time.Time
	WindowEnd   *time.Time
	Days        []DayBreakdown
}

// Snapshot is a point-in-time copy of a computed result kept for audit.
type Snapshot struct {
	ID                  string
	UserID              string
	Month               clock.Month
	AbsencesCount       int
	TotalDeduction      decimal.Decimal
	FinalSalary         decimal.Decimal
	WorkingDaysCount    int
	PresentCount        int
	PaidLeavesUsed      int
	RemainingPaidLeaves int
	ComputedAt          time.Time

	// DTO
	UserName *string
}
