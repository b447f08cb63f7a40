package payroll

import (
	"fmt"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Calculator turns one employee's month of attendance and leave into a salary.
// It does no I/O and is safe for concurrent use.
type Calculator struct {
	clock  *clock.Business
	policy payroll.WeeklyRestPolicy
}

func NewCalculator(clk *clock.Business, policy payroll.WeeklyRestPolicy) *Calculator {
	if policy == nil {
		policy = payroll.NoWeeklyRest{}
	}
	return &Calculator{clock: clk, policy: policy}
}

// Policy returns the weekly rest policy in use.
func (c *Calculator) Policy() payroll.WeeklyRestPolicy {
	return c.policy
}

// Calculate walks every day from max(joining date, month start) to min(today, month end)
// and counts absences on the effective status of each day.
func (c *Calculator) Calculate(in payroll.CalculationInput) (payroll.SalaryComputationResult, error) {
	if err := validateInput(in); err != nil {
		return payroll.SalaryComputationResult{}, err
	}

	today := c.clock.Today()
	month := in.Month
	if month.IsZero() {
		month = clock.MonthOf(today)
	}

	start := month.Start()
	if in.JoiningDate != nil {
		if joined := clock.Date(*in.JoiningDate); joined.After(start) {
			start = joined
		}
	}
	end := month.End()
	if today.Before(end) {
		end = today
	}

	statuses := make(map[string]attendance.Status, len(in.Attendance))
	presentCount := 0
	for _, record := range in.Attendance {
		record.Date = clock.Date(record.Date)
		effective := attendance.Effective(record, today)
		statuses[clock.DateKey(record.Date)] = effective.Status

		if effective.Status == attendance.StatusPresent && !record.Date.Before(start) && !record.Date.After(end) {
			presentCount++
		}
	}

	result := payroll.SalaryComputationResult{
		Month:        month,
		PresentCount: presentCount,
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		status := statuses[clock.DateKey(day)]
		class := c.ClassifyDay(day, status, in.Leaves)

		result.WorkingDaysCount++
		result.AbsencesCount += class.Absences
		result.Days = append(result.Days, payroll.DayBreakdown{
			Date:           day,
			Status:         status,
			Outcome:        class.Outcome,
			Absences:       class.Absences,
			BrokenPromises: class.BrokenPromises,
		})
	}

	if result.WorkingDaysCount > 0 {
		windowStart, windowEnd := start, end
		result.WindowStart = &windowStart
		result.WindowEnd = &windowEnd
	}

	result.TotalDeduction = in.DeductionAmount.Mul(decimal.NewFromInt(int64(result.AbsencesCount)))
	result.FinalSalary = decimal.Max(decimal.Zero, in.BaseSalary.Sub(result.TotalDeduction))

	return result, nil
}

// ClassifyDay decides how one day counts. status is the day's effective status, empty
// when there is no record. leaves are the employee's leave requests in any status.
func (c *Calculator) ClassifyDay(day time.Time, status attendance.Status, leaves []leave.LeaveRequest) payroll.DayClassification {
	switch status {
	case attendance.StatusPresent, attendance.StatusPaidOff, attendance.StatusOff:
		return payroll.DayClassification{Outcome: payroll.NotCounted}
	}

	day = clock.Date(day)
	if day.Weekday() == time.Sunday {
		// Reaching here the Sunday was not worked, so every promise for it is broken.
		var broken []time.Time
		for _, l := range leaves {
			if l.IsSundayPromise() && clock.NextSunday(l.Date).Equal(day) {
				broken = append(broken, clock.Date(l.Date))
			}
		}
		if len(broken) > 0 {
			return payroll.DayClassification{
				Outcome:        payroll.CountedAsCompoundAbsence,
				Absences:       1 + len(broken),
				BrokenPromises: broken,
			}
		}
	}

	if c.policy.IsRestDay(day) {
		return payroll.DayClassification{Outcome: payroll.NotCounted}
	}

	return payroll.DayClassification{Outcome: payroll.CountedAsOneAbsence, Absences: 1}
}

func validateInput(in payroll.CalculationInput) error {
	var errs validator.ValidationErrors

	if in.BaseSalary.IsNegative() {
		errs.Add("base_salary", "base_salary must not be negative")
	}
	if in.DeductionAmount.IsNegative() {
		errs.Add("deduction_amount", "deduction_amount must not be negative")
	}

	if !in.Month.IsZero() && (in.Month.Month < time.January || in.Month.Month > time.December || in.Month.Year < 1) {
		errs.Add("month", "month is invalid")
	}

	if in.JoiningDate != nil && in.JoiningDate.IsZero() {
		errs.Add("joining_date", "joining_date must be a valid date when set")
	}

	seen := make(map[string]int, len(in.Attendance))
	for i, record := range in.Attendance {
		field := fmt.Sprintf("attendance[%d]", i)
		if record.Date.IsZero() {
			errs.Add(field+".date", "date is required")
			continue
		}
		if !record.Status.IsValid() {
			errs.Add(field+".status", fmt.Sprintf("unknown status %q", record.Status))
		}
		key := clock.DateKey(record.Date)
		if j, dup := seen[key]; dup {
			errs.Add(field+".date", fmt.Sprintf("%s already recorded at attendance[%d]", key, j))
		}
		seen[key] = i
	}

	for i, l := range in.Leaves {
		if l.Date.IsZero() {
			errs.Add(fmt.Sprintf("leaves[%d].date", i), "date is required")
		}
	}

	return errs.Err()
}
