package payroll

import "context"

type PayrollService interface {
	// GetMyPayroll computes the authenticated employee's salary for a month
	GetMyPayroll(ctx context.Context, filter MonthFilter) (EmployeePayrollResponse, error)

	// CalculateForEmployee computes one employee's salary for a month (admin)
	CalculateForEmployee(ctx context.Context, req EmployeePayrollRequest) (EmployeePayrollResponse, error)

	// MonthlyReport computes every employee's salary for a month (admin)
	MonthlyReport(ctx context.Context, filter MonthFilter) (MonthlyReportResponse, error)

	// SnapshotMonth stores a point-in-time copy of the monthly report (admin)
	SnapshotMonth(ctx context.Context, filter MonthFilter) ([]SnapshotResponse, error)

	ListSnapshots(ctx context.Context, filter MonthFilter) ([]SnapshotResponse, error)
}
