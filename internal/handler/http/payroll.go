package http

import (
	"net/http"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/bizops-hq/bizops-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	GetMyPayroll(w http.ResponseWriter, r *http.Request)
	GetEmployeePayroll(w http.ResponseWriter, r *http.Request)
	MonthlyReport(w http.ResponseWriter, r *http.Request)
	CreateSnapshots(w http.ResponseWriter, r *http.Request)
	ListSnapshots(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func monthFilter(r *http.Request) payroll.MonthFilter {
	return payroll.MonthFilter{Month: r.URL.Query().Get("month")}
}

// GetMyPayroll implements PayrollHandler.
func (h *payrollHandlerImpl) GetMyPayroll(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetMyPayroll(r.Context(), monthFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetEmployeePayroll implements PayrollHandler.
func (h *payrollHandlerImpl) GetEmployeePayroll(w http.ResponseWriter, r *http.Request) {
	req := payroll.EmployeePayrollRequest{
		UserID: chi.URLParam(r, "userId"),
		Month:  r.URL.Query().Get("month"),
	}

	result, err := h.payrollService.CalculateForEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MonthlyReport implements PayrollHandler.
func (h *payrollHandlerImpl) MonthlyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.payrollService.MonthlyReport(r.Context(), monthFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// CreateSnapshots implements PayrollHandler.
func (h *payrollHandlerImpl) CreateSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.payrollService.SnapshotMonth(r.Context(), monthFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary snapshots stored", snapshots)
}

// ListSnapshots implements PayrollHandler.
func (h *payrollHandlerImpl) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.payrollService.ListSnapshots(r.Context(), monthFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, snapshots)
}
