package payroll

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrNotAnEmployee    = errors.New("payroll is only computed for employees")
)
