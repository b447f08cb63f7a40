package profile

import (
	"time"

	"github.com/shopspring/decimal"
)

// Role enum
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleEmployee   Role = "Employee"
	RoleFreelancer Role = "Freelancer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleFreelancer:
		return true
	}
	return false
}

// Profile is a user of the system. Salary and DeductionAmount apply to Employees,
// WalletBalance to Freelancers.
type Profile struct {
	ID              string
	FullName        string
	Email           string
	Role            Role
	Salary          decimal.Decimal
	DeductionAmount decimal.Decimal
	PaidLeaves      int
	// WalletBalance caches the signed sum of the user's wallet transactions.
	WalletBalance decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
