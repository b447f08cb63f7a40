package attendance

import (
	"time"
)

// Status enum
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusHalfDay Status = "Half Day"
	StatusPaidOff Status = "Paid Off"
	StatusOff     Status = "Off"
	StatusHoliday Status = "Holiday"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusHalfDay, StatusPaidOff, StatusOff, StatusHoliday}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Attendance is one user's record for one business date. (UserID, Date) is unique.
type Attendance struct {
	ID     string
	UserID string
	// Date is the business date at midnight UTC.
	Date      time.Time
	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	UserName *string
}
