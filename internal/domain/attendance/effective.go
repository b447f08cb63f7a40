package attendance

import "time"

// Effective returns the record as it should be read on business date today.
// A Present record that was never checked out becomes Absent once its day is over.
// The stored record is never changed.
func Effective(a Attendance, today time.Time) Attendance {
	if a.Status == StatusPresent && a.CheckOut == nil && a.Date.Before(today) {
		a.Status = StatusAbsent
	}
	return a
}

// EffectiveAll applies Effective to every record and returns a new slice.
func EffectiveAll(records []Attendance, today time.Time) []Attendance {
	out := make([]Attendance, len(records))
	for i, r := range records {
		out[i] = Effective(r, today)
	}
	return out
}
