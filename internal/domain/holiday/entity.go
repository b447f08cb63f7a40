package holiday

import "time"

type Holiday struct {
	ID        string
	Date      time.Time
	Name      string
	CreatedBy string
	CreatedAt time.Time
}
