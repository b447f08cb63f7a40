package holiday

import (
	"context"
	"time"
)

type HolidayRepository interface {
	// Create returns ErrHolidayAlreadyExists when the date is taken.
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	GetByID(ctx context.Context, id string) (Holiday, error)
	Delete(ctx context.Context, id string) error
	ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
}
