package holiday

import "context"

type HolidayService interface {
	// Create stores the holiday and marks every employee Off on that date.
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)

	// Delete removes the holiday and the Off records it created.
	Delete(ctx context.Context, id string) (HolidayResponse, error)

	List(ctx context.Context, filter HolidayFilter) ([]HolidayResponse, error)
}
