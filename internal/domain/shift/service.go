package shift

import (
	"context"
)

// ShiftService defines the business operations over shifts. Every method
// derives its Actor from the caller's JWT claims.
type ShiftService interface {
	// Create assigns one shift per collaborator in the request.
	Create(ctx context.Context, req CreateShiftRequest) ([]ShiftResponse, error)

	Get(ctx context.Context, id string) (ShiftResponse, error)
	List(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)
	GetMy(ctx context.Context, filter ShiftFilter) (ListShiftResponse, error)

	// Transitions lists the events the caller may fire on the shift now.
	Transitions(ctx context.Context, id string) ([]Event, error)

	Accept(ctx context.Context, id string) (ShiftResponse, error)
	Reject(ctx context.Context, id string) (ShiftResponse, error)
	CheckIn(ctx context.Context, req CheckInRequest) (ShiftResponse, error)
	CheckOut(ctx context.Context, id string) (ShiftResponse, error)
	ForceComplete(ctx context.Context, id string) (ShiftResponse, error)
	EmergencyStop(ctx context.Context, id string) (ShiftResponse, error)

	Update(ctx context.Context, req UpdateShiftRequest) (ShiftResponse, error)
	Delete(ctx context.Context, id string) error
}
