package services

import (
	"fmt"

	"busline/internal/domain"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// SeatService keeps a trip's seat counters consistent. Recomputation is
// explicit: callers invoke it after any booking, cancellation or confirmation
// that changes the active ticket count.
type SeatService struct {
	Trips   repositories.TripRepository
	Tickets repositories.TicketRepository

	RequestID string
}

// Recompute derives totalSeats from assigned vehicle capacities and
// availableSeats from the active ticket count, then persists both. An
// oversold trip (active tickets above capacity) is persisted at zero
// available and flagged with CapacityExceededError, never stored negative.
func (s SeatService) Recompute(tripID int64) (totalSeats, availableSeats int, err error) {
	totalSeats, err = s.Trips.SumActiveVehicleCapacity(tripID)
	if err != nil {
		return 0, 0, domain.InternalError{Msg: "capacity sum failed", Err: err}
	}

	active, err := s.Tickets.CountActiveByTrip(tripID)
	if err != nil {
		return 0, 0, domain.InternalError{Msg: "active ticket count failed", Err: err}
	}

	availableSeats = totalSeats - active
	oversold := availableSeats < 0
	if oversold {
		availableSeats = 0
	}

	if err := s.Trips.UpdateSeats(tripID, totalSeats, availableSeats); err != nil {
		return 0, 0, domain.InternalError{Msg: "seat update failed", Err: err}
	}

	if oversold {
		utils.LogEvent(s.RequestID, "seats", "oversold", fmt.Sprintf("trip_id=%d total=%d active=%d", tripID, totalSeats, active))
		return totalSeats, availableSeats, domain.CapacityExceededError{TripID: tripID, TotalSeats: totalSeats, ActiveTickets: active}
	}
	return totalSeats, availableSeats, nil
}
