package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// DefaultDepartureClock is used when neither the request nor the first stop
// carries a departure time.
const DefaultDepartureClock = "08:00"

// TripService materializes trips from route schedules: exactly one trip per
// (route, departure time), created lazily the first time a date is booked.
type TripService struct {
	Routes repositories.RouteRepository
	Trips  repositories.TripRepository

	RequestID string

	// Optional overrides for tests.
	FindTrip   func(routeID int64, departure time.Time) (models.Trip, error)
	InsertTrip func(t models.Trip) (models.Trip, error)
}

func (s TripService) findTrip(routeID int64, departure time.Time) (models.Trip, error) {
	if s.FindTrip != nil {
		return s.FindTrip(routeID, departure)
	}
	return s.Trips.FindByRouteAndDeparture(routeID, departure)
}

func (s TripService) insertTrip(t models.Trip) (models.Trip, error) {
	if s.InsertTrip != nil {
		return s.InsertTrip(t)
	}
	return s.Trips.Insert(t)
}

// FindOrCreateTrip resolves the trip for (route, travel date, departure
// time), creating it only when absent. The route must belong to the company;
// a foreign or missing route is a not-found, never a trip on someone else's
// line. The lookup is an idempotent read; the insert leans on the trips
// unique key, and a duplicate-entry loss re-fetches the winning row once
// before giving up.
func (s TripService) FindOrCreateTrip(routeID int64, travelDate, departureClock string, companyID int64) (models.Trip, error) {
	if _, err := s.Routes.GetByID(routeID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "route", Err: err}
		}
		return models.Trip{}, domain.InternalError{Msg: "route lookup failed", Err: err}
	}

	clock := strings.TrimSpace(departureClock)
	if clock == "" {
		first, err := s.Routes.FirstStop(routeID)
		switch {
		case err == nil && strings.TrimSpace(first.DepartureTime) != "":
			clock = strings.TrimSpace(first.DepartureTime)
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			return models.Trip{}, domain.InternalError{Msg: "failed to load first stop", Err: err}
		default:
			clock = DefaultDepartureClock
		}
	}

	departure, err := utils.CombineDateClock(travelDate, clock)
	if err != nil {
		return models.Trip{}, domain.ValidationError{Field: "travelDate", Msg: fmt.Sprintf("invalid date/time %q %q", travelDate, clock), Err: err}
	}

	existing, err := s.findTrip(routeID, departure)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Trip{}, domain.InternalError{Msg: "trip lookup failed", Err: err}
	}

	return s.createTripFromRouteStops(routeID, travelDate, departure, companyID)
}

func (s TripService) createTripFromRouteStops(routeID int64, travelDate string, departure time.Time, companyID int64) (models.Trip, error) {
	dayOfWeek := int(departure.Weekday())
	if _, err := s.Routes.FindActiveSchedule(routeID, dayOfWeek); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.ScheduleConflictError{RouteID: routeID, DayOfWeek: dayOfWeek, DayName: utils.DayName(dayOfWeek)}
		}
		return models.Trip{}, domain.InternalError{Msg: "schedule lookup failed", Err: err}
	}

	stops, err := s.Routes.ListStops(routeID)
	if err != nil {
		return models.Trip{}, domain.InternalError{Msg: "stops lookup failed", Err: err}
	}
	if len(stops) == 0 {
		return models.Trip{}, domain.NoStopsError{RouteID: routeID}
	}

	// Arrival proxy: the first stop's own time on the travel date when set,
	// else departure + 2h. A real version would take route duration input.
	arrival := departure.Add(2 * time.Hour)
	for _, stop := range stops {
		if stop.Seq == 1 && strings.TrimSpace(stop.DepartureTime) != "" {
			if t, err := utils.CombineDateClock(travelDate, stop.DepartureTime); err == nil {
				arrival = t
			}
			break
		}
	}

	trip := models.Trip{
		RouteID:              routeID,
		CompanyID:            companyID,
		DepartureTime:        departure,
		EstimatedArrivalTime: arrival,
		Status:               models.TripScheduled,
		IsAutoGenerated:      true,
		// Vehicles are assigned later by an operator; seats stay zero until then.
	}

	created, err := s.insertTrip(trip)
	if err == nil {
		utils.LogEvent(s.RequestID, "trip", "materialized", fmt.Sprintf("route_id=%d departure=%s", routeID, departure.Format(time.RFC3339)))
		return created, nil
	}
	if !errors.Is(err, repositories.ErrDuplicateTrip) {
		return models.Trip{}, domain.InternalError{Msg: "trip creation failed", Err: err}
	}

	// Lost the insert race: the unique key guarantees the winner exists now.
	utils.LogEvent(s.RequestID, "trip", "materialize_race", fmt.Sprintf("route_id=%d departure=%s", routeID, departure.Format(time.RFC3339)))
	winner, err := s.findTrip(routeID, departure)
	if err != nil {
		return models.Trip{}, domain.ConflictError{Resource: "trip", Msg: "concurrent trip creation detected", Err: err}
	}
	return winner, nil
}

// TripVehicleInput describes one vehicle assignment on manual trip creation.
type TripVehicleInput struct {
	VehicleID         int64  `json:"vehicleId" binding:"required"`
	Capacity          int    `json:"capacity" binding:"required,gt=0"`
	PrimaryDriverID   int64  `json:"primaryDriverId" binding:"required"`
	SecondaryDriverID *int64 `json:"secondaryDriverId"`
}

// CreateTripInput is the manual (operator) trip creation payload.
type CreateTripInput struct {
	RouteID              int64              `json:"routeId" binding:"required"`
	DepartureTime        string             `json:"departureTime" binding:"required"`
	EstimatedArrivalTime string             `json:"estimatedArrivalTime" binding:"required"`
	BasePrice            int64              `json:"basePrice"`
	Observations         string             `json:"observations"`
	Vehicles             []TripVehicleInput `json:"vehicles" binding:"required,min=1"`
}

// CreateTrip persists an operator-defined trip with its vehicles. Total
// seats come from the summed capacities; available starts equal to total.
func (s TripService) CreateTrip(in CreateTripInput, companyID int64) (models.Trip, error) {
	if _, err := s.Routes.GetByID(in.RouteID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "route", Err: err}
		}
		return models.Trip{}, domain.InternalError{Msg: "route lookup failed", Err: err}
	}

	departure, err := time.ParseInLocation(time.RFC3339, strings.TrimSpace(in.DepartureTime), time.Local)
	if err != nil {
		return models.Trip{}, domain.ValidationError{Field: "departureTime", Msg: "must be RFC 3339", Err: err}
	}
	arrival, err := time.ParseInLocation(time.RFC3339, strings.TrimSpace(in.EstimatedArrivalTime), time.Local)
	if err != nil {
		return models.Trip{}, domain.ValidationError{Field: "estimatedArrivalTime", Msg: "must be RFC 3339", Err: err}
	}

	totalSeats := 0
	for _, v := range in.Vehicles {
		totalSeats += v.Capacity
	}

	trip := models.Trip{
		RouteID:              in.RouteID,
		CompanyID:            companyID,
		DepartureTime:        departure,
		EstimatedArrivalTime: arrival,
		Status:               models.TripScheduled,
		TotalSeats:           totalSeats,
		AvailableSeats:       totalSeats,
		BasePrice:            in.BasePrice,
		Observations:         in.Observations,
	}

	created, err := s.insertTrip(trip)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateTrip) {
			return models.Trip{}, domain.ConflictError{Resource: "trip", Msg: "a trip already exists for this route and departure time"}
		}
		return models.Trip{}, domain.InternalError{Msg: "trip creation failed", Err: err}
	}

	for _, v := range in.Vehicles {
		if _, err := s.Trips.InsertVehicle(models.TripVehicle{
			TripID:            created.ID,
			VehicleID:         v.VehicleID,
			Capacity:          v.Capacity,
			PrimaryDriverID:   v.PrimaryDriverID,
			SecondaryDriverID: v.SecondaryDriverID,
			IsActive:          true,
		}); err != nil {
			return models.Trip{}, domain.InternalError{Msg: "vehicle assignment failed", Err: err}
		}
	}

	utils.LogEvent(s.RequestID, "trip", "created", fmt.Sprintf("trip_id=%d route_id=%d seats=%d", created.ID, in.RouteID, totalSeats))
	return created, nil
}

// GetTrip returns one trip scoped to the company.
func (s TripService) GetTrip(tripID, companyID int64) (models.Trip, error) {
	trip, err := s.Trips.GetByID(tripID, companyID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return models.Trip{}, domain.InternalError{Msg: "trip lookup failed", Err: err}
	}
	return trip, nil
}

// StartTrip marks the trip in progress and stamps the actual departure.
func (s TripService) StartTrip(tripID, companyID int64) (models.Trip, error) {
	now := time.Now()
	return s.transition(tripID, companyID, models.TripInProgress, &now, nil)
}

// CompleteTrip marks the trip completed and stamps the actual arrival.
func (s TripService) CompleteTrip(tripID, companyID int64) (models.Trip, error) {
	now := time.Now()
	return s.transition(tripID, companyID, models.TripCompleted, nil, &now)
}

// CancelTrip marks the trip cancelled. Tickets keep their own lifecycle.
func (s TripService) CancelTrip(tripID, companyID int64) (models.Trip, error) {
	return s.transition(tripID, companyID, models.TripCancelled, nil, nil)
}

func (s TripService) transition(tripID, companyID int64, status models.TripStatus, actualDeparture, actualArrival *time.Time) (models.Trip, error) {
	if err := s.Trips.UpdateStatus(tripID, companyID, status, actualDeparture, actualArrival); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Trip{}, domain.NotFoundError{Resource: "trip", Err: err}
		}
		return models.Trip{}, domain.InternalError{Msg: "trip status update failed", Err: err}
	}
	trip, err := s.Trips.GetByID(tripID, companyID)
	if err != nil {
		return models.Trip{}, domain.InternalError{Msg: "trip reload failed", Err: err}
	}
	utils.LogEvent(s.RequestID, "trip", "status_"+string(status), fmt.Sprintf("trip_id=%d", tripID))
	return trip, nil
}
