package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"
)

// BookingInput is the book-by-route-and-date payload.
type BookingInput struct {
	RouteID       int64  `json:"routeId" binding:"required"`
	TravelDate    string `json:"travelDate" binding:"required"`
	DepartureTime string `json:"departureTime"`

	PassengerName     string `json:"passengerName" binding:"required"`
	PassengerDocument string `json:"passengerDocument"`
	PassengerPhone    string `json:"passengerPhone" binding:"required"`
	PassengerEmail    string `json:"passengerEmail"`

	SeatNumber string `json:"seatNumber"`
	Price      *int64 `json:"price"`

	Boarding models.TicketPoint `json:"boardingPoint"`
	Landing  models.TicketPoint `json:"landingPoint"`

	Observations string `json:"observations"`
}

// BookingResult pairs the persisted ticket with the trip it rode in on.
type BookingResult struct {
	Ticket models.Ticket `json:"ticket"`
	Trip   models.Trip   `json:"trip"`
}

// BookingService coordinates the integrated booking flow: tenant check →
// trip materialization → transactional capacity check + ticket persistence →
// seat recompute. Steps run strictly in that order; later steps depend on
// earlier results.
type BookingService struct {
	Routes  repositories.RouteRepository
	Tickets repositories.TicketRepository
	Trips   TripService
	Seats   SeatService

	RequestID string

	// Optional overrides for tests.
	Materialize    func(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error)
	RecomputeSeats func(tripID int64) (int, int, error)
}

func (s BookingService) materialize(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error) {
	if s.Materialize != nil {
		return s.Materialize(routeID, travelDate, departureTime, companyID)
	}
	return s.Trips.FindOrCreateTrip(routeID, travelDate, departureTime, companyID)
}

func (s BookingService) recomputeSeats(tripID int64) (int, int, error) {
	if s.RecomputeSeats != nil {
		return s.RecomputeSeats(tripID)
	}
	return s.Seats.Recompute(tripID)
}

// ScheduleTripBooking books one seat on a route for a travel date, creating
// the trip on first use. A seat-recompute failure after the ticket insert is
// logged, not fatal: the booking already succeeded.
func (s BookingService) ScheduleTripBooking(in BookingInput, companyID int64) (BookingResult, error) {
	if err := validateBookingInput(in); err != nil {
		return BookingResult{}, err
	}

	if _, err := s.Routes.GetByID(in.RouteID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return BookingResult{}, domain.NotFoundError{Resource: "route", Err: err}
		}
		return BookingResult{}, domain.InternalError{Msg: "route lookup failed", Err: err}
	}

	trip, err := s.materialize(in.RouteID, in.TravelDate, in.DepartureTime, companyID)
	if err != nil {
		return BookingResult{}, err
	}

	price := trip.BasePrice
	if in.Price != nil {
		price = *in.Price
	}

	ticket := models.Ticket{
		TripID:            trip.ID,
		CompanyID:         companyID,
		PassengerName:     strings.TrimSpace(in.PassengerName),
		PassengerDocument: strings.TrimSpace(in.PassengerDocument),
		PassengerPhone:    strings.TrimSpace(in.PassengerPhone),
		PassengerEmail:    strings.TrimSpace(in.PassengerEmail),
		SeatNumber:        strings.ToUpper(strings.TrimSpace(in.SeatNumber)),
		Price:             price,
		Status:            models.TicketReserved,
		Boarding:          normalizePoint(in.Boarding),
		Landing:           normalizePoint(in.Landing),
		Observations:      strings.TrimSpace(in.Observations),
	}

	// Capacity is only enforceable once vehicles are assigned; auto-generated
	// trips start at zero seats and accept reservations until then. The count
	// and insert share one transaction so the last seat cannot be sold twice.
	saved, active, err := s.Tickets.InsertReserving(ticket, trip.TotalSeats)
	if err != nil {
		if errors.Is(err, repositories.ErrNoSeatAvailable) {
			return BookingResult{}, domain.CapacityExceededError{TripID: trip.ID, TotalSeats: trip.TotalSeats, ActiveTickets: active}
		}
		return BookingResult{}, domain.InternalError{Msg: "ticket creation failed", Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "ticket_created", fmt.Sprintf("ticket_id=%d trip_id=%d", saved.ID, trip.ID))

	if total, available, err := s.recomputeSeats(trip.ID); err != nil {
		utils.LogEvent(s.RequestID, "booking", "seat_recompute_warning", err.Error())
	} else {
		trip.TotalSeats = total
		trip.AvailableSeats = available
	}

	return BookingResult{Ticket: saved, Trip: trip}, nil
}

func validateBookingInput(in BookingInput) error {
	if in.RouteID <= 0 {
		return domain.ValidationError{Field: "routeId", Msg: "must be positive"}
	}
	if strings.TrimSpace(in.TravelDate) == "" {
		return domain.ValidationError{Field: "travelDate", Msg: "required"}
	}
	if strings.TrimSpace(in.PassengerName) == "" {
		return domain.ValidationError{Field: "passengerName", Msg: "required"}
	}
	if strings.TrimSpace(in.PassengerPhone) == "" {
		return domain.ValidationError{Field: "passengerPhone", Msg: "required"}
	}
	if err := validatePoint("boardingPoint", in.Boarding); err != nil {
		return err
	}
	return validatePoint("landingPoint", in.Landing)
}

func validatePoint(field string, p models.TicketPoint) error {
	switch p.Type {
	case models.PointOfficialStop:
		if p.StopID == nil || *p.StopID <= 0 {
			return domain.ValidationError{Field: field, Msg: "official_stop requires stopId"}
		}
	case models.PointSpecificLocation:
		if strings.TrimSpace(p.LocationDescription) == "" {
			return domain.ValidationError{Field: field, Msg: "specific_location requires locationDescription"}
		}
	default:
		return domain.ValidationError{Field: field, Msg: "type must be official_stop or specific_location"}
	}
	return nil
}

// normalizePoint keeps only the fields that belong to the point's variant so
// responses carry a uniform location shape.
func normalizePoint(p models.TicketPoint) models.TicketPoint {
	switch p.Type {
	case models.PointOfficialStop:
		return models.TicketPoint{Type: p.Type, StopID: p.StopID}
	default:
		return models.TicketPoint{
			Type:                p.Type,
			LocationDescription: strings.TrimSpace(p.LocationDescription),
			Latitude:            p.Latitude,
			Longitude:           p.Longitude,
		}
	}
}
