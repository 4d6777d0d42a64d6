package services

import (
	"errors"
	"testing"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"
	"busline/internal/utils"

	"github.com/DATA-DOG/go-sqlmock"
)

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	svc := BookingService{
		Routes:  repositories.RouteRepository{DB: db},
		Tickets: repositories.TicketRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func validBookingInput() BookingInput {
	stopID := int64(9)
	return BookingInput{
		RouteID:        5,
		TravelDate:     "2025-01-15",
		DepartureTime:  "08:00",
		PassengerName:  "Maria Silva",
		PassengerPhone: "11999990000",
		SeatNumber:     "a12",
		Boarding:       models.TicketPoint{Type: models.PointOfficialStop, StopID: &stopID},
		Landing:        models.TicketPoint{Type: models.PointSpecificLocation, LocationDescription: "Av. Central, 100"},
	}
}

func expectRouteLookup(mock sqlmock.Sqlmock) {
	mock.ExpectQuery("FROM routes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "description", "is_active"}).
			AddRow(5, 1, "Linha Norte", "", true))
}

// expectReservingInsert registers the transactional count+insert sequence.
func expectReservingInsert(mock sqlmock.Sqlmock, active int, ticketID int64) {
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(active))
	mock.ExpectExec("INSERT INTO tickets").WillReturnResult(sqlmock.NewResult(ticketID, 1))
	mock.ExpectCommit()
}

func TestScheduleTripBookingCreatesReservedTicket(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	expectRouteLookup(mock)
	expectReservingInsert(mock, 0, 11)

	departure, _ := utils.CombineDateClock("2025-01-15", "08:00")
	svc.Materialize = func(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error) {
		return models.Trip{ID: 7, RouteID: routeID, CompanyID: companyID, DepartureTime: departure, BasePrice: 4500}, nil
	}
	svc.RecomputeSeats = func(tripID int64) (int, int, error) {
		return 40, 39, nil
	}

	result, err := svc.ScheduleTripBooking(validBookingInput(), 1)
	if err != nil {
		t.Fatalf("ScheduleTripBooking returned error: %v", err)
	}
	if result.Ticket.ID != 11 || result.Ticket.Status != models.TicketReserved {
		t.Fatalf("unexpected ticket: %+v", result.Ticket)
	}
	if result.Ticket.Price != 4500 {
		t.Fatalf("expected base price fallback 4500, got %d", result.Ticket.Price)
	}
	if result.Ticket.SeatNumber != "A12" {
		t.Fatalf("expected normalized seat A12, got %q", result.Ticket.SeatNumber)
	}
	if result.Trip.TotalSeats != 40 || result.Trip.AvailableSeats != 39 {
		t.Fatalf("expected refreshed counters 40/39, got %d/%d", result.Trip.TotalSeats, result.Trip.AvailableSeats)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestScheduleTripBookingExplicitPriceWins(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	expectRouteLookup(mock)
	expectReservingInsert(mock, 0, 12)

	svc.Materialize = func(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error) {
		return models.Trip{ID: 7, BasePrice: 4500}, nil
	}
	svc.RecomputeSeats = func(tripID int64) (int, int, error) { return 0, 0, nil }

	in := validBookingInput()
	price := int64(3000)
	in.Price = &price

	result, err := svc.ScheduleTripBooking(in, 1)
	if err != nil {
		t.Fatalf("ScheduleTripBooking returned error: %v", err)
	}
	if result.Ticket.Price != 3000 {
		t.Fatalf("expected explicit price 3000, got %d", result.Ticket.Price)
	}
}

func TestScheduleTripBookingCapacityExceeded(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	expectRouteLookup(mock)
	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	svc.Materialize = func(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error) {
		return models.Trip{ID: 7, TotalSeats: 2, AvailableSeats: 0}, nil
	}

	_, err := svc.ScheduleTripBooking(validBookingInput(), 1)
	if !domain.IsCapacityExceeded(err) {
		t.Fatalf("expected capacity exceeded, got %v", err)
	}
	var capacity domain.CapacityExceededError
	if !errors.As(err, &capacity) || capacity.ActiveTickets != 2 || capacity.TotalSeats != 2 {
		t.Fatalf("unexpected capacity details: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expected no ticket insert: %v", err)
	}
}

// The count and the insert must share one transaction, in that order, so two
// bookings racing for the last seat cannot both pass the check.
func TestScheduleTripBookingCountsAndInsertsInOneTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	svc := BookingService{
		Routes:  repositories.RouteRepository{DB: db},
		Tickets: repositories.TicketRepository{DB: db},
	}
	svc.Materialize = func(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error) {
		return models.Trip{ID: 7, TotalSeats: 40}, nil
	}
	svc.RecomputeSeats = func(tripID int64) (int, int, error) { return 40, 39, nil }

	// Ordered expectations: begin, locked count, insert, commit.
	expectRouteLookup(mock)
	expectReservingInsert(mock, 39, 14)

	result, err := svc.ScheduleTripBooking(validBookingInput(), 1)
	if err != nil {
		t.Fatalf("ScheduleTripBooking returned error: %v", err)
	}
	if result.Ticket.ID != 14 {
		t.Fatalf("unexpected ticket id %d", result.Ticket.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction sequence broken: %v", err)
	}
}

func TestScheduleTripBookingRecomputeFailureIsNotFatal(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	expectRouteLookup(mock)
	expectReservingInsert(mock, 0, 13)

	svc.Materialize = func(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error) {
		return models.Trip{ID: 7}, nil
	}
	svc.RecomputeSeats = func(tripID int64) (int, int, error) {
		return 0, 0, errors.New("seat update failed")
	}

	result, err := svc.ScheduleTripBooking(validBookingInput(), 1)
	if err != nil {
		t.Fatalf("booking should survive a recompute failure, got %v", err)
	}
	if result.Ticket.ID != 13 {
		t.Fatalf("unexpected ticket id %d", result.Ticket.ID)
	}
}

func TestScheduleTripBookingPropagatesMaterializationErrors(t *testing.T) {
	svc, mock, closeDB := newBookingService(t)
	defer closeDB()

	expectRouteLookup(mock)
	svc.Materialize = func(routeID int64, travelDate, departureTime string, companyID int64) (models.Trip, error) {
		return models.Trip{}, domain.ScheduleConflictError{RouteID: routeID, DayOfWeek: 2, DayName: utils.DayName(2)}
	}

	_, err := svc.ScheduleTripBooking(validBookingInput(), 1)
	if !domain.IsScheduleConflict(err) {
		t.Fatalf("expected schedule conflict to pass through, got %v", err)
	}
}

func TestScheduleTripBookingValidation(t *testing.T) {
	svc, _, closeDB := newBookingService(t)
	defer closeDB()

	cases := []struct {
		name   string
		mutate func(*BookingInput)
	}{
		{"missing passenger name", func(in *BookingInput) { in.PassengerName = " " }},
		{"missing phone", func(in *BookingInput) { in.PassengerPhone = "" }},
		{"missing travel date", func(in *BookingInput) { in.TravelDate = "" }},
		{"official stop without id", func(in *BookingInput) { in.Boarding = models.TicketPoint{Type: models.PointOfficialStop} }},
		{"location without description", func(in *BookingInput) { in.Landing = models.TicketPoint{Type: models.PointSpecificLocation} }},
		{"unknown point type", func(in *BookingInput) { in.Boarding = models.TicketPoint{Type: "somewhere"} }},
	}
	for _, tc := range cases {
		in := validBookingInput()
		tc.mutate(&in)
		if _, err := svc.ScheduleTripBooking(in, 1); !domain.IsValidation(err) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}
