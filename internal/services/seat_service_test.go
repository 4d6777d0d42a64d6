package services

import (
	"testing"

	"busline/internal/domain"
	"busline/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newSeatService(t *testing.T) (SeatService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	svc := SeatService{
		Trips:   repositories.TripRepository{DB: db},
		Tickets: repositories.TicketRepository{DB: db},
	}
	return svc, mock, func() { db.Close() }
}

func TestRecomputeSeats(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trip_vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(40))
	mock.ExpectQuery("FROM tickets").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec("UPDATE trips SET total_seats").
		WithArgs(40, 38, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	total, available, err := svc.Recompute(7)
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if total != 40 || available != 38 {
		t.Fatalf("expected 40/38, got %d/%d", total, available)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecomputeSeatsOversoldClampsToZero(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trip_vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(10))
	mock.ExpectQuery("FROM tickets").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectExec("UPDATE trips SET total_seats").
		WithArgs(10, 0, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	total, available, err := svc.Recompute(7)
	if !domain.IsCapacityExceeded(err) {
		t.Fatalf("expected capacity exceeded flag, got %v", err)
	}
	if total != 10 || available != 0 {
		t.Fatalf("expected persisted 10/0, got %d/%d", total, available)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("counters must still be persisted: %v", err)
	}
}

func TestRecomputeSeatsNoVehicles(t *testing.T) {
	svc, mock, closeDB := newSeatService(t)
	defer closeDB()

	mock.ExpectQuery("FROM trip_vehicles").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))
	mock.ExpectQuery("FROM tickets").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("UPDATE trips SET total_seats").
		WithArgs(0, 0, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	total, available, err := svc.Recompute(7)
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if total != 0 || available != 0 {
		t.Fatalf("expected 0/0, got %d/%d", total, available)
	}
}
