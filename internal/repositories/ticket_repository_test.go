package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"busline/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newTicketRepo(t *testing.T) (TicketRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return TicketRepository{DB: db}, mock, func() { db.Close() }
}

func TestCountActiveByTripOnlyReservedAndConfirmed(t *testing.T) {
	repo, mock, closeDB := newTicketRepo(t)
	defer closeDB()

	mock.ExpectQuery("status IN \\('reserved','confirmed'\\)").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountActiveByTrip(7)
	if err != nil {
		t.Fatalf("CountActiveByTrip returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3, got %d", count)
	}
}

func TestUpdateTicketStatusNoRows(t *testing.T) {
	repo, mock, closeDB := newTicketRepo(t)
	defer closeDB()

	mock.ExpectExec("UPDATE tickets SET status").
		WithArgs(models.TicketCancelled, int64(404), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(404, 1, models.TicketCancelled)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestInsertReservingCommitsWhenSeatFree(t *testing.T) {
	repo, mock, closeDB := newTicketRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("INSERT INTO tickets").WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	ticket, active, err := repo.InsertReserving(models.Ticket{
		TripID:         7,
		CompanyID:      1,
		PassengerName:  "Maria Silva",
		PassengerPhone: "11999990000",
		Status:         models.TicketReserved,
	}, 40)
	if err != nil {
		t.Fatalf("InsertReserving returned error: %v", err)
	}
	if ticket.ID != 11 || active != 1 {
		t.Fatalf("expected id 11 with 1 active, got %d/%d", ticket.ID, active)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInsertReservingRejectsFullTrip(t *testing.T) {
	repo, mock, closeDB := newTicketRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	_, active, err := repo.InsertReserving(models.Ticket{TripID: 7, CompanyID: 1}, 2)
	if !errors.Is(err, ErrNoSeatAvailable) {
		t.Fatalf("expected ErrNoSeatAvailable, got %v", err)
	}
	if active != 2 {
		t.Fatalf("expected observed count 2, got %d", active)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("full trip must insert nothing: %v", err)
	}
}

func TestInsertReservingSkipsCheckWithoutVehicles(t *testing.T) {
	repo, mock, closeDB := newTicketRepo(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectExec("INSERT INTO tickets").WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	ticket, _, err := repo.InsertReserving(models.Ticket{TripID: 7, CompanyID: 1}, 0)
	if err != nil {
		t.Fatalf("zero-seat trip must accept reservations, got %v", err)
	}
	if ticket.ID != 12 {
		t.Fatalf("expected id 12, got %d", ticket.ID)
	}
}

func TestInsertTicketAssignsID(t *testing.T) {
	repo, mock, closeDB := newTicketRepo(t)
	defer closeDB()

	mock.ExpectExec("INSERT INTO tickets").WillReturnResult(sqlmock.NewResult(11, 1))

	stopID := int64(9)
	ticket, err := repo.Insert(models.Ticket{
		TripID:         7,
		CompanyID:      1,
		PassengerName:  "Maria Silva",
		PassengerPhone: "11999990000",
		Status:         models.TicketReserved,
		Boarding:       models.TicketPoint{Type: models.PointOfficialStop, StopID: &stopID},
		Landing:        models.TicketPoint{Type: models.PointSpecificLocation, LocationDescription: "Av. Central, 100"},
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if ticket.ID != 11 {
		t.Fatalf("expected id 11, got %d", ticket.ID)
	}
}
