package services

import (
	"testing"

	"busline/internal/domain"
	"busline/internal/domain/models"
	"busline/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newAvailabilityService(t *testing.T) (AvailabilityService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	svc := AvailabilityService{
		Routes:   repositories.RouteRepository{DB: db},
		Schedule: ScheduleService{Now: fixedNow},
	}
	return svc, mock, func() { db.Close() }
}

func TestGetRouteAvailability(t *testing.T) {
	svc, mock, closeDB := newAvailabilityService(t)
	defer closeDB()

	mock.ExpectQuery("FROM routes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "description", "is_active"}).
			AddRow(5, 1, "Linha Norte", "Terminal ao litoral", true))
	mock.ExpectQuery("FROM route_schedules").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "day_of_week", "is_active"}).
			AddRow(1, 5, 1, true).
			AddRow(2, 5, 3, true).
			AddRow(3, 5, 5, false))
	mock.ExpectQuery("FROM route_stops").
		WillReturnRows(sqlmock.NewRows([]string{"id", "route_id", "stop_id", "seq", "departure_time"}).
			AddRow(1, 5, 9, 1, "07:30").
			AddRow(2, 5, 10, 2, ""))

	out, err := svc.GetRouteAvailability(5, 1, nil, nil)
	if err != nil {
		t.Fatalf("GetRouteAvailability returned error: %v", err)
	}
	if out.Route.Name != "Linha Norte" {
		t.Fatalf("unexpected route: %+v", out.Route)
	}
	if !out.Availability.IsAvailable || out.Availability.AvailableDatesCount != 10 {
		t.Fatalf("unexpected availability: %+v", out.Availability)
	}
	if len(out.Availability.AvailableTimes) != 1 || out.Availability.AvailableTimes[0] != "07:30" {
		t.Fatalf("expected first-stop time 07:30, got %v", out.Availability.AvailableTimes)
	}
	if len(out.Schedules) != 2 {
		t.Fatalf("expected 2 active schedule summaries, got %d", len(out.Schedules))
	}
	if out.Schedules[0].DayName != "Segunda" || out.Schedules[1].DayName != "Quarta" {
		t.Fatalf("unexpected day names: %+v", out.Schedules)
	}
}

func TestGetRouteAvailabilityNotFound(t *testing.T) {
	svc, mock, closeDB := newAvailabilityService(t)
	defer closeDB()

	mock.ExpectQuery("FROM routes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "name", "description", "is_active"}))

	_, err := svc.GetRouteAvailability(5, 2, nil, nil)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found for foreign company, got %v", err)
	}
}

func TestRouteTimesDefault(t *testing.T) {
	times := routeTimes([]models.RouteStop{{Seq: 1, DepartureTime: " "}})
	if len(times) != 1 || times[0] != DefaultDepartureClock {
		t.Fatalf("expected default clock, got %v", times)
	}
	times = routeTimes(nil)
	if len(times) != 1 || times[0] != DefaultDepartureClock {
		t.Fatalf("expected default clock for empty stops, got %v", times)
	}
}
